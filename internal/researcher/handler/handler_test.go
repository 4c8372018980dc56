package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"consentgate/internal/researcher/handler/mocks"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/researcher-mocks.go -package=mocks Service

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(mockService, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, mockService
}

func TestHandleVerify(t *testing.T) {
	t.Run("authority verifies", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().VerifyResearcher(gomock.Any(), id.Identity("ST3AUTHORITY"), id.Identity("ST2RESEARCHER")).Return(nil)

		req := testutil.WithCaller(testutil.NewRequest(t, http.MethodPost, "/researchers/ST2RESEARCHER/verify"), "ST3AUTHORITY")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "verified", true)
	})

	t.Run("non-authority forbidden", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().VerifyResearcher(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeNotAuthorized, "only the authority may verify researchers"))

		req := testutil.WithCaller(testutil.NewRequest(t, http.MethodPost, "/researchers/ST2RESEARCHER/verify"), "ST1PATIENT")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "not_authorized")
	})
}

func TestHandleGet(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().IsVerified(gomock.Any(), id.Identity("ST2RESEARCHER")).Return(false, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/researchers/ST2RESEARCHER"))

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ResearcherResponse](t, rr)
	assert.False(t, resp.Verified)
	assert.Equal(t, "ST2RESEARCHER", resp.Researcher)
}
