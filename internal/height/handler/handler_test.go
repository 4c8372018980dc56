package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"consentgate/internal/height"
	id "consentgate/pkg/domain"
	"consentgate/pkg/testutil"
)

func newRouter(start uint64) (http.Handler, *height.Manual) {
	clock := height.NewManual(id.Height(start))
	r := chi.NewRouter()
	New(height.ManualDriver(clock), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, clock
}

func TestHandleMove(t *testing.T) {
	t.Run("advance", func(t *testing.T) {
		router, _ := newRouter(10)
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/ops/height", `{"advance":5}`))

		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, uint64(15), testutil.UnmarshalResponse[HeightResponse](t, rr).Height)
	})

	t.Run("set never lowers the clock", func(t *testing.T) {
		router, _ := newRouter(10)
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/ops/height", `{"height":3}`))

		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, uint64(10), testutil.UnmarshalResponse[HeightResponse](t, rr).Height)
	})

	t.Run("both fields rejected", func(t *testing.T) {
		router, _ := newRouter(10)
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/ops/height", `{"height":3,"advance":1}`))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("advance beyond maximum rejected", func(t *testing.T) {
		router, _ := newRouter(10)
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/ops/height", `{"advance":18446744073709551615}`))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_parameter")
	})
}

func TestHandleGet(t *testing.T) {
	router, clock := newRouter(4)
	clock.Advance(2)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/ops/height"))

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, uint64(6), testutil.UnmarshalResponse[HeightResponse](t, rr).Height)
}
