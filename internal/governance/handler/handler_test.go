package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentgate/internal/governance/handler/mocks"
	"consentgate/internal/governance/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/sentinel"
	"consentgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/governance-mocks.go -package=mocks LedgerAdmin,LimiterAdmin,SettingsReader

type GovernanceHandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	ledger   *mocks.MockLedgerAdmin
	limiter  *mocks.MockLimiterAdmin
	settings *mocks.MockSettingsReader
	router   http.Handler
}

func (s *GovernanceHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedgerAdmin(s.ctrl)
	s.limiter = mocks.NewMockLimiterAdmin(s.ctrl)
	s.settings = mocks.NewMockSettingsReader(s.ctrl)
	r := chi.NewRouter()
	New(s.ledger, s.limiter, s.settings, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func TestGovernanceHandlerSuite(t *testing.T) {
	suite.Run(t, new(GovernanceHandlerSuite))
}

// =============================================================================
// Settings
// =============================================================================

func (s *GovernanceHandlerSuite) TestGetSettings() {
	s.Run("renders settings", func() {
		s.settings.EXPECT().Get(gomock.Any()).Return(&models.Settings{
			Authority:           "ST3AUTHORITY",
			MaxConsents:         100,
			AccessLimitPerCycle: 10,
			CycleDuration:       144,
			CycleStartHeight:    7,
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/settings"))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[SettingsResponse](s.T(), rr)
		s.Equal("ST3AUTHORITY", resp.Authority)
		s.Equal(uint64(144), resp.CycleDuration)
		s.Equal(uint64(7), resp.CycleStartHeight)
	})

	s.Run("store failure is internal", func() {
		s.settings.EXPECT().Get(gomock.Any()).Return(nil, sentinel.ErrNotFound)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/settings"))

		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	})
}

// =============================================================================
// Authority
// =============================================================================

func (s *GovernanceHandlerSuite) TestSetAuthority() {
	s.Run("assigns authority", func() {
		s.ledger.EXPECT().SetAuthority(gomock.Any(), id.Identity("ST1DEPLOYER"), id.Identity("ST3AUTHORITY")).Return(nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/authority", SetAuthorityRequest{Authority: "ST3AUTHORITY"})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST1DEPLOYER"))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "authority", "ST3AUTHORITY")
	})

	s.Run("empty authority rejected before the ledger", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/authority", SetAuthorityRequest{Authority: "  "})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST1DEPLOYER"))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_researcher")
	})

	s.Run("second assignment is forbidden", func() {
		s.ledger.EXPECT().SetAuthority(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeNotAuthorized, "authority already set"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/authority", SetAuthorityRequest{Authority: "ST9OTHER"})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST1DEPLOYER"))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "not_authorized")
	})
}

// =============================================================================
// Tunables
// =============================================================================

func (s *GovernanceHandlerSuite) TestTunables() {
	s.Run("max consents", func() {
		s.ledger.EXPECT().SetMaxConsents(gomock.Any(), id.Identity("ST3AUTHORITY"), uint64(5)).Return(nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/max-consents", TunableRequest{Value: 5})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST3AUTHORITY"))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "value", float64(5))
	})

	s.Run("access limit", func() {
		s.limiter.EXPECT().SetAccessLimitPerCycle(gomock.Any(), id.Identity("ST3AUTHORITY"), uint64(3)).Return(nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/access-limit", TunableRequest{Value: 3})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST3AUTHORITY"))

		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("zero cycle duration is invalid_parameter", func() {
		s.limiter.EXPECT().SetCycleDuration(gomock.Any(), gomock.Any(), uint64(0)).
			Return(dErrors.New(dErrors.CodeInvalidParameter, "cycle duration must be positive"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/cycle-duration", TunableRequest{Value: 0})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST3AUTHORITY"))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_parameter")
	})

	s.Run("unknown field rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/admin/max-consents", `{"limit":3}`)
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "ST3AUTHORITY"))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}
