package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	govmodels "consentgate/internal/governance/models"
	govStore "consentgate/internal/governance/store"
	researcherStore "consentgate/internal/researcher/store"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/tx"
)

const (
	authority  = id.Identity("ST3AUTHORITY")
	researcher = id.Identity("ST2RESEARCHER")
)

type ResearcherServiceSuite struct {
	suite.Suite
	settings *govStore.InMemoryStore
	service  *Service
}

func TestResearcherServiceSuite(t *testing.T) {
	suite.Run(t, new(ResearcherServiceSuite))
}

func (s *ResearcherServiceSuite) SetupTest() {
	s.settings = govStore.NewInMemoryStore()
	s.Require().NoError(s.settings.Save(context.Background(), &govmodels.Settings{
		Authority:           authority,
		MaxConsents:         100,
		AccessLimitPerCycle: 10,
		CycleDuration:       144,
	}))
	s.service = New(researcherStore.NewInMemoryStore(), s.settings, tx.NewMemoryRunner(0))
}

func (s *ResearcherServiceSuite) TestVerifyResearcher() {
	ctx := context.Background()

	s.Run("unknown researcher is unverified", func() {
		ok, err := s.service.IsVerified(ctx, researcher)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("non-authority rejected", func() {
		err := s.service.VerifyResearcher(ctx, researcher, researcher)
		s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
	})

	s.Run("authority check runs before the identity check", func() {
		err := s.service.VerifyResearcher(ctx, researcher, id.NullIdentity)
		s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))

		err = s.service.VerifyResearcher(ctx, authority, id.NullIdentity)
		s.Equal(dErrors.CodeInvalidResearcher, dErrors.CodeOf(err))
	})

	s.Run("verification is idempotent", func() {
		s.Require().NoError(s.service.VerifyResearcher(ctx, authority, researcher))
		s.Require().NoError(s.service.VerifyResearcher(ctx, authority, researcher))

		ok, err := s.service.IsVerified(ctx, researcher)
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *ResearcherServiceSuite) TestTunables() {
	ctx := context.Background()

	s.Run("non-authority cannot change the limit", func() {
		err := s.service.SetAccessLimitPerCycle(ctx, researcher, 5)
		s.Equal(dErrors.CodeNotAuthorized, dErrors.CodeOf(err))
	})

	s.Run("zero values rejected", func() {
		s.Equal(dErrors.CodeInvalidParameter, dErrors.CodeOf(s.service.SetAccessLimitPerCycle(ctx, authority, 0)))
		s.Equal(dErrors.CodeInvalidParameter, dErrors.CodeOf(s.service.SetCycleDuration(ctx, authority, 0)))
	})

	s.Run("authority replaces both tunables", func() {
		s.Require().NoError(s.service.SetAccessLimitPerCycle(ctx, authority, 3))
		s.Require().NoError(s.service.SetCycleDuration(ctx, authority, 20))

		got, err := s.settings.Get(ctx)
		s.Require().NoError(err)
		s.Equal(uint64(3), got.AccessLimitPerCycle)
		s.Equal(uint64(20), got.CycleDuration)
		s.Equal(uint64(100), got.MaxConsents)
	})
}
