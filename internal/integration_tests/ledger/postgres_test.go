//go:build integration

package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	accessstore "consentgate/internal/access/store"
	consentstore "consentgate/internal/consent/store"
	govstore "consentgate/internal/governance/store"
	"consentgate/internal/platform/config"
	"consentgate/internal/platform/kafka"
	kafkaconsumer "consentgate/internal/platform/kafka/consumer"
	"consentgate/internal/ratelimit/store/counts"
	researcherstore "consentgate/internal/researcher/store"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	auditconsumer "consentgate/pkg/platform/audit/consumer"
	auditpostgres "consentgate/pkg/platform/audit/store/postgres"
	"consentgate/pkg/platform/audit/worker"
	"consentgate/pkg/platform/tx"
	"consentgate/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	outbox *auditpostgres.Store
	h      *harness
}

func TestPostgresLedgerSuite(t *testing.T) {
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background()))
	s.outbox = auditpostgres.New(s.pg.DB)
	s.h = newHarness(s.T(), backend{
		runner:      tx.NewSQLRunner(s.pg.DB, 5*time.Second),
		settings:    govstore.NewPostgres(s.pg.DB),
		consents:    consentstore.NewPostgres(s.pg.DB),
		researchers: researcherstore.NewPostgres(s.pg.DB),
		counts:      counts.NewPostgres(s.pg.DB),
		accessLog:   accessstore.NewPostgres(s.pg.DB),
		audit:       s.outbox,
		auditReader: s.outbox,
	}, defaultSettings())
}

func (s *PostgresLedgerSuite) outboxRows() int {
	var n int
	s.Require().NoError(s.pg.DB.QueryRow(`SELECT count(*) FROM outbox`).Scan(&n))
	return n
}

// ============================================================================
// Access flow
// ============================================================================

func (s *PostgresLedgerSuite) TestAccessFlow() {
	ctx := context.Background()
	s.Require().NoError(s.h.researchers.VerifyResearcher(ctx, authority, researcher))

	s.Run("rejected request leaves no trace", func() {
		before := s.outboxRows()
		_, err := s.h.access.RequestAccess(ctx, researcher, 1, id.AccessReadOnly)
		s.True(dErrors.HasCode(err, dErrors.CodeConsentRequired))

		total, err := s.h.access.GetTotalAccessCount(ctx)
		s.Require().NoError(err)
		s.Zero(total)
		s.Equal(before, s.outboxRows())
	})

	s.Run("granted request is logged and audited", func() {
		_, err := s.h.consent.SetConsent(ctx, patient, 1, researcher, 10, id.AccessReadOnly)
		s.Require().NoError(err)
		before := s.outboxRows()

		logID, err := s.h.access.RequestAccess(ctx, researcher, 1, id.AccessReadOnly)
		s.Require().NoError(err)
		s.Equal(id.LogID(0), logID)

		entry, err := s.h.access.GetAccessLog(ctx, logID)
		s.Require().NoError(err)
		s.Require().NotNil(entry)
		s.Equal(patient, entry.Patient)
		s.Equal(id.Height(100), entry.Timestamp)
		s.Equal(before+1, s.outboxRows())
	})

	s.Run("inactive record is rejected", func() {
		_, err := s.h.consent.SetConsent(ctx, patient, 2, researcher, 10, id.AccessReadOnly)
		s.Require().NoError(err)
		_, err = s.h.access.RequestAccess(ctx, researcher, 2, id.AccessReadOnly)
		s.True(dErrors.HasCode(err, dErrors.CodeDataInactive))
	})
}

// ============================================================================
// Concurrency
// ============================================================================

func (s *PostgresLedgerSuite) TestConcurrentRequestsRespectCycleLimit() {
	ctx := context.Background()
	s.Require().NoError(s.h.researchers.VerifyResearcher(ctx, authority, researcher))
	_, err := s.h.consent.SetConsent(ctx, patient, 1, researcher, 50, id.AccessReadOnly)
	s.Require().NoError(err)

	const workers = 16
	var (
		mu      sync.Mutex
		granted int
		limited int
		logIDs  = map[id.LogID]bool{}
		g, gctx = errgroup.WithContext(ctx)
	)
	for range workers {
		g.Go(func() error {
			logID, err := s.h.access.RequestAccess(gctx, researcher, 1, id.AccessReadOnly)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				granted++
				logIDs[logID] = true
			case dErrors.HasCode(err, dErrors.CodeAccessLimitExceeded):
				limited++
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	limit := int(defaultSettings().AccessLimitPerCycle)
	s.Equal(limit+1, granted)
	s.Equal(workers-limit-1, limited)
	s.Len(logIDs, granted, "log ids are unique")

	total, err := s.h.access.GetTotalAccessCount(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(granted), total)
}

func (s *PostgresLedgerSuite) TestConcurrentConsentsRespectMaxConsents() {
	ctx := context.Background()
	s.Require().NoError(s.h.consent.SetMaxConsents(ctx, authority, 3))

	const workers = 10
	var (
		mu       sync.Mutex
		accepted int
		g, gctx  = errgroup.WithContext(ctx)
	)
	for i := range workers {
		g.Go(func() error {
			_, err := s.h.consent.SetConsent(gctx, patient, id.DataID(100+i), researcher, 10, id.AccessReadOnly)
			if dErrors.HasCode(err, dErrors.CodeMaxConsentsExceeded) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			accepted++
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(3, accepted)

	count, err := s.h.consent.GetConsentCount(ctx, patient)
	s.Require().NoError(err)
	s.Equal(uint64(3), count.Count)
}

// ============================================================================
// Audit pipeline
// ============================================================================

func (s *PostgresLedgerSuite) TestAuditPipelineProjectsEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rp := containers.GetManager().GetRedpanda(s.T())
	topic := "consentgate.audit." + time.Now().Format("150405.000000")

	_, err := s.h.consent.SetConsent(ctx, patient, 1, researcher, 10, id.AccessReadOnly)
	s.Require().NoError(err)

	producer, err := kafka.NewProducer(config.KafkaConfig{Brokers: rp.Brokers, ClientID: "ledger-test"})
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, topic, 1, 1, logger))

	relay := worker.NewRelay(s.outbox, producer, tx.NewSQLRunner(s.pg.DB, 5*time.Second), topic, worker.WithLogger(logger))
	shipped, err := relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Equal(1, shipped)
	s.Zero(s.unpublished())

	consumer, err := kafkaconsumer.New(rp.Brokers, "ledger-test-"+topic, []string{topic},
		auditconsumer.NewComplianceHandler(s.outbox, logger), logger)
	s.Require().NoError(err)
	consumerCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- consumer.Run(consumerCtx) }()

	s.Eventually(func() bool {
		events, err := s.h.audit.List(ctx, authority, patient, 10)
		return err == nil && len(events) == 1
	}, 30*time.Second, 200*time.Millisecond)

	stop()
	s.NoError(<-done)
}

func (s *PostgresLedgerSuite) unpublished() int {
	var n int
	s.Require().NoError(s.pg.DB.QueryRow(`SELECT count(*) FROM outbox WHERE published_at IS NULL`).Scan(&n))
	return n
}
