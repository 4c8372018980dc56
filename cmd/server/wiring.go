package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	accessservice "consentgate/internal/access/service"
	accessstore "consentgate/internal/access/store"
	auditsvc "consentgate/internal/audit"
	consentservice "consentgate/internal/consent/service"
	consentstore "consentgate/internal/consent/store"
	"consentgate/internal/dataregistry"
	govstore "consentgate/internal/governance/store"
	"consentgate/internal/height"
	"consentgate/internal/platform/config"
	"consentgate/internal/platform/kafka"
	kafkaconsumer "consentgate/internal/platform/kafka/consumer"
	"consentgate/internal/platform/postgres"
	platformredis "consentgate/internal/platform/redis"
	"consentgate/internal/ratelimit/service/limiter"
	"consentgate/internal/ratelimit/store/counts"
	researcherservice "consentgate/internal/researcher/service"
	researcherstore "consentgate/internal/researcher/store"
	httptransport "consentgate/internal/transport/http"
	"consentgate/pkg/platform/audit"
	auditconsumer "consentgate/pkg/platform/audit/consumer"
	auditmemory "consentgate/pkg/platform/audit/store/memory"
	auditpostgres "consentgate/pkg/platform/audit/store/postgres"
	"consentgate/pkg/platform/audit/worker"
	"consentgate/pkg/platform/tx"
)

// infra holds the optional external connections.
type infra struct {
	db    *sql.DB
	redis *platformredis.Client
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{}
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		in.db = db
		log.InfoContext(ctx, "using postgres stores")
	} else {
		log.InfoContext(ctx, "using in-memory stores")
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = rc
	return in, nil
}

func (in *infra) Close() {
	if in.db != nil {
		_ = in.db.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
}

func (in *infra) healthChecks() map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Check
	}
	return checks
}

// newClock returns the height source and, for clocks the operator may move,
// its driver.
func newClock(cfg config.Server, in *infra) (height.Source, height.Driver, error) {
	switch cfg.Height.Source {
	case config.HeightSourceManual:
		driver := height.ManualDriver(height.NewManual(0))
		return driver, driver, nil
	case config.HeightSourceWallclock:
		return height.NewWallclock(cfg.Height.Genesis, cfg.Height.BlockInterval), nil, nil
	case config.HeightSourceRedis:
		if in.redis == nil {
			return nil, nil, fmt.Errorf("height source %q requires REDIS_URL", cfg.Height.Source)
		}
		r := height.NewRedis(in.redis, in.redis.Key(cfg.Height.RedisKey))
		return r, r, nil
	default:
		return nil, nil, fmt.Errorf("unknown height source %q", cfg.Height.Source)
	}
}

// stores is one consistent persistence backend.
type stores struct {
	runner      tx.Runner
	settings    govstore.Store
	consents    consentservice.Store
	researchers researcherservice.Store
	counts      limiter.CountStore
	accessLog   accessservice.LogStore
	audit       audit.Store
	auditReader auditsvc.Reader
	outbox      *auditpostgres.Store
}

func newStores(cfg config.Server, in *infra) *stores {
	if in.db == nil {
		auditStore := auditmemory.NewInMemoryStore()
		return &stores{
			runner:      tx.NewMemoryRunner(cfg.TxTimeout),
			settings:    govstore.NewInMemoryStore(),
			consents:    consentstore.NewInMemoryStore(),
			researchers: researcherstore.NewInMemoryStore(),
			counts:      counts.NewInMemory(),
			accessLog:   accessstore.NewInMemory(),
			audit:       auditStore,
			auditReader: auditStore,
		}
	}

	outbox := auditpostgres.New(in.db)
	return &stores{
		runner:      tx.NewSQLRunner(in.db, cfg.TxTimeout),
		settings:    govstore.NewPostgres(in.db),
		consents:    consentstore.NewPostgres(in.db),
		researchers: researcherstore.NewPostgres(in.db),
		counts:      counts.NewPostgres(in.db),
		accessLog:   accessstore.NewPostgres(in.db),
		audit:       outbox,
		auditReader: outbox,
		outbox:      outbox,
	}
}

// newDataRegistry prefers the remote registry and falls back to the seeded
// in-memory one.
func newDataRegistry(cfg config.Server, log *slog.Logger) (dataregistry.Client, error) {
	if cfg.DataRegistry.URL != "" {
		return dataregistry.NewHTTPClient(cfg.DataRegistry.URL, cfg.DataRegistry.Timeout), nil
	}
	reg := dataregistry.NewInMemory()
	if cfg.DataRegistry.SeedFile != "" {
		n, err := reg.LoadSeedFile(cfg.DataRegistry.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Info("data registry seeded", "records", n, "file", cfg.DataRegistry.SeedFile)
	}
	return reg, nil
}

// startAuditPipeline runs the outbox relay and the audit_events projection.
// Both need Postgres and Kafka.
func startAuditPipeline(ctx context.Context, g *errgroup.Group, cfg config.Server, in *infra, st *stores, log *slog.Logger) error {
	if len(cfg.Kafka.Brokers) == 0 {
		if st.outbox != nil {
			log.WarnContext(ctx, "KAFKA_BROKERS unset: audit events stay in the outbox and the audit trail endpoint is empty")
		}
		return nil
	}
	if st.outbox == nil {
		log.WarnContext(ctx, "kafka configured without postgres: audit pipeline disabled")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	if err := kafka.EnsureTopic(ctx, producer, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor, log); err != nil {
		producer.Close()
		return err
	}

	relay := worker.NewRelay(st.outbox, producer, st.runner, cfg.Kafka.AuditTopic,
		worker.WithBatchSize(cfg.Kafka.RelayBatchSize),
		worker.WithInterval(cfg.Kafka.RelayInterval),
		worker.WithLogger(log),
	)
	projector, err := kafkaconsumer.New(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, []string{cfg.Kafka.AuditTopic},
		auditconsumer.NewComplianceHandler(st.outbox, log), log)
	if err != nil {
		producer.Close()
		return err
	}

	g.Go(func() error {
		defer producer.Close()
		return relay.Run(ctx)
	})
	g.Go(func() error {
		return projector.Run(ctx)
	})
	log.InfoContext(ctx, "audit pipeline started", "topic", cfg.Kafka.AuditTopic, "brokers", cfg.Kafka.Brokers)
	return nil
}
