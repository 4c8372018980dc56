package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	accessadapters "consentgate/internal/access/adapters"
	accesshandler "consentgate/internal/access/handler"
	accessmetrics "consentgate/internal/access/metrics"
	accessservice "consentgate/internal/access/service"
	auditsvc "consentgate/internal/audit"
	audithandler "consentgate/internal/audit/handler"
	consenthandler "consentgate/internal/consent/handler"
	consentmetrics "consentgate/internal/consent/metrics"
	consentservice "consentgate/internal/consent/service"
	"consentgate/internal/governance"
	govhandler "consentgate/internal/governance/handler"
	govmodels "consentgate/internal/governance/models"
	heighthandler "consentgate/internal/height/handler"
	jwttoken "consentgate/internal/jwt_token"
	"consentgate/internal/platform/config"
	"consentgate/internal/platform/httpserver"
	"consentgate/internal/platform/logger"
	"consentgate/internal/platform/metrics"
	rlmetrics "consentgate/internal/ratelimit/metrics"
	"consentgate/internal/ratelimit/service/limiter"
	"consentgate/internal/ratelimit/throttle"
	researcherhandler "consentgate/internal/researcher/handler"
	researcherservice "consentgate/internal/researcher/service"
	httptransport "consentgate/internal/transport/http"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/audit/publishers/compliance"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("consentgate stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	clock, driver, err := newClock(cfg, infra)
	if err != nil {
		return err
	}

	st := newStores(cfg, infra)

	settings, err := governance.Seed(ctx, st.runner, st.settings, govmodels.Settings{
		Authority:           id.Identity(cfg.Ledger.Authority),
		MaxConsents:         cfg.Ledger.MaxConsents,
		AccessLimitPerCycle: cfg.Ledger.AccessLimitPerCycle,
		CycleDuration:       cfg.Ledger.CycleDuration,
	}, log)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "ledger settings loaded",
		"authority_set", settings.HasAuthority(),
		"max_consents", settings.MaxConsents,
		"access_limit_per_cycle", settings.AccessLimitPerCycle,
		"cycle_duration", settings.CycleDuration,
	)

	registry, err := newDataRegistry(cfg, log)
	if err != nil {
		return err
	}

	publisher := compliance.New(st.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)

	consentSvc := consentservice.New(st.consents, st.settings, clock, st.runner,
		consentservice.WithLogger(log),
		consentservice.WithMetrics(consentmetrics.New()),
		consentservice.WithAuditPublisher(publisher),
	)
	researcherSvc := researcherservice.New(st.researchers, st.settings, st.runner,
		researcherservice.WithLogger(log),
	)
	lim := limiter.New(st.counts, st.settings, clock,
		limiter.WithLogger(log),
		limiter.WithMetrics(rlmetrics.New()),
	)
	accessSvc := accessservice.New(accessservice.Deps{
		Log:         st.accessLog,
		Settings:    st.settings,
		Limiter:     lim,
		Researchers: accessadapters.NewResearcherAdapter(researcherSvc),
		Registry:    accessadapters.NewDataRegistryAdapter(registry),
		Consent:     accessadapters.NewConsentAdapter(consentSvc),
		Height:      clock,
		Tx:          st.runner,
	},
		accessservice.WithLogger(log),
		accessservice.WithMetrics(accessmetrics.New()),
		accessservice.WithAuditPublisher(publisher),
	)
	auditSvc := auditsvc.NewService(st.auditReader, st.settings, log)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	authenticated := []httptransport.Registrar{
		consenthandler.New(consentSvc, log),
		researcherhandler.New(researcherSvc, log),
		accesshandler.New(accessSvc, log),
		govhandler.New(consentSvc, researcherSvc, st.settings, log),
		audithandler.New(auditSvc, log),
	}
	var operator []httptransport.Registrar
	if driver != nil {
		operator = append(operator, heighthandler.New(driver, log))
	}

	var throttleMW func(http.Handler) http.Handler
	if cfg.Throttle.RequestsPerWindow > 0 {
		var store throttle.Store = throttle.NewInMemoryStore()
		if infra.redis != nil {
			store = throttle.NewRedisStore(infra.redis, infra.redis.Key("throttle:"))
		}
		throttleMW = throttle.New(store, cfg.Throttle.RequestsPerWindow, cfg.Throttle.Window, log,
			throttle.WithMetrics(throttle.NewMetrics()),
		).PerClient
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        metrics.New(),
		Validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		AdminToken:     cfg.AdminAPIToken,
		AdminTokenHash: cfg.AdminAPITokenHash,
		RequestTimeout: cfg.RequestTimeout,
		Throttle:       throttleMW,
		Health:         infra.healthChecks(),
	}, authenticated, operator)

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting consentgate", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := startAuditPipeline(gctx, g, cfg, infra, st, log); err != nil {
		return err
	}
	return g.Wait()
}
