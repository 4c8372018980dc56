package ledger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	accessadapters "consentgate/internal/access/adapters"
	accesshandler "consentgate/internal/access/handler"
	accessservice "consentgate/internal/access/service"
	accessstore "consentgate/internal/access/store"
	auditsvc "consentgate/internal/audit"
	audithandler "consentgate/internal/audit/handler"
	consenthandler "consentgate/internal/consent/handler"
	consentservice "consentgate/internal/consent/service"
	consentstore "consentgate/internal/consent/store"
	"consentgate/internal/dataregistry"
	"consentgate/internal/governance"
	govhandler "consentgate/internal/governance/handler"
	govmodels "consentgate/internal/governance/models"
	govstore "consentgate/internal/governance/store"
	"consentgate/internal/height"
	heighthandler "consentgate/internal/height/handler"
	jwttoken "consentgate/internal/jwt_token"
	"consentgate/internal/ratelimit/service/limiter"
	"consentgate/internal/ratelimit/store/counts"
	researcherhandler "consentgate/internal/researcher/handler"
	researcherservice "consentgate/internal/researcher/service"
	researcherstore "consentgate/internal/researcher/store"
	httptransport "consentgate/internal/transport/http"
	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/audit"
	"consentgate/pkg/platform/audit/publishers/compliance"
	auditmemory "consentgate/pkg/platform/audit/store/memory"
	"consentgate/pkg/platform/tx"
)

const (
	authority  = id.Identity("ST3AUTHORITY")
	patient    = id.Identity("ST1PATIENT")
	researcher = id.Identity("ST2RESEARCHER")
	adminToken = "admin-secret"
)

// backend is one persistence implementation of every ledger store.
type backend struct {
	runner      tx.Runner
	settings    govstore.Store
	consents    consentservice.Store
	researchers researcherservice.Store
	counts      limiter.CountStore
	accessLog   accessservice.LogStore
	audit       audit.Store
	auditReader auditsvc.Reader
}

func memoryBackend() backend {
	auditStore := auditmemory.NewInMemoryStore()
	return backend{
		runner:      tx.NewMemoryRunner(0),
		settings:    govstore.NewInMemoryStore(),
		consents:    consentstore.NewInMemoryStore(),
		researchers: researcherstore.NewInMemoryStore(),
		counts:      counts.NewInMemory(),
		accessLog:   accessstore.NewInMemory(),
		audit:       auditStore,
		auditReader: auditStore,
	}
}

// harness is a fully wired ledger, the same way cmd/server assembles it.
type harness struct {
	clock       *height.Manual
	registry    *dataregistry.InMemory
	consent     *consentservice.Service
	researchers *researcherservice.Service
	access      *accessservice.Service
	audit       *auditsvc.Service
	jwt         *jwttoken.JWTService
	router      http.Handler
}

func newHarness(t *testing.T, b backend, settings govmodels.Settings) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := governance.Seed(context.Background(), b.runner, b.settings, settings, logger)
	require.NoError(t, err)

	h := &harness{
		clock:    height.NewManual(100),
		registry: dataregistry.NewInMemory(),
		jwt:      jwttoken.NewJWTService("test-key", "consentgate", "consentgate-api"),
	}
	h.registry.Put(1, dataregistry.Record{Owner: patient, Active: true})
	h.registry.Put(2, dataregistry.Record{Owner: patient, Active: false})

	publisher := compliance.New(b.audit, compliance.WithLogger(logger))
	h.consent = consentservice.New(b.consents, b.settings, h.clock, b.runner,
		consentservice.WithLogger(logger),
		consentservice.WithAuditPublisher(publisher),
	)
	h.researchers = researcherservice.New(b.researchers, b.settings, b.runner, researcherservice.WithLogger(logger))
	h.access = accessservice.New(accessservice.Deps{
		Log:         b.accessLog,
		Settings:    b.settings,
		Limiter:     limiter.New(b.counts, b.settings, h.clock, limiter.WithLogger(logger)),
		Researchers: accessadapters.NewResearcherAdapter(h.researchers),
		Registry:    accessadapters.NewDataRegistryAdapter(h.registry),
		Consent:     accessadapters.NewConsentAdapter(h.consent),
		Height:      h.clock,
		Tx:          b.runner,
	},
		accessservice.WithLogger(logger),
		accessservice.WithAuditPublisher(publisher),
	)
	h.audit = auditsvc.NewService(b.auditReader, b.settings, logger)

	h.router = httptransport.NewRouter(httptransport.Config{
		Logger:         logger,
		Validator:      jwttoken.NewJWTServiceAdapter(h.jwt),
		AdminToken:     adminToken,
		RequestTimeout: 5 * time.Second,
	}, []httptransport.Registrar{
		consenthandler.New(h.consent, logger),
		researcherhandler.New(h.researchers, logger),
		accesshandler.New(h.access, logger),
		govhandler.New(h.consent, h.researchers, b.settings, logger),
		audithandler.New(h.audit, logger),
	}, []httptransport.Registrar{
		heighthandler.New(height.ManualDriver(h.clock), logger),
	})
	return h
}

func defaultSettings() govmodels.Settings {
	return govmodels.Settings{
		Authority:           authority,
		MaxConsents:         10,
		AccessLimitPerCycle: 2,
		CycleDuration:       1000,
	}
}

func (h *harness) bearer(t *testing.T, who id.Identity) string {
	t.Helper()
	tok, err := h.jwt.GenerateAccessToken(who.String(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}
