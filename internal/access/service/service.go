// Package service implements the access orchestrator: one atomic decision
// per request combining researcher verification, rate limiting, the data
// registry lookup and the consent check.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"consentgate/internal/access/metrics"
	"consentgate/internal/access/models"
	"consentgate/internal/access/ports"
	govmodels "consentgate/internal/governance/models"
	"consentgate/internal/height"
	rlmodels "consentgate/internal/ratelimit/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/audit"
	"consentgate/pkg/platform/sentinel"
	"consentgate/pkg/platform/tx"
	"consentgate/pkg/requestcontext"
)

var tracer = otel.Tracer("consentgate/internal/access")

// LogStore persists the access log.
type LogStore interface {
	NextLogID(ctx context.Context) (id.LogID, error)
	Append(ctx context.Context, entry *models.AccessLogEntry) error
	Get(ctx context.Context, logID id.LogID) (*models.AccessLogEntry, error)
	Total(ctx context.Context) (uint64, error)
}

// SettingsStore gives the orchestrator the locked governance settings.
type SettingsStore interface {
	Lock(ctx context.Context) (*govmodels.Settings, error)
}

// RateLimiter is the accounting surface of the per-researcher limiter.
type RateLimiter interface {
	Rollover(settings *govmodels.Settings, h id.Height) (rlmodels.Window, bool)
	CountAt(ctx context.Context, researcher id.Identity, cycle uint64) (uint64, error)
	CountFor(ctx context.Context, researcher id.Identity) (uint64, error)
	Decide(count, limit, cycle uint64) bool
	Increment(ctx context.Context, researcher id.Identity, cycle uint64) error
	CommitWindow(ctx context.Context, settings *govmodels.Settings, window rlmodels.Window) error
}

// Service is the access orchestrator.
type Service struct {
	log         LogStore
	settings    SettingsStore
	limiter     RateLimiter
	researchers ports.ResearcherPort
	registry    ports.DataRegistryPort
	consent     ports.ConsentPort
	height      height.Source
	tx          tx.Runner
	auditor     ports.AuditPort
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Deps groups the orchestrator's collaborators.
type Deps struct {
	Log         LogStore
	Settings    SettingsStore
	Limiter     RateLimiter
	Researchers ports.ResearcherPort
	Registry    ports.DataRegistryPort
	Consent     ports.ConsentPort
	Height      height.Source
	Tx          tx.Runner
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p ports.AuditPort) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(deps Deps, opts ...Option) *Service {
	s := &Service{
		log:         deps.Log,
		settings:    deps.Settings,
		limiter:     deps.Limiter,
		researchers: deps.Researchers,
		registry:    deps.Registry,
		consent:     deps.Consent,
		height:      deps.Height,
		tx:          deps.Tx,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestAccess decides whether caller may access dataID and, if so, logs
// the access and returns its log id.
//
// Checks run in this order and any failure leaves no trace:
// ResearcherNotVerified, AccessLimitExceeded, InvalidAccessType,
// DataNotFound, DataInactive, ConsentCheckFailed, ConsentRequired.
func (s *Service) RequestAccess(ctx context.Context, caller id.Identity, dataID id.DataID, accessType id.AccessType) (id.LogID, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "access.RequestAccess", trace.WithAttributes(
		attribute.Int64("data_id", int64(dataID)),
		attribute.String("access_type", string(accessType)),
	))
	defer span.End()
	defer func() {
		s.metrics.ObserveRequestLatency(time.Since(start))
	}()

	var entry *models.AccessLogEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settings, err := s.settings.Lock(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "ledger settings unavailable")
		}
		// Read under the lock so no later writer can commit a newer height first.
		h, err := height.Read(ctx, s.height)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger height")
		}
		ctx = height.Pin(ctx, h)
		window, rolled := s.limiter.Rollover(settings, h)
		cycle := window.CycleAt(h)
		span.SetAttributes(attribute.Int64("cycle", int64(cycle)))

		verified, err := s.researchers.IsVerified(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read researcher verification")
		}
		if !verified {
			return dErrors.New(dErrors.CodeResearcherNotVerified, "researcher is not verified")
		}

		count, err := s.limiter.CountAt(ctx, caller, cycle)
		if err != nil {
			return err
		}
		if !s.limiter.Decide(count, settings.AccessLimitPerCycle, cycle) {
			return dErrors.New(dErrors.CodeAccessLimitExceeded, "access limit for this cycle reached")
		}

		if !accessType.IsValid() {
			return dErrors.New(dErrors.CodeInvalidAccessType, "access type must be read-only or read-write")
		}

		record, err := s.lookupRecord(ctx, dataID)
		if err != nil {
			return err
		}
		if !record.Active {
			return dErrors.New(dErrors.CodeDataInactive, "data record is inactive")
		}

		if err := s.requireConsent(ctx, record.Owner, dataID, caller); err != nil {
			return err
		}

		if rolled {
			if err := s.limiter.CommitWindow(ctx, settings, window); err != nil {
				return err
			}
		}
		logID, err := s.log.NextLogID(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access log counter")
		}
		entry = &models.AccessLogEntry{
			LogID:      logID,
			DataID:     dataID,
			Researcher: caller,
			Patient:    record.Owner,
			AccessType: accessType,
			Timestamp:  h,
		}
		if err := s.log.Append(ctx, entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append access log entry")
		}
		if err := s.limiter.Increment(ctx, caller, cycle); err != nil {
			return err
		}
		return s.emitGranted(ctx, entry)
	})
	if err != nil {
		code := dErrors.CodeOf(err)
		s.metrics.IncrementOutcome(string(code))
		span.SetAttributes(attribute.String("error_code", string(code)))
		if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "access request failed",
				"researcher", caller,
				"data_id", dataID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		} else {
			s.logger.InfoContext(ctx, "access denied",
				"researcher", caller,
				"data_id", dataID,
				"reason", code,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return 0, err
	}

	s.metrics.IncrementOutcome("granted")
	span.SetAttributes(attribute.Int64("log_id", int64(entry.LogID)))
	s.logger.InfoContext(ctx, "access granted",
		"log_id", entry.LogID,
		"researcher", caller,
		"patient", entry.Patient,
		"data_id", dataID,
		"height", entry.Timestamp,
		"request_id", requestcontext.RequestID(ctx),
	)
	return entry.LogID, nil
}

// lookupRecord translates every registry failure into DataNotFound.
func (s *Service) lookupRecord(ctx context.Context, dataID id.DataID) (*ports.DataRecord, error) {
	start := time.Now()
	record, err := s.registry.GetRecord(ctx, dataID)
	s.metrics.ObserveLookupLatency("data_registry", time.Since(start))
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "data registry lookup failed",
				"data_id", dataID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDataNotFound, "data record not found")
	}
	return record, nil
}

func (s *Service) requireConsent(ctx context.Context, owner id.Identity, dataID id.DataID, caller id.Identity) error {
	start := time.Now()
	ok, err := s.consent.CheckConsent(ctx, owner, dataID, caller)
	s.metrics.ObserveLookupLatency("consent", time.Since(start))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeConsentCheckFailed, "consent check failed")
	}
	if !ok {
		return dErrors.New(dErrors.CodeConsentRequired, "no valid consent for this data record")
	}
	return nil
}

func (s *Service) emitGranted(ctx context.Context, entry *models.AccessLogEntry) error {
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:     string(audit.EventAccessGranted),
		Height:     entry.Timestamp,
		Patient:    entry.Patient,
		Researcher: entry.Researcher,
		DataID:     entry.DataID,
		LogID:      entry.LogID,
		AccessType: string(entry.AccessType),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// GetAccessLog returns the entry for logID, or nil if it was never issued.
func (s *Service) GetAccessLog(ctx context.Context, logID id.LogID) (*models.AccessLogEntry, error) {
	entry, err := s.log.Get(ctx, logID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access log")
	}
	return entry, nil
}

// GetAccessCountByResearcher returns researcher's admissions in the current
// cycle.
func (s *Service) GetAccessCountByResearcher(ctx context.Context, researcher id.Identity) (uint64, error) {
	return s.limiter.CountFor(ctx, researcher)
}

func (s *Service) GetTotalAccessCount(ctx context.Context) (uint64, error) {
	total, err := s.log.Total(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read access log total")
	}
	return total, nil
}
