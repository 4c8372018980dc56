// Package service implements the consent ledger: patients grant and revoke
// per-record consent to researchers, and anyone can check whether a valid
// grant exists at the current height.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"consentgate/internal/consent/metrics"
	"consentgate/internal/consent/models"
	govmodels "consentgate/internal/governance/models"
	"consentgate/internal/height"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/audit"
	"consentgate/pkg/platform/sentinel"
	"consentgate/pkg/platform/tx"
	"consentgate/pkg/requestcontext"
)

var tracer = otel.Tracer("consentgate/internal/consent")

// Store persists consent records and counts. Get returns
// sentinel.ErrNotFound for a missing record; GetCount returns 0.
type Store interface {
	Get(ctx context.Context, patient id.Identity, dataID id.DataID) (*models.ConsentRecord, error)
	Save(ctx context.Context, record *models.ConsentRecord) error
	ListByDataIDs(ctx context.Context, patient id.Identity, dataIDs []id.DataID) ([]*models.ConsentRecord, error)
	GetCount(ctx context.Context, patient id.Identity) (uint64, error)
	SaveCount(ctx context.Context, patient id.Identity, count uint64) error
}

// SettingsStore is the governance settings surface the ledger needs.
type SettingsStore interface {
	Get(ctx context.Context) (*govmodels.Settings, error)
	Lock(ctx context.Context) (*govmodels.Settings, error)
	Save(ctx context.Context, settings *govmodels.Settings) error
}

// AuditPublisher records ledger events. It runs inside the ledger
// transaction; a failure aborts the operation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the consent ledger.
type Service struct {
	store    Store
	settings SettingsStore
	height   height.Source
	tx       tx.Runner
	auditor  AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Service.
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

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(store Store, settings SettingsStore, clock height.Source, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		settings: settings,
		height:   clock,
		tx:       runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetConsent grants researcher consent to dataID for duration blocks on behalf
// of caller, overwriting any previous grant for the same record.
//
// Checks run in this order: InvalidDataId, InvalidDuration,
// InvalidResearcher, InvalidAccessType, InvalidPatient, MaxConsentsExceeded.
func (s *Service) SetConsent(ctx context.Context, caller id.Identity, dataID id.DataID, researcher id.Identity, duration uint64, accessType id.AccessType) (*models.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "consent.SetConsent", trace.WithAttributes(
		attribute.Int64("data_id", int64(dataID)),
		attribute.String("access_type", string(accessType)),
	))
	defer span.End()

	var out *models.ConsentRecord
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settings, err := s.lockSettings(ctx)
		if err != nil {
			return err
		}
		h, err := s.currentHeight(ctx)
		if err != nil {
			return err
		}

		if !dataID.IsValid() {
			return dErrors.New(dErrors.CodeInvalidDataID, "data id must be greater than zero")
		}
		if duration == 0 {
			return dErrors.New(dErrors.CodeInvalidDuration, "duration must be greater than zero")
		}
		expiry, ok := h.AddDuration(duration)
		if !ok {
			return dErrors.New(dErrors.CodeInvalidDuration, "duration overflows the ledger height range")
		}
		if researcher.IsNull() {
			return dErrors.New(dErrors.CodeInvalidResearcher, "researcher must not be the null identity")
		}
		if !accessType.IsValid() {
			return dErrors.New(dErrors.CodeInvalidAccessType, "access type must be read-only or read-write")
		}
		if caller.IsNull() {
			return dErrors.New(dErrors.CodeInvalidPatient, "caller is not a recognized patient")
		}

		count, err := s.store.GetCount(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent count")
		}
		if count >= settings.MaxConsents {
			return dErrors.New(dErrors.CodeMaxConsentsExceeded, "patient reached the maximum number of consents")
		}

		var version uint64
		prev, err := s.store.Get(ctx, caller, dataID)
		switch {
		case err == nil:
			version = prev.Version
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent record")
		}

		record := &models.ConsentRecord{
			Patient:         caller,
			DataID:          dataID,
			Researcher:      researcher,
			ExpiryHeight:    expiry,
			Allowed:         true,
			AccessType:      accessType,
			GrantedAtHeight: h,
			UpdatedAtHeight: h,
			Version:         version + 1,
		}
		if err := s.store.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent record")
		}
		if err := s.store.SaveCount(ctx, caller, count+1); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent count")
		}
		if err := s.emit(ctx, audit.EventConsentSet, record, h); err != nil {
			return err
		}
		out = record
		return nil
	})
	if err != nil {
		s.reject(ctx, span, "set_consent", err)
		return nil, err
	}

	s.metrics.IncConsentsSet()
	s.logger.InfoContext(ctx, "consent set",
		"patient", caller,
		"data_id", dataID,
		"researcher", researcher,
		"expiry_height", out.ExpiryHeight,
		"request_id", requestcontext.RequestID(ctx),
	)
	return out, nil
}

// RevokeConsent withdraws caller's grant on dataID. The record keeps its key
// and access type; Researcher is overwritten with the supplied identity.
// The patient's consent count is not decremented.
func (s *Service) RevokeConsent(ctx context.Context, caller id.Identity, dataID id.DataID, researcher id.Identity) (*models.ConsentRecord, error) {
	ctx, span := tracer.Start(ctx, "consent.RevokeConsent", trace.WithAttributes(
		attribute.Int64("data_id", int64(dataID)),
	))
	defer span.End()

	var out *models.ConsentRecord
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.lockSettings(ctx); err != nil {
			return err
		}
		h, err := s.currentHeight(ctx)
		if err != nil {
			return err
		}

		record, err := s.store.Get(ctx, caller, dataID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeConsentNotFound, "no consent exists for this data record")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent record")
		}
		if !record.Allowed {
			return dErrors.New(dErrors.CodeAlreadyRevoked, "consent is already revoked")
		}

		record.Allowed = false
		record.ExpiryHeight = 0
		record.Researcher = researcher
		record.UpdatedAtHeight = h
		record.Version++

		if err := s.store.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent record")
		}
		if err := s.emit(ctx, audit.EventConsentRevoked, record, h); err != nil {
			return err
		}
		out = record
		return nil
	})
	if err != nil {
		s.reject(ctx, span, "revoke_consent", err)
		return nil, err
	}

	s.metrics.IncConsentsRevoked()
	s.logger.InfoContext(ctx, "consent revoked",
		"patient", caller,
		"data_id", dataID,
		"researcher", researcher,
		"request_id", requestcontext.RequestID(ctx),
	)
	return out, nil
}

// CheckConsent reports whether patient holds an allowed, unexpired grant on
// dataID at the current height.
//
// The researcher argument is accepted for interface compatibility and not
// compared with the stored grantee: any researcher passes while a valid grant exists.
func (s *Service) CheckConsent(ctx context.Context, patient id.Identity, dataID id.DataID, _ id.Identity) (bool, error) {
	h, err := s.currentHeight(ctx)
	if err != nil {
		return false, err
	}
	record, err := s.store.Get(ctx, patient, dataID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncConsentCheck(false)
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent record")
	}
	valid := record.IsValidAt(h)
	s.metrics.IncConsentCheck(valid)
	return valid, nil
}

// GetConsent returns the record for (patient, dataID), or nil if none exists.
func (s *Service) GetConsent(ctx context.Context, patient id.Identity, dataID id.DataID) (*models.ConsentRecord, error) {
	record, err := s.store.Get(ctx, patient, dataID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent record")
	}
	return record, nil
}

// GetConsentCount returns how many times patient has set consent.
func (s *Service) GetConsentCount(ctx context.Context, patient id.Identity) (models.ConsentCount, error) {
	count, err := s.store.GetCount(ctx, patient)
	if err != nil {
		return models.ConsentCount{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent count")
	}
	return models.ConsentCount{Patient: patient, Count: count}, nil
}

// maxBatch caps ListConsents lookups.
const maxBatch = 100

// ListConsents returns patient's existing records among dataIDs.
func (s *Service) ListConsents(ctx context.Context, patient id.Identity, dataIDs []id.DataID) ([]*models.ConsentRecord, error) {
	if len(dataIDs) > maxBatch {
		return nil, dErrors.New(dErrors.CodeInvalidParameter, "too many data ids requested")
	}
	for _, dataID := range dataIDs {
		if !dataID.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvalidDataID, "data id must be greater than zero")
		}
	}
	records, err := s.store.ListByDataIDs(ctx, patient, dataIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consent records")
	}
	return records, nil
}

// SetAuthority assigns the ledger authority. It succeeds once; afterwards
// every call fails with NotAuthorized.
func (s *Service) SetAuthority(ctx context.Context, caller, authority id.Identity) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settings, err := s.lockSettings(ctx)
		if err != nil {
			return err
		}
		if settings.HasAuthority() {
			return dErrors.New(dErrors.CodeNotAuthorized, "authority is already set")
		}
		if authority.IsNull() {
			return dErrors.New(dErrors.CodeInvalidResearcher, "authority must not be the null identity")
		}
		settings.Authority = authority
		if err := s.settings.Save(ctx, settings); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejection("set_authority", string(dErrors.CodeOf(err)))
		return err
	}
	s.logger.InfoContext(ctx, "ledger authority set",
		"authority", authority,
		"caller", caller,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// SetMaxConsents replaces the per-patient consent ceiling. Authority only.
func (s *Service) SetMaxConsents(ctx context.Context, caller id.Identity, n uint64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		settings, err := s.lockSettings(ctx)
		if err != nil {
			return err
		}
		if !settings.IsAuthority(caller) {
			return dErrors.New(dErrors.CodeNotAuthorized, "only the authority may change max consents")
		}
		if !govmodels.ValidTunable(n) {
			return dErrors.New(dErrors.CodeInvalidParameter, "max consents must be greater than zero")
		}
		settings.MaxConsents = n
		if err := s.settings.Save(ctx, settings); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejection("set_max_consents", string(dErrors.CodeOf(err)))
		return err
	}
	s.logger.InfoContext(ctx, "max consents updated",
		"max_consents", n,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) currentHeight(ctx context.Context) (id.Height, error) {
	h, err := height.Read(ctx, s.height)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger height")
	}
	return h, nil
}

func (s *Service) lockSettings(ctx context.Context) (*govmodels.Settings, error) {
	settings, err := s.settings.Lock(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "ledger settings unavailable")
	}
	return settings, nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, record *models.ConsentRecord, h id.Height) error {
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:     string(action),
		Height:     h,
		Patient:    record.Patient,
		Researcher: record.Researcher,
		DataID:     record.DataID,
		AccessType: string(record.AccessType),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) reject(ctx context.Context, span trace.Span, operation string, err error) {
	code := dErrors.CodeOf(err)
	s.metrics.IncRejection(operation, string(code))
	span.SetAttributes(attribute.String("error_code", string(code)))
	if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "consent operation failed",
			"operation", operation,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
