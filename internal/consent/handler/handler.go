package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/consent/models"
	id "consentgate/pkg/domain"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/httputil"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/requestcontext"
)

// Service defines the interface for consent ledger operations.
type Service interface {
	SetConsent(ctx context.Context, caller id.Identity, dataID id.DataID, researcher id.Identity, duration uint64, accessType id.AccessType) (*models.ConsentRecord, error)
	RevokeConsent(ctx context.Context, caller id.Identity, dataID id.DataID, researcher id.Identity) (*models.ConsentRecord, error)
	CheckConsent(ctx context.Context, patient id.Identity, dataID id.DataID, researcher id.Identity) (bool, error)
	GetConsent(ctx context.Context, patient id.Identity, dataID id.DataID) (*models.ConsentRecord, error)
	GetConsentCount(ctx context.Context, patient id.Identity) (models.ConsentCount, error)
	ListConsents(ctx context.Context, patient id.Identity, dataIDs []id.DataID) ([]*models.ConsentRecord, error)
}

// Handler handles consent ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	consent Service
}

// New creates a new consent Handler.
func New(consent Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		consent: consent,
	}
}

// Register registers the consent routes. The caller is expected to have
// installed the auth middleware on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/consents", h.HandleSetConsent)
	r.Post("/consents/{dataID}/revoke", h.HandleRevokeConsent)
	r.Get("/consents/{patient}", h.HandleListConsents)
	r.Get("/consents/{patient}/count", h.HandleGetConsentCount)
	r.Get("/consents/{patient}/{dataID}", h.HandleGetConsent)
	r.Get("/consents/{patient}/{dataID}/check", h.HandleCheckConsent)
}

// HandleSetConsent grants consent on behalf of the authenticated patient.
func (h *Handler) HandleSetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[SetConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.consent.SetConsent(ctx, caller, id.DataID(req.DataID), id.Identity(req.Researcher), req.Duration, id.AccessType(req.AccessType))
	if err != nil {
		h.writeServiceError(ctx, w, "set consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toConsentResponse(record))
}

// HandleRevokeConsent withdraws the authenticated patient's grant on a record.
func (h *Handler) HandleRevokeConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	caller := requestcontext.Caller(ctx)

	dataID, err := id.ParseDataID(chi.URLParam(r, "dataID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RevokeConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.consent.RevokeConsent(ctx, caller, dataID, id.Identity(req.Researcher))
	if err != nil {
		h.writeServiceError(ctx, w, "revoke consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toConsentResponse(record))
}

func (h *Handler) HandleGetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, dataID, ok := h.parseRecordKey(w, r)
	if !ok {
		return
	}

	record, err := h.consent.GetConsent(ctx, patient, dataID)
	if err != nil {
		h.writeServiceError(ctx, w, "get consent", err)
		return
	}
	if record == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConsentNotFound, "no consent exists for this data record"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toConsentResponse(record))
}

// HandleCheckConsent reports whether a valid grant exists right now. The
// researcher query parameter is optional and does not affect the result.
func (h *Handler) HandleCheckConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, dataID, ok := h.parseRecordKey(w, r)
	if !ok {
		return
	}
	var researcher id.Identity
	if raw := r.URL.Query().Get("researcher"); raw != "" {
		parsed, err := id.ParseIdentity(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		researcher = parsed
	}

	valid, err := h.consent.CheckConsent(ctx, patient, dataID, researcher)
	if err != nil {
		h.writeServiceError(ctx, w, "check consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CheckConsentResponse{
		Patient: patient.String(),
		DataID:  uint64(dataID),
		Valid:   valid,
	})
}

func (h *Handler) HandleGetConsentCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, err := id.ParseIdentity(chi.URLParam(r, "patient"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	count, err := h.consent.GetConsentCount(ctx, patient)
	if err != nil {
		h.writeServiceError(ctx, w, "get consent count", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ConsentCountResponse{
		Patient: count.Patient.String(),
		Count:   count.Count,
	})
}

// HandleListConsents returns a patient's records for ?data_id=1,2&data_id=3.
func (h *Handler) HandleListConsents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, err := id.ParseIdentity(chi.URLParam(r, "patient"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	dataIDs, err := httputil.QueryDataIDs(r, "data_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(dataIDs) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "at least one data_id is required"))
		return
	}

	records, err := h.consent.ListConsents(ctx, patient, dataIDs)
	if err != nil {
		h.writeServiceError(ctx, w, "list consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(records))
}

func (h *Handler) parseRecordKey(w http.ResponseWriter, r *http.Request) (id.Identity, id.DataID, bool) {
	patient, err := id.ParseIdentity(chi.URLParam(r, "patient"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", 0, false
	}
	dataID, err := id.ParseDataID(chi.URLParam(r, "dataID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", 0, false
	}
	return patient, dataID, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+operation,
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, operation+" rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
