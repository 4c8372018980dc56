package handler

import (
	"consentgate/internal/consent/models"
)

// ConsentResponse is the wire form of a consent record.
type ConsentResponse struct {
	Patient         string `json:"patient"`
	DataID          uint64 `json:"data_id"`
	Researcher      string `json:"researcher"`
	ExpiryHeight    uint64 `json:"expiry_height"`
	Allowed         bool   `json:"allowed"`
	AccessType      string `json:"access_type"`
	GrantedAtHeight uint64 `json:"granted_at_height"`
	UpdatedAtHeight uint64 `json:"updated_at_height"`
	Version         uint64 `json:"version"`
}

type CheckConsentResponse struct {
	Patient string `json:"patient"`
	DataID  uint64 `json:"data_id"`
	Valid   bool   `json:"valid"`
}

type ConsentCountResponse struct {
	Patient string `json:"patient"`
	Count   uint64 `json:"count"`
}

type ListConsentsResponse struct {
	Consents []ConsentResponse `json:"consents"`
}

func toConsentResponse(r *models.ConsentRecord) ConsentResponse {
	return ConsentResponse{
		Patient:         r.Patient.String(),
		DataID:          uint64(r.DataID),
		Researcher:      r.Researcher.String(),
		ExpiryHeight:    uint64(r.ExpiryHeight),
		Allowed:         r.Allowed,
		AccessType:      r.AccessType.String(),
		GrantedAtHeight: uint64(r.GrantedAtHeight),
		UpdatedAtHeight: uint64(r.UpdatedAtHeight),
		Version:         r.Version,
	}
}

func toListResponse(records []*models.ConsentRecord) ListConsentsResponse {
	out := ListConsentsResponse{Consents: make([]ConsentResponse, 0, len(records))}
	for _, r := range records {
		out.Consents = append(out.Consents, toConsentResponse(r))
	}
	return out
}
