package handler

import (
	"consentgate/internal/access/models"
)

// AccessResponse is the HTTP response for POST /access.
type AccessResponse struct {
	LogID uint64 `json:"log_id"`
}

// AccessLogResponse is one access log entry.
type AccessLogResponse struct {
	LogID      uint64 `json:"log_id"`
	DataID     uint64 `json:"data_id"`
	Researcher string `json:"researcher"`
	Patient    string `json:"patient"`
	AccessType string `json:"access_type"`
	Timestamp  uint64 `json:"timestamp"`
}

type ResearcherCountResponse struct {
	Researcher string `json:"researcher"`
	Count      uint64 `json:"count"`
}

type TotalResponse struct {
	Total uint64 `json:"total"`
}

// FromEntry converts a log entry to its HTTP response.
func FromEntry(e *models.AccessLogEntry) *AccessLogResponse {
	return &AccessLogResponse{
		LogID:      uint64(e.LogID),
		DataID:     uint64(e.DataID),
		Researcher: e.Researcher.String(),
		Patient:    e.Patient.String(),
		AccessType: e.AccessType.String(),
		Timestamp:  uint64(e.Timestamp),
	}
}
