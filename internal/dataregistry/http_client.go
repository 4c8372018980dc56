package dataregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/middleware/request"
	"consentgate/pkg/platform/sentinel"
)

const defaultTimeout = 2 * time.Second

// HTTPClient looks records up with GET {base}/records/{id}. It never
// retries: any failure aborts the calling ledger operation.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPOption) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type recordResponse struct {
	Owner  string `json:"owner"`
	Active bool   `json:"active"`
}

// GetRecord returns sentinel.ErrNotFound on 404. Other statuses, transport
// failures and malformed bodies are returned as errors.
func (h *HTTPClient) GetRecord(ctx context.Context, dataID id.DataID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/records/"+dataID.String(), nil)
	if err != nil {
		return Record{}, fmt.Errorf("build data registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := request.GetRequestID(ctx); requestID != "" {
		req.Header.Set(request.HeaderRequestID, requestID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("data registry lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Record{}, sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return Record{}, fmt.Errorf("data registry lookup: unexpected status %d", resp.StatusCode)
	}

	var body recordResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return Record{}, fmt.Errorf("decode data registry record: %w", err)
	}
	owner, err := id.ParseIdentity(body.Owner)
	if err != nil {
		return Record{}, fmt.Errorf("data registry record %s: %w", dataID, err)
	}
	return Record{Owner: owner, Active: body.Active}, nil
}
