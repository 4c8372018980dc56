package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	h := newRegistry([]seedEntry{{DataID: 1, record: record{Owner: "ST1PATIENT", Active: true}}}).routes()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rr
	}

	rr := do(http.MethodGet, "/records/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, record{Owner: "ST1PATIENT", Active: true}, got)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/records/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/records/0", "").Code)

	rr = do(http.MethodPut, "/records/1", `{"owner":"ST1PATIENT","active":false}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(http.MethodGet, "/records/1", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.False(t, got.Active)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/records/3", `{"active":true}`).Code)
}
