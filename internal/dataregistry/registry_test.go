package dataregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consentgate/pkg/domain"
	"consentgate/pkg/platform/sentinel"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	reg := NewInMemory()

	_, err := reg.GetRecord(ctx, 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	reg.Put(1, Record{Owner: "ST1PATIENT", Active: true})
	require.NoError(t, reg.SetActive(1, false))

	rec, err := reg.GetRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, id.Identity("ST1PATIENT"), rec.Owner)
	assert.False(t, rec.Active)

	assert.ErrorIs(t, reg.SetActive(2, true), sentinel.ErrNotFound)
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads entries", func(t *testing.T) {
		path := filepath.Join(dir, "seed.json")
		require.NoError(t, os.WriteFile(path, []byte(`[
			{"data_id": 1, "owner": "ST1PATIENT", "active": true},
			{"data_id": 2, "owner": "ST1PATIENT", "active": false}
		]`), 0o600))

		reg := NewInMemory()
		n, err := reg.LoadSeedFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		rec, err := reg.GetRecord(context.Background(), 2)
		require.NoError(t, err)
		assert.False(t, rec.Active)
	})

	t.Run("rejects zero data id", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"data_id": 0, "owner": "ST1PATIENT"}]`), 0o600))

		_, err := NewInMemory().LoadSeedFile(path)
		assert.Error(t, err)
	})
}

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"owner":"ST1PATIENT","active":true}`))
		case "2":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "3":
			_, _ = w.Write([]byte(`not json`))
		case "4":
			time.Sleep(200 * time.Millisecond)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient(t *testing.T) {
	srv := newRegistryServer(t)
	client := NewHTTPClient(srv.URL+"/", 50*time.Millisecond)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rec, err := client.GetRecord(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, Record{Owner: "ST1PATIENT", Active: true}, rec)
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		_, err := client.GetRecord(ctx, 99)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("server error is returned as is", func(t *testing.T) {
		_, err := client.GetRecord(ctx, 2)
		require.Error(t, err)
		assert.NotErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := client.GetRecord(ctx, 3)
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := client.GetRecord(ctx, 4)
		assert.Error(t, err)
	})
}
