// Command data-registry is a stand-in for the host Data Registry. It serves
// GET /records/{id} from a JSON seed and lets tests flip records with PUT.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type record struct {
	Owner  string `json:"owner"`
	Active bool   `json:"active"`
}

type seedEntry struct {
	DataID uint64 `json:"data_id"`
	record
}

type registry struct {
	mu      sync.RWMutex
	records map[uint64]record
}

func newRegistry(entries []seedEntry) *registry {
	r := &registry{records: make(map[uint64]record, len(entries))}
	for _, e := range entries {
		r.records[e.DataID] = e.record
	}
	return r
}

func (reg *registry) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/records/{id}", reg.get)
	r.Put("/records/{id}", reg.put)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (reg *registry) get(w http.ResponseWriter, r *http.Request) {
	dataID, ok := parseID(w, r)
	if !ok {
		return
	}
	reg.mu.RLock()
	rec, found := reg.records[dataID]
	reg.mu.RUnlock()
	if !found {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (reg *registry) put(w http.ResponseWriter, r *http.Request) {
	dataID, ok := parseID(w, r)
	if !ok {
		return
	}
	var rec record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec.Owner == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	reg.mu.Lock()
	reg.records[dataID] = rec
	reg.mu.Unlock()
	writeJSON(w, http.StatusOK, rec)
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || v == 0 {
		http.Error(w, `{"error":"invalid_data_id"}`, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loadSeed(path string) ([]seedEntry, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	seed := flag.String("seed", os.Getenv("DATA_REGISTRY_SEED"), "JSON seed file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	entries, err := loadSeed(*seed)
	if err != nil {
		log.Error("failed to load seed", "file", *seed, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRegistry(entries).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("data registry mock listening", "addr", *addr, "records", len(entries))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
