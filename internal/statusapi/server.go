// Package statusapi serves a read-only JSON view of the annotation session.
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Store holds the latest published snapshot. The UI thread publishes, HTTP
// handlers read.
type Store struct {
	mu      sync.RWMutex
	snap    annotate.Snapshot
	updated time.Time
}

// Publish replaces the snapshot.
func (s *Store) Publish(snap annotate.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.updated = time.Now()
	s.mu.Unlock()
}

// Load returns the latest snapshot and when it was published.
func (s *Store) Load() (annotate.Snapshot, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.updated
}

type Server struct {
	httpServer *http.Server
	store      *Store
	logger     *slog.Logger
}

func New(bind string, store *Store, logger *slog.Logger) *Server {
	r := mux.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:              bind,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:  store,
		logger: logger,
	}
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/region", s.handleRegion).Methods("GET")
	r.HandleFunc("/hover", s.handleHover).Methods("GET")
	r.HandleFunc("/detections", s.handleDetections).Methods("GET")
	r.HandleFunc("/detections/{index:[0-9]+}", s.handleDetection).Methods("GET")
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) ListenAndServe() error              { return s.httpServer.ListenAndServe() }
func (s *Server) Shutdown(ctx context.Context) error { return s.httpServer.Shutdown(ctx) }

// Start serves in the background until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && s.logger != nil {
			s.logger.Error("status server", "error", err, "addr", s.httpServer.Addr)
		}
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()
	if s.logger != nil {
		s.logger.Info("status server listening", "addr", s.httpServer.Addr)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, updated := s.store.Load()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"loaded":    snap.Loaded,
		"sequence":  snap.Sequence,
		"published": updated,
	})
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.store.Load()
	if snap.Region == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"state": snap.State, "error": "no region"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": snap.State, "region": snap.Region})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.store.Load()
	if snap.Hover == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snap.Hover)
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.store.Load()
	dets := snap.Detections
	if dets == nil {
		dets = annotate.DetectionSet{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     snap.DetectionStatus,
		"sequence":   snap.Sequence,
		"detections": dets,
	})
}

func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.store.Load()
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || idx >= len(snap.Detections) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snap.Detections[idx])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
