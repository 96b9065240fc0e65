// Package status exposes health and last-run endpoints for the ETL
// service, used by the ECS health check and the ops dashboard.
package status

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

// RunStatus is the last pipeline run as reported to /status.
type RunStatus struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Success     bool           `json:"success"`
	Processed   int            `json:"processed"`
	Skipped     int            `json:"skipped"`
	Failed      int            `json:"failed"`
	PerCategory map[string]int `json:"per_category,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Server is the HTTP status surface.
type Server struct {
	router    *chi.Mux
	db        *sql.DB
	startTime time.Time

	mu      sync.RWMutex
	lastRun *RunStatus
	running bool
}

// NewServer builds the router. db may be nil; the health check then
// reports the database as not configured instead of down.
func NewServer(db *sql.DB) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		db:        db,
		startTime: time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/status", s.handleStatus)
	return s
}

// SetRunning flips the in-progress flag around each pipeline run.
func (s *Server) SetRunning(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

// RecordRun publishes a finished run.
func (s *Server) RecordRun(run RunStatus) {
	s.mu.Lock()
	s.lastRun = &run
	s.running = false
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type check struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	}

	dbCheck := check{Status: "not_configured"}
	healthy := true
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			dbCheck = check{Status: "down", Message: err.Error()}
			healthy = false
		} else {
			dbCheck = check{Status: "up"}
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
		"checks": map[string]check{"database": dbCheck},
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := map[string]interface{}{
		"running": s.running,
	}
	if s.lastRun != nil {
		resp["last_run"] = s.lastRun
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListenAndServe blocks until the context is cancelled, then shuts the
// listener down with a grace period.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode status response", "error", err.Error())
	}
}
