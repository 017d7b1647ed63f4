// Package server exposes scenarios and simulation runs over HTTP, and
// streams trajectories to websocket clients as they are produced.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/world3/internal/lookup"
)

const Version = "0.1.0"

// Server serves the scenario API.
type Server struct {
	tables    *lookup.Tables
	scenarios *ScenarioStore
	log       *slog.Logger
	upgrader  websocket.Upgrader

	// debounce delays runs triggered by update_params.
	debounce time.Duration
}

func New(tables *lookup.Tables, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tables:    tables,
		scenarios: NewScenarioStore(),
		log:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		debounce: 50 * time.Millisecond,
	}
}

func (s *Server) Scenarios() *ScenarioStore { return s.scenarios }

// Handler returns the routed API with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/params/schema", s.handleSchema)

	mux.HandleFunc("GET /api/v1/scenarios", s.handleListScenarios)
	mux.HandleFunc("POST /api/v1/scenarios", s.handleCreateScenario)
	mux.HandleFunc("GET /api/v1/presets", s.handleListPresets)

	mux.HandleFunc("GET /api/v1/scenarios/{id}", s.handleGetScenario)
	mux.HandleFunc("DELETE /api/v1/scenarios/{id}", s.handleDeleteScenario)
	mux.HandleFunc("PUT /api/v1/scenarios/{id}/params", s.handleUpdateParams)
	mux.HandleFunc("POST /api/v1/scenarios/{id}/run", s.handleRunScenario)

	mux.HandleFunc("GET /api/v1/ws", s.handleWS)

	return corsMiddleware(s.logRequests(mux))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP API starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("HTTP API stopped")
	return nil
}

// corsMiddleware allows any origin unless CORS_ORIGINS lists specific ones.
func corsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the upgrader needs the raw writer to hijack
		if r.URL.Path == "/api/v1/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}
