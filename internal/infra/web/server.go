package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"telegram-coin-discount/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the ops-facing HTTP surface: health, prometheus metrics and a
// small authenticated API to run the pipeline by hand when debugging link
// reports.
type Server struct {
	linkUC usecase.LinkUseCase
	auth   *AuthManager
	apiKey string
	log    *zerolog.Logger

	srv *http.Server
}

func NewServer(linkUC usecase.LinkUseCase, auth *AuthManager, apiKey string, port int, logger *zerolog.Logger) *Server {
	s := &Server{
		linkUC: linkUC,
		auth:   auth,
		apiKey: apiKey,
		log:    logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/api/v1/convert", s.handleConvert)
		r.Get("/api/v1/stats", s.handleStats)
	})

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
