package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/queue"
	"github.com/skillhound/skillhound/internal/ranker"
	"github.com/skillhound/skillhound/internal/scorer"
)

// Server is the HTTP API server.
type Server struct {
	db         *database.DB
	reanalyzer *scorer.Reanalyzer
	ranker     *ranker.Ranker
	crawls     *queue.Queue
	logger     *slog.Logger
}

// NewServer wires the API against the stores, the reanalyzer, and the
// crawl queue.
func NewServer(db *database.DB, re *scorer.Reanalyzer, rk *ranker.Ranker, crawls *queue.Queue, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		db:         db,
		reanalyzer: re,
		ranker:     rk,
		crawls:     crawls,
		logger:     logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/skills", func(r chi.Router) {
			r.Get("/", s.handleListSkills)
			r.Get("/top", s.handleTopSkills(true))
			r.Get("/negative", s.handleTopSkills(false))
			r.Post("/{name}/have", s.handleAddSkill(true))
			r.Post("/{name}/dont-have", s.handleAddSkill(false))
			r.Delete("/{name}", s.handleDeleteSkill)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleSearch)
			r.Get("/top", s.handleTopJobs)
		})
	})

	return r
}

// Start serves the API on the given port until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		s.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	}
}
