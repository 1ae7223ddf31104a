// Package api exposes the engine over HTTP with a small JSON API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

const shutdownTimeout = 10 * time.Second

// Engine is the command surface the API drives.
type Engine interface {
	Reset(ctx context.Context, hours int) (timeblock.Result, error)
	Tick(ctx context.Context) (scheduler.TickResult, error)
	InsertSlotAfter(ctx context.Context, hour, minute int) (timeblock.Result, error)
	Place(ctx context.Context, taskID, slotID, title string) (timeblock.Result, error)
	Reorder(ctx context.Context, taskID, slotID string) (timeblock.Result, error)
	Unschedule(ctx context.Context, taskID string) (timeblock.Result, error)
	Remove(ctx context.Context, taskID string) (timeblock.Result, error)
	AddToPool(ctx context.Context, title string) (timeblock.Result, error)
	DeleteColumn(ctx context.Context, hour int) (timeblock.Result, error)
	Undo(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) (timeblock.Snapshot, error)
	PlanText(ctx context.Context) (string, error)
	RecentNotices(ctx context.Context) ([]timeblock.Notice, error)
}

// Server serves the HTTP API.
type Server struct {
	engine Engine
	cfg    config.ServerConfig
	router *chi.Mux
}

// NewServer creates a Server and mounts its routes.
func NewServer(e Engine, cfg config.ServerConfig) *Server {
	s := &Server{
		engine: e,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
	}

	r.Get("/schedule", s.getSchedule)
	r.Get("/schedule.txt", s.getPlanText)
	r.Get("/notices", s.getNotices)

	r.Post("/window", s.resetWindow)
	r.Post("/tick", s.tick)
	r.Post("/undo", s.undo)

	r.Route("/slots", func(r chi.Router) {
		r.Post("/insert", s.insertSlot)
	})
	r.Delete("/columns/{hour}", s.deleteColumn)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.addTask)
		r.Delete("/{id}", s.removeTask)
		r.Post("/{id}/place", s.placeTask)
		r.Post("/{id}/reorder", s.reorderTask)
		r.Post("/{id}/unschedule", s.unscheduleTask)
	})
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
