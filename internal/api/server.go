// Package api exposes lessons, progress and quiz submission over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arlab/arlab/internal/auth"
	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/tutor"
)

// Deps are the collaborators the handlers call. Tutor may be nil.
type Deps struct {
	Catalog *catalog.Catalog
	Tracker *progress.Tracker
	Issuer  *auth.Issuer
	Tutor   *tutor.Service
	Logger  *logging.Logger
	Now     func() time.Time
}

// Server holds the handlers' dependencies.
type Server struct {
	catalog *catalog.Catalog
	tracker *progress.Tracker
	issuer  *auth.Issuer
	tutor   *tutor.Service
	logger  *logging.Logger
	now     func() time.Time
}

func NewServer(d Deps) *Server {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		catalog: d.Catalog,
		tracker: d.Tracker,
		issuer:  d.Issuer,
		tutor:   d.Tutor,
		logger:  d.Logger.OrNop().With("component", "api"),
		now:     now,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", s.listLessons)
		r.Get("/{lessonID}", s.getLesson)
		r.With(auth.Middleware(s.issuer)).Post("/{lessonID}/quiz", s.submitQuiz)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.issuer))

		r.Route("/progress", func(r chi.Router) {
			r.Get("/", s.listProgress)
			r.Get("/stats", s.stats)
			r.Get("/{lessonID}", s.getProgress)
			r.Delete("/{lessonID}", s.resetProgress)
			r.Post("/{lessonID}/steps/{step}", s.completeStep)
			r.Post("/{lessonID}/bookmark", s.toggleBookmark)
			r.Post("/{lessonID}/time", s.addTime)
			r.Get("/{lessonID}/attempts", s.history)
		})
	})
	return r
}

// Config holds listener settings for Run.
type Config struct {
	Address     string
	ReadTimeout time.Duration
	IdleTimeout time.Duration
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func requestLogger(l *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				l.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
