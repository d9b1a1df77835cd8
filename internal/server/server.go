// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	config → sqlite.DB → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the handlers knows
// HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/schedule-arranger/internal/auth"
	"github.com/sakif/schedule-arranger/internal/config"
	"github.com/sakif/schedule-arranger/internal/handler"
	"github.com/sakif/schedule-arranger/internal/middleware"
	sqliteRepo "github.com/sakif/schedule-arranger/internal/repository/sqlite"
	"github.com/sakif/schedule-arranger/internal/service"
)

// Server owns the router, the database connection, and the config. The
// database is closed during graceful shutdown so the WAL is flushed and the
// file lock released.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, handlers, and routes.
//
// ROUTE STRUCTURE:
//
//	GET  /                      → home page (login link / own schedules)
//	GET  /login                 → login page (stores ?from= redirect cookie)
//	GET  /logout                → clear session, redirect to /
//	GET  /auth/github           → start GitHub OAuth
//	GET  /auth/github/callback  → finish GitHub OAuth
//	GET  /schedules/new         → creation form                (auth)
//	POST /schedules             → create schedule              (auth)
//	GET  /schedules/{id}        → detail page with matrix      (auth)
//	GET  /schedules/{id}/edit   → edit form, creator only      (auth)
//	POST /schedules/{id}        → ?edit=1 update / ?delete=1 cascade delete / else 400 (auth)
//	POST /schedules/{id}/users/{uid}/candidates/{cid} → availability upsert, JSON (auth)
//	POST /schedules/{id}/users/{uid}/comments         → comment upsert, JSON (auth)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Static assets (stylesheet, availability toggle script).
	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	renderer, err := handler.NewRenderer(s.cfg.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	tokens, err := auth.NewTokenService(s.cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	github := auth.NewGitHubProvider(
		s.cfg.GitHubClientID,
		s.cfg.GitHubClientSecret,
		s.cfg.GitHubCallbackURL,
	)

	scheduleService := service.NewScheduleService(
		s.db.Schedules, s.db.Candidates, s.db.Availabilities, s.db.Comments, s.logger)
	availabilityService := service.NewAvailabilityService(s.db.Availabilities, s.db.Candidates, s.logger)
	commentService := service.NewCommentService(s.db.Comments, s.logger)

	authHandler := handler.NewAuthHandler(github, tokens, s.db.Users, s.logger)
	pageHandler := handler.NewPageHandler(renderer, scheduleService, s.logger)
	scheduleHandler := handler.NewScheduleHandler(renderer, scheduleService, s.logger)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)

	// Public pages — identity is optional but displayed when present.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))
		r.Get("/", pageHandler.HandleHome)
		r.Get("/login", pageHandler.HandleLogin)
	})

	s.router.Get("/logout", authHandler.HandleLogout)
	s.router.Get("/auth/github", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

	// Everything under /schedules requires a session; anonymous requests
	// are redirected to /login?from=<original URL>.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/schedules/new", scheduleHandler.HandleNewForm)
		r.Post("/schedules", scheduleHandler.HandleCreate)
		r.Get("/schedules/{scheduleID}", scheduleHandler.HandleDetail)
		r.Get("/schedules/{scheduleID}/edit", scheduleHandler.HandleEditForm)
		r.Post("/schedules/{scheduleID}", scheduleHandler.HandleUpdateOrDelete)
		r.Post("/schedules/{scheduleID}/users/{userID}/candidates/{candidateID}", availabilityHandler.HandleUpdate)
		r.Post("/schedules/{scheduleID}/users/{userID}/comments", commentHandler.HandleUpdate)
	})

	return nil
}

// Start starts the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Wait up to 30s for in-flight requests to finish
//  3. Close the database (deferred — runs even on error paths)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the configured router for httptest-based route tests.
func (s *Server) Router() http.Handler {
	return s.router
}
