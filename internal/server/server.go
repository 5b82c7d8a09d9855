// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the store is opened here, handed to the
// services as repository interfaces, and the services to the handlers.
// Nothing below this package knows which store driver is running.
//
//	config.Config → OpenStore → repository.Store
//	                              → UserService / PostService
//	                                 → UserHandler / PostHandler → routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/postboard/internal/config"
	"github.com/sakif/postboard/internal/handler"
	"github.com/sakif/postboard/internal/middleware"
	"github.com/sakif/postboard/internal/repository"
	"github.com/sakif/postboard/internal/repository/gormstore"
	sqliteRepo "github.com/sakif/postboard/internal/repository/sqlite"
	"github.com/sakif/postboard/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the store. Start closes it after shutdown; callers that
// never call Start (tests, the migrate command) must call Close.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the store named by cfg.Driver and builds a ready-to-start server.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds a server around an already open store.
func NewWithStore(cfg config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	users := service.NewUserService(store.Users(), logger)
	posts := service.NewPostService(store.Posts(), store.Users(), logger)

	if cfg.SeedDemoData {
		seeded, err := service.SeedDemoData(context.Background(), users, posts)
		if err != nil {
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
		if !seeded {
			logger.Info("store not empty, demo data skipped")
		}
	}

	s.setupRoutes(users, posts)
	return s, nil
}

// OpenStore opens (and migrates) the store selected by cfg.Driver.
//
//	sqlite       database/sql + modernc.org/sqlite at cfg.DBPath
//	gorm-sqlite  gorm + SQLite at cfg.DBPath
//	postgres     gorm + PostgreSQL at cfg.DatabaseURL
func OpenStore(cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.Driver != config.DriverPostgres && !cfg.UsesMemory() {
		// os.MkdirAll is a no-op when the directory already exists.
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil
	case config.DriverGormSQLite:
		st, err := gormstore.Open(gormstore.SQLite(cfg.DBPath), logger)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return st, nil
	case config.DriverPostgres:
		st, err := gormstore.Open(gormstore.Postgres(cfg.DatabaseURL), logger)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
// GET    /healthz       → store ping
// GET    /users         → list users (?name=, ?email= filters)
// POST   /users         → create user
// GET    /users/{id}    → get user
// PUT    /users/{id}    → partial update
// DELETE /users/{id}    → delete user and all of its posts
// GET    /posts         → list posts
// POST   /posts         → create post (user_id must exist)
// GET    /posts/{id}    → get post
// PUT    /posts/{id}    → partial update
// DELETE /posts/{id}    → delete post
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: first, so every later log line can carry it
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: inside Logger, so a recovered panic is logged as a 500
// 5. RateLimit (optional): rejected requests are still logged
func (s *Server) setupRoutes(users *service.UserService, posts *service.PostService) {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	if s.config.RateLimitRPS > 0 {
		s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst, s.logger))
	}

	healthHandler := handler.NewHealthHandler(s.store, s.logger)
	userHandler := handler.NewUserHandler(users, s.logger)
	postHandler := handler.NewPostHandler(posts, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Post("/", userHandler.HandleCreate)
		r.Get("/{id}", userHandler.HandleGetByID)
		r.Put("/{id}", userHandler.HandleUpdate)
		r.Delete("/{id}", userHandler.HandleDelete)
	})

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.HandleList)
		r.Post("/", postHandler.HandleCreate)
		r.Get("/{id}", postHandler.HandleGetByID)
		r.Put("/{id}", postHandler.HandleUpdate)
		r.Delete("/{id}", postHandler.HandleDelete)
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start serves HTTP until ctx is cancelled (main cancels it on SIGINT or
// SIGTERM), then shuts down gracefully:
//  1. stop accepting new connections
//  2. wait up to ShutdownTimeout for in-flight requests
//  3. close the store (flushes the SQLite WAL, releases the file lock)
func (s *Server) Start(ctx context.Context) error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("driver", s.config.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
