// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware, and routes,
// and decides:
// - Which URL patterns map to which handler functions
// - Which routes sit behind the auth gate
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Load → sqldb.New (DB, migrated) → server.New
//
// server.New creates:
//
//	TokenService + Hasher → services (DB as their repositories) → handlers → routes
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/routes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/forum-backend/internal/auth"
	"github.com/sakif/forum-backend/internal/config"
	"github.com/sakif/forum-backend/internal/handler"
	"github.com/sakif/forum-backend/internal/middleware"
	"github.com/sakif/forum-backend/internal/repository/sqldb"
	"github.com/sakif/forum-backend/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The DB is opened by the caller and handed in, so the `migrate` command and
// tests can share the same constructor. The caller closes it after Start
// returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqldb.DB
	tokens *auth.TokenService
}

// New wires services and handlers on top of db and builds the router.
//
// It fails if the JWT secret is unusable or the password scheme is unknown:
// both are fatal configuration errors the server must not start with.
func New(cfg *config.Config, db *sqldb.DB, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWT.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	hasher, err := auth.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("creating password hasher: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}
	s.routes(hasher)

	return s, nil
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                                  → DB ping
//	GET    /metrics                                  → Prometheus
//	POST   /api/users/register | /api/users/login    → credentials → {id, token}
//	GET    /api/users/me                        [A]  → caller
//	GET    /api/users/{id}
//	GET    /api/categories[/{id}]        POST   [A]
//	GET    /api/topics[/{id}]            POST, PATCH, DELETE [A]
//	GET    /api/search?query=
//	GET    /api/posts?topic_id=, /api/posts/{id}     POST, PATCH, DELETE [A]
//	GET    /api/posts/{id}/reactions
//	POST   /api/posts/{id}/reactions/{reaction_id}   DELETE [A]
//	GET    /api/available-reactions      POST, PATCH, DELETE [A]
//	GET    /api/bookmarks                POST, DELETE        [A]
//	GET    /api/reports[/{id}]           POST                [A]
//	GET    /api/stats
//
// [A] = behind auth.RequireAuth. Every route that stamps an author or user id
// is, and takes that id from the verified token, never from the body.
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns an id to each request (the logger prints it)
// 2. RealIP: extracts the client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: catches panics and returns 500 instead of crashing
// 5. CORS: answers preflights before any route runs
func (s *Server) routes(hasher auth.Hasher) {
	r := s.router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))

	// === SERVICES ===
	// *sqldb.DB implements every repository interface.
	authService := service.NewAuthService(s.db, s.tokens, hasher, s.logger)
	categoryService := service.NewCategoryService(s.db, s.logger)
	topicService := service.NewTopicService(s.db, s.logger)
	postService := service.NewPostService(s.db, s.logger)
	reactionService := service.NewReactionService(s.db, s.logger)
	bookmarkService := service.NewBookmarkService(s.db, s.logger)
	reportService := service.NewReportService(s.db, s.logger)
	statsService := service.NewStatsService(s.db)

	// === HANDLERS ===
	users := handler.NewUserHandler(authService, s.logger)
	categories := handler.NewCategoryHandler(categoryService, s.logger)
	topics := handler.NewTopicHandler(topicService, s.logger)
	posts := handler.NewPostHandler(postService, reactionService, s.logger)
	reactions := handler.NewReactionHandler(reactionService, s.logger)
	bookmarks := handler.NewBookmarkHandler(bookmarkService, s.logger)
	reports := handler.NewReportHandler(reportService, s.logger)
	site := handler.NewSiteHandler(statsService, s.db, s.logger)

	requireAuth := auth.RequireAuth(s.tokens, s.logger)

	r.Get("/healthz", site.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// === Public ===
		r.Post("/users/register", users.HandleRegister)
		r.Post("/users/login", users.HandleLogin)
		r.Get("/users/{id}", users.HandleGetUser)

		r.Get("/categories", categories.HandleList)
		r.Get("/categories/{id}", categories.HandleGet)

		r.Get("/topics", topics.HandleList)
		r.Get("/topics/{id}", topics.HandleGet)
		r.Get("/search", topics.HandleSearch)

		r.Get("/posts", posts.HandleList)
		r.Get("/posts/{id}", posts.HandleGet)
		r.Get("/posts/{id}/reactions", posts.HandleListReactions)

		r.Get("/available-reactions", reactions.HandleList)
		r.Get("/stats", site.HandleStats)

		// === Protected ===
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/users/me", users.HandleMe)

			r.Post("/categories", categories.HandleCreate)

			r.Post("/topics", topics.HandleCreate)
			r.Patch("/topics/{id}", topics.HandleUpdate)
			r.Delete("/topics/{id}", topics.HandleDelete)

			r.Post("/posts", posts.HandleCreate)
			r.Patch("/posts/{id}", posts.HandleUpdate)
			r.Delete("/posts/{id}", posts.HandleDelete)
			r.Post("/posts/{id}/reactions/{reaction_id}", posts.HandleReact)
			r.Delete("/posts/{id}/reactions/{reaction_id}", posts.HandleUnreact)

			r.Post("/available-reactions", reactions.HandleCreate)
			r.Patch("/available-reactions/{id}", reactions.HandleUpdate)
			r.Delete("/available-reactions/{id}", reactions.HandleDelete)

			r.Get("/bookmarks", bookmarks.HandleList)
			r.Post("/bookmarks", bookmarks.HandleAdd)
			r.Delete("/bookmarks/{topic_id}", bookmarks.HandleRemove)

			r.Post("/reports", reports.HandleCreate)
			r.Get("/reports", reports.HandleList)
			r.Get("/reports/{id}", reports.HandleGet)
		})
	})
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (server.shutdown_timeout)
// 3. Return; the caller then closes the DB
//
// main passes a context from signal.NotifyContext, so Ctrl+C and SIGTERM
// arrive here as ctx.Done().
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("driver", s.config.Database.Driver),
			slog.String("password_scheme", s.config.Auth.PasswordScheme),
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
