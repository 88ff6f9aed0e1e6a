// Package api exposes the HTTP surface: authentication, user registration,
// the file catalog, and the liveness/stats endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedepot/internal/catalog"
	"filedepot/internal/config"
	"filedepot/internal/storage"
)

// Catalog is the document-store surface the handlers depend on. Lookups
// return (nil, nil) when nothing matches.
type Catalog interface {
	CreateUser(ctx context.Context, u *catalog.User) error
	UserByEmail(ctx context.Context, email string) (*catalog.User, error)
	UserByID(ctx context.Context, id string) (*catalog.User, error)
	CountUsers(ctx context.Context) (int64, error)

	CreateFile(ctx context.Context, f *catalog.FileEntry) error
	FileByID(ctx context.Context, id string) (*catalog.FileEntry, error)
	FileOwnedBy(ctx context.Context, id, userID string) (*catalog.FileEntry, error)
	ListFiles(ctx context.Context, userID, parentID string, page int) ([]catalog.FileEntry, error)
	SetFileVisibility(ctx context.Context, id, userID string, public bool) (*catalog.FileEntry, error)
	CountFiles(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}

// TokenStore issues and resolves opaque session tokens.
type TokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) (bool, error)
	Ping(ctx context.Context) error
}

// Enqueuer pushes background jobs onto the queue lanes.
type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, userID, fileID string) error
	EnqueueWelcome(ctx context.Context, userID string) error
}

// Server hosts the HTTP handlers over injected collaborators.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	store  Catalog
	tokens TokenStore
	blobs  storage.BlobStore
	jobs   Enqueuer
}

// NewServer wires the handlers to their dependencies.
func NewServer(cfg *config.Config, log *slog.Logger, store Catalog, tokens TokenStore, blobs storage.BlobStore, jobs Enqueuer) *Server {
	return &Server{cfg: cfg, log: log, store: store, tokens: tokens, blobs: blobs, jobs: jobs}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/status", s.StatusHandler)
	r.Get("/stats", s.StatsHandler)

	r.Get("/connect", s.ConnectHandler)
	r.Get("/disconnect", s.DisconnectHandler)
	r.Post("/users", s.CreateUserHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/users/me", s.CurrentUserHandler)
		r.Post("/files", s.UploadHandler)
		r.Get("/files", s.IndexHandler)
		r.Get("/files/{id}", s.ShowHandler)
		r.Put("/files/{id}/publish", s.PublishHandler)
		r.Put("/files/{id}/unpublish", s.UnpublishHandler)
	})

	// Download authorizes by visibility or ownership itself, the token is
	// optional here.
	r.Get("/files/{id}/data", s.DownloadHandler)

	return r
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("api listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
