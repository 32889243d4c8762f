// Package server sets up the ytgrab HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/downloads"
	"ytgrab/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// InfoService resolves metadata for a URL.
type InfoService interface {
	GetInfo(ctx context.Context, rawURL string) (*models.VideoMetadata, error)
}

// DownloadService opens a download payload.
type DownloadService interface {
	Download(ctx context.Context, req models.DownloadRequest) (*downloads.Payload, error)
}

// Server holds the request handlers' dependencies.
type Server struct {
	info    InfoService
	dl      DownloadService
	history *downloads.HistoryTracker
}

// New returns a Server. history may be nil.
func New(info InfoService, dl DownloadService, history *downloads.HistoryTracker) *Server {
	return &Server{
		info:    info,
		dl:      dl,
		history: history,
	}
}

// NewRouter returns a http Handler.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Pl, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length", "Content-Type"},
		MaxAge:         300,
	}))

	// Routes
	r.Get("/get-info", s.handleGetInfo)
	r.Get("/download", s.handleDownload)
	r.Get("/favicon.ico", handleFavicon)

	return r
}

// StartServer serves h on addr until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Pl.S("%s web server running on http://localhost%s", consts.ProgramName, addr)
	return serve(ctx, ln, h, consts.ShutdownTimeout)
}

// serve runs h on ln until ctx is cancelled. Requests still running after
// grace are cut off; that is a normal stop, not an error.
func serve(ctx context.Context, ln net.Listener, h http.Handler, grace time.Duration) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: consts.ReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Pl.I("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Pl.W("Forcing close of in-flight requests after %v: %v", grace, err)
		if cerr := srv.Close(); cerr != nil {
			logger.Pl.D(1, "Close after shutdown timeout: %v", cerr)
		}
	}
	return nil
}
