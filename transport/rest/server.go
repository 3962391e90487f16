package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type sessionManager interface {
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type Server struct {
	logger  *slog.Logger
	manager sessionManager
}

func New(logger *slog.Logger, manager sessionManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

// Handler - returns the router with every REST endpoint mounted.
func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(that.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", that.handlePing)
	r.Post("/best-move", that.handleBestMove)

	r.Get("/sessions/{id}", that.handleGetSession)
	r.Delete("/sessions/{id}", that.handleEndSession)

	return r
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		that.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}
