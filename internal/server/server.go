// Package server собирает HTTP сервер redtrack: маршруты, middleware
// и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/redtrack/internal/server/config"
	"github.com/iudanet/redtrack/internal/server/handlers"
	"github.com/iudanet/redtrack/internal/server/middleware"
	"github.com/iudanet/redtrack/internal/server/storage"
)

// Server represents the redtrack HTTP server
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Storage
	version string
	httpSrv *http.Server
}

// New создает сервер поверх уже открытого хранилища
func New(cfg *config.Config, logger *slog.Logger, store storage.Storage, version string) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		version: version,
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// routes собирает mux и цепочку middleware
func (s *Server) routes() http.Handler {
	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(s.cfg.JWTSecret),
		AccessTokenTTL:  s.cfg.AccessTokenTTL,
		RefreshTokenTTL: s.cfg.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(s.logger, s.store, s.store, jwtConfig)
	datesHandler := handlers.NewDatesHandler(s.logger, s.store)
	healthHandler := handlers.NewHealthHandler(s.logger, s.version)

	auth := middleware.AuthMiddleware(s.logger, jwtConfig)

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)

	// Защищенные маршруты
	mux.Handle("POST /api/v1/auth/password", auth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/v1/dates", auth(http.HandlerFunc(datesHandler.Add)))
	mux.Handle("GET /api/v1/dates", auth(http.HandlerFunc(datesHandler.List)))
	mux.Handle("DELETE /api/v1/dates", auth(http.HandlerFunc(datesHandler.DeleteBulk)))
	mux.Handle("DELETE /api/v1/dates/{id}", auth(http.HandlerFunc(datesHandler.Delete)))
	mux.Handle("PUT /api/v1/dates/{id}", auth(http.HandlerFunc(datesHandler.Edit)))
	mux.Handle("GET /api/v1/dates/count", auth(http.HandlerFunc(datesHandler.Count)))

	// Auth эндпоинты ограничиваем строже: защита от перебора паролей
	authLimits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/login", Rate: s.cfg.AuthRateLimit, Window: s.cfg.AuthRateLimitWindow},
		{Path: "/api/v1/auth/register", Rate: s.cfg.AuthRateLimit, Window: s.cfg.AuthRateLimitWindow},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(authLimits, s.cfg.RateLimit, s.cfg.RateLimitWindow, s.logger)(handler)
	handler = middleware.LoggingWithSkip(s.logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// Run запускает HTTP сервер и блокируется до отмены ctx или ошибки listen.
// При отмене ctx выполняется graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "address", s.cfg.Address)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
