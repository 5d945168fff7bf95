// Package server is a development backend for the Swift Stay admin API. It speaks the same
// envelope contract as production and keeps its data in memory.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiftstay/admin/internal/auth"
	"github.com/swiftstay/admin/internal/config"
)

// adminAccount is the single operator account of the development backend
type adminAccount struct {
	ID           string
	FullName     string
	Email        string
	Role         string
	PasswordHash string
	LastLoginAt  string
	CreatedAt    string
}

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	docs      *documentStore
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	issuer    *auth.Issuer
	version   string

	mu         sync.RWMutex
	admin      adminAccount
	settings   appSettings
	commission float64
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	issuer, err := auth.NewIssuer(cfg.Server.JWTSecret, cfg.Server.AccessTokenTTL, cfg.Server.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(cfg.Server.AdminPassword)
	if err != nil {
		return nil, err
	}

	docs, err := newDocumentStore()
	if err != nil {
		return nil, err
	}

	server := &Server{
		docs:      docs,
		config:    cfg,
		logger:    zlog,
		validator: newValidator(),
		issuer:    issuer,
		version:   version,
		admin: adminAccount{
			ID:           uuid.NewString(),
			FullName:     "Swift Stay Admin",
			Email:        cfg.Server.AdminEmail,
			Role:         "admin",
			PasswordHash: passwordHash,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		},
		settings: appSettings{
			AppName:            cfg.App.Name,
			AppVersion:         cfg.App.Version,
			Environment:        cfg.App.Env,
			AllowRegistrations: true,
		},
		commission: 5,
	}

	if cfg.Server.Seed {
		if err := server.seed(); err != nil {
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	server.setupRouter()

	return server, nil
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) currentAdmin() adminAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// Health check endpoints (no auth required)
	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")
	api.GET("/health", s.healthCheck)
	api.POST("/admin/login", s.login)

	// Authenticated API routes (JWT required)
	authed := api.Group("")
	authed.Use(s.JWTAuthMiddleware(), s.AdminOnlyMiddleware())

	admin := authed.Group("/admin")
	{
		admin.GET("/dashboard", s.getDashboard)

		admin.GET("/profile", s.getProfile)
		admin.PUT("/profile", s.updateProfile)
		admin.GET("/settings", s.getSettings)
		admin.PUT("/settings", s.updateSettings)
		admin.GET("/commission-settings", s.getCommission)
		admin.PUT("/commission-settings", s.updateCommission)

		s.registerCatalog(admin)

		admin.GET("/users", s.listUsers)
		admin.GET("/users/stats", s.getUserStats)
		admin.GET("/users/:id", s.getUser)
		admin.PATCH("/users/:id/status", s.updateUserStatus)
		admin.DELETE("/users/:id", s.deleteUser)

		admin.GET("/notifications", s.listNotifications)
		admin.GET("/notifications-stats", s.getNotificationStats)
		admin.POST("/notifications", s.createNotification)
		admin.DELETE("/notifications/:id", s.deleteNotification)
		admin.PATCH("/notifications/:id/read", s.markNotificationRead)
		admin.POST("/test-push-notification", s.testPushNotification)

		admin.GET("/owner-applications", s.listOwnerApplications)
		admin.PATCH("/owner-applications/:id/status", s.updateOwnerApplicationStatus)

		admin.GET("/reports/property-earnings", s.getEarningsReport)

		admin.GET("/transfers", s.listTransfers)
		admin.GET("/transfers/stats", s.getTransferStats)
		admin.GET("/transfers/banks", s.listBanks)
		admin.POST("/transfers/verify-bank", s.verifyBank)
		admin.GET("/transfers/:id", s.getTransfer)
		admin.POST("/transfers", s.createTransfer)
		admin.PATCH("/transfers/:id/cancel", s.cancelTransfer)
	}

	bookings := authed.Group("/bookings")
	{
		bookings.GET("/admin/all", s.listBookings)
		bookings.GET("/admin/stats", s.getBookingStats)
		bookings.PATCH("/admin/:id/status", s.updateBookingStatus)
		bookings.GET("/:id", s.getBooking)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	respondOK(c, http.StatusOK, "Swift Stay API is running", gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.version,
	})
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	addr := s.config.Server.Addr

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
