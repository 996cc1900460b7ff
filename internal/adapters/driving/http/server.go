package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
	"github.com/custodia-labs/insight-core/internal/core/ports/driving"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	analysisService  driving.AnalysisService
	sessionService   driving.SessionService
	dashboardService driving.DashboardService

	// Infrastructure
	extractor   driven.TextExtractor
	shareSigner driven.ShareTokenSigner
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	analysisService driving.AnalysisService,
	sessionService driving.SessionService,
	dashboardService driving.DashboardService,
	extractor driven.TextExtractor,
	shareSigner driven.ShareTokenSigner,
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		analysisService:  analysisService,
		sessionService:   sessionService,
		dashboardService: dashboardService,
		extractor:        extractor,
		shareSigner:      shareSigner,
	}

	s.setupRoutes()

	logging := NewLoggingMiddleware()
	recovery := NewRecoveryMiddleware()
	cors := NewCORSMiddleware([]string{"*"})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      logging.Handler(recovery.Handler(cors.Handler(s.router))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // analysis runs up to three model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	upload := NewUploadMiddleware()

	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Analysis endpoints
	s.router.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	s.router.Handle("POST /api/v1/documents",
		upload.Handler(http.HandlerFunc(s.handleUploadDocument)))

	// Session endpoints
	s.router.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	s.router.HandleFunc("GET /api/v1/sessions/{id}/data", s.handleGetSessionData)
	s.router.HandleFunc("GET /api/v1/sessions/{id}/dashboard", s.handleGetSessionDashboard)

	// Share endpoints
	s.router.HandleFunc("POST /api/v1/sessions/{id}/share", s.handleShareSession)
	s.router.HandleFunc("GET /api/v1/shared/{token}", s.handleGetShared)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
