// Package api provides the HTTP surface over the auth bridge, the
// session store and the domain services.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/auth"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/service"
	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	logger     *logging.Logger

	bridge          *auth.Bridge
	store           storage.Store
	hoursService    *service.HoursService
	letterService   *service.LetterService
	calendarService *service.CalendarService
	exportService   *service.ExportService
	directory       *storage.OpportunityDirectory
	recommendations *service.RecommendationService // nil in local mode
	reminders       *service.ReminderScheduler

	config *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int
}

// Deps bundles the collaborators the server exposes over HTTP.
type Deps struct {
	Bridge          *auth.Bridge
	Store           storage.Store
	HoursService    *service.HoursService
	LetterService   *service.LetterService
	CalendarService *service.CalendarService
	ExportService   *service.ExportService
	Directory       *storage.OpportunityDirectory
	Recommendations *service.RecommendationService
	Reminders       *service.ReminderScheduler
	Logger          *logging.Logger
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, deps *Deps) *Server {
	s := &Server{
		router:          mux.NewRouter(),
		logger:          deps.Logger,
		bridge:          deps.Bridge,
		store:           deps.Store,
		hoursService:    deps.HoursService,
		letterService:   deps.LetterService,
		calendarService: deps.CalendarService,
		exportService:   deps.ExportService,
		directory:       deps.Directory,
		recommendations: deps.Recommendations,
		reminders:       deps.Reminders,
		config:          config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Middleware order matters: auth must precede rate limiting so
	// authenticated callers are keyed by user id.
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(AuthMiddleware(s.bridge, s.store.Mode() == types.ModeLocal))
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Auth endpoints
	api.HandleFunc("/auth/provider/{name}", s.handleProviderSignIn).Methods("POST")
	api.HandleFunc("/auth/demo", s.handleDemoSignIn).Methods("POST")
	api.HandleFunc("/auth/session", s.handleSession).Methods("GET")
	api.HandleFunc("/auth/signout", s.handleSignOut).Methods("POST")

	// Profile endpoints
	api.HandleFunc("/profile", s.handleGetProfile).Methods("GET")
	api.HandleFunc("/profile", s.handleUpdateProfile).Methods("PUT")

	// Hours endpoints
	api.HandleFunc("/hours", s.handleListHours).Methods("GET")
	api.HandleFunc("/hours", s.handleLogHours).Methods("POST")
	api.HandleFunc("/hours/summary", s.handleHoursSummary).Methods("GET")
	api.HandleFunc("/hours/report", s.handleHoursReport).Methods("GET")
	api.HandleFunc("/hours/export", s.handleHoursExport).Methods("GET")
	api.HandleFunc("/hours/certificate", s.handleHoursCertificate).Methods("GET")
	api.HandleFunc("/hours/{id}/verify", s.handleVerifyHours).Methods("POST")
	api.HandleFunc("/hours/{id}", s.handleDeleteHours).Methods("DELETE")

	// Event endpoints
	api.HandleFunc("/events", s.handleListEvents).Methods("GET")
	api.HandleFunc("/events", s.handleCreateEvent).Methods("POST")
	api.HandleFunc("/events/export.ics", s.handleEventsExportICS).Methods("GET")
	api.HandleFunc("/events/{id}", s.handleUpdateEvent).Methods("PUT")
	api.HandleFunc("/events/{id}", s.handleDeleteEvent).Methods("DELETE")

	// Letter endpoints
	api.HandleFunc("/letters", s.handleListLetters).Methods("GET")
	api.HandleFunc("/letters/generate", s.handleGenerateLetter).Methods("POST")
	api.HandleFunc("/letters/{id}", s.handleUpdateLetter).Methods("PUT")
	api.HandleFunc("/letters/{id}", s.handleDeleteLetter).Methods("DELETE")

	// Application endpoints
	api.HandleFunc("/applications", s.handleListApplications).Methods("GET")
	api.HandleFunc("/applications", s.handleCreateApplication).Methods("POST")
	api.HandleFunc("/applications/{id}", s.handleUpdateApplication).Methods("PUT")

	// Opportunity endpoints (public)
	api.HandleFunc("/opportunities", s.handleListOpportunities).Methods("GET")
	api.HandleFunc("/opportunities/{id}", s.handleGetOpportunity).Methods("GET")

	// Recommendation endpoints
	api.HandleFunc("/recommendations", s.handleListRecommendations).Methods("GET")
	api.HandleFunc("/recommendations/{id}/dismiss", s.handleDismissRecommendation).Methods("POST")
	api.HandleFunc("/recommendations/{id}/save", s.handleSaveRecommendation).Methods("POST")
	api.HandleFunc("/recommendations/{id}/save", s.handleUnsaveRecommendation).Methods("DELETE")

	// Export endpoint
	api.HandleFunc("/export", s.handleExport).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "volunteer-hub",
		"mode":    string(s.store.Mode()),
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router. Used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}
