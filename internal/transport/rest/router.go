package rest

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"esgcheck/internal/config"
	"esgcheck/internal/service"
	"esgcheck/internal/transport/rest/handler"
	"esgcheck/internal/transport/rest/middleware"
	"esgcheck/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	AssessmentService *service.AssessmentService
	ReportService     *service.ReportService
	HealthChecks      map[string]handler.PingFunc
	WSHub             *ws.Hub
	CORS              config.CORSConfig
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	reportHandler := handler.NewReportHandler(c.ReportService)
	healthHandler := handler.NewHealthHandler(c.HealthChecks)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))

	// Health check
	r.HandleFunc("/health", healthHandler.Live).Methods("GET")
	r.HandleFunc("/health/deps", healthHandler.Deps).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessment/kesg", catalogHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessment/kesg/{id:[0-9]+}", catalogHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AssessmentService)
		v1.HandleFunc("/ws/assessments/{id}", wsHandler.AssessmentWS).Methods("GET")
	}

	// Company user routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Discard).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/answers", assessmentHandler.Answer).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/reset", assessmentHandler.Reset).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/report", reportHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/submissions", assessmentHandler.ListSubmissions).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/submissions/{id}", assessmentHandler.GetSubmission).Methods("GET", "OPTIONS")

	return r
}

// corsMiddleware answers preflight requests and stops any other OPTIONS
// request before it reaches a handler
func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	handleCORS := cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	})

	return func(next http.Handler) http.Handler {
		return handleCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
