package routes

import (
	"net/http"

	"github.com/zatekoja/feedbackinsights/internal/api/handlers"
	"github.com/zatekoja/feedbackinsights/internal/api/middleware"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	feedbackHandler  *handlers.FeedbackHandler
	analyticsHandler *handlers.AnalyticsHandler
	healthHandler    *handlers.HealthHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	feedbackHandler *handlers.FeedbackHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		feedbackHandler:  feedbackHandler,
		analyticsHandler: analyticsHandler,
		healthHandler:    healthHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Feedback endpoints
	r.mux.HandleFunc("POST /api/feedback", r.feedbackHandler.SubmitFeedback)
	r.mux.HandleFunc("GET /api/feedback", r.feedbackHandler.ListFeedback)
	r.mux.HandleFunc("GET /api/feedback/{id}", r.feedbackHandler.GetFeedback)
	r.mux.HandleFunc("GET /api/feedback/count", r.feedbackHandler.CountFeedback)
	r.mux.Handle("GET /api/feedback/export", middleware.Compression(http.HandlerFunc(r.feedbackHandler.ExportFeedback)))
	r.mux.HandleFunc("GET /api/categories", r.feedbackHandler.ListCategories)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics", r.analyticsHandler.GetAnalytics)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
