package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router           chi.Router
	authMiddleware   *Middleware
	authHandler      *AuthHandler
	issueHandler     *IssueHandler
	analyticsHandler *AnalyticsHandler
	adminHandler     *AdminHandler
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	authUC usecase.AuthUseCase,
	issueUC usecase.IssueUseCase,
	analyticsUC usecase.AnalyticsUseCase,
	adminUC usecase.AdminUseCase,
) *Server {
	router := chi.NewRouter()
	authMiddleware := NewMiddleware(authUC)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	authHandler := NewAuthHandler(authUC)
	issueHandler := NewIssueHandler(issueUC)
	analyticsHandler := NewAnalyticsHandler(analyticsUC)
	adminHandler := NewAdminHandler(adminUC)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})

		// User routes (protected)
		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/me", authHandler.HandleUserMe)
		})

		// Issue routes (protected)
		r.Route("/issues", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", issueHandler.HandleCreate)
			r.Get("/", issueHandler.HandleList)
			r.Get("/{issueID}", issueHandler.HandleGet)
			r.Patch("/{issueID}/status", issueHandler.HandleUpdateStatus)
			r.Post("/{issueID}/analyze", issueHandler.HandleAnalyze)
			r.Delete("/{issueID}", issueHandler.HandleDelete)
		})

		// Analytics routes (protected, restricted to providers and admins
		// inside the use case)
		r.Route("/analytics", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/", analyticsHandler.HandleSummary)
			r.Get("/export/snapshot", analyticsHandler.HandleExportSnapshot)
			r.Get("/export/csv", analyticsHandler.HandleExportCSV)
		})

		// Admin routes (protected, restricted inside the use case)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/users", adminHandler.HandleListUsers)
			r.Patch("/users/{userID}/role", adminHandler.HandleUpdateRole)
			r.Delete("/users/{userID}", adminHandler.HandleDeleteUser)
		})
	})

	// Landing page
	router.Get("/*", handleFallbackHome)

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:           router,
		authMiddleware:   authMiddleware,
		authHandler:      authHandler,
		issueHandler:     issueHandler,
		analyticsHandler: analyticsHandler,
		adminHandler:     adminHandler,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "motorq",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// handleFallbackHome handles the root path
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Motorq</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: linear-gradient(135deg, #1f3c88 0%, #5893d4 100%);
            color: white;
        }
        .container {
            text-align: center;
            padding: 2rem;
            background: rgba(255, 255, 255, 0.1);
            border-radius: 10px;
            backdrop-filter: blur(10px);
        }
        h1 {
            margin: 0 0 1rem 0;
            font-size: 3rem;
        }
        p {
            margin: 0.5rem 0;
            font-size: 1.2rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Motorq</h1>
        <p>Vehicle Issue Tracking and Analytics Service</p>
        <p>Use the /api endpoints to interact with the service.</p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(ctx context.Context, w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode error response", "error", err)
	}
}
