package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neuralhub/neuralhub-go/internal/middleware"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Auth     *service.AuthService
	Content  *service.ContentService
	Library  *service.LibraryService
	Waitlist *service.WaitlistService
}

// RouterOptions configures the transport concerns around the handlers.
type RouterOptions struct {
	Logger      *slog.Logger
	Registry    *prometheus.Registry
	CORSOrigins []string
	// AuthRateLimit and AuthRateBurst bound unauthenticated writes per client IP.
	AuthRateLimit float64
	AuthRateBurst int
}

// NewRouter builds the HTTP API. ctx bounds the lifetime of background
// housekeeping such as rate limiter eviction.
func NewRouter(ctx context.Context, svc Services, opts RouterOptions) http.Handler {
	logger := opts.Logger
	metrics := middleware.NewMetrics(opts.Registry)

	authHandler := NewAuthHandler(svc.Auth, logger)
	profileHandler := NewProfileHandler(svc.Auth, logger)
	contentHandler := NewContentHandler(svc.Content, logger)
	libraryHandler := NewLibraryHandler(svc.Library, logger)
	waitlistHandler := NewWaitlistHandler(svc.Waitlist, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/verify-email", authHandler.HandleVerifyEmail)
		r.Get("/library", libraryHandler.HandleList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, opts.AuthRateLimit, opts.AuthRateBurst))
			r.Post("/subscribe", waitlistHandler.HandleSubscribe)
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/verify-email", authHandler.HandleManualVerifyEmail)
			r.Post("/auth/forgot-password", authHandler.HandleForgotPassword)
			r.Post("/auth/reset-password", authHandler.HandleResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(svc.Auth))
			r.Get("/user/profile", profileHandler.HandleGetProfile)
			r.Put("/user/profile", profileHandler.HandleUpdateProfile)

			r.Get("/content", contentHandler.HandleList)
			r.Post("/content", contentHandler.HandleCreate)
			r.Put("/content", contentHandler.HandleUpdate)
			r.Delete("/content", contentHandler.HandleDelete)
		})
	})

	return r
}
