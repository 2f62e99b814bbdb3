package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lcsmrct/Henna-alicia/internal/auth"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/metrics"
	redisclient "github.com/Lcsmrct/Henna-alicia/internal/redis"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

type RouterConfig struct {
	Bookings  *booking.Service
	Reviews   *reviews.Service
	Contact   *contact.Service
	Instagram *instagram.Service
	Auth      *auth.Authenticator
	Catalog   catalog.Catalog

	Health         *HealthHandler
	RateLimiter    *redisclient.RateLimiter // optional, guards public writes
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler // optional, mounted at /metrics
	AllowedOrigins []string
	Logger         *logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	h := &handlers{
		bookings:  cfg.Bookings,
		reviews:   cfg.Reviews,
		contact:   cfg.Contact,
		instagram: cfg.Instagram,
		auth:      cfg.Auth,
		catalog:   cfg.Catalog,
		logger:    cfg.Logger,
	}

	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		throttle = cfg.RateLimiter.Middleware(cfg.Logger)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger, cfg.HTTPMetrics))
	r.Use(CORS(cfg.AllowedOrigins))

	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.Liveness)
		r.Get("/health/ready", cfg.Health.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/", h.banner)
		r.Get("/services", h.listServices)
		r.Get("/available-slots", h.listSlots)
		r.Put("/available-slots/{id}", h.setSlotAvailability)
		r.Get("/reviews", h.listReviews)
		r.Get("/client/appointments", h.clientAppointments)
		r.Get("/instagram/posts", h.instagramPosts)

		r.Group(func(r chi.Router) {
			r.Use(throttle)
			r.Post("/appointments", h.createAppointment)
			r.Post("/reviews", h.createReview)
			r.Post("/contact", h.createContactMessage)
			r.Post("/client/login", h.clientLogin)
			r.Post("/admin/login", h.adminLogin)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.AdminJWT)

			r.Post("/available-slots", h.createSlot)
			r.Delete("/available-slots/{id}", h.deleteSlot)

			r.Get("/appointments", h.listAppointments)
			r.Get("/appointments/{id}", h.getAppointment)
			r.Put("/appointments/{id}/status", h.updateAppointmentStatus)

			r.Put("/reviews/{id}", h.updateReview)
			r.Delete("/reviews/{id}", h.deleteReview)

			r.Get("/contact", h.listContactMessages)

			r.Get("/instagram/auth-url", h.instagramAuthURL)
			r.Post("/instagram/auth", h.instagramAuth)
			r.Delete("/instagram/token", h.instagramRevoke)
		})
	})

	return r
}
