package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Lcsmrct/Henna-alicia/internal/api"
	"github.com/Lcsmrct/Henna-alicia/internal/auth"
	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/config"
	"github.com/Lcsmrct/Henna-alicia/internal/contact"
	"github.com/Lcsmrct/Henna-alicia/internal/db"
	"github.com/Lcsmrct/Henna-alicia/internal/instagram"
	"github.com/Lcsmrct/Henna-alicia/internal/metrics"
	"github.com/Lcsmrct/Henna-alicia/internal/notify"
	redisclient "github.com/Lcsmrct/Henna-alicia/internal/redis"
	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "api-server")
	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort, "version", version)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Error("postgres connection error", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.Connect(rootCtx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("redis connection error", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", "error", err)
		}
	}()
	logger.Info("connected to Redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	services := catalog.Default()
	sender := notify.NewEmailSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	}, logger)

	bookingSvc := booking.NewService(
		booking.NewPgRepository(pgPool),
		redisclient.NewRedisLocker(rdb, cfg.LockTTL),
		booking.ServiceOptions{
			Notifier: notify.NewAppointmentNotifier(sender, services),
			Metrics:  bookingMetrics,
			Logger:   logger.With("component", "booking"),
			Location: cfg.BusinessTZ,
		},
	)

	if cfg.AdminPasswordHash == "" || cfg.AdminJWTSecret == "" {
		logger.Warn("admin login disabled: ADMIN_PASSWORD_HASH or ADMIN_JWT_SECRET missing")
	}

	router := api.NewRouter(api.RouterConfig{
		Bookings: bookingSvc,
		Reviews:  reviews.NewService(reviews.NewPgRepository(pgPool), logger.With("component", "reviews")),
		Contact:  contact.NewService(contact.NewPgRepository(pgPool), logger.With("component", "contact")),
		Instagram: instagram.NewService(instagram.Config{
			AppID:       cfg.InstagramAppID,
			AppSecret:   cfg.InstagramAppSecret,
			RedirectURI: cfg.InstagramRedirectURI,
		}, instagram.NewClient(), instagram.NewPgTokenStore(pgPool), logger.With("component", "instagram")),
		Auth:           auth.NewAuthenticator(cfg.AdminPasswordHash, cfg.AdminJWTSecret, cfg.AdminTokenTTL),
		Catalog:        services,
		Health:         api.NewHealthHandler(pgPool, rdb, cfg.Env, version),
		RateLimiter:    redisclient.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "henna:ratelimit").TrustForwardedFor(cfg.TrustProxy),
		HTTPMetrics:    httpMetrics,
		MetricsHandler: metrics.Handler(registry),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	logger.Info("api-server stopped")
}
