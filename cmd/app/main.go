package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quadra-service/internal/config"
	availabilityGet "quadra-service/internal/http-server/handlers/availability/get"
	bookingCancel "quadra-service/internal/http-server/handlers/bookings/cancel"
	bookingCheck "quadra-service/internal/http-server/handlers/bookings/check"
	bookingComplete "quadra-service/internal/http-server/handlers/bookings/complete"
	bookingConfirm "quadra-service/internal/http-server/handlers/bookings/confirm"
	bookingCreate "quadra-service/internal/http-server/handlers/bookings/create"
	bookingGet "quadra-service/internal/http-server/handlers/bookings/get"
	bookingPayment "quadra-service/internal/http-server/handlers/bookings/payment"
	calendarGet "quadra-service/internal/http-server/handlers/calendar/get"
	courtCreate "quadra-service/internal/http-server/handlers/courts/create"
	courtGet "quadra-service/internal/http-server/handlers/courts/get"
	courtUpdate "quadra-service/internal/http-server/handlers/courts/update"
	hoursCreate "quadra-service/internal/http-server/handlers/operating_hours/create"
	hoursGet "quadra-service/internal/http-server/handlers/operating_hours/get"
	hoursUpdate "quadra-service/internal/http-server/handlers/operating_hours/update"
	pricingCreate "quadra-service/internal/http-server/handlers/pricing/create"
	pricingGet "quadra-service/internal/http-server/handlers/pricing/get"
	pricingUpdate "quadra-service/internal/http-server/handlers/pricing/update"
	recurringCheck "quadra-service/internal/http-server/handlers/recurring/check"
	recurringCreate "quadra-service/internal/http-server/handlers/recurring/create"
	recurringDeactivate "quadra-service/internal/http-server/handlers/recurring/deactivate"
	recurringGet "quadra-service/internal/http-server/handlers/recurring/get"
	timesGet "quadra-service/internal/http-server/handlers/times/get"
	"quadra-service/internal/lock"
	svc "quadra-service/internal/service"
	"quadra-service/internal/storage/postgres"
	slogpretty "quadra-service/pkg/handlers/slogPretty"
	"quadra-service/pkg/middleware/mwLogger"
	"quadra-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Courts
	router.Post("/courts", courtCreate.New(log, service))
	router.Get("/courts", courtGet.New(log, service))
	router.Get("/courts/{id}", courtGet.New(log, service))
	router.Put("/courts/{id}", courtUpdate.New(log, service))
	router.Get("/courts/{id}/times", timesGet.New(log, service))

	// Operating Hours
	router.Post("/operating_hours", hoursCreate.New(log, service))
	router.Get("/operating_hours", hoursGet.New(log, service))
	router.Put("/operating_hours/{id}", hoursUpdate.New(log, service))

	// Pricing Rules
	router.Post("/pricing_rules", pricingCreate.New(log, service))
	router.Get("/pricing_rules", pricingGet.New(log, service))
	router.Put("/pricing_rules/{id}", pricingUpdate.New(log, service))

	// Recurring Classes
	router.Post("/recurring_classes", recurringCreate.New(log, service))
	router.Post("/recurring_classes/check", recurringCheck.New(log, service))
	router.Get("/recurring_classes", recurringGet.New(log, service))
	router.Get("/recurring_classes/{id}", recurringGet.New(log, service))
	router.Put("/recurring_classes/{id}/deactivate", recurringDeactivate.New(log, service))

	// Bookings
	router.Post("/bookings", bookingCreate.New(log, service))
	router.Post("/bookings/check", bookingCheck.New(log, service))
	router.Get("/bookings", bookingGet.New(log, service))
	router.Get("/bookings/{id}", bookingGet.New(log, service))
	router.Put("/bookings/{id}/cancel", bookingCancel.New(log, service))
	router.Put("/bookings/{id}/confirm", bookingConfirm.New(log, service))
	router.Put("/bookings/{id}/complete", bookingComplete.New(log, service))
	router.Put("/bookings/{id}/payment", bookingPayment.New(log, service))

	// Availability
	router.Get("/availability", availabilityGet.New(log, service))
	router.Get("/calendar", calendarGet.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
