package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/oauth"
	"flightdesk-service/internal/infrastructure/persistence"
	"flightdesk-service/internal/infrastructure/router"
	"flightdesk-service/internal/interface/handler"
	"flightdesk-service/internal/interface/notice"
	apiRepo "flightdesk-service/internal/interface/repository"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting FlightDesk Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.MetricsNamespace, registry)

	// Session store
	kv, closeStore, err := persistence.OpenSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open session store", "driver", cfg.StoreDriver, "error", err)
	}
	session := usecase.NewSessionStore(kv)

	// Flight API client authenticated with the stored bearer token
	httpClient := &http.Client{
		Timeout:   cfg.APITimeout,
		Transport: oauth.NewAuthorizedTransport(oauth.NewStoreTokenSource(kv), http.DefaultTransport),
	}
	var limiter *rate.Limiter
	if cfg.APIRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.APIRateLimit), cfg.APIRateBurst)
	}
	flightAPI := apiRepo.NewFlightAPIRepository(cfg.APIBaseURL, httpClient, limiter, log, m)

	// Flight desk
	board := notice.NewBoard(50, log)
	desk := usecase.NewFlightDesk(usecase.FlightDeskSettings{
		LookupDebounce: cfg.LookupDebounce,
		LookupMinChars: cfg.LookupMinChars,
		LookupTimeout:  cfg.APITimeout,
		PageSize:       cfg.ResultsPageSize,
		SearchCurrency: cfg.SearchCurrency,
		Reservation: usecase.ReservationSettings{
			TotalAmount: cfg.ReservationAmount,
			Currency:    cfg.ReservationCurrency,
			ReloadDelay: cfg.ReloadDelay,
		},
	}, usecase.FlightDeskDeps{
		Catalog:      flightAPI,
		Flights:      flightAPI,
		Reservations: flightAPI,
		Session:      session,
		Notifier:     board,
		Logger:       log,
		Metrics:      m,
	})
	if err := desk.Start(ctx); err != nil {
		log.Fatal("Failed to start flight desk", "error", err)
	}

	// HTTP server
	deskHandler := handler.NewDeskHandler(desk, session, board, log)
	engine := router.NewDeskRouter(router.Options{
		Mode:        cfg.GinMode,
		CORSOrigins: cfg.CORSOrigins,
		Version:     cfg.AppVersion,
	}, deskHandler, registry, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	desk.Close()
	cancel()

	if err := closeStore(shutdownCtx); err != nil {
		log.Error("Session store close error", "error", err)
	}

	log.Info("FlightDesk Service stopped")
}
