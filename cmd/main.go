package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-aggregator/internal/handler"
	mid "product-aggregator/internal/middleware"
	"product-aggregator/internal/offers"
	"product-aggregator/internal/offersync"
	"product-aggregator/internal/store"
	"product-aggregator/pkg/config"
	"product-aggregator/pkg/database"
	"product-aggregator/pkg/logger"
	"product-aggregator/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("product-aggregator")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting product-aggregator",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig.Metrics.Prefix)

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	st := store.New(db)

	// Remote offers source client; the credential is provisioned once here
	// and held in memory for the process lifetime.
	offersClient := offers.NewClient(
		appConfig.Offers.BaseURL,
		appConfig.Offers.AccessToken,
		appConfig.Offers.HTTPTimeout,
		log,
	)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), appConfig.Offers.HTTPTimeout)
	if err := offersClient.EnsureToken(startupCtx); err != nil {
		// Offer sync is best-effort: run without a credential rather than
		// couple catalog availability to the offers source.
		log.Warn("Could not provision offers source credential", zap.Error(err))
	}
	cancelStartup()

	syncer := offersync.NewSyncer(st, offersClient, log)
	scheduler := offersync.NewScheduler(appConfig.Offers.RefreshInterval, syncer, log)
	scheduler.Start()

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	// Product API routes
	h := handler.New(st, syncer)
	h.Register(e)

	go func() {
		if err := e.Start(":" + appConfig.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal, then stop the scheduler (awaiting any
	// in-flight tick) before draining the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("Service stopped")
}
