package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumvida/lumvida-backend/internal/config"
	"github.com/lumvida/lumvida-backend/internal/db"
	"github.com/lumvida/lumvida-backend/internal/filter"
	"github.com/lumvida/lumvida-backend/internal/geocoding"
	"github.com/lumvida/lumvida-backend/internal/goroutine"
	httpHandlers "github.com/lumvida/lumvida-backend/internal/http/handlers"
	httpRouter "github.com/lumvida/lumvida-backend/internal/http/router"
	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/repository"
	"github.com/lumvida/lumvida-backend/internal/service"
	"github.com/lumvida/lumvida-backend/internal/storage"
	"github.com/lumvida/lumvida-backend/internal/store"
	"github.com/lumvida/lumvida-backend/internal/ws"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Database and migrations.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to the database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migration failure: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: failed to prepare media storage: %v", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager)
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("main: failed to ensure admin account: %v", err)
	}

	geoProvider := geocoding.NewGeoNames(cfg.GeoNamesBaseURL, cfg.GeoNamesUsername, cfg.GeoNamesCountry)
	geoCache := geocoding.NewCache(geoProvider, geocoding.Defaults{
		Ciudad:    cfg.DefaultCiudad,
		Estado:    cfg.DefaultEstado,
		Municipio: cfg.DefaultMunicipio,
	}, cfg.GeocodeTimeout)

	reportService := service.NewReportService(reportRepo, filter.New(), geoCache)

	// Websockets.
	hub := ws.NewHub()
	go hub.Run()

	// Live collection feed: every database change refreshes the
	// snapshot and pings connected dashboards.
	watcher := store.NewWatcher(cfg.DatabaseURL, cfg.ReportsChannel, reportRepo)
	watcher.Subscribe(reportService.OnSnapshot)
	watcher.Subscribe(func(snap store.Snapshot) {
		if err := hub.Broadcast("reports_changed", map[string]any{"total": len(snap)}); err != nil && logger.Log != nil {
			logger.Log.WithError(err).Warn("failed to broadcast report change")
		}
	})
	goroutine.SafeGoWithContext(ctx, func(runCtx context.Context) {
		if err := watcher.Run(runCtx); err != nil && runCtx.Err() == nil {
			log.Printf("main: report watcher stopped: %v", err)
		}
	})

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	reportHandler := httpHandlers.NewReportHandler(reportService, photoStorage, cfg.LatestFeedSize)
	statsHandler := httpHandlers.NewStatsHandler(reportService)
	geocodeHandler := httpHandlers.NewGeocodeHandler(geoCache)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, authHandler, reportHandler, statsHandler, geocodeHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: failed to stop http server: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: failed to close the database: %v", err)
	}
}
