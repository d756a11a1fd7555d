package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bggapi/cache"
	"bggapi/concurrent"
	"bggapi/config"
	"bggapi/db"
	"bggapi/handlers"
	"bggapi/mongodb"
	"bggapi/monitoring"
	"bggapi/server"
	"bggapi/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		utils.Log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	utils.InitLogger(utils.LoggerOptions{Level: cfg.LogLevel, Mode: cfg.Mode, File: cfg.LogFile})
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Open(cfg.SQL)
	if err != nil {
		return err
	}
	defer db.Close(sqlDB)

	mongoClient, err := mongodb.Connect(ctx, cfg.Mongo.URL)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			utils.LogWarn("MongoDB disconnect failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	metrics := monitoring.NewMetrics()
	opts := handlers.GameHandlerOptions{Metrics: metrics, Timeout: cfg.QueryTimeout}

	if cfg.Redis.Enabled() {
		responseCache, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			utils.LogWarn("Redis unavailable, response cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer responseCache.Close()
			opts.Cache = responseCache
			utils.LogInfo("Response cache enabled", map[string]interface{}{"addr": cfg.Redis.Addr, "ttl": cfg.Redis.TTL.String()})
		}
	}

	games := handlers.NewGameHandler(
		db.NewGameRepository(sqlDB),
		mongodb.NewReviewRepository(mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)),
		opts,
	)
	router := server.NewRouter(games, server.RouterOptions{CORSOrigins: cfg.CORSOrigins, Metrics: metrics})
	srv := server.NewHTTPServer(cfg.Port, router)

	if cfg.MetricsAddr != "" {
		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			utils.LogInfo("Metrics listener started", map[string]interface{}{"addr": cfg.MetricsAddr})
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				utils.LogError("Metrics listener failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer metricsSrv.Close()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.LogError("HTTP shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	orchestrator := &server.Orchestrator{
		Probes: []concurrent.Task{
			{Name: "sql", Run: func(ctx context.Context) error { return db.Ping(ctx, sqlDB) }},
			{Name: "mongo", Run: func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) }},
		},
		Attempts:     cfg.StartupAttempts,
		Backoff:      cfg.StartupBackoff,
		ProbeTimeout: 15 * time.Second,
		Serve: func() error {
			utils.LogInfo("Server started", map[string]interface{}{"port": cfg.Port, "started_at": time.Now().Format(time.RFC3339)})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	return orchestrator.Run(ctx)
}
