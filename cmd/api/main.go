package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-api/internal/db"
	"github.com/BruksfildServices01/agenda-api/internal/logger"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/notify"
	"github.com/BruksfildServices01/agenda-api/internal/routes"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	// Without redis, drafts can be replayed until they expire and public
	// routes are not rate limited.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewClient(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(reg)

	auditDispatcher := audit.NewDispatcher(audit.NewGormWriter(db), log)

	var sender notify.Sender = notify.NewNoopSender()
	if cfg.WASenderAPIKey != "" {
		sender = notify.NewWASender(cfg.WASenderAPIURL, cfg.WASenderAPIKey, cfg.NotifyTimeout)
	} else {
		log.Info("WASENDER_API_KEY not set, confirmations are not sent")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Redis:    rdb,
		Config:   cfg,
		Logger:   log,
		Metrics:  bookingMetrics,
		Gatherer: reg,
		Audit:    auditDispatcher,
		Hook:     notify.NewConfirmations(sender, cfg.PhoneDefaultRegion, log),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", cfg.Timezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	// Drain pending audit events after the last request finished.
	auditDispatcher.Close()
}
