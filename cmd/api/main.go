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
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/barcode"
	"github.com/BruksfildServices01/asset-tracker/internal/config"
	dbpkg "github.com/BruksfildServices01/asset-tracker/internal/db"
	"github.com/BruksfildServices01/asset-tracker/internal/logger"
	"github.com/BruksfildServices01/asset-tracker/internal/mailer"
	"github.com/BruksfildServices01/asset-tracker/internal/metrics"
	"github.com/BruksfildServices01/asset-tracker/internal/routes"
	"github.com/BruksfildServices01/asset-tracker/internal/storage"
	"github.com/BruksfildServices01/asset-tracker/internal/timezone"
	"github.com/BruksfildServices01/asset-tracker/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		ServiceName: "asset-tracker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if !timezone.Set(cfg.App.Timezone) {
		log.Warn().Str("timezone", cfg.App.Timezone).Msg("unknown timezone, using UTC")
	}

	if err := validators.Register(); err != nil {
		log.Fatal().Err(err).Msg("register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	blacklist, closeBlacklist := newBlacklist(ctx, cfg, db, log)
	defer closeBlacklist()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("storage")
	}

	mail, err := mailer.New(cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mailer")
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Log:       log,
		Issuer:    auth.NewIssuer(cfg.JWT),
		Blacklist: blacklist,
		Storage:   store,
		Mailer:    mail,
		Audit:     dispatcher,
		Barcodes:  barcode.NewGenerator(cfg.Barcode.Format),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newBlacklist uses Redis when configured and the database otherwise.
func newBlacklist(ctx context.Context, cfg *config.Config, db *gorm.DB, log zerolog.Logger) (auth.Blacklist, func()) {
	if cfg.Redis.Enabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis unreachable")
		}
		log.Info().Msg("token blacklist: redis")
		return auth.NewRedisBlacklist(client), func() { _ = client.Close() }
	}

	bl := auth.NewGormBlacklist(db)
	go bl.RunPurge(ctx, cfg.JWT.BlacklistPurge, log)
	log.Info().Msg("token blacklist: database")
	return bl, func() {}
}
