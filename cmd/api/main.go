package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-availability/internal/db"
	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/logger"
	"github.com/BruksfildServices01/barber-availability/internal/routes"
	"github.com/BruksfildServices01/barber-availability/internal/slotcache"
	"github.com/BruksfildServices01/barber-availability/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cal := availability.NewCalendar(timezone.Location(cfg.Timezone))

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	// ======================================================
	// CACHE
	// ======================================================
	cache := slotcache.New(slotcache.Options{
		AvailabilityTTL: cfg.Cache.AvailabilityTTL,
		BlockedSlotsTTL: cfg.Cache.BlockedSlotsTTL,
		BookingsTTL:     cfg.Cache.BookingsTTL,
		Logger:          log,
	})

	var (
		invalidator slotcache.Invalidator = cache
		bus         *slotcache.RedisBus
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		bus = slotcache.NewRedisBus(rdb, cfg.Redis.Channel, cache, log)
		invalidator = bus
		log.Info("cross-replica invalidation enabled",
			zap.String("redis", cfg.Redis.Addr),
			zap.String("channel", cfg.Redis.Channel),
		)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:          db,
		Config:      cfg,
		Calendar:    cal,
		Cache:       cache,
		Invalidator: invalidator,
		Audit:       dispatcher,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", cal.Location.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cache.RunSweeper(gctx, cfg.Cache.SweepInterval)
	})

	if bus != nil {
		// sem Redis a réplica segue servindo, só sem invalidação remota
		g.Go(func() error {
			if err := bus.Subscribe(gctx); err != nil {
				log.Error("invalidation subscriber stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}
}
