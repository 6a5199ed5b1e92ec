package main // Entry point package

import (
	"context"   // shutdown deadlines
	"errors"    // server closed detection
	"net/http"  // http.ErrServerClosed
	"os"        // signal sources
	"os/signal" // graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	"github.com/labstack/echo/v4"                    // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // request logging and panic recovery
	log "github.com/sirupsen/logrus"                // structured logging

	"github.com/iliyamo/seat-arbiter/internal/booking"    // seat pool
	"github.com/iliyamo/seat-arbiter/internal/config"     // environment config loader
	"github.com/iliyamo/seat-arbiter/internal/database"   // audit database
	"github.com/iliyamo/seat-arbiter/internal/handler"    // HTTP handlers
	"github.com/iliyamo/seat-arbiter/internal/middleware" // rate limiter
	"github.com/iliyamo/seat-arbiter/internal/queue"      // seat.booked consumer
	"github.com/iliyamo/seat-arbiter/internal/repository" // audit repository
	"github.com/iliyamo/seat-arbiter/internal/router"     // route registration
	"github.com/iliyamo/seat-arbiter/internal/service"    // booking service
)

func main() {
	cfg := config.Load() // Load environment config
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := booking.NewPool(cfg.TotalSeats)
	if err != nil {
		logger.WithError(err).Fatal("create seat pool")
	}

	var opts []service.Option
	if cfg.AuditEnabled {
		db, err := database.Open(cfg)
		if err != nil {
			logger.WithError(err).Fatal("open audit database")
		}
		defer db.Close()
		opts = append(opts, service.WithRecorder(repository.NewOutcomeRepo(db)))
		logger.Info("audit trail enabled")
	}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(service.NewAMQPPublisher(cfg.AMQPURL)))
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, cfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("booking consumer stopped")
			}
		}()
		logger.WithField("log_dir", cfg.LogDir).Info("seat.booked events enabled")
	}

	svc := service.NewBookingService(pool, cfg.BatchWindow, opts...)
	defer svc.Close()

	// The claim limiter is optional: without Redis the routes run unthrottled.
	var limiter echo.MiddlewareFunc
	if rl := config.LoadRateLimitConfig(); rl.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			defer rdb.Close()
			limiter = middleware.NewTokenBucket(rl, rdb)
		} else {
			logger.Warn("redis unavailable; claim rate limiting disabled")
		}
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.WithFields(log.Fields{
				"component": "http",
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency,
			}).Debug("request")
			return nil
		},
	}))

	seats := handler.NewSeatHandler(svc)
	router.RegisterRoutes(e, seats)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterSeats(e, seats, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port // Address string with port
	logger.WithFields(log.Fields{
		"addr":   addr,
		"env":    cfg.Env,
		"seats":  cfg.TotalSeats,
		"window": cfg.BatchWindow,
	}).Info("listening")

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}
