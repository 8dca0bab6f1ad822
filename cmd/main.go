package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ridhambansal/office-booking/internal/api"
	"github.com/ridhambansal/office-booking/internal/clients/authapi"
	"github.com/ridhambansal/office-booking/internal/clients/bookings"
	"github.com/ridhambansal/office-booking/internal/clients/directory"
	"github.com/ridhambansal/office-booking/internal/clients/notifications"
	"github.com/ridhambansal/office-booking/internal/service"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/pkg/config"
	"github.com/ridhambansal/office-booking/pkg/job"
	"github.com/ridhambansal/office-booking/pkg/logger"
)

const (
	ReadTimeout  = 5 * time.Second
	WriteTimeout = 15 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	_, err = logger.New(cfg.LogLevel)
	panicOnErr("create logger", err)

	var sessions session.Store

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err = redisClient.Ping(pingCtx).Err()

		pingCancel()
		panicOnErr("ping redis", err)

		defer redisClient.Close()

		sessions = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		slog.InfoContext(ctx, "no redis address configured, keeping sessions in memory")

		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	authClient := authapi.NewClient(cfg.BookingAPIURL, cfg.ClientTimeout)
	directoryClient := directory.NewClient(cfg.BookingAPIURL, cfg.ClientTimeout, cfg.RetryAttempts)
	bookingsClient := bookings.NewClient(cfg.BookingAPIURL, cfg.ClientTimeout)
	notificationsClient := notifications.NewClient(cfg.BookingAPIURL, cfg.ClientTimeout)

	s := service.NewService(cfg, authClient, directoryClient, bookingsClient, notificationsClient, sessions)

	jobs := job.NewService().
		RegisterJob("poll unread notifications", cfg.Jobs.NotificationPollInterval, s.PollUnreadCounts)
	jobs.Start(ctx)

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(s)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "gateway started", "port", cfg.HTTPPort)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		err = server.Shutdown(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
		jobs.Stop()
	}()

	wg.Wait()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
