package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/face"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/kiosk"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/cache"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/config"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/logger"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("credential store unavailable", "error", err)
	}
	sess := session.New(store, logr)
	if err := sess.Load(ctx); err != nil {
		logr.Warn("could not restore session", zap.Error(err))
	}
	sess.OnExpire(stop)

	if !sess.Authenticated() {
		logr.Sugar().Fatalw("no stored credential; sign in with admin-cli first")
	}

	m := metrics.New()
	client := api.NewClient(api.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: metrics.NewTransport(m, api.APIPrefix, nil),
	}, sess, logr)

	queue := kiosk.NewMarkQueue(kiosk.NewAPIMarker(client), kiosk.QueueConfig{Logger: logr})
	queue.Start(ctx)
	defer queue.Stop()

	matcher := face.NewMatcher(cfg.Kiosk.MatchThreshold)
	runner := kiosk.NewRunner(face.NewStaticCapturer(), matcher, client, queue, m, logr, kiosk.Config{
		TerminalID:      cfg.Kiosk.TerminalID,
		CaptureInterval: cfg.Kiosk.CaptureInterval,
	})

	if err := runner.LoadGallery(ctx); err != nil {
		logr.Sugar().Fatalw("could not load face gallery", "error", err)
	}

	metricsSrv := &http.Server{Addr: cfg.Kiosk.MetricsAddr, Handler: m.Handler()}
	go func() {
		logr.Sugar().Infow("metrics listening", "addr", cfg.Kiosk.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Warn("metrics server failed", zap.Error(err))
		}
	}()
	defer metricsSrv.Close() //nolint:errcheck

	logr.Sugar().Infow("kiosk started",
		"terminal", cfg.Kiosk.TerminalID,
		"interval", cfg.Kiosk.CaptureInterval,
	)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Sugar().Fatalw("kiosk stopped", "error", err)
	}
	logr.Info("kiosk shut down")
}

func buildStore(cfg *config.Config, logr *zap.Logger) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logr.Info("using shared redis session store")
		return session.NewRedisStore(client, ""), nil
	default:
		return session.NewFileStore(cfg.Session.CredentialFile), nil
	}
}
