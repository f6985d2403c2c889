package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/config"
	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/internal/builder"
	"github.com/EasterCompany/package-builder-service/internal/dashboard"
	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/storage"
	"github.com/EasterCompany/package-builder-service/utils"
)

// app holds every long-lived component of a running service.
type app struct {
	cfg      *config.ServiceConfig
	logger   *zap.Logger
	store    *storage.Manager
	client   *remote.Client
	builder  *builder.Service
	tokens   *auth.Tokens
	provider dashboard.Provider
	activity *dashboard.ActivityLog
	decay    *fuel.DecayClock
	metrics  *utils.Metrics
	registry *prometheus.Registry

	closers []io.Closer
}

// newApp opens the configured local store and wires the components on top
// of it.
func newApp(ctx context.Context, cfg *config.ServiceConfig, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = utils.MustNewMetrics(a.registry)

	local, kv, err := a.openLocal(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.client = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout, kv, logger)
	var mirror session.Repository
	if cfg.Remote.Mirror {
		mirror = remote.NewSessionMirror(a.client)
	}

	a.store, err = storage.NewManager(local, mirror, storage.Options{
		CacheSize:     cfg.CacheSize,
		RemoteTimeout: cfg.Remote.Timeout,
		Logger:        logger,
		Observer:      a.metrics,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.tokens = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.activity = dashboard.NewActivityLog(kv)
	a.provider, err = dashboard.New(cfg.Dashboard.Mode, a.client, a.activity, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.decay = fuel.NewDecayClock(cfg.Fuel.DecayAmount)
	a.builder = builder.NewService(a.store, a.client, a.tokens, logger)
	return a, nil
}

// openLocal returns the session repository and the fallback key store for
// the configured backend.
func (a *app) openLocal(ctx context.Context) (session.Repository, remote.KV, error) {
	s := a.cfg.Storage
	switch s.Backend {
	case config.BackendRedis:
		a.logger.Info("Initializing Redis connection...", zap.String("addr", s.RedisAddr))
		client, err := utils.GetRedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client)
		return storage.NewRedisRepository(client), storage.NewRedisKV(client), nil
	case config.BackendSQLite:
		if err := ensureDir(s.SQLitePath); err != nil {
			return nil, nil, err
		}
		repo, err := storage.OpenSQLite(s.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, repo)
		return repo, repo.KV(), nil
	case config.BackendMemory:
		return session.NewMemoryRepository(), remote.NewMemoryKV(), nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", s.Backend)
}

func (a *app) close() {
	if a.store != nil {
		a.store.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
