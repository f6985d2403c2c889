package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/EasterCompany/package-builder-service/internal/dashboard"
	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/internal/remote"
)

const DefaultPort = 8100

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() ServiceConfig {
	return ServiceConfig{
		Port:         DefaultPort,
		CoreInterval: 5 * time.Second,
		CacheSize:    1024,
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			RedisAddr:  "localhost:6379",
			SQLitePath: filepath.Join(baseDir(), "data", "sessions.db"),
		},
		Remote: RemoteConfig{
			BaseURL: remote.DefaultBaseURL,
			Token:   remote.DefaultToken,
			Timeout: 5 * time.Second,
			Mirror:  true,
		},
		Auth: AuthConfig{
			JWTSecret: "package-builder-dev-secret",
			TokenTTL:  24 * time.Hour,
		},
		Dashboard: DashboardConfig{Mode: dashboard.ModeReal},
		Fuel:      FuelConfig{DecayAmount: fuel.DefaultDecayAmount},
	}
}

// DefaultPath is where the service looks for its YAML file.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config", "service.yaml")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "PackageBuilder"
	}
	return filepath.Join(home, "PackageBuilder")
}

// Load reads the YAML file at path (DefaultPath when empty), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*ServiceConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the service cannot start with.
func (c *ServiceConfig) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite backend"))
	}
	switch c.Dashboard.Mode {
	case dashboard.ModeReal, dashboard.ModeDemo:
	default:
		errs = append(errs, fmt.Errorf("unknown dashboard mode %q", c.Dashboard.Mode))
	}
	if c.CoreInterval <= 0 {
		errs = append(errs, errors.New("core_interval must be positive"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Fuel.DecayAmount < 0 {
		errs = append(errs, errors.New("fuel.decay_amount cannot be negative"))
	}
	return errors.Join(errs...)
}
