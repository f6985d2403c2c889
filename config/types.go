package config

import "time"

// Storage backends for the local session store.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// ServiceConfig is the full service configuration. Values come from the
// YAML file first and are then overridden by environment variables.
type ServiceConfig struct {
	Port         int           `yaml:"port" env:"PACKAGE_BUILDER_PORT"`
	CoreInterval time.Duration `yaml:"core_interval" env:"PACKAGE_BUILDER_CORE_INTERVAL"`
	CacheSize    int           `yaml:"cache_size" env:"PACKAGE_BUILDER_CACHE_SIZE"`
	Debug        bool          `yaml:"debug" env:"PACKAGE_BUILDER_DEBUG"`

	Storage   StorageConfig   `yaml:"storage"`
	Remote    RemoteConfig    `yaml:"remote"`
	Auth      AuthConfig      `yaml:"auth"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Fuel      FuelConfig      `yaml:"fuel"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend" env:"PACKAGE_BUILDER_STORAGE"`
	RedisAddr     string `yaml:"redis_addr" env:"PACKAGE_BUILDER_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"PACKAGE_BUILDER_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"PACKAGE_BUILDER_REDIS_DB"`
	SQLitePath    string `yaml:"sqlite_path" env:"PACKAGE_BUILDER_SQLITE_PATH"`
}

// RemoteConfig points at the upstream network API. It is always
// configured; the defaults are used when nothing else is given.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" env:"PACKAGE_BUILDER_API_URL"`
	Token   string        `yaml:"token" env:"PACKAGE_BUILDER_API_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"PACKAGE_BUILDER_API_TIMEOUT"`
	// Mirror enables pushing sessions to the remote API.
	Mirror bool `yaml:"mirror" env:"PACKAGE_BUILDER_API_MIRROR"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"PACKAGE_BUILDER_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"PACKAGE_BUILDER_TOKEN_TTL"`
}

type DashboardConfig struct {
	Mode string `yaml:"mode" env:"PACKAGE_BUILDER_DASHBOARD_MODE"`
}

type FuelConfig struct {
	DecayAmount int `yaml:"decay_amount" env:"PACKAGE_BUILDER_DECAY_AMOUNT"`
}

// GetSanitized returns a copy safe to print, with secrets masked.
func (c ServiceConfig) GetSanitized() ServiceConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Storage.RedisPassword = mask(c.Storage.RedisPassword)
	c.Remote.Token = mask(c.Remote.Token)
	c.Auth.JWTSecret = mask(c.Auth.JWTSecret)
	return c
}
