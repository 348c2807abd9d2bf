// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Lists   ListsConfig   `mapstructure:"lists"`
	OTP     OTPConfig     `mapstructure:"otp"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the listen settings for the dashboard HTTP surface.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// BackendConfig points at the remote REST API every data operation proxies to.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// RequestTimeout returns the per-request deadline for gateway calls.
func (b BackendConfig) RequestTimeout() time.Duration {
	if b.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.Timeout) * time.Millisecond
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the query cache freshness window.
type CacheConfig struct {
	StaleTime int `mapstructure:"stale_time"` // seconds
}

// StaleTTL returns the freshness window for cached queries.
func (c CacheConfig) StaleTTL() time.Duration {
	if c.StaleTime <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.StaleTime) * time.Second
}

// ListsConfig holds the table-view settings shared by dealer and
// submission list controllers.
type ListsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// OTPConfig holds the verify-screen settings.
type OTPConfig struct {
	Digits          int `mapstructure:"digits"`
	ResendCountdown int `mapstructure:"resend_countdown"` // seconds
	SuccessDelay    int `mapstructure:"success_delay"`    // milliseconds
}

// ResendWait returns how long resend stays gated after a send.
func (o OTPConfig) ResendWait() time.Duration {
	return time.Duration(o.ResendCountdown) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func validateConfig(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if cfg.Lists.PageSize <= 0 {
		return fmt.Errorf("lists.page_size must be positive, got %d", cfg.Lists.PageSize)
	}
	if cfg.OTP.Digits <= 0 {
		return fmt.Errorf("otp.digits must be positive, got %d", cfg.OTP.Digits)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dealer-dashboard"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}
	if cfg.Lists.PageSize == 0 {
		cfg.Lists.PageSize = 4
	}
	if cfg.OTP.Digits == 0 {
		cfg.OTP.Digits = 6
	}
	if cfg.OTP.ResendCountdown == 0 {
		cfg.OTP.ResendCountdown = 30
	}
	if cfg.OTP.SuccessDelay == 0 {
		cfg.OTP.SuccessDelay = 1000
	}
	if cfg.Cache.StaleTime == 0 {
		cfg.Cache.StaleTime = 300
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
