package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Guard     GuardConfig     `mapstructure:"guard"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	ReadOnly bool   `mapstructure:"read_only"` // reject transaction submission
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text
}

type WalletConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Token           string        `mapstructure:"token"`
	PublicKey       string        `mapstructure:"public_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	CheckResponseID bool          `mapstructure:"check_response_id"`
}

type AuthConfig struct {
	RequireAPIKey bool   `mapstructure:"require_api_key"`
	APIKey        string `mapstructure:"api_key"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"` // 0 disables
	Burst int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Addr                  string `mapstructure:"addr"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	IdempotencyTTLSeconds int    `mapstructure:"idempotency_ttl_seconds"`
	AuditListKey          string `mapstructure:"audit_list_key"`
	AuditListMax          int    `mapstructure:"audit_list_max"`
}

type DatabaseConfig struct {
	DSN                       string `mapstructure:"dsn"`
	IdempotencyRetentionHours int    `mapstructure:"idempotency_retention_hours"`
	AuditRetentionDays        int    `mapstructure:"audit_retention_days"`
	UsageRetentionDays        int    `mapstructure:"usage_retention_days"`
	CleanupIntervalMinutes    int    `mapstructure:"cleanup_interval_minutes"`
}

type AuditConfig struct {
	LogDir     string `mapstructure:"log_dir"` // empty disables the jsonl file
	BufferSize int    `mapstructure:"buffer_size"`
}

type GuardConfig struct {
	MaxBatchSize      int      `mapstructure:"max_batch_size"`
	MaxDailyCommands  int      `mapstructure:"max_daily_commands"`
	RestrictedMarkets []string `mapstructure:"restricted_markets"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// FlagKeys maps command-line flag names to config keys for Load.
var FlagKeys = map[string]string{
	"url":     "wallet.base_url",
	"token":   "wallet.token",
	"pubkey":  "wallet.public_key",
	"timeout": "wallet.timeout",
	"log":     "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_only", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("wallet.base_url", "http://127.0.0.1:1789")
	v.SetDefault("wallet.token", "")
	v.SetDefault("wallet.public_key", "")
	v.SetDefault("wallet.timeout", 10*time.Second)
	v.SetDefault("wallet.health_timeout", 5*time.Second)
	v.SetDefault("wallet.max_idle_conns", 100)
	v.SetDefault("wallet.check_response_id", false)

	v.SetDefault("auth.require_api_key", false)
	v.SetDefault("auth.api_key", "")

	v.SetDefault("rate_limit.qps", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.idempotency_ttl_seconds", 86400)
	v.SetDefault("redis.audit_list_key", "walletgate:audit")
	v.SetDefault("redis.audit_list_max", 10000)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.idempotency_retention_hours", 168)
	v.SetDefault("database.audit_retention_days", 30)
	v.SetDefault("database.usage_retention_days", 30)
	v.SetDefault("database.cleanup_interval_minutes", 60)

	v.SetDefault("audit.log_dir", "./logs")
	v.SetDefault("audit.buffer_size", 1000)

	v.SetDefault("guard.max_batch_size", 0)
	v.SetDefault("guard.max_daily_commands", 0)
	v.SetDefault("guard.restricted_markets", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads config.yaml from . or ./configs, then WALLETGATE_* env vars,
// then any flags in fs named in FlagKeys. A "config" flag in fs selects an
// explicit file. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// e.g. WALLETGATE_WALLET_TOKEN
	v.SetEnvPrefix("walletgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	explicitFile := false
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			explicitFile = true
		}
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("No config file found, using defaults and env vars")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Wallet.BaseURL) == "" {
		errs = append(errs, errors.New("wallet.base_url is required"))
	}
	if c.Wallet.Timeout < 0 || c.Wallet.HealthTimeout < 0 {
		errs = append(errs, errors.New("wallet timeouts must not be negative"))
	}
	if c.Auth.RequireAPIKey && c.Auth.APIKey == "" {
		errs = append(errs, errors.New("auth.api_key is required when auth.require_api_key is set"))
	}
	if c.RateLimit.QPS < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	if c.Guard.MaxBatchSize < 0 || c.Guard.MaxDailyCommands < 0 {
		errs = append(errs, errors.New("guard limits must not be negative"))
	}
	return errors.Join(errs...)
}
