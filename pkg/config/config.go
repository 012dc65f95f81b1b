package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config represents the payment verifier configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Store        string             `mapstructure:"store"`
	NetworksFile string             `mapstructure:"networks_file"`
	RPC          RPCConfig          `mapstructure:"rpc"`
	Verification VerificationConfig `mapstructure:"verification"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Payments     PaymentsConfig     `mapstructure:"payments"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
}

// RedisConfig contains the settings of the redis instance backing per-payment locks
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// MonitoringConfig contains metrics settings
type MonitoringConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AuthConfig holds the payee JWT settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// RPCConfig contains node access settings
type RPCConfig struct {
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	LogFailover bool          `mapstructure:"log_failover"`
}

// VerificationConfig contains the verification engine thresholds
type VerificationConfig struct {
	SessionBuffer          time.Duration `mapstructure:"session_buffer"`
	StaleAfter             time.Duration `mapstructure:"stale_after"`
	StaleRetryThreshold    int           `mapstructure:"stale_retry_threshold"`
	NotFoundRetryThreshold int           `mapstructure:"not_found_retry_threshold"`
	DefaultTolerance       float64       `mapstructure:"default_tolerance"`
}

// SchedulerConfig contains the verification poller settings
type SchedulerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Interval         time.Duration `mapstructure:"interval"`
	BatchSize        int           `mapstructure:"batch_size"`
	Concurrency      int           `mapstructure:"concurrency"`
	IterationTimeout time.Duration `mapstructure:"iteration_timeout"`
}

// PaymentsConfig contains payment request workflow settings
type PaymentsConfig struct {
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	LinkBaseURL string        `mapstructure:"link_base_url"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.database", "payments")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.dial_timeout", "5s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.lock_ttl", "2m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.path", "/metrics")

	v.SetDefault("auth.issuer", "payment-verifier")
	v.SetDefault("store", StorePostgres)

	// Node access defaults
	v.SetDefault("rpc.call_timeout", "10s")
	v.SetDefault("rpc.log_failover", true)

	// Verification defaults
	v.SetDefault("verification.session_buffer", "0s")
	v.SetDefault("verification.stale_after", "24h")
	v.SetDefault("verification.stale_retry_threshold", 100)
	v.SetDefault("verification.not_found_retry_threshold", 20)
	v.SetDefault("verification.default_tolerance", 0.01)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", "30s")
	v.SetDefault("scheduler.batch_size", 50)
	v.SetDefault("scheduler.concurrency", 4)
	v.SetDefault("scheduler.iteration_timeout", "2m")

	v.SetDefault("payments.session_ttl", "5m")
}

func validate(config *Config) error {
	switch config.Store {
	case StorePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("store must be %q or %q, got %q", StorePostgres, StoreMemory, config.Store)
	}
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if config.RPC.CallTimeout <= 0 {
		return fmt.Errorf("rpc.call_timeout must be positive")
	}
	if config.Verification.DefaultTolerance < 0 || config.Verification.DefaultTolerance >= 1 {
		return fmt.Errorf("verification.default_tolerance must be in [0, 1)")
	}
	if config.Scheduler.Enabled {
		if config.Scheduler.Interval <= 0 {
			return fmt.Errorf("scheduler.interval must be positive")
		}
		if config.Scheduler.Concurrency < 1 {
			return fmt.Errorf("scheduler.concurrency must be at least 1")
		}
		if config.Scheduler.IterationTimeout <= 0 {
			return fmt.Errorf("scheduler.iteration_timeout must be positive")
		}
	}
	if config.Redis.Enabled && config.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl must be positive")
	}
	return nil
}
