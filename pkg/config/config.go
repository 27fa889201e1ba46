package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Import        ImportConfig        `mapstructure:"import"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Feeds         FeedsConfig         `mapstructure:"feeds"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
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
}

// ImportConfig contains import pipeline settings
type ImportConfig struct {
	// MaxUploadBytes caps the accepted size of uploaded CSV/JSON files.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	// InactiveGracePeriod is how long a listing may go unseen before a
	// reconciliation run with markInactive may deactivate it.
	InactiveGracePeriod time.Duration `mapstructure:"inactive_grace_period"`
}

// NotificationsConfig contains SMS alerting settings
type NotificationsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	AccountSID     string        `mapstructure:"account_sid"`
	AuthToken      string        `mapstructure:"auth_token"`
	FromNumber     string        `mapstructure:"from_number"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// FeedsConfig contains the external listing feeds consumed by scheduled runs
type FeedsConfig struct {
	// Sources maps a source label (streeteasy, zillow, ...) to the URL of a
	// JSON feed of raw listing records.
	Sources        map[string]string `mapstructure:"sources"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
}

// SchedulerConfig contains scheduled import run settings
type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	MarkInactive bool          `mapstructure:"mark_inactive"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}


// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "listings")

	// Import defaults
	viper.SetDefault("import.max_upload_bytes", 5*1024*1024)
	viper.SetDefault("import.inactive_grace_period", "168h") // 7 days

	// Notification defaults
	viper.SetDefault("notifications.enabled", false)
	viper.SetDefault("notifications.request_timeout", "10s")

	// Feed defaults
	viper.SetDefault("feeds.request_timeout", "30s")

	// Scheduler defaults
	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.interval", "24h")
	viper.SetDefault("scheduler.mark_inactive", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import.max_upload_bytes must be positive")
	}
	if config.Import.InactiveGracePeriod <= 0 {
		return fmt.Errorf("import.inactive_grace_period must be positive")
	}
	if config.Notifications.Enabled {
		if config.Notifications.AccountSID == "" || config.Notifications.AuthToken == "" {
			return fmt.Errorf("notifications.account_sid and notifications.auth_token are required when notifications are enabled")
		}
		if config.Notifications.FromNumber == "" {
			return fmt.Errorf("notifications.from_number is required when notifications are enabled")
		}
	}
	if config.Scheduler.Enabled {
		if config.Scheduler.Interval <= 0 {
			return fmt.Errorf("scheduler.interval must be positive")
		}
		if len(config.Feeds.Sources) == 0 {
			return fmt.Errorf("feeds.sources is required when the scheduler is enabled")
		}
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
