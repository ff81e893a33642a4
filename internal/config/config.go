package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// MinWebhookSecretLength longueur minimale du secret partagé du webhook
const MinWebhookSecretLength = 32

// Config représente la configuration du service Rift
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Retention  RetentionConfig  `mapstructure:"retention"`
}

// ServerConfig configuration du serveur HTTP
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	Environment  string        `mapstructure:"environment"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configuration PostgreSQL
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// GetDatabaseURL construit le DSN de connection
func (c DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// AuthConfig secrets du webhook et du groupe admin
type AuthConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	JWTSecret     string `mapstructure:"jwt_secret"`
}

// RateLimitConfig configuration rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	BurstSize         int           `mapstructure:"burst_size"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// MonitoringConfig chemins de monitoring
type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// RetentionConfig politique de rétention des événements
type RetentionConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// DuplicateWindow fenêtre glissante par défaut pour la détection de doublons
const DuplicateWindow = 5 * time.Minute

// LoadConfig charge la configuration
func LoadConfig() (*Config, error) {
	// Configuration par défaut
	config := &Config{
		Server: ServerConfig{
			Port:         8000,
			Host:         "0.0.0.0",
			Environment:  "development",
			Debug:        true,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "rift_user",
			Password:     "rift_password",
			Name:         "project_rift",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		Auth: AuthConfig{
			WebhookSecret: "",
			JWTSecret:     "your-super-secret-jwt-key-change-in-production-minimum-64-characters",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         20,
			CleanupInterval:   5 * time.Minute,
		},
		Monitoring: MonitoringConfig{
			MetricsPath: "/metrics",
			HealthPath:  "/health",
		},
		Retention: RetentionConfig{
			MaxAgeDays: 90,
		},
	}

	// Charger depuis les variables d'environnement
	loadFromEnv(config)

	// Tentative de chargement depuis fichier config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/rift/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("error unmarshalling config: %w", err)
		}
	}

	// Validation
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadFromEnv charge depuis les variables d'environnement
func loadFromEnv(config *Config) {
	// Server
	if port := os.Getenv("RIFT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RIFT_HOST"); host != "" {
		config.Server.Host = host
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}

	// Database
	if host := os.Getenv("RIFT_DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("RIFT_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if user := os.Getenv("RIFT_DB_USER"); user != "" {
		config.Database.User = user
	}
	if password := os.Getenv("RIFT_DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if name := os.Getenv("RIFT_DB_NAME"); name != "" {
		config.Database.Name = name
	}

	// Auth
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		config.Auth.WebhookSecret = secret
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	// Rate limiting
	if rpm := os.Getenv("RATE_LIMIT_PER_MINUTE"); rpm != "" {
		if r, err := strconv.Atoi(rpm); err == nil {
			config.RateLimit.RequestsPerMinute = r
		}
	}

	// Retention
	if days := os.Getenv("RIFT_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Retention.MaxAgeDays = d
		}
	}
}

// validateConfig valide la configuration chargée
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if len(config.Auth.WebhookSecret) < MinWebhookSecretLength {
		return fmt.Errorf("WEBHOOK_SECRET must be at least %d characters for security", MinWebhookSecretLength)
	}

	if config.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive: %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive: %d", config.Database.MaxOpenConns)
	}

	if config.Database.MaxIdleConns < 0 || config.Database.MaxIdleConns > config.Database.MaxOpenConns {
		return fmt.Errorf("database max_idle_conns must be between 0 and max_open_conns")
	}

	if config.Retention.MaxAgeDays <= 0 {
		return fmt.Errorf("retention max_age_days must be positive: %d", config.Retention.MaxAgeDays)
	}

	return nil
}
