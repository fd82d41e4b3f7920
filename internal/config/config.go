// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "zestyy-dev-secret-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env            string `mapstructure:"APP_ENV"`
	Port           string `mapstructure:"PORT"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBPath         string `mapstructure:"DB_PATH"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBBusyTimeout  int    `mapstructure:"DB_BUSY_TIMEOUT_MS"`
	DBSchemaMode   string `mapstructure:"DB_SCHEMA_MODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	FeedLimit      int    `mapstructure:"FEED_DEFAULT_LIMIT"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; values may come from the environment alone.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "data/zestyy.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "zestyy")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "zestyy")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_BUSY_TIMEOUT_MS", 5000)
	viper.SetDefault("DB_SCHEMA_MODE", "sql")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("FEATURE_FLAGS", "marketplace=on")
	viper.SetDefault("FEED_DEFAULT_LIMIT", 50)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	if c.FeedLimit <= 0 {
		c.FeedLimit = 50
	}
}

// IsProduction reports whether the app runs with production rules.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must not be 'disable' in production")
			}
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
