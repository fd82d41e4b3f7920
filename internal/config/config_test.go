package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:       "development",
		Port:      "3000",
		JWTSecret: "secure-secret-at-least-32-chars-long",
		DBDriver:  "sqlite",
		DBPath:    "data/zestyy.db",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid sqlite", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, true},
		{"postgres without host", func(c *Config) {
			c.DBDriver = "postgres"
			c.DBName = "zestyy"
		}, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production postgres without ssl", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBHost = "db"
			c.DBName = "zestyy"
			c.DBPassword = "a-strong-password"
			c.DBSSLMode = "disable"
		}, true},
		{"production postgres with ssl", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBHost = "db"
			c.DBName = "zestyy"
			c.DBPassword = "a-strong-password"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_PATH", "/tmp/zestyy-test.db")
	t.Setenv("FEED_DEFAULT_LIMIT", "25")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "/tmp/zestyy-test.db", c.DBPath)
	assert.Equal(t, 25, c.FeedLimit)
	assert.False(t, c.IsProduction())
}
