package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                string        `mapstructure:"ENV"`
	Port               string        `mapstructure:"PORT"`
	DatabaseDriver     string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath       string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	StorageTimeout     time.Duration `mapstructure:"STORAGE_TIMEOUT"`
	EnableCORS         bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigin         string        `mapstructure:"CORS_ORIGIN"`
	CookieSecure       bool          `mapstructure:"COOKIE_SECURE"`
}

// LoadConfig reads configuration from the environment. In dev a .env file in
// the working directory is loaded first.
func LoadConfig() *Config {
	if os.Getenv("ENV") == "dev" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to load .env: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault("ENV", "production")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_PATH", "events.db")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("STORAGE_TIMEOUT", "5s")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")

	v.BindEnv("DATABASE_URL")
	v.BindEnv("ACCESS_TOKEN_SECRET")
	v.BindEnv("REFRESH_TOKEN_SECRET")
	v.BindEnv("ENABLE_CORS")
	v.BindEnv("COOKIE_SECURE")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// Validate reports configuration that would leave the server unusable.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.AccessTokenSecret) == "" {
		problems = append(problems, "ACCESS_TOKEN_SECRET is required")
	}
	if strings.TrimSpace(c.RefreshTokenSecret) == "" {
		problems = append(problems, "REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		problems = append(problems, "token TTLs must be positive")
	}
	problems = append(problems, c.databaseProblems()...)
	return joinProblems(problems)
}

// ValidateDatabase checks only the storage settings, for commands that never
// issue tokens.
func (c *Config) ValidateDatabase() error {
	return joinProblems(c.databaseProblems())
}

func (c *Config) databaseProblems() []string {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return []string{"DATABASE_PATH is required for sqlite"}
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return []string{"DATABASE_URL is required for postgres"}
		}
	default:
		return []string{fmt.Sprintf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)}
	}
	return nil
}

func joinProblems(problems []string) error {
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
