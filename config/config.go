package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sigitdim/fortisapp-sub001/engine"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Policy   engine.PricingPolicy
}

type AppConfig struct {
	Port    string
	GinMode string
	// jumlah produk yang dihitung paralel saat rekap
	RekapWorkers int
	// CORS origin yang diizinkan, kosong berarti "*"
	AllowedOrigin string
	SeedDemo      bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file, ":memory:" for tests
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds the config from the environment only.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		App: AppConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", ""),
			SeedDemo:      strings.EqualFold(os.Getenv("SEED_DEMO"), "true"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "fortisapp"),
			Path:     getEnv("DB_PATH", "fortisapp.db"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
	}

	cfg.App.RekapWorkers = getInt("REKAP_WORKERS", 8, &errs)
	cfg.Auth.TokenTTL = getDuration("JWT_TTL", 24*time.Hour, &errs)

	def := engine.DefaultPolicy()
	cfg.Policy = engine.PricingPolicy{
		CompetitiveMargin:    getFloat("HPP_COMPETITIVE_MARGIN", def.CompetitiveMargin, &errs),
		StandardMargin:       getFloat("HPP_STANDARD_MARGIN", def.StandardMargin, &errs),
		PremiumMargin:        getFloat("HPP_PREMIUM_MARGIN", def.PremiumMargin, &errs),
		TaxRate:              getFloat("HPP_TAX_RATE", def.TaxRate, &errs),
		ChannelFeeRate:       getFloat("HPP_CHANNEL_FEE_RATE", def.ChannelFeeRate, &errs),
		BundleDiscountFactor: getFloat("HPP_BUNDLE_DISCOUNT_FACTOR", def.BundleDiscountFactor, &errs),
		MinSafeMargin:        getFloat("HPP_MIN_SAFE_MARGIN", def.MinSafeMargin, &errs),
		PriceStep:            engine.Money(getInt("HPP_PRICE_STEP", int(def.PriceStep), &errs)),
	}
	if err := cfg.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pricing policy: %w", err))
	}

	switch cfg.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", cfg.Database.Driver))
	}
	if cfg.App.RekapWorkers < 1 {
		errs = append(errs, fmt.Errorf("REKAP_WORKERS must be at least 1"))
	}

	if cfg.Auth.JWTSecret == "" {
		utils.InfoLogger.Println("Warning: JWT_SECRET is not set, using development secret")
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN returns the MySQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, def float64, errs *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func getInt(key string, def int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
