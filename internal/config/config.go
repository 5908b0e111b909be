package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the admissions API.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	UniversityName   string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	JWTSecret        string
	SendgridAPIKey   string
	FromEmailName    string
	FromEmailAddress string
	PortalCacheTTL   time.Duration
	NotifyTimeout    time.Duration
	EventSubjectBase string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ADMISSIONS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Admissions API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("university.name", "UNIVERSITY ERP SYSTEM")
	v.SetDefault("from.email_name", "Admission Office")
	v.SetDefault("from.email_address", "admissions@university.edu")
	v.SetDefault("portal.cache_ttl", "1m")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("events.subject_base", "admissions.application")

	cacheTTL, err := time.ParseDuration(v.GetString("portal.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid portal cache ttl: %w", err)
	}

	notifyTimeout, err := time.ParseDuration(v.GetString("notify.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid notify timeout: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		UniversityName:   v.GetString("university.name"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		SendgridAPIKey:   v.GetString("sendgrid.api_key"),
		FromEmailName:    v.GetString("from.email_name"),
		FromEmailAddress: v.GetString("from.email_address"),
		PortalCacheTTL:   cacheTTL,
		NotifyTimeout:    notifyTimeout,
		EventSubjectBase: v.GetString("events.subject_base"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
