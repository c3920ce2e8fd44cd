// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Events   EventsConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig points at the commerce REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DatabaseConfig holds the audit database settings.
type DatabaseConfig struct {
	DSN        string
	Migrations bool
	Debug      bool
}

// EventsConfig configures audit event publishing. No brokers disables it.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env           string
	LogLevel      string
	ConfirmSecret string
	ConfirmTTL    time.Duration
}

func (a AppConfig) Dev() bool { return a.Env == "development" }

var defaults = map[string]any{
	"PORT":                 "3000",
	"SERVER_READ_TIMEOUT":  "15s",
	"SERVER_WRITE_TIMEOUT": "30s",
	"SERVER_IDLE_TIMEOUT":  "60s",
	"API_BASE_URL":         "http://localhost:8080/api",
	"API_TIMEOUT":          "10s",
	"DATABASE_DSN":         "file:commandes.db",
	"MIGRATIONS":           false,
	"DB_DEBUG":             false,
	"KAFKA_BROKERS":        "",
	"KAFKA_TOPIC":          "commandes.audit",
	"APP_ENV":              "development",
	"LOG_LEVEL":            "info",
	"CONFIRM_SECRET":       "devconfirmsecret",
	"CONFIRM_TTL":          "10m",
}

// Load reads configuration from the environment, then from an optional
// commandes.yaml in the working directory, then defaults.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigName("commandes")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Database: DatabaseConfig{
			DSN:        v.GetString("DATABASE_DSN"),
			Migrations: v.GetBool("MIGRATIONS"),
			Debug:      v.GetBool("DB_DEBUG"),
		},
		Events: EventsConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		App: AppConfig{
			Env:           v.GetString("APP_ENV"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			ConfirmSecret: v.GetString("CONFIRM_SECRET"),
			ConfirmTTL:    v.GetDuration("CONFIRM_TTL"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
