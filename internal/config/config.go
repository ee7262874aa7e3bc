// Package config loads runtime configuration for the service.
package config

import (
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal container images

	"github.com/pkg/errors"
)

// Config contains runtime configuration required by the service.
type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Addr      string `koanf:"addr"`

	// StoreDriver selects the backend: postgres, sqlite or memory.
	StoreDriver string `koanf:"store_driver"`
	DBURL       string `koanf:"db_url"`
	SQLitePath  string `koanf:"sqlite_path"`

	// Timezone is the IANA zone used for hourly buckets and labels.
	Timezone string `koanf:"timezone"`

	// APIKeys format: "name:key,name:key". Empty leaves mutating routes open.
	APIKeys string `koanf:"api_keys"`

	// IngestRPS and IngestBurst bound the mutating routes; IngestRPS <= 0 disables the limit.
	IngestRPS   float64 `koanf:"ingest_rps"`
	IngestBurst int     `koanf:"ingest_burst"`

	MQTTEnabled  bool   `koanf:"mqtt_enabled"`
	MQTTBroker   string `koanf:"mqtt_broker"`
	MQTTTopic    string `koanf:"mqtt_topic"`
	MQTTClientID string `koanf:"mqtt_client_id"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":8080",
		StoreDriver:  "postgres",
		SQLitePath:   "data/lightscan.db",
		Timezone:     "UTC",
		IngestRPS:    50,
		IngestBurst:  100,
		MQTTBroker:   "tcp://localhost:1883",
		MQTTTopic:    "lights/scans",
		MQTTClientID: "lightscan-service",
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// KeyClients returns the configured API keys mapped to their client names.
func (c *Config) KeyClients() (map[string]string, error) {
	return parseAPIKeys(c.APIKeys)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.Wrap(ErrInvalidConfig, "addr must not be empty")
	}
	switch c.StoreDriver {
	case "postgres":
		if strings.TrimSpace(c.DBURL) == "" {
			return errors.Wrap(ErrInvalidConfig, "db_url required for the postgres driver")
		}
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.Wrap(ErrInvalidConfig, "sqlite_path required for the sqlite driver")
		}
	case "memory":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown store_driver %q", c.StoreDriver)
	}
	if _, err := c.Location(); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "timezone: %v", err)
	}
	if _, err := c.KeyClients(); err != nil {
		return err
	}
	if c.MQTTEnabled && (c.MQTTBroker == "" || c.MQTTTopic == "") {
		return errors.Wrap(ErrInvalidConfig, "mqtt_broker and mqtt_topic required when mqtt_enabled")
	}
	return nil
}

// parseAPIKeys reads "name:key,name:key" into key -> name.
func parseAPIKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	for _, p := range strings.Split(strings.TrimSpace(raw), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.Wrap(ErrInvalidConfig, `api_keys must be "name:key,name:key"`)
		}
		name := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if name == "" || key == "" {
			return nil, errors.Wrap(ErrInvalidConfig, `api_keys must be "name:key,name:key"`)
		}
		keys[key] = name
	}
	return keys, nil
}
