// Package config loads service settings from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings of the API server.
type Config struct {
	Addr            string        // HTTP_ADDR
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT
	ServiceName     string        // OTEL_SERVICE_NAME
	LogLevel        string        // LOG_LEVEL
	Development     bool          // APP_ENV=development
	TelemetryOff    bool          // OTEL_SDK_DISABLED
	ExportLogs      bool          // OTEL_LOGS_EXPORT
	MaxBodyBytes    int64         // MAX_BODY_BYTES
}

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 5 * time.Second
	defaultServiceName     = "circuit-api"
	defaultLogLevel        = "info"
	defaultMaxBodyBytes    = 64 << 10
)

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:            defaultAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		ServiceName:     defaultServiceName,
		LogLevel:        defaultLogLevel,
		MaxBodyBytes:    defaultMaxBodyBytes,
	}
}

// Load reads the environment on top of Default. Malformed values are
// reported with the name of the offending variable.
func Load() (Config, error) {
	cfg := Default()

	if v := lookup("HTTP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := lookup("OTEL_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.Development = strings.EqualFold(lookup("APP_ENV"), "development")

	var err error
	if cfg.ShutdownTimeout, err = durationVar("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.TelemetryOff, err = boolVar("OTEL_SDK_DISABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.ExportLogs, err = boolVar("OTEL_LOGS_EXPORT", false); err != nil {
		return Config{}, err
	}
	if cfg.MaxBodyBytes, err = int64Var("MAX_BODY_BYTES", cfg.MaxBodyBytes); err != nil {
		return Config{}, err
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be positive, got %d", cfg.MaxBodyBytes)
	}

	return cfg, nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationVar(key string, def time.Duration) (time.Duration, error) {
	v := lookup(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolVar(key string, def bool) (bool, error) {
	v := lookup(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func int64Var(key string, def int64) (int64, error) {
	v := lookup(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
