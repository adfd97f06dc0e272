// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DoyleJ11/bpl-pickems/internal/export"
)

const envPrefix = "PICKEMS_"

type Config struct {
	Addr           string
	LogLevel       string
	LogFormat      string
	CatalogPath    string
	AllowedOrigins []string
	Export         ExportConfig
}

type ExportConfig struct {
	// Enabled is off while the image export is under construction.
	Enabled     bool
	Scale       int
	Background  string
	SettleDelay time.Duration
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "json",
		AllowedOrigins: []string{"http://localhost:*"},
		Export: ExportConfig{
			Enabled:     false,
			Scale:       export.DefaultScale,
			Background:  export.DefaultBackground,
			SettleDelay: 100 * time.Millisecond,
		},
	}
}

// Load reads envFiles (a missing file is not an error) and then the
// PICKEMS_* environment variables on top of the defaults.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function so tests need not touch the
// process environment.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		v = strings.ToLower(v)
		if v != "json" && v != "console" {
			return Config{}, fmt.Errorf("%sLOG_FORMAT: want json or console, got %q", envPrefix, v)
		}
		c.LogFormat = v
	}
	if v, ok := get("CATALOG_PATH"); ok {
		c.CatalogPath = v
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := get("EXPORT_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sEXPORT_ENABLED: %w", envPrefix, err)
		}
		c.Export.Enabled = b
	}
	if v, ok := get("EXPORT_SCALE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%sEXPORT_SCALE: want a positive integer, got %q", envPrefix, v)
		}
		c.Export.Scale = n
	}
	if v, ok := get("EXPORT_BACKGROUND"); ok {
		c.Export.Background = v
	}
	if v, ok := get("EXPORT_SETTLE_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%sEXPORT_SETTLE_MS: want milliseconds, got %q", envPrefix, v)
		}
		c.Export.SettleDelay = time.Duration(n) * time.Millisecond
	}

	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
