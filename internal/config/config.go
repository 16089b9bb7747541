// Package config loads relay configuration from a .env file plus
// environment variables: listen address, node secret-key path, inbox
// backend/root, traversal hop budget/cache TTL, and the UPnP enable flag.
package config

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// godotenv-then-os.Getenv layering grounded on how SAGE-X-project-sage's
// cmd binaries (see cmd/sage-crypto) resolve flags with defaults; the env
// indirection itself is godotenv's own documented usage pattern.
//----------------------------------------------------------------------

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	herrors "github.com/bfix/hyperborea/errors"
)

// InboxBackend selects which inbox.Inbox implementation a relay runs.
type InboxBackend string

const (
	// InboxStoredQueue is the filesystem reference design.
	InboxStoredQueue InboxBackend = "stored-queue"
	// InboxPebble is the embedded-KV backend.
	InboxPebble InboxBackend = "pebble"
)

// Config is a relay's runtime configuration.
type Config struct {
	ListenAddr    string
	MetricsAddr   string
	StandardPath  string
	InboxBackend  InboxBackend
	InboxRoot     string
	HopBudget     int
	CacheTTL      time.Duration
	HopTimeout    time.Duration
	UPnPEnabled   bool
}

// Defaults returns a relay's out-of-the-box configuration.
func Defaults() Config {
	return Config{
		ListenAddr:   ":8080",
		MetricsAddr:  ":9090",
		StandardPath: "relay.standard",
		InboxBackend: InboxStoredQueue,
		InboxRoot:    "inbox-data",
		HopBudget:    8,
		CacheTTL:     5 * time.Minute,
		HopTimeout:   3 * time.Second,
		UPnPEnabled:  false,
	}
}

// Load reads envPath (if it exists; a missing .env is not an error) into
// the process environment, then overlays Defaults() with whatever
// HYPERBOREA_* variables are set.
func Load(envPath string) (Config, error) {
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return Config{}, herrors.New(herrors.ErrIO, "load %s: %v", envPath, err)
			}
		}
	}

	cfg := Defaults()
	cfg.ListenAddr = getString("HYPERBOREA_LISTEN_ADDR", cfg.ListenAddr)
	cfg.MetricsAddr = getString("HYPERBOREA_METRICS_ADDR", cfg.MetricsAddr)
	cfg.StandardPath = getString("HYPERBOREA_STANDARD_PATH", cfg.StandardPath)
	cfg.InboxRoot = getString("HYPERBOREA_INBOX_ROOT", cfg.InboxRoot)

	if v := os.Getenv("HYPERBOREA_INBOX_BACKEND"); v != "" {
		switch InboxBackend(v) {
		case InboxStoredQueue, InboxPebble:
			cfg.InboxBackend = InboxBackend(v)
		default:
			return Config{}, herrors.New(herrors.ErrAsJSON, "unknown inbox backend %q", v)
		}
	}

	var err error
	if cfg.HopBudget, err = getInt("HYPERBOREA_HOP_BUDGET", cfg.HopBudget); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getDuration("HYPERBOREA_CACHE_TTL", cfg.CacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.HopTimeout, err = getDuration("HYPERBOREA_HOP_TIMEOUT", cfg.HopTimeout); err != nil {
		return Config{}, err
	}
	if cfg.UPnPEnabled, err = getBool("HYPERBOREA_UPNP_ENABLED", cfg.UPnPEnabled); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, herrors.New(herrors.ErrAsJSON, "%s must be an integer: %v", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, herrors.New(herrors.ErrAsJSON, "%s must be a duration: %v", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, herrors.New(herrors.ErrAsJSON, "%s must be a boolean: %v", key, err)
	}
	return b, nil
}
