package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = 8080
	defaultGapMultiplier    = 3.0
	defaultGapFallbackMiles = 500
	defaultCurrentWindow    = 2
	defaultStoreTimeout     = 10 * time.Second
	defaultSMTPPort         = 587
)

// Config holds environment-driven settings shared by the web server and
// the reminder notifier.
type Config struct {
	DatabaseURL string
	Port        int
	Env         string // "development" or "production", selects log encoder

	// MPG gap detection policy.
	GapMultiplier    float64
	GapFallbackMiles int
	CurrentWindow    int

	StoreTimeout time.Duration

	// SMTP settings for the notifier. Host empty means sending is disabled.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddress  string
	DryRun       bool

	// Optional metered key for PDF export.
	UnidocLicenseKey string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:             defaultPort,
		Env:              "development",
		GapMultiplier:    defaultGapMultiplier,
		GapFallbackMiles: defaultGapFallbackMiles,
		CurrentWindow:    defaultCurrentWindow,
		StoreTimeout:     defaultStoreTimeout,
		SMTPPort:         defaultSMTPPort,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.Port = port
	}

	if env := strings.TrimSpace(os.Getenv("APP_ENV")); env != "" {
		if env != "development" && env != "production" {
			return cfg, fmt.Errorf("invalid APP_ENV: %s", env)
		}
		cfg.Env = env
	}

	if v := strings.TrimSpace(os.Getenv("MPG_GAP_MULTIPLIER")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid MPG_GAP_MULTIPLIER: %s", v)
		}
		cfg.GapMultiplier = f
	}

	if v := strings.TrimSpace(os.Getenv("MPG_GAP_FALLBACK_MILES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid MPG_GAP_FALLBACK_MILES: %s", v)
		}
		cfg.GapFallbackMiles = n
	}

	if v := strings.TrimSpace(os.Getenv("MPG_CURRENT_WINDOW")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			return cfg, fmt.Errorf("invalid MPG_CURRENT_WINDOW: %s", v)
		}
		cfg.CurrentWindow = n
	}

	if v := strings.TrimSpace(os.Getenv("STORE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
		}
		cfg.StoreTimeout = d
	}

	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid SMTP_PORT: %s", v)
		}
		cfg.SMTPPort = n
	}
	cfg.SMTPUser = strings.TrimSpace(os.Getenv("SMTP_USER"))
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.FromAddress = strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if cfg.FromAddress == "" {
		cfg.FromAddress = cfg.SMTPUser
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.UnidocLicenseKey = strings.TrimSpace(os.Getenv("UNIDOC_LICENSE_API_KEY"))

	return cfg, nil
}

// ListenAddr formats the HTTP bind address.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
