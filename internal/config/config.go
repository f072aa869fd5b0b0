package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/skycast-app/skycast/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// GeocoderAPIKey enables Google reverse geocoding in the location
	// resolver; when empty the weather provider's coordinate lookup is
	// used instead.
	GeocoderAPIKey string

	// DefaultCity is the fallback when location resolution is denied or
	// fails.
	DefaultCity string

	// RefreshInterval controls the background forced-refresh cadence.
	RefreshInterval time.Duration

	// CachePath is the SQLite cache location.
	CachePath string

	HTTPTimeout time.Duration

	// AlertPolicy selects between the two preserved threshold profiles.
	AlertPolicy weather.AlertPolicy

	// DeviceLat/DeviceLon stand in for a GPS fix on headless hosts.
	// Location resolution is only attempted when both are set.
	DeviceLat *float64
	DeviceLon *float64

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "London")
	cfg.CachePath = getenvDefault("CACHE_PATH", "skycast.db")
	cfg.Port = getenvDefault("PORT", "8080")

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	switch policy := getenvDefault("ALERT_POLICY", "strict"); policy {
	case "strict":
		cfg.AlertPolicy = weather.DefaultAlertPolicy
	case "advisory":
		cfg.AlertPolicy = weather.AdvisoryAlertPolicy
	default:
		return nil, fmt.Errorf("invalid ALERT_POLICY %q: want strict or advisory", policy)
	}

	cfg.DeviceLat = getenvFloat("DEVICE_LAT")
	cfg.DeviceLon = getenvFloat("DEVICE_LON")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("INFO: ignoring invalid %s: %v", key, err)
		return nil
	}
	return &f
}
