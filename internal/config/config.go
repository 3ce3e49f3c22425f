package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/city-snapshot/internal/snapshot"
	"github.com/i474232898/city-snapshot/internal/store"
)

// City holds the compiled-in geography a snapshot is built for.
type City struct {
	Name      string
	TimeZone  string
	Centre    snapshot.Coordinates
	RouteFrom snapshot.Coordinates
	RouteTo   snapshot.Coordinates
	Airspace  snapshot.BoundingBox
}

// Bengaluru is the city the dashboard covers.
var Bengaluru = City{
	Name:      "Bengaluru",
	TimeZone:  "Asia/Kolkata",
	Centre:    snapshot.Coordinates{Lat: 12.9716, Lon: 77.5946},
	RouteFrom: snapshot.Coordinates{Lat: 12.9172, Lon: 77.6227}, // Silk Board
	RouteTo:   snapshot.Coordinates{Lat: 13.0358, Lon: 77.5970}, // Hebbal
	Airspace:  snapshot.BoundingBox{LatMin: 12.8, LonMin: 77.4, LatMax: 13.2, LonMax: 77.8},
}

// R2Config is optional; leaving Bucket empty disables the mirror.
type R2Config struct {
	Endpoint  string `validate:"required_with=Bucket"`
	AccessKey string `validate:"required_with=Bucket"`
	SecretKey string `validate:"required_with=Bucket"`
	Bucket    string
	ObjectKey string `validate:"required_with=Bucket"`
}

// Enabled reports whether the R2 mirror is configured.
func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

// Settings converts to the store's settings type.
func (c R2Config) Settings() store.R2Settings {
	return store.R2Settings{
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Bucket:    c.Bucket,
		ObjectKey: c.ObjectKey,
	}
}

type AppConfig struct {
	// Provider keys. An empty key makes that source fall back on every run.
	OpenWeatherAPIKey string
	TomTomAPIKey      string
	GeminiAPIKey      string
	GeminiModel       string `validate:"required"`

	// HTTPTimeout bounds every outbound source call.
	HTTPTimeout time.Duration `validate:"gt=0s"`

	// OutputPath is where the snapshot document is written.
	OutputPath string `validate:"required"`

	// RefreshInterval of zero means a single run and exit.
	RefreshInterval time.Duration `validate:"gte=0s"`

	// Port enables the HTTP API when set.
	Port string `validate:"omitempty,numeric"`

	R2 R2Config

	City City `validate:"-"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
// The caller is expected to have loaded any .env file already.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{City: Bengaluru}

	cfg.OpenWeatherAPIKey = os.Getenv("OWM_API_KEY")
	cfg.TomTomAPIKey = os.Getenv("TOMTOM_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", "gemini-2.5-flash")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.OutputPath = getenvDefault("SNAPSHOT_OUTPUT_PATH", "data.json")
	cfg.Port = os.Getenv("PORT")

	cfg.R2 = R2Config{
		Endpoint:  os.Getenv("R2_ENDPOINT"),
		AccessKey: os.Getenv("R2_ACCESS_KEY"),
		SecretKey: os.Getenv("R2_SECRET_KEY"),
		Bucket:    os.Getenv("R2_BUCKET_NAME"),
		ObjectKey: getenvDefault("R2_OBJECT_KEY", "data.json"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Scheduled reports whether the process should keep running.
func (c *AppConfig) Scheduled() bool {
	return c.RefreshInterval > 0 || c.Port != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
