package snapshot

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Condition is the simplified weather state the display mascot animates.
type Condition string

const (
	ConditionSunny  Condition = "sunny"
	ConditionCold   Condition = "cold"
	ConditionRain   Condition = "rain"
	ConditionCloudy Condition = "cloudy"
)

// MetroDensity is the estimated crowding on the metro network.
type MetroDensity string

const (
	DensityLow    MetroDensity = "low"
	DensityMedium MetroDensity = "medium"
	DensityHigh   MetroDensity = "high"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// BoundingBox is an axis-aligned lat/lon rectangle.
type BoundingBox struct {
	LatMin float64
	LonMin float64
	LatMax float64
	LonMax float64
}

// Weather is the normalized current weather.
type Weather struct {
	Temp      float64   `json:"temp"`
	Condition Condition `json:"condition" validate:"oneof=sunny cold rain cloudy"`
}

// WeatherReading is what the weather/AQI adapter produces.
type WeatherReading struct {
	Weather Weather
	AQI     int
}

// Traffic is the average speed along the monitored corridor.
type Traffic struct {
	SpeedKmh int `json:"speed_kmh"`
}

// Snapshot is the aggregated document handed to the display client.
// Every field is always populated; adapters substitute fallbacks on failure.
type Snapshot struct {
	LastUpdated   time.Time    `json:"last_updated"` // always UTC
	Weather       Weather      `json:"weather"`
	AQI           int          `json:"aqi" validate:"gte=0"`
	Traffic       Traffic      `json:"traffic"`
	MetroDensity  MetroDensity `json:"metro_density" validate:"oneof=low medium high"`
	NewsSentiment float64      `json:"news_sentiment" validate:"gte=0,lte=1"`
	FlightCount   int          `json:"flight_count" validate:"gte=0"`
}

var validate = validator.New()

// ErrInvalidSnapshot wraps schema violations reported by Validate.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Validate checks the snapshot against the published schema.
func (s Snapshot) Validate() error {
	if s.LastUpdated.IsZero() {
		return errors.Join(ErrInvalidSnapshot, errors.New("last_updated is not set"))
	}
	if err := validate.Struct(s); err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}
	return nil
}
