package snapshot

import (
	"math"
	"strings"
	"time"

	"github.com/i474232898/city-snapshot/internal/common"
)

// ColdBelowC is the temperature under which the condition is always cold.
const ColdBelowC = 17.0

// ClassifyCondition maps a temperature and a provider descriptor to a
// Condition. Rules are evaluated in order and the first match wins; anything
// unrecognised is sunny.
func ClassifyCondition(tempC float64, descriptor string) Condition {
	desc := strings.ToLower(descriptor)
	switch {
	case tempC < ColdBelowC:
		return ConditionCold
	case common.HasAny(desc, "rain", "thunderstorm", "drizzle"):
		return ConditionRain
	case common.HasAny(desc, "cloud"):
		return ConditionCloudy
	default:
		return ConditionSunny
	}
}

// RoundTemp rounds to one decimal place.
func RoundTemp(tempC float64) float64 {
	return math.Round(tempC*10) / 10
}

// ScaleAQI converts a 1-5 provider index to an approximate standard AQI.
func ScaleAQI(providerIndex int) int {
	return providerIndex * 50
}

// SpeedKmh converts a route length and travel time to km/h, truncated.
func SpeedKmh(lengthMeters, travelSeconds float64) int {
	return int(lengthMeters / travelSeconds * 3.6)
}

// NeutralSentiment is used when a score cannot be interpreted at all.
const NeutralSentiment = 0.5

// ClampSentiment forces a chaos score into [0, 1].
func ClampSentiment(v float64) float64 {
	if math.IsNaN(v) {
		return NeutralSentiment
	}
	return math.Max(0, math.Min(1, v))
}

// DensityAt estimates metro crowding from the local weekday and hour of t.
// Weekday rush hours [8,11] and [17,20] are inclusive, mid-day (11,17) is
// exclusive.
func DensityAt(t time.Time) MetroDensity {
	hour := t.Hour()
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		if hour >= 18 && hour <= 21 {
			return DensityMedium
		}
		return DensityLow
	}

	switch {
	case (hour >= 8 && hour <= 11) || (hour >= 17 && hour <= 20):
		return DensityHigh
	case hour > 11 && hour < 17:
		return DensityMedium
	default:
		return DensityLow
	}
}
