package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// FallbackTraffic is a moderate corridor speed.
var FallbackTraffic = snapshot.Traffic{SpeedKmh: 25}

// TomTomSource computes the live average speed of a route between two waypoints.
type TomTomSource struct {
	name     string
	apiKey   string
	baseURL  string
	from, to snapshot.Coordinates
	client   *http.Client
}

func NewTomTomSource(client *http.Client, apiKey string, from, to snapshot.Coordinates) *TomTomSource {
	return &TomTomSource{
		name:    "tomtom",
		apiKey:  apiKey,
		baseURL: "https://api.tomtom.com/routing/1/calculateRoute",
		from:    from,
		to:      to,
		client:  client,
	}
}

func (s *TomTomSource) Name() string {
	return s.name
}

func (s *TomTomSource) Fallback() snapshot.Traffic {
	return FallbackTraffic
}

func (s *TomTomSource) Fetch(ctx context.Context) (snapshot.Traffic, error) {
	if s.apiKey == "" {
		return snapshot.Traffic{}, snapshot.Unavailable(fmt.Errorf("tomtom %w", errNoAPIKey))
	}

	values := url.Values{}
	values.Set("key", s.apiKey)
	values.Set("traffic", "true")

	// Waypoints are "lat,lon:lat,lon" in the path.
	u := fmt.Sprintf("%s/%s:%s/json?%s", s.baseURL, waypoint(s.from), waypoint(s.to), values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return snapshot.Traffic{}, snapshot.Unavailable(err)
	}

	var payload struct {
		Routes []struct {
			Summary struct {
				LengthInMeters      *float64 `json:"lengthInMeters"`
				TravelTimeInSeconds *float64 `json:"travelTimeInSeconds"`
			} `json:"summary"`
		} `json:"routes"`
	}
	if _, err := fetchJSON(ctx, s.client, s.name, req, &payload); err != nil {
		return snapshot.Traffic{}, err
	}

	if len(payload.Routes) == 0 {
		return snapshot.Traffic{}, snapshot.Malformed(errors.New("routing response has no routes"))
	}
	summary := payload.Routes[0].Summary
	if summary.LengthInMeters == nil || summary.TravelTimeInSeconds == nil {
		return snapshot.Traffic{}, snapshot.Malformed(errors.New("route summary is missing length or travel time"))
	}

	length, travel := *summary.LengthInMeters, *summary.TravelTimeInSeconds
	if travel <= 0 || length < 0 {
		return snapshot.Traffic{}, snapshot.Unparsable(fmt.Errorf("invalid route summary: %vm in %vs", length, travel))
	}

	return snapshot.Traffic{SpeedKmh: snapshot.SpeedKmh(length, travel)}, nil
}

func waypoint(c snapshot.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}
