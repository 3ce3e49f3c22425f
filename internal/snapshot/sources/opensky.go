package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// FallbackFlights is a typical count for the monitored airspace.
const FallbackFlights = 6

const openSkyTimeout = 10 * time.Second

// OpenSkySource counts aircraft reporting a position inside a bounding box.
type OpenSkySource struct {
	name    string
	baseURL string
	box     snapshot.BoundingBox
	timeout time.Duration
	client  *http.Client
}

func NewOpenSkySource(client *http.Client, box snapshot.BoundingBox) *OpenSkySource {
	return &OpenSkySource{
		name:    "opensky",
		baseURL: "https://opensky-network.org/api/states/all",
		box:     box,
		timeout: openSkyTimeout,
		client:  client,
	}
}

func (s *OpenSkySource) Name() string {
	return s.name
}

func (s *OpenSkySource) Fallback() int {
	return FallbackFlights
}

func (s *OpenSkySource) Fetch(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values := url.Values{}
	values.Set("lamin", formatDeg(s.box.LatMin))
	values.Set("lomin", formatDeg(s.box.LonMin))
	values.Set("lamax", formatDeg(s.box.LatMax))
	values.Set("lomax", formatDeg(s.box.LonMax))

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return 0, snapshot.Unavailable(err)
	}

	// states is null when nothing is in the box.
	var payload struct {
		States []json.RawMessage `json:"states"`
	}
	if _, err := fetchJSON(ctx, s.client, s.name, req, &payload); err != nil {
		return 0, err
	}
	return len(payload.States), nil
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
