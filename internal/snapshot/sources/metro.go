package sources

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // zone database for minimal images

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// FallbackDensity is used when local time cannot be determined.
const FallbackDensity = snapshot.DensityMedium

// MetroSource estimates metro crowding from local time; there is no public
// live feed, so it makes no network call.
type MetroSource struct {
	zone string
	now  func() time.Time
}

// NewMetroSource evaluates time in the IANA zone (e.g. "Asia/Kolkata").
func NewMetroSource(zone string) *MetroSource {
	return &MetroSource{zone: zone, now: time.Now}
}

func (s *MetroSource) Name() string {
	return "metro-density"
}

func (s *MetroSource) Fallback() snapshot.MetroDensity {
	return FallbackDensity
}

func (s *MetroSource) Fetch(_ context.Context) (snapshot.MetroDensity, error) {
	loc, err := time.LoadLocation(s.zone)
	if err != nil {
		return "", snapshot.Unparsable(fmt.Errorf("load time zone %q: %w", s.zone, err))
	}
	return snapshot.DensityAt(s.now().In(loc)), nil
}
