package sources

import (
	"context"
	"testing"
	"time"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

func TestMetroFetchUsesZone(t *testing.T) {
	cases := []struct {
		utc  time.Time
		want snapshot.MetroDensity
	}{
		// Wednesday 03:30 UTC = 09:00 IST.
		{time.Date(2024, 1, 3, 3, 30, 0, 0, time.UTC), snapshot.DensityHigh},
		// Wednesday 08:30 UTC = 14:00 IST.
		{time.Date(2024, 1, 3, 8, 30, 0, 0, time.UTC), snapshot.DensityMedium},
		// Saturday 13:30 UTC = 19:00 IST.
		{time.Date(2024, 1, 6, 13, 30, 0, 0, time.UTC), snapshot.DensityMedium},
		// Saturday 04:30 UTC = 10:00 IST.
		{time.Date(2024, 1, 6, 4, 30, 0, 0, time.UTC), snapshot.DensityLow},
		// Friday 20:00 UTC = Saturday 01:30 IST.
		{time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC), snapshot.DensityLow},
	}

	for _, tc := range cases {
		s := NewMetroSource("Asia/Kolkata")
		s.now = func() time.Time { return tc.utc }

		got, err := s.Fetch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Errorf("at %s expected %q, got %q", tc.utc, tc.want, got)
		}
	}
}

func TestMetroUnknownZoneFallsBack(t *testing.T) {
	res := snapshot.Resolve[snapshot.MetroDensity](context.Background(), NewMetroSource("Mars/Olympus_Mons"), nil)
	if !res.Fallback || res.Value != snapshot.DensityMedium {
		t.Fatalf("expected medium fallback, got %+v", res)
	}
}
