package snapshot

import (
	"math"
	"testing"
	"time"
)

// TestClassifyCondition checks that rules apply in order: temperature first,
// then precipitation keywords, then cloud, otherwise sunny.
func TestClassifyCondition(t *testing.T) {
	cases := []struct {
		temp float64
		desc string
		want Condition
	}{
		{15, "clear", ConditionCold},
		{15, "Rain", ConditionCold},
		{16.99, "Clouds", ConditionCold},
		{17, "Clear", ConditionSunny},
		{25, "Rain", ConditionRain},
		{25, "Thunderstorm", ConditionRain},
		{25, "Drizzle", ConditionRain},
		{25, "Clouds", ConditionCloudy},
		{25, "Haze", ConditionSunny},
		{25, "", ConditionSunny},
		{25, "Nuageux", ConditionSunny},
	}

	for _, tc := range cases {
		if got := ClassifyCondition(tc.temp, tc.desc); got != tc.want {
			t.Errorf("ClassifyCondition(%v, %q) = %q, want %q", tc.temp, tc.desc, got, tc.want)
		}
	}
}

func TestRoundTemp(t *testing.T) {
	if got := RoundTemp(27.46); got != 27.5 {
		t.Fatalf("expected 27.5, got %v", got)
	}
	if got := RoundTemp(16.04); got != 16.0 {
		t.Fatalf("expected 16.0, got %v", got)
	}
}

func TestScaleAQI(t *testing.T) {
	if got := ScaleAQI(3); got != 150 {
		t.Fatalf("expected 150, got %d", got)
	}
	if got := ScaleAQI(1); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

// TestSpeedKmhTruncates verifies speed is truncated, not rounded.
func TestSpeedKmhTruncates(t *testing.T) {
	if got := SpeedKmh(20000, 1800); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
	// 10000 / 1000 * 3.6 = 36; 10000 / 1010 * 3.6 = 35.64...
	if got := SpeedKmh(10000, 1010); got != 35 {
		t.Fatalf("expected 35, got %d", got)
	}
}

func TestClampSentiment(t *testing.T) {
	cases := map[float64]float64{
		-3:          0,
		0:           0,
		0.42:        0.42,
		1:           1,
		7.5:         1,
		math.Inf(1): 1,
	}
	for in, want := range cases {
		if got := ClampSentiment(in); got != want {
			t.Errorf("ClampSentiment(%v) = %v, want %v", in, got, want)
		}
	}
	if got := ClampSentiment(math.NaN()); got != NeutralSentiment {
		t.Errorf("ClampSentiment(NaN) = %v, want %v", got, NeutralSentiment)
	}
}

// TestDensityAt covers both weekday and weekend schedules, including the
// inclusive rush-hour and exclusive mid-day boundaries.
func TestDensityAt(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	wednesday := func(h int) time.Time { return time.Date(2024, 1, 3, h, 30, 0, 0, ist) }
	saturday := func(h int) time.Time { return time.Date(2024, 1, 6, h, 0, 0, 0, ist) }
	sunday := func(h int) time.Time { return time.Date(2024, 1, 7, h, 0, 0, 0, ist) }

	cases := []struct {
		at   time.Time
		want MetroDensity
	}{
		{wednesday(7), DensityLow},
		{wednesday(8), DensityHigh},
		{wednesday(9), DensityHigh},
		{wednesday(11), DensityHigh},
		{wednesday(12), DensityMedium},
		{wednesday(14), DensityMedium},
		{wednesday(16), DensityMedium},
		{wednesday(17), DensityHigh},
		{wednesday(20), DensityHigh},
		{wednesday(21), DensityLow},
		{wednesday(0), DensityLow},
		{saturday(10), DensityLow},
		{saturday(17), DensityLow},
		{saturday(18), DensityMedium},
		{saturday(19), DensityMedium},
		{saturday(21), DensityMedium},
		{saturday(22), DensityLow},
		{sunday(9), DensityLow},
		{sunday(20), DensityMedium},
	}

	for _, tc := range cases {
		if got := DensityAt(tc.at); got != tc.want {
			t.Errorf("DensityAt(%s %02d:00) = %q, want %q", tc.at.Weekday(), tc.at.Hour(), got, tc.want)
		}
	}
}

// TestDensityAtUsesLocalTime checks that the instant's own zone decides the
// weekday and hour.
func TestDensityAtUsesLocalTime(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// Friday 23:00 UTC is Saturday 04:30 in IST.
	at := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)
	if got := DensityAt(at); got != DensityLow {
		t.Fatalf("expected low in UTC, got %q", got)
	}
	// Wednesday 03:30 UTC is 09:00 IST: morning rush.
	at = time.Date(2024, 1, 3, 3, 30, 0, 0, time.UTC)
	if got := DensityAt(at.In(ist)); got != DensityHigh {
		t.Fatalf("expected high in IST, got %q", got)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(nil); got != KindNone {
		t.Fatalf("expected no kind for nil, got %q", got)
	}
	if got := KindOf(Malformed(errTest)); got != SourceMalformed {
		t.Fatalf("expected %q, got %q", SourceMalformed, got)
	}
	if got := KindOf(Unparsable(errTest)); got != ParseFailure {
		t.Fatalf("expected %q, got %q", ParseFailure, got)
	}
	if got := KindOf(errTest); got != SourceUnavailable {
		t.Fatalf("expected unclassified errors to be %q, got %q", SourceUnavailable, got)
	}
}
