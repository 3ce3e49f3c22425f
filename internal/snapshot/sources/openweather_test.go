package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

var centre = snapshot.Coordinates{Lat: 12.9716, Lon: 77.5946}

func newOpenWeatherServer(t *testing.T, weatherBody, aqiBody string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "owm-key" || q.Get("units") != "metric" || q.Get("lat") != "12.9716" || q.Get("lon") != "77.5946" {
			t.Errorf("unexpected weather query: %s", r.URL.RawQuery)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, weatherBody)
	})
	mux.HandleFunc("/air_pollution", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, aqiBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenWeather(srv *httptest.Server, key string) *OpenWeatherSource {
	s := NewOpenWeatherSource(srv.Client(), key, centre)
	s.baseURL = srv.URL
	return s
}

func TestOpenWeatherFetch(t *testing.T) {
	srv := newOpenWeatherServer(t,
		`{"main":{"temp":24.36},"weather":[{"main":"Clouds"}]}`,
		`{"list":[{"main":{"aqi":3}}]}`,
		http.StatusOK,
	)

	got, err := newTestOpenWeather(srv, "owm-key").Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := snapshot.WeatherReading{
		Weather: snapshot.Weather{Temp: 24.4, Condition: snapshot.ConditionCloudy},
		AQI:     150,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// TestOpenWeatherFallbacks verifies each failure class maps to the static fallback.
func TestOpenWeatherFallbacks(t *testing.T) {
	cases := []struct {
		name     string
		weather  string
		aqi      string
		status   int
		wantKind snapshot.ErrorKind
	}{
		{"server error", `{}`, `{}`, http.StatusInternalServerError, snapshot.SourceUnavailable},
		{"missing temp", `{"main":{},"weather":[{"main":"Clear"}]}`, `{"list":[{"main":{"aqi":2}}]}`, http.StatusOK, snapshot.SourceMalformed},
		{"no weather entries", `{"main":{"temp":20},"weather":[]}`, `{"list":[{"main":{"aqi":2}}]}`, http.StatusOK, snapshot.SourceMalformed},
		{"not json", `<html>`, `{}`, http.StatusOK, snapshot.SourceMalformed},
		{"empty aqi list", `{"main":{"temp":20},"weather":[{"main":"Clear"}]}`, `{"list":[]}`, http.StatusOK, snapshot.SourceMalformed},
		{"aqi out of range", `{"main":{"temp":20},"weather":[{"main":"Clear"}]}`, `{"list":[{"main":{"aqi":9}}]}`, http.StatusOK, snapshot.ParseFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newOpenWeatherServer(t, tc.weather, tc.aqi, tc.status)
			res := snapshot.Resolve[snapshot.WeatherReading](context.Background(), newTestOpenWeather(srv, "owm-key"), nil)

			if !res.Fallback || res.Reason != tc.wantKind {
				t.Fatalf("expected fallback with %q, got %+v", tc.wantKind, res)
			}
			if res.Value != FallbackWeather {
				t.Fatalf("expected %+v, got %+v", FallbackWeather, res.Value)
			}
		})
	}
}

func TestOpenWeatherMissingKey(t *testing.T) {
	srv := newOpenWeatherServer(t, `{}`, `{}`, http.StatusOK)
	_, err := newTestOpenWeather(srv, "").Fetch(context.Background())
	if snapshot.KindOf(err) != snapshot.SourceUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
