package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// FallbackWeather is used whenever the weather or air pollution call fails.
var FallbackWeather = snapshot.WeatherReading{
	Weather: snapshot.Weather{Temp: 28, Condition: snapshot.ConditionSunny},
	AQI:     120,
}

// OpenWeatherSource reads current conditions and air pollution from OpenWeatherMap.
type OpenWeatherSource struct {
	name    string
	apiKey  string
	baseURL string
	point   snapshot.Coordinates
	client  *http.Client
}

func NewOpenWeatherSource(client *http.Client, apiKey string, point snapshot.Coordinates) *OpenWeatherSource {
	return &OpenWeatherSource{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		point:   point,
		client:  client,
	}
}

func (s *OpenWeatherSource) Name() string {
	return s.name
}

func (s *OpenWeatherSource) Fallback() snapshot.WeatherReading {
	return FallbackWeather
}

// Fetch needs both calls to succeed; a partial reading is never returned.
func (s *OpenWeatherSource) Fetch(ctx context.Context) (snapshot.WeatherReading, error) {
	if s.apiKey == "" {
		return snapshot.WeatherReading{}, snapshot.Unavailable(fmt.Errorf("openweather %w", errNoAPIKey))
	}

	w, err := s.fetchWeather(ctx)
	if err != nil {
		return snapshot.WeatherReading{}, err
	}
	aqi, err := s.fetchAQI(ctx)
	if err != nil {
		return snapshot.WeatherReading{}, err
	}

	return snapshot.WeatherReading{Weather: w, AQI: aqi}, nil
}

func (s *OpenWeatherSource) fetchWeather(ctx context.Context) (snapshot.Weather, error) {
	values := s.query()
	values.Set("units", "metric")

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/weather?"+values.Encode(), nil)
	if err != nil {
		return snapshot.Weather{}, snapshot.Unavailable(err)
	}

	var payload struct {
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if _, err := fetchJSON(ctx, s.client, s.name, req, &payload); err != nil {
		return snapshot.Weather{}, err
	}

	if payload.Main.Temp == nil {
		return snapshot.Weather{}, snapshot.Malformed(errors.New("weather response has no main.temp"))
	}
	if len(payload.Weather) == 0 {
		return snapshot.Weather{}, snapshot.Malformed(errors.New("weather response has no weather entries"))
	}

	temp := *payload.Main.Temp
	return snapshot.Weather{
		Temp:      snapshot.RoundTemp(temp),
		Condition: snapshot.ClassifyCondition(temp, payload.Weather[0].Main),
	}, nil
}

func (s *OpenWeatherSource) fetchAQI(ctx context.Context) (int, error) {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/air_pollution?"+s.query().Encode(), nil)
	if err != nil {
		return 0, snapshot.Unavailable(err)
	}

	var payload struct {
		List []struct {
			Main struct {
				AQI *int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}
	if _, err := fetchJSON(ctx, s.client, s.name, req, &payload); err != nil {
		return 0, err
	}

	if len(payload.List) == 0 || payload.List[0].Main.AQI == nil {
		return 0, snapshot.Malformed(errors.New("air pollution response has no list[0].main.aqi"))
	}

	// OpenWeatherMap reports 1 (good) to 5 (very poor).
	index := *payload.List[0].Main.AQI
	if index < 1 || index > 5 {
		return 0, snapshot.Unparsable(fmt.Errorf("air quality index %d outside 1-5", index))
	}
	return snapshot.ScaleAQI(index), nil
}

func (s *OpenWeatherSource) query() url.Values {
	values := url.Values{}
	values.Set("lat", formatDeg(s.point.Lat))
	values.Set("lon", formatDeg(s.point.Lon))
	values.Set("appid", s.apiKey)
	return values
}
