package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/farm-dashboard/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// Locations without coordinates are resolved through the Open-Meteo geocoding
// API first; neither endpoint needs a key.
type OpenMeteoProvider struct {
	name       string
	baseURL    string
	geocodeURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		geocodeURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpCfg:    defaultHTTPConfig(client),
		circuit:    newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	coords, err := p.resolve(ctx, loc)
	if err != nil {
		return weather.ProviderReading{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coords.Lat))
		values.Set("longitude", fmt.Sprintf("%f", coords.Lon))
		values.Set("current_weather", "true")
		values.Set("windspeed_unit", "ms")
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			Time        string  `json:"time"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	// Open-Meteo reports "2006-01-02T15:04" without seconds or zone.
	ts, err := time.ParseInLocation("2006-01-02T15:04", payload.CurrentWeather.Time, time.UTC)
	if err != nil {
		ts = time.Now().UTC()
	}

	code := payload.CurrentWeather.WeatherCode
	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.CurrentWeather.Temperature,
		// Open-Meteo current_weather has limited fields; we fill what we can.
		WindSpeedMS: payload.CurrentWeather.WindSpeed,
		Condition:   mapOpenMeteoCondition(code),
		Description: describeOpenMeteoCode(code),
		Coordinates: &coords,
	}, nil
}

// resolve returns the location's coordinates, geocoding the city when needed.
func (p *OpenMeteoProvider) resolve(ctx context.Context, loc weather.Location) (weather.Coordinates, error) {
	if loc.Lat != nil && loc.Lon != nil {
		return weather.Coordinates{Lat: *loc.Lat, Lon: *loc.Lon}, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", loc.City)
		values.Set("count", "10")
		values.Set("language", "en")
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", p.geocodeURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Coordinates{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Country     string  `json:"country"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("decode openmeteo geocoding response: %w", err)
	}

	for _, r := range payload.Results {
		if loc.Country == "" ||
			strings.EqualFold(r.CountryCode, loc.Country) ||
			strings.EqualFold(r.Country, loc.Country) {
			return weather.Coordinates{Lat: r.Latitude, Lon: r.Longitude}, nil
		}
	}
	return weather.Coordinates{}, fmt.Errorf("%w: openmeteo found no place named %q", weather.ErrRejected, loc.Query())
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}

func describeOpenMeteoCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code == 1:
		return "mainly clear"
	case code == 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
