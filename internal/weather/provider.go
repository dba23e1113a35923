package weather

import (
	"context"
	"errors"
	"time"
)

// ErrRejected is wrapped by providers when the upstream API refuses the
// request itself (unknown city, bad credential) rather than failing to answer.
var ErrRejected = errors.New("request rejected by weather provider")

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into a WeatherSnapshot.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	WindSpeedMS  float64

	// Nil when the provider does not report the measurement.
	HumidityPct *float64
	PressureHpa *float64
	PrecipMm    *float64

	Condition   Condition
	Description string
	Coordinates *Coordinates
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// Store is the contract the snapshot cache must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot WeatherSnapshot)
	GetLatest(loc Location) (WeatherSnapshot, error)
	GetRange(loc Location, from, to time.Time) ([]WeatherSnapshot, error)
}
