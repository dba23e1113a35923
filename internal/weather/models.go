package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is a place a farmer asks about. City is required; Country narrows
// ambiguous names. Lat/Lon are optional and skip geocoding when present.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical, case-insensitive key for indexing this location.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToLower(strings.TrimSpace(l.Country))
}

// Query returns the "city[,country]" form most providers accept.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Coordinates of the place a provider resolved.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherSnapshot is the normalized, aggregated weather view at a point in time.
type WeatherSnapshot struct {
	Location    Location     `json:"location"`
	Timestamp   time.Time    `json:"timestamp"` // always UTC
	Temperature float64      `json:"temperatureC"`
	Humidity    float64      `json:"humidityPercent"`
	WindSpeed   float64      `json:"windSpeed"` // m/s
	Pressure    float64      `json:"pressureHpa"`
	PrecipMM    float64      `json:"precipMm"`
	Condition   Condition    `json:"condition"`
	Description string       `json:"description,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Stale marks a cached snapshot served because no provider answered.
	Stale bool `json:"stale,omitempty"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}
