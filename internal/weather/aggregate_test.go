package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregateReadings(t *testing.T) {
	t1 := time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)
	coords := &Coordinates{Lat: 18.52, Lon: 73.85}

	snap := AggregateReadings(pune, []ProviderReading{
		{ProviderName: "a", Timestamp: t1, TemperatureC: 20, HumidityPct: ptr(60), Condition: ConditionRain},
		{ProviderName: "b", Timestamp: t2, TemperatureC: 24, HumidityPct: ptr(70), Condition: ConditionCloudy, Description: "overcast clouds", Coordinates: coords},
		{ProviderName: "c", Timestamp: t1, TemperatureC: 22, HumidityPct: ptr(80), Condition: ConditionRain},
	})

	assert.InDelta(t, 22.0, snap.Temperature, 1e-9)
	assert.InDelta(t, 70.0, snap.Humidity, 1e-9)
	assert.Equal(t, ConditionRain, snap.Condition)
	assert.Equal(t, "overcast clouds", snap.Description)
	assert.Equal(t, coords, snap.Coordinates)
	assert.Equal(t, t2, snap.Timestamp)
	assert.Len(t, snap.Providers, 3)
}

func TestAggregateReadingsSkipsUnreportedMeasurements(t *testing.T) {
	snap := AggregateReadings(pune, []ProviderReading{
		{ProviderName: "openweathermap", TemperatureC: 30, WindSpeedMS: 4, HumidityPct: ptr(80), PressureHpa: ptr(1008), PrecipMm: ptr(0)},
		{ProviderName: "open-meteo", TemperatureC: 28, WindSpeedMS: 2},
	})

	assert.InDelta(t, 29.0, snap.Temperature, 1e-9)
	assert.InDelta(t, 3.0, snap.WindSpeed, 1e-9)
	assert.InDelta(t, 80.0, snap.Humidity, 1e-9)
	assert.InDelta(t, 1008.0, snap.Pressure, 1e-9)
	assert.Zero(t, snap.PrecipMM)
}

func TestAggregateReadingsWithoutHumidity(t *testing.T) {
	snap := AggregateReadings(pune, []ProviderReading{{TemperatureC: 20}, {TemperatureC: 22}})
	assert.Zero(t, snap.Humidity)
	assert.InDelta(t, 21.0, snap.Temperature, 1e-9)
}

func ptr(v float64) *float64 { return &v }

func TestAggregateReadingsTieGoesToFirst(t *testing.T) {
	snap := AggregateReadings(pune, []ProviderReading{
		{Condition: ConditionSnow},
		{Condition: ConditionClear},
	})
	assert.Equal(t, ConditionSnow, snap.Condition)
	assert.Equal(t, "snow", snap.Description)
}

func TestAggregateReadingsEmpty(t *testing.T) {
	snap := AggregateReadings(pune, nil)
	assert.Equal(t, ConditionUnknown, snap.Condition)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestLocationKeyAndQuery(t *testing.T) {
	assert.Equal(t, "pune:in", Location{City: " Pune ", Country: "IN"}.Key())
	assert.Equal(t, "Pune,IN", pune.Query())
	assert.Equal(t, "Nairobi", Location{City: "Nairobi"}.Query())
}
