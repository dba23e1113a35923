package weather

import "time"

// AggregateReadings combines multiple provider readings into a single WeatherSnapshot.
// Numeric fields are averaged over the readings that report them; the condition is the majority vote, ties going
// to the earliest reading. Description and coordinates come from the first
// reading that has them.
func AggregateReadings(loc Location, readings []ProviderReading) WeatherSnapshot {
	if len(readings) == 0 {
		return WeatherSnapshot{
			Location:  loc,
			Timestamp: time.Now().UTC(),
			Condition: ConditionUnknown,
		}
	}

	var (
		sumTemp, sumWind           float64
		humidity, pressure, precip mean
		description                string
		coords                     *Coordinates
	)

	conditionCounts := make(map[Condition]int)
	var conditionOrder []Condition
	providers := make([]ProviderContribution, 0, len(readings))
	var newestTS time.Time

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumWind += r.WindSpeedMS
		humidity.add(r.HumidityPct)
		pressure.add(r.PressureHpa)
		precip.add(r.PrecipMm)

		if conditionCounts[r.Condition] == 0 {
			conditionOrder = append(conditionOrder, r.Condition)
		}
		conditionCounts[r.Condition]++

		if description == "" {
			description = r.Description
		}
		if coords == nil && r.Coordinates != nil {
			c := *r.Coordinates
			coords = &c
		}

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	n := float64(len(readings))

	bestCond := ConditionUnknown
	bestCount := 0
	for _, cond := range conditionOrder {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}
	if description == "" {
		description = string(bestCond)
	}

	return WeatherSnapshot{
		Location:    loc,
		Timestamp:   newestTS,
		Temperature: sumTemp / n,
		Humidity:    humidity.value(),
		WindSpeed:   sumWind / n,
		Pressure:    pressure.value(),
		PrecipMM:    precip.value(),
		Condition:   bestCond,
		Description: description,
		Coordinates: coords,
		Providers:   providers,
	}
}

// mean averages optional measurements, skipping missing ones.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}
