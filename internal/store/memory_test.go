package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-dashboard/internal/weather"
)

var pune = weather.Location{City: "Pune", Country: "IN"}

func snapAt(ts time.Time, temp float64) weather.WeatherSnapshot {
	return weather.WeatherSnapshot{Location: pune, Timestamp: ts, Temperature: temp}
}

func TestGetLatestUnknownLocation(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_, err := s.GetLatest(pune)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSnapshotKeyIsCaseInsensitive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	now := time.Now().UTC()
	s.SaveSnapshot(weather.Location{City: "PUNE", Country: "in"}, snapAt(now, 28))

	got, err := s.GetLatest(pune)
	require.NoError(t, err)
	assert.Equal(t, 28.0, got.Temperature)
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		s.SaveSnapshot(pune, snapAt(base.Add(time.Duration(i)*time.Minute), float64(i)))
	}

	got, err := s.GetRange(pune, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Temperature)
	assert.Equal(t, 3.0, got[1].Temperature)
}

func TestRetentionByAgeKeepsNewest(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSnapshot(pune, snapAt(now.Add(-3*time.Hour), 1))
	s.SaveSnapshot(pune, snapAt(now.Add(-2*time.Hour), 2))

	got, err := s.GetRange(pune, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Temperature)

	s.SaveSnapshot(pune, snapAt(now.Add(-10*time.Minute), 3))
	got, err = s.GetRange(pune, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Temperature)
}

func TestGetRangeInclusiveBounds(t *testing.T) {
	s := NewMemoryStore(0, 0)
	t0 := time.Now().UTC().Truncate(time.Second)
	s.SaveSnapshot(pune, snapAt(t0, 1))
	s.SaveSnapshot(pune, snapAt(t0.Add(time.Minute), 2))
	s.SaveSnapshot(pune, snapAt(t0.Add(2*time.Minute), 3))

	got, err := s.GetRange(pune, t0, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.GetRange(pune, t0.Add(time.Hour), t0.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSnapshotClearsStale(t *testing.T) {
	s := NewMemoryStore(0, 0)
	snap := snapAt(time.Now().UTC(), 20)
	snap.Stale = true
	s.SaveSnapshot(pune, snap)

	got, err := s.GetLatest(pune)
	require.NoError(t, err)
	assert.False(t, got.Stale)
}

func TestRetentionApply(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	snaps := []weather.WeatherSnapshot{
		snapAt(now.Add(-3*time.Hour), 1),
		snapAt(now.Add(-30*time.Minute), 2),
		snapAt(now.Add(-time.Minute), 3),
	}

	tests := []struct {
		name string
		r    retention
		want []float64
	}{
		{name: "unlimited", r: retention{}, want: []float64{1, 2, 3}},
		{name: "by count", r: retention{maxSnapshots: 2}, want: []float64{2, 3}},
		{name: "by age", r: retention{maxAge: time.Hour}, want: []float64{2, 3}},
		{name: "everything expired keeps last", r: retention{maxAge: time.Second}, want: []float64{3}},
		{name: "count and age", r: retention{maxSnapshots: 1, maxAge: time.Hour}, want: []float64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]weather.WeatherSnapshot(nil), snaps...)
			var temps []float64
			for _, s := range tt.r.apply(in, now) {
				temps = append(temps, s.Temperature)
			}
			assert.Equal(t, tt.want, temps)
		})
	}
}
