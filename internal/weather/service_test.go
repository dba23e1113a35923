package weather

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	reading ProviderReading
	err     error
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(_ context.Context, _ Location) (ProviderReading, error) {
	p.calls++
	if p.err != nil {
		return ProviderReading{}, p.err
	}
	r := p.reading
	r.ProviderName = p.name
	return r, nil
}

type fakeStore struct {
	saved []WeatherSnapshot
}

var errNoSnapshot = errors.New("not found")

func (s *fakeStore) SaveSnapshot(_ Location, snap WeatherSnapshot) {
	s.saved = append(s.saved, snap)
}

func (s *fakeStore) GetLatest(_ Location) (WeatherSnapshot, error) {
	if len(s.saved) == 0 {
		return WeatherSnapshot{}, errNoSnapshot
	}
	return s.saved[len(s.saved)-1], nil
}

func (s *fakeStore) GetRange(_ Location, _, _ time.Time) ([]WeatherSnapshot, error) {
	return s.saved, nil
}

var pune = Location{City: "Pune", Country: "IN"}

func TestReportFormatsSingleProvider(t *testing.T) {
	p := &fakeProvider{name: "openweathermap", reading: ProviderReading{
		Timestamp:    time.Now().UTC(),
		TemperatureC: 27.34,
		Condition:    ConditionCloudy,
		Description:  "scattered clouds",
	}}
	svc := NewService(&fakeStore{}, []Provider{p}, nil)

	snap, report, err := svc.Report(context.Background(), pune)
	require.NoError(t, err)
	assert.Equal(t, "Pune: 27.3°C, scattered clouds", report)
	assert.False(t, snap.Stale)
	assert.Equal(t, 1, p.calls)
}

func TestFetchAndStoreToleratesPartialFailure(t *testing.T) {
	store := &fakeStore{}
	ok := &fakeProvider{name: "weatherapi", reading: ProviderReading{TemperatureC: 30, Condition: ConditionClear}}
	bad := &fakeProvider{name: "openweathermap", err: errors.New("boom")}
	svc := NewService(store, []Provider{bad, ok}, nil)

	snap, err := svc.FetchAndStore(context.Background(), pune)
	require.NoError(t, err)
	assert.Equal(t, 30.0, snap.Temperature)
	require.Len(t, snap.Providers, 1)
	assert.Equal(t, "weatherapi", snap.Providers[0].ProviderName)
	assert.Len(t, store.saved, 1)
}

func TestReportWarnings(t *testing.T) {
	tests := []struct {
		name      string
		loc       Location
		providers []Provider
		want      string
		wantErr   error
	}{
		{
			name:      "empty city",
			loc:       Location{City: "  "},
			providers: []Provider{&fakeProvider{name: "x"}},
			want:      WarnEmptyCity,
			wantErr:   ErrEmptyCity,
		},
		{
			name:    "no providers",
			loc:     pune,
			want:    WarnNoProviders,
			wantErr: ErrNoProviders,
		},
		{
			name:      "rejected city or key",
			loc:       pune,
			providers: []Provider{&fakeProvider{name: "x", err: fmt.Errorf("%w: status 404", ErrRejected)}},
			want:      WarnRejected,
			wantErr:   ErrRejected,
		},
		{
			name:      "network failure",
			loc:       pune,
			providers: []Provider{&fakeProvider{name: "x", err: errors.New("dial tcp: timeout")}},
			want:      WarnUnavailable,
			wantErr:   ErrNoReadings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeStore{}, tt.providers, nil)
			_, report, err := svc.Report(context.Background(), tt.loc)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, report)
		})
	}
}

func TestCurrentFallsBackToCachedSnapshot(t *testing.T) {
	p := &fakeProvider{name: "x", reading: ProviderReading{
		Timestamp:    time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC),
		TemperatureC: 22,
		Description:  "light rain",
	}}
	svc := NewService(&fakeStore{}, []Provider{p}, nil)

	_, err := svc.Current(context.Background(), pune)
	require.NoError(t, err)

	p.err = errors.New("connection refused")
	snap, report, err := svc.Report(context.Background(), pune)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Equal(t, "Pune: 22.0°C, light rain (last reading 2024-07-01T06:00:00Z)", report)
}

func TestWarningNil(t *testing.T) {
	assert.Empty(t, Warning(nil))
}
