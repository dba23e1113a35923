package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyCity   = errors.New("city is required")
	ErrNoProviders = errors.New("no weather providers configured")
	ErrNoReadings  = errors.New("no weather provider answered")
)

// Warnings shown to the farmer instead of an error.
const (
	WarnEmptyCity   = "Enter a city"
	WarnRejected    = "Error: check city name or API key"
	WarnUnavailable = "Error: could not fetch weather"
	WarnNoProviders = "Error: no weather providers configured"
)

// Service orchestrates fetching from multiple providers and caching snapshots.
type Service struct {
	store     Store
	providers []Provider
	log       *zap.Logger
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(store Store, providers []Provider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		providers: providers,
		log:       log.Named("weather"),
	}
}

// ProviderNames lists the configured providers in query order.
func (s *Service) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// FetchAndStore fetches data from all providers concurrently for the given location,
// aggregates successful readings, and stores a snapshot. The previous snapshot
// is kept when no provider succeeds.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) (WeatherSnapshot, error) {
	if strings.TrimSpace(loc.City) == "" {
		return WeatherSnapshot{}, ErrEmptyCity
	}
	if len(s.providers) == 0 {
		return WeatherSnapshot{}, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings = make([]ProviderReading, len(s.providers))
		ok       = make([]bool, len(s.providers))
		errs     []error
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; partial success is still a snapshot.
				s.log.Warn("provider fetch failed",
					zap.String("provider", p.Name()),
					zap.String("location", loc.Key()),
					zap.Error(err),
				)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
				mu.Unlock()
				return
			}
			readings[i] = r
			ok[i] = true
		}()
	}

	wg.Wait()

	// Keep provider order so aggregation is deterministic.
	var got []ProviderReading
	for i, r := range readings {
		if ok[i] {
			got = append(got, r)
		}
	}

	if len(got) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("%w for %s: %w", ErrNoReadings, loc.Query(), errors.Join(errs...))
	}

	snapshot := AggregateReadings(loc, got)
	s.store.SaveSnapshot(loc, snapshot)
	s.log.Debug("weather snapshot stored",
		zap.String("location", loc.Key()),
		zap.Int("providers", len(got)),
	)
	return snapshot, nil
}

// Current returns live weather for loc. When every provider fails but a
// previous snapshot is cached, that snapshot is returned marked Stale.
func (s *Service) Current(ctx context.Context, loc Location) (WeatherSnapshot, error) {
	snapshot, err := s.FetchAndStore(ctx, loc)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, ErrNoReadings) {
		return WeatherSnapshot{}, err
	}

	cached, cacheErr := s.store.GetLatest(loc)
	if cacheErr != nil {
		return WeatherSnapshot{}, err
	}
	s.log.Info("serving cached weather snapshot", zap.String("location", loc.Key()), zap.Error(err))
	cached.Stale = true
	return cached, nil
}

// Report returns the snapshot together with a one-line summary for display.
// On failure the string is a warning suitable to show as-is and err carries
// the cause.
func (s *Service) Report(ctx context.Context, loc Location) (WeatherSnapshot, string, error) {
	snapshot, err := s.Current(ctx, loc)
	if err != nil {
		return WeatherSnapshot{}, Warning(err), err
	}
	return snapshot, FormatReport(loc, snapshot), nil
}

// FormatReport renders "<city>: <temp>°C, <description>".
func FormatReport(loc Location, snap WeatherSnapshot) string {
	desc := snap.Description
	if desc == "" {
		desc = string(snap.Condition)
	}
	line := fmt.Sprintf("%s: %.1f°C, %s", loc.City, snap.Temperature, desc)
	if snap.Stale {
		line += fmt.Sprintf(" (last reading %s)", snap.Timestamp.Format(time.RFC3339))
	}
	return line
}

// Warning maps a weather failure to the message shown to the farmer.
func Warning(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCity):
		return WarnEmptyCity
	case errors.Is(err, ErrNoProviders):
		return WarnNoProviders
	case errors.Is(err, ErrRejected):
		return WarnRejected
	default:
		return WarnUnavailable
	}
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (WeatherSnapshot, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]WeatherSnapshot, error) {
	return s.store.GetRange(loc, from, to)
}
