// Package store caches recent weather snapshots per farm location.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/farm-dashboard/internal/weather"
)

// ErrNotFound is returned when nothing is cached for a location or range.
var ErrNotFound = errors.New("no weather data for location")

// retention bounds how much history is kept per location. Zero values
// disable the corresponding limit.
type retention struct {
	maxSnapshots int
	maxAge       time.Duration
}

// apply drops the oldest snapshots that exceed the limits. The last entry is
// always kept so a location never loses its most recent reading.
func (r retention) apply(snaps []weather.WeatherSnapshot, now time.Time) []weather.WeatherSnapshot {
	if r.maxSnapshots > 0 && len(snaps) > r.maxSnapshots {
		snaps = snaps[len(snaps)-r.maxSnapshots:]
	}
	if r.maxAge <= 0 {
		return snaps
	}

	cutoff := now.Add(-r.maxAge)
	drop := 0
	for drop < len(snaps)-1 && snaps[drop].Timestamp.Before(cutoff) {
		drop++
	}
	return snaps[drop:]
}

// MemoryStore is the in-process snapshot cache behind weather.Service.
// It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	byKey   map[string][]weather.WeatherSnapshot
	retains retention
	now     func() time.Time
}

// NewMemoryStore creates a cache keeping at most maxHistory snapshots no older
// than maxAge per location. Non-positive limits are unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		byKey:   make(map[string][]weather.WeatherSnapshot),
		retains: retention{maxSnapshots: maxHistory, maxAge: maxAge},
		now:     time.Now,
	}
}

// SaveSnapshot records a fresh snapshot for loc.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.WeatherSnapshot) {
	snapshot.Stale = false
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = s.retains.apply(append(s.byKey[key], snapshot), s.now())
}

// GetLatest returns the last snapshot saved for loc.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.byKey[loc.Key()]
	if len(snaps) == 0 {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}

// GetRange returns the snapshots for loc with from <= timestamp <= to, in the
// order they were saved.
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []weather.WeatherSnapshot
	for _, snap := range s.byKey[loc.Key()] {
		if snap.Timestamp.Before(from) || snap.Timestamp.After(to) {
			continue
		}
		out = append(out, snap)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
