package crops

import (
	"sync"
	"time"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Load() []Record
	AppendAndSave(records []Record, rec Record) ([]Record, error)
}

// Summary aggregates the collection for the dashboard header.
type Summary struct {
	Records         int     `json:"records"`
	TotalAreaHa     float64 `json:"total_area_ha"`
	TotalProduction float64 `json:"estimated_production_qtl"`
}

// Service records crops one save at a time.
type Service struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewService creates a Service. A nil clock defaults to time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// List returns all recorded crops in the order they were added.
func (s *Service) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Add stamps the new record, appends it to the persisted collection and
// returns the record together with the updated collection.
func (s *Service) Add(n NewRecord) (Record, []Record, error) {
	rec := n.Stamp(s.now())
	if err := Validate(rec); err != nil {
		return Record{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.AppendAndSave(s.store.Load(), rec)
	if err != nil {
		return Record{}, nil, err
	}
	return rec, records, nil
}

// Summary totals the current collection.
func (s *Service) Summary() Summary {
	return Summarize(s.List())
}

// Summarize totals records.
func Summarize(records []Record) Summary {
	sum := Summary{Records: len(records)}
	for _, r := range records {
		sum.TotalAreaHa += r.Area
		sum.TotalProduction += r.Production()
	}
	return sum
}
