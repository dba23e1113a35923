package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/farm-dashboard/internal/weather"
)

// Fetcher refreshes the cached weather of one location.
type Fetcher interface {
	FetchAndStore(ctx context.Context, loc weather.Location) (weather.WeatherSnapshot, error)
}

// Scheduler periodically refreshes weather for the configured farm locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, fetcher Fetcher, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		locations: locations,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.Named("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info("no farm locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.runInterval()).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// runInterval is the configured interval, 15m when unset and never below 1m.
func (s *Scheduler) runInterval() time.Duration {
	switch {
	case s.interval <= 0:
		return 15 * time.Minute
	case s.interval < time.Minute:
		return time.Minute
	}
	return s.interval
}

// RunOnce refreshes every location concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.log.Debug("running weather refresh", zap.Int("locations", len(s.locations)))

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if _, err := s.fetcher.FetchAndStore(ctx, loc); err != nil {
				s.log.Warn("weather refresh failed", zap.String("location", loc.Key()), zap.Error(err))
			}
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
