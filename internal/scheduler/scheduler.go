package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/skycast-app/skycast/internal/weather"
)

// Scheduler periodically re-runs the forecast pipeline with a forced
// refresh for the default city and every favorite, so cached data stays
// warm between user actions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *weather.Pipeline
	city      string
	interval  time.Duration
}

// New creates a new Scheduler refreshing city (plus favorites) every
// interval.
func New(pipeline *weather.Pipeline, city string, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pipeline:  pipeline,
		city:      city,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running weather refresh job")

		// One fetch in flight at a time: the cache has a single snapshot
		// slot, so fanning out would just race over it.
		for _, city := range s.cities() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := s.pipeline.Refresh(ctx, weather.Request{City: city, Force: true}); err != nil {
				log.Printf("scheduler: refresh failed for %s: %v", city, err)
			}
			cancel()
		}
		log.Println("scheduler: completed weather refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// cities returns the default city followed by favorites, deduplicated.
func (s *Scheduler) cities() []string {
	cities := []string{s.city}
	favorites, err := s.pipeline.Favorites()
	if err != nil {
		log.Printf("scheduler: listing favorites failed: %v", err)
		return cities
	}
	seen := map[string]bool{s.city: true}
	for _, city := range favorites {
		if !seen[city] {
			seen[city] = true
			cities = append(cities, city)
		}
	}
	return cities
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
