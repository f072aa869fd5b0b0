// Package notify is the decision-to-notify surface. The OS notification
// transport is a platform concern; implementations here only record what
// was asked of it.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/skycast-app/skycast/internal/weather"
)

// Outcome records one dispatch attempt, success or not, so failure paths
// can be asserted on instead of vanishing into a console line.
type Outcome struct {
	Alert weather.Alert
	At    time.Time
	Err   error
}

// LogDispatcher logs each alert and keeps an outcome record per dispatch.
type LogDispatcher struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewLogDispatcher creates an empty LogDispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Dispatch records and logs the alert. It never fails.
func (d *LogDispatcher) Dispatch(_ context.Context, alert weather.Alert) error {
	d.mu.Lock()
	d.outcomes = append(d.outcomes, Outcome{Alert: alert, At: time.Now()})
	d.mu.Unlock()

	log.Printf("notify: %s: %s", alert.Title, alert.Body)
	return nil
}

// Outcomes returns a copy of the recorded dispatch outcomes.
func (d *LogDispatcher) Outcomes() []Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Outcome, len(d.outcomes))
	copy(out, d.outcomes)
	return out
}
