package weather

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Bounds on the presentation series.
const (
	MaxDailyEntries  = 9
	MaxHourlyEntries = 7
)

// Fetcher retrieves and normalizes provider data for one city. A failed
// fetch fails whole; fetchers never consult the cache.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (Snapshot, []HourlyEntry, error)
}

// Cache is the durable last-snapshot and favorites store. Implementations
// absorb storage errors: loads become misses, writes are best-effort.
type Cache interface {
	SaveSnapshot(snap Snapshot) error
	LoadSnapshot() (Snapshot, bool)
	AddFavorite(city string) error
	Favorites() ([]string, error)
}

// Locator resolves the device position to a city name. It never fails;
// on denial or error it answers with the configured default city.
type Locator interface {
	CityName(ctx context.Context) string
}

// Dispatcher delivers one alert. Dispatch failures are logged by the
// pipeline, never surfaced.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert Alert) error
}

// Request describes one pipeline run. City must already be normalized;
// an empty City defers to the Locator. Force bypasses the cache
// short-circuit and always hits the network.
type Request struct {
	City  string
	Force bool
}

// Pipeline orchestrates resolve → cache check → fetch → persist → alert
// for a single in-flight request at a time. Concurrent calls are legal;
// only the latest-issued request applies its result to shared state.
type Pipeline struct {
	fetcher    Fetcher
	cache      Cache
	locator    Locator
	dispatcher Dispatcher
	policy     AlertPolicy

	gen atomic.Int64
}

// NewPipeline wires the pipeline. locator and dispatcher may be nil when
// the surrounding app has no device location or notification channel.
func NewPipeline(fetcher Fetcher, cache Cache, locator Locator, dispatcher Dispatcher, policy AlertPolicy) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		cache:      cache,
		locator:    locator,
		dispatcher: dispatcher,
		policy:     policy,
	}
}

// Refresh runs the pipeline and returns the view model for req.
//
// A cached snapshot for the same city short-circuits the network unless
// req.Force is set. On fetch failure any cached snapshot (whatever its
// city) is returned as offline fallback; with no cache the run ends in
// ErrUnavailable.
func (p *Pipeline) Refresh(ctx context.Context, req Request) (View, error) {
	gen := p.gen.Add(1)

	city := req.City
	if city == "" && p.locator != nil {
		city = p.locator.CityName(ctx)
	}
	if city == "" {
		return View{}, ErrEmptyCity
	}

	if !req.Force {
		if snap, ok := p.cache.LoadSnapshot(); ok && snap.Current.City == city {
			return buildView(snap, nil, true), nil
		}
	}

	snap, hourly, err := p.fetcher.Fetch(ctx, city)
	if err != nil {
		log.Printf("pipeline: fetch failed for %s: %v", city, err)
		if cached, ok := p.cache.LoadSnapshot(); ok {
			return buildView(cached, nil, true), nil
		}
		return View{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if p.gen.Load() != gen {
		// Superseded while in flight: hand the data back, but leave the
		// single cache slot and the alert channel to the newer request.
		log.Printf("pipeline: result for %s superseded, skipping persist and alerts", city)
		return buildView(snap, hourly, false), nil
	}

	if err := p.cache.SaveSnapshot(snap); err != nil {
		log.Printf("pipeline: persist failed for %s: %v", city, err)
	}

	if p.dispatcher != nil {
		for _, alert := range EvaluateAlerts(snap.Current, p.policy) {
			if err := p.dispatcher.Dispatch(ctx, alert); err != nil {
				log.Printf("pipeline: alert dispatch failed: %v", err)
			}
		}
	}

	return buildView(snap, hourly, false), nil
}

// AddFavorite records a city on the favorites list; duplicates are no-ops.
func (p *Pipeline) AddFavorite(city string) error {
	return p.cache.AddFavorite(city)
}

// Favorites lists the favorite cities in insertion order.
func (p *Pipeline) Favorites() ([]string, error) {
	return p.cache.Favorites()
}

func buildView(snap Snapshot, hourly []HourlyEntry, fromCache bool) View {
	daily := snap.Forecast
	if len(daily) > MaxDailyEntries {
		daily = daily[:MaxDailyEntries]
	}
	if len(hourly) > MaxHourlyEntries {
		hourly = hourly[:MaxHourlyEntries]
	}

	rainfall := make([]RainfallPoint, 0, len(daily))
	for _, e := range daily {
		rainfall = append(rainfall, RainfallPoint{
			Day: time.Unix(e.Epoch, 0).Format("Mon"),
			MM:  e.RainMM,
		})
	}

	return View{
		Current:   snap.Current,
		Daily:     daily,
		Hourly:    hourly,
		Rainfall:  rainfall,
		FromCache: fromCache,
	}
}
