// Package location resolves an optional device position to a city name.
package location

import (
	"context"
	"fmt"
	"log"

	"github.com/kelvins/geocoder"
)

// PermissionGate abstracts the platform permission prompt.
type PermissionGate interface {
	// RequestForeground asks for foreground location access and reports
	// whether it was granted.
	RequestForeground(ctx context.Context) (bool, error)
}

// FixSource abstracts the device position fix.
type FixSource interface {
	CurrentFix(ctx context.Context) (lat, lon float64, err error)
}

// CityLookup turns coordinates into the weather provider's city name.
// Implemented by the openweather client.
type CityLookup interface {
	CityByCoordinates(ctx context.Context, lat, lon float64) (string, error)
}

// Resolver determines the target city from the device location, falling
// back to the configured default on permission denial or any failure.
// It never fails its caller.
type Resolver struct {
	gate        PermissionGate
	fix         FixSource
	lookup      CityLookup
	defaultCity string

	// geocoderKey enables the Google reverse-geocoding path; when empty
	// the weather provider's coordinate lookup is used instead.
	geocoderKey string
}

// NewResolver wires a Resolver. gate and fix may be nil when the host has
// no location facility; resolution then always answers defaultCity.
func NewResolver(gate PermissionGate, fix FixSource, lookup CityLookup, defaultCity string) *Resolver {
	return &Resolver{
		gate:        gate,
		fix:         fix,
		lookup:      lookup,
		defaultCity: defaultCity,
	}
}

// UseGeocoder switches reverse resolution to the Google Geocoding API.
func (r *Resolver) UseGeocoder(apiKey string) {
	r.geocoderKey = apiKey
}

// CityName resolves the device position to a city name. Permission
// denial, a failed fix, and a failed lookup all degrade to the default
// city; errors are logged, never propagated.
func (r *Resolver) CityName(ctx context.Context) string {
	if r.gate == nil || r.fix == nil {
		return r.defaultCity
	}

	granted, err := r.gate.RequestForeground(ctx)
	if err != nil {
		log.Printf("location: permission request failed: %v", err)
		return r.defaultCity
	}
	if !granted {
		log.Printf("location: permission to access location was denied")
		return r.defaultCity
	}

	lat, lon, err := r.fix.CurrentFix(ctx)
	if err != nil {
		log.Printf("location: position fix failed: %v", err)
		return r.defaultCity
	}

	city, err := r.reverse(ctx, lat, lon)
	if err != nil {
		log.Printf("location: reverse lookup failed for %f,%f: %v", lat, lon, err)
		return r.defaultCity
	}
	return city
}

func (r *Resolver) reverse(ctx context.Context, lat, lon float64) (string, error) {
	if r.geocoderKey != "" {
		return reverseViaGoogle(r.geocoderKey, lat, lon)
	}
	if r.lookup == nil {
		return "", fmt.Errorf("no city lookup configured")
	}
	return r.lookup.CityByCoordinates(ctx, lat, lon)
}

func reverseViaGoogle(apiKey string, lat, lon float64) (string, error) {
	geocoder.ApiKey = apiKey
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", fmt.Errorf("no city in geocoder response for %f,%f", lat, lon)
	}
	address := addresses[0]
	if address.City == "" {
		return "", fmt.Errorf("no city in geocoder response for %f,%f", lat, lon)
	}
	return address.City, nil
}

// Granted and Denied are trivial gates for wiring and tests.

// Granted always grants the permission.
type Granted struct{}

func (Granted) RequestForeground(context.Context) (bool, error) { return true, nil }

// Denied always denies the permission.
type Denied struct{}

func (Denied) RequestForeground(context.Context) (bool, error) { return false, nil }

// StaticFix reports a fixed coordinate pair, standing in for a GPS fix on
// headless hosts.
type StaticFix struct {
	Lat float64
	Lon float64
}

func (f StaticFix) CurrentFix(context.Context) (float64, float64, error) {
	return f.Lat, f.Lon, nil
}
