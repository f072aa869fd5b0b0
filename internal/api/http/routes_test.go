package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/skycast-app/skycast/internal/weather"
)

type stubFetcher struct {
	lastCity string
	err      error
}

func (f *stubFetcher) Fetch(_ context.Context, city string) (weather.Snapshot, []weather.HourlyEntry, error) {
	f.lastCity = city
	if f.err != nil {
		return weather.Snapshot{}, nil, f.err
	}
	snap := weather.Snapshot{
		Current: weather.CurrentWeather{City: city, Country: "VN", TempC: 30, Condition: weather.ConditionClouds},
	}
	return snap, nil, nil
}

type memCache struct {
	snap      *weather.Snapshot
	favorites []string
}

func (c *memCache) SaveSnapshot(snap weather.Snapshot) error {
	c.snap = &snap
	return nil
}

func (c *memCache) LoadSnapshot() (weather.Snapshot, bool) {
	if c.snap == nil {
		return weather.Snapshot{}, false
	}
	return *c.snap, true
}

func (c *memCache) AddFavorite(city string) error {
	c.favorites = append(c.favorites, city)
	return nil
}

func (c *memCache) Favorites() ([]string, error) {
	return c.favorites, nil
}

func testApp(fetcher weather.Fetcher, cache weather.Cache) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, weather.NewPipeline(fetcher, cache, nil, nil, weather.DefaultAlertPolicy))
	return app
}

// TestWeatherNormalizesCity verifies that the Vietnamese administrative
// prefix and the diacritics are stripped before the pipeline runs.
func TestWeatherNormalizesCity(t *testing.T) {
	fetcher := &stubFetcher{}
	app := testApp(fetcher, &memCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city="+
		"Th%C3%A0nh%20ph%E1%BB%91%20H%C3%A0%20N%E1%BB%99i", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if fetcher.lastCity != "Ha Noi" {
		t.Fatalf("expected normalized city %q, got %q", "Ha Noi", fetcher.lastCity)
	}

	var view weather.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Current.City != "Ha Noi" {
		t.Fatalf("expected city %q in view, got %q", "Ha Noi", view.Current.City)
	}
}

// TestWeatherBlankCityValidation verifies that input reducing to an empty
// name after normalization is rejected.
func TestWeatherBlankCityValidation(t *testing.T) {
	app := testApp(&stubFetcher{}, &memCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=%20%20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestWeatherEmptyCityWithoutLocator(t *testing.T) {
	app := testApp(&stubFetcher{}, &memCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestWeatherUnavailable verifies the 503 answer when the fetch fails and
// nothing is cached.
func TestWeatherUnavailable(t *testing.T) {
	app := testApp(&stubFetcher{err: weather.ErrFetchFailed}, &memCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Osaka", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

// TestWeatherCachedFallback verifies that a fetch failure with a cached
// snapshot still answers 200 from the cache.
func TestWeatherCachedFallback(t *testing.T) {
	cache := &memCache{snap: &weather.Snapshot{
		Current: weather.CurrentWeather{City: "Tokyo", TempC: 18},
	}}
	app := testApp(&stubFetcher{err: weather.ErrFetchFailed}, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?city=Osaka&force=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var view weather.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !view.FromCache || view.Current.City != "Tokyo" {
		t.Fatalf("expected cached Tokyo view, got %+v", view)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	app := testApp(&stubFetcher{}, &memCache{})

	// An empty list answers [] rather than null.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var listing struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if listing.Favorites == nil || len(listing.Favorites) != 0 {
		t.Fatalf("expected empty list, got %v", listing.Favorites)
	}

	body := strings.NewReader(`{"city": "Thành phố Đà Nẵng"}`)
	post := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", body)
	post.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err = app.Test(post)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listing.Favorites) != 1 || listing.Favorites[0] != "Da Nang" {
		t.Fatalf("expected normalized favorite, got %v", listing.Favorites)
	}
}

// TestFavoritesValidation verifies the required-city body validation.
func TestFavoritesValidation(t *testing.T) {
	app := testApp(&stubFetcher{}, &memCache{})

	for _, payload := range []string{`{}`, `{"city": ""}`, `{"city": "   "}`} {
		post := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", strings.NewReader(payload))
		post.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(post)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %s: expected status %d, got %d", payload, http.StatusBadRequest, resp.StatusCode)
		}
	}
}
