// Package openweather fetches and normalizes OpenWeatherMap data.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycast-app/skycast/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// dailyMark selects the per-day forecast sample from the 3-hour timeline.
const dailyMark = "12:00:00"

// Client talks to the OpenWeatherMap current and forecast endpoints.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig

	currentCB  *gobreaker.CircuitBreaker
	forecastCB *gobreaker.CircuitBreaker

	// loc localizes hourly time labels; clock feeds the day/night icon
	// classification. Both default in NewClient and are overridable in
	// tests.
	loc   *time.Location
	clock func() time.Time
}

// NewClient creates a Client using the shared HTTP client and API key.
func NewClient(client *http.Client, apiKey string) *Client {
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		currentCB:  gobreaker.NewCircuitBreaker(settings("openweather-current")),
		forecastCB: gobreaker.NewCircuitBreaker(settings("openweather-forecast")),
		loc:        time.Local,
		clock:      time.Now,
	}
}

type currentPayload struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []weatherItem `json:"weather"`
}

type forecastPayload struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []weatherItem `json:"weather"`
	Rain    struct {
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
}

type weatherItem struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Fetch issues the current-conditions and 5-day/3-hour forecast requests
// for city concurrently, in metric units, and shapes the responses into a
// snapshot plus the hourly presentation series. Either request failing
// fails the whole fetch with weather.ErrFetchFailed; offline fallback is
// the pipeline's job, not this layer's. One attempt per endpoint.
func (c *Client) Fetch(ctx context.Context, city string) (weather.Snapshot, []weather.HourlyEntry, error) {
	if c.apiKey == "" {
		return weather.Snapshot{}, nil, fmt.Errorf("%w: api key is not configured", weather.ErrFetchFailed)
	}

	var (
		wg     sync.WaitGroup
		cur    currentPayload
		fc     forecastPayload
		curErr error
		fcErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		curErr = c.getJSON(ctx, c.currentCB, c.endpoint("/weather", city), &cur)
	}()
	go func() {
		defer wg.Done()
		fcErr = c.getJSON(ctx, c.forecastCB, c.endpoint("/forecast", city), &fc)
	}()
	wg.Wait()

	if curErr != nil {
		return weather.Snapshot{}, nil, fmt.Errorf("%w: current: %v", weather.ErrFetchFailed, curErr)
	}
	if fcErr != nil {
		return weather.Snapshot{}, nil, fmt.Errorf("%w: forecast: %v", weather.ErrFetchFailed, fcErr)
	}

	snap := weather.Snapshot{
		Current:  normalizeCurrent(cur),
		Forecast: dailySeries(fc.List),
	}
	return snap, c.hourlySeries(fc.List), nil
}

// CityByCoordinates resolves a coordinate fix to the provider's city name
// via the coordinate-keyed current-conditions endpoint. Retried with
// backoff; the location resolver treats any error as "use the default".
func (c *Client) CityByCoordinates(ctx context.Context, lat, lon float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.currentCB, buildRequest)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Name == "" {
		return "", fmt.Errorf("no city name for %f,%f", lat, lon)
	}
	return payload.Name, nil
}

func (c *Client) endpoint(path, city string) string {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
}

func (c *Client) getJSON(ctx context.Context, cb *gobreaker.CircuitBreaker, u string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := doRequest(ctx, c.httpCfg.Client, cb, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func normalizeCurrent(p currentPayload) weather.CurrentWeather {
	cond, desc := conditionOf(p.Weather)
	return weather.CurrentWeather{
		City:        p.Name,
		Country:     p.Sys.Country,
		TempC:       roundC(p.Main.Temp),
		MinTempC:    roundC(p.Main.TempMin),
		MaxTempC:    roundC(p.Main.TempMax),
		HumidityPct: p.Main.Humidity,
		PressureHPa: p.Main.Pressure,
		VisibilityM: p.Visibility,
		WindSpeedMS: p.Wind.Speed,
		Condition:   cond,
		Description: desc,
		ObservedAt:  p.Dt,
	}
}

// dailySeries keeps the entries sampled at the 12:00 provider timestamp,
// in timeline order, capped at MaxDailyEntries.
func dailySeries(items []forecastItem) []weather.ForecastEntry {
	entries := make([]weather.ForecastEntry, 0, weather.MaxDailyEntries)
	for _, item := range items {
		if !strings.Contains(item.DtTxt, dailyMark) {
			continue
		}
		cond, _ := conditionOf(item.Weather)
		entries = append(entries, weather.ForecastEntry{
			Epoch:     item.Dt,
			TimeText:  item.DtTxt,
			TempC:     roundC(item.Main.Temp),
			Condition: cond,
			RainMM:    item.Rain.ThreeH,
		})
		if len(entries) == weather.MaxDailyEntries {
			break
		}
	}
	return entries
}

// hourlySeries takes the head of the raw 3-hour timeline, keeping its
// order, with localized short time labels.
func (c *Client) hourlySeries(items []forecastItem) []weather.HourlyEntry {
	now := c.clock()
	if len(items) > weather.MaxHourlyEntries {
		items = items[:weather.MaxHourlyEntries]
	}
	entries := make([]weather.HourlyEntry, 0, len(items))
	for _, item := range items {
		cond, desc := conditionOf(item.Weather)
		entries = append(entries, weather.HourlyEntry{
			Label: time.Unix(item.Dt, 0).In(c.loc).Format("15:04"),
			TempC: roundC(item.Main.Temp),
			Icon:  weather.IconFor(cond, desc, now),
		})
	}
	return entries
}

func conditionOf(items []weatherItem) (weather.Condition, string) {
	if len(items) == 0 {
		return weather.ConditionUnknown, ""
	}
	return weather.ParseCondition(items[0].Main), items[0].Description
}

func roundC(v float64) int {
	return int(math.Round(v))
}
