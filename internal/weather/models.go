package weather

import "errors"

// Condition is the normalized, closed set of sky/precipitation states.
// Provider payloads carry loosely-typed strings; ParseCondition is the
// only place they enter the domain.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionTornado      Condition = "Tornado"
	ConditionUnknown      Condition = "Unknown"
)

// ParseCondition maps a provider condition string onto the closed set.
func ParseCondition(s string) Condition {
	switch s {
	case "Clear", "Sunny":
		return ConditionClear
	case "Clouds":
		return ConditionClouds
	case "Rain", "Drizzle":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionThunderstorm
	case "Mist", "Haze", "Smoke":
		return ConditionMist
	case "Fog":
		return ConditionFog
	case "Tornado":
		return ConditionTornado
	default:
		return ConditionUnknown
	}
}

var (
	// ErrFetchFailed marks a network or non-success provider response.
	// The pipeline absorbs it by falling back to the cached snapshot.
	ErrFetchFailed = errors.New("weather: fetch failed")

	// ErrUnavailable is the pipeline's terminal state when a fetch failed
	// and no cached snapshot exists to fall back to.
	ErrUnavailable = errors.New("weather: no data available")

	// ErrEmptyCity is returned when no target city could be determined.
	ErrEmptyCity = errors.New("weather: empty city")
)

// CurrentWeather is the normalized current-conditions record.
// Temperatures are rounded to whole degrees Celsius; the remaining
// readings keep the provider's native numeric types.
type CurrentWeather struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	TempC       int       `json:"temperatureC"`
	MinTempC    int       `json:"minTemperatureC"`
	MaxTempC    int       `json:"maxTemperatureC"`
	HumidityPct float64   `json:"humidityPercent"`
	PressureHPa float64   `json:"pressureHpa"`
	VisibilityM int       `json:"visibilityMeters"`
	WindSpeedMS float64   `json:"windSpeedMs"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	ObservedAt  int64     `json:"observedAt"` // unix seconds
}

// ForecastEntry is one sample of the provider's 3-hour forecast timeline.
type ForecastEntry struct {
	Epoch     int64     `json:"dt"`
	TimeText  string    `json:"dtTxt"` // provider's "2006-01-02 15:04:05" form
	TempC     int       `json:"temperatureC"`
	Condition Condition `json:"condition"`
	RainMM    float64   `json:"rainMm,omitempty"` // 3-hour rain volume
}

// Snapshot pairs current conditions with the daily forecast series for one
// city. It is the unit of cache persistence and of offline fallback, and
// is replaced wholesale on every successful fetch.
type Snapshot struct {
	Current  CurrentWeather  `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// HourlyEntry is a presentation-ready hourly forecast sample.
type HourlyEntry struct {
	Label string `json:"time"` // localized short time, e.g. "15:00"
	TempC int    `json:"temperatureC"`
	Icon  Icon   `json:"icon"`
}

// RainfallPoint is one bar of the rainfall chart: a weekday label and the
// 3-hour rain volume at the daily sample, zero when the provider sent none.
type RainfallPoint struct {
	Day string  `json:"day"`
	MM  float64 `json:"mm"`
}

// Alert is a transient advisory produced by the evaluator; never persisted.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// View is what the presentation layer consumes.
type View struct {
	Current   CurrentWeather  `json:"current"`
	Daily     []ForecastEntry `json:"dailyForecast"`  // at most 9 entries
	Hourly    []HourlyEntry   `json:"hourlyForecast"` // at most 7 entries
	Rainfall  []RainfallPoint `json:"rainfall"`
	FromCache bool            `json:"fromCache"`
}
