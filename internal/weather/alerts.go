package weather

import "fmt"

// AlertPolicy holds the thresholds the evaluator checks a current-weather
// record against. The source app used two inconsistent threshold pairs at
// its two call sites; both are preserved here as named profiles rather
// than silently merged.
type AlertPolicy struct {
	// HighTempC triggers the heat alert when exceeded.
	HighTempC int
	// WindSpeedMS triggers the strong-wind alert when exceeded.
	WindSpeedMS float64
}

// DefaultAlertPolicy is the canonical notification profile: 35 °C and
// 4 m/s.
var DefaultAlertPolicy = AlertPolicy{HighTempC: 35, WindSpeedMS: 4}

// AdvisoryAlertPolicy is the lower-threshold profile the in-app banner
// used: 27 °C and 1 m/s. Selectable via ALERT_POLICY=advisory.
var AdvisoryAlertPolicy = AlertPolicy{HighTempC: 27, WindSpeedMS: 1}

// EvaluateAlerts inspects a current-weather record against the policy and
// returns every matching alert in temperature, rain, wind order.
// Pure and deterministic; it never dispatches anything itself.
func EvaluateAlerts(cur CurrentWeather, pol AlertPolicy) []Alert {
	var alerts []Alert

	if cur.TempC > pol.HighTempC {
		alerts = append(alerts, Alert{
			Title: "High temperature warning",
			Body:  "Very high temperature today, take care of your health!",
		})
	}

	if cur.Condition == ConditionRain {
		alerts = append(alerts, Alert{
			Title: "Rain expected",
			Body:  "Rain is forecast today, don't forget your umbrella!",
		})
	}

	if cur.WindSpeedMS > pol.WindSpeedMS {
		alerts = append(alerts, Alert{
			Title: "Strong wind warning",
			Body:  fmt.Sprintf("Wind speed: %.1f m/s. Limit time outdoors!", cur.WindSpeedMS),
		})
	}

	return alerts
}
