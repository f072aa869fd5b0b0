package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAlertsStrictPolicy(t *testing.T) {
	cur := CurrentWeather{
		City:        "Hanoi",
		TempC:       36,
		Condition:   ConditionRain,
		WindSpeedMS: 2,
	}

	alerts := EvaluateAlerts(cur, DefaultAlertPolicy)

	// 36 °C exceeds 35 and Rain matches, but 2 m/s stays under the 4 m/s
	// wind threshold: exactly heat then rain.
	assert.Len(t, alerts, 2)
	assert.Equal(t, "High temperature warning", alerts[0].Title)
	assert.Equal(t, "Rain expected", alerts[1].Title)
}

func TestEvaluateAlertsAllThree(t *testing.T) {
	cur := CurrentWeather{
		TempC:       36,
		Condition:   ConditionRain,
		WindSpeedMS: 4.5,
	}

	alerts := EvaluateAlerts(cur, DefaultAlertPolicy)

	assert.Len(t, alerts, 3)
	assert.Equal(t, "High temperature warning", alerts[0].Title)
	assert.Equal(t, "Rain expected", alerts[1].Title)
	assert.Equal(t, "Strong wind warning", alerts[2].Title)
}

func TestEvaluateAlertsAtThreshold(t *testing.T) {
	cur := CurrentWeather{
		TempC:       35, // not strictly above 35
		Condition:   ConditionClouds,
		WindSpeedMS: 4, // not strictly above 4
	}
	assert.Empty(t, EvaluateAlerts(cur, DefaultAlertPolicy))
}

func TestEvaluateAlertsAdvisoryPolicy(t *testing.T) {
	cur := CurrentWeather{
		TempC:       28,
		Condition:   ConditionClear,
		WindSpeedMS: 3.5,
	}

	// 28 °C trips the 27 °C advisory threshold and 3.5 m/s exceeds its
	// 1 m/s wind threshold.
	alerts := EvaluateAlerts(cur, AdvisoryAlertPolicy)
	assert.Len(t, alerts, 2)
	assert.Equal(t, "High temperature warning", alerts[0].Title)
	assert.Equal(t, "Strong wind warning", alerts[1].Title)

	// The same record is quiet under the strict 35 °C / 4 m/s profile.
	assert.Empty(t, EvaluateAlerts(cur, DefaultAlertPolicy))
}

func TestEvaluateAlertsNone(t *testing.T) {
	cur := CurrentWeather{
		TempC:       20,
		Condition:   ConditionClouds,
		WindSpeedMS: 0.5,
	}
	assert.Empty(t, EvaluateAlerts(cur, DefaultAlertPolicy))
}

func TestEvaluateAlertsDeterministic(t *testing.T) {
	cur := CurrentWeather{TempC: 40, Condition: ConditionRain, WindSpeedMS: 9}
	first := EvaluateAlerts(cur, DefaultAlertPolicy)
	second := EvaluateAlerts(cur, DefaultAlertPolicy)
	assert.Equal(t, first, second)
}
