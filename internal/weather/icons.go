package weather

import (
	"strings"
	"time"
)

// Icon identifies one of the fixed presentation icons. The renderer owns
// the actual assets; this layer only classifies.
type Icon string

const (
	IconSunny             Icon = "sunny"
	IconCloudy            Icon = "cloudy"
	IconPartlyCloudy      Icon = "partly-cloudy"
	IconOvercast          Icon = "overcast"
	IconRainy             Icon = "rainy"
	IconLightRain         Icon = "light-rain"
	IconModerateRain      Icon = "moderate-rain"
	IconHeavyRain         Icon = "heavy-rain"
	IconThunderstorm      Icon = "thunderstorm"
	IconThunderstormRain  Icon = "thunderstorm-rain"
	IconSnow              Icon = "snow"
	IconMist              Icon = "mist"
	IconFog               Icon = "fog"
	IconTornado           Icon = "tornado"
	IconClearNight        Icon = "clear-night"
	IconPartlyCloudyNight Icon = "partly-cloudy-night"
	IconDefault           Icon = "default"
)

// descriptionIcons resolves provider descriptions that are more specific
// than the condition group, e.g. "light rain" within Rain.
var descriptionIcons = map[string]Icon{
	"few clouds":                   IconPartlyCloudy,
	"overcast clouds":              IconOvercast,
	"light rain":                   IconLightRain,
	"moderate rain":                IconModerateRain,
	"heavy rain":                   IconHeavyRain,
	"heavy intensity rain":         IconHeavyRain,
	"thunderstorm with light rain": IconThunderstormRain,
}

var conditionIcons = map[Condition]Icon{
	ConditionClear:        IconSunny,
	ConditionClouds:       IconCloudy,
	ConditionRain:         IconRainy,
	ConditionSnow:         IconSnow,
	ConditionThunderstorm: IconThunderstorm,
	ConditionMist:         IconMist,
	ConditionFog:          IconFog,
	ConditionTornado:      IconTornado,
}

// isNight reports whether t falls in the 18:00–05:00 night window.
func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= 18 || h < 5
}

// IconFor classifies a condition (and its free-text description) into an
// icon identifier. At night, clear skies and few clouds switch to their
// night variants. Unrecognized input falls back to IconDefault.
func IconFor(cond Condition, description string, at time.Time) Icon {
	desc := strings.ToLower(strings.TrimSpace(description))

	if isNight(at) {
		if cond == ConditionClear {
			return IconClearNight
		}
		if desc == "few clouds" {
			return IconPartlyCloudyNight
		}
	}

	if icon, ok := descriptionIcons[desc]; ok {
		return icon
	}
	if icon, ok := conditionIcons[cond]; ok {
		return icon
	}
	return IconDefault
}
