package environment

import "github.com/enderates/fishub/internal/domain"

// wmoConditions maps WMO weather interpretation codes to condition labels.
var wmoConditions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// UnknownCondition labels a weather code missing from the table.
const UnknownCondition = domain.UnknownRegion

// ConditionLabel returns the label for a WMO weather code, or UnknownCondition.
func ConditionLabel(code int) string {
	if label, ok := wmoConditions[code]; ok {
		return label
	}
	return UnknownCondition
}
