package view

// IconUnknown is returned for condition codes missing from the table.
const IconUnknown = "unknown"

// conditionIcons maps OpenWeatherMap condition codes to icon identifiers.
// https://openweathermap.org/weather-conditions
var conditionIcons = map[int]string{
	// Thunderstorm
	200: "thunderstorm-rain", 201: "thunderstorm-rain", 202: "thunderstorm-rain",
	210: "thunderstorm", 211: "thunderstorm", 212: "thunderstorm", 221: "thunderstorm",
	230: "thunderstorm-rain", 231: "thunderstorm-rain", 232: "thunderstorm-rain",

	// Drizzle
	300: "drizzle", 301: "drizzle", 302: "drizzle",
	310: "drizzle", 311: "drizzle", 312: "drizzle", 313: "drizzle", 314: "drizzle", 321: "drizzle",

	// Rain
	500: "rain", 501: "rain",
	502: "heavy-rain", 503: "heavy-rain", 504: "heavy-rain",
	511: "freezing-rain",
	520: "showers", 521: "showers", 522: "showers", 531: "showers",

	// Snow
	600: "snow", 601: "snow", 602: "heavy-snow",
	611: "sleet", 612: "sleet", 613: "sleet",
	615: "rain-snow", 616: "rain-snow",
	620: "snow-showers", 621: "snow-showers", 622: "snow-showers",

	// Atmosphere
	701: "mist", 711: "smoke", 721: "haze", 731: "dust", 741: "fog",
	751: "sand", 761: "dust", 762: "volcanic-ash", 771: "squall", 781: "tornado",

	// Clear and clouds
	800: "clear", 801: "few-clouds", 802: "scattered-clouds",
	803: "broken-clouds", 804: "overcast",
}

// Codes whose icon differs between day and night.
var dayNightCodes = map[int]bool{800: true, 801: true, 802: true}

var iconGlyphs = map[string]string{
	"thunderstorm":           "🌩️",
	"thunderstorm-rain":      "⛈️",
	"drizzle":                "🌦️",
	"rain":                   "🌧️",
	"heavy-rain":             "🌧️",
	"freezing-rain":          "🧊",
	"showers":                "🌦️",
	"snow":                   "🌨️",
	"heavy-snow":             "❄️",
	"sleet":                  "🌨️",
	"rain-snow":              "🌨️",
	"snow-showers":           "🌨️",
	"mist":                   "🌫️",
	"smoke":                  "🌫️",
	"haze":                   "🌫️",
	"dust":                   "🌪️",
	"fog":                    "🌫️",
	"sand":                   "🌪️",
	"volcanic-ash":           "🌋",
	"squall":                 "💨",
	"tornado":                "🌪️",
	"clear-day":              "☀️",
	"clear-night":            "🌙",
	"few-clouds-day":         "🌤️",
	"few-clouds-night":       "🌙",
	"scattered-clouds-day":   "⛅",
	"scattered-clouds-night": "☁️",
	"broken-clouds":          "☁️",
	"overcast":               "☁️",
	IconUnknown:              "❔",
}

// IconFor returns the icon identifier for a provider condition code. providerIcon is the
// provider's own icon code (e.g. "01n"); its trailing 'n' selects the night variant.
func IconFor(code int, providerIcon string) string {
	icon, ok := conditionIcons[code]
	if !ok {
		return IconUnknown
	}
	if dayNightCodes[code] {
		if isNight(providerIcon) {
			return icon + "-night"
		}
		return icon + "-day"
	}
	return icon
}

// GlyphFor returns a display glyph for an icon identifier.
func GlyphFor(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return iconGlyphs[IconUnknown]
}

func isNight(providerIcon string) bool {
	return len(providerIcon) > 0 && providerIcon[len(providerIcon)-1] == 'n'
}
