package view

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

var testLoc = models.Location{Latitude: 48.137, Longitude: 11.575, Name: "Munich"}

func fixtureCurrent() models.CurrentConditions {
	return models.CurrentConditions{
		Temperature:   21.4,
		FeelsLike:     20.6,
		Humidity:      55,
		Pressure:      1013,
		WindSpeed:     5.0,
		UVIndex:       4.6,
		ConditionCode: 801,
		Condition:     "Clouds",
		Description:   "few clouds",
		IconCode:      "02d",
		ObservedAt:    time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		Timezone:      "Europe/Berlin",
		Units:         models.UnitsMetric,
	}
}

func fixtureForecast(n int) models.Forecast {
	start := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	points := make([]models.ForecastPoint, n)
	for i := range points {
		points[i] = models.ForecastPoint{
			Time:                     start.Add(time.Duration(i) * time.Hour),
			Temperature:              float64(10 + i),
			ConditionCode:            500,
			Condition:                "Rain",
			Description:              "light rain",
			IconCode:                 "10d",
			Humidity:                 70,
			WindSpeed:                2.5,
			PrecipitationProbability: 0.4,
		}
	}
	return models.Forecast{Points: points, Timezone: "Europe/Berlin", Units: models.UnitsMetric}
}

func TestIconFor(t *testing.T) {
	tests := []struct {
		code int
		icon string
		want string
	}{
		{200, "11d", "thunderstorm-rain"},
		{211, "11d", "thunderstorm"},
		{301, "09d", "drizzle"},
		{502, "10d", "heavy-rain"},
		{511, "13d", "freezing-rain"},
		{601, "13n", "snow"},
		{741, "50d", "fog"},
		{781, "50d", "tornado"},
		{800, "01d", "clear-day"},
		{800, "01n", "clear-night"},
		{801, "02n", "few-clouds-night"},
		{802, "03d", "scattered-clouds-day"},
		{803, "04n", "broken-clouds"},
		{804, "04d", "overcast"},
		{800, "", "clear-day"},
	}
	for _, tt := range tests {
		if got := IconFor(tt.code, tt.icon); got != tt.want {
			t.Errorf("IconFor(%d, %q) = %q, want %q", tt.code, tt.icon, got, tt.want)
		}
	}
}

// TestIconFor_UnknownCode verifies that codes outside the lookup table fall back to the
// unknown icon instead of failing.
func TestIconFor_UnknownCode(t *testing.T) {
	for _, code := range []int{0, -1, 199, 999, 805, 12345} {
		if got := IconFor(code, "01d"); got != IconUnknown {
			t.Errorf("IconFor(%d) = %q, want %q", code, got, IconUnknown)
		}
	}
	if GlyphFor(IconUnknown) == "" || GlyphFor("no-such-icon") != GlyphFor(IconUnknown) {
		t.Error("GlyphFor() should fall back to the unknown glyph")
	}
}

func TestEveryIconHasGlyph(t *testing.T) {
	for code := range conditionIcons {
		for _, suffix := range []string{"d", "n"} {
			icon := IconFor(code, "01"+suffix)
			if _, ok := iconGlyphs[icon]; !ok {
				t.Errorf("icon %q (code %d) has no glyph", icon, code)
			}
		}
	}
}

func TestConvertTemperature(t *testing.T) {
	tests := []struct {
		v        float64
		from, to models.Units
		want     float64
	}{
		{0, models.UnitsMetric, models.UnitsImperial, 32},
		{100, models.UnitsMetric, models.UnitsImperial, 212},
		{-40, models.UnitsMetric, models.UnitsImperial, -40},
		{212, models.UnitsImperial, models.UnitsMetric, 100},
		{21.4, models.UnitsMetric, models.UnitsMetric, 21.4},
		{70, models.UnitsImperial, models.UnitsImperial, 70},
		{10, "", models.UnitsImperial, 50},
	}
	for _, tt := range tests {
		if got := ConvertTemperature(tt.v, tt.from, tt.to); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConvertTemperature(%v, %q, %q) = %v, want %v", tt.v, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertWindSpeed(t *testing.T) {
	tests := []struct {
		v        float64
		from, to models.Units
		want     float64
	}{
		{10, models.UnitsMetric, models.UnitsMetric, 36},
		{10, models.UnitsMetric, models.UnitsImperial, 22.369362920544},
		{10, models.UnitsImperial, models.UnitsMetric, 16.09344},
		{10, models.UnitsImperial, models.UnitsImperial, 10},
	}
	for _, tt := range tests {
		if got := ConvertWindSpeed(tt.v, tt.from, tt.to); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("ConvertWindSpeed(%v, %q, %q) = %v, want %v", tt.v, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := FormatTemperature(21.4, models.UnitsMetric); got != "21°C" {
		t.Errorf("FormatTemperature = %q", got)
	}
	if got := FormatTemperature(70.6, models.UnitsImperial); got != "71°F" {
		t.Errorf("FormatTemperature = %q", got)
	}
	if got := FormatTemperature(-0.4, models.UnitsMetric); got != "0°C" {
		t.Errorf("FormatTemperature(-0.4) = %q, want 0°C", got)
	}
	if got := FormatWindSpeed(18, models.UnitsMetric); got != "18 km/h" {
		t.Errorf("FormatWindSpeed = %q", got)
	}
	if got := FormatWindSpeed(11.2, models.UnitsImperial); got != "11 mph" {
		t.Errorf("FormatWindSpeed = %q", got)
	}
}

func TestUVLevel(t *testing.T) {
	tests := map[float64]string{0: "Low", 2.9: "Low", 3: "Moderate", 5.5: "Moderate", 6: "High", 8: "Very High", 10.9: "Very High", 11: "Extreme", 14: "Extreme"}
	for uvi, want := range tests {
		if got := UVLevel(uvi); got != want {
			t.Errorf("UVLevel(%v) = %q, want %q", uvi, got, want)
		}
	}
}

func TestPrecipitationPercent(t *testing.T) {
	tests := map[float64]int{0: 0, 0.25: 25, 1: 100, 1.7: 100, -0.2: 0, math.NaN(): 0}
	for in, want := range tests {
		if got := PrecipitationPercent(in); got != want {
			t.Errorf("PrecipitationPercent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestResolveZone(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	if got := ResolveZone("Europe/Berlin", ny).String(); got != "Europe/Berlin" {
		t.Errorf("ResolveZone(provider) = %q", got)
	}
	if got := ResolveZone("", ny).String(); got != "America/New_York" {
		t.Errorf("ResolveZone(fallback) = %q", got)
	}
	if got := ResolveZone("Bogus/Zone", nil); got != time.UTC {
		t.Errorf("ResolveZone(invalid, nil) = %v, want UTC", got)
	}
}

func TestCompose_Metric(t *testing.T) {
	got := Compose(fixtureCurrent(), fixtureForecast(3), Options{Location: testLoc, Units: models.UnitsMetric, WebcamURL: "https://cam.example.com"})

	if got.LocationName != "Munich" || got.Units != models.UnitsMetric {
		t.Errorf("LocationName/Units = %q/%q", got.LocationName, got.Units)
	}
	c := got.Current
	if c.Temperature != "21°C" || c.FeelsLike != "21°C" {
		t.Errorf("Temperature/FeelsLike = %q/%q", c.Temperature, c.FeelsLike)
	}
	if c.WindSpeed != "18 km/h" {
		t.Errorf("WindSpeed = %q, want 18 km/h", c.WindSpeed)
	}
	if c.Humidity != "55%" || c.Pressure != "1013 hPa" {
		t.Errorf("Humidity/Pressure = %q/%q", c.Humidity, c.Pressure)
	}
	if c.UVIndex != "4.6" || c.UVLevel != "Moderate" {
		t.Errorf("UV = %q/%q", c.UVIndex, c.UVLevel)
	}
	if c.Icon != "few-clouds-day" || c.Description != "Few Clouds" {
		t.Errorf("Icon/Description = %q/%q", c.Icon, c.Description)
	}
	// 12:30 UTC in June is 14:30 CEST.
	if c.ObservedAt != "14:30 01/06" {
		t.Errorf("ObservedAt = %q, want 14:30 01/06", c.ObservedAt)
	}
	if got.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", got.Timezone)
	}
	if len(got.Hourly) != 3 {
		t.Fatalf("len(Hourly) = %d, want 3", len(got.Hourly))
	}
	h := got.Hourly[1]
	if h.Time != "16:00" || h.Temperature != "11°C" || h.WindSpeed != "9 km/h" || h.Precipitation != 40 || h.Icon != "rain" {
		t.Errorf("Hourly[1] = %+v", h)
	}
	if h.Unix != time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("Hourly[1].Unix = %d", h.Unix)
	}
	if got.WebcamURL != "https://cam.example.com" {
		t.Errorf("WebcamURL = %q", got.WebcamURL)
	}
	if !strings.HasPrefix(got.RadarURL, "https://embed.windy.com/embed2.html?") || !strings.Contains(got.RadarURL, "lat=48.137") {
		t.Errorf("RadarURL = %q", got.RadarURL)
	}
}

// TestCompose_ImperialVsMetric verifies that the same raw data rendered in both unit systems
// differs only by conversion and suffix, and preserves the ordering of values.
func TestCompose_ImperialVsMetric(t *testing.T) {
	cur := fixtureCurrent()
	fc := fixtureForecast(10)

	metric := Compose(cur, fc, Options{Location: testLoc, Units: models.UnitsMetric})
	imperial := Compose(cur, fc, Options{Location: testLoc, Units: models.UnitsImperial})

	if metric.Current.Temperature != "21°C" {
		t.Errorf("metric Temperature = %q", metric.Current.Temperature)
	}
	// 21.4°C = 70.52°F
	if imperial.Current.Temperature != "71°F" {
		t.Errorf("imperial Temperature = %q, want 71°F", imperial.Current.Temperature)
	}
	// 5 m/s = 11.18 mph
	if imperial.Current.WindSpeed != "11 mph" {
		t.Errorf("imperial WindSpeed = %q, want 11 mph", imperial.Current.WindSpeed)
	}
	if metric.Current.Humidity != imperial.Current.Humidity || metric.Current.Icon != imperial.Current.Icon {
		t.Error("unit-independent fields differ between unit systems")
	}

	for i := 1; i < len(fc.Points); i++ {
		mPrev, mCur := leadingInt(t, metric.Hourly[i-1].Temperature), leadingInt(t, metric.Hourly[i].Temperature)
		iPrev, iCur := leadingInt(t, imperial.Hourly[i-1].Temperature), leadingInt(t, imperial.Hourly[i].Temperature)
		if (mCur > mPrev) != (iCur > iPrev) {
			t.Errorf("ordering differs at %d: metric %d->%d, imperial %d->%d", i, mPrev, mCur, iPrev, iCur)
		}
		if !strings.HasSuffix(metric.Hourly[i].Temperature, "°C") || !strings.HasSuffix(imperial.Hourly[i].Temperature, "°F") {
			t.Errorf("unit suffixes wrong at %d: %q / %q", i, metric.Hourly[i].Temperature, imperial.Hourly[i].Temperature)
		}
		if metric.Hourly[i].Time != imperial.Hourly[i].Time {
			t.Errorf("time labels differ at %d", i)
		}
	}
}

func TestCompose_ImperialSourceNoConversion(t *testing.T) {
	cur := fixtureCurrent()
	cur.Units = models.UnitsImperial
	cur.Temperature = 70.6
	cur.WindSpeed = 11.2

	got := Compose(cur, models.Forecast{Units: models.UnitsImperial}, Options{Location: testLoc, Units: models.UnitsImperial})
	if got.Current.Temperature != "71°F" || got.Current.WindSpeed != "11 mph" {
		t.Errorf("Current = %q / %q", got.Current.Temperature, got.Current.WindSpeed)
	}
	if len(got.Hourly) != 0 {
		t.Errorf("len(Hourly) = %d, want 0", len(got.Hourly))
	}
}

func TestCompose_UnknownConditionDoesNotFail(t *testing.T) {
	cur := fixtureCurrent()
	cur.ConditionCode = 9999
	fc := fixtureForecast(2)
	fc.Points[1].ConditionCode = 0

	got := Compose(cur, fc, Options{Location: testLoc, Units: models.UnitsMetric})
	if got.Current.Icon != IconUnknown {
		t.Errorf("Current.Icon = %q, want unknown", got.Current.Icon)
	}
	if got.Hourly[0].Icon != "rain" || got.Hourly[1].Icon != IconUnknown {
		t.Errorf("Hourly icons = %q, %q", got.Hourly[0].Icon, got.Hourly[1].Icon)
	}
}

func TestCompose_FallbackZone(t *testing.T) {
	cur := fixtureCurrent()
	cur.Timezone = ""
	fc := fixtureForecast(1)
	fc.Timezone = ""
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	got := Compose(cur, fc, Options{Location: testLoc, Units: models.UnitsMetric, Fallback: tokyo})
	if got.Current.ObservedAt != "21:30 01/06" {
		t.Errorf("ObservedAt = %q, want 21:30 01/06", got.Current.ObservedAt)
	}

	got = Compose(cur, fc, Options{Location: testLoc, Units: models.UnitsMetric})
	if got.Current.ObservedAt != "12:30 01/06" || got.Timezone != "UTC" {
		t.Errorf("ObservedAt/Timezone = %q/%q, want UTC", got.Current.ObservedAt, got.Timezone)
	}
}

func TestRadarURL_Units(t *testing.T) {
	metric := RadarURL(testLoc, 0, models.UnitsMetric)
	if !strings.Contains(metric, "zoom=7") || !strings.Contains(metric, "metricWind=km%2Fh") {
		t.Errorf("metric RadarURL = %q", metric)
	}
	imperial := RadarURL(testLoc, 9, models.UnitsImperial)
	if !strings.Contains(imperial, "zoom=9") || !strings.Contains(imperial, "metricWind=mph") {
		t.Errorf("imperial RadarURL = %q", imperial)
	}
}

func leadingInt(t *testing.T, s string) int {
	t.Helper()
	n, sign, i := 0, 1, 0
	if strings.HasPrefix(s, "-") {
		sign, i = -1, 1
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return sign * n
}
