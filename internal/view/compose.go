// Package view turns provider records into the display-ready context the dashboard
// template renders. Everything here is a pure function of its inputs.
package view

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

const (
	currentTimeLayout = "15:04 02/01"
	hourTimeLayout    = "15:04"
	radarEmbedURL     = "https://embed.windy.com/embed2.html"
)

// Options carries the per-process settings the composer needs.
type Options struct {
	Location  models.Location
	Units     models.Units
	Fallback  *time.Location // zone used when the provider names none
	RadarZoom int
	WebcamURL string
}

// Context is the composed context handed to the dashboard template.
type Context struct {
	LocationName string
	Units        models.Units
	Timezone     string
	Current      CurrentView
	Hourly       []HourView
	RadarURL     string
	WebcamURL    string
}

type CurrentView struct {
	Temperature string
	FeelsLike   string
	Humidity    string
	Pressure    string
	WindSpeed   string
	UVIndex     string
	UVLevel     string
	Condition   string
	Description string
	Icon        string
	Glyph       string
	ObservedAt  string
}

type HourView struct {
	Unix          int64
	Time          string
	Temperature   string
	Humidity      string
	WindSpeed     string
	Precipitation int
	Condition     string
	Description   string
	Icon          string
	Glyph         string
}

// Compose builds the template context from one current observation and the forecast window.
// Unknown condition codes map to IconUnknown; nothing here fails.
func Compose(cur models.CurrentConditions, forecast models.Forecast, opts Options) Context {
	display := normalize(opts.Units)
	title := cases.Title(language.English)

	tzName := cur.Timezone
	if tzName == "" {
		tzName = forecast.Timezone
	}
	zone := ResolveZone(tzName, opts.Fallback)

	icon := IconFor(cur.ConditionCode, cur.IconCode)
	ctx := Context{
		LocationName: opts.Location.Name,
		Units:        display,
		Timezone:     zone.String(),
		Current: CurrentView{
			Temperature: FormatTemperature(ConvertTemperature(cur.Temperature, cur.Units, display), display),
			FeelsLike:   FormatTemperature(ConvertTemperature(cur.FeelsLike, cur.Units, display), display),
			Humidity:    fmt.Sprintf("%d%%", cur.Humidity),
			Pressure:    fmt.Sprintf("%d hPa", cur.Pressure),
			WindSpeed:   FormatWindSpeed(ConvertWindSpeed(cur.WindSpeed, cur.Units, display), display),
			UVIndex:     strconv.FormatFloat(cur.UVIndex, 'f', 1, 64),
			UVLevel:     UVLevel(cur.UVIndex),
			Condition:   cur.Condition,
			Description: title.String(cur.Description),
			Icon:        icon,
			Glyph:       GlyphFor(icon),
			ObservedAt:  cur.ObservedAt.In(zone).Format(currentTimeLayout),
		},
		Hourly:    make([]HourView, 0, len(forecast.Points)),
		RadarURL:  RadarURL(opts.Location, opts.RadarZoom, display),
		WebcamURL: opts.WebcamURL,
	}

	for _, p := range forecast.Points {
		icon := IconFor(p.ConditionCode, p.IconCode)
		ctx.Hourly = append(ctx.Hourly, HourView{
			Unix:          p.Time.Unix(),
			Time:          p.Time.In(zone).Format(hourTimeLayout),
			Temperature:   FormatTemperature(ConvertTemperature(p.Temperature, forecast.Units, display), display),
			Humidity:      fmt.Sprintf("%d%%", p.Humidity),
			WindSpeed:     FormatWindSpeed(ConvertWindSpeed(p.WindSpeed, forecast.Units, display), display),
			Precipitation: PrecipitationPercent(p.PrecipitationProbability),
			Condition:     p.Condition,
			Description:   title.String(p.Description),
			Icon:          icon,
			Glyph:         GlyphFor(icon),
		})
	}
	return ctx
}

// RadarURL builds the radar iframe address centred on loc. The radar is an external
// embed; the server never fetches it.
func RadarURL(loc models.Location, zoom int, units models.Units) string {
	if zoom <= 0 {
		zoom = 7
	}
	lat := strconv.FormatFloat(loc.Latitude, 'f', 3, 64)
	lon := strconv.FormatFloat(loc.Longitude, 'f', 3, 64)

	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("detailLat", lat)
	params.Set("detailLon", lon)
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("level", "surface")
	params.Set("overlay", "radar")
	params.Set("product", "radar")
	params.Set("marker", "true")
	params.Set("type", "map")
	params.Set("location", "coordinates")
	if normalize(units) == models.UnitsImperial {
		params.Set("metricWind", "mph")
		params.Set("metricTemp", "°F")
	} else {
		params.Set("metricWind", "km/h")
		params.Set("metricTemp", "°C")
	}
	return radarEmbedURL + "?" + params.Encode()
}
