// Package report renders observations into the narrative announcement text
// and the detailed console report.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wd4sel/weather-announcer/internal/wunderground"
)

// cardinalRange is a named half-open [Min, Max) angular interval. A range
// with Min > Max wraps through 360/0 degrees.
type cardinalRange struct {
	Label string
	Min   float64
	Max   float64
}

// Eight compass points covering the full circle. North is a single wrapping
// interval rather than two split ranges.
var cardinalRanges = []cardinalRange{
	{"N", 337.5, 22.5},
	{"NE", 22.5, 67.5},
	{"E", 67.5, 112.5},
	{"SE", 112.5, 157.5},
	{"S", 157.5, 202.5},
	{"SW", 202.5, 247.5},
	{"W", 247.5, 292.5},
	{"NW", 292.5, 337.5},
}

// Cardinal classifies a wind direction in degrees into one of the eight
// compass labels. The ranges cover [0, 360) completely; "N" is returned as a
// fallback for values outside that domain.
func Cardinal(deg float64) string {
	for _, r := range cardinalRanges {
		if r.Min > r.Max {
			if deg >= r.Min || deg < r.Max {
				return r.Label
			}
		} else if deg >= r.Min && deg < r.Max {
			return r.Label
		}
	}
	return "N"
}

// Message renders the observation into the announcement sentence. The time
// stamp is the wall clock at format time, not the observation's own time.
// A nil observation yields a fixed unable-to-retrieve sentence.
func Message(obs *wunderground.Observation, now time.Time) string {
	if obs == nil {
		return "Unable to get weather data at this time."
	}

	return fmt.Sprintf(
		"Current weather conditions: %s. "+
			"Temperature %s degrees Celsius. "+
			"Humidity %s percent. "+
			"Wind %s kilometers per hour from %s. "+
			"Pressure %s millibars. "+
			"Reported at %s local time.",
		obs.Conditions,
		num(obs.Temperature),
		num(obs.Humidity),
		num(obs.WindSpeed),
		Cardinal(obs.WindDirectionDeg),
		num(obs.Pressure),
		now.Format("15:04"),
	)
}

// StationReport renders the full observation for the operator console.
func StationReport(obs *wunderground.Observation) string {
	var b strings.Builder

	b.WriteString("=== Weather Information ===\n")
	fmt.Fprintf(&b, "Station: %s (%s, %s)\n", obs.StationID, obs.Neighborhood, obs.Country)
	fmt.Fprintf(&b, "Coordinates: %s, %s  Elevation: %s m\n", num(obs.Latitude), num(obs.Longitude), num(obs.Elevation))
	fmt.Fprintf(&b, "Observed: %s UTC / %s local\n", obs.ObsTimeUTC.Format(time.RFC3339), obs.ObsTimeLocal)
	fmt.Fprintf(&b, "Conditions: %s\n", obs.Conditions)
	fmt.Fprintf(&b, "Temperature: %s°C (heat index %s°C, dew point %s°C, wind chill %s°C)\n",
		num(obs.Temperature), num(obs.HeatIndex), num(obs.DewPoint), num(obs.WindChill))
	fmt.Fprintf(&b, "Humidity: %s%%\n", num(obs.Humidity))
	fmt.Fprintf(&b, "Wind: %s° (%s) at %s km/h, gusting %s km/h\n",
		num(obs.WindDirectionDeg), Cardinal(obs.WindDirectionDeg), num(obs.WindSpeed), num(obs.WindGust))
	fmt.Fprintf(&b, "Pressure: %s mb\n", num(obs.Pressure))
	fmt.Fprintf(&b, "Precipitation: %s mm/h, %s mm total\n", num(obs.PrecipRate), num(obs.PrecipTotal))
	fmt.Fprintf(&b, "Solar radiation: %s  UV index: %s  QC status: %d\n", num(obs.SolarRadiation), num(obs.UV), obs.QCStatus)
	b.WriteString("===========================")

	return b.String()
}

// num renders a reading with its native decimal representation, without
// imposing rounding beyond what the API already returned.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
