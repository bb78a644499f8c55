package wunderground

import "time"

// Observation is the normalized reading from a single PWS station.
// It is only ever constructed fully populated: Current either returns an
// Observation with every required field validated or an error, never a
// partial record.
type Observation struct {
	StationID    string
	Neighborhood string
	Country      string
	Latitude     float64
	Longitude    float64
	Elevation    float64 // meters

	ObsTimeUTC   time.Time
	ObsTimeLocal string

	Conditions       string  // free-text description, "Unknown" when absent
	Temperature      float64 // °C
	HeatIndex        float64 // °C
	DewPoint         float64 // °C
	WindChill        float64 // °C
	Humidity         float64 // percent
	WindDirectionDeg float64 // degrees, [0, 360)
	WindSpeed        float64 // km/h
	WindGust         float64 // km/h
	Pressure         float64 // millibars
	PrecipRate       float64 // mm/h
	PrecipTotal      float64 // mm

	SolarRadiation float64
	UV             float64
	QCStatus       int
}

// Wire shapes for the v2/pws/observations/current response. Fields the
// pipeline depends on decode through pointers so an absent field is
// distinguishable from a zero reading.
type apiResponse struct {
	Observations []observationPayload `json:"observations"`
}

type observationPayload struct {
	StationID    string  `json:"stationID"`
	Neighborhood string  `json:"neighborhood"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`

	ObsTimeUTC   time.Time `json:"obsTimeUtc"`
	ObsTimeLocal string    `json:"obsTimeLocal"`

	Humidity *float64 `json:"humidity"`
	WindDir  *float64 `json:"winddir"`

	UV             float64 `json:"uv"`
	QCStatus       int     `json:"qcStatus"`
	SolarRadiation float64 `json:"solarRadiation"`

	WxPhraseLong  string `json:"wxPhraseLong"`
	WxPhrase      string `json:"wxPhrase"`
	WxPhraseShort string `json:"wxPhraseShort"`

	Metric *metricPayload `json:"metric"`
}

type metricPayload struct {
	Temp        *float64 `json:"temp"`
	HeatIndex   float64  `json:"heatIndex"`
	DewPoint    float64  `json:"dewpt"`
	WindChill   float64  `json:"windChill"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindGust    float64  `json:"windGust"`
	Pressure    *float64 `json:"pressure"`
	PrecipRate  float64  `json:"precipRate"`
	PrecipTotal float64  `json:"precipTotal"`
	Elev        float64  `json:"elev"`
}

// conditions resolves the description text across the three phrase fields the
// API may populate, longest first. Absence is not an error.
func (o observationPayload) conditions() string {
	switch {
	case o.WxPhraseLong != "":
		return o.WxPhraseLong
	case o.WxPhrase != "":
		return o.WxPhrase
	case o.WxPhraseShort != "":
		return o.WxPhraseShort
	}
	return "Unknown"
}
