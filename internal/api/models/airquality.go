package models

// StationResponse describes the matched monitoring station.
type StationResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Location   Point   `json:"location"`
	DistanceKM float64 `json:"distanceKm"`
}

// PollutantResponse carries the station's most recent reading.
type PollutantResponse struct {
	PM25       *float64  `json:"pm25,omitempty"`
	PM10       *float64  `json:"pm10,omitempty"`
	MeasuredAt Timestamp `json:"measuredAt"`
}

// WeatherResponse carries current weather at the query coordinate.
type WeatherResponse struct {
	Temperature      float64 `json:"temperature"`
	RelativeHumidity float64 `json:"relativeHumidity"`
	WindSpeed        float64 `json:"windSpeed"`
}

// AirQualityResponse is the response for GET /v1/air-quality.
type AirQualityResponse struct {
	Location Point `json:"location"`

	// Station and Pollutant are omitted when no station was found
	// within the search ceiling.
	Station   *StationResponse   `json:"station,omitempty"`
	Pollutant *PollutantResponse `json:"pollutant,omitempty"`

	// SearchCeilingKM is set when no station was found, indicating
	// how far the search extended.
	SearchCeilingKM *float64 `json:"searchCeilingKm,omitempty"`

	// Weather is omitted when the weather provider was unavailable.
	Weather *WeatherResponse `json:"weather,omitempty"`

	Category   string    `json:"category"`
	ResolvedAt Timestamp `json:"resolvedAt"`
	Warnings   []string  `json:"warnings,omitempty"`
}
