package models

// PredictRequest is the request body for POST /v1/predict. All inputs
// are optional; missing values fall back to climatological defaults.
type PredictRequest struct {
	PM25             *float64 `json:"pm25,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	WindSpeed        *float64 `json:"windSpeed,omitempty"`
	RelativeHumidity *float64 `json:"relativeHumidity,omitempty"`
}

// PredictFromCoordinatesRequest is the request body for
// POST /v1/predict:from-coordinates.
type PredictFromCoordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HorizonForecast is a single horizon's prediction.
type HorizonForecast struct {
	Horizon  string   `json:"horizon"`
	PM25     *float64 `json:"pm25,omitempty"`
	Category string   `json:"category"`
	Error    string   `json:"error,omitempty"`
}

// PredictionResponse is the response for the predict endpoints.
type PredictionResponse struct {
	// Status is "success", "partial" or "failed" depending on how
	// many horizons produced a prediction.
	Status string `json:"status"`

	Forecasts []HorizonForecast `json:"forecasts"`

	// InputAt is the timestamp the feature vector was anchored to.
	InputAt Timestamp `json:"inputAt"`

	// Source describes where the input observation came from:
	// "live", "history" or "defaults". Absent for explicit-feature
	// requests.
	Source string `json:"source,omitempty"`

	// Observation echoes the resolved input for coordinate requests.
	Observation *AirQualityResponse `json:"observation,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}
