package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status     HealthStatus      `json:"status"`
	Time       Timestamp         `json:"time"`
	Subsystems []SubsystemStatus `json:"subsystems"`
	Providers  []ProviderStatus  `json:"providers"`

	// Horizons lists the forecast horizons with a loaded model.
	Horizons []string `json:"horizons"`
}

// SubsystemStatus represents the status of a subsystem.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail *string      `json:"detail,omitempty"`
}

// ProviderStatus represents the status of an external provider.
type ProviderStatus struct {
	Provider string       `json:"provider"`
	Status   HealthStatus `json:"status"`
	Message  *string      `json:"message,omitempty"`
}

// HistoryRecordResponse is a stored observation returned by the admin
// history endpoint.
type HistoryRecordResponse struct {
	ID               string    `json:"id"`
	Location         Point     `json:"location"`
	StationID        string    `json:"stationId,omitempty"`
	PM25             *float64  `json:"pm25,omitempty"`
	PM10             *float64  `json:"pm10,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	RelativeHumidity *float64  `json:"relativeHumidity,omitempty"`
	WindSpeed        *float64  `json:"windSpeed,omitempty"`
	RecordedAt       Timestamp `json:"recordedAt"`
}

// HistoryResponse is the response for the admin history endpoint.
type HistoryResponse struct {
	Records []HistoryRecordResponse `json:"records"`
}
