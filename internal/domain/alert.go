package domain

import "time"

// Parameter identifies one of the five monitored environmental parameters.
type Parameter string

const (
	ParamTemperature Parameter = "temperature"
	ParamHumidity    Parameter = "humidity"
	ParamAir         Parameter = "air"
	ParamNoise       Parameter = "noise"
	ParamLight       Parameter = "light"
)

// Parameters lists all monitored parameters in canonical order.
var Parameters = []Parameter{ParamTemperature, ParamHumidity, ParamAir, ParamNoise, ParamLight}

// Severity is the urgency tier of an alert.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert records one out-of-range parameter on a measurement. A measurement
// carries between zero and five alerts, one per violated parameter.
type Alert struct {
	ID            int64     `json:"id"`
	MeasurementID int64     `json:"measurement_id"`
	Parameter     Parameter `json:"parameter"`
	Value         float64   `json:"value"`
	Threshold     float64   `json:"threshold"`
	Severity      Severity  `json:"severity"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}
