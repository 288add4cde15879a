package domain

import "time"

// Status classifies a global comfort score.
type Status string

const (
	StatusComfort Status = "comfort"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// ComfortIndex is the derived comfort record for a single measurement.
// Timestamp is copied from the measurement so time-series queries never need
// a join. Never mutated after creation.
type ComfortIndex struct {
	ID               int64     `json:"id"`
	MeasurementID    int64     `json:"measurement_id"`
	GlobalScore      float64   `json:"global_score"`
	Status           Status    `json:"status"`
	TemperatureScore float64   `json:"temperature_score"`
	HumidityScore    float64   `json:"humidity_score"`
	AirScore         float64   `json:"air_score"`
	NoiseScore       float64   `json:"noise_score"`
	LightScore       float64   `json:"light_score"`
	Timestamp        time.Time `json:"timestamp"`
}
