package domain

import "time"

// Measurement is one raw environmental reading for a room. Immutable once
// ingested; exactly one ComfortIndex is derived from it.
type Measurement struct {
	ID          int64     `json:"id"`
	RoomID      string    `json:"room_id"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	Air         float64   `json:"air"`         // ppm (MQ-135 equivalent)
	Noise       float64   `json:"noise"`       // dB
	Light       float64   `json:"light"`       // lux
	Timestamp   time.Time `json:"timestamp"`
}
