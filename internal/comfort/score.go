package comfort

import (
	"math"

	"github.com/mvelasco/aura/internal/domain"
)

// Reading carries the five raw values the engine scores. It is the
// transport-independent input shape; callers build it from whatever carried
// the measurement (HTTP body, MQTT payload, stored record).
type Reading struct {
	Temperature float64
	Humidity    float64
	Air         float64
	Noise       float64
	Light       float64
}

// Value returns the raw value for a parameter.
func (r Reading) Value(p domain.Parameter) float64 {
	switch p {
	case domain.ParamTemperature:
		return r.Temperature
	case domain.ParamHumidity:
		return r.Humidity
	case domain.ParamAir:
		return r.Air
	case domain.ParamNoise:
		return r.Noise
	case domain.ParamLight:
		return r.Light
	}
	return 0
}

// Scores holds the per-parameter comfort scores, each in [0,100].
type Scores struct {
	Temperature float64
	Humidity    float64
	Air         float64
	Noise       float64
	Light       float64
}

// Scored is the full scoring result for one reading.
type Scored struct {
	Scores Scores
	Global float64
	Status domain.Status
}

// Engine computes comfort scores and threshold alerts from immutable zone and
// weight tables fixed at construction. An Engine is stateless after
// construction and safe for concurrent use.
type Engine struct {
	zones   map[domain.Parameter]Zone
	weights Weights
}

// NewEngine builds an engine from explicit tables. Production code uses
// DefaultZones/DefaultWeights; tests may substitute alternate tables.
func NewEngine(zones map[domain.Parameter]Zone, weights Weights) *Engine {
	return &Engine{zones: zones, weights: weights}
}

// NewDefaultEngine builds an engine with the standard tables.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultZones(), DefaultWeights())
}

// deviation returns the distance from value to the nearest edge of the zone,
// or 0 when the value is inside it.
func (z Zone) deviation(value float64) float64 {
	if z.Min != nil && value < *z.Min {
		return *z.Min - value
	}
	if z.Max != nil && value > *z.Max {
		return value - *z.Max
	}
	return 0
}

// ScoreParameter scores a single raw value against its comfort zone: 100
// inside the zone, otherwise a linear penalty of 10 points per unit of
// deviation, floored at 0.
func (e *Engine) ScoreParameter(value float64, param domain.Parameter) float64 {
	zone, ok := e.zones[param]
	if !ok {
		return 0
	}
	dev := zone.deviation(value)
	if dev == 0 {
		return 100.0
	}
	return math.Max(0.0, 100.0-dev*10.0)
}

// GlobalScore combines per-parameter scores with the engine's weight table.
func (e *Engine) GlobalScore(s Scores) float64 {
	return s.Temperature*e.weights[domain.ParamTemperature] +
		s.Humidity*e.weights[domain.ParamHumidity] +
		s.Air*e.weights[domain.ParamAir] +
		s.Noise*e.weights[domain.ParamNoise] +
		s.Light*e.weights[domain.ParamLight]
}

// ClassifyStatus maps a global score to its status band. Band edges are
// inclusive on the lower end: 70.0 is comfort, 40.0 is warning.
func ClassifyStatus(global float64) domain.Status {
	switch {
	case global >= 70:
		return domain.StatusComfort
	case global >= 40:
		return domain.StatusWarning
	default:
		return domain.StatusDanger
	}
}

// Score runs the full scoring pass over one reading.
func (e *Engine) Score(r Reading) Scored {
	scores := Scores{
		Temperature: e.ScoreParameter(r.Temperature, domain.ParamTemperature),
		Humidity:    e.ScoreParameter(r.Humidity, domain.ParamHumidity),
		Air:         e.ScoreParameter(r.Air, domain.ParamAir),
		Noise:       e.ScoreParameter(r.Noise, domain.ParamNoise),
		Light:       e.ScoreParameter(r.Light, domain.ParamLight),
	}
	global := e.GlobalScore(scores)
	return Scored{Scores: scores, Global: global, Status: ClassifyStatus(global)}
}
