package comfort

import "github.com/mvelasco/aura/internal/domain"

// Zone is the comfort zone for one parameter: a closed range when both bounds
// are set, or a one-sided bound when only Min or only Max is set.
type Zone struct {
	Min *float64
	Max *float64
}

// Weights maps each parameter to its share of the global score. The default
// table is a convex combination (weights sum to 1.0).
type Weights map[domain.Parameter]float64

func boundedZone(min, max float64) Zone { return Zone{Min: &min, Max: &max} }
func maxOnlyZone(max float64) Zone      { return Zone{Max: &max} }

// DefaultZones returns the fixed comfort-zone table:
// temperature [22,26] °C, humidity [40,60] %, noise ≤60 dB,
// light [300,500] lux, air ≤1000 ppm.
func DefaultZones() map[domain.Parameter]Zone {
	return map[domain.Parameter]Zone{
		domain.ParamTemperature: boundedZone(22, 26),
		domain.ParamHumidity:    boundedZone(40, 60),
		domain.ParamNoise:       maxOnlyZone(60),
		domain.ParamLight:       boundedZone(300, 500),
		domain.ParamAir:         maxOnlyZone(1000),
	}
}

// DefaultWeights returns the fixed global-score weight table.
func DefaultWeights() Weights {
	return Weights{
		domain.ParamTemperature: 0.25,
		domain.ParamHumidity:    0.20,
		domain.ParamAir:         0.25,
		domain.ParamNoise:       0.20,
		domain.ParamLight:       0.10,
	}
}
