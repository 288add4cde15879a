package comfort

import (
	"fmt"

	"github.com/mvelasco/aura/internal/domain"
)

// Tolerance band widths beyond a violated boundary. Excursions within the
// band are warnings, beyond it dangers. Range-bounded parameters use the
// narrow band, one-sided parameters the wide one.
const (
	rangeTolerance = 5.0
	boundTolerance = 10.0
)

// AlertCandidate is a detected threshold violation, not yet persisted.
type AlertCandidate struct {
	Parameter domain.Parameter
	Value     float64
	Threshold float64
	Severity  domain.Severity
	Message   string
}

// DetectAlerts checks each parameter of the reading against its comfort zone
// and returns one candidate per violated parameter (0 to 5). Values inside
// their zone never produce a candidate, however close to the boundary.
func (e *Engine) DetectAlerts(r Reading) []AlertCandidate {
	var out []AlertCandidate
	for _, param := range domain.Parameters {
		zone, ok := e.zones[param]
		if !ok {
			continue
		}
		value := r.Value(param)

		var threshold, tolerance float64
		switch {
		case zone.Min != nil && value < *zone.Min:
			threshold = *zone.Min
			tolerance = rangeTolerance
			if zone.Max == nil {
				tolerance = boundTolerance
			}
		case zone.Max != nil && value > *zone.Max:
			threshold = *zone.Max
			tolerance = rangeTolerance
			if zone.Min == nil {
				tolerance = boundTolerance
			}
		default:
			continue
		}

		severity := domain.SeverityWarning
		if zone.deviation(value) > tolerance {
			severity = domain.SeverityDanger
		}

		out = append(out, AlertCandidate{
			Parameter: param,
			Value:     value,
			Threshold: threshold,
			Severity:  severity,
			Message:   fmt.Sprintf("%s value %g outside threshold %g", param, value, threshold),
		})
	}
	return out
}
