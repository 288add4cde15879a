package comfort_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/domain"
)

func TestScoreParameter_InsideZone(t *testing.T) {
	e := comfort.NewDefaultEngine()

	cases := []struct {
		param domain.Parameter
		value float64
	}{
		{domain.ParamTemperature, 22},
		{domain.ParamTemperature, 24},
		{domain.ParamTemperature, 26},
		{domain.ParamHumidity, 40},
		{domain.ParamHumidity, 55},
		{domain.ParamHumidity, 60},
		{domain.ParamNoise, 0},
		{domain.ParamNoise, 60},
		{domain.ParamLight, 300},
		{domain.ParamLight, 500},
		{domain.ParamAir, 400},
		{domain.ParamAir, 1000},
	}
	for _, tc := range cases {
		require.Equal(t, 100.0, e.ScoreParameter(tc.value, tc.param),
			"%s=%g should be a perfect score", tc.param, tc.value)
	}
}

func TestScoreParameter_LinearPenalty(t *testing.T) {
	e := comfort.NewDefaultEngine()

	// 1 unit of deviation costs 10 points, on either side of a range zone.
	require.Equal(t, 90.0, e.ScoreParameter(21, domain.ParamTemperature))
	require.Equal(t, 90.0, e.ScoreParameter(27, domain.ParamTemperature))
	require.Equal(t, 60.0, e.ScoreParameter(30, domain.ParamTemperature))
	require.Equal(t, 50.0, e.ScoreParameter(65, domain.ParamNoise))
	require.Equal(t, 80.0, e.ScoreParameter(1002, domain.ParamAir))

	// Floored at zero for large excursions.
	require.Equal(t, 0.0, e.ScoreParameter(-50, domain.ParamTemperature))
	require.Equal(t, 0.0, e.ScoreParameter(5000, domain.ParamAir))
}

func TestScoreParameter_MonotoneInDeviation(t *testing.T) {
	e := comfort.NewDefaultEngine()

	prev := 100.0
	for v := 26.0; v <= 60.0; v += 0.5 {
		score := e.ScoreParameter(v, domain.ParamTemperature)
		require.LessOrEqual(t, score, prev, "score must not increase with deviation (value %g)", v)
		require.GreaterOrEqual(t, score, 0.0)
		prev = score
	}
}

func TestGlobalScore_WeightedSum(t *testing.T) {
	e := comfort.NewDefaultEngine()

	all := func(v float64) comfort.Scores {
		return comfort.Scores{Temperature: v, Humidity: v, Air: v, Noise: v, Light: v}
	}
	require.Equal(t, 100.0, e.GlobalScore(all(100)))
	require.Equal(t, 0.0, e.GlobalScore(all(0)))

	// 60*0.25 + 100*0.20 + 100*0.25 + 100*0.20 + 100*0.10 = 90.0
	got := e.GlobalScore(comfort.Scores{Temperature: 60, Humidity: 100, Air: 100, Noise: 100, Light: 100})
	require.Equal(t, 90.0, got)
}

func TestClassifyStatus_Boundaries(t *testing.T) {
	require.Equal(t, domain.StatusComfort, comfort.ClassifyStatus(70.0))
	require.Equal(t, domain.StatusWarning, comfort.ClassifyStatus(69.999))
	require.Equal(t, domain.StatusWarning, comfort.ClassifyStatus(40.0))
	require.Equal(t, domain.StatusDanger, comfort.ClassifyStatus(39.999))
	require.Equal(t, domain.StatusComfort, comfort.ClassifyStatus(100))
	require.Equal(t, domain.StatusDanger, comfort.ClassifyStatus(0))
}

func TestScore_FullReading(t *testing.T) {
	e := comfort.NewDefaultEngine()

	scored := e.Score(comfort.Reading{Temperature: 30, Humidity: 50, Air: 500, Noise: 55, Light: 400})
	require.Equal(t, 60.0, scored.Scores.Temperature)
	require.Equal(t, 100.0, scored.Scores.Humidity)
	require.Equal(t, 100.0, scored.Scores.Air)
	require.Equal(t, 100.0, scored.Scores.Noise)
	require.Equal(t, 100.0, scored.Scores.Light)
	require.Equal(t, 90.0, scored.Global)
	require.Equal(t, domain.StatusComfort, scored.Status)
}

func TestNewEngine_AlternateTables(t *testing.T) {
	max := 10.0
	zones := map[domain.Parameter]comfort.Zone{
		domain.ParamTemperature: {Max: &max},
	}
	weights := comfort.Weights{domain.ParamTemperature: 1.0}
	e := comfort.NewEngine(zones, weights)

	require.Equal(t, 100.0, e.ScoreParameter(10, domain.ParamTemperature))
	require.Equal(t, 50.0, e.ScoreParameter(15, domain.ParamTemperature))
	// Parameters absent from the table score zero and contribute nothing.
	require.Equal(t, 0.0, e.ScoreParameter(50, domain.ParamHumidity))
}
