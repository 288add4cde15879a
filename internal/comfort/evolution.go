package comfort

import (
	"fmt"
	"sort"
	"time"

	"github.com/mvelasco/aura/internal/domain"
)

// Granularity selects the bucket width for trend aggregation.
type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

// ParseGranularity validates a granularity token. The empty string defaults
// to day.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "", string(GranularityDay):
		return GranularityDay, nil
	case string(GranularityHour):
		return GranularityHour, nil
	}
	return "", fmt.Errorf("invalid granularity %q", s)
}

// SignalStats aggregates one signal over one bucket. Current is the signal's
// value on the latest-timestamped record inside the bucket.
type SignalStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Current float64 `json:"current"`
}

// Bucket is one fixed-width time interval with aggregates for all six
// signals. Period is the bucket start (timestamp truncated to the
// granularity, UTC).
type Bucket struct {
	Period      time.Time   `json:"period"`
	Count       int         `json:"count"`
	Global      SignalStats `json:"global"`
	Temperature SignalStats `json:"temperature"`
	Humidity    SignalStats `json:"humidity"`
	Air         SignalStats `json:"air"`
	Noise       SignalStats `json:"noise"`
	Light       SignalStats `json:"light"`
}

const signalCount = 6

func signalValues(ix domain.ComfortIndex) [signalCount]float64 {
	return [signalCount]float64{
		ix.GlobalScore,
		ix.TemperatureScore,
		ix.HumidityScore,
		ix.AirScore,
		ix.NoiseScore,
		ix.LightScore,
	}
}

type bucketAcc struct {
	period  time.Time
	count   int
	latest  time.Time
	current [signalCount]float64
	sum     [signalCount]float64
	min     [signalCount]float64
	max     [signalCount]float64
}

func truncate(ts time.Time, g Granularity) time.Time {
	ts = ts.UTC()
	if g == GranularityHour {
		return ts.Truncate(time.Hour)
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// Aggregate buckets comfort-index history into fixed hour or day intervals
// and computes min/max/avg/current per bucket for the global score and the
// five parameter scores. A single linear scan feeds per-bucket accumulators
// keyed by the truncated timestamp. Buckets with no records are omitted;
// empty history yields an empty slice. The projection is read-only and
// deterministic for a fixed history snapshot.
func Aggregate(history []domain.ComfortIndex, g Granularity) []Bucket {
	accs := make(map[int64]*bucketAcc)

	for _, ix := range history {
		period := truncate(ix.Timestamp, g)
		key := period.Unix()
		values := signalValues(ix)

		acc, ok := accs[key]
		if !ok {
			acc = &bucketAcc{period: period, latest: ix.Timestamp, current: values}
			acc.min = values
			acc.max = values
			accs[key] = acc
		}

		acc.count++
		for i, v := range values {
			acc.sum[i] += v
			if v < acc.min[i] {
				acc.min[i] = v
			}
			if v > acc.max[i] {
				acc.max[i] = v
			}
		}
		// All six currents come from the single latest record in the bucket.
		if ix.Timestamp.After(acc.latest) {
			acc.latest = ix.Timestamp
			acc.current = values
		}
	}

	keys := make([]int64, 0, len(accs))
	for k := range accs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		acc := accs[k]
		stats := func(i int) SignalStats {
			return SignalStats{
				Min:     acc.min[i],
				Max:     acc.max[i],
				Avg:     acc.sum[i] / float64(acc.count),
				Current: acc.current[i],
			}
		}
		out = append(out, Bucket{
			Period:      acc.period,
			Count:       acc.count,
			Global:      stats(0),
			Temperature: stats(1),
			Humidity:    stats(2),
			Air:         stats(3),
			Noise:       stats(4),
			Light:       stats(5),
		})
	}
	return out
}
