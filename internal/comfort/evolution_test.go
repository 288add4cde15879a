package comfort_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/domain"
)

func index(ts time.Time, global float64) domain.ComfortIndex {
	return domain.ComfortIndex{
		GlobalScore:      global,
		TemperatureScore: global - 1,
		HumidityScore:    global - 2,
		AirScore:         global - 3,
		NoiseScore:       global - 4,
		LightScore:       global - 5,
		Timestamp:        ts,
	}
}

func TestAggregate_EmptyHistory(t *testing.T) {
	require.Empty(t, comfort.Aggregate(nil, comfort.GranularityDay))
	require.Empty(t, comfort.Aggregate([]domain.ComfortIndex{}, comfort.GranularityHour))
}

func TestAggregate_SingleRecord(t *testing.T) {
	ts := time.Date(2026, 8, 12, 14, 35, 0, 0, time.UTC)
	buckets := comfort.Aggregate([]domain.ComfortIndex{index(ts, 80)}, comfort.GranularityHour)

	require.Len(t, buckets, 1)
	b := buckets[0]
	require.Equal(t, time.Date(2026, 8, 12, 14, 0, 0, 0, time.UTC), b.Period)
	require.Equal(t, 1, b.Count)

	for _, s := range []comfort.SignalStats{b.Global, b.Temperature, b.Humidity, b.Air, b.Noise, b.Light} {
		require.Equal(t, s.Min, s.Max)
		require.Equal(t, s.Min, s.Avg)
		require.Equal(t, s.Min, s.Current)
	}
	require.Equal(t, 80.0, b.Global.Current)
	require.Equal(t, 79.0, b.Temperature.Current)
	require.Equal(t, 75.0, b.Light.Current)
}

func TestAggregate_HourBuckets(t *testing.T) {
	base := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	history := []domain.ComfortIndex{
		index(base.Add(5*time.Minute), 60),
		index(base.Add(20*time.Minute), 90),
		index(base.Add(40*time.Minute), 75),
		index(base.Add(90*time.Minute), 50),
	}

	buckets := comfort.Aggregate(history, comfort.GranularityHour)
	require.Len(t, buckets, 2)

	first := buckets[0]
	require.Equal(t, base, first.Period)
	require.Equal(t, 3, first.Count)
	require.Equal(t, 60.0, first.Global.Min)
	require.Equal(t, 90.0, first.Global.Max)
	require.Equal(t, 75.0, first.Global.Avg)
	// Current follows the latest record in the bucket, not the extremum.
	require.Equal(t, 75.0, first.Global.Current)
	require.Equal(t, 74.0, first.Temperature.Current)

	second := buckets[1]
	require.Equal(t, base.Add(time.Hour), second.Period)
	require.Equal(t, 1, second.Count)
	require.Equal(t, 50.0, second.Global.Current)
}

func TestAggregate_DayBuckets(t *testing.T) {
	d1 := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 11, 23, 30, 0, 0, time.UTC)
	history := []domain.ComfortIndex{
		index(d1, 40),
		index(d1.Add(6*time.Hour), 70),
		index(d2, 95),
	}

	buckets := comfort.Aggregate(history, comfort.GranularityDay)
	require.Len(t, buckets, 2)
	require.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), buckets[0].Period)
	require.Equal(t, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), buckets[1].Period)
	require.Equal(t, 55.0, buckets[0].Global.Avg)
	require.Equal(t, 70.0, buckets[0].Global.Current)
	require.Equal(t, 95.0, buckets[1].Global.Current)
}

func TestAggregate_BucketsDisjointAndOrdered(t *testing.T) {
	// Two days of unsorted quarter-hourly records; every record must land in
	// exactly one bucket and bucket periods must strictly increase.
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var history []domain.ComfortIndex
	for i := 0; i < 192; i++ {
		history = append(history, index(start.Add(time.Duration(i)*15*time.Minute), float64(i%100)))
	}
	// Shuffle deterministically: aggregation must not depend on input order.
	for i := range history {
		j := (i * 37) % len(history)
		history[i], history[j] = history[j], history[i]
	}

	buckets := comfort.Aggregate(history, comfort.GranularityHour)
	require.Len(t, buckets, 48)

	total := 0
	for i, b := range buckets {
		total += b.Count
		require.Equal(t, 4, b.Count)
		if i > 0 {
			require.True(t, b.Period.After(buckets[i-1].Period))
			require.GreaterOrEqual(t,
				b.Period.Sub(buckets[i-1].Period), time.Hour,
				"bucket intervals must not overlap")
		}
	}
	require.Equal(t, len(history), total)
}

func TestAggregate_NonUTCTimestamps(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 00:30 UTC+2 is 22:30 UTC the previous day; bucket keys are UTC.
	ts := time.Date(2026, 8, 12, 0, 30, 0, 0, loc)
	buckets := comfort.Aggregate([]domain.ComfortIndex{index(ts, 50)}, comfort.GranularityDay)
	require.Len(t, buckets, 1)
	require.Equal(t, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), buckets[0].Period)
}

func TestParseGranularity(t *testing.T) {
	g, err := comfort.ParseGranularity("")
	require.NoError(t, err)
	require.Equal(t, comfort.GranularityDay, g)

	g, err = comfort.ParseGranularity("hour")
	require.NoError(t, err)
	require.Equal(t, comfort.GranularityHour, g)

	_, err = comfort.ParseGranularity("week")
	require.Error(t, err)
}
