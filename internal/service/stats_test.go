package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/domain"
	"github.com/mvelasco/aura/internal/repository"
	"github.com/mvelasco/aura/internal/service"
)

// seedHistory ingests a fixed scenario: two comfortable readings, one
// warning-status reading with two alerts, spread over three days.
func seedHistory(t *testing.T, store *repository.MemoryStore, roomID string, now time.Time) {
	t.Helper()
	ing := service.NewIngestor(store, store, comfort.NewDefaultEngine(), nil, zap.NewNop())

	ingest := func(ts time.Time, temp, noise float64) {
		req := service.CollectRequest{
			RoomID:      roomID,
			Temperature: f(temp),
			Humidity:    f(50),
			Air:         f(500),
			Noise:       f(noise),
			Light:       f(400),
			Timestamp:   ts.Format(time.RFC3339),
		}
		_, err := ing.Collect(context.Background(), req)
		require.NoError(t, err)
	}

	ingest(now.Add(-48*time.Hour), 24, 40) // global 100, comfort
	ingest(now.Add(-26*time.Hour), 30, 40) // global 90, comfort, 1 warning alert
	ingest(now.Add(-2*time.Hour), 35, 75)  // global 57.5, warning, 2 danger alerts
}

func TestStatistics_Summary(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Atrium", "")
	require.NoError(t, err)

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	seedHistory(t, store, room.ID, now)

	reporter := service.NewReporter(store, store).WithClock(func() time.Time { return now })
	summary, err := reporter.Statistics(context.Background(), room.ID, 7)
	require.NoError(t, err)

	// Third reading: temp 35 scores 10, noise 75 scores 0 ->
	// 10*0.25 + 100*0.20 + 100*0.25 + 0*0.20 + 100*0.10 = 57.5 (warning).
	require.Equal(t, 7, summary.PeriodDays)
	require.Equal(t, 3, summary.TotalMeasurements)
	require.NotNil(t, summary.AverageScore)
	require.InDelta(t, (100.0+90.0+57.5)/3, *summary.AverageScore, 1e-9)
	require.Equal(t, 57.5, *summary.MinScore)
	require.Equal(t, 100.0, *summary.MaxScore)
	require.Equal(t, 2, summary.StatusDistribution[domain.StatusComfort])
	require.Equal(t, 1, summary.StatusDistribution[domain.StatusWarning])
	require.InDelta(t, 100.0/3, summary.DiscomfortPercentage, 1e-9)
	// Alerts: temp warning (day 2) + temp danger and noise danger (day 3).
	require.Equal(t, 3, summary.AlertCount)
}

func TestStatistics_WindowExcludesOldRecords(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Atrium", "")
	require.NoError(t, err)

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	seedHistory(t, store, room.ID, now)

	reporter := service.NewReporter(store, store).WithClock(func() time.Time { return now })
	summary, err := reporter.Statistics(context.Background(), room.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalMeasurements)
	require.Equal(t, 57.5, *summary.AverageScore)
	require.Equal(t, 2, summary.AlertCount)
}

func TestStatistics_EmptyWindow(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Empty", "")
	require.NoError(t, err)

	reporter := service.NewReporter(store, store)
	summary, err := reporter.Statistics(context.Background(), room.ID, 7)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalMeasurements)
	require.Nil(t, summary.AverageScore)
	require.Nil(t, summary.MinScore)
	require.Nil(t, summary.MaxScore)
	require.Equal(t, 0.0, summary.DiscomfortPercentage)
	require.Equal(t, 0, summary.AlertCount)
	require.Empty(t, summary.StatusDistribution)
}

func TestStatistics_Validation(t *testing.T) {
	store := repository.NewMemoryStore()
	reporter := service.NewReporter(store, store)

	_, err := reporter.Statistics(context.Background(), "missing", 7)
	require.ErrorIs(t, err, service.ErrRoomNotFound)

	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Atrium", "")
	require.NoError(t, err)

	_, err = reporter.Statistics(context.Background(), room.ID, 0)
	require.ErrorIs(t, err, service.ErrInvalidWindow)
	_, err = reporter.Statistics(context.Background(), "", 7)
	require.ErrorIs(t, err, service.ErrInvalidWindow)
}

func TestEvolution_BucketsHistory(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Atrium", "")
	require.NoError(t, err)

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	seedHistory(t, store, room.ID, now)

	reporter := service.NewReporter(store, store).WithClock(func() time.Time { return now })

	buckets, err := reporter.Evolution(context.Background(), room.ID, comfort.GranularityDay)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), buckets[0].Period)
	require.Equal(t, 100.0, buckets[0].Global.Current)
	require.Equal(t, 57.5, buckets[2].Global.Current)

	hourly, err := reporter.Evolution(context.Background(), room.ID, comfort.GranularityHour)
	require.NoError(t, err)
	require.Len(t, hourly, 3)
	for i := 1; i < len(hourly); i++ {
		require.True(t, hourly[i].Period.After(hourly[i-1].Period))
	}
}

func TestEvolution_NoHistory(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	room, err := rooms.Create(context.Background(), "Quiet", "")
	require.NoError(t, err)

	reporter := service.NewReporter(store, store)
	buckets, err := reporter.Evolution(context.Background(), room.ID, comfort.GranularityDay)
	require.NoError(t, err)
	require.Empty(t, buckets)

	_, err = reporter.Evolution(context.Background(), "missing", comfort.GranularityDay)
	require.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestRooms_CRUD(t *testing.T) {
	store := repository.NewMemoryStore()
	rooms := service.NewRooms(store)
	ctx := context.Background()

	room, err := rooms.Create(ctx, "Studio", "recording studio")
	require.NoError(t, err)
	require.NotEmpty(t, room.ID)

	_, err = rooms.Create(ctx, "", "")
	require.ErrorIs(t, err, service.ErrInvalidReading)

	got, err := rooms.Get(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, "Studio", got.Name)

	renamed, err := rooms.Rename(ctx, room.ID, "Studio B", "relocated")
	require.NoError(t, err)
	require.Equal(t, "Studio B", renamed.Name)

	all, err := rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, rooms.Delete(ctx, room.ID))
	_, err = rooms.Get(ctx, room.ID)
	require.ErrorIs(t, err, service.ErrRoomNotFound)
	require.ErrorIs(t, rooms.Delete(ctx, room.ID), service.ErrRoomNotFound)
}
