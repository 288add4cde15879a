package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/domain"
	"github.com/mvelasco/aura/internal/repository"
)

// Summary aggregates a room's comfort history over a trailing window. Score
// aggregates are nil when the window holds no records.
type Summary struct {
	PeriodDays           int                   `json:"period_days"`
	AverageScore         *float64              `json:"average_score"`
	MinScore             *float64              `json:"min_score"`
	MaxScore             *float64              `json:"max_score"`
	TotalMeasurements    int                   `json:"total_measurements"`
	StatusDistribution   map[domain.Status]int `json:"status_distribution"`
	DiscomfortPercentage float64               `json:"discomfort_percentage"`
	AlertCount           int                   `json:"alert_count"`
}

// Reporter serves read-only aggregate queries over persisted comfort history.
type Reporter struct {
	rooms    repository.RoomsRepository
	readings repository.ReadingsRepository
	now      func() time.Time
}

// NewReporter builds a reporter over the given repositories.
func NewReporter(rooms repository.RoomsRepository, readings repository.ReadingsRepository) *Reporter {
	return &Reporter{rooms: rooms, readings: readings, now: time.Now}
}

// WithClock overrides the reporter clock. Tests only.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

func (r *Reporter) roomExists(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("%w: room_id is required", ErrInvalidWindow)
	}
	if _, err := r.rooms.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
		}
		return fmt.Errorf("look up room: %w", err)
	}
	return nil
}

// Statistics computes the comfort summary for the trailing window of
// windowDays days. An empty window yields zero counts and nil score
// aggregates, not an error.
func (r *Reporter) Statistics(ctx context.Context, roomID string, windowDays int) (*Summary, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidWindow)
	}
	if err := r.roomExists(ctx, roomID); err != nil {
		return nil, err
	}

	to := r.now().UTC()
	from := to.AddDate(0, 0, -windowDays)

	indices, err := r.readings.IndicesInWindow(ctx, roomID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load comfort history: %w", err)
	}
	alertCount, err := r.readings.CountAlerts(ctx, roomID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}

	summary := &Summary{
		PeriodDays:         windowDays,
		TotalMeasurements:  len(indices),
		StatusDistribution: make(map[domain.Status]int),
		AlertCount:         alertCount,
	}
	if len(indices) == 0 {
		return summary, nil
	}

	sum := 0.0
	min := indices[0].GlobalScore
	max := indices[0].GlobalScore
	discomfort := 0
	for _, ix := range indices {
		sum += ix.GlobalScore
		if ix.GlobalScore < min {
			min = ix.GlobalScore
		}
		if ix.GlobalScore > max {
			max = ix.GlobalScore
		}
		summary.StatusDistribution[ix.Status]++
		if ix.Status != domain.StatusComfort {
			discomfort++
		}
	}
	avg := sum / float64(len(indices))
	summary.AverageScore = &avg
	summary.MinScore = &min
	summary.MaxScore = &max
	summary.DiscomfortPercentage = float64(discomfort) / float64(len(indices)) * 100

	return summary, nil
}

// Evolution buckets the room's full comfort history, from its earliest
// record to now, into hour or day intervals. A room with no history yields an
// empty slice.
func (r *Reporter) Evolution(ctx context.Context, roomID string, granularity comfort.Granularity) ([]comfort.Bucket, error) {
	if err := r.roomExists(ctx, roomID); err != nil {
		return nil, err
	}

	earliest, err := r.readings.EarliestIndexTimestamp(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find earliest record: %w", err)
	}
	if earliest == nil {
		return []comfort.Bucket{}, nil
	}

	history, err := r.readings.IndicesInWindow(ctx, roomID, *earliest, r.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("load comfort history: %w", err)
	}
	return comfort.Aggregate(history, granularity), nil
}
