package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mvelasco/aura/internal/domain"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// MeasurementFilters narrows measurement list queries.
type MeasurementFilters struct {
	RoomID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// IndexFilters narrows comfort-index list queries.
type IndexFilters struct {
	RoomID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// AlertFilters narrows alert list queries.
type AlertFilters struct {
	RoomID    string
	Parameter string
	Severity  string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// RoomsRepository manages room records.
type RoomsRepository interface {
	CreateRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, room *domain.Room) error
	DeleteRoom(ctx context.Context, id string) error
}

// ReadingsRepository persists and queries ingested readings and their derived
// records.
type ReadingsRepository interface {
	// IngestReading writes the measurement, its comfort index and the alert
	// set as one atomic unit: a concurrent reader never observes the
	// measurement without its index or with a partial alert set. IDs are
	// assigned to the passed records on success.
	IngestReading(ctx context.Context, m *domain.Measurement, ix *domain.ComfortIndex, alerts []*domain.Alert) error

	ListMeasurements(ctx context.Context, f MeasurementFilters) ([]domain.Measurement, error)
	ListIndices(ctx context.Context, f IndexFilters) ([]domain.ComfortIndex, error)
	ListAlerts(ctx context.Context, f AlertFilters) ([]domain.Alert, error)

	// IndicesInWindow returns a room's comfort indices with from <= ts <= to,
	// in ascending timestamp order.
	IndicesInWindow(ctx context.Context, roomID string, from, to time.Time) ([]domain.ComfortIndex, error)

	// EarliestIndexTimestamp returns the timestamp of the room's first
	// comfort index, or nil when the room has no history.
	EarliestIndexTimestamp(ctx context.Context, roomID string) (*time.Time, error)

	CountAlerts(ctx context.Context, roomID string, from, to time.Time) (int, error)
}
