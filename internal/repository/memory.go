package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mvelasco/aura/internal/domain"
)

// MemoryStore is an in-memory repository with the same transactional
// semantics as the Postgres store. It backs tests and no-database
// deployments.
type MemoryStore struct {
	mu           sync.RWMutex
	rooms        map[string]domain.Room
	measurements []domain.Measurement
	indices      []domain.ComfortIndex
	alerts       []domain.Alert
	nextID       int64
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]domain.Room)}
}

func (s *MemoryStore) CreateRoom(_ context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateRoom(_ context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(s.rooms, id)

	// Cascade like the Postgres foreign keys.
	kept := s.measurements[:0]
	removed := make(map[int64]bool)
	for _, m := range s.measurements {
		if m.RoomID == id {
			removed[m.ID] = true
			continue
		}
		kept = append(kept, m)
	}
	s.measurements = kept

	indices := s.indices[:0]
	for _, ix := range s.indices {
		if !removed[ix.MeasurementID] {
			indices = append(indices, ix)
		}
	}
	s.indices = indices

	alerts := s.alerts[:0]
	for _, a := range s.alerts {
		if !removed[a.MeasurementID] {
			alerts = append(alerts, a)
		}
	}
	s.alerts = alerts
	return nil
}

// IngestReading applies all writes under one lock so readers never observe a
// partial set.
func (s *MemoryStore) IngestReading(_ context.Context, m *domain.Measurement, ix *domain.ComfortIndex, alerts []*domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[m.RoomID]; !ok {
		return ErrNotFound
	}

	s.nextID++
	m.ID = s.nextID
	s.measurements = append(s.measurements, *m)

	s.nextID++
	ix.ID = s.nextID
	ix.MeasurementID = m.ID
	s.indices = append(s.indices, *ix)

	for _, a := range alerts {
		s.nextID++
		a.ID = s.nextID
		a.MeasurementID = m.ID
		s.alerts = append(s.alerts, *a)
	}
	return nil
}

func inWindow(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}

func (s *MemoryStore) ListMeasurements(_ context.Context, f MeasurementFilters) ([]domain.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Measurement, 0)
	for _, m := range s.measurements {
		if f.RoomID != "" && m.RoomID != f.RoomID {
			continue
		}
		if !inWindow(m.Timestamp, f.From, f.To) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) roomOf(measurementID int64) string {
	for _, m := range s.measurements {
		if m.ID == measurementID {
			return m.RoomID
		}
	}
	return ""
}

func (s *MemoryStore) ListIndices(_ context.Context, f IndexFilters) ([]domain.ComfortIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ComfortIndex, 0)
	for _, ix := range s.indices {
		if f.RoomID != "" && s.roomOf(ix.MeasurementID) != f.RoomID {
			continue
		}
		if !inWindow(ix.Timestamp, f.From, f.To) {
			continue
		}
		out = append(out, ix)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) ListAlerts(_ context.Context, f AlertFilters) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Alert, 0)
	for _, a := range s.alerts {
		if f.RoomID != "" && s.roomOf(a.MeasurementID) != f.RoomID {
			continue
		}
		if f.Parameter != "" && string(a.Parameter) != f.Parameter {
			continue
		}
		if f.Severity != "" && string(a.Severity) != f.Severity {
			continue
		}
		if !inWindow(a.Timestamp, f.From, f.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) IndicesInWindow(_ context.Context, roomID string, from, to time.Time) ([]domain.ComfortIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ComfortIndex, 0)
	for _, ix := range s.indices {
		if s.roomOf(ix.MeasurementID) != roomID {
			continue
		}
		if ix.Timestamp.Before(from) || ix.Timestamp.After(to) {
			continue
		}
		out = append(out, ix)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) EarliestIndexTimestamp(_ context.Context, roomID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var earliest *time.Time
	for _, ix := range s.indices {
		if s.roomOf(ix.MeasurementID) != roomID {
			continue
		}
		ts := ix.Timestamp
		if earliest == nil || ts.Before(*earliest) {
			earliest = &ts
		}
	}
	return earliest, nil
}

func (s *MemoryStore) CountAlerts(_ context.Context, roomID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.alerts {
		if s.roomOf(a.MeasurementID) != roomID {
			continue
		}
		if a.Timestamp.Before(from) || a.Timestamp.After(to) {
			continue
		}
		n++
	}
	return n, nil
}
