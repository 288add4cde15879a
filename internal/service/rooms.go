package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvelasco/aura/internal/domain"
	"github.com/mvelasco/aura/internal/repository"
)

// Rooms is the thin administrative layer over room records.
type Rooms struct {
	repo repository.RoomsRepository
	now  func() time.Time
}

// NewRooms builds the room admin service.
func NewRooms(repo repository.RoomsRepository) *Rooms {
	return &Rooms{repo: repo, now: time.Now}
}

// Create registers a new monitored room.
func (r *Rooms) Create(ctx context.Context, name, description string) (*domain.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidReading)
	}
	room := &domain.Room{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   r.now().UTC(),
	}
	if err := r.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

// Get returns one room.
func (r *Rooms) Get(ctx context.Context, id string) (*domain.Room, error) {
	room, err := r.repo.GetRoom(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		return nil, err
	}
	return room, nil
}

// List returns all rooms ordered by name.
func (r *Rooms) List(ctx context.Context) ([]domain.Room, error) {
	return r.repo.ListRooms(ctx)
}

// Rename updates a room's name and description.
func (r *Rooms) Rename(ctx context.Context, id, name, description string) (*domain.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidReading)
	}
	room, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = name
	room.Description = description
	if err := r.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	return room, nil
}

// Delete removes a room and, by cascade, its measurement history.
func (r *Rooms) Delete(ctx context.Context, id string) error {
	if err := r.repo.DeleteRoom(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		return err
	}
	return nil
}
