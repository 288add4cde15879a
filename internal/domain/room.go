package domain

import "time"

// Room is a monitored room. Rooms are created by an administrator and are
// long-lived; measurements reference them by id.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
