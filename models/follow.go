package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a fan relationship: a user following a swimmer's results.
type Follow struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	SwimmerID uuid.UUID `json:"swimmer_id" db:"swimmer_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
