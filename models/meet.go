package models

import (
	"time"

	"github.com/google/uuid"
)

// MeetType classifies a swim meet, matching the ENUM in the database.
type MeetType string

const (
	MeetTypeChampionship MeetType = "championship"
	MeetTypeInvitational MeetType = "invitational"
	MeetTypeDual         MeetType = "dual"
	MeetTypeTimeTrial    MeetType = "time_trial"
)

type Meet struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Location string    `json:"location" db:"location"`
	City     string    `json:"city" db:"city"`
	State    *string   `json:"state,omitempty" db:"state"`
	Country  string    `json:"country" db:"country"`

	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"` // nil for single-day meets

	Course Course `json:"course" db:"course"`
	Lanes  int    `json:"lanes" db:"lanes"` // 6, 8, or 10
	Indoor bool   `json:"indoor" db:"indoor"`

	SanctioningBody string   `json:"sanctioning_body" db:"sanctioning_body"`
	MeetType        MeetType `json:"meet_type" db:"meet_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidLanes reports whether n is an allowed lane count for a pool.
func ValidLanes(n int) bool {
	return n == 6 || n == 8 || n == 10
}

// MeetTeam marks a team as participating in a meet, optionally as host.
type MeetTeam struct {
	ID     uuid.UUID `json:"id" db:"id"`
	MeetID uuid.UUID `json:"meet_id" db:"meet_id"`
	TeamID uuid.UUID `json:"team_id" db:"team_id"`
	IsHost bool      `json:"is_host" db:"is_host"`
}
