package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamType classifies a swimming organization, matching the ENUM in the database.
type TeamType string

const (
	TeamTypeClub       TeamType = "club"
	TeamTypeHighSchool TeamType = "high_school"
	TeamTypeCollege    TeamType = "college"
	TeamTypeNational   TeamType = "national"
	TeamTypeOlympic    TeamType = "olympic"
)

type Team struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	TeamType        TeamType  `json:"team_type" db:"team_type"`
	SanctioningBody string    `json:"sanctioning_body" db:"sanctioning_body"`

	// Type-conditional attributes: LSC for clubs, division for college
	// teams, state for high school teams, country for national/olympic.
	LSC      *string `json:"lsc,omitempty" db:"lsc"`
	Division *string `json:"division,omitempty" db:"division"`
	State    *string `json:"state,omitempty" db:"state"`
	Country  *string `json:"country,omitempty" db:"country"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SwimmerTeam links a swimmer to a team over a date range. A nil EndDate
// means the membership is current; concurrent memberships (club plus high
// school) are allowed.
type SwimmerTeam struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	SwimmerID uuid.UUID  `json:"swimmer_id" db:"swimmer_id"`
	TeamID    uuid.UUID  `json:"team_id" db:"team_id"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
}

func (st SwimmerTeam) IsCurrent() bool {
	return st.EndDate == nil || !st.EndDate.Before(time.Now())
}
