package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Round is the round of competition, matching the ENUM in the database.
type Round string

const (
	RoundPrelims     Round = "prelims"
	RoundFinals      Round = "finals"
	RoundConsolation Round = "consolation"
	RoundBonusFinals Round = "bonus_finals"
	RoundTimeTrial   Round = "time_trial"
)

// Split is a cumulative intermediate time recorded at a sub-distance of a
// race. It belongs to exactly one SwimTime.
type Split struct {
	ID               uuid.UUID `json:"id" db:"id"`
	SwimTimeID       uuid.UUID `json:"swim_time_id" db:"swim_time_id"`
	Distance         int       `json:"distance" db:"distance"`
	TimeCentiseconds int       `json:"time_centiseconds" db:"time_centiseconds"`
}

// SwimTime is a swimmer's recorded time for an event at a meet. Times are
// stored in centiseconds; every display string derives from that integer.
type SwimTime struct {
	ID uuid.UUID `json:"id" db:"id"`

	SwimmerID uuid.UUID `json:"swimmer_id" db:"swimmer_id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	MeetID    uuid.UUID `json:"meet_id" db:"meet_id"`
	TeamID    uuid.UUID `json:"team_id" db:"team_id"` // team represented at time of swim

	TimeCentiseconds int       `json:"time_centiseconds" db:"time_centiseconds"`
	SwimDate         time.Time `json:"swim_date" db:"swim_date"`

	Round *Round `json:"round,omitempty" db:"round"`
	Lane  *int   `json:"lane,omitempty" db:"lane"`
	Place *int   `json:"place,omitempty" db:"place"`

	Official bool    `json:"official" db:"official"`
	DQ       bool    `json:"dq" db:"dq"`
	DQReason *string `json:"dq_reason,omitempty" db:"dq_reason"`

	// SuitID records which racing suit was worn, when known.
	SuitID *uuid.UUID `json:"suit_id,omitempty" db:"suit_id"`

	Splits []Split `json:"splits,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsValid reports whether the time counts for standards and rankings.
func (t SwimTime) IsValid() bool {
	return t.Official && !t.DQ
}

// MeetsStandard reports whether this swim meets or beats a cut time.
func (t SwimTime) MeetsStandard(standardCentiseconds int) bool {
	return t.IsValid() && t.TimeCentiseconds <= standardCentiseconds
}

// CompareToStandard returns the difference to a standard in seconds;
// negative means faster than the standard.
func (t SwimTime) CompareToStandard(standardCentiseconds int) float64 {
	return float64(t.TimeCentiseconds-standardCentiseconds) / 100
}

// SplitAt returns the split recorded at the given cumulative distance.
func (t SwimTime) SplitAt(distance int) (Split, bool) {
	for _, s := range t.Splits {
		if s.Distance == distance {
			return s, true
		}
	}
	return Split{}, false
}

// IntervalAt returns the segment time ending at the given cumulative
// distance (split at distance minus the previous split).
func (t SwimTime) IntervalAt(distance int) (int, bool) {
	sorted := make([]Split, len(t.Splits))
	copy(sorted, t.Splits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Distance < sorted[j].Distance })

	prev := 0
	for _, s := range sorted {
		if s.Distance == distance {
			return s.TimeCentiseconds - prev, true
		}
		prev = s.TimeCentiseconds
	}
	return 0, false
}
