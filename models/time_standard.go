package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeStandard is a published qualifying threshold (cut time) for an event,
// gender, and optional age group. Read-mostly reference data.
type TimeStandard struct {
	ID      uuid.UUID `json:"id" db:"id"`
	EventID uuid.UUID `json:"event_id" db:"event_id"`
	Gender  Gender    `json:"gender" db:"gender"`

	AgeGroup        *string `json:"age_group,omitempty" db:"age_group"` // nil means Open
	StandardName    string  `json:"standard_name" db:"standard_name"`   // e.g. "Silver Championship"
	CutLevel        string  `json:"cut_level" db:"cut_level"`           // e.g. "Cut Time", "Cut Off Time"
	SanctioningBody string  `json:"sanctioning_body" db:"sanctioning_body"`

	TimeCentiseconds int `json:"time_centiseconds" db:"time_centiseconds"`
	EffectiveYear    int `json:"effective_year" db:"effective_year"`

	QualifyingStart *time.Time `json:"qualifying_start,omitempty" db:"qualifying_start"`
	QualifyingEnd   *time.Time `json:"qualifying_end,omitempty" db:"qualifying_end"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Event *Event `json:"event,omitempty" db:"-"`
}

// InQualifyingWindow reports whether a swim on the given date falls inside
// the standard's qualifying period. Standards without a window accept any date.
func (ts TimeStandard) InQualifyingWindow(date time.Time) bool {
	if ts.QualifyingStart != nil && date.Before(*ts.QualifyingStart) {
		return false
	}
	if ts.QualifyingEnd != nil && date.After(*ts.QualifyingEnd) {
		return false
	}
	return true
}
