package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Gender is the competition gender, matching the ENUM in the database.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type Swimmer struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	DateOfBirth   time.Time  `json:"date_of_birth" db:"date_of_birth"`
	Gender        Gender     `json:"gender" db:"gender"`
	USASwimmingID *string    `json:"usa_swimming_id,omitempty" db:"usa_swimming_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

func (s Swimmer) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

// AgeOn returns the swimmer's age on the given date.
func (s Swimmer) AgeOn(date time.Time) int {
	age := date.Year() - s.DateOfBirth.Year()
	if date.Month() < s.DateOfBirth.Month() ||
		(date.Month() == s.DateOfBirth.Month() && date.Day() < s.DateOfBirth.Day()) {
		age--
	}
	return age
}

// Age returns the swimmer's current age.
func (s Swimmer) Age() int {
	return s.AgeOn(time.Now())
}

// AgeGroupOn returns the competition age group on the given date:
// 10U, 11-12, 13-14, 15-16, 17-18, Open.
func (s Swimmer) AgeGroupOn(date time.Time) string {
	age := s.AgeOn(date)
	switch {
	case age <= 10:
		return "10U"
	case age <= 12:
		return "11-12"
	case age <= 14:
		return "13-14"
	case age <= 16:
		return "15-16"
	case age <= 18:
		return "17-18"
	default:
		return "Open"
	}
}
