package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/silverbeer/swimcuttimes/parser"
)

const (
	minPlausibleAge = 5
	maxPlausibleAge = 25
)

// ValidateRoster checks roster rows: required names, a plausible date of
// birth, and in-batch duplicates by case-insensitive (first, last, DOB).
// Duplicates and out-of-range ages warn without blocking the batch.
func ValidateRoster(rows []RosterRow) *ValidationResult {
	result := NewValidationResult()
	now := time.Now()
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.FirstName == "" {
			result.AddError(row.Line, "first_name", "first name is required")
		}
		if row.LastName == "" {
			result.AddError(row.Line, "last_name", "last name is required")
		}

		if row.DateOfBirth.After(now) {
			result.AddError(row.Line, "date_of_birth", "date of birth is in the future")
		} else {
			age := ageOn(row.DateOfBirth, now)
			if age < minPlausibleAge || age > maxPlausibleAge {
				result.AddWarning(row.Line, "date_of_birth",
					fmt.Sprintf("age %d is outside the expected range %d-%d", age, minPlausibleAge, maxPlausibleAge))
			}
		}

		key := rosterIdentityKey(row.FirstName, row.LastName, row.DateOfBirth)
		if seen[key] {
			result.AddWarning(row.Line, "",
				fmt.Sprintf("duplicate swimmer %s %s (%s) within batch", row.FirstName, row.LastName, row.DateOfBirth.Format("2006-01-02")))
		}
		seen[key] = true
	}
	return result
}

// ValidateMeets checks meet rows: required fields, a coherent date range,
// and in-batch duplicates by (lowercased name, start date).
func ValidateMeets(rows []MeetRow) *ValidationResult {
	result := NewValidationResult()
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.Name == "" {
			result.AddError(row.Line, "name", "meet name is required")
		}
		if row.Location == "" {
			result.AddError(row.Line, "location", "location is required")
		}
		if row.City == "" {
			result.AddError(row.Line, "city", "city is required")
		}
		if row.SanctioningBody == "" {
			result.AddError(row.Line, "sanctioning_body", "sanctioning body is required")
		}

		if row.EndDate != nil && row.EndDate.Before(row.StartDate) {
			result.AddError(row.Line, "end_date", "end date is before start date")
		}

		key := strings.ToLower(row.Name) + "|" + row.StartDate.Format("2006-01-02")
		if seen[key] {
			result.AddWarning(row.Line, "",
				fmt.Sprintf("duplicate meet %q on %s within batch", row.Name, row.StartDate.Format("2006-01-02")))
		}
		seen[key] = true
	}
	return result
}

// ValidateTimes checks time rows. When roster or meet batches are
// supplied (either may be nil), membership misses produce warnings so a
// times file can be sanity-checked against its companions before import.
func ValidateTimes(rows []TimeRow, roster []RosterRow, meets []MeetRow) *ValidationResult {
	result := NewValidationResult()

	rosterIDs := make(map[string]bool)
	rosterNames := make(map[string]bool)
	for _, r := range roster {
		if r.USASwimmingID != nil {
			rosterIDs[*r.USASwimmingID] = true
		}
		rosterNames[nameKey(r.FirstName, r.LastName)] = true
	}
	meetNames := make(map[string]bool, len(meets))
	for _, m := range meets {
		meetNames[strings.ToLower(m.Name)] = true
	}

	for _, row := range rows {
		hasID := row.USASwimmingID != nil
		hasName := row.SwimmerFirstName != "" && row.SwimmerLastName != ""
		if !hasID && !hasName {
			result.AddError(row.Line, "swimmer", "row needs a USA Swimming ID or both swimmer first and last name")
		}

		if row.MeetName == "" {
			result.AddError(row.Line, "meet_name", "meet name is required")
		}
		if row.TeamName == "" {
			result.AddError(row.Line, "team_name", "team name is required")
		}

		if row.Time == "" {
			result.AddError(row.Line, "time", "time is required")
		} else {
			finalTime, err := parser.ParseTimeString(row.Time)
			if err != nil {
				result.AddError(row.Line, "time", err.Error())
			} else if row.Splits != "" {
				if _, err := parser.ParseSplitsString(row.Splits, row.Distance, finalTime); err != nil {
					result.AddError(row.Line, "splits", err.Error())
				}
			}
		}

		if roster != nil && (hasID || hasName) {
			inRoster := (hasID && rosterIDs[*row.USASwimmingID]) ||
				(hasName && rosterNames[nameKey(row.SwimmerFirstName, row.SwimmerLastName)])
			if !inRoster {
				result.AddWarning(row.Line, "swimmer", "swimmer not found in the roster batch")
			}
		}
		if meets != nil && row.MeetName != "" && !meetNames[strings.ToLower(row.MeetName)] {
			result.AddWarning(row.Line, "meet_name", fmt.Sprintf("meet %q not found in the meets batch", row.MeetName))
		}
	}
	return result
}

func nameKey(first, last string) string {
	return strings.ToLower(first) + ":" + strings.ToLower(last)
}

func rosterIdentityKey(first, last string, dob time.Time) string {
	return nameKey(first, last) + ":" + dob.Format("2006-01-02")
}

// ageOn mirrors models.Swimmer.AgeOn for raw rows that have no Swimmer yet.
func ageOn(dob, date time.Time) int {
	age := date.Year() - dob.Year()
	if date.Month() < dob.Month() || (date.Month() == dob.Month() && date.Day() < dob.Day()) {
		age--
	}
	return age
}
