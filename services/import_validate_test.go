package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func TestValidateRoster(t *testing.T) {
	dob := time.Now().AddDate(-12, 0, 0)

	t.Run("future date of birth is an error", func(t *testing.T) {
		rows := []RosterRow{
			{Line: 2, FirstName: "Katie", LastName: "Ledecky", DateOfBirth: time.Now().AddDate(1, 0, 0), Gender: models.GenderFemale},
		}
		result := ValidateRoster(rows)
		assert.False(t, result.Valid())
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, "date_of_birth", result.Errors()[0].Field)
	})

	t.Run("implausible age warns without blocking", func(t *testing.T) {
		rows := []RosterRow{
			{Line: 2, FirstName: "Dara", LastName: "Torres", DateOfBirth: time.Now().AddDate(-44, 0, 0), Gender: models.GenderFemale},
		}
		result := ValidateRoster(rows)
		assert.True(t, result.Valid())
		assert.Empty(t, result.Errors())
		require.Len(t, result.Warnings(), 1)
	})

	t.Run("missing names are errors", func(t *testing.T) {
		rows := []RosterRow{
			{Line: 2, LastName: "Ledecky", DateOfBirth: dob, Gender: models.GenderFemale},
			{Line: 3, FirstName: "Katie", DateOfBirth: dob, Gender: models.GenderFemale},
		}
		result := ValidateRoster(rows)
		require.Len(t, result.Errors(), 2)
		assert.Equal(t, "first_name", result.Errors()[0].Field)
		assert.Equal(t, "last_name", result.Errors()[1].Field)
	})

	t.Run("case-insensitive duplicate warns once per repeat", func(t *testing.T) {
		rows := []RosterRow{
			{Line: 2, FirstName: "Katie", LastName: "Ledecky", DateOfBirth: dob, Gender: models.GenderFemale},
			{Line: 3, FirstName: "KATIE", LastName: "ledecky", DateOfBirth: dob, Gender: models.GenderFemale},
		}
		result := ValidateRoster(rows)
		assert.True(t, result.Valid())
		warnings := result.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, 3, warnings[0].Row)
	})
}

func TestValidateMeets(t *testing.T) {
	base := MeetRow{
		Line: 2, Name: "Winter Classic", Location: "Aquatic Center", City: "Austin",
		SanctioningBody: "USA Swimming", StartDate: date("2025-12-05"),
		Course: models.CourseSCY, Lanes: 8, MeetType: models.MeetTypeInvitational,
	}

	t.Run("valid row passes", func(t *testing.T) {
		result := ValidateMeets([]MeetRow{base})
		assert.True(t, result.Valid())
		assert.Empty(t, result.Issues)
	})

	t.Run("end date before start date", func(t *testing.T) {
		row := base
		end := date("2025-12-01")
		row.EndDate = &end
		result := ValidateMeets([]MeetRow{row})
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, "end_date", result.Errors()[0].Field)
	})

	t.Run("blank required fields", func(t *testing.T) {
		row := base
		row.Name = ""
		row.SanctioningBody = ""
		result := ValidateMeets([]MeetRow{row})
		assert.Len(t, result.Errors(), 2)
	})

	t.Run("duplicate name and start date warns", func(t *testing.T) {
		dup := base
		dup.Line = 3
		dup.Name = "winter classic"
		result := ValidateMeets([]MeetRow{base, dup})
		assert.True(t, result.Valid())
		require.Len(t, result.Warnings(), 1)
		assert.Equal(t, 3, result.Warnings()[0].Row)
	})
}

func TestValidateTimes(t *testing.T) {
	base := TimeRow{
		Line: 2, SwimmerFirstName: "Katie", SwimmerLastName: "Ledecky",
		Distance: 200, Stroke: models.StrokeFreestyle, Course: models.CourseSCY,
		MeetName: "Winter Classic", Time: "1:41.55", SwimDate: date("2025-12-06"),
		TeamName: "Gator Swim Club", Official: true,
	}

	t.Run("missing swimmer identifier", func(t *testing.T) {
		row := base
		row.SwimmerFirstName = ""
		row.SwimmerLastName = ""
		result := ValidateTimes([]TimeRow{row}, nil, nil)
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, "swimmer", result.Errors()[0].Field)
	})

	t.Run("usa swimming id alone identifies the swimmer", func(t *testing.T) {
		row := base
		row.SwimmerFirstName = ""
		row.SwimmerLastName = ""
		row.USASwimmingID = strPtr("USA123456")
		result := ValidateTimes([]TimeRow{row}, nil, nil)
		assert.True(t, result.Valid())
	})

	t.Run("unparseable time carries the parser message", func(t *testing.T) {
		row := base
		row.Time = "1:75.00"
		result := ValidateTimes([]TimeRow{row}, nil, nil)
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, "time", result.Errors()[0].Field)
		assert.Contains(t, result.Errors()[0].Message, "seconds")
	})

	t.Run("bad splits are tagged splits", func(t *testing.T) {
		row := base
		row.Splits = "50:24.00;100:23.00"
		result := ValidateTimes([]TimeRow{row}, nil, nil)
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, "splits", result.Errors()[0].Field)
	})

	t.Run("roster and meet membership misses warn only", func(t *testing.T) {
		roster := []RosterRow{
			{Line: 2, FirstName: "Caeleb", LastName: "Dressel", DateOfBirth: date("1996-08-16"), Gender: models.GenderMale},
		}
		meets := []MeetRow{
			{Line: 2, Name: "Spring Invite", StartDate: date("2026-03-01")},
		}
		result := ValidateTimes([]TimeRow{base}, roster, meets)
		assert.True(t, result.Valid())
		warnings := result.Warnings()
		require.Len(t, warnings, 2)
		assert.Equal(t, "swimmer", warnings[0].Field)
		assert.Equal(t, "meet_name", warnings[1].Field)
	})

	t.Run("membership match is case-insensitive", func(t *testing.T) {
		roster := []RosterRow{
			{Line: 2, FirstName: "KATIE", LastName: "LEDECKY", DateOfBirth: date("1997-03-17"), Gender: models.GenderFemale},
		}
		meets := []MeetRow{
			{Line: 2, Name: "WINTER CLASSIC", StartDate: date("2025-12-05")},
		}
		result := ValidateTimes([]TimeRow{base}, roster, meets)
		assert.Empty(t, result.Warnings())
	})

	t.Run("blank required fields", func(t *testing.T) {
		row := base
		row.MeetName = ""
		row.TeamName = ""
		row.Time = ""
		result := ValidateTimes([]TimeRow{row}, nil, nil)
		assert.Len(t, result.Errors(), 3)
	})
}
