package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/parser"
)

// Row types carry one CSV line each, normalized at read time. Line is the
// 1-based source line number; the header occupies line 1, so data starts
// at 2.

type RosterRow struct {
	Line          int
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Gender        models.Gender
	USASwimmingID *string
}

type MeetRow struct {
	Line            int
	Name            string
	Location        string
	City            string
	State           *string
	Country         string
	StartDate       time.Time
	EndDate         *time.Time
	Course          models.Course
	Lanes           int
	Indoor          bool
	SanctioningBody string
	MeetType        models.MeetType
}

type TimeRow struct {
	Line             int
	SwimmerFirstName string
	SwimmerLastName  string
	USASwimmingID    *string
	Distance         int
	Stroke           models.Stroke
	Course           models.Course
	MeetName         string
	Time             string // raw, parsed during validation and import
	Splits           string // raw, same
	SwimDate         time.Time
	TeamName         string
	Round            *models.Round
	Lane             *int
	Place            *int
	Official         bool
	DQ               bool
	DQReason         *string
}

var genderAliases = map[string]models.Gender{
	"m":      models.GenderMale,
	"male":   models.GenderMale,
	"boy":    models.GenderMale,
	"f":      models.GenderFemale,
	"female": models.GenderFemale,
	"girl":   models.GenderFemale,
}

var meetTypeAliases = map[string]models.MeetType{
	"championship": models.MeetTypeChampionship,
	"invitational": models.MeetTypeInvitational,
	"invite":       models.MeetTypeInvitational,
	"dual":         models.MeetTypeDual,
	"time_trial":   models.MeetTypeTimeTrial,
	"time trial":   models.MeetTypeTimeTrial,
}

var roundAliases = map[string]models.Round{
	"prelims":      models.RoundPrelims,
	"prelim":       models.RoundPrelims,
	"finals":       models.RoundFinals,
	"final":        models.RoundFinals,
	"consolation":  models.RoundConsolation,
	"bonus_finals": models.RoundBonusFinals,
	"bonus finals": models.RoundBonusFinals,
	"time_trial":   models.RoundTimeTrial,
	"time trial":   models.RoundTimeTrial,
}

// csvRecord maps header names to one data line's cells. Missing or extra
// columns never panic; absent cells read as empty strings so the
// validators can report them as blanks.
type csvRecord struct {
	columns map[string]int
	cells   []string
}

func (r csvRecord) get(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// readCSV consumes the header line plus all data lines. The returned
// records are stamped with 1-based line numbers, data starting at 2.
// A UTF-8 BOM on the header is tolerated.
func readCSV(r io.Reader) ([]csvRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []csvRecord
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		records = append(records, csvRecord{columns: columns, cells: cells})
	}
	return records, nil
}

// parseBool treats true/1/yes (case-insensitive) as truthy and an empty
// cell as the column default; anything else is false.
func parseBool(s string, empty bool) bool {
	if s == "" {
		return empty
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ReadRosterCSV parses roster rows. Field-level normalization failures
// become error issues on the returned result and the offending row is
// dropped; only unreadable CSV returns a non-nil error.
func ReadRosterCSV(r io.Reader) ([]RosterRow, *ValidationResult, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}

	result := NewValidationResult()
	rows := make([]RosterRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		row := RosterRow{
			Line:          line,
			FirstName:     rec.get("first_name"),
			LastName:      rec.get("last_name"),
			USASwimmingID: optionalString(rec.get("usa_swimming_id")),
		}
		ok := true

		if dob := rec.get("date_of_birth"); dob != "" {
			row.DateOfBirth, err = parseDate(dob)
			if err != nil {
				result.AddError(line, "date_of_birth", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", dob))
				ok = false
			}
		} else {
			result.AddError(line, "date_of_birth", "date of birth is required")
			ok = false
		}

		gender, found := genderAliases[strings.ToLower(rec.get("gender"))]
		if !found {
			result.AddError(line, "gender", fmt.Sprintf("unrecognized gender %q", rec.get("gender")))
			ok = false
		}
		row.Gender = gender

		if ok {
			rows = append(rows, row)
		}
	}
	return rows, result, nil
}

// ReadMeetsCSV parses meet rows. Country defaults to USA, lanes to 8,
// indoor to true.
func ReadMeetsCSV(r io.Reader) ([]MeetRow, *ValidationResult, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}

	result := NewValidationResult()
	rows := make([]MeetRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		row := MeetRow{
			Line:            line,
			Name:            rec.get("name"),
			Location:        rec.get("location"),
			City:            rec.get("city"),
			State:           optionalString(rec.get("state")),
			Country:         rec.get("country"),
			SanctioningBody: rec.get("sanctioning_body"),
			Lanes:           8,
			Indoor:          parseBool(rec.get("indoor"), true),
		}
		if row.Country == "" {
			row.Country = "USA"
		}
		ok := true

		if start := rec.get("start_date"); start != "" {
			row.StartDate, err = parseDate(start)
			if err != nil {
				result.AddError(line, "start_date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", start))
				ok = false
			}
		} else {
			result.AddError(line, "start_date", "start date is required")
			ok = false
		}

		if end := rec.get("end_date"); end != "" {
			endDate, err := parseDate(end)
			if err != nil {
				result.AddError(line, "end_date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", end))
				ok = false
			} else {
				row.EndDate = &endDate
			}
		}

		row.Course, err = parser.ParseCourse(rec.get("course"))
		if err != nil {
			result.AddError(line, "course", fmt.Sprintf("unrecognized course %q", rec.get("course")))
			ok = false
		}

		if lanes := rec.get("lanes"); lanes != "" {
			n, err := strconv.Atoi(lanes)
			if err != nil || !models.ValidLanes(n) {
				result.AddError(line, "lanes", fmt.Sprintf("lanes must be 6, 8, or 10, got %q", lanes))
				ok = false
			} else {
				row.Lanes = n
			}
		}

		meetType, found := meetTypeAliases[strings.ToLower(rec.get("meet_type"))]
		if !found {
			result.AddError(line, "meet_type", fmt.Sprintf("unrecognized meet type %q", rec.get("meet_type")))
			ok = false
		}
		row.MeetType = meetType

		if ok {
			rows = append(rows, row)
		}
	}
	return rows, result, nil
}

// ReadTimesCSV parses time rows. The time and splits cells stay raw here;
// the validation engine and import engine run them through the parsers.
func ReadTimesCSV(r io.Reader) ([]TimeRow, *ValidationResult, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}

	result := NewValidationResult()
	rows := make([]TimeRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		row := TimeRow{
			Line:             line,
			SwimmerFirstName: rec.get("swimmer_first_name"),
			SwimmerLastName:  rec.get("swimmer_last_name"),
			USASwimmingID:    optionalString(rec.get("usa_swimming_id")),
			MeetName:         rec.get("meet_name"),
			Time:             rec.get("time"),
			Splits:           rec.get("splits"),
			TeamName:         rec.get("team_name"),
			DQReason:         optionalString(rec.get("dq_reason")),
			Official:         parseBool(rec.get("official"), true),
			DQ:               parseBool(rec.get("dq"), false),
		}
		ok := true

		if dist := rec.get("distance"); dist != "" {
			n, err := strconv.Atoi(dist)
			if err != nil || !models.ValidDistances[n] {
				result.AddError(line, "distance", fmt.Sprintf("invalid distance %q", dist))
				ok = false
			} else {
				row.Distance = n
			}
		} else {
			result.AddError(line, "distance", "distance is required")
			ok = false
		}

		row.Stroke, err = parser.ParseStroke(rec.get("stroke"))
		if err != nil {
			result.AddError(line, "stroke", fmt.Sprintf("unrecognized stroke %q", rec.get("stroke")))
			ok = false
		}

		row.Course, err = parser.ParseCourse(rec.get("course"))
		if err != nil {
			result.AddError(line, "course", fmt.Sprintf("unrecognized course %q", rec.get("course")))
			ok = false
		}

		if date := rec.get("swim_date"); date != "" {
			row.SwimDate, err = parseDate(date)
			if err != nil {
				result.AddError(line, "swim_date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
				ok = false
			}
		} else {
			result.AddError(line, "swim_date", "swim date is required")
			ok = false
		}

		if roundStr := rec.get("round"); roundStr != "" {
			round, found := roundAliases[strings.ToLower(roundStr)]
			if !found {
				result.AddError(line, "round", fmt.Sprintf("unrecognized round %q", roundStr))
				ok = false
			} else {
				row.Round = &round
			}
		}

		if laneStr := rec.get("lane"); laneStr != "" {
			n, err := strconv.Atoi(laneStr)
			if err != nil || n < 1 || n > 10 {
				result.AddError(line, "lane", fmt.Sprintf("lane must be between 1 and 10, got %q", laneStr))
				ok = false
			} else {
				row.Lane = &n
			}
		}

		if placeStr := rec.get("place"); placeStr != "" {
			n, err := strconv.Atoi(placeStr)
			if err != nil || n < 1 {
				result.AddError(line, "place", fmt.Sprintf("place must be a positive integer, got %q", placeStr))
				ok = false
			} else {
				row.Place = &n
			}
		}

		if ok {
			rows = append(rows, row)
		}
	}
	return rows, result, nil
}
