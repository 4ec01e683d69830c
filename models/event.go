package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Stroke represents a swimming stroke, matching the ENUM in the database.
type Stroke string

const (
	StrokeFreestyle    Stroke = "freestyle"
	StrokeBackstroke   Stroke = "backstroke"
	StrokeBreaststroke Stroke = "breaststroke"
	StrokeButterfly    Stroke = "butterfly"
	StrokeIM           Stroke = "im"
)

// Course represents a pool course type, matching the ENUM in the database.
type Course string

const (
	CourseSCY Course = "scy" // short course yards (25 yd)
	CourseSCM Course = "scm" // short course meters (25 m)
	CourseLCM Course = "lcm" // long course meters (50 m)
)

// ValidDistances are the standard competitive distances.
var ValidDistances = map[int]bool{
	25: true, 50: true, 100: true, 200: true, 400: true,
	500: true, 800: true, 1000: true, 1500: true, 1650: true,
}

// Distance equivalents between yards and meters courses. These apply to
// freestyle only: the 500/1000/1650 free exist in SCY, their 400/800/1500
// counterparts in SCM/LCM. Non-freestyle events keep the same distance
// across courses (e.g. 400 IM exists in all three).
var (
	scyToMetersDistance = map[int]int{500: 400, 1000: 800, 1650: 1500}
	metersToSCYDistance = map[int]int{400: 500, 800: 1000, 1500: 1650}
)

type Event struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Stroke   Stroke    `json:"stroke" db:"stroke"`
	Distance int       `json:"distance" db:"distance"`
	Course   Course    `json:"course" db:"course"`
}

// Validate checks the distance/course invariant. Identity of an event is the
// (stroke, distance, course) triple; the database enforces uniqueness on it.
func (e Event) Validate() error {
	if !ValidDistances[e.Distance] {
		return fmt.Errorf("invalid event distance: %d", e.Distance)
	}
	if e.Stroke != StrokeFreestyle {
		return nil
	}
	if e.Course == CourseSCY {
		if equiv, ok := metersToSCYDistance[e.Distance]; ok {
			return fmt.Errorf("%d is a meters distance, not valid for SCY freestyle (SCY equivalent: %d)", e.Distance, equiv)
		}
	} else {
		if equiv, ok := scyToMetersDistance[e.Distance]; ok {
			return fmt.Errorf("%d is a yards distance, not valid for %s freestyle (meters equivalent: %d)", e.Distance, e.Course, equiv)
		}
	}
	return nil
}

// Equivalent returns the matching event in another course. Freestyle distance
// events map across the yards/meters boundary (500y<->400m etc.); everything
// else keeps its distance.
func (e Event) Equivalent(target Course) Event {
	if e.Course == target {
		return e
	}
	distance := e.Distance
	if e.Stroke == StrokeFreestyle {
		if e.Course == CourseSCY {
			if d, ok := scyToMetersDistance[e.Distance]; ok {
				distance = d
			}
		} else if target == CourseSCY {
			if d, ok := metersToSCYDistance[e.Distance]; ok {
				distance = d
			}
		}
	}
	return Event{Stroke: e.Stroke, Distance: distance, Course: target}
}

var strokeShortNames = map[Stroke]string{
	StrokeFreestyle:    "Free",
	StrokeBackstroke:   "Back",
	StrokeBreaststroke: "Breast",
	StrokeButterfly:    "Fly",
	StrokeIM:           "IM",
}

// ShortName returns a display name like "100 Free".
func (e Event) ShortName() string {
	return fmt.Sprintf("%d %s", e.Distance, strokeShortNames[e.Stroke])
}

func (e Event) String() string {
	return fmt.Sprintf("%d %s %s", e.Distance, strokeShortNames[e.Stroke], strings.ToUpper(string(e.Course)))
}
