// Package parser contains the pure text parsers for event descriptors,
// race times, and cumulative split strings. Nothing here touches I/O;
// centiseconds is the canonical unit for every time value.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrInvalidEventFormat = errors.New("invalid event format")
	ErrInvalidDistance    = errors.New("invalid distance")
	ErrInvalidStroke      = errors.New("invalid stroke")
	ErrInvalidCourse      = errors.New("invalid course")
	ErrMissingCourse      = errors.New("no course specified and no default course provided")
	ErrInvalidSeconds     = errors.New("invalid seconds value")
	ErrInvalidTimeFormat  = errors.New("invalid time format")
)

// strokeAliases accepts full names, common short names, and the two-letter
// codes used by meet results software.
var strokeAliases = map[string]models.Stroke{
	"free":         models.StrokeFreestyle,
	"freestyle":    models.StrokeFreestyle,
	"fr":           models.StrokeFreestyle,
	"back":         models.StrokeBackstroke,
	"backstroke":   models.StrokeBackstroke,
	"bk":           models.StrokeBackstroke,
	"breast":       models.StrokeBreaststroke,
	"breaststroke": models.StrokeBreaststroke,
	"br":           models.StrokeBreaststroke,
	"fly":          models.StrokeButterfly,
	"butterfly":    models.StrokeButterfly,
	"fl":           models.StrokeButterfly,
	"im":           models.StrokeIM,
	"medley":       models.StrokeIM,
}

// Bare "meters" and "m" default to long course.
var courseAliases = map[string]models.Course{
	"scy":    models.CourseSCY,
	"yards":  models.CourseSCY,
	"y":      models.CourseSCY,
	"scm":    models.CourseSCM,
	"lcm":    models.CourseLCM,
	"meters": models.CourseLCM,
	"m":      models.CourseLCM,
}

// ParseStroke resolves a stroke token case-insensitively against the alias table.
func ParseStroke(s string) (models.Stroke, error) {
	stroke, ok := strokeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: free, back, breast, fly, im)", ErrInvalidStroke, s)
	}
	return stroke, nil
}

// ParseCourse resolves a course token case-insensitively against the alias table.
func ParseCourse(s string) (models.Course, error) {
	course, ok := courseAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: scy, scm, lcm)", ErrInvalidCourse, s)
	}
	return course, nil
}

// ParseEventString parses an event description like "100 Free SCY" into its
// distance, stroke, and course. The course token may be omitted when a
// non-empty defaultCourse is supplied.
func ParseEventString(eventStr string, defaultCourse models.Course) (int, models.Stroke, models.Course, error) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(eventStr)))
	if len(parts) < 2 {
		return 0, "", "", fmt.Errorf("%w: %q (expected '<distance> <stroke> [course]')", ErrInvalidEventFormat, eventStr)
	}

	distance, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", "", fmt.Errorf("%w: %q", ErrInvalidDistance, parts[0])
	}
	if !models.ValidDistances[distance] {
		return 0, "", "", fmt.Errorf("%w: %d", ErrInvalidDistance, distance)
	}

	stroke, err := ParseStroke(parts[1])
	if err != nil {
		return 0, "", "", err
	}

	var course models.Course
	switch {
	case len(parts) >= 3:
		course, err = ParseCourse(parts[2])
		if err != nil {
			return 0, "", "", err
		}
	case defaultCourse != "":
		course = defaultCourse
	default:
		return 0, "", "", fmt.Errorf("%w: %q", ErrMissingCourse, eventStr)
	}

	return distance, stroke, course, nil
}

var (
	timePatternMinutes = regexp.MustCompile(`^(\d+):(\d{1,2})\.(\d{1,2})$`)
	timePatternSeconds = regexp.MustCompile(`^(\d+)\.(\d{1,2})$`)
)

// normalizeCentis maps a 1-2 digit fraction to exactly two digits: a single
// digit is tenths (x10), longer input is truncated, never rounded.
func normalizeCentis(fraction string) int {
	if len(fraction) == 1 {
		n, _ := strconv.Atoi(fraction)
		return n * 10
	}
	n, _ := strconv.Atoi(fraction[:2])
	return n
}

// ParseTimeString parses "SS.cc" or "M:SS.cc" into centiseconds.
//
//	"59.45"    -> 5945
//	"1:23.45"  -> 8345
//	"12:34.56" -> 75456
func ParseTimeString(timeStr string) (int, error) {
	timeStr = strings.TrimSpace(timeStr)

	if m := timePatternMinutes.FindStringSubmatch(timeStr); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		if seconds >= 60 {
			return 0, fmt.Errorf("%w: %d (must be < 60)", ErrInvalidSeconds, seconds)
		}
		return minutes*6000 + seconds*100 + normalizeCentis(m[3]), nil
	}

	if m := timePatternSeconds.FindStringSubmatch(timeStr); m != nil {
		seconds, _ := strconv.Atoi(m[1])
		return seconds*100 + normalizeCentis(m[2]), nil
	}

	return 0, fmt.Errorf("%w: %q (expected 'SS.cc' or 'M:SS.cc')", ErrInvalidTimeFormat, timeStr)
}

// FormatCentiseconds renders centiseconds as "SS.cc", or "M:SS.cc" for times
// of a minute or more. Exact inverse of ParseTimeString for valid values.
func FormatCentiseconds(centiseconds int) string {
	totalSeconds := centiseconds / 100
	cs := centiseconds % 100
	if totalSeconds >= 60 {
		return fmt.Sprintf("%d:%02d.%02d", totalSeconds/60, totalSeconds%60, cs)
	}
	return fmt.Sprintf("%d.%02d", totalSeconds, cs)
}
