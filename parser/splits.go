package parser

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrInvalidSplitFormat        = errors.New("invalid split format")
	ErrInvalidSplitDistance      = errors.New("invalid split distance")
	ErrSplitsNotMonotonic        = errors.New("split times must increase with distance")
	ErrSplitExceedsEventDistance = errors.New("split distance must be less than event distance")
	ErrSplitExceedsFinalTime     = errors.New("split time must be less than final time")
)

// ParseSplitsString parses a semicolon-delimited cumulative splits string,
// e.g. "50:28.27;100:58.44;150:1:29.19". Each entry is "<distance>:<time>";
// the distance is the integer prefix up to the first colon and the rest is a
// race time, so minute-form split times keep their own colon. Empty input
// yields an empty list. Parsed splits are validated against the event
// distance and final time.
func ParseSplitsString(splitsStr string, eventDistance, finalTimeCentiseconds int) ([]models.Split, error) {
	splitsStr = strings.TrimSpace(splitsStr)
	if splitsStr == "" {
		return nil, nil
	}

	var splits []models.Split
	for _, part := range strings.Split(splitsStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		colon := strings.Index(part, ":")
		if colon == -1 {
			return nil, fmt.Errorf("%w: %q (expected 'distance:time')", ErrInvalidSplitFormat, part)
		}

		distance, err := strconv.Atoi(part[:colon])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSplitDistance, part[:colon])
		}

		timeCS, err := ParseTimeString(part[colon+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid split time at %d: %w", distance, err)
		}

		splits = append(splits, models.Split{Distance: distance, TimeCentiseconds: timeCS})
	}

	if err := ValidateSplits(splits, eventDistance, finalTimeCentiseconds); err != nil {
		return nil, err
	}
	return splits, nil
}

// ValidateSplits enforces the split invariants: cumulative times strictly
// increase with distance, the last split stops short of the event distance,
// and every split is faster than the final time.
func ValidateSplits(splits []models.Split, eventDistance, finalTimeCentiseconds int) error {
	if len(splits) == 0 {
		return nil
	}

	sorted := sortedByDistance(splits)

	prev := 0
	for _, s := range sorted {
		if s.TimeCentiseconds <= prev {
			return fmt.Errorf("%w: split at %d (%s) is not after %s",
				ErrSplitsNotMonotonic, s.Distance, FormatCentiseconds(s.TimeCentiseconds), FormatCentiseconds(prev))
		}
		prev = s.TimeCentiseconds
	}

	if maxDistance := sorted[len(sorted)-1].Distance; maxDistance >= eventDistance {
		return fmt.Errorf("%w: %d >= %d", ErrSplitExceedsEventDistance, maxDistance, eventDistance)
	}

	for _, s := range sorted {
		if s.TimeCentiseconds >= finalTimeCentiseconds {
			return fmt.Errorf("%w: split at %d (%s) >= final time (%s)",
				ErrSplitExceedsFinalTime, s.Distance, FormatCentiseconds(s.TimeCentiseconds), FormatCentiseconds(finalTimeCentiseconds))
		}
	}

	return nil
}

// FormatSplits serializes splits sorted by distance, inverse of
// ParseSplitsString for valid data.
func FormatSplits(splits []models.Split) string {
	if len(splits) == 0 {
		return ""
	}
	sorted := sortedByDistance(splits)
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = fmt.Sprintf("%d:%s", s.Distance, FormatCentiseconds(s.TimeCentiseconds))
	}
	return strings.Join(parts, ";")
}

func sortedByDistance(splits []models.Split) []models.Split {
	sorted := make([]models.Split, len(splits))
	copy(sorted, splits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Distance < sorted[j].Distance })
	return sorted
}
