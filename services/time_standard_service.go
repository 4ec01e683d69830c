package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/parser"
	"github.com/silverbeer/swimcuttimes/repositories"
)

type TimeStandardService interface {
	Create(ctx context.Context, input CreateTimeStandardInput) (*models.TimeStandard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.TimeStandard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repositories.TimeStandardFilter) ([]models.TimeStandard, error)

	// SeedFromSheet bulk-creates the standards extracted from one sheet
	// image, finding or creating each referenced event. Entry-level
	// failures are recorded and the rest of the sheet still lands.
	SeedFromSheet(ctx context.Context, sheet *ParsedStandardSheet) *ImportResult
}

type CreateTimeStandardInput struct {
	EventID         uuid.UUID     `json:"event_id"`
	Gender          models.Gender `json:"gender"`
	AgeGroup        *string       `json:"age_group,omitempty"`
	StandardName    string        `json:"standard_name"`
	CutLevel        string        `json:"cut_level"`
	SanctioningBody string        `json:"sanctioning_body"`
	Time            string        `json:"time"` // e.g. "1:05.09"
	EffectiveYear   int           `json:"effective_year"`
}

type timeStandardService struct {
	standardRepo repositories.TimeStandardRepository
	eventRepo    repositories.EventRepository
	logger       *slog.Logger
}

func NewTimeStandardService(
	standardRepo repositories.TimeStandardRepository,
	eventRepo repositories.EventRepository,
	logger *slog.Logger,
) TimeStandardService {
	return &timeStandardService{
		standardRepo: standardRepo,
		eventRepo:    eventRepo,
		logger:       logger,
	}
}

func (s *timeStandardService) Create(ctx context.Context, input CreateTimeStandardInput) (*models.TimeStandard, error) {
	if input.EffectiveYear == 0 {
		return nil, ErrStandardYearRequired
	}
	centiseconds, err := parser.ParseTimeString(input.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	standard := &models.TimeStandard{
		EventID:          input.EventID,
		Gender:           input.Gender,
		AgeGroup:         input.AgeGroup,
		StandardName:     input.StandardName,
		CutLevel:         input.CutLevel,
		SanctioningBody:  input.SanctioningBody,
		TimeCentiseconds: centiseconds,
		EffectiveYear:    input.EffectiveYear,
	}
	if err := s.standardRepo.Create(ctx, standard); err != nil {
		if errors.Is(err, repositories.ErrTimeStandardConflict) {
			return nil, ErrStandardConflict
		}
		return nil, fmt.Errorf("failed to create time standard: %w", err)
	}
	return standard, nil
}

func (s *timeStandardService) GetByID(ctx context.Context, id uuid.UUID) (*models.TimeStandard, error) {
	standard, err := s.standardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTimeStandardNotFound) {
			return nil, ErrTimeStandardNotFound
		}
		return nil, fmt.Errorf("failed to get time standard: %w", err)
	}
	return standard, nil
}

func (s *timeStandardService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.standardRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTimeStandardNotFound) {
			return ErrTimeStandardNotFound
		}
		return fmt.Errorf("failed to delete time standard: %w", err)
	}
	return nil
}

func (s *timeStandardService) List(ctx context.Context, filter repositories.TimeStandardFilter) ([]models.TimeStandard, error) {
	standards, err := s.standardRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list time standards: %w", err)
	}
	return standards, nil
}

func (s *timeStandardService) SeedFromSheet(ctx context.Context, sheet *ParsedStandardSheet) *ImportResult {
	result := NewImportResult()

	for i, entry := range sheet.Entries {
		row := i + 1
		label := fmt.Sprintf("%s %s %s", entry.Event, entry.Gender, entry.Time)

		distance, stroke, course, err := parser.ParseEventString(entry.Event, "")
		if err != nil {
			result.AddError(row, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		gender, ok := genderAliases[strings.ToLower(entry.Gender)]
		if !ok {
			result.AddError(row, fmt.Sprintf("%s: unrecognized gender %q", label, entry.Gender))
			continue
		}
		centiseconds, err := parser.ParseTimeString(entry.Time)
		if err != nil {
			result.AddError(row, fmt.Sprintf("%s: %v", label, err))
			continue
		}

		event, err := s.findOrCreateEvent(ctx, distance, stroke, course)
		if err != nil {
			result.AddError(row, fmt.Sprintf("%s: %v", label, err))
			continue
		}

		standard := &models.TimeStandard{
			EventID:          event.ID,
			Gender:           gender,
			AgeGroup:         entry.AgeGroup,
			StandardName:     sheet.StandardName,
			CutLevel:         entry.CutLevel,
			SanctioningBody:  sheet.SanctioningBody,
			TimeCentiseconds: centiseconds,
			EffectiveYear:    sheet.EffectiveYear,
		}
		err = s.standardRepo.Create(ctx, standard)
		switch {
		case err == nil:
			result.AddCreated(row, "time_standard", standard.ID, parser.FormatCentiseconds(centiseconds)+" (created)")
		case errors.Is(err, repositories.ErrTimeStandardConflict):
			result.AddSkipped(row, "time_standard", label+" (already present)")
		default:
			result.AddError(row, fmt.Sprintf("%s: %v", label, err))
		}
	}

	s.logger.InfoContext(ctx, "standards sheet seeded",
		slog.String("standard", sheet.StandardName),
		slog.String("summary", result.Summary()))
	return result
}

func (s *timeStandardService) findOrCreateEvent(ctx context.Context, distance int, stroke models.Stroke, course models.Course) (*models.Event, error) {
	event, err := s.eventRepo.FindByKey(ctx, stroke, distance, course)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, repositories.ErrEventNotFound) {
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}

	event = &models.Event{Stroke: stroke, Distance: distance, Course: course}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	err = s.eventRepo.Create(ctx, event)
	if errors.Is(err, repositories.ErrEventConflict) {
		return s.eventRepo.FindByKey(ctx, stroke, distance, course)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}
