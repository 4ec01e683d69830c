package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/parser"
	"github.com/silverbeer/swimcuttimes/repositories"
)

type SwimTimeService interface {
	Create(ctx context.Context, input CreateSwimTimeInput) (*models.SwimTime, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SwimTime, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySwimmer(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error)
	ListByMeet(ctx context.Context, meetID uuid.UUID) ([]models.SwimTime, error)

	// BestTimes returns the fastest valid swim per event for a swimmer.
	BestTimes(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error)
	// StandardsCheck compares one swim against every applicable cut time.
	StandardsCheck(ctx context.Context, swimTimeID uuid.UUID) ([]StandardComparison, error)
}

type CreateSwimTimeInput struct {
	SwimmerID uuid.UUID     `json:"swimmer_id"`
	EventID   uuid.UUID     `json:"event_id"`
	MeetID    uuid.UUID     `json:"meet_id"`
	TeamID    uuid.UUID     `json:"team_id"`
	Time      string        `json:"time"`   // e.g. "1:23.45"
	Splits    string        `json:"splits"` // optional, "50:28.27;100:58.44"
	SwimDate  time.Time     `json:"swim_date"`
	Round     *models.Round `json:"round,omitempty"`
	Lane      *int          `json:"lane,omitempty"`
	Place     *int          `json:"place,omitempty"`
	Official  bool          `json:"official"`
	DQ        bool          `json:"dq"`
	DQReason  *string       `json:"dq_reason,omitempty"`
	SuitID    *uuid.UUID    `json:"suit_id,omitempty"`
}

// StandardComparison is one swim measured against one cut time.
type StandardComparison struct {
	Standard     models.TimeStandard `json:"standard"`
	Met          bool                `json:"met"`
	DeltaSeconds float64             `json:"delta_seconds"` // negative means faster than the cut
	Formatted    string              `json:"formatted"`     // e.g. "57.65 (-0.35)"
}

type swimTimeService struct {
	swimTimeRepo repositories.SwimTimeRepository
	swimmerRepo  repositories.SwimmerRepository
	eventRepo    repositories.EventRepository
	standardRepo repositories.TimeStandardRepository
}

func NewSwimTimeService(
	swimTimeRepo repositories.SwimTimeRepository,
	swimmerRepo repositories.SwimmerRepository,
	eventRepo repositories.EventRepository,
	standardRepo repositories.TimeStandardRepository,
) SwimTimeService {
	return &swimTimeService{
		swimTimeRepo: swimTimeRepo,
		swimmerRepo:  swimmerRepo,
		eventRepo:    eventRepo,
		standardRepo: standardRepo,
	}
}

func (s *swimTimeService) Create(ctx context.Context, input CreateSwimTimeInput) (*models.SwimTime, error) {
	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	centiseconds, err := parser.ParseTimeString(input.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}
	if input.Lane != nil && (*input.Lane < 1 || *input.Lane > 10) {
		return nil, ErrInvalidLane
	}
	splits, err := parser.ParseSplitsString(input.Splits, event.Distance, centiseconds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	swimTime := &models.SwimTime{
		SwimmerID:        input.SwimmerID,
		EventID:          input.EventID,
		MeetID:           input.MeetID,
		TeamID:           input.TeamID,
		TimeCentiseconds: centiseconds,
		SwimDate:         input.SwimDate,
		Round:            input.Round,
		Lane:             input.Lane,
		Place:            input.Place,
		Official:         input.Official,
		DQ:               input.DQ,
		DQReason:         input.DQReason,
		SuitID:           input.SuitID,
		Splits:           splits,
	}
	if err := s.swimTimeRepo.Create(ctx, swimTime); err != nil {
		if errors.Is(err, repositories.ErrSwimTimeConflict) {
			return nil, ErrSwimTimeConflict
		}
		return nil, fmt.Errorf("failed to create swim time: %w", err)
	}
	return swimTime, nil
}

func (s *swimTimeService) GetByID(ctx context.Context, id uuid.UUID) (*models.SwimTime, error) {
	swimTime, err := s.swimTimeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSwimTimeNotFound) {
			return nil, ErrSwimTimeNotFound
		}
		return nil, fmt.Errorf("failed to get swim time: %w", err)
	}
	return swimTime, nil
}

func (s *swimTimeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.swimTimeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSwimTimeNotFound) {
			return ErrSwimTimeNotFound
		}
		return fmt.Errorf("failed to delete swim time: %w", err)
	}
	return nil
}

func (s *swimTimeService) ListBySwimmer(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error) {
	times, err := s.swimTimeRepo.ListBySwimmer(ctx, swimmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swim times: %w", err)
	}
	return times, nil
}

func (s *swimTimeService) ListByMeet(ctx context.Context, meetID uuid.UUID) ([]models.SwimTime, error) {
	times, err := s.swimTimeRepo.ListByMeet(ctx, meetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swim times: %w", err)
	}
	return times, nil
}

func (s *swimTimeService) BestTimes(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error) {
	times, err := s.swimTimeRepo.ListBySwimmer(ctx, swimmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swim times: %w", err)
	}

	best := make(map[uuid.UUID]models.SwimTime)
	for _, t := range times {
		if !t.IsValid() {
			continue
		}
		current, ok := best[t.EventID]
		if !ok || t.TimeCentiseconds < current.TimeCentiseconds {
			best[t.EventID] = t
		}
	}

	out := make([]models.SwimTime, 0, len(best))
	for _, t := range best {
		out = append(out, t)
	}
	return out, nil
}

func (s *swimTimeService) StandardsCheck(ctx context.Context, swimTimeID uuid.UUID) ([]StandardComparison, error) {
	swimTime, err := s.GetByID(ctx, swimTimeID)
	if err != nil {
		return nil, err
	}
	swimmer, err := s.swimmerRepo.GetByID(ctx, swimTime.SwimmerID)
	if err != nil {
		if errors.Is(err, repositories.ErrSwimmerNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("failed to load swimmer: %w", err)
	}

	ageGroup := swimmer.AgeGroupOn(swimTime.SwimDate)
	standards, err := s.standardRepo.ListForSwim(ctx, swimTime.EventID, swimmer.Gender, ageGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to list time standards: %w", err)
	}

	comparisons := make([]StandardComparison, 0, len(standards))
	for _, standard := range standards {
		if !standard.InQualifyingWindow(swimTime.SwimDate) {
			continue
		}
		delta := swimTime.CompareToStandard(standard.TimeCentiseconds)
		comparisons = append(comparisons, StandardComparison{
			Standard:     standard,
			Met:          swimTime.MeetsStandard(standard.TimeCentiseconds),
			DeltaSeconds: delta,
			Formatted:    fmt.Sprintf("%s (%+.2f)", parser.FormatCentiseconds(swimTime.TimeCentiseconds), delta),
		})
	}
	return comparisons, nil
}
