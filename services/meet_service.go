package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

type MeetService interface {
	Create(ctx context.Context, input CreateMeetInput) (*models.Meet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meet, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMeetInput) (*models.Meet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, name string) ([]models.Meet, error)
	List(ctx context.Context, limit, offset int) ([]models.Meet, error)
}

type CreateMeetInput struct {
	Name            string          `json:"name"`
	Location        string          `json:"location"`
	City            string          `json:"city"`
	State           *string         `json:"state,omitempty"`
	Country         string          `json:"country"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Course          models.Course   `json:"course"`
	Lanes           int             `json:"lanes"`
	Indoor          bool            `json:"indoor"`
	SanctioningBody string          `json:"sanctioning_body"`
	MeetType        models.MeetType `json:"meet_type"`
}

type UpdateMeetInput struct {
	Name     *string    `json:"name,omitempty"`
	Location *string    `json:"location,omitempty"`
	EndDate  *time.Time `json:"end_date,omitempty"`
	Lanes    *int       `json:"lanes,omitempty"`
	Indoor   *bool      `json:"indoor,omitempty"`
}

type meetService struct {
	meetRepo repositories.MeetRepository
}

func NewMeetService(meetRepo repositories.MeetRepository) MeetService {
	return &meetService{meetRepo: meetRepo}
}

func (s *meetService) Create(ctx context.Context, input CreateMeetInput) (*models.Meet, error) {
	if input.Name == "" {
		return nil, ErrMeetNameRequired
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, ErrMeetInvalidDateRange
	}
	if input.Lanes == 0 {
		input.Lanes = 8
	}
	if !models.ValidLanes(input.Lanes) {
		return nil, ErrMeetInvalidLanes
	}
	if input.Country == "" {
		input.Country = "USA"
	}

	meet := &models.Meet{
		Name:            input.Name,
		Location:        input.Location,
		City:            input.City,
		State:           input.State,
		Country:         input.Country,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Course:          input.Course,
		Lanes:           input.Lanes,
		Indoor:          input.Indoor,
		SanctioningBody: input.SanctioningBody,
		MeetType:        input.MeetType,
	}
	if err := s.meetRepo.Create(ctx, meet); err != nil {
		if errors.Is(err, repositories.ErrMeetConflict) {
			return nil, ErrMeetConflict
		}
		return nil, fmt.Errorf("failed to create meet: %w", err)
	}
	return meet, nil
}

func (s *meetService) GetByID(ctx context.Context, id uuid.UUID) (*models.Meet, error) {
	meet, err := s.meetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return nil, ErrMeetNotFound
		}
		return nil, fmt.Errorf("failed to get meet: %w", err)
	}
	return meet, nil
}

func (s *meetService) Update(ctx context.Context, id uuid.UUID, input UpdateMeetInput) (*models.Meet, error) {
	meet, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrMeetNameRequired
		}
		meet.Name = *input.Name
	}
	if input.Location != nil {
		meet.Location = *input.Location
	}
	if input.EndDate != nil {
		if input.EndDate.Before(meet.StartDate) {
			return nil, ErrMeetInvalidDateRange
		}
		meet.EndDate = input.EndDate
	}
	if input.Lanes != nil {
		if !models.ValidLanes(*input.Lanes) {
			return nil, ErrMeetInvalidLanes
		}
		meet.Lanes = *input.Lanes
	}
	if input.Indoor != nil {
		meet.Indoor = *input.Indoor
	}

	if err := s.meetRepo.Update(ctx, meet); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMeetNotFound):
			return nil, ErrMeetNotFound
		case errors.Is(err, repositories.ErrMeetConflict):
			return nil, ErrMeetConflict
		}
		return nil, fmt.Errorf("failed to update meet: %w", err)
	}
	return meet, nil
}

func (s *meetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.meetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMeetNotFound) {
			return ErrMeetNotFound
		}
		return fmt.Errorf("failed to delete meet: %w", err)
	}
	return nil
}

func (s *meetService) Search(ctx context.Context, name string) ([]models.Meet, error) {
	meets, err := s.meetRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search meets: %w", err)
	}
	return meets, nil
}

func (s *meetService) List(ctx context.Context, limit, offset int) ([]models.Meet, error) {
	meets, err := s.meetRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets: %w", err)
	}
	return meets, nil
}
