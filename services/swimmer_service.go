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

type SwimmerService interface {
	Create(ctx context.Context, input CreateSwimmerInput) (*models.Swimmer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Swimmer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSwimmerInput) (*models.Swimmer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter repositories.SwimmerFilter) ([]models.Swimmer, error)
}

type CreateSwimmerInput struct {
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	DateOfBirth   time.Time     `json:"date_of_birth"`
	Gender        models.Gender `json:"gender"`
	USASwimmingID *string       `json:"usa_swimming_id,omitempty"`
}

type UpdateSwimmerInput struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	USASwimmingID *string `json:"usa_swimming_id,omitempty"`
}

type swimmerService struct {
	swimmerRepo repositories.SwimmerRepository
}

func NewSwimmerService(swimmerRepo repositories.SwimmerRepository) SwimmerService {
	return &swimmerService{swimmerRepo: swimmerRepo}
}

func (s *swimmerService) Create(ctx context.Context, input CreateSwimmerInput) (*models.Swimmer, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, ErrSwimmerNameRequired
	}
	if input.Gender != models.GenderMale && input.Gender != models.GenderFemale {
		return nil, ErrInvalidGender
	}
	if input.DateOfBirth.After(time.Now()) {
		return nil, ErrBirthDateInFuture
	}

	swimmer := &models.Swimmer{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		DateOfBirth:   input.DateOfBirth,
		Gender:        input.Gender,
		USASwimmingID: input.USASwimmingID,
	}
	if err := s.swimmerRepo.Create(ctx, swimmer); err != nil {
		if errors.Is(err, repositories.ErrSwimmerUSAIDConflict) {
			return nil, ErrSwimmerUSAIDConflict
		}
		return nil, fmt.Errorf("failed to create swimmer: %w", err)
	}
	return swimmer, nil
}

func (s *swimmerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Swimmer, error) {
	swimmer, err := s.swimmerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSwimmerNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("failed to get swimmer: %w", err)
	}
	return swimmer, nil
}

func (s *swimmerService) Update(ctx context.Context, id uuid.UUID, input UpdateSwimmerInput) (*models.Swimmer, error) {
	swimmer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, ErrSwimmerNameRequired
		}
		swimmer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		if *input.LastName == "" {
			return nil, ErrSwimmerNameRequired
		}
		swimmer.LastName = *input.LastName
	}
	if input.USASwimmingID != nil {
		swimmer.USASwimmingID = input.USASwimmingID
	}

	if err := s.swimmerRepo.Update(ctx, swimmer); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSwimmerNotFound):
			return nil, ErrSwimmerNotFound
		case errors.Is(err, repositories.ErrSwimmerUSAIDConflict):
			return nil, ErrSwimmerUSAIDConflict
		}
		return nil, fmt.Errorf("failed to update swimmer: %w", err)
	}
	return swimmer, nil
}

func (s *swimmerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.swimmerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSwimmerNotFound) {
			return ErrSwimmerNotFound
		}
		return fmt.Errorf("failed to delete swimmer: %w", err)
	}
	return nil
}

func (s *swimmerService) Search(ctx context.Context, filter repositories.SwimmerFilter) ([]models.Swimmer, error) {
	swimmers, err := s.swimmerRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search swimmers: %w", err)
	}
	return swimmers, nil
}
