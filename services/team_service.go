package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]models.Team, error)
}

type CreateTeamInput struct {
	Name            string          `json:"name"`
	TeamType        models.TeamType `json:"team_type"`
	SanctioningBody string          `json:"sanctioning_body"`
	LSC             *string         `json:"lsc,omitempty"`
	Division        *string         `json:"division,omitempty"`
	State           *string         `json:"state,omitempty"`
	Country         *string         `json:"country,omitempty"`
}

type UpdateTeamInput struct {
	Name     *string `json:"name,omitempty"`
	LSC      *string `json:"lsc,omitempty"`
	Division *string `json:"division,omitempty"`
	State    *string `json:"state,omitempty"`
	Country  *string `json:"country,omitempty"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:            input.Name,
		TeamType:        input.TeamType,
		SanctioningBody: input.SanctioningBody,
		LSC:             input.LSC,
		Division:        input.Division,
		State:           input.State,
		Country:         input.Country,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (s *teamService) Update(ctx context.Context, id uuid.UUID, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = *input.Name
	}
	if input.LSC != nil {
		team.LSC = input.LSC
	}
	if input.Division != nil {
		team.Division = input.Division
	}
	if input.State != nil {
		team.State = input.State
	}
	if input.Country != nil {
		team.Country = input.Country
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

func (s *teamService) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
