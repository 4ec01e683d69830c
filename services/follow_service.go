package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

// FollowService lets fans track swimmers.
type FollowService interface {
	Follow(ctx context.Context, userID, swimmerID uuid.UUID) (*models.Follow, error)
	Unfollow(ctx context.Context, userID, swimmerID uuid.UUID) error
	Following(ctx context.Context, userID uuid.UUID) ([]models.Swimmer, error)
}

type followService struct {
	followRepo  repositories.FollowRepository
	swimmerRepo repositories.SwimmerRepository
}

func NewFollowService(followRepo repositories.FollowRepository, swimmerRepo repositories.SwimmerRepository) FollowService {
	return &followService{followRepo: followRepo, swimmerRepo: swimmerRepo}
}

func (s *followService) Follow(ctx context.Context, userID, swimmerID uuid.UUID) (*models.Follow, error) {
	if _, err := s.swimmerRepo.GetByID(ctx, swimmerID); err != nil {
		if errors.Is(err, repositories.ErrSwimmerNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("failed to load swimmer: %w", err)
	}

	follow := &models.Follow{UserID: userID, SwimmerID: swimmerID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, repositories.ErrAlreadyFollowing) {
			return nil, ErrAlreadyFollowing
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}
	return follow, nil
}

func (s *followService) Unfollow(ctx context.Context, userID, swimmerID uuid.UUID) error {
	if err := s.followRepo.Delete(ctx, userID, swimmerID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return ErrFollowNotFound
		}
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (s *followService) Following(ctx context.Context, userID uuid.UUID) ([]models.Swimmer, error) {
	follows, err := s.followRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}

	swimmers := make([]models.Swimmer, 0, len(follows))
	for _, follow := range follows {
		swimmer, err := s.swimmerRepo.GetByID(ctx, follow.SwimmerID)
		if err != nil {
			if errors.Is(err, repositories.ErrSwimmerNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load followed swimmer: %w", err)
		}
		swimmers = append(swimmers, *swimmer)
	}
	return swimmers, nil
}
