package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

// SuitService covers the racing suit catalog and each swimmer's suit
// inventory. Race counts normally move with swim time inserts; the
// explicit increment operations are for practice wear and corrections.
type SuitService interface {
	CreateModel(ctx context.Context, input CreateSuitModelInput) (*models.SuitModel, error)
	GetModelByID(ctx context.Context, id uuid.UUID) (*models.SuitModel, error)
	UpdateModel(ctx context.Context, id uuid.UUID, input UpdateSuitModelInput) (*models.SuitModel, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error
	SearchModels(ctx context.Context, filter repositories.SuitModelFilter) ([]models.SuitModel, error)

	AddToInventory(ctx context.Context, input AddSwimmerSuitInput) (*models.SwimmerSuit, error)
	GetSuitByID(ctx context.Context, id uuid.UUID) (*models.SwimmerSuit, error)
	UpdateSuit(ctx context.Context, id uuid.UUID, input UpdateSwimmerSuitInput) (*models.SwimmerSuit, error)
	DeleteSuit(ctx context.Context, id uuid.UUID) error
	Inventory(ctx context.Context, swimmerID uuid.UUID, activeOnly bool) ([]SwimmerSuitUsage, error)
	RecordWear(ctx context.Context, id uuid.UUID) error
	Retire(ctx context.Context, id uuid.UUID, reason *string) (*models.SwimmerSuit, error)
}

type CreateSuitModelInput struct {
	Brand              string          `json:"brand"`
	ModelName          string          `json:"model_name"`
	SuitType           models.SuitType `json:"suit_type"`
	IsTechSuit         bool            `json:"is_tech_suit"`
	Gender             models.Gender   `json:"gender"`
	ReleaseYear        *int            `json:"release_year,omitempty"`
	MSRPCents          *int            `json:"msrp_cents,omitempty"`
	ExpectedRacesPeak  int             `json:"expected_races_peak"`
	ExpectedRacesTotal int             `json:"expected_races_total"`
	FINAApproved       *bool           `json:"fina_approved,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
}

type UpdateSuitModelInput struct {
	Brand              *string          `json:"brand,omitempty"`
	ModelName          *string          `json:"model_name,omitempty"`
	SuitType           *models.SuitType `json:"suit_type,omitempty"`
	IsTechSuit         *bool            `json:"is_tech_suit,omitempty"`
	ReleaseYear        *int             `json:"release_year,omitempty"`
	MSRPCents          *int             `json:"msrp_cents,omitempty"`
	ExpectedRacesPeak  *int             `json:"expected_races_peak,omitempty"`
	ExpectedRacesTotal *int             `json:"expected_races_total,omitempty"`
	FINAApproved       *bool            `json:"fina_approved,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

type AddSwimmerSuitInput struct {
	SwimmerID          uuid.UUID  `json:"swimmer_id"`
	SuitModelID        uuid.UUID  `json:"suit_model_id"`
	Nickname           *string    `json:"nickname,omitempty"`
	Size               *string    `json:"size,omitempty"`
	Color              *string    `json:"color,omitempty"`
	PurchaseDate       *time.Time `json:"purchase_date,omitempty"`
	PurchasePriceCents *int       `json:"purchase_price_cents,omitempty"`
	PurchaseLocation   *string    `json:"purchase_location,omitempty"`
}

type UpdateSwimmerSuitInput struct {
	Nickname           *string               `json:"nickname,omitempty"`
	Size               *string               `json:"size,omitempty"`
	Color              *string               `json:"color,omitempty"`
	PurchaseDate       *time.Time            `json:"purchase_date,omitempty"`
	PurchasePriceCents *int                  `json:"purchase_price_cents,omitempty"`
	PurchaseLocation   *string               `json:"purchase_location,omitempty"`
	Condition          *models.SuitCondition `json:"condition,omitempty"`
}

// SwimmerSuitUsage pairs an inventory suit with its catalog model and the
// derived lifespan numbers.
type SwimmerSuitUsage struct {
	Suit           models.SwimmerSuit `json:"suit"`
	Model          *models.SuitModel  `json:"model,omitempty"`
	LifePercentage float64            `json:"life_percentage"`
	RemainingRaces int                `json:"remaining_races"`
	PastPeak       bool               `json:"past_peak"`
}

type suitService struct {
	modelRepo repositories.SuitModelRepository
	suitRepo  repositories.SwimmerSuitRepository
}

func NewSuitService(modelRepo repositories.SuitModelRepository, suitRepo repositories.SwimmerSuitRepository) SuitService {
	return &suitService{modelRepo: modelRepo, suitRepo: suitRepo}
}

func (s *suitService) CreateModel(ctx context.Context, input CreateSuitModelInput) (*models.SuitModel, error) {
	input.Brand = strings.TrimSpace(input.Brand)
	input.ModelName = strings.TrimSpace(input.ModelName)
	if input.Brand == "" || input.ModelName == "" {
		return nil, ErrSuitBrandRequired
	}
	if input.ExpectedRacesPeak == 0 {
		input.ExpectedRacesPeak = 10
	}
	if input.ExpectedRacesTotal == 0 {
		input.ExpectedRacesTotal = 30
	}
	if input.ExpectedRacesPeak < 1 || input.ExpectedRacesTotal < 1 {
		return nil, ErrSuitInvalidLifespan
	}
	if input.Gender != models.GenderMale && input.Gender != models.GenderFemale {
		return nil, ErrInvalidGender
	}

	finaApproved := true
	if input.FINAApproved != nil {
		finaApproved = *input.FINAApproved
	}

	model := &models.SuitModel{
		Brand:              input.Brand,
		ModelName:          input.ModelName,
		SuitType:           input.SuitType,
		IsTechSuit:         input.IsTechSuit,
		Gender:             input.Gender,
		ReleaseYear:        input.ReleaseYear,
		MSRPCents:          input.MSRPCents,
		ExpectedRacesPeak:  input.ExpectedRacesPeak,
		ExpectedRacesTotal: input.ExpectedRacesTotal,
		FINAApproved:       finaApproved,
		Notes:              input.Notes,
	}
	if err := s.modelRepo.Create(ctx, model); err != nil {
		if errors.Is(err, repositories.ErrSuitModelConflict) {
			return nil, ErrSuitModelConflict
		}
		return nil, fmt.Errorf("creating suit model: %w", err)
	}
	return model, nil
}

func (s *suitService) GetModelByID(ctx context.Context, id uuid.UUID) (*models.SuitModel, error) {
	model, err := s.modelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSuitModelNotFound) {
			return nil, ErrSuitModelNotFound
		}
		return nil, fmt.Errorf("getting suit model: %w", err)
	}
	return model, nil
}

func (s *suitService) UpdateModel(ctx context.Context, id uuid.UUID, input UpdateSuitModelInput) (*models.SuitModel, error) {
	model, err := s.GetModelByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Brand != nil {
		model.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.ModelName != nil {
		model.ModelName = strings.TrimSpace(*input.ModelName)
	}
	if model.Brand == "" || model.ModelName == "" {
		return nil, ErrSuitBrandRequired
	}
	if input.SuitType != nil {
		model.SuitType = *input.SuitType
	}
	if input.IsTechSuit != nil {
		model.IsTechSuit = *input.IsTechSuit
	}
	if input.ReleaseYear != nil {
		model.ReleaseYear = input.ReleaseYear
	}
	if input.MSRPCents != nil {
		model.MSRPCents = input.MSRPCents
	}
	if input.ExpectedRacesPeak != nil {
		model.ExpectedRacesPeak = *input.ExpectedRacesPeak
	}
	if input.ExpectedRacesTotal != nil {
		model.ExpectedRacesTotal = *input.ExpectedRacesTotal
	}
	if model.ExpectedRacesPeak < 1 || model.ExpectedRacesTotal < 1 {
		return nil, ErrSuitInvalidLifespan
	}
	if input.FINAApproved != nil {
		model.FINAApproved = *input.FINAApproved
	}
	if input.Notes != nil {
		model.Notes = input.Notes
	}

	if err := s.modelRepo.Update(ctx, model); err != nil {
		if errors.Is(err, repositories.ErrSuitModelConflict) {
			return nil, ErrSuitModelConflict
		}
		if errors.Is(err, repositories.ErrSuitModelNotFound) {
			return nil, ErrSuitModelNotFound
		}
		return nil, fmt.Errorf("updating suit model: %w", err)
	}
	return model, nil
}

func (s *suitService) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if err := s.modelRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSuitModelNotFound) {
			return ErrSuitModelNotFound
		}
		return fmt.Errorf("deleting suit model: %w", err)
	}
	return nil
}

func (s *suitService) SearchModels(ctx context.Context, filter repositories.SuitModelFilter) ([]models.SuitModel, error) {
	results, err := s.modelRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("searching suit models: %w", err)
	}
	return results, nil
}

func (s *suitService) AddToInventory(ctx context.Context, input AddSwimmerSuitInput) (*models.SwimmerSuit, error) {
	if _, err := s.GetModelByID(ctx, input.SuitModelID); err != nil {
		return nil, err
	}

	suit := &models.SwimmerSuit{
		SwimmerID:          input.SwimmerID,
		SuitModelID:        input.SuitModelID,
		Nickname:           input.Nickname,
		Size:               input.Size,
		Color:              input.Color,
		PurchaseDate:       input.PurchaseDate,
		PurchasePriceCents: input.PurchasePriceCents,
		PurchaseLocation:   input.PurchaseLocation,
		Condition:          models.SuitConditionNew,
	}
	if err := s.suitRepo.Create(ctx, suit); err != nil {
		return nil, fmt.Errorf("adding suit to inventory: %w", err)
	}
	return suit, nil
}

func (s *suitService) GetSuitByID(ctx context.Context, id uuid.UUID) (*models.SwimmerSuit, error) {
	suit, err := s.suitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSwimmerSuitNotFound) {
			return nil, ErrSwimmerSuitNotFound
		}
		return nil, fmt.Errorf("getting swimmer suit: %w", err)
	}
	return suit, nil
}

func (s *suitService) UpdateSuit(ctx context.Context, id uuid.UUID, input UpdateSwimmerSuitInput) (*models.SwimmerSuit, error) {
	suit, err := s.GetSuitByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		suit.Nickname = input.Nickname
	}
	if input.Size != nil {
		suit.Size = input.Size
	}
	if input.Color != nil {
		suit.Color = input.Color
	}
	if input.PurchaseDate != nil {
		suit.PurchaseDate = input.PurchaseDate
	}
	if input.PurchasePriceCents != nil {
		suit.PurchasePriceCents = input.PurchasePriceCents
	}
	if input.PurchaseLocation != nil {
		suit.PurchaseLocation = input.PurchaseLocation
	}
	if input.Condition != nil {
		suit.Condition = *input.Condition
	}

	if err := s.suitRepo.Update(ctx, suit); err != nil {
		if errors.Is(err, repositories.ErrSwimmerSuitNotFound) {
			return nil, ErrSwimmerSuitNotFound
		}
		return nil, fmt.Errorf("updating swimmer suit: %w", err)
	}
	return suit, nil
}

func (s *suitService) DeleteSuit(ctx context.Context, id uuid.UUID) error {
	if err := s.suitRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSwimmerSuitNotFound) {
			return ErrSwimmerSuitNotFound
		}
		return fmt.Errorf("deleting swimmer suit: %w", err)
	}
	return nil
}

func (s *suitService) Inventory(ctx context.Context, swimmerID uuid.UUID, activeOnly bool) ([]SwimmerSuitUsage, error) {
	suits, err := s.suitRepo.ListBySwimmer(ctx, swimmerID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing swimmer suits: %w", err)
	}

	usages := make([]SwimmerSuitUsage, 0, len(suits))
	for _, suit := range suits {
		usage := SwimmerSuitUsage{Suit: suit}
		model, err := s.modelRepo.GetByID(ctx, suit.SuitModelID)
		if err == nil {
			usage.Model = model
			usage.LifePercentage = suit.LifePercentage(model.ExpectedRacesTotal)
			usage.RemainingRaces = suit.RemainingRaces(model.ExpectedRacesTotal)
			usage.PastPeak = suit.IsPastPeak(model.ExpectedRacesPeak)
		} else if !errors.Is(err, repositories.ErrSuitModelNotFound) {
			return nil, fmt.Errorf("loading suit model: %w", err)
		}
		usages = append(usages, usage)
	}
	return usages, nil
}

func (s *suitService) RecordWear(ctx context.Context, id uuid.UUID) error {
	if err := s.suitRepo.IncrementWearCount(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSwimmerSuitNotFound) {
			return ErrSwimmerSuitNotFound
		}
		return fmt.Errorf("recording suit wear: %w", err)
	}
	return nil
}

func (s *suitService) Retire(ctx context.Context, id uuid.UUID, reason *string) (*models.SwimmerSuit, error) {
	suit, err := s.GetSuitByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suit.Condition == models.SuitConditionRetired {
		return nil, ErrSuitAlreadyRetired
	}

	now := time.Now()
	suit.Condition = models.SuitConditionRetired
	suit.RetiredDate = &now
	suit.RetirementReason = reason

	if err := s.suitRepo.Update(ctx, suit); err != nil {
		return nil, fmt.Errorf("retiring suit: %w", err)
	}
	return suit, nil
}
