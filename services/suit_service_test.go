package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

type fakeSuitModelRepo struct {
	models []*models.SuitModel
}

func (f *fakeSuitModelRepo) Create(_ context.Context, m *models.SuitModel) error {
	for _, existing := range f.models {
		if existing.Brand == m.Brand && existing.ModelName == m.ModelName {
			return repositories.ErrSuitModelConflict
		}
	}
	m.ID = uuid.New()
	f.models = append(f.models, m)
	return nil
}

func (f *fakeSuitModelRepo) GetByID(_ context.Context, id uuid.UUID) (*models.SuitModel, error) {
	for _, m := range f.models {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrSuitModelNotFound
}

func (f *fakeSuitModelRepo) Update(_ context.Context, m *models.SuitModel) error {
	for i, existing := range f.models {
		if existing.ID == m.ID {
			f.models[i] = m
			return nil
		}
	}
	return repositories.ErrSuitModelNotFound
}

func (f *fakeSuitModelRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, existing := range f.models {
		if existing.ID == id {
			f.models = append(f.models[:i], f.models[i+1:]...)
			return nil
		}
	}
	return repositories.ErrSuitModelNotFound
}

func (f *fakeSuitModelRepo) Search(_ context.Context, _ repositories.SuitModelFilter) ([]models.SuitModel, error) {
	out := make([]models.SuitModel, 0, len(f.models))
	for _, m := range f.models {
		out = append(out, *m)
	}
	return out, nil
}

type fakeSwimmerSuitRepo struct {
	suits []*models.SwimmerSuit
}

func (f *fakeSwimmerSuitRepo) Create(_ context.Context, s *models.SwimmerSuit) error {
	s.ID = uuid.New()
	f.suits = append(f.suits, s)
	return nil
}

func (f *fakeSwimmerSuitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.SwimmerSuit, error) {
	for _, s := range f.suits {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrSwimmerSuitNotFound
}

func (f *fakeSwimmerSuitRepo) Update(_ context.Context, s *models.SwimmerSuit) error {
	for i, existing := range f.suits {
		if existing.ID == s.ID {
			f.suits[i] = s
			return nil
		}
	}
	return repositories.ErrSwimmerSuitNotFound
}

func (f *fakeSwimmerSuitRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, existing := range f.suits {
		if existing.ID == id {
			f.suits = append(f.suits[:i], f.suits[i+1:]...)
			return nil
		}
	}
	return repositories.ErrSwimmerSuitNotFound
}

func (f *fakeSwimmerSuitRepo) ListBySwimmer(_ context.Context, swimmerID uuid.UUID, activeOnly bool) ([]models.SwimmerSuit, error) {
	var out []models.SwimmerSuit
	for _, s := range f.suits {
		if s.SwimmerID != swimmerID {
			continue
		}
		if activeOnly && s.Condition == models.SuitConditionRetired {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSwimmerSuitRepo) IncrementWearCount(_ context.Context, id uuid.UUID) error {
	for _, s := range f.suits {
		if s.ID == id {
			s.WearCount++
			return nil
		}
	}
	return repositories.ErrSwimmerSuitNotFound
}

func (f *fakeSwimmerSuitRepo) IncrementRaceCount(_ context.Context, id uuid.UUID) error {
	for _, s := range f.suits {
		if s.ID == id {
			s.RaceCount++
			return nil
		}
	}
	return repositories.ErrSwimmerSuitNotFound
}

func newSuitServiceForTest() (SuitService, *fakeSuitModelRepo, *fakeSwimmerSuitRepo) {
	modelRepo := &fakeSuitModelRepo{}
	suitRepo := &fakeSwimmerSuitRepo{}
	return NewSuitService(modelRepo, suitRepo), modelRepo, suitRepo
}

func TestSuitService_CreateModel(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		svc, _, _ := newSuitServiceForTest()
		model, err := svc.CreateModel(ctx, CreateSuitModelInput{
			Brand:     "Speedo",
			ModelName: "LZR Pure Intent",
			SuitType:  models.SuitTypeJammer,
			Gender:    models.GenderMale,
		})
		require.NoError(t, err)
		assert.Equal(t, 10, model.ExpectedRacesPeak)
		assert.Equal(t, 30, model.ExpectedRacesTotal)
		assert.True(t, model.FINAApproved)
	})

	t.Run("blank brand rejected", func(t *testing.T) {
		svc, _, _ := newSuitServiceForTest()
		_, err := svc.CreateModel(ctx, CreateSuitModelInput{
			Brand:     "   ",
			ModelName: "Carbon Air 2",
			SuitType:  models.SuitTypeKneeskin,
			Gender:    models.GenderFemale,
		})
		assert.ErrorIs(t, err, ErrSuitBrandRequired)
	})

	t.Run("duplicate brand and model", func(t *testing.T) {
		svc, _, _ := newSuitServiceForTest()
		input := CreateSuitModelInput{
			Brand:     "Arena",
			ModelName: "Carbon Core FX",
			SuitType:  models.SuitTypeKneeskin,
			Gender:    models.GenderFemale,
		}
		_, err := svc.CreateModel(ctx, input)
		require.NoError(t, err)
		_, err = svc.CreateModel(ctx, input)
		assert.ErrorIs(t, err, ErrSuitModelConflict)
	})

	t.Run("negative lifespan rejected", func(t *testing.T) {
		svc, _, _ := newSuitServiceForTest()
		_, err := svc.CreateModel(ctx, CreateSuitModelInput{
			Brand:             "TYR",
			ModelName:         "Venzo",
			SuitType:          models.SuitTypeJammer,
			Gender:            models.GenderMale,
			ExpectedRacesPeak: -4,
		})
		assert.ErrorIs(t, err, ErrSuitInvalidLifespan)
	})
}

func TestSuitService_Inventory(t *testing.T) {
	ctx := context.Background()
	svc, _, suitRepo := newSuitServiceForTest()

	model, err := svc.CreateModel(ctx, CreateSuitModelInput{
		Brand:              "Arena",
		ModelName:          "Carbon Glide",
		SuitType:           models.SuitTypeKneeskin,
		Gender:             models.GenderFemale,
		ExpectedRacesPeak:  8,
		ExpectedRacesTotal: 20,
	})
	require.NoError(t, err)

	swimmerID := uuid.New()
	suit, err := svc.AddToInventory(ctx, AddSwimmerSuitInput{
		SwimmerID:   swimmerID,
		SuitModelID: model.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SuitConditionNew, suit.Condition)

	// 10 of the 20 expected races used, past the 8-race peak.
	for i := 0; i < 10; i++ {
		require.NoError(t, suitRepo.IncrementRaceCount(ctx, suit.ID))
	}

	usages, err := svc.Inventory(ctx, swimmerID, true)
	require.NoError(t, err)
	require.Len(t, usages, 1)

	usage := usages[0]
	require.NotNil(t, usage.Model)
	assert.InDelta(t, 50.0, usage.LifePercentage, 0.001)
	assert.Equal(t, 10, usage.RemainingRaces)
	assert.True(t, usage.PastPeak)
}

func TestSuitService_Retire(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSuitServiceForTest()

	model, err := svc.CreateModel(ctx, CreateSuitModelInput{
		Brand:     "Speedo",
		ModelName: "Fastskin",
		SuitType:  models.SuitTypeBrief,
		Gender:    models.GenderMale,
	})
	require.NoError(t, err)

	swimmerID := uuid.New()
	suit, err := svc.AddToInventory(ctx, AddSwimmerSuitInput{
		SwimmerID:   swimmerID,
		SuitModelID: model.ID,
	})
	require.NoError(t, err)

	reason := "seam tear at sectionals"
	retired, err := svc.Retire(ctx, suit.ID, &reason)
	require.NoError(t, err)
	assert.Equal(t, models.SuitConditionRetired, retired.Condition)
	require.NotNil(t, retired.RetiredDate)
	require.NotNil(t, retired.RetirementReason)
	assert.Equal(t, reason, *retired.RetirementReason)

	_, err = svc.Retire(ctx, suit.ID, nil)
	assert.ErrorIs(t, err, ErrSuitAlreadyRetired)

	// Retired suits drop out of the active inventory view.
	active, err := svc.Inventory(ctx, swimmerID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.Inventory(ctx, swimmerID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
