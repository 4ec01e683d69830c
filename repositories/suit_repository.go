package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrSuitModelNotFound   = errors.New("suit model not found")
	ErrSuitModelConflict   = errors.New("suit model already exists for that brand and name")
	ErrSwimmerSuitNotFound = errors.New("swimmer suit not found")
)

// SuitModelFilter narrows catalog searches. Nil fields are ignored.
type SuitModelFilter struct {
	Brand        string
	ModelName    string
	SuitType     *models.SuitType
	IsTechSuit   *bool
	Gender       *models.Gender
	FINAApproved *bool
	Limit        int
}

type SuitModelRepository interface {
	Create(ctx context.Context, model *models.SuitModel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SuitModel, error)
	Update(ctx context.Context, model *models.SuitModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter SuitModelFilter) ([]models.SuitModel, error)
}

type SwimmerSuitRepository interface {
	Create(ctx context.Context, suit *models.SwimmerSuit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SwimmerSuit, error)
	Update(ctx context.Context, suit *models.SwimmerSuit) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListBySwimmer returns a swimmer's inventory, optionally hiding
	// retired suits.
	ListBySwimmer(ctx context.Context, swimmerID uuid.UUID, activeOnly bool) ([]models.SwimmerSuit, error)
	IncrementWearCount(ctx context.Context, id uuid.UUID) error
	// IncrementRaceCount exists for manual corrections; normally the
	// race count moves via the swim_times insert trigger.
	IncrementRaceCount(ctx context.Context, id uuid.UUID) error
}

type postgresSuitModelRepository struct {
	db *sql.DB
}

func NewPostgresSuitModelRepository(db *sql.DB) SuitModelRepository {
	return &postgresSuitModelRepository{db: db}
}

const suitModelColumns = `id, brand, model_name, suit_type, is_tech_suit, gender, release_year, msrp_cents, expected_races_peak, expected_races_total, fina_approved, notes, created_at`

func (r *postgresSuitModelRepository) Create(ctx context.Context, model *models.SuitModel) error {
	query := `
		INSERT INTO suit_models (brand, model_name, suit_type, is_tech_suit, gender, release_year, msrp_cents, expected_races_peak, expected_races_total, fina_approved, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		model.Brand,
		model.ModelName,
		model.SuitType,
		model.IsTechSuit,
		model.Gender,
		model.ReleaseYear,
		model.MSRPCents,
		model.ExpectedRacesPeak,
		model.ExpectedRacesTotal,
		model.FINAApproved,
		model.Notes,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "suit_models_brand_model_name_key") {
			return ErrSuitModelConflict
		}
		return fmt.Errorf("failed to create suit model: %w", err)
	}
	return nil
}

func (r *postgresSuitModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SuitModel, error) {
	query := `SELECT ` + suitModelColumns + ` FROM suit_models WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSuitModelRepository) Update(ctx context.Context, model *models.SuitModel) error {
	query := `
		UPDATE suit_models SET
			brand = $1,
			model_name = $2,
			suit_type = $3,
			is_tech_suit = $4,
			gender = $5,
			release_year = $6,
			msrp_cents = $7,
			expected_races_peak = $8,
			expected_races_total = $9,
			fina_approved = $10,
			notes = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		model.Brand,
		model.ModelName,
		model.SuitType,
		model.IsTechSuit,
		model.Gender,
		model.ReleaseYear,
		model.MSRPCents,
		model.ExpectedRacesPeak,
		model.ExpectedRacesTotal,
		model.FINAApproved,
		model.Notes,
		model.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "suit_models_brand_model_name_key") {
			return ErrSuitModelConflict
		}
		return fmt.Errorf("failed to update suit model: %w", err)
	}
	return checkRowsAffected(result, ErrSuitModelNotFound)
}

func (r *postgresSuitModelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suit_models WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("suit model still referenced by swimmer suits: %w", err)
		}
		return fmt.Errorf("failed to delete suit model: %w", err)
	}
	return checkRowsAffected(result, ErrSuitModelNotFound)
}

func (r *postgresSuitModelRepository) Search(ctx context.Context, filter SuitModelFilter) ([]models.SuitModel, error) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Brand != "" {
		add("brand ILIKE $%d", "%"+filter.Brand+"%")
	}
	if filter.ModelName != "" {
		add("model_name ILIKE $%d", "%"+filter.ModelName+"%")
	}
	if filter.SuitType != nil {
		add("suit_type = $%d", *filter.SuitType)
	}
	if filter.IsTechSuit != nil {
		add("is_tech_suit = $%d", *filter.IsTechSuit)
	}
	if filter.Gender != nil {
		add("gender = $%d", *filter.Gender)
	}
	if filter.FINAApproved != nil {
		add("fina_approved = $%d", *filter.FINAApproved)
	}

	query := `SELECT ` + suitModelColumns + ` FROM suit_models`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY brand, model_name"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search suit models: %w", err)
	}
	defer rows.Close()

	results := make([]models.SuitModel, 0)
	for rows.Next() {
		var model models.SuitModel
		if err := scanSuitModelFields(rows.Scan, &model); err != nil {
			return nil, err
		}
		results = append(results, model)
	}
	return results, rows.Err()
}

func (r *postgresSuitModelRepository) scan(row *sql.Row) (*models.SuitModel, error) {
	model := &models.SuitModel{}
	if err := scanSuitModelFields(row.Scan, model); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSuitModelNotFound
		}
		return nil, err
	}
	return model, nil
}

func scanSuitModelFields(scan func(...interface{}) error, model *models.SuitModel) error {
	return scan(
		&model.ID,
		&model.Brand,
		&model.ModelName,
		&model.SuitType,
		&model.IsTechSuit,
		&model.Gender,
		&model.ReleaseYear,
		&model.MSRPCents,
		&model.ExpectedRacesPeak,
		&model.ExpectedRacesTotal,
		&model.FINAApproved,
		&model.Notes,
		&model.CreatedAt,
	)
}

type postgresSwimmerSuitRepository struct {
	db *sql.DB
}

func NewPostgresSwimmerSuitRepository(db *sql.DB) SwimmerSuitRepository {
	return &postgresSwimmerSuitRepository{db: db}
}

const swimmerSuitColumns = `id, swimmer_id, suit_model_id, nickname, size, color, purchase_date, purchase_price_cents, purchase_location, wear_count, race_count, condition, retired_date, retirement_reason, created_at`

func (r *postgresSwimmerSuitRepository) Create(ctx context.Context, suit *models.SwimmerSuit) error {
	query := `
		INSERT INTO swimmer_suits (swimmer_id, suit_model_id, nickname, size, color, purchase_date, purchase_price_cents, purchase_location, wear_count, race_count, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		suit.SwimmerID,
		suit.SuitModelID,
		suit.Nickname,
		suit.Size,
		suit.Color,
		suit.PurchaseDate,
		suit.PurchasePriceCents,
		suit.PurchaseLocation,
		suit.WearCount,
		suit.RaceCount,
		suit.Condition,
	).Scan(&suit.ID, &suit.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("swimmer suit references a missing entity: %w", err)
		}
		return fmt.Errorf("failed to create swimmer suit: %w", err)
	}
	return nil
}

func (r *postgresSwimmerSuitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SwimmerSuit, error) {
	query := `SELECT ` + swimmerSuitColumns + ` FROM swimmer_suits WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSwimmerSuitRepository) Update(ctx context.Context, suit *models.SwimmerSuit) error {
	query := `
		UPDATE swimmer_suits SET
			nickname = $1,
			size = $2,
			color = $3,
			purchase_date = $4,
			purchase_price_cents = $5,
			purchase_location = $6,
			wear_count = $7,
			race_count = $8,
			condition = $9,
			retired_date = $10,
			retirement_reason = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		suit.Nickname,
		suit.Size,
		suit.Color,
		suit.PurchaseDate,
		suit.PurchasePriceCents,
		suit.PurchaseLocation,
		suit.WearCount,
		suit.RaceCount,
		suit.Condition,
		suit.RetiredDate,
		suit.RetirementReason,
		suit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update swimmer suit: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerSuitNotFound)
}

func (r *postgresSwimmerSuitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM swimmer_suits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete swimmer suit: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerSuitNotFound)
}

func (r *postgresSwimmerSuitRepository) ListBySwimmer(ctx context.Context, swimmerID uuid.UUID, activeOnly bool) ([]models.SwimmerSuit, error) {
	query := `SELECT ` + swimmerSuitColumns + ` FROM swimmer_suits WHERE swimmer_id = $1`
	if activeOnly {
		query += ` AND condition <> 'retired'`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, swimmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swimmer suits: %w", err)
	}
	defer rows.Close()

	suits := make([]models.SwimmerSuit, 0)
	for rows.Next() {
		var suit models.SwimmerSuit
		if err := scanSwimmerSuitFields(rows.Scan, &suit); err != nil {
			return nil, err
		}
		suits = append(suits, suit)
	}
	return suits, rows.Err()
}

func (r *postgresSwimmerSuitRepository) IncrementWearCount(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE swimmer_suits SET wear_count = wear_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment wear count: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerSuitNotFound)
}

func (r *postgresSwimmerSuitRepository) IncrementRaceCount(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE swimmer_suits SET race_count = race_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment race count: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerSuitNotFound)
}

func (r *postgresSwimmerSuitRepository) scan(row *sql.Row) (*models.SwimmerSuit, error) {
	suit := &models.SwimmerSuit{}
	if err := scanSwimmerSuitFields(row.Scan, suit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSwimmerSuitNotFound
		}
		return nil, err
	}
	return suit, nil
}

func scanSwimmerSuitFields(scan func(...interface{}) error, suit *models.SwimmerSuit) error {
	return scan(
		&suit.ID,
		&suit.SwimmerID,
		&suit.SuitModelID,
		&suit.Nickname,
		&suit.Size,
		&suit.Color,
		&suit.PurchaseDate,
		&suit.PurchasePriceCents,
		&suit.PurchaseLocation,
		&suit.WearCount,
		&suit.RaceCount,
		&suit.Condition,
		&suit.RetiredDate,
		&suit.RetirementReason,
		&suit.CreatedAt,
	)
}
