package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrTimeStandardNotFound = errors.New("time standard not found")
	ErrTimeStandardConflict = errors.New("time standard already exists for that event, gender, age group, and cut")
)

type TimeStandardFilter struct {
	EventID       *uuid.UUID
	Gender        *models.Gender
	AgeGroup      *string
	StandardName  *string
	EffectiveYear *int
}

type TimeStandardRepository interface {
	Create(ctx context.Context, standard *models.TimeStandard) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TimeStandard, error)
	Update(ctx context.Context, standard *models.TimeStandard) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TimeStandardFilter) ([]models.TimeStandard, error)
	// ListForSwim returns the standards a given swim can be measured
	// against: same event, matching gender, age group either matching or
	// unrestricted.
	ListForSwim(ctx context.Context, eventID uuid.UUID, gender models.Gender, ageGroup string) ([]models.TimeStandard, error)
}

type postgresTimeStandardRepository struct {
	db *sql.DB
}

func NewPostgresTimeStandardRepository(db *sql.DB) TimeStandardRepository {
	return &postgresTimeStandardRepository{db: db}
}

const timeStandardColumns = `id, event_id, gender, age_group, standard_name, cut_level, sanctioning_body, time_centiseconds, effective_year, qualifying_start, qualifying_end, created_at`

func (r *postgresTimeStandardRepository) Create(ctx context.Context, standard *models.TimeStandard) error {
	query := `
		INSERT INTO time_standards (event_id, gender, age_group, standard_name, cut_level, sanctioning_body, time_centiseconds, effective_year, qualifying_start, qualifying_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		standard.EventID,
		standard.Gender,
		standard.AgeGroup,
		standard.StandardName,
		standard.CutLevel,
		standard.SanctioningBody,
		standard.TimeCentiseconds,
		standard.EffectiveYear,
		standard.QualifyingStart,
		standard.QualifyingEnd,
	).Scan(&standard.ID, &standard.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "time_standards_identity_key") {
			return ErrTimeStandardConflict
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("time standard references a missing event: %w", err)
		}
		return fmt.Errorf("failed to create time standard: %w", err)
	}
	return nil
}

func (r *postgresTimeStandardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TimeStandard, error) {
	query := `SELECT ` + timeStandardColumns + ` FROM time_standards WHERE id = $1`
	return r.scanTimeStandard(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTimeStandardRepository) Update(ctx context.Context, standard *models.TimeStandard) error {
	query := `
		UPDATE time_standards SET
			time_centiseconds = $1,
			effective_year = $2,
			qualifying_start = $3,
			qualifying_end = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		standard.TimeCentiseconds,
		standard.EffectiveYear,
		standard.QualifyingStart,
		standard.QualifyingEnd,
		standard.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time standard: %w", err)
	}
	return checkRowsAffected(result, ErrTimeStandardNotFound)
}

func (r *postgresTimeStandardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_standards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time standard: %w", err)
	}
	return checkRowsAffected(result, ErrTimeStandardNotFound)
}

func (r *postgresTimeStandardRepository) List(ctx context.Context, filter TimeStandardFilter) ([]models.TimeStandard, error) {
	query := `SELECT ` + timeStandardColumns + ` FROM time_standards WHERE 1=1`
	args := []interface{}{}
	arg := 1

	if filter.EventID != nil {
		query += fmt.Sprintf(" AND event_id = $%d", arg)
		args = append(args, *filter.EventID)
		arg++
	}
	if filter.Gender != nil {
		query += fmt.Sprintf(" AND gender = $%d", arg)
		args = append(args, *filter.Gender)
		arg++
	}
	if filter.AgeGroup != nil {
		query += fmt.Sprintf(" AND age_group = $%d", arg)
		args = append(args, *filter.AgeGroup)
		arg++
	}
	if filter.StandardName != nil {
		query += fmt.Sprintf(" AND lower(standard_name) = lower($%d)", arg)
		args = append(args, *filter.StandardName)
		arg++
	}
	if filter.EffectiveYear != nil {
		query += fmt.Sprintf(" AND effective_year = $%d", arg)
		args = append(args, *filter.EffectiveYear)
		arg++
	}
	query += " ORDER BY standard_name, cut_level, time_centiseconds"

	return r.scanTimeStandards(ctx, query, args...)
}

func (r *postgresTimeStandardRepository) ListForSwim(ctx context.Context, eventID uuid.UUID, gender models.Gender, ageGroup string) ([]models.TimeStandard, error) {
	query := `
		SELECT ` + timeStandardColumns + `
		FROM time_standards
		WHERE event_id = $1 AND gender = $2 AND (age_group IS NULL OR age_group = $3)
		ORDER BY time_centiseconds`
	return r.scanTimeStandards(ctx, query, eventID, gender, ageGroup)
}

func (r *postgresTimeStandardRepository) scanTimeStandards(ctx context.Context, query string, args ...interface{}) ([]models.TimeStandard, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time standards: %w", err)
	}
	defer rows.Close()

	standards := make([]models.TimeStandard, 0)
	for rows.Next() {
		var standard models.TimeStandard
		err := rows.Scan(
			&standard.ID,
			&standard.EventID,
			&standard.Gender,
			&standard.AgeGroup,
			&standard.StandardName,
			&standard.CutLevel,
			&standard.SanctioningBody,
			&standard.TimeCentiseconds,
			&standard.EffectiveYear,
			&standard.QualifyingStart,
			&standard.QualifyingEnd,
			&standard.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time standard row: %w", err)
		}
		standards = append(standards, standard)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return standards, nil
}

func (r *postgresTimeStandardRepository) scanTimeStandard(row *sql.Row) (*models.TimeStandard, error) {
	standard := &models.TimeStandard{}
	err := row.Scan(
		&standard.ID,
		&standard.EventID,
		&standard.Gender,
		&standard.AgeGroup,
		&standard.StandardName,
		&standard.CutLevel,
		&standard.SanctioningBody,
		&standard.TimeCentiseconds,
		&standard.EffectiveYear,
		&standard.QualifyingStart,
		&standard.QualifyingEnd,
		&standard.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTimeStandardNotFound
		}
		return nil, fmt.Errorf("failed to scan time standard: %w", err)
	}
	return standard, nil
}
