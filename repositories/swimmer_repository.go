package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrSwimmerNotFound      = errors.New("swimmer not found")
	ErrSwimmerUSAIDConflict = errors.New("usa swimming id already registered")
)

// SwimmerFilter narrows a swimmer search. Zero fields are ignored.
type SwimmerFilter struct {
	Name   string // partial match on first or last name
	Gender models.Gender
	MinAge int
	MaxAge int
	Limit  int
}

type SwimmerRepository interface {
	Create(ctx context.Context, swimmer *models.Swimmer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Swimmer, error)
	Update(ctx context.Context, swimmer *models.Swimmer) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByUSASwimmingID(ctx context.Context, usaSwimmingID string) (*models.Swimmer, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]models.Swimmer, error)
	FindByNameAndDOB(ctx context.Context, firstName, lastName string, dateOfBirth time.Time) (*models.Swimmer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Swimmer, error)
	Search(ctx context.Context, filter SwimmerFilter) ([]models.Swimmer, error)
}

type postgresSwimmerRepository struct {
	db *sql.DB
}

func NewPostgresSwimmerRepository(db *sql.DB) SwimmerRepository {
	return &postgresSwimmerRepository{db: db}
}

const swimmerColumns = `id, first_name, last_name, date_of_birth, gender, usa_swimming_id, user_id, created_at`

func (r *postgresSwimmerRepository) Create(ctx context.Context, swimmer *models.Swimmer) error {
	query := `
		INSERT INTO swimmers (first_name, last_name, date_of_birth, gender, usa_swimming_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		swimmer.FirstName,
		swimmer.LastName,
		swimmer.DateOfBirth,
		swimmer.Gender,
		swimmer.USASwimmingID,
		swimmer.UserID,
	).Scan(&swimmer.ID, &swimmer.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "swimmers_usa_swimming_id_key") {
			return ErrSwimmerUSAIDConflict
		}
		return fmt.Errorf("failed to create swimmer: %w", err)
	}
	return nil
}

func (r *postgresSwimmerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Swimmer, error) {
	query := `SELECT ` + swimmerColumns + ` FROM swimmers WHERE id = $1`
	return r.scanSwimmer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSwimmerRepository) Update(ctx context.Context, swimmer *models.Swimmer) error {
	query := `
		UPDATE swimmers SET
			first_name = $1,
			last_name = $2,
			date_of_birth = $3,
			gender = $4,
			usa_swimming_id = $5,
			user_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		swimmer.FirstName,
		swimmer.LastName,
		swimmer.DateOfBirth,
		swimmer.Gender,
		swimmer.USASwimmingID,
		swimmer.UserID,
		swimmer.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "swimmers_usa_swimming_id_key") {
			return ErrSwimmerUSAIDConflict
		}
		return fmt.Errorf("failed to update swimmer: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerNotFound)
}

func (r *postgresSwimmerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM swimmers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete swimmer: %w", err)
	}
	return checkRowsAffected(result, ErrSwimmerNotFound)
}

func (r *postgresSwimmerRepository) FindByUSASwimmingID(ctx context.Context, usaSwimmingID string) (*models.Swimmer, error) {
	query := `SELECT ` + swimmerColumns + ` FROM swimmers WHERE usa_swimming_id = $1`
	return r.scanSwimmer(r.db.QueryRowContext(ctx, query, usaSwimmingID))
}

func (r *postgresSwimmerRepository) FindByName(ctx context.Context, firstName, lastName string) ([]models.Swimmer, error) {
	query := `
		SELECT ` + swimmerColumns + `
		FROM swimmers
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)
		ORDER BY date_of_birth`

	rows, err := r.db.QueryContext(ctx, query, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to find swimmers by name: %w", err)
	}
	defer rows.Close()
	return scanSwimmers(rows)
}

func (r *postgresSwimmerRepository) FindByNameAndDOB(ctx context.Context, firstName, lastName string, dateOfBirth time.Time) (*models.Swimmer, error) {
	query := `
		SELECT ` + swimmerColumns + `
		FROM swimmers
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2) AND date_of_birth = $3`
	return r.scanSwimmer(r.db.QueryRowContext(ctx, query, firstName, lastName, dateOfBirth))
}

func (r *postgresSwimmerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Swimmer, error) {
	query := `SELECT ` + swimmerColumns + ` FROM swimmers WHERE user_id = $1`
	return r.scanSwimmer(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresSwimmerRepository) Search(ctx context.Context, filter SwimmerFilter) ([]models.Swimmer, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args)))
	}
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)))
	}

	now := time.Now()
	if filter.MaxAge > 0 {
		// Oldest allowed: born after (now - maxAge - 1 years).
		args = append(args, now.AddDate(-filter.MaxAge-1, 0, 0))
		conditions = append(conditions, fmt.Sprintf("date_of_birth > $%d", len(args)))
	}
	if filter.MinAge > 0 {
		args = append(args, now.AddDate(-filter.MinAge, 0, 0))
		conditions = append(conditions, fmt.Sprintf("date_of_birth <= $%d", len(args)))
	}

	query := `SELECT ` + swimmerColumns + ` FROM swimmers`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_name, first_name"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search swimmers: %w", err)
	}
	defer rows.Close()
	return scanSwimmers(rows)
}

func (r *postgresSwimmerRepository) scanSwimmer(row *sql.Row) (*models.Swimmer, error) {
	swimmer := &models.Swimmer{}
	err := row.Scan(
		&swimmer.ID,
		&swimmer.FirstName,
		&swimmer.LastName,
		&swimmer.DateOfBirth,
		&swimmer.Gender,
		&swimmer.USASwimmingID,
		&swimmer.UserID,
		&swimmer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("failed to scan swimmer: %w", err)
	}
	return swimmer, nil
}

func scanSwimmers(rows *sql.Rows) ([]models.Swimmer, error) {
	swimmers := make([]models.Swimmer, 0)
	for rows.Next() {
		var swimmer models.Swimmer
		err := rows.Scan(
			&swimmer.ID,
			&swimmer.FirstName,
			&swimmer.LastName,
			&swimmer.DateOfBirth,
			&swimmer.Gender,
			&swimmer.USASwimmingID,
			&swimmer.UserID,
			&swimmer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swimmer row: %w", err)
		}
		swimmers = append(swimmers, swimmer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return swimmers, nil
}
