package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
)

var (
	ErrMeetNotFound = errors.New("meet not found")
	ErrMeetConflict = errors.New("meet with that name and start date already exists")
)

type MeetRepository interface {
	Create(ctx context.Context, meet *models.Meet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meet, error)
	Update(ctx context.Context, meet *models.Meet) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByName returns meets whose name contains the given text,
	// case-insensitively. Resolution picks the exact match when several
	// partial matches come back.
	FindByName(ctx context.Context, name string) ([]models.Meet, error)
	FindByNameAndDate(ctx context.Context, name string, startDate time.Time) (*models.Meet, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Meet, error)
	List(ctx context.Context, limit, offset int) ([]models.Meet, error)
}

type postgresMeetRepository struct {
	db *sql.DB
}

func NewPostgresMeetRepository(db *sql.DB) MeetRepository {
	return &postgresMeetRepository{db: db}
}

const meetColumns = `id, name, location, city, state, country, start_date, end_date, course, lanes, indoor, sanctioning_body, meet_type, created_at`

func (r *postgresMeetRepository) Create(ctx context.Context, meet *models.Meet) error {
	query := `
		INSERT INTO meets (name, location, city, state, country, start_date, end_date, course, lanes, indoor, sanctioning_body, meet_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		meet.Name,
		meet.Location,
		meet.City,
		meet.State,
		meet.Country,
		meet.StartDate,
		meet.EndDate,
		meet.Course,
		meet.Lanes,
		meet.Indoor,
		meet.SanctioningBody,
		meet.MeetType,
	).Scan(&meet.ID, &meet.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "meets_name_start_date_key") {
			return ErrMeetConflict
		}
		return fmt.Errorf("failed to create meet: %w", err)
	}
	return nil
}

func (r *postgresMeetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meet, error) {
	query := `SELECT ` + meetColumns + ` FROM meets WHERE id = $1`
	return r.scanMeet(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMeetRepository) Update(ctx context.Context, meet *models.Meet) error {
	query := `
		UPDATE meets SET
			name = $1,
			location = $2,
			city = $3,
			state = $4,
			country = $5,
			start_date = $6,
			end_date = $7,
			course = $8,
			lanes = $9,
			indoor = $10,
			sanctioning_body = $11,
			meet_type = $12
		WHERE id = $13`

	result, err := r.db.ExecContext(ctx, query,
		meet.Name,
		meet.Location,
		meet.City,
		meet.State,
		meet.Country,
		meet.StartDate,
		meet.EndDate,
		meet.Course,
		meet.Lanes,
		meet.Indoor,
		meet.SanctioningBody,
		meet.MeetType,
		meet.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "meets_name_start_date_key") {
			return ErrMeetConflict
		}
		return fmt.Errorf("failed to update meet: %w", err)
	}
	return checkRowsAffected(result, ErrMeetNotFound)
}

func (r *postgresMeetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meet: %w", err)
	}
	return checkRowsAffected(result, ErrMeetNotFound)
}

func (r *postgresMeetRepository) FindByName(ctx context.Context, name string) ([]models.Meet, error) {
	query := `SELECT ` + meetColumns + ` FROM meets WHERE name ILIKE '%' || $1 || '%' ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find meets by name: %w", err)
	}
	defer rows.Close()
	return scanMeets(rows)
}

func (r *postgresMeetRepository) FindByNameAndDate(ctx context.Context, name string, startDate time.Time) (*models.Meet, error) {
	query := `SELECT ` + meetColumns + ` FROM meets WHERE lower(name) = lower($1) AND start_date = $2`
	return r.scanMeet(r.db.QueryRowContext(ctx, query, name, startDate))
}

func (r *postgresMeetRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Meet, error) {
	query := `SELECT ` + meetColumns + ` FROM meets WHERE start_date >= $1 AND start_date <= $2 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets between dates: %w", err)
	}
	defer rows.Close()
	return scanMeets(rows)
}

func (r *postgresMeetRepository) List(ctx context.Context, limit, offset int) ([]models.Meet, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + meetColumns + ` FROM meets ORDER BY start_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets: %w", err)
	}
	defer rows.Close()
	return scanMeets(rows)
}

func (r *postgresMeetRepository) scanMeet(row *sql.Row) (*models.Meet, error) {
	meet := &models.Meet{}
	err := row.Scan(
		&meet.ID,
		&meet.Name,
		&meet.Location,
		&meet.City,
		&meet.State,
		&meet.Country,
		&meet.StartDate,
		&meet.EndDate,
		&meet.Course,
		&meet.Lanes,
		&meet.Indoor,
		&meet.SanctioningBody,
		&meet.MeetType,
		&meet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMeetNotFound
		}
		return nil, fmt.Errorf("failed to scan meet: %w", err)
	}
	return meet, nil
}

func scanMeets(rows *sql.Rows) ([]models.Meet, error) {
	meets := make([]models.Meet, 0)
	for rows.Next() {
		var meet models.Meet
		err := rows.Scan(
			&meet.ID,
			&meet.Name,
			&meet.Location,
			&meet.City,
			&meet.State,
			&meet.Country,
			&meet.StartDate,
			&meet.EndDate,
			&meet.Course,
			&meet.Lanes,
			&meet.Indoor,
			&meet.SanctioningBody,
			&meet.MeetType,
			&meet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meet row: %w", err)
		}
		meets = append(meets, meet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meets, nil
}
