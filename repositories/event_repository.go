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
	ErrEventNotFound = errors.New("event not found")
	ErrEventConflict = errors.New("event already exists for that stroke, distance, and course")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)

	// FindByKey looks an event up by its natural key.
	FindByKey(ctx context.Context, stroke models.Stroke, distance int, course models.Course) (*models.Event, error)
	ListByCourse(ctx context.Context, course models.Course) ([]models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (stroke, distance, course)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, event.Stroke, event.Distance, event.Course).Scan(&event.ID)
	if err != nil {
		if isUniqueViolation(err, "events_stroke_distance_course_key") {
			return ErrEventConflict
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT id, stroke, distance, course FROM events WHERE id = $1`
	return r.scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresEventRepository) FindByKey(ctx context.Context, stroke models.Stroke, distance int, course models.Course) (*models.Event, error) {
	query := `SELECT id, stroke, distance, course FROM events WHERE stroke = $1 AND distance = $2 AND course = $3`
	return r.scanEvent(r.db.QueryRowContext(ctx, query, stroke, distance, course))
}

func (r *postgresEventRepository) ListByCourse(ctx context.Context, course models.Course) ([]models.Event, error) {
	query := `SELECT id, stroke, distance, course FROM events WHERE course = $1 ORDER BY stroke, distance`
	rows, err := r.db.QueryContext(ctx, query, course)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by course: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *postgresEventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT id, stroke, distance, course FROM events ORDER BY course, stroke, distance`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *postgresEventRepository) scanEvent(row *sql.Row) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(&event.ID, &event.Stroke, &event.Distance, &event.Course)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return event, nil
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Stroke, &event.Distance, &event.Course); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
