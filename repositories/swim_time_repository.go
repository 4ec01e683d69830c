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
	ErrSwimTimeNotFound = errors.New("swim time not found")
	ErrSwimTimeConflict = errors.New("swim time already exists for that swimmer, event, meet, and date")
)

type SwimTimeRepository interface {
	// Create inserts the time and its splits in one transaction.
	Create(ctx context.Context, swimTime *models.SwimTime) error
	// Update rewrites the time's mutable fields and replaces its splits.
	Update(ctx context.Context, swimTime *models.SwimTime) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SwimTime, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByNaturalKey is the upsert identity lookup:
	// (swimmer, event, meet, swim date).
	FindByNaturalKey(ctx context.Context, swimmerID, eventID, meetID uuid.UUID, swimDate time.Time) (*models.SwimTime, error)
	ListBySwimmer(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error)
	ListBySwimmerAndEvent(ctx context.Context, swimmerID, eventID uuid.UUID) ([]models.SwimTime, error)
	ListByMeet(ctx context.Context, meetID uuid.UUID) ([]models.SwimTime, error)
}

type postgresSwimTimeRepository struct {
	db *sql.DB
}

func NewPostgresSwimTimeRepository(db *sql.DB) SwimTimeRepository {
	return &postgresSwimTimeRepository{db: db}
}

const swimTimeColumns = `id, swimmer_id, event_id, meet_id, team_id, time_centiseconds, swim_date, round, lane, place, official, dq, dq_reason, suit_id, created_at`

func (r *postgresSwimTimeRepository) Create(ctx context.Context, swimTime *models.SwimTime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO swim_times (swimmer_id, event_id, meet_id, team_id, time_centiseconds, swim_date, round, lane, place, official, dq, dq_reason, suit_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		swimTime.SwimmerID,
		swimTime.EventID,
		swimTime.MeetID,
		swimTime.TeamID,
		swimTime.TimeCentiseconds,
		swimTime.SwimDate,
		swimTime.Round,
		swimTime.Lane,
		swimTime.Place,
		swimTime.Official,
		swimTime.DQ,
		swimTime.DQReason,
		swimTime.SuitID,
	).Scan(&swimTime.ID, &swimTime.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "swim_times_natural_key") {
			return ErrSwimTimeConflict
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("swim time references a missing entity: %w", err)
		}
		return fmt.Errorf("failed to create swim time: %w", err)
	}

	if err := insertSplits(ctx, tx, swimTime.ID, swimTime.Splits); err != nil {
		return err
	}
	for i := range swimTime.Splits {
		swimTime.Splits[i].SwimTimeID = swimTime.ID
	}

	return tx.Commit()
}

func (r *postgresSwimTimeRepository) Update(ctx context.Context, swimTime *models.SwimTime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE swim_times SET
			team_id = $1,
			time_centiseconds = $2,
			round = $3,
			lane = $4,
			place = $5,
			official = $6,
			dq = $7,
			dq_reason = $8,
			suit_id = $9
		WHERE id = $10`

	result, err := tx.ExecContext(ctx, query,
		swimTime.TeamID,
		swimTime.TimeCentiseconds,
		swimTime.Round,
		swimTime.Lane,
		swimTime.Place,
		swimTime.Official,
		swimTime.DQ,
		swimTime.DQReason,
		swimTime.SuitID,
		swimTime.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update swim time: %w", err)
	}
	if err := checkRowsAffected(result, ErrSwimTimeNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE swim_time_id = $1`, swimTime.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, swimTime.ID, swimTime.Splits); err != nil {
		return err
	}
	for i := range swimTime.Splits {
		swimTime.Splits[i].SwimTimeID = swimTime.ID
	}

	return tx.Commit()
}

func (r *postgresSwimTimeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SwimTime, error) {
	query := `SELECT ` + swimTimeColumns + ` FROM swim_times WHERE id = $1`
	swimTime, err := r.scanSwimTime(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadSplits(ctx, swimTime); err != nil {
		return nil, err
	}
	return swimTime, nil
}

func (r *postgresSwimTimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Splits go with the time via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM swim_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete swim time: %w", err)
	}
	return checkRowsAffected(result, ErrSwimTimeNotFound)
}

func (r *postgresSwimTimeRepository) FindByNaturalKey(ctx context.Context, swimmerID, eventID, meetID uuid.UUID, swimDate time.Time) (*models.SwimTime, error) {
	query := `
		SELECT ` + swimTimeColumns + `
		FROM swim_times
		WHERE swimmer_id = $1 AND event_id = $2 AND meet_id = $3 AND swim_date = $4`

	swimTime, err := r.scanSwimTime(r.db.QueryRowContext(ctx, query, swimmerID, eventID, meetID, swimDate))
	if err != nil {
		return nil, err
	}
	if err := r.loadSplits(ctx, swimTime); err != nil {
		return nil, err
	}
	return swimTime, nil
}

func (r *postgresSwimTimeRepository) ListBySwimmer(ctx context.Context, swimmerID uuid.UUID) ([]models.SwimTime, error) {
	query := `SELECT ` + swimTimeColumns + ` FROM swim_times WHERE swimmer_id = $1 ORDER BY swim_date DESC`
	return r.list(ctx, query, swimmerID)
}

func (r *postgresSwimTimeRepository) ListBySwimmerAndEvent(ctx context.Context, swimmerID, eventID uuid.UUID) ([]models.SwimTime, error) {
	query := `SELECT ` + swimTimeColumns + ` FROM swim_times WHERE swimmer_id = $1 AND event_id = $2 ORDER BY swim_date DESC`
	return r.list(ctx, query, swimmerID, eventID)
}

func (r *postgresSwimTimeRepository) ListByMeet(ctx context.Context, meetID uuid.UUID) ([]models.SwimTime, error) {
	query := `SELECT ` + swimTimeColumns + ` FROM swim_times WHERE meet_id = $1 ORDER BY swim_date, time_centiseconds`
	return r.list(ctx, query, meetID)
}

func insertSplits(ctx context.Context, tx *sql.Tx, swimTimeID uuid.UUID, splits []models.Split) error {
	for i := range splits {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO splits (swim_time_id, distance, time_centiseconds) VALUES ($1, $2, $3) RETURNING id`,
			swimTimeID, splits[i].Distance, splits[i].TimeCentiseconds,
		).Scan(&splits[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert split at %d: %w", splits[i].Distance, err)
		}
	}
	return nil
}

func (r *postgresSwimTimeRepository) loadSplits(ctx context.Context, swimTime *models.SwimTime) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, swim_time_id, distance, time_centiseconds FROM splits WHERE swim_time_id = $1 ORDER BY distance`,
		swimTime.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load splits: %w", err)
	}
	defer rows.Close()

	splits := make([]models.Split, 0)
	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ID, &split.SwimTimeID, &split.Distance, &split.TimeCentiseconds); err != nil {
			return fmt.Errorf("failed to scan split row: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	swimTime.Splits = splits
	return nil
}

func (r *postgresSwimTimeRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.SwimTime, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list swim times: %w", err)
	}
	defer rows.Close()

	times := make([]models.SwimTime, 0)
	for rows.Next() {
		var swimTime models.SwimTime
		err := rows.Scan(
			&swimTime.ID,
			&swimTime.SwimmerID,
			&swimTime.EventID,
			&swimTime.MeetID,
			&swimTime.TeamID,
			&swimTime.TimeCentiseconds,
			&swimTime.SwimDate,
			&swimTime.Round,
			&swimTime.Lane,
			&swimTime.Place,
			&swimTime.Official,
			&swimTime.DQ,
			&swimTime.DQReason,
			&swimTime.SuitID,
			&swimTime.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swim time row: %w", err)
		}
		times = append(times, swimTime)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}

func (r *postgresSwimTimeRepository) scanSwimTime(row *sql.Row) (*models.SwimTime, error) {
	swimTime := &models.SwimTime{}
	err := row.Scan(
		&swimTime.ID,
		&swimTime.SwimmerID,
		&swimTime.EventID,
		&swimTime.MeetID,
		&swimTime.TeamID,
		&swimTime.TimeCentiseconds,
		&swimTime.SwimDate,
		&swimTime.Round,
		&swimTime.Lane,
		&swimTime.Place,
		&swimTime.Official,
		&swimTime.DQ,
		&swimTime.DQReason,
		&swimTime.SuitID,
		&swimTime.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSwimTimeNotFound
		}
		return nil, fmt.Errorf("failed to scan swim time: %w", err)
	}
	return swimTime, nil
}
