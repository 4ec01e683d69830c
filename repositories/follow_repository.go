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
	ErrFollowNotFound   = errors.New("follow not found")
	ErrAlreadyFollowing = errors.New("already following that swimmer")
)

type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, userID, swimmerID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error)
	ListFollowers(ctx context.Context, swimmerID uuid.UUID) ([]models.Follow, error)
}

type postgresFollowRepository struct {
	db *sql.DB
}

func NewPostgresFollowRepository(db *sql.DB) FollowRepository {
	return &postgresFollowRepository{db: db}
}

func (r *postgresFollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	query := `
		INSERT INTO follows (user_id, swimmer_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, follow.UserID, follow.SwimmerID).
		Scan(&follow.ID, &follow.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "follows_user_id_swimmer_id_key") {
			return ErrAlreadyFollowing
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("follow references a missing user or swimmer: %w", err)
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

func (r *postgresFollowRepository) Delete(ctx context.Context, userID, swimmerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = $1 AND swimmer_id = $2`, userID, swimmerID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return checkRowsAffected(result, ErrFollowNotFound)
}

func (r *postgresFollowRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error) {
	return r.list(ctx, `SELECT id, user_id, swimmer_id, created_at FROM follows WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (r *postgresFollowRepository) ListFollowers(ctx context.Context, swimmerID uuid.UUID) ([]models.Follow, error) {
	return r.list(ctx, `SELECT id, user_id, swimmer_id, created_at FROM follows WHERE swimmer_id = $1 ORDER BY created_at`, swimmerID)
}

func (r *postgresFollowRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Follow, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	follows := make([]models.Follow, 0)
	for rows.Next() {
		var follow models.Follow
		if err := rows.Scan(&follow.ID, &follow.UserID, &follow.SwimmerID, &follow.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow row: %w", err)
		}
		follows = append(follows, follow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return follows, nil
}
