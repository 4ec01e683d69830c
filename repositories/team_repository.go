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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByName is an exact case-insensitive lookup, the dedup key for
	// team resolution during import.
	FindByName(ctx context.Context, name string) (*models.Team, error)
	ListByType(ctx context.Context, teamType models.TeamType) ([]models.Team, error)
	ListByLSC(ctx context.Context, lsc string) ([]models.Team, error)
	List(ctx context.Context, limit, offset int) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, team_type, sanctioning_body, lsc, division, state, country, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, team_type, sanctioning_body, lsc, division, state, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.TeamType,
		team.SanctioningBody,
		team.LSC,
		team.Division,
		team.State,
		team.Country,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "teams_name_key") {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			team_type = $2,
			sanctioning_body = $3,
			lsc = $4,
			division = $5,
			state = $6,
			country = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.TeamType,
		team.SanctioningBody,
		team.LSC,
		team.Division,
		team.State,
		team.Country,
		team.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "teams_name_key") {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) FindByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE lower(name) = lower($1)`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresTeamRepository) ListByType(ctx context.Context, teamType models.TeamType) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_type = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, teamType)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by type: %w", err)
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *postgresTeamRepository) ListByLSC(ctx context.Context, lsc string) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE lsc = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, lsc)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by lsc: %w", err)
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *postgresTeamRepository) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.TeamType,
		&team.SanctioningBody,
		&team.LSC,
		&team.Division,
		&team.State,
		&team.Country,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func scanTeams(rows *sql.Rows) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.TeamType,
			&team.SanctioningBody,
			&team.LSC,
			&team.Division,
			&team.State,
			&team.Country,
			&team.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
