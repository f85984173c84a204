package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// PostgresTeamRepository stores teams, their members and leaders.
type PostgresTeamRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresTeamRepository creates a PostgresTeamRepository using the provided *sql.DB.
func NewPostgresTeamRepository(db *sql.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{DB: db}
}

const teamColumns = `t.id, t.name, t.description, l.id, l.username, l.first_name, l.last_name, l.role`

func scanTeam(row rowScanner) (models.Team, error) {
	var t models.Team
	var l leader
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &l.id, &l.username, &l.firstName, &l.lastName, &l.role); err != nil {
		return models.Team{}, err
	}
	if l.id.Valid {
		t.TeamLeader = &models.User{
			ID:        l.id.Int64,
			Username:  l.username.String,
			FirstName: l.firstName.String,
			LastName:  l.lastName.String,
			Role:      models.Role(l.role.String),
		}
	}
	return t, nil
}

func collectTeams(rows *sql.Rows) ([]models.Team, error) {
	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Create inserts a team and returns its id. A taken name yields
// ErrAlreadyUsed.
func (r *PostgresTeamRepository) Create(ctx context.Context, t models.Team) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO teams (name, description) VALUES ($1, $2) RETURNING id
	`, t.Name, t.Description).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// List returns every team ordered by name.
func (r *PostgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+teamColumns+` FROM teams t LEFT JOIN users l ON l.id = t.team_leader_id ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

// Get returns the team with the given id.
func (r *PostgresTeamRepository) Get(ctx context.Context, id int64) (models.Team, error) {
	t, err := scanTeam(r.DB.QueryRowContext(ctx, `
		SELECT `+teamColumns+` FROM teams t LEFT JOIN users l ON l.id = t.team_leader_id WHERE t.id = $1
	`, id))
	if err != nil {
		return models.Team{}, translate(err)
	}
	return t, nil
}

// Delete removes a team with its memberships and plan entries.
func (r *PostgresTeamRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.DB.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id))
}

// Members returns the users of a team ordered by first name.
func (r *PostgresTeamRepository) Members(ctx context.Context, teamID int64) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+userColumns+`
		  FROM team_members m
		  JOIN users u ON u.id = m.user_id
		 WHERE m.team_id = $1
		 ORDER BY u.first_name, u.id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("team members: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// AddMembers adds users to a team; users already in it are skipped. An
// unknown user id yields ErrNotFound and nothing is added.
func (r *PostgresTeamRepository) AddMembers(ctx context.Context, teamID int64, userIDs []int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, teamID, pq.Array(userIDs))
	return translate(err)
}

// RemoveMember takes a user out of a team and drops the user's leadership
// of it.
func (r *PostgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := affected(tx.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE teams SET team_leader_id = NULL WHERE id = $1 AND team_leader_id = $2`, teamID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetLeader makes userID the leader of teamID, adding the membership if
// needed.
func (r *PostgresTeamRepository) SetLeader(ctx context.Context, teamID, userID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, teamID, userID); err != nil {
		return translate(err)
	}
	if err := affected(tx.ExecContext(ctx,
		`UPDATE teams SET team_leader_id = $2 WHERE id = $1`, teamID, userID)); err != nil {
		return err
	}
	return tx.Commit()
}

// ResetLeader leaves the team without a leader.
func (r *PostgresTeamRepository) ResetLeader(ctx context.Context, teamID int64) error {
	return affected(r.DB.ExecContext(ctx, `UPDATE teams SET team_leader_id = NULL WHERE id = $1`, teamID))
}
