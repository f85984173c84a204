package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// PostgresUserRepository stores accounts in the users table.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `u.id, u.username, u.first_name, u.last_name, u.role`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Role)
	return u, err
}

// Create inserts an account and returns its id. A taken username yields
// ErrAlreadyUsed.
func (r *PostgresUserRepository) Create(ctx context.Context, u models.User, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, first_name, last_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, u.Username, u.FirstName, u.LastName, passwordHash, u.Role).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// List returns every user ordered by first name.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.first_name, u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Get returns the user with the given id.
func (r *PostgresUserRepository) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

// Credentials returns the account and password hash for username.
func (r *PostgresUserRepository) Credentials(ctx context.Context, username string) (models.User, string, error) {
	var u models.User
	var hash string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, role, password_hash FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &hash)
	if err != nil {
		return models.User{}, "", translate(err)
	}
	return u, hash, nil
}

// Delete removes a user. Memberships, plan entries and leaderships go with
// it through the foreign keys.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

// Teams returns the teams a user belongs to, ordered by name.
func (r *PostgresUserRepository) Teams(ctx context.Context, userID int64) ([]models.Team, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+teamColumns+`
		  FROM team_members m
		  JOIN teams t ON t.id = m.team_id
		  LEFT JOIN users l ON l.id = t.team_leader_id
		 WHERE m.user_id = $1
		 ORDER BY t.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("user teams: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

// JoinTeam adds the user to a team; joining twice is a no-op.
func (r *PostgresUserRepository) JoinTeam(ctx context.Context, userID, teamID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, teamID, userID)
	return translate(err)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
