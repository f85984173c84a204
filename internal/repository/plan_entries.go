package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// PlanEntryRecord is a plan entry about to be stored.
type PlanEntryRecord struct {
	Title string
	Start time.Time
	End   time.Time
	Color models.PlanEntryColor
}

// PostgresPlanEntryRepository stores plan entries.
type PostgresPlanEntryRepository struct {
	DB *sql.DB
}

// NewPostgresPlanEntryRepository creates a PostgresPlanEntryRepository.
func NewPostgresPlanEntryRepository(db *sql.DB) *PostgresPlanEntryRepository {
	return &PostgresPlanEntryRepository{DB: db}
}

const planEntryColumns = `id, title, start_time, end_time, color`

func scanPlanEntry(row rowScanner) (models.PlanEntry, error) {
	var e models.PlanEntry
	var start, end time.Time
	if err := row.Scan(&e.ID, &e.Title, &start, &end, &e.PlanEntryColor); err != nil {
		return models.PlanEntry{}, err
	}
	e.StartTime = start.Format(models.WireTimeLayout)
	e.EndTime = end.Format(models.WireTimeLayout)
	return e, nil
}

func (r *PostgresPlanEntryRepository) query(ctx context.Context, q string, args ...any) ([]models.PlanEntry, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query plan entries: %w", err)
	}
	defer rows.Close()

	entries := []models.PlanEntry{}
	for rows.Next() {
		e, err := scanPlanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// List returns every plan entry ordered by start time.
func (r *PostgresPlanEntryRepository) List(ctx context.Context) ([]models.PlanEntry, error) {
	return r.query(ctx, `SELECT `+planEntryColumns+` FROM plan_entries ORDER BY start_time, id`)
}

// ListFor returns the entries of userID within teamID ordered by start time.
func (r *PostgresPlanEntryRepository) ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	return r.query(ctx, `
		SELECT `+planEntryColumns+` FROM plan_entries
		 WHERE team_id = $1 AND user_id = $2
		 ORDER BY start_time, id
	`, teamID, userID)
}

// Get returns one plan entry.
func (r *PostgresPlanEntryRepository) Get(ctx context.Context, id int64) (models.PlanEntry, error) {
	e, err := scanPlanEntry(r.DB.QueryRowContext(ctx,
		`SELECT `+planEntryColumns+` FROM plan_entries WHERE id = $1`, id))
	if err != nil {
		return models.PlanEntry{}, translate(err)
	}
	return e, nil
}

// Create stores an entry for userID within teamID and returns its id.
func (r *PostgresPlanEntryRepository) Create(ctx context.Context, teamID, userID int64, rec PlanEntryRecord) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO plan_entries (title, start_time, end_time, color, team_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, rec.Title, rec.Start, rec.End, rec.Color, teamID, userID).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// Delete removes a plan entry.
func (r *PostgresPlanEntryRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.DB.ExecContext(ctx, `DELETE FROM plan_entries WHERE id = $1`, id))
}
