package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

// PlanEntryRepository defines the persistence operations required by the
// PlanEntryService.
type PlanEntryRepository interface {
	List(ctx context.Context) ([]models.PlanEntry, error)
	ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error)
	Get(ctx context.Context, id int64) (models.PlanEntry, error)
	Create(ctx context.Context, teamID, userID int64, rec repository.PlanEntryRecord) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// TeamLookup finds a single team.
type TeamLookup interface {
	Get(ctx context.Context, id int64) (models.Team, error)
}

// PlanEntryService implements plan entry scheduling.
type PlanEntryService struct {
	entries PlanEntryRepository
	teams   TeamLookup
	users   UserLookup
}

// NewPlanEntryService constructs a PlanEntryService.
func NewPlanEntryService(entries PlanEntryRepository, teams TeamLookup, users UserLookup) *PlanEntryService {
	return &PlanEntryService{entries: entries, teams: teams, users: users}
}

// parseWireTime accepts the wire layout and the same layout with a space
// separator.
func parseWireTime(s string) (time.Time, bool) {
	t, err := time.Parse(models.WireTimeLayout, strings.Replace(s, " ", "T", 1))
	return t, err == nil
}

// List returns every plan entry.
func (s *PlanEntryService) List(ctx context.Context) ([]models.PlanEntry, error) {
	return s.entries.List(ctx)
}

// Get returns one plan entry.
func (s *PlanEntryService) Get(ctx context.Context, id int64) (models.PlanEntry, error) {
	e, err := s.entries.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.PlanEntry{}, ErrPlanEntryNotFound
	}
	return e, err
}

// ListFor returns the entries of a user within a team.
func (s *PlanEntryService) ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	if err := s.check(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.entries.ListFor(ctx, teamID, userID)
}

// Create schedules an entry for a user within a team.
func (s *PlanEntryService) Create(ctx context.Context, teamID, userID int64, e models.PlanEntry) (models.PlanEntry, error) {
	start, okStart := parseWireTime(e.StartTime)
	end, okEnd := parseWireTime(e.EndTime)

	var v validator
	n := utf8.RuneCountInString(e.Title)
	v.check(n >= 4 && n <= 20, "Title must contain between 4 and 20 characters")
	v.check(okStart, "Start time is required")
	v.check(okEnd, "End time is required")
	v.check(!okStart || !okEnd || end.After(start), "End time must be after start time")
	v.check(e.PlanEntryColor.Valid(), "Color must be one of RED, GREEN, BLUE, GRAY")
	if err := v.err(); err != nil {
		return models.PlanEntry{}, err
	}

	if err := s.check(ctx, teamID, userID); err != nil {
		return models.PlanEntry{}, err
	}

	id, err := s.entries.Create(ctx, teamID, userID, repository.PlanEntryRecord{
		Title: e.Title,
		Start: start,
		End:   end,
		Color: e.PlanEntryColor,
	})
	if err != nil {
		return models.PlanEntry{}, err
	}
	return models.PlanEntry{
		ID:             id,
		Title:          e.Title,
		StartTime:      start.Format(models.WireTimeLayout),
		EndTime:        end.Format(models.WireTimeLayout),
		PlanEntryColor: e.PlanEntryColor,
	}, nil
}

// Delete removes a plan entry.
func (s *PlanEntryService) Delete(ctx context.Context, id int64) error {
	err := s.entries.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanEntryNotFound
	}
	return err
}

func (s *PlanEntryService) check(ctx context.Context, teamID, userID int64) error {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
