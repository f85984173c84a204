// Package api expresses the WorkPlanner REST endpoints as typed operations
// over the gateway client.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/atinyakov/WorkPlanner/internal/client/gateway"
	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

var (
	// ErrUsernameUsed is returned when signing up with a taken username.
	ErrUsernameUsed = errors.New("username already in use")
	// ErrTeamNameUsed is returned when creating a team with a taken name.
	ErrTeamNameUsed = errors.New("team name already in use")
)

// Requester is the verb-based transport the service runs on.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Service groups the user, team and plan entry operations.
type Service struct {
	r Requester
}

// NewService creates a Service on top of r.
func NewService(r Requester) *Service {
	return &Service{r: r}
}

// CreateUser registers a new account (POST /users).
func (s *Service) CreateUser(ctx context.Context, reg models.UserRegistration) error {
	if err := s.r.Post(ctx, "/users", reg, nil); err != nil {
		if gateway.IsStatus(err, http.StatusConflict) {
			return ErrUsernameUsed
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListUsers returns every user (GET /users).
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.r.Get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns one user (GET /users/{id}).
func (s *Service) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	if err := s.r.Get(ctx, fmt.Sprintf("/users/%d", userID), &u); err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return u, nil
}

// DeleteUser removes an account (DELETE /users/{id}).
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/users/%d", userID)); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// UserTeams returns the teams a user belongs to (GET /users/{id}/teams).
func (s *Service) UserTeams(ctx context.Context, userID int64) ([]models.Team, error) {
	var teams []models.Team
	if err := s.r.Get(ctx, fmt.Sprintf("/users/%d/teams", userID), &teams); err != nil {
		return nil, fmt.Errorf("user %d teams: %w", userID, err)
	}
	return teams, nil
}

// RemoveUserTeam takes a user out of a team (DELETE /users/{id}/teams/{teamId}).
func (s *Service) RemoveUserTeam(ctx context.Context, userID, teamID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/users/%d/teams/%d", userID, teamID)); err != nil {
		return fmt.Errorf("remove user %d from team %d: %w", userID, teamID, err)
	}
	return nil
}

// CreateTeam creates a team (POST /teams).
func (s *Service) CreateTeam(ctx context.Context, team models.Team) error {
	if err := s.r.Post(ctx, "/teams", team, nil); err != nil {
		if gateway.IsStatus(err, http.StatusConflict) {
			return ErrTeamNameUsed
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// ListTeams returns every team (GET /teams).
func (s *Service) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.r.Get(ctx, "/teams", &teams); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns one team (GET /teams/{id}).
func (s *Service) GetTeam(ctx context.Context, teamID int64) (models.Team, error) {
	var t models.Team
	if err := s.r.Get(ctx, fmt.Sprintf("/teams/%d", teamID), &t); err != nil {
		return models.Team{}, fmt.Errorf("get team %d: %w", teamID, err)
	}
	return t, nil
}

// DeleteTeam removes a team (DELETE /teams/{id}).
func (s *Service) DeleteTeam(ctx context.Context, teamID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/teams/%d", teamID)); err != nil {
		return fmt.Errorf("delete team %d: %w", teamID, err)
	}
	return nil
}

// TeamUsers returns the members of a team (GET /teams/{id}/users).
func (s *Service) TeamUsers(ctx context.Context, teamID int64) ([]models.User, error) {
	var users []models.User
	if err := s.r.Get(ctx, fmt.Sprintf("/teams/%d/users", teamID), &users); err != nil {
		return nil, fmt.Errorf("team %d users: %w", teamID, err)
	}
	return users, nil
}

// AddTeamUsers adds users to a team (PUT /teams/{id}/users).
func (s *Service) AddTeamUsers(ctx context.Context, teamID int64, userIDs []int64) error {
	if err := s.r.Put(ctx, fmt.Sprintf("/teams/%d/users", teamID), userIDs, nil); err != nil {
		return fmt.Errorf("add users to team %d: %w", teamID, err)
	}
	return nil
}

// RemoveTeamUser removes a member (DELETE /teams/{id}/users/{userId}).
func (s *Service) RemoveTeamUser(ctx context.Context, teamID, userID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/teams/%d/users/%d", teamID, userID)); err != nil {
		return fmt.Errorf("remove user %d from team %d: %w", userID, teamID, err)
	}
	return nil
}

// SetTeamLeader assigns a leader (PUT /teams/{id}/team-leader/{userId}).
func (s *Service) SetTeamLeader(ctx context.Context, teamID, userID int64) error {
	if err := s.r.Put(ctx, fmt.Sprintf("/teams/%d/team-leader/%d", teamID, userID), nil, nil); err != nil {
		return fmt.Errorf("set leader of team %d: %w", teamID, err)
	}
	return nil
}

// ResetTeamLeader unassigns the leader (DELETE /teams/{id}/team-leader).
func (s *Service) ResetTeamLeader(ctx context.Context, teamID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/teams/%d/team-leader", teamID)); err != nil {
		return fmt.Errorf("reset leader of team %d: %w", teamID, err)
	}
	return nil
}

// PlanEntries returns the entries of a user within a team
// (GET /plan-entries/teams/{teamId}/users/{userId}).
func (s *Service) PlanEntries(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	var entries []models.PlanEntry
	if err := s.r.Get(ctx, planEntriesPath(teamID, userID), &entries); err != nil {
		return nil, fmt.Errorf("plan entries of user %d in team %d: %w", userID, teamID, err)
	}
	return entries, nil
}

// CreatePlanEntry schedules a new entry for a user within a team. Start
// and end times are sent in the wire layout.
func (s *Service) CreatePlanEntry(ctx context.Context, teamID, userID int64, entry models.PlanEntry) error {
	entry.StartTime = toWire(entry.StartTime)
	entry.EndTime = toWire(entry.EndTime)
	if err := s.r.Post(ctx, planEntriesPath(teamID, userID), entry, nil); err != nil {
		return fmt.Errorf("create plan entry: %w", err)
	}
	return nil
}

// DeletePlanEntry removes an entry (DELETE /plan-entries/{id}).
func (s *Service) DeletePlanEntry(ctx context.Context, entryID int64) error {
	if err := s.r.Delete(ctx, fmt.Sprintf("/plan-entries/%d", entryID)); err != nil {
		return fmt.Errorf("delete plan entry %d: %w", entryID, err)
	}
	return nil
}

func toWire(s string) string {
	t := timeline.ParseTime(s)
	if t.IsZero() {
		return s
	}
	return t.Format(models.WireTimeLayout)
}

func planEntriesPath(teamID, userID int64) string {
	return fmt.Sprintf("/plan-entries/teams/%d/users/%d", teamID, userID)
}
