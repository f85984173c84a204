package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

// TeamRepository defines the persistence operations required by the
// TeamService.
type TeamRepository interface {
	MembershipRepository
	Create(ctx context.Context, t models.Team) (int64, error)
	List(ctx context.Context) ([]models.Team, error)
	Get(ctx context.Context, id int64) (models.Team, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, teamID int64) ([]models.User, error)
	AddMembers(ctx context.Context, teamID int64, userIDs []int64) error
	SetLeader(ctx context.Context, teamID, userID int64) error
	ResetLeader(ctx context.Context, teamID int64) error
}

// UserLookup finds a single user.
type UserLookup interface {
	Get(ctx context.Context, id int64) (models.User, error)
}

// TeamService implements team management.
type TeamService struct {
	teams TeamRepository
	users UserLookup
}

// NewTeamService constructs a TeamService.
func NewTeamService(teams TeamRepository, users UserLookup) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// Create creates a team without leader or members.
func (s *TeamService) Create(ctx context.Context, t models.Team) (models.Team, error) {
	var v validator
	v.check(length(t.Name, 5, 20), "Team name must contain between 5 and 20 characters")
	v.check(utf8.RuneCountInString(t.Description) <= 30, "Description must contain at most 30 characters")
	if err := v.err(); err != nil {
		return models.Team{}, err
	}

	id, err := s.teams.Create(ctx, t)
	if errors.Is(err, repository.ErrAlreadyUsed) {
		return models.Team{}, ErrTeamNameUsed
	}
	if err != nil {
		return models.Team{}, err
	}
	return models.Team{ID: id, Name: t.Name, Description: t.Description}, nil
}

// List returns every team ordered by name.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	return s.teams.List(ctx)
}

// Get returns one team.
func (s *TeamService) Get(ctx context.Context, id int64) (models.Team, error) {
	t, err := s.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Team{}, ErrTeamNotFound
	}
	return t, err
}

// Delete removes a team.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	err := s.teams.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTeamNotFound
	}
	return err
}

// Members returns the users of a team ordered by first name.
func (s *TeamService) Members(ctx context.Context, teamID int64) ([]models.User, error) {
	if _, err := s.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.teams.Members(ctx, teamID)
}

// AddMembers adds users to a team. An unknown user id fails the whole call.
func (s *TeamService) AddMembers(ctx context.Context, teamID int64, userIDs []int64) error {
	if _, err := s.Get(ctx, teamID); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}
	err := s.teams.AddMembers(ctx, teamID, userIDs)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// RemoveMember takes a user out of a team. If the user led the team, the
// team is left without leader.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID int64) error {
	if err := s.check(ctx, teamID, userID); err != nil {
		return err
	}
	err := s.teams.RemoveMember(ctx, teamID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// SetLeader makes a user the leader of a team, adding the user to it if
// needed.
func (s *TeamService) SetLeader(ctx context.Context, teamID, userID int64) error {
	if err := s.check(ctx, teamID, userID); err != nil {
		return err
	}
	return s.teams.SetLeader(ctx, teamID, userID)
}

// ResetLeader leaves a team without leader.
func (s *TeamService) ResetLeader(ctx context.Context, teamID int64) error {
	err := s.teams.ResetLeader(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTeamNotFound
	}
	return err
}

// check verifies that both the team and the user exist.
func (s *TeamService) check(ctx context.Context, teamID, userID int64) error {
	if _, err := s.Get(ctx, teamID); err != nil {
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
