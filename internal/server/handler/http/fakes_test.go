package http

import (
	"context"
	"errors"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

// fakeUserService implements UserService for testing; it records the ids
// of the last membership call.
type fakeUserService struct {
	user   models.User
	users  []models.User
	teams  []models.Team
	err    error
	lastID [2]int64
}

func (f *fakeUserService) Register(ctx context.Context, reg models.UserRegistration) (models.User, error) {
	u := reg.User
	u.ID = 10
	return u, f.err
}
func (f *fakeUserService) List(ctx context.Context) ([]models.User, error) { return f.users, f.err }
func (f *fakeUserService) Get(ctx context.Context, id int64) (models.User, error) {
	return f.user, f.err
}
func (f *fakeUserService) Delete(ctx context.Context, id int64) error {
	f.lastID = [2]int64{id, 0}
	return f.err
}
func (f *fakeUserService) Teams(ctx context.Context, userID int64) ([]models.Team, error) {
	return f.teams, f.err
}
func (f *fakeUserService) JoinTeam(ctx context.Context, userID, teamID int64) error {
	f.lastID = [2]int64{userID, teamID}
	return f.err
}
func (f *fakeUserService) LeaveTeam(ctx context.Context, userID, teamID int64) error {
	f.lastID = [2]int64{userID, teamID}
	return f.err
}

// fakeTeamService implements TeamService for testing.
type fakeTeamService struct {
	team   models.Team
	teams  []models.Team
	users  []models.User
	err    error
	added  []int64
	lastID [2]int64
}

func (f *fakeTeamService) Create(ctx context.Context, t models.Team) (models.Team, error) {
	t.ID = 3
	return t, f.err
}
func (f *fakeTeamService) List(ctx context.Context) ([]models.Team, error) { return f.teams, f.err }
func (f *fakeTeamService) Get(ctx context.Context, id int64) (models.Team, error) {
	return f.team, f.err
}
func (f *fakeTeamService) Delete(ctx context.Context, id int64) error { return f.err }
func (f *fakeTeamService) Members(ctx context.Context, teamID int64) ([]models.User, error) {
	return f.users, f.err
}
func (f *fakeTeamService) AddMembers(ctx context.Context, teamID int64, userIDs []int64) error {
	f.added = userIDs
	return f.err
}
func (f *fakeTeamService) RemoveMember(ctx context.Context, teamID, userID int64) error {
	f.lastID = [2]int64{teamID, userID}
	return f.err
}
func (f *fakeTeamService) SetLeader(ctx context.Context, teamID, userID int64) error {
	f.lastID = [2]int64{teamID, userID}
	return f.err
}
func (f *fakeTeamService) ResetLeader(ctx context.Context, teamID int64) error { return f.err }

// fakePlanEntryService implements PlanEntryService for testing.
type fakePlanEntryService struct {
	entries []models.PlanEntry
	err     error
	lastID  [2]int64
}

func (f *fakePlanEntryService) List(ctx context.Context) ([]models.PlanEntry, error) {
	return f.entries, f.err
}
func (f *fakePlanEntryService) Get(ctx context.Context, id int64) (models.PlanEntry, error) {
	if len(f.entries) == 0 {
		return models.PlanEntry{}, f.err
	}
	return f.entries[0], f.err
}
func (f *fakePlanEntryService) ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	f.lastID = [2]int64{teamID, userID}
	return f.entries, f.err
}
func (f *fakePlanEntryService) Create(ctx context.Context, teamID, userID int64, e models.PlanEntry) (models.PlanEntry, error) {
	f.lastID = [2]int64{teamID, userID}
	e.ID = 11
	return e, f.err
}
func (f *fakePlanEntryService) Delete(ctx context.Context, id int64) error { return f.err }

// fakeVerifier accepts the tokens it knows.
type fakeVerifier map[string]models.Principal

func (f fakeVerifier) Verify(token string) (models.Principal, error) {
	p, ok := f[token]
	if !ok {
		return models.Principal{}, errors.New("unknown token")
	}
	return p, nil
}
