package service

import (
	"context"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

type mockUserRepo struct {
	CredentialsFunc func(ctx context.Context, username string) (models.User, string, error)
	CreateFunc      func(ctx context.Context, u models.User, hash string) (int64, error)
	ListFunc        func(ctx context.Context) ([]models.User, error)
	GetFunc         func(ctx context.Context, id int64) (models.User, error)
	DeleteFunc      func(ctx context.Context, id int64) error
	TeamsFunc       func(ctx context.Context, userID int64) ([]models.Team, error)
	JoinTeamFunc    func(ctx context.Context, userID, teamID int64) error
}

func (m *mockUserRepo) Credentials(ctx context.Context, username string) (models.User, string, error) {
	return m.CredentialsFunc(ctx, username)
}
func (m *mockUserRepo) Create(ctx context.Context, u models.User, hash string) (int64, error) {
	return m.CreateFunc(ctx, u, hash)
}
func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) { return m.ListFunc(ctx) }
func (m *mockUserRepo) Get(ctx context.Context, id int64) (models.User, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error { return m.DeleteFunc(ctx, id) }
func (m *mockUserRepo) Teams(ctx context.Context, userID int64) ([]models.Team, error) {
	return m.TeamsFunc(ctx, userID)
}
func (m *mockUserRepo) JoinTeam(ctx context.Context, userID, teamID int64) error {
	return m.JoinTeamFunc(ctx, userID, teamID)
}

type mockTeamRepo struct {
	CreateFunc       func(ctx context.Context, t models.Team) (int64, error)
	ListFunc         func(ctx context.Context) ([]models.Team, error)
	GetFunc          func(ctx context.Context, id int64) (models.Team, error)
	DeleteFunc       func(ctx context.Context, id int64) error
	MembersFunc      func(ctx context.Context, teamID int64) ([]models.User, error)
	AddMembersFunc   func(ctx context.Context, teamID int64, userIDs []int64) error
	RemoveMemberFunc func(ctx context.Context, teamID, userID int64) error
	SetLeaderFunc    func(ctx context.Context, teamID, userID int64) error
	ResetLeaderFunc  func(ctx context.Context, teamID int64) error
}

func (m *mockTeamRepo) Create(ctx context.Context, t models.Team) (int64, error) {
	return m.CreateFunc(ctx, t)
}
func (m *mockTeamRepo) List(ctx context.Context) ([]models.Team, error) { return m.ListFunc(ctx) }
func (m *mockTeamRepo) Get(ctx context.Context, id int64) (models.Team, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockTeamRepo) Delete(ctx context.Context, id int64) error { return m.DeleteFunc(ctx, id) }
func (m *mockTeamRepo) Members(ctx context.Context, teamID int64) ([]models.User, error) {
	return m.MembersFunc(ctx, teamID)
}
func (m *mockTeamRepo) AddMembers(ctx context.Context, teamID int64, userIDs []int64) error {
	return m.AddMembersFunc(ctx, teamID, userIDs)
}
func (m *mockTeamRepo) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return m.RemoveMemberFunc(ctx, teamID, userID)
}
func (m *mockTeamRepo) SetLeader(ctx context.Context, teamID, userID int64) error {
	return m.SetLeaderFunc(ctx, teamID, userID)
}
func (m *mockTeamRepo) ResetLeader(ctx context.Context, teamID int64) error {
	return m.ResetLeaderFunc(ctx, teamID)
}

type mockPlanEntryRepo struct {
	ListFunc    func(ctx context.Context) ([]models.PlanEntry, error)
	ListForFunc func(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error)
	GetFunc     func(ctx context.Context, id int64) (models.PlanEntry, error)
	CreateFunc  func(ctx context.Context, teamID, userID int64, rec repository.PlanEntryRecord) (int64, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockPlanEntryRepo) List(ctx context.Context) ([]models.PlanEntry, error) {
	return m.ListFunc(ctx)
}
func (m *mockPlanEntryRepo) ListFor(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	return m.ListForFunc(ctx, teamID, userID)
}
func (m *mockPlanEntryRepo) Get(ctx context.Context, id int64) (models.PlanEntry, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockPlanEntryRepo) Create(ctx context.Context, teamID, userID int64, rec repository.PlanEntryRecord) (int64, error) {
	return m.CreateFunc(ctx, teamID, userID, rec)
}
func (m *mockPlanEntryRepo) Delete(ctx context.Context, id int64) error { return m.DeleteFunc(ctx, id) }

// usersFound answers Get for the listed ids and ErrNotFound for the rest.
func usersFound(ids ...int64) func(ctx context.Context, id int64) (models.User, error) {
	return func(ctx context.Context, id int64) (models.User, error) {
		for _, known := range ids {
			if id == known {
				return models.User{ID: id}, nil
			}
		}
		return models.User{}, repository.ErrNotFound
	}
}

func teamsFound(ids ...int64) func(ctx context.Context, id int64) (models.Team, error) {
	return func(ctx context.Context, id int64) (models.Team, error) {
		for _, known := range ids {
			if id == known {
				return models.Team{ID: id}, nil
			}
		}
		return models.Team{}, repository.ErrNotFound
	}
}
