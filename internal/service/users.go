package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

// UserRepository defines the persistence operations required by the
// UserService.
type UserRepository interface {
	CredentialRepository
	Create(ctx context.Context, u models.User, passwordHash string) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Delete(ctx context.Context, id int64) error
	// Teams returns the teams the user belongs to.
	Teams(ctx context.Context, userID int64) ([]models.Team, error)
	// JoinTeam adds the user to a team; joining twice is a no-op.
	JoinTeam(ctx context.Context, userID, teamID int64) error
}

// MembershipRepository removes users from teams.
type MembershipRepository interface {
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

// UserService implements account management.
type UserService struct {
	users   UserRepository
	members MembershipRepository
}

// NewUserService constructs a UserService.
func NewUserService(users UserRepository, members MembershipRepository) *UserService {
	return &UserService{users: users, members: members}
}

func length(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

func validateRegistration(reg models.UserRegistration) error {
	var v validator
	v.check(length(reg.Username, 4, 20), "Username must contain between 4 and 20 characters")
	v.check(length(reg.FirstName, 2, 20), "First name must contain between 2 and 20 characters")
	v.check(length(reg.LastName, 2, 20), "Last name must contain between 2 and 20 characters")
	v.check(length(reg.Password, 3, 15), "Password must contain between 3 and 15 characters")
	return v.err()
}

// Register creates an account with the USER role.
func (s *UserService) Register(ctx context.Context, reg models.UserRegistration) (models.User, error) {
	if err := validateRegistration(reg); err != nil {
		return models.User{}, err
	}
	reg.Role = models.RoleUser
	return s.create(ctx, reg)
}

func (s *UserService) create(ctx context.Context, reg models.UserRegistration) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.Create(ctx, reg.User, string(hash))
	if errors.Is(err, repository.ErrAlreadyUsed) {
		return models.User{}, ErrUsernameUsed
	}
	if err != nil {
		return models.User{}, err
	}
	u := reg.User
	u.ID = id
	return u, nil
}

// EnsureAdmin creates an ADMIN account named username unless an account
// with that name exists already. It reports whether one was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, _, err := s.users.Credentials(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	reg := models.UserRegistration{
		User:     models.User{Username: username, FirstName: "Admin", LastName: "Admin", Role: models.RoleAdmin},
		Password: password,
	}
	if _, err := s.create(ctx, reg); err != nil {
		return false, err
	}
	return true, nil
}

// List returns every user ordered by first name.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// Delete removes a user together with memberships and leaderships.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Teams returns the teams of a user ordered by name.
func (s *UserService) Teams(ctx context.Context, userID int64) ([]models.Team, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.Teams(ctx, userID)
}

// JoinTeam adds a user to a team.
func (s *UserService) JoinTeam(ctx context.Context, userID, teamID int64) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	err := s.users.JoinTeam(ctx, userID, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTeamNotFound
	}
	return err
}

// LeaveTeam takes a user out of a team; leaving a team the user is not in
// is a no-op.
func (s *UserService) LeaveTeam(ctx context.Context, userID, teamID int64) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	err := s.members.RemoveMember(ctx, teamID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
