// Package service provides the business logic of the WorkPlanner API,
// delegating persistence to repository interfaces.
package service

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrPlanEntryNotFound = errors.New("plan entry not found")
	ErrUsernameUsed      = errors.New("username is already used")
	ErrTeamNameUsed      = errors.New("team name is already used")
	ErrBadCredentials    = errors.New("bad credentials")
)

// messages are the response bodies sent for the domain errors.
var messages = map[error]string{
	ErrUserNotFound:      "User not found",
	ErrTeamNotFound:      "Team not found",
	ErrPlanEntryNotFound: "Plan entry not found",
	ErrUsernameUsed:      "Username is already used",
	ErrTeamNameUsed:      "Team name is already used",
	ErrBadCredentials:    "Bad credentials",
}

// Message returns the client-facing text of the domain error in err's
// chain, or "" when there is none.
func Message(err error) string {
	for target, text := range messages {
		if errors.Is(err, target) {
			return text
		}
	}
	return ""
}

// ValidationError lists every rule a request payload broke.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// validator collects violated rules.
type validator struct {
	messages []string
}

func (v *validator) check(ok bool, msg string) {
	if !ok {
		v.messages = append(v.messages, msg)
	}
}

func (v *validator) err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: v.messages}
}
