package api

import (
	"errors"
	"unicode/utf8"

	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// Form validation errors. Message gives the text shown to the user.
var (
	ErrTitleTooShort     = errors.New("title too short")
	ErrTitleTooLong      = errors.New("title too long")
	ErrDatesIncorrect    = errors.New("dates set incorrectly")
	ErrUserNotSelected   = errors.New("user not selected")
	ErrInvalidColor      = errors.New("unknown plan entry color")
	ErrTeamName          = errors.New("team name length out of range")
	ErrTeamDescription   = errors.New("team description length out of range")
	ErrUsername          = errors.New("username length out of range")
	ErrFirstName         = errors.New("first name length out of range")
	ErrLastName          = errors.New("last name length out of range")
	ErrPassword          = errors.New("password length out of range")
	ErrPasswordsMismatch = errors.New("passwords do not match")
)

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// ValidatePlanEntry checks a plan entry form before it is sent. Timestamps
// must use timeline.TimeLayout or the wire layout.
func ValidatePlanEntry(e models.PlanEntry, userID int64) error {
	n := utf8.RuneCountInString(e.Title)
	if n < 4 {
		return ErrTitleTooShort
	}
	if n > 20 {
		return ErrTitleTooLong
	}
	start, end := timeline.ParseTime(e.StartTime), timeline.ParseTime(e.EndTime)
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return ErrDatesIncorrect
	}
	if userID == 0 {
		return ErrUserNotSelected
	}
	if !e.PlanEntryColor.Valid() {
		return ErrInvalidColor
	}
	return nil
}

// ValidateTeam checks a new team form.
func ValidateTeam(t models.Team) error {
	if !between(t.Name, 5, 20) {
		return ErrTeamName
	}
	if !between(t.Description, 5, 30) {
		return ErrTeamDescription
	}
	return nil
}

// ValidateRegistration checks a sign-up form; confirmation is the repeated
// password.
func ValidateRegistration(reg models.UserRegistration, confirmation string) error {
	if !between(reg.Username, 4, 20) {
		return ErrUsername
	}
	if !between(reg.FirstName, 2, 20) {
		return ErrFirstName
	}
	if !between(reg.LastName, 2, 20) {
		return ErrLastName
	}
	if !between(reg.Password, 3, 15) {
		return ErrPassword
	}
	if reg.Password != confirmation {
		return ErrPasswordsMismatch
	}
	return nil
}
