package api

import "errors"

var messages = map[error]string{
	ErrUsernameUsed:      "Username already in use...",
	ErrTeamNameUsed:      "Team Name already in use...",
	ErrTitleTooShort:     "Title too short",
	ErrTitleTooLong:      "Title too long",
	ErrDatesIncorrect:    "Dates set incorrectly",
	ErrUserNotSelected:   "User not selected",
	ErrInvalidColor:      "Color must be one of red, green, blue, gray",
	ErrTeamName:          "Team Name must contain min. 5 characters and max. 20 characters...",
	ErrTeamDescription:   "Description must contain min. 5 characters and max. 30 characters...",
	ErrUsername:          "Username must contain min. 4 characters and max. 20 characters...",
	ErrFirstName:         "First name must contain min. 2 characters and max. 20 characters...",
	ErrLastName:          "Last name must contain min. 2 characters and max. 20 characters...",
	ErrPassword:          "Password must contain min. 3 characters and max. 15 characters...",
	ErrPasswordsMismatch: "Passwords do not match...",
}

// Message returns the text shown to the user for a form or conflict error
// anywhere in err's chain. ok is false for any other error.
func Message(err error) (msg string, ok bool) {
	for target, text := range messages {
		if errors.Is(err, target) {
			return text, true
		}
	}
	return "", false
}
