// Package models defines the core data structures exchanged between the
// WorkPlanner client and the API: users, teams and plan entries.
package models

// Role is the authority a user holds. It travels as the "scope" claim of the
// authentication token.
type Role string

const (
	// RoleAdmin may manage teams, leaders and user accounts.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the role every newly registered account receives.
	RoleUser Role = "USER"
)

// PlanEntryColor is the color of a plan entry's graphical representation.
type PlanEntryColor string

const (
	// Red plan entry.
	Red PlanEntryColor = "RED"
	// Green plan entry.
	Green PlanEntryColor = "GREEN"
	// Blue plan entry.
	Blue PlanEntryColor = "BLUE"
	// Gray plan entry.
	Gray PlanEntryColor = "GRAY"
)

// Colors lists every supported plan entry color.
var Colors = []PlanEntryColor{Red, Green, Blue, Gray}

// Valid reports whether c is one of the supported colors.
func (c PlanEntryColor) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// WireTimeLayout is the layout of plan entry timestamps on the wire.
const WireTimeLayout = "2006-01-02T15:04:05"

// User represents an application user.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// FirstName of the user.
	FirstName string `json:"firstName"`
	// LastName of the user.
	LastName string `json:"lastName"`
	// Role is the authority of the user.
	Role Role `json:"role,omitempty"`
}

// UserRegistration is the sign-up payload: a user plus its password.
type UserRegistration struct {
	User
	// Password in clear text; only ever sent over the wire, never stored.
	Password string `json:"password"`
}

// Team groups users that share a work plan.
type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// TeamLeader is nil when the team has no leader assigned.
	TeamLeader *User `json:"teamLeader"`
}

// PlanEntry is a scheduled work block owned by one user within one team.
type PlanEntry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// StartTime and EndTime are formatted with WireTimeLayout.
	StartTime      string         `json:"startTime"`
	EndTime        string         `json:"endTime"`
	PlanEntryColor PlanEntryColor `json:"planEntryColor"`
}

// AuthRequest is the credential payload of POST /authenticate.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by a successful POST /authenticate.
type TokenResponse struct {
	Token string `json:"token"`
}

// Principal is the identity an access token vouches for.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}
