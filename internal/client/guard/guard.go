// Package guard decides whether a protected view may be rendered for the
// current session.
package guard

import (
	"github.com/atinyakov/WorkPlanner/internal/client/session"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Render means the view may be shown.
	Render Decision = iota
	// RedirectLogin means the visitor is not logged in.
	RedirectLogin
	// RedirectForbidden means the visitor lacks the required role.
	RedirectForbidden
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect(login)"
	case RedirectForbidden:
		return "redirect(forbidden)"
	default:
		return "unknown"
	}
}

// Decide gates a view requiring role (empty for any authenticated user).
// It has no side effects and is meant to be evaluated on every render.
func Decide(st session.State, role models.Role) Decision {
	if !st.Authenticated {
		return RedirectLogin
	}
	if role != "" && st.Role != role {
		return RedirectForbidden
	}
	return Render
}

// DecideTeam is Decide for a view scoped to team that its leader may also
// render. Leadership only widens access: every other visitor is gated on role.
func DecideTeam(st session.State, role models.Role, team models.Team) Decision {
	if st.Authenticated && team.TeamLeader != nil && team.TeamLeader.ID == st.UserID {
		return Render
	}
	return Decide(st, role)
}
