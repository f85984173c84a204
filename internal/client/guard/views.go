package guard

import (
	"github.com/atinyakov/WorkPlanner/internal/client/session"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// View is a named screen of the client.
type View struct {
	Name string
	Path string

	// Role required to render the view; empty means any logged-in user.
	Role models.Role

	// Public views are never guarded.
	Public bool

	// TeamLeader views may also be rendered by the leader of the team in
	// scope. See CheckTeam.
	TeamLeader bool
}

// View names.
const (
	Login          = "login"
	Logout         = "logout"
	Signup         = "signup"
	Home           = "home"
	MyTeams        = "my-teams"
	AllTeams       = "all-teams"
	Team           = "team"
	NewTeam        = "new-team"
	DeleteTeam     = "delete-team"
	AddTeamUser    = "add-team-user"
	RemoveTeamUser = "remove-team-user"
	AddPlanEntry   = "add-plan-entry"
	AssignLeader   = "assign-leader"
	ResetLeader    = "reset-leader"
	AllUsers       = "users"
	User           = "user"
	DeleteUser     = "delete-user"
	LeaveTeam      = "leave-team"
	Forbidden      = "forbidden"
	Account        = "account"
)

var views = []View{
	{Name: Login, Path: "/", Public: true},
	{Name: Signup, Path: "/sign-up", Public: true},
	{Name: Logout, Path: "/logout"},
	{Name: Home, Path: "/home"},
	{Name: MyTeams, Path: "/my-teams"},
	{Name: AllTeams, Path: "/all-teams"},
	{Name: Team, Path: "/teams/:team_id"},
	{Name: NewTeam, Path: "/teams/new", Role: models.RoleAdmin},
	{Name: DeleteTeam, Path: "/teams/:team_id/delete", Role: models.RoleAdmin},
	{Name: AddTeamUser, Path: "/teams/:team_id/add-user", Role: models.RoleAdmin, TeamLeader: true},
	{Name: RemoveTeamUser, Path: "/teams/:team_id/remove-user", Role: models.RoleAdmin, TeamLeader: true},
	{Name: AddPlanEntry, Path: "/teams/:team_id/plan-entries/new", Role: models.RoleAdmin, TeamLeader: true},
	{Name: AssignLeader, Path: "/teams/:team_id/assign-leader", Role: models.RoleAdmin},
	{Name: ResetLeader, Path: "/teams/:team_id/reset-leader", Role: models.RoleAdmin},
	{Name: AllUsers, Path: "/users"},
	{Name: User, Path: "/users/:user_id"},
	{Name: DeleteUser, Path: "/users/:user_id/delete", Role: models.RoleAdmin},
	{Name: LeaveTeam, Path: "/users/:user_id/leave", Role: models.RoleAdmin},
	{Name: Forbidden, Path: "/forbidden"},
	{Name: Account, Path: "/account"},
}

// Views returns the view catalogue.
func Views() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// Lookup finds a view by name.
func Lookup(name string) (View, bool) {
	for _, v := range views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Check applies Decide to v and returns the view to show instead when the
// decision is a redirect. For Render the target is v itself. A TeamLeader
// view is checked on role alone; use CheckTeam once the team is known.
func Check(st session.State, v View) (Decision, View) {
	if v.Public {
		return Render, v
	}
	return redirect(Decide(st, v.Role), v)
}

// CheckTeam is Check for a view scoped to team. The leader of team passes a
// TeamLeader view regardless of role.
func CheckTeam(st session.State, v View, team models.Team) (Decision, View) {
	if v.Public {
		return Render, v
	}
	if !v.TeamLeader {
		return Check(st, v)
	}
	return redirect(DecideTeam(st, v.Role, team), v)
}

func redirect(d Decision, v View) (Decision, View) {
	switch d {
	case RedirectLogin:
		target, _ := Lookup(Login)
		return d, target
	case RedirectForbidden:
		target, _ := Lookup(Forbidden)
		return d, target
	default:
		return d, v
	}
}
