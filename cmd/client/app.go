package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/client/api"
	"github.com/atinyakov/WorkPlanner/internal/client/gateway"
	"github.com/atinyakov/WorkPlanner/internal/client/guard"
	"github.com/atinyakov/WorkPlanner/internal/client/planner"
	"github.com/atinyakov/WorkPlanner/internal/client/prompt"
	"github.com/atinyakov/WorkPlanner/internal/client/session"
	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// errExit ends the shell loop.
var errExit = errors.New("exit")

// command is one shell command. view names the guard view checked before
// run; an empty view is never guarded.
type command struct {
	view  string
	usage string
	nargs int
	help  string
	run   func(a *app, ctx context.Context, ids []int64) error
}

// app is the interactive shell of the client.
type app struct {
	store    *session.Store
	api      *api.Service
	loader   *planner.Loader
	boards   planner.Refresher
	prompt   *prompt.Prompter
	out      io.Writer
	log      *zap.Logger
	commands map[string]command
}

func newApp(gw *gateway.Client, in io.Reader, out io.Writer, log *zap.Logger) *app {
	svc := api.NewService(gw)
	a := &app{
		store:  session.New(gw, session.WithLogger(log)),
		api:    svc,
		loader: planner.NewLoader(svc, planner.WithLimit(8), planner.WithLogger(log)),
		prompt: prompt.New(in, out),
		out:    out,
		log:    log,
	}
	a.commands = map[string]command{
		"help":             {help: "list commands", run: (*app).help},
		"exit":             {help: "leave the shell", run: func(*app, context.Context, []int64) error { return errExit }},
		"login":            {view: guard.Login, help: "log in", run: (*app).login},
		"logout":           {view: guard.Logout, help: "log out", run: (*app).logout},
		"whoami":           {view: guard.Account, help: "show the current account", run: (*app).whoami},
		"signup":           {view: guard.Signup, help: "create an account", run: (*app).signup},
		"home":             {view: guard.Home, help: "show your work plan", run: (*app).home},
		"board":            {view: guard.Home, help: "show the last loaded work plan again", run: (*app).board},
		"teams":            {view: guard.AllTeams, help: "list all teams", run: (*app).teams},
		"my-teams":         {view: guard.MyTeams, help: "list your teams", run: (*app).myTeams},
		"team":             {view: guard.Team, usage: "<id>", nargs: 1, help: "show a team and its work plan", run: (*app).team},
		"team-new":         {view: guard.NewTeam, help: "create a team", run: (*app).teamNew},
		"team-delete":      {view: guard.DeleteTeam, usage: "<id>", nargs: 1, help: "delete a team", run: (*app).teamDelete},
		"team-add-users":   {view: guard.AddTeamUser, usage: "<id>", nargs: 1, help: "add users to a team", run: (*app).teamAddUsers},
		"team-remove-user": {view: guard.RemoveTeamUser, usage: "<team> <user>", nargs: 2, help: "remove a user from a team", run: (*app).teamRemoveUser},
		"leader-set":       {view: guard.AssignLeader, usage: "<team> <user>", nargs: 2, help: "assign a team leader", run: (*app).leaderSet},
		"leader-reset":     {view: guard.ResetLeader, usage: "<team>", nargs: 1, help: "unassign the team leader", run: (*app).leaderReset},
		"users":            {view: guard.AllUsers, help: "list all users", run: (*app).users},
		"user":             {view: guard.User, usage: "<id>", nargs: 1, help: "show a user and their teams", run: (*app).user},
		"user-delete":      {view: guard.DeleteUser, usage: "<id>", nargs: 1, help: "delete a user", run: (*app).userDelete},
		"user-leave":       {view: guard.LeaveTeam, usage: "<user> <team>", nargs: 2, help: "take a user out of a team", run: (*app).userLeave},
		"plan-add":         {view: guard.AddPlanEntry, usage: "<team> <user>", nargs: 2, help: "schedule a plan entry", run: (*app).planAdd},
		"plan-delete":      {view: guard.Team, usage: "<id>", nargs: 1, help: "delete a plan entry", run: (*app).planDelete},
	}
	return a
}

// run reads commands until exit, end of input or ctx is done.
func (a *app) run(ctx context.Context) {
	defer a.boards.Stop()
	for ctx.Err() == nil {
		line, err := a.prompt.Line("workplanner> ")
		if err != nil {
			fmt.Fprintln(a.out)
			return
		}
		if err := a.exec(ctx, line); errors.Is(err, errExit) {
			fmt.Fprintln(a.out, "Bye")
			return
		}
	}
}

// exec runs one command line. Failures are reported on out; only errExit
// is returned.
func (a *app) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := a.commands[fields[0]]
	if !ok {
		fmt.Fprintln(a.out, "Unknown command. Type 'help' for a list of commands.")
		return nil
	}

	ids, ok := parseIDs(fields[1:], cmd.nargs)
	if !ok {
		fmt.Fprintf(a.out, "Usage: %s %s\n", fields[0], cmd.usage)
		return nil
	}

	d, err := a.authorize(ctx, cmd, ids)
	if err != nil {
		return a.report(fields[0], err)
	}
	switch d {
	case guard.RedirectLogin:
		fmt.Fprintln(a.out, "Please log in first (type 'login').")
		return nil
	case guard.RedirectForbidden:
		fmt.Fprintln(a.out, "Forbidden: you are not allowed to do this.")
		return nil
	}

	return a.report(fields[0], cmd.run(a, ctx, ids))
}

// authorize checks cmd's view against the session. A TeamLeader view that
// the role alone does not open is checked again against the team named by
// the first id, so that its leader gets through.
func (a *app) authorize(ctx context.Context, cmd command, ids []int64) (guard.Decision, error) {
	if cmd.view == "" {
		return guard.Render, nil
	}
	v, _ := guard.Lookup(cmd.view)
	st := a.store.State()
	d, _ := guard.Check(st, v)
	if d != guard.RedirectForbidden || !v.TeamLeader {
		return d, nil
	}
	team, err := a.api.GetTeam(ctx, ids[0])
	if err != nil {
		return d, err
	}
	d, _ = guard.CheckTeam(st, v, team)
	return d, nil
}

// report prints err for the command name. errExit is passed through.
func (a *app) report(name string, err error) error {
	switch {
	case err == nil, errors.Is(err, errExit):
		return err
	case errors.Is(err, context.Canceled):
		return nil
	default:
		a.log.Warn("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintln(a.out, message(err))
		return nil
	}
}

// message turns err into the text shown to the user.
func message(err error) string {
	if msg, ok := api.Message(err); ok {
		return msg
	}
	var se *gateway.StatusError
	switch {
	case errors.As(err, &se):
		if se.Body != "" {
			return fmt.Sprintf("Request failed (%d): %s", se.StatusCode, se.Body)
		}
		return fmt.Sprintf("Request failed (%d)", se.StatusCode)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Cancelled."
	default:
		return err.Error()
	}
}

func parseIDs(args []string, n int) ([]int64, bool) {
	if len(args) != n {
		return nil, false
	}
	ids := make([]int64, n)
	for i, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func (a *app) help(context.Context, []int64) error {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		c := a.commands[name]
		fmt.Fprintf(tw, "  %s %s\t%s\n", name, c.usage, c.help)
	}
	return tw.Flush()
}

func (a *app) login(ctx context.Context, _ []int64) error {
	username, password, err := a.prompt.Credentials()
	if err != nil {
		return err
	}
	a.boards.Stop()
	if !a.store.Login(ctx, username, password) {
		fmt.Fprintln(a.out, "Invalid username or password.")
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", a.store.State().Username)
	return nil
}

func (a *app) logout(context.Context, []int64) error {
	a.boards.Stop()
	a.store.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) whoami(context.Context, []int64) error {
	st := a.store.State()
	fmt.Fprintf(a.out, "%s (#%d, %s)\n", st.Username, st.UserID, st.Role)
	return nil
}

func (a *app) signup(ctx context.Context, _ []int64) error {
	reg, confirmation, err := a.prompt.Registration()
	if err != nil {
		return err
	}
	if err := api.ValidateRegistration(reg, confirmation); err != nil {
		return err
	}
	if err := a.api.CreateUser(ctx, reg); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. You can log in now.")
	return nil
}

// show loads a board through the refresher and renders it. A failed load is
// rendered as an empty board; a superseded one is not rendered at all.
func (a *app) show(ctx context.Context, load planner.LoadFunc) error {
	b, err := a.boards.Load(ctx, load)
	switch {
	case errors.Is(err, planner.ErrSuperseded):
		return nil
	case err != nil:
		a.log.Warn("failed to load work plan", zap.Error(err))
		b = timeline.Board{}
	}
	return timeline.Render(a.out, b)
}

func (a *app) home(ctx context.Context, _ []int64) error {
	userID := a.store.State().UserID
	return a.show(ctx, func(ctx context.Context) (timeline.Board, error) {
		return a.loader.HomeBoard(ctx, userID)
	})
}

// board re-renders the last applied board without fetching.
func (a *app) board(context.Context, []int64) error {
	return timeline.Render(a.out, a.boards.Current())
}

func (a *app) teams(ctx context.Context, _ []int64) error {
	teams, err := a.api.ListTeams(ctx)
	if err != nil {
		a.log.Warn("failed to list teams", zap.Error(err))
	}
	return a.printTeams(teams)
}

func (a *app) myTeams(ctx context.Context, _ []int64) error {
	teams, err := a.api.UserTeams(ctx, a.store.State().UserID)
	if err != nil {
		a.log.Warn("failed to list own teams", zap.Error(err))
	}
	return a.printTeams(teams)
}

func (a *app) team(ctx context.Context, ids []int64) error {
	t, err := a.api.GetTeam(ctx, ids[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (#%d): %s\nLeader: %s\n", t.Name, t.ID, t.Description, leaderName(t))
	return a.show(ctx, func(ctx context.Context) (timeline.Board, error) {
		return a.loader.TeamBoard(ctx, t.ID)
	})
}

func (a *app) teamNew(ctx context.Context, _ []int64) error {
	t, err := a.prompt.Team()
	if err != nil {
		return err
	}
	if err := api.ValidateTeam(t); err != nil {
		return err
	}
	if err := a.api.CreateTeam(ctx, t); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Team %s created.\n", t.Name)
	return nil
}

func (a *app) teamDelete(ctx context.Context, ids []int64) error {
	if !a.prompt.Confirm(fmt.Sprintf("Delete team #%d?", ids[0])) {
		return nil
	}
	if err := a.api.DeleteTeam(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Team deleted.")
	return nil
}

func (a *app) teamAddUsers(ctx context.Context, ids []int64) error {
	userIDs, err := a.prompt.IDs("User ids: ")
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		fmt.Fprintln(a.out, "No users selected.")
		return nil
	}
	if err := a.api.AddTeamUsers(ctx, ids[0], userIDs); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %d user(s).\n", len(userIDs))
	return nil
}

func (a *app) teamRemoveUser(ctx context.Context, ids []int64) error {
	if err := a.api.RemoveTeamUser(ctx, ids[0], ids[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User removed from team.")
	return nil
}

func (a *app) leaderSet(ctx context.Context, ids []int64) error {
	if err := a.api.SetTeamLeader(ctx, ids[0], ids[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Team leader assigned.")
	return nil
}

func (a *app) leaderReset(ctx context.Context, ids []int64) error {
	if err := a.api.ResetTeamLeader(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Team leader unassigned.")
	return nil
}

func (a *app) users(ctx context.Context, _ []int64) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		a.log.Warn("failed to list users", zap.Error(err))
	}
	return a.printUsers(users)
}

func (a *app) user(ctx context.Context, ids []int64) error {
	u, err := a.api.GetUser(ctx, ids[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s (@%s, #%d)\n", u.FirstName, u.LastName, u.Username, u.ID)

	teams, err := a.api.UserTeams(ctx, u.ID)
	if err != nil {
		a.log.Warn("failed to list user teams", zap.Int64("user", u.ID), zap.Error(err))
	}
	return a.printTeams(teams)
}

func (a *app) userDelete(ctx context.Context, ids []int64) error {
	if !a.prompt.Confirm(fmt.Sprintf("Delete user #%d?", ids[0])) {
		return nil
	}
	if err := a.api.DeleteUser(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User deleted.")
	return nil
}

func (a *app) userLeave(ctx context.Context, ids []int64) error {
	if err := a.api.RemoveUserTeam(ctx, ids[0], ids[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User removed from team.")
	return nil
}

func (a *app) planAdd(ctx context.Context, ids []int64) error {
	e, err := a.prompt.PlanEntry()
	if err != nil {
		return err
	}
	if err := api.ValidatePlanEntry(e, ids[1]); err != nil {
		return err
	}
	if err := a.api.CreatePlanEntry(ctx, ids[0], ids[1], e); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Plan entry created.")
	return nil
}

func (a *app) planDelete(ctx context.Context, ids []int64) error {
	if err := a.api.DeletePlanEntry(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Plan entry deleted.")
	return nil
}

func (a *app) printTeams(teams []models.Team) error {
	if len(teams) == 0 {
		_, err := fmt.Fprintln(a.out, "No teams.")
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tLEADER")
	for _, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Description, leaderName(t))
	}
	return tw.Flush()
}

func (a *app) printUsers(users []models.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(a.out, "No users.")
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\n", u.ID, u.Username, u.FirstName, u.LastName)
	}
	return tw.Flush()
}

func leaderName(t models.Team) string {
	if t.TeamLeader == nil {
		return "-"
	}
	return t.TeamLeader.Username
}
