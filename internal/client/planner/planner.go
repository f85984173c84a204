// Package planner assembles timeline boards from the API: the personal
// board of a user (one row per team) and the board of a team (one row per
// member).
package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// Source is the read side of the API a board is built from.
type Source interface {
	UserTeams(ctx context.Context, userID int64) ([]models.Team, error)
	TeamUsers(ctx context.Context, teamID int64) ([]models.User, error)
	PlanEntries(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error)
}

// Loader builds boards. Per-row plan entry fetches run concurrently and
// are joined all-or-nothing: if any fails, no board is returned.
type Loader struct {
	src   Source
	limit int
	log   *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLimit caps the number of concurrent plan entry fetches; n <= 0 means
// no cap.
func WithLimit(n int) Option {
	return func(l *Loader) { l.limit = n }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader reading from src.
func NewLoader(src Source, opts ...Option) *Loader {
	l := &Loader{src: src, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// HomeBoard is the work plan of userID: one group per team the user belongs
// to, with the user's entries in that team.
func (l *Loader) HomeBoard(ctx context.Context, userID int64) (timeline.Board, error) {
	teams, err := l.src.UserTeams(ctx, userID)
	if err != nil {
		return timeline.Board{}, err
	}
	groups, err := timeline.ProjectGroups(timeline.Teams(teams))
	if err != nil {
		return timeline.Board{}, err
	}

	items, err := l.collect(ctx, len(teams), func(ctx context.Context, i int) ([]timeline.Item, error) {
		entries, err := l.src.PlanEntries(ctx, teams[i].ID, userID)
		if err != nil {
			return nil, err
		}
		return timeline.ProjectItems(entries, teams[i].ID), nil
	})
	if err != nil {
		return timeline.Board{}, fmt.Errorf("home board of user %d: %w", userID, err)
	}
	return timeline.Board{Groups: groups, Items: items}, nil
}

// TeamBoard is the work plan of teamID: one group per member, with the
// member's entries in that team.
func (l *Loader) TeamBoard(ctx context.Context, teamID int64) (timeline.Board, error) {
	users, err := l.src.TeamUsers(ctx, teamID)
	if err != nil {
		return timeline.Board{}, err
	}
	groups, err := timeline.ProjectGroups(timeline.Users(users))
	if err != nil {
		return timeline.Board{}, err
	}

	items, err := l.collect(ctx, len(users), func(ctx context.Context, i int) ([]timeline.Item, error) {
		entries, err := l.src.PlanEntries(ctx, teamID, users[i].ID)
		if err != nil {
			return nil, err
		}
		return timeline.ProjectItems(entries, users[i].ID), nil
	})
	if err != nil {
		return timeline.Board{}, fmt.Errorf("board of team %d: %w", teamID, err)
	}
	return timeline.Board{Groups: groups, Items: items}, nil
}

// collect runs fetch for every row concurrently and flattens the results
// in row order.
func (l *Loader) collect(ctx context.Context, n int, fetch func(context.Context, int) ([]timeline.Item, error)) ([]timeline.Item, error) {
	g, gctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}

	rows := make([][]timeline.Item, n)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			items, err := fetch(gctx, i)
			if err != nil {
				return err
			}
			rows[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.log.Warn("board load failed", zap.Error(err))
		return nil, err
	}

	var out []timeline.Item
	for _, r := range rows {
		out = append(out, r...)
	}
	return out, nil
}
