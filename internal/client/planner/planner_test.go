package planner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

type mockSource struct {
	UserTeamsFunc   func(ctx context.Context, userID int64) ([]models.Team, error)
	TeamUsersFunc   func(ctx context.Context, teamID int64) ([]models.User, error)
	PlanEntriesFunc func(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error)
}

func (m *mockSource) UserTeams(ctx context.Context, userID int64) ([]models.Team, error) {
	return m.UserTeamsFunc(ctx, userID)
}

func (m *mockSource) TeamUsers(ctx context.Context, teamID int64) ([]models.User, error) {
	return m.TeamUsersFunc(ctx, teamID)
}

func (m *mockSource) PlanEntries(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
	return m.PlanEntriesFunc(ctx, teamID, userID)
}

func entry(id int64, title string) models.PlanEntry {
	return models.PlanEntry{
		ID:             id,
		Title:          title,
		StartTime:      "2024-01-01T08:00:00",
		EndTime:        "2024-01-01T16:00:00",
		PlanEntryColor: models.Blue,
	}
}

func TestHomeBoard(t *testing.T) {
	src := &mockSource{
		UserTeamsFunc: func(ctx context.Context, userID int64) ([]models.Team, error) {
			assert.Equal(t, int64(7), userID)
			return []models.Team{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}}, nil
		},
		PlanEntriesFunc: func(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
			assert.Equal(t, int64(7), userID)
			return []models.PlanEntry{entry(teamID*10, fmt.Sprintf("team %d", teamID))}, nil
		},
	}

	board, err := NewLoader(src).HomeBoard(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []timeline.Group{{ID: 1, Title: "Alpha"}, {ID: 2, Title: "Bravo"}}, board.Groups)
	require.Len(t, board.Items, 2)
	assert.Equal(t, int64(10), board.Items[0].ID)
	assert.Equal(t, int64(1), board.Items[0].Group)
	assert.Equal(t, int64(20), board.Items[1].ID)
	assert.Equal(t, int64(2), board.Items[1].Group)
	assert.Equal(t, "blue", board.Items[1].Style.Background)
}

func TestTeamBoard(t *testing.T) {
	src := &mockSource{
		TeamUsersFunc: func(ctx context.Context, teamID int64) ([]models.User, error) {
			return []models.User{
				{ID: 4, FirstName: "Ann", LastName: "Lee"},
				{ID: 5, FirstName: "Bob", LastName: "Ray"},
			}, nil
		},
		PlanEntriesFunc: func(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
			assert.Equal(t, int64(3), teamID)
			if userID == 5 {
				return nil, nil
			}
			return []models.PlanEntry{entry(1, "Sprint"), entry(2, "Review")}, nil
		},
	}

	board, err := NewLoader(src, WithLimit(1)).TeamBoard(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, []timeline.Group{{ID: 4, Title: "Ann Lee"}, {ID: 5, Title: "Bob Ray"}}, board.Groups)
	require.Len(t, board.Items, 2)
	for _, it := range board.Items {
		assert.Equal(t, int64(4), it.Group)
	}
}

func TestHomeBoard_AllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	src := &mockSource{
		UserTeamsFunc: func(ctx context.Context, userID int64) ([]models.Team, error) {
			return []models.Team{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}}, nil
		},
		PlanEntriesFunc: func(ctx context.Context, teamID, userID int64) ([]models.PlanEntry, error) {
			if teamID == 2 {
				return nil, boom
			}
			return []models.PlanEntry{entry(1, "Sprint")}, nil
		},
	}

	board, err := NewLoader(src).HomeBoard(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, board.Groups)
	assert.Empty(t, board.Items)
}

func TestTeamBoard_MembersFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &mockSource{
		TeamUsersFunc: func(ctx context.Context, teamID int64) ([]models.User, error) {
			return nil, boom
		},
	}
	_, err := NewLoader(src).TeamBoard(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
}

func TestHomeBoard_NoTeams(t *testing.T) {
	src := &mockSource{
		UserTeamsFunc: func(ctx context.Context, userID int64) ([]models.Team, error) {
			return nil, nil
		},
	}
	board, err := NewLoader(src).HomeBoard(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, board.Groups)
	assert.Empty(t, board.Items)
}

func TestRefresher_AppliesLatest(t *testing.T) {
	var r Refresher
	ctx := context.Background()

	first := timeline.Board{Groups: []timeline.Group{{ID: 1, Title: "first"}}}
	b, err := r.Load(ctx, func(context.Context) (timeline.Board, error) { return first, nil })
	require.NoError(t, err)
	assert.Equal(t, first, b)
	assert.Equal(t, first, r.Current())

	_, err = r.Load(ctx, func(context.Context) (timeline.Board, error) { return timeline.Board{}, errors.New("down") })
	assert.EqualError(t, err, "down")
	assert.Equal(t, first, r.Current())
}

func TestRefresher_SupersededLoadIsDiscarded(t *testing.T) {
	var r Refresher
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var cancelled atomic.Bool

	stale := timeline.Board{Groups: []timeline.Group{{ID: 1, Title: "stale"}}}
	fresh := timeline.Board{Groups: []timeline.Group{{ID: 2, Title: "fresh"}}}

	done := make(chan error, 1)
	go func() {
		_, err := r.Load(ctx, func(ctx context.Context) (timeline.Board, error) {
			close(started)
			<-release
			cancelled.Store(ctx.Err() != nil)
			return stale, nil
		})
		done <- err
	}()

	<-started
	b, err := r.Load(ctx, func(context.Context) (timeline.Board, error) { return fresh, nil })
	require.NoError(t, err)
	assert.Equal(t, fresh, b)

	close(release)
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("stale load did not return")
	}
	assert.True(t, cancelled.Load())
	assert.Equal(t, fresh, r.Current())
}

func TestRefresher_Stop(t *testing.T) {
	var r Refresher
	started := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := r.Load(context.Background(), func(ctx context.Context) (timeline.Board, error) {
			close(started)
			<-ctx.Done()
			return timeline.Board{Groups: []timeline.Group{{ID: 9}}}, nil
		})
		done <- err
	}()

	<-started
	r.Stop()
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Empty(t, r.Current().Groups)
}

func TestRefresher_StopForgetsCurrent(t *testing.T) {
	var r Refresher
	loaded := timeline.Board{Groups: []timeline.Group{{ID: 1, Title: "Alpha"}}}
	_, err := r.Load(context.Background(), func(context.Context) (timeline.Board, error) { return loaded, nil })
	require.NoError(t, err)
	require.Equal(t, loaded, r.Current())

	r.Stop()
	assert.Equal(t, timeline.Board{}, r.Current())
}
