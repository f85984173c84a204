// Package timeline maps teams, users and plan entries onto the generic
// timeline representation: groups (rows) and items (scheduled blocks).
// Every function is pure; callers project freshly fetched data on each
// refresh.
package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/WorkPlanner/internal/models"
)

// TimeLayout is the layout plan entry timestamps are parsed with.
const TimeLayout = "2006-01-02 15:04:05"

// ErrUnrecognizedTrack is returned for an entry that is neither a team nor
// a user.
var ErrUnrecognizedTrack = errors.New("unrecognized timeline track")

// Group is a display row.
type Group struct {
	ID    int64
	Title string
}

// Style is the rendering hint of an item.
type Style struct {
	Background string
	Color      string
}

// Item is a scheduled block plotted on the row whose ID equals Group.
type Item struct {
	ID    int64
	Group int64
	Title string
	Start time.Time
	End   time.Time
	Style Style
}

// Board is a complete timeline ready for display.
type Board struct {
	Groups []Group
	Items  []Item
}

// Trackable is something a timeline row can be derived from: a team or a
// user. The caller decides which, based on the collection it fetched.
type Trackable interface {
	group() Group
}

type teamTrack models.Team

func (t teamTrack) group() Group {
	return Group{ID: t.ID, Title: t.Name}
}

type userTrack models.User

func (u userTrack) group() Group {
	return Group{ID: u.ID, Title: u.FirstName + " " + u.LastName}
}

// TeamTrack wraps a team.
func TeamTrack(t models.Team) Trackable { return teamTrack(t) }

// UserTrack wraps a user.
func UserTrack(u models.User) Trackable { return userTrack(u) }

// Teams wraps every team of ts.
func Teams(ts []models.Team) []Trackable {
	out := make([]Trackable, len(ts))
	for i, t := range ts {
		out[i] = TeamTrack(t)
	}
	return out
}

// Users wraps every user of us.
func Users(us []models.User) []Trackable {
	out := make([]Trackable, len(us))
	for i, u := range us {
		out[i] = UserTrack(u)
	}
	return out
}

// ProjectGroups derives one group per entry, preserving order.
func ProjectGroups(entries []Trackable) ([]Group, error) {
	groups := make([]Group, len(entries))
	for i, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("entry %d: %w", i, ErrUnrecognizedTrack)
		}
		groups[i] = e.group()
	}
	return groups, nil
}

// ProjectItems derives one item per plan entry, plotted against groupID.
// Timestamps that do not match TimeLayout become the zero time.
func ProjectItems(entries []models.PlanEntry, groupID int64) []Item {
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{
			ID:    e.ID,
			Group: groupID,
			Title: e.Title,
			Start: ParseTime(e.StartTime),
			End:   ParseTime(e.EndTime),
			Style: Style{
				Background: strings.ToLower(string(e.PlanEntryColor)),
				Color:      "white",
			},
		}
	}
	return items
}

// ParseTime parses s with TimeLayout. The API serializes timestamps with a
// "T" between date and time, which is accepted as well. Anything else yields
// the zero time.
func ParseTime(s string) time.Time {
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10] + " " + s[11:]
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
