package timeline

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"
)

const displayLayout = "2006-01-02 15:04"

// Render writes b as one section per group, items ordered by start time.
func Render(w io.Writer, b Board) error {
	if len(b.Groups) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to show.")
		return err
	}

	byGroup := make(map[int64][]Item, len(b.Groups))
	for _, it := range b.Items {
		byGroup[it.Group] = append(byGroup[it.Group], it)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range b.Groups {
		fmt.Fprintf(tw, "%s (#%d)\n", g.Title, g.ID)

		items := byGroup[g.ID]
		if len(items) == 0 {
			fmt.Fprintln(tw, "\t(no plan entries)")
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Start.Before(items[j].Start)
		})
		for _, it := range items {
			fmt.Fprintf(tw, "\t#%d\t%s\t%s\t%s\t%s\n",
				it.ID, it.Title, formatTime(it.Start), formatTime(it.End), it.Style.Background)
		}
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "invalid date"
	}
	return t.Format(displayLayout)
}
