package stats

import (
	"sort"

	"github.com/verte-zerg/cubestats/internal/model"
)

// TopSessionsBySolves returns the names of the n sessions with the most
// solves. Ties keep session order.
func TopSessionsBySolves(sessions []model.Session, n int) []string {
	if n <= 0 || len(sessions) == 0 {
		return nil
	}
	type item struct {
		name   string
		solves int
		order  int
	}
	items := make([]item, 0, len(sessions))
	for i, s := range sessions {
		if len(s.Solves) == 0 {
			continue
		}
		items = append(items, item{name: s.Name, solves: len(s.Solves), order: i})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].solves == items[j].solves {
			return items[i].order < items[j].order
		}
		return items[i].solves > items[j].solves
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].name)
	}
	return out
}
