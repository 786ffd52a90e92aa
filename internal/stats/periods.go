package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

const monthLayout = "2006-01"

// LongestPeriod returns the period with the largest duration. The first
// period wins ties.
func LongestPeriod(periods []model.Period) (model.Period, bool) {
	if len(periods) == 0 {
		return model.Period{}, false
	}
	best := periods[0]
	for _, p := range periods[1:] {
		if p.Duration() > best.Duration() {
			best = p
		}
	}
	return best, true
}

// TimeSpentByCategory sums period durations per category display name.
func TimeSpentByCategory(periods []model.Period, cats model.Categories) map[string]time.Duration {
	out := map[string]time.Duration{}
	for _, p := range periods {
		out[cats.Name(p.Category)] += p.Duration()
	}
	return out
}

// SolvingTimeByCategory sums the recorded solve times per category display
// name. DNFs do not contribute.
func SolvingTimeByCategory(sessions []model.Session, cats model.Categories) map[string]time.Duration {
	out := map[string]time.Duration{}
	for _, s := range sessions {
		name := cats.Name(s.Category)
		var total float64
		for _, solve := range s.Solves {
			if solve.Usable() {
				total += solve.Elapsed
			}
		}
		out[name] += time.Duration(total * float64(time.Second))
	}
	return out
}

// Monthly is the time spent per month and category, in hours.
type Monthly struct {
	Months     []string                      `json:"months"`
	Categories []string                      `json:"categories"`
	Hours      map[string]map[string]float64 `json:"hours"`
}

// MonthlyBreakdown buckets period time by the month of the period start.
// Periods without a measurable duration count one minute per solve. Every
// month between the first and last active month is present.
func MonthlyBreakdown(periods []model.Period, cats model.Categories) Monthly {
	minutes := map[string]map[string]float64{}
	catSet := map[string]struct{}{}
	var first, last time.Time
	for _, p := range periods {
		if len(p.Solves) == 0 {
			continue
		}
		d := p.Duration().Minutes()
		if d <= 0 {
			d = float64(len(p.Solves))
		}
		start := p.Start()
		month := start.Format(monthLayout)
		name := cats.Name(p.Category)
		if minutes[month] == nil {
			minutes[month] = map[string]float64{}
		}
		minutes[month][name] += d
		catSet[name] = struct{}{}
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if last.IsZero() || start.After(last) {
			last = start
		}
	}
	out := Monthly{Hours: map[string]map[string]float64{}}
	if first.IsZero() {
		return out
	}
	for name := range catSet {
		out.Categories = append(out.Categories, name)
	}
	sort.Strings(out.Categories)

	loc := first.Location()
	cur := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, loc)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, loc)
	for !cur.After(end) {
		month := cur.Format(monthLayout)
		out.Months = append(out.Months, month)
		row := make(map[string]float64, len(out.Categories))
		for _, name := range out.Categories {
			row[name] = minutes[month][name] / 60
		}
		out.Hours[month] = row
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
