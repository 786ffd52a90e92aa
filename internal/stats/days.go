package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

const dateLayout = "2006-01-02"

// DayTotal is an aggregate value for one calendar date.
type DayTotal struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BusiestDayBySolves returns the date with the most solves. Periods are
// bucketed by the date of their first solve; ties go to the earliest date.
func BusiestDayBySolves(periods []model.Period) (DayTotal, bool) {
	return busiestDay(periods, func(p model.Period) float64 {
		return float64(len(p.Solves))
	})
}

// BusiestDayByTime returns the date with the most period time in seconds.
func BusiestDayByTime(periods []model.Period) (DayTotal, bool) {
	return busiestDay(periods, func(p model.Period) float64 {
		return p.Duration().Seconds()
	})
}

// DailyTotals buckets a per-period value by the date of the period start.
func DailyTotals(periods []model.Period, value func(model.Period) float64) map[string]float64 {
	totals := map[string]float64{}
	for _, p := range periods {
		if len(p.Solves) == 0 {
			continue
		}
		totals[dateKey(p.Start())] += value(p)
	}
	return totals
}

func busiestDay(periods []model.Period, value func(model.Period) float64) (DayTotal, bool) {
	totals := DailyTotals(periods, value)
	if len(totals) == 0 {
		return DayTotal{}, false
	}
	dates := make([]string, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	best := DayTotal{Date: dates[0], Value: totals[dates[0]]}
	for _, d := range dates[1:] {
		if totals[d] > best.Value {
			best = DayTotal{Date: d, Value: totals[d]}
		}
	}
	return best, true
}

// AverageTimePerDay spreads the total period time over the number of days
// between the first and last solve, both ends included.
func AverageTimePerDay(periods []model.Period) time.Duration {
	var total time.Duration
	var first, last time.Time
	for _, p := range periods {
		if len(p.Solves) == 0 {
			continue
		}
		total += p.Duration()
		if first.IsZero() || p.Start().Before(first) {
			first = p.Start()
		}
		if last.IsZero() || p.End().After(last) {
			last = p.End()
		}
	}
	if first.IsZero() || !last.After(first) {
		return 0
	}
	days := int(last.Sub(first).Hours()/24) + 1
	return total / time.Duration(days)
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}
