package stats

import (
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

// Activity holds time spent per hour of day and per weekday, in seconds.
// Weekday is indexed by time.Weekday (Sunday = 0).
type Activity struct {
	Hourly  [24]float64 `json:"hourly"`
	Weekday [7]float64  `json:"weekday"`
}

// Total returns the total seconds across all hours.
func (a Activity) Total() float64 {
	var total float64
	for _, v := range a.Hourly {
		total += v
	}
	return total
}

// BusiestHour returns the hour with the most time. Ties go to the earlier hour.
func (a Activity) BusiestHour() (int, float64) {
	best := 0
	for h, v := range a.Hourly {
		if v > a.Hourly[best] {
			best = h
		}
	}
	return best, a.Hourly[best]
}

// BusiestWeekday returns the weekday with the most time.
func (a Activity) BusiestWeekday() (time.Weekday, float64) {
	best := 0
	for d, v := range a.Weekday {
		if v > a.Weekday[best] {
			best = d
		}
	}
	return time.Weekday(best), a.Weekday[best]
}

// ActivityOf spreads every period over the hour-of-day and weekday buckets it
// covers. A period crossing an hour boundary contributes to both hours.
func ActivityOf(periods []model.Period) Activity {
	var a Activity
	for _, p := range periods {
		if len(p.Solves) < 2 {
			continue
		}
		cur, end := p.Start(), p.End()
		for cur.Before(end) {
			next := time.Date(cur.Year(), cur.Month(), cur.Day(), cur.Hour()+1, 0, 0, 0, cur.Location())
			if !next.After(cur) || next.After(end) {
				next = end
			}
			secs := next.Sub(cur).Seconds()
			a.Hourly[cur.Hour()] += secs
			a.Weekday[cur.Weekday()] += secs
			cur = next
		}
	}
	return a
}
