package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/cubestats/internal/rolling"
)

// Document is the JSON form of a Report. Times are RFC 3339 strings in the
// report location and durations are seconds.
type Document struct {
	BatchID         string             `json:"batch_id"`
	Source          string             `json:"source"`
	GapSeconds      float64            `json:"gap_seconds"`
	Windows         []int              `json:"windows"`
	Sessions        []SessionSummary   `json:"sessions"`
	PBs             []PBSeries         `json:"pbs"`
	Periods         int                `json:"periods"`
	BusiestBySolves *DayTotal          `json:"busiest_day_by_solves,omitempty"`
	BusiestByTime   *DayTotal          `json:"busiest_day_by_time,omitempty"`
	LongestPeriod   *PeriodDoc         `json:"longest_period,omitempty"`
	Activity        Activity           `json:"activity"`
	PBDensity       PBDensity          `json:"pb_density"`
	Consistency     []Spread           `json:"consistency"`
	TimeSpent       map[string]float64 `json:"time_spent_seconds"`
	SolvingTime     map[string]float64 `json:"solving_time_seconds"`
	Monthly         Monthly            `json:"monthly_hours"`
	AveragePerDay   float64            `json:"average_seconds_per_day"`
	MostImproved    []Improvement      `json:"most_improved"`
}

// PeriodDoc describes one cubing period.
type PeriodDoc struct {
	Session         string  `json:"session"`
	Category        string  `json:"category"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Solves          int     `json:"solves"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// PBSeries lists the personal bests of one session and window. Window 1 is
// the single series.
type PBSeries struct {
	Session string     `json:"session"`
	Window  int        `json:"window"`
	Entries []PointDoc `json:"entries"`
}

// PointDoc is one entry of a rolling series.
type PointDoc struct {
	At    string  `json:"at"`
	Value float64 `json:"value"`
	Index int     `json:"index"`
}

// NewDocument converts a report for export.
func NewDocument(r Report) Document {
	doc := Document{
		BatchID:       r.BatchID,
		Source:        r.Source,
		GapSeconds:    r.Config.Gap.Seconds(),
		Windows:       r.Config.Windows,
		Sessions:      r.Summaries,
		Periods:       len(r.Periods),
		Activity:      r.Activity,
		PBDensity:     r.PBDensity,
		Consistency:   r.Consistency,
		TimeSpent:     secondsMap(r.TimeSpent),
		SolvingTime:   secondsMap(r.SolvingTime),
		Monthly:       r.Monthly,
		AveragePerDay: r.AveragePerDay.Seconds(),
		MostImproved:  r.MostImproved,
	}
	if r.BusiestBySolves.Date != "" {
		day := r.BusiestBySolves
		doc.BusiestBySolves = &day
	}
	if r.BusiestByTime.Date != "" {
		day := r.BusiestByTime
		doc.BusiestByTime = &day
	}
	if r.HasLongest {
		doc.LongestPeriod = &PeriodDoc{
			Session:         r.Longest.SessionName,
			Category:        r.Config.Categories.Name(r.Longest.Category),
			Start:           r.Longest.Start().Format(time.RFC3339),
			End:             r.Longest.End().Format(time.RFC3339),
			Solves:          len(r.Longest.Solves),
			DurationSeconds: r.Longest.Duration().Seconds(),
		}
	}
	windows := append([]int{1}, r.Config.Windows...)
	for _, s := range r.Sessions {
		for _, n := range windows {
			res := rolling.Stats(s.Solves, n)
			series := PBSeries{Session: s.Name, Window: n, Entries: make([]PointDoc, 0, len(res.PBs))}
			for _, e := range res.PBs {
				series.Entries = append(series.Entries, PointDoc{At: e.At.Format(time.RFC3339), Value: e.Value, Index: e.Index})
			}
			doc.PBs = append(doc.PBs, series)
		}
	}
	return doc
}

// WriteJSON writes the report as an indented JSON document.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(r)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func secondsMap(in map[string]time.Duration) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.Seconds()
	}
	return out
}
