package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/period"
)

// Report contains precomputed data for stats rendering. It is built once per
// batch and never mutated.
type Report struct {
	BatchID         string
	Source          string
	Config          model.StatsConfig
	Sessions        []model.Session
	Periods         []model.Period
	Summaries       []SessionSummary
	BusiestBySolves DayTotal
	BusiestByTime   DayTotal
	Longest         model.Period
	HasLongest      bool
	Activity        Activity
	PBDensity       PBDensity
	Consistency     []Spread
	TimeSpent       map[string]time.Duration
	SolvingTime     map[string]time.Duration
	Monthly         Monthly
	AveragePerDay   time.Duration
	MostImproved    []Improvement
}

// BuildReport filters the batch and computes every aggregate.
func BuildReport(batch model.Batch, cfg model.StatsConfig) (Report, error) {
	if cfg.Gap <= 0 {
		cfg.Gap = period.DefaultGap
	}
	if len(cfg.Windows) == 0 {
		cfg.Windows = DefaultWindows
	}
	if cfg.Categories == nil {
		cfg.Categories = model.DefaultCategories()
	}

	sessions, err := filterSessions(batch.Sessions, cfg)
	if err != nil {
		return Report{}, err
	}

	periods := period.SegmentAll(sessions, cfg.Gap)
	summaries := make([]SessionSummary, len(sessions))
	for i, s := range sessions {
		summaries[i] = Summarize(s, cfg.Windows)
	}

	report := Report{
		BatchID:       batch.ID.String(),
		Source:        batch.Source,
		Config:        cfg,
		Sessions:      sessions,
		Periods:       periods,
		Summaries:     summaries,
		Activity:      ActivityOf(periods),
		PBDensity:     PBDensityOf(sessions),
		Consistency:   Consistency(sessions),
		TimeSpent:     TimeSpentByCategory(periods, cfg.Categories),
		SolvingTime:   SolvingTimeByCategory(sessions, cfg.Categories),
		Monthly:       MonthlyBreakdown(periods, cfg.Categories),
		AveragePerDay: AverageTimePerDay(periods),
		MostImproved:  MostImproved(sessions),
	}
	report.BusiestBySolves, _ = BusiestDayBySolves(periods)
	report.BusiestByTime, _ = BusiestDayByTime(periods)
	report.Longest, report.HasLongest = LongestPeriod(periods)
	return report, nil
}

// FindSession looks a session up by exact name, by name without the
// "Session " prefix, or by numeric id.
func FindSession(sessions []model.Session, query string) (model.Session, bool) {
	query = strings.TrimSpace(query)
	for _, s := range sessions {
		if s.Name == query || strings.TrimPrefix(s.Name, "Session ") == query || fmt.Sprint(s.ID) == query {
			return s, true
		}
	}
	return model.Session{}, false
}

func filterSessions(sessions []model.Session, cfg model.StatsConfig) ([]model.Session, error) {
	if cfg.Session != "" {
		s, ok := FindSession(sessions, cfg.Session)
		if !ok {
			return nil, fmt.Errorf("session %q not found", cfg.Session)
		}
		sessions = []model.Session{s}
	}
	if cfg.Since == nil {
		return sessions, nil
	}
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		kept := s
		kept.Solves = nil
		for _, solve := range s.Solves {
			if !solve.Timestamp.Before(*cfg.Since) {
				kept.Solves = append(kept.Solves, solve)
			}
		}
		out = append(out, kept)
	}
	return out, nil
}
