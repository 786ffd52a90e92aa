// Package model defines shared data structures.
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Penalty is the penalty recorded for a solve.
type Penalty int

const (
	PenaltyNone Penalty = iota
	PenaltyPlus2
	PenaltyDNF
)

// String returns the short penalty label used in reports.
func (p Penalty) String() string {
	switch p {
	case PenaltyPlus2:
		return "+2"
	case PenaltyDNF:
		return "DNF"
	default:
		return ""
	}
}

// DNF is the elapsed time sentinel for a did-not-finish solve.
var DNF = math.Inf(1)

// Solve is a single timed attempt. Elapsed already includes the penalty.
type Solve struct {
	Elapsed   float64
	Timestamp time.Time
	Penalty   Penalty
	Scramble  string
	Comment   string
}

// Usable reports whether the solve has a finite, positive time.
func (s Solve) Usable() bool {
	return s.Elapsed > 0 && !math.IsInf(s.Elapsed, 0) && !math.IsNaN(s.Elapsed)
}

// Session is a named, chronological sequence of solves of one category.
type Session struct {
	ID              int
	Name            string
	Category        string
	MixedCategories bool
	Solves          []Solve
}

// Period is a burst of solves from one session with no idle gap above
// the segmentation threshold.
type Period struct {
	SessionName     string
	Category        string
	MixedCategories bool
	Solves          []Solve
}

// Start returns the timestamp of the first solve.
func (p Period) Start() time.Time {
	if len(p.Solves) == 0 {
		return time.Time{}
	}
	return p.Solves[0].Timestamp
}

// End returns the timestamp of the last solve.
func (p Period) End() time.Time {
	if len(p.Solves) == 0 {
		return time.Time{}
	}
	return p.Solves[len(p.Solves)-1].Timestamp
}

// Duration is the wall-clock time between the first and last solve.
func (p Period) Duration() time.Duration {
	if len(p.Solves) < 2 {
		return 0
	}
	return p.End().Sub(p.Start())
}

// Entry is a point of a rolling series keyed by the window's last solve.
type Entry struct {
	At    time.Time
	Value float64
	Index int
}

// Batch is one loaded export. Aggregators receive it explicitly.
type Batch struct {
	ID       uuid.UUID
	Source   string
	LoadedAt time.Time
	Location *time.Location
	Sessions []Session
}

// SolveCount returns the number of solves across all sessions.
func (b Batch) SolveCount() int {
	total := 0
	for _, s := range b.Sessions {
		total += len(s.Solves)
	}
	return total
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Session     string
	Since       *time.Time
	Gap         time.Duration
	Windows     []int
	CurveWindow int
	Categories  Categories
}
