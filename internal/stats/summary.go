package stats

import (
	"fmt"
	"math"
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/rolling"
)

// DefaultWindows are the average sizes reported per session.
var DefaultWindows = []int{5, 12, 100}

// WindowSummary describes one aoN for a session.
type WindowSummary struct {
	Window     int     `json:"window"`
	Current    float64 `json:"current"`
	HasCurrent bool    `json:"has_current"`
	Best       float64 `json:"best"`
	HasBest    bool    `json:"has_best"`
	PBCount    int     `json:"pb_count"`
}

// SessionSummary condenses a session for tables and cards.
type SessionSummary struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Solves     int             `json:"solves"`
	DNFs       int             `json:"dnfs"`
	BestSingle float64         `json:"best_single"`
	Mean       float64         `json:"mean"`
	Windows    []WindowSummary `json:"windows"`
}

// Summarize computes the summary of a session for the given windows.
func Summarize(session model.Session, windows []int) SessionSummary {
	out := SessionSummary{
		ID:       session.ID,
		Name:     session.Name,
		Category: session.Category,
		Solves:   len(session.Solves),
	}
	times := usableTimes(session.Solves)
	for _, s := range session.Solves {
		if s.Penalty == model.PenaltyDNF {
			out.DNFs++
		}
	}
	if len(times) > 0 {
		out.BestSingle, _ = mstats.Min(times)
		out.Mean, _ = mstats.Mean(times)
	}
	for _, n := range windows {
		ws := WindowSummary{Window: n}
		ws.Current, ws.HasCurrent = rolling.Current(session.Solves, n)
		res := rolling.Stats(session.Solves, n)
		if best, ok := rolling.Best(res.Averages); ok {
			ws.Best, ws.HasBest = best.Value, true
		}
		ws.PBCount = len(res.PBs)
		out.Windows = append(out.Windows, ws)
	}
	return out
}

// FormatTime renders a solve time as seconds or m:ss.xx.
func FormatTime(secs float64) string {
	if math.IsInf(secs, 1) {
		return "DNF"
	}
	if secs <= 0 || math.IsNaN(secs) {
		return "-"
	}
	if secs < 60 {
		return fmt.Sprintf("%.2f", secs)
	}
	minutes := int(secs / 60)
	return fmt.Sprintf("%d:%05.2f", minutes, secs-float64(minutes*60))
}

// FormatDuration renders a duration as days, hours and minutes.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
