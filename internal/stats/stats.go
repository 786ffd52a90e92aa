// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/rolling"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints batch-wide totals.
func RenderSummary(w io.Writer, r Report) error {
	if len(r.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	solves := 0
	for _, s := range r.Sessions {
		solves += len(s.Solves)
	}
	var spent time.Duration
	for _, p := range r.Periods {
		spent += p.Duration()
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %s", humanize.Comma(int64(len(r.Sessions)))),
		fmt.Sprintf("Solves: %s", humanize.Comma(int64(solves))),
		fmt.Sprintf("Cubing periods: %s", humanize.Comma(int64(len(r.Periods)))),
		fmt.Sprintf("Time spent cubing: %s", FormatDuration(spent)),
		fmt.Sprintf("Average per day: %s", FormatDuration(r.AveragePerDay)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints one row per session with its current and best
// averages for the report windows.
func RenderSessions(w io.Writer, r Report) error {
	if len(r.Summaries) == 0 {
		return nil
	}
	headers := []string{"Session", "Event", "Solves", "DNF", "Best", "Mean"}
	for _, n := range r.Config.Windows {
		headers = append(headers, fmt.Sprintf("ao%d", n), fmt.Sprintf("Best ao%d", n))
	}
	rightAlign := map[int]bool{}
	for i := 2; i < len(headers); i++ {
		rightAlign[i] = true
	}
	rows := make([][]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		row := []string{
			s.Name,
			r.Config.Categories.Name(s.Category),
			humanize.Comma(int64(s.Solves)),
			humanize.Comma(int64(s.DNFs)),
			FormatTime(s.BestSingle),
			FormatTime(s.Mean),
		}
		for _, ws := range s.Windows {
			row = append(row, optionalTime(ws.Current, ws.HasCurrent), optionalTime(ws.Best, ws.HasBest))
		}
		rows = append(rows, row)
	}
	return printTable(w, "Sessions", headers, rows, rightAlign)
}

// RenderHighlights prints the busiest days, longest period, consistency and
// improvement rankings.
func RenderHighlights(w io.Writer, r Report) error {
	var lines []string
	lines = append(lines, "Highlights")
	if r.BusiestBySolves.Date != "" {
		lines = append(lines, fmt.Sprintf("Busiest day (solves): %s with %s solves",
			r.BusiestBySolves.Date, humanize.Comma(int64(r.BusiestBySolves.Value))))
	}
	if r.BusiestByTime.Date != "" {
		lines = append(lines, fmt.Sprintf("Busiest day (time): %s with %s",
			r.BusiestByTime.Date, FormatDuration(secondsDuration(r.BusiestByTime.Value))))
	}
	if r.HasLongest {
		lines = append(lines, fmt.Sprintf("Longest period: %s in %s on %s (%d solves)",
			FormatDuration(r.Longest.Duration()), r.Longest.SessionName,
			r.Longest.Start().Format("2006-01-02 15:04"), len(r.Longest.Solves)))
	}
	if r.PBDensity.BestDate != "" {
		lines = append(lines, fmt.Sprintf("Most PBs in a day: %s (%d)",
			r.PBDensity.BestDate, r.PBDensity.Counts[r.PBDensity.BestDate]))
	}
	if hour, secs := r.Activity.BusiestHour(); secs > 0 {
		lines = append(lines, fmt.Sprintf("Most active hour: %02d:00", hour))
	}
	for i, s := range r.Consistency {
		if i == 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s most consistent: %s (σ %.2fs over %s solves)",
			humanize.Ordinal(i+1), s.Session, s.StdDev, humanize.Comma(int64(s.Solves))))
	}
	for i, imp := range r.MostImproved {
		if i == 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s most improved: %s (%s -> %s, %.1f%%)",
			humanize.Ordinal(i+1), imp.Session, FormatTime(imp.FirstAo100), FormatTime(imp.LastAo100), imp.PercentGain))
	}
	if len(lines) == 1 {
		lines = append(lines, "Not enough data.")
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTimeSpent prints time spent per category, busiest first.
func RenderTimeSpent(w io.Writer, r Report) error {
	if len(r.TimeSpent) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.TimeSpent))
	for name := range r.TimeSpent {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.TimeSpent[names[i]] == r.TimeSpent[names[j]] {
			return names[i] < names[j]
		}
		return r.TimeSpent[names[i]] > r.TimeSpent[names[j]]
	})
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, FormatDuration(r.TimeSpent[name]), FormatDuration(r.SolvingTime[name])})
	}
	return printTable(w, "Time Spent", []string{"Event", "Cubing", "Solving"}, rows, map[int]bool{1: true, 2: true})
}

// RenderCurves plots the rolling averages of a session on a shared axis.
func RenderCurves(w io.Writer, session model.Session, windows []int) error {
	return RenderCurvesWithSize(w, session, windows, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize plots the rolling averages sized to a given total width.
func RenderCurvesWithSize(w io.Writer, session model.Session, windows []int, totalWidth, height int, useColor bool) error {
	series := make([]Series, 0, len(windows))
	for _, n := range windows {
		res := rolling.Stats(session.Solves, n)
		name := fmt.Sprintf("ao%d", n)
		if n == 1 {
			name = "single"
		}
		series = append(series, Series{Name: name, Points: res.Averages})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, fmt.Sprintf("%s progression", session.Name), series, width, height, useColor)
}

// RenderPBs prints the PB progression of one window.
func RenderPBs(w io.Writer, session model.Session, window int) error {
	res := rolling.Stats(session.Solves, window)
	label := fmt.Sprintf("ao%d", window)
	if window == 1 {
		label = "single"
	}
	if len(res.PBs) == 0 {
		_, err := fmt.Fprintf(w, "No %s PBs in %s.\n", label, session.Name)
		return err
	}
	rows := make([][]string, 0, len(res.PBs))
	values := make([]float64, 0, len(res.PBs))
	for i, pb := range res.PBs {
		delta := "-"
		if i > 0 {
			delta = fmt.Sprintf("%.2f", pb.Value-res.PBs[i-1].Value)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			pb.At.Format("2006-01-02 15:04"),
			humanize.Comma(int64(pb.Index + 1)),
			FormatTime(pb.Value),
			delta,
		})
		values = append(values, pb.Value)
	}
	title := fmt.Sprintf("%s %s PBs  %s", session.Name, label, Sparkline(values))
	return printTable(w, title, []string{"#", "Date", "Solve", label, "Delta"}, rows, map[int]bool{0: true, 2: true, 3: true, 4: true})
}

// RenderPeriods prints the cubing periods of the report and the longest one.
func RenderPeriods(w io.Writer, r Report, limit int) error {
	if len(r.Periods) == 0 {
		_, err := fmt.Fprintln(w, "No cubing periods found.")
		return err
	}
	periods := r.Periods
	if limit > 0 && len(periods) > limit {
		periods = periods[len(periods)-limit:]
	}
	rows := make([][]string, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, []string{
			p.Start().Format("2006-01-02 15:04"),
			p.SessionName,
			r.Config.Categories.Name(p.Category),
			humanize.Comma(int64(len(p.Solves))),
			FormatDuration(p.Duration()),
		})
	}
	title := fmt.Sprintf("Cubing Periods (gap %s, %s total)", r.Config.Gap, humanize.Comma(int64(len(r.Periods))))
	if err := printTable(w, title, []string{"Start", "Session", "Event", "Solves", "Duration"}, rows, map[int]bool{3: true, 4: true}); err != nil {
		return err
	}
	if r.HasLongest {
		if _, err := fmt.Fprintf(w, "Longest: %s on %s in %s\n\n", FormatDuration(r.Longest.Duration()),
			r.Longest.Start().Format("2006-01-02 15:04"), r.Longest.SessionName); err != nil {
			return err
		}
	}
	return nil
}

// RenderActivity prints the hour-of-day and weekday histograms.
func RenderActivity(w io.Writer, a Activity) error {
	if a.Total() == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Activity by hour"); err != nil {
		return err
	}
	hourly := a.Hourly[:]
	for h, secs := range hourly {
		label := fmt.Sprintf("%02d:00", h)
		if err := writeBar(w, label, secs, maxOf(hourly)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "\nActivity by weekday"); err != nil {
		return err
	}
	weekday := a.Weekday[:]
	for i := 0; i < 7; i++ {
		// Monday first.
		d := time.Weekday((i + 1) % 7)
		if err := writeBar(w, d.String()[:3], weekday[d], maxOf(weekday)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

const barWidth = 40

func writeBar(w io.Writer, label string, secs, maxVal float64) error {
	n := 0
	if maxVal > 0 {
		n = int(math.Round(secs / maxVal * barWidth))
	}
	_, err := fmt.Fprintf(w, "%-5s %s %s\n", label, strings.Repeat("#", n), FormatDuration(secondsDuration(secs)))
	return err
}

func maxOf(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		best = math.Max(best, v)
	}
	return best
}

func optionalTime(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return FormatTime(v)
}

func secondsDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
