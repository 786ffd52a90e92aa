// Package rolling computes WCA-style rolling averages and personal bests.
package rolling

import (
	"math"
	"sort"

	"github.com/gammazero/deque"
	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/cubestats/internal/model"
)

// Result holds the rolling series for one window size.
type Result struct {
	Window   int
	Averages []model.Entry
	PBs      []model.Entry
}

// TrimCount returns how many times are dropped from each end of an aoN.
func TrimCount(n int) int {
	switch n {
	case 5, 12:
		return 1
	case 100:
		return 5
	}
	if n <= 0 {
		return 0
	}
	return int(math.Floor(0.05 * float64(n)))
}

// TrimmedMean averages times after trimming TrimCount(n) from each end.
// It reports false when too few times remain or any time is a DNF.
func TrimmedMean(times []float64, n int) (float64, bool) {
	trim := TrimCount(n)
	if len(times) < 2*trim+1 {
		return 0, false
	}
	sorted := make([]float64, 0, len(times))
	for _, t := range times {
		if !usable(t) {
			return 0, false
		}
		sorted = append(sorted, t)
	}
	sort.Float64s(sorted)
	return meanOf(sorted[trim : len(sorted)-trim])
}

// Averages slides a window of n solves and returns the trimmed mean of every
// window whose solves all have a usable time. Entries are keyed by the
// window's last solve.
func Averages(solves []model.Solve, n int) []model.Entry {
	if n <= 0 || n > len(solves) {
		return nil
	}
	trim := TrimCount(n)
	if n < 2*trim+1 {
		return nil
	}
	w := newWindow(n)
	var out []model.Entry
	for i, s := range solves {
		w.push(s.Elapsed)
		if i < n-1 || w.unusable > 0 {
			continue
		}
		mean, ok := meanOf(w.sorted[trim : len(w.sorted)-trim])
		if !ok {
			continue
		}
		out = append(out, model.Entry{At: s.Timestamp, Value: mean, Index: i})
	}
	return out
}

// PersonalBests keeps the entries that are strictly lower than every
// earlier entry.
func PersonalBests(series []model.Entry) []model.Entry {
	return scanBests(series, true)
}

// Singles returns one entry per solve with a usable time.
func Singles(solves []model.Solve) []model.Entry {
	out := make([]model.Entry, 0, len(solves))
	for i, s := range solves {
		if !s.Usable() {
			continue
		}
		out = append(out, model.Entry{At: s.Timestamp, Value: s.Elapsed, Index: i})
	}
	return out
}

// SinglePBs returns single-solve personal bests. A time equal to the
// current best counts as a new PB.
func SinglePBs(solves []model.Solve) []model.Entry {
	return scanBests(Singles(solves), false)
}

// Stats returns the average and PB series for window n. A window of 1
// yields singles with the non-strict single PB rule.
func Stats(solves []model.Solve, n int) Result {
	if n == 1 {
		return Result{Window: 1, Averages: Singles(solves), PBs: SinglePBs(solves)}
	}
	avgs := Averages(solves, n)
	return Result{Window: n, Averages: avgs, PBs: PersonalBests(avgs)}
}

// Best returns the lowest value of a series.
func Best(series []model.Entry) (model.Entry, bool) {
	if len(series) == 0 {
		return model.Entry{}, false
	}
	best := series[0]
	for _, e := range series[1:] {
		if e.Value < best.Value {
			best = e
		}
	}
	return best, true
}

// Current returns the most recent average if it ends at the session's last
// solve.
func Current(solves []model.Solve, n int) (float64, bool) {
	if n <= 0 || n > len(solves) {
		return 0, false
	}
	times := make([]float64, n)
	for i, s := range solves[len(solves)-n:] {
		times[i] = s.Elapsed
	}
	return TrimmedMean(times, n)
}

func scanBests(series []model.Entry, strict bool) []model.Entry {
	best := math.Inf(1)
	var out []model.Entry
	for _, e := range series {
		improved := e.Value < best
		if !strict {
			improved = e.Value <= best
		}
		if !improved {
			continue
		}
		best = e.Value
		out = append(out, e)
	}
	return out
}

func meanOf(values []float64) (float64, bool) {
	mean, err := mstats.Mean(values)
	if err != nil {
		return 0, false
	}
	return mean, true
}

func usable(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

// window keeps the last size raw times in arrival order and the usable ones
// sorted ascending.
type window struct {
	size     int
	raw      deque.Deque[float64]
	sorted   []float64
	unusable int
}

func newWindow(size int) *window {
	return &window{size: size, sorted: make([]float64, 0, size)}
}

func (w *window) push(t float64) {
	if w.raw.Len() == w.size {
		w.remove(w.raw.PopFront())
	}
	w.raw.PushBack(t)
	if !usable(t) {
		w.unusable++
		return
	}
	idx := sort.SearchFloat64s(w.sorted, t)
	w.sorted = append(w.sorted, 0)
	copy(w.sorted[idx+1:], w.sorted[idx:])
	w.sorted[idx] = t
}

func (w *window) remove(t float64) {
	if !usable(t) {
		w.unusable--
		return
	}
	idx := sort.SearchFloat64s(w.sorted, t)
	if idx >= len(w.sorted) || w.sorted[idx] != t {
		return
	}
	w.sorted = append(w.sorted[:idx], w.sorted[idx+1:]...)
}
