package stats

import (
	"sort"

	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/rolling"
)

// PBWindows are the averages counted alongside singles for PB density.
var PBWindows = []int{5, 12, 100}

// PBDensity counts personal bests per calendar date.
type PBDensity struct {
	BestDate string         `json:"best_date"`
	Counts   map[string]int `json:"counts"`
}

// PBDensityOf counts single, ao5, ao12 and ao100 PBs of every session by the
// date of the solve that set them. BestDate is the earliest date with the
// highest count.
func PBDensityOf(sessions []model.Session) PBDensity {
	out := PBDensity{Counts: map[string]int{}}
	for _, s := range sessions {
		for _, e := range rolling.SinglePBs(s.Solves) {
			out.Counts[dateKey(e.At)]++
		}
		for _, n := range PBWindows {
			for _, e := range rolling.PersonalBests(rolling.Averages(s.Solves, n)) {
				out.Counts[dateKey(e.At)]++
			}
		}
	}
	dates := make([]string, 0, len(out.Counts))
	for d := range out.Counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	best := 0
	for _, d := range dates {
		if out.Counts[d] > best {
			best = out.Counts[d]
			out.BestDate = d
		}
	}
	return out
}

// Improvement compares the first and last 100 timed solves of a session.
type Improvement struct {
	Session     string  `json:"session"`
	FirstAo100  float64 `json:"first_ao100"`
	LastAo100   float64 `json:"last_ao100"`
	PercentGain float64 `json:"improvement_pct"`
}

// MostImproved ranks sessions with more than 100 timed solves by how much
// their ao100 dropped from the first hundred to the last hundred solves.
func MostImproved(sessions []model.Session) []Improvement {
	const n = 100
	var out []Improvement
	for _, s := range sessions {
		times := usableTimes(s.Solves)
		if len(times) <= n {
			continue
		}
		first, ok := rolling.TrimmedMean(times[:n], n)
		if !ok || first == 0 {
			continue
		}
		last, ok := rolling.TrimmedMean(times[len(times)-n:], n)
		if !ok {
			continue
		}
		out = append(out, Improvement{
			Session:     s.Name,
			FirstAo100:  first,
			LastAo100:   last,
			PercentGain: (first - last) / first * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentGain > out[j].PercentGain
	})
	return out
}

func usableTimes(solves []model.Solve) []float64 {
	out := make([]float64, 0, len(solves))
	for _, s := range solves {
		if s.Usable() {
			out = append(out, s.Elapsed)
		}
	}
	return out
}
