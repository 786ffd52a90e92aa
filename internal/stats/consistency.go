package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/cubestats/internal/model"
)

// ConsistencyMinSolves is the number of timed solves a session must exceed
// to be ranked for consistency.
const ConsistencyMinSolves = 100

// Spread is the standard deviation of a session's timed solves.
type Spread struct {
	Session  string  `json:"session"`
	Category string  `json:"category"`
	Solves   int     `json:"solves"`
	StdDev   float64 `json:"std_dev"`
}

// Consistency ranks sessions by sample standard deviation, lowest first.
// Sessions with ConsistencyMinSolves or fewer timed solves are left out.
func Consistency(sessions []model.Session) []Spread {
	var out []Spread
	for _, s := range sessions {
		times := usableTimes(s.Solves)
		if len(times) <= ConsistencyMinSolves {
			continue
		}
		sd, err := mstats.StandardDeviationSample(times)
		if err != nil {
			continue
		}
		out = append(out, Spread{
			Session:  s.Name,
			Category: s.Category,
			Solves:   len(times),
			StdDev:   sd,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StdDev == out[j].StdDev {
			return out[i].Session < out[j].Session
		}
		return out[i].StdDev < out[j].StdDev
	})
	return out
}

// Percentile returns the rank of solve's time among the times of period as a
// percentage, where the fastest time ranks lowest. Equal times share the rank
// of their first occurrence.
func Percentile(solve model.Solve, period model.Period) float64 {
	n := len(period.Solves)
	if n == 0 {
		return 0
	}
	times := make([]float64, n)
	for i, s := range period.Solves {
		times[i] = s.Elapsed
	}
	sort.Float64s(times)
	idx := sort.SearchFloat64s(times, solve.Elapsed)
	if idx >= n || times[idx] != solve.Elapsed {
		return float64(n+1) / float64(n) * 100
	}
	return float64(idx+1) / float64(n) * 100
}

// SolveLevels returns the percentile of every solve within its period.
func SolveLevels(period model.Period) []float64 {
	levels := make([]float64, len(period.Solves))
	for i, s := range period.Solves {
		levels[i] = Percentile(s, period)
	}
	return levels
}

// ChunkLevels averages levels over consecutive chunks of len/chunks values.
func ChunkLevels(levels []float64, chunks int) []float64 {
	if len(levels) == 0 || chunks <= 0 {
		return nil
	}
	size := len(levels) / chunks
	if size < 1 {
		size = 1
	}
	out := make([]float64, 0, chunks+1)
	for i := 0; i < len(levels); i += size {
		end := i + size
		if end > len(levels) {
			end = len(levels)
		}
		mean, err := mstats.Mean(levels[i:end])
		if err != nil {
			continue
		}
		out = append(out, mean)
	}
	return out
}

// Distribution is a histogram of whole seconds plus the DNF count.
type Distribution struct {
	Seconds map[int]int `json:"seconds"`
	DNF     int         `json:"dnf"`
}

// Buckets returns the populated second buckets in ascending order.
func (d Distribution) Buckets() []int {
	keys := make([]int, 0, len(d.Seconds))
	for k := range d.Seconds {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// TimeDistribution buckets a session's solves by whole seconds.
func TimeDistribution(session model.Session) Distribution {
	d := Distribution{Seconds: map[int]int{}}
	for _, s := range session.Solves {
		if math.IsInf(s.Elapsed, 1) {
			d.DNF++
			continue
		}
		d.Seconds[int(math.Floor(s.Elapsed))]++
	}
	return d
}
