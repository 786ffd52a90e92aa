package rolling

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

var base = time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)

func solvesOf(times ...float64) []model.Solve {
	out := make([]model.Solve, len(times))
	for i, t := range times {
		out[i] = model.Solve{Elapsed: t, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		if math.IsInf(t, 1) {
			out[i].Penalty = model.PenaltyDNF
		}
	}
	return out
}

func entriesOf(values ...float64) []model.Entry {
	out := make([]model.Entry, len(values))
	for i, v := range values {
		out[i] = model.Entry{At: base.Add(time.Duration(i) * time.Minute), Value: v, Index: i}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrimCount(t *testing.T) {
	cases := map[int]int{1: 0, 3: 0, 5: 1, 12: 1, 20: 1, 50: 2, 100: 5, 1000: 50, 0: 0, -4: 0}
	for n, want := range cases {
		if got := TrimCount(n); got != want {
			t.Fatalf("TrimCount(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestTrimmedMeanAo5(t *testing.T) {
	got, ok := TrimmedMean([]float64{1, 2, 3, 4, 5}, 5)
	if !ok || !approx(got, 3.0) {
		t.Fatalf("expected 3.0, got %v (ok=%v)", got, ok)
	}
	got, ok = TrimmedMean([]float64{5, 1, 4, 2, 3}, 5)
	if !ok || !approx(got, 3.0) {
		t.Fatalf("expected order-independent 3.0, got %v", got)
	}
}

func TestTrimmedMeanAo12DropsOneEachEnd(t *testing.T) {
	times := []float64{100, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
	got, ok := TrimmedMean(times, 12)
	if !ok || !approx(got, 2.0) {
		t.Fatalf("expected 2.0, got %v (ok=%v)", got, ok)
	}
}

func TestTrimmedMeanAo100DropsFiveEachEnd(t *testing.T) {
	times := make([]float64, 0, 100)
	for i := 0; i < 5; i++ {
		times = append(times, 1)
	}
	for i := 0; i < 90; i++ {
		times = append(times, 10)
	}
	for i := 0; i < 5; i++ {
		times = append(times, 1000)
	}
	got, ok := TrimmedMean(times, 100)
	if !ok || !approx(got, 10.0) {
		t.Fatalf("expected 10.0, got %v (ok=%v)", got, ok)
	}
}

func TestTrimmedMeanRejectsDNF(t *testing.T) {
	if _, ok := TrimmedMean([]float64{1, 2, model.DNF, 4, 5}, 5); ok {
		t.Fatalf("expected DNF window to be rejected")
	}
	if _, ok := TrimmedMean([]float64{1, 2}, 5); ok {
		t.Fatalf("expected short input to be rejected")
	}
}

func TestAveragesSkipsDNFWindows(t *testing.T) {
	solves := solvesOf(1, 2, 3, 4, 5, model.DNF, 6, 7, 8, 9, 10, 11)
	got := Averages(solves, 5)
	// Windows ending at 4 and 10, 11 have no DNF.
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(got), got)
	}
	if got[0].Index != 4 || !approx(got[0].Value, 3) {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if !got[0].At.Equal(solves[4].Timestamp) {
		t.Fatalf("entry must be keyed by the window's last solve")
	}
	if got[1].Index != 10 || !approx(got[1].Value, 8) {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
	if got[2].Index != 11 || !approx(got[2].Value, 9) {
		t.Fatalf("unexpected third entry: %+v", got[2])
	}
}

func TestAveragesEdgeWindows(t *testing.T) {
	solves := solvesOf(1, 2, 3)
	if got := Averages(solves, 0); len(got) != 0 {
		t.Fatalf("expected empty series for n=0")
	}
	if got := Averages(solves, -1); len(got) != 0 {
		t.Fatalf("expected empty series for n<0")
	}
	if got := Averages(solves, 5); len(got) != 0 {
		t.Fatalf("expected empty series when n exceeds length")
	}
	if got := Averages(nil, 5); len(got) != 0 {
		t.Fatalf("expected empty series for no solves")
	}
}

func TestAveragesMatchesTrimmedMean(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	times := make([]float64, 300)
	for i := range times {
		times[i] = 8 + rnd.Float64()*10
		if rnd.Intn(40) == 0 {
			times[i] = model.DNF
		}
	}
	solves := solvesOf(times...)
	for _, n := range []int{3, 5, 12, 50, 100} {
		got := Averages(solves, n)
		gi := 0
		for end := n - 1; end < len(times); end++ {
			want, ok := TrimmedMean(times[end-n+1:end+1], n)
			if !ok {
				continue
			}
			if gi >= len(got) {
				t.Fatalf("n=%d: missing entry for window ending at %d", n, end)
			}
			if got[gi].Index != end || !approx(got[gi].Value, want) {
				t.Fatalf("n=%d: entry %d = %+v, want index %d value %v", n, gi, got[gi], end, want)
			}
			gi++
		}
		if gi != len(got) {
			t.Fatalf("n=%d: expected %d entries, got %d", n, gi, len(got))
		}
	}
}

func TestPersonalBestsStrict(t *testing.T) {
	got := PersonalBests(entriesOf(10, 9, 9, 8))
	want := []int{0, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %d PBs, got %d: %+v", len(want), len(got), got)
	}
	for i, idx := range want {
		if got[i].Index != idx {
			t.Fatalf("PB %d at index %d, want %d", i, got[i].Index, idx)
		}
	}
}

func TestSinglePBsNonStrict(t *testing.T) {
	got := SinglePBs(solvesOf(10, 10, 9))
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d PBs, got %d: %+v", len(want), len(got), got)
	}
	for i, idx := range want {
		if got[i].Index != idx {
			t.Fatalf("PB %d at index %d, want %d", i, got[i].Index, idx)
		}
	}
}

func TestSinglePBsIgnoreDNF(t *testing.T) {
	got := SinglePBs(solvesOf(model.DNF, 12, model.DNF, 11))
	if len(got) != 2 || got[0].Index != 1 || got[1].Index != 3 {
		t.Fatalf("unexpected single PBs: %+v", got)
	}
}

func TestStats(t *testing.T) {
	solves := solvesOf(5, 4, 3, 2, 1, 6)
	res := Stats(solves, 5)
	if res.Window != 5 || len(res.Averages) != 2 {
		t.Fatalf("unexpected ao5 result: %+v", res)
	}
	if len(res.PBs) != 1 || res.PBs[0].Index != 4 {
		t.Fatalf("expected a single PB at index 4, got %+v", res.PBs)
	}
	singles := Stats(solves, 1)
	if len(singles.Averages) != 6 || len(singles.PBs) != 5 {
		t.Fatalf("unexpected singles result: %d averages, %d PBs", len(singles.Averages), len(singles.PBs))
	}
}

func TestBestAndCurrent(t *testing.T) {
	if _, ok := Best(nil); ok {
		t.Fatalf("expected no best for empty series")
	}
	best, ok := Best(entriesOf(3, 1, 2))
	if !ok || best.Index != 1 {
		t.Fatalf("unexpected best: %+v", best)
	}
	cur, ok := Current(solvesOf(9, 1, 2, 3, 4, 5), 5)
	if !ok || !approx(cur, 3) {
		t.Fatalf("expected current ao5 of 3, got %v", cur)
	}
	if _, ok := Current(solvesOf(1, 2), 5); ok {
		t.Fatalf("expected no current ao5 for 2 solves")
	}
}
