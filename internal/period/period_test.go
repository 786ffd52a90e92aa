package period

import (
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

var base = time.Date(2024, 5, 4, 18, 0, 0, 0, time.UTC)

func sessionAt(offsets ...time.Duration) model.Session {
	s := model.Session{Name: "Session 1", Category: "333"}
	for i, off := range offsets {
		s.Solves = append(s.Solves, model.Solve{Elapsed: float64(10 + i), Timestamp: base.Add(off)})
	}
	return s
}

func TestSegmentEmpty(t *testing.T) {
	if got := Segment(model.Session{}); len(got) != 0 {
		t.Fatalf("expected no periods, got %d", len(got))
	}
}

func TestSegmentSingleSolve(t *testing.T) {
	got := Segment(sessionAt(0))
	if len(got) != 1 {
		t.Fatalf("expected 1 period, got %d", len(got))
	}
	if got[0].Duration() != 0 {
		t.Fatalf("expected zero duration, got %v", got[0].Duration())
	}
	if got[0].SessionName != "Session 1" || got[0].Category != "333" {
		t.Fatalf("period did not inherit session fields: %+v", got[0])
	}
}

func TestSegmentGapBoundary(t *testing.T) {
	// 20m exactly stays in the period; 20m1s splits.
	s := sessionAt(0, 20*time.Minute, 40*time.Minute+time.Second, 41*time.Minute)
	got := Segment(s)
	if len(got) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(got))
	}
	if len(got[0].Solves) != 2 || len(got[1].Solves) != 2 {
		t.Fatalf("unexpected split: %d/%d", len(got[0].Solves), len(got[1].Solves))
	}
}

func TestSegmentMeasuresFromLastSolve(t *testing.T) {
	// Each gap is 15m so the period spans an hour.
	s := sessionAt(0, 15*time.Minute, 30*time.Minute, 45*time.Minute, 60*time.Minute)
	got := Segment(s)
	if len(got) != 1 {
		t.Fatalf("expected 1 period, got %d", len(got))
	}
	if got[0].Duration() != time.Hour {
		t.Fatalf("expected 1h, got %v", got[0].Duration())
	}
}

func TestSegmentProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var offsets []time.Duration
	at := time.Duration(0)
	for i := 0; i < 500; i++ {
		at += time.Duration(rnd.Intn(3600)) * time.Second
		offsets = append(offsets, at)
	}
	s := sessionAt(offsets...)
	periods := Segment(s)

	total := 0
	for pi, p := range periods {
		if len(p.Solves) == 0 {
			t.Fatalf("period %d is empty", pi)
		}
		for i := 1; i < len(p.Solves); i++ {
			if p.Solves[i].Timestamp.Sub(p.Solves[i-1].Timestamp) > DefaultGap {
				t.Fatalf("period %d has an internal gap above threshold", pi)
			}
		}
		if pi < len(periods)-1 {
			next := periods[pi+1]
			if next.Start().Sub(p.End()) <= DefaultGap {
				t.Fatalf("periods %d and %d should have been merged", pi, pi+1)
			}
		}
		for _, solve := range p.Solves {
			if solve.Timestamp != s.Solves[total].Timestamp || solve.Elapsed != s.Solves[total].Elapsed {
				t.Fatalf("concatenation mismatch at solve %d", total)
			}
			total++
		}
	}
	if total != len(s.Solves) {
		t.Fatalf("expected %d solves across periods, got %d", len(s.Solves), total)
	}
}

func TestSegmentWithCustomGap(t *testing.T) {
	s := sessionAt(0, 5*time.Minute, 11*time.Minute)
	if got := SegmentWithGap(s, 5*time.Minute); len(got) != 2 {
		t.Fatalf("expected 2 periods with 5m gap, got %d", len(got))
	}
}

func TestSegmentAll(t *testing.T) {
	a := sessionAt(0, time.Hour)
	b := sessionAt(0)
	b.Name = "Session 2"
	got := SegmentAll([]model.Session{a, b}, DefaultGap)
	if len(got) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(got))
	}
	if got[2].SessionName != "Session 2" {
		t.Fatalf("expected session order preserved, got %q", got[2].SessionName)
	}
}
