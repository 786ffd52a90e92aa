package model

import (
	"testing"
	"time"
)

func TestPeriodDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	single := Period{Solves: []Solve{{Elapsed: 10, Timestamp: start}}}
	if got := single.Duration(); got != 0 {
		t.Fatalf("expected zero duration for single solve, got %v", got)
	}
	p := Period{Solves: []Solve{
		{Elapsed: 10, Timestamp: start},
		{Elapsed: 11, Timestamp: start.Add(5 * time.Minute)},
		{Elapsed: 12, Timestamp: start.Add(9 * time.Minute)},
	}}
	if got := p.Duration(); got != 9*time.Minute {
		t.Fatalf("expected 9m, got %v", got)
	}
	if !p.Start().Equal(start) || !p.End().Equal(start.Add(9*time.Minute)) {
		t.Fatalf("unexpected bounds: %v - %v", p.Start(), p.End())
	}
	if (Period{}).Duration() != 0 {
		t.Fatalf("expected zero duration for empty period")
	}
}

func TestSolveUsable(t *testing.T) {
	cases := []struct {
		solve Solve
		want  bool
	}{
		{Solve{Elapsed: 9.5}, true},
		{Solve{Elapsed: DNF, Penalty: PenaltyDNF}, false},
		{Solve{Elapsed: 0}, false},
	}
	for _, c := range cases {
		if got := c.solve.Usable(); got != c.want {
			t.Fatalf("Usable(%v) = %v, want %v", c.solve.Elapsed, got, c.want)
		}
	}
}

func TestCategoriesName(t *testing.T) {
	cats := DefaultCategories()
	if got := cats.Name("333oh"); got != "3x3x3 One-Handed" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := cats.Name("clock"); got != "clock" {
		t.Fatalf("expected unknown code fallback, got %q", got)
	}
	custom := cats.WithOverrides(map[string]string{"clock": "Clock", "333oh": ""})
	if got := custom.Name("clock"); got != "Clock" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := custom.Name("333oh"); got != "3x3x3 One-Handed" {
		t.Fatalf("empty override must not replace name, got %q", got)
	}
	if _, ok := cats["clock"]; ok {
		t.Fatalf("WithOverrides must not mutate the receiver")
	}
}
