package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cubestats/internal/model"
)

func entries(start time.Time, values ...float64) []model.Entry {
	out := make([]model.Entry, len(values))
	for i, v := range values {
		out[i] = model.Entry{At: start.Add(time.Duration(i) * time.Hour), Value: v, Index: i}
	}
	return out
}

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "ao5", Points: entries(base, 12, 11, 10, 11, 9)},
		{Name: "ao12", Points: entries(base.Add(2*time.Hour), 11, 10.5, 10)},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", "12.00", "9.00", "2024-01-01", "Legend:", "ao12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title + rows + time axis + legend
	if len(lines) != 1+4+1+1 {
		t.Fatalf("expected 7 lines of output, got %d", len(lines))
	}
}

func TestPlotSeriesSkipsEmptyAndDNF(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Empty", []Series{
		{Name: "dnf", Points: []model.Entry{{At: base, Value: model.DNF}}},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestBucketByTime(t *testing.T) {
	points := entries(base, 10, 20, 30)
	got := bucketByTime(points, base, base.Add(2*time.Hour), 3)
	if got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Fatalf("unexpected buckets %v", got)
	}
	got = bucketByTime(points, base, base.Add(2*time.Hour), 2)
	if got[0] != 15 || got[1] != 30 {
		t.Fatalf("unexpected merged buckets %v", got)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-runewidth.StringWidth(axisSeparator) {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}
