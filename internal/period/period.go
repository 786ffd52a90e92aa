// Package period splits solve streams into cubing periods.
package period

import (
	"time"

	"github.com/verte-zerg/cubestats/internal/model"
)

// DefaultGap is the idle time after which a new period starts.
const DefaultGap = 20 * time.Minute

// Segment splits a session into periods using DefaultGap.
func Segment(session model.Session) []model.Period {
	return SegmentWithGap(session, DefaultGap)
}

// SegmentWithGap splits a session's solves into periods. A solve joins the
// current period when it follows the last appended solve by at most gap.
// Solves must be in chronological order.
func SegmentWithGap(session model.Session, gap time.Duration) []model.Period {
	if len(session.Solves) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultGap
	}
	var periods []model.Period
	start := 0
	for i := 1; i < len(session.Solves); i++ {
		delta := session.Solves[i].Timestamp.Sub(session.Solves[i-1].Timestamp)
		if delta <= gap {
			continue
		}
		periods = append(periods, newPeriod(session, start, i))
		start = i
	}
	periods = append(periods, newPeriod(session, start, len(session.Solves)))
	return periods
}

// SegmentAll segments every session in order.
func SegmentAll(sessions []model.Session, gap time.Duration) []model.Period {
	var out []model.Period
	for _, s := range sessions {
		out = append(out, SegmentWithGap(s, gap)...)
	}
	return out
}

func newPeriod(session model.Session, from, to int) model.Period {
	solves := make([]model.Solve, to-from)
	copy(solves, session.Solves[from:to])
	return model.Period{
		SessionName:     session.Name,
		Category:        session.Category,
		MixedCategories: session.MixedCategories,
		Solves:          solves,
	}
}
