package compare

import (
	"fmt"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/aggregator"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

// Engine computes period-over-period deltas between the live aggregate and
// a stored snapshot.
type Engine struct {
	store *store.Store
	agg   *aggregator.Aggregator
}

// New creates a comparison engine.
func New(s *store.Store, agg *aggregator.Aggregator) *Engine {
	return &Engine{store: s, agg: agg}
}

// Compare diffs live against the snapshot offsetDays back from now. A
// missing baseline is a normal outcome reported as Available=false. The
// historical side is recomputed from the stored project list rather than
// read from the stored charts, so both sides always go through the same
// classification code.
func (e *Engine) Compare(live model.Aggregate, offsetDays int, now time.Time) (model.Comparison, error) {
	date := model.DateKey(model.Midnight(now).AddDate(0, 0, -offsetDays))

	snap, err := e.store.GetSnapshot(date)
	if err != nil {
		return model.Comparison{}, fmt.Errorf("failed to load baseline snapshot: %w", err)
	}
	if snap == nil {
		return model.Comparison{Available: false, Date: date, OffsetDays: offsetDays}, nil
	}

	hist := e.agg.Aggregate(snap.Projects, now)

	return model.Comparison{
		Available:   true,
		Date:        date,
		OffsetDays:  offsetDays,
		Totals:      live.Summary.TotalProjects - hist.Summary.TotalProjects,
		ByDirection: diffCounts(live.Charts.ByDirection, hist.Charts.ByDirection),
		ByType:      diffCounts(live.Charts.ByType, hist.Charts.ByType),
		ByCompany:   diffCounts(live.Charts.ByCompany, hist.Charts.ByCompany),
		Finance: model.Finance{
			Paid:       live.Summary.Finance.Paid - hist.Summary.Finance.Paid,
			Receivable: live.Summary.Finance.Receivable - hist.Summary.Finance.Receivable,
			InWork:     live.Summary.Finance.InWork - hist.Summary.Finance.InWork,
			Total:      live.Summary.Finance.Total - hist.Summary.Finance.Total,
		},
		Deadlines: model.Deadlines{
			Completed:    live.Charts.Deadlines.Completed - hist.Charts.Deadlines.Completed,
			OnTrack:      live.Charts.Deadlines.OnTrack - hist.Charts.Deadlines.OnTrack,
			OverdueSmall: live.Charts.Deadlines.OverdueSmall - hist.Charts.Deadlines.OverdueSmall,
			OverdueLarge: live.Charts.Deadlines.OverdueLarge - hist.Charts.Deadlines.OverdueLarge,
		},
	}, nil
}

// diffCounts returns current minus historical over the union of keys.
func diffCounts(current, historical map[string]int) map[string]int {
	out := make(map[string]int, len(current))
	for k, v := range current {
		out[k] = v - historical[k]
	}
	for k, v := range historical {
		if _, ok := current[k]; !ok {
			out[k] = -v
		}
	}
	return out
}
