package history

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

// Tracker records per-project status history alongside each snapshot and
// answers duration-in-status queries.
type Tracker struct {
	store *store.Store
}

// New creates a tracker over the given store.
func New(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// Record writes one history row per project for dateKey. The status change
// timestamp only advances on an actual transition against the latest prior
// record; an unchanged status carries the prior timestamp forward, and a
// project never seen before starts at now. Recording is best-effort per
// project: one failed row does not stop the rest, the first error is
// reported after the batch.
func (t *Tracker) Record(projects []model.Project, dateKey string, now time.Time) error {
	var firstErr error

	for i := range projects {
		p := &projects[i]
		if err := t.recordOne(p, dateKey, now); err != nil {
			log.Printf("history record failed for %s: %v", p.Key(), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *Tracker) recordOne(p *model.Project, dateKey string, now time.Time) error {
	key := p.Key()

	prior, err := t.store.LatestHistoryBefore(key, dateKey)
	if err != nil {
		return err
	}

	rec := model.HistoryRecord{
		ProjectKey: key,
		WeekStart:  dateKey,
		Status:     p.Status,
		Project:    *p,
	}

	switch {
	case prior == nil:
		// First observation ever. If older data is backfilled later the
		// timestamp is not re-derived; see getDuration's contract.
		rec.StatusChangedAt = now
	case !sameStatus(prior.Status, p.Status):
		rec.StatusChangedAt = now
		rec.PreviousStatus = prior.Status
	default:
		rec.StatusChangedAt = prior.StatusChangedAt
		rec.PreviousStatus = prior.Status
	}

	return t.store.UpsertHistory(&rec)
}

// History returns every record for projectKey, newest first.
func (t *Tracker) History(projectKey string) ([]model.HistoryRecord, error) {
	return t.store.HistoryForKey(projectKey)
}

// Duration returns how many calendar days the project has been in its
// current status, midnight to midnight, or nil when the project has no
// recorded change timestamp.
func (t *Tracker) Duration(projectKey string, now time.Time) (*int, error) {
	rec, err := t.store.LatestHistory(projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", projectKey, err)
	}
	if rec == nil || rec.StatusChangedAt.IsZero() {
		return nil, nil
	}

	// The driver hands timestamps back in UTC; rebase to the caller's
	// location so the calendar-day math uses one wall clock.
	days := model.DaysBetween(rec.StatusChangedAt.In(now.Location()), now)
	return &days, nil
}

// Durations answers Duration for many keys in one pass. Keys without a
// record map to nil.
func (t *Tracker) Durations(projectKeys []string, now time.Time) (map[string]*int, error) {
	out := make(map[string]*int, len(projectKeys))
	for _, key := range projectKeys {
		days, err := t.Duration(key, now)
		if err != nil {
			return nil, err
		}
		out[key] = days
	}
	return out, nil
}

// sameStatus compares status labels the way the sheets mean them: ignoring
// case and surrounding whitespace.
func sameStatus(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
