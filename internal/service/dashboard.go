package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/aggregator"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/cache"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/compare"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/config"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/history"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/normalizer"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/source"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

// Dashboard is the application service behind the HTTP API: it runs the
// normalize+aggregate pipeline with caching, owns snapshot creation and
// the history/comparison queries.
type Dashboard struct {
	norm    *normalizer.Normalizer
	agg     *aggregator.Aggregator
	cache   *cache.Cache
	store   *store.Store
	tracker *history.Tracker
	engine  *compare.Engine

	defaultSource string
	compareDays   int
	ttl           time.Duration

	now func() time.Time
}

// New wires the dashboard service.
func New(src source.RowSource, cfg *config.AppConfig, st *store.Store, c *cache.Cache) *Dashboard {
	agg := aggregator.New(cfg.Business.Companies)
	return &Dashboard{
		norm:          normalizer.New(src, cfg.Source),
		agg:           agg,
		cache:         c,
		store:         st,
		tracker:       history.New(st),
		engine:        compare.New(st, agg),
		defaultSource: cfg.Source.DefaultWorkbook,
		compareDays:   cfg.Business.CompareDays,
		ttl:           time.Duration(cfg.Business.CacheTTLSeconds) * time.Second,
		now:           time.Now,
	}
}

// DefaultSource returns the source id used when a request names none.
func (d *Dashboard) DefaultSource() string {
	return d.defaultSource
}

// CompareDays returns the configured default comparison lookback.
func (d *Dashboard) CompareDays() int {
	return d.compareDays
}

// GetAggregate returns the aggregate bundle for sourceID, from cache when a
// fresh entry exists. force bypasses and replaces the cached entry.
func (d *Dashboard) GetAggregate(ctx context.Context, sourceID string, force bool) (model.Aggregate, error) {
	if !force {
		if agg, ok := d.cache.Get(sourceID); ok {
			return agg, nil
		}
	}

	agg, err := d.compute(ctx, sourceID)
	if err != nil {
		return model.Aggregate{}, err
	}

	d.cache.Set(sourceID, agg, d.ttl)
	return agg, nil
}

// InvalidateCache drops the cached bundle for sourceID.
func (d *Dashboard) InvalidateCache(sourceID string) {
	d.cache.Delete(sourceID)
	d.logActivity("cache_invalidate", sourceID)
}

func (d *Dashboard) compute(ctx context.Context, sourceID string) (model.Aggregate, error) {
	projects, err := d.norm.Normalize(ctx, sourceID)
	if err != nil {
		return model.Aggregate{}, fmt.Errorf("normalization failed for %q: %w", sourceID, err)
	}
	return d.agg.Aggregate(projects, d.now()), nil
}

// CreateSnapshot computes a fresh bundle (never from cache), persists it
// under today's date key and records project history. Repeated calls on
// one calendar day overwrite the same snapshot row. A history failure
// after a successful snapshot write propagates; re-running creation
// recovers the degraded state.
func (d *Dashboard) CreateSnapshot(ctx context.Context, sourceID string) (model.SnapshotMeta, error) {
	agg, err := d.compute(ctx, sourceID)
	if err != nil {
		return model.SnapshotMeta{}, err
	}

	now := d.now()
	dateKey := model.DateKey(now)

	snap := &model.Snapshot{
		DateKey:   dateKey,
		CreatedAt: now,
		Summary:   agg.Summary,
		Charts:    agg.Charts,
		Projects:  agg.Projects,
	}
	if err := d.store.UpsertSnapshot(snap); err != nil {
		return model.SnapshotMeta{}, err
	}

	if err := d.tracker.Record(agg.Projects, dateKey, now); err != nil {
		return model.SnapshotMeta{}, fmt.Errorf("snapshot stored but history recording failed: %w", err)
	}

	d.cache.Set(sourceID, agg, d.ttl)
	d.logActivity("snapshot_create", dateKey)

	return model.SnapshotMeta{
		DateKey:       dateKey,
		DisplayDate:   now.Format(model.DisplayDateLayout),
		CreatedAt:     now,
		IsToday:       true,
		TotalProjects: agg.Summary.TotalProjects,
	}, nil
}

// Snapshot loads one stored snapshot; nil means no snapshot for that day.
func (d *Dashboard) Snapshot(dateKey string) (*model.Snapshot, error) {
	return d.store.GetSnapshot(dateKey)
}

// Snapshots lists stored snapshot metadata, newest first.
func (d *Dashboard) Snapshots() ([]model.SnapshotMeta, error) {
	return d.store.ListSnapshots(model.DateKey(d.now()))
}

// DeleteSnapshot removes a snapshot and its history rows.
func (d *Dashboard) DeleteSnapshot(dateKey string) (bool, error) {
	deleted, err := d.store.DeleteSnapshot(dateKey)
	if err == nil && deleted {
		d.logActivity("snapshot_delete", dateKey)
	}
	return deleted, err
}

// ProjectHistory returns the full status history of one project key.
func (d *Dashboard) ProjectHistory(projectKey string) ([]model.HistoryRecord, error) {
	return d.tracker.History(projectKey)
}

// StatusDurations answers days-in-current-status for many project keys.
func (d *Dashboard) StatusDurations(projectKeys []string) (map[string]*int, error) {
	return d.tracker.Durations(projectKeys, d.now())
}

// Compare diffs the live aggregate against the snapshot offsetDays back.
func (d *Dashboard) Compare(ctx context.Context, sourceID string, offsetDays int) (model.Comparison, error) {
	live, err := d.GetAggregate(ctx, sourceID, false)
	if err != nil {
		return model.Comparison{}, err
	}
	return d.engine.Compare(live, offsetDays, d.now())
}

// Activity returns the newest audit entries.
func (d *Dashboard) Activity(limit int) ([]model.ActivityEntry, error) {
	return d.store.ListActivity(limit)
}

// SetClock overrides the time source, used by tests.
func (d *Dashboard) SetClock(now func() time.Time) {
	d.now = now
}

// logActivity appends an audit entry. Failures are logged and swallowed:
// auditing never changes the outcome of the operation it describes.
func (d *Dashboard) logActivity(action, detail string) {
	entry := &model.ActivityEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Detail:    detail,
		CreatedAt: d.now(),
	}
	if err := d.store.InsertActivity(entry); err != nil {
		log.Printf("activity log write failed (%s): %v", action, err)
	}
}
