package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

func newTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func site(status string) model.Project {
	return model.Project{Name: "Site", Direction: "Web", Status: status}
}

func TestRecord_FirstObservationStartsNow(t *testing.T) {
	t.Parallel()
	tr, s := newTracker(t)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-01", now); err != nil {
		t.Fatalf("record: %v", err)
	}

	rec, err := s.LatestHistory("Site|Web")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !rec.StatusChangedAt.Equal(now) {
		t.Fatalf("first observation must start at now, got %v", rec.StatusChangedAt)
	}
	if rec.PreviousStatus != "" {
		t.Fatalf("no previous status on first observation, got %q", rec.PreviousStatus)
	}
}

func TestRecord_UnchangedStatusCarriesTimestampAcrossGap(t *testing.T) {
	t.Parallel()
	tr, _ := newTracker(t)

	t1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-01", t1); err != nil {
		t.Fatalf("day 1: %v", err)
	}

	// Day 2 was skipped entirely; day 3 must still find day 1.
	t3 := time.Date(2024, 6, 3, 17, 30, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-03", t3); err != nil {
		t.Fatalf("day 3: %v", err)
	}

	records, err := tr.History("Site|Web")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].WeekStart != "2024-06-03" {
		t.Fatalf("order wrong: %+v", records)
	}
	if !records[0].StatusChangedAt.Equal(t1) {
		t.Fatalf("unchanged status must carry the old timestamp, got %v", records[0].StatusChangedAt)
	}
}

func TestRecord_TransitionAdvancesTimestamp(t *testing.T) {
	t.Parallel()
	tr, _ := newTracker(t)

	t1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-01", t1); err != nil {
		t.Fatalf("day 1: %v", err)
	}

	t5 := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("Готов")}, "2024-06-05", t5); err != nil {
		t.Fatalf("day 5: %v", err)
	}

	records, err := tr.History("Site|Web")
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	latest := records[0]
	if !latest.StatusChangedAt.After(t1) {
		t.Fatalf("transition must advance the timestamp: %v", latest.StatusChangedAt)
	}
	if latest.PreviousStatus != "В работе" {
		t.Fatalf("previousStatus = %q", latest.PreviousStatus)
	}
}

func TestRecord_StatusComparisonIgnoresCaseAndSpace(t *testing.T) {
	t.Parallel()
	tr, _ := newTracker(t)

	t1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-01", t1); err != nil {
		t.Fatalf("day 1: %v", err)
	}

	t2 := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("  в работе ")}, "2024-06-02", t2); err != nil {
		t.Fatalf("day 2: %v", err)
	}

	records, _ := tr.History("Site|Web")
	if !records[0].StatusChangedAt.Equal(t1) {
		t.Fatalf("sloppy spelling of the same status is not a transition")
	}
}

func TestRecord_SameDayRerunOverwrites(t *testing.T) {
	t.Parallel()
	tr, _ := newTracker(t)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-01", now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := tr.Record([]model.Project{site("Готов")}, "2024-06-01", now.Add(time.Hour)); err != nil {
		t.Fatalf("second run: %v", err)
	}

	records, _ := tr.History("Site|Web")
	if len(records) != 1 {
		t.Fatalf("same-day rerun must overwrite, got %d rows", len(records))
	}
	if records[0].Status != "Готов" {
		t.Fatalf("latest run must win, got %q", records[0].Status)
	}
}

func TestDuration_MidnightToMidnight(t *testing.T) {
	t.Parallel()
	tr, s := newTracker(t)

	// Changed late in the evening three calendar days ago; queried early in
	// the morning. 24h rounding would say 2, calendar days say 3.
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	changed := time.Date(2024, 6, 12, 23, 30, 0, 0, time.Local)

	rec := &model.HistoryRecord{
		ProjectKey:      "Site|Web",
		WeekStart:       "2024-06-12",
		Status:          "В работе",
		StatusChangedAt: changed,
		Project:         site("В работе"),
	}
	if err := s.UpsertHistory(rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	days, err := tr.Duration("Site|Web", now)
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if days == nil || *days != 3 {
		t.Fatalf("want 3 days, got %v", days)
	}
}

func TestDurations_UnknownKeysMapToNil(t *testing.T) {
	t.Parallel()
	tr, _ := newTracker(t)

	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	if err := tr.Record([]model.Project{site("В работе")}, "2024-06-15", now); err != nil {
		t.Fatalf("record: %v", err)
	}

	out, err := tr.Durations([]string{"Site|Web", "Ghost|Web"}, now)
	if err != nil {
		t.Fatalf("durations: %v", err)
	}
	if out["Site|Web"] == nil || *out["Site|Web"] != 0 {
		t.Fatalf("known key must resolve, got %v", out["Site|Web"])
	}
	if out["Ghost|Web"] != nil {
		t.Fatalf("unknown key must map to nil")
	}
}
