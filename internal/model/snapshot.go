package model

import "time"

// Snapshot is one persisted point-in-time bundle, at most one per calendar
// day. Creating a second snapshot on the same day overwrites the first.
type Snapshot struct {
	DateKey   string    `json:"dateKey"`
	CreatedAt time.Time `json:"createdAt"`
	Summary   Summary   `json:"summary"`
	Charts    Charts    `json:"charts"`
	Projects  []Project `json:"projects"`
}

// SnapshotMeta is the listing view of a snapshot, without the heavy blobs.
type SnapshotMeta struct {
	DateKey       string    `json:"dateKey"`
	DisplayDate   string    `json:"displayDate"`
	CreatedAt     time.Time `json:"createdAt"`
	IsToday       bool      `json:"isToday"`
	TotalProjects int       `json:"totalProjects"`
}

// HistoryRecord is one row of a project's status history, keyed by
// (ProjectKey, WeekStart). StatusChangedAt only advances when the status
// actually differs from the latest earlier record for the same key.
type HistoryRecord struct {
	ProjectKey      string    `json:"projectKey"`
	WeekStart       string    `json:"weekStart"` // dateKey of the snapshot that produced the row
	Status          string    `json:"status"`
	StatusChangedAt time.Time `json:"statusChangedAt"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	Project         Project   `json:"project"`
}

// Comparison is the delta between the live aggregate and the snapshot
// offsetDays back. Available=false means no baseline exists for that date,
// which is a normal outcome, not an error. Delta fields are always emitted
// so a zero delta stays distinguishable from an unavailable comparison.
type Comparison struct {
	Available   bool           `json:"available"`
	Date        string         `json:"date"`
	OffsetDays  int            `json:"offsetDays"`
	Totals      int            `json:"totals"`
	ByDirection map[string]int `json:"byDirection"`
	ByType      map[string]int `json:"byType"`
	ByCompany   map[string]int `json:"byCompany"`
	Finance     Finance        `json:"finance"`
	Deadlines   Deadlines      `json:"deadlines"`
}

// ActivityEntry is one audit line. Writes are best-effort: a failed
// activity write never fails the operation that produced it.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
