package store

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// UpsertHistory writes one history row, replacing any existing row for the
// same (project key, date key) pair.
func (s *Store) UpsertHistory(rec *model.HistoryRecord) error {
	snapshot, err := sonic.Marshal(rec.Project)
	if err != nil {
		return fmt.Errorf("failed to serialize project snapshot: %w", err)
	}

	var prev interface{}
	if rec.PreviousStatus != "" {
		prev = rec.PreviousStatus
	}

	_, err = s.db.Exec(`
		INSERT INTO project_history (project_key, week_start, status, status_changed_at, previous_status, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_key, week_start) DO UPDATE SET
			status            = excluded.status,
			status_changed_at = excluded.status_changed_at,
			previous_status   = excluded.previous_status,
			snapshot          = excluded.snapshot
	`, rec.ProjectKey, rec.WeekStart, rec.Status, rec.StatusChangedAt, prev, string(snapshot))
	if err != nil {
		return fmt.Errorf("failed to upsert history record: %w", err)
	}
	return nil
}

// LatestHistoryBefore returns the most recent record for projectKey
// strictly before dateKey, or nil when none exists. Date-key ordering makes
// this find the latest prior record even across skipped days.
func (s *Store) LatestHistoryBefore(projectKey, dateKey string) (*model.HistoryRecord, error) {
	row := s.db.QueryRow(`
		SELECT project_key, week_start, status, status_changed_at, previous_status, snapshot
		FROM project_history
		WHERE project_key = ? AND week_start < ?
		ORDER BY week_start DESC LIMIT 1
	`, projectKey, dateKey)
	return scanHistory(row)
}

// LatestHistory returns the record at the greatest date key for projectKey,
// or nil when the project has no history.
func (s *Store) LatestHistory(projectKey string) (*model.HistoryRecord, error) {
	row := s.db.QueryRow(`
		SELECT project_key, week_start, status, status_changed_at, previous_status, snapshot
		FROM project_history
		WHERE project_key = ?
		ORDER BY week_start DESC LIMIT 1
	`, projectKey)
	return scanHistory(row)
}

// HistoryForKey returns every record for projectKey, newest first.
func (s *Store) HistoryForKey(projectKey string) ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT project_key, week_start, status, status_changed_at, previous_status, snapshot
		FROM project_history
		WHERE project_key = ?
		ORDER BY week_start DESC
	`, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []model.HistoryRecord
	for rows.Next() {
		rec, err := scanHistoryRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHistoryFrom(sc rowScanner) (*model.HistoryRecord, error) {
	var (
		rec       model.HistoryRecord
		changedAt sql.NullTime
		prev      sql.NullString
		snapshot  string
	)

	err := sc.Scan(&rec.ProjectKey, &rec.WeekStart, &rec.Status, &changedAt, &prev, &snapshot)
	if err != nil {
		return nil, err
	}

	if changedAt.Valid {
		rec.StatusChangedAt = changedAt.Time
	}
	rec.PreviousStatus = prev.String

	if err := sonic.Unmarshal([]byte(snapshot), &rec.Project); err != nil {
		return nil, fmt.Errorf("failed to decode project snapshot: %w", err)
	}
	return &rec, nil
}

func scanHistory(row *sql.Row) (*model.HistoryRecord, error) {
	rec, err := scanHistoryFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}
	return rec, nil
}

func scanHistoryRows(rows *sql.Rows) (*model.HistoryRecord, error) {
	rec, err := scanHistoryFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan history record: %w", err)
	}
	return rec, nil
}
