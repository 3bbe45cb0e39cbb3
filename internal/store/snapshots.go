package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// UpsertSnapshot inserts the snapshot for its date key, or overwrites the
// existing row in place when one exists for the same calendar day.
func (s *Store) UpsertSnapshot(snap *model.Snapshot) error {
	summary, err := sonic.Marshal(snap.Summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}
	charts, err := sonic.Marshal(snap.Charts)
	if err != nil {
		return fmt.Errorf("failed to serialize charts: %w", err)
	}
	projects, err := sonic.Marshal(snap.Projects)
	if err != nil {
		return fmt.Errorf("failed to serialize projects: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (date_key, created_at, summary, charts, projects)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			created_at = excluded.created_at,
			summary    = excluded.summary,
			charts     = excluded.charts,
			projects   = excluded.projects
	`, snap.DateKey, snap.CreatedAt, string(summary), string(charts), string(projects))
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads the snapshot for dateKey. A missing day returns
// (nil, nil), not an error.
func (s *Store) GetSnapshot(dateKey string) (*model.Snapshot, error) {
	var (
		createdAt time.Time
		summary   string
		charts    string
		projects  string
	)

	err := s.db.QueryRow(`
		SELECT created_at, summary, charts, projects
		FROM snapshots WHERE date_key = ?
	`, dateKey).Scan(&createdAt, &summary, &charts, &projects)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", dateKey, err)
	}

	snap := &model.Snapshot{DateKey: dateKey, CreatedAt: createdAt}
	if err := sonic.Unmarshal([]byte(summary), &snap.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary of %s: %w", dateKey, err)
	}
	if err := sonic.Unmarshal([]byte(charts), &snap.Charts); err != nil {
		return nil, fmt.Errorf("failed to decode charts of %s: %w", dateKey, err)
	}
	if err := sonic.Unmarshal([]byte(projects), &snap.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects of %s: %w", dateKey, err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata ordered by date key descending.
// today marks which row equals the current calendar date.
func (s *Store) ListSnapshots(today string) ([]model.SnapshotMeta, error) {
	rows, err := s.db.Query(`
		SELECT date_key, created_at, summary
		FROM snapshots ORDER BY date_key DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var metas []model.SnapshotMeta
	for rows.Next() {
		var (
			meta    model.SnapshotMeta
			summary string
		)
		if err := rows.Scan(&meta.DateKey, &meta.CreatedAt, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		var sum model.Summary
		if err := sonic.Unmarshal([]byte(summary), &sum); err == nil {
			meta.TotalProjects = sum.TotalProjects
		}

		if t, err := time.ParseInLocation(model.DateKeyLayout, meta.DateKey, time.Local); err == nil {
			meta.DisplayDate = t.Format(model.DisplayDateLayout)
		}
		meta.IsToday = meta.DateKey == today

		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// DeleteSnapshot removes the snapshot and every history record written for
// that date. Reports whether a snapshot row existed.
func (s *Store) DeleteSnapshot(dateKey string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM snapshots WHERE date_key = ?`, dateKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM project_history WHERE week_start = ?`, dateKey); err != nil {
		return false, fmt.Errorf("failed to delete history records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	affected, _ := res.RowsAffected()
	return affected > 0, nil
}
