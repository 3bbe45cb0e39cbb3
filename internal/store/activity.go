package store

import (
	"fmt"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// InsertActivity appends one audit entry.
func (s *Store) InsertActivity(entry *model.ActivityEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO activity_log (id, action, detail, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ID, entry.Action, entry.Detail, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}

// ListActivity returns the newest entries, up to limit.
func (s *Store) ListActivity(limit int) ([]model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, action, detail, created_at
		FROM activity_log ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var entry model.ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
