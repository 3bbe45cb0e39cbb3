package source

import (
	"context"
	"fmt"
	"sync"
)

// StaticSource is an in-memory RowSource. Tests build fixtures with it and
// dev mode can preload demo data without a workbook on disk.
type StaticSource struct {
	mu     sync.RWMutex
	sheets map[string]map[string][][]string // sourceID -> sheetName -> rows
	fail   map[string]error                 // "sourceID/sheetName" -> forced error
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		sheets: make(map[string]map[string][][]string),
		fail:   make(map[string]error),
	}
}

// SetSheet installs the rows of one sheet.
func (s *StaticSource) SetSheet(sourceID, sheetName string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheets[sourceID] == nil {
		s.sheets[sourceID] = make(map[string][][]string)
	}
	s.sheets[sourceID][sheetName] = rows
}

// FailSheet forces GetRows for one sheet to return err.
func (s *StaticSource) FailSheet(sourceID, sheetName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[sourceID+"/"+sheetName] = err
}

// ListSheets implements RowSource.
func (s *StaticSource) ListSheets(ctx context.Context, sourceID string) ([]SheetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sheets, ok := s.sheets[sourceID]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", sourceID)
	}

	var infos []SheetInfo
	for name, rows := range sheets {
		cols := 0
		for _, row := range rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
		infos = append(infos, SheetInfo{Name: name, RowCount: len(rows), ColumnCount: cols})
	}
	return infos, nil
}

// GetRows implements RowSource.
func (s *StaticSource) GetRows(ctx context.Context, sourceID, sheetName string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.fail[sourceID+"/"+sheetName]; ok {
		return nil, err
	}

	sheets, ok := s.sheets[sourceID]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", sourceID)
	}
	rows, ok := sheets[sheetName]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found in source %q", sheetName, sourceID)
	}
	return rows, nil
}
