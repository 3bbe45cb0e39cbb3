package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelSource reads workbooks stored in a local directory. A source id maps
// to "<dir>/<id>.xlsx"; ids are restricted to a safe character set so a
// request cannot escape the uploads directory.
type ExcelSource struct {
	dir string
}

// NewExcelSource creates a source over the given workbook directory.
func NewExcelSource(dir string) *ExcelSource {
	return &ExcelSource{dir: dir}
}

// Path resolves a source id to its workbook path.
func (s *ExcelSource) Path(sourceID string) (string, error) {
	if !validSourceID(sourceID) {
		return "", fmt.Errorf("invalid source id: %q", sourceID)
	}
	return filepath.Join(s.dir, sourceID+".xlsx"), nil
}

// ListSheets lists the sheets of the workbook behind sourceID.
func (s *ExcelSource) ListSheets(ctx context.Context, sourceID string) ([]SheetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.open(sourceID)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var infos []SheetInfo
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
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

// GetRows returns all rows of one sheet. Rows are right-trimmed by excelize;
// callers must treat missing trailing cells as empty strings.
func (s *ExcelSource) GetRows(ctx context.Context, sourceID, sheetName string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.open(sourceID)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

// ListWorkbooks returns the source ids registered in the directory.
func (s *ExcelSource) ListWorkbooks() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".xlsx") {
			ids = append(ids, strings.TrimSuffix(name, ".xlsx"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *ExcelSource) open(sourceID string) (*excelize.File, error) {
	path, err := s.Path(sourceID)
	if err != nil {
		return nil, err
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", sourceID, err)
	}
	return file, nil
}

func validSourceID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
