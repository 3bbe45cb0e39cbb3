package source

import "context"

// SheetInfo describes one sheet of a tabular source.
type SheetInfo struct {
	Name        string `json:"name"`
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
}

// RowSource exposes raw string cells of a tabular data source. Implementations
// resolve a source id to a concrete workbook; empty cells come back as "".
type RowSource interface {
	ListSheets(ctx context.Context, sourceID string) ([]SheetInfo, error)
	GetRows(ctx context.Context, sourceID, sheetName string) ([][]string, error)
}
