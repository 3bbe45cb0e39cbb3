package normalizer

// ProjectContext carries the project-level fields captured from the row
// that named the project. Sheets are written one row per team member with
// the project columns filled only on the first member's row, so subsequent
// rows inherit this context until the next named row.
type ProjectContext struct {
	Name          string
	Direction     string
	Status        string
	Phase         string
	StartDate     string
	EndDate       string
	Type          string
	Customer      string
	Cost          string
	PaymentStatus string
	Executor      string
	Description   string
}

// ContextRow pairs one sheet row with the project context in effect for it.
// The row's own member columns are never inherited.
type ContextRow struct {
	Context ProjectContext
	Row     RawRow
}

// FillDown folds the row sequence into (context, row) pairs. A row with a
// non-empty name field starts a new context; rows before any named row are
// dropped.
func FillDown(rows []RawRow, direction string) []ContextRow {
	var out []ContextRow
	var current *ProjectContext

	for _, row := range rows {
		if name := FieldValue(row, nameKeys); name != "" {
			ctx := contextFromRow(row, direction)
			current = &ctx
		}
		if current == nil {
			continue
		}
		out = append(out, ContextRow{Context: *current, Row: row})
	}
	return out
}

func contextFromRow(row RawRow, direction string) ProjectContext {
	return ProjectContext{
		Name:          FieldValue(row, nameKeys),
		Direction:     direction,
		Status:        StatusValue(row),
		Phase:         FieldValue(row, phaseKeys),
		StartDate:     FieldValue(row, startKeys),
		EndDate:       FieldValue(row, endKeys),
		Type:          FieldValue(row, typeKeys),
		Customer:      FieldValue(row, customerKeys),
		Cost:          FieldValue(row, costKeys),
		PaymentStatus: FieldValue(row, paymentKeys),
		Executor:      FieldValue(row, executorKeys),
		Description:   FieldValue(row, descriptionKeys),
	}
}
