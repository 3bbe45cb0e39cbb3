package normalizer

import (
	"regexp"
	"sort"
	"strings"
)

// RawRow maps a normalized header to the cell text of one sheet row.
type RawRow map[string]string

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader canonicalizes a header cell: trimmed, lowercased, inner
// whitespace collapsed to a single space. Sheets are hand-maintained, so
// the same logical column shows up with stray spaces and line breaks.
func NormalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

// Legacy header variants per logical field, ordered: the first variant
// present in a row wins. The sheets predate any naming convention.
var (
	nameKeys        = []string{"название проекта", "проект", "название"}
	phaseKeys       = []string{"этап", "фаза", "стадия"}
	startKeys       = []string{"дата начала", "старт", "начало"}
	endKeys         = []string{"дата окончания", "дедлайн", "срок сдачи", "окончание"}
	typeKeys        = []string{"тип проекта", "тип"}
	customerKeys    = []string{"заказчик", "клиент"}
	costKeys        = []string{"стоимость", "бюджет", "сумма"}
	paymentKeys     = []string{"статус оплаты", "оплата"}
	executorKeys    = []string{"исполнитель", "компания-исполнитель", "компания"}
	descriptionKeys = []string{"описание", "комментарий"}
	memberKeys      = []string{"команда", "фио", "сотрудник", "участник"}
	roleKeys        = []string{"роль", "должность"}
	employmentKeys  = []string{"занятость", "тип занятости"}
)

// statusPrefix matches the status column, whose exact header text varies by
// sheet ("статус", "статус проекта", "статус работ", ...).
const statusPrefix = "статус"

// FieldValue returns the first non-empty cell among the given header
// variants.
func FieldValue(row RawRow, variants []string) string {
	for _, key := range variants {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}

// FindKeyByPrefix returns the first header key (in sorted order, for
// determinism) that starts with prefix and does not contain exclude.
func FindKeyByPrefix(row RawRow, prefix, exclude string) (string, bool) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if exclude != "" && strings.Contains(k, exclude) {
			continue
		}
		return k, true
	}
	return "", false
}

// StatusValue resolves the status cell via prefix scan, skipping the
// payment-status column which shares the "статус" prefix.
func StatusValue(row RawRow) string {
	key, ok := FindKeyByPrefix(row, statusPrefix, "оплат")
	if !ok {
		return ""
	}
	return row[key]
}

// RowsFromCells converts raw sheet cells to RawRows using the header row at
// the given zero-based offset. Rows above the header are sheet decoration
// and are dropped; trailing cells an author never filled come back as "".
func RowsFromCells(cells [][]string, headerRow int) []RawRow {
	if headerRow < 0 || headerRow >= len(cells) {
		return nil
	}

	headers := make([]string, len(cells[headerRow]))
	for i, h := range cells[headerRow] {
		headers[i] = NormalizeHeader(h)
	}

	var rows []RawRow
	for _, line := range cells[headerRow+1:] {
		row := make(RawRow, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(line) {
				value = strings.TrimSpace(line[i])
			}
			row[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}
