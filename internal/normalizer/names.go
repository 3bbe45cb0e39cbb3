package normalizer

import "strings"

// NormalizeName canonicalizes a person's name for identity purposes:
// ё folds to е (both cases, the sheets are inconsistent about it) and only
// the first two tokens are kept, so "Иванов Пётр Сергеевич" and
// "Иванов Петр" are the same person.
func NormalizeName(raw string) string {
	s := strings.ReplaceAll(raw, "ё", "е")
	s = strings.ReplaceAll(s, "Ё", "Е")

	tokens := strings.Fields(s)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}

// nameIdentity is the dedup/roster-lookup key for a normalized name.
func nameIdentity(normalized string) string {
	return strings.ToLower(normalized)
}

// SplitNames splits a multi-person cell ("Иванов П., Петрова А.") into
// individual raw names.
func SplitNames(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
