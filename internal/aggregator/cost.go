package aggregator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

var (
	// Cells that wandered into the cost column from link or date columns.
	// Both shapes must stay rejected: a URL would otherwise parse as its
	// digits, and "12.05" would parse as twelve and change.
	urlLikeRe  = regexp.MustCompile(`(?i)^(https?://|www\.)`)
	dateLikeRe = regexp.MustCompile(`^\d{1,2}\.\d{2}$`)
)

var currencyMarkers = []string{"руб.", "руб", "р.", "₽", "rub"}

// ParseCost turns a free-text cost cell into a number. URL-like and
// dd.mm-like values are rejected as zero; otherwise currency markers and
// non-numeric characters are stripped, the decimal comma is normalized,
// and anything still unparsable is zero. Never fails.
func ParseCost(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if urlLikeRe.MatchString(s) || dateLikeRe.MatchString(s) {
		return 0
	}

	s = strings.ToLower(s)
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',' || r == '.':
			b.WriteRune('.')
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseDate parses a dd.mm.yyyy cell in local time. Sheets carry both
// zero-padded and bare day/month forms.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{model.DisplayDateLayout, "2.1.2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
