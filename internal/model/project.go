package model

import "time"

// TeamMember is one person attached to a project. Name is stored in its
// normalized form (ё folded to е, first two tokens of the full name).
type TeamMember struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Employment string `json:"employment,omitempty"`
}

// Project is the canonical project entity reconstructed from sheet rows.
// Identity is the (Name, Direction) pair; a project is rebuilt from scratch
// on every normalization pass and never mutated afterwards.
type Project struct {
	Name          string       `json:"name"`
	Direction     string       `json:"direction"`
	Status        string       `json:"status"`
	Phase         string       `json:"phase,omitempty"`
	StartDate     string       `json:"startDate,omitempty"` // dd.mm.yyyy, may be empty or malformed
	EndDate       string       `json:"endDate,omitempty"`   // dd.mm.yyyy, may be empty or malformed
	Type          string       `json:"type,omitempty"`
	Customer      string       `json:"customer,omitempty"`
	Cost          string       `json:"cost,omitempty"` // free text, parsed defensively
	PaymentStatus string       `json:"paymentStatus,omitempty"`
	Executor      string       `json:"executor,omitempty"`
	Description   string       `json:"description,omitempty"`
	Team          []TeamMember `json:"team"`
}

// Key returns the composite identity "name|direction" used to track the
// project across snapshots.
func (p *Project) Key() string {
	return p.Name + "|" + p.Direction
}

// DateKeyLayout is the canonical calendar-day key format.
const DateKeyLayout = "2006-01-02"

// DisplayDateLayout is the human-facing date format used across the sheets.
const DisplayDateLayout = "02.01.2006"

// DateKey truncates t to its local calendar day and renders the canonical
// "YYYY-MM-DD" key. Two calls within the same day always agree.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// Midnight truncates t to local midnight. Calendar-day arithmetic between
// two timestamps must go through this, not through 24h rounding.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the signed number of calendar days from a to b,
// midnight to midnight. Both dates are rebased to UTC before subtracting:
// a local day spanning a DST transition is 23 or 25 hours long, and
// dividing that duration by 24h would miscount by one.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
