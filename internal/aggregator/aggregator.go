package aggregator

import (
	"strings"
	"time"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// Aggregator computes the dashboard bundle from a project list. It does no
// I/O and keeps no state between calls; the company labels are the only
// configuration it carries.
type Aggregator struct {
	companies []string
}

// New creates an aggregator with the given executor-company labels.
func New(companies []string) *Aggregator {
	return &Aggregator{companies: companies}
}

// completedMarkers mark a status as finished, ahead of any date math.
var completedMarkers = []string{"готов", "завершен", "сдан", "закрыт"}

// typeLabels classify the project type, exclusive, first match wins.
var typeLabels = []struct {
	marker string
	label  string
}{
	{"внутренн", "Внутренний"},
	{"коммерч", "Коммерческий"},
	{"бесплатн", "Бесплатный"},
}

const overdueSmallMaxDays = 14

// Aggregate computes summary and charts for the given projects. now anchors
// the deadline math to the current calendar day.
func (a *Aggregator) Aggregate(projects []model.Project, now time.Time) model.Aggregate {
	charts := model.Charts{
		ByDirection: make(map[string]int),
		ByStatus:    make(map[string]int),
		ByPhase:     make(map[string]int),
		ByType:      make(map[string]int),
		ByCompany:   make(map[string]int),
		TeamRoles:   make(map[string]int),
	}
	var finance model.Finance

	rolePairSeen := make(map[string]bool)

	for i := range projects {
		p := &projects[i]

		if p.Direction != "" {
			charts.ByDirection[p.Direction]++
		}
		if s := strings.TrimSpace(p.Status); s != "" {
			charts.ByStatus[s]++
		}
		if ph := strings.TrimSpace(p.Phase); ph != "" {
			charts.ByPhase[ph]++
		}

		if label, ok := classifyType(p.Type); ok {
			charts.ByType[label]++
		}

		// Inclusive membership: a joint project counts for every company
		// named in its executor text.
		executor := strings.ToLower(p.Executor)
		for _, company := range a.companies {
			if strings.Contains(executor, strings.ToLower(company)) {
				charts.ByCompany[company]++
			}
		}

		addFinance(&finance, p)
		addDeadline(&charts.Deadlines, p, now)
		addTeamRoles(charts.TeamRoles, rolePairSeen, p.Team)
	}

	finance.Total = finance.Paid + finance.Receivable + finance.InWork

	return model.Aggregate{
		Summary: model.Summary{
			TotalProjects: len(projects),
			TotalBudget:   finance.Total,
			Finance:       finance,
		},
		Charts:   charts,
		Projects: projects,
	}
}

func classifyType(raw string) (string, bool) {
	t := strings.ToLower(raw)
	if t == "" {
		return "", false
	}
	for _, tl := range typeLabels {
		if strings.Contains(t, tl.marker) {
			return tl.label, true
		}
	}
	return "", false
}

// addFinance routes the project's cost into exactly one bucket. Negated
// payment labels ("не оплачен", "не выставлен") fall through to in-work.
func addFinance(f *model.Finance, p *model.Project) {
	cost := ParseCost(p.Cost)
	pay := strings.ToLower(p.PaymentStatus)

	switch {
	case strings.Contains(pay, "оплачен") && !strings.Contains(pay, "не оплачен"):
		f.Paid += cost
	case strings.Contains(pay, "выставлен") && !strings.Contains(pay, "не выставлен"):
		f.Receivable += cost
	default:
		f.InWork += cost
	}
}

// addDeadline buckets the project by end date. A completed status wins over
// the date math; a missing or unparsable date lands in no bucket at all.
func addDeadline(d *model.Deadlines, p *model.Project, now time.Time) {
	if statusContainsAny(p.Status, completedMarkers) {
		d.Completed++
		return
	}

	end, ok := ParseDate(p.EndDate)
	if !ok {
		return
	}

	overdue := model.DaysBetween(end, now)
	switch {
	case overdue <= 0:
		d.OnTrack++
	case overdue <= overdueSmallMaxDays:
		d.OverdueSmall++
	default:
		d.OverdueLarge++
	}
}

// addTeamRoles counts each (person, role) pair once across all projects.
func addTeamRoles(roles map[string]int, pairSeen map[string]bool, team []model.TeamMember) {
	for _, member := range team {
		role := strings.TrimSpace(member.Role)
		if role == "" {
			continue
		}
		pair := strings.ToLower(member.Name) + "|" + strings.ToLower(role)
		if pairSeen[pair] {
			continue
		}
		pairSeen[pair] = true
		roles[role]++
	}
}

func statusContainsAny(status string, markers []string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
