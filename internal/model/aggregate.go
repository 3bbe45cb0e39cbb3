package model

// Finance is the payment breakdown of the total budget. Every project
// contributes its cost to exactly one of the three buckets.
type Finance struct {
	Paid       float64 `json:"paid"`
	Receivable float64 `json:"receivable"`
	InWork     float64 `json:"inWork"`
	Total      float64 `json:"total"`
}

// Deadlines buckets projects by their end date relative to today.
// Projects without a parseable end date are not counted anywhere.
type Deadlines struct {
	Completed    int `json:"completed"`
	OnTrack      int `json:"onTrack"`
	OverdueSmall int `json:"overdueSmall"` // overdue by 1-14 days
	OverdueLarge int `json:"overdueLarge"` // overdue by more than 14 days
}

// Charts holds the grouping count maps consumed by the dashboard views.
type Charts struct {
	ByDirection map[string]int `json:"byDirection"`
	ByStatus    map[string]int `json:"byStatus"`
	ByPhase     map[string]int `json:"byPhase"`
	ByType      map[string]int `json:"byType"`
	ByCompany   map[string]int `json:"byCompany"`
	Deadlines   Deadlines      `json:"deadlines"`
	TeamRoles   map[string]int `json:"teamRoles"`
}

// Summary is the headline numbers block.
type Summary struct {
	TotalProjects int     `json:"totalProjects"`
	TotalBudget   float64 `json:"totalBudget"`
	Finance       Finance `json:"finance"`
}

// Aggregate bundles everything computed from one normalization pass.
// It is a pure function of the project list and safe to cache as a whole.
type Aggregate struct {
	Summary  Summary   `json:"summary"`
	Charts   Charts    `json:"charts"`
	Projects []Project `json:"projects"`
}
