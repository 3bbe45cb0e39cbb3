package normalizer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/config"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/source"
)

// Normalizer reconstructs project entities from the mapped workbook sheets.
type Normalizer struct {
	src source.RowSource
	cfg config.SourceConfig
}

// New creates a normalizer over the given row source.
func New(src source.RowSource, cfg config.SourceConfig) *Normalizer {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 3
	}
	return &Normalizer{src: src, cfg: cfg}
}

type fetchResult struct {
	mapping config.SheetMapping
	rows    []RawRow
	err     error
}

// Normalize fetches every mapped sheet and produces the deduplicated
// project list. A mapping-sheet fetch failure is fatal for the pass;
// a roster failure only costs the role enrichment.
func (n *Normalizer) Normalize(ctx context.Context, sourceID string) ([]model.Project, error) {
	roster := n.loadRoster(ctx, sourceID)

	results, err := n.fetchSheets(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, 32)
	keyIndex := make(map[string]int)
	teamSeen := make(map[string]map[string]bool)

	for _, res := range results {
		for _, cr := range FillDown(res.rows, res.mapping.Direction) {
			p := projectFromContext(cr.Context)
			key := p.Key()

			idx, ok := keyIndex[key]
			if !ok {
				// First occurrence seeds the project-level fields.
				idx = len(projects)
				keyIndex[key] = idx
				teamSeen[key] = make(map[string]bool)
				projects = append(projects, p)
			}

			addMembers(&projects[idx], teamSeen[key], cr.Row, roster)
		}
	}

	return projects, nil
}

// fetchSheets pulls the mapped sheets in bounded concurrent batches so the
// source transport's rate limits are respected.
func (n *Normalizer) fetchSheets(ctx context.Context, sourceID string) ([]fetchResult, error) {
	mappings := n.cfg.Sheets
	results := make([]fetchResult, len(mappings))

	limit := n.cfg.FetchLimit
	for start := 0; start < len(mappings); start += limit {
		end := start + limit
		if end > len(mappings) {
			end = len(mappings)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				mapping := mappings[i]
				cells, err := n.src.GetRows(ctx, sourceID, mapping.Name)
				if err != nil {
					results[i] = fetchResult{mapping: mapping, err: err}
					return
				}
				results[i] = fetchResult{mapping: mapping, rows: RowsFromCells(cells, mapping.HeaderRow)}
			}(i)
		}
		wg.Wait()
	}

	for _, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("failed to fetch sheet %q: %w", res.mapping.Name, res.err)
		}
	}
	return results, nil
}

// loadRoster reads the optional name -> role sheet. Any failure here is
// downgraded to a warning; normalization proceeds with inline roles.
func (n *Normalizer) loadRoster(ctx context.Context, sourceID string) map[string]string {
	if n.cfg.RosterSheet == "" {
		return nil
	}

	cells, err := n.src.GetRows(ctx, sourceID, n.cfg.RosterSheet)
	if err != nil {
		log.Printf("roster sheet %q unavailable, falling back to inline roles: %v", n.cfg.RosterSheet, err)
		return nil
	}

	roster := make(map[string]string)
	for _, row := range RowsFromCells(cells, 0) {
		name := FieldValue(row, memberKeys)
		role := FieldValue(row, roleKeys)
		if name == "" || role == "" {
			continue
		}
		roster[nameIdentity(NormalizeName(name))] = role
	}
	return roster
}

func projectFromContext(ctx ProjectContext) model.Project {
	return model.Project{
		Name:          ctx.Name,
		Direction:     ctx.Direction,
		Status:        ctx.Status,
		Phase:         ctx.Phase,
		StartDate:     ctx.StartDate,
		EndDate:       ctx.EndDate,
		Type:          ctx.Type,
		Customer:      ctx.Customer,
		Cost:          ctx.Cost,
		PaymentStatus: ctx.PaymentStatus,
		Executor:      ctx.Executor,
		Description:   ctx.Description,
		Team:          []model.TeamMember{},
	}
}

// addMembers extracts the row's own member columns (never inherited) and
// appends each new person to the project's team. Roster roles win over the
// inline role column; first-seen role/employment wins on duplicates.
func addMembers(p *model.Project, seen map[string]bool, row RawRow, roster map[string]string) {
	cell := FieldValue(row, memberKeys)
	if cell == "" {
		return
	}

	role := FieldValue(row, roleKeys)
	employment := FieldValue(row, employmentKeys)

	for _, raw := range SplitNames(cell) {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}
		id := nameIdentity(name)
		if seen[id] {
			continue
		}
		seen[id] = true

		resolved := role
		if r, ok := roster[id]; ok {
			resolved = r
		}

		p.Team = append(p.Team, model.TeamMember{
			Name:       name,
			Role:       resolved,
			Employment: employment,
		})
	}
}
