// ABOUTME: Quality analyzer scanning one environment's entity snapshot
// ABOUTME: Produces severity-tagged issues, duplicate groups, and a summary
package quality

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/models"
)

// Analyzer fetches a fresh snapshot of one environment and scans it for
// field-level defects and duplicates. It holds no state between runs.
type Analyzer struct {
	clients map[models.Environment]boond.API
}

// NewAnalyzer wires the analyzer to its per-environment API clients.
func NewAnalyzer(clients map[models.Environment]boond.API) *Analyzer {
	return &Analyzer{clients: clients}
}

// Analyze scans every entity of every type in the given environment. The
// whole snapshot is fetched fresh; a type that fails to list aborts the run
// because a partial snapshot would produce misleading duplicate groups.
func (a *Analyzer) Analyze(ctx context.Context, env models.Environment) (*Analysis, error) {
	client, ok := a.clients[env]
	if !ok {
		return nil, fmt.Errorf("quality: no client configured for environment %q", env)
	}

	snapshot := make(map[models.EntityType][]models.Entity)
	for _, t := range models.AllEntityTypes() {
		entities, err := client.List(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("quality: list %s in %s: %w", t, env, err)
		}
		snapshot[t] = entities
	}

	analysis := AnalyzeSnapshot(snapshot)
	analysis.Environment = env
	zap.S().Infow("quality analysis complete",
		"env", env,
		"issues", analysis.Summary.TotalIssues,
		"duplicateGroups", analysis.Summary.DuplicateGroups)
	return analysis, nil
}

// AnalyzeSnapshot runs the validators and duplicate grouping over an
// already-fetched snapshot. Deterministic: the same snapshot always yields
// the same issues and groups in the same order.
func AnalyzeSnapshot(snapshot map[models.EntityType][]models.Entity) *Analysis {
	var issues []Issue
	for _, t := range models.AllEntityTypes() {
		for i := range snapshot[t] {
			issues = append(issues, checkEntity(&snapshot[t][i])...)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].EntityType != issues[j].EntityType {
			return issues[i].EntityType < issues[j].EntityType
		}
		if issues[i].EntityID != issues[j].EntityID {
			return issues[i].EntityID < issues[j].EntityID
		}
		return issues[i].Field < issues[j].Field
	})

	duplicates := findDuplicates(snapshot)

	return &Analysis{
		Issues:     issues,
		Duplicates: duplicates,
		Summary:    Summarize(issues, duplicates),
	}
}
