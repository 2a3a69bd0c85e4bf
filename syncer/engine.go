// ABOUTME: Best-effort production-to-sandbox sync engine
// ABOUTME: Copies entities in dependency order, translating relationship ids
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
)

// Engine copies a full snapshot of production into sandbox, one entity type
// at a time. It is stateless between runs; the IdentifierMap lives only for
// the duration of one Run call.
type Engine struct {
	production boond.API
	sandbox    boond.API
	workers    int
}

// NewEngine validates the environment pairing and returns a ready engine.
// workers bounds the number of concurrent creates within one entity type.
func NewEngine(production, sandbox boond.API, workers int) (*Engine, error) {
	if production.Environment() == sandbox.Environment() {
		return nil, fmt.Errorf("syncer: source and target are the same environment %q", production.Environment())
	}
	if !sandbox.Environment().Writable() {
		return nil, fmt.Errorf("syncer: target environment %q is not writable", sandbox.Environment())
	}
	if workers <= 0 {
		workers = 4
	}
	return &Engine{production: production, sandbox: sandbox, workers: workers}, nil
}

// recordResult is one record's contribution, written into a preallocated
// slot by its worker so the fold over results is deterministic.
type recordResult struct {
	prodID    string
	sandboxID string
	errText   string
	warnings  []quality.Issue
	attempted bool
}

// Run executes one best-effort sync. Record-level failures never abort the
// run; only configuration errors (schema cycle, bad environment pairing) or
// a failed production listing do. On cancellation no new records are
// started, in-flight creates finish, and the partial Result is returned
// together with the context error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	order, err := models.DependencyOrder(models.RelationSchema)
	if err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}

	result := &Result{
		RunID:     ulid.Make().String(),
		StartedAt: time.Now().UTC(),
		TypeOrder: order,
		PerType:   make(map[models.EntityType]*Outcome, len(order)),
		Note:      RerunNote,
	}
	idmap := make(IdentifierMap, len(order))

	log := zap.S().With("runId", result.RunID)
	log.Infow("sync run starting", "order", order, "workers", e.workers)

	for _, t := range order {
		outcome := &Outcome{}
		result.PerType[t] = outcome

		if ctx.Err() != nil {
			break
		}

		entities, err := e.production.List(ctx, t)
		if err != nil {
			result.finalize()
			return result, fmt.Errorf("syncer: list %s from production: %w", t, err)
		}
		outcome.Total = len(entities)

		warnings := e.syncType(ctx, t, entities, idmap, outcome)
		result.Warnings = append(result.Warnings, warnings...)

		log.Infow("entity type synced",
			"type", t, "total", outcome.Total, "success", outcome.Success, "failed", outcome.Failed)
	}

	result.finalize()
	log.Infow("sync run finished",
		"total", result.TotalRecords, "success", result.SuccessRecords, "failed", result.FailedRecords)

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

// syncType copies every entity of one type through a bounded worker pool and
// folds the per-record results into the outcome and the IdentifierMap. The
// fold happens only after the whole pool has drained, so dependent types
// always see the complete mapping for this type.
func (e *Engine) syncType(ctx context.Context, t models.EntityType, entities []models.Entity, idmap IdentifierMap, outcome *Outcome) []quality.Issue {
	results := make([]recordResult, len(entities))

	g := &errgroup.Group{}
	g.SetLimit(e.workers)
	for i := range entities {
		if ctx.Err() != nil {
			// Stop scheduling; slots already scheduled run to completion.
			break
		}
		i := i
		g.Go(func() error {
			results[i] = e.syncRecord(ctx, t, &entities[i], idmap)
			return nil
		})
	}
	_ = g.Wait()

	var warnings []quality.Issue
	for i := range results {
		r := &results[i]
		if !r.attempted {
			continue
		}
		outcome.Processed++
		warnings = append(warnings, r.warnings...)
		if r.errText != "" {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, r.errText)
			// No idmap entry: dependent types must treat references to
			// this record as dangling.
			continue
		}
		outcome.Success++
		idmap.Put(t, r.prodID, r.sandboxID)
	}
	return warnings
}

// syncRecord translates one entity's relationships and creates it in the
// sandbox. The create itself runs on a detached context so that an in-flight
// create finishes even when the run is cancelled mid-type.
func (e *Engine) syncRecord(ctx context.Context, t models.EntityType, src *models.Entity, idmap IdentifierMap) recordResult {
	translated, warnings := translateRelationships(src, idmap)

	created, err := e.sandbox.Create(context.WithoutCancel(ctx), t, translated)
	if err != nil {
		return recordResult{
			prodID:    src.ID,
			errText:   fmt.Sprintf("%s %s: %v", t, src.ID, err),
			warnings:  warnings,
			attempted: true,
		}
	}
	return recordResult{
		prodID:    src.ID,
		sandboxID: created.ID,
		warnings:  warnings,
		attempted: true,
	}
}

// translateRelationships rewrites every declared relationship of the entity
// through the IdentifierMap. References whose target never produced a
// mapping are cleared and recorded as warning-severity issues rather than
// failing the record. Relationship names the schema does not declare cannot
// be translated and are dropped with a warning as well.
func translateRelationships(src *models.Entity, idmap IdentifierMap) (*models.Entity, []quality.Issue) {
	out := src.Clone()
	out.Relationships = make(map[string]models.Relation, len(src.Relationships))
	var warnings []quality.Issue

	for _, field := range models.RelationFieldsOf(src.Type) {
		rel, present := src.Relationships[field.Name]
		if !present || rel.IsEmpty() {
			continue
		}
		var kept []models.Ref
		for _, ref := range rel.Refs {
			sandboxID, ok := idmap.Lookup(field.Target, ref.ID)
			if !ok {
				warnings = append(warnings, quality.Issue{
					EntityType:   src.Type,
					EntityID:     src.ID,
					Field:        field.Name,
					Issue:        "dangling reference dropped during sync",
					Severity:     quality.SeverityWarning,
					CurrentValue: ref.ID,
				})
				continue
			}
			kept = append(kept, models.Ref{ID: sandboxID, Type: field.Target})
		}
		out.Relationships[field.Name] = models.Relation{Refs: kept}
	}

	for _, name := range src.RelationshipKeys() {
		if _, declared := models.RelationFieldOf(src.Type, name); declared {
			continue
		}
		if src.Relationships[name].IsEmpty() {
			continue
		}
		warnings = append(warnings, quality.Issue{
			EntityType:   src.Type,
			EntityID:     src.ID,
			Field:        name,
			Issue:        "undeclared relationship dropped during sync",
			Severity:     quality.SeverityWarning,
			CurrentValue: src.Relationships[name].Refs[0].ID,
		})
	}

	return out, warnings
}

