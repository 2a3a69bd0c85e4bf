// ABOUTME: Aggregate result types for one sync run
// ABOUTME: Per-type outcomes, run totals, and the identifier translation table
package syncer

import (
	"time"

	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
)

// IdentifierMap translates production ids to their sandbox counterparts,
// per entity type. Built incrementally during one run, never persisted.
type IdentifierMap map[models.EntityType]map[string]string

// Put records one production->sandbox id pair.
func (m IdentifierMap) Put(t models.EntityType, prodID, sandboxID string) {
	if m[t] == nil {
		m[t] = make(map[string]string)
	}
	m[t][prodID] = sandboxID
}

// Lookup resolves a production id to its sandbox id.
func (m IdentifierMap) Lookup(t models.EntityType, prodID string) (string, bool) {
	id, ok := m[t][prodID]
	return id, ok
}

// Outcome is the per-entity-type tally of one run.
// Success + Failed == Processed <= Total always holds.
type Outcome struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Success   int      `json:"success"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// RerunNote is attached to every result: the engine is best-effort and not
// transactional, so re-running after a partial failure creates duplicate
// sandbox records.
const RerunNote = "sync is best-effort and not resumable; re-running a failed run creates duplicate sandbox records"

// Result is the whole-run aggregate returned to the caller, meaningful even
// when the run was cancelled or partially failed.
type Result struct {
	RunID          string                            `json:"runId"`
	StartedAt      time.Time                         `json:"startedAt"`
	CompletedAt    time.Time                         `json:"completedAt"`
	TypeOrder      []models.EntityType               `json:"typeOrder"`
	PerType        map[models.EntityType]*Outcome    `json:"perType"`
	TotalRecords   int                               `json:"totalRecords"`
	SuccessRecords int                               `json:"successRecords"`
	FailedRecords  int                               `json:"failedRecords"`
	Warnings       []quality.Issue                   `json:"warnings,omitempty"`
	Note           string                            `json:"note"`
}

// finalize stamps the completion time and folds per-type tallies into the
// run totals.
func (r *Result) finalize() {
	r.CompletedAt = time.Now().UTC()
	r.TotalRecords, r.SuccessRecords, r.FailedRecords = 0, 0, 0
	for _, outcome := range r.PerType {
		r.TotalRecords += outcome.Total
		r.SuccessRecords += outcome.Success
		r.FailedRecords += outcome.Failed
	}
	// Records never attempted (cancellation) still count as failed in the
	// run totals so that success + failed == total holds.
	for _, outcome := range r.PerType {
		if skipped := outcome.Total - outcome.Processed; skipped > 0 {
			r.FailedRecords += skipped
		}
	}
}
