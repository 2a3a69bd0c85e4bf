// ABOUTME: Tests for the best-effort sync engine
// ABOUTME: Covers id translation, dangling references, tallies, cancellation
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
)

// fakeAPI is an in-memory stand-in for one BoondManager tenant.
type fakeAPI struct {
	env models.Environment

	mu       sync.Mutex
	listings map[models.EntityType][]models.Entity
	created  map[models.EntityType][]models.Entity
	failIDs  map[string]bool
	nextID   int
	creates  int
}

func newFakeAPI(env models.Environment) *fakeAPI {
	return &fakeAPI{
		env:      env,
		listings: make(map[models.EntityType][]models.Entity),
		created:  make(map[models.EntityType][]models.Entity),
		failIDs:  make(map[string]bool),
	}
}

func (f *fakeAPI) Environment() models.Environment { return f.env }

func (f *fakeAPI) List(_ context.Context, t models.EntityType) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listings[t], nil
}

func (f *fakeAPI) Get(_ context.Context, t models.EntityType, id string) (*models.Entity, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) Create(_ context.Context, t models.EntityType, e *models.Entity) (*models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.failIDs[e.ID] {
		return nil, fmt.Errorf("sandbox rejected %s %s", t, e.ID)
	}
	f.nextID++
	created := e.Clone()
	created.ID = fmt.Sprintf("S%d", f.nextID)
	f.created[t] = append(f.created[t], *created)
	return created, nil
}

func (f *fakeAPI) Delete(_ context.Context, _ models.EntityType, _ string) error {
	return errors.New("not implemented")
}

func (f *fakeAPI) FetchDictionary(_ context.Context) (models.Dictionary, error) {
	return models.Dictionary{}, nil
}

func singleRelation(id string, t models.EntityType) models.Relation {
	return models.Relation{Refs: []models.Ref{{ID: id, Type: t}}}
}

// Scenario A: three companies, one of which fails to create, and two
// resources referencing the failed company. The resources still sync, each
// with exactly one dangling-reference warning and an unset relation.
func TestSyncDanglingReferenceAfterFailedCreate(t *testing.T) {
	prod := newFakeAPI(models.Production)
	prod.listings[models.Company] = []models.Entity{
		{ID: "P1", Type: models.Company, Attributes: map[string]any{"name": "Alpha"}},
		{ID: "P2", Type: models.Company, Attributes: map[string]any{"name": "Beta"}},
		{ID: "P3", Type: models.Company, Attributes: map[string]any{"name": "Gamma"}},
	}
	prod.listings[models.Resource] = []models.Entity{
		{ID: "R1", Type: models.Resource, Attributes: map[string]any{"email": "r1@x.com", "lastName": "Un"},
			Relationships: map[string]models.Relation{"company": singleRelation("P2", models.Company)}},
		{ID: "R2", Type: models.Resource, Attributes: map[string]any{"email": "r2@x.com", "lastName": "Deux"},
			Relationships: map[string]models.Relation{"company": singleRelation("P2", models.Company)}},
	}

	sandbox := newFakeAPI(models.Sandbox)
	sandbox.failIDs["P2"] = true

	engine, err := NewEngine(prod, sandbox, 2)
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	companies := result.PerType[models.Company]
	assert.Equal(t, 3, companies.Total)
	assert.Equal(t, 2, companies.Success)
	assert.Equal(t, 1, companies.Failed)
	require.Len(t, companies.Errors, 1)
	assert.Contains(t, companies.Errors[0], "P2")

	resources := result.PerType[models.Resource]
	assert.Equal(t, 2, resources.Total)
	assert.Equal(t, 2, resources.Success)
	assert.Equal(t, 0, resources.Failed)

	// One warning per resource, both naming the dangling production id.
	var dangling []quality.Issue
	for _, w := range result.Warnings {
		if w.Issue == "dangling reference dropped during sync" {
			dangling = append(dangling, w)
		}
	}
	require.Len(t, dangling, 2)
	for _, w := range dangling {
		assert.Equal(t, quality.SeverityWarning, w.Severity)
		assert.Equal(t, "company", w.Field)
		assert.Equal(t, "P2", w.CurrentValue)
	}

	// The created resources carry an unset company relation.
	for _, created := range sandbox.created[models.Resource] {
		assert.True(t, created.Relationships["company"].IsEmpty(),
			"resource %s should have an unset company relation", created.ID)
	}
}

func TestSyncTranslatesRelationshipIDs(t *testing.T) {
	prod := newFakeAPI(models.Production)
	prod.listings[models.Company] = []models.Entity{
		{ID: "P10", Type: models.Company, Attributes: map[string]any{"name": "Acme"}},
	}
	prod.listings[models.Contact] = []models.Entity{
		{ID: "C1", Type: models.Contact, Attributes: map[string]any{"email": "c@x.com", "lastName": "Roche"},
			Relationships: map[string]models.Relation{"company": singleRelation("P10", models.Company)}},
	}

	sandbox := newFakeAPI(models.Sandbox)
	engine, err := NewEngine(prod, sandbox, 1)
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.TotalRecords, result.SuccessRecords+result.FailedRecords)

	require.Len(t, sandbox.created[models.Contact], 1)
	contact := sandbox.created[models.Contact][0]
	companyRel := contact.Relationships["company"]
	require.Len(t, companyRel.Refs, 1)

	// The contact must reference the company's sandbox id, never P10.
	require.Len(t, sandbox.created[models.Company], 1)
	assert.Equal(t, sandbox.created[models.Company][0].ID, companyRel.Refs[0].ID)
	assert.NotEqual(t, "P10", companyRel.Refs[0].ID)
}

func TestSyncMultiRelationDropsOnlyDanglingRefs(t *testing.T) {
	prod := newFakeAPI(models.Production)
	prod.listings[models.Resource] = []models.Entity{
		{ID: "R1", Type: models.Resource, Attributes: map[string]any{"email": "a@x.com", "lastName": "A"}},
		{ID: "R2", Type: models.Resource, Attributes: map[string]any{"email": "b@x.com", "lastName": "B"}},
	}
	prod.listings[models.Project] = []models.Entity{
		{ID: "PJ1", Type: models.Project, Attributes: map[string]any{"title": "Revamp"},
			Relationships: map[string]models.Relation{
				"resources": {Refs: []models.Ref{
					{ID: "R1", Type: models.Resource},
					{ID: "R2", Type: models.Resource},
				}},
			}},
	}

	sandbox := newFakeAPI(models.Sandbox)
	sandbox.failIDs["R2"] = true

	engine, err := NewEngine(prod, sandbox, 2)
	require.NoError(t, err)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, sandbox.created[models.Project], 1)
	team := sandbox.created[models.Project][0].Relationships["resources"]
	require.Len(t, team.Refs, 1, "only the surviving resource should remain")

	var dangling int
	for _, w := range result.Warnings {
		if w.EntityType == models.Project && w.Field == "resources" {
			dangling++
		}
	}
	assert.Equal(t, 1, dangling)
}

func TestSyncTallyInvariants(t *testing.T) {
	prod := newFakeAPI(models.Production)
	for i := 0; i < 7; i++ {
		prod.listings[models.Company] = append(prod.listings[models.Company], models.Entity{
			ID: fmt.Sprintf("P%d", i), Type: models.Company,
			Attributes: map[string]any{"name": fmt.Sprintf("Co %d", i)},
		})
	}
	sandbox := newFakeAPI(models.Sandbox)
	sandbox.failIDs["P3"] = true
	sandbox.failIDs["P5"] = true

	engine, err := NewEngine(prod, sandbox, 3)
	require.NoError(t, err)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, result.TotalRecords, result.SuccessRecords+result.FailedRecords)
	for typ, outcome := range result.PerType {
		assert.Equal(t, outcome.Processed, outcome.Success+outcome.Failed, "type %s", typ)
		assert.LessOrEqual(t, outcome.Processed, outcome.Total, "type %s", typ)
	}
	assert.Equal(t, 7, result.PerType[models.Company].Total)
	assert.Equal(t, 5, result.PerType[models.Company].Success)
	assert.Equal(t, 2, result.PerType[models.Company].Failed)
	assert.Equal(t, RerunNote, result.Note)
}

func TestSyncFollowsDependencyOrder(t *testing.T) {
	prod := newFakeAPI(models.Production)
	sandbox := newFakeAPI(models.Sandbox)
	engine, err := NewEngine(prod, sandbox, 1)
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	expected := []models.EntityType{
		models.Company, models.Contact, models.Resource,
		models.Candidate, models.Opportunity, models.Project,
	}
	assert.Equal(t, expected, result.TypeOrder)
}

func TestSyncRejectsSameEnvironmentPairing(t *testing.T) {
	a := newFakeAPI(models.Sandbox)
	b := newFakeAPI(models.Sandbox)
	_, err := NewEngine(a, b, 1)
	require.Error(t, err)
}

func TestSyncRejectsReadOnlyTarget(t *testing.T) {
	prod := newFakeAPI(models.Sandbox)
	target := newFakeAPI(models.Production)
	_, err := NewEngine(prod, target, 1)
	require.Error(t, err)
}

func TestSyncCancellationReturnsPartialResult(t *testing.T) {
	prod := newFakeAPI(models.Production)
	for i := 0; i < 50; i++ {
		prod.listings[models.Company] = append(prod.listings[models.Company], models.Entity{
			ID: fmt.Sprintf("P%d", i), Type: models.Company,
			Attributes: map[string]any{"name": fmt.Sprintf("Co %d", i)},
		})
	}
	sandbox := newFakeAPI(models.Sandbox)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine, err := NewEngine(prod, sandbox, 2)
	require.NoError(t, err)

	result, err := engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result, "partial result must still be returned")
	assert.Equal(t, result.TotalRecords, result.SuccessRecords+result.FailedRecords)
	assert.False(t, result.CompletedAt.IsZero())
	assert.True(t, result.CompletedAt.Sub(result.StartedAt) < time.Minute)
}
