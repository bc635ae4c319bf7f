package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/internal/shared"
)

func TestImportService_Search(t *testing.T) {
	gw := newFakeGateway()
	gw.search["curie"] = &gateway.SearchResult{
		Total: 41,
		Hits:  []model.ExternalPerson{{ID: "p1", FullName: "Marie Curie"}},
	}
	svc := NewImportService(newFakeRepo(), gw, &fakeEnqueuer{}, nil)

	resp, err := svc.Search(context.Background(), model.SearchRequest{Query: "curie"})
	require.NoError(t, err)

	assert.Equal(t, 41, resp.Total)
	assert.Equal(t, defaultPageSize, resp.Size)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "p1", resp.Hits[0].ID)
}

func TestImportService_Search_EmptyQuery(t *testing.T) {
	svc := NewImportService(newFakeRepo(), newFakeGateway(), &fakeEnqueuer{}, nil)

	_, err := svc.Search(context.Background(), model.SearchRequest{Query: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyQuery)
}

func TestImportService_Import_CreatesNewRecord(t *testing.T) {
	repo := newFakeRepo()
	gw := newFakeGateway()
	gw.persons["p1"] = marieCurie()
	gw.persons["p2"] = &model.ExternalPerson{ID: "p2", FullName: "Pierre Curie"}
	svc := NewImportService(repo, gw, &fakeEnqueuer{}, nil)

	resp, err := svc.Import(context.Background(), model.ImportRequest{PersonID: "p1"})
	require.NoError(t, err)

	assert.True(t, resp.Created)
	assert.Equal(t, "Marie Curie", resp.Title)

	rec, err := repo.GetByID(context.Background(), resp.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "directory:p1", rec.Values[TermIdentifier][0].Value)
}

func TestImportService_Import_MergesIntoLinkedRecord(t *testing.T) {
	repo := newFakeRepo()
	gw := newFakeGateway()

	existing := repo.addRecord("Marie Curie", map[string]string{TermTitle: "Marie Curie"})
	person := marieCurie()
	person.CoContributors = nil
	person.Items = []model.ItemRef{{ID: existing.ID, Title: "Marie Curie"}}
	gw.persons["p1"] = person

	svc := NewImportService(repo, gw, &fakeEnqueuer{}, nil)
	resp, err := svc.Import(context.Background(), model.ImportRequest{PersonID: "p1"})
	require.NoError(t, err)

	assert.False(t, resp.Created)
	assert.Equal(t, existing.ID, resp.RecordID)
	assert.Equal(t, 1, repo.updateCalls)

	rec, err := repo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "directory:p1", rec.Values[TermIdentifier][0].Value)
}

func TestImportService_Import_ExplicitTargetWins(t *testing.T) {
	repo := newFakeRepo()
	gw := newFakeGateway()

	linked := repo.addRecord("Marie Curie", map[string]string{TermTitle: "Marie Curie"})
	target := repo.addRecord("M. Curie (draft)", map[string]string{TermTitle: "M. Curie (draft)"})

	person := marieCurie()
	person.CoContributors = nil
	person.Items = []model.ItemRef{{ID: linked.ID, Title: "Marie Curie"}}
	gw.persons["p1"] = person

	svc := NewImportService(repo, gw, &fakeEnqueuer{}, nil)
	resp, err := svc.Import(context.Background(), model.ImportRequest{
		PersonID: "p1",
		RecordID: &target.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, target.ID, resp.RecordID)
}

func TestImportService_Import_MissingPersonID(t *testing.T) {
	svc := NewImportService(newFakeRepo(), newFakeGateway(), &fakeEnqueuer{}, nil)

	_, err := svc.Import(context.Background(), model.ImportRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingPersonID)
}

func TestImportService_Import_PersonNotFound(t *testing.T) {
	svc := NewImportService(newFakeRepo(), newFakeGateway(), &fakeEnqueuer{}, nil)

	_, err := svc.Import(context.Background(), model.ImportRequest{PersonID: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPersonNotFound)
}

func TestImportService_Status(t *testing.T) {
	gw := newFakeGateway()
	svc := NewImportService(newFakeRepo(), gw, &fakeEnqueuer{}, nil)

	assert.True(t, svc.Status(context.Background()).Connected)

	gw.connected = false
	assert.False(t, svc.Status(context.Background()).Connected)
}

func TestImportService_EnqueueEnrich(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewImportService(newFakeRepo(), newFakeGateway(), queue, nil)

	req := model.EnrichRequest{RecordIDs: newUUIDs(3)}
	resp, err := svc.EnqueueEnrich(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Queued)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, shared.TypeEnrichRecords, queue.tasks[0].Type())

	var payload shared.EnrichRecordsPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, req.RecordIDs, payload.RecordIDs)
}

func TestImportService_EnqueueEnrich_EmptyList(t *testing.T) {
	svc := NewImportService(newFakeRepo(), newFakeGateway(), &fakeEnqueuer{}, nil)

	_, err := svc.EnqueueEnrich(context.Background(), model.EnrichRequest{})
	require.Error(t, err)
}
