package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	catalog "scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
)

// fakeRepo is an in-memory repository.Repository with call counters, so
// tests can assert on both behavior and lookup traffic.
type fakeRepo struct {
	properties map[string]int
	classes    map[string]int
	records    map[uuid.UUID]*catalog.Record

	propertyCalls int
	classCalls    int
	searchCalls   int
	createCalls   int
	updateCalls   int

	createErr error
	searchErr error
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		properties: make(map[string]int),
		classes:    make(map[string]int),
		records:    make(map[uuid.UUID]*catalog.Record),
	}

	terms := []string{
		TermTitle, TermFirstName, TermLastName, TermIdentifier,
		TermSameAs, TermSubject, TermContributor, TermAffiliation,
		TermCitation, TermPrefLabel, TermExactMatch, TermType,
		TermRank, TermStartDate, TermEndDate, TermDate,
		TermIsReferencedBy, TermStatus,
	}
	for i, term := range terms {
		r.properties[term] = i + 1
	}
	for i, term := range []string{ClassPerson, ClassOrganization, ClassConcept} {
		r.classes[term] = i + 1
	}
	return r
}

func (r *fakeRepo) PropertyID(ctx context.Context, term string) (int, error) {
	r.propertyCalls++
	id, ok := r.properties[term]
	if !ok {
		return 0, fmt.Errorf("%w: %s", catalog.ErrTermNotFound, term)
	}
	return id, nil
}

func (r *fakeRepo) ClassID(ctx context.Context, term string) (int, error) {
	r.classCalls++
	id, ok := r.classes[term]
	if !ok {
		return 0, fmt.Errorf("%w: %s", catalog.ErrTermNotFound, term)
	}
	return id, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, catalog.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Record, error) {
	var out []catalog.Record
	for _, id := range ids {
		if rec, ok := r.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := r.records[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeRepo) SearchRecords(ctx context.Context, criteria []repository.PropertyCriterion) ([]catalog.Record, error) {
	r.searchCalls++
	if r.searchErr != nil {
		return nil, r.searchErr
	}

	var out []catalog.Record
	for _, rec := range r.records {
		if matchesAll(rec, criteria) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func matchesAll(rec *catalog.Record, criteria []repository.PropertyCriterion) bool {
	for _, crit := range criteria {
		matched := false
		for _, val := range rec.Values[crit.Term] {
			if val.Value == crit.Text {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (r *fakeRepo) Create(ctx context.Context, draft *catalog.Draft) (*catalog.Record, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}

	rec := &catalog.Record{
		ID:         uuid.New(),
		ClassID:    draft.ClassID,
		TemplateID: draft.TemplateID,
		Title:      draftTitle(draft),
		Values:     draft.Values,
	}
	r.records[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, id uuid.UUID, draft *catalog.Draft, opts catalog.UpdateOptions) (*catalog.Record, error) {
	r.updateCalls++
	rec, ok := r.records[id]
	if !ok {
		return nil, catalog.ErrRecordNotFound
	}

	// Partial + replace: every key present in the draft replaces the
	// stored sequence, untouched keys stay.
	for term, vals := range draft.Values {
		rec.Values[term] = vals
	}
	if title := draftTitle(draft); title != "" {
		rec.Title = title
	}
	cp := *rec
	return &cp, nil
}

func draftTitle(draft *catalog.Draft) string {
	for _, val := range draft.Values[TermTitle] {
		if val.Type == catalog.TypeLiteral && val.Value != "" {
			return val.Value
		}
	}
	return ""
}

// addRecord seeds a person record with the given literal fields.
func (r *fakeRepo) addRecord(title string, literals map[string]string) *catalog.Record {
	rec := &catalog.Record{
		ID:     uuid.New(),
		Title:  title,
		Values: make(map[string][]catalog.FieldValue),
	}
	for term, value := range literals {
		rec.Values[term] = []catalog.FieldValue{
			catalog.NewLiteral(r.properties[term], value),
		}
	}
	r.records[rec.ID] = rec
	return rec
}

// fakeGateway is a canned-response gateway.Gateway.
type fakeGateway struct {
	persons   map[string]*model.ExternalPerson
	search    map[string]*gateway.SearchResult
	connected bool

	getErr    map[string]error
	searchErr error

	getCalls    int
	searchCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		persons:   make(map[string]*model.ExternalPerson),
		search:    make(map[string]*gateway.SearchResult),
		connected: true,
		getErr:    make(map[string]error),
	}
}

func (g *fakeGateway) SearchPersons(ctx context.Context, query string, page, size int) (*gateway.SearchResult, error) {
	g.searchCalls++
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	if result, ok := g.search[query]; ok {
		return result, nil
	}
	return &gateway.SearchResult{}, nil
}

func (g *fakeGateway) GetPersonByID(ctx context.Context, id string) (*model.ExternalPerson, error) {
	g.getCalls++
	if err, ok := g.getErr[id]; ok {
		return nil, err
	}
	person, ok := g.persons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrPersonNotFound, id)
	}
	cp := *person
	return &cp, nil
}

func (g *fakeGateway) TestConnection(ctx context.Context) bool {
	return g.connected
}

func newUUIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

// fakeEnqueuer records enqueued tasks.
type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}
