package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	catalog "scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
)

// EntityResolver finds or creates local records for entities referenced by
// a person: topic tags, organizations and co-contributors.
//
// Every strategy is a read-then-create sequence: search for an existing
// record by a distinguishing attribute, create a minimal one when absent.
// The two steps are not atomic; concurrent runs can create duplicates
// (known race, accepted — a run is single-threaded).
//
// Resolved entities are cached per run so repeated references resolve to
// the same record without extra repository round-trips.
type EntityResolver struct {
	repo    repository.Repository
	gateway gateway.Gateway
	vocab   *VocabularyResolver
	mapper  *Mapper

	tags    map[string]uuid.UUID // by label, exact match
	orgs    map[string]uuid.UUID // by stable external code
	persons map[string]uuid.UUID // by directory person id
}

func newEntityResolver(repo repository.Repository, gw gateway.Gateway, vocab *VocabularyResolver, mapper *Mapper) *EntityResolver {
	return &EntityResolver{
		repo:    repo,
		gateway: gw,
		vocab:   vocab,
		mapper:  mapper,
		tags:    make(map[string]uuid.UUID),
		orgs:    make(map[string]uuid.UUID),
		persons: make(map[string]uuid.UUID),
	}
}

// ResolveTag finds or creates the topic record for a research domain.
// Matching is exact on the preferred label: differently-cased or accented
// labels intentionally become separate records (no fuzzy dedup).
func (r *EntityResolver) ResolveTag(ctx context.Context, domain model.Domain) (uuid.UUID, error) {
	if id, ok := r.tags[domain.Label]; ok {
		return id, nil
	}

	existing, err := r.repo.SearchRecords(ctx, []repository.PropertyCriterion{
		{Term: TermPrefLabel, Type: "eq", Text: domain.Label},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to search tag %q: %w", domain.Label, err)
	}
	if len(existing) > 0 {
		r.tags[domain.Label] = existing[0].ID
		return existing[0].ID, nil
	}

	draft := catalog.NewDraft()

	classID, err := r.vocab.ClassID(ctx, ClassConcept)
	if err != nil {
		return uuid.Nil, err
	}
	draft.ClassID = &classID

	titleID, err := r.vocab.PropertyID(ctx, TermTitle)
	if err != nil {
		return uuid.Nil, err
	}
	labelID, err := r.vocab.PropertyID(ctx, TermPrefLabel)
	if err != nil {
		return uuid.Nil, err
	}
	draft.Set(TermTitle, catalog.NewLiteral(titleID, domain.Label))
	draft.Set(TermPrefLabel, catalog.NewLiteral(labelID, domain.Label))

	if domain.Type == "wikidata" && domain.Code != "" {
		matchID, err := r.vocab.PropertyID(ctx, TermExactMatch)
		if err != nil {
			return uuid.Nil, err
		}
		uri := WikidataBaseURL + domain.Code
		draft.Set(TermExactMatch, catalog.NewURIRef(matchID, uri, domain.Label))
	}

	created, err := r.repo.Create(ctx, draft)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tag %q: %w", domain.Label, err)
	}
	r.tags[domain.Label] = created.ID
	return created.ID, nil
}

// ResolveOrganization finds or creates the record for an affiliation's
// organization, keyed by its stable external code (labels are not assumed
// unique, codes are).
func (r *EntityResolver) ResolveOrganization(ctx context.Context, structure model.Structure) (uuid.UUID, error) {
	if id, ok := r.orgs[structure.IDName]; ok {
		return id, nil
	}

	existing, err := r.repo.SearchRecords(ctx, []repository.PropertyCriterion{
		{Term: TermIdentifier, Type: "eq", Text: structure.IDName},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to search organization %q: %w", structure.IDName, err)
	}
	if len(existing) > 0 {
		r.orgs[structure.IDName] = existing[0].ID
		return existing[0].ID, nil
	}

	draft := catalog.NewDraft()

	classID, err := r.vocab.ClassID(ctx, ClassOrganization)
	if err != nil {
		return uuid.Nil, err
	}
	draft.ClassID = &classID

	titleID, err := r.vocab.PropertyID(ctx, TermTitle)
	if err != nil {
		return uuid.Nil, err
	}
	draft.Set(TermTitle, catalog.NewLiteral(titleID, structure.Label))

	if orgType := organizationType(structure); orgType != "" {
		typeID, err := r.vocab.PropertyID(ctx, TermType)
		if err != nil {
			return uuid.Nil, err
		}
		draft.Set(TermType, catalog.NewLiteral(typeID, orgType))
	}

	identifierID, err := r.vocab.PropertyID(ctx, TermIdentifier)
	if err != nil {
		return uuid.Nil, err
	}
	draft.Set(TermIdentifier, catalog.NewLiteral(identifierID, structure.IDName))

	created, err := r.repo.Create(ctx, draft)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create organization %q: %w", structure.IDName, err)
	}
	r.orgs[structure.IDName] = created.ID
	return created.ID, nil
}

// ResolveCoContributor finds or creates the record for a co-author. The
// person is fetched from the directory; when the fetch reveals an already
// linked local record it is reused, otherwise the person is mapped one hop
// deep (no further co-contributor, domain or publication expansion) and
// persisted immediately.
func (r *EntityResolver) ResolveCoContributor(ctx context.Context, personID string) (uuid.UUID, error) {
	if id, ok := r.persons[personID]; ok {
		return id, nil
	}

	person, err := r.gateway.GetPersonByID(ctx, personID)
	if err != nil {
		return uuid.Nil, err
	}

	if len(person.Items) > 0 {
		r.persons[personID] = person.Items[0].ID
		return person.Items[0].ID, nil
	}

	draft, err := r.mapper.MapPerson(ctx, person, nil, false)
	if err != nil {
		return uuid.Nil, err
	}
	created, err := r.repo.Create(ctx, draft)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create co-contributor record: %w", err)
	}
	r.persons[personID] = created.ID
	return created.ID, nil
}

// organizationType derives the organization's type label. Fixed heuristic:
// an external id starting with "ED" marks a doctoral school, otherwise the
// first kind entry wins.
func organizationType(structure model.Structure) string {
	if strings.HasPrefix(structure.ID, "ED") {
		return "Doctoral school"
	}
	if len(structure.Kind) > 0 {
		return structure.Kind[0]
	}
	return ""
}
