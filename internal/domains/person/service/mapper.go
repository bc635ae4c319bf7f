package service

import (
	"context"
	"strconv"

	catalog "scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/pkg/logger"
)

// Mapper transforms one external person record into a local record draft,
// resolving every nested reference (domains, affiliations, co-contributors)
// through the EntityResolver.
//
// One Mapper is one run: its vocabulary and entity caches live exactly as
// long as the Mapper instance. Build a fresh one per interactive action or
// batch job; never share across goroutines.
type Mapper struct {
	vocab      *VocabularyResolver
	entities   *EntityResolver
	templateID *int
}

// NewMapper builds a mapper with fresh caches. templateID is the default
// resource template for newly created person records, nil for none.
func NewMapper(repo repository.Repository, gw gateway.Gateway, templateID *int) *Mapper {
	m := &Mapper{
		vocab:      NewVocabularyResolver(repo),
		templateID: templateID,
	}
	m.entities = newEntityResolver(repo, gw, m.vocab, m)
	return m
}

// Entities exposes the run's entity resolver.
func (m *Mapper) Entities() *EntityResolver {
	return m.entities
}

// MapPerson maps an external person onto a record draft.
//
// When existing is non-nil the draft is seeded with the record's current
// field set and scalar fields follow the fill-gaps rule: a key already
// populated is never overwritten. The external-id, affiliation and
// publication fields are always rewritten whole, even when merging — the
// historical behavior, locked in by tests rather than unified with the
// fill-gaps rule.
//
// expand limits co-contributor fan-out to one hop from the primary subject:
// co-contributors are themselves mapped with expand=false, so their own
// co-contributors, domains and publications are never pulled in.
func (m *Mapper) MapPerson(ctx context.Context, person *model.ExternalPerson, existing *catalog.Record, expand bool) (*catalog.Draft, error) {
	var draft *catalog.Draft
	if existing != nil {
		draft = catalog.DraftFromRecord(existing)
	} else {
		draft = catalog.NewDraft()
		classID, err := m.vocab.ClassID(ctx, ClassPerson)
		if err != nil {
			return nil, err
		}
		draft.ClassID = &classID
		draft.TemplateID = m.templateID
	}

	if err := m.mapScalars(ctx, draft, person); err != nil {
		return nil, err
	}
	if err := m.mapExternalIDs(ctx, draft, person); err != nil {
		return nil, err
	}

	if expand {
		if err := m.mapCoContributors(ctx, draft, person); err != nil {
			return nil, err
		}
		if err := m.mapDomains(ctx, draft, person); err != nil {
			return nil, err
		}
	}

	// Affiliations are mapped regardless of expand: a one-hop co-contributor
	// still gets its organizations.
	if err := m.mapAffiliations(ctx, draft, person); err != nil {
		return nil, err
	}

	if expand {
		if err := m.mapPublications(ctx, draft, person); err != nil {
			return nil, err
		}
	}

	return draft, nil
}

// mapScalars writes the person's own fields, filling gaps only.
func (m *Mapper) mapScalars(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	scalars := []struct {
		term  string
		value string
	}{
		{TermTitle, person.FullName},
		{TermFirstName, person.FirstName},
		{TermLastName, person.LastName},
		{TermIdentifier, identifierValue(person.ID)},
	}

	for _, s := range scalars {
		if s.value == "" {
			continue
		}
		propID, err := m.vocab.PropertyID(ctx, s.term)
		if err != nil {
			return err
		}
		draft.SetIfAbsent(s.term, catalog.NewLiteral(propID, s.value))
	}
	return nil
}

// mapExternalIDs rewrites the full external-id reference list.
func (m *Mapper) mapExternalIDs(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	if len(person.ExternalIDs) == 0 {
		return nil
	}
	propID, err := m.vocab.PropertyID(ctx, TermSameAs)
	if err != nil {
		return err
	}

	values := make([]catalog.FieldValue, 0, len(person.ExternalIDs))
	for _, ext := range person.ExternalIDs {
		label := ext.Type + ":" + ext.ID
		values = append(values, catalog.NewURIRef(propID, ext.URL, label))
	}
	draft.Set(TermSameAs, values...)
	return nil
}

// mapCoContributors appends a reference per resolvable co-author. A failure
// on one co-contributor is logged with identifying context and that single
// reference is skipped; it never aborts the primary person's mapping.
func (m *Mapper) mapCoContributors(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	if len(person.CoContributors) == 0 {
		return nil
	}
	// A missing schema term is still fatal; only per-entry resolution
	// failures are contained.
	propID, err := m.vocab.PropertyID(ctx, TermContributor)
	if err != nil {
		return err
	}

	for _, co := range person.CoContributors {
		recordID, err := m.entities.ResolveCoContributor(ctx, co.PersonID)
		if err != nil {
			logger.Warn("mapper: skipping co-contributor", map[string]interface{}{
				"person_id": co.PersonID,
				"full_name": co.FullName,
				"error":     err.Error(),
			})
			continue
		}
		draft.Append(TermContributor, catalog.NewResourceRef(propID, recordID))
	}
	return nil
}

// mapDomains appends one tag reference per research domain, annotated with
// the domain's occurrence count as a rank. Tag failures propagate: the
// primary person's topical data is essential.
func (m *Mapper) mapDomains(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	if len(person.Domains) == 0 {
		return nil
	}
	propID, err := m.vocab.PropertyID(ctx, TermSubject)
	if err != nil {
		return err
	}
	rankID, err := m.vocab.PropertyID(ctx, TermRank)
	if err != nil {
		return err
	}

	for _, domain := range person.Domains {
		tagID, err := m.entities.ResolveTag(ctx, domain)
		if err != nil {
			return err
		}
		ref := catalog.NewResourceRef(propID, tagID)
		ref.Annotate(TermRank, catalog.NewLiteral(rankID, strconv.Itoa(domain.Count)))
		draft.Append(TermSubject, ref)
	}
	return nil
}

// mapAffiliations rewrites the whole organization reference list, each
// entry annotated with publication count and start/end dates.
func (m *Mapper) mapAffiliations(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	if len(person.Affiliations) == 0 {
		return nil
	}
	propID, err := m.vocab.PropertyID(ctx, TermAffiliation)
	if err != nil {
		return err
	}
	rankID, err := m.vocab.PropertyID(ctx, TermRank)
	if err != nil {
		return err
	}
	startID, err := m.vocab.PropertyID(ctx, TermStartDate)
	if err != nil {
		return err
	}
	endID, err := m.vocab.PropertyID(ctx, TermEndDate)
	if err != nil {
		return err
	}

	values := make([]catalog.FieldValue, 0, len(person.Affiliations))
	for _, aff := range person.Affiliations {
		orgID, err := m.entities.ResolveOrganization(ctx, aff.Structure)
		if err != nil {
			return err
		}
		ref := catalog.NewResourceRef(propID, orgID)
		if aff.PublicationsCount > 0 {
			ref.Annotate(TermRank, catalog.NewLiteral(rankID, strconv.Itoa(aff.PublicationsCount)))
		}
		if aff.StartDate != "" {
			ref.Annotate(TermStartDate, catalog.NewLiteral(startID, aff.StartDate))
		}
		if aff.EndDate != "" {
			ref.Annotate(TermEndDate, catalog.NewLiteral(endID, aff.EndDate))
		}
		values = append(values, ref)
	}
	draft.Set(TermAffiliation, values...)
	return nil
}

// mapPublications rewrites the whole publication list as annotated literals.
func (m *Mapper) mapPublications(ctx context.Context, draft *catalog.Draft, person *model.ExternalPerson) error {
	if len(person.Publications) == 0 {
		return nil
	}
	propID, err := m.vocab.PropertyID(ctx, TermCitation)
	if err != nil {
		return err
	}
	dateID, err := m.vocab.PropertyID(ctx, TermDate)
	if err != nil {
		return err
	}
	venueID, err := m.vocab.PropertyID(ctx, TermIsReferencedBy)
	if err != nil {
		return err
	}
	statusID, err := m.vocab.PropertyID(ctx, TermStatus)
	if err != nil {
		return err
	}

	values := make([]catalog.FieldValue, 0, len(person.Publications))
	for _, pub := range person.Publications {
		lit := catalog.NewLiteral(propID, pub.Title)
		if pub.Year != "" {
			lit.Annotate(TermDate, catalog.NewLiteral(dateID, pub.Year))
		}
		if pub.PublicationVenue != "" {
			lit.Annotate(TermIsReferencedBy, catalog.NewLiteral(venueID, pub.PublicationVenue))
		}
		if pub.Role != "" {
			lit.Annotate(TermStatus, catalog.NewLiteral(statusID, pub.Role))
		}
		values = append(values, lit)
	}
	draft.Set(TermCitation, values...)
	return nil
}

func identifierValue(id string) string {
	if id == "" {
		return ""
	}
	return IdentifierPrefix + id
}
