package service

import (
	"context"
	"fmt"

	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/model"
)

// RecordLinker matches external persons against existing local records so
// the gateway can attach merge candidates. Implements gateway.RecordMatcher.
type RecordLinker struct {
	repo repository.Repository

	// matchProperties are the configured full-name match properties, used
	// when a person carries no split name parts.
	matchProperties []string
}

// NewRecordLinker creates a new linker.
func NewRecordLinker(repo repository.Repository, matchProperties []string) *RecordLinker {
	if len(matchProperties) == 0 {
		matchProperties = []string{TermTitle}
	}
	return &RecordLinker{
		repo:            repo,
		matchProperties: matchProperties,
	}
}

// MatchPerson finds local records whose family-name and given-name fields
// exactly equal the person's. When the directory record has no split name
// parts, each configured match property is checked against the full name
// instead.
func (l *RecordLinker) MatchPerson(ctx context.Context, person *model.ExternalPerson) ([]model.ItemRef, error) {
	if person.LastName != "" && person.FirstName != "" {
		return l.search(ctx, []repository.PropertyCriterion{
			{Term: TermLastName, Type: "eq", Text: person.LastName},
			{Term: TermFirstName, Type: "eq", Text: person.FirstName},
		})
	}

	if person.FullName == "" {
		return nil, nil
	}
	for _, term := range l.matchProperties {
		refs, err := l.search(ctx, []repository.PropertyCriterion{
			{Term: term, Type: "eq", Text: person.FullName},
		})
		if err != nil {
			return nil, err
		}
		if len(refs) > 0 {
			return refs, nil
		}
	}
	return nil, nil
}

func (l *RecordLinker) search(ctx context.Context, criteria []repository.PropertyCriterion) ([]model.ItemRef, error) {
	records, err := l.repo.SearchRecords(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to match person: %w", err)
	}

	refs := make([]model.ItemRef, 0, len(records))
	for _, rec := range records {
		refs = append(refs, model.ItemRef{ID: rec.ID, Title: rec.Title})
	}
	return refs, nil
}
