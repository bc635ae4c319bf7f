package service

import (
	"context"

	"scholarsync-backend/internal/domains/catalog/repository"
)

// VocabularyResolver memoizes term-to-id lookups against the repository
// schema for the lifetime of one mapping run. Not safe for concurrent use;
// a run is strictly sequential.
type VocabularyResolver struct {
	repo       repository.Repository
	properties map[string]int
	classes    map[string]int
}

// NewVocabularyResolver creates a resolver with empty caches.
func NewVocabularyResolver(repo repository.Repository) *VocabularyResolver {
	return &VocabularyResolver{
		repo:       repo,
		properties: make(map[string]int),
		classes:    make(map[string]int),
	}
}

// PropertyID resolves a property term, hitting the repository at most once
// per term. A missing term surfaces catalog model.ErrTermNotFound and is
// fatal to the current operation.
func (v *VocabularyResolver) PropertyID(ctx context.Context, term string) (int, error) {
	if id, ok := v.properties[term]; ok {
		return id, nil
	}
	id, err := v.repo.PropertyID(ctx, term)
	if err != nil {
		return 0, err
	}
	v.properties[term] = id
	return id, nil
}

// ClassID resolves a resource-class term, memoized like PropertyID.
func (v *VocabularyResolver) ClassID(ctx context.Context, term string) (int, error) {
	if id, ok := v.classes[term]; ok {
		return id, nil
	}
	id, err := v.repo.ClassID(ctx, term)
	if err != nil {
		return 0, err
	}
	v.classes[term] = id
	return id, nil
}
