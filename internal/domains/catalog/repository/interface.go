package repository

import (
	"context"

	"github.com/google/uuid"

	"scholarsync-backend/internal/domains/catalog/model"
)

// PropertyCriterion is one exact-match condition on a property value.
// Criteria in a search are ANDed together.
type PropertyCriterion struct {
	Term string // vocabulary term, e.g. "skos:prefLabel"
	Type string // only "eq" is supported
	Text string
}

// Repository is the local resource store boundary: record search and
// persistence plus property/class vocabulary lookup.
type Repository interface {
	// PropertyID resolves a property term to its numeric id.
	// Returns model.ErrTermNotFound when the schema lacks the term.
	PropertyID(ctx context.Context, term string) (int, error)

	// ClassID resolves a resource-class term to its numeric id.
	ClassID(ctx context.Context, term string) (int, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Record, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Record, error)

	// ExistingIDs filters ids down to those that exist as records.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// SearchRecords finds records matching every criterion exactly.
	SearchRecords(ctx context.Context, criteria []PropertyCriterion) ([]model.Record, error)

	Create(ctx context.Context, draft *model.Draft) (*model.Record, error)

	// Update applies a draft to an existing record. The import core always
	// passes Partial=true with CollectionReplace: touched field keys are
	// replaced whole, untouched keys are left alone.
	Update(ctx context.Context, id uuid.UUID, draft *model.Draft, opts model.UpdateOptions) (*model.Record, error)
}
