package gateway

import (
	"context"

	"scholarsync-backend/internal/domains/person/model"
)

// SearchResult is one page of directory search hits.
type SearchResult struct {
	Total int
	Hits  []model.ExternalPerson
}

// Gateway is the external directory search provider boundary.
type Gateway interface {
	// SearchPersons runs a full-name/affiliation query. page starts at 0.
	SearchPersons(ctx context.Context, query string, page, size int) (*SearchResult, error)

	// GetPersonByID fetches one person by their stable directory id.
	// Returns model.ErrPersonNotFound when the directory has no match.
	GetPersonByID(ctx context.Context, id string) (*model.ExternalPerson, error)

	// TestConnection probes the provider. Never returns an error; used as a
	// liveness check before batch runs.
	TestConnection(ctx context.Context) bool
}

// RecordMatcher finds local records already representing an external person,
// so callers can decide between merging and creating.
type RecordMatcher interface {
	MatchPerson(ctx context.Context, person *model.ExternalPerson) ([]model.ItemRef, error)
}
