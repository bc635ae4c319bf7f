package model

import (
	"errors"
	"net/http"

	catalog "scholarsync-backend/internal/domains/catalog/model"
)

var (
	// ErrPersonNotFound: the external lookup returned no match.
	ErrPersonNotFound = errors.New("person not found in directory")

	// ErrProviderConnection: transport or auth failure talking to the
	// directory search provider.
	ErrProviderConnection = errors.New("directory provider unreachable")

	ErrMissingPersonID = errors.New("person id is required")
	ErrEmptyQuery      = errors.New("search query is empty")
)

// ToErrorCode converts an error to an API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPersonNotFound):
		return "PERSON_NOT_FOUND"
	case errors.Is(err, ErrProviderConnection):
		return "PROVIDER_UNREACHABLE"
	case errors.Is(err, catalog.ErrTermNotFound):
		return "SCHEMA_TERM_NOT_FOUND"
	case errors.Is(err, catalog.ErrRecordNotFound):
		return "RECORD_NOT_FOUND"
	case errors.Is(err, catalog.ErrWriteRejected):
		return "REPOSITORY_WRITE_REJECTED"
	case errors.Is(err, ErrMissingPersonID), errors.Is(err, ErrEmptyQuery):
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrPersonNotFound), errors.Is(err, catalog.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProviderConnection):
		return http.StatusBadGateway
	case errors.Is(err, ErrMissingPersonID), errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrTermNotFound):
		// Deployment misconfiguration, not a client problem.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
