package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// SEARCH: GET /api/v1/directory/persons
// =====================================================

type SearchRequest struct {
	Query string `form:"q" json:"q"`
	Page  int    `form:"page" json:"page"`
	Size  int    `form:"size" json:"size"`
}

func (req SearchRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Query, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Page, validation.Min(0)),
		validation.Field(&req.Size, validation.Min(0), validation.Max(100)),
	)
}

type SearchResponse struct {
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"total_pages"`
	Hits       []ExternalPerson `json:"hits"`
}

// =====================================================
// IMPORT: POST /api/v1/directory/persons/import
// =====================================================

// ImportRequest imports or merges one directory person into a local record.
// RecordID forces a merge target; when absent the person's already-linked
// record (if any) is merged into, otherwise a new record is created.
type ImportRequest struct {
	PersonID string     `json:"person_id"`
	RecordID *uuid.UUID `json:"record_id,omitempty"`
}

func (req ImportRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PersonID, validation.Required, validation.Length(1, 100)),
	)
}

type ImportResponse struct {
	RecordID uuid.UUID `json:"record_id"`
	Title    string    `json:"title"`
	Created  bool      `json:"created"` // false when merged into an existing record
}

// =====================================================
// BATCH ENRICH: POST /api/v1/directory/records/enrich
// =====================================================

type EnrichRequest struct {
	RecordIDs []uuid.UUID `json:"record_ids"`
}

func (req EnrichRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.RecordIDs, validation.Required, validation.Length(1, 10000)),
	)
}

type EnrichResponse struct {
	TaskID string `json:"task_id"`
	Queued int    `json:"queued"`
}

// =====================================================
// STATUS: GET /api/v1/directory/status
// =====================================================

type StatusResponse struct {
	Connected bool `json:"connected"`
}
