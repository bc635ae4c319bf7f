package shared

import "github.com/google/uuid"

// Task type names registered with the worker.
const (
	TypeEnrichRecords = "person:enrich_records"
)

// EnrichRecordsPayload carries the batch enrichment arguments: the set of
// local record ids to look up in the directory and merge data into.
type EnrichRecordsPayload struct {
	RecordIDs []uuid.UUID `json:"record_ids"`
}
