package service

import (
	"context"

	"github.com/hibiken/asynq"

	"scholarsync-backend/internal/domains/person/model"
)

// ImportService is the interactive import/merge surface consumed by the
// HTTP handlers.
type ImportService interface {
	// Search queries the directory by name or affiliation.
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)

	// Import imports or merges one directory person into a local record.
	Import(ctx context.Context, req model.ImportRequest) (*model.ImportResponse, error)

	// Status probes the directory connection.
	Status(ctx context.Context) model.StatusResponse

	// EnqueueEnrich schedules a background enrichment run over record ids.
	EnqueueEnrich(ctx context.Context, req model.EnrichRequest) (*model.EnrichResponse, error)
}

// Enqueuer is the slice of asynq.Client the service needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
