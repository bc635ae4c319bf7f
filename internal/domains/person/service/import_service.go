package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	catalog "scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/internal/shared"
	"scholarsync-backend/pkg/logger"
)

// importService implements ImportService.
type importService struct {
	repo       repository.Repository
	gateway    gateway.Gateway
	queue      Enqueuer
	templateID *int
}

// NewImportService creates the interactive import service.
func NewImportService(repo repository.Repository, gw gateway.Gateway, queue Enqueuer, templateID *int) ImportService {
	return &importService{
		repo:       repo,
		gateway:    gw,
		queue:      queue,
		templateID: templateID,
	}
}

const defaultPageSize = 20

func (s *importService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEmptyQuery, err)
	}

	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}

	result, err := s.gateway.SearchPersons(ctx, req.Query, req.Page, size)
	if err != nil {
		return nil, err
	}

	totalPages := (result.Total + size - 1) / size
	return &model.SearchResponse{
		Total:      result.Total,
		Page:       req.Page,
		Size:       size,
		TotalPages: totalPages,
		Hits:       result.Hits,
	}, nil
}

// Import maps one directory person into a local record. An explicit target
// record, or the person's already-linked record, selects merge; otherwise a
// new record is created. The mapper never persists partial state: the draft
// is handed to the repository whole.
func (s *importService) Import(ctx context.Context, req model.ImportRequest) (*model.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMissingPersonID, err)
	}

	person, err := s.gateway.GetPersonByID(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}

	var existing *catalog.Record
	switch {
	case req.RecordID != nil:
		existing, err = s.repo.GetByID(ctx, *req.RecordID)
		if err != nil {
			return nil, err
		}
	case len(person.Items) > 0:
		existing, err = s.repo.GetByID(ctx, person.Items[0].ID)
		if err != nil {
			return nil, err
		}
	}

	mapper := NewMapper(s.repo, s.gateway, s.templateID)
	draft, err := mapper.MapPerson(ctx, person, existing, true)
	if err != nil {
		return nil, err
	}

	var record *catalog.Record
	created := existing == nil
	if created {
		record, err = s.repo.Create(ctx, draft)
	} else {
		record, err = s.repo.Update(ctx, existing.ID, draft, catalog.UpdateOptions{
			Partial:          true,
			CollectionAction: catalog.CollectionReplace,
		})
	}
	if err != nil {
		return nil, err
	}

	logger.Info("import: person mapped", map[string]interface{}{
		"person_id": person.ID,
		"record_id": record.ID.String(),
		"created":   created,
	})

	return &model.ImportResponse{
		RecordID: record.ID,
		Title:    record.Title,
		Created:  created,
	}, nil
}

func (s *importService) Status(ctx context.Context) model.StatusResponse {
	return model.StatusResponse{Connected: s.gateway.TestConnection(ctx)}
}

func (s *importService) EnqueueEnrich(ctx context.Context, req model.EnrichRequest) (*model.EnrichResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(shared.EnrichRecordsPayload{RecordIDs: req.RecordIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enrich payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeEnrichRecords, payload)
	info, err := s.queue.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(0))
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue enrich run: %w", err)
	}

	logger.Info("import: enrich run queued", map[string]interface{}{
		"task_id": info.ID,
		"records": len(req.RecordIDs),
	})

	return &model.EnrichResponse{TaskID: info.ID, Queued: len(req.RecordIDs)}, nil
}
