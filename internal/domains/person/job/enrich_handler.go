package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	catalog "scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/internal/domains/catalog/repository"
	"scholarsync-backend/internal/domains/person/gateway"
	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/internal/domains/person/service"
	"scholarsync-backend/internal/shared"
	"scholarsync-backend/pkg/logger"
)

// Limit for the per-chunk record fetch to bound working-set and query size.
const bulkLimit = 100

// EnrichHandler runs one batch enrichment: for every requested local
// record, look up the best directory match by the record's display name,
// map it onto the record and apply a partial, replace-per-field update.
//
// Failure isolation: one record's fetch or mapping failure is logged and
// the loop moves on; only an unreachable provider aborts the whole run,
// detected up front. The run stops cooperatively when the task context is
// cancelled, checked once per record.
type EnrichHandler struct {
	repo       repository.Repository
	gateway    gateway.Gateway
	templateID *int
}

// NewEnrichHandler creates the handler with dependencies from the container.
func NewEnrichHandler(repo repository.Repository, gw gateway.Gateway, templateID *int) *EnrichHandler {
	return &EnrichHandler{
		repo:       repo,
		gateway:    gw,
		templateID: templateID,
	}
}

// ProcessTask handles one person:enrich_records task.
func (h *EnrichHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.EnrichRecordsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("enrich: failed to unmarshal payload", err)
		// Corrupt payload: retrying cannot fix the data.
		return fmt.Errorf("unmarshal enrich payload: %w", err)
	}
	if len(payload.RecordIDs) == 0 {
		logger.Info("enrich: no record ids in payload, nothing to do", nil)
		return nil
	}

	// Check existence up front and warn about unknown ids.
	ids, err := h.repo.ExistingIDs(ctx, payload.RecordIDs)
	if err != nil {
		return fmt.Errorf("check record ids: %w", err)
	}
	if len(ids) < len(payload.RecordIDs) {
		logger.Warn("enrich: some requested records are not available", map[string]interface{}{
			"missing": requestedIDs(missingIDs(payload.RecordIDs, ids)),
		})
	}
	if len(ids) == 0 {
		return nil
	}

	// Pre-flight liveness probe: an unreachable provider fails the whole
	// run here instead of once per record.
	if !h.gateway.TestConnection(ctx) {
		logger.Warn("enrich: unable to connect to the directory, check configuration", nil)
		return model.ErrProviderConnection
	}

	totalToProcess := len(ids)
	logger.Info("enrich: processing records", map[string]interface{}{
		"total": totalToProcess,
	})

	// One mapper per run: vocabulary and entity caches span the whole job.
	mapper := service.NewMapper(h.repo, h.gateway, h.templateID)

	totalProcessed := 0
	totalFailed := 0
	stopped := false

chunks:
	for start := 0; start < len(ids); start += bulkLimit {
		end := start + bulkLimit
		if end > len(ids) {
			end = len(ids)
		}

		records, err := h.repo.GetByIDs(ctx, ids[start:end])
		if err != nil {
			logger.Error("enrich: failed to load record chunk", err)
			totalFailed += end - start
			continue
		}

		for i := range records {
			select {
			case <-ctx.Done():
				logger.Warn("enrich: run was stopped", nil)
				stopped = true
				break chunks
			default:
			}

			rec := &records[i]
			if err := h.enrichRecord(ctx, mapper, rec); err != nil {
				totalFailed++
				logger.Warn("enrich: record failed", map[string]interface{}{
					"record_id": rec.ID.String(),
					"title":     rec.Title,
					"error":     err.Error(),
				})
			}
			totalProcessed++
		}
	}

	logger.Info("enrich: end of run", map[string]interface{}{
		"processed": totalProcessed,
		"total":     totalToProcess,
		"failed":    totalFailed,
		"stopped":   stopped,
	})
	return nil
}

// enrichRecord looks up the record's person in the directory (exactly one
// top hit) and merges the mapped data back, replacing only touched fields.
func (h *EnrichHandler) enrichRecord(ctx context.Context, mapper *service.Mapper, rec *catalog.Record) error {
	if rec.Title == "" {
		return fmt.Errorf("record %s has no title to search by", rec.ID)
	}

	result, err := h.gateway.SearchPersons(ctx, rec.Title, 0, 1)
	if err != nil {
		return err
	}
	if len(result.Hits) == 0 {
		return fmt.Errorf("%w: no directory match for %q", model.ErrPersonNotFound, rec.Title)
	}

	person := result.Hits[0]
	draft, err := mapper.MapPerson(ctx, &person, rec, true)
	if err != nil {
		return err
	}

	_, err = h.repo.Update(ctx, rec.ID, draft, catalog.UpdateOptions{
		Partial:          true,
		CollectionAction: catalog.CollectionReplace,
	})
	return err
}

func missingIDs(requested, existing []uuid.UUID) []uuid.UUID {
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func requestedIDs(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
