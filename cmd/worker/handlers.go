package main

import (
	"github.com/hibiken/asynq"

	personJob "scholarsync-backend/internal/domains/person/job"
	"scholarsync-backend/internal/shared"
	"scholarsync-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	enrichRecords *personJob.EnrichHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	templateID := templateIDOrNil(c.Config.Catalog.PersonTemplateID)

	return &HandlerRegistry{
		enrichRecords: personJob.NewEnrichHandler(
			c.CatalogRepo,
			c.DirectoryGateway,
			templateID,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeEnrichRecords, h.enrichRecords.ProcessTask)
}

func templateIDOrNil(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}
