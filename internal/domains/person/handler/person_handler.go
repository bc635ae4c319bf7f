package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholarsync-backend/internal/domains/person/model"
	"scholarsync-backend/internal/domains/person/service"
	"scholarsync-backend/internal/shared/response"
)

// PersonHandler exposes the directory import surface over HTTP. Thin layer:
// parse, validate, delegate to the import service, translate errors.
type PersonHandler struct {
	service service.ImportService
}

func NewPersonHandler(svc service.ImportService) *PersonHandler {
	return &PersonHandler{
		service: svc,
	}
}

// Search handles GET /api/v1/directory/persons?q=...&page=0&size=20
func (h *PersonHandler) Search(c *gin.Context) {
	req := model.SearchRequest{
		Query: c.Query("q"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil && page >= 0 {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("size", "20")); err == nil && size > 0 {
		req.Size = size
	}

	resp, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Import handles POST /api/v1/directory/persons/import
func (h *PersonHandler) Import(c *gin.Context) {
	var req model.ImportRequest
	if err := c.BindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, resp)
}

// Status handles GET /api/v1/directory/status
func (h *PersonHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Status(c.Request.Context()))
}

// Enrich handles POST /api/v1/directory/records/enrich
func (h *PersonHandler) Enrich(c *gin.Context) {
	var req model.EnrichRequest
	if err := c.BindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.service.EnqueueEnrich(c.Request.Context(), req)
	if err != nil {
		response.Error(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusAccepted, resp)
}
