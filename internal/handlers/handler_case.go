package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/caselab/lab_case_app/internal/apperrors"
	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
	"github.com/caselab/lab_case_app/internal/dto"
	"github.com/caselab/lab_case_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// caseHandler handles HTTP requests related to lab cases.
type caseHandler struct {
	caseService portssvc.CaseSvcFacade
}

// newCaseHandler creates a new caseHandler.
func newCaseHandler(caseService portssvc.CaseSvcFacade) *caseHandler {
	return &caseHandler{caseService: caseService}
}

// RegisterCaseRoutes registers routes related to lab cases.
func RegisterCaseRoutes(rg *gin.RouterGroup, caseService portssvc.CaseSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newCaseHandler(caseService)
	ah := newAuditHandler(auditService)

	cases := rg.Group("/cases")
	{
		cases.POST("", h.createCase)
		cases.GET("", h.listCases)
		cases.POST("/reconcile", h.previewReconciliation)
		cases.GET("/:caseID", h.getCase)
		cases.PATCH("/:caseID", h.updateCase)
		cases.DELETE("/:caseID", h.deleteCase)
		cases.GET("/:caseID/audit", ah.listHistory)
	}
}

// createCase godoc
// @Summary Create a lab case
// @Description Creates a new case and writes its creation sentinel to the audit trail
// @Tags cases
// @Accept json
// @Produce json
// @Param case body dto.CreateCaseRequest true "Case"
// @Success 201 {object} dto.CaseResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create case"
// @Router /cases [post]
func (h *caseHandler) createCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createCase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.caseService.CreateCase(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating case", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create case in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create case"})
		}
		return
	}

	logger.Info("Case created", slog.String("case_id", record.CaseID))
	c.JSON(http.StatusCreated, dto.ToCaseResponse(record, h.caseService.ReconcileRecord(record)))
}

// getCase godoc
// @Summary Get a lab case
// @Description Retrieves a case with its freshly derived reconciliation state
// @Tags cases
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to retrieve case"
// @Router /cases/{caseID} [get]
func (h *caseHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	record, rec, err := h.caseService.GetCase(c.Request.Context(), caseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Case not found", slog.String("case_id", caseID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		logger.Error("Failed to get case from service", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve case"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCaseResponse(record, rec))
}

// listCases godoc
// @Summary List lab cases
// @Description Retrieves a paginated list of cases, newest first
// @Tags cases
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListCasesResponse
// @Failure 500 {object} map[string]string "Failed to list cases"
// @Router /cases [get]
func (h *caseHandler) listCases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := parseLimitQuery(c)
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	records, token, err := h.caseService.ListCases(c.Request.Context(), limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list cases", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cases"})
		return
	}

	cases := make([]dto.CaseResponse, len(records))
	for i := range records {
		cases[i] = dto.ToCaseResponse(&records[i], h.caseService.ReconcileRecord(&records[i]))
	}

	c.JSON(http.StatusOK, dto.ListCasesResponse{Cases: cases, NextToken: token})
}

// updateCase godoc
// @Summary Update a lab case
// @Description Applies a partial edit, recording one audit entry per changed field
// @Tags cases
// @Accept json
// @Produce json
// @Param caseID path string true "Case ID"
// @Param case body dto.UpdateCaseRequest true "Partial edit with the version the client read"
// @Success 200 {object} dto.UpdateCaseResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 500 {object} map[string]string "Failed to update case"
// @Router /cases/{caseID} [patch]
func (h *caseHandler) updateCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	var req dto.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateCase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, changes, rec, err := h.caseService.UpdateCase(c.Request.Context(), caseID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Stale case update rejected", slog.String("case_id", caseID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update case in service", slog.String("error", err.Error()), slog.String("case_id", caseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update case"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.UpdateCaseResponse{
		Case:    dto.ToCaseResponse(record, rec),
		Changes: dto.ToChangeResponses(changes),
	})
}

// deleteCase godoc
// @Summary Delete a lab case
// @Description Removes the case; its audit history and deletion sentinel remain
// @Tags cases
// @Produce json
// @Param caseID path string true "Case ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 500 {object} map[string]string "Failed to delete case"
// @Router /cases/{caseID} [delete]
func (h *caseHandler) deleteCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.caseService.DeleteCase(c.Request.Context(), caseID, actor); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		logger.Error("Failed to delete case in service", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete case"})
		return
	}

	c.Status(http.StatusNoContent)
}

// previewReconciliation godoc
// @Summary Preview payment reconciliation
// @Description Pure reconciliation pass over a proposed payment state; persists nothing
// @Tags cases
// @Accept json
// @Produce json
// @Param preview body dto.ReconcilePreviewRequest true "Proposed payment state"
// @Success 200 {object} reconciliation.Result
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /cases/reconcile [post]
func (h *caseHandler) previewReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReconcilePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug("Failed to bind JSON for previewReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	c.JSON(http.StatusOK, h.caseService.PreviewReconciliation(req))
}

// parseLimitQuery reads the optional limit query parameter, returning 0 when it
// is absent or malformed so the service falls back to its default page size.
func parseLimitQuery(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
