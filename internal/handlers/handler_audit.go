package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
	"github.com/caselab/lab_case_app/internal/dto"
	"github.com/caselab/lab_case_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler handles HTTP requests for a case's audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// listHistory godoc
// @Summary Get a case's audit trail
// @Description Retrieves the case's change history oldest-first, including
// @Description creation and deletion sentinels. History survives case deletion.
// @Tags audit
// @Produce json
// @Param caseID path string true "Case ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListAuditLogResponse
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Router /cases/{caseID}/audit [get]
func (h *auditHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caseID := c.Param("caseID")

	limit := parseLimitQuery(c)
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	entries, token, err := h.auditService.ListHistory(c.Request.Context(), caseID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list audit history", slog.String("error", err.Error()), slog.String("case_id", caseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogResponse(entries, token))
}
