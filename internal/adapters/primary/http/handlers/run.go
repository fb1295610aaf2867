package handlers

import (
	"net/http"
	"strconv"

	"ml-artifact-pipeline/internal/adapters/primary/http/dto"
	ports "ml-artifact-pipeline/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListRuns(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run ledger disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	runs, total, err := h.ledger.ListRuns(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list pipeline runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PipelineRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.ToPipelineRunResponse(run))
	}

	c.JSON(http.StatusOK, dto.ListRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run ledger disabled"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.ledger.GetRun(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineRunResponse(run))
}
