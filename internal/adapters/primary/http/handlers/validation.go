package handlers

import (
	"net/http"

	"ml-artifact-pipeline/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

// Validation endpoints re-run the gate against the current latest artifacts.
// A failing verdict is still a 200; the verdict body carries the outcome.

func (h *Handler) ValidateModel(c *gin.Context) {
	verdict := h.validationSvc.ValidateModel(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToValidationVerdictResponse(verdict))
}

func (h *Handler) ValidatePredictions(c *gin.Context) {
	verdict := h.validationSvc.ValidatePredictions(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToValidationVerdictResponse(verdict))
}
