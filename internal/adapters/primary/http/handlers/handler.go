package handlers

import (
	ports "ml-artifact-pipeline/internal/core/ports/output"
	"ml-artifact-pipeline/internal/core/services"

	"github.com/gin-gonic/gin"
)

// Handler exposes the read-only inspection API. The ledger is nil when the
// run database is disabled; run endpoints then answer 503.
type Handler struct {
	store         ports.ArtifactStore
	validationSvc *services.ValidationService
	ledger        ports.RunLedger
}

func New(store ports.ArtifactStore, validationSvc *services.ValidationService, ledger ports.RunLedger) *Handler {
	return &Handler{
		store:         store,
		validationSvc: validationSvc,
		ledger:        ledger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Artifacts
	r.GET("/artifacts", h.ListArtifacts)
	r.GET("/artifacts/:class/latest", h.GetLatestArtifact)
	r.GET("/artifacts/:class/versions", h.ListVersions)

	// Validation
	r.GET("/validation/model", h.ValidateModel)
	r.GET("/validation/predictions", h.ValidatePredictions)

	// Pipeline Runs
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
}
