package handlers

import (
	"net/http"

	"ml-artifact-pipeline/internal/adapters/primary/http/dto"
	"ml-artifact-pipeline/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func classParam(c *gin.Context) (domain.ArtifactClass, bool) {
	class := domain.ArtifactClass(c.Param("class"))
	if !class.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact class: " + c.Param("class")})
		return "", false
	}
	return class, true
}

// ListArtifacts reports the latest version of every class that has one.
func (h *Handler) ListArtifacts(c *gin.Context) {
	items := make([]dto.LatestArtifactResponse, 0, len(domain.AllClasses))
	for _, class := range domain.AllClasses {
		version, _, err := h.store.ReadLatest(c.Request.Context(), class)
		if err != nil {
			continue
		}
		items = append(items, dto.LatestArtifactResponse{
			Class:  string(class),
			Target: dto.ToArtifactVersionResponse(*version),
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) GetLatestArtifact(c *gin.Context) {
	class, ok := classParam(c)
	if !ok {
		return
	}

	version, _, err := h.store.ReadLatest(c.Request.Context(), class)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LatestArtifactResponse{
		Class:  string(class),
		Target: dto.ToArtifactVersionResponse(*version),
	})
}

func (h *Handler) ListVersions(c *gin.Context) {
	class, ok := classParam(c)
	if !ok {
		return
	}

	versions, err := h.store.ListVersions(c.Request.Context(), class)
	if err != nil {
		log.WithError(err).Error("list artifact versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToArtifactVersionResponse(*v))
	}

	c.JSON(http.StatusOK, dto.ListVersionsResponse{
		Class: string(class),
		Items: items,
		Total: len(items),
	})
}
