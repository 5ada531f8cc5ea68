package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kidsflow/internal/catalog"
	"kidsflow/internal/domain"
)

// CatalogHandler expone el clasificador de edades y el catálogo de modos y features.
type CatalogHandler struct {
	logger *zap.Logger
}

func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

// AgeGroups maneja GET /catalog/age-groups.
func (h *CatalogHandler) AgeGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"age_groups": catalog.AgeGroups()})
}

// Classify maneja GET /catalog/classify?age=. Acepta texto libre ("9 years old").
func (h *CatalogHandler) Classify(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("age"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age is required"})
		return
	}
	age, ok := catalog.ParseAge(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age must contain a number"})
		return
	}
	group, ok := catalog.ClassifyAge(age)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "age out of supported range", "age": age})
		return
	}
	c.JSON(http.StatusOK, gin.H{"age": age, "age_group": group})
}

// Modes maneja GET /catalog/modes. Sin age devuelve el catálogo completo; con
// una edad no clasificable las listas quedan vacías.
func (h *CatalogHandler) Modes(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("age"))
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"modes": catalog.InterfaceModes()})
		return
	}
	group, ok := catalog.ParseAgeDescription(raw)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"age_group":     nil,
			"available":     []domain.InterfaceMode{},
			"recommended":   []domain.InterfaceMode{},
			"auto_selected": []domain.ModeID{},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"age_group":     group,
		"available":     catalog.AvailableModes(group.ID),
		"recommended":   catalog.RecommendedModes(group.ID),
		"auto_selected": catalog.AutoSelectedModes(group.ID),
	})
}

// Features maneja GET /catalog/features.
func (h *CatalogHandler) Features(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("age"))
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"features": catalog.ChildFeatures()})
		return
	}
	group, ok := catalog.ParseAgeDescription(raw)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"age_group":   nil,
			"available":   []domain.ChildFeature{},
			"recommended": []domain.ChildFeature{},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"age_group":   group,
		"available":   catalog.AvailableFeatures(group.ID),
		"recommended": catalog.RecommendedFeatures(group.ID),
	})
}

// Validate maneja POST /catalog/validate.
func (h *CatalogHandler) Validate(c *gin.Context) {
	var req struct {
		Age      *int            `json:"age"`
		Modes    []domain.ModeID `json:"modes"`
		Features []string        `json:"features"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid validate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	age := -1
	if req.Age != nil {
		age = *req.Age
	}
	modes := catalog.ValidateModesForAge(req.Modes, age)
	features := catalog.ValidateFeaturesForAge(req.Features, age)
	c.JSON(http.StatusOK, gin.H{
		"valid":    modes.Valid && features.Valid,
		"modes":    modes,
		"features": features,
	})
}
