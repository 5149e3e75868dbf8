package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
)

// AnalyzerHandler exposes skill-gap analysis and roadmap generation
type AnalyzerHandler struct {
	analyzer *services.AnalyzerService
	roadmaps *services.RoadmapService
}

func NewAnalyzerHandler(analyzer *services.AnalyzerService, roadmaps *services.RoadmapService) *AnalyzerHandler {
	return &AnalyzerHandler{analyzer: analyzer, roadmaps: roadmaps}
}

func (h *AnalyzerHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Analyze(&req))
}

func (h *AnalyzerHandler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": h.analyzer.KnownRoles()})
}

func (h *AnalyzerHandler) GenerateRoadmap(c *gin.Context) {
	var req models.RoadmapRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	c.JSON(http.StatusOK, h.roadmaps.Generate(&req))
}
