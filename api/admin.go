package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// AdminAPI expose les opérations d'administration et de diagnostic
type AdminAPI struct {
	Integrite *services.IntegriteService
}

// NewAdminAPI crée un nouvel exemplaire d'AdminAPI
func NewAdminAPI(integrite *services.IntegriteService) *AdminAPI {
	return &AdminAPI{Integrite: integrite}
}

// GetIntegrite GET /api/admin/integrite — rapport de cohérence des liens
// anomalie ↔ maintenance et des références d'actifs
func (h *AdminAPI) GetIntegrite(c *gin.Context) {
	rapport, err := h.Integrite.Verifier()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": rapport})
}
