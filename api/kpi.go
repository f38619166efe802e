package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// KPIAPI expose les indicateurs agrégés du tableau de bord
type KPIAPI struct {
	KPI *services.KPIService
}

// NewKPIAPI crée un nouvel exemplaire de KPIAPI
func NewKPIAPI(kpi *services.KPIService) *KPIAPI {
	return &KPIAPI{KPI: kpi}
}

// GetDashboard GET /api/kpi/dashboard
func (h *KPIAPI) GetDashboard(c *gin.Context) {
	stats, err := h.KPI.GetStatistiquesDashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}

// GetStatistiquesActif GET /api/kpi/actifs/:id
func (h *KPIAPI) GetStatistiquesActif(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats, err := h.KPI.GetStatistiquesActif(id)
	if err != nil {
		repondreErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}
