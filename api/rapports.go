package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// RapportAPI expose le téléchargement des documents générés
type RapportAPI struct {
	Rapports *services.RapportService
}

// NewRapportAPI crée un nouvel exemplaire de RapportAPI
func NewRapportAPI(rapports *services.RapportService) *RapportAPI {
	return &RapportAPI{Rapports: rapports}
}

// GetRapportMaintenancePDF GET /api/rapports/maintenance/:id/pdf
func (h *RapportAPI) GetRapportMaintenancePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	chemin, err := h.Rapports.GenererRapportMaintenancePDF(id)
	if err != nil {
		repondreErreur(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(chemin))
	c.Header("Content-Type", "application/pdf")
	c.File(chemin)
}

// GetExportKPIExcel GET /api/rapports/kpi/excel
func (h *RapportAPI) GetExportKPIExcel(c *gin.Context) {
	chemin, err := h.Rapports.GenererExportKPIExcel()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(chemin))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(chemin)
}
