package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// CarteAPI expose les projections cartographiques et les annotations
// (points et zones) dessinées par les utilisateurs
type CarteAPI struct {
	DB    *gorm.DB
	Carte *services.CarteService
}

// NewCarteAPI crée un nouvel exemplaire de CarteAPI
func NewCarteAPI(db *gorm.DB, carte *services.CarteService) *CarteAPI {
	return &CarteAPI{DB: db, Carte: carte}
}

// GetActifsCarte GET /api/carte/actifs
func (h *CarteAPI) GetActifsCarte(c *gin.Context) {
	actifs, err := h.Carte.GetActifsCarte()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": actifs})
}

// GetAnomaliesCarte GET /api/carte/anomalies
func (h *CarteAPI) GetAnomaliesCarte(c *gin.Context) {
	anomalies, err := h.Carte.GetAnomaliesCarte()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": anomalies})
}

// --- Points ---

// GetPoints GET /api/carte/points
func (h *CarteAPI) GetPoints(c *gin.Context) {
	var points []models.Point
	if err := h.DB.Find(&points).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": points})
}

// CreatePoint POST /api/carte/points
func (h *CarteAPI) CreatePoint(c *gin.Context) {
	var point models.Point
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if point.Latitude < -90 || point.Latitude > 90 || point.Longitude < -180 || point.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Coordonnées hors limites"})
		return
	}

	if err := h.DB.Create(&point).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": point})
}

// DeletePoint DELETE /api/carte/points/:id
func (h *CarteAPI) DeletePoint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resultat := h.DB.Delete(&models.Point{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Point introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Point supprimé"})
}

// --- Zones ---

// GetZones GET /api/carte/zones
func (h *CarteAPI) GetZones(c *gin.Context) {
	var zones []models.Zone
	if err := h.DB.Find(&zones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": zones})
}

// CreateZone POST /api/carte/zones
func (h *CarteAPI) CreateZone(c *gin.Context) {
	var zone models.Zone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if zone.Geometrie == "" || !json.Valid([]byte(zone.Geometrie)) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "La géométrie doit être un GeoJSON valide"})
		return
	}

	if err := h.DB.Create(&zone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": zone})
}

// DeleteZone DELETE /api/carte/zones/:id
func (h *CarteAPI) DeleteZone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resultat := h.DB.Delete(&models.Zone{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Zone introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Zone supprimée"})
}
