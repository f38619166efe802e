package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// AnomalieAPI expose la gestion des anomalies. Les transitions d'état
// passent par le WorkflowService, jamais par une écriture directe.
type AnomalieAPI struct {
	DB            *gorm.DB
	Workflow      *services.WorkflowService
	Notifications *services.NotificationService
	Cache         *services.CacheService
}

// NewAnomalieAPI crée un nouvel exemplaire d'AnomalieAPI
func NewAnomalieAPI(db *gorm.DB, workflow *services.WorkflowService, notifications *services.NotificationService, cache *services.CacheService) *AnomalieAPI {
	return &AnomalieAPI{DB: db, Workflow: workflow, Notifications: notifications, Cache: cache}
}

// GetAnomalies GET /api/anomalies — liste paginée avec filtres
func (a *AnomalieAPI) GetAnomalies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")
	priorite := c.Query("priorite")
	typeAnomalie := c.Query("type")
	actifID := c.Query("actifId")

	query := a.DB.Model(&models.Anomalie{}).Preload("Actif").Preload("Maintenance")

	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if priorite != "" {
		query = query.Where("priorite = ?", priorite)
	}
	if typeAnomalie != "" {
		query = query.Where("type_anomalie = ?", typeAnomalie)
	}
	if actifID != "" {
		query = query.Where("actif_id = ?", actifID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de comptage des anomalies : " + err.Error()})
		return
	}

	var anomalies []models.Anomalie
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&anomalies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de lecture des anomalies : " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items":       anomalies,
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetAnomalie GET /api/anomalies/:id
func (a *AnomalieAPI) GetAnomalie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var anomalie models.Anomalie
	err := a.DB.Preload("Actif").Preload("Maintenance").Preload("Inspection").First(&anomalie, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Anomalie introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": anomalie})
}

// CreateAnomalie POST /api/anomalies
func (a *AnomalieAPI) CreateAnomalie(c *gin.Context) {
	var anomalie models.Anomalie
	if err := c.ShouldBindJSON(&anomalie); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if anomalie.Titre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le titre de l'anomalie est obligatoire"})
		return
	}

	// Les champs de cycle de vie ne sont pas pilotables à la création
	anomalie.Statut = models.StatutAnomalieNouvelle
	anomalie.MaintenanceID = nil
	anomalie.DateResolution = nil

	if anomalie.ActifID != nil {
		var actif models.Actif
		if err := a.DB.First(&actif, *anomalie.ActifID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Actif référencé introuvable"})
			return
		}
	}

	if err := a.DB.Create(&anomalie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de création de l'anomalie : " + err.Error()})
		return
	}

	if a.Cache != nil {
		a.Cache.InvaliderCarte()
	}
	if a.Notifications != nil && anomalie.Priorite == models.PrioriteAnomalieCritique {
		go a.Notifications.NotifierAnomalieCritique(&anomalie)
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": anomalie})
}

// UpdateAnomalie PUT /api/anomalies/:id — champs descriptifs uniquement,
// le statut et les liens restent sous le contrôle du workflow
func (a *AnomalieAPI) UpdateAnomalie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var anomalie models.Anomalie
	if err := a.DB.First(&anomalie, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Anomalie introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	var corps struct {
		Titre        *string  `json:"titre"`
		Description  *string  `json:"description"`
		Priorite     *string  `json:"priorite"`
		TypeAnomalie *string  `json:"typeAnomalie"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&corps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if corps.Titre != nil {
		anomalie.Titre = *corps.Titre
	}
	if corps.Description != nil {
		anomalie.Description = *corps.Description
	}
	if corps.Priorite != nil {
		anomalie.Priorite = *corps.Priorite
	}
	if corps.TypeAnomalie != nil {
		anomalie.TypeAnomalie = *corps.TypeAnomalie
	}
	if corps.Latitude != nil {
		anomalie.Latitude = corps.Latitude
	}
	if corps.Longitude != nil {
		anomalie.Longitude = corps.Longitude
	}

	if err := a.DB.Save(&anomalie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de mise à jour de l'anomalie : " + err.Error()})
		return
	}

	if a.Cache != nil {
		a.Cache.InvaliderCarte()
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": anomalie})
}

// PrendreEnCharge PUT /api/anomalies/:id/prendre-en-charge
func (a *AnomalieAPI) PrendreEnCharge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Corps optionnel : {userId?}
	var corps struct {
		UserID string `json:"userId"`
	}
	_ = c.ShouldBindJSON(&corps)

	anomalie, err := a.Workflow.PrendreEnChargeAnomalie(id, corps.UserID)
	if err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": anomalie})
}

// DeleteAnomalie DELETE /api/anomalies/:id — uniquement les anomalies
// sans maintenance liée
func (a *AnomalieAPI) DeleteAnomalie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var anomalie models.Anomalie
	if err := a.DB.First(&anomalie, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Anomalie introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	if anomalie.EstLieeMaintenance() {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Impossible de supprimer une anomalie liée à une maintenance"})
		return
	}

	if err := a.DB.Delete(&anomalie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de suppression de l'anomalie : " + err.Error()})
		return
	}

	if a.Cache != nil {
		a.Cache.InvaliderCarte()
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Anomalie supprimée"})
}
