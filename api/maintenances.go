package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// MaintenanceAPI expose la consultation et la gestion descriptive des
// maintenances. Les transitions d'état (démarrage, clôture) passent
// exclusivement par les routes workflow.
type MaintenanceAPI struct {
	DB *gorm.DB
}

// NewMaintenanceAPI crée un nouvel exemplaire de MaintenanceAPI
func NewMaintenanceAPI(db *gorm.DB) *MaintenanceAPI {
	return &MaintenanceAPI{DB: db}
}

// GetMaintenances GET /api/maintenances — liste paginée avec filtres
func (m *MaintenanceAPI) GetMaintenances(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")
	typeMaintenance := c.Query("type")
	actifID := c.Query("actifId")

	query := m.DB.Model(&models.Maintenance{}).Preload("Actif").Preload("Anomalie")

	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if typeMaintenance != "" {
		query = query.Where("type_maintenance = ?", typeMaintenance)
	}
	if actifID != "" {
		query = query.Where("actif_id = ?", actifID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de comptage des maintenances : " + err.Error()})
		return
	}

	var maintenances []models.Maintenance
	offset := (page - 1) * limit
	if err := query.Order("date_prevue ASC").Offset(offset).Limit(limit).Find(&maintenances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de lecture des maintenances : " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items":       maintenances,
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetMaintenance GET /api/maintenances/:id
func (m *MaintenanceAPI) GetMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var maintenance models.Maintenance
	err := m.DB.Preload("Actif").Preload("Anomalie").First(&maintenance, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Maintenance introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": maintenance})
}

// CreateMaintenance POST /api/maintenances — maintenance préventive
// planifiée directement (sans anomalie d'origine)
func (m *MaintenanceAPI) CreateMaintenance(c *gin.Context) {
	var maintenance models.Maintenance
	if err := c.ShouldBindJSON(&maintenance); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if maintenance.Titre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le titre de la maintenance est obligatoire"})
		return
	}
	if maintenance.DatePrevue == nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "La date prévue est obligatoire"})
		return
	}

	// La liaison à une anomalie passe exclusivement par le workflow
	maintenance.AnomalieID = nil
	maintenance.Statut = models.StatutMaintenancePlanifiee
	if maintenance.TypeMaintenance == "" {
		maintenance.TypeMaintenance = models.TypeMaintenancePreventive
	}
	if maintenance.TechnicienResponsable == "" {
		maintenance.TechnicienResponsable = models.TechnicienNonAssigne
	}

	if maintenance.ActifID != nil {
		var actif models.Actif
		if err := m.DB.First(&actif, *maintenance.ActifID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Actif référencé introuvable"})
			return
		}
	}

	if err := m.DB.Create(&maintenance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de création de la maintenance : " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": maintenance})
}

// UpdateMaintenance PUT /api/maintenances/:id — champs descriptifs
// uniquement
func (m *MaintenanceAPI) UpdateMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var maintenance models.Maintenance
	if err := m.DB.First(&maintenance, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Maintenance introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	if maintenance.EstTerminale() {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Impossible de modifier une maintenance " + maintenance.Statut})
		return
	}

	var corps struct {
		Titre                 *string `json:"titre"`
		Description           *string `json:"description"`
		DatePrevue            *string `json:"datePrevue"`
		TechnicienResponsable *string `json:"technicienResponsable"`
	}
	if err := c.ShouldBindJSON(&corps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if corps.Titre != nil {
		maintenance.Titre = *corps.Titre
	}
	if corps.Description != nil {
		maintenance.Description = *corps.Description
	}
	if corps.TechnicienResponsable != nil {
		maintenance.TechnicienResponsable = *corps.TechnicienResponsable
	}
	if corps.DatePrevue != nil {
		datePrevue, err := services.ParseDateISO(*corps.DatePrevue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "datePrevue invalide : " + err.Error()})
			return
		}
		maintenance.DatePrevue = datePrevue
	}

	if err := m.DB.Save(&maintenance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de mise à jour de la maintenance : " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": maintenance})
}

// AnnulerMaintenance PUT /api/maintenances/:id/annuler
func (m *MaintenanceAPI) AnnulerMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var maintenance models.Maintenance
	err := m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&maintenance, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return services.Introuvable("maintenance %d introuvable", id)
			}
			return err
		}
		if maintenance.EstTerminale() {
			return services.Conflit("la maintenance %d est déjà %s", id, maintenance.Statut)
		}

		maintenance.Statut = models.StatutMaintenanceAnnulee
		if err := tx.Save(&maintenance).Error; err != nil {
			return err
		}

		// Délie l'anomalie d'origine pour permettre une nouvelle maintenance
		if maintenance.AnomalieID != nil {
			if err := tx.Model(&models.Anomalie{}).
				Where("id = ?", *maintenance.AnomalieID).
				Update("maintenance_id", nil).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": maintenance})
}
