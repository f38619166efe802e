package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// InspectionAPI expose les inspections planifiées et leurs types
type InspectionAPI struct {
	DB            *gorm.DB
	Notifications *services.NotificationService
	Cache         *services.CacheService
}

// NewInspectionAPI crée un nouvel exemplaire de InspectionAPI
func NewInspectionAPI(db *gorm.DB, notifications *services.NotificationService, cache *services.CacheService) *InspectionAPI {
	return &InspectionAPI{DB: db, Notifications: notifications, Cache: cache}
}

// --- Types d'inspection ---

// GetTypesInspection GET /api/types-inspection
func (i *InspectionAPI) GetTypesInspection(c *gin.Context) {
	var types []models.TypeInspection
	if err := i.DB.Order("nom").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": types})
}

// CreateTypeInspection POST /api/types-inspection
func (i *InspectionAPI) CreateTypeInspection(c *gin.Context) {
	var typeInspection models.TypeInspection
	if err := c.ShouldBindJSON(&typeInspection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if typeInspection.Nom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le nom du type d'inspection est obligatoire"})
		return
	}

	if err := i.DB.Create(&typeInspection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": typeInspection})
}

// --- Inspections ---

// GetInspections GET /api/inspections — liste paginée avec filtres
func (i *InspectionAPI) GetInspections(c *gin.Context) {
	page, limit := parsePagination(c)

	query := i.DB.Model(&models.Inspection{})
	if actifID := c.Query("actifId"); actifID != "" {
		query = query.Where("actif_id = ?", actifID)
	}
	if resultat := c.Query("resultat"); resultat != "" {
		query = query.Where("resultat = ?", resultat)
	}
	if typeID := c.Query("typeInspectionId"); typeID != "" {
		query = query.Where("type_inspection_id = ?", typeID)
	}
	// aRealiser=true restreint aux inspections non encore effectuées
	if c.Query("aRealiser") == "true" {
		query = query.Where("date_realisation IS NULL")
	}

	var total int64
	query.Count(&total)

	var inspections []models.Inspection
	err := query.
		Preload("Actif").
		Preload("TypeInspection").
		Order("date_planifiee ASC NULLS LAST").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&inspections).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items":       inspections,
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": calculerTotalPages(total, limit),
		},
	})
}

// GetInspection GET /api/inspections/:id
func (i *InspectionAPI) GetInspection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var inspection models.Inspection
	err := i.DB.
		Preload("Actif").
		Preload("TypeInspection").
		Preload("Anomalies").
		First(&inspection, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Inspection introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": inspection})
}

// CreateInspection POST /api/inspections — planification d'une inspection
func (i *InspectionAPI) CreateInspection(c *gin.Context) {
	var requete struct {
		Titre            string `json:"titre"`
		ActifID          uint   `json:"actifId"`
		TypeInspectionID uint   `json:"typeInspectionId"`
		DatePlanifiee    string `json:"datePlanifiee"`
		Inspecteur       string `json:"inspecteur"`
		Observations     string `json:"observations"`
	}
	if err := c.ShouldBindJSON(&requete); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if requete.ActifID == 0 || requete.TypeInspectionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "L'actif et le type d'inspection sont obligatoires"})
		return
	}

	var actif models.Actif
	if err := i.DB.First(&actif, requete.ActifID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Actif référencé introuvable"})
		return
	}
	var typeInspection models.TypeInspection
	if err := i.DB.First(&typeInspection, requete.TypeInspectionID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Type d'inspection référencé introuvable"})
		return
	}

	inspection := models.Inspection{
		Titre:            requete.Titre,
		ActifID:          requete.ActifID,
		TypeInspectionID: requete.TypeInspectionID,
		Inspecteur:       requete.Inspecteur,
		Observations:     requete.Observations,
		Resultat:         models.ResultatInspectionEnAttente,
	}
	if inspection.Titre == "" {
		inspection.Titre = typeInspection.Nom + " — " + actif.Nom
	}
	if requete.DatePlanifiee != "" {
		date, err := services.ParseDateISO(requete.DatePlanifiee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Format de datePlanifiee invalide"})
			return
		}
		inspection.DatePlanifiee = date
	}

	if err := i.DB.Create(&inspection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": inspection})
}

// anomalieDetectee décrit une anomalie relevée lors de la réalisation
// d'une inspection
type anomalieDetectee struct {
	Titre        string `json:"titre" binding:"required"`
	Description  string `json:"description"`
	Priorite     string `json:"priorite"`
	TypeAnomalie string `json:"typeAnomalie"`
	RapportePar  string `json:"rapportePar"`
}

// RealiserInspection PUT /api/inspections/:id/realiser
//
// Enregistre le résultat de l'inspection et crée les anomalies détectées,
// le tout dans une même transaction.
func (i *InspectionAPI) RealiserInspection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var requete struct {
		Resultat        string             `json:"resultat" binding:"required"`
		Observations    string             `json:"observations"`
		DateRealisation string             `json:"dateRealisation"`
		Inspecteur      string             `json:"inspecteur"`
		Anomalies       []anomalieDetectee `json:"anomalies"`
	}
	if err := c.ShouldBindJSON(&requete); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if requete.Resultat != models.ResultatInspectionConforme && requete.Resultat != models.ResultatInspectionNonConforme {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Résultat invalide : attendu 'conforme' ou 'non_conforme'"})
		return
	}

	dateRealisation := time.Now()
	if requete.DateRealisation != "" {
		date, err := services.ParseDateISO(requete.DateRealisation)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Format de dateRealisation invalide"})
			return
		}
		dateRealisation = *date
	}

	var inspection models.Inspection
	var creees []models.Anomalie

	err := i.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inspection, id).Error; err != nil {
			return services.Introuvable("inspection %d introuvable", id)
		}
		if inspection.EstRealisee() {
			return services.Conflit("l'inspection %d a déjà été réalisée", id)
		}

		inspection.Resultat = requete.Resultat
		inspection.DateRealisation = &dateRealisation
		if requete.Observations != "" {
			inspection.Observations = requete.Observations
		}
		if requete.Inspecteur != "" {
			inspection.Inspecteur = requete.Inspecteur
		}
		if err := tx.Save(&inspection).Error; err != nil {
			return err
		}

		for _, detectee := range requete.Anomalies {
			anomalie := models.Anomalie{
				Titre:        detectee.Titre,
				Description:  detectee.Description,
				Priorite:     detectee.Priorite,
				TypeAnomalie: detectee.TypeAnomalie,
				RapportePar:  detectee.RapportePar,
				Statut:       models.StatutAnomalieNouvelle,
				ActifID:      &inspection.ActifID,
				InspectionID: &inspection.ID,
			}
			if anomalie.Priorite == "" {
				anomalie.Priorite = models.PrioriteAnomalieMoyenne
			}
			if anomalie.TypeAnomalie == "" {
				anomalie.TypeAnomalie = models.TypeAnomalieAutre
			}
			if anomalie.RapportePar == "" {
				anomalie.RapportePar = inspection.Inspecteur
			}
			if err := tx.Create(&anomalie).Error; err != nil {
				return err
			}
			creees = append(creees, anomalie)
		}
		return nil
	})
	if err != nil {
		repondreErreur(c, err)
		return
	}

	// Notifications hors transaction
	for _, anomalie := range creees {
		if anomalie.Priorite == models.PrioriteAnomalieCritique && i.Notifications != nil {
			a := anomalie
			go i.Notifications.NotifierAnomalieCritique(&a)
		}
	}
	if len(creees) > 0 && i.Cache != nil {
		i.Cache.InvaliderCarte()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"inspection":      inspection,
			"anomaliesCreees": creees,
			"nombreAnomalies": len(creees),
		},
	})
}

// DeleteInspection DELETE /api/inspections/:id — refusé si des anomalies
// y sont liées
func (i *InspectionAPI) DeleteInspection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var anomalies int64
	i.DB.Model(&models.Anomalie{}).Where("inspection_id = ?", id).Count(&anomalies)
	if anomalies > 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Des anomalies sont rattachées à cette inspection"})
		return
	}

	resultat := i.DB.Delete(&models.Inspection{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Inspection introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Inspection supprimée"})
}
