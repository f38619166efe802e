package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// ActifAPI expose la gestion des actifs portuaires
type ActifAPI struct {
	DB      *gorm.DB
	Service *services.ActifService
}

// NewActifAPI crée un nouvel exemplaire d'ActifAPI
func NewActifAPI(db *gorm.DB, service *services.ActifService) *ActifAPI {
	return &ActifAPI{DB: db, Service: service}
}

// GetActifs GET /api/actifs — liste paginée avec filtres
func (a *ActifAPI) GetActifs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	statut := c.Query("statut")
	etat := c.Query("etat")
	typeActif := c.Query("type")
	groupeID := c.Query("groupeId")
	recherche := c.Query("recherche")

	query := a.DB.Model(&models.Actif{}).Preload("Groupe")

	if statut != "" {
		query = query.Where("statut_operationnel = ?", statut)
	}
	if etat != "" {
		query = query.Where("etat_general = ?", etat)
	}
	if typeActif != "" {
		query = query.Where("type = ?", typeActif)
	}
	if groupeID != "" {
		query = query.Where("groupe_id = ?", groupeID)
	}
	if recherche != "" {
		query = query.Where("nom ILIKE ? OR code ILIKE ?", "%"+recherche+"%", "%"+recherche+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de comptage des actifs : " + err.Error()})
		return
	}

	var actifs []models.Actif
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Find(&actifs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de lecture des actifs : " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items":       actifs,
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetActif GET /api/actifs/:id
func (a *ActifAPI) GetActif(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var actif models.Actif
	err := a.DB.Preload("Groupe").Preload("Anomalies").Preload("Maintenances").Preload("Inspections").
		First(&actif, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Actif introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de lecture de l'actif : " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": actif})
}

// CreateActif POST /api/actifs
func (a *ActifAPI) CreateActif(c *gin.Context) {
	var actif models.Actif
	if err := c.ShouldBindJSON(&actif); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if actif.Nom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le nom de l'actif est obligatoire"})
		return
	}

	if err := a.Service.CreerActif(&actif); err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": actif})
}

// CreateActifCarte POST /api/actifs/carte — création par clic sur la carte
func (a *ActifAPI) CreateActifCarte(c *gin.Context) {
	var donnees services.CreationActifCarte
	if err := c.ShouldBindJSON(&donnees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	actif, err := a.Service.CreerActifDepuisCarte(donnees)
	if err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": actif})
}

// UpdateActif PUT /api/actifs/:id — champs descriptifs et position
// uniquement, le code est immuable et le statut passe par /statut
func (a *ActifAPI) UpdateActif(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var actif models.Actif
	if err := a.DB.First(&actif, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Actif introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		}
		return
	}

	var corps struct {
		Nom               *string  `json:"nom"`
		Type              *string  `json:"type"`
		Description       *string  `json:"description"`
		Fabricant         *string  `json:"fabricant"`
		NumeroSerie       *string  `json:"numeroSerie"`
		DateMiseEnService *string  `json:"dateMiseEnService"`
		Latitude          *float64 `json:"latitude"`
		Longitude         *float64 `json:"longitude"`
		GroupeID          *uint    `json:"groupeId"`
	}
	if err := c.ShouldBindJSON(&corps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	if corps.Nom != nil {
		actif.Nom = *corps.Nom
	}
	if corps.Type != nil {
		actif.Type = *corps.Type
	}
	if corps.Description != nil {
		actif.Description = *corps.Description
	}
	if corps.Fabricant != nil {
		actif.Fabricant = *corps.Fabricant
	}
	if corps.NumeroSerie != nil {
		actif.NumeroSerie = *corps.NumeroSerie
	}
	if corps.DateMiseEnService != nil {
		date, err := services.ParseDateISO(*corps.DateMiseEnService)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Format de dateMiseEnService invalide"})
			return
		}
		actif.DateMiseEnService = date
	}

	positionModifiee := corps.Latitude != nil || corps.Longitude != nil
	if corps.Latitude != nil {
		actif.Latitude = corps.Latitude
	}
	if corps.Longitude != nil {
		actif.Longitude = corps.Longitude
	}

	if corps.GroupeID != nil {
		var groupe models.GroupeActif
		if err := a.DB.First(&groupe, *corps.GroupeID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Groupe référencé introuvable"})
			return
		}
		actif.GroupeID = corps.GroupeID
	}

	if err := a.DB.Save(&actif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de mise à jour de l'actif : " + err.Error()})
		return
	}

	if positionModifiee && a.Service != nil && a.Service.Cache != nil {
		a.Service.Cache.InvaliderCarte()
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": actif})
}

// UpdateStatutActif PUT /api/actifs/:id/statut
func (a *ActifAPI) UpdateStatutActif(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var corps struct {
		StatutOperationnel string `json:"statutOperationnel"`
		EtatGeneral        string `json:"etatGeneral"`
	}
	if err := c.ShouldBindJSON(&corps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}

	actif, err := a.Service.MettreAJourStatut(id, corps.StatutOperationnel, corps.EtatGeneral)
	if err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": actif})
}

// DeleteActif DELETE /api/actifs/:id — refusé tant que des anomalies
// ouvertes ou maintenances actives existent
func (a *ActifAPI) DeleteActif(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := a.Service.SupprimerActif(id); err != nil {
		repondreErreur(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Actif supprimé"})
}
