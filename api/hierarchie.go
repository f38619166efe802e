package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// HierarchieAPI expose la gestion de la hiérarchie organisationnelle
// Portefeuille → Famille → Groupe
type HierarchieAPI struct {
	DB *gorm.DB
}

// NewHierarchieAPI crée un nouvel exemplaire de HierarchieAPI
func NewHierarchieAPI(db *gorm.DB) *HierarchieAPI {
	return &HierarchieAPI{DB: db}
}

// GetHierarchie GET /api/hierarchie — arbre complet avec les actifs
func (h *HierarchieAPI) GetHierarchie(c *gin.Context) {
	var portefeuilles []models.Portefeuille
	err := h.DB.
		Preload("Familles").
		Preload("Familles.Groupes").
		Preload("Familles.Groupes.Actifs").
		Find(&portefeuilles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur de lecture de la hiérarchie : " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": portefeuilles})
}

// --- Portefeuilles ---

// GetPortefeuilles GET /api/portefeuilles
func (h *HierarchieAPI) GetPortefeuilles(c *gin.Context) {
	var portefeuilles []models.Portefeuille
	if err := h.DB.Preload("Familles").Find(&portefeuilles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": portefeuilles})
}

// CreatePortefeuille POST /api/portefeuilles
func (h *HierarchieAPI) CreatePortefeuille(c *gin.Context) {
	var portefeuille models.Portefeuille
	if err := c.ShouldBindJSON(&portefeuille); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if portefeuille.Nom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le nom du portefeuille est obligatoire"})
		return
	}

	if err := h.DB.Create(&portefeuille).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": portefeuille})
}

// DeletePortefeuille DELETE /api/portefeuilles/:id — refusé si des familles
// y sont rattachées
func (h *HierarchieAPI) DeletePortefeuille(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var familles int64
	h.DB.Model(&models.FamilleActif{}).Where("portefeuille_id = ?", id).Count(&familles)
	if familles > 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Le portefeuille contient encore des familles"})
		return
	}

	resultat := h.DB.Delete(&models.Portefeuille{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Portefeuille introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Portefeuille supprimé"})
}

// --- Familles ---

// GetFamilles GET /api/familles
func (h *HierarchieAPI) GetFamilles(c *gin.Context) {
	query := h.DB.Preload("Groupes")
	if portefeuilleID := c.Query("portefeuilleId"); portefeuilleID != "" {
		query = query.Where("portefeuille_id = ?", portefeuilleID)
	}

	var familles []models.FamilleActif
	if err := query.Find(&familles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": familles})
}

// CreateFamille POST /api/familles
func (h *HierarchieAPI) CreateFamille(c *gin.Context) {
	var famille models.FamilleActif
	if err := c.ShouldBindJSON(&famille); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if famille.Nom == "" || famille.PortefeuilleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le nom et le portefeuille sont obligatoires"})
		return
	}

	var portefeuille models.Portefeuille
	if err := h.DB.First(&portefeuille, famille.PortefeuilleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Portefeuille référencé introuvable"})
		return
	}

	if err := h.DB.Create(&famille).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": famille})
}

// DeleteFamille DELETE /api/familles/:id — refusé si des groupes y sont
// rattachés
func (h *HierarchieAPI) DeleteFamille(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var groupes int64
	h.DB.Model(&models.GroupeActif{}).Where("famille_id = ?", id).Count(&groupes)
	if groupes > 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "La famille contient encore des groupes"})
		return
	}

	resultat := h.DB.Delete(&models.FamilleActif{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Famille introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Famille supprimée"})
}

// --- Groupes ---

// GetGroupes GET /api/groupes
func (h *HierarchieAPI) GetGroupes(c *gin.Context) {
	query := h.DB.Preload("Actifs")
	if familleID := c.Query("familleId"); familleID != "" {
		query = query.Where("famille_id = ?", familleID)
	}

	var groupes []models.GroupeActif
	if err := query.Find(&groupes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": groupes})
}

// CreateGroupe POST /api/groupes
func (h *HierarchieAPI) CreateGroupe(c *gin.Context) {
	var groupe models.GroupeActif
	if err := c.ShouldBindJSON(&groupe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Données invalides : " + err.Error()})
		return
	}
	if groupe.Nom == "" || groupe.FamilleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Le nom et la famille sont obligatoires"})
		return
	}

	var famille models.FamilleActif
	if err := h.DB.First(&famille, groupe.FamilleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Famille référencée introuvable"})
		return
	}

	if err := h.DB.Create(&groupe).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": groupe})
}

// DeleteGroupe DELETE /api/groupes/:id — refusé si des actifs y sont
// rattachés
func (h *HierarchieAPI) DeleteGroupe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var actifs int64
	h.DB.Model(&models.Actif{}).Where("groupe_id = ?", id).Count(&actifs)
	if actifs > 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Le groupe contient encore des actifs"})
		return
	}

	resultat := h.DB.Delete(&models.GroupeActif{}, id)
	if resultat.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": resultat.Error.Error()})
		return
	}
	if resultat.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Groupe introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Groupe supprimé"})
}
