package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// ActifService porte la logique métier des actifs : génération de code,
// création depuis la carte, mise à jour de statut et politique de
// suppression.
type ActifService struct {
	DB    *gorm.DB
	Cache *CacheService
}

// NewActifService crée un nouvel exemplaire d'ActifService
func NewActifService(db *gorm.DB, cache *CacheService) *ActifService {
	return &ActifService{DB: db, Cache: cache}
}

// CreationActifCarte porte les données d'une création d'actif par clic
// sur la carte
type CreationActifCarte struct {
	Nom       string  `json:"nom" binding:"required"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	GroupeID  *uint   `json:"groupeId"`
}

// CreerActif crée un actif en générant un code unique si absent
func (s *ActifService) CreerActif(actif *models.Actif) error {
	if actif.Code == "" {
		actif.Code = GenererCodeActif(actif.Type)
	}

	if actif.GroupeID != nil {
		var groupe models.GroupeActif
		if err := s.DB.First(&groupe, *actif.GroupeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Introuvable("groupe %d introuvable", *actif.GroupeID)
			}
			return err
		}
	}

	if err := s.DB.Create(actif).Error; err != nil {
		return fmt.Errorf("erreur lors de la création de l'actif : %w", err)
	}
	if s.Cache != nil {
		s.Cache.InvaliderCarte()
	}
	return nil
}

// CreerActifDepuisCarte crée un actif à partir d'un clic sur la carte
func (s *ActifService) CreerActifDepuisCarte(donnees CreationActifCarte) (*models.Actif, error) {
	actif := &models.Actif{
		Nom:                donnees.Nom,
		Type:               donnees.Type,
		Latitude:           &donnees.Latitude,
		Longitude:          &donnees.Longitude,
		GroupeID:           donnees.GroupeID,
		StatutOperationnel: models.StatutActifOperationnel,
		EtatGeneral:        models.EtatActifBon,
	}
	if err := s.CreerActif(actif); err != nil {
		return nil, err
	}
	return actif, nil
}

// MettreAJourStatut change le statut opérationnel et/ou l'état général
// d'un actif
func (s *ActifService) MettreAJourStatut(id uint, statutOperationnel, etatGeneral string) (*models.Actif, error) {
	var actif models.Actif
	if err := s.DB.First(&actif, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("actif %d introuvable", id)
		}
		return nil, err
	}

	if statutOperationnel != "" {
		if !statutActifValide(statutOperationnel) {
			return nil, Invalide("statut opérationnel inconnu : %q", statutOperationnel)
		}
		actif.StatutOperationnel = statutOperationnel
	}
	if etatGeneral != "" {
		if !etatActifValide(etatGeneral) {
			return nil, Invalide("état général inconnu : %q", etatGeneral)
		}
		actif.EtatGeneral = etatGeneral
	}

	if err := s.DB.Save(&actif).Error; err != nil {
		return nil, fmt.Errorf("erreur lors de la mise à jour du statut : %w", err)
	}
	if s.Cache != nil {
		s.Cache.InvaliderCarte()
	}
	return &actif, nil
}

// SupprimerActif supprime (soft delete) un actif. La suppression est
// refusée tant que l'actif porte des anomalies ouvertes ou des maintenances
// non terminées ; les enregistrements satellites clos sont orphelinés
// (clé étrangère mise à null), jamais supprimés en cascade.
func (s *ActifService) SupprimerActif(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var actif models.Actif
		if err := tx.First(&actif, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Introuvable("actif %d introuvable", id)
			}
			return err
		}

		var anomaliesOuvertes int64
		tx.Model(&models.Anomalie{}).
			Where("actif_id = ? AND statut IN ?", id,
				[]string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
			Count(&anomaliesOuvertes)
		if anomaliesOuvertes > 0 {
			return Conflit("l'actif %d porte %d anomalie(s) ouverte(s)", id, anomaliesOuvertes)
		}

		var maintenancesActives int64
		tx.Model(&models.Maintenance{}).
			Where("actif_id = ? AND statut IN ?", id,
				[]string{models.StatutMaintenancePlanifiee, models.StatutMaintenanceEnCours}).
			Count(&maintenancesActives)
		if maintenancesActives > 0 {
			return Conflit("l'actif %d porte %d maintenance(s) active(s)", id, maintenancesActives)
		}

		// Orpheline les satellites clos avant le soft delete
		if err := tx.Model(&models.Anomalie{}).Where("actif_id = ?", id).
			Update("actif_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Maintenance{}).Where("actif_id = ?", id).
			Update("actif_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Delete(&actif).Error; err != nil {
			return fmt.Errorf("erreur lors de la suppression de l'actif : %w", err)
		}
		if s.Cache != nil {
			s.Cache.InvaliderCarte()
		}
		return nil
	})
}

// GenererCodeActif fabrique un code unique de la forme TYPE-XXXXXXXX
func GenererCodeActif(typeActif string) string {
	prefixe := "ACT"
	if typeActif != "" {
		prefixe = strings.ToUpper(typeActif)
		if len(prefixe) > 3 {
			prefixe = prefixe[:3]
		}
	}
	suffixe := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s", prefixe, suffixe)
}

func statutActifValide(statut string) bool {
	switch statut {
	case models.StatutActifOperationnel, models.StatutActifHorsService,
		models.StatutActifEnMaintenance, models.StatutActifAlerte:
		return true
	}
	return false
}

func etatActifValide(etat string) bool {
	switch etat {
	case models.EtatActifBon, models.EtatActifMoyen,
		models.EtatActifMauvais, models.EtatActifCritique:
		return true
	}
	return false
}
