package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// IntegriteService détecte les incohérences de liaison entre anomalies et
// maintenances : liens unilatéraux, références vers des enregistrements
// disparus. Lecture seule : le rapport liste les anomalies constatées sans
// les corriger.
type IntegriteService struct {
	DB *gorm.DB
}

// NewIntegriteService crée un nouvel exemplaire d'IntegriteService
func NewIntegriteService(db *gorm.DB) *IntegriteService {
	return &IntegriteService{DB: db}
}

// Incoherence décrit un défaut de cohérence constaté
type Incoherence struct {
	Categorie   string `json:"categorie"`
	EntiteType  string `json:"entiteType"`
	EntiteID    uint   `json:"entiteId"`
	Description string `json:"description"`
}

// RapportIntegrite est le résultat d'une vérification complète
type RapportIntegrite struct {
	Incoherences []Incoherence `json:"incoherences"`
	VerifieLe    time.Time     `json:"verifieLe"`
}

// Verifier parcourt les liens Anomalie ↔ Maintenance et les clés étrangères
// vers les actifs, et rapporte toutes les incohérences trouvées
func (s *IntegriteService) Verifier() (*RapportIntegrite, error) {
	rapport := &RapportIntegrite{
		Incoherences: []Incoherence{},
		VerifieLe:    time.Now(),
	}

	// Anomalies pointant vers une maintenance inexistante ou dont la
	// maintenance ne pointe pas en retour
	var anomalies []models.Anomalie
	if err := s.DB.Where("maintenance_id IS NOT NULL").Find(&anomalies).Error; err != nil {
		return nil, err
	}
	for _, a := range anomalies {
		var m models.Maintenance
		err := s.DB.First(&m, *a.MaintenanceID).Error
		if err == gorm.ErrRecordNotFound {
			rapport.Incoherences = append(rapport.Incoherences, Incoherence{
				Categorie:   "lien_orphelin",
				EntiteType:  "anomalie",
				EntiteID:    a.ID,
				Description: "référence une maintenance inexistante",
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		if m.AnomalieID == nil || *m.AnomalieID != a.ID {
			rapport.Incoherences = append(rapport.Incoherences, Incoherence{
				Categorie:   "lien_unilateral",
				EntiteType:  "anomalie",
				EntiteID:    a.ID,
				Description: "la maintenance liée ne référence pas cette anomalie en retour",
			})
		}
	}

	// Maintenances pointant vers une anomalie inexistante ou non liée en retour
	var maintenances []models.Maintenance
	if err := s.DB.Where("anomalie_id IS NOT NULL").Find(&maintenances).Error; err != nil {
		return nil, err
	}
	for _, m := range maintenances {
		var a models.Anomalie
		err := s.DB.First(&a, *m.AnomalieID).Error
		if err == gorm.ErrRecordNotFound {
			rapport.Incoherences = append(rapport.Incoherences, Incoherence{
				Categorie:   "lien_orphelin",
				EntiteType:  "maintenance",
				EntiteID:    m.ID,
				Description: "référence une anomalie inexistante",
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		if a.MaintenanceID == nil || *a.MaintenanceID != m.ID {
			rapport.Incoherences = append(rapport.Incoherences, Incoherence{
				Categorie:   "lien_unilateral",
				EntiteType:  "maintenance",
				EntiteID:    m.ID,
				Description: "l'anomalie liée ne référence pas cette maintenance en retour",
			})
		}
	}

	// Satellites pointant vers un actif supprimé
	type ref struct {
		ID      uint
		ActifID *uint
	}
	verifierActifs := func(table, entite string) error {
		var refs []ref
		if err := s.DB.Table(table).
			Select("id, actif_id").
			Where("actif_id IS NOT NULL AND deleted_at IS NULL").
			Scan(&refs).Error; err != nil {
			return err
		}
		for _, r := range refs {
			var compte int64
			s.DB.Model(&models.Actif{}).Where("id = ?", *r.ActifID).Count(&compte)
			if compte == 0 {
				rapport.Incoherences = append(rapport.Incoherences, Incoherence{
					Categorie:   "actif_disparu",
					EntiteType:  entite,
					EntiteID:    r.ID,
					Description: "référence un actif supprimé",
				})
			}
		}
		return nil
	}
	if err := verifierActifs("anomalies", "anomalie"); err != nil {
		return nil, err
	}
	if err := verifierActifs("maintenances", "maintenance"); err != nil {
		return nil, err
	}

	return rapport, nil
}
