package services

import (
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// CarteService projette la hiérarchie d'actifs et les anomalies en
// enregistrements directement exploitables par la carte du front.
// Projection pure : aucune logique nouvelle, aucune écriture.
type CarteService struct {
	DB    *gorm.DB
	Cache *CacheService
}

// NewCarteService crée un nouvel exemplaire de CarteService
func NewCarteService(db *gorm.DB, cache *CacheService) *CarteService {
	return &CarteService{DB: db, Cache: cache}
}

// ActifCarte est la projection d'un actif pour la carte
type ActifCarte struct {
	ID                 uint    `json:"id"`
	Code               string  `json:"code"`
	Nom                string  `json:"nom"`
	Type               string  `json:"type"`
	StatutOperationnel string  `json:"statutOperationnel"`
	EtatGeneral        string  `json:"etatGeneral"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Groupe             string  `json:"groupe,omitempty"`
	Famille            string  `json:"famille,omitempty"`
	Portefeuille       string  `json:"portefeuille,omitempty"`
	AnomaliesOuvertes  int64   `json:"anomaliesOuvertes"`
	EnAlerte           bool    `json:"enAlerte"`
}

// AnomalieCarte est la projection d'une anomalie géolocalisée
type AnomalieCarte struct {
	ID        uint    `json:"id"`
	Titre     string  `json:"titre"`
	Priorite  string  `json:"priorite"`
	Statut    string  `json:"statut"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ActifID   *uint   `json:"actifId,omitempty"`
	ActifNom  string  `json:"actifNom,omitempty"`
}

// GetActifsCarte retourne tous les actifs géolocalisés avec leur contexte
// hiérarchique et leur nombre d'anomalies ouvertes. Le résultat est mis en
// cache Redis quelques minutes.
func (s *CarteService) GetActifsCarte() ([]ActifCarte, error) {
	if s.Cache != nil {
		var enCache []ActifCarte
		if s.Cache.GetProjection(CleCacheCarteActifs, &enCache) {
			return enCache, nil
		}
	}

	var actifs []models.Actif
	err := s.DB.
		Preload("Groupe").
		Preload("Groupe.Famille").
		Preload("Groupe.Famille.Portefeuille").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&actifs).Error
	if err != nil {
		return nil, err
	}

	// Comptage des anomalies ouvertes par actif en une requête
	type compteur struct {
		ActifID uint
		Total   int64
	}
	var compteurs []compteur
	s.DB.Model(&models.Anomalie{}).
		Select("actif_id, COUNT(*) AS total").
		Where("actif_id IS NOT NULL AND statut IN ?",
			[]string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
		Group("actif_id").
		Scan(&compteurs)

	ouvertes := make(map[uint]int64, len(compteurs))
	for _, c := range compteurs {
		ouvertes[c.ActifID] = c.Total
	}

	projection := make([]ActifCarte, 0, len(actifs))
	for _, a := range actifs {
		ac := ActifCarte{
			ID:                 a.ID,
			Code:               a.Code,
			Nom:                a.Nom,
			Type:               a.Type,
			StatutOperationnel: a.StatutOperationnel,
			EtatGeneral:        a.EtatGeneral,
			Latitude:           *a.Latitude,
			Longitude:          *a.Longitude,
			AnomaliesOuvertes:  ouvertes[a.ID],
			EnAlerte:           a.EstEnAlerte(),
		}
		if a.Groupe != nil {
			ac.Groupe = a.Groupe.Nom
			if a.Groupe.Famille != nil {
				ac.Famille = a.Groupe.Famille.Nom
				if a.Groupe.Famille.Portefeuille != nil {
					ac.Portefeuille = a.Groupe.Famille.Portefeuille.Nom
				}
			}
		}
		projection = append(projection, ac)
	}

	if s.Cache != nil {
		s.Cache.SetProjection(CleCacheCarteActifs, projection)
	}
	return projection, nil
}

// GetAnomaliesCarte retourne les anomalies ouvertes positionnables sur la
// carte : coordonnées propres, ou à défaut celles de l'actif lié
func (s *CarteService) GetAnomaliesCarte() ([]AnomalieCarte, error) {
	if s.Cache != nil {
		var enCache []AnomalieCarte
		if s.Cache.GetProjection(CleCacheCarteAnomalies, &enCache) {
			return enCache, nil
		}
	}

	var anomalies []models.Anomalie
	err := s.DB.Preload("Actif").
		Where("statut IN ?", []string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
		Find(&anomalies).Error
	if err != nil {
		return nil, err
	}

	projection := make([]AnomalieCarte, 0, len(anomalies))
	for _, a := range anomalies {
		lat, lon := a.Latitude, a.Longitude
		if (lat == nil || lon == nil) && a.Actif != nil && a.Actif.APosition() {
			lat, lon = a.Actif.Latitude, a.Actif.Longitude
		}
		if lat == nil || lon == nil {
			continue // non positionnable
		}

		ac := AnomalieCarte{
			ID:        a.ID,
			Titre:     a.Titre,
			Priorite:  a.Priorite,
			Statut:    a.Statut,
			Type:      a.TypeAnomalie,
			Latitude:  *lat,
			Longitude: *lon,
			ActifID:   a.ActifID,
		}
		if a.Actif != nil {
			ac.ActifNom = a.Actif.Nom
		}
		projection = append(projection, ac)
	}

	if s.Cache != nil {
		s.Cache.SetProjection(CleCacheCarteAnomalies, projection)
	}
	return projection, nil
}
