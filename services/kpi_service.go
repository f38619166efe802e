package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// KPIService calcule les statistiques agrégées du tableau de bord.
// Lecture seule : aucun état n'est modifié.
type KPIService struct {
	DB *gorm.DB
}

// NewKPIService crée un nouvel exemplaire de KPIService
func NewKPIService(db *gorm.DB) *KPIService {
	return &KPIService{DB: db}
}

// StatistiquesDashboard regroupe les indicateurs globaux du tableau de bord
type StatistiquesDashboard struct {
	TotalActifs           int64            `json:"totalActifs"`
	ActifsParStatut       map[string]int64 `json:"actifsParStatut"`
	ActifsParEtat         map[string]int64 `json:"actifsParEtat"`
	ActifsEnAlerte        int64            `json:"actifsEnAlerte"`
	TotalAnomalies        int64            `json:"totalAnomalies"`
	AnomaliesOuvertes     int64            `json:"anomaliesOuvertes"`
	AnomaliesParStatut    map[string]int64 `json:"anomaliesParStatut"`
	AnomaliesCritiques    int64            `json:"anomaliesCritiques"`
	TotalMaintenances     int64            `json:"totalMaintenances"`
	MaintenancesParStatut map[string]int64 `json:"maintenancesParStatut"`
	MaintenancesEnRetard  int64            `json:"maintenancesEnRetard"`
	CoutEstimeTotal       decimal.Decimal  `json:"coutEstimeTotal"`
	CoutReelTotal         decimal.Decimal  `json:"coutReelTotal"`
	InspectionsAVenir     int64            `json:"inspectionsAVenir"`
	TauxConformite        float64          `json:"tauxConformite"`
	DerniereMiseAJour     time.Time        `json:"derniereMiseAJour"`
}

// StatistiquesActif regroupe l'historique agrégé d'un actif
type StatistiquesActif struct {
	ActifID              uint            `json:"actifId"`
	NbAnomalies          int64           `json:"nbAnomalies"`
	NbAnomaliesOuvertes  int64           `json:"nbAnomaliesOuvertes"`
	NbMaintenances       int64           `json:"nbMaintenances"`
	NbMaintenancesFaites int64           `json:"nbMaintenancesFaites"`
	NbInspections        int64           `json:"nbInspections"`
	CoutMaintenanceTotal decimal.Decimal `json:"coutMaintenanceTotal"`
	DerniereInspection   *time.Time      `json:"derniereInspection"`
}

// compterParColonne agrège un comptage GROUP BY sur une colonne de statut
func (s *KPIService) compterParColonne(modele interface{}, colonne string) map[string]int64 {
	type ligne struct {
		Valeur string
		Total  int64
	}
	var lignes []ligne
	s.DB.Model(modele).
		Select(colonne + " AS valeur, COUNT(*) AS total").
		Group(colonne).
		Scan(&lignes)

	resultat := make(map[string]int64, len(lignes))
	for _, l := range lignes {
		resultat[l.Valeur] = l.Total
	}
	return resultat
}

// sommerColonne agrège une somme décimale sur une colonne de coût
func (s *KPIService) sommerColonne(modele interface{}, colonne string) decimal.Decimal {
	var somme decimal.NullDecimal
	s.DB.Model(modele).Select("COALESCE(SUM(" + colonne + "), 0)").Scan(&somme)
	if !somme.Valid {
		return decimal.Zero
	}
	return somme.Decimal
}

// GetStatistiquesDashboard calcule les indicateurs globaux
func (s *KPIService) GetStatistiquesDashboard() (*StatistiquesDashboard, error) {
	stats := &StatistiquesDashboard{
		DerniereMiseAJour: time.Now(),
	}

	s.DB.Model(&models.Actif{}).Count(&stats.TotalActifs)
	stats.ActifsParStatut = s.compterParColonne(&models.Actif{}, "statut_operationnel")
	stats.ActifsParEtat = s.compterParColonne(&models.Actif{}, "etat_general")
	s.DB.Model(&models.Actif{}).
		Where("statut_operationnel = ? OR etat_general = ?",
			models.StatutActifAlerte, models.EtatActifCritique).
		Count(&stats.ActifsEnAlerte)

	s.DB.Model(&models.Anomalie{}).Count(&stats.TotalAnomalies)
	stats.AnomaliesParStatut = s.compterParColonne(&models.Anomalie{}, "statut")
	s.DB.Model(&models.Anomalie{}).
		Where("statut IN ?", []string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
		Count(&stats.AnomaliesOuvertes)
	s.DB.Model(&models.Anomalie{}).
		Where("priorite = ? AND statut IN ?", models.PrioriteAnomalieCritique,
			[]string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
		Count(&stats.AnomaliesCritiques)

	s.DB.Model(&models.Maintenance{}).Count(&stats.TotalMaintenances)
	stats.MaintenancesParStatut = s.compterParColonne(&models.Maintenance{}, "statut")
	s.DB.Model(&models.Maintenance{}).
		Where("statut = ? AND date_prevue < ?", models.StatutMaintenancePlanifiee, time.Now()).
		Count(&stats.MaintenancesEnRetard)
	stats.CoutEstimeTotal = s.sommerColonne(&models.Maintenance{}, "cout_estime")
	stats.CoutReelTotal = s.sommerColonne(&models.Maintenance{}, "cout_reel")

	s.DB.Model(&models.Inspection{}).
		Where("date_realisation IS NULL AND date_planifiee >= ?", time.Now()).
		Count(&stats.InspectionsAVenir)

	// Taux de conformité sur les inspections réalisées
	var realisees, conformes int64
	s.DB.Model(&models.Inspection{}).Where("date_realisation IS NOT NULL").Count(&realisees)
	s.DB.Model(&models.Inspection{}).
		Where("resultat = ?", models.ResultatInspectionConforme).
		Count(&conformes)
	if realisees > 0 {
		stats.TauxConformite = float64(conformes) / float64(realisees) * 100
	}

	return stats, nil
}

// GetStatistiquesActif calcule l'historique agrégé d'un actif
func (s *KPIService) GetStatistiquesActif(actifID uint) (*StatistiquesActif, error) {
	var actif models.Actif
	if err := s.DB.First(&actif, actifID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("actif %d introuvable", actifID)
		}
		return nil, err
	}

	stats := &StatistiquesActif{ActifID: actifID}

	s.DB.Model(&models.Anomalie{}).Where("actif_id = ?", actifID).Count(&stats.NbAnomalies)
	s.DB.Model(&models.Anomalie{}).
		Where("actif_id = ? AND statut IN ?", actifID,
			[]string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
		Count(&stats.NbAnomaliesOuvertes)

	s.DB.Model(&models.Maintenance{}).Where("actif_id = ?", actifID).Count(&stats.NbMaintenances)
	s.DB.Model(&models.Maintenance{}).
		Where("actif_id = ? AND statut = ?", actifID, models.StatutMaintenanceTerminee).
		Count(&stats.NbMaintenancesFaites)

	var somme decimal.NullDecimal
	s.DB.Model(&models.Maintenance{}).
		Where("actif_id = ?", actifID).
		Select("COALESCE(SUM(cout_reel), 0)").Scan(&somme)
	if somme.Valid {
		stats.CoutMaintenanceTotal = somme.Decimal
	}

	s.DB.Model(&models.Inspection{}).Where("actif_id = ?", actifID).Count(&stats.NbInspections)

	var derniere models.Inspection
	err := s.DB.Where("actif_id = ? AND date_realisation IS NOT NULL", actifID).
		Order("date_realisation DESC").First(&derniere).Error
	if err == nil {
		stats.DerniereInspection = derniere.DateRealisation
	}

	return stats, nil
}
