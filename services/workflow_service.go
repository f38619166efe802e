package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// AssigneParDefaut est l'assignation appliquée lors d'une prise en charge
// sans utilisateur désigné
const AssigneParDefaut = "equipe maintenance"

// WorkflowService arbitre toutes les transitions d'état des anomalies et
// des maintenances, garantit l'invariant un-pour-un entre les deux, et
// assure l'atomicité des opérations composées.
type WorkflowService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

// NewWorkflowService crée un nouvel exemplaire de WorkflowService
func NewWorkflowService(db *gorm.DB, notifications *NotificationService) *WorkflowService {
	return &WorkflowService{
		DB:            db,
		Notifications: notifications,
	}
}

// AnomalieWorkflow est la vue dérivée de l'état courant d'une anomalie,
// destinée au front (guidage de l'interface)
type AnomalieWorkflow struct {
	Anomalie             models.Anomalie     `json:"anomalie"`
	PeutCreerMaintenance bool                `json:"canCreateMaintenance"`
	PeutResoudre         bool                `json:"canResolve"`
	Maintenance          *models.Maintenance `json:"maintenance,omitempty"`
	ProchainesActions    []string            `json:"prochainesActions"`
}

// MaintenanceWorkflow est la vue dérivée de l'état courant d'une maintenance
type MaintenanceWorkflow struct {
	Maintenance       models.Maintenance `json:"maintenance"`
	PeutDemarrer      bool               `json:"canStart"`
	PeutTerminer      bool               `json:"canComplete"`
	Anomalie          *models.Anomalie   `json:"anomalie,omitempty"`
	ProchainesActions []string           `json:"prochainesActions"`
}

// CreationMaintenanceDepuisAnomalie porte les données de création d'une
// maintenance corrective depuis une anomalie
type CreationMaintenanceDepuisAnomalie struct {
	Titre                 string           `json:"titre"`
	Description           string           `json:"description"`
	TypeMaintenance       string           `json:"typeMaintenance"`
	DatePrevue            string           `json:"datePrevue"` // date ISO, obligatoire
	TechnicienResponsable string           `json:"technicienResponsable"`
	CoutEstime            *decimal.Decimal `json:"coutEstime"`
}

// CompletionMaintenance porte les données de clôture d'une maintenance
type CompletionMaintenance struct {
	DateFin              string                  `json:"dateFin"` // date ISO, défaut : maintenant
	RapportIntervention  string                  `json:"rapportIntervention"`
	CoutReel             *decimal.Decimal        `json:"coutReel"`
	PiecesRemplacees     models.PiecesRemplacees `json:"piecesRemplacees"`
	ResoudreAnomalieLiee bool                    `json:"resoudreAnomalieLiee"`
	ResoluePar           string                  `json:"resoluePar"`
}

// ResolutionAnomalie porte les données de résolution explicite d'une
// anomalie. La clé resolvedBy est conservée telle quelle pour
// compatibilité avec le front historique.
type ResolutionAnomalie struct {
	ActionsCorrectives string `json:"actionsCorrectives"`
	ResoluePar         string `json:"resolvedBy"`
}

// Libellés des actions proposées au front
const (
	ActionPrendreEnCharge  = "prendre_en_charge"
	ActionCreerMaintenance = "creer_maintenance"
	ActionResoudre         = "resoudre"
	ActionDemarrer         = "demarrer"
	ActionTerminer         = "terminer"
)

// ProchainesActionsAnomalie calcule la liste ordonnée des actions valides
// depuis l'état courant d'une anomalie. Fonction pure, sans effet de bord.
func ProchainesActionsAnomalie(statut string, lieeMaintenance bool, aActif bool) []string {
	actions := []string{}
	switch statut {
	case models.StatutAnomalieNouvelle:
		actions = append(actions, ActionPrendreEnCharge)
		if !lieeMaintenance && aActif {
			actions = append(actions, ActionCreerMaintenance)
		}
		actions = append(actions, ActionResoudre)
	case models.StatutAnomalieEnCours:
		if !lieeMaintenance && aActif {
			actions = append(actions, ActionCreerMaintenance)
		}
		actions = append(actions, ActionResoudre)
	}
	// États terminaux : aucune action
	return actions
}

// ProchainesActionsMaintenance calcule la liste des actions valides depuis
// l'état courant d'une maintenance. Fonction pure, sans effet de bord.
func ProchainesActionsMaintenance(statut string) []string {
	switch statut {
	case models.StatutMaintenancePlanifiee:
		return []string{ActionDemarrer}
	case models.StatutMaintenanceEnCours:
		return []string{ActionTerminer}
	}
	return []string{}
}

// GetAnomalieWorkflow retourne l'anomalie et ses indicateurs dérivés
func (s *WorkflowService) GetAnomalieWorkflow(id uint) (*AnomalieWorkflow, error) {
	var anomalie models.Anomalie
	if err := s.DB.Preload("Actif").Preload("Maintenance").First(&anomalie, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("anomalie %d introuvable", id)
		}
		return nil, err
	}

	vue := &AnomalieWorkflow{
		Anomalie:             anomalie,
		PeutCreerMaintenance: !anomalie.EstTerminale() && !anomalie.EstLieeMaintenance() && anomalie.ActifID != nil,
		PeutResoudre:         !anomalie.EstTerminale(),
		Maintenance:          anomalie.Maintenance,
		ProchainesActions:    ProchainesActionsAnomalie(anomalie.Statut, anomalie.EstLieeMaintenance(), anomalie.ActifID != nil),
	}
	return vue, nil
}

// GetMaintenanceWorkflow retourne la maintenance et ses indicateurs dérivés
func (s *WorkflowService) GetMaintenanceWorkflow(id uint) (*MaintenanceWorkflow, error) {
	var maintenance models.Maintenance
	if err := s.DB.Preload("Actif").Preload("Anomalie").First(&maintenance, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("maintenance %d introuvable", id)
		}
		return nil, err
	}

	vue := &MaintenanceWorkflow{
		Maintenance:       maintenance,
		PeutDemarrer:      maintenance.Statut == models.StatutMaintenancePlanifiee,
		PeutTerminer:      maintenance.Statut == models.StatutMaintenanceEnCours,
		Anomalie:          maintenance.Anomalie,
		ProchainesActions: ProchainesActionsMaintenance(maintenance.Statut),
	}
	return vue, nil
}

// PrendreEnChargeAnomalie fait passer une anomalie nouvelle en cours de
// traitement et enregistre l'assignation
func (s *WorkflowService) PrendreEnChargeAnomalie(id uint, assigneA string) (*models.Anomalie, error) {
	var anomalie models.Anomalie
	if err := s.DB.First(&anomalie, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("anomalie %d introuvable", id)
		}
		return nil, err
	}

	if anomalie.Statut != models.StatutAnomalieNouvelle {
		return nil, Conflit("l'anomalie %d ne peut être prise en charge : statut actuel '%s'", id, anomalie.Statut)
	}

	if assigneA == "" {
		assigneA = AssigneParDefaut
	}
	anomalie.Statut = models.StatutAnomalieEnCours
	anomalie.AssigneA = assigneA

	if err := s.DB.Save(&anomalie).Error; err != nil {
		return nil, fmt.Errorf("erreur lors de la prise en charge de l'anomalie : %w", err)
	}
	return &anomalie, nil
}

// CreateMaintenanceFromAnomalie crée une maintenance corrective depuis une
// anomalie et lie les deux enregistrements. L'ensemble s'exécute dans une
// transaction unique : la création de la maintenance et la mise à jour de
// l'anomalie sont validées ou annulées ensemble.
func (s *WorkflowService) CreateMaintenanceFromAnomalie(anomalieID uint, donnees CreationMaintenanceDepuisAnomalie) (*models.Maintenance, error) {
	datePrevue, err := ParseDateISO(donnees.DatePrevue)
	if err != nil {
		return nil, Invalide("datePrevue est obligatoire et doit être une date ISO valide : %v", err)
	}

	var maintenance models.Maintenance
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var anomalie models.Anomalie
		if err := tx.First(&anomalie, anomalieID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Introuvable("anomalie %d introuvable", anomalieID)
			}
			return err
		}

		if anomalie.EstTerminale() {
			return Conflit("l'anomalie %d est déjà %s", anomalieID, anomalie.Statut)
		}
		if anomalie.EstLieeMaintenance() {
			return Conflit("l'anomalie %d est déjà liée à la maintenance %d", anomalieID, *anomalie.MaintenanceID)
		}
		if anomalie.ActifID == nil {
			return Conflit("l'anomalie %d n'est rattachée à aucun actif", anomalieID)
		}

		typeMaintenance := donnees.TypeMaintenance
		if typeMaintenance == "" {
			typeMaintenance = models.TypeMaintenanceCorrective
		}
		titre := donnees.Titre
		if titre == "" {
			titre = "Maintenance corrective - " + anomalie.Titre
		}
		technicien := donnees.TechnicienResponsable
		if technicien == "" {
			technicien = models.TechnicienNonAssigne
		}
		coutEstime := decimal.Zero
		if donnees.CoutEstime != nil {
			coutEstime = *donnees.CoutEstime
		}

		maintenance = models.Maintenance{
			Titre:                 titre,
			Description:           donnees.Description,
			TypeMaintenance:       typeMaintenance,
			Statut:                models.StatutMaintenancePlanifiee,
			DatePrevue:            datePrevue,
			TechnicienResponsable: technicien,
			CoutEstime:            coutEstime,
			ActifID:               anomalie.ActifID,
			AnomalieID:            &anomalie.ID,
		}
		if err := tx.Create(&maintenance).Error; err != nil {
			return fmt.Errorf("erreur lors de la création de la maintenance : %w", err)
		}

		anomalie.Statut = models.StatutAnomalieEnCours
		anomalie.MaintenanceID = &maintenance.ID
		if err := tx.Save(&anomalie).Error; err != nil {
			return fmt.Errorf("erreur lors de la mise à jour de l'anomalie : %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Notifications != nil {
		go s.Notifications.NotifierMaintenancePlanifiee(&maintenance)
	}
	return &maintenance, nil
}

// DemarrerMaintenance fait passer une maintenance planifiée en cours
// d'exécution et fixe la date de début à maintenant
func (s *WorkflowService) DemarrerMaintenance(id uint, technicien string) (*models.Maintenance, error) {
	var maintenance models.Maintenance
	if err := s.DB.First(&maintenance, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("maintenance %d introuvable", id)
		}
		return nil, err
	}

	if maintenance.Statut != models.StatutMaintenancePlanifiee {
		return nil, Conflit("la maintenance %d ne peut être démarrée : statut actuel '%s'", id, maintenance.Statut)
	}

	maintenant := time.Now()
	maintenance.Statut = models.StatutMaintenanceEnCours
	maintenance.DateDebut = &maintenant
	if technicien != "" {
		maintenance.TechnicienResponsable = technicien
	}

	if err := s.DB.Save(&maintenance).Error; err != nil {
		return nil, fmt.Errorf("erreur lors du démarrage de la maintenance : %w", err)
	}
	return &maintenance, nil
}

// TerminerMaintenance clôture une maintenance en cours. Si la résolution de
// l'anomalie liée est demandée, elle s'effectue dans la même transaction que
// la clôture : les deux écritures sont validées ou annulées ensemble.
func (s *WorkflowService) TerminerMaintenance(id uint, donnees CompletionMaintenance) (*models.Maintenance, error) {
	var maintenance models.Maintenance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&maintenance, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Introuvable("maintenance %d introuvable", id)
			}
			return err
		}

		if maintenance.Statut != models.StatutMaintenanceEnCours {
			return Conflit("la maintenance %d ne peut être terminée : statut actuel '%s'", id, maintenance.Statut)
		}

		dateFin := time.Now()
		if donnees.DateFin != "" {
			parsee, err := ParseDateISO(donnees.DateFin)
			if err != nil {
				return Invalide("dateFin doit être une date ISO valide : %v", err)
			}
			dateFin = *parsee
		}
		if maintenance.DateDebut != nil && dateFin.Before(*maintenance.DateDebut) {
			return Invalide("la date de fin (%s) ne peut précéder la date de début (%s)",
				dateFin.Format("2006-01-02"), maintenance.DateDebut.Format("2006-01-02"))
		}

		maintenance.Statut = models.StatutMaintenanceTerminee
		maintenance.DateFin = &dateFin
		maintenance.RapportIntervention = donnees.RapportIntervention
		if donnees.CoutReel != nil {
			maintenance.CoutReel = *donnees.CoutReel
		}
		if !donnees.PiecesRemplacees.EstVide() {
			maintenance.PiecesRemplacees = donnees.PiecesRemplacees
		}

		if err := tx.Save(&maintenance).Error; err != nil {
			return fmt.Errorf("erreur lors de la clôture de la maintenance : %w", err)
		}

		if donnees.ResoudreAnomalieLiee && maintenance.AnomalieID != nil {
			var anomalie models.Anomalie
			if err := tx.First(&anomalie, *maintenance.AnomalieID).Error; err != nil {
				return fmt.Errorf("anomalie liée %d introuvable : %w", *maintenance.AnomalieID, err)
			}
			if !anomalie.EstTerminale() {
				resolution := dateFin
				anomalie.Statut = models.StatutAnomalieResolue
				anomalie.DateResolution = &resolution
				anomalie.ResoluePar = donnees.ResoluePar
				if anomalie.ActionsCorrectives == "" {
					anomalie.ActionsCorrectives = donnees.RapportIntervention
				}
				if err := tx.Save(&anomalie).Error; err != nil {
					return fmt.Errorf("erreur lors de la résolution de l'anomalie liée : %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &maintenance, nil
}

// ResoudreAnomalie résout explicitement une anomalie avec le détail des
// actions correctives menées
func (s *WorkflowService) ResoudreAnomalie(id uint, donnees ResolutionAnomalie) (*models.Anomalie, error) {
	if donnees.ActionsCorrectives == "" {
		return nil, Invalide("actionsCorrectives est obligatoire pour résoudre une anomalie")
	}

	var anomalie models.Anomalie
	if err := s.DB.First(&anomalie, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Introuvable("anomalie %d introuvable", id)
		}
		return nil, err
	}

	if anomalie.EstTerminale() {
		return nil, Conflit("l'anomalie %d est déjà %s", id, anomalie.Statut)
	}

	maintenant := time.Now()
	anomalie.Statut = models.StatutAnomalieResolue
	anomalie.DateResolution = &maintenant
	anomalie.ActionsCorrectives = donnees.ActionsCorrectives
	anomalie.ResoluePar = donnees.ResoluePar

	if err := s.DB.Save(&anomalie).Error; err != nil {
		return nil, fmt.Errorf("erreur lors de la résolution de l'anomalie : %w", err)
	}
	return &anomalie, nil
}

// ParseDateISO accepte une date au format "2006-01-02" ou RFC 3339
func ParseDateISO(valeur string) (*time.Time, error) {
	if valeur == "" {
		return nil, fmt.Errorf("date vide")
	}
	for _, format := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(format, valeur); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("format de date non reconnu : %q", valeur)
}
