package models

import (
	"time"

	"gorm.io/gorm"
)

// Statuts du cycle de vie d'une anomalie
const (
	StatutAnomalieNouvelle = "nouvelle"
	StatutAnomalieEnCours  = "en_cours"
	StatutAnomalieResolue  = "resolue"
	StatutAnomalieFermee   = "fermee"
)

// Priorités possibles d'une anomalie
const (
	PrioriteAnomalieBasse    = "basse"
	PrioriteAnomalieMoyenne  = "moyenne"
	PrioriteAnomalieHaute    = "haute"
	PrioriteAnomalieCritique = "critique"
)

// Types d'anomalie
const (
	TypeAnomalieStructurelle = "structurelle"
	TypeAnomalieMecanique    = "mecanique"
	TypeAnomalieElectrique   = "electrique"
	TypeAnomalieSecurite     = "securite"
	TypeAnomalieAutre        = "autre"
)

// Anomalie représente un défaut signalé sur un actif portuaire
type Anomalie struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Champs principaux
	Titre        string `json:"titre" gorm:"not null;type:varchar(200)"`
	Description  string `json:"description" gorm:"type:text"`
	Priorite     string `json:"priorite" gorm:"default:'moyenne';type:varchar(20)"`
	Statut       string `json:"statut" gorm:"default:'nouvelle';type:varchar(20)"`
	TypeAnomalie string `json:"typeAnomalie" gorm:"default:'autre';type:varchar(20)"`

	// Localisation optionnelle (si différente de celle de l'actif)
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Lien optionnel vers l'actif concerné
	ActifID *uint  `json:"actifId" gorm:"index"`
	Actif   *Actif `json:"actif,omitempty" gorm:"foreignKey:ActifID"`

	// Lien un-pour-un optionnel vers la maintenance corrective.
	// Invariant : une anomalie a au plus une maintenance associée à la fois ;
	// la contrainte est vérifiée par le WorkflowService et doublée d'un index
	// unique côté base (voir database/indexes.go).
	MaintenanceID *uint        `json:"maintenanceId" gorm:"index"`
	Maintenance   *Maintenance `json:"maintenance,omitempty" gorm:"foreignKey:MaintenanceID"`

	// Inspection à l'origine du signalement, le cas échéant
	InspectionID *uint       `json:"inspectionId" gorm:"index"`
	Inspection   *Inspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	// Suivi
	RapportePar string `json:"rapportePar" gorm:"type:varchar(100)"`
	AssigneA    string `json:"assigneA" gorm:"type:varchar(100)"`

	// Résolution
	DateResolution     *time.Time `json:"dateResolution"`
	ActionsCorrectives string     `json:"actionsCorrectives" gorm:"type:text"`
	ResoluePar         string     `json:"resoluePar" gorm:"type:varchar(100)"`
}

// EstTerminale indique si l'anomalie est dans un état final (résolue ou fermée)
func (a *Anomalie) EstTerminale() bool {
	return a.Statut == StatutAnomalieResolue || a.Statut == StatutAnomalieFermee
}

// EstLieeMaintenance indique si une maintenance est déjà associée à l'anomalie
func (a *Anomalie) EstLieeMaintenance() bool {
	return a.MaintenanceID != nil
}
