package models

import (
	"time"

	"gorm.io/gorm"
)

// Statuts opérationnels possibles d'un actif
const (
	StatutActifOperationnel  = "operationnel"
	StatutActifHorsService   = "hors_service"
	StatutActifEnMaintenance = "en_maintenance"
	StatutActifAlerte        = "alerte"
)

// États généraux possibles d'un actif
const (
	EtatActifBon      = "bon"
	EtatActifMoyen    = "moyen"
	EtatActifMauvais  = "mauvais"
	EtatActifCritique = "critique"
)

// Actif représente un élément d'infrastructure portuaire suivi par le système
// (quai, bollard, éclairage, grue, etc.)
type Actif struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Champs principaux de l'actif
	Code        string `json:"code" gorm:"uniqueIndex;not null;type:varchar(50)"`
	Nom         string `json:"nom" gorm:"not null;type:varchar(100)"`
	Type        string `json:"type" gorm:"type:varchar(50)"` // quai, bollard, eclairage, grue, etc.
	Description string `json:"description" gorm:"type:text"`

	// Statut opérationnel et état général
	StatutOperationnel string `json:"statutOperationnel" gorm:"default:'operationnel';type:varchar(20)"`
	EtatGeneral        string `json:"etatGeneral" gorm:"default:'bon';type:varchar(20)"`

	// Coordonnées géographiques (les transformations de coordonnées sont
	// effectuées côté base de données)
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Rattachement hiérarchique (Portefeuille → Famille → Groupe → Actif)
	GroupeID *uint        `json:"groupeId" gorm:"index"`
	Groupe   *GroupeActif `json:"groupe,omitempty" gorm:"foreignKey:GroupeID"`

	// Données techniques
	DateMiseEnService *time.Time `json:"dateMiseEnService"`
	Fabricant         string     `json:"fabricant" gorm:"type:varchar(100)"`
	NumeroSerie       string     `json:"numeroSerie" gorm:"type:varchar(100)"`

	// Enregistrements satellites (clé étrangère non propriétaire : la
	// suppression d'un actif ne supprime pas ses anomalies/maintenances)
	Anomalies    []Anomalie    `json:"anomalies,omitempty" gorm:"foreignKey:ActifID"`
	Maintenances []Maintenance `json:"maintenances,omitempty" gorm:"foreignKey:ActifID"`
	Inspections  []Inspection  `json:"inspections,omitempty" gorm:"foreignKey:ActifID"`
}

// EstEnAlerte indique si l'actif nécessite une attention immédiate
func (a *Actif) EstEnAlerte() bool {
	return a.StatutOperationnel == StatutActifAlerte || a.EtatGeneral == EtatActifCritique
}

// APosition indique si l'actif dispose de coordonnées exploitables sur la carte
func (a *Actif) APosition() bool {
	return a.Latitude != nil && a.Longitude != nil
}
