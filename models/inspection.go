package models

import (
	"time"

	"gorm.io/gorm"
)

// Résultats possibles d'une inspection
const (
	ResultatInspectionConforme    = "conforme"
	ResultatInspectionNonConforme = "non_conforme"
	ResultatInspectionEnAttente   = "en_attente"
)

// TypeInspection décrit une catégorie d'audit (visuelle, structurelle,
// réglementaire...) et sa périodicité recommandée
type TypeInspection struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Nom             string `json:"nom" gorm:"not null;uniqueIndex;type:varchar(100)"`
	Description     string `json:"description" gorm:"type:text"`
	FrequenceMois   int    `json:"frequenceMois" gorm:"default:12"` // périodicité recommandée en mois
	NormeApplicable string `json:"normeApplicable" gorm:"type:varchar(100)"`
}

// Inspection représente un audit planifié d'un actif, pouvant produire
// zéro ou plusieurs anomalies
type Inspection struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Titre        string `json:"titre" gorm:"type:varchar(200)"`
	Observations string `json:"observations" gorm:"type:text"`

	DatePlanifiee   *time.Time `json:"datePlanifiee"`
	DateRealisation *time.Time `json:"dateRealisation"`

	Resultat   string `json:"resultat" gorm:"default:'en_attente';type:varchar(20)"`
	Inspecteur string `json:"inspecteur" gorm:"type:varchar(100)"`

	ActifID uint   `json:"actifId" gorm:"not null;index"`
	Actif   *Actif `json:"actif,omitempty" gorm:"foreignKey:ActifID"`

	TypeInspectionID uint            `json:"typeInspectionId" gorm:"not null;index"`
	TypeInspection   *TypeInspection `json:"typeInspection,omitempty" gorm:"foreignKey:TypeInspectionID"`

	// Anomalies détectées lors de cette inspection
	Anomalies []Anomalie `json:"anomalies,omitempty" gorm:"foreignKey:InspectionID"`
}

// EstRealisee indique si l'inspection a été effectuée
func (i *Inspection) EstRealisee() bool {
	return i.DateRealisation != nil
}
