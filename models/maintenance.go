package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statuts du cycle de vie d'une maintenance
const (
	StatutMaintenancePlanifiee = "planifiee"
	StatutMaintenanceEnCours   = "en_cours"
	StatutMaintenanceTerminee  = "terminee"
	StatutMaintenanceAnnulee   = "annulee"
)

// Types de maintenance
const (
	TypeMaintenancePreventive = "preventive"
	TypeMaintenanceCorrective = "corrective"
	TypeMaintenanceUrgente    = "urgente"
)

// TechnicienNonAssigne est la valeur par défaut quand aucun technicien
// n'est désigné à la création d'une maintenance
const TechnicienNonAssigne = "non assigné"

// PiecesRemplacees porte la liste des pièces remplacées lors d'une
// intervention. Le front envoie historiquement soit un tableau de chaînes,
// soit un objet JSON libre : les deux formes sont acceptées à la frontière
// et stockées en jsonb.
type PiecesRemplacees struct {
	// Liste est renseignée quand la charge utile est un tableau de chaînes
	Liste []string `json:"liste,omitempty"`
	// Brut conserve toute autre forme JSON telle quelle
	Brut json.RawMessage `json:"brut,omitempty"`
}

// UnmarshalJSON accepte un tableau de chaînes ou un JSON arbitraire
func (p *PiecesRemplacees) UnmarshalJSON(data []byte) error {
	var liste []string
	if err := json.Unmarshal(data, &liste); err == nil {
		p.Liste = liste
		p.Brut = nil
		return nil
	}
	if !json.Valid(data) {
		return errors.New("piecesRemplacees : JSON invalide")
	}
	p.Liste = nil
	p.Brut = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON restitue la forme d'origine
func (p PiecesRemplacees) MarshalJSON() ([]byte, error) {
	if p.Brut != nil {
		return p.Brut, nil
	}
	if p.Liste == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Liste)
}

// EstVide indique qu'aucune pièce n'a été renseignée
func (p PiecesRemplacees) EstVide() bool {
	return len(p.Liste) == 0 && len(p.Brut) == 0
}

// Value sérialise la valeur pour la colonne jsonb
func (p PiecesRemplacees) Value() (driver.Value, error) {
	if p.EstVide() {
		return nil, nil
	}
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan relit la valeur depuis la colonne jsonb
func (p *PiecesRemplacees) Scan(value interface{}) error {
	if value == nil {
		*p = PiecesRemplacees{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("piecesRemplacees : type de colonne inattendu %T", value)
	}
	return p.UnmarshalJSON(data)
}

// Maintenance représente un ordre de travail planifié ou correctif sur un
// actif, éventuellement déclenché par une anomalie
type Maintenance struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Champs principaux
	Titre           string `json:"titre" gorm:"not null;type:varchar(200)"`
	Description     string `json:"description" gorm:"type:text"`
	TypeMaintenance string `json:"typeMaintenance" gorm:"default:'preventive';type:varchar(20)"`
	Statut          string `json:"statut" gorm:"default:'planifiee';type:varchar(20)"`

	// Dates du cycle de vie
	DatePrevue *time.Time `json:"datePrevue"`
	DateDebut  *time.Time `json:"dateDebut"`
	DateFin    *time.Time `json:"dateFin"`

	// Coûts
	CoutEstime decimal.Decimal `json:"coutEstime" gorm:"type:decimal(12,2);default:0"`
	CoutReel   decimal.Decimal `json:"coutReel" gorm:"type:decimal(12,2);default:0"`

	// Intervention
	TechnicienResponsable string           `json:"technicienResponsable" gorm:"type:varchar(100)"`
	RapportIntervention   string           `json:"rapportIntervention" gorm:"type:text"`
	PiecesRemplacees      PiecesRemplacees `json:"piecesRemplacees,omitempty" gorm:"type:jsonb"`

	// Lien optionnel vers l'actif concerné
	ActifID *uint  `json:"actifId" gorm:"index"`
	Actif   *Actif `json:"actif,omitempty" gorm:"foreignKey:ActifID"`

	// Lien inverse du un-pour-un Anomalie → Maintenance
	AnomalieID *uint     `json:"anomalieId" gorm:"index"`
	Anomalie   *Anomalie `json:"anomalie,omitempty" gorm:"foreignKey:AnomalieID"`
}

// EstTerminale indique si la maintenance est dans un état final
func (m *Maintenance) EstTerminale() bool {
	return m.Statut == StatutMaintenanceTerminee || m.Statut == StatutMaintenanceAnnulee
}
