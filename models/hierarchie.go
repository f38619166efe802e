package models

import (
	"time"

	"gorm.io/gorm"
)

// Portefeuille est le niveau racine de la hiérarchie organisationnelle
// des actifs (Portefeuille → Famille → Groupe → Actif)
type Portefeuille struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Nom         string `json:"nom" gorm:"not null;type:varchar(100)"`
	Description string `json:"description" gorm:"type:text"`

	Familles []FamilleActif `json:"familles,omitempty" gorm:"foreignKey:PortefeuilleID"`
}

// FamilleActif regroupe des groupes d'actifs de même nature au sein
// d'un portefeuille (ex. ouvrages d'accostage, équipements de levage)
type FamilleActif struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Nom         string `json:"nom" gorm:"not null;type:varchar(100)"`
	Description string `json:"description" gorm:"type:text"`

	PortefeuilleID uint          `json:"portefeuilleId" gorm:"not null;index"`
	Portefeuille   *Portefeuille `json:"portefeuille,omitempty" gorm:"foreignKey:PortefeuilleID"`

	Groupes []GroupeActif `json:"groupes,omitempty" gorm:"foreignKey:FamilleID"`
}

// GroupeActif est le niveau directement parent des actifs
type GroupeActif struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Nom         string `json:"nom" gorm:"not null;type:varchar(100)"`
	Description string `json:"description" gorm:"type:text"`

	FamilleID uint          `json:"familleId" gorm:"not null;index"`
	Famille   *FamilleActif `json:"famille,omitempty" gorm:"foreignKey:FamilleID"`

	Actifs []Actif `json:"actifs,omitempty" gorm:"foreignKey:GroupeID"`
}
