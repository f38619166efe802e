package models

import (
	"time"

	"gorm.io/gorm"
)

// Rôles applicatifs
const (
	RoleAdmin        = "admin"
	RoleGestionnaire = "gestionnaire"
	RoleInspecteur   = "inspecteur"
	RoleTechnicien   = "technicien"
)

// Utilisateur représente un compte pouvant s'authentifier sur l'API
type Utilisateur struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Email    string `json:"email" gorm:"uniqueIndex;not null;type:varchar(100)"`
	Password string `json:"-" gorm:"not null;type:varchar(255)"` // hash bcrypt, jamais sérialisé
	Nom      string `json:"nom" gorm:"type:varchar(100)"`
	Role     string `json:"role" gorm:"default:'inspecteur';type:varchar(20)"`

	Actif             bool       `json:"actif" gorm:"default:true"`
	DerniereConnexion *time.Time `json:"derniereConnexion"`
}
