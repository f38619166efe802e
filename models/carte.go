package models

import (
	"time"

	"gorm.io/gorm"
)

// Point représente une annotation ponctuelle posée sur la carte par un
// utilisateur (repère, signalement libre)
type Point struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Libelle   string  `json:"libelle" gorm:"type:varchar(100)"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	Couleur   string  `json:"couleur" gorm:"type:varchar(20)"`
	CreePar   string  `json:"creePar" gorm:"type:varchar(100)"`
}

// Zone représente un périmètre dessiné sur la carte. La géométrie est
// conservée telle que fournie par le front (GeoJSON) en jsonb.
type Zone struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Libelle   string `json:"libelle" gorm:"type:varchar(100)"`
	Geometrie string `json:"geometrie" gorm:"type:jsonb"` // polygone GeoJSON
	Couleur   string `json:"couleur" gorm:"type:varchar(20)"`
	CreePar   string `json:"creePar" gorm:"type:varchar(100)"`
}
