package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// SeedDatabase exécute la routine d'initialisation des données de référence
// et de démonstration. Chaque étape est idempotente : relancer le seed sur
// une base déjà peuplée ne crée aucun doublon.
func SeedDatabase(db *gorm.DB) error {
	log.Println("🌱 Initialisation des données...")

	if err := seedTypesInspection(db); err != nil {
		return fmt.Errorf("étape types d'inspection : %w", err)
	}
	if err := seedHierarchie(db); err != nil {
		return fmt.Errorf("étape hiérarchie : %w", err)
	}
	if err := seedAdmin(db); err != nil {
		return fmt.Errorf("étape administrateur : %w", err)
	}

	log.Println("✅ Données initialisées")
	return nil
}

// seedTypesInspection crée les catégories d'inspection de référence
func seedTypesInspection(db *gorm.DB) error {
	types := []models.TypeInspection{
		{Nom: "Inspection visuelle", Description: "Contrôle visuel périodique de l'état général", FrequenceMois: 6},
		{Nom: "Inspection structurelle", Description: "Contrôle approfondi de la structure (béton, acier)", FrequenceMois: 24, NormeApplicable: "EN 1990"},
		{Nom: "Inspection réglementaire levage", Description: "Vérification réglementaire des appareils de levage", FrequenceMois: 12, NormeApplicable: "FEM 9.755"},
		{Nom: "Inspection électrique", Description: "Contrôle des installations électriques et d'éclairage", FrequenceMois: 12, NormeApplicable: "NF C 15-100"},
	}

	for _, t := range types {
		var existant models.TypeInspection
		err := db.Where("nom = ?", t.Nom).First(&existant).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&t).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedHierarchie crée un portefeuille de démonstration complet
// (Portefeuille → Famille → Groupe → Actifs géolocalisés)
func seedHierarchie(db *gorm.DB) error {
	var portefeuille models.Portefeuille
	err := db.Where("nom = ?", "Port de Tanger Med").First(&portefeuille).Error
	if err == nil {
		return nil // déjà peuplé
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	portefeuille = models.Portefeuille{
		Nom:         "Port de Tanger Med",
		Description: "Infrastructure portuaire principale",
	}
	if err := db.Create(&portefeuille).Error; err != nil {
		return err
	}

	famille := models.FamilleActif{
		Nom:            "Ouvrages d'accostage",
		Description:    "Quais, ducs-d'albe et équipements associés",
		PortefeuilleID: portefeuille.ID,
	}
	if err := db.Create(&famille).Error; err != nil {
		return err
	}

	groupe := models.GroupeActif{
		Nom:       "Quai nord",
		FamilleID: famille.ID,
	}
	if err := db.Create(&groupe).Error; err != nil {
		return err
	}

	miseEnService := time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC)
	lat1, lon1 := 35.8838, -5.5018
	lat2, lon2 := 35.8845, -5.5031
	actifs := []models.Actif{
		{
			Code:               "QN-BOL-001",
			Nom:                "Bollard 001 - Quai nord",
			Type:               "bollard",
			StatutOperationnel: models.StatutActifOperationnel,
			EtatGeneral:        models.EtatActifBon,
			Latitude:           &lat1,
			Longitude:          &lon1,
			GroupeID:           &groupe.ID,
			DateMiseEnService:  &miseEnService,
		},
		{
			Code:               "QN-GRU-001",
			Nom:                "Grue portique 001 - Quai nord",
			Type:               "grue",
			StatutOperationnel: models.StatutActifOperationnel,
			EtatGeneral:        models.EtatActifMoyen,
			Latitude:           &lat2,
			Longitude:          &lon2,
			GroupeID:           &groupe.ID,
			DateMiseEnService:  &miseEnService,
		},
	}
	for i := range actifs {
		if err := db.Create(&actifs[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin crée le compte administrateur initial
func seedAdmin(db *gorm.DB) error {
	email := getEnv("ADMIN_EMAIL", "admin@port.local")

	var existant models.Utilisateur
	err := db.Where("email = ?", email).First(&existant).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	motDePasse := getEnv("ADMIN_PASSWORD", "admin123")
	hash, err := bcrypt.GenerateFromPassword([]byte(motDePasse), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Utilisateur{
		Email:    email,
		Password: string(hash),
		Nom:      "Administrateur",
		Role:     models.RoleAdmin,
		Actif:    true,
	}
	return db.Create(&admin).Error
}
