package testutils

import (
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// SetupTestDB crée une base de test SQLite en mémoire avec le schéma complet.
// À utiliser dans tous les tests pour garantir la cohérence des migrations.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Migrations dans l'ordre des dépendances : hiérarchie d'abord,
	// puis les actifs, puis les enregistrements satellites
	err = db.AutoMigrate(
		// Hiérarchie organisationnelle
		&models.Portefeuille{},
		&models.FamilleActif{},
		&models.GroupeActif{},

		// Actifs
		&models.Actif{},

		// Satellites
		&models.TypeInspection{},
		&models.Inspection{},
		&models.Anomalie{},
		&models.Maintenance{},

		// Utilisateurs et carte
		&models.Utilisateur{},
		&models.Point{},
		&models.Zone{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// CleanupTestDB ferme la base de test
func CleanupTestDB(db *gorm.DB) {
	if db != nil {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// CreateTestActif crée un actif de test géolocalisé
func CreateTestActif(db *gorm.DB) *models.Actif {
	lat, lon := 35.8884, -5.5007
	actif := &models.Actif{
		Code:               "QUA-TEST0001",
		Nom:                "Quai de test",
		Type:               "quai",
		StatutOperationnel: models.StatutActifOperationnel,
		EtatGeneral:        models.EtatActifBon,
		Latitude:           &lat,
		Longitude:          &lon,
	}

	if err := db.Create(actif).Error; err != nil {
		log.Printf("création de l'actif de test impossible : %v", err)
		return nil
	}
	return actif
}

// CreateTestAnomalie crée une anomalie nouvelle rattachée à un actif
func CreateTestAnomalie(db *gorm.DB, actifID uint) *models.Anomalie {
	anomalie := &models.Anomalie{
		Titre:        "Fissure constatée sur le bajoyer",
		Description:  "Fissure longitudinale d'environ 2 m",
		Priorite:     models.PrioriteAnomalieHaute,
		Statut:       models.StatutAnomalieNouvelle,
		TypeAnomalie: models.TypeAnomalieStructurelle,
		RapportePar:  "inspecteur test",
		ActifID:      &actifID,
	}

	if err := db.Create(anomalie).Error; err != nil {
		log.Printf("création de l'anomalie de test impossible : %v", err)
		return nil
	}
	return anomalie
}

// CreateTestMaintenance crée une maintenance planifiée sur un actif
func CreateTestMaintenance(db *gorm.DB, actifID uint) *models.Maintenance {
	datePrevue := time.Now().AddDate(0, 0, 7)
	maintenance := &models.Maintenance{
		Titre:                 "Graissage des organes d'amarrage",
		TypeMaintenance:       models.TypeMaintenancePreventive,
		Statut:                models.StatutMaintenancePlanifiee,
		TechnicienResponsable: "technicien test",
		DatePrevue:            &datePrevue,
		ActifID:               &actifID,
	}

	if err := db.Create(maintenance).Error; err != nil {
		log.Printf("création de la maintenance de test impossible : %v", err)
		return nil
	}
	return maintenance
}

// CreateTestTypeInspection crée un type d'inspection de test
func CreateTestTypeInspection(db *gorm.DB) *models.TypeInspection {
	typeInspection := &models.TypeInspection{
		Nom:             "Inspection visuelle de test",
		Description:     "Contrôle visuel périodique",
		FrequenceMois:   6,
		NormeApplicable: "EN 1990",
	}

	if err := db.Create(typeInspection).Error; err != nil {
		log.Printf("création du type d'inspection de test impossible : %v", err)
		return nil
	}
	return typeInspection
}

// CreateTestInspection crée une inspection planifiée non réalisée
func CreateTestInspection(db *gorm.DB, actifID, typeInspectionID uint) *models.Inspection {
	datePlanifiee := time.Now().AddDate(0, 0, 3)
	inspection := &models.Inspection{
		Titre:            "Inspection de test",
		ActifID:          actifID,
		TypeInspectionID: typeInspectionID,
		DatePlanifiee:    &datePlanifiee,
		Resultat:         models.ResultatInspectionEnAttente,
		Inspecteur:       "inspecteur test",
	}

	if err := db.Create(inspection).Error; err != nil {
		log.Printf("création de l'inspection de test impossible : %v", err)
		return nil
	}
	return inspection
}

// CreateTestHierarchie crée un portefeuille, une famille et un groupe
// imbriqués, et retourne le groupe feuille
func CreateTestHierarchie(db *gorm.DB) *models.GroupeActif {
	portefeuille := &models.Portefeuille{Nom: "Portefeuille de test"}
	if err := db.Create(portefeuille).Error; err != nil {
		log.Printf("création du portefeuille de test impossible : %v", err)
		return nil
	}

	famille := &models.FamilleActif{Nom: "Famille de test", PortefeuilleID: portefeuille.ID}
	if err := db.Create(famille).Error; err != nil {
		log.Printf("création de la famille de test impossible : %v", err)
		return nil
	}

	groupe := &models.GroupeActif{Nom: "Groupe de test", FamilleID: famille.ID}
	if err := db.Create(groupe).Error; err != nil {
		log.Printf("création du groupe de test impossible : %v", err)
		return nil
	}
	return groupe
}
