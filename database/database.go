package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/taha328/geospatial-dashboard-sub001/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists crée la base de données si elle n'existe pas
func CreateDatabaseIfNotExists() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "port_actifs_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Connexion à PostgreSQL sans base cible (base postgres par défaut)
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		host, port, user, password, sslmode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("impossible de se connecter à PostgreSQL : %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("impossible de vérifier la connexion à PostgreSQL : %w", err)
	}

	// La base existe-t-elle déjà ?
	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	err = db.QueryRow(query, dbname).Scan(&exists)
	if err != nil {
		return fmt.Errorf("erreur lors de la vérification de la base de données : %w", err)
	}

	if exists {
		log.Printf("✅ La base de données '%s' existe déjà", dbname)
		return nil
	}

	createQuery := fmt.Sprintf("CREATE DATABASE %s;", dbname)
	_, err = db.Exec(createQuery)
	if err != nil {
		return fmt.Errorf("impossible de créer la base de données '%s' : %w", dbname, err)
	}

	log.Printf("✅ Base de données '%s' créée avec succès", dbname)
	return nil
}

// ConnectDatabase initialise la connexion PostgreSQL
func ConnectDatabase() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "port_actifs_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return fmt.Errorf("impossible de se connecter à la base de données : %w", err)
	}

	log.Println("✅ Connexion à PostgreSQL établie")

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("erreur d'automigration : %w", err)
	}

	if err := CreateIndexes(DB); err != nil {
		return fmt.Errorf("erreur de création des index : %w", err)
	}

	return nil
}

// getEnv lit une variable d'environnement ou retourne la valeur par défaut
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDB retourne l'instance de base de données
func GetDB() *gorm.DB {
	return DB
}

// autoMigrate exécute l'automigration de tous les modèles, dans l'ordre des
// dépendances (parents d'abord)
func autoMigrate() error {
	err := DB.AutoMigrate(
		// Hiérarchie organisationnelle
		&models.Portefeuille{},
		&models.FamilleActif{},
		&models.GroupeActif{},

		// Actifs et satellites
		&models.Actif{},
		&models.TypeInspection{},
		&models.Inspection{},
		&models.Maintenance{},
		&models.Anomalie{},

		// Comptes et annotations carte
		&models.Utilisateur{},
		&models.Point{},
		&models.Zone{},
	)

	if err != nil {
		return err
	}

	log.Println("✅ Automigration des modèles effectuée")
	return nil
}
