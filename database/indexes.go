package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// DatabaseIndex décrit un index à créer en plus de ceux déclarés par GORM
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
	Where   string // condition d'index partiel (PostgreSQL)
}

// PerformanceIndexes regroupe les index de performance et de cohérence.
// L'index unique partiel sur maintenances.anomalie_id matérialise en base
// l'invariant un-pour-un Anomalie ↔ Maintenance vérifié par le workflow,
// et ferme la fenêtre de concurrence entre deux créations simultanées.
var PerformanceIndexes = []DatabaseIndex{
	{
		Name:    "uidx_maintenances_anomalie_unique",
		Table:   "maintenances",
		Columns: []string{"anomalie_id"},
		Unique:  true,
		Where:   "anomalie_id IS NOT NULL AND deleted_at IS NULL",
	},
	{
		Name:    "idx_actifs_statut_etat",
		Table:   "actifs",
		Columns: []string{"statut_operationnel", "etat_general"},
	},
	{
		Name:    "idx_actifs_groupe_statut",
		Table:   "actifs",
		Columns: []string{"groupe_id", "statut_operationnel"},
	},
	{
		Name:    "idx_anomalies_statut_priorite",
		Table:   "anomalies",
		Columns: []string{"statut", "priorite"},
	},
	{
		Name:    "idx_anomalies_actif_statut",
		Table:   "anomalies",
		Columns: []string{"actif_id", "statut"},
	},
	{
		Name:    "idx_maintenances_statut_date",
		Table:   "maintenances",
		Columns: []string{"statut", "date_prevue"},
	},
	{
		Name:    "idx_inspections_actif_date",
		Table:   "inspections",
		Columns: []string{"actif_id", "date_planifiee"},
	},
}

// CreateIndexes crée les index manquants. Idempotent (IF NOT EXISTS).
func CreateIndexes(db *gorm.DB) error {
	for _, idx := range PerformanceIndexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		sql := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, idx.Name, idx.Table, strings.Join(idx.Columns, ", "))
		if idx.Where != "" {
			sql += " WHERE " + idx.Where
		}

		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("création de l'index %s : %w", idx.Name, err)
		}
	}

	log.Printf("✅ %d index vérifiés/créés", len(PerformanceIndexes))
	return nil
}
