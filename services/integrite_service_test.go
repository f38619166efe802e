package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/testutils"
)

func setupIntegriteTest(t *testing.T) (*gorm.DB, *IntegriteService) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })
	return db, NewIntegriteService(db)
}

func TestIntegriteService_BaseSaine(t *testing.T) {
	db, service := setupIntegriteTest(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)

	workflow := NewWorkflowService(db, nil)
	_, err := workflow.CreateMaintenanceFromAnomalie(anomalie.ID, CreationMaintenanceDepuisAnomalie{
		DatePrevue: "2026-09-15",
	})
	require.NoError(t, err)

	rapport, err := service.Verifier()
	require.NoError(t, err)
	assert.Empty(t, rapport.Incoherences)
}

func TestIntegriteService_LienUnilateral(t *testing.T) {
	db, service := setupIntegriteTest(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)
	maintenance := testutils.CreateTestMaintenance(db, actif.ID)

	// Lien posé d'un seul côté, sans le lien inverse
	db.Model(anomalie).Update("maintenance_id", maintenance.ID)

	rapport, err := service.Verifier()
	require.NoError(t, err)
	require.Len(t, rapport.Incoherences, 1)
	assert.Equal(t, "lien_unilateral", rapport.Incoherences[0].Categorie)
	assert.Equal(t, "anomalie", rapport.Incoherences[0].EntiteType)
	assert.Equal(t, anomalie.ID, rapport.Incoherences[0].EntiteID)
}

func TestIntegriteService_LienOrphelin(t *testing.T) {
	db, service := setupIntegriteTest(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)

	// Référence vers une maintenance qui n'existe pas
	db.Model(anomalie).Update("maintenance_id", 9999)

	rapport, err := service.Verifier()
	require.NoError(t, err)
	require.Len(t, rapport.Incoherences, 1)
	assert.Equal(t, "lien_orphelin", rapport.Incoherences[0].Categorie)
}

func TestIntegriteService_ActifDisparu(t *testing.T) {
	db, service := setupIntegriteTest(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)

	// Suppression directe de l'actif en laissant la référence en place
	db.Delete(&models.Actif{}, actif.ID)

	rapport, err := service.Verifier()
	require.NoError(t, err)
	require.Len(t, rapport.Incoherences, 1)
	assert.Equal(t, "actif_disparu", rapport.Incoherences[0].Categorie)
	assert.Equal(t, anomalie.ID, rapport.Incoherences[0].EntiteID)
}
