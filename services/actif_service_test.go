package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/testutils"
)

func setupActifTest(t *testing.T) (*gorm.DB, *ActifService) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })
	return db, NewActifService(db, nil)
}

func TestActifService_CreerActif_CodeGenere(t *testing.T) {
	db, service := setupActifTest(t)

	actif := &models.Actif{Nom: "Bollard B12", Type: "bollard"}
	require.NoError(t, service.CreerActif(actif))

	assert.True(t, strings.HasPrefix(actif.Code, "BOL-"))
	assert.Len(t, actif.Code, 12)

	var relu models.Actif
	require.NoError(t, db.First(&relu, actif.ID).Error)
	assert.Equal(t, actif.Code, relu.Code)
}

func TestActifService_CreerActif_GroupeInexistant(t *testing.T) {
	_, service := setupActifTest(t)

	groupeID := uint(9999)
	actif := &models.Actif{Nom: "Grue G1", GroupeID: &groupeID}
	err := service.CreerActif(actif)
	assert.True(t, EstIntrouvable(err))
}

func TestActifService_CreerActifDepuisCarte(t *testing.T) {
	db, service := setupActifTest(t)
	groupe := testutils.CreateTestHierarchie(db)

	actif, err := service.CreerActifDepuisCarte(CreationActifCarte{
		Nom:       "Éclairage E4",
		Type:      "eclairage",
		Latitude:  35.889,
		Longitude: -5.498,
		GroupeID:  &groupe.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatutActifOperationnel, actif.StatutOperationnel)
	assert.Equal(t, models.EtatActifBon, actif.EtatGeneral)
	require.NotNil(t, actif.Latitude)
	assert.InDelta(t, 35.889, *actif.Latitude, 0.0001)
	assert.NotEmpty(t, actif.Code)
}

func TestActifService_MettreAJourStatut(t *testing.T) {
	db, service := setupActifTest(t)
	actif := testutils.CreateTestActif(db)

	resultat, err := service.MettreAJourStatut(actif.ID, models.StatutActifAlerte, models.EtatActifCritique)
	require.NoError(t, err)
	assert.Equal(t, models.StatutActifAlerte, resultat.StatutOperationnel)
	assert.Equal(t, models.EtatActifCritique, resultat.EtatGeneral)
	assert.True(t, resultat.EstEnAlerte())

	_, err = service.MettreAJourStatut(actif.ID, "inconnu", "")
	assert.True(t, EstValidation(err))
}

func TestActifService_SupprimerActif_RefuseAnomalieOuverte(t *testing.T) {
	db, service := setupActifTest(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	err := service.SupprimerActif(actif.ID)
	assert.True(t, EstConflit(err))

	// L'actif est toujours présent
	var relu models.Actif
	assert.NoError(t, db.First(&relu, actif.ID).Error)
}

func TestActifService_SupprimerActif_RefuseMaintenanceActive(t *testing.T) {
	db, service := setupActifTest(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestMaintenance(db, actif.ID)

	err := service.SupprimerActif(actif.ID)
	assert.True(t, EstConflit(err))
}

func TestActifService_SupprimerActif_OrphelineSatellitesClos(t *testing.T) {
	db, service := setupActifTest(t)
	actif := testutils.CreateTestActif(db)

	anomalie := testutils.CreateTestAnomalie(db, actif.ID)
	db.Model(anomalie).Update("statut", models.StatutAnomalieFermee)
	maintenance := testutils.CreateTestMaintenance(db, actif.ID)
	db.Model(maintenance).Update("statut", models.StatutMaintenanceTerminee)

	require.NoError(t, service.SupprimerActif(actif.ID))

	// L'actif est soft-deleted, les satellites clos subsistent sans lien
	var disparu models.Actif
	assert.Error(t, db.First(&disparu, actif.ID).Error)

	var anomalieRelue models.Anomalie
	require.NoError(t, db.First(&anomalieRelue, anomalie.ID).Error)
	assert.Nil(t, anomalieRelue.ActifID)

	var maintenanceRelue models.Maintenance
	require.NoError(t, db.First(&maintenanceRelue, maintenance.ID).Error)
	assert.Nil(t, maintenanceRelue.ActifID)
}

func TestGenererCodeActif(t *testing.T) {
	code := GenererCodeActif("quai")
	assert.True(t, strings.HasPrefix(code, "QUA-"))

	// Sans type, le préfixe générique est utilisé
	assert.True(t, strings.HasPrefix(GenererCodeActif(""), "ACT-"))

	// Deux codes successifs ne se répètent pas
	assert.NotEqual(t, GenererCodeActif("quai"), GenererCodeActif("quai"))
}
