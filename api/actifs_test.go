package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
	"github.com/taha328/geospatial-dashboard-sub001/testutils"
)

func setupActifRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	actifAPI := NewActifAPI(db, services.NewActifService(db, nil))

	r := gin.New()
	r.GET("/api/actifs", actifAPI.GetActifs)
	r.GET("/api/actifs/:id", actifAPI.GetActif)
	r.PUT("/api/actifs/:id", actifAPI.UpdateActif)
	return db, r
}

func TestActifAPI_UpdateActif_MiseAJourPartielle(t *testing.T) {
	db, r := setupActifRouter(t)
	actif := testutils.CreateTestActif(db)

	// Un PUT partiel ne touche que les champs transmis
	w := executerRequete(r, http.MethodPut, "/api/actifs/1", gin.H{
		"nom": "Quai renommé",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var relu models.Actif
	require.NoError(t, db.First(&relu, actif.ID).Error)
	assert.Equal(t, "Quai renommé", relu.Nom)
	assert.Equal(t, models.StatutActifOperationnel, relu.StatutOperationnel)
	assert.Equal(t, models.EtatActifBon, relu.EtatGeneral)
	assert.Equal(t, actif.Code, relu.Code)
	require.NotNil(t, relu.Latitude)
	require.NotNil(t, relu.Longitude)
	assert.Equal(t, *actif.Latitude, *relu.Latitude)
}

func TestActifAPI_UpdateActif_StatutIgnore(t *testing.T) {
	db, r := setupActifRouter(t)
	actif := testutils.CreateTestActif(db)

	// Le statut ne se change pas par le CRUD, seul /statut le pilote
	w := executerRequete(r, http.MethodPut, "/api/actifs/1", gin.H{
		"nom":                "Quai nord",
		"statutOperationnel": models.StatutActifHorsService,
		"etatGeneral":        models.EtatActifCritique,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var relu models.Actif
	require.NoError(t, db.First(&relu, actif.ID).Error)
	assert.Equal(t, models.StatutActifOperationnel, relu.StatutOperationnel)
	assert.Equal(t, models.EtatActifBon, relu.EtatGeneral)
}

func TestActifAPI_UpdateActif_Position(t *testing.T) {
	db, r := setupActifRouter(t)
	actif := testutils.CreateTestActif(db)

	w := executerRequete(r, http.MethodPut, "/api/actifs/1", gin.H{
		"latitude":  35.8901,
		"longitude": -5.4988,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var relu models.Actif
	require.NoError(t, db.First(&relu, actif.ID).Error)
	require.NotNil(t, relu.Latitude)
	assert.InDelta(t, 35.8901, *relu.Latitude, 1e-9)
	require.NotNil(t, relu.Longitude)
	assert.InDelta(t, -5.4988, *relu.Longitude, 1e-9)
}

func TestActifAPI_UpdateActif_GroupeInexistant(t *testing.T) {
	db, r := setupActifRouter(t)
	testutils.CreateTestActif(db)

	w := executerRequete(r, http.MethodPut, "/api/actifs/1", gin.H{
		"groupeId": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActifAPI_UpdateActif_Introuvable(t *testing.T) {
	_, r := setupActifRouter(t)

	w := executerRequete(r, http.MethodPut, "/api/actifs/9999", gin.H{
		"nom": "Fantôme",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
