package api

import (
	"encoding/json"
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

func setupAnomalieRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	anomalieAPI := NewAnomalieAPI(db, services.NewWorkflowService(db, nil), nil, nil)

	r := gin.New()
	r.GET("/api/anomalies", anomalieAPI.GetAnomalies)
	r.POST("/api/anomalies", anomalieAPI.CreateAnomalie)
	r.PUT("/api/anomalies/:id", anomalieAPI.UpdateAnomalie)
	r.PUT("/api/anomalies/:id/prendre-en-charge", anomalieAPI.PrendreEnCharge)
	r.DELETE("/api/anomalies/:id", anomalieAPI.DeleteAnomalie)
	return db, r
}

func TestAnomalieAPI_CreateAnomalie_StatutForce(t *testing.T) {
	db, r := setupAnomalieRouter(t)
	actif := testutils.CreateTestActif(db)

	// Le client ne choisit ni le statut ni le lien maintenance
	w := executerRequete(r, http.MethodPost, "/api/anomalies", gin.H{
		"titre":         "Corrosion avancée",
		"statut":        models.StatutAnomalieResolue,
		"maintenanceId": 42,
		"actifId":       actif.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var reponse struct {
		Data models.Anomalie `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.Equal(t, models.StatutAnomalieNouvelle, reponse.Data.Statut)
	assert.Nil(t, reponse.Data.MaintenanceID)
}

func TestAnomalieAPI_CreateAnomalie_ActifInexistant(t *testing.T) {
	_, r := setupAnomalieRouter(t)

	w := executerRequete(r, http.MethodPost, "/api/anomalies", gin.H{
		"titre":   "Orpheline",
		"actifId": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnomalieAPI_PrendreEnCharge(t *testing.T) {
	db, r := setupAnomalieRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodPut, "/api/anomalies/1/prendre-en-charge", gin.H{
		"userId": "a.benali",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reponse struct {
		Data models.Anomalie `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.Equal(t, models.StatutAnomalieEnCours, reponse.Data.Statut)
	assert.Equal(t, "a.benali", reponse.Data.AssigneA)

	// Reprise en charge : conflit métier rendu en 409 sur les routes CRUD
	w = executerRequete(r, http.MethodPut, "/api/anomalies/1/prendre-en-charge", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAnomalieAPI_UpdateAnomalie_ChampsProteges(t *testing.T) {
	db, r := setupAnomalieRouter(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)

	// Le statut et le lien maintenance ne passent que par le workflow
	w := executerRequete(r, http.MethodPut, "/api/anomalies/1", gin.H{
		"titre":  "Titre corrigé",
		"statut": models.StatutAnomalieResolue,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var relue models.Anomalie
	require.NoError(t, db.First(&relue, anomalie.ID).Error)
	assert.Equal(t, "Titre corrigé", relue.Titre)
	assert.Equal(t, models.StatutAnomalieNouvelle, relue.Statut)
}

func TestAnomalieAPI_DeleteAnomalie_RefuseSiLiee(t *testing.T) {
	db, r := setupAnomalieRouter(t)
	actif := testutils.CreateTestActif(db)
	anomalie := testutils.CreateTestAnomalie(db, actif.ID)

	workflow := services.NewWorkflowService(db, nil)
	_, err := workflow.CreateMaintenanceFromAnomalie(anomalie.ID, services.CreationMaintenanceDepuisAnomalie{
		DatePrevue: "2026-09-15",
	})
	require.NoError(t, err)

	w := executerRequete(r, http.MethodDelete, "/api/anomalies/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
