package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/services"
	"github.com/taha328/geospatial-dashboard-sub001/testutils"
)

func setupWorkflowRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	workflowAPI := NewWorkflowAPI(services.NewWorkflowService(db, nil))

	r := gin.New()
	workflow := r.Group("/workflow")
	{
		workflow.GET("/anomalie/:id", workflowAPI.GetAnomalieWorkflow)
		workflow.GET("/maintenance/:id", workflowAPI.GetMaintenanceWorkflow)
		workflow.POST("/anomalie/:id/create-maintenance", workflowAPI.CreateMaintenanceFromAnomalie)
		workflow.PUT("/maintenance/:id/start", workflowAPI.DemarrerMaintenance)
		workflow.PUT("/maintenance/:id/complete", workflowAPI.TerminerMaintenance)
		workflow.PUT("/anomalie/:id/resolve", workflowAPI.ResoudreAnomalie)
	}
	return db, r
}

func executerRequete(r *gin.Engine, methode, cible string, corps interface{}) *httptest.ResponseRecorder {
	var lecteur *bytes.Reader
	if corps != nil {
		b, _ := json.Marshal(corps)
		lecteur = bytes.NewReader(b)
	} else {
		lecteur = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(methode, cible, lecteur)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWorkflowAPI_GetAnomalieWorkflow(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodGet, "/workflow/anomalie/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var reponse struct {
		Success bool `json:"success"`
		Data    struct {
			CanCreateMaintenance bool     `json:"canCreateMaintenance"`
			CanResolve           bool     `json:"canResolve"`
			ProchainesActions    []string `json:"prochainesActions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.True(t, reponse.Success)
	assert.True(t, reponse.Data.CanCreateMaintenance)
	assert.True(t, reponse.Data.CanResolve)
	assert.Contains(t, reponse.Data.ProchainesActions, "prendre_en_charge")
}

func TestWorkflowAPI_GetAnomalieWorkflow_Introuvable(t *testing.T) {
	_, r := setupWorkflowRouter(t)

	w := executerRequete(r, http.MethodGet, "/workflow/anomalie/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var reponse map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.Equal(t, false, reponse["success"])
	assert.NotEmpty(t, reponse["message"])
}

func TestWorkflowAPI_CreateMaintenanceFromAnomalie(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodPost, "/workflow/anomalie/1/create-maintenance", gin.H{
		"titre":      "Reprise du bajoyer",
		"datePrevue": "2026-09-15",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var reponse struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    models.Maintenance `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.True(t, reponse.Success)
	assert.Equal(t, "Maintenance créée et anomalie prise en charge", reponse.Message)
	assert.Equal(t, models.StatutMaintenancePlanifiee, reponse.Data.Statut)

	// Rejouer la création : violation métier rendue en 400
	w = executerRequete(r, http.MethodPost, "/workflow/anomalie/1/create-maintenance", gin.H{
		"datePrevue": "2026-09-20",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkflowAPI_CreateMaintenanceFromAnomalie_DatePrevueManquante(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodPost, "/workflow/anomalie/1/create-maintenance", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkflowAPI_CycleMaintenanceComplet(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodPost, "/workflow/anomalie/1/create-maintenance", gin.H{
		"datePrevue": "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Démarrage : corps optionnel
	w = executerRequete(r, http.MethodPut, "/workflow/maintenance/1/start", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second démarrage refusé en 400 (violation métier, pas 409)
	w = executerRequete(r, http.MethodPut, "/workflow/maintenance/1/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Clôture avec résolution de l'anomalie liée
	w = executerRequete(r, http.MethodPut, "/workflow/maintenance/1/complete", gin.H{
		"rapportIntervention":  "Intervention conforme",
		"resoudreAnomalieLiee": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var anomalie models.Anomalie
	require.NoError(t, db.First(&anomalie, 1).Error)
	assert.Equal(t, models.StatutAnomalieResolue, anomalie.Statut)
	assert.NotNil(t, anomalie.DateResolution)
}

func TestWorkflowAPI_TerminerMaintenance_DateFinInvalide(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestMaintenance(db, actif.ID)

	w := executerRequete(r, http.MethodPut, "/workflow/maintenance/1/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = executerRequete(r, http.MethodPut, "/workflow/maintenance/1/complete", gin.H{
		"dateFin": "2020-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// L'état n'a pas bougé
	var maintenance models.Maintenance
	require.NoError(t, db.First(&maintenance, 1).Error)
	assert.Equal(t, models.StatutMaintenanceEnCours, maintenance.Statut)
}

func TestWorkflowAPI_ResoudreAnomalie(t *testing.T) {
	db, r := setupWorkflowRouter(t)
	actif := testutils.CreateTestActif(db)
	testutils.CreateTestAnomalie(db, actif.ID)

	w := executerRequete(r, http.MethodPut, "/workflow/anomalie/1/resolve", gin.H{
		"actionsCorrectives": "Resserrage des ancrages",
		"resolvedBy":         "a.benali",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reponse struct {
		Success  bool            `json:"success"`
		Anomalie models.Anomalie `json:"anomalie"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.True(t, reponse.Success)
	assert.Equal(t, models.StatutAnomalieResolue, reponse.Anomalie.Statut)
	assert.Equal(t, "a.benali", reponse.Anomalie.ResoluePar)

	// Résolution sans actions correctives : 400
	w = executerRequete(r, http.MethodPut, "/workflow/anomalie/1/resolve", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkflowAPI_IDInvalide(t *testing.T) {
	_, r := setupWorkflowRouter(t)

	w := executerRequete(r, http.MethodGet, "/workflow/anomalie/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
