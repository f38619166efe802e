package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
	"github.com/taha328/geospatial-dashboard-sub001/testutils"
)

func setupInspectionRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { testutils.CleanupTestDB(db) })

	inspectionAPI := NewInspectionAPI(db, nil, nil)

	r := gin.New()
	r.GET("/api/inspections", inspectionAPI.GetInspections)
	r.POST("/api/inspections", inspectionAPI.CreateInspection)
	r.PUT("/api/inspections/:id/realiser", inspectionAPI.RealiserInspection)
	r.DELETE("/api/inspections/:id", inspectionAPI.DeleteInspection)
	return db, r
}

func TestInspectionAPI_CreateInspection(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)

	w := executerRequete(r, http.MethodPost, "/api/inspections", gin.H{
		"actifId":          actif.ID,
		"typeInspectionId": typeInspection.ID,
		"datePlanifiee":    "2026-09-10",
		"inspecteur":       "a.benali",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var reponse struct {
		Data models.Inspection `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.Equal(t, models.ResultatInspectionEnAttente, reponse.Data.Resultat)
	// Titre composé automatiquement depuis le type et l'actif
	assert.NotEmpty(t, reponse.Data.Titre)

	// La date planifiée transmise est bien parsée et stockée
	require.NotNil(t, reponse.Data.DatePlanifiee)
	assert.Equal(t, 2026, reponse.Data.DatePlanifiee.Year())
	assert.Equal(t, time.September, reponse.Data.DatePlanifiee.Month())
	assert.Equal(t, 10, reponse.Data.DatePlanifiee.Day())
}

func TestInspectionAPI_RealiserInspection_DateExplicite(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)
	testutils.CreateTestInspection(db, actif.ID, typeInspection.ID)

	w := executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat":        models.ResultatInspectionConforme,
		"dateRealisation": "2026-08-20",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var inspection models.Inspection
	require.NoError(t, db.First(&inspection, 1).Error)
	require.NotNil(t, inspection.DateRealisation)
	assert.Equal(t, 2026, inspection.DateRealisation.Year())
	assert.Equal(t, time.August, inspection.DateRealisation.Month())
	assert.Equal(t, 20, inspection.DateRealisation.Day())
}

func TestInspectionAPI_CreateInspection_ActifInexistant(t *testing.T) {
	db, r := setupInspectionRouter(t)
	typeInspection := testutils.CreateTestTypeInspection(db)

	w := executerRequete(r, http.MethodPost, "/api/inspections", gin.H{
		"actifId":          9999,
		"typeInspectionId": typeInspection.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectionAPI_RealiserInspection_CreeAnomalies(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)
	inspection := testutils.CreateTestInspection(db, actif.ID, typeInspection.ID)

	w := executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat":     models.ResultatInspectionNonConforme,
		"observations": "Deux défauts relevés sur les défenses",
		"anomalies": []gin.H{
			{"titre": "Défense d'accostage déchirée", "priorite": models.PrioriteAnomalieHaute},
			{"titre": "Boulon d'ancrage manquant"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reponse struct {
		Data struct {
			Inspection      models.Inspection `json:"inspection"`
			NombreAnomalies int               `json:"nombreAnomalies"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reponse))
	assert.Equal(t, 2, reponse.Data.NombreAnomalies)
	assert.NotNil(t, reponse.Data.Inspection.DateRealisation)

	// Les anomalies créées sont nouvelles, rattachées à l'actif et à l'inspection
	var anomalies []models.Anomalie
	require.NoError(t, db.Where("inspection_id = ?", inspection.ID).Find(&anomalies).Error)
	require.Len(t, anomalies, 2)
	for _, a := range anomalies {
		assert.Equal(t, models.StatutAnomalieNouvelle, a.Statut)
		require.NotNil(t, a.ActifID)
		assert.Equal(t, actif.ID, *a.ActifID)
	}
	// La priorité par défaut s'applique quand elle n'est pas fournie
	assert.Equal(t, models.PrioriteAnomalieMoyenne, anomalies[1].Priorite)
}

func TestInspectionAPI_RealiserInspection_DejaRealisee(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)
	testutils.CreateTestInspection(db, actif.ID, typeInspection.ID)

	w := executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat": models.ResultatInspectionConforme,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat": models.ResultatInspectionConforme,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInspectionAPI_RealiserInspection_ResultatInvalide(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)
	testutils.CreateTestInspection(db, actif.ID, typeInspection.ID)

	w := executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat": "peut_etre",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectionAPI_DeleteInspection_RefuseAvecAnomalies(t *testing.T) {
	db, r := setupInspectionRouter(t)
	actif := testutils.CreateTestActif(db)
	typeInspection := testutils.CreateTestTypeInspection(db)
	testutils.CreateTestInspection(db, actif.ID, typeInspection.ID)

	w := executerRequete(r, http.MethodPut, "/api/inspections/1/realiser", gin.H{
		"resultat":  models.ResultatInspectionNonConforme,
		"anomalies": []gin.H{{"titre": "Fissure"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = executerRequete(r, http.MethodDelete, "/api/inspections/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
