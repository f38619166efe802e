package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// WorkflowAPI expose les opérations du moteur de workflow sur HTTP.
// Les réponses suivent l'enveloppe {success, message, data} attendue par
// le front historique.
type WorkflowAPI struct {
	Service *services.WorkflowService
}

// NewWorkflowAPI crée un nouvel exemplaire de WorkflowAPI
func NewWorkflowAPI(service *services.WorkflowService) *WorkflowAPI {
	return &WorkflowAPI{Service: service}
}

// GetAnomalieWorkflow GET /workflow/anomalie/:id
func (w *WorkflowAPI) GetAnomalieWorkflow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	vue, err := w.Service.GetAnomalieWorkflow(id)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": vue})
}

// GetMaintenanceWorkflow GET /workflow/maintenance/:id
func (w *WorkflowAPI) GetMaintenanceWorkflow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	vue, err := w.Service.GetMaintenanceWorkflow(id)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": vue})
}

// CreateMaintenanceFromAnomalie POST /workflow/anomalie/:id/create-maintenance
func (w *WorkflowAPI) CreateMaintenanceFromAnomalie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var donnees services.CreationMaintenanceDepuisAnomalie
	if err := c.ShouldBindJSON(&donnees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Corps de requête invalide : " + err.Error()})
		return
	}

	maintenance, err := w.Service.CreateMaintenanceFromAnomalie(id, donnees)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Maintenance créée et anomalie prise en charge",
		"data":    maintenance,
	})
}

// DemarrerMaintenance PUT /workflow/maintenance/:id/start
func (w *WorkflowAPI) DemarrerMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Corps optionnel : {technicienResponsable?}
	var corps struct {
		TechnicienResponsable string `json:"technicienResponsable"`
	}
	_ = c.ShouldBindJSON(&corps)

	maintenance, err := w.Service.DemarrerMaintenance(id, corps.TechnicienResponsable)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Maintenance démarrée",
		"data":    maintenance,
	})
}

// TerminerMaintenance PUT /workflow/maintenance/:id/complete
func (w *WorkflowAPI) TerminerMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var donnees services.CompletionMaintenance
	if err := c.ShouldBindJSON(&donnees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Corps de requête invalide : " + err.Error()})
		return
	}

	maintenance, err := w.Service.TerminerMaintenance(id, donnees)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Maintenance terminée",
		"data":    maintenance,
	})
}

// ResoudreAnomalie PUT /workflow/anomalie/:id/resolve
func (w *WorkflowAPI) ResoudreAnomalie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var donnees services.ResolutionAnomalie
	if err := c.ShouldBindJSON(&donnees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Corps de requête invalide : " + err.Error()})
		return
	}

	anomalie, err := w.Service.ResoudreAnomalie(id, donnees)
	if err != nil {
		repondreErreurWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Anomalie résolue",
		"anomalie": anomalie,
	})
}
