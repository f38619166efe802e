package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// parseID lit le paramètre d'URL :id en entier positif
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "ID invalide"})
		return 0, false
	}
	return uint(id), true
}

// parsePagination lit les paramètres page et limit avec leurs valeurs
// par défaut (page 1, 50 éléments, plafond 200)
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

func calculerTotalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}

// repondreErreur traduit la taxonomie d'erreurs métier en réponse HTTP :
// introuvable → 404, validation → 400, conflit → 409, sinon 500
func repondreErreur(c *gin.Context, err error) {
	switch {
	case services.EstIntrouvable(err):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
	case services.EstValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
	case services.EstConflit(err):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
	}
}

// repondreErreurWorkflow applique la convention des routes workflow :
// enveloppe {success, message}, 404 pour introuvable, 400 pour toute
// violation de règle métier
func repondreErreurWorkflow(c *gin.Context, err error) {
	code := http.StatusBadRequest
	if services.EstIntrouvable(err) {
		code = http.StatusNotFound
	} else if !services.EstValidation(err) && !services.EstConflit(err) {
		code = http.StatusInternalServerError
	}
	c.JSON(code, gin.H{"success": false, "message": err.Error()})
}
