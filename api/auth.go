package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/middleware"
	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// AuthAPI expose la connexion et la consultation du profil courant
type AuthAPI struct {
	DB        *gorm.DB
	Auth      *middleware.AuthMiddleware
	ExpiresIn time.Duration
}

// NewAuthAPI crée un nouvel exemplaire d'AuthAPI
func NewAuthAPI(db *gorm.DB, auth *middleware.AuthMiddleware, expiresIn time.Duration) *AuthAPI {
	return &AuthAPI{DB: db, Auth: auth, ExpiresIn: expiresIn}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3,max=64"`
}

// Journalisation structurée des opérations d'authentification
func logAuthOperation(operation, email string, details map[string]interface{}) {
	logData := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"operation": operation,
		"email":     email,
	}
	for key, value := range details {
		logData[key] = value
	}

	logJSON, _ := json.Marshal(logData)
	log.Printf("AUTH_LOG: %s", string(logJSON))
}

// Login POST /api/auth/login — vérifie les identifiants et émet un jeton
func (a *AuthAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logAuthOperation("login_validation_error", req.Email, map[string]interface{}{
			"error":      err.Error(),
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Email ou mot de passe invalide"})
		return
	}

	var utilisateur models.Utilisateur
	err := a.DB.Where("email = ? AND actif = ?", req.Email, true).First(&utilisateur).Error
	if err != nil {
		logAuthOperation("login_unknown_user", req.Email, map[string]interface{}{
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "Email ou mot de passe invalide"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(utilisateur.Password), []byte(req.Password)); err != nil {
		logAuthOperation("login_bad_password", req.Email, map[string]interface{}{
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "Email ou mot de passe invalide"})
		return
	}

	token, err := a.Auth.GenererToken(utilisateur.ID, utilisateur.Email, utilisateur.Role, a.ExpiresIn)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Erreur lors de l'émission du jeton"})
		return
	}

	maintenant := time.Now()
	utilisateur.DerniereConnexion = &maintenant
	a.DB.Save(&utilisateur)

	logAuthOperation("login_success", req.Email, map[string]interface{}{
		"user_id":    utilisateur.ID,
		"ip_address": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user":  utilisateur,
		},
	})
}

// Me GET /api/auth/me — retourne le profil de l'utilisateur authentifié
func (a *AuthAPI) Me(c *gin.Context) {
	userID := c.GetUint("user_id")

	var utilisateur models.Utilisateur
	if err := a.DB.First(&utilisateur, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": utilisateur})
}
