package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware vérifie l'authentification JWT des requêtes
type AuthMiddleware struct {
	secret []byte
	issuer string
}

// NewAuthMiddleware crée un nouvel exemplaire d'AuthMiddleware
func NewAuthMiddleware(secret, issuer string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), issuer: issuer}
}

// Claims portées par les jetons émis par l'API
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenererToken émet un jeton signé pour un utilisateur
func (am *AuthMiddleware) GenererToken(userID uint, email, role string, duree time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    am.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duree)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(am.secret)
}

// ValiderToken vérifie la signature et l'expiration d'un jeton
func (am *AuthMiddleware) ValiderToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return am.secret, nil
	}, jwt.WithIssuer(am.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAuth exige un jeton valide et dépose les claims dans le contexte
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authorization header is required",
			})
			c.Abort()
			return
		}

		token := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		claims, err := am.ValiderToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid or expired token: " + err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

// RequireRole exige en plus un rôle précis (après RequireAuth)
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		for _, autorise := range roles {
			if role == autorise {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"status": "error",
			"error":  "Insufficient privileges",
		})
		c.Abort()
	}
}
