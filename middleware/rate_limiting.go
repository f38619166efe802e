package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"

	"github.com/taha328/geospatial-dashboard-sub001/database"
)

// RateLimitConfig configure la limitation de débit
type RateLimitConfig struct {
	Requests int           // nombre de requêtes autorisées
	Window   time.Duration // fenêtre temporelle
}

// RateLimit limite le débit par adresse IP via un compteur Redis.
// Sans Redis, la limitation est désactivée.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := database.GetRedis()
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()

		current, err := redisClient.Get(database.Ctx, key).Int()
		if err != nil && err != redis.Nil {
			// En cas d'erreur Redis, on laisse passer la requête
			c.Next()
			return
		}

		if current >= config.Requests {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error": fmt.Sprintf("Trop de requêtes. Limite : %d par %v",
					config.Requests, config.Window),
			})
			c.Abort()
			return
		}

		pipe := redisClient.Pipeline()
		pipe.Incr(database.Ctx, key)
		if current == 0 {
			pipe.Expire(database.Ctx, key, config.Window)
		}
		pipe.Exec(database.Ctx)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Requests-current-1))

		c.Next()
	}
}
