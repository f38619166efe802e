package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client
var Ctx = context.Background()

// InitRedis initialise la connexion Redis. Le cache est optionnel : en cas
// d'échec, l'application fonctionne sans cache.
func InitRedis() error {
	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	password := getEnv("REDIS_PASSWORD", "")
	dbStr := getEnv("REDIS_DB", "0")

	db, err := strconv.Atoi(dbStr)
	if err != nil {
		db = 0
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  300 * time.Second,
	})

	if err := Redis.Ping(Ctx).Err(); err != nil {
		Redis = nil
		return fmt.Errorf("impossible de se connecter à Redis : %w", err)
	}

	log.Println("✅ Connexion à Redis établie")
	return nil
}

// GetRedis retourne le client Redis (nil si non connecté)
func GetRedis() *redis.Client {
	return Redis
}

// CacheSetJSON sérialise une valeur en JSON et la stocke avec un TTL
func CacheSetJSON(key string, value interface{}, ttl time.Duration) error {
	if Redis == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, ttl).Err()
}

// CacheGetJSON lit une valeur JSON depuis le cache
func CacheGetJSON(key string, dest interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	data, err := Redis.Get(Ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// CacheDel supprime une ou plusieurs clés du cache
func CacheDel(keys ...string) {
	if Redis == nil || len(keys) == 0 {
		return
	}
	Redis.Del(Ctx, keys...)
}
