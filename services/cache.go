package services

import (
	"time"

	"github.com/taha328/geospatial-dashboard-sub001/database"
)

// Durées de vie du cache
const (
	CacheTTLCourt = 5 * time.Minute  // données fréquemment modifiées
	CacheTTLMoyen = 15 * time.Minute // données modérément modifiées
	CacheTTLLong  = 1 * time.Hour    // données rarement modifiées
)

// Clés du cache carte
const (
	CleCacheCarteActifs    = "carte:actifs"
	CleCacheCarteAnomalies = "carte:anomalies"
)

// CacheService centralise le cache Redis des projections cartographiques.
// Toutes les méthodes se dégradent silencieusement quand Redis est absent.
type CacheService struct{}

// NewCacheService crée un nouvel exemplaire de CacheService
func NewCacheService() *CacheService {
	return &CacheService{}
}

// GetProjection lit une projection mise en cache ; ok=false si absente
func (cs *CacheService) GetProjection(cle string, dest interface{}) bool {
	if err := database.CacheGetJSON(cle, dest); err != nil {
		return false
	}
	return true
}

// SetProjection met en cache une projection carte
func (cs *CacheService) SetProjection(cle string, valeur interface{}) {
	_ = database.CacheSetJSON(cle, valeur, CacheTTLCourt)
}

// InvaliderCarte purge les projections carte après une écriture sur un
// actif ou une anomalie
func (cs *CacheService) InvaliderCarte() {
	database.CacheDel(CleCacheCarteActifs, CleCacheCarteAnomalies)
}
