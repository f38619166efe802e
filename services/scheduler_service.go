package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// SchedulerService exécute les balayages périodiques : maintenances
// planifiées en retard et inspections arrivant à échéance.
type SchedulerService struct {
	db            *gorm.DB
	notifications *NotificationService
	cron          *cron.Cron
}

// NewSchedulerService crée un nouvel exemplaire de SchedulerService
func NewSchedulerService(db *gorm.DB, notifications *NotificationService) *SchedulerService {
	return &SchedulerService{
		db:            db,
		notifications: notifications,
		cron:          cron.New(),
	}
}

// Start planifie les balayages quotidiens et démarre le cron
func (ss *SchedulerService) Start() error {
	// Tous les jours à 7h : maintenances en retard
	if _, err := ss.cron.AddFunc("0 7 * * *", ss.BalayerMaintenancesEnRetard); err != nil {
		return err
	}
	// Tous les jours à 7h15 : inspections à échoir sous 7 jours
	if _, err := ss.cron.AddFunc("15 7 * * *", ss.BalayerInspectionsAEchoir); err != nil {
		return err
	}

	ss.cron.Start()
	log.Println("✅ Planificateur de balayages démarré")
	return nil
}

// Stop arrête le planificateur
func (ss *SchedulerService) Stop() {
	ss.cron.Stop()
	log.Println("Planificateur de balayages arrêté")
}

// BalayerMaintenancesEnRetard signale les maintenances planifiées dont la
// date prévue est dépassée
func (ss *SchedulerService) BalayerMaintenancesEnRetard() {
	var enRetard []models.Maintenance
	err := ss.db.
		Where("statut = ? AND date_prevue < ?", models.StatutMaintenancePlanifiee, time.Now()).
		Find(&enRetard).Error
	if err != nil {
		log.Printf("⚠️  Balayage des maintenances en retard : %v", err)
		return
	}

	log.Printf("Balayage : %d maintenance(s) en retard", len(enRetard))
	for i := range enRetard {
		if ss.notifications != nil {
			ss.notifications.NotifierMaintenanceEnRetard(&enRetard[i])
		}
	}
}

// BalayerInspectionsAEchoir signale les inspections planifiées dans les
// 7 prochains jours et non encore réalisées
func (ss *SchedulerService) BalayerInspectionsAEchoir() {
	horizon := time.Now().Add(7 * 24 * time.Hour)

	var aEchoir []models.Inspection
	err := ss.db.
		Where("date_realisation IS NULL AND date_planifiee BETWEEN ? AND ?", time.Now(), horizon).
		Find(&aEchoir).Error
	if err != nil {
		log.Printf("⚠️  Balayage des inspections à échoir : %v", err)
		return
	}

	log.Printf("Balayage : %d inspection(s) à échoir sous 7 jours", len(aEchoir))
	for i := range aEchoir {
		if ss.notifications != nil {
			ss.notifications.NotifierInspectionAEchoir(&aEchoir[i])
		}
	}
}
