package services

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// NotificationService envoie les alertes opérationnelles (anomalies
// critiques, maintenances en retard) via Telegram. Quand aucun token n'est
// configuré, le service se dégrade en simple journalisation.
type NotificationService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotificationService crée le service de notifications. Retourne un
// service inactif (bot nil) si le token est absent ou invalide.
func NewNotificationService(token, chatID string) *NotificationService {
	ns := &NotificationService{}
	if token == "" {
		log.Println("⚠️  Token Telegram absent, notifications désactivées")
		return ns
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("⚠️  Impossible d'initialiser le bot Telegram : %v", err)
		return ns
	}
	bot.Debug = false

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		log.Printf("⚠️  Chat ID Telegram invalide : %q", chatID)
		return ns
	}

	ns.bot = bot
	ns.chatID = id
	log.Printf("✅ Bot Telegram autorisé : %s", bot.Self.UserName)
	return ns
}

// Active indique si l'envoi Telegram est opérationnel
func (ns *NotificationService) Active() bool {
	return ns.bot != nil
}

// envoyer pousse un message HTML vers le chat configuré
func (ns *NotificationService) envoyer(message string) {
	if !ns.Active() {
		log.Printf("NOTIFICATION (non envoyée) : %s", message)
		return
	}
	msg := tgbotapi.NewMessage(ns.chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := ns.bot.Send(msg); err != nil {
		log.Printf("⚠️  Erreur d'envoi Telegram : %v", err)
	}
}

// NotifierAnomalieCritique alerte sur un signalement de priorité critique
func (ns *NotificationService) NotifierAnomalieCritique(anomalie *models.Anomalie) {
	message := fmt.Sprintf("🚨 <b>Anomalie critique</b>\n%s\nPriorité : %s\nType : %s",
		anomalie.Titre, anomalie.Priorite, anomalie.TypeAnomalie)
	if anomalie.ActifID != nil {
		message += fmt.Sprintf("\nActif : #%d", *anomalie.ActifID)
	}
	ns.envoyer(message)
}

// NotifierMaintenancePlanifiee annonce la création d'une maintenance
// corrective issue d'une anomalie
func (ns *NotificationService) NotifierMaintenancePlanifiee(maintenance *models.Maintenance) {
	message := fmt.Sprintf("🔧 <b>Maintenance planifiée</b>\n%s\nType : %s",
		maintenance.Titre, maintenance.TypeMaintenance)
	if maintenance.DatePrevue != nil {
		message += fmt.Sprintf("\nDate prévue : %s", maintenance.DatePrevue.Format("02/01/2006"))
	}
	ns.envoyer(message)
}

// NotifierMaintenanceEnRetard alerte sur une maintenance planifiée dont la
// date prévue est dépassée
func (ns *NotificationService) NotifierMaintenanceEnRetard(maintenance *models.Maintenance) {
	message := fmt.Sprintf("⏰ <b>Maintenance en retard</b>\n%s", maintenance.Titre)
	if maintenance.DatePrevue != nil {
		message += fmt.Sprintf("\nPrévue le : %s", maintenance.DatePrevue.Format("02/01/2006"))
	}
	ns.envoyer(message)
}

// NotifierInspectionAEchoir rappelle une inspection planifiée sous peu
func (ns *NotificationService) NotifierInspectionAEchoir(inspection *models.Inspection) {
	message := fmt.Sprintf("📋 <b>Inspection à venir</b>\nActif : #%d", inspection.ActifID)
	if inspection.DatePlanifiee != nil {
		message += fmt.Sprintf("\nDate : %s", inspection.DatePlanifiee.Format("02/01/2006"))
	}
	ns.envoyer(message)
}
