package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/taha328/geospatial-dashboard-sub001/api"
	"github.com/taha328/geospatial-dashboard-sub001/config"
	"github.com/taha328/geospatial-dashboard-sub001/database"
	"github.com/taha328/geospatial-dashboard-sub001/middleware"
	"github.com/taha328/geospatial-dashboard-sub001/services"
)

// initDB initialise la connexion à la base de données
func initDB() {
	log.Println("🔧 Initialisation de la base de données...")

	// Crée la base si elle n'existe pas encore
	if err := database.CreateDatabaseIfNotExists(); err != nil {
		log.Fatal("❌ Erreur lors de la création de la base de données :", err)
	}

	// Connexion, migrations et index
	if err := database.ConnectDatabase(); err != nil {
		log.Fatal("❌ Erreur de connexion à la base de données :", err)
	}

	log.Println("✅ Base de données initialisée avec succès")
}

func main() {
	// Charge les variables d'environnement depuis le fichier .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Fichier .env introuvable, utilisation des variables d'environnement système")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("❌ Configuration invalide :", err)
	}
	cfg.LogConfig()

	initDB()
	db := database.DB

	// Redis est optionnel : sans lui, le cache et la limitation de débit
	// sont simplement désactivés
	if err := database.InitRedis(); err != nil {
		log.Println("⚠️  Redis indisponible, cache et limitation de débit désactivés :", err)
	}

	// Jeu de données initial (types d'inspection, hiérarchie de démonstration,
	// compte administrateur)
	if cfg.App.SeedDatabase {
		if err := database.SeedDatabase(db); err != nil {
			log.Println("⚠️  Erreur lors de l'initialisation des données :", err)
		}
	}

	// Services
	notifications := services.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	cache := services.NewCacheService()
	workflow := services.NewWorkflowService(db, notifications)
	actifs := services.NewActifService(db, cache)
	carte := services.NewCarteService(db, cache)
	kpi := services.NewKPIService(db)
	rapports := services.NewRapportService(db, kpi, cfg.Rapports.Dossier)
	integrite := services.NewIntegriteService(db)

	// Tâches planifiées : relances des maintenances en retard et des
	// inspections à échoir
	scheduler := services.NewSchedulerService(db, notifications)
	if err := scheduler.Start(); err != nil {
		log.Println("⚠️  Démarrage du planificateur impossible :", err)
	}
	defer scheduler.Stop()

	// Middleware d'authentification
	auth := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Handlers
	authAPI := api.NewAuthAPI(db, auth, cfg.JWT.ExpiresIn)
	actifAPI := api.NewActifAPI(db, actifs)
	anomalieAPI := api.NewAnomalieAPI(db, workflow, notifications, cache)
	maintenanceAPI := api.NewMaintenanceAPI(db)
	workflowAPI := api.NewWorkflowAPI(workflow)
	inspectionAPI := api.NewInspectionAPI(db, notifications, cache)
	hierarchieAPI := api.NewHierarchieAPI(db)
	carteAPI := api.NewCarteAPI(db, carte)
	kpiAPI := api.NewKPIAPI(kpi)
	rapportAPI := api.NewRapportAPI(rapports)
	adminAPI := api.NewAdminAPI(integrite)

	// Router Gin
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Limitation de débit globale (sans effet si Redis est absent)
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Requests: 300,
		Window:   time.Minute,
	}))

	// Routes de base
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	// Authentification
	r.POST("/api/auth/login", authAPI.Login)
	r.GET("/api/auth/me", auth.RequireAuth(), authAPI.Me)

	// Workflow anomalie ↔ maintenance
	workflowRoutes := r.Group("/workflow")
	{
		workflowRoutes.GET("/anomalie/:id", workflowAPI.GetAnomalieWorkflow)
		workflowRoutes.GET("/maintenance/:id", workflowAPI.GetMaintenanceWorkflow)
		workflowRoutes.POST("/anomalie/:id/create-maintenance", workflowAPI.CreateMaintenanceFromAnomalie)
		workflowRoutes.PUT("/maintenance/:id/start", workflowAPI.DemarrerMaintenance)
		workflowRoutes.PUT("/maintenance/:id/complete", workflowAPI.TerminerMaintenance)
		workflowRoutes.PUT("/anomalie/:id/resolve", workflowAPI.ResoudreAnomalie)
	}

	apiRoutes := r.Group("/api")
	{
		// Hiérarchie organisationnelle
		apiRoutes.GET("/hierarchie", hierarchieAPI.GetHierarchie)
		apiRoutes.GET("/portefeuilles", hierarchieAPI.GetPortefeuilles)
		apiRoutes.POST("/portefeuilles", hierarchieAPI.CreatePortefeuille)
		apiRoutes.DELETE("/portefeuilles/:id", hierarchieAPI.DeletePortefeuille)
		apiRoutes.GET("/familles", hierarchieAPI.GetFamilles)
		apiRoutes.POST("/familles", hierarchieAPI.CreateFamille)
		apiRoutes.DELETE("/familles/:id", hierarchieAPI.DeleteFamille)
		apiRoutes.GET("/groupes", hierarchieAPI.GetGroupes)
		apiRoutes.POST("/groupes", hierarchieAPI.CreateGroupe)
		apiRoutes.DELETE("/groupes/:id", hierarchieAPI.DeleteGroupe)

		// Actifs
		apiRoutes.GET("/actifs", actifAPI.GetActifs)
		apiRoutes.GET("/actifs/:id", actifAPI.GetActif)
		apiRoutes.POST("/actifs", actifAPI.CreateActif)
		apiRoutes.POST("/actifs/carte", actifAPI.CreateActifCarte)
		apiRoutes.PUT("/actifs/:id", actifAPI.UpdateActif)
		apiRoutes.PUT("/actifs/:id/statut", actifAPI.UpdateStatutActif)
		apiRoutes.DELETE("/actifs/:id", actifAPI.DeleteActif)

		// Anomalies
		apiRoutes.GET("/anomalies", anomalieAPI.GetAnomalies)
		apiRoutes.GET("/anomalies/:id", anomalieAPI.GetAnomalie)
		apiRoutes.POST("/anomalies", anomalieAPI.CreateAnomalie)
		apiRoutes.PUT("/anomalies/:id", anomalieAPI.UpdateAnomalie)
		apiRoutes.PUT("/anomalies/:id/prendre-en-charge", anomalieAPI.PrendreEnCharge)
		apiRoutes.DELETE("/anomalies/:id", anomalieAPI.DeleteAnomalie)

		// Maintenances
		apiRoutes.GET("/maintenances", maintenanceAPI.GetMaintenances)
		apiRoutes.GET("/maintenances/:id", maintenanceAPI.GetMaintenance)
		apiRoutes.POST("/maintenances", maintenanceAPI.CreateMaintenance)
		apiRoutes.PUT("/maintenances/:id", maintenanceAPI.UpdateMaintenance)
		apiRoutes.PUT("/maintenances/:id/annuler", maintenanceAPI.AnnulerMaintenance)

		// Inspections
		apiRoutes.GET("/types-inspection", inspectionAPI.GetTypesInspection)
		apiRoutes.POST("/types-inspection", inspectionAPI.CreateTypeInspection)
		apiRoutes.GET("/inspections", inspectionAPI.GetInspections)
		apiRoutes.GET("/inspections/:id", inspectionAPI.GetInspection)
		apiRoutes.POST("/inspections", inspectionAPI.CreateInspection)
		apiRoutes.PUT("/inspections/:id/realiser", inspectionAPI.RealiserInspection)
		apiRoutes.DELETE("/inspections/:id", inspectionAPI.DeleteInspection)

		// Carte
		apiRoutes.GET("/carte/actifs", carteAPI.GetActifsCarte)
		apiRoutes.GET("/carte/anomalies", carteAPI.GetAnomaliesCarte)
		apiRoutes.GET("/carte/points", carteAPI.GetPoints)
		apiRoutes.POST("/carte/points", carteAPI.CreatePoint)
		apiRoutes.DELETE("/carte/points/:id", carteAPI.DeletePoint)
		apiRoutes.GET("/carte/zones", carteAPI.GetZones)
		apiRoutes.POST("/carte/zones", carteAPI.CreateZone)
		apiRoutes.DELETE("/carte/zones/:id", carteAPI.DeleteZone)

		// Indicateurs
		apiRoutes.GET("/kpi/dashboard", kpiAPI.GetDashboard)
		apiRoutes.GET("/kpi/actifs/:id", kpiAPI.GetStatistiquesActif)

		// Rapports
		apiRoutes.GET("/rapports/maintenance/:id/pdf", rapportAPI.GetRapportMaintenancePDF)
		apiRoutes.GET("/rapports/kpi/excel", rapportAPI.GetExportKPIExcel)

		// Administration
		apiRoutes.GET("/admin/integrite", auth.RequireAuth(), auth.RequireRole("admin"), adminAPI.GetIntegrite)
	}

	log.Printf("🚀 Serveur démarré sur le port %s", cfg.App.Port)
	if err := r.Run(cfg.App.Host + ":" + cfg.App.Port); err != nil {
		log.Fatal("❌ Erreur au démarrage du serveur :", err)
	}
}
