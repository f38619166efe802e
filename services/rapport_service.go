package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/taha328/geospatial-dashboard-sub001/models"
)

// RapportService assemble les documents de sortie : fiche d'intervention
// PDF d'une maintenance et export Excel des indicateurs.
type RapportService struct {
	DB      *gorm.DB
	KPI     *KPIService
	Dossier string // répertoire de dépôt des fichiers générés
}

// NewRapportService crée un nouvel exemplaire de RapportService
func NewRapportService(db *gorm.DB, kpi *KPIService, dossier string) *RapportService {
	return &RapportService{DB: db, KPI: kpi, Dossier: dossier}
}

// formatDate affiche une date optionnelle en jj/mm/aaaa
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

// GenererRapportMaintenancePDF rend la fiche d'intervention d'une
// maintenance et retourne le chemin du fichier généré
func (s *RapportService) GenererRapportMaintenancePDF(maintenanceID uint) (string, error) {
	var maintenance models.Maintenance
	err := s.DB.Preload("Actif").Preload("Anomalie").First(&maintenance, maintenanceID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", Introuvable("maintenance %d introuvable", maintenanceID)
		}
		return "", err
	}

	if err := os.MkdirAll(s.Dossier, 0o755); err != nil {
		return "", fmt.Errorf("impossible de créer le répertoire des rapports : %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// En-tête
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Fiche d'intervention de maintenance")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Genere le %s", time.Now().Format("02/01/2006 15:04")))
	pdf.Ln(12)

	// Bloc identité
	ligne := func(libelle, valeur string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(55, 7, libelle)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, valeur, "", "L", false)
	}

	ligne("Reference", fmt.Sprintf("MNT-%05d", maintenance.ID))
	ligne("Titre", maintenance.Titre)
	ligne("Type", maintenance.TypeMaintenance)
	ligne("Statut", maintenance.Statut)
	ligne("Technicien", maintenance.TechnicienResponsable)
	pdf.Ln(4)

	// Dates
	ligne("Date prevue", formatDate(maintenance.DatePrevue))
	ligne("Date de debut", formatDate(maintenance.DateDebut))
	ligne("Date de fin", formatDate(maintenance.DateFin))
	pdf.Ln(4)

	// Coûts
	ligne("Cout estime", maintenance.CoutEstime.StringFixed(2)+" MAD")
	ligne("Cout reel", maintenance.CoutReel.StringFixed(2)+" MAD")
	pdf.Ln(4)

	// Actif concerné
	if maintenance.Actif != nil {
		ligne("Actif", fmt.Sprintf("%s (%s)", maintenance.Actif.Nom, maintenance.Actif.Code))
		ligne("Etat de l'actif", maintenance.Actif.EtatGeneral)
		pdf.Ln(4)
	}

	// Anomalie d'origine
	if maintenance.Anomalie != nil {
		ligne("Anomalie d'origine", fmt.Sprintf("#%d - %s", maintenance.Anomalie.ID, maintenance.Anomalie.Titre))
		ligne("Priorite", maintenance.Anomalie.Priorite)
		if maintenance.Anomalie.ActionsCorrectives != "" {
			ligne("Actions correctives", maintenance.Anomalie.ActionsCorrectives)
		}
		pdf.Ln(4)
	}

	// Rapport d'intervention
	if maintenance.RapportIntervention != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Rapport d'intervention")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, maintenance.RapportIntervention, "", "L", false)
		pdf.Ln(4)
	}

	// Pièces remplacées
	if len(maintenance.PiecesRemplacees.Liste) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Pieces remplacees")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, piece := range maintenance.PiecesRemplacees.Liste {
			pdf.Cell(0, 6, "- "+piece)
			pdf.Ln(6)
		}
	}

	chemin := filepath.Join(s.Dossier, fmt.Sprintf("maintenance_%d_%s.pdf", maintenance.ID, uuid.New().String()[:8]))
	if err := pdf.OutputFileAndClose(chemin); err != nil {
		return "", fmt.Errorf("erreur lors de la génération du PDF : %w", err)
	}
	return chemin, nil
}

// GenererExportKPIExcel exporte les indicateurs du tableau de bord et le
// détail des actifs dans un classeur Excel
func (s *RapportService) GenererExportKPIExcel() (string, error) {
	stats, err := s.KPI.GetStatistiquesDashboard()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dossier, 0o755); err != nil {
		return "", fmt.Errorf("impossible de créer le répertoire des rapports : %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// Feuille 1 : indicateurs globaux
	feuille := "Indicateurs"
	f.SetSheetName("Sheet1", feuille)
	indicateurs := [][]interface{}{
		{"Indicateur", "Valeur"},
		{"Total actifs", stats.TotalActifs},
		{"Actifs en alerte", stats.ActifsEnAlerte},
		{"Total anomalies", stats.TotalAnomalies},
		{"Anomalies ouvertes", stats.AnomaliesOuvertes},
		{"Anomalies critiques", stats.AnomaliesCritiques},
		{"Total maintenances", stats.TotalMaintenances},
		{"Maintenances en retard", stats.MaintenancesEnRetard},
		{"Cout estime total (MAD)", stats.CoutEstimeTotal.InexactFloat64()},
		{"Cout reel total (MAD)", stats.CoutReelTotal.InexactFloat64()},
		{"Taux de conformite (%)", stats.TauxConformite},
	}
	for lig, valeurs := range indicateurs {
		for col, v := range valeurs {
			cellule, _ := excelize.CoordinatesToCellName(col+1, lig+1)
			f.SetCellValue(feuille, cellule, v)
		}
	}

	// Feuille 2 : détail des actifs
	detail := "Actifs"
	f.NewSheet(detail)
	entetes := []string{"Code", "Nom", "Type", "Statut", "Etat", "Anomalies ouvertes"}
	for col, h := range entetes {
		cellule, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(detail, cellule, h)
	}

	var actifs []models.Actif
	if err := s.DB.Find(&actifs).Error; err != nil {
		return "", err
	}
	for lig, a := range actifs {
		var ouvertes int64
		s.DB.Model(&models.Anomalie{}).
			Where("actif_id = ? AND statut IN ?", a.ID,
				[]string{models.StatutAnomalieNouvelle, models.StatutAnomalieEnCours}).
			Count(&ouvertes)

		valeurs := []interface{}{a.Code, a.Nom, a.Type, a.StatutOperationnel, a.EtatGeneral, ouvertes}
		for col, v := range valeurs {
			cellule, _ := excelize.CoordinatesToCellName(col+1, lig+2)
			f.SetCellValue(detail, cellule, v)
		}
	}
	f.AutoFilter(detail, fmt.Sprintf("A1:F%d", len(actifs)+1), []excelize.AutoFilterOptions{})

	chemin := filepath.Join(s.Dossier, fmt.Sprintf("kpi_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(chemin); err != nil {
		return "", fmt.Errorf("erreur lors de la génération de l'export Excel : %w", err)
	}
	return chemin, nil
}
