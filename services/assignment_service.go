// services/assignment_service.go
package services

import (
	"log"
	"strings"
	"time"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentService struct {
	DB *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db}
}

type assignmentSlot struct {
	Round         int    `json:"round"`
	Table         int    `json:"table"`
	TechCompany   string `json:"techCompany"`
	TechEmail     string `json:"techEmail"`
	DesignCompany string `json:"designCompany"`
	DesignEmail   string `json:"designEmail"`
	Score         int    `json:"score"`
}

type assignmentPayload struct {
	Assignments []assignmentSlot `json:"assignments"`
	RoundCount  int              `json:"roundCount"`
	TableCount  int              `json:"tableCount"`
}

func (p *assignmentPayload) validate() string {
	if len(p.Assignments) == 0 {
		return "assignments are required"
	}
	for _, a := range p.Assignments {
		if a.Round < 1 || a.Table < 1 {
			return "round and table must be positive"
		}
		if strings.TrimSpace(a.TechCompany) == "" || strings.TrimSpace(a.DesignCompany) == "" {
			return "techCompany and designCompany are required"
		}
	}
	return ""
}

// ValidateAssignments checks a draft plan's shape without persisting
// anything. The frontend calls this while editing, confirm commits.
func (s *AssignmentService) ValidateAssignments(c *fiber.Ctx) error {
	var body assignmentPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "assignments are valid",
		"count":   len(body.Assignments),
	})
}

// ConfirmAssignments writes a full plan as a new version. The version
// counter starts at 1 and only grows; a slot confirmed twice inside one
// version overwrites.
func (s *AssignmentService) ConfirmAssignments(c *fiber.Ctx) error {
	var body assignmentPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	latest, err := s.maxVersion()
	if err != nil {
		log.Printf("[Assignment] version lookup failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to confirm assignments", "details": err.Error()})
	}
	version := latest + 1
	now := time.Now().UTC()

	meta := models.AssignmentVersion{
		Version:     version,
		RoundCount:  body.RoundCount,
		TableCount:  body.TableCount,
		ConfirmedAt: now,
	}
	if err := s.DB.Create(&meta).Error; err != nil {
		log.Printf("[Assignment] version insert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to confirm assignments", "details": err.Error()})
	}

	for _, slot := range body.Assignments {
		row := models.Assignment{
			Version:       version,
			RoundNum:      slot.Round,
			TableNum:      slot.Table,
			TechCompany:   strings.TrimSpace(slot.TechCompany),
			TechEmail:     strings.ToLower(strings.TrimSpace(slot.TechEmail)),
			DesignCompany: strings.TrimSpace(slot.DesignCompany),
			DesignEmail:   strings.ToLower(strings.TrimSpace(slot.DesignEmail)),
			Score:         slot.Score,
			ConfirmedAt:   &now,
		}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "version"}, {Name: "round_num"}, {Name: "table_num"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"tech_company", "tech_email", "design_company", "design_email", "score", "confirmed_at",
			}),
		}).Create(&row).Error; err != nil {
			log.Printf("[Assignment] slot insert failed (v%d r%d t%d): %v", version, slot.Round, slot.Table, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to confirm assignments", "details": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "assignments confirmed",
		"version": version,
		"count":   len(body.Assignments),
	})
}

// GetAssignments returns the latest confirmed plan.
func (s *AssignmentService) GetAssignments(c *fiber.Ctx) error {
	if !s.DB.Migrator().HasTable(&models.Assignment{}) {
		return c.JSON(fiber.Map{"success": true, "assignments": []models.Assignment{}, "version": nil})
	}

	version, err := s.maxVersion()
	if err != nil {
		log.Printf("[Assignment] version lookup failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch assignments", "details": err.Error()})
	}
	if version == 0 {
		return c.JSON(fiber.Map{"success": true, "assignments": []models.Assignment{}, "version": nil})
	}

	var assignments []models.Assignment
	if err := s.DB.
		Where("version = ?", version).
		Order("round_num, table_num").
		Find(&assignments).Error; err != nil {
		log.Printf("[Assignment] fetch failed for version %d: %v", version, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch assignments", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "assignments": assignments, "version": version})
}

// GetConfirmedInfo returns the latest version's metadata, or version:null
// when nothing was ever confirmed.
func (s *AssignmentService) GetConfirmedInfo(c *fiber.Ctx) error {
	if !s.DB.Migrator().HasTable(&models.AssignmentVersion{}) {
		return c.JSON(fiber.Map{"success": true, "version": nil})
	}

	var meta models.AssignmentVersion
	err := s.DB.Order("version DESC").First(&meta).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(fiber.Map{"success": true, "version": nil})
	}
	if err != nil {
		log.Printf("[Assignment] info fetch failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch confirmation info", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"version":     meta.Version,
		"roundCount":  meta.RoundCount,
		"tableCount":  meta.TableCount,
		"confirmedAt": meta.ConfirmedAt.Format(time.RFC3339),
	})
}

type noShowPayload struct {
	CompanyName string `json:"companyName"`
}

// NoShow removes every latest-version slot involving the given company, on
// either side of the table. The removal is destructive: earlier versions
// keep their rows but retrieval never reads them.
func (s *AssignmentService) NoShow(c *fiber.Ctx) error {
	var body noShowPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	company := strings.TrimSpace(body.CompanyName)
	if company == "" {
		return c.Status(400).JSON(fiber.Map{"error": "companyName is required"})
	}

	if !s.DB.Migrator().HasTable(&models.Assignment{}) {
		return c.Status(404).JSON(fiber.Map{"error": "no confirmed assignments"})
	}
	version, err := s.maxVersion()
	if err != nil {
		log.Printf("[Assignment] version lookup failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to look up assignments", "details": err.Error()})
	}
	if version == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "no confirmed assignments"})
	}

	result := s.DB.
		Where("version = ? AND (tech_company = ? OR design_company = ?)", version, company, company).
		Delete(&models.Assignment{})
	if result.Error != nil {
		log.Printf("[Assignment] no-show delete failed for %q: %v", company, result.Error)
		return c.Status(500).JSON(fiber.Map{"error": "failed to remove assignments", "details": result.Error.Error()})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"deletedCount": result.RowsAffected,
		"version":      version,
	})
}

// ResetAssignments wipes every version and slot. Admin-only escape hatch.
func (s *AssignmentService) ResetAssignments(c *fiber.Ctx) error {
	if !s.DB.Migrator().HasTable(&models.Assignment{}) {
		return c.JSON(fiber.Map{"success": true, "deletedAssignments": 0, "deletedVersions": 0})
	}

	assignments := s.DB.Where("1 = 1").Delete(&models.Assignment{})
	if assignments.Error != nil {
		log.Printf("[Assignment] reset failed: %v", assignments.Error)
		return c.Status(500).JSON(fiber.Map{"error": "failed to reset assignments", "details": assignments.Error.Error()})
	}
	versions := s.DB.Where("1 = 1").Delete(&models.AssignmentVersion{})
	if versions.Error != nil {
		log.Printf("[Assignment] version reset failed: %v", versions.Error)
		return c.Status(500).JSON(fiber.Map{"error": "failed to reset versions", "details": versions.Error.Error()})
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"deletedAssignments": assignments.RowsAffected,
		"deletedVersions":    versions.RowsAffected,
	})
}

func (s *AssignmentService) maxVersion() (int, error) {
	if !s.DB.Migrator().HasTable(&models.AssignmentVersion{}) {
		return 0, nil
	}
	var version int
	if err := s.DB.Model(&models.AssignmentVersion{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&version).Error; err != nil {
		return 0, err
	}
	return version, nil
}
