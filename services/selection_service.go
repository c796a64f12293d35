// services/selection_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"os"
	"sort"
	"strings"
	"time"

	"meetup-matching-system/models"
	"meetup-matching-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCompanyDataBytes = 1024 * 1024

type SelectionService struct {
	DB      *gorm.DB
	Rosters *RosterService
}

func NewSelectionService(db *gorm.DB, rosters *RosterService) *SelectionService {
	return &SelectionService{DB: db, Rosters: rosters}
}

type selectionPayload struct {
	Email       string          `json:"email"`
	CompanyName string          `json:"companyName"`
	Priority    int             `json:"priority"`
	ListType    string          `json:"listType"`
	CompanyData json.RawMessage `json:"companyData"`
}

func (p *selectionPayload) validate() string {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.ListType = strings.TrimSpace(p.ListType)

	if p.Email == "" || p.CompanyName == "" {
		return "email and companyName are required"
	}
	if len(p.Email) > 255 {
		return "email is too long"
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return "email format is invalid"
	}
	if len(p.CompanyName) > 200 {
		return "companyName is too long"
	}
	if p.Priority < 1 || p.Priority > 7 {
		return "priority must be between 1 and 7"
	}
	if p.ListType != models.ListTypeTech && p.ListType != models.ListTypeDesign {
		return "listType must be tech or design"
	}
	if len(p.CompanyData) > maxCompanyDataBytes {
		return "companyData is too large"
	}
	if len(p.CompanyData) > 0 && !json.Valid(p.CompanyData) {
		return "companyData must be valid JSON"
	}
	return ""
}

// SaveSelection upserts one priority slot and then removes any other slot in
// the same list holding the same company, so each company appears at most
// once per user per list.
func (s *SelectionService) SaveSelection(c *fiber.Ctx) error {
	var body selectionPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	selection := models.Selection{
		UserEmail:           body.Email,
		SelectedCompanyName: body.CompanyName,
		Priority:            body.Priority,
		ListType:            body.ListType,
		CompanyData:         string(body.CompanyData),
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}, {Name: "priority"}, {Name: "list_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_company_name", "company_data", "updated_at"}),
	}).Create(&selection).Error; err != nil {
		log.Printf("[Selection] save failed for %s: %v", body.Email, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save selection", "details": err.Error()})
	}

	// same company picked at another priority gets evicted
	if err := s.DB.
		Where("user_email = ? AND list_type = ? AND selected_company_name = ? AND priority <> ?",
			body.Email, body.ListType, body.CompanyName, body.Priority).
		Delete(&models.Selection{}).Error; err != nil {
		log.Printf("[Selection] cross-priority cleanup failed for %s: %v", body.Email, err)
	}

	webhookCalled := s.notifyWebhook(&body)

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "selection saved",
		"webhookCalled": webhookCalled,
	})
}

// notifyWebhook mirrors the save to an external sheet endpoint when
// configured. Failures are logged, never surfaced as errors.
func (s *SelectionService) notifyWebhook(body *selectionPayload) bool {
	webhookURL := os.Getenv("SHEETS_WEBHOOK_URL")
	if webhookURL == "" {
		return false
	}

	payload, err := json.Marshal(fiber.Map{
		"email":       body.Email,
		"companyName": body.CompanyName,
		"priority":    body.Priority,
		"listType":    body.ListType,
		"savedAt":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return false
	}

	resp, err := utils.WebhookClient.Post(webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Selection] ⚠️ webhook call failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("[Selection] ⚠️ webhook returned %d", resp.StatusCode)
	}
	return true
}

// ListSelections returns one user's rows when ?email= is given, otherwise
// the grouped admin view across all users.
func (s *SelectionService) ListSelections(c *fiber.Ctx) error {
	if !s.DB.Migrator().HasTable(&models.Selection{}) {
		return c.JSON(fiber.Map{"success": true, "selections": []models.Selection{}})
	}

	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	listType := strings.TrimSpace(c.Query("listType"))
	if email != "" {
		query := s.DB.Where("user_email = ?", email)
		if listType != "" {
			query = query.Where("list_type = ?", listType)
		}
		var selections []models.Selection
		if err := query.
			Order("list_type, priority").
			Find(&selections).Error; err != nil {
			log.Printf("[Selection] list failed for %s: %v", email, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch selections", "details": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "selections": selections})
	}

	selections, err := s.fetchAll(listType)
	if err != nil {
		log.Printf("[Selection] grouped list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch selections", "details": err.Error()})
	}

	grouped := GroupSelections(selections, s.rosterOrEmpty(models.ListTypeTech), s.rosterOrEmpty(models.ListTypeDesign))
	return c.JSON(fiber.Map{"success": true, "selections": grouped, "total": len(grouped)})
}

// DeleteSelection removes a user's rows, narrowed by priority and listType
// when provided.
func (s *SelectionService) DeleteSelection(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "email is required"})
	}

	if !s.DB.Migrator().HasTable(&models.Selection{}) {
		return c.JSON(fiber.Map{"success": true, "deleted": 0})
	}

	query := s.DB.Where("user_email = ?", email)
	if priority := c.QueryInt("priority"); priority > 0 {
		query = query.Where("priority = ?", priority)
	}
	if listType := strings.TrimSpace(c.Query("listType")); listType != "" {
		query = query.Where("list_type = ?", listType)
	}

	result := query.Delete(&models.Selection{})
	if result.Error != nil {
		log.Printf("[Selection] delete failed for %s: %v", email, result.Error)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete selections", "details": result.Error.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "deleted": result.RowsAffected})
}

// ExportSelections streams the grouped view as an Excel-friendly CSV with
// a UTF-8 BOM and every field quoted.
func (s *SelectionService) ExportSelections(c *fiber.Ctx) error {
	var grouped []models.GroupedSelection
	if s.DB.Migrator().HasTable(&models.Selection{}) {
		selections, err := s.fetchAll(strings.TrimSpace(c.Query("listType")))
		if err != nil {
			log.Printf("[Selection] export failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to export selections", "details": err.Error()})
		}
		grouped = GroupSelections(selections, s.rosterOrEmpty(models.ListTypeTech), s.rosterOrEmpty(models.ListTypeDesign))
	}

	csvBody := BuildSelectionCSV(grouped)
	filename := fmt.Sprintf("selections_%s.csv", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.SendString(csvBody)
}

func (s *SelectionService) fetchAll(listType string) ([]models.Selection, error) {
	query := s.DB.Order("user_email, list_type, priority")
	if listType != "" {
		query = query.Where("list_type = ?", listType)
	}
	var selections []models.Selection
	if err := query.Find(&selections).Error; err != nil {
		return nil, err
	}
	return selections, nil
}

func (s *SelectionService) rosterOrEmpty(listType string) *Roster {
	if s.Rosters == nil {
		return NewEmptyRoster()
	}
	return s.Rosters.Roster(listType)
}

// GroupSelections flattens raw selection rows into one row per
// (email, list type) with the seven priority slots as columns. The user's
// own company comes from the opposite roster: a user picking from the
// design list is a tech company, and vice versa.
func GroupSelections(selections []models.Selection, techRoster, designRoster *Roster) []models.GroupedSelection {
	type key struct {
		email    string
		listType string
	}

	byUser := map[key]*models.GroupedSelection{}
	latest := map[key]time.Time{}
	var order []key
	for _, sel := range selections {
		k := key{email: sel.UserEmail, listType: sel.ListType}
		entry, ok := byUser[k]
		if !ok {
			ownRoster := techRoster
			if sel.ListType == models.ListTypeTech {
				ownRoster = designRoster
			}
			userCompany, _ := ownRoster.CompanyForEmail(sel.UserEmail)
			entry = &models.GroupedSelection{
				Email:       sel.UserEmail,
				UserCompany: userCompany,
				ListType:    sel.ListType,
				CreatedAt:   sel.CreatedAt.Format(time.RFC3339),
			}
			byUser[k] = entry
			order = append(order, k)
		}

		switch sel.Priority {
		case 1:
			entry.Priority1 = sel.SelectedCompanyName
		case 2:
			entry.Priority2 = sel.SelectedCompanyName
		case 3:
			entry.Priority3 = sel.SelectedCompanyName
		case 4:
			entry.Priority4 = sel.SelectedCompanyName
		case 5:
			entry.Priority5 = sel.SelectedCompanyName
		case 6:
			entry.Priority6 = sel.SelectedCompanyName
		case 7:
			entry.Priority7 = sel.SelectedCompanyName
		}
		if sel.UpdatedAt.After(latest[k]) {
			latest[k] = sel.UpdatedAt
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].email != order[j].email {
			return order[i].email < order[j].email
		}
		return order[i].listType < order[j].listType
	})

	grouped := make([]models.GroupedSelection, 0, len(order))
	for _, k := range order {
		byUser[k].UpdatedAt = latest[k].Format(time.RFC3339)
		grouped = append(grouped, *byUser[k])
	}
	return grouped
}

var selectionCSVHeader = []string{
	"이메일", "소속 기업명", "목록 타입",
	"1순위", "2순위", "3순위", "4순위", "5순위", "6순위", "7순위",
	"생성 시간", "수정 시간",
}

// BuildSelectionCSV renders the grouped view. Every field is quoted with
// doubled inner quotes and the document starts with a UTF-8 BOM so Excel
// picks up the Korean headers.
func BuildSelectionCSV(grouped []models.GroupedSelection) string {
	var sb strings.Builder
	sb.WriteString("\uFEFF")
	sb.WriteString(csvLine(selectionCSVHeader))

	for _, g := range grouped {
		listLabel := "기술기업"
		if g.ListType == models.ListTypeDesign {
			listLabel = "디자인전문기업"
		}
		sb.WriteString(csvLine([]string{
			g.Email, g.UserCompany, listLabel,
			g.Priority1, g.Priority2, g.Priority3, g.Priority4,
			g.Priority5, g.Priority6, g.Priority7,
			g.CreatedAt, g.UpdatedAt,
		}))
	}
	return sb.String()
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}
