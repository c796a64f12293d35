// services/participant_service.go
package services

import (
	"fmt"
	"io"
	"log"
	"strings"

	"meetup-matching-system/models"
	"meetup-matching-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const importBatchSize = 100

type ParticipantService struct {
	DB *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{DB: db}
}

// ImportFromFile accepts a multipart CSV upload and registers one
// participant per usable row.
func (s *ParticipantService) ImportFromFile(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "CSV file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "failed to open uploaded file", "details": err.Error()})
	}
	defer file.Close()

	csvText, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "failed to read uploaded file", "details": err.Error()})
	}

	return s.processImport(c, uint(eventID), string(csvText))
}

// ImportFromURL fetches a remote CSV (typically a published spreadsheet) and
// runs the same import.
func (s *ParticipantService) ImportFromURL(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var body struct {
		CSVURL string `json:"csvUrl"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.CSVURL) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "csvUrl is required"})
	}

	resp, err := utils.HTTPClient.Get(body.CSVURL)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "failed to fetch CSV, check that the sheet is shared publicly",
			"details": err.Error(),
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return c.Status(400).JSON(fiber.Map{
			"error":   "failed to fetch CSV, check that the sheet is shared publicly",
			"details": fmt.Sprintf("status %d", resp.StatusCode),
		})
	}

	csvText, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "failed to read remote CSV", "details": err.Error()})
	}

	return s.processImport(c, uint(eventID), string(csvText))
}

func (s *ParticipantService) processImport(c *fiber.Ctx, eventID uint, csvText string) error {
	rows := utils.ParseCSV(csvText)
	if len(rows) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "CSV contains no data"})
	}

	participants := BuildParticipantsFromRows(eventID, rows)
	if len(participants) == 0 {
		headers := make([]string, 0, len(rows[0]))
		for h := range rows[0] {
			headers = append(headers, h)
		}
		return c.Status(400).JSON(fiber.Map{
			"error":         "no usable participant rows",
			"details":       fmt.Sprintf("read %d rows but none had both a name and a company", len(rows)),
			"sampleHeaders": headers,
		})
	}

	log.Printf("[Import] registering %d participants for event %d", len(participants), eventID)

	inserted := 0
	errorCount := 0
	var errorDetails []string

	for start := 0; start < len(participants); start += importBatchSize {
		end := start + importBatchSize
		if end > len(participants) {
			end = len(participants)
		}
		for i := start; i < end; i++ {
			p := participants[i]
			if err := s.DB.Create(&p).Error; err != nil {
				errorCount++
				msg := fmt.Sprintf("%s (%s): %v", p.Name, p.Company, err)
				errorDetails = append(errorDetails, msg)
				log.Printf("[Import] row failed: %s", msg)
				continue
			}
			inserted++
		}
	}

	log.Printf("[Import] done for event %d: %d inserted, %d failed", eventID, inserted, errorCount)

	resp := fiber.Map{
		"success":  true,
		"total":    len(participants),
		"inserted": inserted,
		"errors":   errorCount,
		"message":  fmt.Sprintf("%d participants registered", inserted),
	}
	if errorCount > 0 {
		resp["errorDetails"] = errorDetails
	}
	return c.JSON(resp)
}

// BuildParticipantsFromRows maps parsed CSV rows to participants. Rows
// without a resolvable name and company are skipped; names lose a trailing
// parenthetical title; every row gets a fresh access token. The in-batch
// token set is a sanity guard only, uuid collisions are not expected.
func BuildParticipantsFromRows(eventID uint, rows []map[string]string) []models.Participant {
	var participants []models.Participant
	tokenSet := make(map[string]bool, len(rows))

	for _, row := range rows {
		name := utils.FindField(row,
			"참석자 성함(직위)", "참석자 성함", "성함", "이름", "name", "Name", "NAME",
			"참석자", "담당자", "담당자명", "참가자", "참가자명",
		)
		company := utils.FindField(row,
			"기업명", "회사명", "회사", "company", "Company", "COMPANY",
			"기업", "소속", "소속기관",
		)

		cleanName := utils.StripTitleSuffix(name)
		if cleanName == "" || company == "" {
			continue
		}

		token := utils.NewAccessToken()
		for tokenSet[token] {
			token = utils.NewAccessToken()
		}
		tokenSet[token] = true

		p := models.Participant{
			EventID:     eventID,
			Name:        cleanName,
			Company:     company,
			GroupType:   "A",
			AccessToken: token,
		}

		if email := utils.FindField(row, "이메일 주소", "담당자 이메일 주소", "이메일", "email", "Email", "EMAIL"); email != "" {
			e := strings.ToLower(email)
			p.Email = &e
		}
		if phone := utils.FindField(row, "담당자 연락처", "전화번호", "연락처", "phone", "Phone", "PHONE"); phone != "" {
			p.Phone = &phone
		}
		if group := utils.FindField(row, "기업 구분", "그룹", "group_type", "Group", "GROUP"); group != "" {
			p.GroupType = strings.ToUpper(strings.TrimSpace(group))
		}
		if business := utils.FindField(row, "주요 사업 분야", "사업 분야", "사업유형", "business_type", "Business Type"); business != "" {
			p.BusinessType = &business
		}
		if tags := utils.FindField(row,
			"주요 기술/디자인 역량(주요 제품군 또는 실적 기재)",
			"주요 기술/디자인 역량", "기술 역량", "디자인 역량",
			"industry_tags", "Industry Tags",
		); tags != "" {
			p.IndustryTags = &tags
		}
		if interests := utils.FindField(row, "밋업 참가 목적", "참가 목적", "interests", "Interests"); interests != "" {
			p.Interests = &interests
		}
		if team := utils.FindField(row, "희망 참석인원", "참석인원", "인원"); team != "" {
			p.TeamInfo = &team
		}

		participants = append(participants, p)
	}

	return participants
}

// ListParticipants returns the other participants of the same event to a
// token holder, ordered by name.
func (s *ParticipantService) ListParticipants(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	current, ok := s.authByToken(c, uint(eventID))
	if !ok {
		return nil
	}

	var others []models.Participant
	if err := s.DB.
		Where("event_id = ? AND id != ?", eventID, current.ID).
		Order("name ASC").
		Find(&others).Error; err != nil {
		log.Printf("[Participant] list failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants", "details": err.Error()})
	}

	public := make([]models.ParticipantPublic, 0, len(others))
	for i := range others {
		public = append(public, others[i].Public())
	}

	return c.JSON(fiber.Map{"participants": public})
}

// ExportParticipants is the admin roster dump, access tokens included so the
// organizer can distribute the preference links.
func (s *ParticipantService) ExportParticipants(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	if !s.DB.Migrator().HasTable(&models.Participant{}) {
		return c.JSON(fiber.Map{"success": true, "participants": []models.Participant{}})
	}

	type exportRow struct {
		ID          uint    `json:"id"`
		Name        string  `json:"name"`
		Company     string  `json:"company"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		GroupType   string  `json:"group_type"`
		AccessToken string  `json:"access_token"`
	}

	var rows []exportRow
	if err := s.DB.Model(&models.Participant{}).
		Select("id, name, company, email, phone, group_type, access_token").
		Where("event_id = ?", eventID).
		Order("name ASC").
		Scan(&rows).Error; err != nil {
		log.Printf("[Participant] export failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "participants": rows})
}

// authByToken resolves the capability token for an event. On failure the
// error response has already been written and ok is false.
func (s *ParticipantService) authByToken(c *fiber.Ctx, eventID uint) (*models.Participant, bool) {
	token := c.Query("token")
	if token == "" {
		_ = c.Status(400).JSON(fiber.Map{"error": "token is required"})
		return nil, false
	}

	var participant models.Participant
	if err := s.DB.
		Where("access_token = ? AND event_id = ?", token, eventID).
		First(&participant).Error; err != nil {
		_ = c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		return nil, false
	}
	return &participant, true
}
