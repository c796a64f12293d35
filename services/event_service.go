// services/event_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

type eventPayload struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	GroupAName   *string `json:"group_a_name"`
	GroupBName   *string `json:"group_b_name"`
	GroupAColor  *string `json:"group_a_color"`
	GroupBColor  *string `json:"group_b_color"`
	SessionCount *int    `json:"session_count"`
	TableCount   *int    `json:"table_count"`
	ConfigJSON   *string `json:"config_json"`
}

func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	var body eventPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "event name is required"})
	}

	event := models.Event{
		Name:         strings.TrimSpace(*body.Name),
		SessionCount: 1,
		TableCount:   10,
	}
	if body.Description != nil {
		event.Description = strings.TrimSpace(*body.Description)
	}
	if t := parseDate(body.StartDate); t != nil {
		event.StartDate = t
	}
	if t := parseDate(body.EndDate); t != nil {
		event.EndDate = t
	}
	if body.GroupAName != nil && strings.TrimSpace(*body.GroupAName) != "" {
		event.GroupAName = strings.TrimSpace(*body.GroupAName)
	}
	if body.GroupBName != nil && strings.TrimSpace(*body.GroupBName) != "" {
		event.GroupBName = strings.TrimSpace(*body.GroupBName)
	}
	if body.GroupAColor != nil && strings.TrimSpace(*body.GroupAColor) != "" {
		event.GroupAColor = strings.TrimSpace(*body.GroupAColor)
	}
	if body.GroupBColor != nil && strings.TrimSpace(*body.GroupBColor) != "" {
		event.GroupBColor = strings.TrimSpace(*body.GroupBColor)
	}
	if body.SessionCount != nil && *body.SessionCount > 0 {
		event.SessionCount = *body.SessionCount
	}
	if body.TableCount != nil && *body.TableCount > 0 {
		event.TableCount = *body.TableCount
	}
	if body.ConfigJSON != nil {
		event.ConfigJSON = body.ConfigJSON
	}

	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("[Event] create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create event", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"event_id": event.ID,
		"message":  "event created",
	})
}

func (s *EventService) GetAllEvents(c *fiber.Ctx) error {
	var events []models.Event
	if err := s.DB.Order("created_at DESC").Find(&events).Error; err != nil {
		log.Printf("[Event] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch events", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "events": events})
}

func (s *EventService) GetEventByID(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var event models.Event
	if err := s.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		log.Printf("[Event] fetch %d failed: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch event", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "event": event})
}

// UpdateEventConfig applies a partial update: only the fields present in the
// request body are touched.
func (s *EventService) UpdateEventConfig(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var body eventPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	updates := map[string]interface{}{}
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.StartDate != nil {
		updates["start_date"] = parseDate(body.StartDate)
	}
	if body.EndDate != nil {
		updates["end_date"] = parseDate(body.EndDate)
	}
	if body.GroupAName != nil {
		updates["group_a_name"] = defaultIfBlank(*body.GroupAName, "A그룹")
	}
	if body.GroupBName != nil {
		updates["group_b_name"] = defaultIfBlank(*body.GroupBName, "B그룹")
	}
	if body.GroupAColor != nil {
		updates["group_a_color"] = defaultIfBlank(*body.GroupAColor, "#3B82F6")
	}
	if body.GroupBColor != nil {
		updates["group_b_color"] = defaultIfBlank(*body.GroupBColor, "#10B981")
	}
	if body.SessionCount != nil {
		updates["session_count"] = *body.SessionCount
	}
	if body.TableCount != nil {
		updates["table_count"] = *body.TableCount
	}
	if body.ConfigJSON != nil {
		updates["config_json"] = body.ConfigJSON
	}

	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no fields to update"})
	}

	result := s.DB.Model(&models.Event{}).Where("id = ?", eventID).Updates(updates)
	if result.Error != nil {
		log.Printf("[Event] update %d failed: %v", eventID, result.Error)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update event", "details": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "event not found"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "event config updated"})
}

// DeleteEvent removes an event and cascades to its participants,
// preferences and matching results.
func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var event models.Event
	if err := s.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch event", "details": err.Error()})
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.MatchingResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Preference{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	}); err != nil {
		log.Printf("[Event] delete %d failed: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete event", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "message": "event deleted"})
}

func parseDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			return &t
		}
	}
	return nil
}

func defaultIfBlank(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
