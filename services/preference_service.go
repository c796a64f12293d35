// services/preference_service.go
package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PreferenceService struct {
	DB           *gorm.DB
	Participants *ParticipantService
}

func NewPreferenceService(db *gorm.DB, participants *ParticipantService) *PreferenceService {
	return &PreferenceService{DB: db, Participants: participants}
}

// GetPreferenceForm returns the token holder's own identity, used by the
// preference form to greet the participant.
func (s *PreferenceService) GetPreferenceForm(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	participant, ok := s.Participants.authByToken(c, uint(eventID))
	if !ok {
		return nil
	}

	return c.JSON(fiber.Map{
		"participant": fiber.Map{
			"id":        participant.ID,
			"name":      participant.Name,
			"company":   participant.Company,
			"email":     participant.Email,
			"groupType": participant.GroupType,
		},
	})
}

type preferencePayload struct {
	Rankings    map[string]uint `json:"rankings"`
	SpecialFlag *string         `json:"special_flag"`
}

// RankedChoice is one validated (rank, target) pair from a submission.
type RankedChoice struct {
	Rank     int
	TargetID uint
}

// ValidateRankings checks a submission against the rank rules: rank 1
// mandatory, every rank within 1..5, no duplicates. Target existence is
// checked separately because it needs the database.
func ValidateRankings(rankings map[string]uint) ([]RankedChoice, error) {
	if _, ok := rankings["1"]; !ok {
		return nil, fmt.Errorf("rank 1 is required")
	}

	seen := make(map[int]bool, len(rankings))
	choices := make([]RankedChoice, 0, len(rankings))
	for rankStr, targetID := range rankings {
		rank, err := strconv.Atoi(rankStr)
		if err != nil || rank < 1 || rank > 5 {
			return nil, fmt.Errorf("invalid rank %q: ranks must be between 1 and 5", rankStr)
		}
		if targetID == 0 {
			return nil, fmt.Errorf("invalid target participant id for rank %d", rank)
		}
		if seen[rank] {
			return nil, fmt.Errorf("duplicate rank %d", rank)
		}
		seen[rank] = true
		choices = append(choices, RankedChoice{Rank: rank, TargetID: targetID})
	}

	sort.Slice(choices, func(i, j int) bool { return choices[i].Rank < choices[j].Rank })
	return choices, nil
}

// SubmitPreferences replaces the participant's full preference set: either
// the NONE marker or 1-5 ranked rows. Validation runs first and rejects the
// whole submission; the write phase is then best-effort per row, a single
// failed insert is logged and skipped rather than aborting the rest.
func (s *PreferenceService) SubmitPreferences(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	participant, ok := s.Participants.authByToken(c, uint(eventID))
	if !ok {
		return nil
	}

	var body preferencePayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if body.SpecialFlag != nil && *body.SpecialFlag == models.SpecialFlagNone {
		if err := s.DB.
			Where("event_id = ? AND participant_id = ?", eventID, participant.ID).
			Delete(&models.Preference{}).Error; err != nil {
			log.Printf("[Preference] clear failed for participant %d: %v", participant.ID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences", "details": err.Error()})
		}

		flag := models.SpecialFlagNone
		none := models.Preference{
			EventID:       uint(eventID),
			ParticipantID: participant.ID,
			SpecialFlag:   &flag,
		}
		if err := s.DB.Create(&none).Error; err != nil {
			log.Printf("[Preference] NONE insert failed for participant %d: %v", participant.ID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences", "details": err.Error()})
		}

		return c.JSON(fiber.Map{"success": true, "message": "preferences saved"})
	}

	choices, err := ValidateRankings(body.Rankings)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	// every target must exist in this event; reject on the first miss
	for _, choice := range choices {
		var count int64
		if err := s.DB.Model(&models.Participant{}).
			Where("id = ? AND event_id = ?", choice.TargetID, eventID).
			Count(&count).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to verify target participant", "details": err.Error()})
		}
		if count == 0 {
			return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("participant not found: %d", choice.TargetID)})
		}
	}

	if err := s.DB.
		Where("event_id = ? AND participant_id = ?", eventID, participant.ID).
		Delete(&models.Preference{}).Error; err != nil {
		log.Printf("[Preference] clear failed for participant %d: %v", participant.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save preferences", "details": err.Error()})
	}

	inserted := 0
	for _, choice := range choices {
		rank := choice.Rank
		targetID := choice.TargetID
		pref := models.Preference{
			EventID:       uint(eventID),
			ParticipantID: participant.ID,
			TargetID:      &targetID,
			Rank:          &rank,
		}
		if err := s.DB.Create(&pref).Error; err != nil {
			// validation already passed, keep going for the rest
			log.Printf("[Preference] insert failed for rank %d of participant %d: %v", rank, participant.ID, err)
			continue
		}
		inserted++
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d preferences saved", inserted),
		"count":   inserted,
	})
}

// listAll returns every preference row of an event for scoring.
func (s *PreferenceService) listAll(eventID uint) ([]models.Preference, error) {
	var prefs []models.Preference
	if err := s.DB.Where("event_id = ?", eventID).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	return prefs, nil
}
