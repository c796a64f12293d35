// services/matching_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"meetup-matching-system/models"
	"meetup-matching-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// rankWeights is the generic-mode step table. There is deliberately no
// weight outside 1..5; an absent or out-of-range rank contributes 0.
var rankWeights = map[int]int{
	1: 100,
	2: 80,
	3: 60,
	4: 40,
	5: 20,
}

// WeightForRank converts a preference rank to its score contribution.
func WeightForRank(rank int) int {
	return rankWeights[rank]
}

type MatchingService struct {
	DB          *gorm.DB
	Preferences *PreferenceService
}

func NewMatchingService(db *gorm.DB, preferences *PreferenceService) *MatchingService {
	return &MatchingService{DB: db, Preferences: preferences}
}

// ComputeMatchScores enumerates every ordered same-group pair, skips
// self-pairs and participants flagged NONE, and scores each pair as the sum
// of both directions' rank weights. Pairs scoring 0 are dropped. The result
// is sorted by score descending with (participant id, target id) ascending
// as the deterministic tiebreak.
func ComputeMatchScores(participants []models.Participant, prefs []models.Preference) []models.MatchScore {
	prefMap := make(map[uint]map[uint]int)
	noneFlags := make(map[uint]bool)

	for _, pref := range prefs {
		if pref.IsNone() {
			noneFlags[pref.ParticipantID] = true
			continue
		}
		if pref.TargetID == nil || pref.Rank == nil {
			continue
		}
		if prefMap[pref.ParticipantID] == nil {
			prefMap[pref.ParticipantID] = make(map[uint]int)
		}
		prefMap[pref.ParticipantID][*pref.TargetID] = *pref.Rank
	}

	var scores []models.MatchScore
	for i := range participants {
		p1 := &participants[i]
		if noneFlags[p1.ID] {
			continue
		}
		for j := range participants {
			p2 := &participants[j]
			if p1.ID == p2.ID || p1.GroupType != p2.GroupType || noneFlags[p2.ID] {
				continue
			}

			score := 0
			var p1Rank, p2Rank *int
			if rank, ok := prefMap[p1.ID][p2.ID]; ok {
				score += WeightForRank(rank)
				r := rank
				p1Rank = &r
			}
			if rank, ok := prefMap[p2.ID][p1.ID]; ok {
				score += WeightForRank(rank)
				r := rank
				p2Rank = &r
			}

			if score <= 0 {
				continue
			}

			scores = append(scores, models.MatchScore{
				ParticipantID:      p1.ID,
				ParticipantName:    p1.Name,
				ParticipantCompany: p1.Company,
				TargetID:           p2.ID,
				TargetName:         p2.Name,
				TargetCompany:      p2.Company,
				Score:              score,
				ParticipantRank:    p1Rank,
				TargetRank:         p2Rank,
			})
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].ParticipantID != scores[j].ParticipantID {
			return scores[i].ParticipantID < scores[j].ParticipantID
		}
		return scores[i].TargetID < scores[j].TargetID
	})
	return scores
}

// ScoreMatching recomputes the candidate list live. Nothing is persisted
// here: scoring is a pure function over current preference state.
func (s *MatchingService) ScoreMatching(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var participants []models.Participant
	if err := s.DB.Where("event_id = ?", eventID).Find(&participants).Error; err != nil {
		log.Printf("[Matching] participant fetch failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants", "details": err.Error()})
	}
	if len(participants) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "event has no participants"})
	}

	prefs, err := s.Preferences.listAll(uint(eventID))
	if err != nil {
		log.Printf("[Matching] preference fetch failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch preferences", "details": err.Error()})
	}

	scores := ComputeMatchScores(participants, prefs)

	return c.JSON(fiber.Map{
		"success": true,
		"scores":  scores,
		"total":   len(scores),
	})
}

type approvePayload struct {
	Matches []struct {
		ParticipantID uint `json:"participant_id"`
		TargetID      uint `json:"target_id"`
		Score         int  `json:"score"`
		SessionNum    *int `json:"session_num"`
		TableNum      *int `json:"table_num"`
	} `json:"matches"`
}

// ApproveMatching replaces the event's full result set with the submitted
// pairs and regenerates the fallback snapshot. Per-row insert failures are
// logged and skipped, matching the import semantics.
func (s *MatchingService) ApproveMatching(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	var body approvePayload
	if err := c.BodyParser(&body); err != nil || body.Matches == nil {
		return c.Status(400).JSON(fiber.Map{"error": "matches are required"})
	}

	if err := s.DB.Where("event_id = ?", eventID).Delete(&models.MatchingResult{}).Error; err != nil {
		log.Printf("[Matching] clear failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to replace matching results", "details": err.Error()})
	}

	inserted := 0
	for _, match := range body.Matches {
		result := models.MatchingResult{
			EventID:       uint(eventID),
			ParticipantID: match.ParticipantID,
			TargetID:      match.TargetID,
			Score:         match.Score,
			SessionNum:    match.SessionNum,
			TableNum:      match.TableNum,
		}
		if err := s.DB.Create(&result).Error; err != nil {
			log.Printf("[Matching] result insert failed (%d-%d): %v", match.ParticipantID, match.TargetID, err)
			continue
		}
		inserted++
	}

	snapshot, err := s.buildSnapshot(uint(eventID))
	if err != nil {
		log.Printf("[Matching] snapshot build failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build matching snapshot", "details": err.Error()})
	}

	snapshotKey := fmt.Sprintf("matching_results_%d.json", eventID)
	if utils.SnapshotEnabled() {
		data, err := json.Marshal(snapshot)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := utils.UploadSnapshot(ctx, snapshotKey, data); err != nil {
				// the fallback channel is best-effort, approval already succeeded
				log.Printf("[Matching] snapshot upload failed: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   fmt.Sprintf("%d matches approved", inserted),
		"count":     inserted,
		"json_data": snapshot,
		"json_url":  "/static/" + snapshotKey,
	})
}

// ServeSnapshot renders the denormalized result document with a long cache
// lifetime so it can stand in for the API as a distribution channel.
func (s *MatchingService) ServeSnapshot(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	snapshot, err := s.buildSnapshot(uint(eventID))
	if err != nil {
		log.Printf("[Matching] snapshot fetch failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load matching results", "details": err.Error()})
	}

	c.Set("Cache-Control", "public, max-age=3600")
	return c.JSON(snapshot)
}

// ExportMatching is the admin view of approved results, joined with both
// participants and ordered by score.
func (s *MatchingService) ExportMatching(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	if !s.DB.Migrator().HasTable(&models.MatchingResult{}) {
		return c.JSON(fiber.Map{"success": true, "matches": []models.MatchingResultRow{}})
	}

	rows, err := s.fetchResultRows(uint(eventID), "mr.score DESC")
	if err != nil {
		log.Printf("[Matching] export failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matching results", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "matches": rows})
}

// Lookup searches approved results by participant or company name substring
// and groups the hits per participant.
func (s *MatchingService) Lookup(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event id"})
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "search term is required"})
	}

	term := "%" + name + "%"
	var rows []models.MatchingResultRow
	if err := s.DB.
		Table("matching_results mr").
		Select(resultRowSelect).
		Joins("JOIN participants p1 ON mr.participant_id = p1.id").
		Joins("JOIN participants p2 ON mr.target_id = p2.id").
		Where("mr.event_id = ?", eventID).
		Where("p1.name LIKE ? OR p1.company LIKE ? OR p2.name LIKE ? OR p2.company LIKE ?", term, term, term, term).
		Scan(&rows).Error; err != nil {
		log.Printf("[Matching] lookup failed for event %d: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "lookup failed", "details": err.Error()})
	}

	type lookupResult struct {
		ParticipantID      uint                     `json:"participant_id"`
		ParticipantName    string                   `json:"participant_name"`
		ParticipantCompany string                   `json:"participant_company"`
		ParticipantGroup   string                   `json:"participant_group"`
		Matches            []map[string]interface{} `json:"matches"`
	}

	byParticipant := map[uint]*lookupResult{}
	var order []uint
	for _, row := range rows {
		entry, ok := byParticipant[row.ParticipantID]
		if !ok {
			entry = &lookupResult{
				ParticipantID:      row.ParticipantID,
				ParticipantName:    row.ParticipantName,
				ParticipantCompany: row.ParticipantCompany,
				ParticipantGroup:   row.ParticipantGroup,
			}
			byParticipant[row.ParticipantID] = entry
			order = append(order, row.ParticipantID)
		}
		entry.Matches = append(entry.Matches, map[string]interface{}{
			"target_id":      row.TargetID,
			"target_name":    row.TargetName,
			"target_company": row.TargetCompany,
			"target_group":   row.TargetGroup,
			"score":          row.Score,
		})
	}

	results := make([]*lookupResult, 0, len(order))
	for _, id := range order {
		results = append(results, byParticipant[id])
	}

	return c.JSON(fiber.Map{"success": true, "results": results, "source": "database"})
}

const resultRowSelect = `
	mr.participant_id,
	mr.target_id,
	mr.score,
	mr.session_num,
	mr.table_num,
	p1.name AS participant_name,
	p1.company AS participant_company,
	p1.group_type AS participant_group,
	p2.name AS target_name,
	p2.company AS target_company,
	p2.group_type AS target_group`

func (s *MatchingService) fetchResultRows(eventID uint, orderBy string) ([]models.MatchingResultRow, error) {
	var rows []models.MatchingResultRow
	query := s.DB.
		Table("matching_results mr").
		Select(resultRowSelect).
		Joins("LEFT JOIN participants p1 ON mr.participant_id = p1.id").
		Joins("LEFT JOIN participants p2 ON mr.target_id = p2.id").
		Where("mr.event_id = ?", eventID)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MatchingService) buildSnapshot(eventID uint) (*models.MatchingSnapshot, error) {
	rows := []models.MatchingResultRow{}
	if s.DB.Migrator().HasTable(&models.MatchingResult{}) {
		fetched, err := s.fetchResultRows(eventID, "")
		if err != nil {
			return nil, err
		}
		if fetched != nil {
			rows = fetched
		}
	}

	return &models.MatchingSnapshot{
		EventID:     eventID,
		GeneratedAt: time.Now().UTC(),
		Matches:     rows,
	}, nil
}
