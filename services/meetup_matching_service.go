// services/meetup_matching_service.go
package services

import (
	"log"
	"sort"
	"strings"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PriorityScore converts a two-list priority slot to its score
// contribution: slot p in 1..7 is worth 8-p points, anything else 0.
func PriorityScore(priority int) int {
	if priority < 1 || priority > 7 {
		return 0
	}
	return 8 - priority
}

type MeetupMatchingService struct {
	DB      *gorm.DB
	Rosters *RosterService
}

func NewMeetupMatchingService(db *gorm.DB, rosters *RosterService) *MeetupMatchingService {
	return &MeetupMatchingService{DB: db, Rosters: rosters}
}

// MeetupMatch is one tech/design pairing candidate. Mutual pairs carry both
// priorities; one-sided pairs carry only the choosing side's.
type MeetupMatch struct {
	TechEmail      string `json:"techEmail"`
	TechCompany    string `json:"techCompany"`
	DesignEmail    string `json:"designEmail"`
	DesignCompany  string `json:"designCompany"`
	TechPriority   *int   `json:"techPriority"`
	DesignPriority *int   `json:"designPriority"`
	TotalScore     int    `json:"totalScore"`
	Mutual         bool   `json:"mutual"`
}

// selectionView is one side's picks keyed by the counterpart company's
// roster email.
type selectionView struct {
	company string
	picks   map[string]int
}

// ComputeMeetupMatching builds the candidate list from raw selection rows.
// Rows with list_type "design" are a tech company picking design companies
// and vice versa. Selections naming companies absent from the counterpart
// roster are dropped, as are users absent from their own roster. Mutual
// pairs score the sum of both priorities, one-sided pairs just the one.
func ComputeMeetupMatching(selections []models.Selection, techRoster, designRoster *Roster) []MeetupMatch {
	techSide := collectSide(selections, models.ListTypeDesign, techRoster, designRoster)
	designSide := collectSide(selections, models.ListTypeTech, designRoster, techRoster)

	var matches []MeetupMatch
	visited := map[string]bool{}

	for techEmail, tech := range techSide {
		for designEmail, techPriority := range tech.picks {
			pairKey := techEmail + "|" + designEmail
			if visited[pairKey] {
				continue
			}
			visited[pairKey] = true

			tp := techPriority
			match := MeetupMatch{
				TechEmail:     techEmail,
				TechCompany:   tech.company,
				DesignEmail:   designEmail,
				DesignCompany: designRoster.emailCompany(designEmail),
				TechPriority:  &tp,
				TotalScore:    PriorityScore(techPriority),
			}

			if design, ok := designSide[designEmail]; ok {
				if designPriority, picked := design.picks[techEmail]; picked {
					dp := designPriority
					match.DesignPriority = &dp
					match.TotalScore += PriorityScore(designPriority)
					match.Mutual = true
				}
			}
			matches = append(matches, match)
		}
	}

	// design-side one-way picks not covered by the tech pass
	for designEmail, design := range designSide {
		for techEmail, designPriority := range design.picks {
			pairKey := techEmail + "|" + designEmail
			if visited[pairKey] {
				continue
			}
			visited[pairKey] = true

			dp := designPriority
			matches = append(matches, MeetupMatch{
				TechEmail:      techEmail,
				TechCompany:    techRoster.emailCompany(techEmail),
				DesignEmail:    designEmail,
				DesignCompany:  design.company,
				DesignPriority: &dp,
				TotalScore:     PriorityScore(designPriority),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].TotalScore != matches[j].TotalScore {
			return matches[i].TotalScore > matches[j].TotalScore
		}
		if matches[i].TechEmail != matches[j].TechEmail {
			return matches[i].TechEmail < matches[j].TechEmail
		}
		return matches[i].DesignEmail < matches[j].DesignEmail
	})
	return matches
}

// collectSide gathers one side's selections. listType names the list being
// picked FROM, ownRoster is the picking side's roster and targetRoster the
// counterpart's.
func collectSide(selections []models.Selection, listType string, ownRoster, targetRoster *Roster) map[string]selectionView {
	side := map[string]selectionView{}
	for _, sel := range selections {
		if sel.ListType != listType {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(sel.UserEmail))
		ownCompany, ok := ownRoster.CompanyForEmail(email)
		if !ok {
			continue
		}
		targetEmail, ok := targetRoster.EmailForCompany(sel.SelectedCompanyName)
		if !ok {
			continue
		}

		view, exists := side[email]
		if !exists {
			view = selectionView{company: ownCompany, picks: map[string]int{}}
		}
		// keep the best (lowest) priority if the same target repeats
		if current, seen := view.picks[targetEmail]; !seen || sel.Priority < current {
			view.picks[targetEmail] = sel.Priority
		}
		side[email] = view
	}
	return side
}

func (r *Roster) emailCompany(email string) string {
	company, _ := r.CompanyForEmail(email)
	return company
}

// GetMatching recomputes the candidate list from current selections and
// rosters. Nothing is persisted: assignment rounds are confirmed separately.
func (s *MeetupMatchingService) GetMatching(c *fiber.Ctx) error {
	if !s.DB.Migrator().HasTable(&models.Selection{}) {
		return c.JSON(fiber.Map{"success": true, "matches": []MeetupMatch{}, "total": 0})
	}

	var selections []models.Selection
	if err := s.DB.Find(&selections).Error; err != nil {
		log.Printf("[MeetupMatching] selection fetch failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch selections", "details": err.Error()})
	}

	techRoster := s.Rosters.Roster(models.ListTypeTech)
	designRoster := s.Rosters.Roster(models.ListTypeDesign)
	matches := ComputeMeetupMatching(selections, techRoster, designRoster)

	mutualCount := 0
	for _, m := range matches {
		if m.Mutual {
			mutualCount++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"matches": matches,
		"total":   len(matches),
		"mutual":  mutualCount,
	})
}
