// services/roster.go
package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"meetup-matching-system/models"
	"meetup-matching-system/utils"
)

// Header aliases tried in order when locating roster columns. The sheets are
// maintained by hand and the column titles drift.
var rosterEmailAliases = []string{"사용자 이름", "이메일", "이메일 주소", "email", "Email"}
var rosterCompanyAliases = []string{"기업명", "멘토명", "기술기업명", "디자인전문기업", "회사명", "company", "Company"}

// Roster is the authoritative (email → company) mapping for one list type,
// loaded from a published CSV. An empty Roster is a valid degraded state:
// every selection is then treated as roster-invalid.
type Roster struct {
	EmailToCompany map[string]string // lowercased email -> canonical company name
	KeyToEmail     map[string]string // normalized company key -> email
	ValidKeys      map[string]bool   // normalized company keys present in the sheet
}

func NewEmptyRoster() *Roster {
	return &Roster{
		EmailToCompany: map[string]string{},
		KeyToEmail:     map[string]string{},
		ValidKeys:      map[string]bool{},
	}
}

// CompanyForEmail resolves an email to its own canonical company name.
func (r *Roster) CompanyForEmail(email string) (string, bool) {
	company, ok := r.EmailToCompany[strings.ToLower(strings.TrimSpace(email))]
	return company, ok
}

// EmailForCompany is the reverse lookup on the normalized company key.
func (r *Roster) EmailForCompany(name string) (string, bool) {
	email, ok := r.KeyToEmail[utils.NormalizeCompanyKey(name)]
	return email, ok
}

// IsValidCompany reports whether a selected company name still exists in the
// roster, compared on the normalized key.
func (r *Roster) IsValidCompany(name string) bool {
	return r.ValidKeys[utils.NormalizeCompanyKey(name)]
}

// ParseRoster builds a Roster from raw CSV text. A missing email or company
// header disables the roster entirely for the run (empty mapping), it is not
// a hard failure.
func ParseRoster(csvText string) *Roster {
	roster := NewEmptyRoster()

	rows := utils.ParseCSV(csvText)
	if len(rows) == 0 {
		return roster
	}

	emailHeader := pickHeader(rows[0], rosterEmailAliases)
	companyHeader := pickHeader(rows[0], rosterCompanyAliases)
	if emailHeader == "" || companyHeader == "" {
		log.Printf("[Roster] no usable email/company header found, roster disabled for this run")
		return roster
	}

	for _, row := range rows {
		email := strings.ToLower(strings.TrimSpace(row[emailHeader]))
		company := strings.TrimSpace(row[companyHeader])
		if email == "" || company == "" {
			continue
		}
		roster.EmailToCompany[email] = company
		key := utils.NormalizeCompanyKey(company)
		roster.KeyToEmail[key] = email
		roster.ValidKeys[key] = true
	}
	return roster
}

func pickHeader(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if _, ok := row[alias]; ok {
			return alias
		}
	}
	// normalized fallback: the sheets sometimes carry stray spacing
	normalized := make(map[string]string, len(row))
	for key := range row {
		normalized[utils.NormalizeHeader(key)] = key
	}
	for _, alias := range aliases {
		if original, ok := normalized[utils.NormalizeHeader(alias)]; ok {
			return original
		}
	}
	return ""
}

// RosterService caches the per-list rosters and refreshes them on demand or
// from the periodic worker. A fetch failure keeps the last good snapshot.
type RosterService struct {
	urls  map[string]string
	mu    sync.RWMutex
	cache map[string]*Roster
}

func NewRosterService() *RosterService {
	return &RosterService{
		urls: map[string]string{
			models.ListTypeTech:   os.Getenv("TECH_ROSTER_CSV_URL"),
			models.ListTypeDesign: os.Getenv("DESIGN_ROSTER_CSV_URL"),
		},
		cache: map[string]*Roster{},
	}
}

// Roster returns the cached roster for a list type, fetching it on first
// use. Degrades to an empty roster when the source is unavailable.
func (s *RosterService) Roster(listType string) *Roster {
	s.mu.RLock()
	cached, ok := s.cache[listType]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	if err := s.Refresh(listType); err != nil {
		log.Printf("[Roster] fetch failed for %s: %v", listType, err)
		return NewEmptyRoster()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.cache[listType]; ok {
		return cached
	}
	return NewEmptyRoster()
}

// Refresh re-fetches one roster from its published CSV URL.
func (s *RosterService) Refresh(listType string) error {
	url := s.urls[listType]
	if url == "" {
		return fmt.Errorf("no roster URL configured for list type %q", listType)
	}

	resp, err := utils.HTTPClient.Get(url)
	if err != nil {
		return fmt.Errorf("roster fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("roster fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("roster read failed: %w", err)
	}

	roster := ParseRoster(string(body))

	s.mu.Lock()
	s.cache[listType] = roster
	s.mu.Unlock()

	log.Printf("[Roster] refreshed %s roster: %d companies", listType, len(roster.ValidKeys))
	return nil
}

// RefreshAll refreshes every configured roster, logging failures per list.
func (s *RosterService) RefreshAll() {
	for listType, url := range s.urls {
		if url == "" {
			continue
		}
		if err := s.Refresh(listType); err != nil {
			log.Printf("[Roster] refresh failed for %s: %v", listType, err)
		}
	}
}
