package models

import (
	"time"
)

// MatchScore is a computed candidate pairing. It is never persisted: scoring
// is recomputed from current preference state on every request and only the
// approved result set is written to matching_results.
type MatchScore struct {
	ParticipantID      uint   `json:"participant_id"`
	ParticipantName    string `json:"participant_name"`
	ParticipantCompany string `json:"participant_company"`
	TargetID           uint   `json:"target_id"`
	TargetName         string `json:"target_name"`
	TargetCompany      string `json:"target_company"`
	Score              int    `json:"score"`
	ParticipantRank    *int   `json:"participant_rank"`
	TargetRank         *int   `json:"target_rank"`
}

// MatchingResult is an approved pairing. Approval replaces the full result
// set for the event, it does not merge.
type MatchingResult struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       uint      `json:"event_id" gorm:"not null;index"`
	ParticipantID uint      `json:"participant_id" gorm:"not null"`
	TargetID      uint      `json:"target_id" gorm:"not null"`
	Score         int       `json:"score"`
	SessionNum    *int      `json:"session_num,omitempty"`
	TableNum      *int      `json:"table_num,omitempty"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// MatchingResultRow is a MatchingResult joined with both participants,
// used by exports, lookup and the fallback snapshot.
type MatchingResultRow struct {
	ParticipantID      uint   `json:"participant_id"`
	TargetID           uint   `json:"target_id"`
	Score              int    `json:"score"`
	SessionNum         *int   `json:"session_num,omitempty"`
	TableNum           *int   `json:"table_num,omitempty"`
	ParticipantName    string `json:"participant_name"`
	ParticipantCompany string `json:"participant_company"`
	ParticipantGroup   string `json:"participant_group"`
	TargetName         string `json:"target_name"`
	TargetCompany      string `json:"target_company"`
	TargetGroup        string `json:"target_group"`
}

// MatchingSnapshot is the denormalized document served as the long-cache
// fallback distribution channel.
type MatchingSnapshot struct {
	EventID     uint                `json:"event_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Matches     []MatchingResultRow `json:"matches"`
}
