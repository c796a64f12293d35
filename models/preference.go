package models

import (
	"time"
)

// SpecialFlagNone marks an explicit "no interest in any match" submission.
// A participant has either the single NONE row or 1-5 ranked rows, never both;
// the replace operation enforces that by deleting before inserting.
const SpecialFlagNone = "NONE"

// Preference is one ranked choice (or the NONE marker) of a participant
// within an event. For ranked rows TargetID and Rank are set and SpecialFlag
// is nil; for the NONE marker it is the other way around.
type Preference struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       uint      `json:"event_id" gorm:"not null;index"`
	ParticipantID uint      `json:"participant_id" gorm:"not null;index"`
	TargetID      *uint     `json:"target_id"`
	Rank          *int      `json:"rank"`
	SpecialFlag   *string   `json:"special_flag"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (p *Preference) IsNone() bool {
	return p.SpecialFlag != nil && *p.SpecialFlag == SpecialFlagNone
}
