package models

import (
	"time"
)

// Event is one registration/matching event. Participants are split into two
// groups (A/B) and only same-group pairs are ever matched.
type Event struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	GroupAName   string     `json:"group_a_name" gorm:"default:'A그룹'"`
	GroupBName   string     `json:"group_b_name" gorm:"default:'B그룹'"`
	GroupAColor  string     `json:"group_a_color" gorm:"default:'#3B82F6'"`
	GroupBColor  string     `json:"group_b_color" gorm:"default:'#10B981'"`
	SessionCount int        `json:"session_count" gorm:"default:1"`
	TableCount   int        `json:"table_count" gorm:"default:10"`
	ConfigJSON   *string    `json:"config_json,omitempty" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}
