package models

import (
	"time"
)

// AssignmentVersion groups one confirmed round/table plan. Versions only
// ever grow; retrieval always reads the maximum version and ignores the rest.
type AssignmentVersion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Version     int       `json:"version" gorm:"uniqueIndex;not null"`
	RoundCount  int       `json:"round_count"`
	TableCount  int       `json:"table_count"`
	ConfirmedAt time.Time `json:"confirmed_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Assignment is one table seat in a confirmed plan. (version, round, table)
// is unique; confirming the same slot twice overwrites instead of erroring.
type Assignment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Version       int        `json:"version" gorm:"not null;index:idx_assignment_slot,unique"`
	RoundNum      int        `json:"round" gorm:"not null;index:idx_assignment_slot,unique"`
	TableNum      int        `json:"table" gorm:"not null;index:idx_assignment_slot,unique"`
	TechCompany   string     `json:"techCompany" gorm:"not null"`
	TechEmail     string     `json:"techEmail"`
	DesignCompany string     `json:"designCompany" gorm:"not null"`
	DesignEmail   string     `json:"designEmail"`
	Score         int        `json:"score"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}
