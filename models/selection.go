package models

import (
	"time"
)

const (
	ListTypeTech   = "tech"
	ListTypeDesign = "design"
)

// Selection is one ranked company pick in the two-list meetup mode.
// At most one row exists per (email, priority, list_type); the save path
// upserts and then deletes any other-priority row naming the same company
// for that user, so a company appears at most once per list.
type Selection struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	UserEmail           string    `json:"user_email" gorm:"not null;index:idx_selection_slot,unique"`
	SelectedCompanyName string    `json:"selected_company_name" gorm:"not null"`
	Priority            int       `json:"priority" gorm:"not null;index:idx_selection_slot,unique"`
	ListType            string    `json:"list_type" gorm:"not null;index:idx_selection_slot,unique"`
	CompanyData         string    `json:"-" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// GroupedSelection is the admin/export view: one row per (email, list type)
// with the seven priority slots flattened into columns.
type GroupedSelection struct {
	Email       string `json:"email"`
	UserCompany string `json:"userCompany"`
	ListType    string `json:"listType"`
	Priority1   string `json:"priority1"`
	Priority2   string `json:"priority2"`
	Priority3   string `json:"priority3"`
	Priority4   string `json:"priority4"`
	Priority5   string `json:"priority5"`
	Priority6   string `json:"priority6"`
	Priority7   string `json:"priority7"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
