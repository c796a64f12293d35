package models

import (
	"time"
)

// Participant is one imported or hand-entered attendee of an event.
// AccessToken is a capability credential handed out at import time, not a
// login: whoever holds it may read the roster and submit preferences for
// this participant.
type Participant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	EventID        uint      `json:"event_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"not null"`
	Company        string    `json:"company" gorm:"not null"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	GroupType      string    `json:"group_type" gorm:"default:'A';index"`
	AccessToken    string    `json:"-" gorm:"uniqueIndex;not null"`
	IndustryTags   *string   `json:"industry_tags,omitempty" gorm:"type:text"`
	Interests      *string   `json:"interests,omitempty" gorm:"type:text"`
	BusinessType   *string   `json:"business_type,omitempty"`
	TeamInfo       *string   `json:"team_info,omitempty"`
	Representative *string   `json:"representative,omitempty"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Preferences []Preference `json:"preferences,omitempty" gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
}

// ParticipantPublic is the shape other participants are allowed to see:
// no phone, no access token.
type ParticipantPublic struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Company        string  `json:"company"`
	Email          *string `json:"email,omitempty"`
	GroupType      string  `json:"group_type"`
	IndustryTags   *string `json:"industry_tags,omitempty"`
	Interests      *string `json:"interests,omitempty"`
	BusinessType   *string `json:"business_type,omitempty"`
	TeamInfo       *string `json:"team_info,omitempty"`
	Representative *string `json:"representative,omitempty"`
}

func (p *Participant) Public() ParticipantPublic {
	return ParticipantPublic{
		ID:             p.ID,
		Name:           p.Name,
		Company:        p.Company,
		Email:          p.Email,
		GroupType:      p.GroupType,
		IndustryTags:   p.IndustryTags,
		Interests:      p.Interests,
		BusinessType:   p.BusinessType,
		TeamInfo:       p.TeamInfo,
		Representative: p.Representative,
	}
}
