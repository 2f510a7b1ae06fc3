package project

import (
	"time"
)

// Project is a unit of work owned by its creator and shared with a team.
// Ownership and team membership drive row-level visibility for non-managers.
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id"`
	Name        string    `json:"name" gorm:"column:name;not null"`
	Description string    `json:"description" gorm:"column:description"`
	Status      string    `json:"status" gorm:"column:status;default:active"`
	CreatedBy   string    `json:"created_by" gorm:"column:created_by;index;not null"`
	TeamIDs     []string  `json:"team_ids" gorm:"column:team_ids;serializer:json"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) OwnerID() string {
	return p.CreatedBy
}

func (p *Project) MemberIDs() []string {
	return p.TeamIDs
}

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)
