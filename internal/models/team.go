package models

import "time"

// DefaultTeamColor is used for teams created without an explicit colour.
const DefaultTeamColor = "#2ecc71"

// Team groups members for filtering. Membership is optional.
type Team struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Color       string    `gorm:"type:varchar(7);not null" json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
