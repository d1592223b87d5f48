package models

import "time"

// Colours and label used when a shift has no responsibility.
const (
	UnassignedColor = "#808080"
	UnassignedLabel = "Unassigned"
)

type Responsibility struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Color       string    `gorm:"type:varchar(7);not null" json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Responsibility) TableName() string {
	return "responsibilities"
}
