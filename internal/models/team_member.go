package models

import "time"

type TeamMember struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null;uniqueIndex" json:"name"`
	RoleID uint   `gorm:"not null;index" json:"role_id"`
	TeamID *uint  `gorm:"index" json:"team_id,omitempty"`
	// Active members take part in weekday auto-fill.
	Active bool `gorm:"not null" json:"active"`
	// DefaultShift is the shift auto-fill assigns; nil skips the member.
	DefaultShift *ShiftType `gorm:"type:varchar(10)" json:"default_shift,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// AutoFillShift returns the shift auto-fill should use for the member.
func (m *TeamMember) AutoFillShift() (ShiftType, bool) {
	if !m.Active || m.DefaultShift == nil || !m.DefaultShift.IsValid() {
		return 0, false
	}
	return *m.DefaultShift, true
}
