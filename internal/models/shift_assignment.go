package models

import "time"

// ShiftAssignment schedules one member for one shift on one day.
// (TeamMemberID, Date, ShiftType) is unique.
type ShiftAssignment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TeamMemberID     uint      `gorm:"not null;uniqueIndex:idx_assignment_slot;index" json:"team_member_id"`
	Date             Date      `gorm:"type:varchar(10);not null;uniqueIndex:idx_assignment_slot;index" json:"date"`
	ShiftType        ShiftType `gorm:"type:varchar(10);not null;uniqueIndex:idx_assignment_slot" json:"shift_type"`
	ResponsibilityID *uint     `gorm:"index" json:"responsibility_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}

// Start returns the moment the shift begins.
func (a *ShiftAssignment) Start() time.Time {
	return a.Date.At(a.ShiftType.Start())
}

// End returns the moment the shift ends.
func (a *ShiftAssignment) End() time.Time {
	return a.Date.At(a.ShiftType.End())
}
