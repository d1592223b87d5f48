package models

import "time"

// Absence marks a member unavailable from StartDate to EndDate inclusive.
type Absence struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeamMemberID uint      `gorm:"not null;index" json:"team_member_id"`
	StartDate    Date      `gorm:"type:varchar(10);not null;index" json:"start_date"`
	EndDate      Date      `gorm:"type:varchar(10);not null;index" json:"end_date"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Absence) TableName() string {
	return "absences"
}

// Covers reports whether d lies inside the absence.
func (a *Absence) Covers(d Date) bool {
	return !d.Before(a.StartDate) && !d.After(a.EndDate)
}

// Overlaps reports whether the absence intersects [from, to].
func (a *Absence) Overlaps(from, to Date) bool {
	return !a.StartDate.After(to) && !a.EndDate.Before(from)
}

// Days returns the number of calendar days covered.
func (a *Absence) Days() int {
	if a.EndDate.Before(a.StartDate) {
		return 0
	}
	return int(a.EndDate.Sub(a.StartDate.Time).Hours()/24) + 1
}
