package service

import (
	"regexp"
	"shift-planner/internal/apperr"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"
)

// NameKind selects the table a name must be unique within.
type NameKind int

const (
	RoleName NameKind = iota
	ResponsibilityName
	TeamMemberName
	TeamName
)

func (k NameKind) String() string {
	switch k {
	case RoleName:
		return "role"
	case ResponsibilityName:
		return "responsibility"
	case TeamMemberName:
		return "team member"
	case TeamName:
		return "team"
	}
	return "entity"
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validator checks domain invariants before anything is written.
type Validator struct {
	store *repository.Store
	// blockAbsent rejects assignments on a member's absence days instead
	// of only flagging them.
	blockAbsent bool
}

func NewValidator(store *repository.Store, blockAbsent bool) *Validator {
	return &Validator{store: store, blockAbsent: blockAbsent}
}

// ValidateName rejects blank names and names already used in the same
// table by a row other than excludeID. Role, responsibility and team names
// compare case-insensitively.
func (v *Validator) ValidateName(kind NameKind, name string, excludeID uint) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.New(apperr.EmptyOrDuplicateName, "%s name must not be empty", kind)
	}

	var (
		taken bool
		err   error
	)
	switch kind {
	case RoleName:
		taken, err = v.store.Roles.NameTaken(name, excludeID)
	case ResponsibilityName:
		taken, err = v.store.Responsibilities.NameTaken(name, excludeID)
	case TeamMemberName:
		taken, err = v.store.Members.NameTaken(name, excludeID)
	case TeamName:
		taken, err = v.store.Teams.NameTaken(name, excludeID)
	}
	if err != nil {
		return err
	}
	if taken {
		return apperr.New(apperr.EmptyOrDuplicateName, "a %s named %q already exists", kind, name).
			WithDetail("name", name)
	}
	return nil
}

// ValidateColor accepts #rgb and #rrggbb.
func (v *Validator) ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return apperr.New(apperr.InvalidColor, "colour %q must look like #rrggbb", color)
	}
	return nil
}

// ValidateMember checks name rules, the required role, the optional team
// and the default shift.
func (v *Validator) ValidateMember(m *models.TeamMember) error {
	if err := v.ValidateName(TeamMemberName, m.Name, m.ID); err != nil {
		return err
	}
	if m.RoleID == 0 {
		return apperr.New(apperr.MissingReference, "a team member needs a role")
	}
	exists, err := v.store.Roles.Exists(m.RoleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.MissingReference, "role %d not found", m.RoleID)
	}
	if m.TeamID != nil {
		exists, err := v.store.Teams.Exists(*m.TeamID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.New(apperr.MissingReference, "team %d not found", *m.TeamID)
		}
	}
	if m.DefaultShift != nil && !m.DefaultShift.IsValid() {
		return apperr.New(apperr.InvalidInput, "unknown default shift")
	}
	return nil
}

// ValidateAssignment checks references and the (member, date, shift)
// uniqueness. An absence on that day is only an error when blocking is
// configured.
func (v *Validator) ValidateAssignment(a *models.ShiftAssignment) error {
	if !a.ShiftType.IsValid() {
		return apperr.New(apperr.InvalidInput, "unknown shift type")
	}
	if a.Date.IsZero() {
		return apperr.New(apperr.InvalidInput, "assignment date is required")
	}

	exists, err := v.store.Members.Exists(a.TeamMemberID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.MissingReference, "team member %d not found", a.TeamMemberID)
	}

	if a.ResponsibilityID != nil {
		exists, err := v.store.Responsibilities.Exists(*a.ResponsibilityID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.New(apperr.MissingReference, "responsibility %d not found", *a.ResponsibilityID)
		}
	}

	existing, err := v.store.Assignments.FindSlot(a.TeamMemberID, a.Date, a.ShiftType)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != a.ID {
		return apperr.New(apperr.DuplicateAssignment,
			"member is already scheduled for the %s shift on %s", a.ShiftType, a.Date).
			WithDetail("assignment_id", existing.ID)
	}

	if v.blockAbsent {
		absence, err := v.store.Absences.GetCurrentAbsence(a.TeamMemberID, a.Date)
		if err != nil {
			return err
		}
		if absence != nil {
			return apperr.New(apperr.MemberAbsent,
				"member is absent from %s to %s", absence.StartDate, absence.EndDate).
				WithDetail("absence_id", absence.ID)
		}
	}
	return nil
}

// ValidateAbsence checks the date range and the member reference.
func (v *Validator) ValidateAbsence(a *models.Absence) error {
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		return apperr.New(apperr.InvalidInput, "start and end dates are required")
	}
	if a.EndDate.Before(a.StartDate) {
		return apperr.New(apperr.InvalidRange,
			"end date %s is before start date %s", a.EndDate, a.StartDate)
	}

	exists, err := v.store.Members.Exists(a.TeamMemberID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.MissingReference, "team member %d not found", a.TeamMemberID)
	}
	return nil
}
