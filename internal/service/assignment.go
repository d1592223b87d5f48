package service

import (
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/pkg/workweek"

	"github.com/sirupsen/logrus"
)

// AssignmentInput carries the editable shift assignment fields.
type AssignmentInput struct {
	MemberID         uint
	Date             models.Date
	ShiftType        models.ShiftType
	ResponsibilityID *uint
}

// AssignmentResult is a stored assignment plus the absence it overlaps, if
// any. The overlap is a warning only.
type AssignmentResult struct {
	Assignment *models.ShiftAssignment
	Absence    *models.Absence
}

// OnHoliday reports whether the member is absent on the assigned day.
func (r *AssignmentResult) OnHoliday() bool {
	return r.Absence != nil
}

type AssignmentService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewAssignmentService(store *repository.Store, validator *Validator) *AssignmentService {
	return &AssignmentService{store: store, validator: validator, logger: logging.New()}
}

func (s *AssignmentService) List(filter repository.AssignmentFilter) ([]models.ShiftAssignment, error) {
	return s.store.Assignments.Find(filter)
}

func (s *AssignmentService) Get(id uint) (*models.ShiftAssignment, error) {
	return s.store.Assignments.GetByID(id)
}

func (s *AssignmentService) Create(in AssignmentInput) (*AssignmentResult, error) {
	assignment := &models.ShiftAssignment{}
	in.apply(assignment)
	if err := s.validator.ValidateAssignment(assignment); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"member_id": in.MemberID,
			"date":      in.Date.String(),
			"shift":     in.ShiftType.String(),
		}).Warn("Invalid shift assignment")
		return nil, err
	}

	if err := s.store.Assignments.Create(assignment); err != nil {
		return nil, err
	}
	return s.result(assignment)
}

func (s *AssignmentService) Update(id uint, in AssignmentInput) (*AssignmentResult, error) {
	assignment, err := s.store.Assignments.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.apply(assignment)
	if err := s.validator.ValidateAssignment(assignment); err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("Invalid shift assignment update")
		return nil, err
	}

	if err := s.store.Assignments.Update(assignment); err != nil {
		return nil, err
	}
	return s.result(assignment)
}

func (s *AssignmentService) Delete(id uint) error {
	return s.store.Assignments.Delete(id)
}

// SetWeekResponsibility gives every shift of the member from Monday to
// Friday of ref's week the responsibility, or clears it when responsibilityID
// is nil. It returns the number of shifts changed.
func (s *AssignmentService) SetWeekResponsibility(memberID uint, ref models.Date, responsibilityID *uint) (int, error) {
	exists, err := s.store.Members.Exists(memberID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperr.New(apperr.MissingReference, "team member %d not found", memberID)
	}
	if responsibilityID != nil {
		exists, err := s.store.Responsibilities.Exists(*responsibilityID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, apperr.New(apperr.MissingReference, "responsibility %d not found", *responsibilityID)
		}
	}

	days := workweek.Dates(ref.Time)
	from, to := models.DateOf(days[0]), models.DateOf(days[len(days)-1])
	updated, err := s.store.Assignments.SetResponsibility(memberID, from, to, responsibilityID)
	if err != nil {
		return 0, err
	}
	return int(updated), nil
}

func (s *AssignmentService) result(a *models.ShiftAssignment) (*AssignmentResult, error) {
	absence, err := s.store.Absences.GetCurrentAbsence(a.TeamMemberID, a.Date)
	if err != nil {
		return nil, err
	}
	if absence != nil {
		s.logger.WithFields(logrus.Fields{
			"assignment_id": a.ID,
			"absence_id":    absence.ID,
		}).Info("Shift assigned on an absence day")
	}
	return &AssignmentResult{Assignment: a, Absence: absence}, nil
}

func (in AssignmentInput) apply(a *models.ShiftAssignment) {
	a.TeamMemberID = in.MemberID
	a.Date = in.Date
	a.ShiftType = in.ShiftType
	a.ResponsibilityID = in.ResponsibilityID
}
