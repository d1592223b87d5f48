package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssignmentFilter narrows an assignment listing. Zero values match everything.
type AssignmentFilter struct {
	MemberID         uint
	ResponsibilityID uint
	ShiftType        models.ShiftType
	// Date selects one day; From/To select an inclusive range.
	Date *models.Date
	From *models.Date
	To   *models.Date
}

type ShiftAssignmentRepository interface {
	Create(assignment *models.ShiftAssignment) error
	Update(assignment *models.ShiftAssignment) error
	Delete(id uint) error
	GetByID(id uint) (*models.ShiftAssignment, error)
	Find(filter AssignmentFilter) ([]models.ShiftAssignment, error)
	FindSlot(memberID uint, date models.Date, shift models.ShiftType) (*models.ShiftAssignment, error)
	SetResponsibility(memberID uint, from, to models.Date, responsibilityID *uint) (int64, error)
}

type GormShiftAssignmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftAssignmentRepository(db *gorm.DB) (*GormShiftAssignmentRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.ShiftAssignment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shift_assignments table")
		return nil, apperr.Storage(err, "migrate shift assignments")
	}

	return &GormShiftAssignmentRepository{db: db, logger: logger}, nil
}

func (r *GormShiftAssignmentRepository) Create(assignment *models.ShiftAssignment) error {
	fields := logrus.Fields{
		"member_id": assignment.TeamMemberID,
		"date":      assignment.Date.String(),
		"shift":     assignment.ShiftType.String(),
	}

	if err := r.db.Create(assignment).Error; err != nil {
		r.logger.WithError(err).WithFields(fields).Error("Failed to create shift assignment")
		return apperr.Storage(err, "create shift assignment")
	}

	r.logger.WithFields(fields).WithField("id", assignment.ID).Info("Shift assignment created")
	return nil
}

func (r *GormShiftAssignmentRepository) Update(assignment *models.ShiftAssignment) error {
	result := r.db.Model(assignment).
		Select("team_member_id", "date", "shift_type", "responsibility_id").
		Updates(assignment)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update shift assignment")
		return apperr.Storage(result.Error, "update shift assignment")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "shift assignment %d not found", assignment.ID)
	}

	r.logger.WithField("id", assignment.ID).Info("Shift assignment updated")
	return nil
}

func (r *GormShiftAssignmentRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "shift_assignments", &models.ShiftAssignment{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Shift assignment not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Shift assignment deleted")
	return nil
}

func (r *GormShiftAssignmentRepository) GetByID(id uint) (*models.ShiftAssignment, error) {
	var assignment models.ShiftAssignment
	err := r.db.First(&assignment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "shift assignment %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get shift assignment")
	}
	return &assignment, nil
}

func (r *GormShiftAssignmentRepository) Find(filter AssignmentFilter) ([]models.ShiftAssignment, error) {
	query := r.db.Model(&models.ShiftAssignment{})
	if filter.MemberID != 0 {
		query = query.Where("team_member_id = ?", filter.MemberID)
	}
	if filter.ResponsibilityID != 0 {
		query = query.Where("responsibility_id = ?", filter.ResponsibilityID)
	}
	if filter.ShiftType.IsValid() {
		query = query.Where("shift_type = ?", filter.ShiftType)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var assignments []models.ShiftAssignment
	if err := query.Order("date ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, apperr.Storage(err, "list shift assignments")
	}

	r.logger.WithField("count", len(assignments)).Debug("Retrieved shift assignments")
	return assignments, nil
}

// FindSlot returns the assignment occupying (member, date, shift), or nil.
func (r *GormShiftAssignmentRepository) FindSlot(memberID uint, date models.Date, shift models.ShiftType) (*models.ShiftAssignment, error) {
	var assignment models.ShiftAssignment
	err := r.db.
		Where("team_member_id = ? AND date = ? AND shift_type = ?", memberID, date, shift).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "find shift slot")
	}
	return &assignment, nil
}

// SetResponsibility sets responsibilityID on every shift of the member in
// [from, to] and returns how many shifts changed. A nil id clears it.
func (r *GormShiftAssignmentRepository) SetResponsibility(memberID uint, from, to models.Date, responsibilityID *uint) (int64, error) {
	result := r.db.Model(&models.ShiftAssignment{}).
		Where("team_member_id = ? AND date >= ? AND date <= ?", memberID, from, to).
		Update("responsibility_id", responsibilityID)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("member_id", memberID).Error("Failed to set responsibility")
		return 0, apperr.Storage(result.Error, "set responsibility")
	}

	r.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"from":      from.String(),
		"to":        to.String(),
		"updated":   result.RowsAffected,
	}).Info("Responsibility set for date range")
	return result.RowsAffected, nil
}
