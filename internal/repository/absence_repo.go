package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AbsenceFilter narrows an absence listing. From/To select absences that
// overlap the inclusive range.
type AbsenceFilter struct {
	MemberID uint
	From     *models.Date
	To       *models.Date
}

type AbsenceRepository interface {
	Create(absence *models.Absence) error
	Update(absence *models.Absence) error
	Delete(id uint) error
	GetByID(id uint) (*models.Absence, error)
	Find(filter AbsenceFilter) ([]models.Absence, error)
	GetCurrentAbsence(memberID uint, date models.Date) (*models.Absence, error)
}

type GormAbsenceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAbsenceRepository(db *gorm.DB) (*GormAbsenceRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.Absence{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate absences table")
		return nil, apperr.Storage(err, "migrate absences")
	}

	return &GormAbsenceRepository{db: db, logger: logger}, nil
}

func (r *GormAbsenceRepository) Create(absence *models.Absence) error {
	if err := r.db.Create(absence).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create absence")
		return apperr.Storage(err, "create absence")
	}

	r.logger.WithFields(logrus.Fields{
		"id":        absence.ID,
		"member_id": absence.TeamMemberID,
		"start":     absence.StartDate.String(),
		"end":       absence.EndDate.String(),
	}).Info("Absence created")
	return nil
}

func (r *GormAbsenceRepository) Update(absence *models.Absence) error {
	result := r.db.Model(absence).
		Select("team_member_id", "start_date", "end_date", "reason").
		Updates(absence)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update absence")
		return apperr.Storage(result.Error, "update absence")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "absence %d not found", absence.ID)
	}

	r.logger.WithField("id", absence.ID).Info("Absence updated")
	return nil
}

func (r *GormAbsenceRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "absences", &models.Absence{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Absence not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Absence deleted")
	return nil
}

func (r *GormAbsenceRepository) GetByID(id uint) (*models.Absence, error) {
	var absence models.Absence
	err := r.db.First(&absence, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "absence %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get absence")
	}
	return &absence, nil
}

func (r *GormAbsenceRepository) Find(filter AbsenceFilter) ([]models.Absence, error) {
	query := r.db.Model(&models.Absence{})
	if filter.MemberID != 0 {
		query = query.Where("team_member_id = ?", filter.MemberID)
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", *filter.To)
	}
	if filter.From != nil {
		query = query.Where("end_date >= ?", *filter.From)
	}

	var absences []models.Absence
	if err := query.Order("start_date DESC, id ASC").Find(&absences).Error; err != nil {
		return nil, apperr.Storage(err, "list absences")
	}
	return absences, nil
}

// GetCurrentAbsence returns an absence of the member covering date, or nil.
func (r *GormAbsenceRepository) GetCurrentAbsence(memberID uint, date models.Date) (*models.Absence, error) {
	var absence models.Absence
	err := r.db.Where("team_member_id = ? AND start_date <= ? AND end_date >= ?",
		memberID, date, date).
		First(&absence).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "get current absence")
	}
	return &absence, nil
}
