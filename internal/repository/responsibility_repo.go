package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ResponsibilityRepository interface {
	Create(responsibility *models.Responsibility) error
	Update(responsibility *models.Responsibility) error
	Delete(id uint) error
	GetByID(id uint) (*models.Responsibility, error)
	GetAll() ([]models.Responsibility, error)
	Exists(id uint) (bool, error)
	NameTaken(name string, excludeID uint) (bool, error)
}

type GormResponsibilityRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormResponsibilityRepository(db *gorm.DB) (*GormResponsibilityRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.Responsibility{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate responsibilities table")
		return nil, apperr.Storage(err, "migrate responsibilities")
	}

	return &GormResponsibilityRepository{db: db, logger: logger}, nil
}

func (r *GormResponsibilityRepository) Create(responsibility *models.Responsibility) error {
	if err := r.db.Create(responsibility).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create responsibility")
		return apperr.Storage(err, "create responsibility")
	}

	r.logger.WithFields(logrus.Fields{
		"id":   responsibility.ID,
		"name": responsibility.Name,
	}).Info("Responsibility created")
	return nil
}

func (r *GormResponsibilityRepository) Update(responsibility *models.Responsibility) error {
	result := r.db.Model(responsibility).Select("name", "color", "description").Updates(responsibility)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update responsibility")
		return apperr.Storage(result.Error, "update responsibility")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "responsibility %d not found", responsibility.ID)
	}

	r.logger.WithField("id", responsibility.ID).Info("Responsibility updated")
	return nil
}

func (r *GormResponsibilityRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "responsibilities", &models.Responsibility{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Responsibility not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Responsibility deleted")
	return nil
}

func (r *GormResponsibilityRepository) GetByID(id uint) (*models.Responsibility, error) {
	var item models.Responsibility
	err := r.db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "responsibility %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get responsibility")
	}
	return &item, nil
}

func (r *GormResponsibilityRepository) GetAll() ([]models.Responsibility, error) {
	var items []models.Responsibility
	if err := r.db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, apperr.Storage(err, "list responsibilities")
	}
	return items, nil
}

func (r *GormResponsibilityRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Responsibility{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage(err, "check responsibility")
	}
	return count > 0, nil
}

// NameTaken compares names case-insensitively. SQLite LOWER only folds
// ASCII, so the comparison runs in Go.
func (r *GormResponsibilityRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var names []string
	err := r.db.Model(&models.Responsibility{}).
		Where("id <> ?", excludeID).
		Pluck("name", &names).Error
	if err != nil {
		return false, apperr.Storage(err, "check responsibility name")
	}
	return containsFold(names, name), nil
}
