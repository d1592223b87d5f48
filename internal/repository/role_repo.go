package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(role *models.Role) error
	Update(role *models.Role) error
	Delete(id uint) error
	GetByID(id uint) (*models.Role, error)
	GetAll() ([]models.Role, error)
	Exists(id uint) (bool, error)
	NameTaken(name string, excludeID uint) (bool, error)
}

type GormRoleRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormRoleRepository(db *gorm.DB) (*GormRoleRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.Role{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate roles table")
		return nil, apperr.Storage(err, "migrate roles")
	}

	return &GormRoleRepository{db: db, logger: logger}, nil
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	if err := r.db.Create(role).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create role")
		return apperr.Storage(err, "create role")
	}

	r.logger.WithFields(logrus.Fields{
		"id":   role.ID,
		"name": role.Name,
	}).Info("Role created")
	return nil
}

func (r *GormRoleRepository) Update(role *models.Role) error {
	result := r.db.Model(role).Select("name", "color").Updates(role)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update role")
		return apperr.Storage(result.Error, "update role")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "role %d not found", role.ID)
	}

	r.logger.WithField("id", role.ID).Info("Role updated")
	return nil
}

func (r *GormRoleRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "roles", &models.Role{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Role not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Role deleted")
	return nil
}

func (r *GormRoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "role %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get role")
	}
	return &role, nil
}

func (r *GormRoleRepository) GetAll() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, apperr.Storage(err, "list roles")
	}
	return roles, nil
}

func (r *GormRoleRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Role{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage(err, "check role")
	}
	return count > 0, nil
}

// NameTaken compares names case-insensitively. SQLite LOWER only folds
// ASCII, so the comparison runs in Go.
func (r *GormRoleRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var names []string
	err := r.db.Model(&models.Role{}).
		Where("id <> ?", excludeID).
		Pluck("name", &names).Error
	if err != nil {
		return false, apperr.Storage(err, "check role name")
	}
	return containsFold(names, name), nil
}
