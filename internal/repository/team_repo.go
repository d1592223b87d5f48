package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(team *models.Team) error
	Update(team *models.Team) error
	Delete(id uint) error
	GetByID(id uint) (*models.Team, error)
	GetAll() ([]models.Team, error)
	Exists(id uint) (bool, error)
	NameTaken(name string, excludeID uint) (bool, error)
}

type GormTeamRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTeamRepository(db *gorm.DB) (*GormTeamRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.Team{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate teams table")
		return nil, apperr.Storage(err, "migrate teams")
	}

	return &GormTeamRepository{db: db, logger: logger}, nil
}

func (r *GormTeamRepository) Create(team *models.Team) error {
	if err := r.db.Create(team).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create team")
		return apperr.Storage(err, "create team")
	}

	r.logger.WithFields(logrus.Fields{
		"id":   team.ID,
		"name": team.Name,
	}).Info("Team created")
	return nil
}

func (r *GormTeamRepository) Update(team *models.Team) error {
	result := r.db.Model(team).Select("name", "color", "description").Updates(team)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update team")
		return apperr.Storage(result.Error, "update team")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "team %d not found", team.ID)
	}

	r.logger.WithField("id", team.ID).Info("Team updated")
	return nil
}

// Delete removes the team. Its members stay and lose their team.
func (r *GormTeamRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "teams", &models.Team{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Team not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Team deleted")
	return nil
}

func (r *GormTeamRepository) GetByID(id uint) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "team %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get team")
	}
	return &team, nil
}

func (r *GormTeamRepository) GetAll() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, apperr.Storage(err, "list teams")
	}
	return teams, nil
}

func (r *GormTeamRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Team{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage(err, "check team")
	}
	return count > 0, nil
}

// NameTaken compares names case-insensitively.
func (r *GormTeamRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var names []string
	err := r.db.Model(&models.Team{}).
		Where("id <> ?", excludeID).
		Pluck("name", &names).Error
	if err != nil {
		return false, apperr.Storage(err, "check team name")
	}
	return containsFold(names, name), nil
}
