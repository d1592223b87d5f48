package repository

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MemberFilter narrows a member listing. Zero values match everything.
type MemberFilter struct {
	ActiveOnly bool
	RoleID     uint
	TeamID     uint
}

type TeamMemberRepository interface {
	Create(member *models.TeamMember) error
	Update(member *models.TeamMember) error
	Delete(id uint) error
	GetByID(id uint) (*models.TeamMember, error)
	GetByIDs(ids []uint) (map[uint]models.TeamMember, error)
	Find(filter MemberFilter) ([]models.TeamMember, error)
	Exists(id uint) (bool, error)
	NameTaken(name string, excludeID uint) (bool, error)
}

type GormTeamMemberRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTeamMemberRepository(db *gorm.DB) (*GormTeamMemberRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.TeamMember{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate team_members table")
		return nil, apperr.Storage(err, "migrate team members")
	}

	return &GormTeamMemberRepository{db: db, logger: logger}, nil
}

func (r *GormTeamMemberRepository) Create(member *models.TeamMember) error {
	if err := r.db.Create(member).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create team member")
		return apperr.Storage(err, "create team member")
	}

	r.logger.WithFields(logrus.Fields{
		"id":      member.ID,
		"name":    member.Name,
		"role_id": member.RoleID,
	}).Info("Team member created")
	return nil
}

func (r *GormTeamMemberRepository) Update(member *models.TeamMember) error {
	result := r.db.Model(member).
		Select("name", "role_id", "team_id", "active", "default_shift").
		Updates(member)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update team member")
		return apperr.Storage(result.Error, "update team member")
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.MissingReference, "team member %d not found", member.ID)
	}

	r.logger.WithField("id", member.ID).Info("Team member updated")
	return nil
}

// Delete removes the member together with their assignments and absences.
func (r *GormTeamMemberRepository) Delete(id uint) error {
	if err := deleteWithPolicy(r.db, "team_members", &models.TeamMember{}, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Team member not deleted")
		return err
	}

	r.logger.WithField("id", id).Info("Team member deleted with assignments and absences")
	return nil
}

func (r *GormTeamMemberRepository) GetByID(id uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.MissingReference, "team member %d not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get team member")
	}
	return &member, nil
}

// GetByIDs loads members keyed by id. Unknown ids are absent from the map.
func (r *GormTeamMemberRepository) GetByIDs(ids []uint) (map[uint]models.TeamMember, error) {
	byID := make(map[uint]models.TeamMember, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var members []models.TeamMember
	if err := r.db.Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, apperr.Storage(err, "get team members")
	}
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID, nil
}

func (r *GormTeamMemberRepository) Find(filter MemberFilter) ([]models.TeamMember, error) {
	query := r.db.Model(&models.TeamMember{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.RoleID != 0 {
		query = query.Where("role_id = ?", filter.RoleID)
	}
	if filter.TeamID != 0 {
		query = query.Where("team_id = ?", filter.TeamID)
	}

	var members []models.TeamMember
	if err := query.Order("name ASC").Find(&members).Error; err != nil {
		return nil, apperr.Storage(err, "list team members")
	}
	return members, nil
}

func (r *GormTeamMemberRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.TeamMember{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage(err, "check team member")
	}
	return count > 0, nil
}

// NameTaken compares member names exactly.
func (r *GormTeamMemberRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Storage(err, "check team member name")
	}
	return count > 0, nil
}
