package service

import (
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

type RoleService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewRoleService(store *repository.Store, validator *Validator) *RoleService {
	return &RoleService{store: store, validator: validator, logger: logging.New()}
}

func (s *RoleService) List() ([]models.Role, error) {
	return s.store.Roles.GetAll()
}

func (s *RoleService) Get(id uint) (*models.Role, error) {
	return s.store.Roles.GetByID(id)
}

// Create adds a role. An empty colour gets the default.
func (s *RoleService) Create(name, color string) (*models.Role, error) {
	role := &models.Role{Name: strings.TrimSpace(name), Color: normalizeColor(color, models.DefaultRoleColor)}
	if err := s.validate(role); err != nil {
		return nil, err
	}

	if err := s.store.Roles.Create(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Update(id uint, name, color string) (*models.Role, error) {
	role, err := s.store.Roles.GetByID(id)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(name)
	role.Color = normalizeColor(color, role.Color)
	if err := s.validate(role); err != nil {
		return nil, err
	}

	if err := s.store.Roles.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete fails with ReferentialConflict while members hold the role.
func (s *RoleService) Delete(id uint) error {
	return s.store.Roles.Delete(id)
}

func (s *RoleService) validate(role *models.Role) error {
	if err := s.validator.ValidateName(RoleName, role.Name, role.ID); err != nil {
		s.logger.WithError(err).Warn("Invalid role")
		return err
	}
	return s.validator.ValidateColor(role.Color)
}

func normalizeColor(color, fallback string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return fallback
	}
	return color
}
