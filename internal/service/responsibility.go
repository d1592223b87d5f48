package service

import (
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

// ResponsibilityInput carries the editable responsibility fields.
type ResponsibilityInput struct {
	Name        string
	Color       string
	Description string
}

type ResponsibilityService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewResponsibilityService(store *repository.Store, validator *Validator) *ResponsibilityService {
	return &ResponsibilityService{store: store, validator: validator, logger: logging.New()}
}

func (s *ResponsibilityService) List() ([]models.Responsibility, error) {
	return s.store.Responsibilities.GetAll()
}

func (s *ResponsibilityService) Get(id uint) (*models.Responsibility, error) {
	return s.store.Responsibilities.GetByID(id)
}

func (s *ResponsibilityService) Create(in ResponsibilityInput) (*models.Responsibility, error) {
	resp := &models.Responsibility{}
	in.apply(resp)
	if err := s.validate(resp); err != nil {
		return nil, err
	}

	if err := s.store.Responsibilities.Create(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ResponsibilityService) Update(id uint, in ResponsibilityInput) (*models.Responsibility, error) {
	resp, err := s.store.Responsibilities.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.apply(resp)
	if err := s.validate(resp); err != nil {
		return nil, err
	}

	if err := s.store.Responsibilities.Update(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete fails with ReferentialConflict while shifts carry the responsibility.
func (s *ResponsibilityService) Delete(id uint) error {
	return s.store.Responsibilities.Delete(id)
}

func (s *ResponsibilityService) validate(resp *models.Responsibility) error {
	if err := s.validator.ValidateName(ResponsibilityName, resp.Name, resp.ID); err != nil {
		s.logger.WithError(err).Warn("Invalid responsibility")
		return err
	}
	return s.validator.ValidateColor(resp.Color)
}

func (in ResponsibilityInput) apply(resp *models.Responsibility) {
	resp.Name = strings.TrimSpace(in.Name)
	fallback := resp.Color
	if fallback == "" {
		fallback = models.UnassignedColor
	}
	resp.Color = normalizeColor(in.Color, fallback)
	resp.Description = strings.TrimSpace(in.Description)
}
