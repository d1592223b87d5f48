package service

import (
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

// TeamInput carries the editable team fields.
type TeamInput struct {
	Name        string
	Color       string
	Description string
}

type TeamService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewTeamService(store *repository.Store, validator *Validator) *TeamService {
	return &TeamService{store: store, validator: validator, logger: logging.New()}
}

func (s *TeamService) List() ([]models.Team, error) {
	return s.store.Teams.GetAll()
}

func (s *TeamService) Get(id uint) (*models.Team, error) {
	return s.store.Teams.GetByID(id)
}

// Members lists the members of team id by name.
func (s *TeamService) Members(id uint) ([]models.TeamMember, error) {
	return s.store.Members.Find(repository.MemberFilter{TeamID: id})
}

func (s *TeamService) Create(in TeamInput) (*models.Team, error) {
	team := &models.Team{}
	in.apply(team)
	if err := s.validate(team); err != nil {
		return nil, err
	}

	if err := s.store.Teams.Create(team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Update(id uint, in TeamInput) (*models.Team, error) {
	team, err := s.store.Teams.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.apply(team)
	if err := s.validate(team); err != nil {
		return nil, err
	}

	if err := s.store.Teams.Update(team); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes the team. Former members stay without a team.
func (s *TeamService) Delete(id uint) error {
	return s.store.Teams.Delete(id)
}

func (s *TeamService) validate(team *models.Team) error {
	if err := s.validator.ValidateName(TeamName, team.Name, team.ID); err != nil {
		s.logger.WithError(err).Warn("Invalid team")
		return err
	}
	return s.validator.ValidateColor(team.Color)
}

func (in TeamInput) apply(team *models.Team) {
	team.Name = strings.TrimSpace(in.Name)
	fallback := team.Color
	if fallback == "" {
		fallback = models.DefaultTeamColor
	}
	team.Color = normalizeColor(in.Color, fallback)
	team.Description = strings.TrimSpace(in.Description)
}
