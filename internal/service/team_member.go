package service

import (
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

// MemberInput carries the editable team member fields.
type MemberInput struct {
	Name         string
	RoleID       uint
	TeamID       *uint
	Active       bool
	DefaultShift *models.ShiftType
}

type TeamMemberService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewTeamMemberService(store *repository.Store, validator *Validator) *TeamMemberService {
	return &TeamMemberService{store: store, validator: validator, logger: logging.New()}
}

func (s *TeamMemberService) List(filter repository.MemberFilter) ([]models.TeamMember, error) {
	return s.store.Members.Find(filter)
}

func (s *TeamMemberService) Get(id uint) (*models.TeamMember, error) {
	return s.store.Members.GetByID(id)
}

func (s *TeamMemberService) Create(in MemberInput) (*models.TeamMember, error) {
	member := &models.TeamMember{}
	in.apply(member)
	if err := s.validator.ValidateMember(member); err != nil {
		s.logger.WithError(err).Warn("Invalid team member")
		return nil, err
	}

	if err := s.store.Members.Create(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *TeamMemberService) Update(id uint, in MemberInput) (*models.TeamMember, error) {
	member, err := s.store.Members.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.apply(member)
	if err := s.validator.ValidateMember(member); err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("Invalid team member update")
		return nil, err
	}

	if err := s.store.Members.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes the member and, in the same transaction, every shift
// assignment and absence of theirs.
func (s *TeamMemberService) Delete(id uint) error {
	return s.store.Members.Delete(id)
}

func (in MemberInput) apply(m *models.TeamMember) {
	m.Name = strings.TrimSpace(in.Name)
	m.RoleID = in.RoleID
	m.TeamID = in.TeamID
	m.Active = in.Active
	m.DefaultShift = in.DefaultShift
}
