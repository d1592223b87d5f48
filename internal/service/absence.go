package service

import (
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

// AbsenceInput carries the editable absence fields.
type AbsenceInput struct {
	MemberID  uint
	StartDate models.Date
	EndDate   models.Date
	Reason    string
}

type AbsenceService struct {
	store     *repository.Store
	validator *Validator
	logger    *logrus.Logger
}

func NewAbsenceService(store *repository.Store, validator *Validator) *AbsenceService {
	return &AbsenceService{store: store, validator: validator, logger: logging.New()}
}

func (s *AbsenceService) List(filter repository.AbsenceFilter) ([]models.Absence, error) {
	return s.store.Absences.Find(filter)
}

func (s *AbsenceService) Get(id uint) (*models.Absence, error) {
	return s.store.Absences.GetByID(id)
}

// Create records an absence. Existing shifts inside it are left alone and
// show up as conflicts on the dashboard.
func (s *AbsenceService) Create(in AbsenceInput) (*models.Absence, error) {
	absence := &models.Absence{}
	in.apply(absence)
	if err := s.validator.ValidateAbsence(absence); err != nil {
		s.logger.WithError(err).WithField("member_id", in.MemberID).Warn("Invalid absence")
		return nil, err
	}

	if err := s.store.Absences.Create(absence); err != nil {
		return nil, err
	}
	s.logger.Infof("Created absence ID %d covering %d day(s)", absence.ID, absence.Days())
	return absence, nil
}

func (s *AbsenceService) Update(id uint, in AbsenceInput) (*models.Absence, error) {
	absence, err := s.store.Absences.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.apply(absence)
	if err := s.validator.ValidateAbsence(absence); err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("Invalid absence update")
		return nil, err
	}

	if err := s.store.Absences.Update(absence); err != nil {
		return nil, err
	}
	return absence, nil
}

func (s *AbsenceService) Delete(id uint) error {
	return s.store.Absences.Delete(id)
}

func (in AbsenceInput) apply(a *models.Absence) {
	a.TeamMemberID = in.MemberID
	a.StartDate = in.StartDate
	a.EndDate = in.EndDate
	a.Reason = strings.TrimSpace(in.Reason)
}
