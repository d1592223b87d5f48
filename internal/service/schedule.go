package service

import (
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/pkg/workweek"
	"sort"

	"github.com/sirupsen/logrus"
)

// RenderRow is one shift instance, denormalised for display.
type RenderRow struct {
	AssignmentID       uint             `json:"assignment_id"`
	MemberID           uint             `json:"member_id"`
	MemberName         string           `json:"team_member_name"`
	RoleName           string           `json:"role_name"`
	ShiftType          models.ShiftType `json:"shift_type"`
	Start              models.ClockTime `json:"-"`
	End                models.ClockTime `json:"-"`
	StartTime          string           `json:"start_time"`
	EndTime            string           `json:"end_time"`
	ResponsibilityID   *uint            `json:"responsibility_id,omitempty"`
	ResponsibilityName string           `json:"responsibility_name"`
	Color              string           `json:"color"`
	IsOnHoliday        bool             `json:"is_on_holiday"`
	AbsenceReason      string           `json:"absence_reason,omitempty"`
}

// AbsentMember is a member absent on a given day.
type AbsentMember struct {
	AbsenceID uint
	MemberID  uint
	Name      string
	Reason    string
}

// DaySchedule groups one day's rows with that day's absences.
type DaySchedule struct {
	Date   models.Date
	Rows   []RenderRow
	Absent []AbsentMember
}

// Conflict is a shift that falls on one of the member's absence days.
type Conflict struct {
	AssignmentID uint
	MemberID     uint
	MemberName   string
	Date         models.Date
	ShiftType    models.ShiftType
	Reason       string
}

// Summary holds the dashboard counters for a set of days.
type Summary struct {
	TotalShifts   int
	ActiveMembers int
	Absences      int
	Unassigned    int
}

type ScheduleService struct {
	store    *repository.Store
	calendar *workweek.Calendar
	logger   *logrus.Logger
}

// NewScheduleService builds the read side. calendar may be nil, in which
// case only weekends are treated as non-working days.
func NewScheduleService(store *repository.Store, calendar *workweek.Calendar) *ScheduleService {
	return &ScheduleService{store: store, calendar: calendar, logger: logging.New()}
}

// GetDaySchedule returns the rows for date ordered by shift start, then
// member name. No assignments yields an empty slice.
func (s *ScheduleService) GetDaySchedule(date models.Date) ([]RenderRow, error) {
	assignments, err := s.store.Assignments.Find(repository.AssignmentFilter{Date: &date})
	if err != nil {
		return nil, err
	}
	rows := make([]RenderRow, 0, len(assignments))
	if len(assignments) == 0 {
		return rows, nil
	}

	lookup, err := s.loadLookup(assignments)
	if err != nil {
		return nil, err
	}
	absences, err := s.store.Absences.Find(repository.AbsenceFilter{From: &date, To: &date})
	if err != nil {
		return nil, err
	}
	absentReason := make(map[uint]string, len(absences))
	for _, a := range absences {
		if _, seen := absentReason[a.TeamMemberID]; !seen {
			absentReason[a.TeamMemberID] = a.Reason
		}
	}

	for _, a := range assignments {
		member, ok := lookup.members[a.TeamMemberID]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"assignment_id": a.ID,
				"member_id":     a.TeamMemberID,
			}).Warn("Skipping assignment of unknown member")
			continue
		}

		row := RenderRow{
			AssignmentID:       a.ID,
			MemberID:           member.ID,
			MemberName:         member.Name,
			RoleName:           lookup.roles[member.RoleID].Name,
			ShiftType:          a.ShiftType,
			Start:              a.ShiftType.Start(),
			End:                a.ShiftType.End(),
			ResponsibilityName: models.UnassignedLabel,
			Color:              models.UnassignedColor,
		}
		row.StartTime, row.EndTime = row.Start.String(), row.End.String()
		if a.ResponsibilityID != nil {
			row.ResponsibilityID = a.ResponsibilityID
			if resp, ok := lookup.responsibilities[*a.ResponsibilityID]; ok {
				row.ResponsibilityName = resp.Name
				row.Color = resp.Color
			}
		}
		if reason, absent := absentReason[member.ID]; absent {
			row.IsOnHoliday = true
			row.AbsenceReason = reason
		}
		rows = append(rows, row)
	}

	sortRows(rows)
	return rows, nil
}

func sortRows(rows []RenderRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.MemberName != b.MemberName {
			return a.MemberName < b.MemberName
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.AssignmentID < b.AssignmentID
	})
}

// GetWeekSchedule returns Monday to Friday of the week containing ref.
func (s *ScheduleService) GetWeekSchedule(ref models.Date) ([]DaySchedule, error) {
	days := workweek.Dates(ref.Time)
	from, to := models.DateOf(days[0]), models.DateOf(days[len(days)-1])

	absences, err := s.store.Absences.Find(repository.AbsenceFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	memberIDs := make([]uint, 0, len(absences))
	for _, a := range absences {
		memberIDs = append(memberIDs, a.TeamMemberID)
	}
	members, err := s.store.Members.GetByIDs(memberIDs)
	if err != nil {
		return nil, err
	}

	week := make([]DaySchedule, 0, len(days))
	for _, d := range days {
		date := models.DateOf(d)
		rows, err := s.GetDaySchedule(date)
		if err != nil {
			return nil, err
		}

		day := DaySchedule{Date: date, Rows: rows}
		for _, a := range absences {
			if !a.Covers(date) {
				continue
			}
			day.Absent = append(day.Absent, AbsentMember{
				AbsenceID: a.ID,
				MemberID:  a.TeamMemberID,
				Name:      members[a.TeamMemberID].Name,
				Reason:    a.Reason,
			})
		}
		sort.Slice(day.Absent, func(i, j int) bool { return day.Absent[i].Name < day.Absent[j].Name })
		week = append(week, day)
	}
	return week, nil
}

// Conflicts lists shifts in [from, to] that fall on an absence day.
func (s *ScheduleService) Conflicts(from, to models.Date) ([]Conflict, error) {
	if to.Before(from) {
		return nil, apperr.New(apperr.InvalidRange, "end date %s is before start date %s", to, from)
	}

	assignments, err := s.store.Assignments.Find(repository.AssignmentFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	absences, err := s.store.Absences.Find(repository.AbsenceFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 || len(absences) == 0 {
		return nil, nil
	}

	byMember := make(map[uint][]models.Absence)
	for _, a := range absences {
		byMember[a.TeamMemberID] = append(byMember[a.TeamMemberID], a)
	}
	lookup, err := s.loadLookup(assignments)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for _, a := range assignments {
		for _, absence := range byMember[a.TeamMemberID] {
			if !absence.Covers(a.Date) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				AssignmentID: a.ID,
				MemberID:     a.TeamMemberID,
				MemberName:   lookup.members[a.TeamMemberID].Name,
				Date:         a.Date,
				ShiftType:    a.ShiftType,
				Reason:       absence.Reason,
			})
			break
		}
	}
	return conflicts, nil
}

// TeamWeek returns the week containing ref with its conflicts, keeping only
// members of teamID. A zero teamID keeps every member.
func (s *ScheduleService) TeamWeek(ref models.Date, teamID uint) ([]DaySchedule, []Conflict, error) {
	week, err := s.GetWeekSchedule(ref)
	if err != nil {
		return nil, nil, err
	}
	conflicts, err := s.Conflicts(week[0].Date, week[len(week)-1].Date)
	if err != nil {
		return nil, nil, err
	}
	if teamID == 0 {
		return week, conflicts, nil
	}

	members, err := s.store.Members.Find(repository.MemberFilter{TeamID: teamID})
	if err != nil {
		return nil, nil, err
	}
	inTeam := make(map[uint]bool, len(members))
	for _, m := range members {
		inTeam[m.ID] = true
	}

	for i := range week {
		rows := make([]RenderRow, 0, len(week[i].Rows))
		for _, r := range week[i].Rows {
			if inTeam[r.MemberID] {
				rows = append(rows, r)
			}
		}
		var absent []AbsentMember
		for _, a := range week[i].Absent {
			if inTeam[a.MemberID] {
				absent = append(absent, a)
			}
		}
		week[i].Rows, week[i].Absent = rows, absent
	}
	var kept []Conflict
	for _, c := range conflicts {
		if inTeam[c.MemberID] {
			kept = append(kept, c)
		}
	}
	return week, kept, nil
}

// Summarize counts shifts, distinct scheduled members, distinct absences
// and shifts without a responsibility.
func Summarize(days []DaySchedule) Summary {
	var sum Summary
	members := map[uint]struct{}{}
	absences := map[uint]struct{}{}
	for _, day := range days {
		for _, row := range day.Rows {
			sum.TotalShifts++
			members[row.MemberID] = struct{}{}
			if row.ResponsibilityName == models.UnassignedLabel {
				sum.Unassigned++
			}
		}
		for _, a := range day.Absent {
			absences[a.AbsenceID] = struct{}{}
		}
	}
	sum.ActiveMembers = len(members)
	sum.Absences = len(absences)
	return sum
}

// AutoFill schedules every active member with a default shift on each
// workday in [from, to]. Absence days and occupied slots are skipped.
func (s *ScheduleService) AutoFill(from, to models.Date) (int, error) {
	if to.Before(from) {
		return 0, apperr.New(apperr.InvalidRange, "end date %s is before start date %s", to, from)
	}

	members, err := s.store.Members.Find(repository.MemberFilter{ActiveOnly: true})
	if err != nil {
		return 0, err
	}
	absences, err := s.store.Absences.Find(repository.AbsenceFilter{From: &from, To: &to})
	if err != nil {
		return 0, err
	}
	byMember := make(map[uint][]models.Absence)
	for _, a := range absences {
		byMember[a.TeamMemberID] = append(byMember[a.TeamMemberID], a)
	}

	workdays := s.calendar.Workdays(from.Time, to.Time)
	created := 0
	for _, member := range members {
		shift, ok := member.AutoFillShift()
		if !ok {
			continue
		}
		for _, d := range workdays {
			date := models.DateOf(d)
			if absentOn(byMember[member.ID], date) {
				continue
			}
			existing, err := s.store.Assignments.FindSlot(member.ID, date, shift)
			if err != nil {
				return created, err
			}
			if existing != nil {
				continue
			}
			err = s.store.Assignments.Create(&models.ShiftAssignment{
				TeamMemberID: member.ID,
				Date:         date,
				ShiftType:    shift,
			})
			if err != nil {
				return created, err
			}
			created++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"from":    from.String(),
		"to":      to.String(),
		"created": created,
	}).Info("Auto-filled schedule")
	return created, nil
}

func absentOn(absences []models.Absence, date models.Date) bool {
	for _, a := range absences {
		if a.Covers(date) {
			return true
		}
	}
	return false
}

type lookup struct {
	members          map[uint]models.TeamMember
	roles            map[uint]models.Role
	responsibilities map[uint]models.Responsibility
}

func (s *ScheduleService) loadLookup(assignments []models.ShiftAssignment) (*lookup, error) {
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.TeamMemberID)
	}
	members, err := s.store.Members.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	roles, err := s.store.Roles.GetAll()
	if err != nil {
		return nil, err
	}
	resps, err := s.store.Responsibilities.GetAll()
	if err != nil {
		return nil, err
	}

	l := &lookup{
		members:          members,
		roles:            make(map[uint]models.Role, len(roles)),
		responsibilities: make(map[uint]models.Responsibility, len(resps)),
	}
	for _, r := range roles {
		l.roles[r.ID] = r
	}
	for _, r := range resps {
		l.responsibilities[r.ID] = r
	}
	return l, nil
}
