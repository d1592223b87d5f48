package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testApp struct {
	app      *fiber.App
	roles    *service.RoleService
	members  *service.TeamMemberService
	assigns  *service.AssignmentService
	absences *service.AbsenceService
	teams    *service.TeamService
	resps    *service.ResponsibilityService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := repository.Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	store, err := repository.NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	v := service.NewValidator(store, false)
	ta := &testApp{
		roles:    service.NewRoleService(store, v),
		members:  service.NewTeamMemberService(store, v),
		assigns:  service.NewAssignmentService(store, v),
		absences: service.NewAbsenceService(store, v),
		teams:    service.NewTeamService(store, v),
		resps:    service.NewResponsibilityService(store, v),
	}
	h, err := NewHandler(
		store,
		ta.roles,
		ta.resps,
		ta.members,
		ta.teams,
		ta.assigns,
		ta.absences,
		service.NewScheduleService(store, nil),
	)
	require.NoError(t, err)
	ta.app = NewApp(h)
	return ta
}

func (ta *testApp) member(t *testing.T, name string) *models.TeamMember {
	t.Helper()

	role, err := ta.roles.Create("Role "+name, "")
	require.NoError(t, err)
	m, err := ta.members.Create(service.MemberInput{Name: name, RoleID: role.ID, Active: true})
	require.NoError(t, err)
	return m
}

func (ta *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ta *testApp) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.get(t, "/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alive")

	resp, body = ta.get(t, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"sqlite":"ok"`)
}

func TestRoles_CreateAndDuplicate(t *testing.T) {
	ta := newTestApp(t)

	resp, _ := ta.post(t, "/roles", url.Values{"name": {"Nurse"}, "color": {"#112233"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/roles", resp.Header.Get(fiber.HeaderLocation))

	resp, body := ta.get(t, "/roles")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Nurse")

	resp, body = ta.post(t, "/roles", url.Values{"name": {"nurse"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "already exists")

	resp, _ = ta.post(t, "/roles", url.Values{"name": {"Lead"}, "color": {"blue"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRoles_DeleteReferenced(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")

	resp, body := ta.post(t, "/roles/"+strconv.Itoa(int(alice.RoleID))+"/delete", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "still reference it")

	resp, _ = ta.post(t, "/members/"+strconv.Itoa(int(alice.ID))+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = ta.post(t, "/roles/"+strconv.Itoa(int(alice.RoleID))+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestMembers_Create(t *testing.T) {
	ta := newTestApp(t)
	role, err := ta.roles.Create("Staff", "")
	require.NoError(t, err)

	resp, _ := ta.post(t, "/members", url.Values{
		"name":          {"Alice"},
		"role_id":       {strconv.Itoa(int(role.ID))},
		"default_shift": {"Early"},
		"active":        {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	members, err := ta.members.List(repository.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].Active)
	require.NotNil(t, members[0].DefaultShift)
	assert.Equal(t, models.ShiftEarly, *members[0].DefaultShift)

	resp, _ = ta.post(t, "/members", url.Values{"name": {"Bob"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "role is required")

	resp, _ = ta.post(t, "/members", url.Values{"name": {"Bob"}, "role_id": {"abc"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSchedule_CreateDuplicateAndJSON(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")

	form := url.Values{
		"member_id":  {strconv.Itoa(int(alice.ID))},
		"date":       {"2024-01-03"},
		"shift_type": {"Early"},
	}
	resp, _ := ta.post(t, "/schedule", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/schedule?date=2024-01-03", resp.Header.Get(fiber.HeaderLocation))

	resp, body := ta.post(t, "/schedule", form)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "already scheduled")

	resp, body = ta.get(t, "/api/day/2024-01-03")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Date string              `json:"date"`
		Data []service.RenderRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "2024-01-03", payload.Date)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Alice", payload.Data[0].MemberName)
	assert.Equal(t, "07:00", payload.Data[0].StartTime)
	assert.Equal(t, models.UnassignedColor, payload.Data[0].Color)

	resp, body = ta.get(t, "/api/day/not-a-date")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"error"`)
}

func TestSchedule_AbsentWarning(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")
	_, err := ta.absences.Create(service.AbsenceInput{
		MemberID:  alice.ID,
		StartDate: models.MustParseDate("2024-01-01"),
		EndDate:   models.MustParseDate("2024-01-05"),
	})
	require.NoError(t, err)

	resp, _ := ta.post(t, "/schedule", url.Values{
		"member_id":  {strconv.Itoa(int(alice.ID))},
		"date":       {"2024-01-03"},
		"shift_type": {"Late"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/schedule?date=2024-01-03&warn=absent", resp.Header.Get(fiber.HeaderLocation))

	resp, body := ta.get(t, "/schedule?date=2024-01-03&warn=absent")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "absent on this day")
}

func TestSchedule_UpdateAndDelete(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")
	result, err := ta.assigns.Create(service.AssignmentInput{
		MemberID: alice.ID, Date: models.MustParseDate("2024-01-03"), ShiftType: models.ShiftEarly,
	})
	require.NoError(t, err)
	path := "/schedule/" + strconv.Itoa(int(result.Assignment.ID))

	resp, _ := ta.post(t, path, url.Values{
		"member_id":  {strconv.Itoa(int(alice.ID))},
		"date":       {"2024-01-03"},
		"shift_type": {"Day"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	got, err := ta.assigns.Get(result.Assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftDay, got.ShiftType)

	resp, _ = ta.post(t, path+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/schedule?date=2024-01-03", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = ta.post(t, path+"/delete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "already gone")
}

func TestSchedule_AutoFill(t *testing.T) {
	ta := newTestApp(t)
	role, err := ta.roles.Create("Staff", "")
	require.NoError(t, err)
	early := models.ShiftEarly
	_, err = ta.members.Create(service.MemberInput{Name: "Alice", RoleID: role.ID, Active: true, DefaultShift: &early})
	require.NoError(t, err)

	resp, _ := ta.post(t, "/schedule/autofill", url.Values{"from": {"2024-01-01"}, "to": {"2024-01-07"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/schedule?date=2024-01-01&filled=5", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = ta.post(t, "/schedule/autofill", url.Values{"from": {"2024-01-07"}, "to": {"2024-01-01"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAbsences_InvalidRange(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")

	resp, body := ta.post(t, "/absences", url.Values{
		"member_id":  {strconv.Itoa(int(alice.ID))},
		"start_date": {"2024-01-05"},
		"end_date":   {"2024-01-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "before start date")

	resp, _ = ta.post(t, "/absences", url.Values{
		"member_id":  {strconv.Itoa(int(alice.ID))},
		"start_date": {"2024-01-01"},
		"end_date":   {"2024-01-05"},
		"reason":     {"Vacation"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = ta.get(t, "/absences")
	assert.Contains(t, body, "Vacation")
}

func TestDashboard(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")
	bob := ta.member(t, "Bob")
	_, err := ta.assigns.Create(service.AssignmentInput{
		MemberID: alice.ID, Date: models.MustParseDate("2024-01-03"), ShiftType: models.ShiftEarly,
	})
	require.NoError(t, err)
	_, err = ta.absences.Create(service.AbsenceInput{
		MemberID:  bob.ID,
		StartDate: models.MustParseDate("2024-01-03"),
		EndDate:   models.MustParseDate("2024-01-03"),
		Reason:    "Sick",
	})
	require.NoError(t, err)

	resp, body := ta.get(t, "/?date=2024-01-03")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "url(#hatch-2024-01-03)")
	assert.Contains(t, body, "Wednesday, January 03")

	_, body = ta.get(t, "/?date=2024-01-03&week=1")
	assert.Contains(t, body, "Week of January 08")
	assert.NotContains(t, body, "<svg")

	resp, body = ta.get(t, "/?date=2024-01-03&week=1000000")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Week of December 19 - December 23, 2033")
	assert.Contains(t, body, "week=519", "previous-week link starts from the clamped offset")
}

func TestDashboard_TeamFilter(t *testing.T) {
	ta := newTestApp(t)
	team, err := ta.teams.Create(service.TeamInput{Name: "Ward A"})
	require.NoError(t, err)
	alice := ta.member(t, "Alice")
	bob := ta.member(t, "Bob")
	_, err = ta.members.Update(alice.ID, service.MemberInput{Name: "Alice", RoleID: alice.RoleID, TeamID: &team.ID, Active: true})
	require.NoError(t, err)
	for _, id := range []uint{alice.ID, bob.ID} {
		_, err := ta.assigns.Create(service.AssignmentInput{
			MemberID: id, Date: models.MustParseDate("2024-01-03"), ShiftType: models.ShiftLate,
		})
		require.NoError(t, err)
	}

	_, body := ta.get(t, "/?date=2024-01-03")
	assert.Contains(t, body, "Bob (Late)")

	resp, body := ta.get(t, "/?date=2024-01-03&team="+strconv.Itoa(int(team.ID)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Alice (Late)")
	assert.NotContains(t, body, "Bob (Late)")
	assert.Contains(t, body, "Ward A")
}

func TestTeams_CreateAssignAndDelete(t *testing.T) {
	ta := newTestApp(t)
	role, err := ta.roles.Create("Staff", "")
	require.NoError(t, err)

	resp, _ := ta.post(t, "/teams", url.Values{"name": {"Night crew"}, "color": {"#123456"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	teams, err := ta.teams.List()
	require.NoError(t, err)
	require.Len(t, teams, 1)
	teamID := strconv.Itoa(int(teams[0].ID))

	resp, _ = ta.post(t, "/members", url.Values{
		"name": {"Dana"}, "role_id": {strconv.Itoa(int(role.ID))}, "team_id": {teamID}, "active": {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := ta.get(t, "/teams")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1: Dana")

	resp, body = ta.post(t, "/teams", url.Values{"name": {"NIGHT CREW"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "already exists")

	resp, _ = ta.post(t, "/teams/"+teamID+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	members, err := ta.members.List(repository.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Nil(t, members[0].TeamID)
}

func TestSchedule_WeekResponsibility(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")
	triage, err := ta.resps.Create(service.ResponsibilityInput{Name: "Triage", Color: "#00aa00"})
	require.NoError(t, err)
	for _, d := range []string{"2024-01-01", "2024-01-04"} {
		_, err := ta.assigns.Create(service.AssignmentInput{
			MemberID: alice.ID, Date: models.MustParseDate(d), ShiftType: models.ShiftEarly,
		})
		require.NoError(t, err)
	}

	resp, _ := ta.post(t, "/schedule/week-responsibility", url.Values{
		"member_id":         {strconv.Itoa(int(alice.ID))},
		"date":              {"2024-01-03"},
		"responsibility_id": {strconv.Itoa(int(triage.ID))},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/schedule?date=2024-01-03&updated=2", resp.Header.Get(fiber.HeaderLocation))

	_, body := ta.get(t, "/api/day/2024-01-04")
	assert.Contains(t, body, `"responsibility_name":"Triage"`)

	resp, body = ta.post(t, "/schedule/week-responsibility", url.Values{
		"member_id": {"999"},
		"date":      {"2024-01-03"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "not found")
}

func TestDayChart_LanesSortedWithAbsenceFirst(t *testing.T) {
	day := service.DaySchedule{
		Date: models.MustParseDate("2024-01-03"),
		Rows: []service.RenderRow{
			{MemberName: "Bob", ShiftType: models.ShiftDay, Start: models.Clock(7, 0), End: models.Clock(17, 0), Color: "#ff0000"},
			{MemberName: "Alice", ShiftType: models.ShiftEarly, Start: models.Clock(7, 0), End: models.Clock(15, 0), Color: "#00ff00"},
		},
		Absent: []service.AbsentMember{{Name: "Bob", Reason: "Doctor"}},
	}

	chart := dayChart(day)
	require.Len(t, chart.Lanes, 2)
	assert.Equal(t, "Alice", chart.Lanes[0].Name)
	assert.Equal(t, "Bob", chart.Lanes[1].Name)

	require.Len(t, chart.Bars, 3)
	assert.Equal(t, "Alice", chart.Bars[0].Lane)
	assert.True(t, chart.Bars[1].Hatched, "absence drawn under the shift")
	assert.Equal(t, absenceColor, chart.Bars[1].Color)
	assert.Equal(t, "#ff0000", chart.Bars[2].Color)
}

func TestNotFound(t *testing.T) {
	ta := newTestApp(t)

	resp, _ := ta.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSchedule_ExportWeek(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.member(t, "Alice")
	bob := ta.member(t, "Bob")
	_, err := ta.assigns.Create(service.AssignmentInput{
		MemberID: alice.ID, Date: models.MustParseDate("2024-01-03"), ShiftType: models.ShiftEarly,
	})
	require.NoError(t, err)
	_, err = ta.absences.Create(service.AbsenceInput{
		MemberID:  bob.ID,
		StartDate: models.MustParseDate("2024-01-03"),
		EndDate:   models.MustParseDate("2024-01-03"),
		Reason:    "Sick",
	})
	require.NoError(t, err)

	resp, body := ta.get(t, "/schedule/export?date=2024-01-03")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "schedule_2024-01-01.xlsx")

	f, err := excelize.OpenReader(strings.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Schedule", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Shift schedule 2024-01-01 to 2024-01-05", cell("A1"))
	assert.Equal(t, "Member", cell("B3"))
	assert.Equal(t, "2024-01-03", cell("A4"))
	assert.Equal(t, "Alice", cell("B4"))
	assert.Equal(t, "Early", cell("D4"))
	assert.Equal(t, "07:00-15:00", cell("E4"))
	assert.Equal(t, "Unassigned", cell("F4"))
	assert.Equal(t, "Bob", cell("B5"))
	assert.Equal(t, "Sick", cell("G5"))
	assert.Empty(t, cell("B6"))
}
