package repository

import (
	"errors"
	"path/filepath"
	"shift-planner/internal/apperr"
	"shift-planner/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedMember(t *testing.T, s *Store, name string) (*models.Role, *models.TeamMember) {
	t.Helper()

	role := &models.Role{Name: "Role of " + name, Color: models.DefaultRoleColor}
	require.NoError(t, s.Roles.Create(role))

	member := &models.TeamMember{Name: name, RoleID: role.ID, Active: true}
	require.NoError(t, s.Members.Create(member))
	return role, member
}

func TestStore_InitSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.InitSchema())
	require.NoError(t, s.InitSchema())
	require.NoError(t, s.Ping())

	roles, err := s.Roles.GetAll()
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestResponsibility_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	created := &models.Responsibility{Name: "On-call", Color: "#ff0000"}
	require.NoError(t, s.Responsibilities.Create(created))
	require.NotZero(t, created.ID)

	got, err := s.Responsibilities.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "On-call", got.Name)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Equal(t, created.ID, got.ID)
}

func TestRole_NameTakenIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	role := &models.Role{Name: "Nurse", Color: models.DefaultRoleColor}
	require.NoError(t, s.Roles.Create(role))

	taken, err := s.Roles.NameTaken("nURSE", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Roles.NameTaken("nurse", role.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a row never collides with itself")
}

func TestResponsibility_NameTakenFoldsUnicode(t *testing.T) {
	s := newTestStore(t)

	resp := &models.Responsibility{Name: "Дежурство", Color: models.UnassignedColor}
	require.NoError(t, s.Responsibilities.Create(resp))

	taken, err := s.Responsibilities.NameTaken("дежурство", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Responsibilities.NameTaken("ДЕЖУРСТВО", resp.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRole_DeleteBlockedWhileReferenced(t *testing.T) {
	s := newTestStore(t)
	role, member := seedMember(t, s, "Alice")

	err := s.Roles.Delete(role.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ReferentialConflict))

	_, err = s.Roles.GetByID(role.ID)
	require.NoError(t, err, "blocked delete must leave the role in place")

	require.NoError(t, s.Members.Delete(member.ID))
	require.NoError(t, s.Roles.Delete(role.ID))

	_, err = s.Roles.GetByID(role.ID)
	assert.True(t, errors.Is(err, apperr.MissingReference))
}

func TestRole_DeleteUnreferenced(t *testing.T) {
	s := newTestStore(t)

	role := &models.Role{Name: "Spare", Color: models.DefaultRoleColor}
	require.NoError(t, s.Roles.Create(role))
	require.NoError(t, s.Roles.Delete(role.ID))

	err := s.Roles.Delete(role.ID)
	assert.True(t, errors.Is(err, apperr.MissingReference))
}

func TestResponsibility_DeleteBlockedWhileAssigned(t *testing.T) {
	s := newTestStore(t)
	_, member := seedMember(t, s, "Bob")

	resp := &models.Responsibility{Name: "Triage", Color: "#00ff00"}
	require.NoError(t, s.Responsibilities.Create(resp))
	require.NoError(t, s.Assignments.Create(&models.ShiftAssignment{
		TeamMemberID:     member.ID,
		Date:             models.MustParseDate("2024-03-04"),
		ShiftType:        models.ShiftEarly,
		ResponsibilityID: &resp.ID,
	}))

	err := s.Responsibilities.Delete(resp.ID)
	assert.True(t, errors.Is(err, apperr.ReferentialConflict))
}

func TestTeamMember_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	_, alice := seedMember(t, s, "Alice")
	_, bob := seedMember(t, s, "Bob")

	day := models.MustParseDate("2024-01-03")
	for _, m := range []*models.TeamMember{alice, bob} {
		require.NoError(t, s.Assignments.Create(&models.ShiftAssignment{
			TeamMemberID: m.ID, Date: day, ShiftType: models.ShiftLate,
		}))
		require.NoError(t, s.Absences.Create(&models.Absence{
			TeamMemberID: m.ID,
			StartDate:    models.MustParseDate("2024-02-01"),
			EndDate:      models.MustParseDate("2024-02-02"),
		}))
	}

	require.NoError(t, s.Members.Delete(alice.ID))

	assignments, err := s.Assignments.Find(AssignmentFilter{MemberID: alice.ID})
	require.NoError(t, err)
	assert.Empty(t, assignments)

	absences, err := s.Absences.Find(AbsenceFilter{MemberID: alice.ID})
	require.NoError(t, err)
	assert.Empty(t, absences)

	assignments, err = s.Assignments.Find(AssignmentFilter{MemberID: bob.ID})
	require.NoError(t, err)
	assert.Len(t, assignments, 1, "other members keep their rows")
}

func TestShiftAssignment_SlotLookupAndFilters(t *testing.T) {
	s := newTestStore(t)
	_, member := seedMember(t, s, "Carol")

	mon := models.MustParseDate("2024-01-01")
	tue := mon.AddDays(1)
	require.NoError(t, s.Assignments.Create(&models.ShiftAssignment{TeamMemberID: member.ID, Date: mon, ShiftType: models.ShiftEarly}))
	require.NoError(t, s.Assignments.Create(&models.ShiftAssignment{TeamMemberID: member.ID, Date: tue, ShiftType: models.ShiftDay}))

	slot, err := s.Assignments.FindSlot(member.ID, mon, models.ShiftEarly)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, models.ShiftEarly, slot.ShiftType)
	assert.Equal(t, "2024-01-01", slot.Date.String())

	slot, err = s.Assignments.FindSlot(member.ID, mon, models.ShiftLate)
	require.NoError(t, err)
	assert.Nil(t, slot)

	onDay, err := s.Assignments.Find(AssignmentFilter{Date: &tue})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, models.ShiftDay, onDay[0].ShiftType)

	inRange, err := s.Assignments.Find(AssignmentFilter{From: &mon, To: &tue})
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	// The unique index backs up the validator.
	err = s.Assignments.Create(&models.ShiftAssignment{TeamMemberID: member.ID, Date: mon, ShiftType: models.ShiftEarly})
	assert.True(t, errors.Is(err, apperr.StorageUnavailable))
}

func TestAbsence_OverlapFilter(t *testing.T) {
	s := newTestStore(t)
	_, member := seedMember(t, s, "Dave")

	require.NoError(t, s.Absences.Create(&models.Absence{
		TeamMemberID: member.ID,
		StartDate:    models.MustParseDate("2024-01-01"),
		EndDate:      models.MustParseDate("2024-01-05"),
		Reason:       "Holiday",
	}))

	from, to := models.MustParseDate("2024-01-05"), models.MustParseDate("2024-01-09")
	found, err := s.Absences.Find(AbsenceFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	from, to = models.MustParseDate("2024-01-06"), models.MustParseDate("2024-01-09")
	found, err = s.Absences.Find(AbsenceFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Empty(t, found)

	current, err := s.Absences.GetCurrentAbsence(member.ID, models.MustParseDate("2024-01-03"))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Holiday", current.Reason)

	current, err = s.Absences.GetCurrentAbsence(member.ID, models.MustParseDate("2024-01-10"))
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestTeamMember_UpdateKeepsDefaultShift(t *testing.T) {
	s := newTestStore(t)
	_, member := seedMember(t, s, "Erin")

	late := models.ShiftLate
	member.DefaultShift = &late
	member.Active = false
	require.NoError(t, s.Members.Update(member))

	got, err := s.Members.GetByID(member.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DefaultShift)
	assert.Equal(t, models.ShiftLate, *got.DefaultShift)
	assert.False(t, got.Active)

	active, err := s.Members.Find(MemberFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeletePolicies_CoverEveryParent(t *testing.T) {
	assert.Len(t, PoliciesFor("roles"), 1)
	assert.Equal(t, Block, PoliciesFor("roles")[0].Action)
	assert.Equal(t, Block, PoliciesFor("responsibilities")[0].Action)

	memberDeps := PoliciesFor("team_members")
	require.Len(t, memberDeps, 2)
	for _, d := range memberDeps {
		assert.Equal(t, Cascade, d.Action, d.Child)
	}
	assert.Empty(t, PoliciesFor("absences"))

	teamDeps := PoliciesFor("teams")
	require.Len(t, teamDeps, 1)
	assert.Equal(t, Nullify, teamDeps[0].Action)
}

func TestTeam_DeleteKeepsMembers(t *testing.T) {
	s := newTestStore(t)
	_, alice := seedMember(t, s, "Alice")
	_, bob := seedMember(t, s, "Bob")

	team := &models.Team{Name: "Ward A", Color: models.DefaultTeamColor}
	require.NoError(t, s.Teams.Create(team))
	alice.TeamID = &team.ID
	require.NoError(t, s.Members.Update(alice))

	inTeam, err := s.Members.Find(MemberFilter{TeamID: team.ID})
	require.NoError(t, err)
	require.Len(t, inTeam, 1)
	assert.Equal(t, "Alice", inTeam[0].Name)

	taken, err := s.Teams.NameTaken("WARD a", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, s.Teams.Delete(team.ID))

	got, err := s.Members.GetByID(alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TeamID, "membership is cleared, the member stays")
	_, err = s.Members.GetByID(bob.ID)
	require.NoError(t, err)

	err = s.Teams.Delete(team.ID)
	assert.True(t, errors.Is(err, apperr.MissingReference))
}

func TestShiftAssignment_SetResponsibilityForRange(t *testing.T) {
	s := newTestStore(t)
	_, alice := seedMember(t, s, "Alice")
	_, bob := seedMember(t, s, "Bob")

	resp := &models.Responsibility{Name: "Triage", Color: "#00aa00"}
	require.NoError(t, s.Responsibilities.Create(resp))

	mon := models.MustParseDate("2024-01-01")
	for _, a := range []*models.ShiftAssignment{
		{TeamMemberID: alice.ID, Date: mon, ShiftType: models.ShiftEarly},
		{TeamMemberID: alice.ID, Date: mon.AddDays(4), ShiftType: models.ShiftLate},
		{TeamMemberID: alice.ID, Date: mon.AddDays(7), ShiftType: models.ShiftEarly},
		{TeamMemberID: bob.ID, Date: mon, ShiftType: models.ShiftEarly},
	} {
		require.NoError(t, s.Assignments.Create(a))
	}

	updated, err := s.Assignments.SetResponsibility(alice.ID, mon, mon.AddDays(4), &resp.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	tagged, err := s.Assignments.Find(AssignmentFilter{ResponsibilityID: resp.ID})
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	for _, a := range tagged {
		assert.Equal(t, alice.ID, a.TeamMemberID)
	}

	updated, err = s.Assignments.SetResponsibility(alice.ID, mon, mon.AddDays(4), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)
	tagged, err = s.Assignments.Find(AssignmentFilter{ResponsibilityID: resp.ID})
	require.NoError(t, err)
	assert.Empty(t, tagged)
}
