package handler

import (
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type memberRow struct {
	models.TeamMember
	RoleName string
}

type membersView struct {
	Members []memberRow
	Roles   []models.Role
	Teams   []models.Team
}

// MembersPage GET /members.
func (h *Handler) MembersPage(c *fiber.Ctx) error {
	return h.membersPage(c, nil)
}

func (h *Handler) membersPage(c *fiber.Ctx, formErr error) error {
	members, err := h.memberService.List(repository.MemberFilter{})
	if err != nil {
		return err
	}
	roles, err := h.roleService.List()
	if err != nil {
		return err
	}
	teams, err := h.teamService.List()
	if err != nil {
		return err
	}

	roleNames := make(map[uint]string, len(roles))
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}
	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{TeamMember: m, RoleName: roleNames[m.RoleID]})
	}

	return h.renderForm(c, "members", &page{
		Title: "Team Members",
		Data:  membersView{Members: rows, Roles: roles, Teams: teams},
	}, formErr)
}

func memberInput(c *fiber.Ctx) (service.MemberInput, error) {
	in := service.MemberInput{
		Name:   strings.TrimSpace(c.FormValue("name")),
		Active: formBool(c, "active"),
	}
	var err error
	if in.RoleID, err = formID(c, "role_id"); err != nil {
		return in, err
	}
	if in.TeamID, err = formOptionalID(c, "team_id"); err != nil {
		return in, err
	}
	if in.DefaultShift, err = formOptionalShift(c, "default_shift"); err != nil {
		return in, err
	}
	return in, nil
}

// CreateMember POST /members.
func (h *Handler) CreateMember(c *fiber.Ctx) error {
	in, err := memberInput(c)
	if err != nil {
		return h.membersPage(c, err)
	}
	if _, err := h.memberService.Create(in); err != nil {
		return h.membersPage(c, err)
	}
	return redirect(c, "/members")
}

// UpdateMember POST /members/:id.
func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.membersPage(c, err)
	}
	in, err := memberInput(c)
	if err != nil {
		return h.membersPage(c, err)
	}
	if _, err := h.memberService.Update(id, in); err != nil {
		return h.membersPage(c, err)
	}
	return redirect(c, "/members")
}

// DeleteMember POST /members/:id/delete removes the member together with
// their assignments and absences.
func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.membersPage(c, err)
	}
	if err := h.memberService.Delete(id); err != nil {
		return h.membersPage(c, err)
	}
	return redirect(c, "/members")
}
