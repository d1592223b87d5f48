package handler

import (
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"

	"github.com/gofiber/fiber/v2"
)

type teamRow struct {
	models.Team
	Members []string
}

// TeamsPage GET /teams.
func (h *Handler) TeamsPage(c *fiber.Ctx) error {
	return h.teamsPage(c, nil)
}

func (h *Handler) teamsPage(c *fiber.Ctx, formErr error) error {
	teams, err := h.teamService.List()
	if err != nil {
		return err
	}
	members, err := h.memberService.List(repository.MemberFilter{})
	if err != nil {
		return err
	}

	byTeam := make(map[uint][]string)
	for _, m := range members {
		if m.TeamID != nil {
			byTeam[*m.TeamID] = append(byTeam[*m.TeamID], m.Name)
		}
	}
	rows := make([]teamRow, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, teamRow{Team: t, Members: byTeam[t.ID]})
	}

	return h.renderForm(c, "teams", &page{Title: "Teams", Data: rows}, formErr)
}

func teamInput(c *fiber.Ctx) service.TeamInput {
	return service.TeamInput{
		Name:        c.FormValue("name"),
		Color:       c.FormValue("color"),
		Description: c.FormValue("description"),
	}
}

// CreateTeam POST /teams.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	if _, err := h.teamService.Create(teamInput(c)); err != nil {
		return h.teamsPage(c, err)
	}
	return redirect(c, "/teams")
}

// UpdateTeam POST /teams/:id.
func (h *Handler) UpdateTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.teamsPage(c, err)
	}
	if _, err := h.teamService.Update(id, teamInput(c)); err != nil {
		return h.teamsPage(c, err)
	}
	return redirect(c, "/teams")
}

// DeleteTeam POST /teams/:id/delete. Members of the team stay, without a team.
func (h *Handler) DeleteTeam(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.teamsPage(c, err)
	}
	if err := h.teamService.Delete(id); err != nil {
		return h.teamsPage(c, err)
	}
	return redirect(c, "/teams")
}
