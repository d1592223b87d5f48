package handler

import (
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type absenceRow struct {
	models.Absence
	MemberName string
}

type absencesView struct {
	Absences []absenceRow
	Members  []models.TeamMember
	Today    models.Date
}

// AbsencesPage GET /absences.
func (h *Handler) AbsencesPage(c *fiber.Ctx) error {
	return h.absencesPage(c, nil)
}

func (h *Handler) absencesPage(c *fiber.Ctx, formErr error) error {
	absences, err := h.absenceService.List(repository.AbsenceFilter{})
	if err != nil {
		return err
	}
	members, err := h.memberService.List(repository.MemberFilter{})
	if err != nil {
		return err
	}

	names := make(map[uint]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	rows := make([]absenceRow, 0, len(absences))
	for _, a := range absences {
		rows = append(rows, absenceRow{Absence: a, MemberName: names[a.TeamMemberID]})
	}

	return h.renderForm(c, "absences", &page{
		Title: "Absences",
		Data:  absencesView{Absences: rows, Members: members, Today: models.Today()},
	}, formErr)
}

func absenceInput(c *fiber.Ctx) (service.AbsenceInput, error) {
	in := service.AbsenceInput{Reason: strings.TrimSpace(c.FormValue("reason"))}
	var err error
	if in.MemberID, err = formID(c, "member_id"); err != nil {
		return in, err
	}
	if in.StartDate, err = formDate(c, "start_date"); err != nil {
		return in, err
	}
	if in.EndDate, err = formDate(c, "end_date"); err != nil {
		return in, err
	}
	return in, nil
}

// CreateAbsence POST /absences.
func (h *Handler) CreateAbsence(c *fiber.Ctx) error {
	in, err := absenceInput(c)
	if err != nil {
		return h.absencesPage(c, err)
	}
	if _, err := h.absenceService.Create(in); err != nil {
		return h.absencesPage(c, err)
	}
	return redirect(c, "/absences")
}

// UpdateAbsence POST /absences/:id.
func (h *Handler) UpdateAbsence(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.absencesPage(c, err)
	}
	in, err := absenceInput(c)
	if err != nil {
		return h.absencesPage(c, err)
	}
	if _, err := h.absenceService.Update(id, in); err != nil {
		return h.absencesPage(c, err)
	}
	return redirect(c, "/absences")
}

// DeleteAbsence POST /absences/:id/delete.
func (h *Handler) DeleteAbsence(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.absencesPage(c, err)
	}
	if err := h.absenceService.Delete(id); err != nil {
		return h.absencesPage(c, err)
	}
	return redirect(c, "/absences")
}
