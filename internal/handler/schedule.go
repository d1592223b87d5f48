package handler

import (
	"fmt"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type scheduleView struct {
	Date             models.Date
	Rows             []service.RenderRow
	Members          []models.TeamMember
	Responsibilities []models.Responsibility
}

// SchedulePage GET /schedule?date=YYYY-MM-DD.
func (h *Handler) SchedulePage(c *fiber.Ctx) error {
	date := queryDate(c, "date", models.Today())

	var notice string
	if n := c.Query("filled"); n != "" {
		notice = fmt.Sprintf("Auto-fill created %s assignment(s).", n)
	}
	if n := c.Query("updated"); n != "" {
		notice = fmt.Sprintf("Responsibility set on %s shift(s) this week.", n)
	}
	if c.Query("warn") == "absent" {
		notice = "Saved. The member is absent on this day."
	}
	return h.schedulePage(c, date, notice, nil)
}

func (h *Handler) schedulePage(c *fiber.Ctx, date models.Date, notice string, formErr error) error {
	rows, err := h.scheduleService.GetDaySchedule(date)
	if err != nil {
		return err
	}
	members, err := h.memberService.List(repository.MemberFilter{})
	if err != nil {
		return err
	}
	resps, err := h.respService.List()
	if err != nil {
		return err
	}

	return h.renderForm(c, "schedule", &page{
		Title:  "Schedule",
		Notice: notice,
		Data: scheduleView{
			Date:             date,
			Rows:             rows,
			Members:          members,
			Responsibilities: resps,
		},
	}, formErr)
}

func assignmentInput(c *fiber.Ctx) (service.AssignmentInput, error) {
	var in service.AssignmentInput
	var err error
	if in.MemberID, err = formID(c, "member_id"); err != nil {
		return in, err
	}
	if in.Date, err = formDate(c, "date"); err != nil {
		return in, err
	}
	if in.ShiftType, err = formShift(c, "shift_type"); err != nil {
		return in, err
	}
	if in.ResponsibilityID, err = formOptionalID(c, "responsibility_id"); err != nil {
		return in, err
	}
	return in, nil
}

// formPageDate is the date the schedule page returns to after a form post.
func formPageDate(c *fiber.Ctx) models.Date {
	if d, err := models.ParseDate(c.FormValue("date")); err == nil {
		return d
	}
	return queryDate(c, "date", models.Today())
}

func scheduleLocation(date models.Date, result *service.AssignmentResult) string {
	location := "/schedule?date=" + date.String()
	if result != nil && result.OnHoliday() {
		location += "&warn=absent"
	}
	return location
}

// CreateAssignment POST /schedule.
func (h *Handler) CreateAssignment(c *fiber.Ctx) error {
	in, err := assignmentInput(c)
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	result, err := h.assignService.Create(in)
	if err != nil {
		return h.schedulePage(c, in.Date, "", err)
	}
	return redirect(c, scheduleLocation(in.Date, result))
}

// UpdateAssignment POST /schedule/:id.
func (h *Handler) UpdateAssignment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	in, err := assignmentInput(c)
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	result, err := h.assignService.Update(id, in)
	if err != nil {
		return h.schedulePage(c, in.Date, "", err)
	}
	return redirect(c, scheduleLocation(in.Date, result))
}

// DeleteAssignment POST /schedule/:id/delete.
func (h *Handler) DeleteAssignment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	assignment, err := h.assignService.Get(id)
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	if err := h.assignService.Delete(id); err != nil {
		return h.schedulePage(c, assignment.Date, "", err)
	}
	return redirect(c, "/schedule?date="+assignment.Date.String())
}

// AutoFill POST /schedule/autofill fills weekdays in [from, to] with each
// active member's default shift.
func (h *Handler) AutoFill(c *fiber.Ctx) error {
	from, err := formDate(c, "from")
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	to, err := formDate(c, "to")
	if err != nil {
		return h.schedulePage(c, from, "", err)
	}
	created, err := h.scheduleService.AutoFill(from, to)
	if err != nil {
		return h.schedulePage(c, from, "", err)
	}
	return redirect(c, "/schedule?date="+from.String()+"&filled="+strconv.Itoa(created))
}

// SetWeekResponsibility POST /schedule/week-responsibility gives the member's
// shifts from Monday to Friday of date's week one responsibility.
func (h *Handler) SetWeekResponsibility(c *fiber.Ctx) error {
	memberID, err := formID(c, "member_id")
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	date, err := formDate(c, "date")
	if err != nil {
		return h.schedulePage(c, formPageDate(c), "", err)
	}
	respID, err := formOptionalID(c, "responsibility_id")
	if err != nil {
		return h.schedulePage(c, date, "", err)
	}
	updated, err := h.assignService.SetWeekResponsibility(memberID, date, respID)
	if err != nil {
		return h.schedulePage(c, date, "", err)
	}
	return redirect(c, "/schedule?date="+date.String()+"&updated="+strconv.Itoa(updated))
}
