package handler

import (
	"fmt"
	"shift-planner/internal/models"
	"shift-planner/internal/service"
	"shift-planner/pkg/gantt"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// absenceColor paints the full-day bar of an absent member.
	absenceColor = "#ff6b6b"
	// maxWeekOffset bounds ?week= to ten years either way.
	maxWeekOffset = 520
)

type dayView struct {
	Date    models.Date
	Title   string
	Chart   gantt.Chart
	Rows    []service.RenderRow
	Absent  []service.AbsentMember
	Summary string
}

type dashboardView struct {
	Date      models.Date
	Offset    int
	TeamID    uint
	Teams     []models.Team
	WeekStart models.Date
	WeekEnd   models.Date
	Summary   service.Summary
	Conflicts []service.Conflict
	Days      []dayView
}

// Dashboard GET /?date=YYYY-MM-DD&week=n&team=id shows Monday to Friday of
// the week containing date shifted by n weeks, optionally for one team.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	base := queryDate(c, "date", models.Today())
	offset, _ := strconv.Atoi(c.Query("week"))
	offset = max(-maxWeekOffset, min(offset, maxWeekOffset))
	ref := base.AddDays(7 * offset)

	teamID, _ := strconv.ParseUint(c.Query("team"), 10, 0)

	week, conflicts, err := h.scheduleService.TeamWeek(ref, uint(teamID))
	if err != nil {
		return err
	}
	teams, err := h.teamService.List()
	if err != nil {
		return err
	}
	from, to := week[0].Date, week[len(week)-1].Date

	view := dashboardView{
		Date:      base,
		Offset:    offset,
		TeamID:    uint(teamID),
		Teams:     teams,
		WeekStart: from,
		WeekEnd:   to,
		Summary:   service.Summarize(week),
		Conflicts: conflicts,
	}
	for _, day := range week {
		view.Days = append(view.Days, dayView{
			Date:    day.Date,
			Title:   day.Date.Format("Monday, January 02"),
			Chart:   dayChart(day),
			Rows:    day.Rows,
			Absent:  day.Absent,
			Summary: scheduledSummary(day.Rows),
		})
	}

	return h.render(c, fiber.StatusOK, "dashboard", &page{Title: "Weekly Dashboard", Data: view})
}

// dayChart draws one lane per member. Absences span the whole window and are
// placed first so shifts on the same lane are painted over them.
func dayChart(day service.DaySchedule) gantt.Chart {
	opts := gantt.DefaultOptions()
	bars := make([]gantt.Bar, 0, len(day.Rows)+len(day.Absent))
	for _, a := range day.Absent {
		bars = append(bars, gantt.Bar{
			Lane:    a.Name,
			Label:   "Absent",
			Tooltip: fmt.Sprintf("%s\nABSENT\n%s", a.Name, a.Reason),
			Start:   opts.From,
			End:     opts.To,
			Color:   absenceColor,
			Hatched: true,
		})
	}
	for _, row := range day.Rows {
		bars = append(bars, gantt.Bar{
			Lane:  row.MemberName,
			Label: row.ResponsibilityName,
			Tooltip: fmt.Sprintf("%s\nShift: %s\nTime: %s - %s\nResponsibility: %s\nDuration: %.1f hours",
				row.MemberName, row.ShiftType, row.StartTime, row.EndTime, row.ResponsibilityName, row.ShiftType.Hours()),
			Start: int(row.Start),
			End:   int(row.End),
			Color: row.Color,
		})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Lane < bars[j].Lane })
	return gantt.Layout(bars, opts)
}

// scheduledSummary lists members with their shifts, e.g. "Alice (Early), Bob (Day, Late)".
func scheduledSummary(rows []service.RenderRow) string {
	var names []string
	shifts := map[string][]string{}
	for _, row := range rows {
		if _, seen := shifts[row.MemberName]; !seen {
			names = append(names, row.MemberName)
		}
		shifts[row.MemberName] = append(shifts[row.MemberName], row.ShiftType.String())
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, strings.Join(shifts[name], ", ")))
	}
	return strings.Join(parts, ", ")
}

// DayJSON GET /api/day/:date returns the day's render rows.
func (h *Handler) DayJSON(c *fiber.Ctx) error {
	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	rows, err := h.scheduleService.GetDaySchedule(date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"date": date, "data": rows})
}
