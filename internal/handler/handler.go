package handler

import (
	"errors"
	"shift-planner/internal/apperr"
	"shift-planner/internal/logging"
	"shift-planner/internal/service"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the storage engine is reachable.
type Pinger interface {
	Ping() error
}

type Handler struct {
	storage         Pinger
	roleService     *service.RoleService
	respService     *service.ResponsibilityService
	memberService   *service.TeamMemberService
	teamService     *service.TeamService
	assignService   *service.AssignmentService
	absenceService  *service.AbsenceService
	scheduleService *service.ScheduleService
	views           *views
	logger          *logrus.Logger
}

func NewHandler(
	storage Pinger,
	roleService *service.RoleService,
	respService *service.ResponsibilityService,
	memberService *service.TeamMemberService,
	teamService *service.TeamService,
	assignService *service.AssignmentService,
	absenceService *service.AbsenceService,
	scheduleService *service.ScheduleService,
) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}

	return &Handler{
		storage:         storage,
		roleService:     roleService,
		respService:     respService,
		memberService:   memberService,
		teamService:     teamService,
		assignService:   assignService,
		absenceService:  absenceService,
		scheduleService: scheduleService,
		views:           v,
		logger:          logging.New(),
	}, nil
}

// NewApp builds the fiber application with middleware and routes attached.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "shift-planner",
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(requestLogger(h.logger))
	app.Use(recover.New())

	h.Register(app)
	return app
}

// Register wires HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	app.Get("/", h.Dashboard)
	app.Get("/api/day/:date", h.DayJSON)

	schedule := app.Group("/schedule")
	schedule.Get("", h.SchedulePage)
	schedule.Get("/export", h.ExportWeek)
	schedule.Post("", h.CreateAssignment)
	schedule.Post("/autofill", h.AutoFill)
	schedule.Post("/week-responsibility", h.SetWeekResponsibility)
	schedule.Post("/:id", h.UpdateAssignment)
	schedule.Post("/:id/delete", h.DeleteAssignment)

	members := app.Group("/members")
	members.Get("", h.MembersPage)
	members.Post("", h.CreateMember)
	members.Post("/:id", h.UpdateMember)
	members.Post("/:id/delete", h.DeleteMember)

	teams := app.Group("/teams")
	teams.Get("", h.TeamsPage)
	teams.Post("", h.CreateTeam)
	teams.Post("/:id", h.UpdateTeam)
	teams.Post("/:id/delete", h.DeleteTeam)

	roles := app.Group("/roles")
	roles.Get("", h.RolesPage)
	roles.Post("", h.CreateRole)
	roles.Post("/:id", h.UpdateRole)
	roles.Post("/:id/delete", h.DeleteRole)

	resps := app.Group("/responsibilities")
	resps.Get("", h.ResponsibilitiesPage)
	resps.Post("", h.CreateResponsibility)
	resps.Post("/:id", h.UpdateResponsibility)
	resps.Post("/:id/delete", h.DeleteResponsibility)

	absences := app.Group("/absences")
	absences.Get("", h.AbsencesPage)
	absences.Post("", h.CreateAbsence)
	absences.Post("/:id", h.UpdateAbsence)
	absences.Post("/:id/delete", h.DeleteAbsence)
}

// handleError renders errors no page handled inline. API routes get JSON.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := apperr.KindOf(err).HTTPStatus()
	code := string(apperr.KindOf(err))
	message := apperr.Message(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status, code, message = fe.Code, "HTTP_ERROR", fe.Message
	}

	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(status).JSON(fiber.Map{"error": fiber.Map{
			"code":    code,
			"message": message,
		}})
	}
	return h.render(c, status, "error", &page{Title: "Error", Error: message})
}
