package main

import (
	"os"
	"os/signal"
	"shift-planner/internal/config"
	"shift-planner/internal/handler"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"shift-planner/pkg/workweek"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.Get()
	logrus.SetLevel(cfg.Level())
	logrus.Info("Config initialized...")

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	store, err := repository.NewStore(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize schema")
	}
	logrus.Infof("Database ready at %s", cfg.DatabaseURL)

	// Without calendar files auto-fill only skips weekends.
	calendar, err := workweek.LoadCalendar(cfg.HolidayFiles...)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load holiday calendar")
	}
	if calendar.Len() > 0 {
		logrus.Infof("Loaded %d non-working days", calendar.Len())
	}

	validator := service.NewValidator(store, cfg.BlockAbsentAssignments)
	roleService := service.NewRoleService(store, validator)
	respService := service.NewResponsibilityService(store, validator)
	memberService := service.NewTeamMemberService(store, validator)
	teamService := service.NewTeamService(store, validator)
	assignService := service.NewAssignmentService(store, validator)
	absenceService := service.NewAbsenceService(store, validator)
	scheduleService := service.NewScheduleService(store, calendar)

	h, err := handler.NewHandler(
		store,
		roleService,
		respService,
		memberService,
		teamService,
		assignService,
		absenceService,
		scheduleService,
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create handler")
	}
	app := handler.NewApp(h)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logrus.WithError(err).Fatal("HTTP server stopped")
		}
	}()
	logrus.Infof("Shift planner listening on http://%s. Press Ctrl+C to stop.", cfg.HTTPAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logrus.Infof("Received %s, shutting down", sig)

	if err := app.Shutdown(); err != nil {
		logrus.Infof("Error stopping HTTP server: %v", err)
	}
	if err := store.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Shift planner stopped gracefully")
}
