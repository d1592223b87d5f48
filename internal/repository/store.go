package repository

import (
	"fmt"
	"shift-planner/internal/apperr"
	"shift-planner/internal/models"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the SQLite file at path, creating it when absent.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		// Referential rules live in DeletePolicies, not in SQLite.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	// One writer, one file.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Store is the storage handle passed to services and pages.
type Store struct {
	db *gorm.DB

	Roles            RoleRepository
	Responsibilities ResponsibilityRepository
	Members          TeamMemberRepository
	Assignments      ShiftAssignmentRepository
	Absences         AbsenceRepository
	Teams            TeamRepository
}

// NewStore creates every table if absent and builds the repositories.
func NewStore(db *gorm.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.InitSchema(); err != nil {
		return nil, err
	}

	var err error
	if s.Roles, err = NewGormRoleRepository(db); err != nil {
		return nil, err
	}
	if s.Responsibilities, err = NewGormResponsibilityRepository(db); err != nil {
		return nil, err
	}
	if s.Members, err = NewGormTeamMemberRepository(db); err != nil {
		return nil, err
	}
	if s.Assignments, err = NewGormShiftAssignmentRepository(db); err != nil {
		return nil, err
	}
	if s.Absences, err = NewGormAbsenceRepository(db); err != nil {
		return nil, err
	}
	if s.Teams, err = NewGormTeamRepository(db); err != nil {
		return nil, err
	}
	return s, nil
}

// InitSchema creates missing tables and indexes. Safe to call repeatedly.
func (s *Store) InitSchema() error {
	err := s.db.AutoMigrate(
		&models.Role{},
		&models.Responsibility{},
		&models.TeamMember{},
		&models.ShiftAssignment{},
		&models.Absence{},
		&models.Team{},
	)
	if err != nil {
		return apperr.Storage(err, "schema migration")
	}
	return nil
}

// Ping checks that the database file is reachable.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Storage(err, "ping")
	}
	return apperr.Storage(sqlDB.Ping(), "ping")
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// containsFold reports whether names holds name under Unicode case folding.
func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
