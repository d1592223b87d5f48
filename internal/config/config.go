package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	// DatabaseURL is the SQLite file path.
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	// BlockAbsentAssignments turns the absence overlap from a warning into
	// a validation error.
	BlockAbsentAssignments bool
	// HolidayFiles are yearly non-working-day calendars skipped by auto-fill.
	HolidayFiles []string
}

const (
	DefaultDatabaseURL = "shift_planner.db"
	DefaultHTTPAddr    = "127.0.0.1:8080"
)

var instance *AppConfig
var once sync.Once

// Get loads the configuration once per process.
func Get() *AppConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}
		instance = Load()
	})

	return instance
}

// Load reads the configuration from the current environment.
func Load() *AppConfig {
	cfg := &AppConfig{
		DatabaseURL:            getEnv("DATABASE_URL", DefaultDatabaseURL),
		HTTPAddr:               getEnv("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		BlockAbsentAssignments: getEnvAsBool("BLOCK_ABSENT_ASSIGNMENTS", false),
		HolidayFiles:           getEnvAsList("HOLIDAY_FILES"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	return cfg
}

// Level parses LogLevel, falling back to info.
func (c *AppConfig) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsList(name string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(name, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
