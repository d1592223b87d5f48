package handler

import (
	"shift-planner/internal/apperr"
	"shift-planner/internal/models"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.InvalidInput, "invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}

func formID(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.InvalidInput, "invalid %s %q", key, raw)
	}
	return uint(id), nil
}

// formOptionalID returns nil for an empty or zero field.
func formOptionalID(c *fiber.Ctx, key string) (*uint, error) {
	id, err := formID(c, key)
	if err != nil || id == 0 {
		return nil, err
	}
	return &id, nil
}

func formDate(c *fiber.Ctx, key string) (models.Date, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return models.Date{}, apperr.New(apperr.InvalidInput, "%s is required", key)
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, apperr.Wrap(apperr.InvalidInput, err, "invalid %s %q, expected YYYY-MM-DD", key, raw)
	}
	return d, nil
}

func formShift(c *fiber.Ctx, key string) (models.ShiftType, error) {
	st, err := models.ParseShiftType(c.FormValue(key))
	if err != nil {
		return 0, apperr.Wrap(apperr.InvalidInput, err, "unknown shift type %q", c.FormValue(key))
	}
	return st, nil
}

// formOptionalShift returns nil for an empty field.
func formOptionalShift(c *fiber.Ctx, key string) (*models.ShiftType, error) {
	if strings.TrimSpace(c.FormValue(key)) == "" {
		return nil, nil
	}
	st, err := formShift(c, key)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func formBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.FormValue(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// queryDate parses key from the query string, falling back to def when the
// parameter is absent or malformed.
func queryDate(c *fiber.Ctx, key string, def models.Date) models.Date {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return def
	}
	return d
}
