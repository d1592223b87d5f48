// Package workweek provides Monday-to-Friday week arithmetic and an optional
// calendar of published non-working days.
package workweek

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Monday returns midnight of the Monday of t's week.
func Monday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Dates returns Monday through Friday of t's week.
func Dates(t time.Time) []time.Time {
	monday := Monday(t)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Calendar knows weekends plus any published non-working days.
// The zero value only knows weekends.
type Calendar struct {
	holidays map[string]struct{}
}

// CalendarJSON is the non-working-day file format: per month a comma
// separated day list, where a trailing "+" or "*" marks transferred or
// shortened days and is ignored.
type CalendarJSON struct {
	Year   int             `json:"year"`
	Months []MonthHolidays `json:"months"`
}

type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// NewCalendar builds a calendar from explicit non-working dates.
func NewCalendar(days ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(days))}
	for _, d := range days {
		c.holidays[key(d)] = struct{}{}
	}
	return c
}

// LoadCalendar reads one or more yearly non-working-day files.
func LoadCalendar(paths ...string) (*Calendar, error) {
	c := NewCalendar()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar file: %w", err)
		}
		days, err := ParseCalendarJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, d := range days {
			c.holidays[key(d)] = struct{}{}
		}
	}
	return c, nil
}

// ParseCalendarJSON decodes a non-working-day file into dates.
func ParseCalendarJSON(data []byte) ([]time.Time, error) {
	var cal CalendarJSON
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	var days []time.Time
	for _, month := range cal.Months {
		if month.Month < 1 || month.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", month.Month)
		}
		for _, raw := range strings.Split(month.Days, ",") {
			raw = strings.TrimSpace(raw)
			raw = strings.TrimRight(raw, "+*")
			if raw == "" {
				continue
			}
			day, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", raw, month.Month, err)
			}
			days = append(days, time.Date(cal.Year, time.Month(month.Month), day, 0, 0, 0, 0, time.UTC))
		}
	}
	return days, nil
}

// IsWorkday reports whether t is a weekday that is not a published holiday.
func (c *Calendar) IsWorkday(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	if c == nil || c.holidays == nil {
		return true
	}
	_, holiday := c.holidays[key(t)]
	return !holiday
}

// Len returns the number of published non-working days.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.holidays)
}

// Workdays lists the workdays in [from, to], both inclusive.
func (c *Calendar) Workdays(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkday(d) {
			days = append(days, d)
		}
	}
	return days
}

func key(t time.Time) string {
	return t.Format("2006-01-02")
}
