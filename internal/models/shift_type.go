package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// Clock builds a ClockTime from hours and minutes.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ShiftType is one of the fixed shift windows. The zero value is not a shift.
type ShiftType uint8

const (
	ShiftEarly ShiftType = iota + 1
	ShiftLate
	ShiftDay
)

type shiftWindow struct {
	name       string
	start, end ClockTime
}

var shiftWindows = map[ShiftType]shiftWindow{
	ShiftEarly: {name: "Early", start: Clock(7, 0), end: Clock(15, 0)},
	ShiftLate:  {name: "Late", start: Clock(14, 0), end: Clock(22, 0)},
	ShiftDay:   {name: "Day", start: Clock(7, 0), end: Clock(17, 0)},
}

// ShiftTypes lists every shift type in display order.
func ShiftTypes() []ShiftType {
	return []ShiftType{ShiftEarly, ShiftLate, ShiftDay}
}

// ParseShiftType accepts a shift name, case-insensitively.
func ParseShiftType(s string) (ShiftType, error) {
	s = strings.TrimSpace(s)
	for _, st := range ShiftTypes() {
		if strings.EqualFold(shiftWindows[st].name, s) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown shift type %q", s)
}

// IsValid reports whether st is one of the defined shift types.
func (st ShiftType) IsValid() bool {
	_, ok := shiftWindows[st]
	return ok
}

func (st ShiftType) String() string {
	if w, ok := shiftWindows[st]; ok {
		return w.name
	}
	return fmt.Sprintf("ShiftType(%d)", uint8(st))
}

// Start returns the shift start time of day.
func (st ShiftType) Start() ClockTime { return shiftWindows[st].start }

// End returns the shift end time of day.
func (st ShiftType) End() ClockTime { return shiftWindows[st].end }

// Hours returns the shift length in hours.
func (st ShiftType) Hours() float64 {
	return float64(st.End()-st.Start()) / 60
}

// Value implements driver.Valuer.
func (st ShiftType) Value() (driver.Value, error) {
	if !st.IsValid() {
		return nil, fmt.Errorf("invalid shift type %d", uint8(st))
	}
	return st.String(), nil
}

// Scan implements sql.Scanner.
func (st *ShiftType) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ShiftType", src)
	}
	parsed, err := ParseShiftType(s)
	if err != nil {
		return err
	}
	*st = parsed
	return nil
}

func (st ShiftType) MarshalJSON() ([]byte, error) {
	return json.Marshal(st.String())
}

func (st *ShiftType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseShiftType(s)
	if err != nil {
		return err
	}
	*st = parsed
	return nil
}
