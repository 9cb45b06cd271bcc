package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtbook/shared/model"
)

const (
	TableName  = "courts"
	EntityName = "court"

	FieldID                  = "id"
	FieldName                = "name"
	FieldLocation            = "location"
	FieldBasePrice           = "base_price"
	FieldWeekendPrice        = "weekend_price"
	FieldPeakPrice           = "peak_price"
	FieldPeakStartHour       = "peak_start_hour"
	FieldPeakEndHour         = "peak_end_hour"
	FieldSlotDurationMinutes = "slot_duration_minutes"
	FieldWeeklyHours         = "weekly_hours"
	FieldActive              = "active"
)

// DayHours is one weekday's opening window. From and To use the HH:MM
// wall-clock format; a closed day carries no window at all.
type DayHours struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Closed bool   `json:"closed"`
}

// WeeklyHours holds one DayHours per weekday, indexed by time.Weekday
// (Sunday = 0). It is stored as a single JSONB column.
type WeeklyHours [7]DayHours

func (w WeeklyHours) ForDay(day time.Weekday) DayHours {
	return w[int(day)]
}

func (w WeeklyHours) Value() (driver.Value, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weekly hours: %w", err)
	}

	return raw, nil
}

func (w *WeeklyHours) Scan(src any) error {
	switch value := src.(type) {
	case []byte:
		return json.Unmarshal(value, w)
	case string:
		return json.Unmarshal([]byte(value), w)
	case nil:
		*w = WeeklyHours{}

		return nil
	default:
		return errors.New("unsupported source type for weekly hours")
	}
}

type Court struct {
	ID                  string      `db:"id"`
	Name                string      `db:"name"`
	Location            string      `db:"location"`
	BasePrice           float64     `db:"base_price"`
	WeekendPrice        *float64    `db:"weekend_price"`
	PeakPrice           *float64    `db:"peak_price"`
	PeakStartHour       int         `db:"peak_start_hour"`
	PeakEndHour         int         `db:"peak_end_hour"`
	SlotDurationMinutes int         `db:"slot_duration_minutes"`
	WeeklyHours         WeeklyHours `db:"weekly_hours"`
	Active              bool        `db:"active"`
	model.Metadata
}

// RateFor resolves the hourly rate for a slot starting at startHour on the
// given date. Overrides apply in order: base, then weekend, then peak, so a
// configured peak price wins even on a weekend.
func (c Court) RateFor(date time.Time, startHour int) float64 {
	rate := c.BasePrice

	if day := date.Weekday(); (day == time.Saturday || day == time.Sunday) && c.WeekendPrice != nil {
		rate = *c.WeekendPrice
	}

	if c.PeakPrice != nil && startHour >= c.PeakStartHour && startHour < c.PeakEndHour {
		rate = *c.PeakPrice
	}

	return rate
}

func (c Court) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}
