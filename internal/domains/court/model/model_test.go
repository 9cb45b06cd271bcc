package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domains/court/model"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCourt_RateFor(t *testing.T) {
	saturday := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		court     model.Court
		date      time.Time
		startHour int
		want      float64
	}{
		{
			name:      "base rate on a weekday off-peak",
			court:     model.Court{BasePrice: 500, PeakStartHour: 18, PeakEndHour: 22},
			date:      monday,
			startHour: 10,
			want:      500,
		},
		{
			name: "weekend rate applies on saturday",
			court: model.Court{
				BasePrice:     500,
				WeekendPrice:  floatPtr(800),
				PeakStartHour: 18,
				PeakEndHour:   22,
			},
			date:      saturday,
			startHour: 10,
			want:      800,
		},
		{
			name: "peak overrides weekend",
			court: model.Court{
				BasePrice:     500,
				WeekendPrice:  floatPtr(800),
				PeakPrice:     floatPtr(1000),
				PeakStartHour: 18,
				PeakEndHour:   22,
			},
			date:      saturday,
			startHour: 19,
			want:      1000,
		},
		{
			name: "peak window upper bound is exclusive",
			court: model.Court{
				BasePrice:     500,
				PeakPrice:     floatPtr(1000),
				PeakStartHour: 18,
				PeakEndHour:   22,
			},
			date:      monday,
			startHour: 22,
			want:      500,
		},
		{
			name:      "unconfigured overrides fall back to base",
			court:     model.Court{BasePrice: 500, PeakStartHour: 18, PeakEndHour: 22},
			date:      saturday,
			startHour: 19,
			want:      500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.court.RateFor(tt.date, tt.startHour))
		})
	}
}

func TestWeeklyHours_ValueScan(t *testing.T) {
	hours := model.WeeklyHours{}
	for day := time.Monday; day <= time.Friday; day++ {
		hours[int(day)] = model.DayHours{From: "06:00", To: "22:00"}
	}
	hours[int(time.Saturday)] = model.DayHours{From: "08:00", To: "20:00"}
	hours[int(time.Sunday)] = model.DayHours{Closed: true}

	value, err := hours.Value()
	require.NoError(t, err)

	raw, ok := value.([]byte)
	require.True(t, ok)

	var scanned model.WeeklyHours
	require.NoError(t, scanned.Scan(raw))

	assert.Equal(t, hours, scanned)
	assert.Equal(t, model.DayHours{From: "08:00", To: "20:00"}, scanned.ForDay(time.Saturday))
	assert.True(t, scanned.ForDay(time.Sunday).Closed)
}

func TestWeeklyHours_ScanNil(t *testing.T) {
	var hours model.WeeklyHours
	require.NoError(t, hours.Scan(nil))
	assert.Equal(t, model.WeeklyHours{}, hours)
}
