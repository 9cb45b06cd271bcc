package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"courtbook/config"
	extschedMocks "courtbook/infras/extsched/mocks"
	otelMocks "courtbook/infras/otel/mocks"
	"courtbook/internal/domains/availability/service"
	bookingMocks "courtbook/internal/domains/booking/mocks"
	bookingModel "courtbook/internal/domains/booking/model"
	courtMocks "courtbook/internal/domains/court/mocks"
	courtModel "courtbook/internal/domains/court/model"
	cacheMocks "courtbook/shared/cache/mocks"
	"courtbook/shared/failure"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

type availabilityMocks struct {
	courtRepo       *courtMocks.MockCourt
	reservationRepo *bookingMocks.MockReservation
	checker         *extschedMocks.MockChecker
	cache           *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Availability, *availabilityMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := &availabilityMocks{
		courtRepo:       courtMocks.NewMockCourt(ctrl),
		reservationRepo: bookingMocks.NewMockReservation(ctrl),
		checker:         extschedMocks.NewMockChecker(ctrl),
		cache:           cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DateFormat = "2006-01-02"
	cfg.Booking.TimeFormat = "15:04"

	svc := service.New(m.courtRepo, m.reservationRepo, m.checker, cfg, m.cache, otelMocks.NewOtel())

	return svc, m
}

func openCourt() courtModel.Court {
	var hours courtModel.WeeklyHours
	for i := range hours {
		hours[i] = courtModel.DayHours{From: "06:00", To: "22:00"}
	}

	return courtModel.Court{
		ID:                  "court-1",
		Name:                "Center Court",
		BasePrice:           500,
		SlotDurationMinutes: 60,
		WeeklyHours:         hours,
		Active:              true,
	}
}

func futureDate() (time.Time, string) {
	date := timezone.Now().AddDate(0, 0, 7)
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, timezone.GetLocation())

	return midnight, timezone.Format(midnight, "2006-01-02")
}

func at(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, timezone.GetLocation())
}

func TestAvailability_Get(t *testing.T) {
	date, dateStr := futureDate()

	t.Run("full open day yields the complete slot grid", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)
		assert.False(t, res.Closed)
		assert.Len(t, res.Slots, 16)
		assert.Equal(t, "06:00", res.Slots[0].TimeFrom)
		assert.Equal(t, "22:00", res.Slots[len(res.Slots)-1].TimeTo)

		for _, slot := range res.Slots {
			assert.True(t, slot.Available)
			assert.InDelta(t, 500.0, slot.Price, 0.001)
		}
	})

	t.Run("booked reservations mark their slots unavailable", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		booked := []bookingModel.Reservation{
			{ID: "res-1", CourtID: "court-1", TimeFrom: at(date, 10), TimeTo: at(date, 12), Status: bookingModel.ReservationStatusBooked},
		}

		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(booked, nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)

		unavailable := map[string]bool{}
		for _, slot := range res.Slots {
			if !slot.Available {
				unavailable[slot.TimeFrom] = true
			}
		}

		assert.Equal(t, map[string]bool{"10:00": true, "11:00": true}, unavailable)
	})

	t.Run("touching slots around a booking remain available", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		booked := []bookingModel.Reservation{
			{ID: "res-1", CourtID: "court-1", TimeFrom: at(date, 10), TimeTo: at(date, 11), Status: bookingModel.ReservationStatusBooked},
		}

		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(booked, nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)

		for _, slot := range res.Slots {
			switch slot.TimeFrom {
			case "10:00":
				assert.False(t, slot.Available)
			case "09:00", "11:00":
				assert.True(t, slot.Available)
			}
		}
	})

	t.Run("unavailable slots carry the occupying booking", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		booked := []bookingModel.Reservation{
			{ID: "res-1", CourtID: "court-1", BookingID: "booking-42", TimeFrom: at(date, 10), TimeTo: at(date, 12), Status: bookingModel.ReservationStatusBooked},
		}

		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(booked, nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)

		for _, slot := range res.Slots {
			switch slot.TimeFrom {
			case "10:00", "11:00":
				assert.False(t, slot.Available)
				assert.Equal(t, "booking-42", slot.BookingID)
			default:
				assert.Empty(t, slot.BookingID)
			}
		}
	})

	t.Run("past slots stay in the grid marked unavailable", func(t *testing.T) {
		svc, m := newService(t)

		today := timezone.Now()
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, timezone.GetLocation())
		todayStr := timezone.Format(midnight, "2006-01-02")

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", todayStr)

		assert.NoError(t, err)
		assert.Len(t, res.Slots, 16)

		now := timezone.Now()
		for i, slot := range res.Slots {
			if at(midnight, 6+i).Before(now) {
				assert.False(t, slot.Available, slot.TimeFrom)
				assert.Empty(t, slot.BookingID)
			}
		}
	})

	t.Run("closed day returns closed with no slots", func(t *testing.T) {
		svc, m := newService(t)

		court := openCourt()
		for i := range court.WeeklyHours {
			court.WeeklyHours[i] = courtModel.DayHours{Closed: true}
		}

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(court, nil)

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)
		assert.True(t, res.Closed)
		assert.Empty(t, res.Slots)
	})

	t.Run("external holds mark slots unavailable but errors degrade open", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)

		m.checker.EXPECT().
			BusyRanges(gomock.Any(), "court-1", gomock.Any()).
			Return([]timeslot.Range{{From: at(date, 14), To: at(date, 15)}}, nil)

		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)

		for _, slot := range res.Slots {
			if slot.TimeFrom == "14:00" {
				assert.False(t, slot.Available)
			}
		}

		svc2, m2 := newService(t)

		m2.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m2.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m2.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m2.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, errors.New("connection refused"))
		m2.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res2, err := svc2.Get(context.Background(), "court-1", dateStr)

		assert.NoError(t, err)

		for _, slot := range res2.Slots {
			assert.True(t, slot.Available)
		}
	})

	t.Run("repeated reads are idempotent", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil).Times(2)
		m.reservationRepo.EXPECT().GetBooked(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil).Times(2)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil).Times(2)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		first, err := svc.Get(context.Background(), "court-1", dateStr)
		assert.NoError(t, err)

		second, err := svc.Get(context.Background(), "court-1", dateStr)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("unknown court returns not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(courtModel.Court{}, nil)

		_, err := svc.Get(context.Background(), "missing", dateStr)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Get(context.Background(), "court-1", "21-06-2026")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}
