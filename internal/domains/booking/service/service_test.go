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
	bookingMocks "courtbook/internal/domains/booking/mocks"
	"courtbook/internal/domains/booking/model"
	"courtbook/internal/domains/booking/model/dto"
	"courtbook/internal/domains/booking/repository"
	"courtbook/internal/domains/booking/service"
	courtMocks "courtbook/internal/domains/court/mocks"
	courtModel "courtbook/internal/domains/court/model"
	eventMocks "courtbook/internal/events/mocks"
	cacheMocks "courtbook/shared/cache/mocks"
	"courtbook/shared/constant"
	"courtbook/shared/failure"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

type bookingMocksBundle struct {
	repo       *bookingMocks.MockBooking
	courtRepo  *courtMocks.MockCourt
	addonRepo  *courtMocks.MockAddon
	checker    *extschedMocks.MockChecker
	dispatcher *eventMocks.MockDispatcher
	cache      *cacheMocks.MockRedisCache
	cfg        *config.Config
}

func newService(t *testing.T) (service.Booking, *bookingMocksBundle) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := &bookingMocksBundle{
		repo:       bookingMocks.NewMockBooking(ctrl),
		courtRepo:  courtMocks.NewMockCourt(ctrl),
		addonRepo:  courtMocks.NewMockAddon(ctrl),
		checker:    extschedMocks.NewMockChecker(ctrl),
		dispatcher: eventMocks.NewMockDispatcher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		cfg:        &config.Config{},
	}

	m.cfg.Cache.TTL = 3600
	m.cfg.Booking.CurrencySymbol = "$"
	m.cfg.Booking.DateFormat = "2006-01-02"
	m.cfg.Booking.TimeFormat = "15:04"
	m.cfg.Booking.CancellationPolicyHours = 24
	m.cfg.Booking.RefundPolicy = model.RefundPolicyFull
	m.cfg.Booking.ConfirmationMode = model.ConfirmationModeManual

	svc := service.New(m.repo, m.courtRepo, m.addonRepo, m.checker, m.dispatcher, m.cfg, m.cache, otelMocks.NewOtel())

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

func userCtx(user, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, user)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

// futureDate returns a date a week out, far enough that every requested
// clock time on it is in the future.
func futureDate() (time.Time, string) {
	date := timezone.Now().AddDate(0, 0, 7)

	return date, timezone.Format(date, "2006-01-02")
}

func expectAsyncInvalidation(m *bookingMocksBundle) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestBookingService_Create(t *testing.T) {
	_, dateStr := futureDate()

	baseReq := dto.CreateBookingRequest{
		CourtID:      "court-1",
		BookingDate:  dateStr,
		TimeFrom:     "10:00",
		TimeTo:       "11:00",
		CustomerName: "Jordan Lee",
	}

	t.Run("successful booking stays pending under manual confirmation", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)

		var reserved model.Booking

		m.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), "user-1").
			DoAndReturn(func(_ context.Context, booking model.Booking, _ string) error {
				reserved = booking

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		res, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, reserved.ID, res.BookingID)
		assert.InDelta(t, 500.0, reserved.PaymentAmount, 0.001)
	})

	t.Run("auto confirmation mode creates the booking confirmed", func(t *testing.T) {
		svc, m := newService(t)
		m.cfg.Booking.ConfirmationMode = model.ConfirmationModeAuto

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.repo.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		res, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	t.Run("overlapping reservation is rejected as slot taken", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)
		m.repo.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any()).Return(repository.ErrSlotTaken)

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.ErrorIs(t, err, failure.SlotTakenError)
	})

	t.Run("external busy range conflicts with the requested slot", func(t *testing.T) {
		svc, m := newService(t)

		court := openCourt()
		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(court, nil)

		m.checker.EXPECT().
			BusyRanges(gomock.Any(), "court-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, date time.Time) ([]timeslot.Range, error) {
				from := time.Date(date.Year(), date.Month(), date.Day(), 10, 30, 0, 0, timezone.GetLocation())

				return []timeslot.Range{{From: from, To: from.Add(time.Hour)}}, nil
			})

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.ErrorIs(t, err, failure.SlotTakenError)
	})

	t.Run("unreachable external system fails closed", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.ErrorIs(t, err, failure.SlotTakenError)
	})

	t.Run("closed day is rejected", func(t *testing.T) {
		svc, m := newService(t)

		court := openCourt()
		for i := range court.WeeklyHours {
			court.WeeklyHours[i] = courtModel.DayHours{Closed: true}
		}

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(court, nil)

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("slot outside opening hours is rejected", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		req := baseReq
		req.TimeFrom = "22:00"
		req.TimeTo = "23:00"

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("past slot is rejected", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		req := baseReq
		req.BookingDate = timezone.Format(timezone.Now().AddDate(0, 0, -1), "2006-01-02")

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("inactive court is not bookable", func(t *testing.T) {
		svc, m := newService(t)

		court := openCourt()
		court.Active = false

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(court, nil)

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), baseReq)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("addon prices are snapshotted into the booking amount", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		m.addonRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(courtModel.Addon{ID: "addon-1", CourtID: "court-1", Name: "Floodlights", Price: 100, PricingType: courtModel.PricingPerHour}, nil)

		m.addonRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(courtModel.Addon{ID: "addon-2", CourtID: "court-1", Name: "Racket rental", Price: 50, PricingType: courtModel.PricingPerBooking}, nil)

		m.checker.EXPECT().BusyRanges(gomock.Any(), "court-1", gomock.Any()).Return(nil, nil)

		var reserved model.Booking

		m.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking, _ string) error {
				reserved = booking

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		req := baseReq
		req.TimeFrom = "10:00"
		req.TimeTo = "11:30"
		req.AddonIDs = []string{"addon-1", "addon-2"}

		_, err := svc.Create(userCtx("user-1", constant.RoleUser), req)

		assert.NoError(t, err)
		// 1.5h court time at 500 plus 1.5h floodlights at 100 plus flat 50.
		assert.InDelta(t, 950.0, reserved.PaymentAmount, 0.001)
		assert.Len(t, reserved.Addons, 2)
		assert.InDelta(t, 150.0, reserved.Addons[0].Amount, 0.001)
		assert.InDelta(t, 50.0, reserved.Addons[1].Amount, 0.001)
	})
}

func TestBookingService_Quote(t *testing.T) {
	_, dateStr := futureDate()

	t.Run("prices the slot without reserving", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)

		res, err := svc.Quote(context.Background(), dto.QuoteRequest{
			CourtID:     "court-1",
			BookingDate: dateStr,
			TimeFrom:    "10:00",
			TimeTo:      "12:00",
		})

		assert.NoError(t, err)
		assert.InDelta(t, 500.0, res.Rate, 0.001)
		assert.InDelta(t, 1000.0, res.Amount, 0.001)
		assert.InDelta(t, 1000.0, res.Total, 0.001)
		assert.Equal(t, "$", res.Currency)
	})

	t.Run("unknown addon fails the quote", func(t *testing.T) {
		svc, m := newService(t)

		m.courtRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openCourt(), nil)
		m.addonRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(courtModel.Addon{}, nil)

		_, err := svc.Quote(context.Background(), dto.QuoteRequest{
			CourtID:     "court-1",
			BookingDate: dateStr,
			TimeFrom:    "10:00",
			TimeTo:      "11:00",
			AddonIDs:    []string{"missing"},
		})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	farBooking := func() model.Booking {
		from := timezone.Now().AddDate(0, 0, 7)

		return model.Booking{
			ID:            "booking-1",
			CourtID:       "court-1",
			UserID:        "user-1",
			Status:        model.StatusConfirmed,
			PaymentStatus: model.PaymentCompleted,
			TimeFrom:      from,
			TimeTo:        from.Add(time.Hour),
		}
	}

	t.Run("owner cancels inside the window and the payment is refunded", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(farBooking(), nil)

		m.repo.EXPECT().
			Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "user-1").
			DoAndReturn(func(_ context.Context, updatedFields map[string]any, _ any, _ model.Booking, _ string) error {
				assert.Equal(t, model.StatusCancelled, updatedFields[model.FieldStatus])
				assert.Equal(t, model.PaymentRefunded, updatedFields[model.FieldPaymentStatus])

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Cancel(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("partial refund policy classifies the payment accordingly", func(t *testing.T) {
		svc, m := newService(t)
		m.cfg.Booking.RefundPolicy = model.RefundPolicyPartial

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(farBooking(), nil)

		m.repo.EXPECT().
			Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updatedFields map[string]any, _ any, _ model.Booking, _ string) error {
				assert.Equal(t, model.PaymentPartiallyRefunded, updatedFields[model.FieldPaymentStatus])

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Cancel(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("pending payment is left untouched on cancellation", func(t *testing.T) {
		svc, m := newService(t)

		booking := farBooking()
		booking.PaymentStatus = model.PaymentPending

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		m.repo.EXPECT().
			Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updatedFields map[string]any, _ any, _ model.Booking, _ string) error {
				_, present := updatedFields[model.FieldPaymentStatus]
				assert.False(t, present)

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Cancel(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("closed cancellation window forbids a regular user", func(t *testing.T) {
		svc, m := newService(t)

		booking := farBooking()
		booking.TimeFrom = timezone.Now().Add(2 * time.Hour)
		booking.TimeTo = booking.TimeFrom.Add(time.Hour)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Cancel(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("admin bypasses the cancellation window", func(t *testing.T) {
		svc, m := newService(t)

		booking := farBooking()
		booking.TimeFrom = timezone.Now().Add(2 * time.Hour)
		booking.TimeTo = booking.TimeFrom.Add(time.Hour)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.repo.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Cancel(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("users cannot cancel someone else's booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(farBooking(), nil)

		err := svc.Cancel(userCtx("user-2", constant.RoleUser), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("terminal booking cannot be cancelled again", func(t *testing.T) {
		svc, m := newService(t)

		booking := farBooking()
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Cancel(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestBookingService_Confirm(t *testing.T) {
	t.Run("pending booking is confirmed", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", CourtID: "court-1", Status: model.StatusPending}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updatedFields map[string]any, _ any) error {
				assert.Equal(t, model.StatusConfirmed, updatedFields[model.FieldStatus])

				return nil
			})

		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Confirm(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("non-pending booking cannot be confirmed", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", Status: model.StatusConfirmed}, nil)

		err := svc.Confirm(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestBookingService_Complete(t *testing.T) {
	t.Run("confirmed booking past its end time is completed", func(t *testing.T) {
		svc, m := newService(t)

		past := timezone.Now().Add(-2 * time.Hour)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", CourtID: "court-1", Status: model.StatusConfirmed, TimeFrom: past, TimeTo: past.Add(time.Hour)}, nil)

		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		expectAsyncInvalidation(m)

		err := svc.Complete(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("booking still in progress cannot be completed", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", Status: model.StatusConfirmed, TimeTo: timezone.Now().Add(time.Hour)}, nil)

		err := svc.Complete(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("pending booking cannot be completed", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", Status: model.StatusPending}, nil)

		err := svc.Complete(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{ID: "booking-1", CourtID: "court-1", UserID: "user-1", Status: model.StatusConfirmed}

	t.Run("owner reads their booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := svc.Get(userCtx("user-1", constant.RoleUser), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("admin reads any booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := svc.Get(userCtx("admin-1", constant.RoleAdmin), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := svc.Get(userCtx("user-2", constant.RoleUser), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("missing booking returns not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(userCtx("user-1", constant.RoleUser), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
