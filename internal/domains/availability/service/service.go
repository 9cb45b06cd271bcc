package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"courtbook/config"
	"courtbook/infras/extsched"
	"courtbook/infras/otel"
	"courtbook/internal/domains/availability/model/dto"
	bookingModel "courtbook/internal/domains/booking/model"
	bookingRepo "courtbook/internal/domains/booking/repository"
	courtModel "courtbook/internal/domains/court/model"
	courtRepo "courtbook/internal/domains/court/repository"
	"courtbook/shared"
	"courtbook/shared/cache"
	"courtbook/shared/constant"
	"courtbook/shared/failure"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

const cacheAvailability = "availability"

type Availability interface {
	Get(ctx context.Context, courtID, dateStr string) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	courtRepo       courtRepo.Court
	reservationRepo bookingRepo.Reservation
	checker         extsched.Checker
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	courtRepository courtRepo.Court,
	reservationRepository bookingRepo.Reservation,
	checker extsched.Checker,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		courtRepo:       courtRepository,
		reservationRepo: reservationRepository,
		checker:         checker,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

// Get builds the advisory slot grid for a court and date. The grid is
// derived from the court's opening window and slot duration, then marked
// against the booked reservations. The view never reserves anything; the
// booking write path re-checks under a lock.
func (s *serviceImpl) Get(ctx context.Context, courtID, dateStr string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, err := timezone.Parse(s.cfg.Booking.DateFormat, dateStr)
	if err != nil {
		log.Error().Err(err).Str("date", dateStr).Msg("failed to parse availability date")

		return res, failure.BadRequestFromString("invalid date format") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheAvailability, courtID, dateStr)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	court, err := s.courtRepo.Get(ctx, shared.FilterByID(courtID, courtModel.FieldID, courtModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get court")

		return res, fmt.Errorf("failed to get court: %w", err)
	}

	if court.ID == constant.Empty || !court.Active {
		return res, failure.NotFound("court not found") // nolint:wrapcheck
	}

	res = dto.AvailabilityResponse{
		CourtID: courtID,
		Date:    dateStr,
		Slots:   []dto.SlotResponse{},
	}

	day := court.WeeklyHours.ForDay(date.Weekday())
	if day.Closed {
		res.Closed = true

		return res, nil
	}

	open, err := s.onDate(date, day.From)
	if err != nil {
		return res, err
	}

	closing, err := s.onDate(date, day.To)
	if err != nil {
		return res, err
	}

	booked, err := s.reservationRepo.GetBooked(ctx, courtID, date)
	if err != nil {
		return res, fmt.Errorf("failed to get booked reservations: %w", err)
	}

	external := s.externalBusy(ctx, courtID, date)

	now := timezone.Now()

	for _, slot := range timeslot.Generate(open, closing, court.SlotDuration()) {
		price := court.RateFor(date, slot.From.Hour()) * timeslot.Hours(slot.From, slot.To)

		bookingID := occupyingBookingID(slot, booked)
		available := bookingID == constant.Empty &&
			!slot.From.Before(now) &&
			!timeslot.OverlapsAny(slot, external)

		res.Slots = append(res.Slots, dto.NewSlot(slot, available, bookingID, price, s.cfg.Booking.TimeFormat))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

// occupyingBookingID returns the booking holding the slot, or empty when no
// booked reservation overlaps it.
func occupyingBookingID(slot timeslot.Range, booked []bookingModel.Reservation) string {
	for _, reservation := range booked {
		if timeslot.Overlaps(slot, reservation.Range()) {
			return reservation.BookingID
		}
	}

	return constant.Empty
}

// externalBusy degrades open: the availability view is advisory, so an
// unreachable external system just means its holds are not shown. The
// booking write path still checks it fail-closed.
func (s *serviceImpl) externalBusy(ctx context.Context, courtID string, date time.Time) []timeslot.Range {
	if s.checker == nil {
		return nil
	}

	busy, err := s.checker.BusyRanges(ctx, courtID, date)
	if err != nil {
		log.Error().Err(err).Str("courtID", courtID).Msg("external scheduling check failed, showing local availability only")

		return nil
	}

	return busy
}

func (s *serviceImpl) onDate(date time.Time, clockStr string) (time.Time, error) {
	clock, err := timezone.Parse(s.cfg.Booking.TimeFormat, clockStr)
	if err != nil {
		log.Error().Err(err).Str("value", clockStr).Msg("failed to parse opening hours")

		return time.Time{}, fmt.Errorf("failed to parse opening hours: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation()), nil
}
