package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"courtbook/config"
	"courtbook/infras/extsched"
	"courtbook/infras/otel"
	"courtbook/internal/domains/booking/model"
	"courtbook/internal/domains/booking/model/dto"
	"courtbook/internal/domains/booking/repository"
	courtModel "courtbook/internal/domains/court/model"
	courtRepo "courtbook/internal/domains/court/repository"
	"courtbook/internal/events"
	"courtbook/shared"
	"courtbook/shared/cache"
	"courtbook/shared/constant"
	gDto "courtbook/shared/dto"
	"courtbook/shared/failure"
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	cacheAvailability = "availability"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	courtRepo  courtRepo.Court
	addonRepo  courtRepo.Addon
	checker    extsched.Checker
	dispatcher events.Dispatcher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	courtRepository courtRepo.Court,
	addonRepository courtRepo.Addon,
	checker extsched.Checker,
	dispatcher events.Dispatcher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		courtRepo:  courtRepository,
		addonRepo:  addonRepository,
		checker:    checker,
		dispatcher: dispatcher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// Create books a time slot. The repository reserves the slot inside one
// transaction that locks the court's booked reservations first, so a racing
// writer for the same range loses with the same slot-taken failure the
// database exclusion constraint produces.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	schedule, err := req.Schedule(s.cfg.Booking.DateFormat, s.cfg.Booking.TimeFormat)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking schedule")

		return res, failure.BadRequestFromString("invalid booking date or time format") // nolint:wrapcheck
	}

	court, err := s.loadActiveCourt(ctx, req.CourtID)
	if err != nil {
		return res, err
	}

	if err = s.validateSchedule(court, schedule); err != nil {
		return res, err
	}

	_, total, snapshots, err := s.price(ctx, court, schedule, req.AddonIDs)
	if err != nil {
		return res, err
	}

	if err = s.checkExternal(ctx, court.ID, schedule); err != nil {
		return res, err
	}

	status := model.StatusPending
	if s.cfg.Booking.ConfirmationMode == model.ConfirmationModeAuto {
		status = model.StatusConfirmed
	}

	booking := req.ToModel(user, status, schedule, total, snapshots)

	if err = s.repo.Reserve(ctx, booking, user); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return res, failure.SlotTakenError // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to reserve booking")

		return res, fmt.Errorf("failed to reserve booking: %w", err)
	}

	scope.AddEvent("booking reserved")

	s.dispatcher.Dispatch(ctx, events.NewEvent(events.TypeBookingCreated, booking.ID, booking.CourtID, user, status))

	s.invalidate(ctx, booking)

	return dto.CreateBookingResponse{BookingID: booking.ID, Status: status}, nil
}

// Quote prices a prospective booking without reserving anything.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	schedule, err := req.Schedule(s.cfg.Booking.DateFormat, s.cfg.Booking.TimeFormat)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse quote schedule")

		return res, failure.BadRequestFromString("invalid booking date or time format") // nolint:wrapcheck
	}

	court, err := s.loadActiveCourt(ctx, req.CourtID)
	if err != nil {
		return res, err
	}

	if err = s.validateSchedule(court, schedule); err != nil {
		return res, err
	}

	rate, total, snapshots, err := s.price(ctx, court, schedule, req.AddonIDs)
	if err != nil {
		return res, err
	}

	amount := rate * timeslot.Hours(schedule.TimeFrom, schedule.TimeTo)

	return dto.QuoteResponse{
		Rate:       rate,
		Amount:     amount,
		AddonTotal: total - amount,
		Total:      total,
		Currency:   s.cfg.Booking.CurrencySymbol,
		Addons:     snapshots,
	}, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && role != constant.RoleSuperAdmin && booking.UserID != user {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.GetAll(ctx, req, shared.FilterByID(user, model.FieldUserID, model.TableName))
}

// Confirm moves a pending booking to confirmed.
func (s *serviceImpl) Confirm(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending {
		return failure.Conflict("only pending bookings can be confirmed") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusConfirmed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to confirm booking")

		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	s.dispatcher.Dispatch(ctx, events.NewEvent(events.TypeBookingConfirmed, booking.ID, booking.CourtID, booking.UserID, model.StatusConfirmed))

	s.invalidate(ctx, booking)

	return nil
}

// Cancel releases a booking's reservation and classifies the refund. A
// completed payment is classified exactly once, at cancellation time, from
// the configured refund policy. Non-admins may only cancel their own
// bookings and only while the cancellation window is still open.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	isAdmin := role == constant.RoleAdmin || role == constant.RoleSuperAdmin

	if !isAdmin && booking.UserID != user {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if booking.IsTerminal() {
		return failure.Conflict("booking is already " + booking.Status) // nolint:wrapcheck
	}

	if !isAdmin {
		cutoff := booking.TimeFrom.Add(-time.Duration(s.cfg.Booking.CancellationPolicyHours) * time.Hour)
		if timezone.Now().After(cutoff) {
			return failure.Forbidden("the cancellation window for this booking has closed") // nolint:wrapcheck
		}
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if booking.PaymentStatus == model.PaymentCompleted {
		updatedFields[model.FieldPaymentStatus] = model.RefundOutcome(s.cfg.Booking.RefundPolicy)
	}

	if err = s.repo.Cancel(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName), booking, user); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.dispatcher.Dispatch(ctx, events.NewEvent(events.TypeBookingCancelled, booking.ID, booking.CourtID, booking.UserID, model.StatusCancelled))

	s.invalidate(ctx, booking)

	return nil
}

// Complete marks a confirmed booking as completed once its end time has
// passed.
func (s *serviceImpl) Complete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusConfirmed {
		return failure.Conflict("only confirmed bookings can be completed") // nolint:wrapcheck
	}

	if timezone.Now().Before(booking.TimeTo) {
		return failure.BadRequestFromString("cannot complete a booking before its end time") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCompleted,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to complete booking")

		return fmt.Errorf("failed to complete booking: %w", err)
	}

	s.dispatcher.Dispatch(ctx, events.NewEvent(events.TypeBookingCompleted, booking.ID, booking.CourtID, booking.UserID, model.StatusCompleted))

	s.invalidate(ctx, booking)

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) loadActiveCourt(ctx context.Context, id string) (courtModel.Court, error) {
	court, err := s.courtRepo.Get(ctx, shared.FilterByID(id, courtModel.FieldID, courtModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get court")

		return court, fmt.Errorf("failed to get court: %w", err)
	}

	if court.ID == constant.Empty || !court.Active {
		return court, failure.NotFound("court not found") // nolint:wrapcheck
	}

	return court, nil
}

func (s *serviceImpl) validateSchedule(court courtModel.Court, schedule dto.Schedule) error {
	if !schedule.TimeTo.After(schedule.TimeFrom) {
		return failure.BadRequestFromString("time_to must be after time_from") // nolint:wrapcheck
	}

	if schedule.TimeFrom.Before(timezone.Now()) {
		return failure.BadRequestFromString("cannot book a time slot in the past") // nolint:wrapcheck
	}

	day := court.WeeklyHours.ForDay(schedule.Date.Weekday())
	if day.Closed {
		return failure.BadRequestFromString("the court is closed on the requested date") // nolint:wrapcheck
	}

	open, err := onDate(schedule.Date, day.From, s.cfg.Booking.TimeFormat)
	if err != nil {
		return err
	}

	closing, err := onDate(schedule.Date, day.To, s.cfg.Booking.TimeFormat)
	if err != nil {
		return err
	}

	if schedule.TimeFrom.Before(open) || schedule.TimeTo.After(closing) {
		return failure.BadRequestFromString("the requested time is outside opening hours") // nolint:wrapcheck
	}

	return nil
}

// price resolves the hourly rate, totals the booking, and freezes the
// selected add-ons into snapshots. Per-hour add-ons scale with the slot's
// fractional hours; per-booking add-ons are charged flat.
func (s *serviceImpl) price(ctx context.Context, court courtModel.Court, schedule dto.Schedule, addonIDs []string) (rate, total float64, snapshots model.AddonSnapshots, err error) {
	hours := timeslot.Hours(schedule.TimeFrom, schedule.TimeTo)
	rate = court.RateFor(schedule.Date, schedule.TimeFrom.Hour())
	total = rate * hours

	for _, addonID := range addonIDs {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    courtModel.FieldAddonID,
					Operator: gDto.FilterOperatorEq,
					Value:    addonID,
					Table:    courtModel.AddonTableName,
				},
				gDto.Filter{
					ArgName:  "addon_court_id",
					Field:    courtModel.FieldAddonCourt,
					Operator: gDto.FilterOperatorEq,
					Value:    court.ID,
					Table:    courtModel.AddonTableName,
				},
			},
		}

		addon, err := s.addonRepo.Get(ctx, filter)
		if err != nil {
			log.Error().Err(err).Str("addonID", addonID).Msg("failed to get addon")

			return 0, 0, nil, fmt.Errorf("failed to get addon: %w", err)
		}

		if addon.ID == constant.Empty {
			return 0, 0, nil, failure.NotFound("addon not found") // nolint:wrapcheck
		}

		amount := addon.Price
		if addon.PricingType == courtModel.PricingPerHour {
			amount = addon.Price * hours
		}

		snapshots = append(snapshots, model.AddonSnapshot{
			Name:        addon.Name,
			Price:       addon.Price,
			PricingType: addon.PricingType,
			Amount:      amount,
		})

		total += amount
	}

	return rate, total, snapshots, nil
}

// checkExternal consults the external scheduling system when it is enabled.
// The check fails closed: an unreachable or erroring integration rejects the
// booking with the same message a local conflict produces.
func (s *serviceImpl) checkExternal(ctx context.Context, courtID string, schedule dto.Schedule) error {
	if s.checker == nil {
		return nil
	}

	busy, err := s.checker.BusyRanges(ctx, courtID, schedule.Date)
	if err != nil {
		log.Error().Err(err).Str("courtID", courtID).Msg("external scheduling check failed, rejecting booking")

		return failure.SlotTakenError // nolint:wrapcheck
	}

	if timeslot.OverlapsAny(timeslot.Range{From: schedule.TimeFrom, To: schedule.TimeTo}, busy) {
		return failure.SlotTakenError // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheAvailability, booking.CourtID))
	}()
}

func onDate(date time.Time, clockStr, layout string) (time.Time, error) {
	clock, err := timezone.Parse(layout, clockStr)
	if err != nil {
		log.Error().Err(err).Str("value", clockStr).Msg("failed to parse opening hours")

		return time.Time{}, fmt.Errorf("failed to parse opening hours: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation()), nil
}
