package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"courtbook/config"
	"courtbook/infras/otel"
	bookingModel "courtbook/internal/domains/booking/model"
	bookingRepo "courtbook/internal/domains/booking/repository"
	"courtbook/internal/domains/report/model/dto"
	"courtbook/shared"
	"courtbook/shared/cache"
	"courtbook/shared/constant"
	gDto "courtbook/shared/dto"
	"courtbook/shared/failure"
	"courtbook/shared/timezone"
)

const cacheSummary = "report:summary"

type Report interface {
	Summary(ctx context.Context, req dto.SummaryRequest) (dto.SummaryResponse, error)
}

type serviceImpl struct {
	repo  bookingRepo.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Report {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Summary folds every booking of the window into status counts and revenue
// broken down by day and by court. Revenue counts completed payments only.
func (s *serviceImpl) Summary(ctx context.Context, req dto.SummaryRequest) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	from, err := timezone.Parse(s.cfg.Booking.DateFormat, req.DateFrom)
	if err != nil {
		log.Error().Err(err).Str("date", req.DateFrom).Msg("failed to parse report window start")

		return res, failure.BadRequestFromString("invalid date_from format") // nolint:wrapcheck
	}

	to, err := timezone.Parse(s.cfg.Booking.DateFormat, req.DateTo)
	if err != nil {
		log.Error().Err(err).Str("date", req.DateTo).Msg("failed to parse report window end")

		return res, failure.BadRequestFromString("invalid date_to format") // nolint:wrapcheck
	}

	if to.Before(from) {
		return res, failure.BadRequestFromString("date_to must not precede date_from") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheSummary, req.DateFrom, req.DateTo, req.CourtID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking summary")

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "booking_date_from",
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "booking_date_to",
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    bookingModel.TableName,
			},
		},
	}

	if req.CourtID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldCourtID,
			Operator: gDto.FilterOperatorEq,
			Value:    req.CourtID,
			Table:    bookingModel.TableName,
		})
	}

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for summary")

		return res, fmt.Errorf("failed to get bookings for summary: %w", err)
	}

	res = s.fold(req, bookings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking summary to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) fold(req dto.SummaryRequest, bookings []bookingModel.Booking) dto.SummaryResponse {
	res := dto.SummaryResponse{
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		TotalBookings:  len(bookings),
		StatusCounts:   map[string]int{},
		RevenueByDay:   []dto.DayRevenue{},
		RevenueByCourt: []dto.CourtRevenue{},
	}

	byDay := map[string]*dto.DayRevenue{}
	byCourt := map[string]*dto.CourtRevenue{}

	for _, booking := range bookings {
		res.StatusCounts[booking.Status]++

		day := timezone.Format(booking.BookingDate, s.cfg.Booking.DateFormat)

		if _, ok := byDay[day]; !ok {
			byDay[day] = &dto.DayRevenue{Date: day}
		}

		if _, ok := byCourt[booking.CourtID]; !ok {
			byCourt[booking.CourtID] = &dto.CourtRevenue{CourtID: booking.CourtID}
		}

		byDay[day].Bookings++
		byCourt[booking.CourtID].Bookings++

		if booking.PaymentStatus == bookingModel.PaymentCompleted {
			res.TotalRevenue += booking.PaymentAmount
			byDay[day].Revenue += booking.PaymentAmount
			byCourt[booking.CourtID].Revenue += booking.PaymentAmount
		}
	}

	for _, day := range byDay {
		res.RevenueByDay = append(res.RevenueByDay, *day)
	}

	for _, court := range byCourt {
		res.RevenueByCourt = append(res.RevenueByCourt, *court)
	}

	sort.Slice(res.RevenueByDay, func(i, j int) bool {
		return res.RevenueByDay[i].Date < res.RevenueByDay[j].Date
	})

	sort.Slice(res.RevenueByCourt, func(i, j int) bool {
		return res.RevenueByCourt[i].CourtID < res.RevenueByCourt[j].CourtID
	})

	return res
}
