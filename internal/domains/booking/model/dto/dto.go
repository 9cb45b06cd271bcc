package dto

import (
	"time"

	"github.com/google/uuid"

	"courtbook/internal/domains/booking/model"
	"courtbook/shared"
	gDto "courtbook/shared/dto"
	gModel "courtbook/shared/model"
	"courtbook/shared/timezone"
)

// Schedule is the parsed (date, time range) of a booking request. TimeFrom
// and TimeTo are absolute timestamps on the booking date.
type Schedule struct {
	Date     time.Time
	TimeFrom time.Time
	TimeTo   time.Time
}

func parseSchedule(dateStr, fromStr, toStr, dateFormat, timeFormat string) (Schedule, error) {
	date, err := timezone.Parse(dateFormat, dateStr)
	if err != nil {
		return Schedule{}, err
	}

	from, err := timezone.Parse(timeFormat, fromStr)
	if err != nil {
		return Schedule{}, err
	}

	to, err := timezone.Parse(timeFormat, toStr)
	if err != nil {
		return Schedule{}, err
	}

	return Schedule{
		Date:     date,
		TimeFrom: onDate(date, from),
		TimeTo:   onDate(date, to),
	}, nil
}

func onDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, timezone.GetLocation())
}

type CreateBookingRequest struct {
	CourtID       string   `json:"court_id"       validate:"required"`
	BookingDate   string   `json:"booking_date"   validate:"required"`
	TimeFrom      string   `json:"time_from"      validate:"required"`
	TimeTo        string   `json:"time_to"        validate:"required"`
	CustomerName  string   `json:"customer_name"  validate:"required,max=100"`
	CustomerEmail string   `json:"customer_email" validate:"omitempty,email,max=100"`
	CustomerPhone string   `json:"customer_phone" validate:"omitempty,max=20"`
	AddonIDs      []string `json:"addon_ids"      validate:"omitempty,dive,required"`
	PaymentMethod string   `json:"payment_method" validate:"omitempty,max=50"`
	PaymentID     string   `json:"payment_id"     validate:"omitempty,max=100"`
	PaymentStatus string   `json:"payment_status" validate:"omitempty,oneof=pending completed"`
}

func (c *CreateBookingRequest) Schedule(dateFormat, timeFormat string) (Schedule, error) {
	return parseSchedule(c.BookingDate, c.TimeFrom, c.TimeTo, dateFormat, timeFormat)
}

func (c *CreateBookingRequest) ToModel(user, status string, schedule Schedule, amount float64, addons model.AddonSnapshots) model.Booking {
	paymentStatus := model.PaymentPending
	if c.PaymentStatus != "" {
		paymentStatus = c.PaymentStatus
	}

	var paymentDate *time.Time
	if paymentStatus == model.PaymentCompleted {
		now := timezone.Now()
		paymentDate = &now
	}

	return model.Booking{
		ID:            uuid.NewString(),
		CourtID:       c.CourtID,
		BookingDate:   schedule.Date,
		TimeFrom:      schedule.TimeFrom,
		TimeTo:        schedule.TimeTo,
		Status:        status,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		UserID:        user,
		PaymentAmount: amount,
		PaymentStatus: paymentStatus,
		PaymentMethod: c.PaymentMethod,
		PaymentID:     c.PaymentID,
		PaymentDate:   paymentDate,
		Addons:        addons,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateBookingResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type QuoteRequest struct {
	CourtID     string   `json:"court_id"     validate:"required"`
	BookingDate string   `json:"booking_date" validate:"required"`
	TimeFrom    string   `json:"time_from"    validate:"required"`
	TimeTo      string   `json:"time_to"      validate:"required"`
	AddonIDs    []string `json:"addon_ids"    validate:"omitempty,dive,required"`
}

func (q *QuoteRequest) Schedule(dateFormat, timeFormat string) (Schedule, error) {
	return parseSchedule(q.BookingDate, q.TimeFrom, q.TimeTo, dateFormat, timeFormat)
}

type QuoteResponse struct {
	Rate       float64               `json:"rate"`
	Amount     float64               `json:"amount"`
	AddonTotal float64               `json:"addon_total"`
	Total      float64               `json:"total"`
	Currency   string                `json:"currency"`
	Addons     []model.AddonSnapshot `json:"addons,omitempty"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	CourtID       string                `json:"court_id"`
	BookingDate   string                `json:"booking_date"`
	TimeFrom      string                `json:"time_from"`
	TimeTo        string                `json:"time_to"`
	Status        string                `json:"status"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	CustomerPhone string                `json:"customer_phone"`
	UserID        string                `json:"user_id"`
	PaymentAmount float64               `json:"payment_amount"`
	PaymentStatus string                `json:"payment_status"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	PaymentID     string                `json:"payment_id,omitempty"`
	PaymentDate   *string               `json:"payment_date,omitempty"`
	Addons        []model.AddonSnapshot `json:"addons,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.CourtID = mod.CourtID
	r.BookingDate = timezone.Format(mod.BookingDate, "2006-01-02")
	r.TimeFrom = timezone.Format(mod.TimeFrom, "15:04")
	r.TimeTo = timezone.Format(mod.TimeTo, "15:04")
	r.Status = mod.Status
	r.CustomerName = mod.CustomerName
	r.CustomerEmail = mod.CustomerEmail
	r.CustomerPhone = mod.CustomerPhone
	r.UserID = mod.UserID
	r.PaymentAmount = mod.PaymentAmount
	r.PaymentStatus = mod.PaymentStatus
	r.PaymentMethod = mod.PaymentMethod
	r.PaymentID = mod.PaymentID
	r.Addons = mod.Addons

	if mod.PaymentDate != nil {
		formatted := timezone.Format(*mod.PaymentDate, time.RFC3339)
		r.PaymentDate = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
