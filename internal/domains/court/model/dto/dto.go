package dto

import (
	"courtbook/internal/domains/court/model"
	"courtbook/shared"
	gDto "courtbook/shared/dto"
	gModel "courtbook/shared/model"
	"courtbook/shared/timezone"

	"github.com/google/uuid"
)

const (
	defaultPeakStartHour       = 18
	defaultPeakEndHour         = 22
	defaultSlotDurationMinutes = 60
)

type DayHoursRequest struct {
	From   string `json:"from"   validate:"required_if=Closed false,omitempty,datetime=15:04"`
	To     string `json:"to"     validate:"required_if=Closed false,omitempty,datetime=15:04"`
	Closed bool   `json:"closed"`
}

type CreateCourtRequest struct {
	Name                string             `json:"name"                  validate:"required,max=100"`
	Location            string             `json:"location"              validate:"omitempty,max=100"`
	BasePrice           float64            `json:"base_price"            validate:"required,gt=0"`
	WeekendPrice        *float64           `json:"weekend_price"         validate:"omitempty,gt=0"`
	PeakPrice           *float64           `json:"peak_price"            validate:"omitempty,gt=0"`
	PeakStartHour       *int               `json:"peak_start_hour"       validate:"omitempty,min=0,max=23"`
	PeakEndHour         *int               `json:"peak_end_hour"         validate:"omitempty,min=1,max=24"`
	SlotDurationMinutes *int               `json:"slot_duration_minutes" validate:"omitempty,min=15,max=240"`
	WeeklyHours         [7]DayHoursRequest `json:"weekly_hours"          validate:"dive"`
	Active              *bool              `json:"active"                validate:"omitempty"`
}

func (c *CreateCourtRequest) ToModel(user string) model.Court {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	peakStart := defaultPeakStartHour
	if c.PeakStartHour != nil {
		peakStart = *c.PeakStartHour
	}

	peakEnd := defaultPeakEndHour
	if c.PeakEndHour != nil {
		peakEnd = *c.PeakEndHour
	}

	slotDuration := defaultSlotDurationMinutes
	if c.SlotDurationMinutes != nil {
		slotDuration = *c.SlotDurationMinutes
	}

	var hours model.WeeklyHours
	for i, day := range c.WeeklyHours {
		hours[i] = model.DayHours{From: day.From, To: day.To, Closed: day.Closed}
	}

	return model.Court{
		ID:                  uuid.NewString(),
		Name:                c.Name,
		Location:            c.Location,
		BasePrice:           c.BasePrice,
		WeekendPrice:        c.WeekendPrice,
		PeakPrice:           c.PeakPrice,
		PeakStartHour:       peakStart,
		PeakEndHour:         peakEnd,
		SlotDurationMinutes: slotDuration,
		WeeklyHours:         hours,
		Active:              active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCourtRequest struct {
	Name                string              `db:"name"                  json:"name"                  validate:"omitempty,max=100"`
	Location            string              `db:"location"              json:"location"              validate:"omitempty,max=100"`
	BasePrice           *float64            `db:"base_price"            json:"base_price"            validate:"omitempty,gt=0"`
	WeekendPrice        *float64            `db:"weekend_price"         json:"weekend_price"         validate:"omitempty,gt=0"`
	PeakPrice           *float64            `db:"peak_price"            json:"peak_price"            validate:"omitempty,gt=0"`
	PeakStartHour       *int                `db:"peak_start_hour"       json:"peak_start_hour"       validate:"omitempty,min=0,max=23"`
	PeakEndHour         *int                `db:"peak_end_hour"         json:"peak_end_hour"         validate:"omitempty,min=1,max=24"`
	SlotDurationMinutes *int                `db:"slot_duration_minutes" json:"slot_duration_minutes" validate:"omitempty,min=15,max=240"`
	WeeklyHours         *[7]DayHoursRequest `json:"weekly_hours"        validate:"omitempty,dive"`
	Active              *bool               `db:"active"                json:"active"                validate:"omitempty"`
}

func (u *UpdateCourtRequest) WeeklyHoursModel() *model.WeeklyHours {
	if u.WeeklyHours == nil {
		return nil
	}

	var hours model.WeeklyHours
	for i, day := range u.WeeklyHours {
		hours[i] = model.DayHours{From: day.From, To: day.To, Closed: day.Closed}
	}

	return &hours
}

type CourtResponse struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Location            string            `json:"location"`
	BasePrice           float64           `json:"base_price"`
	WeekendPrice        *float64          `json:"weekend_price,omitempty"`
	PeakPrice           *float64          `json:"peak_price,omitempty"`
	PeakStartHour       int               `json:"peak_start_hour"`
	PeakEndHour         int               `json:"peak_end_hour"`
	SlotDurationMinutes int               `json:"slot_duration_minutes"`
	WeeklyHours         model.WeeklyHours `json:"weekly_hours"`
	Active              bool              `json:"active"`
	gDto.Metadata
}

func (r *CourtResponse) FromModel(mod model.Court) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Location = mod.Location
	r.BasePrice = mod.BasePrice
	r.WeekendPrice = mod.WeekendPrice
	r.PeakPrice = mod.PeakPrice
	r.PeakStartHour = mod.PeakStartHour
	r.PeakEndHour = mod.PeakEndHour
	r.SlotDurationMinutes = mod.SlotDurationMinutes
	r.WeeklyHours = mod.WeeklyHours
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}

type GetCourtsResponse struct {
	Courts    []CourtResponse `json:"courts"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetCourtsResponse) FromModels(models []model.Court, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Courts = make([]CourtResponse, len(models))
	for i, mod := range models {
		r.Courts[i].FromModel(mod)
	}
}

type CreateAddonRequest struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Price       float64 `json:"price"        validate:"required,gt=0"`
	PricingType string  `json:"pricing_type" validate:"required,oneof=per_hour per_booking"`
}

func (c *CreateAddonRequest) ToModel(courtID, user string) model.Addon {
	return model.Addon{
		ID:          uuid.NewString(),
		CourtID:     courtID,
		Name:        c.Name,
		Price:       c.Price,
		PricingType: c.PricingType,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AddonResponse struct {
	ID          string  `json:"id"`
	CourtID     string  `json:"court_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PricingType string  `json:"pricing_type"`
}

func (r *AddonResponse) FromModel(mod model.Addon) {
	r.ID = mod.ID
	r.CourtID = mod.CourtID
	r.Name = mod.Name
	r.Price = mod.Price
	r.PricingType = mod.PricingType
}

type GetAddonsResponse struct {
	Addons []AddonResponse `json:"addons"`
}

func (r *GetAddonsResponse) FromModels(models []model.Addon) {
	r.Addons = make([]AddonResponse, len(models))
	for i, mod := range models {
		r.Addons[i].FromModel(mod)
	}
}
