package dto

import (
	"courtbook/shared/timeslot"
	"courtbook/shared/timezone"
)

// SlotResponse is one candidate slot of a court's day grid. BookingID names
// the booking holding the slot and is omitted for slots nobody booked.
type SlotResponse struct {
	TimeFrom  string  `json:"time_from"`
	TimeTo    string  `json:"time_to"`
	Available bool    `json:"available"`
	BookingID string  `json:"booking_id,omitempty"`
	Price     float64 `json:"price"`
}

// AvailabilityResponse is the advisory view of one court on one date. A
// closed day carries Closed = true and no slots rather than an error.
type AvailabilityResponse struct {
	CourtID string         `json:"court_id"`
	Date    string         `json:"date"`
	Closed  bool           `json:"closed"`
	Slots   []SlotResponse `json:"slots"`
}

func NewSlot(slot timeslot.Range, available bool, bookingID string, price float64, timeFormat string) SlotResponse {
	return SlotResponse{
		TimeFrom:  timezone.Format(slot.From, timeFormat),
		TimeTo:    timezone.Format(slot.To, timeFormat),
		Available: available,
		BookingID: bookingID,
		Price:     price,
	}
}
