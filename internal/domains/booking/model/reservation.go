package model

import (
	"time"

	"courtbook/shared/timeslot"
)

const (
	ReservationTableName  = "reservations"
	ReservationEntityName = "reservation"

	HistoryTableName  = "reservation_history"
	HistoryEntityName = "reservation_history"

	FieldReservationID    = "id"
	FieldReservationCourt = "court_id"
	FieldReservationDate  = "reservation_date"
)

const (
	ReservationStatusBooked    = "booked"
	ReservationStatusAvailable = "available"
)

// Reservation is the authoritative record that a time range on a court and
// date is occupied. Conflict detection reads nothing else.
type Reservation struct {
	ID              string    `db:"id"`
	CourtID         string    `db:"court_id"`
	BookingID       string    `db:"booking_id"`
	ReservationDate time.Time `db:"reservation_date"`
	TimeFrom        time.Time `db:"time_from"`
	TimeTo          time.Time `db:"time_to"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r Reservation) Range() timeslot.Range {
	return timeslot.Range{From: r.TimeFrom, To: r.TimeTo}
}

// ReservationHistory rows are append-only; one is written on every
// reservation status change and never mutated afterwards.
type ReservationHistory struct {
	ID            string    `db:"id"`
	ReservationID string    `db:"reservation_id"`
	BookingID     string    `db:"booking_id"`
	Status        string    `db:"status"`
	Actor         string    `db:"actor"`
	CreatedAt     time.Time `db:"created_at"`
}
