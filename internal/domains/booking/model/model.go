package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtbook/shared/model"
	"courtbook/shared/timeslot"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldCourtID       = "court_id"
	FieldBookingDate   = "booking_date"
	FieldTimeFrom      = "time_from"
	FieldTimeTo        = "time_to"
	FieldStatus        = "status"
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldCustomerPhone = "customer_phone"
	FieldUserID        = "user_id"
	FieldPaymentAmount = "payment_amount"
	FieldPaymentStatus = "payment_status"
	FieldPaymentMethod = "payment_method"
	FieldPaymentID     = "payment_id"
	FieldPaymentDate   = "payment_date"
	FieldAddons        = "addons"
	FieldCreatedBy     = "created_by"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	PaymentPending           = "pending"
	PaymentCompleted         = "completed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
	PaymentNoRefund          = "no_refund"
)

const (
	RefundPolicyFull    = "full"
	RefundPolicyPartial = "partial"
	RefundPolicyNone    = "none"

	ConfirmationModeAuto   = "auto"
	ConfirmationModeManual = "manual"
)

// AddonSnapshot is the price of one selected add-on frozen at booking time.
// Amount already accounts for the slot's fractional hours on per_hour items.
type AddonSnapshot struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PricingType string  `json:"pricing_type"`
	Amount      float64 `json:"amount"`
}

// AddonSnapshots is stored as a single JSONB column on the booking row.
type AddonSnapshots []AddonSnapshot

func (a AddonSnapshots) Value() (driver.Value, error) {
	if a == nil {
		a = AddonSnapshots{}
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal addon snapshots: %w", err)
	}

	return raw, nil
}

func (a *AddonSnapshots) Scan(src any) error {
	switch value := src.(type) {
	case []byte:
		return json.Unmarshal(value, a)
	case string:
		return json.Unmarshal([]byte(value), a)
	case nil:
		*a = nil

		return nil
	default:
		return errors.New("unsupported source type for addon snapshots")
	}
}

type Booking struct {
	ID            string         `db:"id"`
	CourtID       string         `db:"court_id"`
	BookingDate   time.Time      `db:"booking_date"`
	TimeFrom      time.Time      `db:"time_from"`
	TimeTo        time.Time      `db:"time_to"`
	Status        string         `db:"status"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone string         `db:"customer_phone"`
	UserID        string         `db:"user_id"`
	PaymentAmount float64        `db:"payment_amount"`
	PaymentStatus string         `db:"payment_status"`
	PaymentMethod string         `db:"payment_method"`
	PaymentID     string         `db:"payment_id"`
	PaymentDate   *time.Time     `db:"payment_date"`
	Addons        AddonSnapshots `db:"addons"`
	model.Metadata
}

// IsTerminal reports whether the booking can no longer change state.
func (b Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

func (b Booking) Range() timeslot.Range {
	return timeslot.Range{From: b.TimeFrom, To: b.TimeTo}
}

// RefundOutcome classifies a completed payment at cancellation time using the
// configured refund policy. The classification is applied once and never
// recomputed.
func RefundOutcome(policy string) string {
	switch policy {
	case RefundPolicyFull:
		return PaymentRefunded
	case RefundPolicyPartial:
		return PaymentPartiallyRefunded
	default:
		return PaymentNoRefund
	}
}
