package model

import "courtbook/shared/model"

const (
	AddonTableName  = "court_addons"
	AddonEntityName = "addon"

	FieldAddonID     = "id"
	FieldAddonCourt  = "court_id"
	FieldAddonName   = "name"
	FieldAddonPrice  = "price"
	FieldPricingType = "pricing_type"
)

const (
	PricingPerHour    = "per_hour"
	PricingPerBooking = "per_booking"
)

// Addon is a catalog item attached to a court. Its price is snapshotted into
// the booking at creation time, so editing the catalog never changes
// historical bookings.
type Addon struct {
	ID          string  `db:"id"`
	CourtID     string  `db:"court_id"`
	Name        string  `db:"name"`
	Price       float64 `db:"price"`
	PricingType string  `db:"pricing_type"`
	model.Metadata
}
