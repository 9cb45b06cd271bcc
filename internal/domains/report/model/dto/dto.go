package dto

// SummaryRequest bounds the reporting window, inclusive on both ends. An
// optional court ID narrows the fold to a single court.
type SummaryRequest struct {
	DateFrom string `json:"date_from" validate:"required"`
	DateTo   string `json:"date_to"   validate:"required"`
	CourtID  string `json:"court_id"  validate:"omitempty"`
}

type DayRevenue struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type CourtRevenue struct {
	CourtID  string  `json:"court_id"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// SummaryResponse aggregates the bookings of a date range. Revenue counts
// only completed payments; refunded and pending amounts are excluded.
type SummaryResponse struct {
	DateFrom       string         `json:"date_from"`
	DateTo         string         `json:"date_to"`
	TotalBookings  int            `json:"total_bookings"`
	StatusCounts   map[string]int `json:"status_counts"`
	TotalRevenue   float64        `json:"total_revenue"`
	RevenueByDay   []DayRevenue   `json:"revenue_by_day"`
	RevenueByCourt []CourtRevenue `json:"revenue_by_court"`
}
