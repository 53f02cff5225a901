package models

// Booking is a priced ticket linking one passenger, one conductor, and a
// route segment. Price is always server-computed.
type Booking struct {
	ID          int64  `json:"id"`
	ConductorID int64  `json:"conductor_id"`
	PassengerID int64  `json:"passenger_id"`
	RouteID     string `json:"route_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Price       int64  `json:"price"`
	HeadCount   int    `json:"head_count"`
	BookingTime string `json:"booking_time"` // "2006-01-02 15:04:05" in operator tz
	Verified    bool   `json:"verified"`
}

// History index kinds for booking_history rows.
const (
	HistoryPassenger = "PASSENGER"
	HistoryConductor = "CONDUCTOR"
)
