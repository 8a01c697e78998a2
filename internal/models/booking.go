package models

// Booking is a room reservation owned by the signed-in user. Bookings are
// created server-side; the client only holds read copies.
type Booking struct {
	ID         int64  `json:"id"`
	Room       Room   `json:"room"`
	CheckIn    Date   `json:"check_in_date"`
	CheckOut   Date   `json:"check_out_date"`
	TotalPrice string `json:"total_price"`
	Status     string `json:"status"`
	CreatedAt  Date   `json:"created_at"`
}

// Nights returns the stay length in nights.
func (b Booking) Nights() int {
	if b.CheckIn.IsZero() || b.CheckOut.IsZero() {
		return 0
	}
	return b.CheckIn.DaysUntil(b.CheckOut)
}
