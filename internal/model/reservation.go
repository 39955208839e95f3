package model

import "time"

// Reservation binds a guest and a room to a stay. Guest, room and services
// are referenced by identifier and resolved through their catalogs.
type Reservation struct {
	Number       int        `json:"number"`
	GuestNumber  int        `json:"guest_number"`
	RoomNumber   int        `json:"room_number"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"` // exclusive: the departure day
	ServiceIDs   []int      `json:"service_ids"`
	Status       Status     `json:"status"`
	CancelledOn  *time.Time `json:"cancelled_on,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Nights returns the number of nights of the stay.
func (r *Reservation) Nights() int {
	return NightsBetween(r.Start, r.End)
}

// IsActive reports whether the reservation still holds its room.
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// ContainsDate checks if the stay covers the night of date.
func (r *Reservation) ContainsDate(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(r.Start)) && d.Before(DateOf(r.End))
}
