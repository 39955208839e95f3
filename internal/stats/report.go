package stats

import (
	"fmt"
	"io"
	"strings"

	"hotel/internal/model"
)

// Report gathers every figure of the engine for the text and Excel views.
type Report struct {
	Rooms        int
	Guests       int
	Reservations int
	Services     int

	TotalRevenue   float64
	AverageRevenue float64
	OccupancyRate  float64
	OccupiedRooms  int
	AverageNights  float64
	ByStatus       map[model.Status]int
	TotalServices  int

	MostUsedService      *model.Service
	MostUsedServiceCount int
	MostBookedRoom       *model.Room
	MostBookedRoomCount  int
	MostLoyalGuest       *model.Guest
	MostLoyalGuestCount  int
}

// Report computes all statistics at once.
func (e *Engine) Report() Report {
	rep := Report{
		Rooms:          e.h.Rooms.Count(),
		Guests:         e.h.Guests.Count(),
		Reservations:   e.h.Ledger.Count(),
		Services:       e.h.Services.Count(),
		TotalRevenue:   e.TotalRevenue(),
		AverageRevenue: e.AverageRevenue(),
		OccupancyRate:  e.OccupancyRate(),
		OccupiedRooms:  e.h.Rooms.OccupiedCount(),
		AverageNights:  e.AverageNights(),
		ByStatus:       e.CountByStatus(),
		TotalServices:  e.TotalServices(),
	}
	if s, n, ok := e.MostUsedService(); ok {
		rep.MostUsedService, rep.MostUsedServiceCount = &s, n
	}
	if r, n, ok := e.MostBookedRoom(); ok {
		rep.MostBookedRoom, rep.MostBookedRoomCount = &r, n
	}
	if g, n, ok := e.MostLoyalGuest(); ok {
		rep.MostLoyalGuest, rep.MostLoyalGuestCount = &g, n
	}
	return rep
}

// WriteText renders the report as plain text.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", 52)

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", rule, center("STATISTICS REPORT", len(rule)), rule)

	b.WriteString("=== OVERVIEW ===\n")
	fmt.Fprintf(&b, "Rooms: %d\nGuests: %d\nReservations: %d\nServices: %d\n\n", r.Rooms, r.Guests, r.Reservations, r.Services)

	b.WriteString("=== REVENUE ===\n")
	fmt.Fprintf(&b, "Total revenue: %.2f\nAverage per reservation: %.2f\n\n", r.TotalRevenue, r.AverageRevenue)

	b.WriteString("=== OCCUPANCY ===\n")
	fmt.Fprintf(&b, "Occupancy rate: %.1f%% (%d/%d rooms)\n\n", r.OccupancyRate, r.OccupiedRooms, r.Rooms)

	b.WriteString("=== RESERVATIONS ===\n")
	fmt.Fprintf(&b, "Average nights: %.1f\nBy status:\n", r.AverageNights)
	for _, s := range model.Statuses {
		fmt.Fprintf(&b, "  - %s: %d\n", s.Label(), r.ByStatus[s])
	}
	b.WriteString("\n")

	b.WriteString("=== SERVICES ===\n")
	fmt.Fprintf(&b, "Services ordered: %d\n", r.TotalServices)
	if r.MostUsedService != nil {
		fmt.Fprintf(&b, "Most used service: %s (%d)\n", r.MostUsedService.Name, r.MostUsedServiceCount)
	} else {
		b.WriteString("Most used service: none\n")
	}
	b.WriteString("\n")

	b.WriteString("=== MOST BOOKED ROOM ===\n")
	if r.MostBookedRoom != nil {
		fmt.Fprintf(&b, "%s (%d reservations)\n\n", r.MostBookedRoom, r.MostBookedRoomCount)
	} else {
		b.WriteString("none\n\n")
	}

	b.WriteString("=== MOST LOYAL GUEST ===\n")
	if r.MostLoyalGuest != nil {
		fmt.Fprintf(&b, "%s (%d reservations)\n\n", r.MostLoyalGuest, r.MostLoyalGuestCount)
	} else {
		b.WriteString("none\n\n")
	}

	fmt.Fprintf(&b, "%s\n", rule)
	_, err := io.WriteString(w, b.String())
	return err
}

func center(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
