package menu

import (
	"fmt"
	"strings"

	"hotel/internal/model"
)

func (m *Menu) reservationsMenu() {
	m.subMenu("Reservations", []action{
		{"Create a reservation", m.createReservation},
		{"List all reservations", func() { m.listReservations("All reservations", m.h.Ledger.ListAll()) }},
		{"List a guest's reservations", m.listGuestReservations},
		{"Find a reservation", m.findReservation},
		{"Add services to a reservation", m.addServices},
		{"Confirm a reservation", m.confirmReservation},
		{"Cancel a reservation", m.cancelReservation},
		{"Complete a reservation", m.completeReservation},
		{"List active reservations", func() { m.listReservations("Active reservations", m.h.Ledger.ListActive()) }},
		{"List cancelled reservations", func() { m.listReservations("Cancelled reservations", m.h.Ledger.ListCancelled()) }},
	})
}

func (m *Menu) createReservation() {
	m.println()
	m.println("--- New reservation ---")
	guestNumber := m.readInt("Guest number: ")
	g, ok := m.h.Guests.Find(guestNumber)
	if !ok {
		m.println("Guest not found.")
		return
	}
	m.printf("Guest: %s\n", g.FullName())

	available := m.h.Rooms.ListAvailable()
	if len(available) == 0 {
		m.println("No room available.")
		return
	}
	m.listRooms("Available rooms", available)

	roomNumber := m.readInt("Room number: ")
	start := m.readLine("Arrival date (DD/MM/YYYY): ")
	end := m.readLine("Departure date (DD/MM/YYYY): ")

	r, err := m.h.Ledger.Create(guestNumber, roomNumber, start, end)
	if err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Int("reservation", r.Number).Int("room", r.RoomNumber).Int("guest", r.GuestNumber).Msg("Reservation created")
	m.println("Reservation created.")
	m.println(m.describeReservation(r))
}

func (m *Menu) listReservations(title string, list []model.Reservation) {
	if len(list) == 0 {
		m.println("No reservations.")
		return
	}
	m.printf("=== %s (%d) ===\n", title, len(list))
	for _, r := range list {
		m.println(m.describeReservation(r))
		m.println(strings.Repeat("-", 40))
	}
}

func (m *Menu) listGuestReservations() {
	number := m.readInt("Guest number: ")
	g, ok := m.h.Guests.Find(number)
	if !ok {
		m.println("Guest not found.")
		return
	}
	m.listReservations("Reservations of "+g.FullName(), m.h.Ledger.ListForGuest(number))
}

func (m *Menu) findReservation() {
	r, ok := m.h.Ledger.FindByNumber(m.readInt("Reservation number: "))
	if !ok {
		m.println("Reservation not found.")
		return
	}
	m.println(m.describeReservation(r))
}

func (m *Menu) addServices() {
	number := m.readInt("Reservation number: ")
	if _, ok := m.h.Ledger.FindByNumber(number); !ok {
		m.println("Reservation not found.")
		return
	}
	m.listServices()
	for !m.eof {
		id := m.readInt("Service ID to add (0 to finish): ")
		if id <= 0 {
			break
		}
		added, err := m.h.Ledger.AddService(number, id)
		switch {
		case err != nil:
			m.printErr(err)
		case !added:
			m.println("This service is not available.")
		default:
			s, _ := m.h.Services.FindByID(id)
			m.printf("Added: %s\n", s.Name)
		}
	}
	r, _ := m.h.Ledger.FindByNumber(number)
	m.printf("New total: %.2f\n", m.h.Ledger.Total(r))
}

func (m *Menu) confirmReservation() {
	r, err := m.h.Ledger.Confirm(m.readInt("Reservation number: "))
	if err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Int("reservation", r.Number).Msg("Reservation confirmed")
	m.println("Reservation confirmed.")
}

func (m *Menu) cancelReservation() {
	number := m.readInt("Reservation number: ")
	if _, ok := m.h.Ledger.FindByNumber(number); !ok {
		m.println("Reservation not found.")
		return
	}
	reason := m.readLine("Reason: ")
	r, err := m.h.Ledger.Cancel(number, reason)
	if err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Int("reservation", r.Number).Str("reason", r.CancelReason).Msg("Reservation cancelled")
	m.printf("Reservation cancelled. Room %d is free again.\n", r.RoomNumber)
}

func (m *Menu) completeReservation() {
	r, err := m.h.Ledger.Complete(m.readInt("Reservation number: "))
	if err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Int("reservation", r.Number).Msg("Reservation completed")
	m.printf("Reservation completed. Room %d is free again.\n", r.RoomNumber)
}

// describeReservation renders one reservation with resolved names.
func (m *Menu) describeReservation(r model.Reservation) string {
	var b strings.Builder
	q := m.h.Ledger.Quote(r)

	guest := "unknown guest"
	if g, ok := m.h.Guests.Find(r.GuestNumber); ok {
		guest = g.FullName()
	}
	fmt.Fprintf(&b, "Reservation #%d - %s\n", r.Number, r.Status.Label())
	fmt.Fprintf(&b, "  Guest: %s (#%d)\n", guest, r.GuestNumber)
	if room, ok := m.h.Rooms.Find(r.RoomNumber); ok {
		fmt.Fprintf(&b, "  Room: %d (%s)\n", room.Number, room.Kind)
	} else {
		fmt.Fprintf(&b, "  Room: %d\n", r.RoomNumber)
	}
	fmt.Fprintf(&b, "  Stay: %s -> %s (%d nights)", model.FormatDate(r.Start), model.FormatDate(r.End), q.Nights)
	if r.IsActive() && r.ContainsDate(m.now()) {
		b.WriteString(" [in house]")
	}
	b.WriteString("\n")

	if len(r.ServiceIDs) > 0 {
		names := make([]string, 0, len(r.ServiceIDs))
		for _, id := range r.ServiceIDs {
			if s, ok := m.h.Services.FindByID(id); ok {
				names = append(names, s.Name)
			}
		}
		fmt.Fprintf(&b, "  Services: %s\n", strings.Join(names, ", "))
	}
	if r.Status == model.StatusCancelled {
		on := "-"
		if r.CancelledOn != nil {
			on = model.FormatDate(*r.CancelledOn)
		}
		fmt.Fprintf(&b, "  Cancelled on %s: %s\n", on, r.CancelReason)
	}
	fmt.Fprintf(&b, "  Total: %.2f (room %.2f + services %.2f)", q.Total, q.RoomPrice, q.ServicesPrice)
	return b.String()
}
