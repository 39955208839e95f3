package menu

import (
	"hotel/internal/hotel"
	"hotel/internal/model"
)

func (m *Menu) guestsMenu() {
	m.subMenu("Guests", []action{
		{"Add a guest", m.addGuest},
		{"List all guests", m.listGuests},
		{"Find a guest", m.findGuest},
		{"Edit a guest", m.editGuest},
		{"Remove a guest", m.removeGuest},
	})
}

func (m *Menu) addGuest() {
	m.println()
	m.println("--- Add a guest ---")
	g := model.Guest{LastName: m.readLine("Last name: ")}
	if g.LastName == "" {
		m.println("Last name cannot be empty.")
		return
	}
	if g.FirstName = m.readLine("First name: "); g.FirstName == "" {
		m.println("First name cannot be empty.")
		return
	}
	if g.Email = m.readLine("Email: "); g.Email == "" {
		m.println("Email cannot be empty.")
		return
	}
	g.Phone = m.readLine("Phone: ")

	if m.h.Guests.EmailExists(g.Email) {
		m.println("Warning: this email is already registered.")
	}
	if g.Phone != "" && m.h.Guests.PhoneExists(g.Phone) {
		m.println("Warning: this phone number is already registered.")
	}

	stored, emailOK := m.h.Guests.Add(g)
	if !emailOK {
		m.println("Warning: the email looks invalid.")
	}
	m.logger.Info().Int("guest", stored.Number).Msg("Guest added")
	m.printf("Guest added: %s\n", stored)
}

func (m *Menu) listGuests() {
	guests := m.h.Guests.All()
	if len(guests) == 0 {
		m.println("No guests.")
		return
	}
	m.printf("=== Guests (%d) ===\n", len(guests))
	for _, g := range guests {
		m.println(g)
	}
}

func (m *Menu) findGuest() {
	m.println("Search by:")
	m.println("1. Guest number")
	m.println("2. Email")
	m.println("3. Phone")

	var (
		g  model.Guest
		ok bool
	)
	switch m.readInt("Your choice: ") {
	case 1:
		g, ok = m.h.Guests.Find(m.readInt("Guest number: "))
	case 2:
		g, ok = m.h.Guests.FindByEmail(m.readLine("Email: "))
	case 3:
		g, ok = m.h.Guests.FindByPhone(m.readLine("Phone: "))
	default:
		m.println("Invalid choice.")
		return
	}
	if !ok {
		m.println("No guest found.")
		return
	}
	m.printf("Guest found: %s\n", g)
}

func (m *Menu) editGuest() {
	number := m.readInt("Guest number: ")
	g, ok := m.h.Guests.Find(number)
	if !ok {
		m.println("Guest not found.")
		return
	}
	m.printf("Current: %s\n", g)
	m.println("1. Last name")
	m.println("2. First name")
	m.println("3. Email")
	m.println("4. Phone")

	var u hotel.GuestUpdate
	switch m.readInt("Field to edit: ") {
	case 1:
		v := m.readLine("New last name: ")
		u.LastName = &v
	case 2:
		v := m.readLine("New first name: ")
		u.FirstName = &v
	case 3:
		v := m.readLine("New email: ")
		if !model.ValidEmail(v) {
			m.println("Warning: the email looks invalid.")
		}
		u.Email = &v
	case 4:
		v := m.readLine("New phone: ")
		u.Phone = &v
	default:
		m.println("Invalid choice.")
		return
	}

	m.h.Guests.Update(number, u)
	g, _ = m.h.Guests.Find(number)
	m.logger.Info().Int("guest", number).Msg("Guest updated")
	m.printf("Guest updated: %s\n", g)
}

func (m *Menu) removeGuest() {
	number := m.readInt("Guest number: ")
	g, ok := m.h.Guests.Find(number)
	if !ok {
		m.println("Guest not found.")
		return
	}
	if n := len(m.h.Ledger.ListForGuest(number)); n > 0 {
		m.printf("Note: %s keeps %d reservation(s) on record.\n", g.FullName(), n)
	}
	if !m.readYesNo("Remove " + g.FullName() + "?") {
		m.println("Cancelled.")
		return
	}
	m.h.Guests.Remove(number)
	m.logger.Info().Int("guest", number).Msg("Guest removed")
	m.println("Guest removed.")
}
