package menu

import "hotel/internal/hotel"

func (m *Menu) servicesMenu() {
	m.subMenu("Services", []action{
		{"List services", m.listServices},
		{"Add a service", m.addService},
		{"Edit a service", m.editService},
		{"Activate a service", func() { m.toggleService(true) }},
		{"Deactivate a service", func() { m.toggleService(false) }},
		{"Apply a discount", m.discountService},
	})
}

func (m *Menu) listServices() {
	services := m.h.Services.All()
	if len(services) == 0 {
		m.println("No services.")
		return
	}
	m.printf("=== Services (%d) ===\n", len(services))
	for _, s := range services {
		m.println(s)
	}
}

func (m *Menu) addService() {
	m.println()
	m.println("--- Add a service ---")
	name := m.readLine("Name: ")
	description := m.readLine("Description: ")
	price, ok := m.readFloat("Price: ")
	if !ok {
		return
	}
	s, err := m.h.Services.Add(name, description, price)
	if err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Int("service", s.ID).Msg("Service added")
	m.printf("Service added: %s\n", s)
}

func (m *Menu) editService() {
	id := m.readInt("Service ID: ")
	s, ok := m.h.Services.FindByID(id)
	if !ok {
		m.println("Service not found.")
		return
	}
	m.printf("Current: %s\n", s)
	m.println("1. Name")
	m.println("2. Description")
	m.println("3. Price")

	var u hotel.ServiceUpdate
	switch m.readInt("Field to edit: ") {
	case 1:
		v := m.readLine("New name: ")
		u.Name = &v
	case 2:
		v := m.readLine("New description: ")
		u.Description = &v
	case 3:
		v, ok := m.readFloat("New price: ")
		if !ok {
			return
		}
		u.Price = &v
	default:
		m.println("Invalid choice.")
		return
	}

	if err := m.h.Services.Update(id, u); err != nil {
		m.printErr(err)
		return
	}
	s, _ = m.h.Services.FindByID(id)
	m.printf("Service updated: %s\n", s)
}

func (m *Menu) toggleService(available bool) {
	id := m.readInt("Service ID: ")
	var err error
	if available {
		err = m.h.Services.Activate(id)
	} else {
		err = m.h.Services.Deactivate(id)
	}
	if err != nil {
		m.printErr(err)
		return
	}
	s, _ := m.h.Services.FindByID(id)
	m.printf("Service updated: %s\n", s)
}

func (m *Menu) discountService() {
	id := m.readInt("Service ID: ")
	percent := m.readInt("Discount (1-99 %): ")
	if err := m.h.Services.ApplyDiscount(id, percent); err != nil {
		m.printErr(err)
		return
	}
	s, _ := m.h.Services.FindByID(id)
	m.logger.Info().Int("service", id).Int("percent", percent).Msg("Discount applied")
	m.printf("New price: %.2f\n", s.Price)
}
