package menu

import (
	"fmt"

	"hotel/internal/model"
)

func (m *Menu) roomsMenu() {
	m.subMenu("Rooms", []action{
		{"Add a room", m.addRoom},
		{"List all rooms", func() { m.listRooms("All rooms", m.h.Rooms.All()) }},
		{"List available rooms", func() { m.listRooms("Available rooms", m.h.Rooms.ListAvailable()) }},
		{"Find a room by number", m.findRoom},
		{"Find rooms by type", m.findRoomsByType},
		{"Find rooms by maximum price", m.findRoomsByPrice},
	})
}

func (m *Menu) addRoom() {
	tariff := m.h.Tariff()
	m.println()
	m.println("--- Add a room ---")
	m.printf("1. Standard (%.2f/night, %d pers)\n", tariff.StandardRate, model.StandardCapacity)
	m.printf("2. Double (%.2f/night, %d pers)\n", tariff.DoubleRate, model.DoubleCapacity)
	m.printf("3. Suite (%.2f/night, %d pers)\n", tariff.SuiteRate, model.SuiteCapacity)
	kind := m.readInt("Room type: ")
	if kind < 1 || kind > 3 {
		m.println("Invalid type.")
		return
	}

	number := m.readInt("Room number: ")
	if number <= 0 {
		m.println("Invalid room number.")
		return
	}
	if _, exists := m.h.Rooms.Find(number); exists {
		m.println("A room with this number already exists.")
		return
	}

	var room model.Room
	switch kind {
	case 1:
		room = tariff.NewStandard(number)
	case 2:
		room = tariff.NewDouble(number, m.readYesNo("Twin beds?"))
	case 3:
		jacuzzi := m.readYesNo("With jacuzzi?")
		balcony := m.readYesNo("With balcony?")
		room = tariff.NewSuite(number, jacuzzi, balcony)
	}

	added, err := m.h.Rooms.Add(room)
	switch {
	case err != nil:
		m.printErr(err)
	case !added:
		m.println("A room with this number already exists.")
	default:
		m.logger.Info().Int("room", number).Str("kind", string(room.Kind)).Msg("Room added")
		m.printf("Room added: %s\n", room)
	}
}

func (m *Menu) listRooms(title string, rooms []model.Room) {
	if len(rooms) == 0 {
		m.println("No rooms.")
		return
	}
	m.printf("=== %s (%d) ===\n", title, len(rooms))
	for _, r := range rooms {
		m.println(r)
	}
}

func (m *Menu) findRoom() {
	number := m.readInt("Room number: ")
	r, ok := m.h.Rooms.Find(number)
	if !ok {
		m.println("No room with this number.")
		return
	}
	m.printf("Room found: %s\n", r)
}

func (m *Menu) findRoomsByType() {
	kind := m.readLine("Room type (Standard/Double/Suite): ")
	rooms := m.h.Rooms.FindByType(kind)
	if len(rooms) == 0 {
		m.printf("No room of type '%s'.\n", kind)
		return
	}
	m.listRooms(fmt.Sprintf("Rooms of type %s", kind), rooms)
}

func (m *Menu) findRoomsByPrice() {
	limit, ok := m.readFloat("Maximum price per night: ")
	if !ok {
		return
	}
	rooms := m.h.Rooms.FindByMaxPrice(limit)
	if len(rooms) == 0 {
		m.println("No room at this price.")
		return
	}
	m.listRooms(fmt.Sprintf("Rooms at %.2f max per night", limit), rooms)
}
