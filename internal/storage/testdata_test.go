package storage

import (
	"time"

	"hotel/internal/hotel"
	"hotel/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleState() hotel.State {
	tariff := model.DefaultTariff()
	suite := tariff.NewSuite(301, false, true) // balcony only
	suite.Occupied = true
	cancelled := day(2025, 6, 2)

	return hotel.State{
		Name:    "Hotel du Lac",
		Address: "1 quai du Lac",
		Rooms: []model.Room{
			tariff.NewStandard(101),
			tariff.NewDouble(201, true),
			suite,
		},
		Guests: []model.Guest{
			{Number: 1, LastName: "Dupont", FirstName: "Jean", Email: "jean@example.fr", Phone: "0601"},
			{Number: 4, LastName: "Curie", FirstName: "Marie", Email: "marie@example.fr", Phone: "0602"},
		},
		Services: []model.Service{
			{ID: 1, Name: "Spa", Description: "one hour", Price: 40, Available: true},
			{ID: 2, Name: "Breakfast", Description: "buffet", Price: 12.5, Available: false},
		},
		Reservations: []model.Reservation{
			{
				Number: 1, GuestNumber: 1, RoomNumber: 301,
				Start: day(2025, 6, 10), End: day(2025, 6, 12),
				Status: model.StatusConfirmed, ServiceIDs: []int{1, 2},
			},
			{
				Number: 2, GuestNumber: 4, RoomNumber: 101,
				Start: day(2025, 6, 10), End: day(2025, 6, 11),
				Status: model.StatusCancelled, CancelledOn: &cancelled, CancelReason: "change of plans",
				ServiceIDs: []int{1},
			},
			{
				Number: 3, GuestNumber: 4, RoomNumber: 201,
				Start: day(2025, 5, 1), End: day(2025, 5, 4),
				Status: model.StatusCompleted,
			},
		},
	}
}
