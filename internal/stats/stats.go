// Package stats computes read-only figures over a hotel: revenue,
// occupancy, popularity rankings and guest loyalty.
package stats

import (
	"hotel/internal/hotel"
	"hotel/internal/model"
)

// Engine aggregates over the current state of a hotel. It never mutates it.
type Engine struct {
	h *hotel.Hotel
}

func New(h *hotel.Hotel) *Engine {
	return &Engine{h: h}
}

// TotalRevenue sums the totals of every reservation that was not cancelled.
func (e *Engine) TotalRevenue() float64 {
	var sum float64
	for _, r := range e.billable() {
		sum += e.h.Ledger.Total(r)
	}
	return sum
}

// RevenueByStatus sums the totals of reservations in one status.
func (e *Engine) RevenueByStatus(status model.Status) float64 {
	var sum float64
	for _, r := range e.h.Ledger.ListByStatus(status) {
		sum += e.h.Ledger.Total(r)
	}
	return sum
}

// OccupancyRate is the share of occupied rooms, in percent.
func (e *Engine) OccupancyRate() float64 {
	return e.h.Rooms.OccupancyRate()
}

// MostBookedRoom returns the room with the most reservations of any status.
// Ties go to the lowest room number. ok is false without reservations or
// when the winning room no longer exists.
func (e *Engine) MostBookedRoom() (room model.Room, count int, ok bool) {
	counts := make(map[int]int)
	for _, r := range e.h.Ledger.ListAll() {
		counts[r.RoomNumber]++
	}
	number, count := top(counts)
	if count == 0 {
		return model.Room{}, 0, false
	}
	room, ok = e.h.Rooms.Find(number)
	return room, count, ok
}

// MostLoyalGuest returns the guest with the most reservations. Ties go to
// the lowest guest number.
func (e *Engine) MostLoyalGuest() (guest model.Guest, count int, ok bool) {
	counts := make(map[int]int)
	for _, r := range e.h.Ledger.ListAll() {
		counts[r.GuestNumber]++
	}
	number, count := top(counts)
	if count == 0 {
		return model.Guest{}, 0, false
	}
	guest, ok = e.h.Guests.Find(number)
	return guest, count, ok
}

// MostUsedService returns the service attached most often, resolved through
// the service catalog. Ties go to the lowest id.
func (e *Engine) MostUsedService() (service model.Service, count int, ok bool) {
	counts := make(map[int]int)
	for _, r := range e.h.Ledger.ListAll() {
		for _, id := range r.ServiceIDs {
			counts[id]++
		}
	}
	id, count := top(counts)
	if count == 0 {
		return model.Service{}, 0, false
	}
	service, ok = e.h.Services.FindByID(id)
	return service, count, ok
}

// AverageNights is the mean stay length of non-cancelled reservations.
func (e *Engine) AverageNights() float64 {
	rs := e.billable()
	if len(rs) == 0 {
		return 0
	}
	total := 0
	for _, r := range rs {
		total += r.Nights()
	}
	return float64(total) / float64(len(rs))
}

// AverageRevenue is the mean total of non-cancelled reservations.
func (e *Engine) AverageRevenue() float64 {
	rs := e.billable()
	if len(rs) == 0 {
		return 0
	}
	return e.TotalRevenue() / float64(len(rs))
}

// CountByStatus counts reservations per status. Every status is present.
func (e *Engine) CountByStatus() map[model.Status]int {
	out := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		out[s] = 0
	}
	for _, r := range e.h.Ledger.ListAll() {
		out[r.Status]++
	}
	return out
}

// TotalServices counts service attachments across all reservations.
func (e *Engine) TotalServices() int {
	n := 0
	for _, r := range e.h.Ledger.ListAll() {
		n += len(r.ServiceIDs)
	}
	return n
}

func (e *Engine) billable() []model.Reservation {
	var out []model.Reservation
	for _, r := range e.h.Ledger.ListAll() {
		if r.Status != model.StatusCancelled {
			out = append(out, r)
		}
	}
	return out
}

// top picks the key with the highest count, lowest key on ties.
func top(counts map[int]int) (key, count int) {
	for k, c := range counts {
		if c > count || (c == count && k < key) {
			key, count = k, c
		}
	}
	return key, count
}
