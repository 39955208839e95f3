package metrics

import (
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"hotel/internal/events"
	"hotel/internal/hotel"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "reservations_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "reservation_transitions_total",
			Help:      "Count of reservation status changes by target status.",
		},
		[]string{"status"},
	)

	reservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "reservations_rejected_total",
			Help:      "Count of refused reservation requests by reason.",
		},
		[]string{"reason"},
	)

	roomOccupancy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hotel",
			Name:      "room_occupancy_ratio",
			Help:      "Share of occupied rooms, between 0 and 1.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationTransitions, reservationsRejected, roomOccupancy)
	})
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncTransition(status string) {
	reservationTransitions.WithLabelValues(status).Inc()
}

func IncRejected(reason string) {
	reservationsRejected.WithLabelValues(reason).Inc()
}

// SetOccupancy takes a percentage and stores it as a ratio.
func SetOccupancy(percent float64) {
	roomOccupancy.Set(percent / 100)
}

// Subscribe feeds the collectors from ledger events.
func Subscribe(bus *events.EventBus) {
	bus.Subscribe(hotel.EventReservationCreated, func(e events.Event) error {
		ev, err := decode(e)
		if err != nil {
			return err
		}
		IncReservationCreated()
		SetOccupancy(ev.Occupancy)
		return nil
	})
	for _, t := range []string{hotel.EventReservationConfirmed, hotel.EventReservationCancelled, hotel.EventReservationCompleted} {
		bus.Subscribe(t, func(e events.Event) error {
			ev, err := decode(e)
			if err != nil {
				return err
			}
			IncTransition(ev.Status)
			SetOccupancy(ev.Occupancy)
			return nil
		})
	}
	bus.Subscribe(hotel.EventReservationRejected, func(e events.Event) error {
		ev, err := decode(e)
		if err != nil {
			return err
		}
		IncRejected(ev.Reason)
		return nil
	})
}

func decode(e events.Event) (hotel.ReservationEvent, error) {
	var ev hotel.ReservationEvent
	err := json.Unmarshal(e.Payload, &ev)
	return ev, err
}
