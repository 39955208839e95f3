package hotel

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"hotel/internal/model"
)

// Event types published by the ledger.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
	EventReservationRejected  = "reservation.rejected"
)

// DefaultCancelReason is stored when a cancellation gives no reason.
const DefaultCancelReason = "unspecified"

// ReservationEvent is the payload of every ledger event.
type ReservationEvent struct {
	Reservation int     `json:"reservation,omitempty"`
	Room        int     `json:"room"`
	Guest       int     `json:"guest"`
	Status      string  `json:"status,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Occupancy   float64 `json:"occupancy"`
}

// EventPublisher receives ledger events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Policy selects the optional validation rules applied on creation.
type Policy struct {
	// RejectPastStart refuses stays starting before today.
	RejectPastStart bool
}

// Quote is the price breakdown of a reservation.
type Quote struct {
	Nights        int
	RoomPrice     float64
	ServicesPrice float64
	Total         float64
}

// Ledger owns the reservations and drives room occupancy through their
// lifecycle: pending -> confirmed -> completed, pending/confirmed -> cancelled.
type Ledger struct {
	rooms     *RoomCatalog
	guests    *GuestDirectory
	services  *ServiceCatalog
	tariff    model.Tariff
	policy    Policy
	publisher EventPublisher
	now       func() time.Time

	seq          Sequence
	reservations []*model.Reservation
	transitions  map[model.Status][]model.Status
}

// NewLedger creates an empty ledger over the given catalogs.
func NewLedger(rooms *RoomCatalog, guests *GuestDirectory, services *ServiceCatalog, tariff model.Tariff, policy Policy) *Ledger {
	return &Ledger{
		rooms:    rooms,
		guests:   guests,
		services: services,
		tariff:   tariff,
		policy:   policy,
		now:      time.Now,
		transitions: map[model.Status][]model.Status{
			model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted},
			model.StatusConfirmed: {model.StatusCancelled, model.StatusCompleted},
			model.StatusCancelled: {},
			model.StatusCompleted: {},
		},
	}
}

// CanTransition checks if a reservation may move from one status to another.
func (l *Ledger) CanTransition(from, to model.Status) bool {
	return slices.Contains(l.transitions[from], to)
}

// Create books a room for a guest between two dd/mm/yyyy dates.
func (l *Ledger) Create(guestNumber, roomNumber int, start, end string) (model.Reservation, error) {
	r, err := l.create(guestNumber, roomNumber, start, end)
	if err != nil {
		l.publish(EventReservationRejected, ReservationEvent{Room: roomNumber, Guest: guestNumber, Reason: rejectReason(err)})
		return model.Reservation{}, err
	}
	l.publish(EventReservationCreated, l.eventFor(r))
	return clone(r), nil
}

func (l *Ledger) create(guestNumber, roomNumber int, start, end string) (*model.Reservation, error) {
	room, ok := l.rooms.Find(roomNumber)
	if !ok {
		return nil, fmt.Errorf("room %d: %w", roomNumber, ErrNotFound)
	}
	if room.Occupied {
		return nil, fmt.Errorf("room %d is occupied: %w", roomNumber, ErrRoomUnavailable)
	}
	if !l.guests.Exists(guestNumber) {
		return nil, fmt.Errorf("guest %d: %w", guestNumber, ErrInvalidGuest)
	}

	startDate, err := model.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidDate)
	}
	endDate, err := model.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidDate)
	}
	if !startDate.Before(endDate) {
		return nil, fmt.Errorf("%s -> %s: %w", start, end, ErrInvalidDateRange)
	}
	if l.policy.RejectPastStart && startDate.Before(l.today()) {
		return nil, fmt.Errorf("start %s is in the past: %w", start, ErrInvalidPeriod)
	}

	r := &model.Reservation{
		Number:      l.seq.Next(),
		GuestNumber: guestNumber,
		RoomNumber:  roomNumber,
		Start:       startDate,
		End:         endDate,
		Status:      model.StatusPending,
		CreatedAt:   l.now(),
	}
	l.rooms.setOccupied(roomNumber, true)
	l.reservations = append(l.reservations, r)
	return r, nil
}

// Confirm moves a pending reservation to confirmed.
func (l *Ledger) Confirm(number int) (model.Reservation, error) {
	return l.transition(number, model.StatusConfirmed, EventReservationConfirmed, nil)
}

// Cancel releases the room and records the cancellation date and reason.
func (l *Ledger) Cancel(number int, reason string) (model.Reservation, error) {
	return l.transition(number, model.StatusCancelled, EventReservationCancelled, func(r *model.Reservation) {
		today := l.today()
		r.CancelledOn = &today
		r.CancelReason = strings.TrimSpace(reason)
		if r.CancelReason == "" {
			r.CancelReason = DefaultCancelReason
		}
	})
}

// Complete checks the guest out and releases the room.
func (l *Ledger) Complete(number int) (model.Reservation, error) {
	return l.transition(number, model.StatusCompleted, EventReservationCompleted, nil)
}

func (l *Ledger) transition(number int, to model.Status, eventType string, apply func(*model.Reservation)) (model.Reservation, error) {
	r := l.get(number)
	if r == nil {
		return model.Reservation{}, fmt.Errorf("reservation %d: %w", number, ErrNotFound)
	}
	if !l.CanTransition(r.Status, to) {
		return clone(r), fmt.Errorf("reservation %d: %s -> %s: %w", number, r.Status.Label(), to.Label(), ErrInvalidTransition)
	}
	r.Status = to
	if !to.IsActive() {
		l.rooms.setOccupied(r.RoomNumber, false)
	}
	if apply != nil {
		apply(r)
	}
	l.publish(eventType, l.eventFor(r))
	return clone(r), nil
}

// AddService attaches a service. An unavailable service is ignored and
// added is false.
func (l *Ledger) AddService(number, serviceID int) (added bool, err error) {
	r := l.get(number)
	if r == nil {
		return false, fmt.Errorf("reservation %d: %w", number, ErrNotFound)
	}
	s, ok := l.services.FindByID(serviceID)
	if !ok {
		return false, fmt.Errorf("service %d: %w", serviceID, ErrNotFound)
	}
	if !s.Available {
		return false, nil
	}
	r.ServiceIDs = append(r.ServiceIDs, serviceID)
	return true, nil
}

// Restore inserts a decoded reservation with its stored number and status.
// Unknown service ids are dropped and counted.
func (l *Ledger) Restore(r model.Reservation) (droppedServices int, err error) {
	if r.Number <= 0 {
		return 0, fmt.Errorf("reservation number %d: %w", r.Number, ErrInvalidInput)
	}
	if l.get(r.Number) != nil {
		return 0, fmt.Errorf("reservation %d: %w", r.Number, ErrDuplicate)
	}
	room, ok := l.rooms.Find(r.RoomNumber)
	if !ok {
		return 0, fmt.Errorf("reservation %d: room %d: %w", r.Number, r.RoomNumber, ErrNotFound)
	}
	if !l.guests.Exists(r.GuestNumber) {
		return 0, fmt.Errorf("reservation %d: guest %d: %w", r.Number, r.GuestNumber, ErrNotFound)
	}
	if !r.Start.Before(r.End) {
		return 0, fmt.Errorf("reservation %d: %w", r.Number, ErrInvalidDateRange)
	}
	if _, ok := l.transitions[r.Status]; !ok {
		return 0, fmt.Errorf("reservation %d: status %q: %w", r.Number, r.Status, ErrInvalidInput)
	}
	if r.IsActive() && room.Occupied {
		return 0, fmt.Errorf("reservation %d: room %d already held: %w", r.Number, r.RoomNumber, ErrRoomUnavailable)
	}

	var kept []int
	for _, id := range r.ServiceIDs {
		if _, ok := l.services.FindByID(id); ok {
			kept = append(kept, id)
		} else {
			droppedServices++
		}
	}
	stored := clone(&r)
	stored.ServiceIDs = kept
	if stored.Status == model.StatusCancelled && stored.CancelReason == "" {
		stored.CancelReason = DefaultCancelReason
	}

	l.reservations = append(l.reservations, &stored)
	l.seq.Observe(stored.Number)
	if stored.IsActive() {
		l.rooms.setOccupied(stored.RoomNumber, true)
	}
	return droppedServices, nil
}

// Quote prices a reservation: room rate and suite surcharges per night,
// services flat.
func (l *Ledger) Quote(r model.Reservation) Quote {
	q := Quote{Nights: r.Nights()}
	if room, ok := l.rooms.Find(r.RoomNumber); ok {
		q.RoomPrice = l.tariff.RoomPrice(&room, q.Nights)
	}
	for _, id := range r.ServiceIDs {
		if s, ok := l.services.FindByID(id); ok {
			q.ServicesPrice += s.Price
		}
	}
	q.Total = q.RoomPrice + q.ServicesPrice
	return q
}

// Total is the full price of a reservation.
func (l *Ledger) Total(r model.Reservation) float64 {
	return l.Quote(r).Total
}

// FindByNumber looks a reservation up.
func (l *Ledger) FindByNumber(number int) (model.Reservation, bool) {
	r := l.get(number)
	if r == nil {
		return model.Reservation{}, false
	}
	return clone(r), true
}

// ListAll returns every reservation in creation order.
func (l *Ledger) ListAll() []model.Reservation {
	return l.filter(func(*model.Reservation) bool { return true })
}

// ListForGuest returns the reservations made by a guest.
func (l *Ledger) ListForGuest(guestNumber int) []model.Reservation {
	return l.filter(func(r *model.Reservation) bool { return r.GuestNumber == guestNumber })
}

// ListActive returns pending and confirmed reservations.
func (l *Ledger) ListActive() []model.Reservation {
	return l.filter(func(r *model.Reservation) bool { return r.IsActive() })
}

// ListCancelled returns cancelled reservations.
func (l *Ledger) ListCancelled() []model.Reservation {
	return l.ListByStatus(model.StatusCancelled)
}

func (l *Ledger) ListByStatus(status model.Status) []model.Reservation {
	return l.filter(func(r *model.Reservation) bool { return r.Status == status })
}

func (l *Ledger) CountActive() int {
	n := 0
	for _, r := range l.reservations {
		if r.IsActive() {
			n++
		}
	}
	return n
}

func (l *Ledger) Count() int {
	return len(l.reservations)
}

func (l *Ledger) today() time.Time {
	return model.DateOf(l.now())
}

func (l *Ledger) get(number int) *model.Reservation {
	for _, r := range l.reservations {
		if r.Number == number {
			return r
		}
	}
	return nil
}

func (l *Ledger) filter(keep func(*model.Reservation) bool) []model.Reservation {
	var out []model.Reservation
	for _, r := range l.reservations {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	return out
}

func (l *Ledger) eventFor(r *model.Reservation) ReservationEvent {
	return ReservationEvent{
		Reservation: r.Number,
		Room:        r.RoomNumber,
		Guest:       r.GuestNumber,
		Status:      string(r.Status),
		Reason:      r.CancelReason,
		Occupancy:   l.rooms.OccupancyRate(),
	}
}

func (l *Ledger) publish(eventType string, ev ReservationEvent) {
	if l.publisher == nil {
		return
	}
	// Subscribers are observers; a failing one never undoes a transition.
	_ = l.publisher.PublishJSON(eventType, ev)
}

func clone(r *model.Reservation) model.Reservation {
	c := *r
	c.ServiceIDs = slices.Clone(r.ServiceIDs)
	if r.CancelledOn != nil {
		d := *r.CancelledOn
		c.CancelledOn = &d
	}
	return c
}
