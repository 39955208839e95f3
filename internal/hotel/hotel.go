// Package hotel holds the in-memory hotel: room catalog, guest directory,
// service catalog and the reservation ledger that ties them together.
package hotel

import (
	"fmt"
	"time"

	"hotel/internal/model"
)

// Hotel aggregates the catalogs and the ledger of one establishment.
type Hotel struct {
	Name    string
	Address string

	Rooms    *RoomCatalog
	Guests   *GuestDirectory
	Services *ServiceCatalog
	Ledger   *Ledger

	tariff model.Tariff
}

type options struct {
	tariff    model.Tariff
	policy    Policy
	publisher EventPublisher
	now       func() time.Time
}

// Option customises a Hotel.
type Option func(*options)

// WithTariff sets room rates and suite surcharges.
func WithTariff(t model.Tariff) Option {
	return func(o *options) { o.tariff = t }
}

// WithPolicy sets the reservation validation policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithPublisher sends ledger events to p.
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates an empty hotel. The default policy rejects stays that start
// in the past.
func New(name, address string, opts ...Option) *Hotel {
	o := options{
		tariff: model.DefaultTariff(),
		policy: Policy{RejectPastStart: true},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	rooms := NewRoomCatalog()
	guests := NewGuestDirectory()
	services := NewServiceCatalog()
	ledger := NewLedger(rooms, guests, services, o.tariff, o.policy)
	ledger.publisher = o.publisher
	ledger.now = o.now

	return &Hotel{
		Name:     name,
		Address:  address,
		Rooms:    rooms,
		Guests:   guests,
		Services: services,
		Ledger:   ledger,
		tariff:   o.tariff,
	}
}

// Tariff returns the prices used to build rooms and quote reservations.
func (h *Hotel) Tariff() model.Tariff {
	return h.tariff
}

// State is a plain snapshot of a hotel, the unit the storage layer reads
// and writes.
type State struct {
	Name         string
	Address      string
	Rooms        []model.Room
	Guests       []model.Guest
	Services     []model.Service
	Reservations []model.Reservation
}

// Empty reports whether the snapshot carries no data at all.
func (s State) Empty() bool {
	return s.Name == "" && s.Address == "" && len(s.Rooms) == 0 && len(s.Guests) == 0 &&
		len(s.Services) == 0 && len(s.Reservations) == 0
}

// ImportResult summarises what FromState kept and dropped.
type ImportResult struct {
	Rooms           int
	Guests          int
	Services        int
	Reservations    int
	Skipped         []error // records that could not be restored
	DroppedServices int     // service ids pointing to no service
	OccupancyFixed  []int   // rooms whose stored flag disagreed with the ledger
}

// Export snapshots the hotel.
func (h *Hotel) Export() State {
	return State{
		Name:         h.Name,
		Address:      h.Address,
		Rooms:        h.Rooms.All(),
		Guests:       h.Guests.All(),
		Services:     h.Services.All(),
		Reservations: h.Ledger.ListAll(),
	}
}

// FromState rebuilds a hotel from a snapshot. Rooms, guests and services go
// first so reservations can resolve them; reservations whose guest or room
// is missing are skipped. Room occupancy is then derived from the ledger,
// whatever the snapshot claimed.
func FromState(st State, opts ...Option) (*Hotel, ImportResult) {
	h := New(st.Name, st.Address, opts...)
	var res ImportResult

	stored := make(map[int]bool, len(st.Rooms))
	for _, r := range st.Rooms {
		added, err := h.Rooms.Add(r)
		switch {
		case err != nil:
			res.Skipped = append(res.Skipped, err)
		case !added:
			res.Skipped = append(res.Skipped, fmt.Errorf("room %d: %w", r.Number, ErrDuplicate))
		default:
			stored[r.Number] = r.Occupied
			res.Rooms++
		}
	}
	for _, g := range st.Guests {
		if err := h.Guests.restore(g); err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		res.Guests++
	}
	for _, s := range st.Services {
		if err := h.Services.restore(s); err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		res.Services++
	}
	for _, r := range st.Reservations {
		dropped, err := h.Ledger.Restore(r)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		res.DroppedServices += dropped
		res.Reservations++
	}

	for _, r := range h.Rooms.All() {
		if stored[r.Number] != r.Occupied {
			res.OccupancyFixed = append(res.OccupancyFixed, r.Number)
		}
	}
	return h, res
}
