package hotel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/model"
)

type recordedEvent struct {
	Type    string
	Payload ReservationEvent
}

type recordingPublisher struct {
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(eventType string, payload interface{}) error {
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload.(ReservationEvent)})
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var june1 = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return june1 }

func newTestHotel(t *testing.T, opts ...Option) (*Hotel, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	opts = append([]Option{WithClock(fixedClock), WithPublisher(pub)}, opts...)
	h := New("Hotel du Lac", "1 quai du Lac", opts...)
	tariff := h.Tariff()
	for _, r := range []model.Room{
		tariff.NewStandard(101),
		tariff.NewDouble(201, true),
		tariff.NewSuite(301, true, true),
	} {
		_, err := h.Rooms.Add(r)
		require.NoError(t, err)
	}
	h.Guests.Add(model.Guest{LastName: "Dupont", FirstName: "Jean", Email: "jean@example.fr", Phone: "0601"})
	return h, pub
}

func TestLedger_CreateAndCancel(t *testing.T) {
	h, pub := newTestHotel(t)

	r, err := h.Ledger.Create(1, 101, "10/06/2025", "12/06/2025")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Number)
	assert.Equal(t, model.StatusPending, r.Status)
	assert.Equal(t, 2, r.Nights())
	assert.Equal(t, june1, r.CreatedAt)
	assert.InDelta(t, 100.0, h.Ledger.Total(r), 1e-9)

	room, _ := h.Rooms.Find(101)
	assert.True(t, room.Occupied)

	cancelled, err := h.Ledger.Cancel(r.Number, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, "change of plans", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledOn)
	assert.Equal(t, "01/06/2025", model.FormatDate(*cancelled.CancelledOn))

	room, _ = h.Rooms.Find(101)
	assert.False(t, room.Occupied)
	assert.Len(t, h.Ledger.ListCancelled(), 1)
	assert.Empty(t, h.Ledger.ListActive())

	assert.Equal(t, []string{EventReservationCreated, EventReservationCancelled}, pub.types())
	assert.Equal(t, "change of plans", pub.events[1].Payload.Reason)
	assert.Equal(t, 0.0, pub.events[1].Payload.Occupancy)
}

func TestLedger_CreateRejections(t *testing.T) {
	h, _ := newTestHotel(t)
	_, err := h.Ledger.Create(1, 201, "10/06/2025", "11/06/2025")
	require.NoError(t, err)

	tests := []struct {
		name       string
		guest      int
		room       int
		start, end string
		want       error
	}{
		{"unknown room", 1, 999, "10/06/2025", "12/06/2025", ErrNotFound},
		{"occupied room", 1, 201, "20/06/2025", "22/06/2025", ErrRoomUnavailable},
		{"unknown guest", 42, 101, "10/06/2025", "12/06/2025", ErrInvalidGuest},
		{"malformed start", 1, 101, "2025-06-10", "12/06/2025", ErrInvalidDate},
		{"impossible end", 1, 101, "10/06/2025", "31/06/2025", ErrInvalidDate},
		{"end before start", 1, 101, "12/06/2025", "10/06/2025", ErrInvalidDateRange},
		{"zero nights", 1, 101, "10/06/2025", "10/06/2025", ErrInvalidDateRange},
		{"start in the past", 1, 101, "31/05/2025", "02/06/2025", ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := h.Ledger.Count()
			_, err := h.Ledger.Create(tt.guest, tt.room, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, h.Ledger.Count())
		})
	}

	room, _ := h.Rooms.Find(101)
	assert.False(t, room.Occupied)
}

func TestLedger_StartTodayIsAccepted(t *testing.T) {
	h, _ := newTestHotel(t)
	_, err := h.Ledger.Create(1, 101, "01/06/2025", "02/06/2025")
	assert.NoError(t, err)
}

func TestLedger_PastStartAllowedByPolicy(t *testing.T) {
	h, _ := newTestHotel(t, WithPolicy(Policy{RejectPastStart: false}))
	r, err := h.Ledger.Create(1, 101, "01/01/2024", "03/01/2024")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Nights())
}

func TestLedger_RejectedEvent(t *testing.T) {
	h, pub := newTestHotel(t)
	_, err := h.Ledger.Create(7, 101, "10/06/2025", "12/06/2025")
	require.Error(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventReservationRejected, pub.events[0].Type)
	assert.Equal(t, "invalid_guest", pub.events[0].Payload.Reason)
	assert.Equal(t, 101, pub.events[0].Payload.Room)
}

func TestLedger_PublisherErrorIgnored(t *testing.T) {
	h, pub := newTestHotel(t)
	pub.err = errors.New("bus down")

	r, err := h.Ledger.Create(1, 101, "10/06/2025", "12/06/2025")
	require.NoError(t, err)
	_, err = h.Ledger.Confirm(r.Number)
	assert.NoError(t, err)
}

func TestLedger_Transitions(t *testing.T) {
	h, _ := newTestHotel(t)
	l := h.Ledger

	for _, tc := range []struct {
		from, to model.Status
		ok       bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusCompleted, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusPending, false},
	} {
		assert.Equal(t, tc.ok, l.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	t.Run("confirm then complete", func(t *testing.T) {
		r, err := l.Create(1, 101, "10/06/2025", "12/06/2025")
		require.NoError(t, err)

		r, err = l.Confirm(r.Number)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, r.Status)
		room, _ := h.Rooms.Find(101)
		assert.True(t, room.Occupied)

		_, err = l.Confirm(r.Number)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		r, err = l.Complete(r.Number)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, r.Status)
		room, _ = h.Rooms.Find(101)
		assert.False(t, room.Occupied)

		_, err = l.Cancel(r.Number, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		got, _ := l.FindByNumber(r.Number)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Empty(t, got.CancelReason)
	})

	t.Run("double cancel", func(t *testing.T) {
		r, err := l.Create(1, 201, "10/06/2025", "12/06/2025")
		require.NoError(t, err)
		_, err = l.Cancel(r.Number, "")
		require.NoError(t, err)

		// Another booking takes the released room.
		_, err = l.Create(1, 201, "15/06/2025", "16/06/2025")
		require.NoError(t, err)

		_, err = l.Cancel(r.Number, "again")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		room, _ := h.Rooms.Find(201)
		assert.True(t, room.Occupied, "second cancel must not release a room held by another booking")

		got, _ := l.FindByNumber(r.Number)
		assert.Equal(t, DefaultCancelReason, got.CancelReason)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := l.Confirm(999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = l.Complete(999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = l.Cancel(999, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLedger_SuitePricing(t *testing.T) {
	h, _ := newTestHotel(t)
	spa, err := h.Services.Add("Spa", "", 40)
	require.NoError(t, err)
	breakfast, err := h.Services.Add("Breakfast", "", 15)
	require.NoError(t, err)

	r, err := h.Ledger.Create(1, 301, "10/06/2025", "13/06/2025")
	require.NoError(t, err)

	added, err := h.Ledger.AddService(r.Number, spa.ID)
	require.NoError(t, err)
	assert.True(t, added)

	require.NoError(t, h.Services.Deactivate(breakfast.ID))
	added, err = h.Ledger.AddService(r.Number, breakfast.ID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = h.Ledger.AddService(r.Number, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.Ledger.AddService(99, spa.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	r, _ = h.Ledger.FindByNumber(r.Number)
	assert.Equal(t, []int{spa.ID}, r.ServiceIDs)

	q := h.Ledger.Quote(r)
	assert.Equal(t, 3, q.Nights)
	// (150 + 30 + 20) * 3
	assert.InDelta(t, 600.0, q.RoomPrice, 1e-9)
	assert.InDelta(t, 40.0, q.ServicesPrice, 1e-9)
	assert.InDelta(t, 640.0, q.Total, 1e-9)

	// Prices are looked up at quote time.
	require.NoError(t, h.Services.ApplyDiscount(spa.ID, 50))
	assert.InDelta(t, 620.0, h.Ledger.Total(r), 1e-9)
}

func TestLedger_QueriesReturnCopies(t *testing.T) {
	h, _ := newTestHotel(t)
	svc, _ := h.Services.Add("Parking", "", 10)
	r, err := h.Ledger.Create(1, 101, "10/06/2025", "12/06/2025")
	require.NoError(t, err)
	_, err = h.Ledger.AddService(r.Number, svc.ID)
	require.NoError(t, err)

	all := h.Ledger.ListAll()
	all[0].ServiceIDs[0] = 77
	all[0].Status = model.StatusCompleted

	got, _ := h.Ledger.FindByNumber(r.Number)
	assert.Equal(t, []int{svc.ID}, got.ServiceIDs)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestLedger_Lists(t *testing.T) {
	h, _ := newTestHotel(t)
	marie, _ := h.Guests.Add(model.Guest{LastName: "Curie", FirstName: "Marie"})

	a, err := h.Ledger.Create(1, 101, "10/06/2025", "12/06/2025")
	require.NoError(t, err)
	b, err := h.Ledger.Create(marie.Number, 201, "10/06/2025", "12/06/2025")
	require.NoError(t, err)
	_, err = h.Ledger.Create(1, 301, "10/06/2025", "12/06/2025")
	require.NoError(t, err)

	_, err = h.Ledger.Confirm(a.Number)
	require.NoError(t, err)
	_, err = h.Ledger.Cancel(b.Number, "ill")
	require.NoError(t, err)

	assert.Equal(t, 3, h.Ledger.Count())
	assert.Equal(t, 2, h.Ledger.CountActive())
	assert.Len(t, h.Ledger.ListForGuest(1), 2)
	assert.Len(t, h.Ledger.ListForGuest(marie.Number), 1)
	assert.Len(t, h.Ledger.ListByStatus(model.StatusConfirmed), 1)
	assert.Len(t, h.Ledger.ListByStatus(model.StatusPending), 1)

	// Active reservations and occupied rooms agree.
	assert.Equal(t, h.Ledger.CountActive(), h.Rooms.OccupiedCount())
	for _, r := range h.Ledger.ListActive() {
		room, _ := h.Rooms.Find(r.RoomNumber)
		assert.True(t, room.Occupied)
	}
}

func TestLedger_Restore(t *testing.T) {
	h, _ := newTestHotel(t)
	svc, _ := h.Services.Add("Spa", "", 40)
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	dropped, err := h.Ledger.Restore(model.Reservation{
		Number: 5, GuestNumber: 1, RoomNumber: 101, Start: start, End: end,
		Status: model.StatusConfirmed, ServiceIDs: []int{svc.ID, 99},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	room, _ := h.Rooms.Find(101)
	assert.True(t, room.Occupied)

	_, err = h.Ledger.Restore(model.Reservation{Number: 5, GuestNumber: 1, RoomNumber: 201, Start: start, End: end, Status: model.StatusPending})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = h.Ledger.Restore(model.Reservation{Number: 6, GuestNumber: 1, RoomNumber: 101, Start: start, End: end, Status: model.StatusPending})
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	_, err = h.Ledger.Restore(model.Reservation{Number: 7, GuestNumber: 9, RoomNumber: 201, Start: start, End: end, Status: model.StatusPending})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.Ledger.Restore(model.Reservation{Number: 8, GuestNumber: 1, RoomNumber: 201, Start: end, End: start, Status: model.StatusPending})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = h.Ledger.Restore(model.Reservation{Number: 9, GuestNumber: 1, RoomNumber: 201, Start: start, End: end, Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Cancelled stays do not hold a room and get a default reason.
	_, err = h.Ledger.Restore(model.Reservation{Number: 10, GuestNumber: 1, RoomNumber: 101, Start: start, End: end, Status: model.StatusCancelled})
	require.NoError(t, err)
	got, _ := h.Ledger.FindByNumber(10)
	assert.Equal(t, DefaultCancelReason, got.CancelReason)

	next, err := h.Ledger.Create(1, 201, "10/06/2025", "11/06/2025")
	require.NoError(t, err)
	assert.Equal(t, 11, next.Number)
}
