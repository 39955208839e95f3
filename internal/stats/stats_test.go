package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/hotel"
	"hotel/internal/model"
)

func fixture(t *testing.T) *hotel.Hotel {
	t.Helper()
	h := hotel.New("Hotel du Lac", "1 quai du Lac",
		hotel.WithClock(func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }))
	tariff := h.Tariff()
	for _, r := range []model.Room{tariff.NewStandard(101), tariff.NewDouble(201, false), tariff.NewSuite(301, true, false)} {
		_, err := h.Rooms.Add(r)
		require.NoError(t, err)
	}
	h.Guests.Add(model.Guest{LastName: "Dupont", FirstName: "Jean"})
	h.Guests.Add(model.Guest{LastName: "Curie", FirstName: "Marie"})
	_, err := h.Services.Add("Spa", "", 40)
	require.NoError(t, err)
	_, err = h.Services.Add("Breakfast", "", 15)
	require.NoError(t, err)
	return h
}

func book(t *testing.T, h *hotel.Hotel, guest, room int, start, end string, services ...int) model.Reservation {
	t.Helper()
	r, err := h.Ledger.Create(guest, room, start, end)
	require.NoError(t, err)
	for _, id := range services {
		_, err := h.Ledger.AddService(r.Number, id)
		require.NoError(t, err)
	}
	return r
}

func TestEngine_Empty(t *testing.T) {
	e := New(hotel.New("Empty", ""))

	assert.Equal(t, 0.0, e.TotalRevenue())
	assert.Equal(t, 0.0, e.OccupancyRate())
	assert.Equal(t, 0.0, e.AverageNights())
	assert.Equal(t, 0.0, e.AverageRevenue())
	assert.Equal(t, 0, e.TotalServices())

	_, _, ok := e.MostBookedRoom()
	assert.False(t, ok)
	_, _, ok = e.MostLoyalGuest()
	assert.False(t, ok)
	_, _, ok = e.MostUsedService()
	assert.False(t, ok)
}

func TestEngine_Figures(t *testing.T) {
	h := fixture(t)
	e := New(h)

	// 2 nights standard + spa = 140
	a := book(t, h, 1, 101, "10/06/2025", "12/06/2025", 1)
	// 1 night suite with jacuzzi + spa + breakfast = 180 + 55 = 235
	b := book(t, h, 2, 301, "10/06/2025", "11/06/2025", 1, 2)
	// cancelled: 3 nights double = 240, excluded from revenue
	c := book(t, h, 1, 201, "10/06/2025", "13/06/2025")

	_, err := h.Ledger.Cancel(c.Number, "")
	require.NoError(t, err)
	_, err = h.Ledger.Confirm(a.Number)
	require.NoError(t, err)
	_, err = h.Ledger.Complete(b.Number)
	require.NoError(t, err)

	assert.InDelta(t, 375.0, e.TotalRevenue(), 1e-9)
	assert.InDelta(t, 140.0, e.RevenueByStatus(model.StatusConfirmed), 1e-9)
	assert.InDelta(t, 235.0, e.RevenueByStatus(model.StatusCompleted), 1e-9)
	assert.InDelta(t, 240.0, e.RevenueByStatus(model.StatusCancelled), 1e-9)
	assert.InDelta(t, 187.5, e.AverageRevenue(), 1e-9)
	assert.InDelta(t, 1.5, e.AverageNights(), 1e-9)
	assert.InDelta(t, 100.0/3, e.OccupancyRate(), 1e-9)
	assert.Equal(t, 3, e.TotalServices())

	assert.Equal(t, map[model.Status]int{
		model.StatusPending:   0,
		model.StatusConfirmed: 1,
		model.StatusCancelled: 1,
		model.StatusCompleted: 1,
	}, e.CountByStatus())

	guest, n, ok := e.MostLoyalGuest()
	require.True(t, ok)
	assert.Equal(t, 1, guest.Number)
	assert.Equal(t, 2, n)

	svc, n, ok := e.MostUsedService()
	require.True(t, ok)
	assert.Equal(t, "Spa", svc.Name)
	assert.Equal(t, 2, n)
}

func TestEngine_TieBreakLowestID(t *testing.T) {
	h := fixture(t)
	e := New(h)

	r := book(t, h, 2, 301, "10/06/2025", "11/06/2025", 2)
	_, err := h.Ledger.Complete(r.Number)
	require.NoError(t, err)
	r = book(t, h, 1, 201, "10/06/2025", "11/06/2025", 1)
	_, err = h.Ledger.Complete(r.Number)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		room, n, ok := e.MostBookedRoom()
		require.True(t, ok)
		assert.Equal(t, 201, room.Number)
		assert.Equal(t, 1, n)

		guest, _, _ := e.MostLoyalGuest()
		assert.Equal(t, 1, guest.Number)

		svc, _, _ := e.MostUsedService()
		assert.Equal(t, 1, svc.ID)
	}
}

func TestEngine_GuestLoyalty(t *testing.T) {
	h := fixture(t)
	e := New(h)

	l, err := e.GuestLoyalty(2)
	require.NoError(t, err)
	assert.Equal(t, TierBronze, l.Tier)
	assert.Zero(t, l.Discount)
	assert.Empty(t, l.Perks)

	_, err = e.GuestLoyalty(99)
	assert.ErrorIs(t, err, hotel.ErrNotFound)

	for i := 0; i < 3; i++ {
		r := book(t, h, 1, 101, "10/06/2025", "12/06/2025")
		_, err := h.Ledger.Complete(r.Number)
		require.NoError(t, err)
	}
	r := book(t, h, 1, 101, "10/06/2025", "12/06/2025")
	_, err = h.Ledger.Cancel(r.Number, "")
	require.NoError(t, err)

	l, err = e.GuestLoyalty(1)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Reservations)
	assert.InDelta(t, 300.0, l.Spent, 1e-9)
	assert.Equal(t, TierGold, l.Tier)
	assert.InDelta(t, 30.0, l.Savings, 1e-9)
	assert.Len(t, l.Perks, 3)
}

func TestReport_WriteText(t *testing.T) {
	h := fixture(t)
	e := New(h)

	var buf bytes.Buffer
	require.NoError(t, e.Report().WriteText(&buf))
	assert.Contains(t, buf.String(), "Most used service: none\n")
	assert.Contains(t, buf.String(), "=== MOST BOOKED ROOM ===\nnone\n")
	assert.Contains(t, buf.String(), "=== MOST LOYAL GUEST ===\nnone\n")
	assert.Contains(t, buf.String(), "Occupancy rate: 0.0% (0/3 rooms)")

	book(t, h, 1, 301, "10/06/2025", "11/06/2025", 1)
	rep := e.Report()
	require.NotNil(t, rep.MostBookedRoom)
	assert.Equal(t, 301, rep.MostBookedRoom.Number)

	buf.Reset()
	require.NoError(t, rep.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "Total revenue: 220.00")
	assert.Contains(t, out, "Most used service: Spa (1)")
	assert.Contains(t, out, "  - Pending: 1")
}
