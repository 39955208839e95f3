package hotel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/model"
)

func TestRoomCatalog(t *testing.T) {
	tariff := model.DefaultTariff()
	c := NewRoomCatalog()

	added, err := c.Add(tariff.NewStandard(101))
	require.NoError(t, err)
	assert.True(t, added)

	// Duplicate numbers are a silent no-op.
	dup := tariff.NewSuite(101, true, true)
	added, err = c.Add(dup)
	require.NoError(t, err)
	assert.False(t, added)
	r, ok := c.Find(101)
	require.True(t, ok)
	assert.Equal(t, model.KindStandard, r.Kind)

	_, err = c.Add(model.Room{Number: 5, Kind: model.KindDouble})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _ = c.Add(tariff.NewDouble(201, false))
	_, _ = c.Add(tariff.NewSuite(301, false, true))

	t.Run("Find missing", func(t *testing.T) {
		_, ok := c.Find(999)
		assert.False(t, ok)
	})

	t.Run("FindByType", func(t *testing.T) {
		assert.Len(t, c.FindByType("suite"), 1)
		assert.Len(t, c.FindByType("SIMPLE"), 1)
		assert.Empty(t, c.FindByType("loft"))
	})

	t.Run("FindByMaxPrice", func(t *testing.T) {
		got := c.FindByMaxPrice(80)
		require.Len(t, got, 2)
		assert.Equal(t, 101, got[0].Number)
		assert.Equal(t, 201, got[1].Number)
	})

	t.Run("Occupancy", func(t *testing.T) {
		assert.Len(t, c.ListAvailable(), 3)
		c.setOccupied(201, true)
		assert.Len(t, c.ListAvailable(), 2)
		assert.Equal(t, 1, c.OccupiedCount())
		assert.InDelta(t, 100.0/3, c.OccupancyRate(), 1e-9)
		c.setOccupied(201, false)
	})

	t.Run("Add clears occupancy", func(t *testing.T) {
		room := tariff.NewStandard(102)
		room.Occupied = true
		_, err := c.Add(room)
		require.NoError(t, err)
		got, _ := c.Find(102)
		assert.False(t, got.Occupied)
	})

	assert.Equal(t, 0.0, NewRoomCatalog().OccupancyRate())
}

func TestGuestDirectory(t *testing.T) {
	d := NewGuestDirectory()

	jean, emailOK := d.Add(model.Guest{LastName: "Dupont", FirstName: "Jean", Email: "jean@example.fr", Phone: "0601"})
	assert.True(t, emailOK)
	assert.Equal(t, 1, jean.Number)

	// Invalid email only warns.
	marie, emailOK := d.Add(model.Guest{LastName: "Curie", FirstName: "Marie", Email: "not-an-email", Phone: "0602"})
	assert.False(t, emailOK)
	assert.Equal(t, 2, marie.Number)
	assert.True(t, d.Exists(2))

	t.Run("Lookups", func(t *testing.T) {
		g, ok := d.FindByEmail("JEAN@EXAMPLE.FR")
		require.True(t, ok)
		assert.Equal(t, 1, g.Number)
		assert.True(t, d.EmailExists("jean@example.fr"))
		assert.False(t, d.EmailExists("nobody@example.fr"))
		assert.True(t, d.PhoneExists("0602"))
		assert.False(t, d.PhoneExists("0000"))
	})

	t.Run("Update", func(t *testing.T) {
		email := "marie@example.fr"
		assert.True(t, d.Update(2, GuestUpdate{Email: &email}))
		g, _ := d.Find(2)
		assert.Equal(t, email, g.Email)
		assert.Equal(t, "Curie", g.LastName)
		assert.False(t, d.Update(42, GuestUpdate{Email: &email}))
	})

	t.Run("Remove keeps numbering", func(t *testing.T) {
		assert.True(t, d.Remove(2))
		assert.False(t, d.Remove(2))
		assert.Equal(t, 1, d.Count())
		g, _ := d.Add(model.Guest{LastName: "Hugo", FirstName: "Victor"})
		assert.Equal(t, 3, g.Number)
	})

	t.Run("Clear", func(t *testing.T) {
		d.Clear()
		assert.Equal(t, 0, d.Count())
		assert.Empty(t, d.All())
		g, _ := d.Add(model.Guest{LastName: "Zola"})
		assert.Equal(t, 4, g.Number)
	})
}

func TestGuestDirectory_Restore(t *testing.T) {
	d := NewGuestDirectory()
	require.NoError(t, d.restore(model.Guest{Number: 7, LastName: "Dupont"}))
	assert.ErrorIs(t, d.restore(model.Guest{Number: 7}), ErrDuplicate)
	assert.ErrorIs(t, d.restore(model.Guest{}), ErrInvalidInput)

	g, _ := d.Add(model.Guest{LastName: "Next"})
	assert.Equal(t, 8, g.Number)
}

func TestServiceCatalog(t *testing.T) {
	c := NewServiceCatalog()

	spa, err := c.Add("Spa", "one hour", 40)
	require.NoError(t, err)
	assert.Equal(t, 1, spa.ID)
	assert.True(t, spa.Available)

	_, err = c.Add("", "", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.Add("Free", "", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	t.Run("Availability", func(t *testing.T) {
		require.NoError(t, c.Deactivate(1))
		s, _ := c.FindByID(1)
		assert.False(t, s.Available)
		require.NoError(t, c.Activate(1))
		s, _ = c.FindByID(1)
		assert.True(t, s.Available)
		assert.ErrorIs(t, c.Activate(99), ErrNotFound)
	})

	t.Run("Discount", func(t *testing.T) {
		assert.ErrorIs(t, c.ApplyDiscount(1, 0), ErrInvalidInput)
		assert.ErrorIs(t, c.ApplyDiscount(1, 100), ErrInvalidInput)
		assert.ErrorIs(t, c.ApplyDiscount(2, 10), ErrNotFound)
		require.NoError(t, c.ApplyDiscount(1, 10))
		s, _ := c.FindByID(1)
		assert.InDelta(t, 36.0, s.Price, 1e-9)
	})

	t.Run("Update", func(t *testing.T) {
		name := "Spa deluxe"
		price := 55.0
		require.NoError(t, c.Update(1, ServiceUpdate{Name: &name, Price: &price}))
		s, _ := c.FindByID(1)
		assert.Equal(t, "Spa deluxe", s.Name)
		assert.Equal(t, "one hour", s.Description)
		assert.Equal(t, 55.0, s.Price)

		empty := ""
		assert.ErrorIs(t, c.Update(1, ServiceUpdate{Name: &empty}), ErrInvalidInput)
		negative := -3.0
		assert.ErrorIs(t, c.Update(1, ServiceUpdate{Price: &negative}), ErrInvalidInput)
	})

	require.NoError(t, c.restore(model.Service{ID: 10, Name: "Parking", Price: 12}))
	assert.ErrorIs(t, c.restore(model.Service{ID: 10, Name: "Dup"}), ErrDuplicate)
	next, err := c.Add("Breakfast", "", 15)
	require.NoError(t, err)
	assert.Equal(t, 11, next.ID)
	assert.Equal(t, 3, c.Count())
}

func TestSequence(t *testing.T) {
	var a, b Sequence
	assert.Equal(t, 1, a.Next())
	assert.Equal(t, 2, a.Next())
	// Sequences are independent.
	assert.Equal(t, 1, b.Next())

	a.Observe(10)
	assert.Equal(t, 11, a.Next())
	a.Observe(3)
	assert.Equal(t, 11, a.Last())
}
