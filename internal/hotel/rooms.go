package hotel

import (
	"fmt"

	"hotel/internal/model"
)

// RoomCatalog maps room numbers to rooms, keeping insertion order.
type RoomCatalog struct {
	rooms map[int]*model.Room
	order []int
}

// NewRoomCatalog creates an empty catalog.
func NewRoomCatalog() *RoomCatalog {
	return &RoomCatalog{rooms: make(map[int]*model.Room)}
}

// Add inserts the room unless its number is taken, in which case nothing
// happens and added is false. Occupancy always starts released: only the
// ledger may set it.
func (c *RoomCatalog) Add(room model.Room) (added bool, err error) {
	if err := room.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, ok := c.rooms[room.Number]; ok {
		return false, nil
	}
	room.Occupied = false
	c.rooms[room.Number] = &room
	c.order = append(c.order, room.Number)
	return true, nil
}

// Find looks a room up by number.
func (c *RoomCatalog) Find(number int) (model.Room, bool) {
	r, ok := c.rooms[number]
	if !ok {
		return model.Room{}, false
	}
	return *r, true
}

// FindByType returns rooms of the given kind, matched case-insensitively.
func (c *RoomCatalog) FindByType(kind string) []model.Room {
	k, ok := model.ParseRoomKind(kind)
	if !ok {
		return nil
	}
	return c.filter(func(r *model.Room) bool { return r.Kind == k })
}

// FindByMaxPrice returns rooms whose nightly rate does not exceed price.
func (c *RoomCatalog) FindByMaxPrice(price float64) []model.Room {
	return c.filter(func(r *model.Room) bool { return r.NightlyRate <= price })
}

// ListAvailable returns rooms that are not occupied.
func (c *RoomCatalog) ListAvailable() []model.Room {
	return c.filter(func(r *model.Room) bool { return !r.Occupied })
}

// All returns every room in insertion order.
func (c *RoomCatalog) All() []model.Room {
	return c.filter(func(*model.Room) bool { return true })
}

func (c *RoomCatalog) Count() int {
	return len(c.order)
}

func (c *RoomCatalog) OccupiedCount() int {
	n := 0
	for _, r := range c.rooms {
		if r.Occupied {
			n++
		}
	}
	return n
}

// OccupancyRate is the share of occupied rooms in percent, 0 without rooms.
func (c *RoomCatalog) OccupancyRate() float64 {
	if len(c.order) == 0 {
		return 0
	}
	return float64(c.OccupiedCount()) / float64(len(c.order)) * 100
}

func (c *RoomCatalog) filter(keep func(*model.Room) bool) []model.Room {
	var out []model.Room
	for _, n := range c.order {
		if r := c.rooms[n]; keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// setOccupied is reserved to the ledger.
func (c *RoomCatalog) setOccupied(number int, occupied bool) {
	if r, ok := c.rooms[number]; ok {
		r.Occupied = occupied
	}
}
