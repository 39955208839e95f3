package hotel

import (
	"fmt"
	"sort"
	"strings"

	"hotel/internal/model"
)

// GuestUpdate carries the fields to change; nil fields are left as is.
type GuestUpdate struct {
	LastName  *string
	FirstName *string
	Email     *string
	Phone     *string
}

// GuestDirectory maps guest numbers to guests.
type GuestDirectory struct {
	guests map[int]*model.Guest
	seq    Sequence
}

// NewGuestDirectory creates an empty directory.
func NewGuestDirectory() *GuestDirectory {
	return &GuestDirectory{guests: make(map[int]*model.Guest)}
}

// Add registers a guest under the next guest number. Email validation is
// advisory: the guest is stored either way and emailOK tells the caller
// whether to warn.
func (d *GuestDirectory) Add(g model.Guest) (stored model.Guest, emailOK bool) {
	g.Number = d.seq.Next()
	d.guests[g.Number] = &g
	return g, model.ValidEmail(g.Email)
}

// restore inserts a guest keeping its number.
func (d *GuestDirectory) restore(g model.Guest) error {
	if g.Number <= 0 {
		return fmt.Errorf("guest number %d: %w", g.Number, ErrInvalidInput)
	}
	if _, ok := d.guests[g.Number]; ok {
		return fmt.Errorf("guest %d: %w", g.Number, ErrDuplicate)
	}
	d.guests[g.Number] = &g
	d.seq.Observe(g.Number)
	return nil
}

func (d *GuestDirectory) Find(number int) (model.Guest, bool) {
	g, ok := d.guests[number]
	if !ok {
		return model.Guest{}, false
	}
	return *g, true
}

// FindByEmail matches the email case-insensitively. With several matches the
// lowest guest number wins.
func (d *GuestDirectory) FindByEmail(email string) (model.Guest, bool) {
	return d.first(func(g *model.Guest) bool { return strings.EqualFold(g.Email, email) })
}

func (d *GuestDirectory) FindByPhone(phone string) (model.Guest, bool) {
	return d.first(func(g *model.Guest) bool { return g.Phone == phone })
}

func (d *GuestDirectory) EmailExists(email string) bool {
	_, ok := d.FindByEmail(email)
	return ok
}

func (d *GuestDirectory) PhoneExists(phone string) bool {
	_, ok := d.FindByPhone(phone)
	return ok
}

func (d *GuestDirectory) Exists(number int) bool {
	_, ok := d.guests[number]
	return ok
}

// Remove deletes the directory entry. Reservations keep their guest number.
func (d *GuestDirectory) Remove(number int) bool {
	if _, ok := d.guests[number]; !ok {
		return false
	}
	delete(d.guests, number)
	return true
}

// Update applies the non-nil fields of u.
func (d *GuestDirectory) Update(number int, u GuestUpdate) bool {
	g, ok := d.guests[number]
	if !ok {
		return false
	}
	if u.LastName != nil {
		g.LastName = *u.LastName
	}
	if u.FirstName != nil {
		g.FirstName = *u.FirstName
	}
	if u.Email != nil {
		g.Email = *u.Email
	}
	if u.Phone != nil {
		g.Phone = *u.Phone
	}
	return true
}

func (d *GuestDirectory) Count() int {
	return len(d.guests)
}

// All returns the guests ordered by number.
func (d *GuestDirectory) All() []model.Guest {
	out := make([]model.Guest, 0, len(d.guests))
	for _, g := range d.guests {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Clear drops every guest. Numbers are not reused afterwards.
func (d *GuestDirectory) Clear() {
	d.guests = make(map[int]*model.Guest)
}

func (d *GuestDirectory) first(match func(*model.Guest) bool) (model.Guest, bool) {
	for _, g := range d.All() {
		if match(&g) {
			return g, true
		}
	}
	return model.Guest{}, false
}
