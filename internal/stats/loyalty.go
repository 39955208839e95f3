package stats

import (
	"fmt"

	"hotel/internal/hotel"
	"hotel/internal/model"
)

// Tier is a loyalty level earned by completed or ongoing stays.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// Loyalty describes a guest's standing: how many non-cancelled
// reservations they hold, what they spent and the discount they earned.
type Loyalty struct {
	Guest        model.Guest
	Reservations int
	Spent        float64
	Tier         Tier
	Discount     float64 // percent
	Savings      float64
	Perks        []string
}

var tierPerks = []struct {
	min      int
	tier     Tier
	discount float64
	perks    []string
}{
	{5, TierPlatinum, 15, []string{"one free suite night per year", "unlimited free breakfast", "priority VIP service"}},
	{3, TierGold, 10, []string{"free night on stays of 5+ nights", "complimentary concierge"}},
	{1, TierSilver, 5, []string{"free upgrade to a higher room category"}},
}

// GuestLoyalty computes the loyalty standing of one guest.
func (e *Engine) GuestLoyalty(guestNumber int) (Loyalty, error) {
	g, ok := e.h.Guests.Find(guestNumber)
	if !ok {
		return Loyalty{}, fmt.Errorf("guest %d: %w", guestNumber, hotel.ErrNotFound)
	}
	l := Loyalty{Guest: g, Tier: TierBronze}
	for _, r := range e.h.Ledger.ListForGuest(guestNumber) {
		if r.Status == model.StatusCancelled {
			continue
		}
		l.Reservations++
		l.Spent += e.h.Ledger.Total(r)
	}
	for _, t := range tierPerks {
		if l.Reservations < t.min {
			continue
		}
		if l.Discount == 0 {
			l.Tier = t.tier
			l.Discount = t.discount
		}
		l.Perks = append(l.Perks, t.perks...)
	}
	l.Savings = l.Spent * l.Discount / 100
	return l, nil
}
