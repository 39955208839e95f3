package model

import "fmt"

// Service is a bookable add-on attached to reservations.
type Service struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

// ApplyDiscount lowers the price by percent. Only 0 < percent < 100 is
// accepted; the price is overwritten.
func (s *Service) ApplyDiscount(percent int) bool {
	if percent <= 0 || percent >= 100 {
		return false
	}
	s.Price -= s.Price * float64(percent) / 100
	return true
}

func (s Service) String() string {
	state := "available"
	if !s.Available {
		state = "unavailable"
	}
	return fmt.Sprintf("Service #%d - %s - %.2f - %s (%s)", s.ID, s.Name, s.Price, s.Description, state)
}
