package hotel

import (
	"fmt"

	"hotel/internal/model"
)

// ServiceUpdate carries the fields to change; nil fields are left as is.
type ServiceUpdate struct {
	Name        *string
	Description *string
	Price       *float64
}

// ServiceCatalog holds the add-ons that can be attached to reservations.
// Services are never removed so reservations can always resolve them.
type ServiceCatalog struct {
	services []*model.Service
	seq      Sequence
}

func NewServiceCatalog() *ServiceCatalog {
	return &ServiceCatalog{}
}

// Add creates an available service under the next id.
func (c *ServiceCatalog) Add(name, description string, price float64) (model.Service, error) {
	if name == "" {
		return model.Service{}, fmt.Errorf("service name is empty: %w", ErrInvalidInput)
	}
	if price < 0 {
		return model.Service{}, fmt.Errorf("service price %.2f: %w", price, ErrInvalidInput)
	}
	s := &model.Service{
		ID:          c.seq.Next(),
		Name:        name,
		Description: description,
		Price:       price,
		Available:   true,
	}
	c.services = append(c.services, s)
	return *s, nil
}

// restore inserts a service keeping its id.
func (c *ServiceCatalog) restore(s model.Service) error {
	if s.ID <= 0 {
		return fmt.Errorf("service id %d: %w", s.ID, ErrInvalidInput)
	}
	if c.get(s.ID) != nil {
		return fmt.Errorf("service %d: %w", s.ID, ErrDuplicate)
	}
	c.services = append(c.services, &s)
	c.seq.Observe(s.ID)
	return nil
}

func (c *ServiceCatalog) FindByID(id int) (model.Service, bool) {
	s := c.get(id)
	if s == nil {
		return model.Service{}, false
	}
	return *s, true
}

// All returns every service in creation order.
func (c *ServiceCatalog) All() []model.Service {
	out := make([]model.Service, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, *s)
	}
	return out
}

func (c *ServiceCatalog) Count() int {
	return len(c.services)
}

func (c *ServiceCatalog) Activate(id int) error {
	return c.with(id, func(s *model.Service) error {
		s.Available = true
		return nil
	})
}

func (c *ServiceCatalog) Deactivate(id int) error {
	return c.with(id, func(s *model.Service) error {
		s.Available = false
		return nil
	})
}

// ApplyDiscount lowers the price in place; percent must be in (0, 100).
func (c *ServiceCatalog) ApplyDiscount(id, percent int) error {
	return c.with(id, func(s *model.Service) error {
		if !s.ApplyDiscount(percent) {
			return fmt.Errorf("discount %d%% outside (0, 100): %w", percent, ErrInvalidInput)
		}
		return nil
	})
}

// Update applies the non-nil fields of u.
func (c *ServiceCatalog) Update(id int, u ServiceUpdate) error {
	return c.with(id, func(s *model.Service) error {
		if u.Name != nil && *u.Name == "" {
			return fmt.Errorf("service name is empty: %w", ErrInvalidInput)
		}
		if u.Price != nil && *u.Price < 0 {
			return fmt.Errorf("service price %.2f: %w", *u.Price, ErrInvalidInput)
		}
		if u.Name != nil {
			s.Name = *u.Name
		}
		if u.Description != nil {
			s.Description = *u.Description
		}
		if u.Price != nil {
			s.Price = *u.Price
		}
		return nil
	})
}

func (c *ServiceCatalog) with(id int, fn func(*model.Service) error) error {
	s := c.get(id)
	if s == nil {
		return fmt.Errorf("service %d: %w", id, ErrNotFound)
	}
	return fn(s)
}

func (c *ServiceCatalog) get(id int) *model.Service {
	for _, s := range c.services {
		if s.ID == id {
			return s
		}
	}
	return nil
}
