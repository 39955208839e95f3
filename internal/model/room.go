package model

import (
	"fmt"
	"strings"
)

// RoomKind tags the room variant.
type RoomKind string

const (
	KindStandard RoomKind = "Standard"
	KindDouble   RoomKind = "Double"
	KindSuite    RoomKind = "Suite"
)

// Fixed capacities per variant.
const (
	StandardCapacity = 1
	DoubleCapacity   = 2
	SuiteCapacity    = 4
)

// ParseRoomKind matches a kind case-insensitively. "Simple" is accepted as
// the legacy name of the standard room.
func ParseRoomKind(s string) (RoomKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "simple":
		return KindStandard, true
	case "double":
		return KindDouble, true
	case "suite":
		return KindSuite, true
	}
	return "", false
}

// DoubleFeatures is the payload of a Double room.
type DoubleFeatures struct {
	TwinBeds bool `json:"twin_beds"`
}

// SuiteFeatures is the payload of a Suite.
type SuiteFeatures struct {
	Jacuzzi bool `json:"jacuzzi"`
	Balcony bool `json:"balcony"`
}

// Room is a bookable room. Exactly one of Double/Suite is set for those
// kinds; both are nil for a standard room.
type Room struct {
	Number      int             `json:"number"`
	Kind        RoomKind        `json:"kind"`
	NightlyRate float64         `json:"nightly_rate"`
	Capacity    int             `json:"capacity"`
	Occupied    bool            `json:"occupied"`
	Double      *DoubleFeatures `json:"double,omitempty"`
	Suite       *SuiteFeatures  `json:"suite,omitempty"`
}

// TwinBeds reports the twin-beds flag of a Double room.
func (r *Room) TwinBeds() bool {
	return r.Double != nil && r.Double.TwinBeds
}

// HasJacuzzi reports the jacuzzi flag of a Suite.
func (r *Room) HasJacuzzi() bool {
	return r.Suite != nil && r.Suite.Jacuzzi
}

// HasBalcony reports the balcony flag of a Suite.
func (r *Room) HasBalcony() bool {
	return r.Suite != nil && r.Suite.Balcony
}

// Validate checks that the payload matches the kind.
func (r *Room) Validate() error {
	if r.Number <= 0 {
		return fmt.Errorf("room number must be positive, got %d", r.Number)
	}
	if r.NightlyRate < 0 {
		return fmt.Errorf("room %d: negative nightly rate", r.Number)
	}
	switch r.Kind {
	case KindStandard:
		if r.Double != nil || r.Suite != nil {
			return fmt.Errorf("room %d: standard room cannot carry extras", r.Number)
		}
	case KindDouble:
		if r.Double == nil || r.Suite != nil {
			return fmt.Errorf("room %d: double room needs double features only", r.Number)
		}
	case KindSuite:
		if r.Suite == nil || r.Double != nil {
			return fmt.Errorf("room %d: suite needs suite features only", r.Number)
		}
	default:
		return fmt.Errorf("room %d: unknown kind %q", r.Number, r.Kind)
	}
	return nil
}

// Options describes the variant extras for display.
func (r *Room) Options() string {
	switch r.Kind {
	case KindDouble:
		if r.TwinBeds() {
			return "twin beds"
		}
		return "double bed"
	case KindSuite:
		switch {
		case r.HasJacuzzi() && r.HasBalcony():
			return "jacuzzi + balcony"
		case r.HasJacuzzi():
			return "jacuzzi"
		case r.HasBalcony():
			return "balcony"
		}
	}
	return ""
}

func (r Room) String() string {
	state := "free"
	if r.Occupied {
		state = "occupied"
	}
	s := fmt.Sprintf("Room #%d [%s] - %d pers - %.2f/night - %s", r.Number, r.Kind, r.Capacity, r.NightlyRate, state)
	if opts := r.Options(); opts != "" {
		s += " - " + opts
	}
	return s
}
