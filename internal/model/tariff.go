package model

// Tariff holds default nightly rates per room kind and the per-night
// surcharges applied to suites.
type Tariff struct {
	StandardRate     float64
	DoubleRate       float64
	SuiteRate        float64
	JacuzziSurcharge float64
	BalconySurcharge float64
}

// DefaultTariff returns the stock hotel prices.
func DefaultTariff() Tariff {
	return Tariff{
		StandardRate:     50,
		DoubleRate:       80,
		SuiteRate:        150,
		JacuzziSurcharge: 30,
		BalconySurcharge: 20,
	}
}

// NewStandard builds a standard room at the tariff rate.
func (t Tariff) NewStandard(number int) Room {
	return Room{Number: number, Kind: KindStandard, NightlyRate: t.StandardRate, Capacity: StandardCapacity}
}

// NewDouble builds a double room at the tariff rate.
func (t Tariff) NewDouble(number int, twinBeds bool) Room {
	return Room{
		Number:      number,
		Kind:        KindDouble,
		NightlyRate: t.DoubleRate,
		Capacity:    DoubleCapacity,
		Double:      &DoubleFeatures{TwinBeds: twinBeds},
	}
}

// NewSuite builds a suite at the tariff rate.
func (t Tariff) NewSuite(number int, jacuzzi, balcony bool) Room {
	return Room{
		Number:      number,
		Kind:        KindSuite,
		NightlyRate: t.SuiteRate,
		Capacity:    SuiteCapacity,
		Suite:       &SuiteFeatures{Jacuzzi: jacuzzi, Balcony: balcony},
	}
}

// RoomPrice is the accommodation price for the given number of nights,
// including suite surcharges.
func (t Tariff) RoomPrice(r *Room, nights int) float64 {
	n := float64(nights)
	price := r.NightlyRate * n
	if r.Kind == KindSuite {
		if r.HasJacuzzi() {
			price += t.JacuzziSurcharge * n
		}
		if r.HasBalcony() {
			price += t.BalconySurcharge * n
		}
	}
	return price
}
