// Package report exports the hotel catalogs, the reservation ledger and the
// statistics to an Excel workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"hotel/internal/hotel"
	"hotel/internal/model"
	"hotel/internal/stats"
)

// Sheet names, in workbook order.
const (
	SheetRooms        = "Rooms"
	SheetGuests       = "Guests"
	SheetServices     = "Services"
	SheetReservations = "Reservations"
	SheetStatistics   = "Statistics"
)

// Build writes one sheet per catalog, the ledger and a statistics summary.
func Build(h *hotel.Hotel, w ExcelWriter) error {
	steps := []struct {
		sheet string
		fill  func(*hotel.Hotel, ExcelWriter) error
	}{
		{SheetRooms, writeRooms},
		{SheetGuests, writeGuests},
		{SheetServices, writeServices},
		{SheetReservations, writeReservations},
		{SheetStatistics, writeStatistics},
	}
	for _, s := range steps {
		if err := w.AddSheet(s.sheet); err != nil {
			return err
		}
		if err := s.fill(h, w); err != nil {
			return fmt.Errorf("sheet %s: %w", s.sheet, err)
		}
	}
	return nil
}

// WriteFile builds the workbook and saves it at path.
func WriteFile(h *hotel.Hotel, path string) error {
	w := NewExcelizeWriter()
	defer w.Close()

	if err := Build(h, w); err != nil {
		return err
	}
	return w.SaveToFile(path)
}

// GenerateFilename creates a filename like "Hotel_du_Lac_2025-06-01.xlsx".
func GenerateFilename(hotelName string, t time.Time) string {
	name := strings.Join(strings.Fields(hotelName), "_")
	if name == "" {
		name = "hotel"
	}
	return fmt.Sprintf("%s_%s.xlsx", name, t.Format("2006-01-02"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeRooms(h *hotel.Hotel, w ExcelWriter) error {
	if err := w.WriteHeader([]string{"Number", "Type", "Nightly rate", "Capacity", "Occupied", "Options"}); err != nil {
		return err
	}
	for _, r := range h.Rooms.All() {
		if err := w.WriteRow([]interface{}{r.Number, string(r.Kind), r.NightlyRate, r.Capacity, yesNo(r.Occupied), r.Options()}); err != nil {
			return err
		}
	}
	return nil
}

func writeGuests(h *hotel.Hotel, w ExcelWriter) error {
	if err := w.WriteHeader([]string{"Number", "Last name", "First name", "Email", "Phone", "Reservations"}); err != nil {
		return err
	}
	for _, g := range h.Guests.All() {
		n := len(h.Ledger.ListForGuest(g.Number))
		if err := w.WriteRow([]interface{}{g.Number, g.LastName, g.FirstName, g.Email, g.Phone, n}); err != nil {
			return err
		}
	}
	return nil
}

func writeServices(h *hotel.Hotel, w ExcelWriter) error {
	if err := w.WriteHeader([]string{"ID", "Name", "Description", "Price", "Available"}); err != nil {
		return err
	}
	for _, s := range h.Services.All() {
		if err := w.WriteRow([]interface{}{s.ID, s.Name, s.Description, s.Price, yesNo(s.Available)}); err != nil {
			return err
		}
	}
	return nil
}

func writeReservations(h *hotel.Hotel, w ExcelWriter) error {
	header := []string{"Number", "Guest", "Room", "Start", "End", "Nights", "Status",
		"Services", "Room price", "Services price", "Total", "Cancelled on", "Reason"}
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	for _, r := range h.Ledger.ListAll() {
		guest := fmt.Sprintf("#%d (unknown)", r.GuestNumber)
		if g, ok := h.Guests.Find(r.GuestNumber); ok {
			guest = g.FullName()
		}
		names := make([]string, 0, len(r.ServiceIDs))
		for _, id := range r.ServiceIDs {
			if s, ok := h.Services.FindByID(id); ok {
				names = append(names, s.Name)
			}
		}
		var cancelled string
		if r.CancelledOn != nil {
			cancelled = model.FormatDate(*r.CancelledOn)
		}
		q := h.Ledger.Quote(r)
		row := []interface{}{
			r.Number, guest, r.RoomNumber, model.FormatDate(r.Start), model.FormatDate(r.End), q.Nights,
			r.Status.Label(), strings.Join(names, ", "), q.RoomPrice, q.ServicesPrice, q.Total,
			cancelled, r.CancelReason,
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// none fills statistics that have no winner.
const none = "none"

func writeStatistics(h *hotel.Hotel, w ExcelWriter) error {
	rep := stats.New(h).Report()
	if err := w.WriteHeader([]string{"Metric", "Value"}); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Hotel", h.Name},
		{"Address", h.Address},
		{"Rooms", rep.Rooms},
		{"Guests", rep.Guests},
		{"Reservations", rep.Reservations},
		{"Services", rep.Services},
		{"Total revenue", rep.TotalRevenue},
		{"Average revenue per reservation", rep.AverageRevenue},
		{"Occupancy rate (%)", rep.OccupancyRate},
		{"Average nights", rep.AverageNights},
		{"Services ordered", rep.TotalServices},
	}
	for _, s := range model.Statuses {
		rows = append(rows, []interface{}{"Reservations " + strings.ToLower(s.Label()), rep.ByStatus[s]})
	}
	mostBooked, mostLoyal, mostUsed := none, none, none
	if rep.MostBookedRoom != nil {
		mostBooked = fmt.Sprintf("#%d (%d)", rep.MostBookedRoom.Number, rep.MostBookedRoomCount)
	}
	if rep.MostLoyalGuest != nil {
		mostLoyal = fmt.Sprintf("%s (%d)", rep.MostLoyalGuest.FullName(), rep.MostLoyalGuestCount)
	}
	if rep.MostUsedService != nil {
		mostUsed = fmt.Sprintf("%s (%d)", rep.MostUsedService.Name, rep.MostUsedServiceCount)
	}
	rows = append(rows,
		[]interface{}{"Most booked room", mostBooked},
		[]interface{}{"Most loyal guest", mostLoyal},
		[]interface{}{"Most used service", mostUsed},
	)

	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}
