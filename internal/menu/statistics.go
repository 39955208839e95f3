package menu

import (
	"os"
	"path/filepath"
	"strings"

	"hotel/internal/model"
	"hotel/internal/report"
)

func (m *Menu) statisticsMenu() {
	m.subMenu("Statistics and reports", []action{
		{"Total revenue", m.showRevenue},
		{"Occupancy rate", m.showOccupancy},
		{"Most booked room", m.showMostBookedRoom},
		{"Full report", m.showReport},
		{"Guest loyalty", m.showLoyalty},
		{"Export to Excel", m.exportExcel},
	})
}

func (m *Menu) showRevenue() {
	m.printf("Total revenue: %.2f\n", m.stats.TotalRevenue())
	for _, st := range []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusCompleted} {
		m.printf("  %-10s %.2f\n", st.Label()+":", m.stats.RevenueByStatus(st))
	}
}

func (m *Menu) showOccupancy() {
	m.printf("Occupancy rate: %.1f%% (%d/%d rooms)\n",
		m.stats.OccupancyRate(), m.h.Rooms.OccupiedCount(), m.h.Rooms.Count())
}

func (m *Menu) showMostBookedRoom() {
	room, count, ok := m.stats.MostBookedRoom()
	if !ok {
		m.println("Most booked room: none")
		return
	}
	m.printf("Most booked room: %d (%s), %d reservation(s)\n", room.Number, room.Kind, count)
}

func (m *Menu) showReport() {
	if err := m.stats.Report().WriteText(m.out); err != nil {
		m.printErr(err)
	}
}

func (m *Menu) showLoyalty() {
	l, err := m.stats.GuestLoyalty(m.readInt("Guest number: "))
	if err != nil {
		m.printErr(err)
		return
	}
	m.printf("Guest: %s\n", l.Guest.FullName())
	m.printf("Reservations: %d\n", l.Reservations)
	m.printf("Spent: %.2f\n", l.Spent)
	m.printf("Tier: %s (%.0f%% discount)\n", l.Tier, l.Discount)
	if l.Savings > 0 {
		m.printf("Potential savings: %.2f\n", l.Savings)
	}
	if len(l.Perks) > 0 {
		m.printf("Perks: %s\n", strings.Join(l.Perks, "; "))
	}
}

func (m *Menu) exportExcel() {
	if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
		m.printErr(err)
		return
	}
	path := filepath.Join(m.exportDir, report.GenerateFilename(m.h.Name, m.now()))
	if err := report.WriteFile(m.h, path); err != nil {
		m.printErr(err)
		return
	}
	m.logger.Info().Str("path", path).Msg("Excel report written")
	m.printf("Report written to %s\n", path)
}
