// Package menu is the interactive console front end: a main menu with one
// numbered sub-menu per area, reading trimmed lines from an io.Reader.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hotel/internal/hotel"
	"hotel/internal/stats"
)

// invalidChoice is returned by readInt when the input is not a number.
const invalidChoice = -1

// Menu drives a hotel from text input.
type Menu struct {
	h         *hotel.Hotel
	stats     *stats.Engine
	in        *bufio.Scanner
	out       io.Writer
	logger    *zerolog.Logger
	exportDir string
	now       func() time.Time
	eof       bool

	// mu is held while the menu runs, except while it waits for input.
	mu sync.Mutex
}

// Option customises a Menu.
type Option func(*Menu)

// WithLogger logs actions that change the hotel.
func WithLogger(l *zerolog.Logger) Option {
	return func(m *Menu) { m.logger = l }
}

// WithExportDir sets where Excel exports are written.
func WithExportDir(dir string) Option {
	return func(m *Menu) { m.exportDir = dir }
}

// WithClock replaces time.Now for "today" markers and export names.
func WithClock(now func() time.Time) Option {
	return func(m *Menu) { m.now = now }
}

func New(h *hotel.Hotel, in io.Reader, out io.Writer, opts ...Option) *Menu {
	nop := zerolog.Nop()
	m := &Menu{
		h:         h,
		stats:     stats.New(h),
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    &nop,
		exportDir: ".",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the main menu until the user quits or the input ends.
func (m *Menu) Run() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.println(strings.Repeat("=", 42))
	m.printf("  HOTEL MANAGEMENT SYSTEM\n  %s\n", m.h.Name)
	if m.h.Address != "" {
		m.printf("  %s\n", m.h.Address)
	}
	m.println(strings.Repeat("=", 42))

	for !m.eof {
		m.println()
		m.println("========== MAIN MENU ==========")
		m.println("1. Rooms")
		m.println("2. Guests")
		m.println("3. Reservations")
		m.println("4. Services")
		m.println("5. Statistics and reports")
		m.println("6. Quit")
		m.println("===============================")

		switch m.readInt("Your choice: ") {
		case 1:
			m.roomsMenu()
		case 2:
			m.guestsMenu()
		case 3:
			m.reservationsMenu()
		case 4:
			m.servicesMenu()
		case 5:
			m.statisticsMenu()
		case 6:
			m.println("Goodbye!")
			return
		default:
			if !m.eof {
				m.println("Invalid choice, please try again.")
			}
		}
	}
}

// Exclusive runs fn while no menu action is in progress. It is safe to
// call from another goroutine while Run waits for input.
func (m *Menu) Exclusive(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

type action struct {
	label string
	run   func()
}

// subMenu loops over numbered actions; the last entry returns to the main
// menu.
func (m *Menu) subMenu(title string, actions []action) {
	for !m.eof {
		m.println()
		m.printf("----- %s -----\n", title)
		for i, a := range actions {
			m.printf("%d. %s\n", i+1, a.label)
		}
		m.printf("%d. Back to main menu\n", len(actions)+1)

		choice := m.readInt("Your choice: ")
		switch {
		case choice == len(actions)+1:
			return
		case choice >= 1 && choice <= len(actions):
			actions[choice-1].run()
		case !m.eof:
			m.println("Invalid choice.")
		}
	}
}

func (m *Menu) println(a ...interface{}) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...interface{}) {
	fmt.Fprintf(m.out, format, a...)
}

func (m *Menu) printErr(err error) {
	m.printf("Error: %v\n", err)
}

// readLine prompts and returns the trimmed line, or "" once input is over.
func (m *Menu) readLine(prompt string) string {
	m.printf("%s", prompt)
	m.mu.Unlock()
	ok := m.in.Scan()
	m.mu.Lock()
	if !ok {
		m.eof = true
		m.println()
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

// readInt returns invalidChoice for empty or non-numeric input.
func (m *Menu) readInt(prompt string) int {
	s := m.readLine(prompt)
	if s == "" {
		return invalidChoice
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		m.println("Please enter a valid number.")
		return invalidChoice
	}
	return n
}

func (m *Menu) readFloat(prompt string) (float64, bool) {
	s := strings.ReplaceAll(m.readLine(prompt), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m.println("Invalid amount.")
		return 0, false
	}
	return f, true
}

func (m *Menu) readYesNo(prompt string) bool {
	switch strings.ToLower(m.readLine(prompt + " (y/n): ")) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}
