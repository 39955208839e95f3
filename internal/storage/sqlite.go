package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"hotel/internal/hotel"
	"hotel/internal/model"
)

const sqlDateLayout = "2006-01-02"

// SQLiteStore keeps the hotel in a SQLite database, one table per record
// kind. Save replaces the whole content in a single transaction.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

// NewSQLiteStore opens the database at path and creates tables if they don't exist.
func NewSQLiteStore(path string, logger *zerolog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, persistenceErr("create database directory", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, persistenceErr("open database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, persistenceErr("connect to database", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, persistenceErr("migrate", err)
	}

	logger.Debug().Str("path", path).Msg("SQLite store ready")
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS hotel (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			address TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS rooms (
			number INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			nightly_rate REAL NOT NULL,
			capacity INTEGER NOT NULL,
			occupied BOOLEAN NOT NULL DEFAULT 0,
			twin_beds BOOLEAN NOT NULL DEFAULT 0,
			jacuzzi BOOLEAN NOT NULL DEFAULT 0,
			balcony BOOLEAN NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS guests (
			number INTEGER PRIMARY KEY,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			price REAL NOT NULL,
			available BOOLEAN NOT NULL DEFAULT 1
		)`,

		// Guests and rooms are not foreign keys: a removed guest keeps
		// their reservations.
		`CREATE TABLE IF NOT EXISTS reservations (
			number INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			guest_number INTEGER NOT NULL,
			room_number INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			cancelled_on TEXT,
			cancel_reason TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS reservation_services (
			reservation_number INTEGER NOT NULL,
			position INTEGER NOT NULL,
			service_id INTEGER NOT NULL,
			PRIMARY KEY (reservation_number, position)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_guest ON reservations(guest_number)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

// Exists reports whether a hotel row or any record was saved.
func (s *SQLiteStore) Exists() bool {
	var n int
	err := s.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM hotel) + (SELECT COUNT(*) FROM rooms) +
		(SELECT COUNT(*) FROM guests) + (SELECT COUNT(*) FROM services) +
		(SELECT COUNT(*) FROM reservations)`).Scan(&n)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check stored data")
		return false
	}
	return n > 0
}

func (s *SQLiteStore) Load() (hotel.State, error) {
	ctx := context.Background()
	var st hotel.State

	err := s.db.QueryRowContext(ctx, "SELECT name, address FROM hotel WHERE id = 1").Scan(&st.Name, &st.Address)
	if err != nil && err != sql.ErrNoRows {
		return hotel.State{}, persistenceErr("load hotel", err)
	}

	if st.Rooms, err = s.loadRooms(ctx); err != nil {
		return hotel.State{}, persistenceErr("load rooms", err)
	}
	if st.Guests, err = s.loadGuests(ctx); err != nil {
		return hotel.State{}, persistenceErr("load guests", err)
	}
	if st.Services, err = s.loadServices(ctx); err != nil {
		return hotel.State{}, persistenceErr("load services", err)
	}
	if st.Reservations, err = s.loadReservations(ctx); err != nil {
		return hotel.State{}, persistenceErr("load reservations", err)
	}
	return st, nil
}

func (s *SQLiteStore) loadRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, kind, nightly_rate, capacity, occupied, twin_beds, jacuzzi, balcony
		FROM rooms ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var (
			r                      model.Room
			kind                   string
			twin, jacuzzi, balcony bool
		)
		if err := rows.Scan(&r.Number, &kind, &r.NightlyRate, &r.Capacity, &r.Occupied, &twin, &jacuzzi, &balcony); err != nil {
			return nil, err
		}
		r.Kind = model.RoomKind(kind)
		switch r.Kind {
		case model.KindDouble:
			r.Double = &model.DoubleFeatures{TwinBeds: twin}
		case model.KindSuite:
			r.Suite = &model.SuiteFeatures{Jacuzzi: jacuzzi, Balcony: balcony}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadGuests(ctx context.Context) ([]model.Guest, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT number, last_name, first_name, email, phone FROM guests ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.Number, &g.LastName, &g.FirstName, &g.Email, &g.Phone); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadServices(ctx context.Context) ([]model.Service, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description, price, available FROM services ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Price, &svc.Available); err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadReservations(ctx context.Context) ([]model.Reservation, error) {
	serviceIDs, err := s.loadReservationServices(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, guest_number, room_number, start_date, end_date, status,
		       cancelled_on, cancel_reason, created_at
		FROM reservations ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var (
			r                  model.Reservation
			start, end, status string
			cancelledOn        sql.NullString
			createdAt          string
		)
		if err := rows.Scan(&r.Number, &r.GuestNumber, &r.RoomNumber, &start, &end, &status,
			&cancelledOn, &r.CancelReason, &createdAt); err != nil {
			return nil, err
		}
		if r.Start, err = time.Parse(sqlDateLayout, start); err != nil {
			return nil, fmt.Errorf("reservation %d start: %w", r.Number, err)
		}
		if r.End, err = time.Parse(sqlDateLayout, end); err != nil {
			return nil, fmt.Errorf("reservation %d end: %w", r.Number, err)
		}
		st, ok := model.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("reservation %d: unknown status %q", r.Number, status)
		}
		r.Status = st
		if cancelledOn.Valid {
			d, err := time.Parse(sqlDateLayout, cancelledOn.String)
			if err != nil {
				return nil, fmt.Errorf("reservation %d cancel date: %w", r.Number, err)
			}
			r.CancelledOn = &d
		}
		if createdAt != "" {
			if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
				return nil, fmt.Errorf("reservation %d created_at: %w", r.Number, err)
			}
		}
		r.ServiceIDs = serviceIDs[r.Number]
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadReservationServices(ctx context.Context) (map[int][]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reservation_number, service_id FROM reservation_services
		ORDER BY reservation_number, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]int)
	for rows.Next() {
		var number, id int
		if err := rows.Scan(&number, &id); err != nil {
			return nil, err
		}
		out[number] = append(out[number], id)
	}
	return out, rows.Err()
}

// Save replaces the stored snapshot.
func (s *SQLiteStore) Save(st hotel.State) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"hotel", "rooms", "guests", "services", "reservations", "reservation_services"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return persistenceErr("clear "+table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO hotel (id, name, address) VALUES (1, ?, ?)", st.Name, st.Address); err != nil {
		return persistenceErr("save hotel", err)
	}
	for i, r := range st.Rooms {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (number, position, kind, nightly_rate, capacity, occupied, twin_beds, jacuzzi, balcony)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Number, i, string(r.Kind), r.NightlyRate, r.Capacity, r.Occupied, r.TwinBeds(), r.HasJacuzzi(), r.HasBalcony())
		if err != nil {
			return persistenceErr(fmt.Sprintf("save room %d", r.Number), err)
		}
	}
	for _, g := range st.Guests {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO guests (number, last_name, first_name, email, phone) VALUES (?, ?, ?, ?, ?)",
			g.Number, g.LastName, g.FirstName, g.Email, g.Phone)
		if err != nil {
			return persistenceErr(fmt.Sprintf("save guest %d", g.Number), err)
		}
	}
	for i, svc := range st.Services {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO services (id, position, name, description, price, available) VALUES (?, ?, ?, ?, ?, ?)",
			svc.ID, i, svc.Name, svc.Description, svc.Price, svc.Available)
		if err != nil {
			return persistenceErr(fmt.Sprintf("save service %d", svc.ID), err)
		}
	}
	for i, r := range st.Reservations {
		var cancelledOn sql.NullString
		if r.CancelledOn != nil {
			cancelledOn = sql.NullString{String: r.CancelledOn.Format(sqlDateLayout), Valid: true}
		}
		var createdAt string
		if !r.CreatedAt.IsZero() {
			createdAt = r.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservations (number, position, guest_number, room_number, start_date, end_date,
				status, cancelled_on, cancel_reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Number, i, r.GuestNumber, r.RoomNumber, r.Start.Format(sqlDateLayout), r.End.Format(sqlDateLayout),
			string(r.Status), cancelledOn, r.CancelReason, createdAt)
		if err != nil {
			return persistenceErr(fmt.Sprintf("save reservation %d", r.Number), err)
		}
		for pos, id := range r.ServiceIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO reservation_services (reservation_number, position, service_id) VALUES (?, ?, ?)",
				r.Number, pos, id)
			if err != nil {
				return persistenceErr(fmt.Sprintf("save reservation %d services", r.Number), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return persistenceErr("commit", err)
	}
	return nil
}

// Snapshot writes a consistent copy of the database into dir.
func (s *SQLiteStore) Snapshot(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistenceErr("create snapshot directory", err)
	}
	target := filepath.Join(dir, filepath.Base(s.path))
	if _, err := s.db.Exec("VACUUM INTO ?", target); err != nil {
		return persistenceErr("snapshot database", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
