package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hotel/internal/model"
)

const (
	sep            = "|"
	servicesPrefix = "SERVICES:"
)

var sanitizer = strings.NewReplacer("|", "/", "\r\n", " ", "\n", " ", "\r", " ")

// sanitize keeps free text on one line and out of the field separator.
func sanitize(s string) string {
	return sanitizer.Replace(s)
}

// encodeReason sanitizes a cancellation reason and keeps it from reading as
// the services segment.
func encodeReason(s string) string {
	s = sanitize(s)
	if strings.HasPrefix(s, servicesPrefix) {
		s = "SERVICES -" + strings.TrimPrefix(s, servicesPrefix)
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func encodeHotel(name, address string) string {
	return sanitize(name) + "\n" + sanitize(address) + "\n"
}

// decodeHotel reads the name and address lines; missing lines stay empty.
func decodeHotel(r io.Reader) (name, address string, err error) {
	sc := bufio.NewScanner(r)
	if sc.Scan() {
		name = sc.Text()
	}
	if sc.Scan() {
		address = sc.Text()
	}
	return name, address, sc.Err()
}

// encodeRoom writes type|number|price|capacity|occupied then the kind
// extras: twin beds for a double, balcony then jacuzzi for a suite.
func encodeRoom(r model.Room) string {
	fields := []string{
		string(r.Kind),
		strconv.Itoa(r.Number),
		formatFloat(r.NightlyRate),
		strconv.Itoa(r.Capacity),
		strconv.FormatBool(r.Occupied),
	}
	switch r.Kind {
	case model.KindDouble:
		fields = append(fields, strconv.FormatBool(r.TwinBeds()))
	case model.KindSuite:
		fields = append(fields, strconv.FormatBool(r.HasBalcony()), strconv.FormatBool(r.HasJacuzzi()))
	}
	return strings.Join(fields, sep)
}

func decodeRoom(line string) (model.Room, error) {
	parts := strings.Split(line, sep)
	if len(parts) < 5 {
		return model.Room{}, fmt.Errorf("room: want at least 5 fields, got %d", len(parts))
	}
	kind, ok := model.ParseRoomKind(parts[0])
	if !ok {
		return model.Room{}, fmt.Errorf("room: unknown type %q", parts[0])
	}
	number, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.Room{}, fmt.Errorf("room number: %w", err)
	}
	price, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return model.Room{}, fmt.Errorf("room %d price: %w", number, err)
	}
	if _, err = strconv.Atoi(parts[3]); err != nil {
		return model.Room{}, fmt.Errorf("room %d capacity: %w", number, err)
	}
	occupied, err := strconv.ParseBool(parts[4])
	if err != nil {
		return model.Room{}, fmt.Errorf("room %d occupied: %w", number, err)
	}

	room := model.Room{Number: number, Kind: kind, NightlyRate: price, Occupied: occupied}
	switch kind {
	case model.KindStandard:
		room.Capacity = model.StandardCapacity
	case model.KindDouble:
		twin, err := optionalBool(parts, 5)
		if err != nil {
			return model.Room{}, fmt.Errorf("room %d twin beds: %w", number, err)
		}
		room.Capacity = model.DoubleCapacity
		room.Double = &model.DoubleFeatures{TwinBeds: twin}
	case model.KindSuite:
		balcony, err := optionalBool(parts, 5)
		if err != nil {
			return model.Room{}, fmt.Errorf("room %d balcony: %w", number, err)
		}
		jacuzzi, err := optionalBool(parts, 6)
		if err != nil {
			return model.Room{}, fmt.Errorf("room %d jacuzzi: %w", number, err)
		}
		room.Capacity = model.SuiteCapacity
		room.Suite = &model.SuiteFeatures{Jacuzzi: jacuzzi, Balcony: balcony}
	}
	return room, nil
}

func optionalBool(parts []string, i int) (bool, error) {
	if i >= len(parts) || parts[i] == "" {
		return false, nil
	}
	return strconv.ParseBool(parts[i])
}

func encodeGuest(g model.Guest) string {
	return strings.Join([]string{
		strconv.Itoa(g.Number),
		sanitize(g.LastName),
		sanitize(g.FirstName),
		sanitize(g.Email),
		sanitize(g.Phone),
	}, sep)
}

func decodeGuest(line string) (model.Guest, error) {
	parts := strings.Split(line, sep)
	if len(parts) < 5 {
		return model.Guest{}, fmt.Errorf("guest: want 5 fields, got %d", len(parts))
	}
	number, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.Guest{}, fmt.Errorf("guest number: %w", err)
	}
	return model.Guest{
		Number:    number,
		LastName:  parts[1],
		FirstName: parts[2],
		Email:     parts[3],
		Phone:     parts[4],
	}, nil
}

func encodeService(s model.Service) string {
	return strings.Join([]string{
		strconv.Itoa(s.ID),
		sanitize(s.Name),
		sanitize(s.Description),
		formatFloat(s.Price),
		strconv.FormatBool(s.Available),
	}, sep)
}

func decodeService(line string) (model.Service, error) {
	parts := strings.Split(line, sep)
	if len(parts) < 5 {
		return model.Service{}, fmt.Errorf("service: want 5 fields, got %d", len(parts))
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.Service{}, fmt.Errorf("service id: %w", err)
	}
	price, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return model.Service{}, fmt.Errorf("service %d price: %w", id, err)
	}
	available, err := strconv.ParseBool(parts[4])
	if err != nil {
		return model.Service{}, fmt.Errorf("service %d available: %w", id, err)
	}
	return model.Service{ID: id, Name: parts[1], Description: parts[2], Price: price, Available: available}, nil
}

// encodeReservation writes
// number|guest|room|start|end|status[|cancelDate|reason][|SERVICES:id,id].
func encodeReservation(r model.Reservation) string {
	fields := []string{
		strconv.Itoa(r.Number),
		strconv.Itoa(r.GuestNumber),
		strconv.Itoa(r.RoomNumber),
		model.FormatDate(r.Start),
		model.FormatDate(r.End),
		string(r.Status),
	}
	if r.CancelledOn != nil {
		fields = append(fields, model.FormatDate(*r.CancelledOn), encodeReason(r.CancelReason))
	}
	if len(r.ServiceIDs) > 0 {
		ids := make([]string, len(r.ServiceIDs))
		for i, id := range r.ServiceIDs {
			ids[i] = strconv.Itoa(id)
		}
		fields = append(fields, servicesPrefix+strings.Join(ids, ","))
	}
	return strings.Join(fields, sep)
}

func decodeReservation(line string) (model.Reservation, error) {
	parts := strings.Split(line, sep)
	if len(parts) < 6 {
		return model.Reservation{}, fmt.Errorf("reservation: want at least 6 fields, got %d", len(parts))
	}
	var ints [3]int
	for i := range ints {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return model.Reservation{}, fmt.Errorf("reservation field %d: %w", i+1, err)
		}
		ints[i] = n
	}
	r := model.Reservation{Number: ints[0], GuestNumber: ints[1], RoomNumber: ints[2]}

	var err error
	if r.Start, err = model.ParseDate(parts[3]); err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d start: %w", r.Number, err)
	}
	if r.End, err = model.ParseDate(parts[4]); err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d end: %w", r.Number, err)
	}
	status, ok := model.ParseStatus(parts[5])
	if !ok {
		return model.Reservation{}, fmt.Errorf("reservation %d: unknown status %q", r.Number, parts[5])
	}
	r.Status = status

	// Cancellation fields are positional and come before the services
	// segment, which is always last. Once a cancel date is read the next
	// field is the reason whatever it starts with.
	extras := parts[6:]
	for i, p := range extras {
		if i == 1 && r.CancelledOn != nil {
			r.CancelReason = p
			continue
		}
		if strings.HasPrefix(p, servicesPrefix) {
			r.ServiceIDs = decodeServiceIDs(strings.TrimPrefix(p, servicesPrefix))
			break
		}
		switch i {
		case 0:
			if p == "" {
				continue
			}
			d, err := model.ParseDate(p)
			if err != nil {
				return model.Reservation{}, fmt.Errorf("reservation %d cancel date: %w", r.Number, err)
			}
			r.CancelledOn = &d
		case 1:
			r.CancelReason = p
		}
	}
	return r, nil
}

// decodeServiceIDs ignores ids that are not numbers.
func decodeServiceIDs(s string) []int {
	var ids []int
	for _, f := range strings.Split(s, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(f)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// maxLineSize caps one record; longer lines are skipped as malformed.
const maxLineSize = 1 << 20

// decodeLines decodes one record per non-blank line. Malformed lines are
// returned as errors and skipped; a read failure aborts.
func decodeLines[T any](r io.Reader, decode func(string) (T, error)) ([]T, []error, error) {
	var (
		out     []T
		skipped []error
		lineNo  int
	)
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if raw != "" {
			lineNo++
			line := strings.TrimRight(raw, "\r\n")
			switch {
			case strings.TrimSpace(line) == "":
			case len(line) > maxLineSize:
				skipped = append(skipped, fmt.Errorf("line %d: %d bytes, limit %d", lineNo, len(line), maxLineSize))
			default:
				v, err := decode(line)
				if err != nil {
					skipped = append(skipped, fmt.Errorf("line %d: %w", lineNo, err))
					break
				}
				out = append(out, v)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return out, skipped, nil
		}
		if readErr != nil {
			return out, skipped, readErr
		}
	}
}
