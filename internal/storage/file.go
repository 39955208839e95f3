package storage

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"hotel/internal/hotel"
)

const (
	fileHotel        = "hotel.txt"
	fileRooms        = "rooms.txt"
	fileGuests       = "guests.txt"
	fileServices     = "services.txt"
	fileReservations = "reservations.txt"
)

var dataFiles = []string{fileHotel, fileRooms, fileGuests, fileServices, fileReservations}

// legacyNames are the file names written by older releases.
var legacyNames = map[string]string{
	fileRooms:  "chambres.txt",
	fileGuests: "clients.txt",
}

// FileStore keeps the hotel in five pipe-delimited text files.
type FileStore struct {
	dir    string
	logger *zerolog.Logger
}

func NewFileStore(dir string, logger *zerolog.Logger) *FileStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FileStore{dir: dir, logger: logger}
}

// Exists reports whether at least one data file is present.
func (s *FileStore) Exists() bool {
	for _, name := range dataFiles {
		if _, ok := s.find(name); ok {
			return true
		}
	}
	return false
}

// Load decodes every file. Missing files count as empty; malformed lines
// are logged and skipped.
func (s *FileStore) Load() (hotel.State, error) {
	var st hotel.State

	data, err := s.read(fileHotel)
	if err != nil {
		return hotel.State{}, err
	}
	if st.Name, st.Address, err = decodeHotel(bytes.NewReader(data)); err != nil {
		return hotel.State{}, persistenceErr("read "+fileHotel, err)
	}

	if st.Rooms, err = loadRecords(s, fileRooms, decodeRoom); err != nil {
		return hotel.State{}, err
	}
	if st.Guests, err = loadRecords(s, fileGuests, decodeGuest); err != nil {
		return hotel.State{}, err
	}
	if st.Services, err = loadRecords(s, fileServices, decodeService); err != nil {
		return hotel.State{}, err
	}
	if st.Reservations, err = loadRecords(s, fileReservations, decodeReservation); err != nil {
		return hotel.State{}, err
	}
	return st, nil
}

func loadRecords[T any](s *FileStore, name string, decode func(string) (T, error)) ([]T, error) {
	data, err := s.read(name)
	if err != nil {
		return nil, err
	}
	out, skipped, err := decodeLines(bytes.NewReader(data), decode)
	if err != nil {
		return nil, persistenceErr("read "+name, err)
	}
	for _, e := range skipped {
		s.logger.Warn().Err(e).Str("file", name).Msg("Skipping malformed record")
	}
	return out, nil
}

// Save writes every file through a temporary file and a rename.
func (s *FileStore) Save(st hotel.State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return persistenceErr("create data directory", err)
	}

	files := map[string]string{
		fileHotel:        encodeHotel(st.Name, st.Address),
		fileRooms:        joinLines(st.Rooms, encodeRoom),
		fileGuests:       joinLines(st.Guests, encodeGuest),
		fileServices:     joinLines(st.Services, encodeService),
		fileReservations: joinLines(st.Reservations, encodeReservation),
	}
	for _, name := range dataFiles {
		if err := writeAtomic(filepath.Join(s.dir, name), []byte(files[name])); err != nil {
			return persistenceErr("write "+name, err)
		}
	}
	return nil
}

// Snapshot copies the present data files into dir.
func (s *FileStore) Snapshot(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistenceErr("create snapshot directory", err)
	}
	for _, name := range dataFiles {
		path, ok := s.find(name)
		if !ok {
			continue
		}
		if err := copyFile(path, filepath.Join(dir, filepath.Base(path))); err != nil {
			return persistenceErr("snapshot "+name, err)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// find locates a data file, falling back to its legacy name.
func (s *FileStore) find(name string) (string, bool) {
	candidates := []string{name}
	if legacy, ok := legacyNames[name]; ok {
		candidates = append(candidates, legacy)
	}
	for _, c := range candidates {
		path := filepath.Join(s.dir, c)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (s *FileStore) read(name string) ([]byte, error) {
	path, ok := s.find(name)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, persistenceErr("read "+name, err)
	}
	return data, nil
}

func joinLines[T any](items []T, encode func(T) string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(encode(it))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err = io.Copy(destination, source); err != nil {
		return err
	}
	return destination.Close()
}
