package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"farmrent/internal/models"

	"github.com/rs/zerolog"
)

// Kind names one of the flat-file collections.
type Kind string

const (
	KindEquipments Kind = "equipments"
	KindWorkers    Kind = "workers"
	KindBookings   Kind = "bookings"
)

// Kinds lists every collection the store manages.
var Kinds = []Kind{KindEquipments, KindWorkers, KindBookings}

var (
	ErrUnknownKind = errors.New("unknown collection kind")
	ErrParse       = errors.New("malformed collection file")
	ErrNotFound    = errors.New("record not found")
)

// Store keeps one pretty-printed JSON array file per collection kind.
// Every mutation for a kind serializes through that kind's mutex, so a
// read-modify-write cycle always sees a consistent view of the
// collection. Writes go to a temporary sibling and are renamed over
// the destination, so a crash leaves either the old or the new array.
type Store struct {
	dir   string
	log   zerolog.Logger
	seq   *Sequence
	locks map[Kind]*sync.Mutex
}

// NewStore creates the data directory if needed, seeds missing
// collection files with an empty array and initializes the id
// sequence above any id already on disk.
func NewStore(dir string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var storeLogger zerolog.Logger
	if logger != nil {
		storeLogger = logger.With().Str("component", "storage").Logger()
	}

	s := &Store{
		dir:   dir,
		log:   storeLogger,
		locks: make(map[Kind]*sync.Mutex, len(Kinds)),
	}
	for _, kind := range Kinds {
		s.locks[kind] = &sync.Mutex{}
		if err := s.seedFile(kind); err != nil {
			return nil, err
		}
	}

	floor, err := s.maxExistingID()
	if err != nil {
		return nil, err
	}

	seq, err := NewSequence(filepath.Join(dir, "sequence.json"), floor)
	if err != nil {
		return nil, fmt.Errorf("init id sequence: %w", err)
	}
	s.seq = seq

	s.log.Info().Str("dir", dir).Msg("flat-file store initialized")
	return s, nil
}

func (s *Store) seedFile(kind Kind) error {
	path := s.path(kind)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	s.log.Warn().Str("kind", string(kind)).Msg("created missing collection file")
	return nil
}

func (s *Store) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

func (s *Store) lock(kind Kind) *sync.Mutex {
	return s.locks[kind]
}

// NextID allocates a process-unique, strictly increasing record id.
func (s *Store) NextID() (int64, error) {
	return s.seq.Next()
}

// maxExistingID scans all collections so restarts never reuse an id.
func (s *Store) maxExistingID() (int64, error) {
	var max int64
	for _, kind := range Kinds {
		var records []struct {
			ID int64 `json:"id"`
		}
		if err := s.readList(kind, &records); err != nil {
			return 0, err
		}
		for _, r := range records {
			if r.ID > max {
				max = r.ID
			}
		}
	}
	return max, nil
}

func (s *Store) readList(kind Kind, out any) error {
	raw, err := os.ReadFile(s.path(kind))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", kind, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, kind, err)
	}
	return nil
}

func (s *Store) writeList(kind Kind, list any) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	data = append(data, '\n')

	path := s.path(kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// list returns the full collection in insertion order.
func list[T any](s *Store, kind Kind) ([]T, error) {
	mu := s.lock(kind)
	if mu == nil {
		return nil, ErrUnknownKind
	}
	mu.Lock()
	defer mu.Unlock()

	records := []T{}
	if err := s.readList(kind, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// appendRecord reads the full collection, pushes the record and
// rewrites the file under the kind's lock.
func appendRecord[T any](ctx context.Context, s *Store, kind Kind, record T) error {
	mu := s.lock(kind)
	if mu == nil {
		return ErrUnknownKind
	}
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	records := []T{}
	if err := s.readList(kind, &records); err != nil {
		return err
	}
	records = append(records, record)
	return s.writeList(kind, records)
}

// overwrite replaces the whole collection, used for in-place record
// mutation such as status transitions.
func overwrite[T any](ctx context.Context, s *Store, kind Kind, records []T) error {
	mu := s.lock(kind)
	if mu == nil {
		return ErrUnknownKind
	}
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}
	return s.writeList(kind, records)
}

func (s *Store) ListEquipments(ctx context.Context) ([]models.Equipment, error) {
	return list[models.Equipment](s, KindEquipments)
}

func (s *Store) AppendEquipment(ctx context.Context, equipment models.Equipment) error {
	return appendRecord(ctx, s, KindEquipments, equipment)
}

func (s *Store) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return list[models.Worker](s, KindWorkers)
}

func (s *Store) AppendWorker(ctx context.Context, worker models.Worker) error {
	return appendRecord(ctx, s, KindWorkers, worker)
}

func (s *Store) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return list[models.Booking](s, KindBookings)
}

func (s *Store) AppendBooking(ctx context.Context, booking models.Booking) error {
	return appendRecord(ctx, s, KindBookings, booking)
}

func (s *Store) OverwriteBookings(ctx context.Context, bookings []models.Booking) error {
	return overwrite(ctx, s, KindBookings, bookings)
}

// UpdateBooking applies fn to the booking with the given id inside a
// single locked read-modify-write cycle and returns the updated copy.
func (s *Store) UpdateBooking(ctx context.Context, id int64, fn func(*models.Booking)) (*models.Booking, error) {
	mu := s.lock(KindBookings)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookings := []models.Booking{}
	if err := s.readList(KindBookings, &bookings); err != nil {
		return nil, err
	}

	for i := range bookings {
		if bookings[i].ID == id {
			fn(&bookings[i])
			if err := s.writeList(KindBookings, bookings); err != nil {
				return nil, err
			}
			updated := bookings[i]
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
}
