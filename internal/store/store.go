// Package store implements the persistent key/value layer behind every
// durable record of the booking system.  A Store names collections and
// scalars by logical key and delegates the bytes to a Backend (memory,
// Redis or MySQL).  Whole collections are replaced on every write; a
// payload that fails to decode is logged and read back as empty so the
// callers can repopulate it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Logical keys of the persisted collections and scalars.
const (
	KeyUsers           = "users"
	KeyCurrentUser     = "currentUser"
	KeyMovies          = "movies"
	KeyCinemas         = "cinemas"
	KeyBookings        = "bookings"
	KeyMoviesLastFetch = "moviesLastFetch"
	KeySelectedCity    = "selectedCity"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "movieBooking_"

// ErrNotFound is returned by Backend.Read when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Backend is the raw byte storage behind a Store.  Write must replace the
// value atomically; readers never observe a partially written value.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store is the PersistentStore used by the sync engine, the ledger and the
// account directory.  It is constructed explicitly and passed to each
// component.
type Store struct {
	backend Backend
	prefix  string
	log     *slog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(p string) Option { return func(s *Store) { s.prefix = p } }

// WithLogger sets the logger used to report corrupt payloads.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New wraps a backend.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, prefix: DefaultPrefix, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemory returns a Store over a fresh in-memory backend.
func NewMemory(opts ...Option) *Store { return New(NewMemoryBackend(), opts...) }

func (s *Store) key(k string) string { return s.prefix + k }

// Exists reports whether a collection or scalar has been written.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.backend.Read(ctx, s.key(key))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRaw returns the raw JSON array stored under collection.  An absent
// collection yields an empty array.
func (s *Store) GetRaw(ctx context.Context, collection string) ([]json.RawMessage, error) {
	bs, err := s.backend.Read(ctx, s.key(collection))
	if errors.Is(err, ErrNotFound) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	var out []json.RawMessage
	if err := json.Unmarshal(bs, &out); err != nil {
		s.log.Warn("store: corrupt collection treated as empty", "collection", collection, "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// Put replaces the whole collection with records.
func (s *Store) Put(ctx context.Context, collection string, records any) error {
	bs, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if string(bs) == "null" {
		bs = []byte("[]")
	}
	if err := s.backend.Write(ctx, s.key(collection), bs); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// GetScalar reads a scalar value.  ok is false when the key is absent.
func (s *Store) GetScalar(ctx context.Context, key string) (value string, ok bool, err error) {
	bs, err := s.backend.Read(ctx, s.key(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(bs), true, nil
}

// SetScalar writes a scalar value.
func (s *Store) SetScalar(ctx context.Context, key, value string) error {
	if err := s.backend.Write(ctx, s.key(key), []byte(value)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// DeleteScalar removes a scalar.  Deleting an absent key is not an error.
func (s *Store) DeleteScalar(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.key(key)); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Logger exposes the store's logger to the typed collections.
func (s *Store) Logger() *slog.Logger { return s.log }

// Load decodes every record of collection into T.  A collection that is
// missing or corrupt decodes as an empty slice; individual records that do
// not fit T are skipped and logged.
func Load[T any](ctx context.Context, s *Store, collection string) ([]T, error) {
	raw, err := s.GetRaw(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			s.log.Warn("store: skipping corrupt record", "collection", collection, "index", i, "err", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
