package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/gofrs/uuid/v5"
)

var (
	// ErrSessionNotFound is returned by Get for unknown ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrIDGeneration is returned when no unused id could be produced.
	ErrIDGeneration = errors.New("failed to generate session id")
)

// maxIDAttempts bounds the re-rolls on id collision.
const maxIDAttempts = 8

// IDGenerator produces candidate session ids.
type IDGenerator func() (string, error)

// NewUUID generates a random (version 4) UUID string.
func NewUUID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Option configures a Store.
type Option func(*Store)

// WithLogHandler sets the handler that session loggers write through to.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Store) {
		if handler != nil {
			s.logHandler = handler
		}
	}
}

// WithLimits applies execution limits to every adapter created by the store's
// sessions.
func WithLimits(limits script.Limits) Option {
	return func(s *Store) {
		s.limits = limits
	}
}

// WithMaxLogRecords caps each session's log history at n records, dropping
// the oldest. Zero keeps everything.
func WithMaxLogRecords(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxLogRecords = n
		}
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store is the registry of live sessions. Lookups take a read lock; only
// Create takes the write lock, and only for the insert.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	registry   *script.Registry
	limits     script.Limits
	newID      IDGenerator
	logHandler slog.Handler
	logger     *slog.Logger

	maxLogRecords int
}

// NewStore creates an empty store whose sessions build adapters from
// registry.
func NewStore(registry *script.Registry, opts ...Option) *Store {
	s := &Store{
		sessions:   make(map[string]*Session),
		registry:   registry,
		newID:      NewUUID,
		logHandler: slog.Default().Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = slog.New(s.logHandler).WithGroup("session.Store")
	return s
}

// Create registers a new, empty session and returns its id.
func (s *Store) Create() (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrIDGeneration, err)
		}

		if created := s.insert(id); created {
			s.logger.Debug("Session created", "id", id)
			return id, nil
		}
		s.logger.Warn("Session id collision, retrying", "id", id)
	}
	return "", fmt.Errorf("%w: %d attempts collided", ErrIDGeneration, maxIDAttempts)
}

// insert stores a new session under id unless the id is taken.
func (s *Store) insert(id string) bool {
	// build outside the lock; only the map write is serialized
	sess := newSession(id, s.registry, s.limits, s.logHandler, s.maxLogRecords)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[id]; exists {
		return false
	}
	s.sessions[id] = sess
	return true
}

// Get returns the session registered under id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
