// internal/room/store.go
package room

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jason-s-yu/typerace/internal/text"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Options holds the timing and validation knobs shared by every room.
type Options struct {
	ConfirmWindow  time.Duration // time the second member has after the first confirms
	CountdownSec   int
	ResultGrace    time.Duration // added to the race duration before missing results forfeit
	DoneRetention  time.Duration // how long a finished room lingers before cleanup
	CodeLength     int
	MaxNameLength  int
	MinDurationSec int
	MaxDurationSec int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		ConfirmWindow:  30 * time.Second,
		CountdownSec:   3,
		ResultGrace:    5 * time.Second,
		DoneRetention:  60 * time.Second,
		CodeLength:     6,
		MaxNameLength:  32,
		MinDurationSec: 5,
		MaxDurationSec: 600,
	}
}

// Store is the process-wide registry of live rooms. It only guards the id table; each
// room serializes its own state.
type Store struct {
	opts     Options
	texts    text.Provider
	clock    clockwork.Clock
	codes    CodeReserver
	generate func(n int) string
	logger   *logrus.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock swaps the clock rooms arm their timers on.
func WithClock(clock clockwork.Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// WithCodeReserver makes the store reserve codes somewhere other than process memory.
func WithCodeReserver(cr CodeReserver) StoreOption {
	return func(s *Store) { s.codes = cr }
}

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(fn func(n int) string) StoreOption {
	return func(s *Store) { s.generate = fn }
}

func NewStore(opts Options, texts text.Provider, logger *logrus.Logger, storeOpts ...StoreOption) *Store {
	s := &Store{
		opts:     opts,
		texts:    texts,
		clock:    clockwork.NewRealClock(),
		codes:    NewMemoryReserver(),
		generate: GenerateCode,
		logger:   logger,
		rooms:    make(map[string]*Room),
	}
	for _, o := range storeOpts {
		o(s)
	}
	return s
}

// Create allocates a fresh code and a room in waiting with conn as its only member.
// The creator receives room_created followed by room_updated.
func (s *Store) Create(ctx context.Context, conn Conn, name, languageID string, durationSec int) (*Room, error) {
	name, err := s.validateName(name)
	if err != nil {
		return nil, err
	}
	if !s.texts.Supports(languageID) {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrMalformedMessage, languageID)
	}
	if durationSec < s.opts.MinDurationSec || durationSec > s.opts.MaxDurationSec {
		return nil, fmt.Errorf("%w: durationSec must be within %d..%d", ErrMalformedMessage, s.opts.MinDurationSec, s.opts.MaxDurationSec)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.reserveCode(ctx)
		if err != nil {
			return nil, err
		}

		r := newRoom(code, languageID, durationSec, s.opts, s.clock, s.texts, s.logger)
		r.onEmpty = s.release

		// Hold the room lock across insertion so nobody can join before the creator
		// has been told the code.
		r.mu.Lock()
		if !s.insert(r) {
			r.mu.Unlock()
			s.logger.Warnf("Room code %s was granted but is still live here, regenerating.", code)
			continue
		}
		r.members = append(r.members, newParticipant(conn, name))
		conn.Write(roomCreatedMsg(code))
		r.broadcastRoomUpdatedUnsafe()
		r.unlock()

		s.logger.WithFields(logrus.Fields{
			"room":        code,
			"language":    languageID,
			"durationSec": durationSec,
		}).Infof("Room created by %q.", name)
		return r, nil
	}
	return nil, ErrCodeSpace
}

// Join looks the code up case-insensitively and adds conn to that room.
func (s *Store) Join(roomID string, conn Conn, name string) (*Room, error) {
	name, err := s.validateName(name)
	if err != nil {
		return nil, err
	}
	r, ok := s.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := r.Join(conn, name); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the live room for roomID.
func (s *Store) Get(roomID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[NormalizeCode(roomID)]
	return r, ok
}

// Remove destroys the room and drops it from the table.
func (s *Store) Remove(roomID string) {
	if r, ok := s.Get(roomID); ok {
		r.Destroy()
	}
}

// Len is the number of live rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Close destroys every room, stopping all timers.
func (s *Store) Close() {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	for _, r := range rooms {
		r.Destroy()
	}
}

// insert adds r unless its code is already live.
func (s *Store) insert(r *Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.rooms[r.ID]; taken {
		return false
	}
	s.rooms[r.ID] = r
	return true
}

func (s *Store) reserveCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.generate(s.opts.CodeLength)
		// A reservation can lapse (Redis TTL) while the room is still live here.
		if _, live := s.Get(code); live {
			s.logger.Debugf("Room code %s is live, regenerating.", code)
			continue
		}
		ok, err := s.codes.Reserve(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to reserve room code: %w", err)
		}
		if ok {
			return code, nil
		}
		s.logger.Debugf("Room code %s already taken, regenerating.", code)
	}
	return "", ErrCodeSpace
}

// release is the rooms' onEmpty callback. It runs outside the room lock.
func (s *Store) release(r *Room) {
	s.mu.Lock()
	cur, ok := s.rooms[r.ID]
	owned := ok && cur == r
	if owned {
		delete(s.rooms, r.ID)
	}
	s.mu.Unlock()
	if !owned {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.codes.Release(ctx, r.ID); err != nil {
		s.logger.Warnf("Failed to release room code %s: %v", r.ID, err)
	}
	s.logger.WithField("room", r.ID).Info("Room removed from store.")
}

func (s *Store) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return "", fmt.Errorf("%w: name is required", ErrMalformedMessage)
	}
	if n > s.opts.MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrMalformedMessage, s.opts.MaxNameLength)
	}
	return name, nil
}
