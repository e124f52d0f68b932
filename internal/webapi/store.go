package webapi

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/minefield"
)

var ErrNotFound = errors.New("game not found")

// Session is one browser's game. Callers hold mu while touching game.
type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	game    *minefield.Game
	touched time.Time
}

// Do runs fn with the session's game locked.
func (s *Session) Do(fn func(g *minefield.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// Store keeps sessions in memory. Sessions idle for longer than ttl are
// dropped whenever a new one is created.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	seed     uint64
	created  uint64
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewStore creates a store. A non-zero seed makes every new game draw from
// a generator seeded with seed plus the number of games created before it.
func NewStore(ttl time.Duration, seed uint64, log logrus.FieldLogger) *Store {
	return &Store{
		sessions: map[uuid.UUID]*Session{},
		ttl:      ttl,
		seed:     seed,
		now:      time.Now,
		log:      log,
	}
}

func (st *Store) Create(cfg minefield.Config) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()

	var opts []minefield.Option
	if st.seed != 0 {
		n := st.seed + st.created
		opts = append(opts, minefield.WithRand(rand.New(rand.NewPCG(n, n))))
	}
	st.created++
	s := &Session{
		ID:      uuid.New(),
		game:    minefield.New(cfg, opts...),
		touched: st.now(),
	}
	st.sessions[s.ID] = s
	st.log.WithFields(logrus.Fields{
		"id":       s.ID,
		"config":   s.game.Config(),
		"sessions": len(st.sessions),
	}).Info("game created")
	return s
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.touched = st.now()
	return s, nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) pruneLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, s := range st.sessions {
		if s.touched.Before(cutoff) {
			delete(st.sessions, id)
			st.log.WithField("id", id).Debug("session expired")
		}
	}
}
