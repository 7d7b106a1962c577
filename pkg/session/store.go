package session

import (
	"context"
	"sync"
	"time"

	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Options configure a new session.
type Options struct {
	Table string
	Diff  string
	Key   []string
}

// Store keeps the live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	wh    Warehouse
	saves SaveLog
	ttl   time.Duration
}

// NewStore returns a store whose sessions expire after ttl without use.
// A zero ttl keeps sessions until they are deleted.
func NewStore(wh Warehouse, saves SaveLog, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		wh:       wh,
		saves:    saves,
		ttl:      ttl,
	}
}

// Create registers a new session and loads its table. The session is
// returned even when the fetch fails; the error is also on its message.
func (st *Store) Create(ctx context.Context, opts Options) (*Session, error) {
	differ, err := table.NewDiffer(opts.Diff, opts.Key)
	if err != nil {
		return nil, err
	}

	s := newSession(st.wh, st.saves, differ)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	log.Info().Str("session", s.ID.String()).Str("table", opts.Table).Str("diff", differ.Name()).Msg("session created")

	return s, s.Load(ctx, opts.Table)
}

func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.touch()
	}
	return s, ok
}

func (st *Store) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Prune drops sessions idle for longer than the ttl.
func (st *Store) Prune(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	pruned := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			pruned++
		}
	}
	return pruned
}

// RunPruner prunes on every tick until ctx is done.
func (st *Store) RunPruner(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Prune(now); n > 0 {
				log.Info().Int("pruned", n).Int("remaining", st.Len()).Msg("expired sessions removed")
			}
		}
	}
}
