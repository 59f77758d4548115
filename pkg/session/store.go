package session

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 24 * time.Hour

// Store persists session state between requests.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Put(ctx context.Context, s State) error
	Delete(ctx context.Context, id string) error
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Every Put restarts the entry's TTL; reads do not.
type MemoryStore struct {
	ttl   time.Duration
	cache *ttlcache.Cache[string, State]
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) (store *MemoryStore) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store = &MemoryStore{
		ttl: ttl,
		cache: ttlcache.New[string, State](
			ttlcache.WithTTL[string, State](ttl),
			ttlcache.WithDisableTouchOnHit[string, State](),
		),
	}
	return store
}

// Get returns the session or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, id string) (s State, err error) {
	item := m.cache.Get(id)
	if item == nil {
		err = ErrNotFound
		return s, err
	}

	s = item.Value()
	return s, err
}

// Put stores the session under its ID.
func (m *MemoryStore) Put(ctx context.Context, s State) (err error) {
	m.cache.DeleteExpired()
	m.cache.Set(s.ID, s, ttlcache.DefaultTTL)
	return err
}

// Delete removes the session. Deleting a missing session is not an error.
func (m *MemoryStore) Delete(ctx context.Context, id string) (err error) {
	m.cache.Delete(id)
	return err
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() (n int) {
	n = m.cache.Len()
	return n
}

