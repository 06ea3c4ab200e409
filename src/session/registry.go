package session

import (
	"context"
	"log"
	"sync"
	"time"
	"tourbook/src/lib"

	"github.com/google/uuid"
)

// Registry hands out one Store per session id, restoring persisted tokens
// on first use.
type Registry struct {
	mu     sync.Mutex
	slot   lib.Slot
	auth   Authenticator
	stores map[string]*Store
}

func NewRegistry(slot lib.Slot, auth Authenticator) *Registry {
	return &Registry{
		slot:   slot,
		auth:   auth,
		stores: map[string]*Store{},
	}
}

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID would hand out.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the store of id. The first caller restores the persisted
// token; concurrent callers for the same id wait until that finished and
// share its outcome.
func (r *Registry) Get(ctx context.Context, id string) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[id]
	if !ok {
		store = NewStore(id, r.slot, r.auth)
		r.stores[id] = store
	}
	r.mu.Unlock()

	store.touch()
	if !ok {
		store.initErr = store.Init(ctx)
		if store.initErr != nil {
			r.mu.Lock()
			if r.stores[id] == store {
				delete(r.stores, id)
			}
			r.mu.Unlock()
		}
		close(store.ready)
		if store.initErr != nil {
			return nil, store.initErr
		}
		return store, nil
	}

	select {
	case <-store.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if store.initErr != nil {
		return nil, store.initErr
	}
	return store, nil
}

// Sweep forgets stores idle for longer than maxIdle. Their tokens stay in
// the slot and are resolved again on the next request.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, store := range r.stores {
		if store.idleSince().Before(cutoff) {
			delete(r.stores, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[session] Swept %d idle sessions\n", removed)
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
