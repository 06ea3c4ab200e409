package cart

import (
	"sync"
	"time"
	"tourbook/src/lib"
)

type Registry struct {
	mu    sync.Mutex
	slot  lib.Slot
	carts map[string]*Cart
}

func NewRegistry(slot lib.Slot) *Registry {
	return &Registry{slot: slot, carts: map[string]*Cart{}}
}

// Get returns the cart of sessionID; all callers share one lock per cart.
func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = New(sessionID, r.slot)
		r.carts[sessionID] = c
	}
	return c
}

// Sweep drops idle cart handles. The persisted lines are untouched.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.carts {
		if !c.mu.TryLock() {
			continue
		}
		idle := c.lastUsed.Before(cutoff)
		c.mu.Unlock()
		if idle {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}
