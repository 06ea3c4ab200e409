package catalog

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"tourbook/src/domain"
	"tourbook/src/models"
	"tourbook/src/types"
)

type Source interface {
	ListPackages(ctx context.Context) ([]models.PackageView, error)
}

// Invalidator is a Source keeping its own cache, dropped before a forced
// refresh.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Feed holds the last committed catalog snapshot. Each refresh takes a
// sequence number and only the latest issued refresh may commit.
type Feed struct {
	source Source
	seq    atomic.Uint64

	mu       sync.RWMutex
	packages []models.PackageView
	loaded   bool
}

func NewFeed(source Source) *Feed {
	return &Feed{source: source}
}

// Refresh fetches the catalog and commits it unless a newer refresh was
// issued meanwhile. A superseded fetch returns its packages together with
// a StaleResponseError.
func (f *Feed) Refresh(ctx context.Context) ([]models.PackageView, error) {
	seq := f.seq.Add(1)
	packages, err := f.source.ListPackages(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	latest := f.seq.Load()
	if seq != latest {
		log.Printf("[catalog] Dropping stale response %d (latest %d)\n", seq, latest)
		return packages, domain.StaleResponseError{Seq: seq, Latest: latest}
	}
	f.packages = packages
	f.loaded = true
	return packages, nil
}

func (f *Feed) Snapshot() ([]models.PackageView, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.packages, f.loaded
}

// Query filters and sorts the current snapshot, loading it first when the
// feed is empty or force is set. A forced load bypasses the source's cache.
func (f *Feed) Query(ctx context.Context, criteria types.FilterCriteria, strategy types.SortStrategy, force bool) ([]models.PackageView, error) {
	packages, ok := f.Snapshot()
	if force {
		if inv, isCache := f.source.(Invalidator); isCache {
			inv.Invalidate(ctx)
		}
	}
	if !ok || force {
		fresh, err := f.Refresh(ctx)
		switch {
		case err == nil:
			packages = fresh
		case domain.IsStale(err):
			if snap, loaded := f.Snapshot(); loaded {
				packages = snap
			} else {
				packages = fresh
			}
		default:
			return nil, err
		}
	}
	return Sort(Filter(packages, criteria), strategy), nil
}
