package world

import (
	"commuter-destination-service/internal/platform/obs"
	"commuter-destination-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Store holds the current world snapshot. Readers always see one complete
// snapshot; Reload swaps in a new one atomically.
type Store struct {
	repo    ports.WorldRepository
	current atomic.Pointer[Snapshot]
}

func NewStore(repo ports.WorldRepository) (*Store, error) {
	if repo == nil {
		return nil, errors.New("new world store: repository is nil")
	}
	return &Store{repo: repo}, nil
}

// Current snapshot, or nil before the first successful Reload.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload builds a fresh snapshot from the repository and makes it current.
// On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (_ *Snapshot, err error) {
	defer obs.Time(ctx, "world.reload")(&err)

	data, err := s.repo.LoadWorld(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload world: load: %w", err)
	}

	snap, err := NewSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("reload world: build snapshot: %w", err)
	}

	s.current.Store(snap)
	log.Printf("req_id=%s op=world.reload stops=%d citizens=%d", obs.RequestID(ctx), len(snap.stops), snap.CitizenCount())
	return snap, nil
}

// Run reloads the snapshot every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				log.Printf("periodic world reload failed: %v", err)
			}
		}
	}
}
