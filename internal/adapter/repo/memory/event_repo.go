package memory

import (
	"context"

	"cropline/internal/app/ports"
	"cropline/internal/domain/sim"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}
	defer r.store.lockWrite(ctx)()
	r.store.events[sessionID] = append(r.store.events[sessionID], events...)
	return nil
}

// ListBySessionID returns the timeline oldest first. Sessions always log
// their start, so an empty result means the session does not exist.
func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]sim.Event, error) {
	defer r.store.lockRead(ctx)()
	stored := r.store.events[sessionID]
	if len(stored) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]sim.Event, len(stored))
	copy(out, stored)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
