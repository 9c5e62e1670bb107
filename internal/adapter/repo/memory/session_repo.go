package memory

import (
	"context"
	"sort"

	"cropline/internal/app/ports"
)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepo {
	return SessionRepo{store: store}
}

func (r SessionRepo) Create(ctx context.Context, record ports.SessionRecord) error {
	defer r.store.lockWrite(ctx)()
	if _, exists := r.store.sessions[record.ID]; exists {
		return ports.ErrConflict
	}
	r.store.sessions[record.ID] = record
	return nil
}

func (r SessionRepo) Get(ctx context.Context, sessionID string) (ports.SessionRecord, error) {
	defer r.store.lockRead(ctx)()
	record, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.SessionRecord{}, ports.ErrNotFound
	}
	return record, nil
}

func (r SessionRepo) SaveWithVersion(ctx context.Context, record ports.SessionRecord, expectedVersion int64) error {
	defer r.store.lockWrite(ctx)()
	current, ok := r.store.sessions[record.ID]
	if !ok || current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.sessions[record.ID] = record
	return nil
}

func (r SessionRepo) ListRecent(ctx context.Context, limit int) ([]ports.SessionRecord, error) {
	defer r.store.lockRead(ctx)()
	out := make([]ports.SessionRecord, 0, len(r.store.sessions))
	for _, record := range r.store.sessions {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
