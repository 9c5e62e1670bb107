package memory

import (
	"context"
	"sort"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

type CallRepo struct {
	store *Store
}

func NewCallRepo(store *Store) CallRepo {
	return CallRepo{store: store}
}

func (r CallRepo) Create(ctx context.Context, record farm.CallRecord) error {
	defer r.store.lockWrite(ctx)()
	for _, c := range r.store.calls {
		if c.ID == record.ID {
			return ports.ErrConflict
		}
	}
	r.store.calls = append(r.store.calls, record)
	return nil
}

func (r CallRepo) List(ctx context.Context, query ports.CallQuery) ([]farm.CallRecord, error) {
	defer r.store.lockRead(ctx)()
	out := make([]farm.CallRecord, 0, len(r.store.calls))
	for _, c := range r.store.calls {
		if query.FarmerID != "" && c.FarmerID != query.FarmerID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}
