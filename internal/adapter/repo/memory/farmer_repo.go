package memory

import (
	"context"
	"sort"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

type FarmerRepo struct {
	store *Store
}

func NewFarmerRepo(store *Store) FarmerRepo {
	return FarmerRepo{store: store}
}

func (r FarmerRepo) GetByID(ctx context.Context, farmerID string) (farm.Farmer, error) {
	defer r.store.lockRead(ctx)()
	farmer, ok := r.store.farmers[farmerID]
	if !ok {
		return farm.Farmer{}, ports.ErrNotFound
	}
	return farmer, nil
}

func (r FarmerRepo) List(ctx context.Context, limit int) ([]farm.Farmer, error) {
	defer r.store.lockRead(ctx)()
	out := make([]farm.Farmer, 0, len(r.store.farmers))
	for _, f := range r.store.farmers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r FarmerRepo) Create(ctx context.Context, farmer farm.Farmer) error {
	defer r.store.lockWrite(ctx)()
	if _, exists := r.store.farmers[farmer.ID]; exists {
		return ports.ErrConflict
	}
	r.store.farmers[farmer.ID] = farmer
	return nil
}

func (r FarmerRepo) SaveWithVersion(ctx context.Context, farmer farm.Farmer, expectedVersion int64) error {
	defer r.store.lockWrite(ctx)()
	current, ok := r.store.farmers[farmer.ID]
	if !ok || current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.farmers[farmer.ID] = farmer
	return nil
}
