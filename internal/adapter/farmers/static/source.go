package staticfarmers

import (
	"context"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

// Source serves farmers from a fixed in-memory set. Integration tests and
// demo wiring hand it to the session manager when a full registry is overkill.
type Source struct {
	Farmers map[string]farm.Farmer
}

func (s Source) FetchFarmer(_ context.Context, farmerID string) (farm.Farmer, error) {
	f, ok := s.Farmers[farmerID]
	if !ok {
		return farm.Farmer{}, ports.ErrNotFound
	}
	return f, nil
}
