package repofarmers

import (
	"context"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

// Source adapts the farmer repository to the FarmerSource port, so sessions
// start from whatever the call intake has recorded locally.
type Source struct {
	Repo ports.FarmerRepository
}

func (s Source) FetchFarmer(ctx context.Context, farmerID string) (farm.Farmer, error) {
	return s.Repo.GetByID(ctx, farmerID)
}
