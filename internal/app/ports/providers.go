package ports

import (
	"context"

	"cropline/internal/domain/farm"
)

// FarmerSource yields the farmer snapshot a simulation run starts from.
// Implementations may sit on the local repository or a remote API; callers
// treat any error as recoverable and fall back to the default farmer.
type FarmerSource interface {
	FetchFarmer(ctx context.Context, farmerID string) (farm.Farmer, error)
}

type NeedsClassifier interface {
	Classify(ctx context.Context, transcript string) (farm.Classification, error)
}
