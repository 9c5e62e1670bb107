package farmers

import (
	"context"
	"errors"
	"strings"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid farmer request")

const (
	defaultListLimit  = 100
	maxListLimit      = 500
	detailCallHistory = 10
)

type Detail struct {
	Farmer      farm.Farmer       `json:"farmer"`
	RecentCalls []farm.CallRecord `json:"recent_calls"`
}

type UpsertRequest struct {
	FarmerID      string      `json:"farmer_id"`
	Name          string      `json:"farmer_name"`
	FarmSizeAcres float64     `json:"farm_size_acres"`
	Needs         *farm.Needs `json:"needs,omitempty"`
	CropIssues    *bool       `json:"has_crop_issues,omitempty"`
}

// UseCase is the farmer registry: the directory operators browse, the detail
// view behind a call, and profile edits. Needs normally move through calls
// and the simulator; Upsert can still pin them directly for corrections.
type UseCase struct {
	TxManager ports.TxManager
	Farmers   ports.FarmerRepository
	Calls     ports.CallRepository
	Now       func() time.Time
}

func (u UseCase) Get(ctx context.Context, farmerID string) (Detail, error) {
	if strings.TrimSpace(farmerID) == "" {
		return Detail{}, ErrInvalidRequest
	}
	farmer, err := u.Farmers.GetByID(ctx, farmerID)
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Farmer: farmer}
	if u.Calls != nil {
		calls, err := u.Calls.List(ctx, ports.CallQuery{FarmerID: farmerID, Limit: detailCallHistory})
		if err != nil {
			return Detail{}, err
		}
		detail.RecentCalls = calls
	}
	return detail, nil
}

func (u UseCase) List(ctx context.Context, limit int) ([]farm.Farmer, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return u.Farmers.List(ctx, limit)
}

// Upsert creates or updates a profile. On update the stored needs survive
// unless the request pins them explicitly.
func (u UseCase) Upsert(ctx context.Context, req UpsertRequest) (farm.Farmer, error) {
	req.FarmerID = strings.TrimSpace(req.FarmerID)
	req.Name = strings.TrimSpace(req.Name)
	if req.FarmerID == "" || req.FarmSizeAcres < 0 {
		return farm.Farmer{}, ErrInvalidRequest
	}
	now := u.now()

	var out farm.Farmer
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		farmer, err := u.Farmers.GetByID(txCtx, req.FarmerID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			if req.Name == "" {
				return ErrInvalidRequest
			}
			farmer = farm.Farmer{
				ID:            req.FarmerID,
				Name:          req.Name,
				FarmSizeAcres: req.FarmSizeAcres,
				Version:       1,
				UpdatedAt:     now,
			}
			if req.Needs != nil {
				farmer.Needs = *req.Needs
			}
			if req.CropIssues != nil {
				farmer.CropIssues = *req.CropIssues
			}
			out = farmer
			return u.Farmers.Create(txCtx, farmer)
		case err != nil:
			return err
		}

		expected := farmer.Version
		if req.Name != "" {
			farmer.Name = req.Name
		}
		if req.FarmSizeAcres > 0 {
			farmer.FarmSizeAcres = req.FarmSizeAcres
		}
		if req.Needs != nil {
			farmer.Needs = *req.Needs
		}
		if req.CropIssues != nil {
			farmer.CropIssues = *req.CropIssues
		}
		farmer.Version = expected + 1
		farmer.UpdatedAt = now
		out = farmer
		return u.Farmers.SaveWithVersion(txCtx, farmer, expected)
	})
	if err != nil {
		return farm.Farmer{}, err
	}
	return out, nil
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
