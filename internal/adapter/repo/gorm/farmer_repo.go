package gormrepo

import (
	"context"
	"errors"

	"cropline/internal/adapter/repo/gorm/model"
	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"

	"gorm.io/gorm"
)

type FarmerRepo struct {
	db *gorm.DB
}

func NewFarmerRepo(db *gorm.DB) FarmerRepo {
	return FarmerRepo{db: db}
}

func (r FarmerRepo) GetByID(ctx context.Context, farmerID string) (farm.Farmer, error) {
	var row model.Farmer
	if err := getDBFromCtx(ctx, r.db).Where("farmer_id = ?", farmerID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return farm.Farmer{}, ports.ErrNotFound
		}
		return farm.Farmer{}, err
	}
	return farmerFromRow(row), nil
}

func (r FarmerRepo) List(ctx context.Context, limit int) ([]farm.Farmer, error) {
	rows := []model.Farmer{}
	query := getDBFromCtx(ctx, r.db).Order("farmer_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]farm.Farmer, 0, len(rows))
	for _, row := range rows {
		out = append(out, farmerFromRow(row))
	}
	return out, nil
}

func (r FarmerRepo) Create(ctx context.Context, farmer farm.Farmer) error {
	row := farmerToRow(farmer)
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r FarmerRepo) SaveWithVersion(ctx context.Context, farmer farm.Farmer, expectedVersion int64) error {
	updates := map[string]any{
		"name":             farmer.Name,
		"farm_size_acres":  farmer.FarmSizeAcres,
		"needs_fertilizer": farmer.Needs.Fertilizer,
		"needs_seed_cane":  farmer.Needs.SeedCane,
		"needs_harvesting": farmer.Needs.Harvesting,
		"needs_ploughing":  farmer.Needs.Ploughing,
		"needs_pesticide":  farmer.Needs.Pesticide,
		"has_crop_issues":  farmer.CropIssues,
		"version":          farmer.Version,
		"updated_at":       farmer.UpdatedAt,
	}

	res := getDBFromCtx(ctx, r.db).Model(&model.Farmer{}).
		Where("farmer_id = ? AND version = ?", farmer.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func farmerFromRow(row model.Farmer) farm.Farmer {
	return farm.Farmer{
		ID:            row.FarmerID,
		Name:          row.Name,
		FarmSizeAcres: row.FarmSizeAcres,
		Needs: farm.Needs{
			Fertilizer: row.NeedsFertilizer,
			SeedCane:   row.NeedsSeedCane,
			Harvesting: row.NeedsHarvesting,
			Ploughing:  row.NeedsPloughing,
			Pesticide:  row.NeedsPesticide,
		},
		CropIssues: row.HasCropIssues,
		Version:    row.Version,
		UpdatedAt:  row.UpdatedAt,
	}
}

func farmerToRow(farmer farm.Farmer) model.Farmer {
	return model.Farmer{
		FarmerID:        farmer.ID,
		Name:            farmer.Name,
		FarmSizeAcres:   farmer.FarmSizeAcres,
		NeedsFertilizer: farmer.Needs.Fertilizer,
		NeedsSeedCane:   farmer.Needs.SeedCane,
		NeedsHarvesting: farmer.Needs.Harvesting,
		NeedsPloughing:  farmer.Needs.Ploughing,
		NeedsPesticide:  farmer.Needs.Pesticide,
		HasCropIssues:   farmer.CropIssues,
		Version:         farmer.Version,
		UpdatedAt:       farmer.UpdatedAt,
	}
}
