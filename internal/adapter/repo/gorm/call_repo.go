package gormrepo

import (
	"context"

	"cropline/internal/adapter/repo/gorm/model"
	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"

	"gorm.io/gorm"
)

type CallRepo struct {
	db *gorm.DB
}

func NewCallRepo(db *gorm.DB) CallRepo {
	return CallRepo{db: db}
}

func (r CallRepo) Create(ctx context.Context, record farm.CallRecord) error {
	row := model.CallLog{
		CallID:          record.ID,
		FarmerID:        record.FarmerID,
		FarmerName:      record.FarmerName,
		Transcript:      record.Transcript,
		Summary:         record.Summary,
		Sentiment:       string(record.Sentiment),
		NeedsFertilizer: record.Needs.Fertilizer,
		NeedsSeedCane:   record.Needs.SeedCane,
		NeedsHarvesting: record.Needs.Harvesting,
		NeedsPloughing:  record.Needs.Ploughing,
		NeedsPesticide:  record.Needs.Pesticide,
		HasCropIssues:   record.CropIssues,
		DurationSeconds: int32(record.DurationSeconds),
		ReceivedAt:      record.ReceivedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r CallRepo) List(ctx context.Context, query ports.CallQuery) ([]farm.CallRecord, error) {
	rows := []model.CallLog{}
	q := getDBFromCtx(ctx, r.db).Order("received_at DESC, call_id DESC")
	if query.FarmerID != "" {
		q = q.Where("farmer_id = ?", query.FarmerID)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]farm.CallRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, farm.CallRecord{
			ID:         row.CallID,
			FarmerID:   row.FarmerID,
			FarmerName: row.FarmerName,
			Transcript: row.Transcript,
			Summary:    row.Summary,
			Sentiment:  farm.Sentiment(row.Sentiment),
			Needs: farm.Needs{
				Fertilizer: row.NeedsFertilizer,
				SeedCane:   row.NeedsSeedCane,
				Harvesting: row.NeedsHarvesting,
				Ploughing:  row.NeedsPloughing,
				Pesticide:  row.NeedsPesticide,
			},
			CropIssues:      row.HasCropIssues,
			DurationSeconds: int(row.DurationSeconds),
			ReceivedAt:      row.ReceivedAt,
		})
	}
	return out, nil
}
