package gormrepo

import (
	"context"
	"errors"

	"cropline/internal/adapter/repo/gorm/model"
	"cropline/internal/app/ports"

	"gorm.io/gorm"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return SessionRepo{db: db}
}

func (r SessionRepo) Create(ctx context.Context, record ports.SessionRecord) error {
	row := sessionToRow(record)
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r SessionRepo) Get(ctx context.Context, sessionID string) (ports.SessionRecord, error) {
	var row model.SimSession
	if err := getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SessionRecord{}, ports.ErrNotFound
		}
		return ports.SessionRecord{}, err
	}
	return sessionFromRow(row), nil
}

func (r SessionRepo) SaveWithVersion(ctx context.Context, record ports.SessionRecord, expectedVersion int64) error {
	updates := map[string]any{
		"status":          record.Status,
		"tasks_completed": int32(record.TasksCompleted),
		"all_complete":    record.AllComplete,
		"ended_at":        record.EndedAt,
		"version":         record.Version,
		"updated_at":      record.UpdatedAt,
	}

	res := getDBFromCtx(ctx, r.db).Model(&model.SimSession{}).
		Where("session_id = ? AND version = ?", record.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r SessionRepo) ListRecent(ctx context.Context, limit int) ([]ports.SessionRecord, error) {
	rows := []model.SimSession{}
	query := getDBFromCtx(ctx, r.db).Order("started_at DESC, session_id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.SessionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, sessionFromRow(row))
	}
	return out, nil
}

func sessionFromRow(row model.SimSession) ports.SessionRecord {
	return ports.SessionRecord{
		ID:             row.SessionID,
		FarmerID:       row.FarmerID,
		FarmerName:     row.FarmerName,
		UsedFallback:   row.UsedFallback,
		Status:         row.Status,
		TasksCompleted: int(row.TasksCompleted),
		AllComplete:    row.AllComplete,
		StartedAt:      row.StartedAt,
		EndedAt:        row.EndedAt,
		Version:        row.Version,
		UpdatedAt:      row.UpdatedAt,
	}
}

func sessionToRow(record ports.SessionRecord) model.SimSession {
	return model.SimSession{
		SessionID:      record.ID,
		FarmerID:       record.FarmerID,
		FarmerName:     record.FarmerName,
		UsedFallback:   record.UsedFallback,
		Status:         record.Status,
		TasksCompleted: int32(record.TasksCompleted),
		AllComplete:    record.AllComplete,
		StartedAt:      record.StartedAt,
		EndedAt:        record.EndedAt,
		Version:        record.Version,
		UpdatedAt:      record.UpdatedAt,
	}
}
