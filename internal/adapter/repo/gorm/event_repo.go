package gormrepo

import (
	"context"
	"encoding/json"

	"cropline/internal/adapter/repo/gorm/model"
	"cropline/internal/app/ports"
	"cropline/internal/domain/sim"

	"gorm.io/gorm"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.SimEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.SimEvent{
			SessionID:  sessionID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListBySessionID returns the session's timeline oldest first, the order the
// replay fold expects. Every session logs its start, so an empty result
// means the session does not exist.
func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]sim.Event, error) {
	rows := []model.SimEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("occurred_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]sim.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, sim.Event{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
