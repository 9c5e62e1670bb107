package session

import (
	"context"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubSessionRepo struct {
	byID map[string]ports.SessionRecord
}

func (r *stubSessionRepo) Create(_ context.Context, record ports.SessionRecord) error {
	if _, ok := r.byID[record.ID]; ok {
		return ports.ErrConflict
	}
	r.byID[record.ID] = record
	return nil
}

func (r *stubSessionRepo) Get(_ context.Context, sessionID string) (ports.SessionRecord, error) {
	record, ok := r.byID[sessionID]
	if !ok {
		return ports.SessionRecord{}, ports.ErrNotFound
	}
	return record, nil
}

func (r *stubSessionRepo) SaveWithVersion(_ context.Context, record ports.SessionRecord, expectedVersion int64) error {
	current, ok := r.byID[record.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[record.ID] = record
	return nil
}

func (r *stubSessionRepo) ListRecent(_ context.Context, limit int) ([]ports.SessionRecord, error) {
	out := make([]ports.SessionRecord, 0, len(r.byID))
	for _, record := range r.byID {
		out = append(out, record)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubEventRepo struct {
	bySession map[string][]sim.Event
}

func (r *stubEventRepo) Append(_ context.Context, sessionID string, events []sim.Event) error {
	r.bySession[sessionID] = append(r.bySession[sessionID], events...)
	return nil
}

func (r *stubEventRepo) ListBySessionID(_ context.Context, sessionID string, limit int) ([]sim.Event, error) {
	events := r.bySession[sessionID]
	if limit <= 0 || limit > len(events) {
		limit = len(events)
	}
	out := make([]sim.Event, limit)
	copy(out, events[:limit])
	return out, nil
}

type stubFarmerSource struct {
	byID map[string]farm.Farmer
	err  error
}

func (s *stubFarmerSource) FetchFarmer(_ context.Context, farmerID string) (farm.Farmer, error) {
	if s.err != nil {
		return farm.Farmer{}, s.err
	}
	farmer, ok := s.byID[farmerID]
	if !ok {
		return farm.Farmer{}, ports.ErrNotFound
	}
	return farmer, nil
}

type stubSimMetrics struct {
	started        int
	completed      int
	fallbacks      int
	incapacitation int
}

func (m *stubSimMetrics) RecordSessionStarted()   { m.started++ }
func (m *stubSimMetrics) RecordSessionCompleted() { m.completed++ }
func (m *stubSimMetrics) RecordFarmerFallback()   { m.fallbacks++ }
func (m *stubSimMetrics) RecordIncapacitation()   { m.incapacitation++ }
