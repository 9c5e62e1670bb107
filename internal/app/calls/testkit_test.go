package calls

import (
	"context"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubCallRepo struct {
	records   []farm.CallRecord
	createErr error
	lastQuery ports.CallQuery
}

func (r *stubCallRepo) Create(_ context.Context, record farm.CallRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *stubCallRepo) List(_ context.Context, query ports.CallQuery) ([]farm.CallRecord, error) {
	r.lastQuery = query
	out := make([]farm.CallRecord, 0, len(r.records))
	for _, record := range r.records {
		if query.FarmerID != "" && record.FarmerID != query.FarmerID {
			continue
		}
		out = append(out, record)
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

type stubFarmerRepo struct {
	byID map[string]farm.Farmer
}

func (r *stubFarmerRepo) GetByID(_ context.Context, farmerID string) (farm.Farmer, error) {
	farmer, ok := r.byID[farmerID]
	if !ok {
		return farm.Farmer{}, ports.ErrNotFound
	}
	return farmer, nil
}

func (r *stubFarmerRepo) List(_ context.Context, limit int) ([]farm.Farmer, error) {
	out := make([]farm.Farmer, 0, len(r.byID))
	for _, farmer := range r.byID {
		out = append(out, farmer)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubFarmerRepo) Create(_ context.Context, farmer farm.Farmer) error {
	if _, ok := r.byID[farmer.ID]; ok {
		return ports.ErrConflict
	}
	r.byID[farmer.ID] = farmer
	return nil
}

func (r *stubFarmerRepo) SaveWithVersion(_ context.Context, farmer farm.Farmer, expectedVersion int64) error {
	current, ok := r.byID[farmer.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[farmer.ID] = farmer
	return nil
}

type stubClassifier struct {
	cls   farm.Classification
	err   error
	calls int
}

func (c *stubClassifier) Classify(context.Context, string) (farm.Classification, error) {
	c.calls++
	if c.err != nil {
		return farm.Classification{}, c.err
	}
	return c.cls, nil
}

type stubIntakeMetrics struct {
	logged    map[farm.Sentiment]int
	fallbacks int
	failures  int
}

func (m *stubIntakeMetrics) RecordCallLogged(sentiment farm.Sentiment) {
	if m.logged == nil {
		m.logged = map[farm.Sentiment]int{}
	}
	m.logged[sentiment]++
}

func (m *stubIntakeMetrics) RecordClassifierFallback() { m.fallbacks++ }
func (m *stubIntakeMetrics) RecordFailure()            { m.failures++ }
