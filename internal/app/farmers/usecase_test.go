package farmers

import (
	"context"
	"errors"
	"testing"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubFarmerRepo struct {
	byID      map[string]farm.Farmer
	lastLimit int
}

func (r *stubFarmerRepo) GetByID(_ context.Context, farmerID string) (farm.Farmer, error) {
	farmer, ok := r.byID[farmerID]
	if !ok {
		return farm.Farmer{}, ports.ErrNotFound
	}
	return farmer, nil
}

func (r *stubFarmerRepo) List(_ context.Context, limit int) ([]farm.Farmer, error) {
	r.lastLimit = limit
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

type stubCallRepo struct {
	records   []farm.CallRecord
	lastQuery ports.CallQuery
}

func (r *stubCallRepo) Create(_ context.Context, record farm.CallRecord) error {
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

func newTestUseCase() (UseCase, *stubFarmerRepo, *stubCallRepo) {
	farmerRepo := &stubFarmerRepo{byID: map[string]farm.Farmer{}}
	callRepo := &stubCallRepo{}
	uc := UseCase{
		TxManager: stubTxManager{},
		Farmers:   farmerRepo,
		Calls:     callRepo,
		Now:       func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) },
	}
	return uc, farmerRepo, callRepo
}

func TestGet_ReturnsFarmerWithCallHistory(t *testing.T) {
	uc, farmerRepo, callRepo := newTestUseCase()
	farmerRepo.byID["F-0042"] = farm.Farmer{ID: "F-0042", Name: "Anita Deshmukh", Version: 1}
	callRepo.records = []farm.CallRecord{
		{ID: "call_1", FarmerID: "F-0042", Summary: "wants fertilizer"},
		{ID: "call_2", FarmerID: "F-0007", Summary: "other farmer"},
	}

	detail, err := uc.Get(context.Background(), "F-0042")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Farmer.Name != "Anita Deshmukh" {
		t.Fatalf("unexpected farmer: %+v", detail.Farmer)
	}
	if len(detail.RecentCalls) != 1 || detail.RecentCalls[0].ID != "call_1" {
		t.Fatalf("unexpected call history: %+v", detail.RecentCalls)
	}
	if callRepo.lastQuery.Limit != detailCallHistory {
		t.Fatalf("history limit = %d, want %d", callRepo.lastQuery.Limit, detailCallHistory)
	}
}

func TestGet_UnknownFarmer(t *testing.T) {
	uc, _, _ := newTestUseCase()

	if _, err := uc.Get(context.Background(), "F-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := uc.Get(context.Background(), "  "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("blank id: %v", err)
	}
}

func TestList_AppliesLimitBounds(t *testing.T) {
	uc, farmerRepo, _ := newTestUseCase()

	if _, err := uc.List(context.Background(), 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if farmerRepo.lastLimit != defaultListLimit {
		t.Fatalf("default limit = %d, want %d", farmerRepo.lastLimit, defaultListLimit)
	}
	if _, err := uc.List(context.Background(), 10000); err != nil {
		t.Fatalf("List: %v", err)
	}
	if farmerRepo.lastLimit != maxListLimit {
		t.Fatalf("capped limit = %d, want %d", farmerRepo.lastLimit, maxListLimit)
	}
}

func TestUpsert_CreatesNewFarmer(t *testing.T) {
	uc, farmerRepo, _ := newTestUseCase()

	created, err := uc.Upsert(context.Background(), UpsertRequest{
		FarmerID:      "F-0042",
		Name:          "Anita Deshmukh",
		FarmSizeAcres: 3.0,
		Needs:         &farm.Needs{Ploughing: true},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.Version != 1 || !created.Needs.Ploughing {
		t.Fatalf("unexpected created farmer: %+v", created)
	}
	if _, ok := farmerRepo.byID["F-0042"]; !ok {
		t.Fatal("farmer not stored")
	}
}

func TestUpsert_UpdatePreservesNeedsUnlessPinned(t *testing.T) {
	uc, farmerRepo, _ := newTestUseCase()
	farmerRepo.byID["F-0042"] = farm.Farmer{
		ID:            "F-0042",
		Name:          "Anita Deshmukh",
		FarmSizeAcres: 3.0,
		Needs:         farm.Needs{Fertilizer: true, Pesticide: true},
		CropIssues:    true,
		Version:       2,
	}

	updated, err := uc.Upsert(context.Background(), UpsertRequest{
		FarmerID:      "F-0042",
		FarmSizeAcres: 3.5,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if updated.FarmSizeAcres != 3.5 || updated.Name != "Anita Deshmukh" {
		t.Fatalf("profile fields wrong: %+v", updated)
	}
	if !updated.Needs.Fertilizer || !updated.Needs.Pesticide || !updated.CropIssues {
		t.Fatalf("needs should survive a profile edit: %+v", updated)
	}
	if updated.Version != 3 {
		t.Fatalf("version = %d, want 3", updated.Version)
	}

	cleared := false
	updated, err = uc.Upsert(context.Background(), UpsertRequest{
		FarmerID:   "F-0042",
		Needs:      &farm.Needs{},
		CropIssues: &cleared,
	})
	if err != nil {
		t.Fatalf("Upsert pin: %v", err)
	}
	if updated.Needs.Any() || updated.CropIssues {
		t.Fatalf("pinned needs not applied: %+v", updated)
	}
}

func TestUpsert_Validation(t *testing.T) {
	uc, _, _ := newTestUseCase()

	cases := []UpsertRequest{
		{},
		{FarmerID: "F-0042", FarmSizeAcres: -1},
		{FarmerID: "F-0042"}, // create without a name
	}
	for _, req := range cases {
		if _, err := uc.Upsert(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("request %+v: %v", req, err)
		}
	}
}
