package calls

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

var (
	ErrInvalidRequest  = errors.New("invalid call request")
	ErrEmptyTranscript = errors.New("empty transcript")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type LogRequest struct {
	FarmerID        string `json:"farmer_id"`
	FarmerName      string `json:"farmer_name"`
	Transcript      string `json:"transcript"`
	DurationSeconds int    `json:"duration_seconds"`
}

type LogResponse struct {
	Call          farm.CallRecord `json:"call"`
	FarmerCreated bool            `json:"farmer_created"`
	UsedFallback  bool            `json:"used_fallback_classifier"`
}

// UseCase turns a finished call into durable intake state: the transcript is
// classified, the call is stored, and the linked farmer's needs are raised to
// match what the caller asked for. Needs only ever accumulate here; clearing
// them is the simulator's job.
type UseCase struct {
	TxManager  ports.TxManager
	Calls      ports.CallRepository
	Farmers    ports.FarmerRepository
	Classifier ports.NeedsClassifier
	Fallback   ports.NeedsClassifier
	Metrics    ports.IntakeMetrics
	Now        func() time.Time
}

func (u UseCase) Log(ctx context.Context, req LogRequest) (LogResponse, error) {
	if u.TxManager == nil || u.Calls == nil {
		return LogResponse{}, ErrInvalidRequest
	}
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return LogResponse{}, ErrEmptyTranscript
	}
	if req.DurationSeconds < 0 {
		return LogResponse{}, ErrInvalidRequest
	}
	now := u.now()

	cls, usedFallback := u.classify(ctx, transcript)

	callID, err := newCallID(now)
	if err != nil {
		return LogResponse{}, err
	}
	record := farm.CallRecord{
		ID:              callID,
		FarmerID:        strings.TrimSpace(req.FarmerID),
		FarmerName:      strings.TrimSpace(req.FarmerName),
		Transcript:      transcript,
		Summary:         cls.Summary,
		Sentiment:       cls.Sentiment,
		Needs:           cls.Needs,
		CropIssues:      cls.CropIssues,
		DurationSeconds: req.DurationSeconds,
		ReceivedAt:      now,
	}

	var farmerCreated bool
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if record.FarmerID != "" && u.Farmers != nil {
			created, name, err := u.applyToFarmer(txCtx, record, cls, now)
			if err != nil {
				return err
			}
			farmerCreated = created
			if record.FarmerName == "" {
				record.FarmerName = name
			}
		}
		return u.Calls.Create(txCtx, record)
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordFailure()
		}
		return LogResponse{}, err
	}

	if u.Metrics != nil {
		u.Metrics.RecordCallLogged(record.Sentiment)
	}
	return LogResponse{Call: record, FarmerCreated: farmerCreated, UsedFallback: usedFallback}, nil
}

// classify runs the primary classifier and falls back to the secondary when
// it fails. With neither available the call is still logged, tagged neutral
// with no needs raised.
func (u UseCase) classify(ctx context.Context, transcript string) (farm.Classification, bool) {
	if u.Classifier != nil {
		cls, err := u.Classifier.Classify(ctx, transcript)
		if err == nil {
			return cls.Normalized(), false
		}
		log.Printf("calls: primary classifier failed, using fallback: %v", err)
	}
	if u.Metrics != nil {
		u.Metrics.RecordClassifierFallback()
	}
	if u.Fallback != nil {
		cls, err := u.Fallback.Classify(ctx, transcript)
		if err == nil {
			return cls.Normalized(), true
		}
		log.Printf("calls: fallback classifier failed: %v", err)
	}
	return farm.Classification{Sentiment: farm.SentimentNeutral}, true
}

// applyToFarmer merges the classification into the farmer the call is linked
// to, creating the record first if this is the farmer's first call.
func (u UseCase) applyToFarmer(ctx context.Context, record farm.CallRecord, cls farm.Classification, now time.Time) (bool, string, error) {
	farmer, err := u.Farmers.GetByID(ctx, record.FarmerID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		farmer = farm.Farmer{
			ID:         record.FarmerID,
			Name:       record.FarmerName,
			Needs:      cls.Needs,
			CropIssues: cls.CropIssues,
			Version:    1,
			UpdatedAt:  now,
		}
		if farmer.Name == "" {
			farmer.Name = "Farmer " + record.FarmerID
		}
		return true, farmer.Name, u.Farmers.Create(ctx, farmer)
	case err != nil:
		return false, "", err
	}

	expected := farmer.Version
	farmer.MergeClassification(cls)
	farmer.Version = expected + 1
	farmer.UpdatedAt = now
	if err := u.Farmers.SaveWithVersion(ctx, farmer, expected); err != nil {
		return false, "", err
	}
	return false, farmer.Name, nil
}

func (u UseCase) List(ctx context.Context, query ports.CallQuery) ([]farm.CallRecord, error) {
	if u.Calls == nil {
		return nil, ErrInvalidRequest
	}
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}
	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	return u.Calls.List(ctx, query)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func newCallID(now time.Time) (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "call_" + now.UTC().Format("20060102") + "_" + base64.RawURLEncoding.EncodeToString(b), nil
}
