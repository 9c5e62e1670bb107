package inmemory

import (
	"sync"

	"cropline/internal/domain/farm"
)

type Snapshot struct {
	CallsLogged         uint64            `json:"calls_logged"`
	CallsBySentiment    map[string]uint64 `json:"calls_by_sentiment"`
	ClassifierFallbacks uint64            `json:"classifier_fallbacks"`
	Failures            uint64            `json:"failures"`

	SessionsStarted   uint64 `json:"sessions_started"`
	SessionsCompleted uint64 `json:"sessions_completed"`
	FarmerFallbacks   uint64 `json:"farmer_fallbacks"`
	Incapacitations   uint64 `json:"incapacitations"`
}

// Recorder is a process-local counter set covering both the call intake
// path and the simulation sessions. It backs the /ops/kpi endpoint.
type Recorder struct {
	mu          sync.Mutex
	calls       uint64
	bySentiment map[string]uint64
	fallbacks   uint64
	failures    uint64

	sessionsStarted   uint64
	sessionsCompleted uint64
	farmerFallbacks   uint64
	incapacitations   uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		bySentiment: map[string]uint64{},
	}
}

func (r *Recorder) RecordCallLogged(sentiment farm.Sentiment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.bySentiment[string(sentiment)]++
}

func (r *Recorder) RecordClassifierFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) RecordSessionStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionsStarted++
}

func (r *Recorder) RecordSessionCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionsCompleted++
}

func (r *Recorder) RecordFarmerFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.farmerFallbacks++
}

func (r *Recorder) RecordIncapacitation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incapacitations++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CallsLogged:         r.calls,
		ClassifierFallbacks: r.fallbacks,
		Failures:            r.failures,
		SessionsStarted:     r.sessionsStarted,
		SessionsCompleted:   r.sessionsCompleted,
		FarmerFallbacks:     r.farmerFallbacks,
		Incapacitations:     r.incapacitations,
		CallsBySentiment:    make(map[string]uint64, len(r.bySentiment)),
	}
	for k, v := range r.bySentiment {
		out.CallsBySentiment[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
