package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"sync"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/app/simview"
	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

var ErrInvalidRequest = errors.New("invalid session request")

const defaultTickInterval = 100 * time.Millisecond

type StartRequest struct {
	FarmerID string `json:"farmer_id"`
}

// Manager owns every live simulation. Handlers feed inputs in, the Run loop
// advances engines between requests, and watchers receive a fresh view after
// every change. Each session is serialized by its own lock; the engine itself
// is never touched concurrently.
type Manager struct {
	Farmers      ports.FarmerSource
	Sessions     ports.SessionRepository
	Events       ports.EventRepository
	TxManager    ports.TxManager
	Metrics      ports.SimMetrics
	Cfg          sim.Config
	Clock        sim.Clock
	TickInterval time.Duration

	mu   sync.Mutex
	live map[string]*liveSession
}

type liveSession struct {
	mu       sync.Mutex
	record   ports.SessionRecord
	engine   *sim.Engine
	watchers map[chan simview.View]struct{}
	closed   bool
}

func (m *Manager) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock.Now()
}

func (m *Manager) Start(ctx context.Context, req StartRequest) (simview.View, error) {
	if m.Sessions == nil || m.Events == nil || m.TxManager == nil {
		return simview.View{}, ErrInvalidRequest
	}
	now := m.now()
	farmer, usedFallback := m.resolveFarmer(ctx, req.FarmerID)

	sessionID, err := newSessionID(now)
	if err != nil {
		return simview.View{}, err
	}

	engine := sim.NewEngine(m.Cfg, farmer, now)
	record := ports.SessionRecord{
		ID:           sessionID,
		FarmerID:     farmer.ID,
		FarmerName:   farmer.Name,
		UsedFallback: usedFallback,
		Status:       ports.SessionStatusActive,
		StartedAt:    now,
		Version:      1,
		UpdatedAt:    now,
	}

	events := []sim.Event{{
		Type:       sim.EventSessionStarted,
		OccurredAt: now,
		Payload:    map[string]any{"farmer_id": farmer.ID, "farmer_name": farmer.Name},
	}}
	if usedFallback {
		events = append(events, sim.Event{
			Type:       sim.EventFarmerFallbackUsed,
			OccurredAt: now,
			Payload:    map[string]any{"requested_id": req.FarmerID},
		})
	}

	err = m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := m.Sessions.Create(txCtx, record); err != nil {
			return err
		}
		return m.Events.Append(txCtx, sessionID, events)
	})
	if err != nil {
		return simview.View{}, err
	}

	ls := &liveSession{
		record:   record,
		engine:   engine,
		watchers: map[chan simview.View]struct{}{},
	}
	m.mu.Lock()
	if m.live == nil {
		m.live = map[string]*liveSession{}
	}
	m.live[sessionID] = ls
	m.mu.Unlock()

	if m.Metrics != nil {
		m.Metrics.RecordSessionStarted()
		if usedFallback {
			m.Metrics.RecordFarmerFallback()
		}
	}
	return m.buildView(ls, now), nil
}

// resolveFarmer fetches the requested farmer. Fetch failure is recovered
// with the default farmer so the simulation always starts; an empty id asks
// for the default directly and is not counted as a fallback.
func (m *Manager) resolveFarmer(ctx context.Context, farmerID string) (farm.Farmer, bool) {
	if farmerID == "" || m.Farmers == nil {
		return farm.DefaultFarmer(), false
	}
	farmer, err := m.Farmers.FetchFarmer(ctx, farmerID)
	if err != nil {
		log.Printf("session: farmer fetch failed for %s, using default: %v", farmerID, err)
		return farm.DefaultFarmer(), true
	}
	return farmer, false
}

func (m *Manager) Input(ctx context.Context, sessionID string, in sim.Input) (simview.View, error) {
	ls, err := m.get(sessionID)
	if err != nil {
		return simview.View{}, err
	}
	now := m.now()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return simview.View{}, ports.ErrSessionClosed
	}
	// Catch up overdue timers before the input lands, then apply.
	evs := ls.engine.Advance(now)
	evs = append(evs, ls.engine.Apply(in, now)...)
	m.persistProgress(ctx, ls, evs)
	view := m.buildView(ls, now)
	m.broadcastLocked(ls, view)
	return view, nil
}

func (m *Manager) View(ctx context.Context, sessionID string) (simview.View, error) {
	ls, err := m.get(sessionID)
	if err != nil {
		return simview.View{}, err
	}
	now := m.now()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return simview.View{}, ports.ErrSessionClosed
	}
	evs := ls.engine.Advance(now)
	m.persistProgress(ctx, ls, evs)
	return m.buildView(ls, now), nil
}

// Reset starts the run over. The farmer record is re-fetched so needs raised
// by calls since the session began are picked up; on failure the engine keeps
// the snapshot it already holds.
func (m *Manager) Reset(ctx context.Context, sessionID string) (simview.View, error) {
	ls, err := m.get(sessionID)
	if err != nil {
		return simview.View{}, err
	}
	now := m.now()

	var fresh farm.Farmer
	if m.Farmers != nil {
		if f, ferr := m.Farmers.FetchFarmer(ctx, ls.record.FarmerID); ferr == nil {
			fresh = f
		}
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return simview.View{}, ports.ErrSessionClosed
	}
	evs := ls.engine.Reset(fresh, now)
	m.persistProgress(ctx, ls, evs)
	view := m.buildView(ls, now)
	m.broadcastLocked(ls, view)
	return view, nil
}

func (m *Manager) Close(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	ls, ok := m.live[sessionID]
	if ok {
		delete(m.live, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return ports.ErrNotFound
	}
	now := m.now()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.closed = true
	for ch := range ls.watchers {
		delete(ls.watchers, ch)
		close(ch)
	}

	evs := append(ls.engine.Advance(now), sim.Event{
		Type:       sim.EventSessionClosed,
		OccurredAt: now,
		Payload:    map[string]any{"tasks_completed": ls.record.TasksCompleted},
	})
	updated := ls.record
	updated.Status = ports.SessionStatusClosed
	updated.EndedAt = &now
	updated.UpdatedAt = now
	updated.Version++
	err := m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := m.Events.Append(txCtx, ls.record.ID, evs); err != nil {
			return err
		}
		return m.Sessions.SaveWithVersion(txCtx, updated, ls.record.Version)
	})
	if err != nil {
		return err
	}
	ls.record = updated
	return nil
}

// Watch subscribes to view pushes for one session. The returned cancel is
// safe to call after the session closed.
func (m *Manager) Watch(sessionID string) (<-chan simview.View, func(), error) {
	ls, err := m.get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan simview.View, 16)
	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return nil, nil, ports.ErrSessionClosed
	}
	ls.watchers[ch] = struct{}{}
	ch <- m.buildView(ls, m.now())
	ls.mu.Unlock()

	cancel := func() {
		ls.mu.Lock()
		if _, ok := ls.watchers[ch]; ok {
			delete(ls.watchers, ch)
			close(ch)
		}
		ls.mu.Unlock()
	}
	return ch, cancel, nil
}

// Run is the owner loop: it advances every live engine on a fixed cadence
// until ctx is canceled, persisting and broadcasting whatever fires.
func (m *Manager) Run(ctx context.Context) {
	interval := m.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Manager) tick(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*liveSession, 0, len(m.live))
	for _, ls := range m.live {
		sessions = append(sessions, ls)
	}
	m.mu.Unlock()

	now := m.now()
	for _, ls := range sessions {
		ls.mu.Lock()
		if ls.closed {
			ls.mu.Unlock()
			continue
		}
		if evs := ls.engine.Advance(now); len(evs) > 0 {
			m.persistProgress(ctx, ls, evs)
			m.broadcastLocked(ls, m.buildView(ls, now))
		}
		ls.mu.Unlock()
	}
}

// persistProgress appends events and folds completion milestones into the
// session record. Persistence failure is logged, never surfaced: the
// simulation stays interactive without its store.
func (m *Manager) persistProgress(ctx context.Context, ls *liveSession, evs []sim.Event) {
	if len(evs) == 0 || m.TxManager == nil {
		return
	}
	changed := false
	record := ls.record
	for _, ev := range evs {
		switch ev.Type {
		case sim.EventTaskCompleted:
			record.TasksCompleted++
			changed = true
		case sim.EventAllTasksComplete:
			record.AllComplete = true
			changed = true
			if m.Metrics != nil {
				m.Metrics.RecordSessionCompleted()
			}
		case sim.EventSessionReset:
			record.TasksCompleted = 0
			record.AllComplete = false
			changed = true
		case sim.EventIncapacitated:
			if m.Metrics != nil {
				m.Metrics.RecordIncapacitation()
			}
		}
	}

	err := m.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := m.Events.Append(txCtx, ls.record.ID, evs); err != nil {
			return err
		}
		if !changed {
			return nil
		}
		expected := ls.record.Version
		record.Version = expected + 1
		record.UpdatedAt = m.now()
		return m.Sessions.SaveWithVersion(txCtx, record, expected)
	})
	if err != nil {
		log.Printf("session %s: persist failed: %v", ls.record.ID, err)
		return
	}
	if changed {
		ls.record = record
	}
}

func (m *Manager) buildView(ls *liveSession, now time.Time) simview.View {
	return simview.Build(ls.record.ID, ls.record.UsedFallback, ls.engine.Snapshot(), ls.engine.Config(), now)
}

// broadcastLocked pushes a view to every watcher, dropping for slow ones
// rather than blocking the session.
func (m *Manager) broadcastLocked(ls *liveSession, view simview.View) {
	for ch := range ls.watchers {
		select {
		case ch <- view:
		default:
		}
	}
}

func (m *Manager) get(sessionID string) (*liveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.live[sessionID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return ls, nil
}

func newSessionID(now time.Time) (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sim_" + now.UTC().Format("20060102") + "_" + base64.RawURLEncoding.EncodeToString(b), nil
}
