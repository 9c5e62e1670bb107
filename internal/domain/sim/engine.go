package sim

import (
	"time"

	"cropline/internal/domain/farm"
)

type VitalityState string

const (
	VitalitySafe          VitalityState = "safe"
	VitalityExposed       VitalityState = "exposed"
	VitalityIncapacitated VitalityState = "incapacitated"
	VitalityRecovering    VitalityState = "recovering"
)

type timerKind string

const (
	timerTapMove       timerKind = "tap_move"
	timerAction        timerKind = "action"
	timerHazard        timerKind = "hazard"
	timerRecoveryLift  timerKind = "recovery_lift"
	timerRecoveryClear timerKind = "recovery_clear"
	timerHarvestAnim   timerKind = "harvest_anim"
)

// firingOrder fixes the processing order when several deadlines fall inside
// one advance window: movement settles before activity completion, hazard
// before recovery.
var firingOrder = []timerKind{
	timerTapMove,
	timerAction,
	timerHazard,
	timerRecoveryLift,
	timerRecoveryClear,
	timerHarvestAnim,
}

type TaskStatus struct {
	ID     farm.TaskID `json:"task_id"`
	Label  string      `json:"label"`
	Needed bool        `json:"needed"`
}

type ActivityInfo struct {
	TaskID farm.TaskID `json:"task_id"`
	EndAt  time.Time   `json:"end_at"`
}

type Snapshot struct {
	Farmer           farm.Farmer   `json:"farmer"`
	Needs            farm.Needs    `json:"needs"`
	CropIssues       bool          `json:"has_crop_issues"`
	Avatar           Avatar        `json:"avatar"`
	Vitality         VitalityState `json:"vitality"`
	KnockedOut       bool          `json:"knocked_out"`
	InHazard         bool          `json:"in_hazard"`
	Tasks            []TaskStatus  `json:"tasks"`
	SelectedTask     farm.TaskID   `json:"selected_task,omitempty"`
	Activity         *ActivityInfo `json:"activity,omitempty"`
	AllComplete      bool          `json:"all_complete"`
	Celebrating      bool          `json:"celebrating"`
	HarvestAnimation bool          `json:"harvest_animation"`
	StartedAt        time.Time     `json:"started_at"`
}

// Engine is the farm activity state machine: avatar movement on a clamped
// grid, hazard exposure and recovery, and timed task completion. All timing
// flows through the now values handed to Apply and Advance; the engine never
// reads the wall clock and runs no goroutines. It is not safe for concurrent
// use, a session's owner loop serializes access.
type Engine struct {
	cfg  Config
	base farm.Farmer

	needs      farm.Needs
	cropIssues bool
	avatar     Avatar
	vitality   VitalityState
	knockedOut bool
	inHazard   bool

	selected    farm.TaskID
	activity    farm.TaskID
	allComplete bool
	celebrating bool
	harvestAnim bool

	timers    map[timerKind]time.Time
	startedAt time.Time
}

func NewEngine(cfg Config, farmer farm.Farmer, now time.Time) *Engine {
	e := &Engine{cfg: cfg.WithDefaults(), base: farmer}
	e.init(now)
	return e
}

func (e *Engine) init(now time.Time) {
	e.needs = e.base.Needs
	e.cropIssues = e.base.CropIssues
	e.avatar = Avatar{Position: e.cfg.Start, Facing: DirDown}
	e.vitality = VitalitySafe
	e.knockedOut = false
	e.inHazard = false
	e.selected = ""
	e.activity = ""
	e.allComplete = !e.needs.Any()
	e.celebrating = false
	e.harvestAnim = false
	e.timers = map[timerKind]time.Time{}
	e.startedAt = now
}

// Reset starts a fresh run. A farmer with a non-empty ID replaces the stored
// snapshot, the zero value reuses the one the engine was built with.
func (e *Engine) Reset(farmer farm.Farmer, now time.Time) []Event {
	if farmer.ID != "" {
		e.base = farmer
	}
	e.init(now)
	return []Event{newEvent(EventSessionReset, now, map[string]any{"farmer_id": e.base.ID})}
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Farmer:           e.base,
		Needs:            e.needs,
		CropIssues:       e.cropIssues,
		Avatar:           e.avatar,
		Vitality:         e.vitality,
		KnockedOut:       e.knockedOut,
		InHazard:         e.inHazard,
		SelectedTask:     e.selected,
		AllComplete:      e.allComplete,
		Celebrating:      e.celebrating,
		HarvestAnimation: e.harvestAnim,
		StartedAt:        e.startedAt,
	}
	for _, id := range farm.TaskOrder() {
		s.Tasks = append(s.Tasks, TaskStatus{ID: id, Label: id.Label(), Needed: e.needs.Of(id)})
	}
	if e.activity != "" {
		end, _ := e.deadline(timerAction)
		s.Activity = &ActivityInfo{TaskID: e.activity, EndAt: end}
	}
	return s
}

// Apply feeds one input event into the machine and returns the domain events
// it produced. Blocked inputs are silent no-ops returning nil.
func (e *Engine) Apply(in Input, now time.Time) []Event {
	var evs []Event
	switch in.Type {
	case InputMoveStart:
		if e.activity != "" || !in.Direction.Valid() {
			return nil
		}
		e.cancel(timerTapMove)
		e.step(in.Direction)
		e.avatar.Moving = true
	case InputMoveStop:
		// Key-up is honored even mid-activity so a release during the lock
		// cannot wedge the moving flag.
		e.cancel(timerTapMove)
		e.avatar.Moving = false
	case InputMoveTap:
		if e.activity != "" || !in.Direction.Valid() {
			return nil
		}
		e.step(in.Direction)
		e.avatar.Moving = true
		e.arm(timerTapMove, now.Add(e.cfg.TapMoveDuration))
	case InputSelectTask:
		if !in.TaskID.Valid() {
			return nil
		}
		if e.selected == in.TaskID {
			e.selected = ""
		} else {
			e.selected = in.TaskID
		}
		evs = append(evs, newEvent(EventTaskSelected, now, map[string]any{
			"task_id":  string(in.TaskID),
			"selected": e.selected != "",
		}))
	case InputPerformAction:
		if e.selected == "" || e.knockedOut || e.activity != "" {
			return nil
		}
		e.activity = e.selected
		e.arm(timerAction, now.Add(e.cfg.ActionDuration))
		evs = append(evs, newEvent(EventTaskStarted, now, map[string]any{
			"task_id": string(e.activity),
			"end_at":  e.timers[timerAction],
		}))
	default:
		return nil
	}
	return e.settle(now, evs)
}

// Advance fires every timer whose deadline has passed and settles the
// vitality machine. Chained timers deadline off the firing they follow, so a
// single late call catches up the whole sequence deterministically.
func (e *Engine) Advance(now time.Time) []Event {
	var evs []Event
	for fired := true; fired; {
		fired = false
		for _, k := range firingOrder {
			at, ok := e.timers[k]
			if !ok || now.Before(at) {
				continue
			}
			delete(e.timers, k)
			evs = e.fire(k, at, evs)
			fired = true
		}
	}
	return e.settle(now, evs)
}

func (e *Engine) fire(k timerKind, at time.Time, evs []Event) []Event {
	switch k {
	case timerTapMove:
		e.avatar.Moving = false
	case timerAction:
		evs = e.completeActivity(at, evs)
	case timerHazard:
		if e.vitality == VitalityExposed {
			e.vitality = VitalityIncapacitated
			e.knockedOut = true
			evs = append(evs, newEvent(EventIncapacitated, at, map[string]any{
				"x": e.avatar.Position.X,
				"y": e.avatar.Position.Y,
			}))
		}
	case timerRecoveryLift:
		if e.vitality == VitalityRecovering {
			e.knockedOut = false
			e.arm(timerRecoveryClear, at.Add(e.cfg.RecoveryClearDelay))
			evs = append(evs, newEvent(EventRecoveryLifted, at, nil))
		}
	case timerRecoveryClear:
		if e.vitality == VitalityRecovering {
			e.vitality = VitalitySafe
			e.inHazard = false
			evs = append(evs, newEvent(EventRecovered, at, nil))
		}
	case timerHarvestAnim:
		e.harvestAnim = false
		evs = append(evs, newEvent(EventHarvestAnimEnded, at, nil))
	}
	return evs
}

func (e *Engine) completeActivity(at time.Time, evs []Event) []Event {
	task := e.activity
	e.activity = ""
	if task == "" {
		return evs
	}
	e.needs = e.needs.WithCleared(task)
	payload := map[string]any{"task_id": string(task)}
	if task == farm.TaskPesticide {
		// Pesticide resolves the crop issue flag along with its own need.
		e.cropIssues = false
		payload["crop_issues_cleared"] = true
	}
	if task == farm.TaskHarvesting {
		e.harvestAnim = true
		e.arm(timerHarvestAnim, at.Add(e.cfg.HarvestAnimDuration))
	}
	evs = append(evs, newEvent(EventTaskCompleted, at, payload))
	if !e.allComplete && !e.needs.Any() {
		e.allComplete = true
		e.celebrating = true
		evs = append(evs, newEvent(EventAllTasksComplete, at, nil))
	}
	return evs
}

// settle recomputes hazard membership and runs the movement and membership
// driven transitions. Timer firings live in Advance; settle only arms and
// cancels.
func (e *Engine) settle(now time.Time, evs []Event) []Event {
	inside := e.cfg.Hazard.Contains(e.avatar.Position, e.cfg.GridWidth, e.cfg.GridHeight)
	if e.vitality != VitalityRecovering {
		// Re-entry while recovering is ignored until the chain finishes.
		e.inHazard = inside
	}
	switch e.vitality {
	case VitalitySafe:
		if inside && !e.avatar.Moving {
			e.vitality = VitalityExposed
			e.arm(timerHazard, now.Add(e.cfg.HazardExposureDelay))
			evs = append(evs, newEvent(EventHazardExposed, now, map[string]any{
				"x": e.avatar.Position.X,
				"y": e.avatar.Position.Y,
			}))
		}
	case VitalityExposed:
		if !inside || e.avatar.Moving {
			e.cancel(timerHazard)
			e.vitality = VitalitySafe
			evs = append(evs, newEvent(EventHazardCleared, now, nil))
		}
	case VitalityIncapacitated:
		if !inside {
			e.vitality = VitalityRecovering
			e.arm(timerRecoveryLift, now.Add(e.cfg.RecoveryLiftDelay))
			evs = append(evs, newEvent(EventRecoveryStarted, now, nil))
		}
	}
	return evs
}

func (e *Engine) step(d Direction) {
	// Facing follows the input even when the step clamps in place.
	e.avatar.Facing = d
	e.avatar.Position = e.avatar.Position.Step(d, e.cfg.GridWidth, e.cfg.GridHeight)
}

func (e *Engine) arm(k timerKind, at time.Time) { e.timers[k] = at }

func (e *Engine) cancel(k timerKind) { delete(e.timers, k) }

func (e *Engine) deadline(k timerKind) (time.Time, bool) {
	at, ok := e.timers[k]
	return at, ok
}
