package sim

import "time"

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventSessionStarted     = "session_started"
	EventFarmerFallbackUsed = "farmer_fallback_used"
	EventSessionReset       = "session_reset"
	EventSessionClosed      = "session_closed"

	EventTaskSelected     = "task_selected"
	EventTaskStarted      = "task_started"
	EventTaskCompleted    = "task_completed"
	EventAllTasksComplete = "all_tasks_complete"
	EventHarvestAnimEnded = "harvest_animation_ended"

	EventHazardExposed   = "hazard_exposed"
	EventHazardCleared   = "hazard_cleared"
	EventIncapacitated   = "incapacitated"
	EventRecoveryStarted = "recovery_started"
	EventRecoveryLifted  = "recovery_lifted"
	EventRecovered       = "recovered"
)

func newEvent(typ string, at time.Time, payload map[string]any) Event {
	return Event{Type: typ, OccurredAt: at, Payload: payload}
}
