package replay

import "cropline/internal/domain/sim"

type Request struct {
	SessionID    string
	Type         string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// Recap is the run folded out of its event log, shown next to the raw
// timeline on the events endpoint.
type Recap struct {
	TasksCompleted  int  `json:"tasks_completed"`
	Incapacitations int  `json:"incapacitations"`
	Resets          int  `json:"resets"`
	AllComplete     bool `json:"all_complete"`
	Closed          bool `json:"closed"`
}

type Response struct {
	SessionID string      `json:"session_id"`
	Events    []sim.Event `json:"events"`
	Recap     Recap       `json:"recap"`
}
