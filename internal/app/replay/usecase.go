package replay

import (
	"context"
	"errors"
	"strings"

	"cropline/internal/app/ports"
	"cropline/internal/domain/sim"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListBySessionID(ctx, req.SessionID, 0)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	// The recap always folds the filtered window, so what it says matches
	// the timeline it sits next to. Type and limit only trim the listing.
	recap := fold(events)
	filtered := events
	if req.Type != "" {
		filtered = filterByType(events, req.Type)
	}
	if req.Limit > 0 && len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}
	return Response{SessionID: req.SessionID, Events: filtered, Recap: recap}, nil
}

func filterByTimeWindow(events []sim.Event, from, to int64) []sim.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]sim.Event, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func filterByType(events []sim.Event, typ string) []sim.Event {
	out := make([]sim.Event, 0, len(events))
	for _, evt := range events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

// fold replays the log into the run's score line. A reset starts the counts
// over, mirroring what the live session record does.
func fold(events []sim.Event) Recap {
	var recap Recap
	for _, evt := range events {
		switch evt.Type {
		case sim.EventTaskCompleted:
			recap.TasksCompleted++
		case sim.EventIncapacitated:
			recap.Incapacitations++
		case sim.EventAllTasksComplete:
			recap.AllComplete = true
		case sim.EventSessionReset:
			recap.Resets++
			recap.TasksCompleted = 0
			recap.AllComplete = false
		case sim.EventSessionClosed:
			recap.Closed = true
		}
	}
	return recap
}
