package sim

import "cropline/internal/domain/farm"

type InputType string

const (
	// InputMoveStart is a key-down (or held-key repeat): one step plus the
	// moving flag until InputMoveStop.
	InputMoveStart InputType = "move_start"
	// InputMoveStop is the matching key-up.
	InputMoveStop InputType = "move_stop"
	// InputMoveTap is a discrete gesture with no release event: one step,
	// the moving flag auto-clears after the tap-move window.
	InputMoveTap InputType = "move_tap"

	InputSelectTask    InputType = "select_task"
	InputPerformAction InputType = "perform_action"
)

type Input struct {
	Type      InputType   `json:"type"`
	Direction Direction   `json:"direction,omitempty"`
	TaskID    farm.TaskID `json:"task_id,omitempty"`
}
