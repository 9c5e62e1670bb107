package farm

type TaskID string

const (
	TaskPloughing  TaskID = "ploughing"
	TaskSeedCane   TaskID = "seed_cane"
	TaskFertilizer TaskID = "fertilizer"
	TaskPesticide  TaskID = "pesticide"
	TaskHarvesting TaskID = "harvesting"
)

// TaskOrder is the fixed display and keyboard-shortcut order of the activity
// panel.
func TaskOrder() []TaskID {
	return []TaskID{TaskPloughing, TaskSeedCane, TaskFertilizer, TaskPesticide, TaskHarvesting}
}

func (id TaskID) Valid() bool {
	switch id {
	case TaskPloughing, TaskSeedCane, TaskFertilizer, TaskPesticide, TaskHarvesting:
		return true
	default:
		return false
	}
}

func (id TaskID) Label() string {
	switch id {
	case TaskPloughing:
		return "Ploughing"
	case TaskSeedCane:
		return "Seed Cane"
	case TaskFertilizer:
		return "Fertilizer"
	case TaskPesticide:
		return "Pesticide"
	case TaskHarvesting:
		return "Harvesting"
	default:
		return string(id)
	}
}
