package farm

import "time"

type Needs struct {
	Fertilizer bool `json:"needs_fertilizer"`
	SeedCane   bool `json:"needs_seed_cane"`
	Harvesting bool `json:"needs_harvesting"`
	Ploughing  bool `json:"needs_ploughing"`
	Pesticide  bool `json:"needs_pesticide"`
}

func (n Needs) Any() bool {
	return n.Fertilizer || n.SeedCane || n.Harvesting || n.Ploughing || n.Pesticide
}

// Merge ORs two need sets. Calls can add needs to a farmer; only completed
// farm activity clears them.
func (n Needs) Merge(other Needs) Needs {
	return Needs{
		Fertilizer: n.Fertilizer || other.Fertilizer,
		SeedCane:   n.SeedCane || other.SeedCane,
		Harvesting: n.Harvesting || other.Harvesting,
		Ploughing:  n.Ploughing || other.Ploughing,
		Pesticide:  n.Pesticide || other.Pesticide,
	}
}

func (n Needs) Of(id TaskID) bool {
	switch id {
	case TaskFertilizer:
		return n.Fertilizer
	case TaskSeedCane:
		return n.SeedCane
	case TaskHarvesting:
		return n.Harvesting
	case TaskPloughing:
		return n.Ploughing
	case TaskPesticide:
		return n.Pesticide
	default:
		return false
	}
}

func (n Needs) WithCleared(id TaskID) Needs {
	switch id {
	case TaskFertilizer:
		n.Fertilizer = false
	case TaskSeedCane:
		n.SeedCane = false
	case TaskHarvesting:
		n.Harvesting = false
	case TaskPloughing:
		n.Ploughing = false
	case TaskPesticide:
		n.Pesticide = false
	}
	return n
}

type Farmer struct {
	ID            string    `json:"farmer_id"`
	Name          string    `json:"farmer_name"`
	FarmSizeAcres float64   `json:"farm_size_acres"`
	Needs         Needs     `json:"needs"`
	CropIssues    bool      `json:"has_crop_issues"`
	Version       int64     `json:"version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultFarmer is the local stand-in used when the farmer record cannot be
// fetched. Every need is raised so a full activity run stays possible offline.
func DefaultFarmer() Farmer {
	return Farmer{
		ID:            "F-0001",
		Name:          "Ramesh Patel",
		FarmSizeAcres: 4.5,
		Needs: Needs{
			Fertilizer: true,
			SeedCane:   true,
			Harvesting: true,
			Ploughing:  true,
			Pesticide:  true,
		},
		CropIssues: true,
	}
}

func (f *Farmer) MergeClassification(c Classification) {
	f.Needs = f.Needs.Merge(c.Needs)
	if c.CropIssues {
		f.CropIssues = true
	}
}
