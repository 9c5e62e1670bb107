package simview

import (
	"time"

	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

type FarmerView struct {
	ID            string  `json:"farmer_id"`
	Name          string  `json:"farmer_name"`
	FarmSizeAcres float64 `json:"farm_size_acres"`
}

type TaskView struct {
	ID       farm.TaskID `json:"task_id"`
	Label    string      `json:"label"`
	Needed   bool        `json:"needed"`
	Selected bool        `json:"selected"`
}

type ActivityView struct {
	TaskID      farm.TaskID `json:"task_id"`
	EndAt       time.Time   `json:"end_at"`
	RemainingMS int64       `json:"remaining_ms"`
}

type VitalityView struct {
	State      sim.VitalityState `json:"state"`
	KnockedOut bool              `json:"knocked_out"`
	InHazard   bool              `json:"in_hazard"`
}

// View is the render-ready projection of one simulation session. Clients
// draw from it directly and never see engine internals.
type View struct {
	SessionID        string        `json:"session_id"`
	Farmer           FarmerView    `json:"farmer"`
	UsedFallback     bool          `json:"used_fallback"`
	GridWidth        int           `json:"grid_width"`
	GridHeight       int           `json:"grid_height"`
	HazardCells      sim.CellRect  `json:"hazard_cells"`
	Avatar           sim.Avatar    `json:"avatar"`
	Vitality         VitalityView  `json:"vitality"`
	Tasks            []TaskView    `json:"tasks"`
	Activity         *ActivityView `json:"activity,omitempty"`
	CropIssues       bool          `json:"has_crop_issues"`
	AllComplete      bool          `json:"all_complete"`
	Celebrating      bool          `json:"celebrating"`
	HarvestAnimation bool          `json:"harvest_animation"`
	ServerTime       time.Time     `json:"server_time"`
}

func Build(sessionID string, usedFallback bool, snap sim.Snapshot, cfg sim.Config, now time.Time) View {
	v := View{
		SessionID: sessionID,
		Farmer: FarmerView{
			ID:            snap.Farmer.ID,
			Name:          snap.Farmer.Name,
			FarmSizeAcres: snap.Farmer.FarmSizeAcres,
		},
		UsedFallback: usedFallback,
		GridWidth:    cfg.GridWidth,
		GridHeight:   cfg.GridHeight,
		HazardCells:  cfg.Hazard.Cells(cfg.GridWidth, cfg.GridHeight),
		Avatar:       snap.Avatar,
		Vitality: VitalityView{
			State:      snap.Vitality,
			KnockedOut: snap.KnockedOut,
			InHazard:   snap.InHazard,
		},
		CropIssues:       snap.CropIssues,
		AllComplete:      snap.AllComplete,
		Celebrating:      snap.Celebrating,
		HarvestAnimation: snap.HarvestAnimation,
		ServerTime:       now,
	}
	for _, t := range snap.Tasks {
		v.Tasks = append(v.Tasks, TaskView{
			ID:       t.ID,
			Label:    t.Label,
			Needed:   t.Needed,
			Selected: snap.SelectedTask == t.ID,
		})
	}
	if snap.Activity != nil {
		remaining := snap.Activity.EndAt.Sub(now).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
		v.Activity = &ActivityView{
			TaskID:      snap.Activity.TaskID,
			EndAt:       snap.Activity.EndAt,
			RemainingMS: remaining,
		}
	}
	return v
}
