package tui

import (
	"fmt"
	"strings"

	"cropline/internal/app/simview"
	"cropline/internal/domain/sim"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellHazard
	cellAvatar
)

func classifyCell(v simview.View, x, y int) cellKind {
	if v.Avatar.Position.X == x && v.Avatar.Position.Y == y {
		return cellAvatar
	}
	r := v.HazardCells
	if !r.Empty && x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY {
		return cellHazard
	}
	return cellEmpty
}

func avatarGlyph(v simview.View) string {
	if v.Vitality.KnockedOut {
		return "✖"
	}
	switch v.Avatar.Facing {
	case sim.DirUp:
		return "▲"
	case sim.DirLeft:
		return "◀"
	case sim.DirRight:
		return "▶"
	default:
		return "▼"
	}
}

func renderGrid(v simview.View) string {
	var b strings.Builder
	for y := 0; y < v.GridHeight; y++ {
		for x := 0; x < v.GridWidth; x++ {
			switch classifyCell(v, x, y) {
			case cellAvatar:
				style := avatarStyle
				if v.Vitality.KnockedOut {
					style = avatarDownStyle
				}
				b.WriteString(style.Render(avatarGlyph(v)) + " ")
			case cellHazard:
				b.WriteString(hazardCellStyle.Render("▒") + " ")
			default:
				b.WriteString(dimStyle.Render("·") + " ")
			}
		}
		if y < v.GridHeight-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderVitality(v simview.View) string {
	switch v.Vitality.State {
	case sim.VitalityExposed:
		return exposedStyle.Render("EXPOSED") + helpStyle.Render("  step out of the sprayed rows")
	case sim.VitalityIncapacitated:
		return downStyle.Render("INCAPACITATED") + helpStyle.Render("  waiting to recover")
	case sim.VitalityRecovering:
		return recoverStyle.Render("RECOVERING") + helpStyle.Render("  movement only")
	default:
		return safeStyle.Render("SAFE")
	}
}

func renderTasks(v simview.View) string {
	var b strings.Builder
	for i, task := range v.Tasks {
		line := fmt.Sprintf("[%d] %s", i+1, task.Label)
		switch {
		case !task.Needed:
			line = taskDoneStyle.Render("✓ " + line)
		case task.Selected:
			line = taskSelectedStyle.Render("▸ " + line)
			if v.Activity != nil && v.Activity.TaskID == task.ID {
				line += helpStyle.Render("  " + formatRemaining(v.Activity.RemainingMS))
			}
		default:
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(v.Tasks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatRemaining(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func farmerLine(v simview.View) string {
	line := fmt.Sprintf("%s · %.1f acres", v.Farmer.Name, v.Farmer.FarmSizeAcres)
	if v.CropIssues {
		line += exposedStyle.Render("  ⚠ crop issues")
	}
	if v.UsedFallback {
		line += dimStyle.Render("  (offline profile)")
	}
	return line
}

func renderBanner(v simview.View) string {
	switch {
	case v.Celebrating:
		return celebrateStyle.Render("★ All tasks complete — the farm is celebrating! ★")
	case v.HarvestAnimation:
		return celebrateStyle.Render("Harvesting the cane…")
	default:
		return ""
	}
}
