package sim

// HazardZone is an axis-aligned rectangle in normalized grid coordinates,
// each field a fraction of the full grid in [0,1].
type HazardZone struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (z HazardZone) Valid() bool {
	if z.Width <= 0 || z.Height <= 0 {
		return false
	}
	if z.Left < 0 || z.Top < 0 {
		return false
	}
	return z.Left+z.Width <= 1 && z.Top+z.Height <= 1
}

// Contains reports whether a cell lies inside the zone. Intervals are
// half-open: a cell exactly on the right or bottom edge is outside.
func (z HazardZone) Contains(p Position, gridW, gridH int) bool {
	if gridW <= 0 || gridH <= 0 {
		return false
	}
	nx := float64(p.X) / float64(gridW)
	ny := float64(p.Y) / float64(gridH)
	if nx < z.Left || nx >= z.Left+z.Width {
		return false
	}
	return ny >= z.Top && ny < z.Top+z.Height
}

// CellRect converts the zone to whole-cell bounds for rendering, [MinX,MaxX]
// by [MinY,MaxY] inclusive. Empty zones report Empty=true.
type CellRect struct {
	MinX  int  `json:"min_x"`
	MinY  int  `json:"min_y"`
	MaxX  int  `json:"max_x"`
	MaxY  int  `json:"max_y"`
	Empty bool `json:"empty,omitempty"`
}

func (z HazardZone) Cells(gridW, gridH int) CellRect {
	r := CellRect{Empty: true}
	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			if !z.Contains(Position{X: x, Y: y}, gridW, gridH) {
				continue
			}
			if r.Empty {
				r = CellRect{MinX: x, MinY: y, MaxX: x, MaxY: y}
				continue
			}
			if x < r.MinX {
				r.MinX = x
			}
			if y < r.MinY {
				r.MinY = y
			}
			if x > r.MaxX {
				r.MaxX = x
			}
			if y > r.MaxY {
				r.MaxY = y
			}
		}
	}
	return r
}
