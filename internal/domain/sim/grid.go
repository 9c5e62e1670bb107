package sim

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	default:
		return false
	}
}

// Delta returns the cell offset for one step. Origin is the top-left corner,
// y grows downward.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step moves one cell in d, clamped per axis to the grid bounds.
func (p Position) Step(d Direction, gridW, gridH int) Position {
	dx, dy := d.Delta()
	p.X = clamp(p.X+dx, 0, gridW-1)
	p.Y = clamp(p.Y+dy, 0, gridH-1)
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Avatar struct {
	Position Position  `json:"position"`
	Facing   Direction `json:"facing"`
	Moving   bool      `json:"is_moving"`
}
