package sim

import "testing"

func TestHazardZoneContainsHalfOpen(t *testing.T) {
	// On a 10x10 grid this zone covers x in {5,6,7}, y in {5,6,7}.
	z := HazardZone{Left: 0.5, Top: 0.5, Width: 0.3, Height: 0.3}

	cases := []struct {
		x, y int
		want bool
	}{
		{5, 5, true},
		{7, 7, true},
		{4, 5, false},
		{5, 4, false},
		{8, 5, false}, // 0.8 is exactly Left+Width, outside
		{5, 8, false}, // 0.8 is exactly Top+Height, outside
		{0, 0, false},
		{9, 9, false},
	}
	for _, tc := range cases {
		got := z.Contains(Position{X: tc.x, Y: tc.y}, 10, 10)
		if got != tc.want {
			t.Fatalf("contains(%d,%d): expected %v, got %v", tc.x, tc.y, tc.want, got)
		}
	}
}

func TestHazardZoneContainsIsPure(t *testing.T) {
	z := HazardZone{Left: 0.5, Top: 0.5, Width: 0.3, Height: 0.3}
	p := Position{X: 6, Y: 6}
	for i := 0; i < 100; i++ {
		if !z.Contains(p, 10, 10) {
			t.Fatalf("repeated call %d changed the answer", i)
		}
	}
}

func TestHazardZoneContainsDegenerateGrid(t *testing.T) {
	z := HazardZone{Left: 0, Top: 0, Width: 1, Height: 1}
	if z.Contains(Position{}, 0, 0) {
		t.Fatalf("expected no membership on an empty grid")
	}
}

func TestHazardZoneValid(t *testing.T) {
	cases := []struct {
		name string
		z    HazardZone
		want bool
	}{
		{"default", DefaultConfig().Hazard, true},
		{"zero width", HazardZone{Left: 0.2, Top: 0.2, Width: 0, Height: 0.3}, false},
		{"overflows right", HazardZone{Left: 0.9, Top: 0.2, Width: 0.3, Height: 0.3}, false},
		{"negative origin", HazardZone{Left: -0.1, Top: 0.2, Width: 0.3, Height: 0.3}, false},
		{"full grid", HazardZone{Left: 0, Top: 0, Width: 1, Height: 1}, true},
	}
	for _, tc := range cases {
		if got := tc.z.Valid(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestHazardZoneCells(t *testing.T) {
	z := HazardZone{Left: 0.5, Top: 0.5, Width: 0.3, Height: 0.3}
	r := z.Cells(10, 10)
	if r.Empty {
		t.Fatalf("expected non-empty rect")
	}
	if r.MinX != 5 || r.MaxX != 7 || r.MinY != 5 || r.MaxY != 7 {
		t.Fatalf("unexpected rect: %+v", r)
	}

	tiny := HazardZone{Left: 0.01, Top: 0.01, Width: 0.01, Height: 0.01}
	if got := tiny.Cells(10, 10); !got.Empty {
		t.Fatalf("expected empty rect for sub-cell zone, got %+v", got)
	}
}
