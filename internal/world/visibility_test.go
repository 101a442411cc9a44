package world

import "testing"

// opaqueSet builds an opacity predicate from a list of wall coordinates.
func opaqueSet(walls ...Coord) func(x, y int) bool {
	set := make(map[Coord]bool, len(walls))
	for _, c := range walls {
		set[c] = true
	}
	return func(x, y int) bool {
		return set[Coord{X: x, Y: y}]
	}
}

func TestLineOfSight(t *testing.T) {
	tests := []struct {
		name     string
		from, to Coord
		walls    []Coord
		expected bool
	}{
		{"clear straight line", Coord{0, 0}, Coord{3, 0}, nil, true},
		{"blocked intermediate", Coord{0, 0}, Coord{3, 0}, []Coord{{1, 0}}, false},
		{"opaque target still seen", Coord{0, 0}, Coord{3, 0}, []Coord{{3, 0}}, true},
		{"opaque origin sees out", Coord{0, 0}, Coord{2, 0}, []Coord{{0, 0}}, true},
		{"adjacent cells", Coord{0, 0}, Coord{1, 0}, []Coord{{0, 0}, {1, 0}}, true},
		{"diagonal blocked by corner", Coord{0, 0}, Coord{2, 2}, []Coord{{1, 1}}, false},
		{"diagonal clear", Coord{0, 0}, Coord{2, 2}, []Coord{{2, 1}}, true},
		{"same cell", Coord{1, 1}, Coord{1, 1}, []Coord{{1, 1}}, true},
	}

	for _, tt := range tests {
		got := lineOfSight(tt.from, tt.to, opaqueSet(tt.walls...))
		if got != tt.expected {
			t.Errorf("%s: lineOfSight(%v, %v) = %v, want %v", tt.name, tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestVisibilityViewerAlwaysRevealed(t *testing.T) {
	v := NewVisibility()
	viewer := Coord{2, 2}

	// Radius zero still reveals the viewer's own cell
	v.Update(viewer, 0, 5, 5, opaqueSet())

	if !v.IsRevealed(viewer) {
		t.Error("viewer cell not revealed after update")
	}
	if !v.IsVisible(viewer) {
		t.Error("viewer cell not visible after update")
	}
	if v.VisibleCount() != 1 || v.RevealedCount() != 1 {
		t.Errorf("counts = %d visible, %d revealed, want 1 and 1", v.VisibleCount(), v.RevealedCount())
	}
}

func TestVisibilityOpenRoom(t *testing.T) {
	v := NewVisibility()

	// Radius 2 from the center of a 5x5 open room covers every cell
	v.Update(Coord{2, 2}, 2, 5, 5, opaqueSet())

	if v.VisibleCount() != 25 {
		t.Errorf("VisibleCount() = %d, want 25", v.VisibleCount())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if !v.IsVisible(Coord{X: x, Y: y}) {
				t.Errorf("cell (%d,%d) not visible in an open room", x, y)
			}
		}
	}
}

func TestVisibilityWallOcclusion(t *testing.T) {
	v := NewVisibility()
	wall := Coord{2, 2}

	v.Update(Coord{0, 2}, 4, 5, 5, opaqueSet(wall))

	// The wall face is visible; the cells directly behind it are not
	if !v.IsVisible(wall) {
		t.Error("wall cell itself should be visible")
	}
	if v.IsVisible(Coord{3, 2}) {
		t.Error("cell directly behind the wall should be hidden")
	}
	if v.IsVisible(Coord{4, 2}) {
		t.Error("far cell behind the wall should be hidden")
	}
	if v.IsRevealed(Coord{3, 2}) {
		t.Error("hidden cell must not enter the revealed set")
	}
}

func TestVisibilityRevealedMonotonic(t *testing.T) {
	v := NewVisibility()

	// A 10x1 corridor: reveal the west end, then jump to the east end
	v.Update(Coord{0, 0}, 2, 10, 1, opaqueSet())
	before := v.RevealedCoords()

	v.Update(Coord{7, 0}, 2, 10, 1, opaqueSet())

	for _, c := range before {
		if !v.IsRevealed(c) {
			t.Errorf("previously revealed cell %v dropped from the revealed set", c)
		}
	}

	// The west end stays revealed but is no longer in line of sight
	if v.IsVisible(Coord{0, 0}) {
		t.Error("west end still visible after moving east")
	}
	if !v.IsRevealed(Coord{0, 0}) {
		t.Error("west end no longer revealed after moving east")
	}
	if !v.IsVisible(Coord{7, 0}) {
		t.Error("new viewer cell not visible")
	}
	if got := v.RevealedCount(); got != 8 {
		t.Errorf("RevealedCount() = %d, want 8", got)
	}
}

func TestVisibilityVisibleSubsetOfRevealed(t *testing.T) {
	v := NewVisibility()
	opaque := opaqueSet(Coord{3, 3}, Coord{4, 3}, Coord{3, 4})

	positions := []Coord{{0, 0}, {6, 6}, {0, 6}, {6, 0}}
	for _, p := range positions {
		v.Update(p, 3, 7, 7, opaque)

		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				c := Coord{X: x, Y: y}
				if v.IsVisible(c) && !v.IsRevealed(c) {
					t.Fatalf("after update at %v, cell %v is visible but not revealed", p, c)
				}
			}
		}
	}
}

func TestVisibilityDeterministic(t *testing.T) {
	opaque := opaqueSet(Coord{2, 1}, Coord{2, 2}, Coord{2, 3})

	v1 := NewVisibility()
	v2 := NewVisibility()
	v1.Update(Coord{0, 2}, 4, 6, 5, opaque)
	v2.Update(Coord{0, 2}, 4, 6, 5, opaque)

	c1 := v1.RevealedCoords()
	c2 := v2.RevealedCoords()
	if len(c1) != len(c2) {
		t.Fatalf("revealed counts differ: %d != %d", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Errorf("revealed coord %d differs: %v != %v", i, c1[i], c2[i])
		}
	}

	// Repeating the same update must not change anything
	v1.Update(Coord{0, 2}, 4, 6, 5, opaque)
	if v1.RevealedCount() != len(c1) {
		t.Errorf("repeat update changed revealed count: %d != %d", v1.RevealedCount(), len(c1))
	}
}

func TestVisibilityClipsToBounds(t *testing.T) {
	v := NewVisibility()

	// Corner viewer with a radius larger than the grid
	v.Update(Coord{0, 0}, 3, 4, 4, opaqueSet())

	for _, c := range v.RevealedCoords() {
		if c.X < 0 || c.X >= 4 || c.Y < 0 || c.Y >= 4 {
			t.Errorf("revealed coord %v lies outside the 4x4 grid", c)
		}
	}
	if v.RevealedCount() != 16 {
		t.Errorf("RevealedCount() = %d, want 16", v.RevealedCount())
	}
}

func TestVisibilityOffGridViewer(t *testing.T) {
	v := NewVisibility()
	v.Update(Coord{1, 1}, 1, 3, 3, opaqueSet())
	revealed := v.RevealedCount()

	// An off-grid viewer sees nothing and reveals nothing new
	v.Update(Coord{-1, 5}, 2, 3, 3, opaqueSet())

	if v.VisibleCount() != 0 {
		t.Errorf("VisibleCount() = %d after off-grid update, want 0", v.VisibleCount())
	}
	if v.RevealedCount() != revealed {
		t.Errorf("RevealedCount() = %d after off-grid update, want %d", v.RevealedCount(), revealed)
	}
}
