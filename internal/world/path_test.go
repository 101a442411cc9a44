package world

import "testing"

// testSearchSpace builds pathfinder predicates over a w x h grid where the
// listed coordinates are impassable.
func testSearchSpace(w, h int, blocked ...Coord) (Passable, NeighborFunc) {
	walls := make(map[Coord]bool, len(blocked))
	for _, c := range blocked {
		walls[c] = true
	}

	passable := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return !walls[Coord{X: x, Y: y}]
	}
	neighbors := func(x, y int) []Coord {
		out := make([]Coord, 0, 4)
		for _, d := range [4]Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := x+d.X, y+d.Y
			if nx >= 0 && nx < w && ny >= 0 && ny < h {
				out = append(out, Coord{X: nx, Y: ny})
			}
		}
		return out
	}
	return passable, neighbors
}

// checkWalkable fails the test unless the path is a contiguous orthogonal
// walk from start to goal over passable cells.
func checkWalkable(t *testing.T, path []Coord, start, goal Coord, passable Passable) {
	t.Helper()

	if len(path) == 0 {
		t.Fatal("path is empty")
	}
	if path[0] != start {
		t.Fatalf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Fatalf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	for i := 1; i < len(path); i++ {
		if path[i].Manhattan(path[i-1]) != 1 {
			t.Fatalf("path step %d: %v -> %v is not an orthogonal move", i, path[i-1], path[i])
		}
		if !passable(path[i].X, path[i].Y) {
			t.Fatalf("path step %d enters impassable cell %v", i, path[i])
		}
	}
}

func TestFindPathStartEqualsGoal(t *testing.T) {
	passable, neighbors := testSearchSpace(5, 5)
	pf := NewPathfinder(passable, neighbors)

	path := pf.FindPath(Coord{2, 2}, Coord{2, 2})

	if len(path) != 1 || path[0] != (Coord{2, 2}) {
		t.Errorf("FindPath(s, s) = %v, want [{2 2}]", path)
	}
}

func TestFindPathClearGrid(t *testing.T) {
	// On an open grid the path length is the Manhattan distance plus one
	tests := []struct {
		start, goal Coord
		nodes       int
	}{
		{Coord{0, 0}, Coord{4, 4}, 9},
		{Coord{0, 0}, Coord{4, 0}, 5},
		{Coord{3, 1}, Coord{1, 4}, 6},
		{Coord{4, 4}, Coord{0, 0}, 9},
	}

	passable, neighbors := testSearchSpace(5, 5)
	pf := NewPathfinder(passable, neighbors)

	for _, tt := range tests {
		path := pf.FindPath(tt.start, tt.goal)
		if len(path) != tt.nodes {
			t.Errorf("FindPath(%v, %v) has %d nodes, want %d", tt.start, tt.goal, len(path), tt.nodes)
			continue
		}
		checkWalkable(t, path, tt.start, tt.goal, passable)
	}
}

func TestFindPathIsolatedStart(t *testing.T) {
	// Blocks at (1,0) and (0,1) wall (0,0) off from the rest of a 3x3 grid
	passable, neighbors := testSearchSpace(3, 3, Coord{1, 0}, Coord{0, 1})
	pf := NewPathfinder(passable, neighbors)

	path := pf.FindPath(Coord{0, 0}, Coord{2, 2})

	if len(path) != 0 {
		t.Errorf("FindPath across a sealed corner = %v, want empty", path)
	}
}

func TestFindPathRejectsBadEndpoints(t *testing.T) {
	passable, neighbors := testSearchSpace(4, 4, Coord{2, 2})
	pf := NewPathfinder(passable, neighbors)

	tests := []struct {
		name        string
		start, goal Coord
	}{
		{"start out of bounds", Coord{-1, 0}, Coord{3, 3}},
		{"goal out of bounds", Coord{0, 0}, Coord{4, 0}},
		{"start blocked", Coord{2, 2}, Coord{0, 0}},
		{"goal blocked", Coord{0, 0}, Coord{2, 2}},
	}

	for _, tt := range tests {
		if path := pf.FindPath(tt.start, tt.goal); len(path) != 0 {
			t.Errorf("%s: FindPath = %v, want empty", tt.name, path)
		}
	}
}

func TestFindPathRoutesThroughGap(t *testing.T) {
	// Vertical wall across x=2 with a single gap at (2,3)
	blocked := []Coord{{2, 0}, {2, 1}, {2, 2}, {2, 4}}
	passable, neighbors := testSearchSpace(5, 5, blocked...)
	pf := NewPathfinder(passable, neighbors)

	path := pf.FindPath(Coord{0, 0}, Coord{4, 0})

	checkWalkable(t, path, Coord{0, 0}, Coord{4, 0}, passable)

	throughGap := false
	for _, c := range path {
		if c == (Coord{2, 3}) {
			throughGap = true
		}
	}
	if !throughGap {
		t.Errorf("path %v does not pass through the only gap at (2,3)", path)
	}
}

func TestFindPathDeterministic(t *testing.T) {
	passable, neighbors := testSearchSpace(8, 8, Coord{3, 3}, Coord{4, 3}, Coord{3, 4})
	pf := NewPathfinder(passable, neighbors)

	first := pf.FindPath(Coord{0, 0}, Coord{7, 7})
	for i := 0; i < 10; i++ {
		again := pf.FindPath(Coord{0, 0}, Coord{7, 7})
		if len(again) != len(first) {
			t.Fatalf("run %d: path length %d, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: path diverges at step %d: %v != %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestFindPathWeightedCosts(t *testing.T) {
	// 3x3 open grid; entering the center costs 10 once weighting is on
	passable, neighbors := testSearchSpace(3, 3)
	center := Coord{1, 1}

	pf := NewPathfinder(passable, neighbors)
	direct := pf.FindPath(Coord{0, 1}, Coord{2, 1})
	if len(direct) != 3 {
		t.Fatalf("uniform-cost path has %d nodes, want 3", len(direct))
	}

	pf.SetCost(func(_, to Coord) int {
		if to == center {
			return 10
		}
		return 1
	})

	weighted := pf.FindPath(Coord{0, 1}, Coord{2, 1})
	checkWalkable(t, weighted, Coord{0, 1}, Coord{2, 1}, passable)
	for _, c := range weighted {
		if c == center {
			t.Errorf("weighted path %v crosses the expensive center cell", weighted)
		}
	}
	if len(weighted) != 5 {
		t.Errorf("weighted path has %d nodes, want 5 (detour around center)", len(weighted))
	}
}

func TestFindPathCostClamp(t *testing.T) {
	// A cost function returning zero or negatives must not break the
	// heuristic's admissibility
	passable, neighbors := testSearchSpace(5, 5)
	pf := NewPathfinder(passable, neighbors)
	pf.SetCost(func(_, _ Coord) int { return -7 })

	path := pf.FindPath(Coord{0, 0}, Coord{4, 4})
	if len(path) != 9 {
		t.Errorf("clamped-cost path has %d nodes, want 9", len(path))
	}
}
