package world

import "testing"

func TestTileTypeString(t *testing.T) {
	tests := []struct {
		typ      TileType
		expected string
	}{
		{TileEmpty, "empty"},
		{TileGrass, "grass"},
		{TileRoad, "road"},
		{TileForest, "forest"},
		{TileWater, "water"},
		{TileDeepWater, "deep_water"},
		{TileWall, "wall"},
		{TileMountain, "mountain"},
		{TileSwamp, "swamp"},
		{TileType(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.typ.String()
		if got != tt.expected {
			t.Errorf("TileType(%d).String() = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestParseTileType(t *testing.T) {
	// Every known tag must round-trip through its TileType
	for typ := TileEmpty; typ <= TileSwamp; typ++ {
		parsed, err := ParseTileType(typ.String())
		if err != nil {
			t.Fatalf("ParseTileType(%q) returned error: %v", typ.String(), err)
		}
		if parsed != typ {
			t.Errorf("ParseTileType(%q) = %v, want %v", typ.String(), parsed, typ)
		}
	}

	if _, err := ParseTileType("lava"); err == nil {
		t.Error("ParseTileType(\"lava\") should return an error for an unknown tag")
	}
}

func TestNewTileClampsMoveCost(t *testing.T) {
	tests := []struct {
		cost     int
		expected int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{4, 4},
	}

	for _, tt := range tests {
		tile := NewTile(TileGrass, false, tt.cost)
		if tile.MoveCost != tt.expected {
			t.Errorf("NewTile(cost=%d).MoveCost = %d, want %d", tt.cost, tile.MoveCost, tt.expected)
		}
	}
}

func TestNewGridDefaults(t *testing.T) {
	g := NewGrid(4, 3)

	if g.Width != 4 || g.Height != 3 {
		t.Fatalf("NewGrid(4, 3) dimensions = %dx%d, want 4x3", g.Width, g.Height)
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile, ok := g.Get(x, y)
			if !ok {
				t.Fatalf("Get(%d, %d) reported out of bounds on a fresh grid", x, y)
			}
			if tile.Type != TileEmpty || tile.Blocking || tile.MoveCost != 1 {
				t.Errorf("fresh tile at (%d,%d) = %+v, want empty non-blocking cost 1", x, y, tile)
			}
			if tile.Effects == nil {
				t.Errorf("fresh tile at (%d,%d) has nil effects map", x, y)
			}
		}
	}
}

func TestGridSetThenGet(t *testing.T) {
	g := NewGrid(5, 5)
	wall := NewTile(TileWall, true, 1)

	if !g.Set(2, 3, wall) {
		t.Fatal("Set(2, 3) returned false for an in-bounds coordinate")
	}

	got, ok := g.Get(2, 3)
	if !ok {
		t.Fatal("Get(2, 3) reported out of bounds after a successful Set")
	}
	if got.Type != TileWall || !got.Blocking {
		t.Errorf("Get(2, 3) = %+v, want the wall tile just written", got)
	}
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(3, 3)

	tests := []struct {
		x, y int
	}{
		{-1, 0},
		{0, -1},
		{3, 0},
		{0, 3},
		{100, 100},
		{-5, -5},
	}

	for _, tt := range tests {
		if _, ok := g.Get(tt.x, tt.y); ok {
			t.Errorf("Get(%d, %d) = ok, want out-of-bounds miss", tt.x, tt.y)
		}
		if g.Set(tt.x, tt.y, NewTile(TileWall, true, 1)) {
			t.Errorf("Set(%d, %d) = true, want rejection", tt.x, tt.y)
		}
	}

	// The rejected writes must not have touched any cell
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			tile, _ := g.Get(x, y)
			if tile.Type != TileEmpty {
				t.Errorf("tile at (%d,%d) mutated by an out-of-bounds Set", x, y)
			}
		}
	}
}

func TestCoordManhattan(t *testing.T) {
	tests := []struct {
		a, b     Coord
		expected int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{4, 4}, 8},
		{Coord{2, 3}, Coord{5, 1}, 5},
		{Coord{-1, -1}, Coord{1, 1}, 4},
	}

	for _, tt := range tests {
		got := tt.a.Manhattan(tt.b)
		if got != tt.expected {
			t.Errorf("%v.Manhattan(%v) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
		if back := tt.b.Manhattan(tt.a); back != got {
			t.Errorf("Manhattan not symmetric: %d != %d", got, back)
		}
	}
}
