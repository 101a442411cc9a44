package world

// Coord addresses a single cell on the grid.
type Coord struct {
	X, Y int
}

// Manhattan returns the orthogonal step distance to other.
func (c Coord) Manhattan(other Coord) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Grid is a fixed-size 2D tile store. Dimensions are set at construction
// and never change; every row has length Width and there are Height rows.
type Grid struct {
	Width  int
	Height int
	tiles  [][]Tile
}

// NewGrid creates a width x height grid with every cell set to a
// non-blocking empty tile.
func NewGrid(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = NewTile(TileEmpty, false, 1)
		}
	}

	return &Grid{
		Width:  width,
		Height: height,
		tiles:  tiles,
	}
}

// InBounds returns true if (x, y) addresses a cell on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the tile at (x, y). The second result is false when the
// coordinate is out of bounds; out-of-range cells are never reported as
// empty terrain.
func (g *Grid) Get(x, y int) (Tile, bool) {
	if !g.InBounds(x, y) {
		return Tile{}, false
	}
	return g.tiles[y][x], true
}

// Set replaces the tile at (x, y), discarding the previous value. It
// returns false and writes nothing when the coordinate is out of bounds.
func (g *Grid) Set(x, y int, t Tile) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.tiles[y][x] = t
	return true
}
