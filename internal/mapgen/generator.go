package mapgen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shattercrown/internal/gamedata"
	"github.com/samdwyer/shattercrown/internal/telemetry"
	"github.com/samdwyer/shattercrown/internal/world"
)

const (
	// Default overworld dimensions
	DefaultWidth  = 96
	DefaultHeight = 64

	// BSP parameters
	minClearingSize = 6  // Minimum clearing dimension
	maxClearingSize = 12 // Maximum clearing dimension
	minRegionSize   = 9  // Minimum BSP region size before stopping split

	// Feature counts scale with map area
	lakesPerRegion = 1
	ruinsPerRegion = 1
)

// tilePalette caches one tile value per terrain used by the generator.
type tilePalette struct {
	grass     world.Tile
	road      world.Tile
	forest    world.Tile
	mountain  world.Tile
	water     world.Tile
	deepWater world.Tile
	swamp     world.Tile
	wall      world.Tile
}

// Generator paints overworld terrain onto a map: a forest base ringed by
// mountains, BSP-placed meadow clearings joined by roads, and scattered
// lakes, mires, and ruins. The same seed always produces the same map.
type Generator struct {
	rng       *rand.Rand
	reg       *gamedata.TileRegistry
	Clearings []Clearing
}

// NewGenerator creates a generator seeded for reproducible output.
func NewGenerator(seed int64, reg *gamedata.TileRegistry) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		reg:       reg,
		Clearings: make([]Clearing, 0),
	}
}

// Generate paints the overworld onto m. Roads are carved after clearings
// and every later feature avoids them, so all clearing centers stay
// mutually reachable.
func (g *Generator) Generate(ctx context.Context, m *world.Map) error {
	tracer := telemetry.Tracer("mapgen")
	_, span := tracer.Start(ctx, "overworld.generate")
	defer span.End()

	startTime := time.Now()

	palette, err := g.buildPalette()
	if err != nil {
		return err
	}

	g.Clearings = g.Clearings[:0]

	// Forest base with an impassable mountain rim
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if x == 0 || y == 0 || x == m.Width()-1 || y == m.Height()-1 {
				m.SetTile(x, y, palette.mountain)
			} else {
				m.SetTile(x, y, palette.forest)
			}
		}
	}

	// Start BSP with the whole interior as root
	root := &bspNode{
		x:      1,
		y:      1,
		width:  m.Width() - 2,
		height: m.Height() - 2,
	}

	g.splitRegion(root)
	g.createClearings(root, m, palette)
	g.connectClearings(root, m, palette)

	regions := len(g.Clearings)
	g.scatterLakes(m, palette, regions*lakesPerRegion/3+1)
	g.scatterMires(m, palette, regions/2+1)
	g.scatterRuins(m, palette, regions*ruinsPerRegion/3+1)

	span.SetAttributes(
		attribute.Int("overworld.width", m.Width()),
		attribute.Int("overworld.height", m.Height()),
		attribute.Int("overworld.clearing_count", len(g.Clearings)),
		attribute.Int64("overworld.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return nil
}

// StartPosition returns the center of the first clearing, the natural
// player spawn. It returns (-1, -1) when generation produced no clearings.
func (g *Generator) StartPosition() (int, int) {
	if len(g.Clearings) == 0 {
		return -1, -1
	}
	return g.Clearings[0].Center()
}

// RandomPointInClearing returns a random unblocked point within the given
// clearing, falling back to its center.
func (g *Generator) RandomPointInClearing(m *world.Map, index int) (int, int) {
	if index < 0 || index >= len(g.Clearings) {
		return -1, -1
	}
	clearing := g.Clearings[index]

	for i := 0; i < 100; i++ {
		x := clearing.X + g.rng.Intn(clearing.Width)
		y := clearing.Y + g.rng.Intn(clearing.Height)
		if !m.IsBlocked(x, y) {
			return x, y
		}
	}

	return clearing.Center()
}

// buildPalette resolves every terrain the generator paints with. A missing
// definition fails generation up front.
func (g *Generator) buildPalette() (*tilePalette, error) {
	palette := &tilePalette{}
	for _, bind := range []struct {
		id   string
		dest *world.Tile
	}{
		{"grass", &palette.grass},
		{"road", &palette.road},
		{"forest", &palette.forest},
		{"mountain", &palette.mountain},
		{"water", &palette.water},
		{"deep_water", &palette.deepWater},
		{"swamp", &palette.swamp},
		{"wall", &palette.wall},
	} {
		def := g.reg.GetByID(bind.id)
		if def == nil {
			return nil, fmt.Errorf("tile definition %q missing from registry", bind.id)
		}
		tile, err := def.Tile()
		if err != nil {
			return nil, fmt.Errorf("tile definition %q: %w", bind.id, err)
		}
		*bind.dest = tile
	}
	return palette, nil
}

// bspNode represents a node in the BSP region tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	clearing      *Clearing
}

// isLeaf returns true if this node has no children.
func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitRegion recursively splits a region until it is too small to hold
// two child regions.
func (g *Generator) splitRegion(node *bspNode) {
	if node.width < minRegionSize*2 && node.height < minRegionSize*2 {
		return
	}

	// Split across the longer axis when possible
	var horizontal bool
	switch {
	case node.width > node.height && node.width >= minRegionSize*2:
		horizontal = false
	case node.height >= minRegionSize*2:
		horizontal = true
	case node.width >= minRegionSize*2:
		horizontal = false
	default:
		return
	}

	if horizontal {
		low, high := minRegionSize, node.height-minRegionSize
		if high <= low {
			return
		}
		split := low + g.rng.Intn(high-low+1)
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: split}
		node.right = &bspNode{x: node.x, y: node.y + split, width: node.width, height: node.height - split}
	} else {
		low, high := minRegionSize, node.width-minRegionSize
		if high <= low {
			return
		}
		split := low + g.rng.Intn(high-low+1)
		node.left = &bspNode{x: node.x, y: node.y, width: split, height: node.height}
		node.right = &bspNode{x: node.x + split, y: node.y, width: node.width - split, height: node.height}
	}

	g.splitRegion(node.left)
	g.splitRegion(node.right)
}

// createClearings cuts one meadow out of each leaf region.
func (g *Generator) createClearings(node *bspNode, m *world.Map, palette *tilePalette) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		g.createClearings(node.left, m, palette)
		g.createClearings(node.right, m, palette)
		return
	}

	width := minClearingSize + g.rng.Intn(min(maxClearingSize-minClearingSize+1, node.width-minClearingSize+1))
	height := minClearingSize + g.rng.Intn(min(maxClearingSize-minClearingSize+1, node.height-minClearingSize+1))
	if width > node.width-2 {
		width = node.width - 2
	}
	if height > node.height-2 {
		height = node.height - 2
	}
	if width < minClearingSize || height < minClearingSize {
		return
	}

	clearing := Clearing{
		X:      node.x + 1 + g.rng.Intn(node.width-width-1),
		Y:      node.y + 1 + g.rng.Intn(node.height-height-1),
		Width:  width,
		Height: height,
	}
	node.clearing = &clearing
	g.Clearings = append(g.Clearings, clearing)

	for y := clearing.Y; y < clearing.Y+clearing.Height; y++ {
		for x := clearing.X; x < clearing.X+clearing.Width; x++ {
			g.paintInterior(m, palette.grass, x, y)
		}
	}
}

// connectClearings joins one clearing from each subtree pair with an
// L-shaped road, which connects the whole network transitively.
func (g *Generator) connectClearings(node *bspNode, m *world.Map, palette *tilePalette) {
	if node == nil || node.isLeaf() {
		return
	}

	g.connectClearings(node.left, m, palette)
	g.connectClearings(node.right, m, palette)

	from := g.findClearing(node.left)
	to := g.findClearing(node.right)
	if from == nil || to == nil {
		return
	}

	x1, y1 := from.Center()
	x2, y2 := to.Center()

	if g.rng.Intn(2) == 0 {
		g.carveRoadAcross(m, palette, x1, x2, y1)
		g.carveRoadDown(m, palette, y1, y2, x2)
	} else {
		g.carveRoadDown(m, palette, y1, y2, x1)
		g.carveRoadAcross(m, palette, x1, x2, y2)
	}
}

// findClearing returns any clearing in the subtree.
func (g *Generator) findClearing(node *bspNode) *Clearing {
	if node == nil {
		return nil
	}
	if node.clearing != nil {
		return node.clearing
	}
	if c := g.findClearing(node.left); c != nil {
		return c
	}
	return g.findClearing(node.right)
}

func (g *Generator) carveRoadAcross(m *world.Map, palette *tilePalette, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.paintInterior(m, palette.road, x, y)
	}
}

func (g *Generator) carveRoadDown(m *world.Map, palette *tilePalette, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.paintInterior(m, palette.road, x, y)
	}
}

// paintInterior writes a tile unless the cell is on the mountain rim.
func (g *Generator) paintInterior(m *world.Map, t world.Tile, x, y int) {
	if x > 0 && x < m.Width()-1 && y > 0 && y < m.Height()-1 {
		m.SetTile(x, y, t)
	}
}

// scatterLakes drops round lakes into the wilderness: deep water cores
// with shallow edges. Lakes never touch roads or meadows, so they cannot
// sever the network.
func (g *Generator) scatterLakes(m *world.Map, palette *tilePalette, count int) {
	for i := 0; i < count; i++ {
		cx := 2 + g.rng.Intn(m.Width()-4)
		cy := 2 + g.rng.Intn(m.Height()-4)
		radius := 2 + g.rng.Intn(3)

		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := cx+dx, cy+dy
				if !g.isWilderness(m, x, y) {
					continue
				}
				d2 := dx*dx + dy*dy
				switch {
				case d2 <= (radius-1)*(radius-1):
					m.SetTile(x, y, palette.deepWater)
				case d2 <= radius*radius:
					m.SetTile(x, y, palette.water)
				}
			}
		}
	}
}

// scatterMires converts forest patches into slow hazardous mire.
func (g *Generator) scatterMires(m *world.Map, palette *tilePalette, count int) {
	for i := 0; i < count; i++ {
		cx := 2 + g.rng.Intn(m.Width()-4)
		cy := 2 + g.rng.Intn(m.Height()-4)
		radius := 1 + g.rng.Intn(3)

		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := cx+dx, cy+dy
				if g.isWilderness(m, x, y) && dx*dx+dy*dy <= radius*radius {
					m.SetTile(x, y, palette.swamp)
				}
			}
		}
	}
}

// scatterRuins places broken wall rings in the forest. One ring cell is
// always left open so a ruin never seals terrain off.
func (g *Generator) scatterRuins(m *world.Map, palette *tilePalette, count int) {
	for i := 0; i < count; i++ {
		w := 4 + g.rng.Intn(4)
		h := 4 + g.rng.Intn(3)
		x0 := 2 + g.rng.Intn(max(m.Width()-w-4, 1))
		y0 := 2 + g.rng.Intn(max(m.Height()-h-4, 1))

		var ring []world.Coord
		for x := x0; x < x0+w; x++ {
			ring = append(ring, world.Coord{X: x, Y: y0}, world.Coord{X: x, Y: y0 + h - 1})
		}
		for y := y0 + 1; y < y0+h-1; y++ {
			ring = append(ring, world.Coord{X: x0, Y: y}, world.Coord{X: x0 + w - 1, Y: y})
		}

		gate := g.rng.Intn(len(ring))
		for j, c := range ring {
			if j == gate {
				continue
			}
			if g.isWilderness(m, c.X, c.Y) {
				m.SetTile(c.X, c.Y, palette.wall)
			}
		}
	}
}

// isWilderness returns true for interior cells that hold plain forest,
// the only terrain the scatter passes may overwrite.
func (g *Generator) isWilderness(m *world.Map, x, y int) bool {
	if x <= 0 || x >= m.Width()-1 || y <= 0 || y >= m.Height()-1 {
		return false
	}
	t, ok := m.GetTile(x, y)
	return ok && t.Type == world.TileForest
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
