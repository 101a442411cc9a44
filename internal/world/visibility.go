package world

import "sort"

// Visibility tracks which coordinates have ever been seen and which are in
// line of sight right now. The revealed set only grows; the visible set is
// rebuilt on every update and is always a subset of revealed.
type Visibility struct {
	revealed map[Coord]struct{}
	visible  map[Coord]struct{}
}

// NewVisibility creates an empty visibility state: nothing seen yet.
func NewVisibility() *Visibility {
	return &Visibility{
		revealed: make(map[Coord]struct{}),
		visible:  make(map[Coord]struct{}),
	}
}

// Update recomputes the visible set for a viewer with the given sight
// radius. Candidates come from the square box of side 2*radius+1 centered
// on the viewer, clipped to width x height; each must survive a ray walk
// from the viewer that fails on the first opaque intermediate cell, so an
// opaque cell is itself visible but hides everything behind it. The
// viewer's own cell is always revealed. For a fixed grid and viewer the
// result is identical on every call.
func (v *Visibility) Update(viewer Coord, radius, width, height int, opaque func(x, y int) bool) {
	v.visible = make(map[Coord]struct{})

	if viewer.X < 0 || viewer.X >= width || viewer.Y < 0 || viewer.Y >= height {
		return
	}
	v.mark(viewer)

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := Coord{X: viewer.X + dx, Y: viewer.Y + dy}
			if c.X < 0 || c.X >= width || c.Y < 0 || c.Y >= height {
				continue
			}
			if lineOfSight(viewer, c, opaque) {
				v.mark(c)
			}
		}
	}
}

// mark adds a coordinate to both sets, preserving visible ⊆ revealed.
func (v *Visibility) mark(c Coord) {
	v.visible[c] = struct{}{}
	v.revealed[c] = struct{}{}
}

// Reveal marks a coordinate as seen without making it currently visible.
// Used when restoring persisted state.
func (v *Visibility) Reveal(c Coord) {
	v.revealed[c] = struct{}{}
}

// IsRevealed returns true if the coordinate has ever been seen.
func (v *Visibility) IsRevealed(c Coord) bool {
	_, ok := v.revealed[c]
	return ok
}

// IsVisible returns true if the coordinate is in the current line of sight.
func (v *Visibility) IsVisible(c Coord) bool {
	_, ok := v.visible[c]
	return ok
}

// RevealedCount returns the number of coordinates ever seen.
func (v *Visibility) RevealedCount() int {
	return len(v.revealed)
}

// VisibleCount returns the number of coordinates in current line of sight.
func (v *Visibility) VisibleCount() int {
	return len(v.visible)
}

// RevealedCoords returns the revealed set in row-major order so serialized
// output is stable across runs.
func (v *Visibility) RevealedCoords() []Coord {
	out := make([]Coord, 0, len(v.revealed))
	for c := range v.revealed {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// lineOfSight walks the Bresenham ray from one coordinate toward another.
// It returns false as soon as an intermediate cell is opaque; neither the
// origin nor the target cell is tested, so a viewer inside a wall can see
// out and a wall face is visible from open ground.
func lineOfSight(from, to Coord, opaque func(x, y int) bool) bool {
	x, y := from.X, from.Y
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)

	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	err := dx - dy
	for {
		if x == to.X && y == to.Y {
			return true
		}
		if (x != from.X || y != from.Y) && opaque(x, y) {
			return false
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}
