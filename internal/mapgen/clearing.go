// Package mapgen generates overworld terrain.
package mapgen

// Clearing is an open rectangular meadow cut out of the wilderness and
// joined to the road network.
type Clearing struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the clearing
}

// Center returns the center coordinates of the clearing.
func (c Clearing) Center() (int, int) {
	return c.X + c.Width/2, c.Y + c.Height/2
}

// Contains returns true if the given point is inside the clearing.
func (c Clearing) Contains(x, y int) bool {
	return x >= c.X && x < c.X+c.Width && y >= c.Y && y < c.Y+c.Height
}

// Intersects returns true if this clearing overlaps with another.
func (c Clearing) Intersects(other Clearing) bool {
	return c.X < other.X+other.Width &&
		c.X+c.Width > other.X &&
		c.Y < other.Y+other.Height &&
		c.Y+c.Height > other.Y
}
