// Package camera manages the viewport into the game world and the
// transforms between world, screen, and grid coordinates.
package camera

import (
	"math"
	"math/rand"
	"time"
)

// Zoom limits
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// shakeFadeWindow is the tail period in seconds over which a shake's
// intensity fades to zero.
const shakeFadeWindow = 0.5

// Camera tracks a position in world pixels and projects it onto the
// viewport. Movement and zoom changes can be smoothed over frames, and a
// shake effect offsets the projection without moving the camera itself.
type Camera struct {
	worldWidth     float64
	worldHeight    float64
	viewportWidth  float64
	viewportHeight float64
	tileSize       float64

	// Top-left corner in world coordinates
	x, y float64

	targetX, targetY float64

	shakeDuration  float64
	shakeIntensity float64
	shakeOffsetX   float64
	shakeOffsetY   float64

	zoom       float64
	targetZoom float64
}

// NewCamera creates a camera over a world of the given pixel dimensions.
// tileSize is the edge length of one grid tile in world pixels.
func NewCamera(worldWidth, worldHeight, viewportWidth, viewportHeight, tileSize int) *Camera {
	return &Camera{
		worldWidth:     float64(worldWidth),
		worldHeight:    float64(worldHeight),
		viewportWidth:  float64(viewportWidth),
		viewportHeight: float64(viewportHeight),
		tileSize:       float64(tileSize),
		zoom:           1.0,
		targetZoom:     1.0,
	}
}

// Position returns the camera's top-left corner in world coordinates.
func (c *Camera) Position() (float64, float64) {
	return c.x, c.y
}

// Center returns the world coordinate at the middle of the viewport.
func (c *Camera) Center() (float64, float64) {
	return c.x + c.viewportWidth/2/c.zoom, c.y + c.viewportHeight/2/c.zoom
}

// Zoom returns the current zoom level (1.0 = normal).
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom]. With smooth
// the level eases toward the target over subsequent updates.
func (c *Camera) SetZoom(zoom float64, smooth bool) {
	zoom = math.Max(MinZoom, math.Min(zoom, MaxZoom))
	c.targetZoom = zoom
	if !smooth {
		c.zoom = zoom
	}
}

// MoveTo points the viewport center at a world coordinate. With smooth the
// camera eases there over subsequent updates; otherwise it jumps.
func (c *Camera) MoveTo(x, y float64, smooth bool) {
	c.targetX = x - c.viewportWidth/2/c.zoom
	c.targetY = y - c.viewportHeight/2/c.zoom
	if !smooth {
		c.x = c.targetX
		c.y = c.targetY
	}
	c.clampPosition()
}

// CenterOnGrid points the viewport center at the middle of a grid tile.
func (c *Camera) CenterOnGrid(gx, gy int, smooth bool) {
	wx, wy := c.GridToWorld(gx, gy)
	c.MoveTo(wx, wy, smooth)
}

// Shake starts a shake effect: duration in seconds, intensity in pixels.
// A new shake replaces any running one.
func (c *Camera) Shake(duration, intensity float64) {
	c.shakeDuration = duration
	c.shakeIntensity = intensity
}

// Update advances smooth movement, zoom easing, and the shake effect, then
// clamps the camera to the world bounds.
func (c *Camera) Update(dt time.Duration) {
	seconds := dt.Seconds()
	c.updateSmoothMovement(seconds)
	c.updateShake(seconds)
	c.clampPosition()
}

// updateSmoothMovement eases position and zoom toward their targets. The
// factor keeps the easing rate independent of frame length.
func (c *Camera) updateSmoothMovement(seconds float64) {
	lerp := 1.0 - math.Pow(0.1, seconds)

	c.x += (c.targetX - c.x) * lerp
	c.y += (c.targetY - c.y) * lerp
	c.zoom += (c.targetZoom - c.zoom) * lerp
}

// updateShake rolls new projection offsets while a shake runs, fading the
// intensity through the final half second.
func (c *Camera) updateShake(seconds float64) {
	if c.shakeDuration <= 0 {
		return
	}
	c.shakeDuration -= seconds

	intensity := c.shakeIntensity
	if c.shakeDuration < shakeFadeWindow {
		intensity *= c.shakeDuration / shakeFadeWindow
	}

	c.shakeOffsetX = (rand.Float64()*2 - 1) * intensity
	c.shakeOffsetY = (rand.Float64()*2 - 1) * intensity

	if c.shakeDuration <= 0 {
		c.shakeDuration = 0
		c.shakeOffsetX = 0
		c.shakeOffsetY = 0
	}
}

// clampPosition keeps the camera inside the world. A world smaller than
// the effective viewport pins the camera to the origin.
func (c *Camera) clampPosition() {
	maxX := c.worldWidth - c.viewportWidth/c.zoom
	maxY := c.worldHeight - c.viewportHeight/c.zoom
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}

	c.targetX = math.Max(0, math.Min(c.targetX, maxX))
	c.targetY = math.Max(0, math.Min(c.targetY, maxY))
	c.x = math.Max(0, math.Min(c.x, maxX))
	c.y = math.Max(0, math.Min(c.y, maxY))
}

// WorldToScreen projects a world coordinate into screen space, applying
// camera offset, zoom, and shake.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx-c.x)*c.zoom + c.shakeOffsetX, (wy-c.y)*c.zoom + c.shakeOffsetY
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx-c.shakeOffsetX)/c.zoom + c.x, (sy-c.shakeOffsetY)/c.zoom + c.y
}

// IsVisible reports whether a world-space rectangle overlaps the viewport,
// widened by half the rectangle's size as a buffer.
func (c *Camera) IsVisible(wx, wy, width, height float64) bool {
	viewLeft := c.x - width*0.5
	viewRight := c.x + c.viewportWidth/c.zoom + width*0.5
	viewTop := c.y - height*0.5
	viewBottom := c.y + c.viewportHeight/c.zoom + height*0.5

	if wx+width < viewLeft || wx > viewRight || wy+height < viewTop || wy > viewBottom {
		return false
	}
	return true
}

// WorldToGrid converts a world coordinate to the grid cell containing it.
func (c *Camera) WorldToGrid(wx, wy float64) (int, int) {
	return int(wx / c.tileSize), int(wy / c.tileSize)
}

// GridToWorld converts a grid cell to the world coordinate of its center.
func (c *Camera) GridToWorld(gx, gy int) (float64, float64) {
	return float64(gx)*c.tileSize + c.tileSize/2, float64(gy)*c.tileSize + c.tileSize/2
}

// VisibleGridBounds returns the grid rectangle the viewport currently
// covers. The max edge overshoots by one cell; callers clip to the map.
func (c *Camera) VisibleGridBounds() (minX, minY, maxX, maxY int) {
	minX = int(c.x / c.tileSize)
	minY = int(c.y / c.tileSize)
	maxX = int((c.x+c.viewportWidth/c.zoom)/c.tileSize) + 1
	maxY = int((c.y+c.viewportHeight/c.zoom)/c.tileSize) + 1
	return minX, minY, maxX, maxY
}

// SetViewport resizes the viewport, e.g. after a terminal resize.
func (c *Camera) SetViewport(width, height int) {
	c.viewportWidth = float64(width)
	c.viewportHeight = float64(height)
	c.clampPosition()
}

// Reset returns the camera to the origin at normal zoom with no effects.
func (c *Camera) Reset() {
	c.x = 0
	c.y = 0
	c.targetX = 0
	c.targetY = 0
	c.zoom = 1.0
	c.targetZoom = 1.0
	c.shakeDuration = 0
	c.shakeIntensity = 0
	c.shakeOffsetX = 0
	c.shakeOffsetY = 0
}
