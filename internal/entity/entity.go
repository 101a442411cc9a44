// Package entity provides the objects that occupy map coordinates.
package entity

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/shattercrown/internal/world"
)

// Entity represents a placeable world object: the player, a creature, or
// an interactable prop. Identity is a uuid issued at construction, so two
// entities with the same name never collide in the map's index.
type Entity struct {
	Name  string      // Display name (e.g., "Wolf")
	Glyph rune        // Display symbol
	Color tcell.Color // Display color

	id   uuid.UUID
	x, y int
}

// New creates an entity with a fresh identity. It starts at (0, 0) and has
// no cell on any map until it is placed.
func New(name string, glyph rune, color tcell.Color) *Entity {
	return &Entity{
		Name:  name,
		Glyph: glyph,
		Color: color,
		id:    uuid.New(),
	}
}

// NewPlayer creates the player entity with the traditional glyph.
func NewPlayer(name string) *Entity {
	return New(name, '@', tcell.ColorWhite)
}

// ID returns the entity's stable unique identifier.
func (e *Entity) ID() uuid.UUID { return e.id }

// Position returns the entity's current x, y coordinates.
func (e *Entity) Position() (int, int) { return e.x, e.y }

// SetPosition records the entity's position. The map calls this when a
// placement succeeds; callers should place through the map so the entity
// index stays in sync.
func (e *Entity) SetPosition(x, y int) {
	e.x = x
	e.y = y
}

// String returns the name with a short identity suffix for logs.
func (e *Entity) String() string {
	return fmt.Sprintf("%s[%s]", e.Name, e.id.String()[:8])
}

// Ensure Entity implements world.Entity
var _ world.Entity = (*Entity)(nil)
