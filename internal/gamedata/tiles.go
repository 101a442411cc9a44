package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shattercrown/internal/world"
)

// TileDef describes one terrain type as loaded from tiles.json.
type TileDef struct {
	// ID is the persistent tile type tag; it must name a known terrain.
	ID string `json:"id"`
	// Name is the label shown when the tile is inspected.
	Name string `json:"name"`
	// Glyph is the character the renderer draws for the tile.
	Glyph string `json:"glyph"`
	// Color is the foreground color in #RRGGBB form.
	Color string `json:"color"`
	// Blocking marks terrain that cannot be entered or seen through.
	Blocking bool `json:"blocking"`
	// MovementCost prices entering the tile when weighted paths are on.
	MovementCost int `json:"movement_cost"`
	// Effects carries optional gameplay payloads keyed by effect name.
	Effects map[string]any `json:"effects,omitempty"`
}

// Rune returns the definition's display character.
func (d *TileDef) Rune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return ' '
}

// ParseColor returns the definition's foreground color.
func (d *TileDef) ParseColor() (tcell.Color, error) {
	return ParseHexColor(d.Color)
}

// Tile converts the definition into a live world tile.
func (d *TileDef) Tile() (world.Tile, error) {
	typ, err := world.ParseTileType(d.ID)
	if err != nil {
		return world.Tile{}, err
	}

	t := world.NewTile(typ, d.Blocking, d.MovementCost)
	for k, v := range d.Effects {
		t.Effects[k] = v
	}
	return t, nil
}

// TileRegistry holds validated tile definitions keyed by type tag.
type TileRegistry struct {
	defs map[string]*TileDef
	all  []TileDef
}

// NewTileRegistry creates a registry from loaded tile definitions. Every
// definition must carry a known type tag, a glyph, a parseable color, and
// a movement cost of at least 1; duplicates are rejected.
func NewTileRegistry(defs []TileDef) (*TileRegistry, error) {
	if len(defs) == 0 {
		return nil, errors.New("no tile definitions")
	}

	registry := &TileRegistry{
		defs: make(map[string]*TileDef, len(defs)),
		all:  defs,
	}

	for i := range registry.all {
		def := &registry.all[i]
		if _, err := world.ParseTileType(def.ID); err != nil {
			return nil, fmt.Errorf("tile definition %d: %w", i, err)
		}
		if _, dup := registry.defs[def.ID]; dup {
			return nil, fmt.Errorf("duplicate tile definition %q", def.ID)
		}
		if def.Glyph == "" {
			return nil, fmt.Errorf("tile definition %q: empty glyph", def.ID)
		}
		if _, err := ParseHexColor(def.Color); err != nil {
			return nil, fmt.Errorf("tile definition %q: %w", def.ID, err)
		}
		if def.MovementCost < 1 {
			return nil, fmt.Errorf("tile definition %q: movement cost %d below 1", def.ID, def.MovementCost)
		}
		registry.defs[def.ID] = def
	}

	return registry, nil
}

// LoadTileRegistry loads and validates the embedded tiles.json.
func LoadTileRegistry() (*TileRegistry, error) {
	defs, err := Load[[]TileDef]("tiles.json")
	if err != nil {
		return nil, err
	}
	return NewTileRegistry(defs)
}

// MustLoadTileRegistry loads the tile registry, panicking on error.
func MustLoadTileRegistry() *TileRegistry {
	registry, err := LoadTileRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the tile definition with the given tag, or nil if not
// found.
func (r *TileRegistry) GetByID(id string) *TileDef {
	return r.defs[id]
}

// ByType returns the definition for a tile type, or nil if none is
// registered.
func (r *TileRegistry) ByType(t world.TileType) *TileDef {
	return r.defs[t.String()]
}

// All returns all tile definitions in file order.
func (r *TileRegistry) All() []TileDef {
	return r.all
}

// Count returns the number of tile definitions in the registry.
func (r *TileRegistry) Count() int {
	return len(r.all)
}
