// Package world provides the tile grid, pathfinding, visibility, and map
// management.
package world

import "fmt"

// TileType identifies the terrain variant of a tile. The set is closed;
// persisted tags outside it are rejected on load.
type TileType int

const (
	// TileEmpty is the default non-blocking terrain of a fresh map.
	TileEmpty TileType = iota
	// TileGrass is open walkable ground.
	TileGrass
	// TileRoad is cleared ground, cheap to traverse.
	TileRoad
	// TileForest is walkable but slow terrain.
	TileForest
	// TileWater is shallow water, walkable at a high cost.
	TileWater
	// TileDeepWater is impassable water.
	TileDeepWater
	// TileWall is impassable construction.
	TileWall
	// TileMountain is impassable high terrain.
	TileMountain
	// TileSwamp is walkable but slow and hazardous terrain.
	TileSwamp
)

// String returns the persistent tag for the tile type.
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileGrass:
		return "grass"
	case TileRoad:
		return "road"
	case TileForest:
		return "forest"
	case TileWater:
		return "water"
	case TileDeepWater:
		return "deep_water"
	case TileWall:
		return "wall"
	case TileMountain:
		return "mountain"
	case TileSwamp:
		return "swamp"
	default:
		return "unknown"
	}
}

// ParseTileType maps a persistent tag back to its TileType.
func ParseTileType(tag string) (TileType, error) {
	switch tag {
	case "empty":
		return TileEmpty, nil
	case "grass":
		return TileGrass, nil
	case "road":
		return TileRoad, nil
	case "forest":
		return TileForest, nil
	case "water":
		return TileWater, nil
	case "deep_water":
		return TileDeepWater, nil
	case "wall":
		return TileWall, nil
	case "mountain":
		return TileMountain, nil
	case "swamp":
		return TileSwamp, nil
	default:
		return TileEmpty, fmt.Errorf("unknown tile type %q", tag)
	}
}

// Tile represents a single map cell: a terrain type plus the movement
// properties the pathfinder and collision checks read. Tiles are plain
// values owned by the grid slot that holds them; replacing a slot discards
// the old value.
type Tile struct {
	Type     TileType
	Blocking bool
	MoveCost int
	Effects  map[string]any
}

// NewTile creates a tile of the given type. Movement cost is clamped to a
// minimum of 1 so step costs never collapse to zero.
func NewTile(typ TileType, blocking bool, moveCost int) Tile {
	if moveCost < 1 {
		moveCost = 1
	}
	return Tile{
		Type:     typ,
		Blocking: blocking,
		MoveCost: moveCost,
		Effects:  make(map[string]any),
	}
}

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return !t.Blocking
}
