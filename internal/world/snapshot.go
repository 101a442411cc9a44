package world

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Snapshot is the persistent form of a map: dimensions, row-major tiles,
// and the revealed set. The currently-visible set is deliberately absent;
// callers recompute it with UpdateFogOfWar after loading.
type Snapshot struct {
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	Grid          []TileRecord `json:"grid"`
	RevealedTiles [][2]int     `json:"revealed_tiles"`
}

// TileRecord is the persistent form of a single tile. Animation and other
// visual state never persist.
type TileRecord struct {
	Type         string         `json:"type"`
	Blocking     bool           `json:"blocking"`
	MovementCost int            `json:"movement_cost"`
	Effects      map[string]any `json:"effects"`
}

// SaveState captures the map into a snapshot. The snapshot owns copies of
// the effect payloads, so later tile edits do not leak into it.
func (m *Map) SaveState() *Snapshot {
	snap := &Snapshot{
		Width:  m.grid.Width,
		Height: m.grid.Height,
		Grid:   make([]TileRecord, 0, m.grid.Width*m.grid.Height),
	}

	for y := 0; y < m.grid.Height; y++ {
		for x := 0; x < m.grid.Width; x++ {
			t, _ := m.grid.Get(x, y)
			snap.Grid = append(snap.Grid, recordTile(t))
		}
	}

	revealed := m.vis.RevealedCoords()
	snap.RevealedTiles = make([][2]int, 0, len(revealed))
	for _, c := range revealed {
		snap.RevealedTiles = append(snap.RevealedTiles, [2]int{c.X, c.Y})
	}

	return snap
}

// LoadState replaces the map's grid and revealed set with the snapshot's
// contents. Malformed snapshots are the one hard failure in the map API:
// bad dimensions, unknown tile tags, non-positive movement costs, and
// out-of-bounds revealed coordinates all return an error and leave the map
// untouched. The entity index is cleared on success, since placements from
// the old grid have no meaning on the new one, and the visible set starts
// empty until the next fog update.
func (m *Map) LoadState(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("load map: nil snapshot")
	}
	if snap.Width <= 0 || snap.Height <= 0 {
		return fmt.Errorf("load map: invalid dimensions %dx%d", snap.Width, snap.Height)
	}
	if len(snap.Grid) != snap.Width*snap.Height {
		return fmt.Errorf("load map: grid has %d tiles, want %d", len(snap.Grid), snap.Width*snap.Height)
	}

	grid := NewGrid(snap.Width, snap.Height)
	for i, rec := range snap.Grid {
		t, err := tileFromRecord(rec)
		if err != nil {
			return fmt.Errorf("load map: tile %d: %w", i, err)
		}
		grid.Set(i%snap.Width, i/snap.Width, t)
	}

	vis := NewVisibility()
	for _, pair := range snap.RevealedTiles {
		if !grid.InBounds(pair[0], pair[1]) {
			return fmt.Errorf("load map: revealed tile (%d,%d) out of bounds", pair[0], pair[1])
		}
		vis.Reveal(Coord{X: pair[0], Y: pair[1]})
	}

	m.grid = grid
	m.vis = vis
	m.occupied = make(map[Coord]uuid.UUID)
	m.byID = make(map[uuid.UUID]placement)

	log.WithFields(logrus.Fields{
		"width":    snap.Width,
		"height":   snap.Height,
		"revealed": len(snap.RevealedTiles),
	}).Debug("map state loaded")

	return nil
}

// recordTile converts a tile into its persistent form.
func recordTile(t Tile) TileRecord {
	return TileRecord{
		Type:         t.Type.String(),
		Blocking:     t.Blocking,
		MovementCost: t.MoveCost,
		Effects:      copyEffects(t.Effects),
	}
}

// tileFromRecord converts a persistent tile back into a live one.
func tileFromRecord(rec TileRecord) (Tile, error) {
	typ, err := ParseTileType(rec.Type)
	if err != nil {
		return Tile{}, err
	}
	if rec.MovementCost < 1 {
		return Tile{}, fmt.Errorf("invalid movement cost %d", rec.MovementCost)
	}

	t := NewTile(typ, rec.Blocking, rec.MovementCost)
	for k, v := range rec.Effects {
		t.Effects[k] = v
	}
	return t, nil
}

// copyEffects shallow-copies an effect payload map, never returning nil.
func copyEffects(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
