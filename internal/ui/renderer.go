package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/shattercrown/internal/camera"
	"github.com/samdwyer/shattercrown/internal/entity"
	"github.com/samdwyer/shattercrown/internal/gamedata"
	"github.com/samdwyer/shattercrown/internal/world"
)

// fogDim is how far a revealed-but-unseen tile's color blends toward
// black.
const fogDim = 0.65

// tileLook is a tile type's display data with precomputed lit and dimmed
// styles.
type tileLook struct {
	glyph rune
	lit   tcell.Style
	dim   tcell.Style
}

// Renderer draws the world through the camera. Tiles never seen stay
// black, tiles seen before but out of sight draw dimmed, and entities draw
// only on tiles in current line of sight.
type Renderer struct {
	screen *Screen
	looks  map[world.TileType]tileLook
}

// NewRenderer creates a renderer over the screen, precomputing styles from
// the tile registry. Types without a registered definition render as '?'.
func NewRenderer(screen *Screen, reg *gamedata.TileRegistry) *Renderer {
	r := &Renderer{
		screen: screen,
		looks:  make(map[world.TileType]tileLook, reg.Count()),
	}

	for _, def := range reg.All() {
		typ, err := world.ParseTileType(def.ID)
		if err != nil {
			// Registry construction already validated tags
			continue
		}
		color, err := def.ParseColor()
		if err != nil {
			continue
		}
		r.looks[typ] = tileLook{
			glyph: def.Rune(),
			lit:   tcell.StyleDefault.Foreground(color),
			dim:   tcell.StyleDefault.Foreground(dimColor(color)),
		}
	}

	return r
}

// dimColor blends a color toward black in Lab space, which keeps dimmed
// terrain distinguishable better than scaling RGB does.
func dimColor(c tcell.Color) tcell.Color {
	cr, cg, cb := c.RGB()
	col := colorful.Color{R: float64(cr) / 255, G: float64(cg) / 255, B: float64(cb) / 255}
	dimmed := col.BlendLab(colorful.Color{}, fogDim).Clamped()
	dr, dg, db := dimmed.RGB255()
	return tcell.NewRGBColor(int32(dr), int32(dg), int32(db))
}

// RenderMap draws every revealed tile the camera can see, then the given
// entities on top. Entities outside current line of sight are hidden even
// when their tile is revealed.
func (r *Renderer) RenderMap(m *world.Map, cam *camera.Camera, ents []*entity.Entity) {
	minX, minY, maxX, maxY := cam.VisibleGridBounds()
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > m.Width() {
		maxX = m.Width()
	}
	if maxY > m.Height() {
		maxY = m.Height()
	}

	for gy := minY; gy < maxY; gy++ {
		for gx := minX; gx < maxX; gx++ {
			c := world.Coord{X: gx, Y: gy}
			if !m.IsRevealed(c) {
				continue
			}
			tile, ok := m.GetTile(gx, gy)
			if !ok {
				continue
			}
			look, ok := r.looks[tile.Type]
			if !ok {
				look = tileLook{glyph: '?', lit: tcell.StyleDefault, dim: tcell.StyleDefault}
			}
			style := look.dim
			if m.IsVisible(c) {
				style = look.lit
			}
			r.screen.SetContent(gx-minX, gy-minY, look.glyph, style)
		}
	}

	for _, e := range ents {
		ex, ey := e.Position()
		if !m.IsVisible(world.Coord{X: ex, Y: ey}) {
			continue
		}
		wx, wy := cam.GridToWorld(ex, ey)
		if !cam.IsVisible(wx, wy, 1, 1) {
			continue
		}
		style := tcell.StyleDefault.Foreground(e.Color).Bold(true)
		r.screen.SetContent(ex-minX, ey-minY, e.Glyph, style)
	}
}

// RenderStatus draws a message on the bottom row, padded across the full
// width so stale text never lingers.
func (r *Renderer) RenderStatus(msg string) {
	width, height := r.screen.Size()
	y := height - 1
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	x := 0
	for _, ch := range msg {
		if x >= width {
			break
		}
		r.screen.SetContent(x, y, ch, style)
		x++
	}
	for ; x < width; x++ {
		r.screen.SetContent(x, y, ' ', style)
	}
}

// RenderMenu draws a titled vertical menu centered on the screen, with the
// selected item highlighted.
func (r *Renderer) RenderMenu(title string, items []string, selected int) {
	width, height := r.screen.Size()
	top := height/2 - (len(items)+2)/2
	if top < 0 {
		top = 0
	}

	r.renderCentered(title, top, width, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	for i, item := range items {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		label := "  " + item + "  "
		if i == selected {
			style = style.Reverse(true)
			label = "> " + item + " <"
		}
		r.renderCentered(label, top+2+i, width, style)
	}
}

// RenderLines draws an overlay: a centered heading and left-aligned text
// lines below it, used by screens like the quest log and inventory.
func (r *Renderer) RenderLines(heading string, lines []string) {
	width, _ := r.screen.Size()
	r.renderCentered(heading, 1, width, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, line := range lines {
		x := 2
		for _, ch := range line {
			r.screen.SetContent(x, 3+i, ch, style)
			x++
		}
	}
}

func (r *Renderer) renderCentered(text string, y, width int, style tcell.Style) {
	x := (width - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
