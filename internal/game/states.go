package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/shattercrown/internal/entity"
	"github.com/samdwyer/shattercrown/internal/input"
	"github.com/samdwyer/shattercrown/internal/mapgen"
	"github.com/samdwyer/shattercrown/internal/persistence"
	"github.com/samdwyer/shattercrown/internal/ui"
	"github.com/samdwyer/shattercrown/internal/world"
)

// stateRenderer is implemented by states that draw themselves. The loop
// renders the active state only; dormant states stay off screen.
type stateRenderer interface {
	Render(r *ui.Renderer)
}

const (
	quickSaveName = "quicksave"
	defaultHero   = "Aveline"

	// poisonLimit is how many poisoned steps the player survives.
	poisonLimit = 3

	// autoWalkStep paces auto-travel along a found path.
	autoWalkStep = 120 * time.Millisecond
)

// --- title ---

type titleState struct {
	g        *Game
	items    []string
	selected int
}

func newTitleState(g *Game) *titleState {
	return &titleState{
		g:     g,
		items: []string{"New Journey", "Continue", "Quit"},
	}
}

func (s *titleState) Enter(args Args) { s.selected = 0 }
func (s *titleState) Exit() Args { return nil }
func (s *titleState) Pause() {}
func (s *titleState) Resume() {}

func (s *titleState) Update(dt time.Duration) {}

func (s *titleState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerTitle) {
	case input.ActionMenuUp:
		s.selected = (s.selected + len(s.items) - 1) % len(s.items)
	case input.ActionMenuDown:
		s.selected = (s.selected + 1) % len(s.items)
	case input.ActionConfirm:
		switch s.selected {
		case 0:
			s.g.manager.RequestStateChange(StateOverworld, Args{"load": false})
		case 1:
			s.g.manager.RequestStateChange(StateOverworld, Args{"load": true})
		case 2:
			s.g.Quit()
		}
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *titleState) Render(r *ui.Renderer) {
	r.RenderMenu(s.g.cfg.Title, s.items, s.selected)
	r.RenderStatus("arrows/jk move, enter selects")
}

// --- overworld ---

type overworldState struct {
	g      *Game
	m      *world.Map
	gen    *mapgen.Generator
	player *entity.Entity

	poison    int
	nextStop  int
	autoPath  []world.Coord
	walkTimer time.Duration
	status    string
}

func newOverworldState(g *Game) *overworldState {
	return &overworldState{g: g}
}

// Enter builds the playable map: a fresh generated overworld, or the
// quicksave when args ask for a load and one exists. Carryover from the
// previous state may supply the hero's name.
func (s *overworldState) Enter(args Args) {
	name, _ := args["player_name"].(string)
	if name == "" {
		name = defaultHero
	}
	s.player = entity.NewPlayer(name)
	s.poison = 0
	s.nextStop = 0
	s.autoPath = nil
	s.walkTimer = 0
	s.status = fmt.Sprintf("%s sets out into the wilds.", name)

	cfg := s.g.cfg
	s.m = world.NewMap(cfg.MapWidth, cfg.MapHeight)
	s.m.SetWeightedPaths(cfg.WeightedPaths)
	s.gen = nil

	loaded := false
	if wantLoad, _ := args["load"].(bool); wantLoad && s.g.store != nil {
		snap, err := s.g.store.LoadMap(s.g.ctx, quickSaveName)
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			s.status = "No saved journey found; starting anew."
		case err != nil:
			log.WithError(err).Warn("quicksave unreadable, starting anew")
		default:
			if err := s.m.LoadState(snap); err != nil {
				log.WithError(err).Warn("quicksave rejected, starting anew")
			} else {
				loaded = true
				s.status = "The journey continues."
			}
		}
	}

	var x, y int
	if loaded {
		x, y = s.findOpenCell()
	} else {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.gen = mapgen.NewGenerator(seed, s.g.registry)
		if err := s.gen.Generate(s.g.ctx, s.m); err != nil {
			log.WithError(err).Error("overworld generation failed")
		}
		x, y = s.gen.StartPosition()
		if x < 0 {
			x, y = s.findOpenCell()
		}
	}

	s.spawnAt(x, y)
}

func (s *overworldState) Exit() Args {
	return Args{"player_name": s.player.Name}
}

// Pause stops auto-travel so the player does not keep walking under an
// overlay.
func (s *overworldState) Pause() {
	s.autoPath = nil
}

func (s *overworldState) Resume() {
	px, py := s.player.Position()
	s.g.cam.CenterOnGrid(px, py, false)
	s.status = ""
}

func (s *overworldState) Update(dt time.Duration) {
	if s.m == nil || len(s.autoPath) == 0 {
		return
	}

	s.walkTimer += dt
	if s.walkTimer < autoWalkStep {
		return
	}
	s.walkTimer = 0

	next := s.autoPath[0]
	if !s.stepTo(next.X, next.Y) {
		s.autoPath = nil
		s.status = "The way ahead has closed."
		return
	}
	s.autoPath = s.autoPath[1:]
	if len(s.autoPath) == 0 {
		s.status = "You arrive."
	}
}

func (s *overworldState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerWorld) {
	case input.ActionMoveUp:
		s.moveBy(0, -1)
	case input.ActionMoveDown:
		s.moveBy(0, 1)
	case input.ActionMoveLeft:
		s.moveBy(-1, 0)
	case input.ActionMoveRight:
		s.moveBy(1, 0)
	case input.ActionWait:
		px, py := s.player.Position()
		s.m.UpdateFogOfWar(world.Coord{X: px, Y: py}, s.g.cfg.FogRadius)
		s.status = "You wait and watch."
	case input.ActionInteract:
		s.travelToNextClearing()
	case input.ActionOpenInventory:
		s.g.manager.PushState(StateInventory, nil)
	case input.ActionOpenQuestLog:
		s.g.manager.PushState(StateQuestLog, nil)
	case input.ActionQuickSave:
		s.quickSave()
	case input.ActionQuickLoad:
		s.quickLoad()
	case input.ActionZoomIn:
		s.g.cam.SetZoom(s.g.cam.Zoom()*1.25, true)
	case input.ActionZoomOut:
		s.g.cam.SetZoom(s.g.cam.Zoom()/1.25, true)
	case input.ActionPause:
		s.g.manager.PushState(StatePause, nil)
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *overworldState) Render(r *ui.Renderer) {
	if s.m == nil {
		return
	}
	r.RenderMap(s.m, s.g.cam, []*entity.Entity{s.player})
	px, py := s.player.Position()
	r.RenderStatus(fmt.Sprintf("%s (%d,%d)  seen %d  %s",
		s.player.Name, px, py, s.m.RevealedCount(), s.status))
}

// moveBy is a manual step; it cancels any auto-travel in progress.
func (s *overworldState) moveBy(dx, dy int) {
	s.autoPath = nil
	px, py := s.player.Position()
	if !s.stepTo(px+dx, py+dy) {
		s.status = "The way is blocked."
		s.g.cam.Shake(0.15, float64(s.g.cfg.TileSize)/4)
	}
}

// stepTo moves the player one cell through the map's placement primitive,
// then refreshes fog, camera, and tile effects.
func (s *overworldState) stepTo(x, y int) bool {
	if !s.m.PlaceEntity(s.player, x, y) {
		return false
	}
	s.m.UpdateFogOfWar(world.Coord{X: x, Y: y}, s.g.cfg.FogRadius)
	s.g.cam.CenterOnGrid(x, y, true)
	s.applyTileEffects(x, y)
	return true
}

// applyTileEffects reads the entered tile's effect payload. Enough poison
// ends the journey; the transition queues so the current frame finishes
// cleanly.
func (s *overworldState) applyTileEffects(x, y int) {
	t, ok := s.m.GetTile(x, y)
	if !ok {
		return
	}
	if _, poisoned := t.Effects["poison"]; poisoned {
		s.poison++
		s.status = fmt.Sprintf("The mire burns your skin (%d/%d).", s.poison, poisonLimit)
		if s.poison >= poisonLimit {
			s.g.manager.RequestStateChange(StateGameOver, Args{
				"cause": fmt.Sprintf("The mire's poison overcomes %s.", s.player.Name),
			})
		}
	}
}

// travelToNextClearing pathfinds to the next clearing center and starts
// walking there. The stops cycle so repeated travel tours the map.
func (s *overworldState) travelToNextClearing() {
	if s.gen == nil || len(s.gen.Clearings) == 0 {
		s.status = "No roads to follow here."
		return
	}

	clearing := s.gen.Clearings[s.nextStop%len(s.gen.Clearings)]
	s.nextStop++
	tx, ty := clearing.Center()

	px, py := s.player.Position()
	path := s.m.FindPath(world.Coord{X: px, Y: py}, world.Coord{X: tx, Y: ty})
	if len(path) <= 1 {
		s.status = "No path leads there."
		return
	}

	s.autoPath = path[1:]
	s.walkTimer = 0
	s.status = fmt.Sprintf("You follow the road (%d steps).", len(s.autoPath))
}

func (s *overworldState) quickSave() {
	if s.g.store == nil {
		s.status = "No save store available."
		return
	}
	if err := s.g.store.SaveMap(s.g.ctx, quickSaveName, s.m.SaveState()); err != nil {
		log.WithError(err).Error("quicksave failed")
		s.status = "Saving failed."
		return
	}
	s.status = "Journey saved."
}

func (s *overworldState) quickLoad() {
	if s.g.store == nil {
		s.status = "No save store available."
		return
	}
	snap, err := s.g.store.LoadMap(s.g.ctx, quickSaveName)
	if errors.Is(err, persistence.ErrNotFound) {
		s.status = "No saved journey found."
		return
	}
	if err != nil {
		log.WithError(err).Error("quickload failed")
		s.status = "Loading failed."
		return
	}
	if err := s.m.LoadState(snap); err != nil {
		log.WithError(err).Error("quickload rejected")
		s.status = "The save is corrupted."
		return
	}

	// LoadState clears the entity index, so the player must be placed
	// again; fall back to any open cell if the old spot is now blocked.
	px, py := s.player.Position()
	if !s.m.PlaceEntity(s.player, px, py) {
		px, py = s.findOpenCell()
		s.m.PlaceEntity(s.player, px, py)
	}
	s.m.UpdateFogOfWar(world.Coord{X: px, Y: py}, s.g.cfg.FogRadius)
	s.g.cam.CenterOnGrid(px, py, false)
	s.autoPath = nil
	s.poison = 0
	s.status = "Journey restored."
}

// spawnAt places the player, scanning for an open cell when the requested
// one is blocked, then initializes fog and camera.
func (s *overworldState) spawnAt(x, y int) {
	if !s.m.PlaceEntity(s.player, x, y) {
		x, y = s.findOpenCell()
		if !s.m.PlaceEntity(s.player, x, y) {
			log.WithFields(logrus.Fields{"x": x, "y": y}).Error("no open cell to spawn player")
			return
		}
	}
	s.m.UpdateFogOfWar(world.Coord{X: x, Y: y}, s.g.cfg.FogRadius)
	s.g.cam.CenterOnGrid(x, y, false)
}

// findOpenCell returns the first unblocked coordinate in row-major order.
func (s *overworldState) findOpenCell() (int, int) {
	for y := 0; y < s.m.Height(); y++ {
		for x := 0; x < s.m.Width(); x++ {
			if !s.m.IsBlocked(x, y) {
				return x, y
			}
		}
	}
	return 0, 0
}

// --- pause ---

type pauseState struct {
	g        *Game
	items    []string
	selected int
}

func newPauseState(g *Game) *pauseState {
	return &pauseState{
		g:     g,
		items: []string{"Resume", "Return to Title", "Quit Game"},
	}
}

func (s *pauseState) Enter(args Args) { s.selected = 0 }
func (s *pauseState) Exit() Args { return nil }
func (s *pauseState) Pause() {}
func (s *pauseState) Resume() {}
func (s *pauseState) Update(dt time.Duration) {}

func (s *pauseState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerMenu) {
	case input.ActionMenuUp:
		s.selected = (s.selected + len(s.items) - 1) % len(s.items)
	case input.ActionMenuDown:
		s.selected = (s.selected + 1) % len(s.items)
	case input.ActionConfirm:
		switch s.selected {
		case 0:
			s.g.manager.PopState()
		case 1:
			s.g.manager.RequestStateChange(StateTitle, nil)
		case 2:
			s.g.Quit()
		}
	case input.ActionCancel:
		s.g.manager.PopState()
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *pauseState) Render(r *ui.Renderer) {
	r.RenderMenu("Paused", s.items, s.selected)
	r.RenderStatus("esc resumes")
}

// --- inventory ---

type inventoryState struct {
	g     *Game
	lines []string
}

func newInventoryState(g *Game) *inventoryState {
	return &inventoryState{
		g: g,
		lines: []string{
			"Traveler's cloak",
			"Waterskin",
			"Map of the Shattered Crown",
		},
	}
}

func (s *inventoryState) Enter(args Args) {}
func (s *inventoryState) Exit() Args { return nil }
func (s *inventoryState) Pause() {}
func (s *inventoryState) Resume() {}
func (s *inventoryState) Update(dt time.Duration) {}

func (s *inventoryState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerMenu) {
	case input.ActionCancel, input.ActionConfirm:
		s.g.manager.PopState()
	case input.ActionMenuUp, input.ActionMenuDown:
		// Nothing to select yet; consume so movement keys do not leak
		// through to the world underneath.
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *inventoryState) Render(r *ui.Renderer) {
	r.RenderLines("Inventory", s.lines)
	r.RenderStatus("esc closes")
}

// --- quest log ---

type questLogState struct {
	g     *Game
	lines []string
}

func newQuestLogState(g *Game) *questLogState {
	return &questLogState{
		g: g,
		lines: []string{
			"* Reach the ruined keep beyond the mire",
			"* Chart every clearing on the old road",
		},
	}
}

func (s *questLogState) Enter(args Args) {}
func (s *questLogState) Exit() Args { return nil }
func (s *questLogState) Pause() {}
func (s *questLogState) Resume() {}
func (s *questLogState) Update(dt time.Duration) {}

func (s *questLogState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerMenu) {
	case input.ActionCancel, input.ActionConfirm:
		s.g.manager.PopState()
	case input.ActionMenuUp, input.ActionMenuDown:
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *questLogState) Render(r *ui.Renderer) {
	r.RenderLines("Quest Log", s.lines)
	r.RenderStatus("esc closes")
}

// --- game over ---

type gameOverState struct {
	g     *Game
	cause string
}

func newGameOverState(g *Game) *gameOverState {
	return &gameOverState{g: g}
}

func (s *gameOverState) Enter(args Args) {
	s.cause, _ = args["cause"].(string)
	if s.cause == "" {
		s.cause = "Your journey ends."
	}
}

func (s *gameOverState) Exit() Args { return nil }
func (s *gameOverState) Pause() {}
func (s *gameOverState) Resume() {}
func (s *gameOverState) Update(dt time.Duration) {}

func (s *gameOverState) HandleEvent(ev tcell.Event) bool {
	switch s.g.mapper.Translate(ev, input.LayerMenu) {
	case input.ActionConfirm, input.ActionCancel:
		s.g.manager.RequestStateChange(StateTitle, nil)
	case input.ActionQuit:
		s.g.Quit()
	default:
		return false
	}
	return true
}

func (s *gameOverState) Render(r *ui.Renderer) {
	r.RenderLines("Game Over", []string{s.cause})
	r.RenderStatus("enter returns to the title")
}

var (
	_ State = (*titleState)(nil)
	_ State = (*overworldState)(nil)
	_ State = (*pauseState)(nil)
	_ State = (*inventoryState)(nil)
	_ State = (*questLogState)(nil)
	_ State = (*gameOverState)(nil)
)
