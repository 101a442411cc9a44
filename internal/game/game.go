package game

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shattercrown/internal/camera"
	"github.com/samdwyer/shattercrown/internal/gamedata"
	"github.com/samdwyer/shattercrown/internal/input"
	"github.com/samdwyer/shattercrown/internal/persistence"
	"github.com/samdwyer/shattercrown/internal/resources"
	"github.com/samdwyer/shattercrown/internal/telemetry"
	"github.com/samdwyer/shattercrown/internal/ui"
)

var log = logrus.WithField("component", "game")

// bindingsAsset is the optional key-binding override file below the data
// directory, addressed as kind/id through the resource cache.
const (
	bindingsKind = "input"
	bindingsFile = "bindings.json"
)

// Game owns the screen, the state manager, and every collaborator the
// states share. One instance runs one play session.
type Game struct {
	cfg      *Config
	screen   *ui.Screen
	renderer *ui.Renderer
	registry *gamedata.TileRegistry
	mapper   *input.Mapper
	manager  *Manager
	cam      *camera.Camera
	store    persistence.Store
	res      *resources.Cache

	// ctx is the run context, captured so event handlers can pass it to
	// the store without threading it through every callback.
	ctx     context.Context
	running bool
}

// New creates a game over an initialized terminal screen. The store is
// borrowed, not owned; the caller closes it.
func New(cfg *Config, store persistence.Store) (*Game, error) {
	registry, err := gamedata.LoadTileRegistry()
	if err != nil {
		return nil, fmt.Errorf("load tile registry: %w", err)
	}

	res, err := resources.NewCache(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		res.Close()
		return nil, fmt.Errorf("init screen: %w", err)
	}

	width, height := screen.Size()

	g := &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen, registry),
		registry: registry,
		mapper:   input.NewMapper(),
		manager:  NewManager(),
		cam:      newCamera(cfg, width, height),
		store:    store,
		res:      res,
		ctx:      context.Background(),
		running:  true,
	}

	g.loadBindings()
	g.registerStates()
	return g, nil
}

// newCamera sizes the camera so one terminal cell shows one tile, with the
// bottom row reserved for the status line.
func newCamera(cfg *Config, screenWidth, screenHeight int) *camera.Camera {
	viewRows := screenHeight - 1
	if viewRows < 1 {
		viewRows = 1
	}
	return camera.NewCamera(
		cfg.MapWidth*cfg.TileSize,
		cfg.MapHeight*cfg.TileSize,
		screenWidth*cfg.TileSize,
		viewRows*cfg.TileSize,
		cfg.TileSize,
	)
}

// loadBindings applies the optional binding override file. Defaults stay
// in force when the file is absent or malformed.
func (g *Game) loadBindings() {
	data, err := g.res.Load(bindingsKind, bindingsFile)
	if err != nil {
		log.WithError(err).Debug("no binding overrides, using defaults")
		return
	}
	if err := g.mapper.LoadBindings(bytes.NewReader(data)); err != nil {
		log.WithError(err).Warn("binding overrides rejected, using defaults")
		return
	}
	log.Info("key binding overrides loaded")
}

// registerStates binds one instance per reachable game mode. Modes like
// combat and dialog have no implementation yet; transitions to them are
// rejected by the manager's registration check.
func (g *Game) registerStates() {
	g.manager.Register(StateTitle, newTitleState(g))
	g.manager.Register(StateOverworld, newOverworldState(g))
	g.manager.Register(StatePause, newPauseState(g))
	g.manager.Register(StateInventory, newInventoryState(g))
	g.manager.Register(StateQuestLog, newQuestLogState(g))
	g.manager.Register(StateGameOver, newGameOverState(g))
}

// Run drives the main loop: a dedicated goroutine pumps terminal events
// into a channel, and a frame ticker paces updates, so all game mutation
// happens on this goroutine.
func (g *Game) Run(ctx context.Context) error {
	g.ctx = ctx
	tracer := telemetry.Tracer("game")

	_, initSpan := tracer.Start(ctx, "game.init")
	g.manager.ChangeState(StateTitle, nil)
	initSpan.SetAttributes(
		attribute.Int("game.target_fps", g.cfg.TargetFPS),
		attribute.Int("game.map_width", g.cfg.MapWidth),
		attribute.Int("game.map_height", g.cfg.MapHeight),
	)
	initSpan.End()

	events := make(chan tcell.Event, 64)
	go g.screen.Pump(events)

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.TargetFPS))
	defer ticker.Stop()

	last := time.Now()
	for g.running {
		select {
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ev)

		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(last)
			last = now

			g.manager.Update(dt)
			g.cam.Update(dt)
			g.render()

		case <-ctx.Done():
			g.running = false
		}
	}

	return nil
}

// Quit ends the main loop after the current iteration.
func (g *Game) Quit() {
	g.running = false
}

// handleEvent offers the event to the active state first; whatever it does
// not consume falls through to the global handler.
func (g *Game) handleEvent(ev tcell.Event) {
	if g.manager.HandleEvent(ev) {
		return
	}

	switch ev := ev.(type) {
	case *tcell.EventResize:
		width, height := ev.Size()
		viewRows := height - 1
		if viewRows < 1 {
			viewRows = 1
		}
		g.cam.SetViewport(width*g.cfg.TileSize, viewRows*g.cfg.TileSize)
		g.screen.Sync()

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			g.Quit()
		}
	}
}

// render clears the screen, lets the active state draw itself, and flips
// the buffer. A state that does not render leaves the screen blank.
func (g *Game) render() {
	g.screen.Clear()
	if s := g.manager.Current(); s != nil {
		if v, ok := s.(stateRenderer); ok {
			v.Render(g.renderer)
		}
	}
	g.screen.Show()
}

// Close releases the screen and the resource cache. Safe to call after a
// failed Run.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
	if g.res != nil {
		g.res.Close()
	}
}
