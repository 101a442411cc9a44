// Package input translates terminal key events into game actions.
package input

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
)

// Action is a semantic game action produced by the mapper.
type Action int

const (
	ActionNone Action = iota

	// Movement
	ActionMoveUp    // Up, k
	ActionMoveDown  // Down, j
	ActionMoveLeft  // Left, h
	ActionMoveRight // Right, l
	ActionWait      // .

	// World interaction
	ActionInteract      // Enter
	ActionOpenInventory // i
	ActionOpenQuestLog  // q
	ActionQuickSave     // F5
	ActionQuickLoad     // F9
	ActionZoomIn        // +
	ActionZoomOut       // -

	// Menu navigation
	ActionMenuUp   // Up, k
	ActionMenuDown // Down, j
	ActionConfirm  // Enter
	ActionCancel   // Esc

	// System
	ActionPause // Esc in world
	ActionQuit  // Ctrl-C
)

// actionNames maps actions to the stable names used in binding files.
var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionMoveUp:        "move_up",
	ActionMoveDown:      "move_down",
	ActionMoveLeft:      "move_left",
	ActionMoveRight:     "move_right",
	ActionWait:          "wait",
	ActionInteract:      "interact",
	ActionOpenInventory: "open_inventory",
	ActionOpenQuestLog:  "open_quest_log",
	ActionQuickSave:     "quick_save",
	ActionQuickLoad:     "quick_load",
	ActionZoomIn:        "zoom_in",
	ActionZoomOut:       "zoom_out",
	ActionMenuUp:        "menu_up",
	ActionMenuDown:      "menu_down",
	ActionConfirm:       "confirm",
	ActionCancel:        "cancel",
	ActionPause:         "pause",
	ActionQuit:          "quit",
}

var actionsByName map[string]Action

var keysByName map[string]tcell.Key

func init() {
	actionsByName = make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		actionsByName[name] = a
	}
	keysByName = make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		keysByName[name] = k
	}
}

// String returns the action's binding-file name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction resolves a binding-file action name.
func ParseAction(name string) (Action, error) {
	a, ok := actionsByName[name]
	if !ok {
		return ActionNone, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// Chord is a single keystroke: a special key, or a printable rune when Key
// is tcell.KeyRune.
type Chord struct {
	Key  tcell.Key
	Rune rune
}

// ChordFromEvent extracts the chord of a key event.
func ChordFromEvent(ev *tcell.EventKey) Chord {
	if ev.Key() == tcell.KeyRune {
		return Chord{Key: tcell.KeyRune, Rune: ev.Rune()}
	}
	return Chord{Key: ev.Key()}
}

// String returns the chord's binding-file name: the bare character for
// rune chords, the tcell key name otherwise.
func (c Chord) String() string {
	if c.Key == tcell.KeyRune {
		return string(c.Rune)
	}
	if name, ok := tcell.KeyNames[c.Key]; ok {
		return name
	}
	return "unknown"
}

// ParseChord resolves a binding-file key name. A single character is a
// rune chord; anything else must be a tcell key name like "Up" or "F5".
func ParseChord(s string) (Chord, error) {
	runes := []rune(s)
	if len(runes) == 1 {
		return Chord{Key: tcell.KeyRune, Rune: runes[0]}, nil
	}
	if key, ok := keysByName[s]; ok {
		return Chord{Key: key}, nil
	}
	return Chord{}, fmt.Errorf("unknown key name %q", s)
}

// Layer selects which binding table translates an event. States choose
// their layer; the mapper has no knowledge of game modes.
type Layer string

const (
	LayerWorld Layer = "world"
	LayerMenu  Layer = "menu"
	LayerTitle Layer = "title"
)

var allLayers = []Layer{LayerWorld, LayerMenu, LayerTitle}

// Mapper resolves key events to actions through per-layer binding tables.
type Mapper struct {
	bindings map[Layer]map[Chord]Action
}

// NewMapper creates a mapper with the default bindings.
func NewMapper() *Mapper {
	m := &Mapper{bindings: make(map[Layer]map[Chord]Action, len(allLayers))}
	for _, layer := range allLayers {
		m.bindings[layer] = make(map[Chord]Action)
	}

	world := m.bindings[LayerWorld]
	world[Chord{Key: tcell.KeyUp}] = ActionMoveUp
	world[Chord{Key: tcell.KeyDown}] = ActionMoveDown
	world[Chord{Key: tcell.KeyLeft}] = ActionMoveLeft
	world[Chord{Key: tcell.KeyRight}] = ActionMoveRight
	world[Chord{Key: tcell.KeyRune, Rune: 'k'}] = ActionMoveUp
	world[Chord{Key: tcell.KeyRune, Rune: 'j'}] = ActionMoveDown
	world[Chord{Key: tcell.KeyRune, Rune: 'h'}] = ActionMoveLeft
	world[Chord{Key: tcell.KeyRune, Rune: 'l'}] = ActionMoveRight
	world[Chord{Key: tcell.KeyRune, Rune: '.'}] = ActionWait
	world[Chord{Key: tcell.KeyEnter}] = ActionInteract
	world[Chord{Key: tcell.KeyRune, Rune: 'i'}] = ActionOpenInventory
	world[Chord{Key: tcell.KeyRune, Rune: 'q'}] = ActionOpenQuestLog
	world[Chord{Key: tcell.KeyF5}] = ActionQuickSave
	world[Chord{Key: tcell.KeyF9}] = ActionQuickLoad
	world[Chord{Key: tcell.KeyRune, Rune: '+'}] = ActionZoomIn
	world[Chord{Key: tcell.KeyRune, Rune: '='}] = ActionZoomIn
	world[Chord{Key: tcell.KeyRune, Rune: '-'}] = ActionZoomOut
	world[Chord{Key: tcell.KeyEscape}] = ActionPause
	world[Chord{Key: tcell.KeyCtrlC}] = ActionQuit

	menu := m.bindings[LayerMenu]
	menu[Chord{Key: tcell.KeyUp}] = ActionMenuUp
	menu[Chord{Key: tcell.KeyDown}] = ActionMenuDown
	menu[Chord{Key: tcell.KeyRune, Rune: 'k'}] = ActionMenuUp
	menu[Chord{Key: tcell.KeyRune, Rune: 'j'}] = ActionMenuDown
	menu[Chord{Key: tcell.KeyEnter}] = ActionConfirm
	menu[Chord{Key: tcell.KeyEscape}] = ActionCancel
	menu[Chord{Key: tcell.KeyCtrlC}] = ActionQuit

	title := m.bindings[LayerTitle]
	title[Chord{Key: tcell.KeyUp}] = ActionMenuUp
	title[Chord{Key: tcell.KeyDown}] = ActionMenuDown
	title[Chord{Key: tcell.KeyRune, Rune: 'k'}] = ActionMenuUp
	title[Chord{Key: tcell.KeyRune, Rune: 'j'}] = ActionMenuDown
	title[Chord{Key: tcell.KeyEnter}] = ActionConfirm
	title[Chord{Key: tcell.KeyEscape}] = ActionQuit
	title[Chord{Key: tcell.KeyCtrlC}] = ActionQuit

	return m
}

// Translate resolves an event against one layer's bindings. Non-key
// events and unbound chords produce ActionNone.
func (m *Mapper) Translate(ev tcell.Event, layer Layer) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}
	table, ok := m.bindings[layer]
	if !ok {
		return ActionNone
	}
	return table[ChordFromEvent(key)]
}

// Rebind points a chord at an action within one layer, replacing any
// previous binding for that chord. Other chords bound to the same action
// are kept.
func (m *Mapper) Rebind(layer Layer, c Chord, a Action) {
	table, ok := m.bindings[layer]
	if !ok {
		table = make(map[Chord]Action)
		m.bindings[layer] = table
	}
	table[c] = a
}

// Unbind removes a chord's binding within one layer.
func (m *Mapper) Unbind(layer Layer, c Chord) {
	if table, ok := m.bindings[layer]; ok {
		delete(table, c)
	}
}

// SaveBindings writes every layer's table as JSON, keyed by key name.
func (m *Mapper) SaveBindings(w io.Writer) error {
	out := make(map[Layer]map[string]string, len(m.bindings))
	for layer, table := range m.bindings {
		names := make(map[string]string, len(table))
		for c, a := range table {
			names[c.String()] = a.String()
		}
		out[layer] = names
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write bindings: %w", err)
	}
	return nil
}

// LoadBindings reads a JSON binding file. Each layer present in the file
// replaces that layer's table entirely; absent layers keep their current
// bindings. Unknown layer, key, or action names fail the whole load and
// leave the mapper untouched.
func (m *Mapper) LoadBindings(r io.Reader) error {
	var raw map[Layer]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("parse bindings: %w", err)
	}

	loaded := make(map[Layer]map[Chord]Action, len(raw))
	for layer, names := range raw {
		switch layer {
		case LayerWorld, LayerMenu, LayerTitle:
		default:
			return fmt.Errorf("unknown layer %q", layer)
		}

		table := make(map[Chord]Action, len(names))
		for keyName, actionName := range names {
			c, err := ParseChord(keyName)
			if err != nil {
				return fmt.Errorf("layer %q: %w", layer, err)
			}
			a, err := ParseAction(actionName)
			if err != nil {
				return fmt.Errorf("layer %q: %w", layer, err)
			}
			table[c] = a
		}
		loaded[layer] = table
	}

	for layer, table := range loaded {
		m.bindings[layer] = table
	}
	return nil
}
