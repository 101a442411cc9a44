// Package game provides the main game loop and state management.
package game

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// StateID identifies a registered game state.
type StateID int

const (
	// StateTitle is the opening menu.
	StateTitle StateID = iota
	// StateOverworld is the travel mode on the large outdoor map.
	StateOverworld
	// StateLocalArea is the zoomed-in mode for a town or dungeon site.
	StateLocalArea
	// StateCombat is the tactical battle mode.
	StateCombat
	// StateInventory is the inventory overlay.
	StateInventory
	// StateDialog is the conversation overlay.
	StateDialog
	// StateShop is the buy/sell overlay.
	StateShop
	// StateQuestLog is the journal overlay.
	StateQuestLog
	// StatePause is the in-game pause menu.
	StatePause
	// StateOptions is the settings menu.
	StateOptions
	// StateGameOver is the defeat screen.
	StateGameOver
	// StateCharacterCreation is the new-game character builder.
	StateCharacterCreation
)

// String returns a human-readable state name.
func (id StateID) String() string {
	switch id {
	case StateTitle:
		return "title"
	case StateOverworld:
		return "overworld"
	case StateLocalArea:
		return "local_area"
	case StateCombat:
		return "combat"
	case StateInventory:
		return "inventory"
	case StateDialog:
		return "dialog"
	case StateShop:
		return "shop"
	case StateQuestLog:
		return "quest_log"
	case StatePause:
		return "pause"
	case StateOptions:
		return "options"
	case StateGameOver:
		return "game_over"
	case StateCharacterCreation:
		return "character_creation"
	default:
		return "unknown"
	}
}

// Args carries data into a state on entry. A state's Exit may return Args
// to forward to whatever replaces it.
type Args map[string]any

// State is the behavior contract for a game mode. One instance is
// registered per StateID; the manager drives the lifecycle.
type State interface {
	// Enter makes the state active. args is never nil.
	Enter(args Args)
	// Exit deactivates the state and returns carryover data for the next
	// state, or nil.
	Exit() Args
	// Pause suspends the state when another is pushed on top of it.
	Pause()
	// Resume reactivates the state after the one above it is popped.
	Resume()
	// Update advances the state by one frame.
	Update(dt time.Duration)
	// HandleEvent processes one terminal event and reports whether the
	// state consumed it. Unconsumed events fall through to the global
	// handler.
	HandleEvent(ev tcell.Event) bool
}
