package entity

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New("Wolf", 'w', tcell.ColorGray)
	b := New("Wolf", 'w', tcell.ColorGray)

	if a.ID() == b.ID() {
		t.Errorf("Two entities share ID %v", a.ID())
	}
}

func TestNewDefaults(t *testing.T) {
	e := New("Wolf", 'w', tcell.ColorGray)

	if e.Name != "Wolf" {
		t.Errorf("Name = %q, want %q", e.Name, "Wolf")
	}
	if e.Glyph != 'w' {
		t.Errorf("Glyph = %q, want %q", e.Glyph, 'w')
	}
	if x, y := e.Position(); x != 0 || y != 0 {
		t.Errorf("Position() = (%d, %d), want (0, 0)", x, y)
	}
}

func TestSetPosition(t *testing.T) {
	e := New("Wolf", 'w', tcell.ColorGray)

	e.SetPosition(7, 3)
	if x, y := e.Position(); x != 7 || y != 3 {
		t.Errorf("Position() = (%d, %d), want (7, 3)", x, y)
	}
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("Aldric")

	if p.Glyph != '@' {
		t.Errorf("Player glyph = %q, want '@'", p.Glyph)
	}
	if p.Name != "Aldric" {
		t.Errorf("Player name = %q, want %q", p.Name, "Aldric")
	}
}

func TestStringIncludesName(t *testing.T) {
	e := New("Wolf", 'w', tcell.ColorGray)

	s := e.String()
	if !strings.HasPrefix(s, "Wolf[") {
		t.Errorf("String() = %q, want prefix %q", s, "Wolf[")
	}
}
