package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts "#RRGGBB" or the short "#RGB" form (leading #
// optional) to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	s := strings.TrimPrefix(hex, "#")

	switch len(s) {
	case 6:
	case 3:
		// Expand shorthand: "1af" becomes "11aaff"
		var expanded strings.Builder
		for _, r := range s {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		s = expanded.String()
	default:
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	return tcell.NewHexColor(int32(v)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking
// on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}
