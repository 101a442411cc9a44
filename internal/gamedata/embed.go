// Package gamedata provides embedded tile definitions and utilities for
// loading them.
package gamedata

import "embed"

// dataFS embeds the JSON data files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
