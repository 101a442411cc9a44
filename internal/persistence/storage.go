// Package persistence stores map snapshots across runs.
package persistence

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/shattercrown/internal/world"
)

var log = logrus.WithField("component", "persistence")

// ErrNotFound reports that no snapshot is stored under the requested name.
var ErrNotFound = errors.New("map not found")

// Store is the interface for snapshot persistence.
type Store interface {
	SaveMap(ctx context.Context, name string, snap *world.Snapshot) error
	LoadMap(ctx context.Context, name string) (*world.Snapshot, error)
	Close() error
}
