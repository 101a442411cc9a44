package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shattercrown/internal/telemetry"
	"github.com/samdwyer/shattercrown/internal/world"
)

// pingMaxTries bounds the connection attempts while the database comes up.
const pingMaxTries = 5

// PostgresStore persists snapshots in PostgreSQL, one row per map with
// the grid and revealed set as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, pinging with exponential backoff
// until the database answers, and ensures the schema exists.
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ping := func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	}
	if _, err := backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(pingMaxTries),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Info("connected to postgres store")
	return store, nil
}

// initSchema creates the maps table if it is missing.
func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		grid JSONB NOT NULL,
		revealed JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// SaveMap upserts a snapshot under its name.
func (ps *PostgresStore) SaveMap(ctx context.Context, name string, snap *world.Snapshot) error {
	ctx, span := telemetry.Tracer("persistence").Start(ctx, "map.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("map.name", name),
		attribute.String("store.backend", "postgres"),
		attribute.Int("map.tiles", len(snap.Grid)),
	)

	gridJSON, err := json.Marshal(snap.Grid)
	if err != nil {
		return fmt.Errorf("marshal grid: %w", err)
	}
	revealedJSON, err := json.Marshal(snap.RevealedTiles)
	if err != nil {
		return fmt.Errorf("marshal revealed tiles: %w", err)
	}

	query := `
	INSERT INTO maps (name, width, height, grid, revealed)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, grid = $4, revealed = $5,
		updated_at = NOW()
	`

	if _, err := ps.db.ExecContext(ctx, query,
		name, snap.Width, snap.Height, string(gridJSON), string(revealedJSON)); err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}

	log.WithField("map", name).Debug("map saved to postgres")
	return nil
}

// LoadMap returns the snapshot stored under name, or ErrNotFound.
func (ps *PostgresStore) LoadMap(ctx context.Context, name string) (*world.Snapshot, error) {
	ctx, span := telemetry.Tracer("persistence").Start(ctx, "map.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("map.name", name),
		attribute.String("store.backend", "postgres"),
	)

	query := `SELECT width, height, grid, revealed FROM maps WHERE name = $1`

	var snap world.Snapshot
	var gridJSON, revealedJSON string

	err := ps.db.QueryRowContext(ctx, query, name).Scan(
		&snap.Width, &snap.Height, &gridJSON, &revealedJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("map %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}

	if err := json.Unmarshal([]byte(gridJSON), &snap.Grid); err != nil {
		return nil, fmt.Errorf("unmarshal grid for %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(revealedJSON), &snap.RevealedTiles); err != nil {
		return nil, fmt.Errorf("unmarshal revealed tiles for %q: %w", name, err)
	}

	return &snap, nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	log.Debug("closing postgres store")
	return ps.db.Close()
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)
