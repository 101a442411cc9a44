package game

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Save backends selectable through configuration.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds game configuration options.
type Config struct {
	// Title is shown on the title screen and in the status line.
	Title string `mapstructure:"title"`

	// TargetFPS caps the update rate of the main loop.
	TargetFPS int `mapstructure:"target_fps"`

	// FogRadius is the sight radius in tiles for fog-of-war updates.
	FogRadius int `mapstructure:"fog_radius"`

	// WeightedPaths makes pathfinding honor per-tile movement costs
	// instead of charging every step 1.
	WeightedPaths bool `mapstructure:"weighted_paths"`

	// MapWidth and MapHeight are the generated overworld dimensions.
	MapWidth  int `mapstructure:"map_width"`
	MapHeight int `mapstructure:"map_height"`

	// TileSize is the edge length of one tile in world pixels, used by
	// the camera's coordinate transforms.
	TileSize int `mapstructure:"tile_size"`

	// SaveBackend selects where maps are persisted: "file" or "postgres".
	SaveBackend string `mapstructure:"save_backend"`

	// SavePath is the save file location for the file backend.
	SavePath string `mapstructure:"save_path"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// DataDir is the root directory for loose runtime assets.
	DataDir string `mapstructure:"data_dir"`

	// Seed for random number generation. Used for reproducible overworld
	// generation. A seed of 0 means a random seed will be generated.
	Seed int64 `mapstructure:"seed"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`
}

// LoadConfig builds the configuration from defaults, an optional YAML
// file, and SHATTERCROWN_* environment variables, in rising precedence.
// With an empty path the file is searched for as shattercrown.yaml in the
// working directory and under $HOME/.config/shattercrown; a missing file
// is fine. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("title", "Shattercrown")
	v.SetDefault("target_fps", 60)
	v.SetDefault("fog_radius", 5)
	v.SetDefault("weighted_paths", false)
	v.SetDefault("map_width", 96)
	v.SetDefault("map_height", 64)
	v.SetDefault("tile_size", 32)
	v.SetDefault("save_backend", BackendFile)
	v.SetDefault("save_path", "shattercrown.sav")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("data_dir", "data")
	v.SetDefault("seed", 0)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("SHATTERCROWN")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("shattercrown")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/shattercrown")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects values the game cannot run with.
func (c *Config) validate() error {
	if c.TargetFPS < 1 {
		return fmt.Errorf("target_fps must be at least 1, got %d", c.TargetFPS)
	}
	if c.FogRadius < 0 {
		return fmt.Errorf("fog_radius must not be negative, got %d", c.FogRadius)
	}
	if c.MapWidth < 16 || c.MapHeight < 16 {
		return fmt.Errorf("map dimensions must be at least 16x16, got %dx%d", c.MapWidth, c.MapHeight)
	}
	if c.TileSize < 1 {
		return fmt.Errorf("tile_size must be at least 1, got %d", c.TileSize)
	}
	switch c.SaveBackend {
	case BackendFile, BackendPostgres:
	default:
		return fmt.Errorf("save_backend must be %q or %q, got %q", BackendFile, BackendPostgres, c.SaveBackend)
	}
	if c.SaveBackend == BackendPostgres && c.PostgresDSN == "" {
		return errors.New("postgres_dsn is required for the postgres save backend")
	}
	return nil
}
