package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bleviet/regcraft/pkg/snapshot"
	"github.com/bleviet/regcraft/pkg/store"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/regcraft/config.toml. Every field has a working default; a
// missing file is not an error.
type Config struct {
	// PushDelayMS is the debounce window for host pushes in milliseconds.
	PushDelayMS int `toml:"push_delay_ms"`

	Snapshot SnapshotConfig `toml:"snapshot"`
	Library  LibraryConfig  `toml:"library"`
}

// SnapshotConfig selects the crash-recovery snapshot backend.
type SnapshotConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir overrides the file backend's directory.
	Dir   string              `toml:"dir"`
	Redis SnapshotRedisConfig `toml:"redis"`
}

// SnapshotRedisConfig configures the redis snapshot backend.
type SnapshotRedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LibraryConfig selects the named-document library backend.
type LibraryConfig struct {
	// Backend is "file" or "mongo".
	Backend string `toml:"backend"`
	// Dir overrides the file backend's directory.
	Dir   string             `toml:"dir"`
	Mongo LibraryMongoConfig `toml:"mongo"`
}

// LibraryMongoConfig configures the mongo library backend.
type LibraryMongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

func defaultConfig() Config {
	return Config{
		PushDelayMS: 300,
		Snapshot: SnapshotConfig{
			Backend: "file",
			Redis:   SnapshotRedisConfig{Addr: "localhost:6379"},
		},
		Library: LibraryConfig{
			Backend: "file",
			Mongo:   LibraryMongoConfig{URI: "mongodb://localhost:27017"},
		},
	}
}

// configDir returns the regcraft configuration directory.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "regcraft"), nil
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist. Unknown keys are ignored.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	dir, err := configDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PushDelay returns the configured debounce window as a duration.
func (c Config) PushDelay() time.Duration {
	if c.PushDelayMS <= 0 {
		return 0 // let the pusher apply its own default
	}
	return time.Duration(c.PushDelayMS) * time.Millisecond
}

// openSnapshotStore builds the configured snapshot backend.
func openSnapshotStore(ctx context.Context, cfg Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "none":
		return snapshot.NewNullStore(), nil
	case "redis":
		return snapshot.NewRedisStore(ctx, snapshot.RedisConfig{
			Addr:     cfg.Snapshot.Redis.Addr,
			Password: cfg.Snapshot.Redis.Password,
			DB:       cfg.Snapshot.Redis.DB,
		})
	default:
		dir := cfg.Snapshot.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "snapshots")
		}
		return snapshot.NewFileStore(dir)
	}
}

// openLibrary builds the configured library backend.
func openLibrary(ctx context.Context, cfg Config) (store.Library, error) {
	if cfg.Library.Backend == "mongo" {
		return store.NewMongoLibrary(ctx, store.MongoConfig{
			URI:        cfg.Library.Mongo.URI,
			Database:   cfg.Library.Mongo.Database,
			Collection: cfg.Library.Mongo.Collection,
		})
	}
	dir := cfg.Library.Dir
	if dir == "" {
		base, err := configDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "library")
	}
	return store.NewFileLibrary(dir)
}
