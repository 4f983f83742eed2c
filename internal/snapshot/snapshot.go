// Package snapshot persists the last-notified error list between runs.
package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isgwatch/isgwatch/internal/entry"
	"github.com/rs/zerolog"
)

// ErrCorruptState marks a snapshot that exists but cannot be read back.
// It is deliberately never auto-repaired: silently resetting to an empty
// baseline would re-establish every live alert as already known.
var ErrCorruptState = errors.New("corrupt snapshot state")

// Store persists and loads the full entry set.
type Store interface {
	// Load returns the persisted entries. ok is false when no snapshot
	// has been written yet (first run).
	Load() (entries []entry.Entry, ok bool, err error)
	// Save atomically replaces the persisted snapshot with the given set.
	Save(entries []entry.Entry) error
	Close() error
}

// Config selects and configures a snapshot backend.
type Config struct {
	// Driver is "file" (default) or "sqlite".
	Driver string
	Path   string
	// BusyTimeout applies to the sqlite driver only; 0 means default.
	BusyTimeout time.Duration
}

// Open initializes the configured store.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown state driver: %s", cfg.Driver)
	}
}
