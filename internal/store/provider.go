package store

import (
	"context"
	"fmt"
	"io"

	"github.com/deveshc20/cricket-auction/internal/clock"
	"github.com/deveshc20/cricket-auction/internal/config"
	"github.com/deveshc20/cricket-auction/internal/event"
)

// Stores groups the storage implementations returned by a driver.
type Stores struct {
	Events event.Store
	// Closer releases underlying resources (e.g. the DB handle).
	Closer io.Closer
	// Ping checks the underlying backend health.
	Ping func(ctx context.Context) error
}

// Driver is a function that opens a backend and returns Stores.
type Driver func(ctx context.Context, cfg config.DatabaseConfig, clk clock.Clock) (*Stores, error)

// registry maps driver names to their factory functions.
var registry = map[string]Driver{}

// Register adds a named driver to the global registry.
// It is intended to be called from init() in each driver package.
func Register(name string, d Driver) {
	registry[name] = d
}

// Open selects the driver specified in cfg.Driver and returns Stores.
func Open(ctx context.Context, cfg config.DatabaseConfig, clk clock.Clock) (*Stores, error) {
	d, ok := registry[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown store driver %q (registered: %v)", cfg.Driver, registeredNames())
	}
	return d(ctx, cfg, clk)
}

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}
