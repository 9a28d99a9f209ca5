package store

import (
	"context"

	"github.com/deveshc20/cricket-auction/internal/clock"
	"github.com/deveshc20/cricket-auction/internal/config"
	"github.com/deveshc20/cricket-auction/internal/event"
)

func init() {
	Register("memory", openMemory)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openMemory(ctx context.Context, cfg config.DatabaseConfig, clk clock.Clock) (*Stores, error) {
	return &Stores{
		Events: event.NewMemoryStore(clk.Now),
		Closer: nopCloser{},
		Ping:   func(context.Context) error { return nil },
	}, nil
}
