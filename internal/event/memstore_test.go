package event_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/deveshc20/cricket-auction/internal/event"
)

func TestMemoryStore_AppendLoad(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := event.NewMemoryStore(func() time.Time { return fixed })
	ctx := context.Background()

	events := []event.Event{
		{AggregateID: "s1", Type: event.RosterLoaded, Data: json.RawMessage(`{}`), Version: 1},
		{AggregateID: "s1", Type: event.PlayerDrawn, Data: json.RawMessage(`{}`), Version: 2},
		{AggregateID: "s2", Type: event.RosterLoaded, Data: json.RawMessage(`{}`), Version: 1},
	}
	if err := s.Append(ctx, events...); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d events, want 2", len(got))
	}
	if got[0].Version != 1 || got[1].Version != 2 {
		t.Errorf("events out of order: versions %d, %d", got[0].Version, got[1].Version)
	}
	for _, e := range got {
		if e.ID == "" {
			t.Error("expected generated event ID")
		}
		if !e.CreatedAt.Equal(fixed) {
			t.Errorf("created at = %v, want %v", e.CreatedAt, fixed)
		}
	}
}

func TestMemoryStore_LoadByType(t *testing.T) {
	s := event.NewMemoryStore(nil)
	ctx := context.Background()

	_ = s.Append(ctx,
		event.Event{AggregateID: "s1", Type: event.PlayerSold, Version: 1},
		event.Event{AggregateID: "s1", Type: event.PlayerUnsold, Version: 2},
		event.Event{AggregateID: "s1", Type: event.PlayerSold, Version: 3},
	)

	got, err := s.LoadByType(ctx, event.PlayerSold)
	if err != nil {
		t.Fatalf("LoadByType() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("LoadByType() returned %d events, want 2", len(got))
	}
}

func TestMemoryStore_LoadUnknownAggregate(t *testing.T) {
	s := event.NewMemoryStore(nil)
	got, err := s.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() returned %d events, want 0", len(got))
	}
}
