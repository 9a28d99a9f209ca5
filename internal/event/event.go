package event

import (
	"encoding/json"
	"time"
)

// Type identifies an event kind.
type Type string

const (
	RosterLoaded     Type = "roster.loaded"
	TeamsConfigured  Type = "teams.configured"
	PlayerDrawn      Type = "player.drawn"
	PlayerSold       Type = "player.sold"
	PlayerUnsold     Type = "player.unsold"
	ResultCorrected  Type = "result.corrected"
	ActionUndone     Type = "action.undone"
	AuctionRestarted Type = "auction.restarted"
	SessionCleared   Type = "session.cleared"
)

// Event represents a single domain event.
type Event struct {
	ID          string          `json:"id" db:"id"`
	AggregateID string          `json:"aggregate_id" db:"aggregate_id"`
	Type        Type            `json:"type" db:"type"`
	Data        json.RawMessage `json:"data" db:"data"`
	Version     int             `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// RosterLoadedData is the payload for RosterLoaded events.
type RosterLoadedData struct {
	Players int `json:"players"`
}

// TeamsConfiguredData is the payload for TeamsConfigured events.
type TeamsConfiguredData struct {
	Teams []string `json:"teams"`
}

// PlayerDrawnData is the payload for PlayerDrawn events.
type PlayerDrawnData struct {
	PlayerNo string `json:"player_no"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// SaleData is the payload for PlayerSold and ResultCorrected events.
type SaleData struct {
	PlayerNo string `json:"player_no"`
	Team     string `json:"team"`
	Price    int    `json:"price"`
}

// PlayerUnsoldData is the payload for PlayerUnsold events.
type PlayerUnsoldData struct {
	PlayerNo string `json:"player_no"`
}

// ActionUndoneData is the payload for ActionUndone events.
type ActionUndoneData struct {
	Kind     string `json:"kind"`
	PlayerNo string `json:"player_no"`
	Team     string `json:"team,omitempty"`
	Price    int    `json:"price,omitempty"`
}
