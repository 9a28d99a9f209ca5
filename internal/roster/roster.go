package roster

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by roster operations.
var (
	ErrInvalidRoster  = errors.New("invalid roster")
	ErrPlayerNotFound = errors.New("player not found")
)

// Row is one uploaded roster row before validation.
type Row struct {
	No   string `json:"player_no"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Player is a roster entry. Only the Auctioned flag changes after load.
type Player struct {
	No        string `json:"player_no"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Auctioned bool   `json:"auctioned"`
}

// Store holds the uploaded player list. It is not safe for concurrent use;
// the owning session serializes access.
type Store struct {
	players []Player
	byNo    map[string]int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byNo: make(map[string]int)}
}

// Load replaces the roster with the validated rows. Every player starts
// unauctioned. The store is left untouched on error.
func (s *Store) Load(rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidRoster)
	}

	players := make([]Player, 0, len(rows))
	byNo := make(map[string]int, len(rows))
	for i, r := range rows {
		no := strings.TrimSpace(r.No)
		name := strings.TrimSpace(r.Name)
		role := strings.TrimSpace(r.Role)
		if no == "" || name == "" || role == "" {
			return fmt.Errorf("%w: row %d is missing player_no, name or role", ErrInvalidRoster, i+1)
		}
		if _, dup := byNo[no]; dup {
			return fmt.Errorf("%w: duplicate player_no %q", ErrInvalidRoster, no)
		}
		byNo[no] = len(players)
		players = append(players, Player{No: no, Name: name, Role: role})
	}

	s.players = players
	s.byNo = byNo
	return nil
}

// Get returns the player with the given number.
func (s *Store) Get(no string) (Player, error) {
	i, ok := s.byNo[no]
	if !ok {
		return Player{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, no)
	}
	return s.players[i], nil
}

// MarkAuctioned sets the auctioned flag for a player.
func (s *Store) MarkAuctioned(no string, v bool) error {
	i, ok := s.byNo[no]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, no)
	}
	s.players[i].Auctioned = v
	return nil
}

// Pending returns the players not yet auctioned, recomputed from current
// flags on every call.
func (s *Store) Pending() []Player {
	return s.filter(false)
}

// Completed returns the players already auctioned.
func (s *Store) Completed() []Player {
	return s.filter(true)
}

// All returns a copy of the full roster in load order.
func (s *Store) All() []Player {
	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

// Len returns the roster size.
func (s *Store) Len() int { return len(s.players) }

// Reset clears all auctioned flags without discarding the roster.
func (s *Store) Reset() {
	for i := range s.players {
		s.players[i].Auctioned = false
	}
}

// Clear discards the roster entirely.
func (s *Store) Clear() {
	s.players = nil
	s.byNo = make(map[string]int)
}

func (s *Store) filter(auctioned bool) []Player {
	var out []Player
	for _, p := range s.players {
		if p.Auctioned == auctioned {
			out = append(out, p)
		}
	}
	return out
}
