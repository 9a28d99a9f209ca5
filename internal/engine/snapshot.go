package engine

import (
	"time"

	"github.com/deveshc20/cricket-auction/internal/ledger"
	"github.com/deveshc20/cricket-auction/internal/roster"
)

// CurrentDraw describes the player in the draw slot, plus the advisory
// countdown. Elapsed time never gates a sale.
type CurrentDraw struct {
	Player           roster.Player `json:"player"`
	DrawnAt          time.Time     `json:"drawn_at"`
	ElapsedSeconds   int           `json:"elapsed_seconds"`
	RemainingSeconds int           `json:"remaining_seconds"`
}

// Snapshot is the read-only session view exposed to the presentation layer.
type Snapshot struct {
	SessionID      string           `json:"session_id"`
	TotalPlayers   int              `json:"total_players"`
	PendingCount   int              `json:"pending_count"`
	CompletedCount int              `json:"completed_count"`
	Current        *CurrentDraw     `json:"current,omitempty"`
	Teams          []ledger.Summary `json:"teams"`
	Results        []Result         `json:"results"`
	Unsold         []Result         `json:"unsold"`
	HistoryDepth   int              `json:"history_depth"`
}

// Snapshot returns a consistent point-in-time view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:    s.id,
		TotalPlayers: s.roster.Len(),
		PendingCount: len(s.pendingPlayers()),
		Teams:        s.ledger.Summaries(),
		Results:      append([]Result(nil), s.results...),
		HistoryDepth: s.history.depth(),
	}
	snap.CompletedCount = snap.TotalPlayers - snap.PendingCount

	for _, r := range s.results {
		if r.Team == Unsold {
			snap.Unsold = append(snap.Unsold, r)
		}
	}

	if s.current != nil {
		elapsed := int(s.clock.Now().Sub(s.drawnAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		remaining := int(s.cfg.Countdown.Seconds()) - elapsed
		if remaining < 0 {
			remaining = 0
		}
		snap.Current = &CurrentDraw{
			Player:           *s.current,
			DrawnAt:          s.drawnAt,
			ElapsedSeconds:   elapsed,
			RemainingSeconds: remaining,
		}
	}
	return snap
}

// TeamSheet is one team's purchased players in acquisition order.
type TeamSheet struct {
	Name    string
	Players []Result
}

// ExportView assembles the data the result exporter renders: the combined
// result list plus one sheet per team.
type ExportView struct {
	Combined []Result
	Teams    []TeamSheet
}

// ExportView returns a consistent snapshot for export.
func (s *Session) ExportView() ExportView {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNo := make(map[string]Result, len(s.results))
	for _, r := range s.results {
		byNo[r.PlayerNo] = r
	}

	view := ExportView{Combined: append([]Result(nil), s.results...)}
	for _, t := range s.ledger.Teams() {
		sheet := TeamSheet{Name: t.Name}
		for _, a := range t.Acquired {
			if r, ok := byNo[a.PlayerNo]; ok {
				sheet.Players = append(sheet.Players, r)
				continue
			}
			// Ledger and results should never disagree, but a sheet row
			// is still recoverable from the roster.
			p, err := s.roster.Get(a.PlayerNo)
			if err != nil {
				p = roster.Player{No: a.PlayerNo}
			}
			sheet.Players = append(sheet.Players, Result{
				PlayerNo: a.PlayerNo,
				Name:     p.Name,
				Role:     p.Role,
				Team:     t.Name,
				Price:    a.Price,
			})
		}
		view.Teams = append(view.Teams, sheet)
	}
	return view
}
