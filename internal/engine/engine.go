package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deveshc20/cricket-auction/internal/clock"
	"github.com/deveshc20/cricket-auction/internal/event"
	"github.com/deveshc20/cricket-auction/internal/ledger"
	"github.com/deveshc20/cricket-auction/internal/roster"
)

// Errors returned by engine operations.
var (
	ErrNoRoster       = errors.New("no roster loaded")
	ErrNoTeams        = errors.New("no teams configured")
	ErrDrawInProgress = errors.New("a player is already drawn")
	ErrNoCurrentDraw  = errors.New("no player is currently drawn")
	ErrNoPlayersLeft  = errors.New("no players left to draw")
	ErrInvalidPrice   = errors.New("price must be positive")
	ErrNoUnsoldResult = errors.New("no unsold result for player")
	ErrEmptyHistory   = errors.New("nothing to undo")
)

// Unsold is the team name recorded on a passed player's result.
const Unsold = "UNSOLD"

// Result is one resolved auction outcome. A player has at most one Result
// at any time; corrections replace it in place.
type Result struct {
	PlayerNo string `json:"player_no"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Team     string `json:"team"`
	Price    int    `json:"price"`
}

// Config holds session rules.
type Config struct {
	Limits    ledger.Limits
	Countdown time.Duration
}

// Session is the aggregate root for one operator-driven auction: the roster,
// the team ledger, the result list, the undo history and the draw slot.
// Every operation is a single critical section; the invariants span the
// roster and ledger jointly and cannot be checked-then-acted on
// independently.
type Session struct {
	mu sync.Mutex

	id      string
	cfg     Config
	roster  *roster.Store
	ledger  *ledger.Ledger
	results []Result
	history historyLog
	version int

	// Draw slot: nil means EMPTY, otherwise exactly one player is DRAWN.
	current *roster.Player
	drawnAt time.Time

	events event.Store
	logger *slog.Logger
	tracer trace.Tracer
	clock  clock.Clock
	rng    *rand.Rand
}

// NewSession creates an empty auction session. The rng drives random draws
// and may be seeded deterministically in tests; if nil it is seeded from the
// clock.
func NewSession(cfg Config, events event.Store, logger *slog.Logger, tp trace.TracerProvider, clk clock.Clock, rng *rand.Rand) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clk.Now().UnixNano()))
	}
	return &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		roster: roster.NewStore(),
		ledger: ledger.New(cfg.Limits),
		events: events,
		logger: logger,
		tracer: tp.Tracer("github.com/deveshc20/cricket-auction/internal/engine"),
		clock:  clk,
		rng:    rng,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// LoadRoster validates and installs a new player list. Any auction progress
// belongs to the previous roster, so results, history, team rosters and the
// draw slot are cleared along with it.
func (s *Session) LoadRoster(ctx context.Context, rows []roster.Row) error {
	ctx, span := s.tracer.Start(ctx, "Session.LoadRoster",
		trace.WithAttributes(attribute.Int("rows", len(rows))),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roster.Load(rows); err != nil {
		return err
	}
	s.ledger.Reset()
	s.results = nil
	s.history.clear()
	s.current = nil

	s.appendEvent(ctx, event.RosterLoaded, event.RosterLoadedData{Players: s.roster.Len()})
	s.logger.InfoContext(ctx, "roster loaded",
		slog.String("session_id", s.id),
		slog.Int("players", s.roster.Len()),
	)
	return nil
}

// ConfigureTeams replaces the bidding teams. Like LoadRoster, this starts a
// fresh auction over the existing roster.
func (s *Session) ConfigureTeams(ctx context.Context, specs []ledger.Spec) error {
	ctx, span := s.tracer.Start(ctx, "Session.ConfigureTeams",
		trace.WithAttributes(attribute.Int("teams", len(specs))),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Configure(specs); err != nil {
		return err
	}
	s.roster.Reset()
	s.results = nil
	s.history.clear()
	s.current = nil

	s.appendEvent(ctx, event.TeamsConfigured, event.TeamsConfiguredData{Teams: s.ledger.Names()})
	s.logger.InfoContext(ctx, "teams configured",
		slog.String("session_id", s.id),
		slog.Int("teams", s.ledger.Len()),
	)
	return nil
}

// DrawNext selects a player uniformly at random from the pool of unresolved
// players and places it in the draw slot. The countdown starts now; it is
// display-only and never gates a sale.
func (s *Session) DrawNext(ctx context.Context) (roster.Player, error) {
	ctx, span := s.tracer.Start(ctx, "Session.DrawNext")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return roster.Player{}, fmt.Errorf("%w: %q", ErrDrawInProgress, s.current.No)
	}
	if s.roster.Len() == 0 {
		return roster.Player{}, ErrNoRoster
	}

	pool := s.pendingPlayers()
	if len(pool) == 0 {
		return roster.Player{}, ErrNoPlayersLeft
	}

	pick := pool[s.rng.Intn(len(pool))]
	s.current = &pick
	s.drawnAt = s.clock.Now()

	s.appendEvent(ctx, event.PlayerDrawn, event.PlayerDrawnData{
		PlayerNo: pick.No,
		Name:     pick.Name,
		Role:     pick.Role,
	})
	s.logger.InfoContext(ctx, "player drawn",
		slog.String("session_id", s.id),
		slog.String("player_no", pick.No),
		slog.String("name", pick.Name),
	)
	return pick, nil
}

// MarkSold resolves the drawn player as sold to teamName for price. The sale
// is all-or-nothing: any rejection leaves the session exactly as it was.
func (s *Session) MarkSold(ctx context.Context, teamName string, price int) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "Session.MarkSold",
		trace.WithAttributes(
			attribute.String("team", teamName),
			attribute.Int("price", price),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Result{}, ErrNoCurrentDraw
	}
	if price <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}

	player := *s.current
	if err := s.ledger.CreditSale(teamName, player.No, price); err != nil {
		return Result{}, err
	}

	_ = s.roster.MarkAuctioned(player.No, true)
	res := Result{PlayerNo: player.No, Name: player.Name, Role: player.Role, Team: teamName, Price: price}
	s.results = append(s.results, res)
	s.history.push(historyEntry{Kind: ActionSold, PlayerNo: player.No, Team: teamName, Price: price, Player: player})
	s.current = nil

	s.appendEvent(ctx, event.PlayerSold, event.SaleData{PlayerNo: player.No, Team: teamName, Price: price})
	s.logger.InfoContext(ctx, "player sold",
		slog.String("session_id", s.id),
		slog.String("player_no", player.No),
		slog.String("team", teamName),
		slog.Int("price", price),
	)
	return res, nil
}

// MarkUnsold resolves the drawn player as passed. The player is recorded
// with the reserved UNSOLD team and a zero price.
func (s *Session) MarkUnsold(ctx context.Context) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "Session.MarkUnsold")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Result{}, ErrNoCurrentDraw
	}

	player := *s.current
	_ = s.roster.MarkAuctioned(player.No, true)
	res := Result{PlayerNo: player.No, Name: player.Name, Role: player.Role, Team: Unsold, Price: 0}
	s.results = append(s.results, res)
	s.history.push(historyEntry{Kind: ActionUnsold, PlayerNo: player.No, Team: Unsold, Price: 0, Player: player})
	s.current = nil

	s.appendEvent(ctx, event.PlayerUnsold, event.PlayerUnsoldData{PlayerNo: player.No})
	s.logger.InfoContext(ctx, "player unsold",
		slog.String("session_id", s.id),
		slog.String("player_no", player.No),
	)
	return res, nil
}

// CorrectUnsold retroactively turns a player's UNSOLD result into a sale.
// It operates out-of-band on any resolved-unsold player and does not touch
// the draw slot.
func (s *Session) CorrectUnsold(ctx context.Context, playerNo, teamName string, price int) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "Session.CorrectUnsold",
		trace.WithAttributes(
			attribute.String("player_no", playerNo),
			attribute.String("team", teamName),
			attribute.Int("price", price),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.results {
		if r.PlayerNo == playerNo && r.Team == Unsold {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrNoUnsoldResult, playerNo)
	}
	if price <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}

	if err := s.ledger.CreditSale(teamName, playerNo, price); err != nil {
		return Result{}, err
	}

	prev := s.results[idx]
	res := Result{PlayerNo: prev.PlayerNo, Name: prev.Name, Role: prev.Role, Team: teamName, Price: price}
	s.results[idx] = res

	snapshot, err := s.roster.Get(playerNo)
	if err != nil {
		// The roster never deletes players, but the historical result row
		// carries enough to rebuild the snapshot.
		snapshot = roster.Player{No: prev.PlayerNo, Name: prev.Name, Role: prev.Role, Auctioned: true}
	}
	s.history.push(historyEntry{Kind: ActionCorrected, PlayerNo: playerNo, Team: teamName, Price: price, Player: snapshot})

	s.appendEvent(ctx, event.ResultCorrected, event.SaleData{PlayerNo: playerNo, Team: teamName, Price: price})
	s.logger.InfoContext(ctx, "unsold result corrected",
		slog.String("session_id", s.id),
		slog.String("player_no", playerNo),
		slog.String("team", teamName),
		slog.Int("price", price),
	)
	return res, nil
}

// Undo reverses the most recent committed action. A sold or unsold action
// returns the player to the pending pool; undoing a correction restores the
// prior UNSOLD result instead. The draw slot is never restored.
func (s *Session) Undo(ctx context.Context) (ActionKind, error) {
	ctx, span := s.tracer.Start(ctx, "Session.Undo")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.history.popLast()
	if !ok {
		return "", ErrEmptyHistory
	}

	switch entry.Kind {
	case ActionSold:
		if err := s.ledger.ReverseSale(entry.Team, entry.PlayerNo, entry.Price); err != nil {
			// Restore the popped entry so a failed undo leaves state
			// unchanged.
			s.history.push(entry)
			return "", fmt.Errorf("reversing sale: %w", err)
		}
		s.removeResult(entry.PlayerNo)
		_ = s.roster.MarkAuctioned(entry.PlayerNo, false)

	case ActionUnsold:
		s.removeResult(entry.PlayerNo)
		_ = s.roster.MarkAuctioned(entry.PlayerNo, false)

	case ActionCorrected:
		if err := s.ledger.ReverseSale(entry.Team, entry.PlayerNo, entry.Price); err != nil {
			s.history.push(entry)
			return "", fmt.Errorf("reversing correction: %w", err)
		}
		for i, r := range s.results {
			if r.PlayerNo == entry.PlayerNo {
				s.results[i] = Result{
					PlayerNo: entry.Player.No,
					Name:     entry.Player.Name,
					Role:     entry.Player.Role,
					Team:     Unsold,
					Price:    0,
				}
				break
			}
		}
		// The player stays resolved (as unsold), so the flag stays set.
		_ = s.roster.MarkAuctioned(entry.PlayerNo, true)
	}

	s.appendEvent(ctx, event.ActionUndone, event.ActionUndoneData{
		Kind:     string(entry.Kind),
		PlayerNo: entry.PlayerNo,
		Team:     entry.Team,
		Price:    entry.Price,
	})
	s.logger.InfoContext(ctx, "action undone",
		slog.String("session_id", s.id),
		slog.String("kind", string(entry.Kind)),
		slog.String("player_no", entry.PlayerNo),
	)
	return entry.Kind, nil
}

// Restart returns the session to its post-configuration state: roster and
// teams survive, every result, history entry and the draw slot are cleared.
func (s *Session) Restart(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "Session.Restart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.Reset()
	s.ledger.Reset()
	s.results = nil
	s.history.clear()
	s.current = nil

	s.appendEvent(ctx, event.AuctionRestarted, struct{}{})
	s.logger.InfoContext(ctx, "auction restarted", slog.String("session_id", s.id))
}

// ClearAll discards every piece of session state including configuration,
// equivalent to a fresh process start. A new session identifier is issued.
func (s *Session) ClearAll(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "Session.ClearAll")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendEvent(ctx, event.SessionCleared, struct{}{})
	s.logger.InfoContext(ctx, "session cleared", slog.String("session_id", s.id))

	s.roster.Clear()
	s.ledger.Clear()
	s.results = nil
	s.history.clear()
	s.current = nil
	s.id = uuid.NewString()
	s.version = 0
}

// pendingPlayers returns the draw pool. Result membership is authoritative
// for "resolved"; the roster flag is resynchronized here so the two can
// never drift apart.
func (s *Session) pendingPlayers() []roster.Player {
	var pool []roster.Player
	for _, p := range s.roster.All() {
		resolved := s.hasResult(p.No)
		if p.Auctioned != resolved {
			_ = s.roster.MarkAuctioned(p.No, resolved)
		}
		if !resolved {
			p.Auctioned = false
			pool = append(pool, p)
		}
	}
	return pool
}

func (s *Session) hasResult(playerNo string) bool {
	for _, r := range s.results {
		if r.PlayerNo == playerNo {
			return true
		}
	}
	return false
}

func (s *Session) removeResult(playerNo string) {
	for i, r := range s.results {
		if r.PlayerNo == playerNo {
			s.results = append(s.results[:i], s.results[i+1:]...)
			return
		}
	}
}

// appendEvent records an audit event. Append failures are logged, never
// fatal: the audit log trails the session, it does not gate it.
func (s *Session) appendEvent(ctx context.Context, t event.Type, data any) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal event payload", slog.Any("error", err))
		return
	}
	s.version++
	e := event.Event{
		AggregateID: s.id,
		Type:        t,
		Data:        payload,
		Version:     s.version,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.events.Append(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to append event",
			slog.String("type", string(t)),
			slog.Any("error", err),
		)
	}
}
