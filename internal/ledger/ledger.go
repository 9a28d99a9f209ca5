package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by ledger operations.
var (
	ErrInvalidTeams    = errors.New("invalid team configuration")
	ErrTeamNotFound    = errors.New("team not found")
	ErrBudgetExceeded  = errors.New("budget exceeded")
	ErrNegativePrice   = errors.New("price must be non-negative")
	ErrAlreadyAcquired = errors.New("player already acquired")
	ErrNotAcquired     = errors.New("player not acquired by team")
)

// Spec describes one team at configuration time.
type Spec struct {
	Name           string `json:"name"`
	StartingBudget int    `json:"budget"`
}

// Acquisition is one purchased player on a team roster.
type Acquisition struct {
	PlayerNo string `json:"player_no"`
	Price    int    `json:"price"`
}

// Team is a configured team with its running spend.
type Team struct {
	Name           string        `json:"name"`
	StartingBudget int           `json:"starting_budget"`
	Spent          int           `json:"spent"`
	Acquired       []Acquisition `json:"acquired"`
}

// Remaining returns the budget left to spend.
func (t Team) Remaining() int { return t.StartingBudget - t.Spent }

// Summary is the per-team view exposed to the operator.
type Summary struct {
	Name        string `json:"name"`
	Spent       int    `json:"spent"`
	Remaining   int    `json:"remaining"`
	PlayerCount int    `json:"player_count"`
}

// Limits bounds team configuration.
type Limits struct {
	MinTeams  int
	MaxTeams  int
	MinBudget int
}

// Ledger holds every team's budget and acquisitions. It is not safe for
// concurrent use; the owning session serializes access.
type Ledger struct {
	limits Limits
	teams  []Team
	byName map[string]int
}

// New returns an empty Ledger enforcing the given limits.
func New(limits Limits) *Ledger {
	return &Ledger{limits: limits, byName: make(map[string]int)}
}

// Configure replaces all teams. The ledger is left untouched on error.
func (l *Ledger) Configure(specs []Spec) error {
	if n := len(specs); n < l.limits.MinTeams || n > l.limits.MaxTeams {
		return fmt.Errorf("%w: team count %d outside [%d,%d]", ErrInvalidTeams, n, l.limits.MinTeams, l.limits.MaxTeams)
	}

	teams := make([]Team, 0, len(specs))
	byName := make(map[string]int, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return fmt.Errorf("%w: team %d has an empty name", ErrInvalidTeams, i+1)
		}
		if _, dup := byName[name]; dup {
			return fmt.Errorf("%w: duplicate team name %q", ErrInvalidTeams, name)
		}
		if spec.StartingBudget < l.limits.MinBudget {
			return fmt.Errorf("%w: team %q budget %d below minimum %d", ErrInvalidTeams, name, spec.StartingBudget, l.limits.MinBudget)
		}
		byName[name] = len(teams)
		teams = append(teams, Team{Name: name, StartingBudget: spec.StartingBudget})
	}

	l.teams = teams
	l.byName = byName
	return nil
}

// CreditSale records a purchase: appends the player to the team roster and
// increments spent. The sale is rejected whole if it would drive spent above
// the starting budget.
func (l *Ledger) CreditSale(teamName, playerNo string, price int) error {
	t, err := l.lookup(teamName)
	if err != nil {
		return err
	}
	if price < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativePrice, price)
	}
	if t.Spent+price > t.StartingBudget {
		return fmt.Errorf("%w: team %q needs %d but has %d remaining", ErrBudgetExceeded, t.Name, price, t.Remaining())
	}
	for _, a := range t.Acquired {
		if a.PlayerNo == playerNo {
			return fmt.Errorf("%w: player %q on team %q", ErrAlreadyAcquired, playerNo, t.Name)
		}
	}

	t.Acquired = append(t.Acquired, Acquisition{PlayerNo: playerNo, Price: price})
	t.Spent += price
	return nil
}

// ReverseSale removes the acquisition for playerNo and decrements spent by
// price. Used by undo and corrections.
func (l *Ledger) ReverseSale(teamName, playerNo string, price int) error {
	t, err := l.lookup(teamName)
	if err != nil {
		return err
	}
	for i, a := range t.Acquired {
		if a.PlayerNo == playerNo {
			t.Acquired = append(t.Acquired[:i], t.Acquired[i+1:]...)
			t.Spent -= price
			return nil
		}
	}
	return fmt.Errorf("%w: player %q not on team %q", ErrNotAcquired, playerNo, teamName)
}

// Reset clears every team's roster and spend, preserving names and budgets.
func (l *Ledger) Reset() {
	for i := range l.teams {
		l.teams[i].Acquired = nil
		l.teams[i].Spent = 0
	}
}

// Clear discards all teams.
func (l *Ledger) Clear() {
	l.teams = nil
	l.byName = make(map[string]int)
}

// Get returns a copy of the named team.
func (l *Ledger) Get(name string) (Team, error) {
	t, err := l.lookup(name)
	if err != nil {
		return Team{}, err
	}
	out := *t
	out.Acquired = append([]Acquisition(nil), t.Acquired...)
	return out, nil
}

// Teams returns copies of all teams in configuration order.
func (l *Ledger) Teams() []Team {
	out := make([]Team, len(l.teams))
	for i, t := range l.teams {
		out[i] = t
		out[i].Acquired = append([]Acquisition(nil), t.Acquired...)
	}
	return out
}

// Names returns team names in configuration order.
func (l *Ledger) Names() []string {
	out := make([]string, len(l.teams))
	for i, t := range l.teams {
		out[i] = t.Name
	}
	return out
}

// Len returns the number of configured teams.
func (l *Ledger) Len() int { return len(l.teams) }

// Summaries produces the per-team budget overview.
func (l *Ledger) Summaries() []Summary {
	out := make([]Summary, len(l.teams))
	for i, t := range l.teams {
		out[i] = Summary{
			Name:        t.Name,
			Spent:       t.Spent,
			Remaining:   t.Remaining(),
			PlayerCount: len(t.Acquired),
		}
	}
	return out
}

func (l *Ledger) lookup(name string) (*Team, error) {
	i, ok := l.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, name)
	}
	return &l.teams[i], nil
}
