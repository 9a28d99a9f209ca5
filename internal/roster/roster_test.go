package roster_test

import (
	"errors"
	"testing"

	"github.com/deveshc20/cricket-auction/internal/roster"
)

func validRows() []roster.Row {
	return []roster.Row{
		{No: "1", Name: "V Kohli", Role: "Batter"},
		{No: "2", Name: "J Bumrah", Role: "Bowler"},
		{No: "3", Name: "R Jadeja", Role: "All-rounder"},
	}
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		rows    []roster.Row
		wantErr error
	}{
		{name: "valid roster", rows: validRows()},
		{name: "empty roster", rows: nil, wantErr: roster.ErrInvalidRoster},
		{
			name: "missing name",
			rows: []roster.Row{{No: "1", Name: "", Role: "Batter"}},
			wantErr: roster.ErrInvalidRoster,
		},
		{
			name: "missing role",
			rows: []roster.Row{{No: "1", Name: "V Kohli", Role: "  "}},
			wantErr: roster.ErrInvalidRoster,
		},
		{
			name: "duplicate player number",
			rows: []roster.Row{
				{No: "1", Name: "V Kohli", Role: "Batter"},
				{No: "1", Name: "J Bumrah", Role: "Bowler"},
			},
			wantErr: roster.ErrInvalidRoster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := roster.NewStore()
			err := s.Load(tt.rows)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if s.Len() != len(tt.rows) {
					t.Errorf("Len() = %d, want %d", s.Len(), len(tt.rows))
				}
				if got := len(s.Pending()); got != len(tt.rows) {
					t.Errorf("Pending() = %d players, want %d", got, len(tt.rows))
				}
			}
		})
	}
}

func TestStore_LoadFailureLeavesRosterUntouched(t *testing.T) {
	s := roster.NewStore()
	if err := s.Load(validRows()); err != nil {
		t.Fatal(err)
	}

	bad := []roster.Row{{No: "9", Name: "", Role: "Batter"}}
	if err := s.Load(bad); !errors.Is(err, roster.ErrInvalidRoster) {
		t.Fatalf("Load() error = %v, want ErrInvalidRoster", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d after failed load, want 3", s.Len())
	}
}

func TestStore_MarkAuctioned(t *testing.T) {
	s := roster.NewStore()
	if err := s.Load(validRows()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkAuctioned("2", true); err != nil {
		t.Fatalf("MarkAuctioned() error: %v", err)
	}
	if got := len(s.Pending()); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
	if got := len(s.Completed()); got != 1 {
		t.Errorf("Completed() = %d, want 1", got)
	}

	p, err := s.Get("2")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Auctioned {
		t.Error("expected player 2 to be flagged auctioned")
	}

	if err := s.MarkAuctioned("99", true); !errors.Is(err, roster.ErrPlayerNotFound) {
		t.Errorf("MarkAuctioned(unknown) error = %v, want ErrPlayerNotFound", err)
	}
}

func TestStore_Reset(t *testing.T) {
	s := roster.NewStore()
	if err := s.Load(validRows()); err != nil {
		t.Fatal(err)
	}
	_ = s.MarkAuctioned("1", true)
	_ = s.MarkAuctioned("2", true)

	s.Reset()

	if got := len(s.Pending()); got != 3 {
		t.Errorf("Pending() after Reset = %d, want 3", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() after Reset = %d, want 3 (roster must survive)", s.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	s := roster.NewStore()
	if err := s.Load(validRows()); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	if _, err := s.Get("1"); !errors.Is(err, roster.ErrPlayerNotFound) {
		t.Errorf("Get() after Clear error = %v, want ErrPlayerNotFound", err)
	}
}
