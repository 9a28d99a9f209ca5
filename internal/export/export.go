// Package export renders auction results into a downloadable workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/deveshc20/cricket-auction/internal/engine"
)

// CombinedSheet is the name of the all-results sheet.
const CombinedSheet = "Combined Results"

// maxSheetName is the xlsx sheet-name length limit.
const maxSheetName = 31

// Write renders the export view as an Excel workbook: one combined results
// sheet plus one sheet per team that bought at least one player, named after
// the team.
func Write(w io.Writer, view engine.ExportView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CombinedSheet); err != nil {
		return fmt.Errorf("naming combined sheet: %w", err)
	}
	combined := [][]interface{}{{"Player No", "Player Name", "Role", "Team", "Price"}}
	for _, r := range view.Combined {
		combined = append(combined, []interface{}{r.PlayerNo, r.Name, r.Role, r.Team, r.Price})
	}
	if err := writeRows(f, CombinedSheet, combined); err != nil {
		return err
	}

	for _, team := range view.Teams {
		if len(team.Players) == 0 {
			continue
		}
		name := sheetName(team.Name)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet for team %q: %w", team.Name, err)
		}
		rows := [][]interface{}{{"Player No", "Player Name", "Role", "Price"}}
		for _, p := range team.Players {
			rows = append(rows, []interface{}{p.PlayerNo, p.Name, p.Role, p.Price})
		}
		if err := writeRows(f, name, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("writing row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}

func sheetName(team string) string {
	if len(team) > maxSheetName {
		return team[:maxSheetName]
	}
	return team
}
