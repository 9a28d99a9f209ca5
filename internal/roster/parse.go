package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required workbook columns, matched case-insensitively after trimming.
const (
	colPlayerNo   = "player no"
	colPlayerName = "player name"
	colRole       = "role"
)

// ParseWorkbook reads roster rows from the first sheet of an Excel workbook.
// Header matching mirrors the upload contract: headers are trimmed and
// lowercased, extra columns are ignored, and a missing required column is a
// validation failure before any row is produced.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrInvalidRoster, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidRoster)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrInvalidRoster, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrInvalidRoster, sheets[0])
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	// "name" is an accepted alias for the player name column.
	if _, ok := cols[colPlayerName]; !ok {
		if i, ok := cols["name"]; ok {
			cols[colPlayerName] = i
		}
	}

	var missing []string
	for _, required := range []string{colPlayerNo, colPlayerName, colRole} {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", ErrInvalidRoster, strings.Join(missing, ", "))
	}

	var out []Row
	for _, cells := range rows[1:] {
		row := Row{
			No:   cell(cells, cols[colPlayerNo]),
			Name: cell(cells, cols[colPlayerName]),
			Role: cell(cells, cols[colRole]),
		}
		// Trailing blank rows are common in exported sheets.
		if row.No == "" && row.Name == "" && row.Role == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
