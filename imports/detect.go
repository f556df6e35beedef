package imports

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Anchor strings marking the header row of an embedded item table. Both must
// appear in the same row for the sheet to qualify.
const (
	categoryMarker = "Item Category"
	serialMarker   = "Sl. No."
)

// Detect scans every worksheet for an embedded item table and returns one
// candidate per qualifying sheet, preserving sheet order.
//
// The header row is the first row containing the category marker; the header
// column is the position of the serial marker within that row. The data row is
// the first row below whose serial cell equals 1. When no such row exists the
// data offset points past the end of the sheet, so slicing yields zero rows.
func Detect(f *excelize.File) ([]CandidateSheet, error) {
	var candidates []CandidateSheet
	for idx, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("render sheet %q: %w", sheetName, err)
		}

		headerRow, headerCol := findHeader(rows)
		if headerRow < 0 {
			continue
		}

		dataRow := len(rows)
		for r := headerRow + 1; r < len(rows); r++ {
			if cellAt(rows[r], headerCol) == "1" {
				dataRow = r
				break
			}
		}

		candidates = append(candidates, CandidateSheet{
			SheetName:    sheetName,
			SheetIndex:   idx,
			HeaderRow:    headerRow,
			HeaderColumn: headerCol,
			DataRow:      dataRow,
		})
	}
	return candidates, nil
}

func findHeader(rows [][]string) (headerRow, headerCol int) {
	for r, row := range rows {
		if !rowContains(row, categoryMarker) {
			continue
		}
		for c, cell := range row {
			if strings.TrimSpace(cell) == serialMarker {
				return r, c
			}
		}
		// Category marker without a serial column disqualifies the sheet.
		return -1, -1
	}
	return -1, -1
}

func rowContains(row []string, marker string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == marker {
			return true
		}
	}
	return false
}

// SliceRows derives the raw import rows of a candidate: rows from the data
// offset onward, column-sliced from the header column, with hyperlink targets
// substituted for cell display text. Rows with an empty item-name cell are
// decorative and dropped.
func SliceRows(f *excelize.File, cand CandidateSheet) ([][]string, error) {
	rows, err := f.GetRows(cand.SheetName)
	if err != nil {
		return nil, fmt.Errorf("render sheet %q: %w", cand.SheetName, err)
	}

	out := make([][]string, 0, len(rows))
	for r := cand.DataRow; r < len(rows); r++ {
		full := rows[r]
		if cand.HeaderColumn >= len(full) {
			continue
		}
		row := make([]string, len(full)-cand.HeaderColumn)
		copy(row, full[cand.HeaderColumn:])

		for c := range row {
			cellName, err := excelize.CoordinatesToCellName(cand.HeaderColumn+c+1, r+1)
			if err != nil {
				continue
			}
			hasLink, target, err := f.GetCellHyperLink(cand.SheetName, cellName)
			if err == nil && hasLink && target != "" {
				row[c] = target
			}
		}

		if strings.TrimSpace(cellAt(row, colItemName)) == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func cellAt(row []string, offset int) string {
	if offset < 0 || offset >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[offset])
}
