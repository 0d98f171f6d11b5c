// Package sheet turns an uploaded .xlsx workbook into ImportRows.
//
// Only the first worksheet is read. Its first row names the columns;
// column order is free, header matching ignores case and surrounding
// spaces, and unknown columns are ignored. A column missing from the
// header yields "" for every row. Fully blank rows are dropped, but each
// row keeps its spreadsheet line number.
//
// Cells are read as stored, not as displayed: a number formatted "#,##0"
// arrives as "1200000" and a boolean as "1" or "0".
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aanand-mishra/alumni-api/internal/types"
)

// ErrNoSheet is returned for a workbook without worksheets.
var ErrNoSheet = errors.New("workbook has no sheets")

type setter func(row *types.ImportRow, value string)

// setters is keyed by lower-cased header name.
var setters = map[string]setter{
	"name":                func(r *types.ImportRow, v string) { r.Name = v },
	"email":               func(r *types.ImportRow, v string) { r.Email = v },
	"phone":               func(r *types.ImportRow, v string) { r.Phone = v },
	"registernumber":      func(r *types.ImportRow, v string) { r.RegisterNumber = v },
	"department":          func(r *types.ImportRow, v string) { r.Department = v },
	"section":             func(r *types.ImportRow, v string) { r.Section = v },
	"passoutyear":         func(r *types.ImportRow, v string) { r.PassOutYear = v },
	"coursedurationyears": func(r *types.ImportRow, v string) { r.CourseDurationYears = v },
	"placed":              func(r *types.ImportRow, v string) { r.Placed = v },
	"company":             func(r *types.ImportRow, v string) { r.Company = v },
	"location":            func(r *types.ImportRow, v string) { r.Location = v },
	"minctc":              func(r *types.ImportRow, v string) { r.MinCTC = v },
	"designation":         func(r *types.ImportRow, v string) { r.Designation = v },
}

// Parse reads the first worksheet of the workbook in r.
func Parse(r io.Reader) ([]types.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return FromGrid(grid), nil
}

// FromGrid maps a header-first grid of cell text to ImportRows.
func FromGrid(grid [][]string) []types.ImportRow {
	if len(grid) == 0 {
		return nil
	}

	columns := make([]setter, len(grid[0]))
	for i, name := range grid[0] {
		columns[i] = setters[strings.ToLower(strings.TrimSpace(name))]
	}

	rows := make([]types.ImportRow, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if isBlank(cells) {
			continue
		}

		row := types.ImportRow{Line: i + 2}
		for i, cell := range cells {
			if i >= len(columns) || columns[i] == nil {
				continue
			}
			columns[i](&row, strings.TrimSpace(cell))
		}
		rows = append(rows, row)
	}

	return rows
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
