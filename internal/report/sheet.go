// Package report renders MSE records into xlsx workbooks.
package report

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/xuri/excelize/v2"
)

// Mode selects how a sheet's first column is filled.
type Mode int

const (
	// SingleUnit numbers rows 1..n. All records must share a unit kind.
	SingleUnit Mode = iota
	// Consolidated labels each row with its source unit.
	Consolidated
)

func (m Mode) String() string {
	if m == Consolidated {
		return "consolidated"
	}
	return "single-unit"
}

const (
	emptyColumnWidth = 15
	maxColumnWidth   = 50
)

// ErrMixedUnitKinds is returned when a single-unit sheet receives records of
// both expert panels and bureaus.
var ErrMixedUnitKinds = errors.New("sheet records mix expert panel and bureau units")

// BuildSheet writes records to an existing sheet of f.
//
// The column suffix follows the first record's unit kind; hint decides it
// when records is empty. A consolidated batch spanning both kinds gets the
// bureau and expert suffixes side by side.
func BuildSheet(f *excelize.File, sheet string, records []record.Record, mode Mode, hint unit.Kind) error {
	l, err := resolveLayout(records, mode, hint)
	if err != nil {
		return err
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	headers := l.headers()
	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(l.width())
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := freezeHeader(f, sheet); err != nil {
		return err
	}

	if len(records) == 0 {
		return writePlaceholder(f, sheet, lastCol, styles.placeholder)
	}

	widths := make([]int, l.width())
	for i, h := range headers {
		widths[i] = runeLen(h)
	}

	for i := range records {
		cells := l.row(&records[i], i+1)
		for c, v := range cells {
			widths[c] = max(widths[c], runeLen(v))
		}

		row := toCells(cells)
		if mode == SingleUnit {
			row[0] = i + 1
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	lastRow := strconv.Itoa(len(records) + 1)
	if err := f.SetCellStyle(sheet, "A2", lastCol+lastRow, styles.cell); err != nil {
		return fmt.Errorf("cell style: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, columnWidth(w)); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	if err := f.AutoFilter(sheet, "A1:"+lastCol+lastRow, nil); err != nil {
		return fmt.Errorf("auto filter: %w", err)
	}
	return nil
}

// resolveLayout picks the column set for a batch.
func resolveLayout(records []record.Record, mode Mode, hint unit.Kind) (layout, error) {
	if len(records) == 0 {
		return newLayout(mode, suffixFor(hint)), nil
	}

	first := records[0].Unit
	expert := first.Kind == unit.ExpertPanel
	mixed := false
	for i := range records[1:] {
		if (records[i+1].Unit.Kind == unit.ExpertPanel) != expert {
			mixed = true
			break
		}
	}

	switch {
	case !mixed:
		return newLayout(mode, suffixFor(first.Kind)), nil
	case mode == Consolidated:
		// Mixed batches take both suffixes instead of the first record's.
		return newLayout(mode, bureauColumns, expertColumns), nil
	default:
		return layout{}, fmt.Errorf("%w: first record from %s", ErrMixedUnitKinds, first)
	}
}

func suffixFor(k unit.Kind) []column {
	if k == unit.ExpertPanel {
		return expertColumns
	}
	return bureauColumns
}

func writePlaceholder(f *excelize.File, sheet, lastCol string, style int) error {
	if err := f.SetCellValue(sheet, "A2", placeholderText); err != nil {
		return fmt.Errorf("placeholder: %w", err)
	}
	// The note sits in column A alone; the rest of row 2 only carries borders.
	if err := f.SetCellStyle(sheet, "A2", lastCol+"2", style); err != nil {
		return fmt.Errorf("placeholder style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, emptyColumnWidth); err != nil {
		return fmt.Errorf("set width: %w", err)
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet string) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

type sheetStyles struct {
	header      int
	cell        int
	placeholder int
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder,
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.cell, err = f.NewStyle(&excelize.Style{
		Border: thinBorder,
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return s, fmt.Errorf("cell style: %w", err)
	}

	s.placeholder, err = f.NewStyle(&excelize.Style{
		Border: thinBorder,
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return s, fmt.Errorf("placeholder style: %w", err)
	}

	return s, nil
}
