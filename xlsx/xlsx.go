// Package xlsx stores sheet grids in .xlsx workbooks.
//
// It only moves cell text in and out of a single worksheet and applies
// the translator-facing styling (coloured header, striped rows, wrapped
// language columns, frozen header row). Interpreting the cells is the
// job of package sheet.
package xlsx

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Ext is the workbook file extension.
const Ext = ".xlsx"

// NormalizeName appends the .xlsx extension when missing. A legacy .xls
// extension is replaced and reported through legacy.
func NormalizeName(name string) (normalized string, legacy bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, Ext):
		return name, false
	case strings.HasSuffix(lower, ".xls"):
		return name[:len(name)-len(".xls")] + Ext, true
	}
	return name + Ext, false
}

// Style controls the look of written workbooks.
type Style struct {
	// HeaderColor fills the header row (hex RGB without '#').
	HeaderColor string
	// StripeColor fills every other data row.
	StripeColor string
	// LanguageWidth is the column width of language columns.
	LanguageWidth float64
	// FixedColumns is the number of leading non-language columns.
	FixedColumns int
}

// DefaultStyle matches the classic translation sheet layout.
var DefaultStyle = Style{
	HeaderColor:   "90CAF9",
	StripeColor:   "BBDEFB",
	LanguageWidth: 50,
	FixedColumns:  3,
}

// Workbook reads and writes single-sheet .xlsx files.
type Workbook struct {
	Style Style
}

// New returns a Workbook using DefaultStyle.
func New() *Workbook {
	return &Workbook{Style: DefaultStyle}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write saves grid as the only worksheet of a new workbook at path,
// replacing any existing file.
func (w *Workbook) Write(path, title string, grid [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), title); err != nil {
		return fmt.Errorf("naming sheet %q: %w", title, err)
	}

	for i, line := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := line
		if err := f.SetSheetRow(title, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := w.style(f, title, grid); err != nil {
		return fmt.Errorf("styling sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (w *Workbook) style(f *excelize.File, title string, grid [][]string) error {
	if len(grid) == 0 {
		return nil
	}
	width := 0
	for _, line := range grid {
		width = max(width, len(line))
	}
	if width == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "424242"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.Style.HeaderColor}},
		Border:    border,
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return err
	}
	plain, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	striped, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.Style.StripeColor}},
		Border:    border,
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(title, "A1", lastCol+"1", header); err != nil {
		return err
	}
	for row := 2; row <= len(grid); row++ {
		id := plain
		if row%2 == 1 {
			id = striped
		}
		if err := f.SetCellStyle(title, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), id); err != nil {
			return err
		}
	}

	// Fixed columns fit their content; language columns wrap.
	for col := 1; col <= width; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		colWidth := w.Style.LanguageWidth
		if col <= w.Style.FixedColumns {
			colWidth = float64(min(longestCell(grid, col-1)+2, excelize.MaxColumnWidth))
		}
		if err := f.SetColWidth(title, name, name, colWidth); err != nil {
			return err
		}
	}

	return f.SetPanes(title, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func longestCell(grid [][]string, col int) int {
	n := 0
	for _, line := range grid {
		if col < len(line) {
			n = max(n, utf8.RuneCountInString(line[col]))
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// Read returns the cell text of the worksheet named title.
func (w *Workbook) Read(path, title string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(title); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s (sheets: %s)", title, path, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", title, err)
	}
	return rows, nil
}
