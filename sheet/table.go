package sheet

import (
	"fmt"
	"strings"
)

// Fixed leading header cells. Every column after them is a language.
const (
	HeaderKey  = "Key"
	HeaderType = "Type"
	HeaderSub  = "Index/Quantity"

	fixedColumns = 3
)

// Table is the whole sheet: ordered language columns and the rows.
type Table struct {
	Languages []string
	Rows      []Row
}

// NewTable wraps rows with the given language columns. Duplicate and empty
// language names are dropped; the first occurrence wins.
func NewTable(rows []Row, languages ...string) *Table {
	t := &Table{Rows: rows}
	for _, lang := range languages {
		if lang == "" || t.HasLanguage(lang) {
			continue
		}
		t.Languages = append(t.Languages, lang)
	}
	return t
}

// HasLanguage reports whether the table has a column for lang.
func (t *Table) HasLanguage(lang string) bool {
	for _, l := range t.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Grid renders the table as a header row followed by one row per record.
// Missing cells are empty strings.
func (t *Table) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	header := append([]string{HeaderKey, HeaderType, HeaderSub}, t.Languages...)
	grid = append(grid, header)

	for _, r := range t.Rows {
		line := make([]string, 0, len(header))
		line = append(line, r.Key, r.Kind.Tag(), r.Sub.String())
		for _, lang := range t.Languages {
			line = append(line, r.Value(lang))
		}
		grid = append(grid, line)
	}
	return grid
}

// FromGrid reads a header row plus data rows into a table. Columns after
// the three fixed ones whose header is blank are ignored; duplicate
// language headers are an error. Blank data rows are skipped.
func FromGrid(grid [][]string) (*Table, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	header := grid[0]
	if len(header) < fixedColumns {
		return nil, &InvalidRowError{Line: 1, Reason: fmt.Sprintf("header has %d columns, want at least %d", len(header), fixedColumns)}
	}

	t := &Table{}
	var columns []int
	for col := fixedColumns; col < len(header); col++ {
		lang := strings.TrimSpace(header[col])
		if lang == "" {
			continue
		}
		if t.HasLanguage(lang) {
			return nil, &InvalidRowError{Line: 1, Reason: fmt.Sprintf("duplicate language column %q", lang)}
		}
		t.Languages = append(t.Languages, lang)
		columns = append(columns, col)
	}
	if len(t.Languages) == 0 {
		return nil, &InvalidRowError{Line: 1, Reason: "no language columns"}
	}

	for i, line := range grid[1:] {
		lineNo := i + 2
		if isBlank(line) {
			continue
		}

		key := strings.TrimSpace(cellAt(line, 0))
		if key == "" {
			return nil, &InvalidRowError{Line: lineNo, Reason: "missing key"}
		}
		kind, err := ParseKind(strings.TrimSpace(cellAt(line, 1)))
		if err != nil {
			return nil, &InvalidRowError{Line: lineNo, Reason: err.Error()}
		}
		sub, err := ParseSubIndex(strings.TrimSpace(cellAt(line, 2)))
		if err != nil {
			return nil, &InvalidRowError{Line: lineNo, Reason: err.Error()}
		}

		r := Row{Key: key, Kind: kind, Sub: sub, Values: make(map[string]string, len(columns))}
		for j, col := range columns {
			r.Values[t.Languages[j]] = cellAt(line, col)
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

func cellAt(line []string, col int) string {
	if col < len(line) {
		return line[col]
	}
	return ""
}

func isBlank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
