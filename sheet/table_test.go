package sheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/stringsheet/resource"
)

func TestTableGrid(t *testing.T) {
	table := NewTable(Flatten(sampleSet(t), "en"), "en", "fr", "", "en")
	assert.Equal(t, []string{"en", "fr"}, table.Languages)

	grid := table.Grid()
	require.Len(t, grid, 7)
	assert.Equal(t, []string{"Key", "Type", "Index/Quantity", "en", "fr"}, grid[0])
	assert.Equal(t, []string{"app_name", "string", "", "Hello", ""}, grid[1])
	assert.Equal(t, []string{"days", "string-array", "1", "Tue", ""}, grid[3])
	assert.Equal(t, []string{"apples", "plurals", "other", "%d apples", ""}, grid[5])
}

func TestFromGrid_RoundTrip(t *testing.T) {
	rows := Flatten(sampleSet(t), "en")
	for i := range rows {
		rows[i].Values["fr"] = "fr-" + rows[i].Values["en"]
	}
	table := NewTable(rows, "en", "fr")

	got, err := FromGrid(table.Grid())
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestFromGrid_ShortRowsAndBlankColumns(t *testing.T) {
	grid := [][]string{
		{"Key", "Type", "Index/Quantity", "en", "", "fr"},
		{"hello", "string", "", "Hello"},
		{},
		{"  ", "", ""},
		{"days", "string-array", "0", "Mon", "ignored", "lun"},
	}
	table, err := FromGrid(grid)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, table.Languages)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, map[string]string{"en": "Hello", "fr": ""}, table.Rows[0].Values)
	assert.Equal(t, map[string]string{"en": "Mon", "fr": "lun"}, table.Rows[1].Values)
	assert.Equal(t, AtIndex(0), table.Rows[1].Sub)
}

func TestFromGrid_Errors(t *testing.T) {
	header := []string{"Key", "Type", "Index/Quantity", "en"}
	tests := []struct {
		name string
		grid [][]string
		line int
	}{
		{name: "short header", grid: [][]string{{"Key", "Type"}}, line: 1},
		{name: "no languages", grid: [][]string{{"Key", "Type", "Index/Quantity", " "}}, line: 1},
		{name: "duplicate language", grid: [][]string{{"Key", "Type", "Index/Quantity", "en", "en"}}, line: 1},
		{name: "missing key", grid: [][]string{header, {"", "string", "", "x"}}, line: 2},
		{name: "unknown type", grid: [][]string{header, {"a", "string", "", "x"}, {"b", "item", "", "y"}}, line: 3},
		{name: "bad index", grid: [][]string{header, {"a", "string-array", "-2", "x"}}, line: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromGrid(tc.grid)
			var rowErr *InvalidRowError
			require.True(t, errors.As(err, &rowErr), "got %v", err)
			assert.Equal(t, tc.line, rowErr.Line)
		})
	}

	_, err := FromGrid(nil)
	assert.Error(t, err)
}

func TestFromGrid_BuildEachLanguage(t *testing.T) {
	grid := [][]string{
		{"Key", "Type", "Index/Quantity", "en", "fr"},
		{"app_name", "string", "", "Hello", "Bonjour"},
		{"apples", "plurals", "one", "1 apple", "1 pomme"},
		{"apples", "plurals", "other", "%d apples", "%d pommes"},
	}
	table, err := FromGrid(grid)
	require.NoError(t, err)

	fr, err := Build(table.Rows, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", fr.Get(resource.KindString, "app_name").Value.String())
	v, ok := fr.Get(resource.KindPlurals, "apples").Quantity("other")
	require.True(t, ok)
	assert.Equal(t, "%d pommes", v.String())
}
