package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/stringsheet/android"
	"github.com/minios-linux/stringsheet/config"
	"github.com/minios-linux/stringsheet/resource"
	"github.com/minios-linux/stringsheet/xlsx"
)

const sourceXML = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="app_name">Hello</string>
    <string name="app_id" translatable="false">com.example.app</string>
    <string-array name="days">
        <item>Mon</item>
        <item>Tue</item>
    </string-array>
    <plurals name="apples">
        <item quantity="one">1 apple</item>
        <item quantity="other">%d apples</item>
    </plurals>
    <string name="welcome">Hello <b>World</b>, it\'s here</string>
</resources>
`

// memBook is an in-memory Workbook.
type memBook struct {
	files  map[string][][]string
	titles map[string]string
}

func newMemBook() *memBook {
	return &memBook{files: map[string][][]string{}, titles: map[string]string{}}
}

func (m *memBook) Write(path, title string, grid [][]string) error {
	m.files[path] = grid
	m.titles[path] = title
	return nil
}

func (m *memBook) Read(path, title string) ([][]string, error) {
	grid, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	if m.titles[path] != title {
		return nil, errors.New("sheet not found")
	}
	return grid, nil
}

func writeSource(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, android.FileName), []byte(sourceXML), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

var header = []string{"Key", "Type", "Index/Quantity", "en", "fr"}

// ---------------------------------------------------------------------------
// Deconstruct
// ---------------------------------------------------------------------------

func TestDeconstruct_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir)
	cfg := config.Default()
	cfg.Languages = []string{"French"}

	book := newMemBook()
	path, err := New(cfg, book, nil).Deconstruct("strings", dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "strings.xlsx"), path)
	assert.Equal(t, "Deconstructed Strings", book.titles[path])

	assert.Equal(t, [][]string{
		{"Key", "Type", "Index/Quantity", "English", "French"},
		{"app_name", "string", "", "Hello", ""},
		{"days", "string-array", "0", "Mon", ""},
		{"days", "string-array", "1", "Tue", ""},
		{"apples", "plurals", "one", "1 apple", ""},
		{"apples", "plurals", "other", "%d apples", ""},
		{"welcome", "string", "", "Hello <b>World</b>, it's here", ""},
	}, book.files[path])
}

func TestDeconstruct_IncludeUntranslatable(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir)
	cfg := config.Default()
	cfg.IncludeUntranslatable = true

	book := newMemBook()
	path, err := New(cfg, book, nil).Deconstruct("strings", dir, "")
	require.NoError(t, err)
	assert.Contains(t, book.files[path], []string{"app_id", "string", "", "com.example.app"})
}

func TestDeconstruct_StorageDirAndLegacyName(t *testing.T) {
	src := t.TempDir()
	writeSource(t, src)
	out := filepath.Join(t.TempDir(), "nested", "sheets")

	path, err := New(config.Default(), newMemBook(), nil).Deconstruct("strings.xls", src, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "strings.xlsx"), path)
	assert.DirExists(t, out)
}

func TestDeconstruct_NoOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir)
	existing := filepath.Join(dir, "strings.xlsx")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))

	cfg := config.Default()
	cfg.Overwrite = false
	book := newMemBook()
	_, err := New(cfg, book, nil).Deconstruct("strings", dir, "")
	assert.ErrorIs(t, err, ErrExists)
	assert.Empty(t, book.files)
	assert.Equal(t, "keep", readFile(t, existing))
}

func TestDeconstruct_Errors(t *testing.T) {
	_, err := New(config.Default(), newMemBook(), nil).Deconstruct("strings", t.TempDir(), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, android.FileName), []byte(`<resources><plurals name="p"><item>x</item></plurals></resources>`), 0644))
	_, err = New(config.Default(), newMemBook(), nil).Deconstruct("strings", dir, "")
	var malformed *resource.MalformedResourceError
	assert.ErrorAs(t, err, &malformed)
}

// ---------------------------------------------------------------------------
// Construct
// ---------------------------------------------------------------------------

func TestConstruct_OneFilePerLanguage(t *testing.T) {
	dir := t.TempDir()
	book := newMemBook()
	book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", [][]string{
		header,
		{"app_name", "string", "", "Hello", "Bonjour"},
		{"days", "string-array", "0", "Mon", "lun"},
		{"days", "string-array", "1", "Tue", "mar"},
	})

	written, err := New(config.Default(), book, nil).Construct("strings", dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "en", "strings.xml"),
		filepath.Join(dir, "fr", "strings.xml"),
	}, written)

	assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="app_name">Bonjour</string>
    <string-array name="days">
        <item>lun</item>
        <item>mar</item>
    </string-array>
</resources>
`, readFile(t, written[1]))
	assert.Contains(t, readFile(t, written[0]), `<string name="app_name">Hello</string>`)
}

func TestConstruct_RoundTripThroughWorkbook(t *testing.T) {
	src := t.TempDir()
	writeSource(t, src)
	out := t.TempDir()
	conv := New(config.Default(), xlsx.New(), nil)

	_, err := conv.Deconstruct("strings", src, "")
	require.NoError(t, err)
	written, err := conv.Construct("strings", src, out)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "English", "strings.xml")}, written)

	original, err := android.ParseFile(filepath.Join(src, android.FileName))
	require.NoError(t, err)
	assert.Equal(t, string(android.Marshal(original.Translatable())), readFile(t, written[0]))
}

func TestConstruct_EmptyCellKeepsEntry(t *testing.T) {
	dir := t.TempDir()
	book := newMemBook()
	book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", [][]string{
		header,
		{"app_name", "string", "", "Hello", ""},
	})

	written, err := New(config.Default(), book, nil).Construct("strings", dir, "")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, written[1]), `<string name="app_name"></string>`)
}

func TestConstruct_FailsWithoutPartialWrites(t *testing.T) {
	grid := [][]string{
		header,
		{"app_name", "string", "", "Hello", "Bonjour"},
		{"days", "string-array", "0", "Mon", ""},
	}

	t.Run("strict empty cell", func(t *testing.T) {
		dir := t.TempDir()
		book := newMemBook()
		book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", grid)
		cfg := config.Default()
		cfg.Strict = true

		_, err := New(cfg, book, nil).Construct("strings", dir, "")
		var missing *resource.MissingLanguageDataError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "fr", missing.Language)
		assert.NoDirExists(t, filepath.Join(dir, "en"))
	})

	t.Run("existing target with overwrite off", func(t *testing.T) {
		dir := t.TempDir()
		book := newMemBook()
		book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", grid)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "fr"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "fr", "strings.xml"), []byte("old"), 0644))
		cfg := config.Default()
		cfg.Overwrite = false

		_, err := New(cfg, book, nil).Construct("strings", dir, "")
		assert.ErrorIs(t, err, ErrExists)
		assert.NoDirExists(t, filepath.Join(dir, "en"))
		assert.Equal(t, "old", readFile(t, filepath.Join(dir, "fr", "strings.xml")))
	})

	t.Run("ambiguous rows", func(t *testing.T) {
		dir := t.TempDir()
		book := newMemBook()
		book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", [][]string{
			header,
			{"days", "string-array", "0", "Mon", "lun"},
			{"days", "string-array", "2", "Wed", "mer"},
		})

		_, err := New(config.Default(), book, nil).Construct("strings", dir, "")
		var amb *resource.AmbiguousGroupError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, "days", amb.Key)
		assert.NoDirExists(t, filepath.Join(dir, "en"))
	})
}

func TestConstruct_InputErrors(t *testing.T) {
	dir := t.TempDir()
	conv := New(config.Default(), newMemBook(), nil)

	_, err := conv.Construct("strings.xls", dir, "")
	assert.ErrorIs(t, err, ErrLegacyWorkbook)

	_, err = conv.Construct("strings", dir, "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	book := newMemBook()
	book.Write(filepath.Join(dir, "bad.xlsx"), "Deconstructed Strings", [][]string{
		{"Key", "Type", "Index/Quantity", "../etc"},
		{"a", "string", "", "x"},
	})
	_, err = New(config.Default(), book, nil).Construct("bad", dir, "")
	assert.ErrorContains(t, err, "path separators")
}

func TestConstruct_AndroidDirs(t *testing.T) {
	dir := t.TempDir()
	book := newMemBook()
	book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", [][]string{
		{"Key", "Type", "Index/Quantity", "English", "fr", "pt-br", "zh-Hans"},
		{"app_name", "string", "", "Hello", "Bonjour", "Olá", "你好"},
	})
	cfg := config.Default()
	cfg.AndroidDirs = true

	written, err := New(cfg, book, nil).Construct("strings", dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "values", "strings.xml"),
		filepath.Join(dir, "values-fr", "strings.xml"),
		filepath.Join(dir, "values-pt-rBR", "strings.xml"),
		filepath.Join(dir, "values-b+zh+Hans", "strings.xml"),
	}, written)
}

// ---------------------------------------------------------------------------
// Language directories
// ---------------------------------------------------------------------------

func TestLanguageDir(t *testing.T) {
	plain := New(config.Default(), nil, nil)
	dir, err := plain.LanguageDir("fr")
	require.NoError(t, err)
	assert.Equal(t, "fr", dir)
	_, err = plain.LanguageDir("..")
	assert.Error(t, err)

	cfg := config.Default()
	cfg.AndroidDirs = true
	conv := New(cfg, nil, nil)

	tests := map[string]string{
		"English": "values",
		"ru":      "values-ru",
		"pt-BR":   "values-pt-rBR",
		"es-419":  "values-b+es+419",
	}
	for lang, want := range tests {
		got, err := conv.LanguageDir(lang)
		require.NoError(t, err, lang)
		assert.Equal(t, want, got, lang)
	}

	_, err = conv.LanguageDir("not a tag!")
	assert.ErrorContains(t, err, "not a language tag")
}

func TestConstruct_DuplicateAndroidDir(t *testing.T) {
	dir := t.TempDir()
	book := newMemBook()
	book.Write(filepath.Join(dir, "strings.xlsx"), "Deconstructed Strings", [][]string{
		{"Key", "Type", "Index/Quantity", "pt-BR", "pt-br"},
		{"a", "string", "", "x", "y"},
	})
	cfg := config.Default()
	cfg.AndroidDirs = true

	_, err := New(cfg, book, nil).Construct("strings", dir, "")
	assert.ErrorContains(t, err, "both map to directory")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "français", displayName("fr"))
	assert.Equal(t, "not a tag!", displayName("not a tag!"))
}
