// Package convert runs the two stringsheet pipelines.
//
// Deconstruct turns <source>/strings.xml into a translator workbook;
// Construct turns a filled-in workbook back into one strings.xml per
// language column. Both pipelines fail fast and write nothing until every
// step before the write has succeeded.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/stringsheet/android"
	"github.com/minios-linux/stringsheet/config"
	"github.com/minios-linux/stringsheet/resource"
	"github.com/minios-linux/stringsheet/sheet"
	"github.com/minios-linux/stringsheet/xlsx"
)

// ErrExists is returned when an output file is already present and
// overwriting is disabled.
var ErrExists = errors.New("output already exists")

// ErrLegacyWorkbook is returned when construction is asked to read a
// pre-2007 .xls workbook.
var ErrLegacyWorkbook = errors.New("only .xlsx workbooks are supported")

// Workbook moves a cell grid in and out of a spreadsheet file.
type Workbook interface {
	Write(path, title string, grid [][]string) error
	Read(path, title string) ([][]string, error)
}

// Converter wires the reader, flattener, builder and writer together.
type Converter struct {
	cfg  config.Config
	book Workbook
	log  *log.Logger
}

// New returns a Converter. A nil logger discards output.
func New(cfg config.Config, book Workbook, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Converter{cfg: cfg, book: book, log: logger}
}

// ---------------------------------------------------------------------------
// Deconstruction
// ---------------------------------------------------------------------------

// Deconstruct reads sourceDir/strings.xml and writes the workbook name
// into storageDir (sourceDir when empty). It returns the workbook path.
func (c *Converter) Deconstruct(name, sourceDir, storageDir string) (string, error) {
	if storageDir == "" {
		storageDir = sourceDir
	}
	file, legacy := xlsx.NormalizeName(name)
	if legacy {
		c.log.Warn("legacy .xls name replaced", "file", file)
	}

	set, err := android.ParseFile(filepath.Join(sourceDir, android.FileName))
	if err != nil {
		return "", err
	}
	c.log.Debug("parsed resources", "entries", set.Len(), "values", set.LeafCount())

	if !c.cfg.IncludeUntranslatable {
		kept := set.Translatable()
		if skipped := set.Len() - kept.Len(); skipped > 0 {
			c.log.Info("skipping untranslatable resources", "count", skipped)
		}
		set = kept
	}

	langs := append([]string{c.cfg.SourceLang}, c.cfg.Languages...)
	table := sheet.NewTable(sheet.Flatten(set, c.cfg.SourceLang), langs...)

	path := filepath.Join(storageDir, file)
	if err := c.checkTarget(path); err != nil {
		return "", err
	}
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", storageDir, err)
	}
	if err := c.book.Write(path, c.cfg.SheetTitle, table.Grid()); err != nil {
		return "", err
	}

	c.log.Info("workbook written", "file", path, "rows", len(table.Rows), "languages", len(table.Languages))
	return path, nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// output is one built language waiting to be written.
type output struct {
	lang string
	path string
	set  *resource.Set
}

// Construct reads the workbook name from sourceDir and writes
// <dir>/strings.xml under storageDir (sourceDir when empty) for every
// language column. It returns the written paths in column order.
func (c *Converter) Construct(name, sourceDir, storageDir string) ([]string, error) {
	if storageDir == "" {
		storageDir = sourceDir
	}
	file, legacy := xlsx.NormalizeName(name)
	if legacy {
		return nil, fmt.Errorf("%s: %w", name, ErrLegacyWorkbook)
	}

	grid, err := c.book.Read(filepath.Join(sourceDir, file), c.cfg.SheetTitle)
	if err != nil {
		return nil, err
	}
	table, err := sheet.FromGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	builder := sheet.Builder{Strict: c.cfg.Strict}
	dirs := make(map[string]string, len(table.Languages))
	outputs := make([]output, 0, len(table.Languages))
	for _, lang := range table.Languages {
		dir, err := c.LanguageDir(lang)
		if err != nil {
			return nil, err
		}
		if prev, ok := dirs[dir]; ok {
			return nil, fmt.Errorf("columns %q and %q both map to directory %q", prev, lang, dir)
		}
		dirs[dir] = lang

		set, err := builder.Build(table.Rows, lang)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", lang, err)
		}
		c.log.Debug("built language", "column", lang, "name", displayName(lang), "entries", set.Len())
		outputs = append(outputs, output{
			lang: lang,
			path: filepath.Join(storageDir, dir, android.FileName),
			set:  set,
		})
	}

	for _, out := range outputs {
		if err := c.checkTarget(out.path); err != nil {
			return nil, err
		}
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		if err := android.WriteFile(out.path, out.set); err != nil {
			return written, err
		}
		c.log.Info("strings written", "language", displayName(out.lang), "file", out.path)
		written = append(written, out.path)
	}
	return written, nil
}

// LanguageDir returns the output directory name for a language column.
// With AndroidDirs the source language maps to "values" and every other
// header must be a BCP 47 tag ("fr", "pt-BR", "zh-Hans").
func (c *Converter) LanguageDir(lang string) (string, error) {
	if !c.cfg.AndroidDirs {
		if err := config.CheckLanguageName(lang); err != nil {
			return "", fmt.Errorf("column header: %w", err)
		}
		return lang, nil
	}
	if lang == c.cfg.SourceLang {
		return android.SourceDirName, nil
	}
	tag, err := language.Parse(lang)
	if err != nil || tag == language.Und {
		return "", fmt.Errorf("column %q is not a language tag: cannot map it to an Android resource directory", lang)
	}
	return android.LocaleDirName(tag.String()), nil
}

func (c *Converter) checkTarget(path string) error {
	if c.cfg.Overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// displayName names a language header for log output, e.g. "fr" -> "français".
func displayName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil || tag == language.Und {
		return lang
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return lang
}
