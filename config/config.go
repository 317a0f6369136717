// Package config loads .stringsheet.yaml configuration.
//
// Settings are resolved in three layers: built-in defaults, then the
// optional .stringsheet.yaml file, then STRINGSHEET_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".stringsheet.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STRINGSHEET_"

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the .stringsheet.yaml structure.
type Config struct {
	// SheetTitle is the worksheet holding the strings.
	SheetTitle string `yaml:"sheet_title,omitempty" env:"SHEET_TITLE"`
	// SourceLang is the header of the column filled from strings.xml.
	SourceLang string `yaml:"source_lang,omitempty" env:"SOURCE_LANG"`
	// Languages are extra empty columns added for translators.
	Languages []string `yaml:"languages,omitempty" env:"LANGUAGES" envSeparator:","`
	// Overwrite allows replacing existing output files.
	Overwrite bool `yaml:"overwrite" env:"OVERWRITE"`
	// Strict rejects empty translation cells on construction.
	Strict bool `yaml:"strict,omitempty" env:"STRICT"`
	// AndroidDirs writes values-<locale>/ directories instead of using the
	// column header as directory name.
	AndroidDirs bool `yaml:"android_dirs,omitempty" env:"ANDROID_DIRS"`
	// IncludeUntranslatable keeps translatable="false" resources in the sheet.
	IncludeUntranslatable bool `yaml:"include_untranslatable,omitempty" env:"INCLUDE_UNTRANSLATABLE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SheetTitle: "Deconstructed Strings",
		SourceLang: "English",
		Overwrite:  true,
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .stringsheet.yaml from dir. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(dir string) (Config, error) {
	return LoadFile(filepath.Join(dir, FileName), false)
}

// LoadFile reads the config file at path. When required is false a
// missing file is not an error.
func LoadFile(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		// defaults only
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("reading %s* environment: %w", EnvPrefix, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.SheetTitle = strings.TrimSpace(c.SheetTitle)
	c.SourceLang = strings.TrimSpace(c.SourceLang)
	langs := c.Languages[:0]
	for _, l := range c.Languages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	c.Languages = langs
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate checks the settings that the workbook and the output
// directories depend on.
func (c Config) Validate() error {
	if c.SheetTitle == "" {
		return fmt.Errorf("sheet_title must not be empty")
	}
	if len([]rune(c.SheetTitle)) > 31 {
		return fmt.Errorf("sheet_title %q is longer than 31 characters", c.SheetTitle)
	}
	if strings.ContainsAny(c.SheetTitle, `[]:*?/\`) {
		return fmt.Errorf("sheet_title %q contains one of []:*?/\\", c.SheetTitle)
	}
	if err := CheckLanguageName(c.SourceLang); err != nil {
		return fmt.Errorf("source_lang: %w", err)
	}

	seen := map[string]bool{c.SourceLang: true}
	for _, l := range c.Languages {
		if err := CheckLanguageName(l); err != nil {
			return fmt.Errorf("languages: %w", err)
		}
		if seen[l] {
			return fmt.Errorf("languages: %q is listed twice (or equals source_lang)", l)
		}
		seen[l] = true
	}
	return nil
}

// CheckLanguageName rejects language column names that cannot be used as
// a single output directory name.
func CheckLanguageName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("language name must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("language name %q is not a directory name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("language name %q must not contain path separators", name)
	}
	return nil
}
