// stringsheet converts Android strings.xml to a translator spreadsheet and back.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/minios-linux/stringsheet/config"
	"github.com/minios-linux/stringsheet/convert"
	"github.com/minios-linux/stringsheet/i18n"
	"github.com/minios-linux/stringsheet/xlsx"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

// successLevel renders as [OK]; it sits between info and warn.
const successLevel = log.InfoLevel + 1

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Level: log.InfoLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	styles := log.DefaultStyles()
	level := func(label, color string) lipgloss.Style {
		return lipgloss.NewStyle().SetString(label).Bold(true).Foreground(lipgloss.Color(color))
	}
	styles.Levels[log.DebugLevel] = level("[DEBUG]", "63")
	styles.Levels[log.InfoLevel] = level("[INFO]", "33")
	styles.Levels[successLevel] = level("[OK]", "42")
	styles.Levels[log.WarnLevel] = level("[WARN]", "214")
	styles.Levels[log.ErrorLevel] = level("[ERROR]", "196")
	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	logger.SetStyles(styles)
	return logger
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

type options struct {
	deconstruct bool
	construct   bool
	verbose     bool

	configPath            string
	languages             []string
	sourceLang            string
	noOverwrite           bool
	strict                bool
	androidDirs           bool
	includeUntranslatable bool
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "stringsheet (-d|-c) EXCEL_FILE SOURCE_PATH [STORAGE_PATH]",
		Short: i18n.T("Convert Android strings.xml to a translation spreadsheet and back"),
		Long: i18n.T(`stringsheet converts an Android strings.xml file into an .xlsx workbook
for translators and turns the filled-in workbook back into one
strings.xml per language column.

  -d  read SOURCE_PATH/strings.xml, write STORAGE_PATH/EXCEL_FILE.xlsx
  -c  read SOURCE_PATH/EXCEL_FILE.xlsx, write STORAGE_PATH/<language>/strings.xml

STORAGE_PATH defaults to SOURCE_PATH. Settings are read from
.stringsheet.yaml in the current directory and STRINGSHEET_* environment
variables; flags override both.`),
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}
			cfg, err := loadConfig(cmd.Flags(), &opts)
			if err != nil {
				return err
			}
			storage := ""
			if len(args) == 3 {
				storage = args[2]
			}
			conv := convert.New(cfg, xlsx.New(), logger)
			if opts.deconstruct {
				return runDeconstruct(conv, logger, args[0], args[1], storage)
			}
			return runConstruct(conv, logger, args[0], args[1], storage)
		},
	}

	f := root.Flags()
	f.BoolVarP(&opts.deconstruct, "deconstruct", "d", false, i18n.T("Deconstruct strings.xml into a workbook"))
	f.BoolVarP(&opts.construct, "construct", "c", false, i18n.T("Construct strings.xml files from a workbook"))
	f.BoolVarP(&opts.verbose, "verbose", "v", false, i18n.T("Enable detailed logging"))
	f.StringVar(&opts.configPath, "config", "", i18n.T("Config file (default ./.stringsheet.yaml)"))
	f.StringSliceVar(&opts.languages, "lang", nil, i18n.T("Empty language columns to add (comma-separated)"))
	f.StringVar(&opts.sourceLang, "source-lang", "", i18n.T("Header of the source language column"))
	f.BoolVar(&opts.noOverwrite, "no-overwrite", false, i18n.T("Fail instead of replacing existing output files"))
	f.BoolVar(&opts.strict, "strict", false, i18n.T("Fail on empty translation cells"))
	f.BoolVar(&opts.androidDirs, "android-dirs", false, i18n.T("Write values-<locale> directories instead of column names"))
	f.BoolVar(&opts.includeUntranslatable, "include-untranslatable", false, i18n.T(`Keep translatable="false" strings in the workbook`))
	root.MarkFlagsMutuallyExclusive("deconstruct", "construct")
	root.MarkFlagsOneRequired("deconstruct", "construct")

	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves defaults, the config file, environment and flags,
// in increasing priority.
func loadConfig(f *pflag.FlagSet, opts *options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath, true)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return cfg, err
	}

	if f.Changed("lang") {
		cfg.Languages = opts.languages
	}
	if f.Changed("source-lang") {
		cfg.SourceLang = strings.TrimSpace(opts.sourceLang)
	}
	if f.Changed("no-overwrite") {
		cfg.Overwrite = !opts.noOverwrite
	}
	if f.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if f.Changed("android-dirs") {
		cfg.AndroidDirs = opts.androidDirs
	}
	if f.Changed("include-untranslatable") {
		cfg.IncludeUntranslatable = opts.includeUntranslatable
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runDeconstruct(conv *convert.Converter, logger *log.Logger, name, source, storage string) error {
	logger.Info(i18n.T("Deconstructing strings"), "source", source)
	path, err := conv.Deconstruct(name, source, storage)
	if err != nil {
		return err
	}
	logger.Log(successLevel, i18n.T("Workbook ready"), "file", path)
	return nil
}

func runConstruct(conv *convert.Converter, logger *log.Logger, name, source, storage string) error {
	logger.Info(i18n.T("Constructing strings"), "workbook", name)
	written, err := conv.Construct(name, source, storage)
	if err != nil {
		return err
	}
	logger.Log(successLevel, fmt.Sprintf(i18n.N("Wrote %d strings.xml file", "Wrote %d strings.xml files", len(written)), len(written)))
	return nil
}

func main() {
	i18n.Init("")
	logger := newLogger(os.Stderr, false)
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T("Display version, commit hash, and build date."),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stringsheet version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
			fmt.Fprintf(out, "  messages:  %s\n", langLabel(i18n.Language()))
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// flagFromRegion returns the flag emoji for a two-letter region code.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(region) {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

// langFlag returns the flag of an explicitly given region ("pt-BR"), or "".
func langFlag(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return ""
	}
	return flagFromRegion(region.String())
}

// langLabel prefixes a language code with its flag when it has one.
func langLabel(lang string) string {
	if lang == "" {
		return "-"
	}
	if flag := langFlag(lang); flag != "" {
		return flag + " " + lang
	}
	return lang
}
