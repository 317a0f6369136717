// Package i18n translates stringsheet's own user-facing messages.
//
// Translations are gettext catalogs embedded in the binary under
// locales/{lang}/LC_MESSAGES/stringsheet.po. Init picks the catalog that
// best matches the requested (or detected) locale.
//
// Usage:
//
//	i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("Deconstructing strings"))
//	fmt.Println(i18n.N("Wrote %d file", "Wrote %d files", count))
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name.
const domain = "stringsheet"

var (
	po      *gotext.Locale
	current string
)

// Init loads the catalog for lang. If lang is empty, it is detected from
// LANGUAGE, LC_ALL, LC_MESSAGES and LANG (GNU gettext order). Locales
// without a catalog fall back to the untranslated messages.
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	current = match(lang, Available())
	po = gotext.NewLocaleFSWithPath(current, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Language reports the catalog chosen by Init, or "" before Init.
func Language() string {
	return current
}

// Available lists the embedded catalog directories.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	return langs
}

// match returns the catalog in have closest to want, or "en".
func match(want string, have []string) string {
	if len(have) == 0 {
		return "en"
	}
	tags := make([]language.Tag, 0, len(have)+1)
	tags = append(tags, language.English)
	for _, h := range have {
		tags = append(tags, language.Make(h))
	}
	_, idx, conf := language.NewMatcher(tags).Match(language.Make(want))
	if conf == language.No || idx == 0 {
		return "en"
	}
	return have[idx-1]
}

// T translates a string. If no translation is available, returns the
// original string unchanged.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				val, _, _ = strings.Cut(val, ":")
			}
			// "ru_RU.UTF-8" -> "ru_RU"
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
