// Package i18n translates the user-facing messages of a2po itself.
//
// It wraps the gotext library with T() and N(). Translations are embedded
// in the binary via //go:embed and loaded at startup via Init().
//
// Usage:
//
//	i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	logInfo(i18n.T("Writing %s"), path)
//	logInfo(i18n.N("%d language", "%d languages", n), n)
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// locales embeds the translation files.
// Directory structure: locales/{lang}/LC_MESSAGES/a2po.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for a2po.
const domain = "a2po"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init initializes the i18n system. If lang is empty, it auto-detects
// from the environment variables LANGUAGE, LC_ALL, LC_MESSAGES, LANG
// (in that order, matching GNU gettext behavior).
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(match(lang), locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Languages returns the languages a2po ships translations for, sorted.
func Languages() []string {
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
	sort.Strings(langs)
	return langs
}

// match picks the embedded translation closest to lang, so "de_AT" gets
// "de". Messages are written in English, which wins for unknown languages.
func match(lang string) string {
	avail := Languages()
	tags := []language.Tag{language.English}
	for _, l := range avail {
		tags = append(tags, language.Make(l))
	}
	want, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "en"
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if idx == 0 || conf == language.No {
		return "en"
	}
	return avail[idx-1]
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

// detectLanguage reads environment variables to determine the user's
// preferred language, following GNU gettext conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "ru_RU.UTF-8" -> "ru_RU")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// "C" and "POSIX" mean no translation
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
