package android

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// ---------------------------------------------------------------------------
// values directories ⇄ language codes
// ---------------------------------------------------------------------------

// DefaultGroup is the resource file holding an app's strings.
const DefaultGroup = "strings"

// uiModeQualifiers are resource qualifiers that look like ISO 639 codes.
var uiModeQualifiers = map[string]bool{
	"car": true,
	"tv":  true,
	"vr":  true,
}

// LanguageFromDir returns the language code for a values directory name:
// "values-de" → "de", "values-pt-rBR" → "pt-BR", "values-b+sr+Latn" →
// "sr-Latn". It reports false for the default "values" directory and for
// directories qualified by anything other than a locale (values-night,
// values-v21, values-de-land, ...).
func LanguageFromDir(dir string) (string, bool) {
	q, ok := strings.CutPrefix(dir, "values-")
	if !ok || q == "" {
		return "", false
	}

	// BCP 47 form introduced with Android 7.0.
	if rest, ok := strings.CutPrefix(q, "b+"); ok {
		code := strings.ReplaceAll(rest, "+", "-")
		if _, err := language.Parse(code); err != nil {
			return "", false
		}
		return code, true
	}

	parts := strings.Split(q, "-")
	if len(parts) > 2 {
		return "", false
	}
	lang := parts[0]
	if len(lang) < 2 || len(lang) > 3 || lang != strings.ToLower(lang) || uiModeQualifiers[lang] {
		return "", false
	}
	if _, err := language.ParseBase(lang); err != nil {
		return "", false
	}
	if len(parts) == 1 {
		return lang, true
	}

	region, ok := strings.CutPrefix(parts[1], "r")
	if !ok {
		return "", false
	}
	if _, err := language.ParseRegion(region); err != nil {
		return "", false
	}
	return lang + "-" + region, true
}

// DirForLanguage returns the values directory name for a language code.
// Both "pt-BR" and "pt_BR" yield "values-pt-rBR"; codes carrying a script
// use the BCP 47 form ("sr-Latn" → "values-b+sr+Latn"). An empty code
// names the default directory.
func DirForLanguage(lang string) string {
	if lang == "" {
		return "values"
	}
	code := strings.ReplaceAll(lang, "_", "-")
	parts := strings.Split(code, "-")
	switch {
	case len(parts) == 1:
		return "values-" + strings.ToLower(parts[0])
	case len(parts) == 2 && (len(parts[1]) == 2 || len(parts[1]) == 3 && isDigits(parts[1])):
		return "values-" + strings.ToLower(parts[0]) + "-r" + strings.ToUpper(parts[1])
	}
	return "values-b+" + strings.Join(parts, "+")
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// ResourcePath returns the path of a resource group file for lang inside
// resDir, e.g. res/values-de/strings.xml. An empty lang means the default
// values directory; an empty group means DefaultGroup.
func ResourcePath(resDir, lang, group string) string {
	if group == "" {
		group = DefaultGroup
	}
	return filepath.Join(resDir, DirForLanguage(lang), group+".xml")
}

// DetectLanguages scans resDir for locale-qualified values directories that
// contain the given resource group and returns their language codes,
// sorted.
func DetectLanguages(resDir, group string) []string {
	if group == "" {
		group = DefaultGroup
	}
	entries, err := os.ReadDir(resDir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang, ok := LanguageFromDir(entry.Name())
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(resDir, entry.Name(), group+".xml")); err == nil {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}
