// Package config locates an Android project and resolves where its
// resources and gettext catalogs live, from .a2po.yaml and auto-detection.
package config

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/minios-linux/a2po/android"
)

// ManifestFileName marks the root of an Android project.
const ManifestFileName = "AndroidManifest.xml"

// ErrNoProject is returned by FindProject when neither a config file nor an
// Android manifest is found.
var ErrNoProject = errors.New("no Android project found (no " + A2poFileName + " or " + ManifestFileName + ")")

// Project holds the resolved configuration of one project.
type Project struct {
	// Name is the application package name.
	Name string
	// Version is the versionName from the manifest or a fallback.
	Version string
	// Root is the absolute project directory.
	Root string
	// ConfigFile is the config file in use, empty if none.
	ConfigFile string
	// ResDir is the Android resource directory.
	ResDir string
	// GettextDir is the directory holding the catalogs.
	GettextDir string
	// Template and Layout are file name patterns inside GettextDir.
	Template string
	Layout   string
	// Groups are the resource file basenames, e.g. "strings", "arrays".
	Groups []string
	// SourceLang is the language of the default values directory.
	SourceLang string
	// Languages is the configured language list; empty means detect.
	Languages []string
	// Ignore filters resource names out of every conversion.
	Ignore *Filter
}

// FindProject goes upward from dir until it finds a directory holding
// .a2po.yaml or AndroidManifest.xml. It returns that directory and the
// config file path (empty when only a manifest was found).
func FindProject(dir string) (root, configFile string, err error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for {
		cfg := filepath.Join(cur, A2poFileName)
		if _, err := os.Stat(cfg); err == nil {
			return cur, cfg, nil
		}
		if _, err := os.Stat(filepath.Join(cur, ManifestFileName)); err == nil {
			return cur, "", nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", "", ErrNoProject
		}
		cur = parent
	}
}

// Detect builds the Project rooted at rootDir. A nil af means defaults.
func Detect(rootDir string, af *A2poFile) (*Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}
	if af == nil {
		af = DefaultA2poFile()
	}
	filter, err := NewFilter(af.Ignore)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Root:       absRoot,
		ResDir:     resolve(absRoot, af.Android),
		GettextDir: resolve(absRoot, af.Gettext),
		Template:   af.Template,
		Layout:     af.Layout,
		Groups:     af.Groups,
		SourceLang: af.SourceLang,
		Languages:  af.Languages,
		Ignore:     filter,
	}

	// The manifest sits in the project root (Eclipse layout) or next to
	// the res directory (Gradle layout).
	for _, candidate := range []string{
		filepath.Join(absRoot, ManifestFileName),
		filepath.Join(filepath.Dir(p.ResDir), ManifestFileName),
	} {
		if name, version, err := parseManifest(candidate); err == nil {
			p.Name, p.Version = name, version
			break
		}
	}
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}
	return p, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// MultiGroup reports whether catalogs are split per resource group.
func (p *Project) MultiGroup() bool {
	return len(p.Groups) > 1
}

func (p *Project) expand(pattern, lang, group string) string {
	s := strings.ReplaceAll(pattern, GroupPlaceholder, group)
	s = strings.ReplaceAll(s, LocalePlaceholder, lang)
	return filepath.Join(p.GettextDir, filepath.FromSlash(s))
}

// TemplatePath returns the .pot file of a resource group.
func (p *Project) TemplatePath(group string) string {
	return p.expand(p.Template, "", group)
}

// POPath returns the .po file of a language and resource group.
func (p *Project) POPath(lang, group string) string {
	return p.expand(p.Layout, lang, group)
}

// XMLPath returns the resource file of a language and group. An empty
// lang is the default values directory.
func (p *Project) XMLPath(lang, group string) string {
	return android.ResourcePath(p.ResDir, lang, group)
}

// CatalogLanguages returns the languages that have a .po file for any
// group, sorted.
func (p *Project) CatalogLanguages() []string {
	seen := make(map[string]bool)
	for _, group := range p.Groups {
		for _, lang := range detectLanguagesLayout(p.GettextDir, p.Layout, group) {
			seen[lang] = true
		}
	}
	return sortedKeys(seen)
}

// AndroidLanguages returns the languages with a values-XX directory
// holding any group, sorted.
func (p *Project) AndroidLanguages() []string {
	seen := make(map[string]bool)
	for _, group := range p.Groups {
		for _, lang := range android.DetectLanguages(p.ResDir, group) {
			seen[lang] = true
		}
	}
	return sortedKeys(seen)
}

// ResolveLanguages returns the configured languages, or the languages that
// have a values-XX directory.
func (p *Project) ResolveLanguages() []string {
	if len(p.Languages) > 0 {
		return p.Languages
	}
	return p.AndroidLanguages()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// detectLanguagesLayout finds language codes from .po files matching the
// layout for one group.
func detectLanguagesLayout(gettextDir, layout, group string) []string {
	pattern := regexp.QuoteMeta(strings.ReplaceAll(layout, GroupPlaceholder, group))
	pattern = strings.ReplaceAll(pattern, regexp.QuoteMeta(LocalePlaceholder), `([^/]+)`)
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil
	}

	var langs []string
	_ = filepath.WalkDir(gettextDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(gettextDir, path)
		if err != nil {
			return nil
		}
		if m := re.FindStringSubmatch(filepath.ToSlash(rel)); m != nil && m[1] != "" {
			langs = append(langs, m[1])
		}
		return nil
	})
	sort.Strings(langs)
	return langs
}

// manifest is the part of AndroidManifest.xml we care about.
type manifest struct {
	Package     string `xml:"package,attr"`
	VersionName string `xml:"http://schemas.android.com/apk/res/android versionName,attr"`
}

// parseManifest extracts the package name and version from a manifest.
func parseManifest(path string) (name, version string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var m manifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return "", "", err
	}
	return m.Package, m.VersionName, nil
}
