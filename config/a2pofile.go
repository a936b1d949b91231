// .a2po.yaml configuration file support.
//
// The file lives in the project root and overrides the default locations
// of the Android resources and the gettext catalogs. Every key is
// optional; unknown keys are rejected.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// A2poFile is the top-level .a2po.yaml structure.
type A2poFile struct {
	// Android is the resource directory relative to the project root
	// (default "res").
	Android string `yaml:"android,omitempty"`
	// Gettext is the catalog directory relative to the project root
	// (default "locale").
	Gettext string `yaml:"gettext,omitempty"`
	// Template is the .pot file name inside Gettext. With several groups
	// it must contain %(group)s.
	Template string `yaml:"template,omitempty"`
	// SourceLang is the language of the default values directory
	// (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Languages restricts the processed languages. Empty means all
	// languages found on disk.
	Languages []string `yaml:"languages,omitempty"`
	// Groups are the resource file basenames to convert (default
	// ["strings"]).
	Groups []string `yaml:"groups,omitempty"`
	// Ignore lists resource names to leave out: exact names or /regex/.
	Ignore []string `yaml:"ignore,omitempty"`
	// Layout is the .po file name inside Gettext. It must contain
	// %(locale)s, and %(group)s when there are several groups.
	Layout string `yaml:"layout,omitempty"`
}

// Placeholders understood in Template and Layout.
const (
	LocalePlaceholder = "%(locale)s"
	GroupPlaceholder  = "%(group)s"
)

// Defaults applied by LoadA2poFile.
const (
	DefaultAndroidDir = "res"
	DefaultGettextDir = "locale"
	DefaultSourceLang = "en"
	DefaultGroup      = "strings"
)

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// A2poFileName is the default config file name.
const A2poFileName = ".a2po.yaml"

// LoadA2poFile loads and validates .a2po.yaml from the given directory.
// Returns nil if no .a2po.yaml exists.
func LoadA2poFile(rootDir string) (*A2poFile, error) {
	af, err := ReadA2poFile(filepath.Join(rootDir, A2poFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return af, err
}

// ReadA2poFile loads and validates the config file at path.
func ReadA2poFile(path string) (*A2poFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var af A2poFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&af); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("parsing %s: unsupported key: %w", path, err)
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	af.applyDefaults()
	if err := af.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &af, nil
}

// DefaultA2poFile returns the settings used when a project has no config
// file.
func DefaultA2poFile() *A2poFile {
	af := &A2poFile{}
	af.applyDefaults()
	return af
}

func (af *A2poFile) applyDefaults() {
	if af.Android == "" {
		af.Android = DefaultAndroidDir
	}
	if af.Gettext == "" {
		af.Gettext = DefaultGettextDir
	}
	if af.SourceLang == "" {
		af.SourceLang = DefaultSourceLang
	}
	if len(af.Groups) == 0 {
		af.Groups = []string{DefaultGroup}
	}
	multi := len(af.Groups) > 1
	if af.Layout == "" {
		af.Layout = LocalePlaceholder + ".po"
		if multi {
			af.Layout = GroupPlaceholder + "-" + LocalePlaceholder + ".po"
		}
	}
	if af.Template == "" {
		af.Template = "template.pot"
		if multi {
			af.Template = GroupPlaceholder + ".pot"
		}
	}
}

func (af *A2poFile) validate() error {
	if !strings.Contains(af.Layout, LocalePlaceholder) {
		return fmt.Errorf("layout %q requires %q", af.Layout, LocalePlaceholder)
	}
	if len(af.Groups) > 1 {
		if !strings.Contains(af.Layout, GroupPlaceholder) {
			return fmt.Errorf("layout %q requires %q when several groups are configured", af.Layout, GroupPlaceholder)
		}
		if !strings.Contains(af.Template, GroupPlaceholder) {
			return fmt.Errorf("template %q requires %q when several groups are configured", af.Template, GroupPlaceholder)
		}
	}
	seen := make(map[string]bool)
	for _, g := range af.Groups {
		if g == "" || strings.ContainsAny(g, `/\`) {
			return fmt.Errorf("invalid group name %q", g)
		}
		if seen[g] {
			return fmt.Errorf("group %q listed twice", g)
		}
		seen[g] = true
	}
	if _, err := NewFilter(af.Ignore); err != nil {
		return err
	}
	return nil
}

// Save writes the config to dir/.a2po.yaml.
func (af *A2poFile) Save(dir string) error {
	data, err := yaml.Marshal(af)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, A2poFileName), data, 0644)
}
