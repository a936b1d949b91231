package pofile

import (
	"fmt"
	"strings"
	"time"
)

// TemplatePluralForms is the Plural-Forms placeholder of a .pot template.
const TemplatePluralForms = "nplurals=INTEGER; plural=EXPRESSION;"

// HeaderInfo describes the metadata written into a new catalog header.
type HeaderInfo struct {
	Project   string
	Version   string
	BugsTo    string
	Language  string // empty for templates
	Plural    string // Plural-Forms value; empty means the template placeholder
	Generator string
	Now       time.Time
}

// NewHeader builds a header entry. Templates (no Language) are marked fuzzy,
// as xgettext does.
func NewHeader(info HeaderInfo) *Entry {
	now := info.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format("2006-01-02 15:04-0700")

	revision := stamp
	plural := info.Plural
	if info.Language == "" {
		revision = "YEAR-MO-DA HO:MI+ZONE"
		if plural == "" {
			plural = TemplatePluralForms
		}
	}

	project := strings.TrimSpace(info.Project + " " + info.Version)
	if project == "" {
		project = "PACKAGE VERSION"
	}

	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "%s: %s\n", name, value)
	}
	field("Project-Id-Version", project)
	field("Report-Msgid-Bugs-To", info.BugsTo)
	field("POT-Creation-Date", stamp)
	field("PO-Revision-Date", revision)
	field("Last-Translator", "")
	field("Language-Team", "")
	field("Language", info.Language)
	field("MIME-Version", "1.0")
	field("Content-Type", "text/plain; charset=UTF-8")
	field("Content-Transfer-Encoding", "8bit")
	if plural != "" {
		field("Plural-Forms", plural)
	}
	if info.Generator != "" {
		field("X-Generator", info.Generator)
	}

	h := &Entry{MsgStr: b.String()}
	if info.Language == "" {
		h.TranslatorComments = []string{
			"SOME DESCRIPTIVE TITLE.",
			"This file is distributed under the same license as the PACKAGE package.",
		}
		h.Flags = []string{FlagFuzzy}
	}
	return h
}

// HeaderField returns a header field value by name (case-insensitive).
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SetHeaderField sets a header field, appending it when missing.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}

	lines := strings.Split(strings.TrimSuffix(f.Header.MsgStr, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	found := false
	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			lines[i] = name + ": " + value
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, name+": "+value)
	}
	f.Header.MsgStr = strings.Join(lines, "\n") + "\n"
}

// Language returns the Language header.
func (f *File) Language() string { return f.HeaderField("Language") }

// PluralForms returns the Plural-Forms header.
func (f *File) PluralForms() string { return f.HeaderField("Plural-Forms") }
