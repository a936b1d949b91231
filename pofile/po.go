// Package pofile reads and writes gettext PO/POT catalogs.
//
// Messages are addressed by the pair (msgctxt, msgid). Resources converted
// from Android always carry a context naming the resource, so two
// resources with identical text stay distinct messages.
package pofile

import "slices"

// Flags used by the converter.
const (
	FlagFuzzy   = "fuzzy"
	FlagCFormat = "c-format"
)

// Entry is a single message of a catalog.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines; resource comments end up here.
	ExtractedComments []string
	// References are "#:" lines.
	References []string
	// Flags are the comma separated values of "#," lines.
	Flags []string
	// PreviousMsgID is the "#| msgid" of a fuzzy entry.
	PreviousMsgID string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	MsgStr      string
	// MsgStrPlural maps a plural index to its translation.
	MsgStrPlural map[int]string

	// Obsolete marks "#~" entries kept for translation memory.
	Obsolete bool
}

// Key identifies an entry inside a catalog. It joins context and msgid
// with the EOT separator used by compiled .mo files.
func (e *Entry) Key() string {
	return Key(e.MsgCtxt, e.MsgID)
}

// Key builds the lookup key of a (context, msgid) pair.
func Key(ctxt, msgid string) string {
	if ctxt == "" {
		return msgid
	}
	return ctxt + "\x04" + msgid
}

// IsPlural reports whether the entry has a msgid_plural.
func (e *Entry) IsPlural() bool { return e.MsgIDPlural != "" }

// IsTranslated reports whether the entry carries a complete, non-fuzzy
// translation. A plural entry counts only when every form is filled.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.IsFuzzy() {
		return false
	}
	if e.IsPlural() {
		if len(e.MsgStrPlural) == 0 {
			return false
		}
		for _, v := range e.MsgStrPlural {
			if v == "" {
				return false
			}
		}
		return true
	}
	return e.MsgStr != ""
}

// HasTranslation reports whether any form of the entry is non-empty.
func (e *Entry) HasTranslation() bool {
	if e.IsPlural() {
		for _, v := range e.MsgStrPlural {
			if v != "" {
				return true
			}
		}
		return false
	}
	return e.MsgStr != ""
}

// IsFuzzy reports whether the entry is flagged fuzzy.
func (e *Entry) IsFuzzy() bool { return e.HasFlag(FlagFuzzy) }

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy {
		e.AddFlag(FlagFuzzy)
		return
	}
	e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == FlagFuzzy })
}

// HasFlag checks if a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	return slices.Contains(e.Flags, flag)
}

// AddFlag adds flag unless it is already present.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// File is a parsed PO/POT catalog.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries holds the messages in file order, obsolete ones included.
	Entries []*Entry
}

// NewFile creates an empty catalog with an empty header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// Add appends an entry.
func (f *File) Add(e *Entry) {
	f.Entries = append(f.Entries, e)
}

// Lookup returns the active (non-obsolete) entry for a context and msgid.
func (f *File) Lookup(ctxt, msgid string) *Entry {
	for _, e := range f.Entries {
		if !e.Obsolete && e.MsgCtxt == ctxt && e.MsgID == msgid {
			return e
		}
	}
	return nil
}

// Active returns the non-obsolete entries.
func (f *File) Active() []*Entry {
	var out []*Entry
	for _, e := range f.Entries {
		if !e.Obsolete && e.MsgID != "" {
			out = append(out, e)
		}
	}
	return out
}

// Stats returns translation statistics over the active entries.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Active() {
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.IsTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

// UntranslatedEntries returns active entries that are neither translated
// nor fuzzy.
func (f *File) UntranslatedEntries() []*Entry {
	var result []*Entry
	for _, e := range f.Active() {
		if !e.IsTranslated() && !e.IsFuzzy() {
			result = append(result, e)
		}
	}
	return result
}

// FuzzyEntries returns active entries marked as fuzzy.
func (f *File) FuzzyEntries() []*Entry {
	var result []*Entry
	for _, e := range f.Active() {
		if e.IsFuzzy() {
			result = append(result, e)
		}
	}
	return result
}
