// Package merge implements PO file merging logic,
// equivalent to the msgmerge utility.
package merge

import (
	"slices"

	"github.com/minios-linux/a2po/plurals"
	po "github.com/minios-linux/a2po/pofile"
)

// Merge updates a PO file with entries from a POT template. Messages are
// matched by (msgctxt, msgid).
//   - New entries from the template are added with empty translations.
//   - Existing entries that are still in the template are kept.
//   - An entry whose context survived but whose source text changed keeps
//     its translation, marked fuzzy with the old msgid in "#|".
//   - Entries that are no longer in the template are marked obsolete.
//   - Comments and format flags are updated from the template.
func Merge(poFile, potFile *po.File) *po.File {
	result := po.NewFile()

	// Keep the PO file's header, update POT-Creation-Date
	result.Header = poFile.Header
	if potFile.Header != nil {
		potCreationDate := potFile.HeaderField("POT-Creation-Date")
		if potCreationDate != "" {
			result.SetHeaderField("POT-Creation-Date", potCreationDate)
		}
	}
	nplurals := plurals.NPlurals(poFile.PluralForms())

	existingByKey := make(map[string]*po.Entry)
	existingByCtxt := make(map[string]*po.Entry)
	for _, e := range poFile.Entries {
		if e.Obsolete || e.MsgID == "" {
			continue
		}
		existingByKey[e.Key()] = e
		if e.MsgCtxt != "" {
			existingByCtxt[e.MsgCtxt] = e
		}
	}

	matched := make(map[*po.Entry]bool)

	for _, potEntry := range potFile.Entries {
		if potEntry.MsgID == "" || potEntry.Obsolete {
			continue
		}

		existing, ok := existingByKey[potEntry.Key()]
		fuzzy := false
		if !ok {
			// The source text of the resource changed.
			existing, ok = existingByCtxt[potEntry.MsgCtxt]
			ok = ok && potEntry.MsgCtxt != "" && !matched[existing] &&
				existing.IsPlural() == potEntry.IsPlural() && existing.HasTranslation()
			fuzzy = ok
		}
		if ok && matched[existing] {
			ok = false
		}

		if !ok {
			result.Entries = append(result.Entries, newEntry(potEntry, nplurals))
			continue
		}

		merged := &po.Entry{
			TranslatorComments: existing.TranslatorComments,
			ExtractedComments:  potEntry.ExtractedComments,
			References:         potEntry.References,
			Flags:              mergeFlags(existing.Flags, potEntry.Flags),
			MsgCtxt:            potEntry.MsgCtxt,
			MsgID:              potEntry.MsgID,
			MsgIDPlural:        potEntry.MsgIDPlural,
			MsgStr:             existing.MsgStr,
			MsgStrPlural:       existing.MsgStrPlural,
			PreviousMsgID:      existing.PreviousMsgID,
		}
		if fuzzy {
			merged.SetFuzzy(true)
			merged.Flags = mergeFlags(merged.Flags, nil)
			merged.PreviousMsgID = existing.MsgID
		}
		result.Entries = append(result.Entries, merged)
		matched[existing] = true
	}

	// Mark unmatched entries as obsolete
	for _, e := range poFile.Entries {
		if e.MsgID == "" || e.Obsolete || matched[e] {
			continue
		}
		if !e.HasTranslation() {
			continue
		}
		obsolete := *e
		obsolete.Obsolete = true
		obsolete.References = nil
		obsolete.PreviousMsgID = ""
		result.Entries = append(result.Entries, &obsolete)
	}

	return result
}

// newEntry copies a template entry with empty translations. Plural entries
// get one slot per plural form of the target catalog.
func newEntry(potEntry *po.Entry, nplurals int) *po.Entry {
	e := &po.Entry{
		ExtractedComments: potEntry.ExtractedComments,
		References:        potEntry.References,
		Flags:             slices.DeleteFunc(slices.Clone(potEntry.Flags), func(f string) bool { return f == po.FlagFuzzy }),
		MsgCtxt:           potEntry.MsgCtxt,
		MsgID:             potEntry.MsgID,
		MsgIDPlural:       potEntry.MsgIDPlural,
		MsgStrPlural:      make(map[int]string),
	}
	if e.IsPlural() {
		for i := range max(nplurals, 2) {
			e.MsgStrPlural[i] = ""
		}
	}
	return e
}

// mergeFlags combines flags from PO and POT, preferring POT format flags
// while keeping PO-specific flags like "fuzzy". Fuzzy comes first, the
// rest keep their first-seen order.
func mergeFlags(poFlags, potFlags []string) []string {
	var result []string
	if slices.Contains(poFlags, po.FlagFuzzy) || slices.Contains(potFlags, po.FlagFuzzy) {
		result = append(result, po.FlagFuzzy)
	}
	for _, f := range slices.Concat(poFlags, potFlags) {
		if !slices.Contains(result, f) {
			result = append(result, f)
		}
	}
	return result
}
