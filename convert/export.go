package convert

import (
	"github.com/minios-linux/a2po/android"
	"github.com/minios-linux/a2po/plurals"
	"github.com/minios-linux/a2po/pofile"
)

// ExportOptions configures Export.
type ExportOptions struct {
	// Translated is the resource tree of the target language. Nil builds
	// a template with empty translations.
	Translated *android.Tree
	// Rule is the plural rule of the target language. Nil builds a
	// template: no Language header and two empty plural slots.
	Rule *plurals.Rule
	// Filter excludes resources whose name it returns true for.
	Filter func(name string) bool
	// Header supplies the project fields of the catalog header. Language
	// and Plural-Forms are taken from Rule.
	Header pofile.HeaderInfo
	Warn   android.WarnFunc
}

// Export converts tree into a catalog. The second result lists the names
// present in opts.Translated but missing from tree.
func Export(tree *android.Tree, opts ExportOptions) (*pofile.File, []string) {
	header := opts.Header
	header.Language, header.Plural = "", ""
	if opts.Rule != nil {
		header.Language = opts.Rule.Lang
		header.Plural = opts.Rule.PluralForms()
	}
	catalog := &pofile.File{Header: pofile.NewHeader(header)}

	ex := &exporter{opts: opts, catalog: catalog, matched: make(map[string]bool)}
	for _, name := range tree.Names() {
		if opts.Filter != nil && opts.Filter(name) {
			continue
		}
		res, _ := tree.Get(name)
		var trans android.Resource
		if opts.Translated != nil {
			if t, ok := opts.Translated.Get(name); ok {
				trans = t
				ex.matched[name] = true
			}
		}

		switch r := res.(type) {
		case *android.Text:
			ex.text(name, r, trans)
		case android.StringArray:
			ex.array(name, r, trans)
		case android.Plurals:
			ex.plurals(name, r, trans)
		}
	}

	var unmatched []string
	if opts.Translated != nil {
		for _, name := range opts.Translated.Names() {
			if ex.matched[name] || (opts.Filter != nil && opts.Filter(name)) {
				continue
			}
			unmatched = append(unmatched, name)
		}
	}
	return catalog, unmatched
}

type exporter struct {
	opts    ExportOptions
	catalog *pofile.File
	matched map[string]bool
}

func (ex *exporter) text(name string, src *android.Text, trans android.Resource) {
	e := &pofile.Entry{
		MsgCtxt:           name,
		MsgID:             src.Value,
		ExtractedComments: src.Comments,
		Flags:             formatFlags(src),
	}
	switch t := trans.(type) {
	case nil:
	case *android.Text:
		e.MsgStr = t.Value
	default:
		warnf(ex.opts.Warn, android.SeverityWarning,
			"%q is a string in the reference file, but not in the translation", name)
	}
	ex.catalog.Add(e)
}

func (ex *exporter) array(name string, src android.StringArray, trans android.Resource) {
	var items android.StringArray
	switch t := trans.(type) {
	case nil:
	case android.StringArray:
		items = t
	default:
		warnf(ex.opts.Warn, android.SeverityWarning,
			"%q is a string-array in the reference file, but not in the translation", name)
	}

	empty := true
	for i, item := range src {
		if item == nil {
			continue
		}
		empty = false
		e := &pofile.Entry{
			MsgCtxt:           arrayContext(name, i),
			MsgID:             item.Value,
			ExtractedComments: item.Comments,
			Flags:             formatFlags(item),
		}
		if i < len(items) && items[i] != nil {
			e.MsgStr = items[i].Value
		}
		ex.catalog.Add(e)
	}
	if empty {
		warnf(ex.opts.Warn, android.SeverityWarning, "string-array %q is empty", name)
	}
}

func (ex *exporter) plurals(name string, src android.Plurals, trans android.Resource) {
	singular, plural := src[plurals.One], src[plurals.Other]
	if plural == nil {
		plural = firstText(src)
	}
	if singular == nil {
		singular = plural
	}
	if plural == nil {
		return
	}

	texts := make([]*android.Text, 0, len(src))
	for _, c := range plurals.Order {
		if t := src[c]; t != nil {
			texts = append(texts, t)
		}
	}
	e := &pofile.Entry{
		MsgCtxt:           name,
		MsgID:             singular.Value,
		MsgIDPlural:       plural.Value,
		ExtractedComments: singular.Comments,
		Flags:             formatFlags(texts...),
		MsgStrPlural:      map[int]string{},
	}

	rule := ex.opts.Rule
	if rule == nil {
		e.MsgStrPlural[0], e.MsgStrPlural[1] = "", ""
		ex.catalog.Add(e)
		return
	}

	var forms android.Plurals
	switch t := trans.(type) {
	case nil:
	case android.Plurals:
		forms = t
	default:
		warnf(ex.opts.Warn, android.SeverityWarning,
			"%q is a plurals resource in the reference file, but not in the translation", name)
	}
	for _, c := range plurals.Order {
		if forms[c] != nil && !rule.Has(c) {
			warnf(ex.opts.Warn, android.SeverityWarning,
				"plural %q uses quantity %q, which is not supported by the %q plural rules; ignoring",
				name, c, rule.Lang)
		}
	}
	for i, c := range rule.Categories {
		e.MsgStrPlural[i] = ""
		if t := forms[c]; t != nil {
			e.MsgStrPlural[i] = t.Value
		}
	}
	ex.catalog.Add(e)
}

func firstText(p android.Plurals) *android.Text {
	for _, c := range plurals.Order {
		if t := p[c]; t != nil {
			return t
		}
	}
	return nil
}
