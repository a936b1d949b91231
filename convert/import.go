package convert

import (
	"github.com/minios-linux/a2po/android"
	"github.com/minios-linux/a2po/plurals"
	"github.com/minios-linux/a2po/pofile"
)

// ImportOptions configures Import.
type ImportOptions struct {
	// Rule is the plural rule of the target language. Nil derives it from
	// the Language header of the catalog.
	Rule *plurals.Rule
	// WithUntranslated writes untranslated strings using their msgid.
	WithUntranslated bool
	// Filter excludes messages it returns true for.
	Filter func(*pofile.Entry) bool
	Warn   android.WarnFunc
}

// Import rebuilds a resource tree from catalog.
//
// Fuzzy messages count as untranslated. String arrays always get every
// index the catalog knows, falling back to the msgid; missing indices
// become nil items. Plural groups without any translation are left out.
// A message without context fails the whole import with *NoContextError.
func Import(catalog *pofile.File, opts ImportOptions) (*android.Tree, error) {
	rule := opts.Rule
	if rule == nil {
		rule = RuleFor(catalog)
	}

	im := &importer{
		opts:     opts,
		rule:     rule,
		declared: plurals.NPlurals(catalog.PluralForms()),
		arrays:   make(map[string]map[int]*android.Text),
		values:   make(map[string]android.Resource),
	}
	for _, e := range catalog.Active() {
		if e.MsgCtxt == "" {
			return nil, &NoContextError{MsgID: e.MsgID}
		}
		if opts.Filter != nil && opts.Filter(e) {
			continue
		}
		if e.IsPlural() {
			im.plural(e)
		} else {
			im.text(e)
		}
	}
	return im.tree(), nil
}

// RuleFor returns the plural rule for the Language header of catalog. The
// declared Plural-Forms is used for languages without a built-in rule.
func RuleFor(catalog *pofile.File) *plurals.Rule {
	lang := catalog.Language()
	if lang == "" {
		if r, err := plurals.Parse("", catalog.PluralForms()); err == nil {
			return r
		}
		return plurals.Default()
	}
	r, err := plurals.ForLang(lang)
	if err != nil {
		if r, err = plurals.Parse(lang, catalog.PluralForms()); err != nil {
			return plurals.Default()
		}
	}
	return r
}

type importer struct {
	opts     ImportOptions
	rule     *plurals.Rule
	declared int // nplurals of the catalog header, 0 if unknown
	warned   bool

	order  []string
	arrays map[string]map[int]*android.Text
	values map[string]android.Resource
}

func (im *importer) seen(name string) bool {
	_, isArray := im.arrays[name]
	_, isValue := im.values[name]
	return isArray || isValue
}

func (im *importer) duplicate(name string) {
	warnf(im.opts.Warn, android.SeverityError,
		"resource %q appears more than once in the catalog; ignoring the message", name)
}

func translated(e *pofile.Entry) bool {
	return !e.IsFuzzy() && e.HasTranslation()
}

func (im *importer) text(e *pofile.Entry) {
	name, index, isArray, err := splitContext(e.MsgCtxt)
	if err != nil {
		warnf(im.opts.Warn, android.SeverityError, "ignoring message with context %q: %v", e.MsgCtxt, err)
		return
	}

	value := e.MsgID
	if translated(e) {
		value = e.MsgStr
	} else if !isArray && !im.opts.WithUntranslated {
		return
	}
	t := &android.Text{Value: value, Formatted: e.HasFlag(pofile.FlagCFormat)}

	if !isArray {
		if im.seen(name) {
			im.duplicate(name)
			return
		}
		im.order = append(im.order, name)
		im.values[name] = t
		return
	}

	items, ok := im.arrays[name]
	if !ok {
		if _, taken := im.values[name]; taken {
			im.duplicate(name)
			return
		}
		items = make(map[int]*android.Text)
		im.arrays[name] = items
		im.order = append(im.order, name)
	}
	if _, dup := items[index]; dup {
		warnf(im.opts.Warn, android.SeverityError,
			"duplicate index %d in array %q; ignoring the message, the catalog may be corrupted", index, name)
		return
	}
	items[index] = t
}

func (im *importer) plural(e *pofile.Entry) {
	if !translated(e) {
		return
	}
	name := e.MsgCtxt
	if im.seen(name) {
		im.duplicate(name)
		return
	}

	n := im.rule.NPlurals
	if im.declared > 0 && im.declared != im.rule.NPlurals {
		if !im.warned {
			warnf(im.opts.Warn, android.SeverityWarning,
				"the catalog declares %d plurals, we expect %d for %q; using the forms both have in common",
				im.declared, im.rule.NPlurals, im.rule.Lang)
			im.warned = true
		}
		n = min(n, im.declared)
	}

	formatted := e.HasFlag(pofile.FlagCFormat)
	forms := make(android.Plurals, len(im.rule.Categories))
	for i, c := range im.rule.Categories {
		if i >= n {
			forms[c] = nil
			continue
		}
		forms[c] = &android.Text{Value: e.MsgStrPlural[i], Formatted: formatted}
	}
	im.order = append(im.order, name)
	im.values[name] = forms
}

func (im *importer) tree() *android.Tree {
	tree := android.NewTree()
	for _, name := range im.order {
		if items, ok := im.arrays[name]; ok {
			last := -1
			for i := range items {
				last = max(last, i)
			}
			array := make(android.StringArray, last+1)
			for i, t := range items {
				array[i] = t
			}
			tree.Add(name, array)
			continue
		}
		tree.Add(name, im.values[name])
	}
	return tree
}
