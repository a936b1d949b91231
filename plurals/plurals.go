// Package plurals negotiates between gettext plural forms and the CLDR
// quantity categories used by Android <plurals> resources.
//
// A gettext catalog addresses plural translations by index (msgstr[0],
// msgstr[1], …) selected by the Plural-Forms expression of its language.
// Android addresses them by category name (one, few, other, …). A Rule
// ties both together: it carries the compiled gettext expression and, for
// every index, the CLDR category that index stands for.
package plurals

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gtplurals "github.com/leonelquinteros/gotext/plurals"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category as used by the quantity attribute of
// an Android <plurals> item.
type Category string

const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// Order lists all categories in canonical CLDR order.
var Order = []Category{Zero, One, Two, Few, Many, Other}

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Order {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ErrInvalidPluralForms is returned when a Plural-Forms header cannot be parsed.
var ErrInvalidPluralForms = errors.New("invalid Plural-Forms")

// Rule is the plural rule of one language.
type Rule struct {
	// Lang is the language code the rule was built for.
	Lang string
	// NPlurals is the number of gettext plural forms.
	NPlurals int
	// Expr is the gettext plural expression, e.g. "(n != 1)".
	Expr string
	// Categories maps each gettext plural index to its CLDR category.
	Categories []Category

	expr gtplurals.Expression
}

// Select returns the plural index for the count n.
func (r *Rule) Select(n int) int {
	if n < 0 {
		n = -n
	}
	idx := r.expr.Eval(uint32(n))
	if idx < 0 || idx >= r.NPlurals {
		return r.NPlurals - 1
	}
	return idx
}

// Index returns the gettext plural index of category c.
func (r *Rule) Index(c Category) (int, bool) {
	for i, rc := range r.Categories {
		if rc == c {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether the language uses category c.
func (r *Rule) Has(c Category) bool {
	_, ok := r.Index(c)
	return ok
}

// PluralForms renders the rule as a Plural-Forms header value.
func (r *Rule) PluralForms() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.NPlurals, r.Expr)
}

// Matches reports whether the Plural-Forms header value pf describes the
// same rule, ignoring whitespace and redundant outer parentheses.
func (r *Rule) Matches(pf string) bool {
	n, expr, err := splitPluralForms(pf)
	if err != nil {
		return false
	}
	return n == r.NPlurals && normalizeExpr(expr) == normalizeExpr(r.Expr)
}

// String implements fmt.Stringer.
func (r *Rule) String() string {
	return fmt.Sprintf("%s (%s)", r.Lang, r.PluralForms())
}

// Default returns the rule used when no language is known: two forms,
// singular for exactly one.
func Default() *Rule {
	r, err := Parse("en", defaultPluralForms)
	if err != nil {
		panic(err)
	}
	return r
}

// ForLang returns the rule for a language code. Both gettext ("pt_BR") and
// BCP 47 ("pt-BR") spellings are accepted. Languages missing from the
// built-in table get the default two-form rule.
func ForLang(lang string) (*Rule, error) {
	tag, err := parseTag(lang)
	if err != nil {
		return nil, err
	}
	pf, ok := lookupPluralForms(tag)
	if !ok {
		pf = defaultPluralForms
	}
	return newRule(lang, tag, pf)
}

// Parse builds a rule from a Plural-Forms header value such as
// "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);". The language is
// used to name the categories behind each index.
func Parse(lang, pluralForms string) (*Rule, error) {
	tag, err := parseTag(lang)
	if err != nil {
		tag = language.Und
	}
	return newRule(lang, tag, pluralForms)
}

func newRule(lang string, tag language.Tag, pluralForms string) (*Rule, error) {
	n, exprStr, err := splitPluralForms(pluralForms)
	if err != nil {
		return nil, err
	}
	expr, err := gtplurals.Compile(exprStr)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %q: %v", ErrInvalidPluralForms, exprStr, err)
	}
	r := &Rule{
		Lang:     lang,
		NPlurals: n,
		Expr:     exprStr,
		expr:     expr,
	}
	r.Categories = categoriesFor(tag, r)
	return r, nil
}

// splitPluralForms extracts nplurals and the expression from a header value.
func splitPluralForms(pf string) (int, string, error) {
	n := -1
	expr := ""
	for _, part := range strings.Split(pf, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "nplurals":
			v, err := strconv.Atoi(strings.TrimSpace(kv[1]))
			if err != nil {
				return 0, "", fmt.Errorf("%w: nplurals %q", ErrInvalidPluralForms, kv[1])
			}
			n = v
		case "plural":
			expr = strings.TrimSpace(kv[1])
		}
	}
	if n < 1 || n > len(Order) {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidPluralForms, pf)
	}
	if expr == "" {
		return 0, "", fmt.Errorf("%w: missing plural expression in %q", ErrInvalidPluralForms, pf)
	}
	return n, expr, nil
}

// NPlurals extracts nplurals from a Plural-Forms header value. It returns 0
// when the value is missing or malformed.
func NPlurals(pf string) int {
	n, _, err := splitPluralForms(pf)
	if err != nil {
		return 0
	}
	return n
}

func normalizeExpr(s string) string {
	s = strings.Join(strings.Fields(s), "")
	for len(s) > 1 && s[0] == '(' && s[len(s)-1] == ')' && balanced(s[1:len(s)-1]) {
		s = s[1 : len(s)-1]
	}
	return s
}

func balanced(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func parseTag(lang string) (language.Tag, error) {
	code := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("unknown language %q: %w", lang, err)
	}
	return tag, nil
}

// sampleLimit bounds the counts tried when looking for a representative
// number of each plural index.
const sampleLimit = 1000

// categoriesFor names every plural index of r. For each index the smallest
// count selecting it is classified with the CLDR cardinal rules of tag. If
// the two rule sets disagree (two indices landing on one category) the
// positional fallback is used instead.
func categoriesFor(tag language.Tag, r *Rule) []Category {
	samples := make([]int, r.NPlurals)
	for i := range samples {
		samples[i] = -1
	}
	for n := 0; n < sampleLimit; n++ {
		idx := r.Select(n)
		if samples[idx] < 0 {
			samples[idx] = n
		}
	}

	cats := make([]Category, r.NPlurals)
	seen := make(map[Category]bool, r.NPlurals)
	for idx, n := range samples {
		if n < 0 {
			return fallbackCategories(r.NPlurals)
		}
		c := fromForm(plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0))
		if seen[c] {
			return fallbackCategories(r.NPlurals)
		}
		seen[c] = true
		cats[idx] = c
	}
	return cats
}

func fromForm(f plural.Form) Category {
	switch f {
	case plural.Zero:
		return Zero
	case plural.One:
		return One
	case plural.Two:
		return Two
	case plural.Few:
		return Few
	case plural.Many:
		return Many
	}
	return Other
}

// fallbackCategories is the category layout assumed for n forms when the
// language is unknown to CLDR.
func fallbackCategories(n int) []Category {
	switch n {
	case 1:
		return []Category{Other}
	case 2:
		return []Category{One, Other}
	case 3:
		return []Category{One, Few, Other}
	case 4:
		return []Category{One, Two, Few, Other}
	case 5:
		return []Category{One, Two, Few, Many, Other}
	}
	return append([]Category(nil), Order...)
}
