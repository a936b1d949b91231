// Package android reads and writes Android string resource files
// (res/values*/strings.xml) and converts their text between the Android
// resource syntax and plain Unicode strings.
//
// Supported resource types:
//   - <string>        a single string
//   - <string-array>  ordered list of strings
//   - <plurals>       quantity-keyed plural forms (zero/one/two/few/many/other)
//
// Resources marked translatable="false" are left out of the Tree entirely.
// Values are decoded following the Android rules for quoting, escaping and
// whitespace collapsing; inline markup such as <b> or <xliff:g> is kept as
// literal tags inside the decoded string.
package android

import (
	"errors"
	"fmt"

	"github.com/minios-linux/a2po/plurals"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Resource is one of *Text, StringArray or Plurals.
type Resource interface {
	isResource()
}

// Text is a decoded string value. A plain <string> resource is stored as
// *Text directly; arrays and plurals hold one *Text per item.
type Text struct {
	// Value is the decoded text.
	Value string
	// Formatted is true if the text contains printf-style placeholders.
	Formatted bool
	// Comments are the XML comments immediately preceding the resource.
	Comments []string
}

// StringArray is an ordered <string-array>. A nil item is a placeholder for
// a position that has no value (e.g. a gap in an imported catalog).
type StringArray []*Text

// Plurals maps quantity categories to values. A nil value marks a category
// the target language requires but for which no text is available.
type Plurals map[plurals.Category]*Text

func (*Text) isResource()       {}
func (StringArray) isResource() {}
func (Plurals) isResource()     {}

// Tree is an insertion-ordered set of named resources.
type Tree struct {
	names []string
	items map[string]Resource

	// Namespaces collects the XML namespaces seen while reading or
	// writing this tree.
	Namespaces *Namespaces
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{
		items:      make(map[string]Resource),
		Namespaces: NewNamespaces(),
	}
}

// Add appends a resource. It returns false and leaves the tree unchanged if
// the name is already taken.
func (t *Tree) Add(name string, r Resource) bool {
	if _, exists := t.items[name]; exists {
		return false
	}
	t.names = append(t.names, name)
	t.items[name] = r
	return true
}

// Get returns the resource with the given name.
func (t *Tree) Get(name string) (Resource, bool) {
	r, ok := t.items[name]
	return r, ok
}

// Names returns the resource names in insertion order.
func (t *Tree) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of resources.
func (t *Tree) Len() int { return len(t.names) }

// ---------------------------------------------------------------------------
// Warnings and errors
// ---------------------------------------------------------------------------

// Severity classifies a warning.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// WarnFunc receives recoverable problems found during conversion. The
// caller decides whether to print, collect or ignore them. A nil WarnFunc
// discards everything.
type WarnFunc func(message string, severity Severity)

func (f WarnFunc) warnf(sev Severity, format string, args ...any) {
	if f == nil {
		return
	}
	f(fmt.Sprintf(format, args...), sev)
}

var (
	// ErrEmptyResource is returned for values that decode to nothing.
	ErrEmptyResource = errors.New("empty resource")
	// ErrResourceReference is returned for values like @string/app_name,
	// which point at another resource instead of carrying text.
	ErrResourceReference = errors.New("resource reference not supported")
	// ErrBadUnicodeEscape is returned for a malformed \uXXXX sequence.
	ErrBadUnicodeEscape = errors.New("bad unicode escape sequence")
)

// InvalidResourceError is returned when a resource file is not well-formed XML.
type InvalidResourceError struct {
	File string
	Err  error
}

func (e *InvalidResourceError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("invalid resource file: %v", e.Err)
	}
	return fmt.Sprintf("invalid resource file %s: %v", e.File, e.Err)
}

func (e *InvalidResourceError) Unwrap() error { return e.Err }
