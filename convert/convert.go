// Package convert maps Android resource trees onto gettext catalogs and
// back.
//
// Every message written by Export carries a context naming the resource it
// came from: "name" for strings and plurals, "name:index" for string-array
// items. Import relies on these contexts to rebuild the tree, so catalogs
// from other sources cannot be imported.
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minios-linux/a2po/android"
	"github.com/minios-linux/a2po/plurals"
	"github.com/minios-linux/a2po/pofile"
)

// ErrNoContext is matched by errors reporting a message without context.
var ErrNoContext = errors.New("message has no context")

// NoContextError is returned by Import for a message without msgctxt.
type NoContextError struct {
	MsgID string
}

func (e *NoContextError) Error() string {
	return fmt.Sprintf("message %q has no context; the catalog was not written by a2po", e.MsgID)
}

func (e *NoContextError) Unwrap() error { return ErrNoContext }

// PluralFormsError reports a catalog whose Plural-Forms header disagrees
// with the rule of its language.
type PluralFormsError struct {
	Declared string
	Expected string
}

func (e *PluralFormsError) Error() string {
	if e.Declared == "" {
		return fmt.Sprintf("catalog has no Plural-Forms, expected %q", e.Expected)
	}
	return fmt.Sprintf("catalog declares Plural-Forms %q, expected %q", e.Declared, e.Expected)
}

// CheckPluralForms compares the Plural-Forms header of catalog with rule.
// It returns a *PluralFormsError when they differ.
func CheckPluralForms(catalog *pofile.File, rule *plurals.Rule) error {
	declared := catalog.PluralForms()
	if declared != "" && rule.Matches(declared) {
		return nil
	}
	return &PluralFormsError{Declared: declared, Expected: rule.PluralForms()}
}

// arrayContext returns the context of item index of array name.
func arrayContext(name string, index int) string {
	return name + ":" + strconv.Itoa(index)
}

// maxArrayIndex bounds the item index accepted from a catalog context.
const maxArrayIndex = 1 << 16

// splitContext splits an array item context. ok is false for plain names.
func splitContext(ctxt string) (name string, index int, ok bool, err error) {
	name, suffix, found := strings.Cut(ctxt, ":")
	if !found {
		return ctxt, 0, false, nil
	}
	index, err = strconv.Atoi(suffix)
	if err != nil || index < 0 {
		return name, 0, true, fmt.Errorf("invalid array index %q", suffix)
	}
	if index >= maxArrayIndex {
		return name, 0, true, fmt.Errorf("array index %d is out of range, the catalog may be corrupted", index)
	}
	return name, index, true, nil
}

// formatFlags returns the flags of a message built from texts.
func formatFlags(texts ...*android.Text) []string {
	for _, t := range texts {
		if t != nil && t.Formatted {
			return []string{pofile.FlagCFormat}
		}
	}
	return nil
}

func warnf(warn android.WarnFunc, sev android.Severity, format string, args ...any) {
	if warn != nil {
		warn(fmt.Sprintf(format, args...), sev)
	}
}
