package android

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minios-linux/a2po/plurals"
)

// ReadFile parses the strings.xml file at path. Malformed XML is reported
// as *InvalidResourceError carrying the path.
func ReadFile(path string, warn WarnFunc) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parse(data, path, warn)
}

// Read parses a strings.xml document from r.
//
// Problems with single resources (references, empty values, unknown plural
// quantities, bad escapes) are reported through warn and the resource or
// item is skipped; they never abort the file.
func Read(r io.Reader, warn WarnFunc) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(data, "", warn)
}

func parse(data []byte, file string, warn WarnFunc) (*Tree, error) {
	doc, err := parseNodes(data, false)
	if err != nil {
		return nil, &InvalidResourceError{File: file, Err: err}
	}
	root := doc.children[0]
	if root.name.Space != "" || root.name.Local != "resources" {
		return nil, &InvalidResourceError{
			File: file,
			Err:  fmt.Errorf("root element is <%s>, expected <resources>", qualified(root.name)),
		}
	}

	tree := NewTree()
	var comments []string
	for _, n := range root.children {
		if n.kind == commentNode {
			comments = append(comments, strings.TrimSpace(n.text))
			continue
		}
		pending := comments
		comments = nil

		if n.name.Space != "" {
			continue
		}
		name, ok := n.attr("name")
		if !ok || name == "" {
			continue
		}
		if v, ok := n.attr("translatable"); ok && v == "false" {
			continue
		}
		if _, dup := tree.Get(name); dup {
			warn.warnf(SeverityWarning, "duplicate resource name %q, ignoring", name)
			continue
		}

		var res Resource
		switch n.name.Local {
		case "string":
			t, err := readText(n, tree.Namespaces, warn)
			if err != nil {
				warnResource(warn, name, err)
				continue
			}
			res = t
		case "string-array":
			arr := readStringArray(name, n, tree.Namespaces, warn)
			if len(textsOf(arr)) == 0 {
				warn.warnf(SeverityWarning, "string-array %q is empty, skipped", name)
				continue
			}
			res = arr
		case "plurals":
			p := readPlurals(name, n, tree.Namespaces, warn)
			if len(p) == 0 {
				warn.warnf(SeverityWarning, "plurals %q has no usable items, skipped", name)
				continue
			}
			res = p
		default:
			continue
		}

		for _, t := range textsOf(res) {
			t.Comments = pending
		}
		tree.Add(name, res)
	}
	return tree, nil
}

// readText decodes a <string> or <item> element. formatted="false" turns
// off placeholder detection the same way it does for aapt.
func readText(n *node, ns *Namespaces, warn WarnFunc) (*Text, error) {
	t, err := decodeElement(n, ns, warn)
	if err != nil {
		return nil, err
	}
	if v, ok := n.attr("formatted"); ok && v == "false" {
		t.Formatted = false
	}
	return t, nil
}

// readStringArray decodes the items of a <string-array>. Items that cannot
// be decoded stay in the array as nil so later items keep their index.
func readStringArray(name string, n *node, ns *Namespaces, warn WarnFunc) StringArray {
	items := itemsOf(n)
	arr := make(StringArray, len(items))
	for i, item := range items {
		t, err := readText(item, ns, warn)
		if err != nil {
			warnResource(warn, fmt.Sprintf("%s:%d", name, i), err)
			continue
		}
		arr[i] = t
	}
	return arr
}

func readPlurals(name string, n *node, ns *Namespaces, warn WarnFunc) Plurals {
	p := make(Plurals)
	for _, item := range itemsOf(n) {
		q, _ := item.attr("quantity")
		cat, ok := plurals.ParseCategory(q)
		if !ok {
			warn.warnf(SeverityWarning, "plurals %q: unsupported quantity %q, item dropped", name, q)
			continue
		}
		if _, dup := p[cat]; dup {
			warn.warnf(SeverityWarning, "plurals %q: duplicate quantity %q, ignoring", name, q)
			continue
		}
		t, err := readText(item, ns, warn)
		if err != nil {
			warnResource(warn, name+":"+q, err)
			continue
		}
		p[cat] = t
	}
	return p
}

func itemsOf(n *node) []*node {
	var items []*node
	for _, c := range n.elements() {
		if c.name.Space == "" && c.name.Local == "item" {
			items = append(items, c)
		}
	}
	return items
}

func warnResource(warn WarnFunc, name string, err error) {
	switch {
	case errors.Is(err, ErrResourceReference):
		warn.warnf(SeverityWarning, "resource %q is a resource reference, skipped (%v)", name, err)
	case errors.Is(err, ErrEmptyResource):
		warn.warnf(SeverityWarning, "resource %q is empty, skipped", name)
	default:
		warn.warnf(SeverityWarning, "resource %q skipped: %v", name, err)
	}
}

// textsOf returns the non-nil values held by a resource.
func textsOf(r Resource) []*Text {
	switch v := r.(type) {
	case *Text:
		return []*Text{v}
	case StringArray:
		var out []*Text
		for _, t := range v {
			if t != nil {
				out = append(out, t)
			}
		}
		return out
	case Plurals:
		var out []*Text
		for _, c := range plurals.Order {
			if t := v[c]; t != nil {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}
