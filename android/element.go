package android

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// ---------------------------------------------------------------------------
// Element tree
// ---------------------------------------------------------------------------

type nodeKind int

const (
	elementNode nodeKind = iota
	commentNode
)

// node is a parsed XML element. Character data before the first child is
// kept in text, character data following the element (inside its parent)
// in tail. Element names keep the prefix written in the document in
// name.Space; scope resolves prefixes to namespace URIs.
type node struct {
	kind     nodeKind
	name     xml.Name
	attrs    []xml.Attr
	text     string
	tail     string
	children []*node
	scope    map[string]string
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// elements returns the element children, skipping comments.
func (n *node) elements() []*node {
	var out []*node
	for _, c := range n.children {
		if c.kind == elementNode {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) appendText(s string) {
	if len(n.children) == 0 {
		n.text += s
		return
	}
	last := n.children[len(n.children)-1]
	last.tail += s
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

const xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// childScope returns the prefix table in effect inside an element carrying
// attrs. The parent table is shared unless attrs declare new prefixes.
func childScope(parent map[string]string, attrs []xml.Attr) map[string]string {
	var scope map[string]string
	for _, a := range attrs {
		if a.Name.Space != "xmlns" {
			continue
		}
		if scope == nil {
			scope = maps.Clone(parent)
		}
		scope[a.Name.Local] = a.Value
	}
	if scope == nil {
		return parent
	}
	return scope
}

func isVoidElement(name xml.Name) bool {
	if name.Space != "" {
		return false
	}
	return slices.Contains(xml.HTMLAutoClose, strings.ToLower(name.Local))
}

// parseNodes reads data into an element tree and returns a document node
// whose children are the top-level elements. Comments are kept only as
// direct children of the root element, where they annotate resources.
//
// In lenient mode the decoder accepts bare ampersands and unquoted
// attributes, HTML void elements close themselves, stray end tags are
// dropped, and elements still open when the input ends are closed
// implicitly. A syntax error that is not caused by the input ending early
// is still returned.
func parseNodes(data []byte, lenient bool) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = !lenient

	doc := &node{scope: map[string]string{"xml": xmlNamespaceURI}}
	stack := []*node{doc}

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if lenient && d.InputOffset() >= int64(len(data)) {
				break
			}
			return nil, err
		}
		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			if top == doc && len(doc.children) > 0 {
				if lenient {
					continue
				}
				return nil, fmt.Errorf("line %d: multiple root elements", lineOf(data, d.InputOffset()))
			}
			n := &node{
				name:  t.Name,
				attrs: append([]xml.Attr(nil), t.Attr...),
				scope: childScope(top.scope, t.Attr),
			}
			top.children = append(top.children, n)
			if lenient && isVoidElement(t.Name) {
				continue
			}
			stack = append(stack, n)

		case xml.EndElement:
			i := len(stack) - 1
			if !lenient {
				if i == 0 || stack[i].name != t.Name {
					return nil, fmt.Errorf("line %d: unexpected end element </%s>",
						lineOf(data, d.InputOffset()), qualified(t.Name))
				}
				stack = stack[:i]
				continue
			}
			for i > 0 && stack[i].name != t.Name {
				i--
			}
			if i > 0 {
				stack = stack[:i]
			}

		case xml.CharData:
			if top == doc {
				if !lenient && len(bytes.Trim(t, whitespace+"\r")) > 0 {
					return nil, fmt.Errorf("line %d: text outside of root element",
						lineOf(data, d.InputOffset()))
				}
				continue
			}
			top.appendText(string(t))

		case xml.Comment:
			if len(stack) == 2 {
				top.children = append(top.children, &node{kind: commentNode, text: string(t)})
			}
		}
	}

	if !lenient && len(stack) > 1 {
		return nil, fmt.Errorf("unexpected end of input: <%s> not closed", qualified(stack[len(stack)-1].name))
	}
	if len(doc.children) == 0 {
		return nil, errors.New("no root element")
	}
	return doc, nil
}

func lineOf(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}

// ---------------------------------------------------------------------------
// Namespaces
// ---------------------------------------------------------------------------

// XLIFFNamespace is the namespace of the <xliff:g> placeholder annotations
// used throughout AOSP resources.
const XLIFFNamespace = "urn:oasis:names:tc:xliff:document:1.2"

// knownNamespaces maps namespace URIs to the prefix always used for them
// in gettext text. Tags in these namespaces need no inline declaration.
var knownNamespaces = map[string]string{
	XLIFFNamespace: "xliff",
}

func knownPrefix(prefix string) (string, bool) {
	for uri, p := range knownNamespaces {
		if p == prefix {
			return uri, true
		}
	}
	return "", false
}

// Namespaces records the XML namespaces used by the values of a Tree so
// they can be declared on the <resources> element.
type Namespaces struct {
	byPrefix map[string]string
}

// NewNamespaces returns an empty namespace table.
func NewNamespaces() *Namespaces {
	return &Namespaces{byPrefix: make(map[string]string)}
}

// Register records that prefix is bound to uri. The first binding of a
// prefix wins.
func (ns *Namespaces) Register(prefix, uri string) {
	if ns == nil || prefix == "" {
		return
	}
	if _, ok := ns.byPrefix[prefix]; !ok {
		ns.byPrefix[prefix] = uri
	}
}

// URI returns the namespace bound to prefix.
func (ns *Namespaces) URI(prefix string) (string, bool) {
	if ns == nil {
		return "", false
	}
	uri, ok := ns.byPrefix[prefix]
	return uri, ok
}

// Prefixes returns the registered prefixes in sorted order.
func (ns *Namespaces) Prefixes() []string {
	if ns == nil {
		return nil
	}
	out := make([]string, 0, len(ns.byPrefix))
	for p := range ns.byPrefix {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ---------------------------------------------------------------------------
// Decoding: element → gettext text
// ---------------------------------------------------------------------------

// elementDecoder renders the content of a resource element as the string
// stored in the catalog: tags are kept literally, text runs go through
// DecodeText.
type elementDecoder struct {
	ns        *Namespaces
	warn      WarnFunc
	out       strings.Builder
	formatted bool
}

// decodeElement converts the content of a <string> or <item> element.
func decodeElement(n *node, ns *Namespaces, warn WarnFunc) (*Text, error) {
	d := &elementDecoder{ns: ns, warn: warn}

	children := n.elements()
	text := n.text
	if len(children) == 0 {
		// Without nested tags leading and trailing whitespace is not
		// significant; quotes can still protect it.
		text = strings.Trim(text, whitespace)
		if strings.HasPrefix(text, "@") {
			return nil, ErrResourceReference
		}
	}
	if err := d.text(text); err != nil {
		return nil, err
	}
	for _, c := range children {
		if err := d.element(c); err != nil {
			return nil, err
		}
	}

	if d.out.Len() == 0 {
		return nil, ErrEmptyResource
	}
	return &Text{Value: d.out.String(), Formatted: d.formatted}, nil
}

func (d *elementDecoder) text(raw string) error {
	if raw == "" {
		return nil
	}
	s, formatted, err := DecodeText(raw, d.warn)
	if err != nil {
		return err
	}
	d.out.WriteString(s)
	d.formatted = d.formatted || formatted
	return nil
}

func (d *elementDecoder) element(n *node) error {
	var decls []string
	name := d.name(n.name, n.scope, &decls)

	var attrs []string
	for _, a := range n.attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, d.name(a.Name, n.scope, &decls), attrEscaper.Replace(a.Value)))
	}

	d.out.WriteString("<" + name)
	for _, a := range append(decls, attrs...) {
		d.out.WriteString(" " + a)
	}
	d.out.WriteString(">")

	if err := d.text(n.text); err != nil {
		return err
	}
	for _, c := range n.elements() {
		if err := d.element(c); err != nil {
			return err
		}
	}
	d.out.WriteString("</" + name + ">")
	return d.text(n.tail)
}

// name renders a tag or attribute name. Prefixes of known namespaces are
// replaced by their canonical prefix; other prefixes are kept and an
// xmlns declaration is added to decls so the text stays self-contained.
func (d *elementDecoder) name(n xml.Name, scope map[string]string, decls *[]string) string {
	if n.Space == "" || n.Space == "xml" {
		return qualified(n)
	}
	uri, ok := scope[n.Space]
	if !ok {
		return qualified(n)
	}
	if p, known := knownNamespaces[uri]; known {
		d.ns.Register(p, uri)
		return p + ":" + n.Local
	}
	decl := fmt.Sprintf(`xmlns:%s="%s"`, n.Space, attrEscaper.Replace(uri))
	if !slices.Contains(*decls, decl) {
		*decls = append(*decls, decl)
	}
	return qualified(n)
}

// attrEscaper escapes attribute values in decoded text. Quotes use a
// character reference, which EncodeElement leaves alone on the way back.
var attrEscaper = strings.NewReplacer(`"`, "&#34;", "<", "&lt;", ">", "&gt;")

// ---------------------------------------------------------------------------
// Encoding: gettext text → element content
// ---------------------------------------------------------------------------

// wrapperTag encloses a value while it is parsed as markup.
const wrapperTag = "string"

// EncodeElement converts a catalog value into the XML content of the
// resource element for name. The value may contain nested tags; text
// between them is encoded with EncodeText.
//
// Invalid markup is never fatal: the value is re-parsed leniently and a
// warning naming the resource is emitted. Tags using a known namespace
// prefix without declaring it are recorded in ns so the writer can declare
// the namespace on the <resources> element; any other declaration stays on
// the tag that carries it.
func EncodeElement(name, value string, ns *Namespaces, warn WarnFunc) string {
	prepared := prepareMarkup(value)
	open, closing := "<"+wrapperTag+">", "</"+wrapperTag+">"
	doc, err := parseNodes([]byte(open+prepared+closing), false)
	if err != nil {
		warn.warnf(SeverityWarning, "resource %q contains invalid XHTML (%v); falling back to loose parser", name, err)
		doc, err = parseNodes([]byte(open+prepared), true)
	}

	var b strings.Builder
	if err != nil {
		// Not even the loose parser could make sense of it; keep the
		// value as plain text.
		plain := strings.NewReplacer("&lt;", "<", "&gt;", ">").Replace(value)
		b.WriteString(xmlTextEscaper.Replace(EncodeText(plain)))
		return b.String()
	}

	root := doc.children[0]
	e := &elementEncoder{name: name, ns: ns, warn: warn, out: &b}
	e.text(root.text)
	for _, c := range root.elements() {
		e.element(c)
	}
	return b.String()
}

// prepareMarkup escapes ampersands so entity-like text survives parsing,
// except for &lt; &gt; and numeric references, which decoding produced on
// purpose.
func prepareMarkup(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] != '&' {
			b.WriteByte(value[i])
			continue
		}
		rest := value[i:]
		if strings.HasPrefix(rest, "&lt;") || strings.HasPrefix(rest, "&gt;") || isCharRef(rest) {
			b.WriteByte('&')
			continue
		}
		b.WriteString("&amp;")
	}
	return b.String()
}

func isCharRef(s string) bool {
	if !strings.HasPrefix(s, "&#") {
		return false
	}
	end := strings.IndexByte(s, ';')
	if end < 3 {
		return false
	}
	digits := s[2:end]
	if digits[0] == 'x' || digits[0] == 'X' {
		digits = digits[1:]
		if digits == "" {
			return false
		}
		for _, c := range digits {
			if _, ok := hexDigit(c); !ok {
				return false
			}
		}
		return true
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// xmlTextEscaper escapes character data for the resource file. Quotes are
// left alone: EncodeText has already escaped them the Android way.
var xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrValueEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

type elementEncoder struct {
	name string
	ns   *Namespaces
	warn WarnFunc
	out  *strings.Builder
}

func (e *elementEncoder) text(s string) {
	if s == "" {
		return
	}
	e.out.WriteString(xmlTextEscaper.Replace(EncodeText(s)))
}

func (e *elementEncoder) element(n *node) {
	e.use(n.name, n.scope)
	name := qualified(n.name)
	e.out.WriteString("<" + name)
	for _, a := range n.attrs {
		if a.Name.Space != "xmlns" {
			e.use(a.Name, n.scope)
		}
		fmt.Fprintf(e.out, ` %s="%s"`, qualified(a.Name), attrValueEscaper.Replace(a.Value))
	}
	e.out.WriteString(">")

	e.text(n.text)
	for _, c := range n.elements() {
		e.element(c)
	}
	e.out.WriteString("</" + name + ">")
	e.text(n.tail)
}

// use checks that the prefix of n is bound. Prefixes declared inside the
// value stay declared where they are; known prefixes may be used without a
// declaration and are declared on <resources> instead.
func (e *elementEncoder) use(n xml.Name, scope map[string]string) {
	if n.Space == "" || n.Space == "xml" {
		return
	}
	if _, ok := scope[n.Space]; ok {
		return
	}
	if uri, ok := knownPrefix(n.Space); ok {
		e.ns.Register(n.Space, uri)
		return
	}
	e.warn.warnf(SeverityWarning, "resource %q uses undeclared namespace prefix %q", e.name, n.Space)
}
