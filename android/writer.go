package android

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/a2po/plurals"
)

// DefaultIndent is the indentation used by Write and WriteFile, matching
// the files Android Studio generates.
const DefaultIndent = "    "

// Writer serializes a Tree into a strings.xml document.
type Writer struct {
	// Indent is one level of indentation. Empty puts all resources on a
	// single line.
	Indent string
	// Warn receives problems found while encoding values.
	Warn WarnFunc
}

// Write serializes tree to w with the default indentation.
func Write(w io.Writer, tree *Tree, warn WarnFunc) error {
	wr := &Writer{Indent: DefaultIndent, Warn: warn}
	return wr.Write(w, tree)
}

// WriteFile writes tree to path, creating parent directories as needed.
func WriteFile(path string, tree *Tree, warn WarnFunc) error {
	var buf bytes.Buffer
	if err := Write(&buf, tree, warn); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Write serializes tree to w. Resources are written in tree order; plural
// items in canonical category order. Nil array items are written as empty
// items so the remaining items keep their index; nil plural items are left
// out.
func (wr *Writer) Write(w io.Writer, tree *Tree) error {
	ns := tree.Namespaces
	if ns == nil {
		ns = NewNamespaces()
	}

	nl := ""
	if wr.Indent != "" {
		nl = "\n"
	}
	in1, in2 := wr.Indent, wr.Indent+wr.Indent

	// Values are encoded first: encoding discovers the namespaces the root
	// element has to declare.
	var body strings.Builder
	for _, name := range tree.Names() {
		res, _ := tree.Get(name)
		attrName := attrValueEscaper.Replace(name)

		switch v := res.(type) {
		case *Text:
			wr.writeComments(&body, v.Comments, in1, nl)
			fmt.Fprintf(&body, "%s<string name=\"%s\">%s</string>%s",
				in1, attrName, EncodeElement(name, v.Value, ns, wr.Warn), nl)

		case StringArray:
			if texts := textsOf(v); len(texts) > 0 {
				wr.writeComments(&body, texts[0].Comments, in1, nl)
			}
			fmt.Fprintf(&body, "%s<string-array name=\"%s\">%s", in1, attrName, nl)
			for i, item := range v {
				content := ""
				if item != nil {
					content = EncodeElement(fmt.Sprintf("%s:%d", name, i), item.Value, ns, wr.Warn)
				}
				fmt.Fprintf(&body, "%s<item>%s</item>%s", in2, content, nl)
			}
			fmt.Fprintf(&body, "%s</string-array>%s", in1, nl)

		case Plurals:
			texts := textsOf(v)
			if len(texts) == 0 {
				continue
			}
			wr.writeComments(&body, texts[0].Comments, in1, nl)
			fmt.Fprintf(&body, "%s<plurals name=\"%s\">%s", in1, attrName, nl)
			for _, c := range plurals.Order {
				item := v[c]
				if item == nil {
					continue
				}
				content := EncodeElement(name+":"+string(c), item.Value, ns, wr.Warn)
				fmt.Fprintf(&body, "%s<item quantity=\"%s\">%s</item>%s", in2, c, content, nl)
			}
			fmt.Fprintf(&body, "%s</plurals>%s", in1, nl)
		}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<resources")
	for _, p := range ns.Prefixes() {
		uri, _ := ns.URI(p)
		fmt.Fprintf(&b, " xmlns:%s=\"%s\"", p, attrValueEscaper.Replace(uri))
	}
	b.WriteString(">" + nl)
	b.WriteString(body.String())
	b.WriteString("</resources>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (wr *Writer) writeComments(b *strings.Builder, comments []string, indent, nl string) {
	for _, c := range comments {
		// "--" may not appear inside an XML comment.
		c = strings.ReplaceAll(c, "--", "- -")
		fmt.Fprintf(b, "%s<!-- %s -->%s", indent, c, nl)
	}
}
