package android

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeOne reads a single <string name="test"> holding content.
func decodeOne(t *testing.T, content string, namespaces map[string]string) (*Text, warnLog) {
	t.Helper()
	var decls []string
	for p, uri := range namespaces {
		decls = append(decls, fmt.Sprintf(` xmlns:%s="%s"`, p, uri))
	}
	doc := fmt.Sprintf(`<resources%s><string name="test">%s</string></resources>`,
		strings.Join(decls, ""), content)

	var log warnLog
	tree, err := Read(strings.NewReader(doc), log.fn())
	require.NoError(t, err)
	res, ok := tree.Get("test")
	if !ok {
		return nil, log
	}
	return res.(*Text), log
}

// encodeOne writes value as <string name="test"> without indentation and
// returns the element content and the whole document.
func encodeOne(t *testing.T, value string) (string, string, warnLog) {
	t.Helper()
	tree := NewTree()
	tree.Add("test", &Text{Value: value})

	var log warnLog
	var b strings.Builder
	wr := &Writer{Warn: log.fn()}
	require.NoError(t, wr.Write(&b, tree))

	doc := b.String()
	start := strings.Index(doc, `<string name="test">`) + len(`<string name="test">`)
	end := strings.LastIndex(doc, "</string>")
	return doc[start:end], doc, log
}

func TestDecodeElement_Whitespace(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, content, expect string) {
		t.Helper()
		got, _ := decodeOne(t, content, nil)
		require.NotNil(t, got)
		require.Equal(t, expect, got.Value)
	}

	f(t, "a      b       c", "a b c")
	// Without nested tags surrounding whitespace is dropped entirely...
	f(t, "    a  ", "a")
	// ...with nested tags it collapses like everywhere else.
	f(t, "    <b></b>  ", " <b></b> ")
	f(t, "   <b>   <u>    </u>  </b>  ", " <b> <u> </u> </b> ")
	f(t, "\n<b></b>", " <b></b>")
	f(t, `"    a     b    "`, "    a     b    ")
	f(t, `   a"    c"   d  `, "a    c d")
	f(t, `"   a   b   `, "   a   b")
	f(t, `"   a    b   <b></b>`, "   a    b <b></b>")
	f(t, "&quot;    &quot;", "    ")
}

func TestDecodeElement_Markup(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, content, expect string) {
		t.Helper()
		got, _ := decodeOne(t, content, nil)
		require.NotNil(t, got)
		require.Equal(t, expect, got.Value)
	}

	f(t, "<b>bold</b> text", "<b>bold</b> text")
	f(t, "<b><u>foo</u>bar</b>", "<b><u>foo</u>bar</b>")
	f(t, "<b />", "<b></b>")
	f(t, `<font color='red'>x</font>`, `<font color="red">x</font>`)
	f(t, `<a href="x" title="y">link</a>`, `<a href="x" title="y">link</a>`)
	f(t, "&lt;b&gt;literal&lt;/b&gt;", "&lt;b&gt;literal&lt;/b&gt;")
	f(t, "Hello &amp; goodbye", "Hello & goodbye")
	f(t, "<![CDATA[<b>not a tag</b>]]>", "&lt;b&gt;not a tag&lt;/b&gt;")
}

func TestDecodeElement_Namespaces(t *testing.T) {
	t.Parallel()

	got, _ := decodeOne(t, `Shortcut <foo:g id="name" example="Browser">%s</foo:g> already exists`,
		map[string]string{"foo": XLIFFNamespace})
	require.NotNil(t, got)
	require.Equal(t, `Shortcut <xliff:g id="name" example="Browser">%s</xliff:g> already exists`, got.Value)
	require.True(t, got.Formatted)

	got, _ = decodeOne(t, `Shortcut <my:g>%s</my:g> already exists`,
		map[string]string{"my": "urn:custom"})
	require.NotNil(t, got)
	require.Equal(t, `Shortcut <my:g xmlns:my="urn:custom">%s</my:g> already exists`, got.Value)
}

func TestDecodeElement_References(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"@string/app_name", "     @string/app_name     "} {
		got, log := decodeOne(t, content, nil)
		require.Nil(t, got)
		require.Len(t, log, 1)
		require.Contains(t, log[0].msg, "resource reference")
	}

	got, _ := decodeOne(t, "@string/app_name<b>this is html</b>", nil)
	require.NotNil(t, got)
	require.Equal(t, "@string/app_name<b>this is html</b>", got.Value)

	got, _ = decodeOne(t, `\@string/app_name`, nil)
	require.NotNil(t, got)
	require.Equal(t, "@string/app_name", got.Value)
}

func TestDecodeElement_Empty(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "   ", "\n\t"} {
		got, log := decodeOne(t, content, nil)
		require.Nil(t, got)
		require.Len(t, log, 1)
		require.Contains(t, log[0].msg, "empty")
	}
}

func TestEncodeElement_Whitespace(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, value, expect string) {
		t.Helper()
		got, _, log := encodeOne(t, value)
		require.Equal(t, expect, got)
		require.Empty(t, log)
	}

	f(t, "hello world", "hello world")
	f(t, "hello     world", `"hello     world"`)
	f(t, "   <b>inside</b>  ", `"   "<b>inside</b>"  "`)
	f(t, "<b>  inside  </b>bcd", `<b>"  inside  "</b>bcd`)
	f(t, "<b>hello</b> world", `<b>hello</b>" world"`)
	f(t, "a \n\n\n b \t\t\t c", `a \n\n\n b \t\t\t c`)
}

func TestEncodeElement_Entities(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, value, expect string) {
		t.Helper()
		got, _, _ := encodeOne(t, value)
		require.Equal(t, expect, got)
	}

	f(t, "FAQ & Help", "FAQ &amp; Help")
	f(t, "&lt;b&gt;bold&lt;/b&gt;", "&lt;b&gt;bold&lt;/b&gt;")
	f(t, "'", `\'`)
	f(t, `"`, `\"`)
	f(t, "@string/app_name", `\@string/app_name`)
	f(t, "<b><u>foo</u>bar</b>", "<b><u>foo</u>bar</b>")
	f(t, "", "")
}

func TestEncodeElement_Namespaces(t *testing.T) {
	t.Parallel()

	got, doc, _ := encodeOne(t, `Shortcut <xliff:g id="name" example="Browser">%s</xliff:g> already exists`)
	require.Equal(t, `"Shortcut "<xliff:g id="name" example="Browser">%s</xliff:g>" already exists"`, got)
	require.Contains(t, doc, `<resources xmlns:xliff="`+XLIFFNamespace+`">`)

	got, doc, _ = encodeOne(t, `A <my:g xmlns:my="urn:custom">%s</my:g> B`)
	require.Equal(t, `"A "<my:g xmlns:my="urn:custom">%s</my:g>" B"`, got)
	require.Contains(t, doc, "<resources>")

	_, _, log := encodeOne(t, `<zz:g>x</zz:g>`)
	require.NotEmpty(t, log)
	require.Contains(t, log[len(log)-1].msg, "undeclared namespace prefix")
}

func TestEncodeElement_InvalidMarkup(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, value, expect string) {
		t.Helper()
		got, _, log := encodeOne(t, value)
		require.Equal(t, expect, got)
		require.Len(t, log, 1)
		require.Contains(t, log[0].msg, "contains invalid XHTML")
		require.Contains(t, log[0].msg, `"test"`)
	}

	f(t, "<b>foo</b", "<b>foo</b>")
	f(t, "<i>Tag is not closed", "<i>Tag is not closed</i>")
	f(t, "a < b", "a &lt; b")
	f(t, "line<br>break", "line<br></br>break")
}

func TestElementRoundTrip(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		"bar",
		"<b>foo</b>",
		"<b><u>foo</u>bar</b>",
		"hello     world",
		"   <b>inside</b>  ",
		"Let's go",
		`Pete "the horn" McCraw`,
		"line1\n\n\nline3",
		`\`,
		"@string/app_name",
		"FAQ & Help",
		"&lt;b&gt;bold&lt;/b&gt;",
		`Shortcut <xliff:g id="name" example="Browser">%s</xliff:g> already exists`,
		`A <my:g xmlns:my="urn:custom">%s</my:g> B`,
	} {
		content, _, _ := encodeOne(t, value)
		doc := `<resources xmlns:xliff="` + XLIFFNamespace + `"><string name="test">` + content + `</string></resources>`
		tree, err := Read(strings.NewReader(doc), nil)
		require.NoError(t, err)
		res, ok := tree.Get("test")
		require.True(t, ok, "value=%q", value)
		require.Equal(t, value, res.(*Text).Value)
	}
}
