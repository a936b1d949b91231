package android

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/a2po/plurals"
)

// ---------------------------------------------------------------------------
// Read tests
// ---------------------------------------------------------------------------

func TestRead_BasicString(t *testing.T) {
	xml := `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="app_name">My App</string>
    <string name="greeting">Hello &amp; goodbye</string>
</resources>
`
	tree, err := Read(strings.NewReader(xml), nil)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got := tree.Names(); !reflect.DeepEqual(got, []string{"app_name", "greeting"}) {
		t.Fatalf("Names() = %v", got)
	}
	r, _ := tree.Get("greeting")
	if v := r.(*Text).Value; v != "Hello & goodbye" {
		t.Errorf("greeting: got %q, want %q", v, "Hello & goodbye")
	}
}

func TestRead_TranslatableFalse(t *testing.T) {
	xml := `<resources>
    <!-- App name, never translated -->
    <string name="app_name" translatable="false">MyApp</string>
    <string name="greeting">Hello</string>
</resources>`

	tree, err := Read(strings.NewReader(xml), nil)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if _, ok := tree.Get("app_name"); ok {
		t.Error("app_name should not be in the tree")
	}
	r, ok := tree.Get("greeting")
	if !ok {
		t.Fatal("greeting not found")
	}
	if c := r.(*Text).Comments; len(c) != 0 {
		t.Errorf("comment of skipped entry leaked to greeting: %v", c)
	}
}

func TestRead_StringArray(t *testing.T) {
	xml := `<resources>
    <string-array name="colors">
        <item>red</item>
        <item>green</item>
        <item>@color/blue</item>
        <item>@seems <b>like a ref</b></item>
    </string-array>
</resources>`

	var log warnLog
	tree, err := Read(strings.NewReader(xml), log.fn())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	r, ok := tree.Get("colors")
	if !ok {
		t.Fatal("colors not found")
	}
	arr := r.(StringArray)
	if len(arr) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(arr))
	}
	if arr[0].Value != "red" || arr[1].Value != "green" {
		t.Errorf("items: got %q, %q", arr[0].Value, arr[1].Value)
	}
	if arr[2] != nil {
		t.Errorf("reference item should be nil, got %q", arr[2].Value)
	}
	if arr[3].Value != "@seems <b>like a ref</b>" {
		t.Errorf("item 3: got %q", arr[3].Value)
	}
	if len(log) != 1 || !strings.Contains(log[0].msg, "resource reference") {
		t.Errorf("expected one resource reference warning, got %v", log)
	}
}

func TestRead_EmptyStringArray(t *testing.T) {
	xml := `<resources><string-array name="empty"></string-array></resources>`

	var log warnLog
	tree, err := Read(strings.NewReader(xml), log.fn())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("expected empty tree, got %v", tree.Names())
	}
	if len(log) != 1 || !strings.Contains(log[0].msg, "is empty") {
		t.Errorf("unexpected warnings: %v", log)
	}
}

func TestRead_Plurals(t *testing.T) {
	xml := `<resources>
    <plurals name="files">
        <item quantity="one">%d file</item>
        <item quantity="other">%d files</item>
        <item quantity="lots">way too many</item>
    </plurals>
</resources>`

	var log warnLog
	tree, err := Read(strings.NewReader(xml), log.fn())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	r, ok := tree.Get("files")
	if !ok {
		t.Fatal("files not found")
	}
	p := r.(Plurals)
	if len(p) != 2 {
		t.Fatalf("expected 2 quantities, got %d", len(p))
	}
	if p[plurals.One].Value != "%d file" || !p[plurals.One].Formatted {
		t.Errorf("one: got %+v", p[plurals.One])
	}
	if p[plurals.Other].Value != "%d files" {
		t.Errorf("other: got %q", p[plurals.Other].Value)
	}
	if len(log) != 1 || !strings.Contains(log[0].msg, `unsupported quantity "lots"`) {
		t.Errorf("unexpected warnings: %v", log)
	}
}

func TestRead_Comments(t *testing.T) {
	xml := `<resources>
    <!-- Shown on the start screen -->
    <!-- Keep it short -->
    <string name="welcome">Welcome</string>
    <string name="bye">Bye</string>
    <!-- dropped with the nameless entry -->
    <string>nameless</string>
    <string name="after">After</string>
    <!-- array comment -->
    <string-array name="arr"><item>a</item><item>b</item></string-array>
</resources>`

	tree, err := Read(strings.NewReader(xml), nil)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	r, _ := tree.Get("welcome")
	want := []string{"Shown on the start screen", "Keep it short"}
	if got := r.(*Text).Comments; !reflect.DeepEqual(got, want) {
		t.Errorf("welcome comments: got %v, want %v", got, want)
	}
	for _, name := range []string{"bye", "after"} {
		r, _ := tree.Get(name)
		if c := r.(*Text).Comments; len(c) != 0 {
			t.Errorf("%s: unexpected comments %v", name, c)
		}
	}
	r, _ = tree.Get("arr")
	for i, item := range r.(StringArray) {
		if !reflect.DeepEqual(item.Comments, []string{"array comment"}) {
			t.Errorf("arr[%d] comments: %v", i, item.Comments)
		}
	}
}

func TestRead_Duplicate(t *testing.T) {
	xml := `<resources>
    <string name="a">first</string>
    <string name="a">second</string>
</resources>`

	var log warnLog
	tree, err := Read(strings.NewReader(xml), log.fn())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	r, _ := tree.Get("a")
	if v := r.(*Text).Value; v != "first" {
		t.Errorf("expected first value to win, got %q", v)
	}
	if len(log) != 1 || !strings.Contains(log[0].msg, "duplicate") {
		t.Errorf("unexpected warnings: %v", log)
	}
}

func TestRead_BadEntryDoesNotAbort(t *testing.T) {
	xml := `<resources>
    <string name="bad">broken \u12 escape</string>
    <string name="good">fine</string>
    <dimen name="margin">4dp</dimen>
</resources>`

	var log warnLog
	tree, err := Read(strings.NewReader(xml), log.fn())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got := tree.Names(); !reflect.DeepEqual(got, []string{"good"}) {
		t.Errorf("Names() = %v", got)
	}
	if len(log) != 1 || !strings.Contains(log[0].msg, `"bad"`) {
		t.Errorf("unexpected warnings: %v", log)
	}
}

func TestRead_TrailingWhitespaceIgnored(t *testing.T) {
	xml := "<resources><string name=\"a\">value</string>   \n\n  </resources>"

	tree, err := Read(strings.NewReader(xml), nil)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	r, _ := tree.Get("a")
	if v := r.(*Text).Value; v != "value" {
		t.Errorf("got %q", v)
	}
}

func TestRead_Invalid(t *testing.T) {
	for _, xml := range []string{
		`<resources><string name="a">unclosed</resources>`,
		`<resources><string name="a">x</string>`,
		`<resources>&bogus;</resources>`,
		``,
		`<manifest></manifest>`,
	} {
		_, err := Read(strings.NewReader(xml), nil)
		var invalid *InvalidResourceError
		if !errors.As(err, &invalid) {
			t.Errorf("%q: expected InvalidResourceError, got %v", xml, err)
		}
	}
}

func TestReadFile_InvalidCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strings.xml")
	if err := os.WriteFile(path, []byte("<resources><oops></resources>"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path, nil)
	var invalid *InvalidResourceError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidResourceError, got %v", err)
	}
	if invalid.File != path || !strings.Contains(err.Error(), path) {
		t.Errorf("error does not name the file: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Write tests
// ---------------------------------------------------------------------------

func compact(t *testing.T, tree *Tree) string {
	t.Helper()
	var b strings.Builder
	if err := (&Writer{}).Write(&b, tree); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(b.String()), `<?xml version="1.0" encoding="utf-8"?>`+"\n")
}

func TestWrite_String(t *testing.T) {
	tree := NewTree()
	tree.Add("foo", &Text{Value: "bar"})
	want := `<resources><string name="foo">bar</string></resources>`
	if got := compact(t, tree); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestWrite_Plurals(t *testing.T) {
	tree := NewTree()
	tree.Add("foo", Plurals{
		plurals.Other: {Value: "bars"},
		plurals.One:   {Value: "bar"},
		plurals.Few:   nil,
	})
	want := `<resources><plurals name="foo"><item quantity="one">bar</item><item quantity="other">bars</item></plurals></resources>`
	if got := compact(t, tree); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestWrite_StringArray(t *testing.T) {
	tree := NewTree()
	tree.Add("foo", StringArray{{Value: "bar1"}, nil, {Value: "bar3"}})
	want := `<resources><string-array name="foo"><item>bar1</item><item></item><item>bar3</item></string-array></resources>`
	if got := compact(t, tree); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestWrite_LeavesTreeUntouched(t *testing.T) {
	tree := NewTree()
	tree.Namespaces = nil
	tree.Add("foo", &Text{Value: "<b>bar</b>"})
	compact(t, tree)
	if tree.Namespaces != nil {
		t.Errorf("Write assigned a namespace table to the tree")
	}
}

func TestWrite_Indented(t *testing.T) {
	tree := NewTree()
	tree.Add("greeting", &Text{Value: "Hello & goodbye", Comments: []string{"Greeting"}})
	tree.Add("colors", StringArray{{Value: "rot"}, {Value: "grün"}})

	var b strings.Builder
	if err := Write(&b, tree, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	want := `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <!-- Greeting -->
    <string name="greeting">Hello &amp; goodbye</string>
    <string-array name="colors">
        <item>rot</item>
        <item>grün</item>
    </string-array>
</resources>
`
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<resources xmlns:xliff="urn:oasis:names:tc:xliff:document:1.2">
    <!-- Title -->
    <string name="title">"  Spaced  "</string>
    <string name="shortcut">Shortcut <xliff:g id="name">%s</xliff:g> exists</string>
    <string-array name="days">
        <item>Mon</item>
        <item>Tue</item>
    </string-array>
    <plurals name="files">
        <item quantity="one">%d file</item>
        <item quantity="other">%d files</item>
    </plurals>
</resources>
`
	tree, err := Read(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "res", "values-de", "strings.xml")
	if err := WriteFile(path, tree, nil); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	again, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !reflect.DeepEqual(tree.Names(), again.Names()) {
		t.Fatalf("names differ: %v vs %v", tree.Names(), again.Names())
	}
	for _, name := range tree.Names() {
		a, _ := tree.Get(name)
		b, _ := again.Get(name)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: %+v != %+v", name, a, b)
		}
	}
}

// ---------------------------------------------------------------------------
// Locale tests
// ---------------------------------------------------------------------------

func TestLanguageFromDir(t *testing.T) {
	cases := map[string]string{
		"values-de":        "de",
		"values-pt-rBR":    "pt-BR",
		"values-es-r419":   "es-419",
		"values-b+sr+Latn": "sr-Latn",
		"values-fil":       "fil",
	}
	for dir, want := range cases {
		got, ok := LanguageFromDir(dir)
		if !ok || got != want {
			t.Errorf("LanguageFromDir(%q) = %q, %v; want %q", dir, got, ok, want)
		}
	}
	for _, dir := range []string{"values", "values-night", "values-v21", "values-land", "values-de-land", "values-car", "values-sw600dp", "drawable-de"} {
		if got, ok := LanguageFromDir(dir); ok {
			t.Errorf("LanguageFromDir(%q) = %q, want no language", dir, got)
		}
	}
}

func TestDirForLanguage(t *testing.T) {
	cases := map[string]string{
		"":        "values",
		"de":      "values-de",
		"pt-BR":   "values-pt-rBR",
		"pt_BR":   "values-pt-rBR",
		"es-419":  "values-es-r419",
		"sr-Latn": "values-b+sr+Latn",
	}
	for lang, want := range cases {
		if got := DirForLanguage(lang); got != want {
			t.Errorf("DirForLanguage(%q) = %q, want %q", lang, got, want)
		}
	}
}

func TestDetectLanguages(t *testing.T) {
	res := t.TempDir()
	for _, dir := range []string{"values", "values-de", "values-pt-rBR", "values-night", "values-fr"} {
		if err := os.MkdirAll(filepath.Join(res, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []string{"values/strings.xml", "values-de/strings.xml", "values-pt-rBR/strings.xml", "values-night/strings.xml", "values-fr/arrays.xml"} {
		if err := os.WriteFile(filepath.Join(res, p), []byte("<resources/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := DetectLanguages(res, ""); !reflect.DeepEqual(got, []string{"de", "pt-BR"}) {
		t.Errorf("DetectLanguages(strings) = %v", got)
	}
	if got := DetectLanguages(res, "arrays"); !reflect.DeepEqual(got, []string{"fr"}) {
		t.Errorf("DetectLanguages(arrays) = %v", got)
	}
	if got := ResourcePath(res, "pt-BR", ""); got != filepath.Join(res, "values-pt-rBR", "strings.xml") {
		t.Errorf("ResourcePath = %q", got)
	}
}
