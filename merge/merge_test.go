package merge

import (
	"testing"

	po "github.com/minios-linux/a2po/pofile"
)

func TestMergeKeepNewObsoleteAndHeaderUpdate(t *testing.T) {
	poFile := po.NewFile()
	poFile.Header.MsgStr = "Project-Id-Version: a2po 1\nPOT-Creation-Date: old\nLanguage: ru\n" +
		"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"
	poFile.Entries = []*po.Entry{
		{
			MsgCtxt:    "keep",
			MsgID:      "keep",
			MsgStr:     "keep-translation",
			Flags:      []string{"fuzzy", "no-c-format"},
			References: []string{"strings.xml"},
		},
		{MsgCtxt: "obsolete", MsgID: "obsolete", MsgStr: "obsolete-translation", References: []string{"strings.xml"}},
		{MsgCtxt: "untranslated", MsgID: "untranslated"},
		{MsgCtxt: "already-obsolete", MsgID: "already-obsolete", MsgStr: "x", Obsolete: true},
	}

	potFile := po.NewFile()
	potFile.Header.MsgStr = "POT-Creation-Date: new\n"
	potFile.Entries = []*po.Entry{
		{
			MsgCtxt:           "keep",
			MsgID:             "keep",
			ExtractedComments: []string{"auto"},
			Flags:             []string{"c-format"},
		},
		{MsgCtxt: "new", MsgID: "new", MsgIDPlural: "new plural", Flags: []string{"c-format"}},
	}

	merged := Merge(poFile, potFile)

	if got := merged.HeaderField("POT-Creation-Date"); got != "new" {
		t.Fatalf("POT-Creation-Date = %q, want new", got)
	}
	if got := merged.HeaderField("Language"); got != "ru" {
		t.Fatalf("Language header lost: got %q", got)
	}

	if len(merged.Entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(merged.Entries))
	}

	keep := merged.Entries[0]
	if keep.MsgID != "keep" {
		t.Fatalf("first entry msgid = %q, want keep", keep.MsgID)
	}
	if keep.MsgStr != "keep-translation" {
		t.Fatalf("keep translation = %q, want keep-translation", keep.MsgStr)
	}
	if !keep.IsFuzzy() {
		t.Fatal("keep entry should retain fuzzy flag")
	}
	if !keep.HasFlag("c-format") {
		t.Fatal("keep entry should include template format flag")
	}
	if len(keep.ExtractedComments) != 1 || keep.ExtractedComments[0] != "auto" {
		t.Fatalf("keep extracted comments = %v, want [auto]", keep.ExtractedComments)
	}
	if keep.References != nil {
		t.Fatalf("keep references = %v, want template references", keep.References)
	}

	newEntry := merged.Entries[1]
	if newEntry.MsgID != "new" {
		t.Fatalf("second entry msgid = %q, want new", newEntry.MsgID)
	}
	if len(newEntry.MsgStrPlural) != 3 {
		t.Fatalf("new plural entry should get 3 empty forms, got %v", newEntry.MsgStrPlural)
	}

	obsolete := merged.Entries[2]
	if obsolete.MsgID != "obsolete" || !obsolete.Obsolete {
		t.Fatalf("third entry should be obsolete copy, got msgid=%q obsolete=%v", obsolete.MsgID, obsolete.Obsolete)
	}
	if obsolete.References != nil {
		t.Fatalf("obsolete references should be cleared, got %v", obsolete.References)
	}
}

func TestMergeSameTextDifferentContext(t *testing.T) {
	poFile := po.NewFile()
	poFile.Entries = []*po.Entry{
		{MsgCtxt: "ok_button", MsgID: "OK", MsgStr: "Gut"},
		{MsgCtxt: "ok_title", MsgID: "OK", MsgStr: "In Ordnung"},
	}
	potFile := po.NewFile()
	potFile.Entries = []*po.Entry{
		{MsgCtxt: "ok_title", MsgID: "OK"},
		{MsgCtxt: "ok_button", MsgID: "OK"},
	}

	merged := Merge(poFile, potFile)
	if len(merged.Entries) != 2 {
		t.Fatalf("entries len = %d, want 2", len(merged.Entries))
	}
	if merged.Entries[0].MsgStr != "In Ordnung" || merged.Entries[1].MsgStr != "Gut" {
		t.Fatalf("translations mixed up: %q, %q", merged.Entries[0].MsgStr, merged.Entries[1].MsgStr)
	}
}

func TestMergeChangedSourceBecomesFuzzy(t *testing.T) {
	poFile := po.NewFile()
	poFile.Entries = []*po.Entry{
		{MsgCtxt: "greeting", MsgID: "Hello", MsgStr: "Hallo"},
	}
	potFile := po.NewFile()
	potFile.Entries = []*po.Entry{
		{MsgCtxt: "greeting", MsgID: "Hello there", Flags: []string{"c-format"}},
	}

	merged := Merge(poFile, potFile)
	if len(merged.Entries) != 1 {
		t.Fatalf("entries len = %d, want 1", len(merged.Entries))
	}
	e := merged.Entries[0]
	if e.MsgID != "Hello there" || e.MsgStr != "Hallo" {
		t.Fatalf("entry = %q -> %q", e.MsgID, e.MsgStr)
	}
	if !e.IsFuzzy() || e.PreviousMsgID != "Hello" {
		t.Fatalf("changed entry should be fuzzy with previous msgid, got flags=%v prev=%q", e.Flags, e.PreviousMsgID)
	}
	if e.Flags[0] != "fuzzy" {
		t.Fatalf("flags = %v, want fuzzy first", e.Flags)
	}
}

func TestMergeFlagsKeepsFuzzyFirst(t *testing.T) {
	flags := mergeFlags([]string{"c-format", "fuzzy"}, []string{"c-format", "no-wrap"})
	want := []string{"fuzzy", "c-format", "no-wrap"}
	if len(flags) != len(want) {
		t.Fatalf("flags = %v, want %v", flags, want)
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Fatalf("flags = %v, want %v", flags, want)
		}
	}
}
