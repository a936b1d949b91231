package pofile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Write serializes the catalog: header first, then entries separated by
// blank lines, obsolete entries last.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	first := true
	sep := func() {
		if !first {
			bw.WriteString("\n")
		}
		first = false
	}

	if f.Header != nil && (f.Header.MsgStr != "" || len(f.Header.TranslatorComments) > 0) {
		sep()
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		if !e.Obsolete {
			sep()
			writeEntry(bw, e)
		}
	}
	for _, e := range f.Entries {
		if e.Obsolete {
			sep()
			writeEntry(bw, e)
		}
	}
	return bw.Flush()
}

// WriteFile writes the catalog to path, creating parent directories.
func (f *File) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range commentLines(e.TranslatorComments) {
		if c == "" {
			w.WriteString("#\n")
		} else {
			fmt.Fprintf(w, "# %s\n", c)
		}
	}
	for _, c := range commentLines(e.ExtractedComments) {
		if c == "" {
			w.WriteString("#.\n")
		} else {
			fmt.Fprintf(w, "#. %s\n", c)
		}
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	if e.MsgCtxt != "" {
		writeQuotedField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix+"msgid", e.MsgID)
	if e.IsPlural() {
		writeQuotedField(w, prefix+"msgid_plural", e.MsgIDPlural)
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		if len(indices) == 0 {
			indices = []int{0, 1}
		}
		for _, idx := range indices {
			writeQuotedField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
		}
		return
	}
	writeQuotedField(w, prefix+"msgstr", e.MsgStr)
}

// commentLines splits multi-line comments so every line gets its own
// comment marker. Surrounding whitespace of each line is dropped.
func commentLines(comments []string) []string {
	var out []string
	for _, c := range comments {
		if !strings.Contains(c, "\n") {
			out = append(out, c)
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(c), "\n") {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// writeQuotedField writes one keyword. Values containing newlines are
// split after each newline, gettext style, behind an empty first string.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	cont := ""
	if strings.HasPrefix(field, "#~ ") {
		cont = "#~ "
	}
	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.SplitAfter(value, "\n")
	for _, part := range parts {
		if part != "" {
			fmt.Fprintf(w, "%s%s\n", cont, quote(part))
		}
	}
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// quote produces a PO-style quoted string.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
