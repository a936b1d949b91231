package pofile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by all errors reporting malformed catalog input.
var ErrSyntax = errors.New("PO syntax error")

// field names the keyword a continuation line appends to.
type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldIDPlural
	fieldStr
	fieldStrPlural
)

type parser struct {
	file    *File
	current *Entry
	last    field
	index   int // plural index for fieldStrPlural
	line    int
}

// Parse reads a PO/POT catalog.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	p.flush()

	if p.file.Header == nil {
		p.file.Header = &Entry{}
	}
	return p.file, nil
}

// ParseFile reads a PO/POT catalog from disk. Syntax errors are prefixed
// with the path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	catalog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) entry() *Entry {
	if p.current == nil {
		p.current = &Entry{}
	}
	return p.current
}

// flush finishes the entry being built. The first entry with an empty
// msgid and no context becomes the header.
func (p *parser) flush() {
	e := p.current
	p.current = nil
	p.last = fieldNone
	if e == nil {
		return
	}
	if e.MsgID == "" && e.MsgCtxt == "" && !e.Obsolete && p.file.Header == nil {
		p.file.Header = e
		return
	}
	p.file.Entries = append(p.file.Entries, e)
}

func (p *parser) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		p.flush()
		return nil
	}

	if rest, ok := strings.CutPrefix(trimmed, "#~"); ok {
		// Obsolete entries repeat the normal syntax behind "#~".
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "#") || rest == "" {
			return nil
		}
		if p.current != nil && !p.current.Obsolete && p.last != fieldNone {
			p.flush()
		}
		p.entry().Obsolete = true
		return p.parseKeyword(rest)
	}

	if strings.HasPrefix(trimmed, "#") {
		// A comment after the keywords of an entry starts the next one.
		if p.last != fieldNone {
			p.flush()
		}
		p.parseComment(trimmed)
		return nil
	}

	return p.parseKeyword(trimmed)
}

func (p *parser) parseComment(line string) {
	e := p.entry()
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.AddFlag(flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		if v, ok := strings.CutPrefix(prev, "msgid "); ok {
			e.PreviousMsgID = unquote(v)
		}
	default:
		comment := line[1:]
		comment = strings.TrimPrefix(comment, " ")
		e.TranslatorComments = append(e.TranslatorComments, comment)
	}
}

func (p *parser) parseKeyword(line string) error {
	if strings.HasPrefix(line, `"`) {
		return p.appendContinuation(line)
	}

	keyword, value, ok := strings.Cut(line, " ")
	if !ok {
		return p.errorf("missing value after %q", keyword)
	}
	value = strings.TrimSpace(value)
	if !isQuoted(value) {
		return p.errorf("unquoted value for %s: %s", keyword, value)
	}

	// A new msgctxt or msgid after a msgstr begins the next entry even
	// without a separating blank line.
	if (keyword == "msgctxt" || keyword == "msgid") && (p.last == fieldStr || p.last == fieldStrPlural) {
		obsolete := p.current != nil && p.current.Obsolete
		p.flush()
		p.entry().Obsolete = obsolete
	}

	e := p.entry()
	switch {
	case keyword == "msgctxt":
		e.MsgCtxt = unquote(value)
		p.last = fieldCtxt
	case keyword == "msgid":
		e.MsgID = unquote(value)
		p.last = fieldID
	case keyword == "msgid_plural":
		e.MsgIDPlural = unquote(value)
		p.last = fieldIDPlural
	case keyword == "msgstr":
		e.MsgStr = unquote(value)
		p.last = fieldStr
	case strings.HasPrefix(keyword, "msgstr[") && strings.HasSuffix(keyword, "]"):
		idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
		if err != nil || idx < 0 {
			return p.errorf("invalid plural index in %s", keyword)
		}
		if e.MsgStrPlural == nil {
			e.MsgStrPlural = make(map[int]string)
		}
		e.MsgStrPlural[idx] = unquote(value)
		p.last = fieldStrPlural
		p.index = idx
	default:
		return p.errorf("unknown keyword %q", keyword)
	}
	return nil
}

func (p *parser) appendContinuation(line string) error {
	if !isQuoted(line) {
		return p.errorf("unterminated string: %s", line)
	}
	val := unquote(line)
	e := p.entry()
	switch p.last {
	case fieldCtxt:
		e.MsgCtxt += val
	case fieldID:
		e.MsgID += val
	case fieldIDPlural:
		e.MsgIDPlural += val
	case fieldStr:
		e.MsgStr += val
	case fieldStrPlural:
		e.MsgStrPlural[p.index] += val
	default:
		return p.errorf("string continuation without keyword")
	}
	return nil
}

func isQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	// The closing quote must not be escaped.
	backslashes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// unquote removes PO quoting and resolves C escapes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
