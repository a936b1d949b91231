package android

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// whitespace lists the characters Android collapses.
const whitespace = " \n\t"

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

// DecodeText converts one run of raw resource text (the character data
// between two tags) into its logical value. It reports whether the text
// contains format placeholders.
//
// Rules:
//   - runs of whitespace collapse to a single space, except inside "…";
//     a run reaching the end of the text collapses even inside an
//     unterminated quote, as Android does
//   - an unescaped " toggles quoting and is removed
//   - \\ \n \t \" \' \@ and \uXXXX are decoded; other escapes are dropped
//     with a warning
//   - literal < and > are kept as &lt; and &gt; so they cannot be confused
//     with real nested tags
func DecodeText(raw string, warn WarnFunc) (string, bool, error) {
	rs := []rune(raw)
	var (
		out       strings.Builder
		ws        []rune
		quoted    bool
		formatted bool
	)

	flush := func(atEnd bool) {
		if len(ws) == 0 {
			return
		}
		if quoted && !atEnd {
			out.WriteString(string(ws))
		} else {
			out.WriteByte(' ')
		}
		ws = ws[:0]
	}

	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if isSpace(c) {
			ws = append(ws, c)
			continue
		}
		flush(false)

		switch c {
		case '"':
			quoted = !quoted
		case '\\':
			if i+1 >= len(rs) {
				// A trailing backslash has nothing to escape; keep it.
				out.WriteRune(c)
				continue
			}
			i++
			switch e := rs[i]; e {
			case '\\', '"', '\'', '@':
				out.WriteRune(e)
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'u':
				r, n, err := decodeUnicodeEscape(rs[i+1:])
				if err != nil {
					return "", false, err
				}
				out.WriteRune(r)
				i += n
			default:
				warn.warnf(SeverityWarning, "unsupported escape sequence \\%c in %q, removed", e, raw)
			}
		case '%':
			if i+1 < len(rs) && rs[i+1] == '%' {
				out.WriteString("%%")
				i++
				continue
			}
			formatted = true
			out.WriteRune(c)
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteRune(c)
		}
	}
	flush(true)

	return out.String(), formatted, nil
}

// decodeUnicodeEscape reads the hex digits following \u. Up to four digits
// are consumed; if the text ends earlier the digits read so far are used,
// which amounts to zero-padding on the left.
func decodeUnicodeEscape(rs []rune) (rune, int, error) {
	var v rune
	n := 0
	for ; n < 4 && n < len(rs); n++ {
		d, ok := hexDigit(rs[n])
		if !ok {
			return 0, 0, fmt.Errorf("%w: \\u%s", ErrBadUnicodeEscape, string(rs[:min(len(rs), 4)]))
		}
		v = v<<4 | d
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: \\u at end of text", ErrBadUnicodeEscape)
	}
	if !utf8.ValidRune(v) {
		return 0, 0, fmt.Errorf("%w: \\u%04x is not a valid code point", ErrBadUnicodeEscape, v)
	}
	return v, n, nil
}

func hexDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	`'`, `\'`,
	`"`, `\"`,
)

// EncodeText is the inverse of DecodeText for a single run of text: it
// escapes the characters Android treats specially and wraps the result in
// quotes when it has whitespace Android would otherwise collapse or trim.
//
// Whitespace that DecodeText collapsed cannot be recovered; only the
// logical value round-trips.
func EncodeText(s string) string {
	s = textEscaper.Replace(s)
	if strings.HasPrefix(s, "@") {
		s = `\` + s
	}
	if needsQuoting(s) {
		s = `"` + s + `"`
	}
	return s
}

// needsQuoting reports whether s has leading or trailing whitespace or any
// run of two or more whitespace characters.
func needsQuoting(s string) bool {
	if strings.Trim(s, whitespace) != s {
		return true
	}
	run := 0
	for _, c := range s {
		if !isSpace(c) {
			run = 0
			continue
		}
		run++
		if run >= 2 {
			return true
		}
	}
	return false
}
