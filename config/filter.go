package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter matches resource names against an ignore list. Entries wrapped in
// slashes are regular expressions, everything else is an exact name.
type Filter struct {
	names    map[string]bool
	patterns []*regexp.Regexp
}

// NewFilter compiles an ignore list.
func NewFilter(ignore []string) (*Filter, error) {
	f := &Filter{names: make(map[string]bool)}
	for _, item := range ignore {
		if len(item) >= 2 && strings.HasPrefix(item, "/") && strings.HasSuffix(item, "/") {
			re, err := regexp.Compile(item[1 : len(item)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", item, err)
			}
			f.patterns = append(f.patterns, re)
			continue
		}
		f.names[item] = true
	}
	return f, nil
}

// Match reports whether name is ignored. A nil Filter matches nothing.
func (f *Filter) Match(name string) bool {
	if f == nil {
		return false
	}
	if f.names[name] {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// MatchContext is Match for a catalog context: the array index suffix of
// "name:index" is ignored.
func (f *Filter) MatchContext(ctxt string) bool {
	name, _, _ := strings.Cut(ctxt, ":")
	return f.Match(name)
}

// Empty reports whether the filter ignores nothing.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.names) == 0 && len(f.patterns) == 0)
}
