package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Parsers returns one instance of every supported parser.
func Parsers() []Parser {
	return []Parser{
		NewPoParser(),
		NewXliffParser(),
		NewLangParser(),
	}
}

// ForFormat selects the parser for a format tag such as "po", "xliff" or "lang".
func ForFormat(format string) (Parser, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, p := range Parsers() {
		if p.Format() == format {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
}

// Formats lists the supported format tags in sorted order.
func Formats() []string {
	var out []string
	for _, p := range Parsers() {
		out = append(out, p.Format())
	}
	sort.Strings(out)
	return out
}
