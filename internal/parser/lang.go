package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"l10n-stats/internal/textutil"
)

// okMarker flags a translation intentionally identical to its reference.
const okMarker = "{ok}"

// LangParser extracts strings from .lang files: a ";reference" line followed
// by its translation, with "#" comment and "## meta ##" lines in between.
type LangParser struct{}

func NewLangParser() *LangParser { return &LangParser{} }

func (p *LangParser) Format() string { return "lang" }

func (p *LangParser) CanParse(ext string) bool {
	return ext == ".lang"
}

// Parse keys strings by the full file name plus the reference text, so two
// .lang files with the same base name in different folders stay distinct.
func (p *LangParser) Parse(name string, data []byte, template bool) (*Result, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	// Blank lines carry nothing, so pairing happens over the remaining ones.
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w %s: scan lang file: %w", ErrUnreadableFile, name, err)
	}

	table := make(Table)
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// Comments, metadata included, and stray lines are not references.
		if !textutil.StartsWith(line, ";") {
			continue
		}
		reference := textutil.LeftStrip(line, ";")

		// A reference followed by another reference, or by nothing, is
		// untranslated.
		if i+1 >= len(lines) || textutil.StartsWith(lines[i+1], ";") {
			if template {
				table[ID(name, reference)] = reference
			}
			continue
		}

		translation := strings.TrimSpace(strings.ReplaceAll(lines[i+1], okMarker, ""))
		i++

		if template {
			translation = reference
		}
		table[ID(name, reference)] = translation
	}

	return newResult(table), nil
}
