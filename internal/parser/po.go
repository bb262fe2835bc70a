package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"l10n-stats/internal/textutil"

	"github.com/chai2010/gettext-go/po"
)

// PoParser extracts strings from gettext catalogs (.po and .pot).
type PoParser struct{}

func NewPoParser() *PoParser { return &PoParser{} }

func (p *PoParser) Format() string { return "po" }

func (p *PoParser) CanParse(ext string) bool {
	return ext == ".po" || ext == ".pot"
}

// Parse keys every message by file name plus context and original text.
// Fuzzy messages are always skipped. Untranslated messages are skipped unless
// template is set, in which case the original text stands in for the
// translation. A message with plural translations also yields a second string
// keyed by its plural original, holding the plural forms joined by newlines.
func (p *PoParser) Parse(name string, data []byte, template bool) (*Result, error) {
	file, err := po.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: parse po: %w", ErrUnreadableFile, name, err)
	}

	fileName := filepath.Base(name)
	table := make(Table)

	for _, msg := range file.Messages {
		// The header entry carries metadata, not a string.
		if msg.MsgId == "" {
			continue
		}
		if slices.Contains(msg.Flags, "fuzzy") {
			continue
		}

		translated := msg.MsgStr
		if len(msg.MsgStrPlural) > 0 {
			translated = msg.MsgStrPlural[0]
		}
		if translated == "" && !template {
			continue
		}
		if template {
			translated = msg.MsgId
		}

		id := ID(fileName, msg.MsgContext+"-"+msg.MsgId)
		table[id] = textutil.EscapeQuotes(translated)

		if msg.MsgIdPlural == "" || len(msg.MsgStrPlural) < 2 {
			continue
		}
		plural := joinPlurals(msg.MsgStrPlural[1:])
		if template {
			plural = msg.MsgIdPlural
		}
		pluralID := ID(fileName, msg.MsgContext+"-"+msg.MsgIdPlural)
		table[pluralID] = textutil.EscapeQuotes(plural)
	}

	return newResult(table), nil
}

func joinPlurals(forms []string) string {
	return strings.Join(forms, "\n")
}
