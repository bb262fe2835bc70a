package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"l10n-stats/internal/textutil"

	"github.com/rs/zerolog/log"
)

// XliffParser extracts strings from XLIFF 1.2 documents.
type XliffParser struct{}

func NewXliffParser() *XliffParser { return &XliffParser{} }

func (p *XliffParser) Format() string { return "xliff" }

func (p *XliffParser) CanParse(ext string) bool {
	return ext == ".xliff" || ext == ".xlf"
}

// errNoNamespace marks a document whose root declares no default namespace.
var errNoNamespace = errors.New("root element has no default namespace")

// xmlElement is one open element on the decoder stack.
type xmlElement struct {
	name  xml.Name
	attrs []xml.Attr
}

func (e xmlElement) attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// Parse keys every trans-unit by the original attribute of its grandparent
// (the <file> element) and its id, storing the text of its first direct
// <source> child. Sources nested deeper, as in <alt-trans>, are ignored.
// Template mode changes nothing since the source is always the stored text.
//
// A document that is not well-formed, or whose root has no default namespace,
// yields zero strings and a warning rather than an error.
// TODO: revisit the silent skip once callers can tell an empty file from a broken one.
func (p *XliffParser) Parse(name string, data []byte, template bool) (*Result, error) {
	table, err := p.units(filepath.Base(name), data)
	if err != nil {
		log.Warn().Err(err).Str("file", name).Msg("Skipping malformed XLIFF document")
		return newResult(make(Table)), nil
	}
	return newResult(table), nil
}

func (p *XliffParser) units(fileName string, data []byte) (Table, error) {
	table := make(Table)
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack    []xmlElement
		space    string
		inUnit   bool
		unitID   string
		original string
		source   strings.Builder
		inSource bool
		// depth of the open trans-unit; only its direct <source> child is read
		unitDepth  int
		sourceSeen bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if t.Name.Space == "" {
					return nil, errNoNamespace
				}
				space = t.Name.Space
			}
			stack = append(stack, xmlElement{name: t.Name, attrs: t.Attr})

			if t.Name.Space != space {
				continue
			}
			switch {
			case t.Name.Local == "trans-unit":
				inUnit = true
				unitDepth = len(stack)
				sourceSeen = false
				unitID = stack[len(stack)-1].attr("id")
				original = ""
				// ../.. of the trans-unit
				if len(stack) >= 3 {
					original = stack[len(stack)-3].attr("original")
				}
				source.Reset()
			case t.Name.Local == "source" && inUnit && !sourceSeen && len(stack) == unitDepth+1:
				inSource, sourceSeen = true, true
			}

		case xml.CharData:
			if inSource && len(stack) == unitDepth+1 {
				source.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if inSource && len(stack) == unitDepth+1 {
				inSource = false
			}
			if inUnit && top.name.Space == space && top.name.Local == "trans-unit" {
				table[UnitID(fileName, original, unitID)] = textutil.EscapeQuotes(source.String())
				inUnit = false
			}
			stack = stack[:len(stack)-1]
		}
	}

	if space == "" {
		return nil, errNoNamespace
	}
	return table, nil
}
