package parser

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnreadableFile reports a file that was enumerated but could not be read
	// or parsed. It aborts the snapshot being scanned.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrUnsupportedFormat reports a format tag no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Table maps a StringID to its text. Keys are unique within a snapshot.
type Table map[string]string

// Result holds parsing output for a single file.
type Result struct {
	// Strings are the extracted strings keyed by StringID.
	Strings Table
	// Count is the number of strings extracted.
	Count int
}

func newResult(table Table) *Result {
	return &Result{Strings: table, Count: len(table)}
}

// Parser is the interface for all translation file format parsers.
type Parser interface {
	// Format returns the format tag this parser is selected by.
	Format() string
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts strings from the content of the file called name.
	// In template mode untranslated entries are kept with their original text.
	Parse(name string, data []byte, template bool) (*Result, error)
}

// ParseFile reads filePath and parses it with p.
func ParseFile(p Parser, filePath string, template bool) (*Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnreadableFile, filePath, err)
	}
	return p.Parse(filePath, data, template)
}
