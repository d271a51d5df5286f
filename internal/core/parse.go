package core

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ParseResult holds the canonical records read from one file.
type ParseResult struct {
	Records []Record
	Headers []string      // File headers as found; empty for fixed-width input
	Mapping HeaderMapping // File header -> canonical name
	Sheet   string        // Worksheet read, spreadsheets only
}

// Parser reads one input format into canonical records.
type Parser interface {
	Parse(data []byte, def *Definition) (*ParseResult, error)
}

// ParserFor selects a parser by file extension.
func ParserFor(fileName string) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx", ".xlsm":
		return SpreadsheetParser{}, nil
	case ".csv", ".tsv":
		return DelimitedParser{}, nil
	case ".txt":
		return FixedWidthParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// decodeText returns data as UTF-8. Input that is not valid UTF-8 is decoded
// as Windows-1252. A leading byte-order mark is dropped and non-breaking
// spaces become plain spaces.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var s string
	if utf8.Valid(data) {
		s = string(data)
	} else if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		s = string(decoded)
	} else {
		s = strings.ToValidUTF8(string(data), "\ufffd")
	}

	return strings.ReplaceAll(s, "\u00a0", " ")
}

// splitLines splits text on \n, dropping \r line terminators.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func wrapParse(err error) error {
	return fmt.Errorf("%w: %v", ErrParse, err)
}
