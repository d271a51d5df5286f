package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// compactDateLayout is the date rendering used in every output format.
const compactDateLayout = "20060102"

// Serialize renders records in the requested output format.
func Serialize(records []Record, def *Definition, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatTXT:
		return FixedWidth(records, def), nil
	case FormatCSV:
		return Delimited(records, def)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormatNotAllowed, format)
	}
}

// FixedWidth renders one line per record. Every field is padded with spaces
// or truncated to exactly its Length in bytes; lines are joined by "\n".
func FixedWidth(records []Record, def *Definition) []byte {
	var buf bytes.Buffer
	buf.Grow(len(records) * (def.LineLength() + 1))

	for i, rec := range records {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for _, f := range def.Fields {
			buf.WriteString(fitBytes(renderValue(f, rec.Get(f.Name)), f.Length))
		}
	}
	return buf.Bytes()
}

// Delimited renders a header row from the definition's CSV columns followed
// by one row per record, with RFC 4180 quoting.
func Delimited(records []Record, def *Definition) ([]byte, error) {
	cols := def.CSVColumns
	if len(cols) == 0 {
		cols = make([]CSVColumn, len(def.Fields))
		for i, f := range def.Fields {
			cols[i] = CSVColumn{Header: f.Name, Fields: []string{f.Name}}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			row[i] = ""
			for _, name := range c.Fields {
				v := rec.Get(name)
				if v.IsBlank() {
					continue
				}
				f, _ := def.Field(name)
				row[i] = renderValue(f, v)
				break
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderValue formats a value for output: numbers with the field's decimals
// and trailing fractional zeros removed, dates as YYYYMMDD, text as-is.
func renderValue(f FieldSpec, v Value) string {
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Float()
		return FormatDecimal(n, f.Decimals)
	case KindDate:
		t, _ := v.Time()
		return t.Format(compactDateLayout)
	case KindString:
		return v.Str()
	default:
		return ""
	}
}

// FormatDecimal renders n with the given decimals, then strips trailing zeros
// after the decimal point (and the point itself when nothing remains).
func FormatDecimal(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// fitBytes pads s with spaces or truncates it to exactly n bytes. Truncation
// never splits a multi-byte character; the freed bytes are padded instead.
func fitBytes(s string, n int) string {
	if len(s) > n {
		cut := n
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	if len(s) < n {
		s += strings.Repeat(" ", n-len(s))
	}
	return s
}
