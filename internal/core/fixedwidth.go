package core

import "strings"

// FixedWidthParser reads positional text using each field's Start/End
// offsets. No header mapping is involved.
type FixedWidthParser struct{}

// Parse implements Parser. Blank lines are skipped; short lines read missing
// positions as blank.
func (FixedWidthParser) Parse(data []byte, def *Definition) (*ParseResult, error) {
	result := &ParseResult{}
	for _, line := range splitLines(decodeText(data)) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.Records = append(result.Records, parseFixedLine(line, def))
	}
	return result, nil
}

func parseFixedLine(line string, def *Definition) Record {
	rec := make(Record, len(def.Fields))
	for _, f := range def.Fields {
		raw := sliceBytes(line, f.Start, f.End+1)
		if f.Filler {
			if raw == "" {
				rec[f.Name] = Null()
			} else {
				rec[f.Name] = Text(raw)
			}
			continue
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			rec[f.Name] = Null()
			continue
		}

		switch f.Type {
		case Numeric:
			if n, ok := ParseNumber(raw); ok {
				rec[f.Name] = Num(n)
			} else {
				rec[f.Name] = Null()
			}
		case Date:
			if t, ok := ParseCompactDate(raw); ok {
				rec[f.Name] = DateOf(t)
			} else {
				rec[f.Name] = Null()
			}
		default:
			rec[f.Name] = Text(raw)
		}
	}
	return rec
}

// sliceBytes returns s[start:end] clamped to the string length.
func sliceBytes(s string, start, end int) string {
	if start >= len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
