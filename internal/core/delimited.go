package core

import (
	"encoding/csv"
	"io"
	"strings"
)

// delimiterCandidates in tie-break order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

const (
	delimiterSampleLines = 5
	delimiterSampleRows  = 20
)

// DelimitedParser reads comma, semicolon, tab or pipe separated text.
type DelimitedParser struct{}

// Parse implements Parser.
func (DelimitedParser) Parse(data []byte, def *Definition) (*ParseResult, error) {
	text := decodeText(data)
	delim := chooseDelimiter(text, def)

	rows, err := readDelimited(text, delim, -1)
	if err != nil {
		return nil, err
	}
	result := &ParseResult{}
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return result, nil
	}

	headers := cleanRow(rows[0])
	cols, mapping := columnFields(headers, def.Fields)
	result.Headers = headers
	result.Mapping = mapping

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(cols))
		for i, name := range cols {
			if name == "" {
				continue
			}
			spec, _ := def.Field(name)
			rec[name] = cellValue(spec, cellAt(row, i))
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// chooseDelimiter picks the separator whose test parse best populates the
// schema's mandatory fields. Coverage is ranked by rows with every mandatory
// field populated, then by total mandatory cells populated, then by how often
// the separator occurs in the first lines. A frequent separator therefore
// loses to one that actually yields the schema.
func chooseDelimiter(text string, def *Definition) rune {
	lines := splitLines(text)
	if len(lines) > delimiterSampleLines {
		lines = lines[:delimiterSampleLines]
	}
	sample := strings.Join(lines, "\n")

	type score struct {
		fullRows int
		cells    int
		freq     int
	}
	better := func(a, b score) bool {
		if a.fullRows != b.fullRows {
			return a.fullRows > b.fullRows
		}
		if a.cells != b.cells {
			return a.cells > b.cells
		}
		return a.freq > b.freq
	}

	best, bestScore := ',', score{-1, -1, -1}
	mandatory := def.MandatoryFields()
	for _, d := range delimiterCandidates {
		s := score{freq: strings.Count(sample, string(d))}
		if s.freq > 0 {
			s.fullRows, s.cells = mandatoryCoverage(text, d, def, mandatory)
		}
		if better(s, bestScore) {
			best, bestScore = d, s
		}
	}
	return best
}

// mandatoryCoverage test-parses the first rows with delim.
func mandatoryCoverage(text string, delim rune, def *Definition, mandatory []string) (fullRows, cells int) {
	rows, err := readDelimited(text, delim, delimiterSampleRows+1)
	if err != nil || len(rows) < 2 {
		return 0, 0
	}
	cols, _ := columnFields(cleanRow(rows[0]), def.Fields)

	for _, row := range rows[1:] {
		populated := make(map[string]bool)
		for i, name := range cols {
			if name != "" && CleanCell(cellAt(row, i)) != "" {
				populated[name] = true
			}
		}
		all := len(mandatory) > 0
		for _, m := range mandatory {
			if populated[m] {
				cells++
			} else {
				all = false
			}
		}
		if all {
			fullRows++
		}
	}
	return fullRows, cells
}

// readDelimited parses up to limit records (all when limit < 0). Quoting is
// lenient and rows may vary in width.
func readDelimited(text string, delim rune, limit int) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for limit < 0 || len(rows) < limit {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(rows) > 0 && limit >= 0 {
				break
			}
			return nil, wrapParse(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
