package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerAnchor marks the most likely header row in templates that carry
// metadata rows above their column headers.
const headerAnchor = "part number"

// SpreadsheetParser reads the first worksheet of an .xlsx workbook.
type SpreadsheetParser struct{}

// Parse implements Parser.
func (SpreadsheetParser) Parse(data []byte, def *Definition) (*ParseResult, error) {
	sheet, rows, err := readSheet(data)
	if err != nil {
		return nil, err
	}
	result := &ParseResult{Sheet: sheet}

	headerIdx := 0
	if def.HeaderScanRows > 0 {
		headerIdx = bestHeaderRow(rows, def.HeaderScanRows)
	}
	if headerIdx < 0 || headerIdx >= len(rows) || isBlankRow(rows[headerIdx]) {
		return result, nil
	}

	headers := cleanRow(rows[headerIdx])
	cols, mapping := columnFields(headers, def.Fields)
	result.Headers = headers
	result.Mapping = mapping

	meta := extractMetadata(rows[:headerIdx], def)

	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			break
		}
		rec := make(Record, len(cols))
		for i, name := range cols {
			if name == "" {
				continue
			}
			spec, _ := def.Field(name)
			rec[name] = cellValue(spec, cellAt(row, i))
		}
		for name, v := range meta {
			if rec.Get(name).IsBlank() {
				rec[name] = v
			}
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// readSheet loads the raw cell text of the first worksheet. Raw values are
// used so numbers and serial dates are not reformatted by cell styles.
func readSheet(data []byte) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, wrapParse(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("%w: sheet %q: %v", ErrParse, sheets[0], err)
	}
	return sheets[0], rows, nil
}

// bestHeaderRow scores the first maxRows rows for header-likeness: populated
// cells, plus a bonus when a "part number" column is present. Rows with fewer
// than three populated cells are not candidates. Returns -1 if none qualify.
func bestHeaderRow(rows [][]string, maxRows int) int {
	best, bestScore := -1, -1
	for i := 0; i < len(rows) && i < maxRows; i++ {
		populated, hasAnchor := 0, false
		for _, c := range rows[i] {
			c = CleanCell(c)
			if c == "" {
				continue
			}
			populated++
			if strings.Contains(strings.ToLower(c), headerAnchor) {
				hasAnchor = true
			}
		}
		if populated < 3 {
			continue
		}
		score := populated
		if hasAnchor {
			score += 5
		}
		if score > bestScore {
			best, bestScore = i, score
		}
		if hasAnchor && populated >= 8 {
			break
		}
	}
	return best
}

// extractMetadata reads label/value pairs from the rows above the header.
// The value is the first populated cell to the right of the label.
func extractMetadata(rows [][]string, def *Definition) map[string]Value {
	if len(def.Metadata) == 0 || len(rows) == 0 {
		return nil
	}

	out := make(map[string]Value)
	for _, m := range def.Metadata {
		label := normalizeHeader(m.Label)
		spec, _ := def.Field(m.Field)
	search:
		for _, row := range rows {
			for i, c := range row {
				if !strings.HasPrefix(normalizeHeader(c), label) {
					continue
				}
				for _, v := range row[i+1:] {
					if CleanCell(v) != "" {
						out[m.Field] = cellValue(spec, v)
						break search
					}
				}
			}
		}
	}
	return out
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = CleanCell(c)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if CleanCell(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
