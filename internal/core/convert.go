package core

// convert.go turns raw cell text into typed record values.
//
// These functions handle the messy reality of client spreadsheets:
//   - Multiple date formats (ISO, US, EU, YYYYMMDD, Excel serial days)
//   - Currency symbols and thousand separators in numbers
//   - Excel formula prefixes (="value")
//   - Non-breaking spaces and stray quotes
//
// Unparseable numbers are kept as text so validation can report them;
// unparseable dates become null.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// excelEpoch is day zero of the spreadsheet serial date system.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02", "2006-1-2", "2006/1/2",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006", "02-Jan-2006",
		"2006-01-02T15:04:05", "2006-01-02 15:04:05",
	}
)

// ParseNumber parses a numeric cell.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "\u20ac", "") // Euro
	s = strings.ReplaceAll(s, "\u00a3", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseCompactDate parses a strict YYYYMMDD string, rejecting impossible
// calendar dates such as 20240230.
func ParseCompactDate(s string) (time.Time, bool) {
	if len(s) != 8 {
		return time.Time{}, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, false
		}
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[4:6])
	d, _ := strconv.Atoi(s[6:8])
	return validDate(y, m, d)
}

func validDate(y, m, d int) (time.Time, bool) {
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// ParseDate parses a date cell in any supported representation: YYYYMMDD,
// a separated year-first date, common US/EU layouts, or an Excel serial day
// count.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := ParseCompactDate(s); ok {
		return t, true
	}

	// Separated year-first dates such as 2025-08-01 or 2025/08/01 12:00.
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) == 8 && len(s) > 8 && isYearFirst(s) {
		if t, ok := ParseCompactDate(digits); ok {
			return t, true
		}
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}

	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return dateOnly(t), true
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromExcelSerial(f)
	}

	return time.Time{}, false
}

// FromExcelSerial converts a spreadsheet serial day number to a date. The
// fractional (time-of-day) part is discarded.
func FromExcelSerial(serial float64) (time.Time, bool) {
	if serial <= 0 || serial > maxExcelSerial || math.IsNaN(serial) {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(math.Floor(serial))), true
}

func isYearFirst(s string) bool {
	if len(s) < 5 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[4] < '0' || s[4] > '9'
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Replaces non-breaking spaces
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"`)

	return strings.TrimSpace(s)
}

// cellValue converts cleaned cell text to a value for the field. Blank cells
// are null. Date text is left for the transformation step to coerce.
func cellValue(spec FieldSpec, raw string) Value {
	raw = CleanCell(raw)
	if raw == "" {
		return Null()
	}
	if spec.Type == Numeric {
		if f, ok := ParseNumber(raw); ok {
			return Num(f)
		}
	}
	return Text(raw)
}
