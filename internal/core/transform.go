package core

// transform.go canonicalizes parsed records before validation.
//
// Per field, in schema order, non-blank values are normalized by the field's
// declared behavior:
//   - indicator field: Y/YES -> Y, N/NO -> N, anything else -> ""
//   - enum fields: synonyms, then code or description -> code
//   - HTS fields: 10 digits -> ####.##.####
//   - date fields: any supported representation -> date, or null
//   - country fields: code or name -> ISO alpha-2
//   - unit fields: catalog code
//   - net cost: CN / NO when the letters match, else upper-cased
//   - identifiers: upper-cased
//
// Indicator dependents are then blanked unless the indicator is "Y". Blank
// values and filler fields are never rewritten, which keeps Transform a fixed
// point.

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	htsFormatted = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{4}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// CountryLookup resolves country codes and names.
type CountryLookup interface {
	Valid(code string) bool
	CodeForName(name string) (string, bool)
}

// UnitLookup resolves unit-of-measure codes.
type UnitLookup interface {
	Valid(code string) bool
	Normalize(value string) string
}

// Transformer applies field normalization rules.
type Transformer struct {
	countries CountryLookup
	units     UnitLookup
	logger    *slog.Logger
}

// NewTransformer creates a transformer using the given catalogs.
func NewTransformer(countries CountryLookup, units UnitLookup, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{countries: countries, units: units, logger: logger}
}

// Transform normalizes records in place and returns them.
func (t *Transformer) Transform(records []Record, def *Definition) []Record {
	for i, rec := range records {
		t.transformRecord(rec, def, i+2)
	}
	return records
}

func (t *Transformer) transformRecord(rec Record, def *Definition, row int) {
	indicator := ""
	if def.Indicator != nil {
		indicator = def.Indicator.Field
	}

	for _, f := range def.Fields {
		if f.Filler {
			continue
		}
		v, present := rec[f.Name]
		if !present || v.IsBlank() {
			continue
		}

		var out Value
		if f.Name == indicator {
			out = Text(NormalizeIndicator(v.String()))
		} else {
			out = t.transformValue(f, v)
		}

		if !out.Equal(v) {
			t.logger.Debug("field transformed", "row", row, "field", f.Name, "from", v.String(), "to", out.String())
			rec[f.Name] = out
		}
	}

	if def.Indicator != nil && rec.Get(def.Indicator.Field).Str() != "Y" {
		for _, dep := range def.Indicator.Dependents {
			if _, present := rec[dep]; present {
				rec[dep] = Text("")
			}
		}
	}
}

func (t *Transformer) transformValue(f FieldSpec, v Value) Value {
	if f.Type == Date {
		return CoerceDate(v)
	}
	if f.Type == Numeric {
		return v
	}

	s := strings.TrimSpace(v.String())

	if f.IsEnum() {
		s = MatchEnum(f, s)
	}

	switch f.Role {
	case RoleHTS:
		s = NormalizeHTS(s)
	case RoleCountry:
		s = t.normalizeCountry(s)
	case RoleUOM:
		if t.units != nil {
			s = t.units.Normalize(s)
		}
	case RoleNetCost:
		s = NormalizeNetCost(s)
	case RoleIdentifier:
		s = strings.ToUpper(s)
	}

	return Text(s)
}

// NormalizeIndicator maps a binary indicator to "Y", "N" or "".
func NormalizeIndicator(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES":
		return "Y"
	case "N", "NO":
		return "N"
	default:
		return ""
	}
}

// MatchEnum returns the code of the possible value whose code or description
// equals s (case-insensitive). Field synonyms are consulted first. Unmatched
// input is returned unchanged.
func MatchEnum(f FieldSpec, s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if syn, ok := f.Synonyms[up]; ok {
		return syn
	}
	for _, pv := range f.PossibleValues {
		code, desc := splitPossibleValue(pv)
		if up == strings.ToUpper(code) || (desc != "" && up == strings.ToUpper(desc)) {
			return code
		}
	}
	return s
}

// NormalizeHTS reformats a 10-digit tariff code as ####.##.####. Any other
// shape is returned unchanged.
func NormalizeHTS(s string) string {
	s = strings.TrimSpace(s)
	if htsFormatted.MatchString(s) {
		return s
	}
	digits := nonDigit.ReplaceAllString(s, "")
	if len(digits) != 10 {
		return s
	}
	return digits[:4] + "." + digits[4:6] + "." + digits[6:]
}

// NormalizeNetCost collapses noisy net-cost input ("c.n.", "no ") to CN or NO.
func NormalizeNetCost(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	compact := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, up)
	if compact == "CN" || compact == "NO" {
		return compact
	}
	return up
}

func (t *Transformer) normalizeCountry(s string) string {
	if t.countries == nil {
		return s
	}
	up := strings.ToUpper(s)
	if len(up) == 2 && t.countries.Valid(up) {
		return up
	}
	if code, ok := t.countries.CodeForName(s); ok {
		return code
	}
	return s
}

// CoerceDate converts a date-typed value to a date, or null when it cannot be
// read as a valid calendar date. Numbers are Excel serial days.
func CoerceDate(v Value) Value {
	switch v.Kind() {
	case KindDate:
		return v
	case KindNumber:
		f, _ := v.Float()
		if t, ok := FromExcelSerial(f); ok {
			return DateOf(t)
		}
		return Null()
	case KindString:
		if t, ok := ParseDate(v.Str()); ok {
			return DateOf(t)
		}
		return Null()
	default:
		return v
	}
}
