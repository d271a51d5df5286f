package catalog

import (
	"sort"
	"strings"
)

// Unit is a unit-of-measure catalog entry. Decimals is the number of
// fractional digits quantities in this unit are expected to carry.
type Unit struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Decimals    int    `yaml:"decimals"`
}

var staticUnits = []Unit{
	{Code: "EA", Description: "Each", Decimals: 0},
	{Code: "PCS", Description: "Pieces", Decimals: 0},
	{Code: "KG", Description: "Kilogram", Decimals: 3},
	{Code: "LB", Description: "Pound", Decimals: 3},
	{Code: "MT", Description: "Metric Ton", Decimals: 3},
	{Code: "L", Description: "Liter", Decimals: 3},
	{Code: "M", Description: "Meter", Decimals: 3},
	{Code: "FT", Description: "Foot", Decimals: 3},
	{Code: "PK", Description: "Pack", Decimals: 0},
}

// Units resolves unit-of-measure codes and descriptions.
type Units struct {
	byCode     map[string]Unit
	nameToCode map[string]string
}

// NewUnits builds the unit catalog from the static table plus the given
// overlay. Overlay entries replace static entries with the same code.
func NewUnits(overlay ...Unit) *Units {
	u := &Units{
		byCode:     make(map[string]Unit, len(staticUnits)+len(overlay)),
		nameToCode: make(map[string]string, len(staticUnits)+len(overlay)),
	}
	for _, e := range append(append([]Unit(nil), staticUnits...), overlay...) {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if code == "" {
			continue
		}
		e.Code = code
		e.Description = strings.TrimSpace(e.Description)
		if e.Description == "" {
			e.Description = code
		}
		u.byCode[code] = e
		u.nameToCode[NormalizeName(e.Description)] = code
	}
	return u
}

// Valid reports whether code is a known unit code (case-insensitive).
func (u *Units) Valid(code string) bool {
	_, ok := u.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Lookup returns the catalog entry for code.
func (u *Units) Lookup(code string) (Unit, bool) {
	unit, ok := u.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return unit, ok
}

// Decimals returns the expected fractional digits for code, or 0 if unknown.
func (u *Units) Decimals(code string) int {
	return u.byCode[strings.ToUpper(strings.TrimSpace(code))].Decimals
}

// CodeForName looks up a unit code by its description.
func (u *Units) CodeForName(name string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	code, ok := u.nameToCode[NormalizeName(name)]
	return code, ok
}

// Codes returns all known unit codes in sorted order.
func (u *Units) Codes() []string {
	codes := make([]string, 0, len(u.byCode))
	for code := range u.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Normalize maps free-form unit text ("each", "EA-EACH", "ea,") to a catalog
// code. Unrecognized input is returned upper-cased.
func (u *Units) Normalize(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	up := strings.ToUpper(raw)

	if u.Valid(up) {
		return up
	}
	if code, ok := u.CodeForName(raw); ok {
		return code
	}

	tokens := strings.FieldsFunc(up, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '\t'
	})
	for _, tok := range tokens {
		if u.Valid(tok) {
			return tok
		}
		if code, ok := u.CodeForName(tok); ok {
			return code
		}
	}

	compact := strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, up)
	if u.Valid(compact) {
		return compact
	}

	return up
}
