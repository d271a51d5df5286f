// Package catalog provides the country and unit-of-measure lookup tables used
// when normalizing and validating trade documents.
//
// Both catalogs start from a built-in static table and may be extended or
// overridden by an overlay loaded from a YAML file or a spreadsheet. Once
// constructed a catalog is never mutated, so a single instance can be shared
// by any number of concurrent conversions.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Country is a single overlay entry for the country catalog.
type Country struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Countries resolves ISO alpha-2 country codes and free-text country names.
type Countries struct {
	codeToName map[string]string
	nameToCode map[string]string
}

// NewCountries builds the country catalog from the static table plus the
// given overlay. Overlay entries replace static entries with the same code.
func NewCountries(overlay ...Country) *Countries {
	c := &Countries{
		codeToName: make(map[string]string, len(staticCountries)+len(overlay)),
		nameToCode: make(map[string]string, len(staticCountries)+len(englishCountryNames)+len(overlay)),
	}

	for name, code := range englishCountryNames {
		c.nameToCode[NormalizeName(name)] = code
	}
	for code, name := range staticCountries {
		c.codeToName[code] = name
		c.nameToCode[NormalizeName(name)] = code
	}
	for _, e := range overlay {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if code == "" {
			continue
		}
		name := strings.TrimSpace(e.Name)
		c.codeToName[code] = name
		if name != "" {
			c.nameToCode[NormalizeName(name)] = code
		}
	}

	return c
}

// Valid reports whether code is a known country code (case-insensitive).
func (c *Countries) Valid(code string) bool {
	_, ok := c.codeToName[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Name returns the catalog name for a country code.
func (c *Countries) Name(code string) (string, bool) {
	name, ok := c.codeToName[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// CodeForName looks up a country code by name, ignoring case, accents and
// surrounding whitespace.
func (c *Countries) CodeForName(name string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	code, ok := c.nameToCode[NormalizeName(name)]
	return code, ok
}

// Len returns the number of known country codes.
func (c *Countries) Len() int {
	return len(c.codeToName)
}

// NormalizeName folds a display name for comparison: decomposes, strips
// combining marks, collapses whitespace and upper-cases.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}
