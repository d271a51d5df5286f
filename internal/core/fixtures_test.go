package core

import (
	"strings"
	"testing"
)

// fakeCountries is a code -> name country table.
type fakeCountries map[string]string

func (f fakeCountries) Valid(code string) bool {
	_, ok := f[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func (f fakeCountries) CodeForName(name string) (string, bool) {
	for code, n := range f {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return code, true
		}
	}
	return "", false
}

// fakeUnits knows a handful of unit codes and one long-form name.
type fakeUnits []string

func (f fakeUnits) Valid(code string) bool {
	for _, u := range f {
		if strings.EqualFold(u, strings.TrimSpace(code)) {
			return true
		}
	}
	return false
}

func (f fakeUnits) Normalize(v string) string {
	up := strings.ToUpper(strings.TrimSpace(v))
	if up == "PIECES" {
		return "PCS"
	}
	return up
}

var (
	testCountries = fakeCountries{"MX": "MEXICO", "US": "UNITED STATES", "DE": "GERMANY"}
	testUnits     = fakeUnits{"EA", "PCS", "KG"}
)

// widgetDef is a small fixed-width schema touching every field behavior.
func widgetDef() Definition {
	return Definition{
		DocType:  "widget",
		Label:    "Widgets (WG)",
		Prefixes: []string{"WG"},
		Formats:  []OutputFormat{FormatTXT, FormatCSV},
		Fields: []FieldSpec{
			{Name: "Part Number", Aliases: []string{"Part No", "SKU"}, Type: Alphanumeric, Length: 10, Requirement: Mandatory, Role: RoleIdentifier},
			{Name: "Description", Aliases: []string{"Desc"}, Type: Alphanumeric, Length: 20, Requirement: Mandatory},
			{Name: "Quantity", Aliases: []string{"Qty"}, Type: Numeric, Length: 12, Decimals: 3, Requirement: Mandatory},
			{Name: "Unit of Measure", Aliases: []string{"UOM"}, Type: Alphanumeric, Length: 3, Requirement: Mandatory, Role: RoleUOM},
			{Name: "Country of Origin", Aliases: []string{"COO"}, Type: Alphanumeric, Length: 2, Requirement: Mandatory, Role: RoleCountry},
			{Name: "HTS Code", Type: Alphanumeric, Length: 12, Requirement: Optional, Role: RoleHTS},
			{Name: "Grade", Type: Alphanumeric, Length: 1, Requirement: Optional, PossibleValues: []string{"A = Premium", "B = Standard"}},
			{Name: "Filler", Type: Alphanumeric, Length: 4, Requirement: Optional, Filler: true},
			{Name: "Ship Date", Type: Date, Length: 8, Requirement: Optional},
		},
		Signature: []string{"Grade", "HTS Code"},
	}
}

// gadgetDef shares some field names with widgetDef.
func gadgetDef() Definition {
	return Definition{
		DocType:  "gadget",
		Label:    "Gadgets (GD)",
		Prefixes: []string{"GD", "GX"},
		Formats:  []OutputFormat{FormatTXT},
		Fields: []FieldSpec{
			{Name: "Part Number", Type: Alphanumeric, Length: 10, Requirement: Mandatory},
			{Name: "Voltage", Type: Numeric, Length: 6, Decimals: 1, Requirement: Mandatory},
			{Name: "Certified", Type: Alphanumeric, Length: 1, Requirement: Mandatory, PossibleValues: []string{"Y = Yes", "N = No"}},
			{Name: "Approval", Type: Alphanumeric, Length: 10, Requirement: Conditional},
			{Name: "Approval Date", Type: Date, Length: 8, Requirement: Conditional},
		},
		Signature:  []string{"Voltage", "Certified"},
		Indicator:  &Indicator{Field: "Certified", Dependents: []string{"Approval", "Approval Date"}},
		Rules:      []BusinessRule{RequireWhen{When: "Certified", Equals: "Y", Field: "Approval"}},
		CSVColumns: nil,
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(widgetDef(), gadgetDef())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func mustDef(t *testing.T, r *Registry, docType string) *Definition {
	t.Helper()
	d, err := r.Get(docType)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", docType, err)
	}
	return d
}
