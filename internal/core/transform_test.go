package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTransformer_Transform(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")
	tr := NewTransformer(testCountries, testUnits, nil)

	records := []Record{{
		"Part Number":       Text(" ab-1 "),
		"Description":       Text("Hex bolt"),
		"Quantity":          Num(3),
		"Unit of Measure":   Text("pieces"),
		"Country of Origin": Text("mexico"),
		"HTS Code":          Text("7318152000"),
		"Grade":             Text("premium"),
		"Filler":            Text("  x "),
		"Ship Date":         Text("03/15/2024"),
	}}

	got := tr.Transform(records, def)

	want := []Record{{
		"Part Number":       Text("AB-1"),
		"Description":       Text("Hex bolt"),
		"Quantity":          Num(3),
		"Unit of Measure":   Text("PCS"),
		"Country of Origin": Text("MX"),
		"HTS Code":          Text("7318.15.2000"),
		"Grade":             Text("A"),
		"Filler":            Text("  x "),
		"Ship Date":         DateOf(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformer_Idempotent(t *testing.T) {
	r := testRegistry(t)
	tr := NewTransformer(testCountries, testUnits, nil)

	inputs := map[string][]Record{
		"widget": {
			{
				"Part Number": Text("x-9"), "Unit of Measure": Text("kg"),
				"Country of Origin": Text("Germany"), "HTS Code": Text("7318-15-2000"),
				"Grade": Text("b"), "Ship Date": Num(45366),
			},
			{
				"Part Number": Null(), "Country of Origin": Text("Atlantis"),
				"HTS Code": Text("12345"), "Grade": Text("Z"), "Ship Date": Text("31/31/2024"),
			},
		},
		"gadget": {
			{"Certified": Text("yes"), "Approval": Text("UL"), "Approval Date": Text("20240101")},
			{"Certified": Text("N/A"), "Approval": Text("UL"), "Approval Date": Text("20240101")},
		},
	}

	for docType, records := range inputs {
		def := mustDef(t, r, docType)
		once := tr.Transform(CloneRecords(records), def)
		twice := tr.Transform(CloneRecords(once), def)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("%s: second Transform changed records (-once +twice):\n%s", docType, diff)
		}
	}
}

func TestTransformer_IndicatorMasking(t *testing.T) {
	def := mustDef(t, testRegistry(t), "gadget")
	tr := NewTransformer(testCountries, testUnits, nil)

	tests := []struct {
		name          string
		certified     Value
		wantCertified string
		wantMasked    bool
	}{
		{"yes", Text("yes"), "Y", false},
		{"Y", Text("Y"), "Y", false},
		{"no", Text("NO"), "N", true},
		{"not applicable", Text("N/A"), "", true},
		{"dash", Text("-"), "", true},
		{"blank", Null(), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{
				"Certified":     tt.certified,
				"Approval":      Text("UL"),
				"Approval Date": Text("2024-01-01"),
			}
			tr.Transform([]Record{rec}, def)

			assert.Equal(t, tt.wantCertified, rec.Get("Certified").Str())
			if tt.wantMasked {
				assert.True(t, rec.Get("Approval").Equal(Text("")))
				assert.True(t, rec.Get("Approval Date").Equal(Text("")))
			} else {
				assert.Equal(t, "UL", rec.Get("Approval").Str())
				assert.Equal(t, KindDate, rec.Get("Approval Date").Kind())
			}
		})
	}
}

func TestTransformer_MaskingDoesNotAddFields(t *testing.T) {
	def := mustDef(t, testRegistry(t), "gadget")
	rec := Record{"Certified": Text("N")}
	NewTransformer(nil, nil, nil).Transform([]Record{rec}, def)

	_, present := rec["Approval"]
	assert.False(t, present)
}

func TestTransformer_NilCatalogs(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")
	rec := Record{"Country of Origin": Text("mexico"), "Unit of Measure": Text("pieces")}
	NewTransformer(nil, nil, nil).Transform([]Record{rec}, def)

	assert.Equal(t, "mexico", rec.Get("Country of Origin").Str())
	assert.Equal(t, "pieces", rec.Get("Unit of Measure").Str())
}

func TestNormalizeHTS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"8471600000", "8471.60.0000"},
		{"8471.60.0000", "8471.60.0000"},
		{" 8471-60-0000 ", "8471.60.0000"},
		{"8471.6000.00", "8471.60.0000"},
		{"847160", "847160"},
		{"84716000001", "84716000001"},
		{"ABC", "ABC"},
	}
	for _, tt := range tests {
		if got := NormalizeHTS(tt.input); got != tt.want {
			t.Errorf("NormalizeHTS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNetCost(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cn", "CN"},
		{"C.N.", "CN"},
		{" no ", "NO"},
		{"n/o", "NO"},
		{"yes", "YES"},
		{"nc", "NC"},
	}
	for _, tt := range tests {
		if got := NormalizeNetCost(tt.input); got != tt.want {
			t.Errorf("NormalizeNetCost(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIndicator(t *testing.T) {
	tests := map[string]string{
		"Y": "Y", "yes": "Y", " YES ": "Y",
		"N": "N", "no": "N",
		"": "", "NA": "", "N/A": "", "-": "", "maybe": "",
	}
	for input, want := range tests {
		if got := NormalizeIndicator(input); got != want {
			t.Errorf("NormalizeIndicator(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMatchEnum(t *testing.T) {
	f := FieldSpec{
		Name:           "Producer",
		PossibleValues: []string{"Yes", "No (1)", "No (2)"},
		Synonyms:       map[string]string{"NO": "No (1)"},
	}
	grade := FieldSpec{Name: "Grade", PossibleValues: []string{"A = Premium", "B = Standard"}}

	tests := []struct {
		field FieldSpec
		input string
		want  string
	}{
		{f, "yes", "Yes"},
		{f, "no", "No (1)"},
		{f, "NO (2)", "No (2)"},
		{f, "unknown", "unknown"},
		{grade, "standard", "B"},
		{grade, "a", "A"},
		{grade, "C", "C"},
	}
	for _, tt := range tests {
		if got := MatchEnum(tt.field, tt.input); got != tt.want {
			t.Errorf("MatchEnum(%s, %q) = %q, want %q", tt.field.Name, tt.input, got, tt.want)
		}
	}
}

func TestCoerceDate(t *testing.T) {
	mar15 := DateOf(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		input Value
		want  Value
	}{
		{"date unchanged", mar15, mar15},
		{"serial", Num(45366), mar15},
		{"compact", Text("20240315"), mar15},
		{"iso", Text("2024-03-15"), mar15},
		{"bad serial", Num(-3), Null()},
		{"bad text", Text("soon"), Null()},
		{"impossible", Text("20240230"), Null()},
		{"null", Null(), Null()},
	}
	for _, tt := range tests {
		if got := CoerceDate(tt.input); !got.Equal(tt.want) {
			t.Errorf("CoerceDate(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
