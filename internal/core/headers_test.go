package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMapHeaders(t *testing.T) {
	fields := widgetDef().Fields

	tests := []struct {
		name    string
		headers []string
		want    HeaderMapping
	}{
		{
			name:    "canonical names ignore case and padding",
			headers: []string{" part number ", "DESCRIPTION", "Quantity"},
			want: HeaderMapping{
				"part number": "Part Number",
				"DESCRIPTION": "Description",
				"Quantity":    "Quantity",
			},
		},
		{
			name:    "aliases",
			headers: []string{"SKU", "Desc", "Qty", "UOM", "COO"},
			want: HeaderMapping{
				"SKU":  "Part Number",
				"Desc": "Description",
				"Qty":  "Quantity",
				"UOM":  "Unit of Measure",
				"COO":  "Country of Origin",
			},
		},
		{
			name:    "typos recovered by fuzzy pass",
			headers: []string{"Part Numbr", "Descripton", "Country Origin"},
			want: HeaderMapping{
				"Part Numbr":     "Part Number",
				"Descripton":     "Description",
				"Country Origin": "Country of Origin",
			},
		},
		{
			name:    "exact match wins over earlier fuzzy candidate",
			headers: []string{"Qty.", "Quantity"},
			want:    HeaderMapping{"Quantity": "Quantity"},
		},
		{
			name:    "unrelated headers dropped",
			headers: []string{"Weight", "Notes", ""},
			want:    HeaderMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapHeaders(tt.headers, fields)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MapHeaders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapHeaders_FieldClaimedOnce(t *testing.T) {
	fields := widgetDef().Fields
	headers := []string{"Part No", "SKU", "Part Number", "Part Numbers", "Description", "Desc"}

	got := MapHeaders(headers, fields)

	seen := make(map[string]string)
	for header, name := range got {
		if prev, dup := seen[name]; dup {
			t.Fatalf("field %q mapped from both %q and %q", name, prev, header)
		}
		seen[name] = header
	}
	assert.Equal(t, "Part Number", got["Part No"])
	assert.Equal(t, "Description", got["Description"])
}

func TestMapHeaders_Deterministic(t *testing.T) {
	fields := widgetDef().Fields
	headers := []string{"Prt Number", "Part Numbr", "Descr", "Quantty", "Countries", "Grade", "HTS"}

	first := MapHeaders(headers, fields)
	for i := 0; i < 50; i++ {
		if diff := cmp.Diff(first, MapHeaders(headers, fields)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestColumnFields_DuplicateHeaders(t *testing.T) {
	cols, _ := columnFields([]string{"Part Number", "Qty", "Part Number"}, widgetDef().Fields)
	assert.Equal(t, []string{"Part Number", "Quantity", ""}, cols)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Unit Weight Lb.", "unit weight lb"},
		{"  Country   of origin ", "country of origin"},
		{"Customer(southbound) / Ship to (northbound)", "customer southbound ship to northbound"},
		{"Expected date of arrival:", "expected date of arrival"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.input); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("description", "description"))
	assert.Equal(t, 0.0, similarity("", "description"))
	assert.InDelta(t, 0.8, similarity("country of origin", "origin country"), 1e-9)
	assert.GreaterOrEqual(t, similarity("descripton", "description"), FuzzyThreshold)
	assert.Less(t, similarity("weight", "quantity"), FuzzyThreshold)
}
