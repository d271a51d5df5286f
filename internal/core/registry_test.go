package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Positions(t *testing.T) {
	r := testRegistry(t)
	def := mustDef(t, r, "widget")

	pos := 0
	for i, f := range def.Fields {
		assert.Equal(t, i+1, f.Item, "item of %s", f.Name)
		assert.Equal(t, pos, f.Start, "start of %s", f.Name)
		assert.Equal(t, pos+f.Length-1, f.End, "end of %s", f.Name)
		pos = f.End + 1
	}
	assert.Equal(t, 72, def.LineLength())
	assert.Equal(t, FormatTXT, def.DefaultFormat)
}

func TestNewRegistry_ExplicitPositions(t *testing.T) {
	def := gadgetDef()
	def.Fields[0].Start, def.Fields[0].End = 0, 9
	def.Fields[1].Start, def.Fields[1].End = 10, 15

	_, err := NewRegistry(def)
	require.NoError(t, err)

	def = gadgetDef()
	def.Fields[1].Start, def.Fields[1].End = 11, 16 // one-byte gap
	_, err = NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Voltage")
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		defs    func() []Definition
		wantErr string
	}{
		{
			name: "duplicate doc type",
			defs: func() []Definition {
				return []Definition{widgetDef(), widgetDef()}
			},
			wantErr: "already registered",
		},
		{
			name: "prefix collision",
			defs: func() []Definition {
				g := gadgetDef()
				g.Prefixes = []string{"wg"}
				return []Definition{widgetDef(), g}
			},
			wantErr: "prefix",
		},
		{
			name: "duplicate field",
			defs: func() []Definition {
				g := gadgetDef()
				g.Fields = append(g.Fields, g.Fields[0])
				return []Definition{g}
			},
			wantErr: "duplicate field",
		},
		{
			name: "zero length",
			defs: func() []Definition {
				g := gadgetDef()
				g.Fields[1].Length = 0
				return []Definition{g}
			},
			wantErr: "length",
		},
		{
			name: "unknown signature field",
			defs: func() []Definition {
				g := gadgetDef()
				g.Signature = []string{"Wattage"}
				return []Definition{g}
			},
			wantErr: "signature",
		},
		{
			name: "unknown indicator field",
			defs: func() []Definition {
				g := gadgetDef()
				g.Indicator = &Indicator{Field: "NAFTA"}
				return []Definition{g}
			},
			wantErr: "indicator",
		},
		{
			name: "default format not allowed",
			defs: func() []Definition {
				g := gadgetDef()
				g.DefaultFormat = FormatCSV
				return []Definition{g}
			},
			wantErr: "default format",
		},
		{
			name: "no formats",
			defs: func() []Definition {
				g := gadgetDef()
				g.Formats = nil
				return []Definition{g}
			},
			wantErr: "formats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs()...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRegistry_DoesNotMutateInput(t *testing.T) {
	def := widgetDef()
	_, err := NewRegistry(def)
	require.NoError(t, err)
	assert.Zero(t, def.Fields[1].Start)
	assert.Zero(t, def.Fields[1].End)
}

func TestRegistry_Get(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		identifier string
		want       string
	}{
		{"widget", "widget"},
		{"WIDGET", "widget"},
		{" gadget ", "gadget"},
		{"WG", "widget"},
		{"wg", "widget"},
		{"GX", "gadget"},
	}
	for _, tt := range tests {
		d, err := r.Get(tt.identifier)
		require.NoError(t, err, tt.identifier)
		assert.Equal(t, tt.want, d.DocType, tt.identifier)
	}

	_, err := r.Get("invoice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDocumentType))
	assert.Contains(t, err.Error(), "invoice")
}

func TestRegistry_ByFileName(t *testing.T) {
	r := testRegistry(t)

	d, ok := r.ByFileName("wg_2024_03.txt")
	require.True(t, ok)
	assert.Equal(t, "widget", d.DocType)

	d, ok = r.ByFileName("GX123.txt")
	require.True(t, ok)
	assert.Equal(t, "gadget", d.DocType)

	_, ok = r.ByFileName("report.txt")
	assert.False(t, ok)

	_, ok = r.ByFileName("w")
	assert.False(t, ok)
}

func TestRegistry_Uniqueness(t *testing.T) {
	r := testRegistry(t)
	u := r.Uniqueness()

	assert.NotContains(t, u["widget"], "Part Number")
	assert.NotContains(t, u["gadget"], "Part Number")
	assert.Contains(t, u["widget"], "Grade")
	assert.ElementsMatch(t, []string{"Voltage", "Certified", "Approval", "Approval Date"}, u["gadget"])

	// Returned map is a copy.
	u["widget"] = nil
	assert.NotEmpty(t, r.Uniqueness()["widget"])
}

func TestRegistry_All(t *testing.T) {
	r := testRegistry(t)
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "gadget", all[0].DocType)
	assert.Equal(t, "widget", all[1].DocType)
	assert.Equal(t, 2, r.Len())
}

func TestDefinition_Helpers(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	f, ok := def.Field("Grade")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, f.Codes())
	assert.True(t, f.IsEnum())

	_, ok = def.Field("grade")
	assert.False(t, ok, "field lookup is exact")

	assert.Equal(t,
		"Part Number,Description,Quantity,Unit of Measure,Country of Origin",
		strings.Join(def.MandatoryFields(), ","))
	assert.True(t, def.AllowsFormat(FormatCSV))
	assert.False(t, def.AllowsFormat("xml"))
}
