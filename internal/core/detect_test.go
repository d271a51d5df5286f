package core

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect(t *testing.T) {
	d := NewDetector(testRegistry(t), nil)

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     string
		wantOK   bool
	}{
		{
			name:     "all widget mandatory fields",
			fileName: "upload.csv",
			data:     []byte("Part Number,Description,Quantity,Unit of Measure,Country of Origin\nP1,Widget,1,EA,MX\n"),
			want:     "widget",
			wantOK:   true,
		},
		{
			name:     "aliases count toward coverage",
			fileName: "upload.csv",
			data:     []byte("SKU;Desc;Qty;UOM;COO;Grade\nP1;Widget;1;EA;MX;A\n"),
			want:     "widget",
			wantOK:   true,
		},
		{
			name:     "gadget",
			fileName: "upload.csv",
			data:     []byte("Part Number,Voltage,Certified,Approval\nP1,120,Y,UL\n"),
			want:     "gadget",
			wantOK:   true,
		},
		{
			name:     "no schema reaches the floor",
			fileName: "upload.csv",
			data:     []byte("Part Number,Colour,Size\nP1,red,L\n"),
			wantOK:   false,
		},
		{
			name:     "spreadsheet",
			fileName: "upload.xlsx",
			data: xlsxBytes(t, [][]any{
				{"Part Number", "Voltage", "Certified"},
				{"P1", 120, "Y"},
			}),
			want:   "gadget",
			wantOK: true,
		},
		{
			name:     "fixed width has no headers",
			fileName: "WG0001.txt",
			data:     []byte("P1        Widget"),
			wantOK:   false,
		},
		{
			name:     "empty file",
			fileName: "upload.csv",
			data:     nil,
			wantOK:   false,
		},
		{
			name:     "unsupported extension",
			fileName: "upload.pdf",
			data:     []byte("%PDF"),
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.data, tt.fileName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_BaseFloor(t *testing.T) {
	d := NewDetector(testRegistry(t), nil)

	// 3 of 5 widget mandatory fields plus both widget signature fields: the
	// signature alone cannot carry a candidate past the floor.
	det, err := d.Analyze([]byte("Part Number,Description,Quantity,Grade,HTS Code\n"), "upload.csv")
	require.NoError(t, err)
	assert.Empty(t, det.DocType)
	require.NotEmpty(t, det.Candidates)
	assert.Equal(t, "widget", det.Candidates[0].DocType)
	assert.InDelta(t, 60.0, det.Candidates[0].BaseScore, 1e-9)
	assert.InDelta(t, 100.0, det.Candidates[0].Signature, 1e-9)

	// 4 of 5 reaches it.
	det, err = d.Analyze([]byte("Part Number,Description,Quantity,UOM\n"), "upload.csv")
	require.NoError(t, err)
	assert.Equal(t, "widget", det.DocType)
	assert.InDelta(t, 80.0, det.Candidates[0].BaseScore, 1e-9)
}

func TestDetector_FilenameHint(t *testing.T) {
	w := widgetDef()
	w.FilenameHints = []FilenameHint{{Pattern: regexp.MustCompile(`widgets?`)}}
	r, err := NewRegistry(w, gadgetDef())
	require.NoError(t, err)
	d := NewDetector(r, nil)

	// Part Number alone: widget 20, gadget 33.3. The hint lifts widget above
	// gadget in the ranking but not over the floor.
	det, err := d.Analyze([]byte("Part Number\n"), "widgets-march.csv")
	require.NoError(t, err)
	assert.Empty(t, det.DocType)
	require.Len(t, det.Candidates, 2)
	assert.Equal(t, "widget", det.Candidates[0].DocType)
	assert.Equal(t, FilenameHintBonus, det.Candidates[0].HintBonus)
	assert.Zero(t, det.Candidates[1].HintBonus)
}

func TestDetector_FilenameHintPriority(t *testing.T) {
	w := widgetDef()
	w.FilenameHints = []FilenameHint{{Pattern: regexp.MustCompile(`widget`), Priority: 2}}
	g := gadgetDef()
	g.FilenameHints = []FilenameHint{
		{Pattern: regexp.MustCompile(`^gd`), Priority: 1},
		{Pattern: regexp.MustCompile(`gadget`), Priority: 3},
	}
	r, err := NewRegistry(w, g)
	require.NoError(t, err)

	tests := []struct {
		fileName string
		want     string
	}{
		{"gd_widget.csv", "gadget"},
		{"widget_gadget.csv", "widget"},
		{"GADGET.CSV", "gadget"},
		{"notes.csv", ""},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, r.HintedType(tt.fileName))

			det, err := NewDetector(r, nil).Analyze([]byte("Part Number\n"), tt.fileName)
			require.NoError(t, err)
			for _, c := range det.Candidates {
				if c.DocType == tt.want {
					assert.Equal(t, FilenameHintBonus, c.HintBonus, c.DocType)
				} else {
					assert.Zero(t, c.HintBonus, c.DocType)
				}
			}
		})
	}
}

func TestDetector_SignatureThroughMapping(t *testing.T) {
	d := NewDetector(testRegistry(t), nil)

	// Grade and HTS Code are found only by fuzzy matching.
	det, err := d.Analyze([]byte("SKU,Desc,Qty,UOM,COO,Quality Grade,HTS\n"), "upload.csv")
	require.NoError(t, err)
	require.NotEmpty(t, det.Candidates)
	assert.Equal(t, "widget", det.DocType)
	assert.InDelta(t, 100.0, det.Candidates[0].Signature, 1e-9)
}

func TestDetector_Ranking(t *testing.T) {
	// Two schemas with identical mandatory fields: signature coverage
	// decides.
	a := gadgetDef()
	a.DocType, a.Prefixes, a.Signature = "alpha", []string{"AA"}, []string{"Approval"}
	b := gadgetDef()
	b.DocType, b.Prefixes, b.Signature = "beta", []string{"BB"}, []string{"Approval Date"}
	r, err := NewRegistry(a, b)
	require.NoError(t, err)

	det, err := NewDetector(r, nil).Analyze([]byte("Part Number,Voltage,Certified,Approval Date\n"), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, "beta", det.DocType)

	// Fully tied candidates fall back to document type order.
	det, err = NewDetector(r, nil).Analyze([]byte("Part Number,Voltage,Certified\n"), "x.csv")
	require.NoError(t, err)
	assert.Equal(t, "alpha", det.DocType)
}

func TestDetector_AnalyzeErrors(t *testing.T) {
	d := NewDetector(testRegistry(t), nil)

	_, err := d.Analyze([]byte("x"), "file.doc")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = d.Analyze([]byte("not a workbook"), "file.xlsx")
	assert.True(t, errors.Is(err, ErrParse))
}
