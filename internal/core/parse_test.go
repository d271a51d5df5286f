package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// xlsxBytes builds a single-sheet workbook. Nil rows are left empty.
func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		if row == nil {
			continue
		}
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParserFor(t *testing.T) {
	tests := []struct {
		fileName string
		want     Parser
	}{
		{"items.xlsx", SpreadsheetParser{}},
		{"ITEMS.XLSM", SpreadsheetParser{}},
		{"items.csv", DelimitedParser{}},
		{"items.tsv", DelimitedParser{}},
		{"RM0001.txt", FixedWidthParser{}},
	}
	for _, tt := range tests {
		got, err := ParserFor(tt.fileName)
		require.NoError(t, err, tt.fileName)
		assert.IsType(t, tt.want, got, tt.fileName)
	}

	for _, name := range []string{"items.xls", "items.pdf", "items"} {
		_, err := ParserFor(name)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), name)
	}
}

func TestDelimitedParser(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	data := "\xef\xbb\xbfSKU,Desc,Qty,UOM,COO,Notes\r\n" +
		"ab-1,Hex bolt,\"1,200\",EA,MX,ignored\r\n" +
		"\r\n" +
		"ab-2,,,pieces,mexico,\r\n"

	res, err := DelimitedParser{}.Parse([]byte(data), def)
	require.NoError(t, err)

	want := []Record{
		{
			"Part Number":       Text("ab-1"),
			"Description":       Text("Hex bolt"),
			"Quantity":          Num(1200),
			"Unit of Measure":   Text("EA"),
			"Country of Origin": Text("MX"),
		},
		{
			"Part Number":       Text("ab-2"),
			"Description":       Null(),
			"Quantity":          Null(),
			"Unit of Measure":   Text("pieces"),
			"Country of Origin": Text("mexico"),
		},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Part Number", res.Mapping["SKU"])
	assert.NotContains(t, res.Mapping, "Notes")
}

func TestDelimitedParser_SemicolonBeatsFrequentComma(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	data := "Part Number;Description;Quantity;Unit of Measure;Country of Origin\n" +
		"A-1;Bolt, hex, zinc, M8, 20mm, DIN 933;2;EA;MX\n" +
		"A-2;Nut, hex, zinc, M8, class 8, DIN 934;4;EA;US\n"

	assert.Equal(t, ';', chooseDelimiter(data, def))

	res, err := DelimitedParser{}.Parse([]byte(data), def)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Bolt, hex, zinc, M8, 20mm, DIN 933", res.Records[0].Get("Description").Str())
	assert.True(t, res.Records[1].Get("Quantity").Equal(Num(4)))
}

func TestDelimitedParser_TabAndPipe(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	for _, sep := range []string{"\t", "|"} {
		data := "Part Number" + sep + "Description" + sep + "Quantity" + sep + "UOM" + sep + "COO\n" +
			"P1" + sep + "Widget" + sep + "3" + sep + "EA" + sep + "DE\n"
		res, err := DelimitedParser{}.Parse([]byte(data), def)
		require.NoError(t, err)
		require.Len(t, res.Records, 1, "separator %q", sep)
		assert.Equal(t, "Widget", res.Records[0].Get("Description").Str())
	}
}

func TestDelimitedParser_LegacyEncoding(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	data := []byte("Part Number,Description\nP1,Caf\xe9 table\n")
	res, err := DelimitedParser{}.Parse(data, def)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Caf\u00e9 table", res.Records[0].Get("Description").Str())
}

func TestDelimitedParser_NoRecords(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	for _, data := range []string{"", "\n\n", "Part Number,Description\n"} {
		res, err := DelimitedParser{}.Parse([]byte(data), def)
		require.NoError(t, err, "%q", data)
		assert.Empty(t, res.Records, "%q", data)
	}
}

func TestFixedWidthParser(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	line := fitBytes("AB-1", 10) +
		fitBytes("Hex bolt", 20) +
		fitBytes("12.5", 12) +
		fitBytes("EA", 3) +
		fitBytes("MX", 2) +
		fitBytes("7318.15.2000", 12) +
		fitBytes("A", 1) +
		fitBytes(" x ", 4) +
		fitBytes("20240315", 8)
	bad := fitBytes("AB-2", 10) + fitBytes("", 20) + fitBytes("lots", 12) + fitBytes("", 17) + "     " + "20240231"

	res, err := FixedWidthParser{}.Parse([]byte(line+"\n\n"+bad+"\nAB-3"), def)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	first := res.Records[0]
	assert.Equal(t, "AB-1", first.Get("Part Number").Str())
	assert.Equal(t, "Hex bolt", first.Get("Description").Str())
	assert.True(t, first.Get("Quantity").Equal(Num(12.5)))
	assert.Equal(t, " x  ", first.Get("Filler").Str(), "filler is not trimmed")
	assert.Equal(t, "2024-03-15", first.Get("Ship Date").String())

	second := res.Records[1]
	assert.True(t, second.Get("Description").IsNull())
	assert.True(t, second.Get("Quantity").IsNull(), "non-numeric becomes null")
	assert.True(t, second.Get("Ship Date").IsNull(), "impossible date becomes null")

	short := res.Records[2]
	assert.Equal(t, "AB-3", short.Get("Part Number").Str())
	assert.True(t, short.Get("Ship Date").IsNull())
	assert.True(t, short.Get("Filler").IsNull())
}

func TestSpreadsheetParser(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")

	data := xlsxBytes(t, [][]any{
		{"Part Number", "Description", "Quantity", "UOM", "COO", "Ship Date"},
		{"p-1", "Widget", 12.5, "EA", "MX", 45366},
		{"p-2", "Gizmo", "1,000", "KG", "US", "2024-03-16"},
		nil,
		{"p-3", "After the gap", 1, "EA", "MX", ""},
	})

	res, err := SpreadsheetParser{}.Parse(data, def)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", res.Sheet)
	require.Len(t, res.Records, 2, "reading stops at the first empty row")

	assert.True(t, res.Records[0].Get("Quantity").Equal(Num(12.5)))
	assert.Equal(t, "45366", res.Records[0].Get("Ship Date").Str())
	assert.True(t, res.Records[1].Get("Quantity").Equal(Num(1000)))
	assert.Equal(t, "2024-03-16", res.Records[1].Get("Ship Date").Str())
}

func TestSpreadsheetParser_HeaderSearchAndMetadata(t *testing.T) {
	d := widgetDef()
	d.HeaderScanRows = 10
	d.Metadata = []MetadataLabel{{Label: "Origin", Field: "Country of Origin"}}
	r, err := NewRegistry(d)
	require.NoError(t, err)
	def := mustDef(t, r, "widget")

	data := xlsxBytes(t, [][]any{
		{"Origin:", "", "DE"},
		nil,
		{"Part Number", "Description", "Quantity", "UOM"},
		{"p-1", "Widget", 1, "EA"},
		{"p-2", "Gizmo", 2, "EA"},
	})

	res, err := SpreadsheetParser{}.Parse(data, def)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		assert.Equal(t, "DE", rec.Get("Country of Origin").Str())
	}
}

func TestSpreadsheetParser_Corrupt(t *testing.T) {
	def := mustDef(t, testRegistry(t), "widget")
	_, err := SpreadsheetParser{}.Parse([]byte("not a workbook"), def)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestBestHeaderRow(t *testing.T) {
	rows := [][]string{
		{"PACKING LIST"},
		{"Customer:", "ACME", "Type of shipment:", "Southbound"},
		{},
		{"Part Number", "Description", "Quantity", "UOM"},
		{"1", "2", "3", "4", "5", "6"},
	}
	assert.Equal(t, 3, bestHeaderRow(rows, 40))
	assert.Equal(t, 1, bestHeaderRow(rows, 3))
	assert.Equal(t, -1, bestHeaderRow(rows[:1], 40))
}
