package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tradedoc/internal/catalog"
	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/core/tables"
)

// These tests run the full pipeline against the shipped document tables and
// catalogs.

func newConverter(t *testing.T, now time.Time) (*core.Converter, string) {
	t.Helper()
	dir := t.TempDir()
	c := core.NewConverter(tables.MustRegistry(), catalog.NewCountries(), catalog.NewUnits(), core.ConverterConfig{
		OutputDir: dir,
		Now:       func() time.Time { return now },
	})
	return c, dir
}

func packingListWorkbook(t *testing.T) []byte {
	t.Helper()
	rows := [][]any{
		{"PACKING LIST"},
		{"Customer:", "ACME Corp"},
		{"Type of shipment:", "Southbound"},
		{"Type of goods:", "RM"},
		{"Expected date of arrival:", "2024-03-20"},
		nil,
		{
			"Part Number", "Description", "Quantity", "UOM", "Unit Value (USD)", "Added Value (USD)",
			"Total Value (USD)", "Unit Net Weight", "Country of Origin", "ECCN", "US IMP HTS Code", "US EXP HTS Code",
		},
		{"pn-1", "Steel coil", 10, "KG", 2.5, 0, 25, 1.2, "Mexico", "EAR99", "7208.10.1500", "7208.10.1500"},
		{"pn-2", "Copper wire", 4, "kg", 8, 1, 36, 0.5, "US", "EAR99", "7408110000", "7408110000"},
	}

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

func TestPipeline_PackingListWorkbook(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 4, 0, 0, time.UTC)
	c, dir := newConverter(t, now)
	data := packingListWorkbook(t)

	det, err := c.Detector().Analyze(data, "shipment.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "splScrap", det.DocType)
	assert.True(t, det.Structural)

	res, err := c.Convert(context.Background(), core.Request{Data: data, FileName: "shipment.xlsx"})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Equal(t, core.StatusCompleted, res.Status)
	assert.Equal(t, core.FormatCSV, res.Format)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, filepath.Join(dir, "PI151004.csv"), res.OutputPath)

	out, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Customer / Ship to,Type of goods,Type of shipment,"))
	assert.True(t, strings.HasPrefix(lines[1], "ACME Corp,RM,Southbound,20240320,"), "got %q", lines[1])
	assert.Contains(t, lines[1], ",PN-1,Steel coil,10,KG,2.5,0,25,1.2,MX,EAR99,,,7208.10.1500,7208.10.1500,")
	assert.Contains(t, lines[2], ",PN-2,Copper wire,4,KG,8,1,36,0.5,US,EAR99,,,7408.11.0000,7408.11.0000,")
}

func TestPipeline_RawMaterialCSV(t *testing.T) {
	c, _ := newConverter(t, time.Now())

	data := "Part Number,Description,Unit Weight Lb.,Unit Cost (USD),UOM,COO,Importation HTS Code,Exportation HTS Code,ECCN\n" +
		"p-1,Widget,1.5,2.25,EA,US,8471600000,8471.60.0000,EAR99\n"

	res, err := c.Convert(context.Background(), core.Request{Data: []byte(data), FileName: "items.csv"})
	require.NoError(t, err)
	assert.Equal(t, "rawMaterial", res.DocumentType)
	require.Empty(t, res.Errors)
	assert.Equal(t, core.StatusCompleted, res.Status)

	out, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	require.Len(t, out, 251)
	line := string(out)
	assert.Equal(t, "P-1", strings.TrimSpace(line[0:30]))
	assert.Equal(t, "1.5", strings.TrimSpace(line[90:107]))
	assert.Equal(t, "2.25", strings.TrimSpace(line[107:124]))
	assert.Equal(t, "8471.60.0000", line[129:141])
	assert.Equal(t, "8471.60.0000", line[141:153])
}

const fgHeader = "Part Number,Description,Unit Weight Lb.,Dutiable Value (USD),Unit of measure,Country of Origin," +
	"USA Importation HTS Code,USA Exportation Code,ECCN,FDA Marker,NAFTA,Preference Criterion,Producer,Net Cost," +
	"Period (From),Period (To)\n"

func TestPipeline_FinishedGoodsRules(t *testing.T) {
	c, _ := newConverter(t, time.Now())

	data := fgHeader +
		"fg-1,Pump,12,150,EA,MX,8413.70.2004,8413.70.2004,EAR99,FD1,yes,B,no,n/o,,2024-12-31\n"

	res, err := c.Convert(context.Background(), core.Request{Data: []byte(data), FileName: "fg.csv", DocumentType: "FG"})
	require.NoError(t, err)
	assert.Equal(t, "finishedProduct", res.DocumentType)
	assert.Equal(t, core.StatusCompletedWithErrors, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, core.KindBusinessRule, res.Errors[0].Kind)
	assert.Equal(t, `Row 2: "Period (From)" is mandatory when "NAFTA" is "Y".`, res.Errors[0].Message)
	assert.NotEmpty(t, res.ErrorReportPath)
	assert.Empty(t, res.OutputPath)
}

func TestPipeline_FinishedGoodsMasking(t *testing.T) {
	c, _ := newConverter(t, time.Now())

	data := fgHeader +
		"fg-2,Valve,3,40,EA,US,8481.80.1090,8481.80.1090,EAR99,FD1,N,B,Yes,CN,2024-01-01,2024-12-31\n"

	res, err := c.Convert(context.Background(), core.Request{Data: []byte(data), FileName: "fg.csv", DocumentType: "finishedProduct"})
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	out, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	require.Len(t, out, 212)
	line := string(out)
	assert.Equal(t, "N", line[186:187])
	assert.Equal(t, strings.Repeat(" ", 25), line[187:212], "NAFTA block is blanked")
}

func TestPipeline_FormatNotAllowed(t *testing.T) {
	c, _ := newConverter(t, time.Now())

	_, err := c.Convert(context.Background(), core.Request{
		Data:         []byte(fgHeader),
		FileName:     "fg.csv",
		DocumentType: "finishedProduct",
		Format:       core.FormatCSV,
	})
	require.ErrorIs(t, err, core.ErrFormatNotAllowed)
}
