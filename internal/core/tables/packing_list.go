package tables

import (
	"fmt"
	"regexp"
	"time"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

const (
	customerField = "Customer(southbound) / Ship to (northbound)"
	shipmentField = "Type of shipment"
)

// PackingList is the shipment packing list used for imports, exports and
// scrap (PI/PE). The workbook template carries shipment metadata above the
// line-item header, so the header row is searched for and the metadata is
// merged into every line.
func PackingList() core.Definition {
	fields := []core.FieldSpec{
		{Name: customerField, Aliases: []string{"Customer", "Ship to"},
			Type: core.Alphanumeric, Length: 60, Requirement: core.Mandatory},
		{Name: "Type of goods", Aliases: []string{"Type of good"},
			Type: core.Alphanumeric, Length: 2, Requirement: core.Mandatory,
			PossibleValues: []string{
				"FG = Finish Goods",
				"RM = Raw Materials",
				"EQ = Machinery & Equipment",
			}},
		{Name: shipmentField, Aliases: []string{"Type of shipments"},
			Type: core.Alphanumeric, Length: 10, Requirement: core.Mandatory,
			PossibleValues: []string{"Northbound", "Southbound", "Scrap"}},
		{Name: "Expected date of arrival", Aliases: []string{"Expected date", "ETA"},
			Type: core.Date, Length: 10, Requirement: core.Mandatory},
		{Name: "Waybill number", Aliases: []string{"Waybill", "Guia"},
			Type: core.Alphanumeric, Length: 30, Requirement: core.Optional},
		{Name: "Total gross weight", Aliases: []string{"Gross weight"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Optional},
		{Name: "Total bundles", Aliases: []string{"Bundles"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Optional},

		{Name: "Part Number", Aliases: []string{"Part No", "Part #", "SKU"},
			Type: core.Alphanumeric, Length: 30, Requirement: core.Mandatory, Role: core.RoleIdentifier},
		{Name: "Description", Aliases: []string{"Desc", "Item Description"},
			Type: core.Alphanumeric, Length: 60, Requirement: core.Mandatory},
		{Name: "Quantity", Aliases: []string{"Qty"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
		{Name: "Unit Of Measure", Aliases: []string{"UOM"},
			Type: core.Alphanumeric, Length: 3, Requirement: core.Mandatory, Role: core.RoleUOM},
		{Name: "Unit Value (USD)", Aliases: []string{"Unit Value", "Unit Cost (USD)"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
		{Name: "Added Value (USD)", Aliases: []string{"Added Value"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
		{Name: "Total Value (USD)", Aliases: []string{"Total Value"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
		{Name: "Unit Net Weight", Aliases: []string{"Net Weight"},
			Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
		{Name: "Country of Origin", Aliases: []string{"COO", "Origin"},
			Type: core.Alphanumeric, Length: 2, Requirement: core.Mandatory, Role: core.RoleCountry},
		{Name: "ECCN", Type: core.Alphanumeric, Length: 10, Requirement: core.Mandatory},
		{Name: "License No.", Aliases: []string{"License Number", "LCN"},
			Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
		{Name: "License Exception", Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
		{Name: "US IMP HTS Code", Aliases: []string{"Importation HTS Code"},
			Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
		{Name: "US EXP HTS Code", Aliases: []string{"Exportation HTS Code"},
			Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
		{Name: "Regime", Type: core.Alphanumeric, Length: 10, Requirement: core.Conditional,
			PossibleValues: []string{"Permanent", "Temporary"}},
		{Name: "Brand", Type: core.Alphanumeric, Length: 40, Requirement: core.Conditional},
		{Name: "Model", Type: core.Alphanumeric, Length: 40, Requirement: core.Conditional},
		{Name: "Serial", Aliases: []string{"Serial Number"},
			Type: core.Alphanumeric, Length: 40, Requirement: core.Conditional},
		{Name: "Power Source Type", Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional,
			PossibleValues: []string{
				"Hydraulic", "Electric", "Pneumatic", "Water",
				"Gas", "Steam", "Manual", "Not applicable",
			}},
		{Name: "Capacity", Type: core.Alphanumeric, Length: 40, Requirement: core.Conditional},
		{Name: "Main Function", Type: core.Alphanumeric, Length: 40, Requirement: core.Conditional},
		{Name: "PO Number", Aliases: []string{"PO", "Purchase Order"},
			Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
	}
	for i := 1; i <= 10; i++ {
		fields = append(fields, core.FieldSpec{
			Name:        fmt.Sprintf("Customizer %d", i),
			Type:        core.Alphanumeric,
			Length:      40,
			Requirement: core.Conditional,
		})
	}

	columns := make([]core.CSVColumn, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, core.CSVColumn{Header: f.Name, Fields: []string{f.Name}})
	}
	// The template's customer column is labeled by direction.
	columns[0] = core.CSVColumn{Header: "Customer / Ship to", Fields: []string{customerField}}

	return core.Definition{
		DocType:  "splScrap",
		Label:    "Packing List (PI/PE)",
		Prefixes: []string{"PI", "PE"},
		Formats:  []core.OutputFormat{core.FormatCSV},
		Fields:   fields,
		Signature: []string{
			customerField,
			"Type of goods",
			shipmentField,
			"Expected date of arrival",
			"Waybill number",
			"Total gross weight",
			"Total bundles",
			"Unit Of Measure",
			"Unit Value (USD)",
			"Total Value (USD)",
			"Unit Net Weight",
			"Brand",
			"Model",
			"Serial",
			"Power Source Type",
			"Capacity",
			"Main Function",
			"PO Number",
		},
		FilenameHints: []core.FilenameHint{
			{Pattern: regexp.MustCompile(`^(pe|pi)\d*`), Priority: hintShipmentPrefix},
			{Pattern: regexp.MustCompile(`\beq\b|_eq|eqexample|packing.?list|spl|scrap`), Priority: hintPackingList},
		},
		Structural: &core.StructuralHint{
			Labels:       []string{"type of shipment", "type of goods", "packing list"},
			LabelRows:    25,
			Anchors:      []string{"part number", "description"},
			AnchorRows:   80,
			MinPopulated: 6,
		},
		HeaderScanRows: 40,
		Metadata: []core.MetadataLabel{
			{Label: "Customer", Field: customerField},
			{Label: "Ship to", Field: customerField},
			{Label: "Type of goods", Field: "Type of goods"},
			{Label: "Type of shipment", Field: shipmentField},
			{Label: "Expected date", Field: "Expected date of arrival"},
			{Label: "Waybill", Field: "Waybill number"},
			{Label: "Total gross weight", Field: "Total gross weight"},
			{Label: "Total bundles", Field: "Total bundles"},
		},
		CSVColumns: columns,
		OutputName: packingListName,
	}
}

// packingListName names the output <PI|PE><DDHHMM>.csv from the first
// record's shipment direction.
func packingListName(records []core.Record, _ string, now time.Time) string {
	direction := ""
	if len(records) > 0 {
		direction = records[0].Get(shipmentField).String()
	}
	return ShipmentPrefix(direction) + now.Format("021504") + ".csv"
}
