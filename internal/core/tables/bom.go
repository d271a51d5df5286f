package tables

import (
	"regexp"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

// BillOfMaterials links finished goods or sub-assemblies to their components
// (BM).
func BillOfMaterials() core.Definition {
	return core.Definition{
		DocType:  "billOfMaterials",
		Label:    "Bill of Materials (BM)",
		Prefixes: []string{"BM"},
		Formats:  []core.OutputFormat{core.FormatTXT},
		Fields: []core.FieldSpec{
			{Name: "Finished Good Part Number",
				Aliases: []string{"FG Part Number", "Parent Part Number", "Parent SKU", "Assembly SKU", "Finished Good SKU"},
				Type:    core.Alphanumeric, Length: 30, Requirement: core.Mandatory, Role: core.RoleIdentifier},
			{Name: "Component Part Number",
				Aliases: []string{"Component SKU", "Child Part Number", "Raw Material Part Number", "RM Part Number"},
				Type:    core.Alphanumeric, Length: 30, Requirement: core.Mandatory, Role: core.RoleIdentifier},
			{Name: "Type", Aliases: []string{"Component Type", "Item Type"},
				Type: core.Alphanumeric, Length: 1, Requirement: core.Mandatory,
				PossibleValues: []string{"P = Part", "S = Sub-Assembly"}},
			{Name: "Quantity", Aliases: []string{"Qty", "BOM Quantity", "Quantity Per"},
				Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
			{Name: "Unit of Measure", Aliases: []string{"UOM", "Unit"},
				Type: core.Alphanumeric, Length: 3, Requirement: core.Mandatory, Role: core.RoleUOM},
			{Name: "Component classification", Aliases: []string{"Classification", "Component Class"},
				Type: core.Alphanumeric, Length: 20, Requirement: core.Optional},
		},
		Signature: []string{
			"Finished Good Part Number",
			"Component Part Number",
			"Component classification",
			"Type",
		},
		FilenameHints: []core.FilenameHint{
			{Pattern: regexp.MustCompile(`\bbm\b|_bm|bom|bomexample`), Priority: hintBillOfMaterials},
		},
	}
}
