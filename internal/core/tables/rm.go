package tables

import (
	"regexp"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

// RawMaterial is the raw materials and components catalog (RM). Output is a
// 251-byte fixed-width line.
func RawMaterial() core.Definition {
	return core.Definition{
		DocType:  "rawMaterial",
		Label:    "Raw Materials (RM)",
		Prefixes: []string{"RM"},
		Formats:  []core.OutputFormat{core.FormatTXT},
		Fields: []core.FieldSpec{
			{Name: "Part Number", Aliases: []string{"Part No", "Part #", "SKU", "Item Number", "Material Code"},
				Type: core.Alphanumeric, Length: 30, Requirement: core.Mandatory, Role: core.RoleIdentifier},
			{Name: "Description", Aliases: []string{"Desc", "Item Description", "Material Description"},
				Type: core.Alphanumeric, Length: 60, Requirement: core.Mandatory},
			{Name: "Unit Weight Lb.", Aliases: []string{"Weight", "Unit Weight", "Weight (LBS)", "LBS"},
				Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
			{Name: "Unit Cost (USD)", Aliases: []string{"Unit Value (USD)", "Unit value", "Cost", "Unit Cost", "Price", "Unit Price", "Cost (USD)"},
				Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
			{Name: "Unit of measure", Aliases: []string{"UOM", "Unit"},
				Type: core.Alphanumeric, Length: 3, Requirement: core.Mandatory, Role: core.RoleUOM},
			{Name: "Country of origin", Aliases: []string{"COO", "Origin", "Country"},
				Type: core.Alphanumeric, Length: 2, Requirement: core.Mandatory, Role: core.RoleCountry},
			{Name: "Importation HTS Code", Aliases: []string{"US IMP HTS Code", "HTS Import", "Import HTS", "HTS Code (Import)"},
				Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
			{Name: "Exportation HTS Code", Aliases: []string{"US EXP HTS Code", "HTS Export", "Export HTS", "HTS Code (Export)", "Schedule B"},
				Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
			{Name: "ECCN", Aliases: []string{"ECCN Number"},
				Type: core.Alphanumeric, Length: 10, Requirement: core.Mandatory},
			{Name: "Filler", Type: core.Alphanumeric, Length: 20, Requirement: core.Optional, Filler: true},
			{Name: "License Number (LCN)", Aliases: []string{"License No", "LCN", "License #"},
				Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
			{Name: "License Exception", Aliases: []string{"Lic Exception", "Exception"},
				Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
			{Name: "License Expiration date", Aliases: []string{"Lic Exp Date", "Expiration Date", "Expires On"},
				Type: core.Date, Length: 8, Requirement: core.Conditional},
			{Name: "USML (ITAR)", Aliases: []string{"USML", "ITAR"},
				Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
		},
		Signature: []string{
			"Unit Cost (USD)",
			"Importation HTS Code",
			"Exportation HTS Code",
			"License Number (LCN)",
			"License Expiration date",
		},
		FilenameHints: []core.FilenameHint{
			{Pattern: regexp.MustCompile(`\brm\b|_rm|rmexample`), Priority: hintRawMaterial},
		},
	}
}
