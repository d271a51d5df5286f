package tables

import (
	"regexp"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

// naftaDependents only carry meaning when NAFTA is "Y".
var naftaDependents = []string{
	"Preference Criterion",
	"Producer",
	"Net Cost",
	"Period (From)",
	"Period (To)",
}

// FinishedProduct is the finished goods catalog (FG), including the NAFTA
// origin block.
func FinishedProduct() core.Definition {
	return core.Definition{
		DocType:  "finishedProduct",
		Label:    "Finished Goods (FG)",
		Prefixes: []string{"FG"},
		Formats:  []core.OutputFormat{core.FormatTXT},
		Fields: []core.FieldSpec{
			{Name: "Part Number", Aliases: []string{"Part No", "Part #", "SKU", "Item Number", "FG Part Number"},
				Type: core.Alphanumeric, Length: 30, Requirement: core.Mandatory, Role: core.RoleIdentifier},
			{Name: "Description", Aliases: []string{"Desc", "Item Description", "Product Description"},
				Type: core.Alphanumeric, Length: 60, Requirement: core.Mandatory},
			{Name: "Unit Weight Lb.", Aliases: []string{"Weight", "Unit Weight", "Weight (LBS)", "LBS"},
				Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
			{Name: "Dutiable Value (USD)", Aliases: []string{"Dutiable Value", "Customs Value", "Declared Value (USD)"},
				Type: core.Numeric, Length: 17, Decimals: 8, Requirement: core.Mandatory},
			{Name: "Unit of measure", Aliases: []string{"UOM", "Unit"},
				Type: core.Alphanumeric, Length: 3, Requirement: core.Mandatory, Role: core.RoleUOM},
			{Name: "Country of Origin", Aliases: []string{"COO", "Origin", "Country"},
				Type: core.Alphanumeric, Length: 2, Requirement: core.Mandatory, Role: core.RoleCountry},
			{Name: "USA Importation HTS Code", Aliases: []string{"Importation HTS Code", "US IMP HTS Code", "HTS Import", "Import HTS"},
				Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
			{Name: "USA Exportation Code", Aliases: []string{"USA Exportation HTS Code", "US EXP HTS Code", "HTS Export", "Schedule B"},
				Type: core.Alphanumeric, Length: 12, Requirement: core.Mandatory, Role: core.RoleHTS},
			{Name: "ECCN", Aliases: []string{"ECCN Number"},
				Type: core.Alphanumeric, Length: 10, Requirement: core.Mandatory},
			{Name: "FDA Marker", Aliases: []string{"FDA", "FDA Flag"},
				Type: core.Alphanumeric, Length: 3, Requirement: core.Mandatory,
				PossibleValues: []string{
					"FD1 = Not regulated by FDA",
					"FD2 = Regulated by FDA",
					"FD3 = May be regulated by FDA",
					"FD4 = Regulated by FDA, data not required",
				}},
			{Name: "FDA Product Code", Aliases: []string{"FDA Code"},
				Type: core.Alphanumeric, Length: 20, Requirement: core.Conditional},
			{Name: "NAFTA", Aliases: []string{"USMCA", "T-MEC", "NAFTA Eligible"},
				Type: core.Alphanumeric, Length: 1, Requirement: core.Mandatory,
				PossibleValues: []string{"Y = Yes", "N = No"}},
			{Name: "Preference Criterion", Aliases: []string{"Preference", "Pref Criterion"},
				Type: core.Alphanumeric, Length: 1, Requirement: core.Conditional,
				PossibleValues: []string{"A", "B", "C", "D"}},
			{Name: "Producer", Aliases: []string{"Is Producer"},
				Type: core.Alphanumeric, Length: 6, Requirement: core.Conditional,
				PossibleValues: []string{"Yes", "No (1)", "No (2)", "No (3)"},
				Synonyms:       yesNo("Yes", "No (1)")},
			{Name: "Net Cost", Aliases: []string{"Net Cost Method"},
				Type: core.Alphanumeric, Length: 2, Requirement: core.Conditional, Role: core.RoleNetCost},
			{Name: "Period (From)", Aliases: []string{"Period From", "Blanket Period From"},
				Type: core.Date, Length: 8, Requirement: core.Conditional},
			{Name: "Period (To)", Aliases: []string{"Period To", "Blanket Period To"},
				Type: core.Date, Length: 8, Requirement: core.Conditional},
		},
		Signature: []string{
			"Dutiable Value (USD)",
			"USA Importation HTS Code",
			"USA Exportation Code",
			"FDA Marker",
			"NAFTA",
			"FDA Product Code",
			"Preference Criterion",
			"Net Cost",
			"Period (From)",
			"Period (To)",
		},
		FilenameHints: []core.FilenameHint{
			{Pattern: regexp.MustCompile(`\bfg\b|_fg|fgexample|finished.?good`), Priority: hintFinishedProduct},
		},
		Indicator: &core.Indicator{Field: "NAFTA", Dependents: naftaDependents},
		Rules: []core.BusinessRule{
			core.RequireWhen{When: "FDA Marker", Equals: "FD2", Field: "FDA Product Code"},
			core.RequireWhen{When: "NAFTA", Equals: "Y", Field: "Preference Criterion"},
			core.AllowedWhen{When: "NAFTA", Equals: "Y", Field: "Net Cost", Allowed: []string{"CN", "NO"}},
			core.RequireWhen{When: "NAFTA", Equals: "Y", Field: "Period (From)"},
			core.RequireWhen{When: "NAFTA", Equals: "Y", Field: "Period (To)"},
		},
	}
}
