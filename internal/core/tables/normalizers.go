package tables

import "strings"

// ShipmentPrefixes maps a packing list's shipment direction to the prefix of
// its output file name.
var ShipmentPrefixes = map[string]string{
	"southbound": "PI",
	"northbound": "PE",
	"scrap":      "PE",
}

// ShipmentPrefix returns the output prefix for a shipment direction.
// Unrecognized or blank directions are treated as exports.
func ShipmentPrefix(s string) string {
	if p, ok := ShipmentPrefixes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return "PE"
}

// yesNo maps free-form yes/no answers onto a field's canonical values.
func yesNo(yes, no string) map[string]string {
	return map[string]string{
		"YES": yes,
		"Y":   yes,
		"NO":  no,
		"N":   no,
	}
}
