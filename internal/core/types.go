package core

import (
	"regexp"
	"strings"
	"time"
)

// FieldType is the declared data type of a schema field.
type FieldType int

const (
	Alphanumeric FieldType = iota
	Numeric
	Date
)

// String returns the single-letter code used in layout documents.
func (t FieldType) String() string {
	switch t {
	case Numeric:
		return "N"
	case Date:
		return "D"
	default:
		return "A"
	}
}

// Requirement says whether a field must be populated.
type Requirement int

const (
	Mandatory   Requirement = iota
	Conditional             // if applies
	Optional
)

// String returns the requirement code: M, A (if applies) or O.
func (r Requirement) String() string {
	switch r {
	case Conditional:
		return "A"
	case Optional:
		return "O"
	default:
		return "M"
	}
}

// FieldRole attaches normalization and validation behavior to a field
// independent of its name.
type FieldRole int

const (
	RoleNone       FieldRole = iota
	RoleIdentifier           // upper-cased
	RoleHTS                  // tariff code, ####.##.####
	RoleCountry              // ISO alpha-2 country code
	RoleUOM                  // unit-of-measure code
	RoleNetCost              // CN or NO
)

// FieldSpec describes one element of a document schema.
type FieldSpec struct {
	Item           int       // 1-based ordinal, assigned by the registry when zero
	Name           string    // Canonical data element name, unique within a schema
	Aliases        []string  // Alternate header labels, in preference order
	Type           FieldType // Declared type
	Length         int       // Fixed-width byte length
	Start          int       // 0-indexed first byte, computed when End is zero
	End            int       // 0-indexed last byte (inclusive)
	Decimals       int       // Fractional digits rendered for numeric values
	Requirement    Requirement
	PossibleValues []string          // "CODE = Description" entries, nil if free-form
	Synonyms       map[string]string // Upper-cased input -> canonical value, applied before enum matching
	Role           FieldRole
	Filler         bool // Positional padding; not trimmed when parsed
}

// IsEnum reports whether the field has a closed value set.
func (f FieldSpec) IsEnum() bool {
	return len(f.PossibleValues) > 0
}

// Codes returns the code half of each possible value.
func (f FieldSpec) Codes() []string {
	codes := make([]string, 0, len(f.PossibleValues))
	for _, pv := range f.PossibleValues {
		code, _ := splitPossibleValue(pv)
		codes = append(codes, code)
	}
	return codes
}

// SearchTerms returns the canonical name followed by all aliases.
func (f FieldSpec) SearchTerms() []string {
	terms := make([]string, 0, len(f.Aliases)+1)
	terms = append(terms, f.Name)
	return append(terms, f.Aliases...)
}

var possibleValueSep = regexp.MustCompile(`\s*=\s*`)

func splitPossibleValue(pv string) (code, description string) {
	parts := possibleValueSep.Split(strings.TrimSpace(pv), 2)
	code = parts[0]
	if len(parts) > 1 {
		description = parts[1]
	}
	return code, description
}

// OutputFormat is a serializer output shape.
type OutputFormat string

const (
	FormatTXT OutputFormat = "txt" // fixed-width
	FormatCSV OutputFormat = "csv" // delimited
)

// Indicator is a binary Y/N field that gates a set of dependent fields.
// Dependents are blanked whenever the indicator is not "Y".
type Indicator struct {
	Field      string
	Dependents []string
}

// CSVColumn is one column of delimited output. The value comes from the first
// field in Fields that is populated on the record.
type CSVColumn struct {
	Header string
	Fields []string
}

// MetadataLabel maps a label cell found above the header row to a field.
// The value is read from the first populated cell to the right of the label.
type MetadataLabel struct {
	Label string
	Field string
}

// StructuralHint recognizes a spreadsheet template by its layout rather than
// by column coverage.
type StructuralHint struct {
	Labels       []string // any of these within LabelRows marks the template
	LabelRows    int
	Anchors      []string // all of these in one row within AnchorRows
	AnchorRows   int
	MinPopulated int // populated cells required on the anchor row
}

// FilenameHint suggests a document type from a lower-cased file name. The
// registry tries every hint by ascending Priority and only the first match
// counts.
type FilenameHint struct {
	Pattern  *regexp.Regexp
	Priority int
}

// OutputNameFunc names the output artifact for a converted document. Return
// "" to fall back to <basename>.<ext>.
type OutputNameFunc func(records []Record, base string, now time.Time) string

// Definition is a document type registry entry.
type Definition struct {
	DocType  string   // Canonical key, e.g. "rawMaterial"
	Label    string   // Display name
	Prefixes []string // Filename prefixes used for fallback classification

	Fields        []FieldSpec
	Formats       []OutputFormat // Allowed output formats
	DefaultFormat OutputFormat

	// Signature is the curated discriminator set used by the detector.
	Signature []string
	// FilenameHints match lower-cased file names that suggest this type.
	FilenameHints []FilenameHint
	// Structural, when set, lets the detector recognize the template layout.
	Structural *StructuralHint
	// HeaderScanRows > 0 searches that many rows for the header instead of
	// assuming row 1.
	HeaderScanRows int
	Metadata       []MetadataLabel

	Indicator  *Indicator
	Rules      []BusinessRule
	CSVColumns []CSVColumn
	OutputName OutputNameFunc

	index map[string]int
}

// Field returns the spec for a canonical field name.
func (d *Definition) Field(name string) (FieldSpec, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.Fields[i], true
}

// LineLength returns the fixed-width record length in bytes.
func (d *Definition) LineLength() int {
	if len(d.Fields) == 0 {
		return 0
	}
	return d.Fields[len(d.Fields)-1].End + 1
}

// MandatoryFields returns the names of all mandatory fields.
func (d *Definition) MandatoryFields() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Requirement == Mandatory {
			out = append(out, f.Name)
		}
	}
	return out
}

// AllowsFormat reports whether the type may be emitted in format.
func (d *Definition) AllowsFormat(format OutputFormat) bool {
	for _, f := range d.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ConversionStatus is the terminal state of a conversion.
type ConversionStatus string

const (
	StatusCompleted           ConversionStatus = "completed"
	StatusCompletedWithErrors ConversionStatus = "completed_with_errors"
	StatusFailed              ConversionStatus = "failed"
)

// ConversionResult is produced once per converted file.
type ConversionResult struct {
	FileName        string            `json:"fileName"`
	DocumentType    string            `json:"documentType,omitempty"`
	Format          OutputFormat      `json:"format,omitempty"`
	OutputPath      string            `json:"outputPath,omitempty"`
	ErrorReportPath string            `json:"errorReportPath,omitempty"`
	Status          ConversionStatus  `json:"status"`
	Records         int               `json:"records"`
	Errors          []ValidationError `json:"errors,omitempty"`
	Error           string            `json:"error,omitempty"` // Non-empty if Status is failed
	Duration        time.Duration     `json:"duration"`
}
