// Package core provides the business logic for converting trade-compliance
// documents.
//
// This package is the heart of the converter, containing all domain logic
// independent of any UI or transport layer. It is used by the web handlers,
// the ingestion pipeline and the CLI without modification.
//
// # Architecture
//
// A conversion runs through a fixed sequence of stages:
//
//  1. [ParserFor] picks a parser by file extension (.xlsx/.xlsm, .csv, .txt)
//  2. The [Detector] scores registered document types against the headers,
//     unless the caller names the type
//  3. The parser maps headers to schema fields ([MapHeaders]) and yields
//     [Record] values keyed by canonical field name
//  4. The [Transformer] normalizes values (tariff codes, countries, units,
//     enum synonyms, dates)
//  5. The [Validator] collects every problem as a [ValidationError]
//  6. [Serialize] renders fixed-width lines or CSV
//
// [Converter.Convert] wires the stages together and writes the output and
// the JSON error report.
//
// # Document Registry
//
// Document types are declared as [Definition] values and collected in a
// [Registry]. Each definition lists its fields in output order:
//
//	core.Definition{
//	    DocType:  "rawMaterial",
//	    Prefixes: []string{"RM"},
//	    Formats:  []core.OutputFormat{core.FormatTXT},
//	    Fields: []core.FieldSpec{
//	        {Name: "Part Number", Aliases: []string{"SKU"}, Type: core.Alphanumeric,
//	            Length: 30, Requirement: core.Mandatory},
//	    },
//	}
//
// [NewRegistry] computes byte positions and rejects duplicate types or
// prefixes. The built-in definitions live in package tables.
//
// # Detection
//
// Candidates are ranked by a final score combining mandatory-field coverage,
// discriminator signature coverage and a [FilenameHintBonus]. The top
// candidate wins only when its mandatory-field coverage reaches
// [MinBaseScore]. Fixed-width text has no headers and is never detected from
// content.
//
// # Error Handling
//
// Fatal problems are sentinel errors ([ErrUnsupportedFormat],
// [ErrUnknownDocumentType], [ErrAmbiguousDocumentType], [ErrFormatNotAllowed],
// [ErrParse], [ErrEmptyFile]). Technical errors are mapped to user-friendly
// messages using [MapError]. Each category has a unique code for support
// reference:
//
//   - DOC001-DOC003: Document type errors
//   - FILE001-FILE005: File errors (size, format, readability)
//   - CONV001-CONV003: Conversion errors (busy, cancelled, timeout)
//   - JOB001: Job lookup errors
//
// Validation problems are data, not errors: they are returned in
// [ConversionResult.Errors] so a user can fix every problem in one pass.
package core
