package core

// validation.go checks transformed records before serialization.
//
// Validation happens in two passes:
//  1. Integrity: per record and field, mandatory presence, enum membership,
//     numeric/date shape, tariff-code format and catalog membership.
//  2. Business rules: cross-field conditions declared on the definition. This
//     pass runs only when the integrity pass found nothing, since the rules
//     assume structurally sound data.
//
// Problems are data, not Go errors: every problem is collected so one
// resubmission can fix them all. Row numbers are spreadsheet rows, with the
// header on row 1 and the first record on row 2.

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation error.
type ErrorKind string

const (
	KindIntegrity    ErrorKind = "Integrity"
	KindBusinessRule ErrorKind = "BusinessRule"
)

// ValidationError is a single problem found in the records.
type ValidationError struct {
	Kind     ErrorKind `json:"type"`
	Message  string    `json:"message"`
	Field    string    `json:"field,omitempty"`
	Row      int       `json:"row,omitempty"` // 0 for file-level problems
	Value    string    `json:"value,omitempty"`
	Expected []string  `json:"expected,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationOptions tunes the integrity pass.
type ValidationOptions struct {
	// AllowEmptyMandatory suppresses blank-mandatory errors for lenient runs.
	AllowEmptyMandatory bool
	// StrictUOM requires unit fields to hold catalog codes.
	StrictUOM bool
}

// Validator runs integrity and business-rule checks.
type Validator struct {
	countries CountryLookup
	units     UnitLookup
	opts      ValidationOptions
}

// NewValidator creates a validator using the given catalogs.
func NewValidator(countries CountryLookup, units UnitLookup, opts ValidationOptions) *Validator {
	return &Validator{countries: countries, units: units, opts: opts}
}

// Validate returns every problem found in records.
func (v *Validator) Validate(records []Record, def *Definition) []ValidationError {
	if len(records) == 0 {
		return []ValidationError{{
			Kind:    KindIntegrity,
			Message: "No records found to validate.",
		}}
	}

	var errs []ValidationError
	for i, rec := range records {
		errs = append(errs, v.checkIntegrity(rec, def, i+2)...)
	}
	if len(errs) > 0 {
		return errs
	}

	for i, rec := range records {
		for _, rule := range def.Rules {
			errs = append(errs, rule.Check(rec, i+2)...)
		}
	}
	return errs
}

func (v *Validator) checkIntegrity(rec Record, def *Definition, row int) []ValidationError {
	var errs []ValidationError
	add := func(f FieldSpec, val Value, msg string, expected []string) {
		errs = append(errs, ValidationError{
			Kind:     KindIntegrity,
			Message:  fmt.Sprintf("Row %d: %s", row, msg),
			Field:    f.Name,
			Row:      row,
			Value:    val.String(),
			Expected: expected,
		})
	}

	for _, f := range def.Fields {
		if f.Filler {
			continue
		}
		val := rec.Get(f.Name)

		if val.IsBlank() {
			if f.Requirement == Mandatory && !v.opts.AllowEmptyMandatory {
				add(f, val, fmt.Sprintf("%q is mandatory.", f.Name), nil)
			}
			continue
		}

		switch f.Type {
		case Numeric:
			if val.Kind() != KindNumber {
				add(f, val, fmt.Sprintf("%q must be numeric. Got %q.", f.Name, val.String()), nil)
				continue
			}
		case Date:
			if val.Kind() != KindDate {
				add(f, val, fmt.Sprintf("%q must be a valid date. Got %q.", f.Name, val.String()), []string{"YYYYMMDD"})
				continue
			}
		}

		s := strings.TrimSpace(val.String())

		if f.IsEnum() {
			codes := f.Codes()
			if !containsFold(codes, s) {
				add(f, val, fmt.Sprintf("%q must be one of: %s. Got %q.", f.Name, strings.Join(codes, ", "), s), codes)
				continue
			}
		}

		switch f.Role {
		case RoleHTS:
			if !htsFormatted.MatchString(s) {
				add(f, val, fmt.Sprintf("Field %q must match format ####.##.#### (e.g., 9019.10.9999). Got %q.", f.Name, s),
					[]string{"####.##.####"})
			}
		case RoleCountry:
			if v.countries != nil && !v.countries.Valid(s) {
				add(f, val, fmt.Sprintf("%q must be a valid 2-letter code from catalog. Got %q.", f.Name, s), nil)
			}
		case RoleUOM:
			if v.opts.StrictUOM && v.units != nil && !v.units.Valid(s) {
				add(f, val, fmt.Sprintf("%q must be a unit of measure code from catalog. Got %q.", f.Name, s), nil)
			}
		}
	}
	return errs
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
