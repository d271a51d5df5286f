package core

import (
	"fmt"
	"strings"
)

// BusinessRule is a cross-field check applied to one record.
type BusinessRule interface {
	Check(rec Record, row int) []ValidationError
}

// RequireWhen requires Field to be populated whenever When equals Equals.
type RequireWhen struct {
	When   string
	Equals string
	Field  string
}

// Check implements BusinessRule.
func (r RequireWhen) Check(rec Record, row int) []ValidationError {
	if !strings.EqualFold(strings.TrimSpace(rec.Get(r.When).String()), r.Equals) {
		return nil
	}
	if !rec.Get(r.Field).IsBlank() {
		return nil
	}
	return []ValidationError{{
		Kind:    KindBusinessRule,
		Message: fmt.Sprintf("Row %d: %q is mandatory when %q is %q.", row, r.Field, r.When, r.Equals),
		Field:   r.Field,
		Row:     row,
	}}
}

// AllowedWhen restricts Field to Allowed whenever When equals Equals. A blank
// Field is a violation.
type AllowedWhen struct {
	When    string
	Equals  string
	Field   string
	Allowed []string
}

// Check implements BusinessRule.
func (r AllowedWhen) Check(rec Record, row int) []ValidationError {
	if !strings.EqualFold(strings.TrimSpace(rec.Get(r.When).String()), r.Equals) {
		return nil
	}
	val := rec.Get(r.Field)
	got := strings.ToUpper(strings.TrimSpace(val.String()))
	for _, a := range r.Allowed {
		if got == strings.ToUpper(a) {
			return nil
		}
	}
	return []ValidationError{{
		Kind: KindBusinessRule,
		Message: fmt.Sprintf("Row %d: When %q is %q, %q must be %s. Got %q.",
			row, r.When, r.Equals, r.Field, quotedOr(r.Allowed), val.String()),
		Field:    r.Field,
		Row:      row,
		Value:    val.String(),
		Expected: append([]string(nil), r.Allowed...),
	}}
}

func quotedOr(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, " or ")
}
