package core

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
)

// Value is a single cell of a Record: null, a string, a number or a date.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindString, str: s} }

// Num wraps a number.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// DateOf wraps a calendar date. The time-of-day and location are dropped.
func DateOf(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the kind of value held.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether v is null or a whitespace-only string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && strings.TrimSpace(v.str) == "")
}

// Str returns the string held, or "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Float returns the number held.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Time returns the date held.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders v for messages and logs.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// MarshalText renders the value for JSON error reports.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Record is one logical row keyed by canonical field name. Absent keys read
// as null.
type Record map[string]Value

// Get returns the value for field, or null when absent.
func (r Record) Get(field string) Value {
	return r[field]
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRecords copies a record slice so the originals are left untouched.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
